package profile

import (
	"fmt"

	"prosumer_scenarios/internal/model"
)

// Factors are the multiplicative scale factors applied once to every
// freshly built profile.
type Factors struct {
	Inflexible float64
	Shiftable  float64
	EV         float64
}

// UnitFactors leaves a profile unchanged.
var UnitFactors = Factors{Inflexible: 1, Shiftable: 1, EV: 1}

// Scale returns a scaled copy of p. Inflexible load is multiplied by
// f.Inflexible, shiftable load magnitudes by f.Shiftable, and EV charge
// power, upper SoC bound and SoC at arrival by f.EV; energy demand is then
// recomputed. The lower SoC bound is left as built.
//
// A profile can be scaled only once.
func Scale(p model.DemandProfile, f Factors) (model.DemandProfile, error) {
	if p.Scaled {
		return model.DemandProfile{}, model.ConfigErrorf("bus %d: profile already scaled", p.Bus)
	}
	if f.Inflexible < 0 || f.Shiftable < 0 || f.EV < 0 {
		return model.DemandProfile{}, model.ConfigErrorf("bus %d: negative scale factor %+v", p.Bus, f)
	}

	s := p.Clone()
	mul(s.InflexibleLoad, f.Inflexible)
	mul(s.SL.Load, f.Shiftable)
	mul(s.EV.ChargePower, f.EV)
	mul(s.EV.SoCUpper, f.EV)
	mul(s.EV.SoCArrival, f.EV)

	if err := recomputeDemand(&s.EV); err != nil {
		return model.DemandProfile{}, model.DataShapeErrorf("bus %d: %v", p.Bus, err)
	}
	s.Scaled = true
	return s, nil
}

func mul(v []float64, k float64) {
	for i := range v {
		v[i] *= k
	}
}

// recomputeDemand is the single place EnergyDemand is derived.
func recomputeDemand(ev *model.EVFleet) error {
	ev.EnergyDemand = make([]float64, len(ev.SoCUpper))
	for i := range ev.SoCUpper {
		d := ev.SoCUpper[i] - ev.SoCArrival[i]
		if d < 0 {
			return fmt.Errorf("EV %d arrives above its upper SoC bound (%g > %g)", i+1, ev.SoCArrival[i], ev.SoCUpper[i])
		}
		ev.EnergyDemand[i] = d
	}
	return nil
}
