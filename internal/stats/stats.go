// Package stats derives per-bus load totals from the template profiles and
// persists them as a CSV artifact.
package stats

import (
	"gonum.org/v1/gonum/floats"

	"prosumer_scenarios/internal/model"
)

// Compute returns one row per profile, converting per-unit quantities to MW
// by multiplying with mva. Shiftable totals count each load for its full
// cycle. The shiftable peak (MAX_SL_loads) is the largest single load
// magnitude, not multiplied by its cycle length.
func Compute(profiles []model.DemandProfile, mva float64) []model.BusStats {
	rows := make([]model.BusStats, 0, len(profiles))
	for _, p := range profiles {
		slEnergy := make([]float64, len(p.SL.Load))
		for i, l := range p.SL.Load {
			slEnergy[i] = l * float64(p.SL.Cycle[i])
		}

		rows = append(rows, model.BusStats{
			InflexibleTotal: floats.Sum(p.InflexibleLoad) * mva,
			InflexiblePeak:  max0(p.InflexibleLoad) * mva,
			EVTotal:         floats.Sum(p.EV.EnergyDemand) * mva,
			EVPeak:          max0(p.EV.EnergyDemand) * mva,
			ShiftableTotal:  floats.Sum(slEnergy) * mva,
			ShiftablePeak:   max0(p.SL.Load) * mva,
			AggregatorID:    p.AggregatorID,
			Bus:             p.Bus,
		})
	}
	return rows
}

func max0(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return floats.Max(v)
}
