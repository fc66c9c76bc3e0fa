package solar

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"prosumer_scenarios/internal/model"
)

// Cell temperature model constants.
const (
	// NOCT is the nominal operating cell temperature (°C) at 800 W/m².
	NOCT = 45.0
	// TempCoefficient is the relative power change per °C above 25 °C.
	TempCoefficient = -0.004
	// ReferenceIrradiance maps a normalized irradiance of 1 to W/m².
	ReferenceIrradiance = 1000.0
)

// Panel weights spread the rated output of individual installations.
const (
	minPanelWeight = 0.8
	maxPanelWeight = 1.2
)

// ForecastRequest asks for the PV generation of one bus cluster. The result
// does not depend on the load base of the bus.
type ForecastRequest struct {
	Bus         int
	Irradiance  []float64
	OutsideTemp []float64 // °C, same length as Irradiance
	ClusterSize int
	PVProsumers []int // 1-based indices with installed panels
}

// IrradianceForecaster derives PV output from an irradiance series and the
// outside temperature.
//
// The result is a capacity-factor shape relative to the whole cluster: with
// every prosumer equipped and unit panel weights it peaks at the cell
// temperature derating of the sunniest step. Callers rescale it to their
// load base (see ScaleByPeakRatio).
type IrradianceForecaster struct {
	dist    distuv.Uniform
	weights map[int]map[int]float64 // bus -> prosumer -> panel weight
}

func NewIrradianceForecaster(src rand.Source) *IrradianceForecaster {
	return &IrradianceForecaster{
		dist:    distuv.Uniform{Min: minPanelWeight, Max: maxPanelWeight, Src: src},
		weights: make(map[int]map[int]float64),
	}
}

func (f *IrradianceForecaster) Forecast(req ForecastRequest) ([]float64, error) {
	if req.ClusterSize <= 0 {
		return nil, model.ConfigErrorf("bus %d: cluster size must be positive, got %d", req.Bus, req.ClusterSize)
	}
	if len(req.OutsideTemp) != len(req.Irradiance) {
		return nil, model.DataShapeErrorf("bus %d: %d temperature steps for %d irradiance steps", req.Bus, len(req.OutsideTemp), len(req.Irradiance))
	}

	out := make([]float64, len(req.Irradiance))
	if len(out) == 0 || floats.Max(req.Irradiance) <= 0 {
		return out, nil
	}

	var installed float64
	for _, i := range req.PVProsumers {
		if i < 1 || i > req.ClusterSize {
			return nil, model.DataShapeErrorf("bus %d: PV prosumer %d outside [1, %d]", req.Bus, i, req.ClusterSize)
		}
		installed += f.weight(req.Bus, i)
	}
	if installed == 0 {
		return out, nil
	}

	peak := floats.Max(req.Irradiance)
	share := installed / float64(req.ClusterSize)
	for t, g := range req.Irradiance {
		if g <= 0 {
			continue
		}
		g /= peak
		out[t] = share * g * Derating(g, req.OutsideTemp[t])
	}
	return out, nil
}

func (f *IrradianceForecaster) weight(bus, prosumer int) float64 {
	w, ok := f.weights[bus]
	if !ok {
		w = make(map[int]float64)
		f.weights[bus] = w
	}
	v, ok := w[prosumer]
	if !ok {
		v = f.dist.Rand()
		w[prosumer] = v
	}
	return v
}

// Derating returns the cell temperature efficiency factor for a normalized
// irradiance g and outside temperature in °C.
func Derating(g, outsideTemp float64) float64 {
	cell := outsideTemp + (NOCT-20)/800*ReferenceIrradiance*g
	eta := 1 + TempCoefficient*(cell-25)
	if eta < 0 {
		return 0
	}
	return eta
}

// ScaleByPeakRatio rescales a forecast so that a unit value corresponds to
// peakLoad x ratio.
func ScaleByPeakRatio(forecast []float64, peakLoad, ratio float64) []float64 {
	out := make([]float64, len(forecast))
	copy(out, forecast)
	floats.Scale(peakLoad*ratio, out)
	return out
}
