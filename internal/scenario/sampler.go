package scenario

import (
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/stat/sampleuv"

	"prosumer_scenarios/internal/model"
	"prosumer_scenarios/internal/solar"
)

// Forecaster produces the PV generation of the PV-capable prosumers of one
// bus, one value per time step.
type Forecaster interface {
	Forecast(req solar.ForecastRequest) ([]float64, error)
}

// BusRequest holds what the sampler needs to know about one bus.
type BusRequest struct {
	Bus         int
	Rates       model.BusRates
	ClusterSize int
	PeakLoad    float64 // max of the scaled inflexible load
	Horizon     int
	Irradiance  []float64
	OutsideTemp []float64
}

// BusSample is the sampled capability and generation of one bus.
type BusSample struct {
	V2G      []int
	PV       []int
	Forecast []float64
}

// Sampler draws V2G/PV capable prosumers and the matching solar forecast.
// It is not safe for concurrent use; give each goroutine its own Sampler.
type Sampler struct {
	rng        *rand.Rand
	forecaster Forecaster
	resFactor  float64
}

func NewSampler(rng *rand.Rand, f Forecaster, resFactor float64) *Sampler {
	return &Sampler{rng: rng, forecaster: f, resFactor: resFactor}
}

// Sample draws the V2G and PV subsets independently, so they may overlap.
func (s *Sampler) Sample(req BusRequest) (BusSample, error) {
	v2g, err := s.Draw(req.Rates.V2G, req.ClusterSize)
	if err != nil {
		return BusSample{}, err
	}
	pv, err := s.Draw(req.Rates.PV, req.ClusterSize)
	if err != nil {
		return BusSample{}, err
	}

	forecast, err := s.forecaster.Forecast(solar.ForecastRequest{
		Bus:         req.Bus,
		Irradiance:  req.Irradiance,
		OutsideTemp: req.OutsideTemp,
		ClusterSize: req.ClusterSize,
		PVProsumers: pv,
	})
	if err != nil {
		return BusSample{}, err
	}
	if len(forecast) != req.Horizon {
		return BusSample{}, model.DataShapeErrorf("bus %d: forecast has %d steps, horizon is %d", req.Bus, len(forecast), req.Horizon)
	}

	scaled := solar.ScaleByPeakRatio(forecast, req.PeakLoad, req.Rates.PeakRESLoadRatio*s.resFactor)
	return BusSample{V2G: v2g, PV: pv, Forecast: scaled}, nil
}

// Draw returns floor(rate x n) distinct prosumer indices from 1..n, sorted.
func (s *Sampler) Draw(rate float64, n int) ([]int, error) {
	if n <= 0 {
		return nil, model.ConfigErrorf("cluster size must be positive, got %d", n)
	}
	if rate < 0 || rate > 1 || math.IsNaN(rate) {
		return nil, model.ConfigErrorf("penetration rate %g outside [0, 1]", rate)
	}

	k := int(math.Floor(rate * float64(n)))
	if k == 0 {
		return []int{}, nil
	}
	idx := make([]int, k)
	sampleuv.WithoutReplacement(idx, n, s.rng)
	for i := range idx {
		idx[i]++
	}
	slices.Sort(idx)
	return idx, nil
}
