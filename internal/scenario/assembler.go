// Package scenario samples V2G/PV capable prosumers per bus and assembles
// the per-bus demand profiles into named scenarios.
package scenario

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"prosumer_scenarios/internal/config"
	"prosumer_scenarios/internal/ingest"
	"prosumer_scenarios/internal/model"
	"prosumer_scenarios/internal/profile"
	"prosumer_scenarios/internal/stats"
)

// ProfileLoader returns the raw tables of one prosumer cluster.
type ProfileLoader interface {
	Load(req ingest.LoadRequest) (model.RawTables, error)
}

// NodeResolver finds the nodes controlled by an aggregator.
type NodeResolver interface {
	StrategicNodes(aggregatorID int) ([]int, error)
}

// Plotter receives the profiles of each assembled scenario.
type Plotter interface {
	Plot(profiles map[int]model.DemandProfile, scenarioID int)
}

// StatsSink persists the summary statistics of a run.
type StatsSink interface {
	WriteStats(rows []model.BusStats) error
}

// Deps are the collaborators of an Assembler. Plotter and Stats are
// optional.
type Deps struct {
	Loader     ProfileLoader
	Nodes      NodeResolver
	Forecaster Forecaster
	Plotter    Plotter
	Stats      StatsSink
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger; the default discards output.
func WithLogger(l *zap.Logger) Option {
	return func(a *Assembler) { a.log = l }
}

// WithRand sets the random source used for sampling. Without it the
// Assembler seeds one from the runtime.
func WithRand(r *rand.Rand) Option {
	return func(a *Assembler) { a.rng = r }
}

// WithProgress registers a callback invoked after each bus profile is loaded.
func WithProgress(fn func(bus int)) Option {
	return func(a *Assembler) { a.progress = fn }
}

// Assembler builds the template profile cache and the scenario records.
type Assembler struct {
	cfg      config.Config
	deps     Deps
	log      *zap.Logger
	rng      *rand.Rand
	progress func(bus int)
}

func NewAssembler(cfg config.Config, deps Deps, opts ...Option) *Assembler {
	a := &Assembler{
		cfg:      cfg,
		deps:     deps,
		log:      zap.NewNop(),
		progress: func(int) {},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return a
}

// Assemble runs the whole pipeline. Any error aborts the batch; no partial
// set is returned.
func (a *Assembler) Assemble(ctx context.Context) (*model.ScenarioSet, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	if a.deps.Loader == nil || a.deps.Nodes == nil || a.deps.Forecaster == nil {
		return nil, model.ConfigErrorf("loader, node resolver and forecaster are required")
	}
	if len(a.cfg.Aggregators) == 0 {
		return nil, model.ConfigErrorf("no demand aggregators configured")
	}

	nodes, err := a.deps.Nodes.StrategicNodes(a.cfg.StrategicDA)
	if err != nil {
		return nil, fmt.Errorf("resolving strategic nodes: %w", err)
	}
	if len(nodes) == 0 {
		return nil, model.ConfigErrorf("strategic aggregator %d controls no nodes", a.cfg.StrategicDA)
	}
	a.log.Info("resolved strategic nodes",
		zap.Int("aggregator", a.cfg.StrategicDA),
		zap.Ints("nodes", nodes))

	templates, order, err := a.LoadTemplates(ctx)
	if err != nil {
		return nil, err
	}

	set := &model.ScenarioSet{
		RunID:          uuid.New(),
		GeneratedAt:    time.Now().UTC(),
		StrategicNodes: nodes,
		BusOrder:       order,
		Templates:      templates,
	}

	sampler := NewSampler(a.rng, a.deps.Forecaster, a.cfg.RESFactor)
	for _, sc := range a.cfg.Scenarios {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := a.buildScenario(sc, sampler, templates, order)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sc.Name(), err)
		}
		if a.cfg.PlotSimulationInfo && a.deps.Plotter != nil {
			a.deps.Plotter.Plot(rec.Profiles, rec.ID)
		}
		set.Scenarios = append(set.Scenarios, rec)
	}

	ordered := make([]model.DemandProfile, len(order))
	for i, bus := range order {
		ordered[i] = templates[bus]
	}
	set.Stats = stats.Compute(ordered, a.cfg.MVA)
	if a.deps.Stats != nil {
		if err := a.deps.Stats.WriteStats(set.Stats); err != nil {
			return nil, fmt.Errorf("writing statistics: %w", err)
		}
	}
	for _, s := range set.Stats {
		a.log.Debug("bus statistics",
			zap.Int("bus", s.Bus),
			zap.Int("aggregator", s.AggregatorID),
			zap.Float64("inflexible_mw", s.InflexibleTotal),
			zap.Float64("ev_mw", s.EVTotal),
			zap.Float64("shiftable_mw", s.ShiftableTotal))
	}

	a.log.Info("scenario set assembled",
		zap.String("run_id", set.RunID.String()),
		zap.Int("buses", len(order)),
		zap.Int("scenarios", len(set.Scenarios)))
	return set, nil
}

// LoadTemplates loads, builds and scales the profile of every bus, in
// aggregator order. Clusters are numbered from 1 in that order.
func (a *Assembler) LoadTemplates(ctx context.Context) (map[int]model.DemandProfile, []int, error) {
	templates := make(map[int]model.DemandProfile)
	var order []int
	cluster := 1

	for _, agg := range a.cfg.Aggregators {
		for _, bus := range agg.Buses {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
			mult, ok := a.cfg.LoadMultiply[bus]
			if !ok {
				return nil, nil, model.MissingProfileErrorf("bus %d of aggregator %d has no load multiplier", bus, agg.ID)
			}

			raw, err := a.deps.Loader.Load(ingest.LoadRequest{
				ClusterID:   strconv.Itoa(cluster),
				Multiplier:  mult,
				ClusterSize: a.cfg.Prosumers,
				MVA:         a.cfg.MVA,
				Conversion:  a.cfg.ConversionMetric,
			})
			if err != nil {
				return nil, nil, fmt.Errorf("loading bus %d: %w", bus, err)
			}

			built, err := profile.Build(profile.Input{
				AggregatorID: agg.ID,
				Bus:          bus,
				Multiplier:   mult,
				ClusterSize:  a.cfg.Prosumers,
				Horizon:      a.cfg.Horizon,
				MVA:          a.cfg.MVA,
				Conversion:   a.cfg.ConversionMetric,
			}, raw)
			if err != nil {
				return nil, nil, err
			}
			scaled, err := profile.Scale(built, a.cfg.Factors())
			if err != nil {
				return nil, nil, err
			}

			templates[bus] = scaled
			order = append(order, bus)
			a.log.Debug("loaded bus profile",
				zap.Int("bus", bus),
				zap.Int("aggregator", agg.ID),
				zap.Int("cluster", cluster),
				zap.Float64("peak_inflexible_pu", scaled.PeakInflexible()))
			a.progress(bus)
			cluster++
		}
	}
	return templates, order, nil
}

func (a *Assembler) buildScenario(sc config.Scenario, sampler *Sampler, templates map[int]model.DemandProfile, order []int) (model.ScenarioRecord, error) {
	rec := model.ScenarioRecord{
		ID:            sc.ID,
		Name:          sc.Name(),
		Profiles:      make(map[int]model.DemandProfile, len(order)),
		V2GCapable:    make(map[int][]int, len(order)),
		PVCapable:     make(map[int][]int, len(order)),
		SolarForecast: make(map[int][]float64, len(order)),
		Rates:         make(map[int]model.BusRates, len(order)),
	}

	for _, bus := range order {
		tmpl, ok := templates[bus]
		if !ok {
			return model.ScenarioRecord{}, model.MissingProfileErrorf("bus %d has no cached profile", bus)
		}
		p := tmpl.Clone()
		rates := sc.RatesFor(bus)

		sample, err := sampler.Sample(BusRequest{
			Bus:         bus,
			Rates:       rates,
			ClusterSize: a.cfg.Prosumers,
			PeakLoad:    p.PeakInflexible(),
			Horizon:     a.cfg.Horizon,
			Irradiance:  a.cfg.Irradiance,
			OutsideTemp: a.cfg.OutsideTemp,
		})
		if err != nil {
			return model.ScenarioRecord{}, fmt.Errorf("sampling bus %d: %w", bus, err)
		}

		rec.Profiles[bus] = p
		rec.V2GCapable[bus] = sample.V2G
		rec.PVCapable[bus] = sample.PV
		rec.SolarForecast[bus] = sample.Forecast
		rec.Rates[bus] = rates

		a.log.Debug("sampled bus",
			zap.String("scenario", rec.Name),
			zap.Int("bus", bus),
			zap.Int("v2g", len(sample.V2G)),
			zap.Int("pv", len(sample.PV)))
	}
	return rec, nil
}
