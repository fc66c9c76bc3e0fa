package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gopkg.in/cheggaaa/pb.v1"

	"prosumer_scenarios/internal/config"
	"prosumer_scenarios/internal/ingest"
	"prosumer_scenarios/internal/metrics"
	"prosumer_scenarios/internal/model"
	"prosumer_scenarios/internal/network"
	"prosumer_scenarios/internal/scenario"
	"prosumer_scenarios/internal/solar"
	"prosumer_scenarios/internal/stats"
	"prosumer_scenarios/internal/ws"
)

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// readTopology opens the network workbook and reads the aggregator structure.
func readTopology(cfg config.Config) (*network.Topology, error) {
	wb, err := ingest.OpenWorkbook(cfg.NetworkData)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	t, err := wb.Sheet(model.SheetStructure)
	if err != nil {
		return nil, err
	}
	return network.NewTopology(t)
}

// generator wires the file-backed collaborators into an Assembler. Each call
// builds a fresh assembler with its own random source.
type generator struct {
	cfg      config.Config
	topo     *network.Topology
	log      *zap.Logger
	plotter  scenario.Plotter
	metrics  *metrics.Collector
	progress bool
}

func newGenerator(cfg config.Config, log *zap.Logger) (*generator, error) {
	topo, err := readTopology(cfg)
	if err != nil {
		return nil, fmt.Errorf("reading network topology: %w", err)
	}
	if len(cfg.Aggregators) == 0 {
		cfg.Aggregators = topo.Aggregators()
		log.Info("aggregators derived from network structure", zap.Int("count", len(cfg.Aggregators)))
	}
	return &generator{cfg: cfg, topo: topo, log: log}, nil
}

func (g *generator) buses() int {
	n := 0
	for _, a := range g.cfg.Aggregators {
		n += len(a.Buses)
	}
	return n
}

func (g *generator) Generate(ctx context.Context, seed *uint64) (*model.ScenarioSet, error) {
	if seed == nil {
		seed = g.cfg.Seed
	}
	var s uint64
	if seed != nil {
		s = *seed
	} else {
		s = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))

	opts := []scenario.Option{
		scenario.WithLogger(g.log),
		scenario.WithRand(rng),
	}
	var bar *pb.ProgressBar
	if g.progress {
		bar = pb.StartNew(g.buses())
		bar.ShowTimeLeft = false
		opts = append(opts, scenario.WithProgress(func(int) { bar.Increment() }))
	}

	a := scenario.NewAssembler(g.cfg, scenario.Deps{
		Loader:     ingest.NewClusterLoader(g.cfg.DataDir),
		Nodes:      g.topo,
		Forecaster: solar.NewIrradianceForecaster(rng),
		Plotter:    g.plotter,
		Stats:      stats.NewCSVWriter(g.cfg.ResultsPath),
	}, opts...)

	set, err := a.Assemble(ctx)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		if g.metrics != nil {
			g.metrics.Failed()
		}
		return nil, err
	}
	if g.metrics != nil {
		g.metrics.Observe(set)
	}
	g.log.Info("scenario set generated",
		zap.String("run_id", set.RunID.String()),
		zap.Uint64("seed", s))
	return set, nil
}

func runGenerate(ctx context.Context, g globalFlags, seed *uint64, progress bool) error {
	log, err := newLogger(g.debug)
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg, err := loadConfig(g.configPath)
	if err != nil {
		return err
	}
	gen, err := newGenerator(cfg, log)
	if err != nil {
		return err
	}
	gen.progress = progress

	set, err := gen.Generate(ctx, seed)
	if err != nil {
		return err
	}

	printScenarioSet(os.Stdout, set)
	fmt.Printf("\nStatistics written to %s\n", stats.NewCSVWriter(cfg.ResultsPath).Path())
	return nil
}

func runServe(ctx context.Context, g globalFlags, addr string) error {
	log, err := newLogger(g.debug)
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg, err := loadConfig(g.configPath)
	if err != nil {
		return err
	}
	gen, err := newGenerator(cfg, log)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	gen.metrics = metrics.NewCollector(reg)

	hub := ws.NewHub()
	gen.plotter = ws.NewBridge(hub)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	initial, err := gen.Generate(ctx, nil)
	if err != nil {
		return err
	}
	handler := ws.NewHandler(hub, gen, initial)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("/ws", handler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()

	log.Info("starting server", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func runPrices(g globalFlags) error {
	cfg, err := loadConfig(g.configPath)
	if err != nil {
		return err
	}
	wb, err := ingest.OpenWorkbook(cfg.NetworkData)
	if err != nil {
		return err
	}
	defer wb.Close()

	t, err := wb.Sheet(model.SheetPriceCurves)
	if err != nil {
		return err
	}
	pc, err := network.ReadPriceCurves(t, cfg.Horizon)
	if err != nil {
		return err
	}
	printPriceCurves(os.Stdout, pc)
	return nil
}

func runNodes(g globalFlags, aggregator *int) error {
	cfg, err := loadConfig(g.configPath)
	if err != nil {
		return err
	}
	topo, err := readTopology(cfg)
	if err != nil {
		return err
	}

	if aggregator != nil {
		nodes, err := topo.StrategicNodes(*aggregator)
		if err != nil {
			return err
		}
		printAggregators(os.Stdout, []model.Aggregator{{ID: *aggregator, Buses: nodes}}, topo.Nodes())
		return nil
	}
	printAggregators(os.Stdout, topo.Aggregators(), topo.Nodes())
	return nil
}
