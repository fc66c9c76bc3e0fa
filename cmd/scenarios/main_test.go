package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"prosumer_scenarios/internal/config"
	"prosumer_scenarios/internal/ingest"
	"prosumer_scenarios/internal/model"
	"prosumer_scenarios/internal/network"
	"prosumer_scenarios/internal/stats"
)

const horizon = 4

// writeProject lays out a network workbook and three prosumer clusters of
// two prosumers each under dir.
func writeProject(t *testing.T, dir string) config.Config {
	t.Helper()

	wbPath := filepath.Join(dir, "grid.xlsx")
	f := excelize.NewFile()
	_, err := f.NewSheet(model.SheetStructure)
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow(model.SheetStructure, "A1", &[]any{"Node", model.ColDA}))
	require.NoError(t, f.SetSheetRow(model.SheetStructure, "A2", &[]any{1, 1}))
	require.NoError(t, f.SetSheetRow(model.SheetStructure, "A3", &[]any{2, 1}))
	require.NoError(t, f.SetSheetRow(model.SheetStructure, "A4", &[]any{3, 2}))
	require.NoError(t, f.SaveAs(wbPath))
	require.NoError(t, f.Close())

	dataDir := filepath.Join(dir, "prosumers")
	for c := 1; c <= 3; c++ {
		clusterDir := filepath.Join(dataDir, fmt.Sprint(c))
		require.NoError(t, os.MkdirAll(clusterDir, 0o755))

		var inf, occ strings.Builder
		inf.WriteString("p1,p2\n")
		occ.WriteString("o1,o2\n")
		for i := 0; i < horizon; i++ {
			fmt.Fprintf(&inf, "%d,%d\n", i+c, i)
			occ.WriteString("1,1\n")
		}
		schedule := strings.Join(model.ScheduleColumns, ",") + "\n" +
			"0,3,7.0,1.0,40.0,10.0,2.0,0,3,2,2.5,10.0,3.0,2.0,0.5,19.0,23.0\n" +
			"1,2,11.0,2.0,60.0,20.0,1.0,1,2,1,2.5,10.0,3.0,2.0,0.5,19.0,23.0\n"

		require.NoError(t, os.WriteFile(filepath.Join(clusterDir, ingest.InflexibleFile), []byte(inf.String()), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(clusterDir, ingest.OccupancyFile), []byte(occ.String()), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(clusterDir, ingest.ScheduleFile), []byte(schedule), 0o644))
	}

	cfg := config.Default()
	cfg.Horizon = horizon
	cfg.Prosumers = 2
	cfg.LoadMultiply = map[int]float64{1: 100, 2: 100, 3: 50}
	cfg.Irradiance = []float64{0, 500, 1000, 0}
	cfg.OutsideTemp = []float64{10, 15, 20, 12}
	cfg.NetworkData = wbPath
	cfg.DataDir = dataDir
	cfg.ResultsPath = filepath.Join(dir, "Results")
	return cfg
}

func TestGenerator_DerivesAggregators(t *testing.T) {
	cfg := writeProject(t, t.TempDir())

	gen, err := newGenerator(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []model.Aggregator{{ID: 1, Buses: []int{1, 2}}, {ID: 2, Buses: []int{3}}}, gen.cfg.Aggregators)
	assert.Equal(t, 3, gen.buses())
}

func TestGenerator_Generate(t *testing.T) {
	cfg := writeProject(t, t.TempDir())
	gen, err := newGenerator(cfg, zap.NewNop())
	require.NoError(t, err)

	seed := uint64(11)
	set, err := gen.Generate(context.Background(), &seed)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, set.StrategicNodes)
	assert.Equal(t, []int{1, 2, 3}, set.BusOrder)
	rec, ok := set.Scenario("scenario1")
	require.True(t, ok)
	for _, bus := range set.BusOrder {
		assert.Len(t, rec.V2GCapable[bus], 1)
		assert.Len(t, rec.PVCapable[bus], 1)
		assert.Len(t, rec.SolarForecast[bus], horizon)
	}
	assert.Equal(t, 2, rec.Profiles[3].AggregatorID)

	_, err = os.Stat(stats.NewCSVWriter(cfg.ResultsPath).Path())
	assert.NoError(t, err)

	again, err := gen.Generate(context.Background(), &seed)
	require.NoError(t, err)
	assert.Equal(t, rec.V2GCapable, again.Scenarios[0].V2GCapable)
	assert.Equal(t, rec.SolarForecast, again.Scenarios[0].SolarForecast)
	assert.NotEqual(t, set.RunID, again.RunID)
}

func TestGenerator_MissingWorkbook(t *testing.T) {
	cfg := config.Default()
	cfg.NetworkData = filepath.Join(t.TempDir(), "missing.xlsx")

	_, err := newGenerator(cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading network topology")
}

func TestPrintScenarioSet(t *testing.T) {
	cfg := writeProject(t, t.TempDir())
	gen, err := newGenerator(cfg, zap.NewNop())
	require.NoError(t, err)
	seed := uint64(3)
	set, err := gen.Generate(context.Background(), &seed)
	require.NoError(t, err)

	var buf bytes.Buffer
	printScenarioSet(&buf, set)
	out := buf.String()

	assert.Contains(t, out, set.RunID.String())
	assert.Contains(t, out, "Strategic nodes: 1, 2")
	assert.Contains(t, out, "scenario1")
	assert.Contains(t, out, "Inflex MW")
}

func TestPrintAggregators(t *testing.T) {
	var buf bytes.Buffer
	printAggregators(&buf, []model.Aggregator{{ID: 1, Buses: []int{1, 4}}, {ID: 3}}, 6)

	assert.Equal(t, "6 nodes, 2 aggregators\n  DA 1: 1, 4\n  DA 3: -\n", buf.String())
}

func TestPrintPriceCurves(t *testing.T) {
	var buf bytes.Buffer
	printPriceCurves(&buf, network.PriceCurves{
		Offers: map[int][]float64{2: {10, 12.5}, 1: {9}},
		Bids:   map[int][]float64{2: {8, 7}, 1: {6}},
	})

	out := buf.String()
	assert.Less(t, strings.Index(out, "Bus 1"), strings.Index(out, "Bus 2"))
	assert.Contains(t, out, "  offers: 10.00 12.50\n")
	assert.Contains(t, out, "  bids:   8.00 7.00\n")
}

func TestLoadConfig_Default(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, config.Default().Horizon, cfg.Horizon)
}
