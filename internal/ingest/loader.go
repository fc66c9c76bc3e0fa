package ingest

import (
	"fmt"
	"os"
	"path/filepath"

	"prosumer_scenarios/internal/model"
)

// File names inside a cluster directory.
const (
	InflexibleFile = "inflexible.csv"
	ScheduleFile   = "schedule.csv"
	OccupancyFile  = "occupancy.csv"
)

// LoadRequest identifies one cluster of raw prosumer data and the base
// values used to normalize it.
type LoadRequest struct {
	ClusterID   string
	Multiplier  float64
	ClusterSize int
	MVA         float64
	Conversion  float64
}

// ClusterLoader reads raw cluster tables from Dir/<ClusterID>/.
//
// inflexible.csv holds one row per time step and one kW column per metered
// prosumer; the loader converts it to per-unit. schedule.csv holds one row
// per prosumer with the columns of model.ScheduleColumns in raw units.
// occupancy.csv holds one row per time step and is passed through.
// Parser reads every file; NewClusterLoader sets a comma-separated one.
type ClusterLoader struct {
	Dir    string
	Parser Parser
}

func NewClusterLoader(dir string) *ClusterLoader {
	return &ClusterLoader{Dir: dir, Parser: &CSVParser{}}
}

func (l *ClusterLoader) Load(req LoadRequest) (model.RawTables, error) {
	base := req.Conversion * req.MVA
	if base == 0 {
		return model.RawTables{}, model.ConfigErrorf("conversion metric x MVA is zero")
	}
	dir := filepath.Join(l.Dir, req.ClusterID)

	inflexible, err := l.readMatrix(filepath.Join(dir, InflexibleFile))
	if err != nil {
		return model.RawTables{}, err
	}
	scale := req.Multiplier / base
	for _, row := range inflexible {
		for i := range row {
			row[i] *= scale
		}
	}

	scheduleTable, err := l.readTable(filepath.Join(dir, ScheduleFile))
	if err != nil {
		return model.RawTables{}, err
	}
	schedule, err := ParseSchedule(scheduleTable)
	if err != nil {
		return model.RawTables{}, fmt.Errorf("parsing %s: %w", filepath.Join(dir, ScheduleFile), err)
	}

	occupancy, err := l.readMatrix(filepath.Join(dir, OccupancyFile))
	if err != nil {
		return model.RawTables{}, err
	}

	return model.RawTables{
		Inflexible: inflexible,
		Schedule:   schedule,
		Occupancy:  occupancy,
	}, nil
}

func (l *ClusterLoader) readTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	t, err := l.Parser.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return t, nil
}

func (l *ClusterLoader) readMatrix(path string) ([][]float64, error) {
	t, err := l.readTable(path)
	if err != nil {
		return nil, err
	}
	m, err := t.FloatMatrix()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return m, nil
}
