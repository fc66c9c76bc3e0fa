package stats

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"prosumer_scenarios/internal/model"
)

// FileName is the artifact written into the results directory.
const FileName = "DAs_general_info.csv"

// CSVWriter persists summary statistics under Dir, creating it if needed.
type CSVWriter struct {
	Dir string
}

func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{Dir: dir}
}

// Path returns the location of the artifact.
func (w *CSVWriter) Path() string {
	return filepath.Join(w.Dir, FileName)
}

func (w *CSVWriter) WriteStats(rows []model.BusStats) error {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return fmt.Errorf("creating results directory: %w", err)
	}

	f, err := os.Create(w.Path())
	if err != nil {
		return fmt.Errorf("creating %s: %w", w.Path(), err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(model.StatsColumns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			formatFloat(r.InflexibleTotal),
			formatFloat(r.EVTotal),
			formatFloat(r.ShiftableTotal),
			formatFloat(r.InflexiblePeak),
			formatFloat(r.EVPeak),
			formatFloat(r.ShiftablePeak),
			strconv.Itoa(r.AggregatorID),
			strconv.Itoa(r.Bus),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing bus %d: %w", r.Bus, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", w.Path(), err)
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
