package model

import (
	"time"

	"github.com/google/uuid"
)

// Aggregator is a demand aggregator (DA) and the buses it controls.
type Aggregator struct {
	ID    int   `yaml:"id" json:"id"`
	Buses []int `yaml:"buses" json:"buses"`
}

// BusRates are the scenario parameters applied to one bus.
type BusRates struct {
	V2G              float64 `yaml:"v2g_rate" json:"v2g_rate"`
	PV               float64 `yaml:"pv_rate" json:"pv_rate"`
	PeakRESLoadRatio float64 `yaml:"peak_res_load_ratio" json:"peak_res_load_ratio"`
}

// ScenarioRecord is one sampled scenario. Records are not modified after
// assembly; Profiles are private deep copies of the template cache.
type ScenarioRecord struct {
	ID            int
	Name          string
	Profiles      map[int]DemandProfile
	V2GCapable    map[int][]int
	PVCapable     map[int][]int
	SolarForecast map[int][]float64
	Rates         map[int]BusRates
}

// BusStats is one row of the summary statistics artifact, in MW.
type BusStats struct {
	InflexibleTotal float64
	EVTotal         float64
	ShiftableTotal  float64
	InflexiblePeak  float64
	EVPeak          float64
	ShiftablePeak   float64
	AggregatorID    int
	Bus             int
}

// ScenarioSet is the output of one generation run.
type ScenarioSet struct {
	RunID          uuid.UUID
	GeneratedAt    time.Time
	StrategicNodes []int
	BusOrder       []int
	Templates      map[int]DemandProfile
	Scenarios      []ScenarioRecord
	Stats          []BusStats
}

// Scenario returns the record with the given name.
func (s *ScenarioSet) Scenario(name string) (ScenarioRecord, bool) {
	for _, r := range s.Scenarios {
		if r.Name == name {
			return r, true
		}
	}
	return ScenarioRecord{}, false
}
