// Package config loads the scenario generation settings from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"prosumer_scenarios/internal/model"
	"prosumer_scenarios/internal/profile"
)

// Config holds every setting of a generation run. Zero-valued YAML fields
// keep the values of Default.
type Config struct {
	Horizon          int             `yaml:"horizon"`
	MVA              float64         `yaml:"mva"`
	ConversionMetric float64         `yaml:"conversion_metric"`
	Prosumers        int             `yaml:"prosumers"`
	LoadMultiply     map[int]float64 `yaml:"load_multiply"`

	RESFactor            float64 `yaml:"inf_res_factor"`
	InflexibleLoadFactor float64 `yaml:"inflexible_load_factor"`
	SLLoadsFactor        float64 `yaml:"sl_loads_factor"`
	EVLoadsFactor        float64 `yaml:"ev_loads_factor"`

	Irradiance  []float64 `yaml:"irradiance"`
	OutsideTemp []float64 `yaml:"outside_temp"`

	NetworkData string `yaml:"network_data"`
	DataDir     string `yaml:"data_dir"`
	ResultsPath string `yaml:"results_path"`

	StrategicDA int                `yaml:"strategic_da"`
	Aggregators []model.Aggregator `yaml:"aggregators"`
	Scenarios   []Scenario         `yaml:"scenarios"`

	PlotSimulationInfo bool    `yaml:"plot_simulation_info"`
	Seed               *uint64 `yaml:"seed,omitempty"`

	// Carried for downstream models; scenario generation does not read them.
	EVTimeFlexibility int `yaml:"evs_time_flexibility"`
	SLTimeFlexibility int `yaml:"sl_time_flexibility"`
}

// Scenario defines the penetration rates of one scenario. Buses overrides
// the defaults for individual buses.
type Scenario struct {
	ID             int `yaml:"id"`
	model.BusRates `yaml:",inline"`
	Buses          map[int]model.BusRates `yaml:"buses,omitempty"`
}

// Name is the key the scenario is published under.
func (s Scenario) Name() string {
	return fmt.Sprintf("scenario%d", s.ID)
}

// RatesFor returns the rates that apply to bus.
func (s Scenario) RatesFor(bus int) model.BusRates {
	if r, ok := s.Buses[bus]; ok {
		return r
	}
	return s.BusRates
}

// Baseline is the only scenario evaluated by default.
var Baseline = Scenario{
	ID:       1,
	BusRates: model.BusRates{V2G: 0.5, PV: 0.5, PeakRESLoadRatio: 0.4},
}

// IrradianceApril is the default irradiance series.
var IrradianceApril = []float64{0, 0, 0, 0, 0, 0, 211, 1200, 3188, 5954, 9317, 6609, 6178, 7082, 5790, 4117, 2321, 1399, 780, 186, 0, 0, 0, 0}

// forecastNovember is the forecast outside temperature of 15 November 2019.
var forecastNovember = []float64{16.784803, 16.094803, 15.764802, 14.774801, 14.834802, 14.184802, 14.144801, 15.314801, 16.694803, 19.734802, 24.414803, 25.384802, 26.744802, 27.144802, 27.524803, 27.694803, 26.834803, 26.594803, 25.664803, 22.594803, 21.394802, 20.164803, 19.584803, 20.334803}

// DefaultOutsideTemp shifts the November forecast up: +5 °C below 21 °C,
// +2 °C otherwise.
func DefaultOutsideTemp() []float64 {
	out := make([]float64, len(forecastNovember))
	for i, v := range forecastNovember {
		if v < 21 {
			out[i] = v + 5
		} else {
			out[i] = v + 2
		}
	}
	return out
}

func Default() Config {
	return Config{
		Horizon:              24,
		MVA:                  30,
		ConversionMetric:     1000,
		Prosumers:            50,
		LoadMultiply:         map[int]float64{1: 100},
		RESFactor:            1.0,
		InflexibleLoadFactor: 1.0,
		SLLoadsFactor:        0.7,
		EVLoadsFactor:        1.0,
		Irradiance:           append([]float64(nil), IrradianceApril...),
		OutsideTemp:          DefaultOutsideTemp(),
		NetworkData:          filepath.Join("network_data", "6_Bus_Transmission_Test_System.xlsx"),
		DataDir:              "prosumers",
		ResultsPath:          "Results",
		StrategicDA:          1,
		Scenarios:            []Scenario{Baseline},
		EVTimeFlexibility:    12,
		SLTimeFlexibility:    10,
	}
}

// Load reads a YAML file over Default. Relative paths in the file are
// resolved against the file's directory.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.ResolvePaths(filepath.Dir(path))
	return cfg, nil
}

// Parse decodes YAML over Default.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	// yaml.v3 merges into existing maps; a configured multiplier table
	// replaces the default one.
	cfg.LoadMultiply = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.LoadMultiply == nil {
		cfg.LoadMultiply = Default().LoadMultiply
	}
	return cfg, nil
}

// ResolvePaths makes relative file locations relative to dir.
func (c *Config) ResolvePaths(dir string) {
	for _, p := range []*string{&c.NetworkData, &c.DataDir, &c.ResultsPath} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}

// Factors returns the profile scale factors.
func (c Config) Factors() profile.Factors {
	return profile.Factors{
		Inflexible: c.InflexibleLoadFactor,
		Shiftable:  c.SLLoadsFactor,
		EV:         c.EVLoadsFactor,
	}
}

// Validate reports configuration that makes normalization or sampling
// ill-defined.
func (c Config) Validate() error {
	if c.Horizon <= 0 {
		return model.ConfigErrorf("horizon must be positive, got %d", c.Horizon)
	}
	if c.MVA*c.ConversionMetric == 0 {
		return model.ConfigErrorf("conversion metric x MVA is zero")
	}
	if c.Prosumers <= 0 {
		return model.ConfigErrorf("prosumers must be positive, got %d", c.Prosumers)
	}
	if len(c.Irradiance) != c.Horizon {
		return model.ConfigErrorf("irradiance has %d steps, horizon is %d", len(c.Irradiance), c.Horizon)
	}
	if len(c.OutsideTemp) != c.Horizon {
		return model.ConfigErrorf("outside temperature has %d steps, horizon is %d", len(c.OutsideTemp), c.Horizon)
	}
	if c.RESFactor < 0 || c.InflexibleLoadFactor < 0 || c.SLLoadsFactor < 0 || c.EVLoadsFactor < 0 {
		return model.ConfigErrorf("scale factors must not be negative")
	}

	seen := make(map[int]int)
	for _, a := range c.Aggregators {
		for _, bus := range a.Buses {
			if owner, ok := seen[bus]; ok {
				return model.ConfigErrorf("bus %d assigned to aggregators %d and %d", bus, owner, a.ID)
			}
			seen[bus] = a.ID
		}
	}

	if len(c.Scenarios) == 0 {
		return model.ConfigErrorf("no scenarios configured")
	}
	ids := make(map[int]bool)
	for _, s := range c.Scenarios {
		if s.ID <= 0 {
			return model.ConfigErrorf("scenario id must be positive, got %d", s.ID)
		}
		if ids[s.ID] {
			return model.ConfigErrorf("duplicate scenario id %d", s.ID)
		}
		ids[s.ID] = true
		if err := validateRates(s.Name(), s.BusRates); err != nil {
			return err
		}
		for bus, r := range s.Buses {
			if err := validateRates(fmt.Sprintf("%s bus %d", s.Name(), bus), r); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateRates(where string, r model.BusRates) error {
	if r.V2G < 0 || r.V2G > 1 {
		return model.ConfigErrorf("%s: V2G rate %g outside [0, 1]", where, r.V2G)
	}
	if r.PV < 0 || r.PV > 1 {
		return model.ConfigErrorf("%s: PV rate %g outside [0, 1]", where, r.PV)
	}
	if r.PeakRESLoadRatio < 0 {
		return model.ConfigErrorf("%s: negative peak RES/load ratio %g", where, r.PeakRESLoadRatio)
	}
	return nil
}
