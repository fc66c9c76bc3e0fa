package ws

import (
	"encoding/json"
	"slices"
	"time"

	"prosumer_scenarios/internal/model"
)

// Envelope wraps all WebSocket messages with a type discriminator.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client -> Server messages

type RegeneratePayload struct {
	Seed *uint64 `json:"seed,omitempty"`
}

// Server -> Client messages

type BusStatsPayload struct {
	Bus             int     `json:"bus"`
	AggregatorID    int     `json:"aggregator_id"`
	InflexibleTotal float64 `json:"inflexible_total_mw"`
	InflexiblePeak  float64 `json:"inflexible_peak_mw"`
	EVTotal         float64 `json:"ev_total_mw"`
	EVPeak          float64 `json:"ev_peak_mw"`
	ShiftableTotal  float64 `json:"shiftable_total_mw"`
	ShiftablePeak   float64 `json:"shiftable_peak_mw"`
}

type ScenarioPayload struct {
	ID            int                  `json:"id"`
	Name          string               `json:"name"`
	V2GCapable    map[int][]int        `json:"v2g_capable"`
	PVCapable     map[int][]int        `json:"pv_capable"`
	SolarForecast map[int][]float64    `json:"solar_forecast"`
	Rates         map[int]RatesPayload `json:"rates"`
}

type RatesPayload struct {
	V2G              float64 `json:"v2g_rate"`
	PV               float64 `json:"pv_rate"`
	PeakRESLoadRatio float64 `json:"peak_res_load_ratio"`
}

type ScenarioSetPayload struct {
	RunID          string            `json:"run_id"`
	GeneratedAt    string            `json:"generated_at"`
	StrategicNodes []int             `json:"strategic_nodes"`
	BusOrder       []int             `json:"bus_order"`
	Scenarios      []ScenarioPayload `json:"scenarios"`
	Stats          []BusStatsPayload `json:"stats"`
}

type BusProfilePayload struct {
	Bus            int       `json:"bus"`
	AggregatorID   int       `json:"aggregator_id"`
	InflexibleLoad []float64 `json:"inflexible_load"`
	EVEnergyDemand []float64 `json:"ev_energy_demand"`
	SLLoad         []float64 `json:"sl_load"`
}

type ProfilesPayload struct {
	ScenarioID int                 `json:"scenario_id"`
	Buses      []BusProfilePayload `json:"buses"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// Message type constants
const (
	// Client -> Server
	TypeScenarioRegenerate = "scenario:regenerate"
	TypeScenarioGet        = "scenario:get"

	// Server -> Client
	TypeScenarioSet      = "scenario:set"
	TypeScenarioProfiles = "scenario:profiles"
	TypeError            = "error"
)

func NewEnvelope(msgType string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}

func ScenarioSetFromModel(set *model.ScenarioSet) ScenarioSetPayload {
	p := ScenarioSetPayload{
		RunID:          set.RunID.String(),
		GeneratedAt:    set.GeneratedAt.Format(time.RFC3339),
		StrategicNodes: set.StrategicNodes,
		BusOrder:       set.BusOrder,
		Scenarios:      make([]ScenarioPayload, len(set.Scenarios)),
		Stats:          make([]BusStatsPayload, len(set.Stats)),
	}
	for i, rec := range set.Scenarios {
		rates := make(map[int]RatesPayload, len(rec.Rates))
		for bus, r := range rec.Rates {
			rates[bus] = RatesPayload{V2G: r.V2G, PV: r.PV, PeakRESLoadRatio: r.PeakRESLoadRatio}
		}
		p.Scenarios[i] = ScenarioPayload{
			ID:            rec.ID,
			Name:          rec.Name,
			V2GCapable:    rec.V2GCapable,
			PVCapable:     rec.PVCapable,
			SolarForecast: rec.SolarForecast,
			Rates:         rates,
		}
	}
	for i, s := range set.Stats {
		p.Stats[i] = BusStatsPayload{
			Bus:             s.Bus,
			AggregatorID:    s.AggregatorID,
			InflexibleTotal: s.InflexibleTotal,
			InflexiblePeak:  s.InflexiblePeak,
			EVTotal:         s.EVTotal,
			EVPeak:          s.EVPeak,
			ShiftableTotal:  s.ShiftableTotal,
			ShiftablePeak:   s.ShiftablePeak,
		}
	}
	return p
}

// ProfilesFromModel lists the profiles ordered by bus.
func ProfilesFromModel(profiles map[int]model.DemandProfile, scenarioID int) ProfilesPayload {
	buses := make([]int, 0, len(profiles))
	for bus := range profiles {
		buses = append(buses, bus)
	}
	slices.Sort(buses)

	p := ProfilesPayload{ScenarioID: scenarioID, Buses: make([]BusProfilePayload, len(buses))}
	for i, bus := range buses {
		prof := profiles[bus]
		p.Buses[i] = BusProfilePayload{
			Bus:            bus,
			AggregatorID:   prof.AggregatorID,
			InflexibleLoad: prof.InflexibleLoad,
			EVEnergyDemand: prof.EV.EnergyDemand,
			SLLoad:         prof.SL.Load,
		}
	}
	return p
}
