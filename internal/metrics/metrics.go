// Package metrics exposes the most recent scenario set as Prometheus gauges.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gonum.org/v1/gonum/floats"

	"prosumer_scenarios/internal/model"
)

// Collector holds the scenario metrics of one registry.
type Collector struct {
	runs            prometheus.Counter
	failures        prometheus.Counter
	buses           prometheus.Gauge
	inflexiblePeak  *prometheus.GaugeVec
	evDemand        *prometheus.GaugeVec
	v2gCapable      *prometheus.GaugeVec
	pvCapable       *prometheus.GaugeVec
	solarPeak       *prometheus.GaugeVec
	lastGeneratedTS prometheus.Gauge
}

func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		runs: f.NewCounter(prometheus.CounterOpts{
			Name: "scenarios_runs_total",
			Help: "Number of scenario sets generated.",
		}),
		failures: f.NewCounter(prometheus.CounterOpts{
			Name: "scenarios_failed_runs_total",
			Help: "Number of scenario generations that returned an error.",
		}),
		buses: f.NewGauge(prometheus.GaugeOpts{
			Name: "scenarios_buses",
			Help: "Number of buses in the last scenario set.",
		}),
		inflexiblePeak: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "scenarios_inflexible_peak_mw",
			Help: "Peak inflexible load per bus in MW.",
		}, []string{"bus", "aggregator"}),
		evDemand: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "scenarios_ev_demand_mw",
			Help: "Total EV energy demand per bus in MW.",
		}, []string{"bus", "aggregator"}),
		v2gCapable: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "scenarios_v2g_capable_prosumers",
			Help: "V2G-capable prosumers per scenario and bus.",
		}, []string{"scenario", "bus"}),
		pvCapable: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "scenarios_pv_capable_prosumers",
			Help: "PV-capable prosumers per scenario and bus.",
		}, []string{"scenario", "bus"}),
		solarPeak: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "scenarios_solar_forecast_peak_pu",
			Help: "Peak of the solar forecast per scenario and bus, per-unit.",
		}, []string{"scenario", "bus"}),
		lastGeneratedTS: f.NewGauge(prometheus.GaugeOpts{
			Name: "scenarios_last_generated_timestamp_seconds",
			Help: "Unix time the last scenario set was generated.",
		}),
	}
}

// Observe replaces the per-bus gauges with the values of set.
func (c *Collector) Observe(set *model.ScenarioSet) {
	c.runs.Inc()
	c.buses.Set(float64(len(set.BusOrder)))
	c.lastGeneratedTS.Set(float64(set.GeneratedAt.Unix()))

	c.inflexiblePeak.Reset()
	c.evDemand.Reset()
	for _, s := range set.Stats {
		bus, agg := strconv.Itoa(s.Bus), strconv.Itoa(s.AggregatorID)
		c.inflexiblePeak.WithLabelValues(bus, agg).Set(s.InflexiblePeak)
		c.evDemand.WithLabelValues(bus, agg).Set(s.EVTotal)
	}

	c.v2gCapable.Reset()
	c.pvCapable.Reset()
	c.solarPeak.Reset()
	for _, rec := range set.Scenarios {
		for _, b := range set.BusOrder {
			bus := strconv.Itoa(b)
			c.v2gCapable.WithLabelValues(rec.Name, bus).Set(float64(len(rec.V2GCapable[b])))
			c.pvCapable.WithLabelValues(rec.Name, bus).Set(float64(len(rec.PVCapable[b])))
			if f := rec.SolarForecast[b]; len(f) > 0 {
				c.solarPeak.WithLabelValues(rec.Name, bus).Set(floats.Max(f))
			}
		}
	}
}

// Failed records a generation error.
func (c *Collector) Failed() {
	c.failures.Inc()
}
