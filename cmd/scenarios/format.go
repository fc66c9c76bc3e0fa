package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"gonum.org/v1/gonum/floats"

	"prosumer_scenarios/internal/model"
	"prosumer_scenarios/internal/network"
)

func printScenarioSet(w io.Writer, set *model.ScenarioSet) {
	fmt.Fprintf(w, "Run %s (%s)\n", set.RunID, set.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Strategic nodes: %s\n\n", joinInts(set.StrategicNodes))

	printStatsTable(w, set.Stats)

	for _, rec := range set.Scenarios {
		fmt.Fprintf(w, "\n%s\n", rec.Name)
		fmt.Fprintf(w, "%-6s %6s %6s %10s\n", "Bus", "V2G", "PV", "Solar pk")
		fmt.Fprintf(w, "%-6s %6s %6s %10s\n", "------", "------", "------", "----------")
		for _, bus := range set.BusOrder {
			peak := 0.0
			if f := rec.SolarForecast[bus]; len(f) > 0 {
				peak = floats.Max(f)
			}
			fmt.Fprintf(w, "%-6d %6d %6d %10.4f\n", bus, len(rec.V2GCapable[bus]), len(rec.PVCapable[bus]), peak)
		}
	}
}

func printStatsTable(w io.Writer, rows []model.BusStats) {
	fmt.Fprintf(w, "%-6s %-4s %12s %12s %12s %12s %12s %12s\n",
		"Bus", "DA", "Inflex MW", "Inflex pk", "EV MW", "EV pk", "SL MW", "SL pk")
	fmt.Fprintf(w, "%-6s %-4s %12s %12s %12s %12s %12s %12s\n",
		"------", "----", "------------", "------------", "------------", "------------", "------------", "------------")
	for _, r := range rows {
		fmt.Fprintf(w, "%-6d %-4d %12.3f %12.3f %12.3f %12.3f %12.3f %12.3f\n",
			r.Bus, r.AggregatorID, r.InflexibleTotal, r.InflexiblePeak, r.EVTotal, r.EVPeak, r.ShiftableTotal, r.ShiftablePeak)
	}
}

func printPriceCurves(w io.Writer, pc network.PriceCurves) {
	buses := make([]int, 0, len(pc.Offers))
	for bus := range pc.Offers {
		buses = append(buses, bus)
	}
	slices.Sort(buses)

	for _, bus := range buses {
		fmt.Fprintf(w, "Bus %d\n", bus)
		fmt.Fprintf(w, "  offers: %s\n", joinFloats(pc.Offers[bus]))
		fmt.Fprintf(w, "  bids:   %s\n", joinFloats(pc.Bids[bus]))
	}
}

func printAggregators(w io.Writer, aggs []model.Aggregator, nodes int) {
	fmt.Fprintf(w, "%d nodes, %d aggregators\n", nodes, len(aggs))
	for _, a := range aggs {
		fmt.Fprintf(w, "  DA %d: %s\n", a.ID, joinInts(a.Buses))
	}
}

func joinInts(v []int) string {
	if len(v) == 0 {
		return "-"
	}
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%d", x)
	}
	return strings.Join(parts, ", ")
}

func joinFloats(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%.2f", x)
	}
	return strings.Join(parts, " ")
}
