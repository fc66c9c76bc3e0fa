// Package network reads the grid data spreadsheet: which aggregator controls
// each node and the competitive offer/bid price curves.
package network

import (
	"slices"
	"strconv"
	"strings"

	"prosumer_scenarios/internal/ingest"
	"prosumer_scenarios/internal/model"
)

// Topology is the "Structure" sheet: one row per node, with a DA column
// naming the controlling aggregator.
type Topology struct {
	table *ingest.Table
	daCol int
}

func NewTopology(t *ingest.Table) (*Topology, error) {
	col, ok := t.Column(model.ColDA)
	if !ok {
		return nil, model.DataShapeErrorf("topology table has no %q column", model.ColDA)
	}
	return &Topology{table: t, daCol: col}, nil
}

// Nodes returns the number of nodes in the topology.
func (tp *Topology) Nodes() int {
	return tp.table.Len()
}

// StrategicNodes returns the 1-based indices of the nodes controlled by the
// given aggregator, in row order. No match yields an empty slice.
func (tp *Topology) StrategicNodes(aggregatorID int) ([]int, error) {
	nodes := []int{}
	for r := 0; r < tp.table.Len(); r++ {
		id, ok := tp.aggregatorAt(r)
		if ok && id == aggregatorID {
			nodes = append(nodes, r+1)
		}
	}
	return nodes, nil
}

// Aggregators groups nodes by controlling aggregator, ordered by aggregator
// id. Rows whose DA cell is empty or not a number are uncontrolled.
func (tp *Topology) Aggregators() []model.Aggregator {
	byID := make(map[int][]int)
	for r := 0; r < tp.table.Len(); r++ {
		id, ok := tp.aggregatorAt(r)
		if !ok {
			continue
		}
		byID[id] = append(byID[id], r+1)
	}

	ids := make([]int, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]model.Aggregator, len(ids))
	for i, id := range ids {
		out[i] = model.Aggregator{ID: id, Buses: byID[id]}
	}
	return out
}

// aggregatorAt parses the DA cell; spreadsheets store "2" as "2" or "2.0".
func (tp *Topology) aggregatorAt(row int) (int, bool) {
	s := strings.TrimSpace(tp.table.Cell(row, tp.daCol))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v != float64(int(v)) {
		return 0, false
	}
	return int(v), true
}
