package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prosumer_scenarios/internal/ingest"
	"prosumer_scenarios/internal/model"
)

func structure(das ...string) *ingest.Table {
	rows := make([][]string, len(das))
	for i, da := range das {
		rows[i] = []string{"node", da}
	}
	return ingest.NewTable([]string{"Name", "DA"}, rows)
}

func TestStrategicNodes(t *testing.T) {
	tp, err := NewTopology(structure("1", "2", "1"))
	require.NoError(t, err)

	nodes, err := tp.StrategicNodes(2)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, nodes)

	nodes, err = tp.StrategicNodes(1)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, nodes)
}

func TestStrategicNodes_NoMatch(t *testing.T) {
	tp, err := NewTopology(structure("1", "2", "1"))
	require.NoError(t, err)

	nodes, err := tp.StrategicNodes(5)
	require.NoError(t, err)
	assert.Empty(t, nodes)
	assert.NotNil(t, nodes)
}

func TestStrategicNodes_FloatCells(t *testing.T) {
	tp, err := NewTopology(structure("1.0", " 2.0 ", "n/a", ""))
	require.NoError(t, err)

	nodes, err := tp.StrategicNodes(2)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, nodes)
	assert.Equal(t, 4, tp.Nodes())
}

func TestNewTopology_MissingDAColumn(t *testing.T) {
	_, err := NewTopology(ingest.NewTable([]string{"Name"}, nil))
	assert.ErrorIs(t, err, model.ErrDataShape)
}

func TestAggregators(t *testing.T) {
	tp, err := NewTopology(structure("2", "1", "2", "", "3"))
	require.NoError(t, err)

	assert.Equal(t, []model.Aggregator{
		{ID: 1, Buses: []int{2}},
		{ID: 2, Buses: []int{1, 3}},
		{ID: 3, Buses: []int{5}},
	}, tp.Aggregators())
}

func TestReadPriceCurves(t *testing.T) {
	header := []string{"Bus no.", "t=1", "t=2", "t=1", "t=2"}
	tbl := ingest.NewTable(header, [][]string{
		{"1", "10", "11", "5", "6"},
		{"4.0", "20", "21.5", "7", "8"},
	})

	pc, err := ReadPriceCurves(tbl, 2)
	require.NoError(t, err)

	assert.Equal(t, []float64{10, 11}, pc.Offers[1])
	assert.Equal(t, []float64{5, 6}, pc.Bids[1])
	assert.Equal(t, []float64{20, 21.5}, pc.Offers[4])
	assert.Equal(t, []float64{7, 8}, pc.Bids[4])
}

func TestReadPriceCurves_MissingBidColumns(t *testing.T) {
	tbl := ingest.NewTable([]string{"Bus no.", "t=1", "t=2"}, [][]string{{"1", "1", "2"}})

	_, err := ReadPriceCurves(tbl, 2)
	assert.ErrorIs(t, err, model.ErrDataShape)
	assert.Contains(t, err.Error(), "bids")
}

func TestReadPriceCurves_BadHorizon(t *testing.T) {
	_, err := ReadPriceCurves(ingest.NewTable(nil, nil), 0)
	assert.ErrorIs(t, err, model.ErrConfig)
}

func TestColumns(t *testing.T) {
	assert.Equal(t, []string{"t=1", "t=2", "t=3"}, OfferColumns(3))
	assert.Equal(t, []string{"t=1.1", "t=2.1"}, BidColumns(2))
}
