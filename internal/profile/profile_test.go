package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prosumer_scenarios/internal/model"
)

func testInput() Input {
	return Input{
		AggregatorID: 2,
		Bus:          1,
		Multiplier:   100,
		ClusterSize:  2,
		Horizon:      3,
		MVA:          30,
		Conversion:   1000,
	}
}

func testRaw() model.RawTables {
	return model.RawTables{
		Inflexible: [][]float64{{1, 2}, {3, 3}, {0.3, 0}},
		Occupancy:  [][]float64{{1}, {0}, {1}},
		Schedule: []model.ScheduleRow{
			{Arrival: 1, Depart: 2, EVPower: 6, EVSoCLow: 3, EVSoCUp: 30, EVSoCArr: 12, SLLoad: 1.5, SLLow: 0, SLUp: 2, SLCycle: 1, TCLR: 2, TCLBeta: 0.5},
			{Arrival: 2, Depart: 0, EVPower: 9, EVSoCLow: 3, EVSoCUp: 45, EVSoCArr: 45, SLLoad: 3, SLLow: 1, SLUp: 1, SLCycle: 2, TCLR: 3, TCLBeta: 0.6},
		},
	}
}

func TestBuild(t *testing.T) {
	p, err := Build(testInput(), testRaw())
	require.NoError(t, err)

	assert.Equal(t, 2, p.AggregatorID)
	assert.Equal(t, 1, p.Bus)
	assert.False(t, p.Scaled)

	// Row sums divided by 3.
	assert.InDeltaSlice(t, []float64{1, 2, 0.1}, p.InflexibleLoad, 1e-12)

	// 100 / (1000 x 30) = 1/300
	assert.InDelta(t, 6.0/300, p.EV.ChargePower[0], 1e-12)
	assert.InDelta(t, 3.0/300, p.EV.SoCLower[0], 1e-12)
	assert.InDelta(t, 30.0/300, p.EV.SoCUpper[0], 1e-12)
	assert.InDelta(t, 12.0/300, p.EV.SoCArrival[0], 1e-12)
	assert.InDelta(t, 1.5/300, p.SL.Load[0], 1e-12)

	// Wrap-around window is kept as given.
	assert.Equal(t, []int{1, 2}, p.EV.Arrival)
	assert.Equal(t, []int{2, 0}, p.EV.Depart)
	assert.Equal(t, []int{1, 2}, p.SL.Cycle)
	assert.Equal(t, []float64{0.5, 0.6}, p.TCL.Beta)
	assert.Len(t, p.Occupancy, 3)
}

func TestBuild_EnergyDemandLaw(t *testing.T) {
	p, err := Build(testInput(), testRaw())
	require.NoError(t, err)

	for i := range p.EV.EnergyDemand {
		assert.InDelta(t, p.EV.SoCUpper[i]-p.EV.SoCArrival[i], p.EV.EnergyDemand[i], 1e-12)
		assert.GreaterOrEqual(t, p.EV.EnergyDemand[i], 0.0)
	}
	assert.InDelta(t, 0.0, p.EV.EnergyDemand[1], 1e-12)
}

func TestNormalize_RoundTrip(t *testing.T) {
	in := testInput()
	for _, raw := range []float64{0, 0.37, 7.4, 11, 1234.5} {
		pu := in.Normalize(raw)
		back := pu * (in.Conversion * in.MVA) / in.Multiplier
		assert.InDelta(t, raw, back, 1e-9)
	}
}

func TestBuild_ConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Input)
	}{
		{"zero MVA", func(in *Input) { in.MVA = 0 }},
		{"zero conversion", func(in *Input) { in.Conversion = 0 }},
		{"zero horizon", func(in *Input) { in.Horizon = 0 }},
		{"zero cluster", func(in *Input) { in.ClusterSize = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := testInput()
			tt.modify(&in)
			_, err := Build(in, testRaw())
			assert.ErrorIs(t, err, model.ErrConfig)
		})
	}
}

func TestBuild_DataShapeErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*model.RawTables)
	}{
		{"short inflexible", func(r *model.RawTables) { r.Inflexible = r.Inflexible[:2] }},
		{"long occupancy", func(r *model.RawTables) { r.Occupancy = append(r.Occupancy, []float64{1}) }},
		{"short schedule", func(r *model.RawTables) { r.Schedule = r.Schedule[:1] }},
		{"empty inflexible row", func(r *model.RawTables) { r.Inflexible[1] = nil }},
		{"arrival past horizon", func(r *model.RawTables) { r.Schedule[0].Arrival = 3 }},
		{"negative depart", func(r *model.RawTables) { r.Schedule[1].Depart = -1 }},
		{"inverted SL window", func(r *model.RawTables) { r.Schedule[0].SLLow = 2; r.Schedule[0].SLUp = 1 }},
		{"arrival above upper SoC", func(r *model.RawTables) { r.Schedule[0].EVSoCArr = 31 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := testRaw()
			tt.modify(&raw)
			_, err := Build(testInput(), raw)
			assert.ErrorIs(t, err, model.ErrDataShape)
		})
	}
}

func TestScale(t *testing.T) {
	p, err := Build(testInput(), testRaw())
	require.NoError(t, err)

	s, err := Scale(p, Factors{Inflexible: 2, Shiftable: 0.7, EV: 1.5})
	require.NoError(t, err)
	assert.True(t, s.Scaled)

	assert.InDeltaSlice(t, []float64{2, 4, 0.2}, s.InflexibleLoad, 1e-12)
	assert.InDelta(t, 0.7*1.5/300, s.SL.Load[0], 1e-12)
	assert.InDelta(t, 1.5*6.0/300, s.EV.ChargePower[0], 1e-12)
	assert.InDelta(t, 1.5*30.0/300, s.EV.SoCUpper[0], 1e-12)
	assert.InDelta(t, 1.5*12.0/300, s.EV.SoCArrival[0], 1e-12)
	assert.InDelta(t, 3.0/300, s.EV.SoCLower[0], 1e-12, "lower bound is not scaled")

	for i := range s.EV.EnergyDemand {
		assert.InDelta(t, s.EV.SoCUpper[i]-s.EV.SoCArrival[i], s.EV.EnergyDemand[i], 1e-12)
	}

	// Source profile untouched.
	assert.False(t, p.Scaled)
	assert.InDeltaSlice(t, []float64{1, 2, 0.1}, p.InflexibleLoad, 1e-12)
	assert.InDelta(t, 30.0/300, p.EV.SoCUpper[0], 1e-12)
}

func TestScale_Twice(t *testing.T) {
	p, err := Build(testInput(), testRaw())
	require.NoError(t, err)

	s, err := Scale(p, UnitFactors)
	require.NoError(t, err)

	_, err = Scale(s, UnitFactors)
	assert.ErrorIs(t, err, model.ErrConfig)
}

func TestScale_NegativeFactor(t *testing.T) {
	p, err := Build(testInput(), testRaw())
	require.NoError(t, err)

	_, err = Scale(p, Factors{Inflexible: 1, Shiftable: -1, EV: 1})
	assert.ErrorIs(t, err, model.ErrConfig)
}
