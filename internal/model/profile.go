package model

import "slices"

// EVFleet holds the synthetic EV owners of one cluster as parallel slices.
// Power and state-of-charge values are per-unit of the system MVA base.
type EVFleet struct {
	Arrival      []int
	Depart       []int
	ChargePower  []float64
	SoCLower     []float64
	SoCUpper     []float64
	SoCArrival   []float64
	EnergyDemand []float64 // SoCUpper - SoCArrival
}

// Len returns the number of EV owners.
func (f EVFleet) Len() int {
	return len(f.Arrival)
}

// ShiftableLoads holds one deferrable load per prosumer.
type ShiftableLoads struct {
	Load  []float64 // per-unit magnitude
	Lower []int     // earliest start step
	Upper []int     // latest step
	Cycle []int     // duration in steps
}

// ThermostaticLoads carries the RC thermal parameters of each prosumer.
// They are passed through to downstream models untouched.
type ThermostaticLoads struct {
	R         []float64
	C         []float64
	COP       []float64
	Max       []float64
	Beta      []float64
	TempLower []float64
	TempUpper []float64
}

// DemandProfile is the normalized load description of one bus.
type DemandProfile struct {
	AggregatorID int
	Bus          int

	InflexibleLoad []float64   // one value per time step
	Occupancy      [][]float64 // horizon rows, opaque

	EV  EVFleet
	SL  ShiftableLoads
	TCL ThermostaticLoads

	// Scaled is set once the load/EV/SL factors have been applied.
	Scaled bool
}

// PeakInflexible returns the maximum inflexible load over the horizon.
func (p DemandProfile) PeakInflexible() float64 {
	if len(p.InflexibleLoad) == 0 {
		return 0
	}
	return slices.Max(p.InflexibleLoad)
}

// Clone returns a deep copy that shares no backing arrays with p.
func (p DemandProfile) Clone() DemandProfile {
	c := p
	c.InflexibleLoad = slices.Clone(p.InflexibleLoad)
	if p.Occupancy != nil {
		c.Occupancy = make([][]float64, len(p.Occupancy))
		for i, row := range p.Occupancy {
			c.Occupancy[i] = slices.Clone(row)
		}
	}

	c.EV = EVFleet{
		Arrival:      slices.Clone(p.EV.Arrival),
		Depart:       slices.Clone(p.EV.Depart),
		ChargePower:  slices.Clone(p.EV.ChargePower),
		SoCLower:     slices.Clone(p.EV.SoCLower),
		SoCUpper:     slices.Clone(p.EV.SoCUpper),
		SoCArrival:   slices.Clone(p.EV.SoCArrival),
		EnergyDemand: slices.Clone(p.EV.EnergyDemand),
	}
	c.SL = ShiftableLoads{
		Load:  slices.Clone(p.SL.Load),
		Lower: slices.Clone(p.SL.Lower),
		Upper: slices.Clone(p.SL.Upper),
		Cycle: slices.Clone(p.SL.Cycle),
	}
	c.TCL = ThermostaticLoads{
		R:         slices.Clone(p.TCL.R),
		C:         slices.Clone(p.TCL.C),
		COP:       slices.Clone(p.TCL.COP),
		Max:       slices.Clone(p.TCL.Max),
		Beta:      slices.Clone(p.TCL.Beta),
		TempLower: slices.Clone(p.TCL.TempLower),
		TempUpper: slices.Clone(p.TCL.TempUpper),
	}
	return c
}

// ScheduleRow is one row of the per-cluster schedule table, in raw units.
type ScheduleRow struct {
	Arrival    int
	Depart     int
	EVPower    float64
	EVSoCLow   float64
	EVSoCUp    float64
	EVSoCArr   float64
	SLLoad     float64
	SLLow      int
	SLUp       int
	SLCycle    int
	TCLR       float64
	TCLC       float64
	TCLCOP     float64
	TCLMax     float64
	TCLBeta    float64
	TCLTempLow float64
	TCLTempUp  float64
}

// RawTables is what a raw-profile loader returns for one cluster.
// Inflexible is already normalized to per-unit by the loader; it has one row
// per time step and one column per metered prosumer.
type RawTables struct {
	Inflexible [][]float64
	Schedule   []ScheduleRow
	Occupancy  [][]float64
}
