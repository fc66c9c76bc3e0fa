package model

// Column names of the per-cluster schedule table.
const (
	ColArrival    = "Arrival"
	ColDepart     = "Depart"
	ColEVPower    = "EV_Power"
	ColEVSoCLow   = "EV_soc_low"
	ColEVSoCUp    = "EV_soc_up"
	ColEVSoCArr   = "EV_soc_arr"
	ColSLLoads    = "SL_loads"
	ColSLLow      = "SL_low"
	ColSLUp       = "SL_up"
	ColSLCycle    = "SL_cycle"
	ColTCLR       = "TCL_R"
	ColTCLC       = "TCL_C"
	ColTCLCOP     = "TCL_COP"
	ColTCLMax     = "TCL_MAX"
	ColTCLBeta    = "TCL_Beta"
	ColTCLTempLow = "TCL_temp_low"
	ColTCLTempUp  = "TCL_temp_up"
)

// ScheduleColumns lists every column the schedule table must carry, in the
// order they are written by the dataset tooling.
var ScheduleColumns = []string{
	ColArrival, ColDepart, ColEVPower, ColEVSoCLow, ColEVSoCUp, ColEVSoCArr,
	ColSLLoads, ColSLLow, ColSLUp, ColSLCycle,
	ColTCLR, ColTCLC, ColTCLCOP, ColTCLMax, ColTCLBeta, ColTCLTempLow, ColTCLTempUp,
}

// Topology and price sheet names and columns.
const (
	SheetStructure   = "Structure"
	SheetPriceCurves = "CDA Price Offers_Bids"
	ColDA            = "DA"
	ColBusNo         = "Bus no."
)

// Column names of the summary statistics artifact.
const (
	StatInflexible    = "Inflexible_loads"
	StatEVs           = "EVs_loads"
	StatShiftable     = "Shiftable_loads"
	StatMaxInflexible = "MAX_inf_loads"
	StatMaxEVs        = "MAX_EVS_loads"
	StatMaxShiftable  = "MAX_SL_loads"
	StatDA            = "DA"
	StatBus           = "Bus"
)

// StatsColumns is the header of the summary statistics artifact.
var StatsColumns = []string{
	StatInflexible, StatEVs, StatShiftable,
	StatMaxInflexible, StatMaxEVs, StatMaxShiftable,
	StatDA, StatBus,
}
