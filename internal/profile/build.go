// Package profile builds per-bus demand profiles from raw cluster tables and
// applies the configured load scale factors.
package profile

import (
	"prosumer_scenarios/internal/model"
)

// InflexibleDivisor is the ratio between the metering granularity of the raw
// inflexible load data and the simulated cluster.
const InflexibleDivisor = 3.0

// Input identifies the bus a profile is built for and the base values used
// for normalization.
type Input struct {
	AggregatorID int
	Bus          int
	Multiplier   float64 // prosumers represented by one cluster profile
	ClusterSize  int
	Horizon      int
	MVA          float64
	Conversion   float64 // kW to MW
}

func (in Input) base() float64 {
	return in.Conversion * in.MVA
}

// Normalize converts a raw kW value to per-unit of the MVA base.
func (in Input) Normalize(raw float64) float64 {
	return raw * in.Multiplier / in.base()
}

// Build constructs the unscaled profile of one bus.
func Build(in Input, raw model.RawTables) (model.DemandProfile, error) {
	if in.base() == 0 {
		return model.DemandProfile{}, model.ConfigErrorf("bus %d: conversion metric x MVA is zero", in.Bus)
	}
	if in.Horizon <= 0 {
		return model.DemandProfile{}, model.ConfigErrorf("bus %d: horizon must be positive, got %d", in.Bus, in.Horizon)
	}
	if in.ClusterSize <= 0 {
		return model.DemandProfile{}, model.ConfigErrorf("bus %d: cluster size must be positive, got %d", in.Bus, in.ClusterSize)
	}

	if len(raw.Inflexible) != in.Horizon {
		return model.DemandProfile{}, model.DataShapeErrorf("bus %d: inflexible load has %d rows, horizon is %d", in.Bus, len(raw.Inflexible), in.Horizon)
	}
	if len(raw.Occupancy) != in.Horizon {
		return model.DemandProfile{}, model.DataShapeErrorf("bus %d: occupancy has %d rows, horizon is %d", in.Bus, len(raw.Occupancy), in.Horizon)
	}
	if len(raw.Schedule) != in.ClusterSize {
		return model.DemandProfile{}, model.DataShapeErrorf("bus %d: schedule has %d rows, cluster size is %d", in.Bus, len(raw.Schedule), in.ClusterSize)
	}

	p := model.DemandProfile{
		AggregatorID:   in.AggregatorID,
		Bus:            in.Bus,
		InflexibleLoad: make([]float64, in.Horizon),
		Occupancy:      make([][]float64, in.Horizon),
	}

	for t, row := range raw.Inflexible {
		if len(row) == 0 {
			return model.DemandProfile{}, model.DataShapeErrorf("bus %d: inflexible load row %d is empty", in.Bus, t+1)
		}
		var sum float64
		for _, v := range row {
			sum += v
		}
		p.InflexibleLoad[t] = sum / InflexibleDivisor
	}
	for t, row := range raw.Occupancy {
		p.Occupancy[t] = append([]float64(nil), row...)
	}

	n := in.ClusterSize
	p.EV = model.EVFleet{
		Arrival:      make([]int, n),
		Depart:       make([]int, n),
		ChargePower:  make([]float64, n),
		SoCLower:     make([]float64, n),
		SoCUpper:     make([]float64, n),
		SoCArrival:   make([]float64, n),
		EnergyDemand: make([]float64, n),
	}
	p.SL = model.ShiftableLoads{
		Load:  make([]float64, n),
		Lower: make([]int, n),
		Upper: make([]int, n),
		Cycle: make([]int, n),
	}
	p.TCL = model.ThermostaticLoads{
		R:         make([]float64, n),
		C:         make([]float64, n),
		COP:       make([]float64, n),
		Max:       make([]float64, n),
		Beta:      make([]float64, n),
		TempLower: make([]float64, n),
		TempUpper: make([]float64, n),
	}

	for i, row := range raw.Schedule {
		if !inHorizon(row.Arrival, in.Horizon) || !inHorizon(row.Depart, in.Horizon) {
			return model.DemandProfile{}, model.DataShapeErrorf("bus %d: EV %d arrival/depart %d/%d outside [0, %d)", in.Bus, i+1, row.Arrival, row.Depart, in.Horizon)
		}
		if row.SLLow > row.SLUp {
			return model.DemandProfile{}, model.DataShapeErrorf("bus %d: shiftable load %d lower step %d after upper step %d", in.Bus, i+1, row.SLLow, row.SLUp)
		}

		p.EV.Arrival[i] = row.Arrival
		p.EV.Depart[i] = row.Depart
		p.EV.ChargePower[i] = in.Normalize(row.EVPower)
		p.EV.SoCLower[i] = in.Normalize(row.EVSoCLow)
		p.EV.SoCUpper[i] = in.Normalize(row.EVSoCUp)
		p.EV.SoCArrival[i] = in.Normalize(row.EVSoCArr)

		p.SL.Load[i] = in.Normalize(row.SLLoad)
		p.SL.Lower[i] = row.SLLow
		p.SL.Upper[i] = row.SLUp
		p.SL.Cycle[i] = row.SLCycle

		p.TCL.R[i] = row.TCLR
		p.TCL.C[i] = row.TCLC
		p.TCL.COP[i] = row.TCLCOP
		p.TCL.Max[i] = row.TCLMax
		p.TCL.Beta[i] = row.TCLBeta
		p.TCL.TempLower[i] = row.TCLTempLow
		p.TCL.TempUpper[i] = row.TCLTempUp
	}

	if err := recomputeDemand(&p.EV); err != nil {
		return model.DemandProfile{}, model.DataShapeErrorf("bus %d: %v", in.Bus, err)
	}
	return p, nil
}

func inHorizon(step, horizon int) bool {
	return step >= 0 && step < horizon
}
