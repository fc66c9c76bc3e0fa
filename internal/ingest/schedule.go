package ingest

import (
	"prosumer_scenarios/internal/model"
)

// ParseSchedule converts a schedule table into typed rows. Every column of
// model.ScheduleColumns must be present.
func ParseSchedule(t *Table) ([]model.ScheduleRow, error) {
	idx, err := t.RequireColumns(model.ScheduleColumns...)
	if err != nil {
		return nil, err
	}
	col := make(map[string]int, len(idx))
	for i, name := range model.ScheduleColumns {
		col[name] = idx[i]
	}

	rows := make([]model.ScheduleRow, t.Len())
	for r := range rows {
		var row model.ScheduleRow
		ints := []struct {
			name string
			dst  *int
		}{
			{model.ColArrival, &row.Arrival},
			{model.ColDepart, &row.Depart},
			{model.ColSLLow, &row.SLLow},
			{model.ColSLUp, &row.SLUp},
			{model.ColSLCycle, &row.SLCycle},
		}
		for _, f := range ints {
			v, err := t.Int(r, col[f.name])
			if err != nil {
				return nil, err
			}
			*f.dst = v
		}

		floats := []struct {
			name string
			dst  *float64
		}{
			{model.ColEVPower, &row.EVPower},
			{model.ColEVSoCLow, &row.EVSoCLow},
			{model.ColEVSoCUp, &row.EVSoCUp},
			{model.ColEVSoCArr, &row.EVSoCArr},
			{model.ColSLLoads, &row.SLLoad},
			{model.ColTCLR, &row.TCLR},
			{model.ColTCLC, &row.TCLC},
			{model.ColTCLCOP, &row.TCLCOP},
			{model.ColTCLMax, &row.TCLMax},
			{model.ColTCLBeta, &row.TCLBeta},
			{model.ColTCLTempLow, &row.TCLTempLow},
			{model.ColTCLTempUp, &row.TCLTempUp},
		}
		for _, f := range floats {
			v, err := t.Float(r, col[f.name])
			if err != nil {
				return nil, err
			}
			*f.dst = v
		}
		rows[r] = row
	}
	return rows, nil
}
