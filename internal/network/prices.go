package network

import (
	"fmt"

	"prosumer_scenarios/internal/ingest"
	"prosumer_scenarios/internal/model"
)

// PriceCurves are the competitive aggregators' offer and bid prices per bus,
// one value per time step.
type PriceCurves struct {
	Offers map[int][]float64
	Bids   map[int][]float64
}

// OfferColumns returns "t=1".."t=horizon".
func OfferColumns(horizon int) []string {
	cols := make([]string, horizon)
	for i := range cols {
		cols[i] = fmt.Sprintf("t=%d", i+1)
	}
	return cols
}

// BidColumns returns the repeated step headers as disambiguated by
// ingest.NewTable: "t=1.1".."t=horizon.1".
func BidColumns(horizon int) []string {
	cols := make([]string, horizon)
	for i := range cols {
		cols[i] = fmt.Sprintf("t=%d.1", i+1)
	}
	return cols
}

// ReadPriceCurves parses the offer/bid sheet.
func ReadPriceCurves(t *ingest.Table, horizon int) (PriceCurves, error) {
	if horizon <= 0 {
		return PriceCurves{}, model.ConfigErrorf("horizon must be positive, got %d", horizon)
	}
	busCol, err := t.RequireColumns(model.ColBusNo)
	if err != nil {
		return PriceCurves{}, err
	}
	offerCols, err := t.RequireColumns(OfferColumns(horizon)...)
	if err != nil {
		return PriceCurves{}, fmt.Errorf("offers: %w", err)
	}
	bidCols, err := t.RequireColumns(BidColumns(horizon)...)
	if err != nil {
		return PriceCurves{}, fmt.Errorf("bids: %w", err)
	}

	pc := PriceCurves{
		Offers: make(map[int][]float64, t.Len()),
		Bids:   make(map[int][]float64, t.Len()),
	}
	for r := 0; r < t.Len(); r++ {
		bus, err := t.Int(r, busCol[0])
		if err != nil {
			return PriceCurves{}, err
		}
		offers, err := rowValues(t, r, offerCols)
		if err != nil {
			return PriceCurves{}, err
		}
		bids, err := rowValues(t, r, bidCols)
		if err != nil {
			return PriceCurves{}, err
		}
		pc.Offers[bus] = offers
		pc.Bids[bus] = bids
	}
	return pc, nil
}

func rowValues(t *ingest.Table, row int, cols []int) ([]float64, error) {
	out := make([]float64, len(cols))
	for i, c := range cols {
		v, err := t.Float(row, c)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
