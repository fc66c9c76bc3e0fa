package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVParser parses a headed CSV file into a Table.
//
// Expected format:
//
//	Arrival,Depart,EV_Power,...
//	8,17,7.4,...
//
// Comma overrides the field separator; zero means ','.
type CSVParser struct {
	Comma rune
}

func (p *CSVParser) Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	if p.Comma != 0 {
		cr.Comma = p.Comma
	}

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	var rows [][]string
	lineNum := 1

	for {
		lineNum++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV line %d: %w", lineNum, err)
		}
		rows = append(rows, record)
	}

	return NewTable(header, rows), nil
}
