package ingest

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Workbook reads sheets of a network data spreadsheet as Tables.
type Workbook struct {
	file *excelize.File
	path string
}

// OpenWorkbook opens an .xlsx file.
func OpenWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	return &Workbook{file: f, path: path}, nil
}

// Sheet returns the named sheet; the first row is the header.
func (w *Workbook) Sheet(name string) (*Table, error) {
	rows, err := w.file.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q of %s: %w", name, w.path, err)
	}
	if len(rows) == 0 {
		return NewTable(nil, nil), nil
	}
	return NewTable(rows[0], rows[1:]), nil
}

func (w *Workbook) Close() error {
	return w.file.Close()
}
