package ingest

import "io"

// Parser reads a tabular source and returns it as a Table.
type Parser interface {
	Parse(r io.Reader) (*Table, error)
}
