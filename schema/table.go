package schema

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lvillar/pdfcompose/placeholder"
	"github.com/lvillar/pdfcompose/style"
)

// Column separator and separator-line width of synthesized table templates.
const (
	cellSeparator   = " | "
	dashesPerColumn = 10
)

// Table is tabular data: named columns and ordered rows. A row shorter than
// the column list has empty trailing cells; extra cells are ignored.
type Table struct {
	Columns []string
	Rows    [][]any
}

// cell returns the value at column c of row r, or nil when the row is short.
func (t Table) cell(r, c int) any {
	row := t.Rows[r]
	if c >= len(row) {
		return nil
	}
	return row[c]
}

// CellKey returns the placeholder token for column col at zero-based row.
func CellKey(col string, row int) string {
	return placeholder.Token(col + "_" + strconv.Itoa(row))
}

// FromTable builds one placeholder per cell, keyed "{{Column_row}}", and the
// plain-text template that lays them out. Both walk columns and rows in the
// table's order, so the row index in every key lines up with the template.
func FromTable(t Table, def style.Style) (*placeholder.Registry, string) {
	reg := placeholder.NewRegistry()
	for c, col := range t.Columns {
		for r := range t.Rows {
			reg.Set(CellKey(col, r), Stringify(t.cell(r, c)), def)
		}
	}
	return reg, TableTemplate(t)
}

// TableTemplate renders the template for t: a header line of column names, a
// line of dashes ten per column, then one line of cell tokens per row. Every
// cell, the last included, is followed by " | ".
func TableTemplate(t Table) string {
	var b strings.Builder

	for _, col := range t.Columns {
		b.WriteString(col)
		b.WriteString(cellSeparator)
	}
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("-", len(t.Columns)*dashesPerColumn))
	b.WriteByte('\n')

	for r := range t.Rows {
		for _, col := range t.Columns {
			b.WriteString(CellKey(col, r))
			b.WriteString(cellSeparator)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// TableFromCSV reads a table whose first record holds the column names.
func TableFromCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Table{}, nil
	}
	if err != nil {
		return Table{}, fmt.Errorf("schema: reading csv header: %w", err)
	}

	t := Table{Columns: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("schema: reading csv row %d: %w", len(t.Rows)+1, err)
		}
		row := make([]any, len(rec))
		for i, v := range rec {
			row[i] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
