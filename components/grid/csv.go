package grid

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
)

// ExportCSV writes the filtered and sorted rows, without pagination, using
// the given columns. Nil columns export every field in schema order.
func (e *Engine) ExportCSV(w io.Writer, columns []Column) error {
	if len(columns) == 0 {
		columns = e.schema.DefaultColumns()
	}
	if err := checkColumns(e.schema, columns); err != nil {
		return err
	}
	return WriteCSV(w, columns, e.Filtered())
}

// WriteCSV writes a header of column labels followed by one line per row.
func WriteCSV(w io.Writer, columns []Column, rows iter.Seq[Row]) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Label
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("grid: write csv header: %w", err)
	}
	record := make([]string, len(columns))
	for row := range rows {
		for i, col := range columns {
			record[i] = FormatValue(row.Values[col.Field])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("grid: write csv row %s: %w", row.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("grid: flush csv: %w", err)
	}
	return nil
}

// ReadCSV parses a document produced by WriteCSV back into raw rows. Header
// cells are matched against column labels, field names and display labels.
// Values are left as strings; the engine coerces them on load.
func ReadCSV(r io.Reader, schema Schema, columns []Column) ([]Row, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("grid: csv document is empty")
		}
		return nil, fmt.Errorf("grid: read csv header: %w", err)
	}
	fields := make([]string, len(header))
	for i, cell := range header {
		name, ok := resolveHeader(schema, columns, cell)
		if !ok {
			return nil, invalid("read csv", "", strings.TrimSpace(cell), ErrUnknownField)
		}
		fields[i] = name
	}
	cr.FieldsPerRecord = len(header)

	var rows []Row
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("grid: read csv row %d: %w", len(rows)+1, err)
		}
		values := make(map[string]any, len(record))
		for i, cell := range record {
			if cell == "" {
				continue
			}
			values[fields[i]] = cell
		}
		rows = append(rows, Row{Values: values})
	}
	return rows, nil
}

func resolveHeader(schema Schema, columns []Column, cell string) (string, bool) {
	cell = strings.TrimSpace(cell)
	for _, col := range columns {
		if strings.EqualFold(col.Label, cell) {
			return col.Field, true
		}
	}
	for _, f := range schema.Fields {
		if strings.EqualFold(f.Name, cell) || strings.EqualFold(f.DisplayLabel(), cell) {
			return f.Name, true
		}
	}
	return "", false
}

func checkColumns(schema Schema, columns []Column) error {
	for _, col := range columns {
		if _, ok := schema.Field(col.Field); !ok {
			return invalid("export", "", col.Field, ErrUnknownField)
		}
	}
	return nil
}
