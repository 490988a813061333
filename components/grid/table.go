package grid

import (
	"maps"
	"strconv"
	"strings"

	"github.com/ettle/strcase"
)

// SeedRows converts the definition's seed values into rows with
// position-based identities ("1", "2", ...).
func (d TableDefinition) SeedRows() []Row {
	rows := make([]Row, 0, len(d.Seed))
	for idx, values := range d.Seed {
		rows = append(rows, Row{ID: strconv.Itoa(idx + 1), Values: maps.Clone(values)})
	}
	return rows
}

// Engine builds an engine for the definition holding rows. Definition page
// size and locale apply unless opts sets them.
func (d TableDefinition) Engine(rows []Row, opts EngineOptions) (*Engine, error) {
	if opts.PageSize <= 0 {
		opts.PageSize = d.PageSize
	}
	if opts.Locale == "" {
		opts.Locale = d.Locale
	}
	return NewEngine(d.Schema, rows, opts)
}

// ExportColumns returns the configured columns or one per schema field.
func (d TableDefinition) ExportColumns() []Column {
	if len(d.Columns) > 0 {
		return append([]Column(nil), d.Columns...)
	}
	return d.Schema.DefaultColumns()
}

// Filename returns the CSV file name offered for downloads.
func (d TableDefinition) Filename() string {
	if d.ExportFilename != "" {
		return d.ExportFilename
	}
	code := d.Code
	if idx := strings.LastIndex(code, "."); idx >= 0 {
		code = code[idx+1:]
	}
	return strcase.ToSnake(code) + ".csv"
}
