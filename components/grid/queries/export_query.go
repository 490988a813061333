package queries

import (
	"bytes"
	"context"
	"io"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-datagrid/components/grid"
)

// ExportResult is a rendered CSV document and its download name.
type ExportResult struct {
	Filename string
	Data     []byte
}

type exportService interface {
	Definition(code string) (grid.TableDefinition, error)
	Export(ctx context.Context, w io.Writer, req grid.ExportRequest) error
}

// ExportQuery renders a table's filtered and sorted rows as CSV.
type ExportQuery struct {
	service exportService
}

// NewExportQuery builds the query.
func NewExportQuery(service exportService) *ExportQuery {
	return &ExportQuery{service: service}
}

var _ gocommand.Querier[grid.ExportRequest, ExportResult] = (*ExportQuery)(nil)

// Query renders the export into memory.
func (q *ExportQuery) Query(ctx context.Context, req grid.ExportRequest) (ExportResult, error) {
	def, err := q.service.Definition(req.Table)
	if err != nil {
		return ExportResult{}, err
	}
	var buf bytes.Buffer
	if err := q.service.Export(ctx, &buf, req); err != nil {
		return ExportResult{}, err
	}
	return ExportResult{Filename: def.Filename(), Data: buf.Bytes()}, nil
}
