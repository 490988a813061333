package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-datagrid/components/grid"
)

// ViewInput identifies the table whose current page is read.
type ViewInput struct {
	Table string `json:"table"`
}

type viewService interface {
	View(ctx context.Context, table string) (grid.View, error)
}

// ViewQuery reads the visible page of a table.
type ViewQuery struct {
	service viewService
}

// NewViewQuery builds the query.
func NewViewQuery(service viewService) *ViewQuery {
	return &ViewQuery{service: service}
}

var _ gocommand.Querier[ViewInput, grid.View] = (*ViewQuery)(nil)

// Query returns the table's current page.
func (q *ViewQuery) Query(ctx context.Context, input ViewInput) (grid.View, error) {
	return q.service.View(ctx, input.Table)
}

// TablesInput is the empty input for TablesQuery.
type TablesInput struct{}

type tablesService interface {
	Tables(ctx context.Context) []grid.TableSummary
}

// TablesQuery lists registered tables.
type TablesQuery struct {
	service tablesService
}

// NewTablesQuery builds the query.
func NewTablesQuery(service tablesService) *TablesQuery {
	return &TablesQuery{service: service}
}

var _ gocommand.Querier[TablesInput, []grid.TableSummary] = (*TablesQuery)(nil)

// Query lists the tables.
func (q *TablesQuery) Query(ctx context.Context, _ TablesInput) ([]grid.TableSummary, error) {
	return q.service.Tables(ctx), nil
}
