package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-datagrid/components/grid"
)

// viewService covers the shared per-table view controls. Results are read
// back through queries.View.
type viewService interface {
	Search(ctx context.Context, req grid.SearchRequest) (grid.View, error)
	ToggleSort(ctx context.Context, req grid.SortRequest) (grid.View, error)
	SetPage(ctx context.Context, req grid.PageRequest) (grid.View, error)
	Reset(ctx context.Context, table string) (grid.View, error)
}

// SearchCommand replaces a table's search text.
type SearchCommand struct {
	service   viewService
	telemetry Telemetry
}

// NewSearchCommand creates the command.
func NewSearchCommand(service viewService, telemetry Telemetry) *SearchCommand {
	return &SearchCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[grid.SearchRequest] = (*SearchCommand)(nil)

// Execute applies the search text.
func (c *SearchCommand) Execute(ctx context.Context, msg grid.SearchRequest) error {
	if c.service == nil {
		return errors.New("search command requires service")
	}
	if _, err := c.service.Search(ctx, msg); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "grid.command.search", map[string]any{"table": msg.Table})
	return nil
}

// ToggleSortCommand cycles the sort direction of a field.
type ToggleSortCommand struct {
	service   viewService
	telemetry Telemetry
}

// NewToggleSortCommand creates the command.
func NewToggleSortCommand(service viewService, telemetry Telemetry) *ToggleSortCommand {
	return &ToggleSortCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[grid.SortRequest] = (*ToggleSortCommand)(nil)

// Execute toggles the sort.
func (c *ToggleSortCommand) Execute(ctx context.Context, msg grid.SortRequest) error {
	if c.service == nil {
		return errors.New("sort command requires service")
	}
	if _, err := c.service.ToggleSort(ctx, msg); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "grid.command.sort", map[string]any{
		"table": msg.Table,
		"field": msg.Field,
	})
	return nil
}

// SetPageCommand moves or resizes a table's page.
type SetPageCommand struct {
	service   viewService
	telemetry Telemetry
}

// NewSetPageCommand creates the command.
func NewSetPageCommand(service viewService, telemetry Telemetry) *SetPageCommand {
	return &SetPageCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[grid.PageRequest] = (*SetPageCommand)(nil)

// Execute applies the page request.
func (c *SetPageCommand) Execute(ctx context.Context, msg grid.PageRequest) error {
	if c.service == nil {
		return errors.New("page command requires service")
	}
	if _, err := c.service.SetPage(ctx, msg); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "grid.command.page", map[string]any{
		"table":     msg.Table,
		"page":      msg.Page,
		"page_size": msg.PageSize,
	})
	return nil
}

// ResetViewInput identifies the table whose view state is reset.
type ResetViewInput struct {
	Table string `json:"table"`
}

// ResetViewCommand restores default sort, search and paging.
type ResetViewCommand struct {
	service   viewService
	telemetry Telemetry
}

// NewResetViewCommand creates the command.
func NewResetViewCommand(service viewService, telemetry Telemetry) *ResetViewCommand {
	return &ResetViewCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ResetViewInput] = (*ResetViewCommand)(nil)

// Execute resets the view.
func (c *ResetViewCommand) Execute(ctx context.Context, msg ResetViewInput) error {
	if c.service == nil {
		return errors.New("reset command requires service")
	}
	if _, err := c.service.Reset(ctx, msg.Table); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "grid.command.reset", map[string]any{"table": msg.Table})
	return nil
}
