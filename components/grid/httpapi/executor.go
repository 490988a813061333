package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-datagrid/components/grid"
	"github.com/goliatone/go-datagrid/components/grid/commands"
	"github.com/goliatone/go-datagrid/components/grid/queries"
)

// Executor abstracts grid operations for transports.
type Executor interface {
	Tables(ctx context.Context) ([]grid.TableSummary, error)
	View(ctx context.Context, table string) (grid.View, error)
	AddRow(ctx context.Context, req grid.AddRowRequest) error
	UpdateField(ctx context.Context, req grid.UpdateFieldRequest) error
	RemoveRow(ctx context.Context, req grid.RemoveRowRequest) error
	Search(ctx context.Context, req grid.SearchRequest) error
	ToggleSort(ctx context.Context, req grid.SortRequest) error
	SetPage(ctx context.Context, req grid.PageRequest) error
	Reset(ctx context.Context, table string) error
	Export(ctx context.Context, req grid.ExportRequest) (queries.ExportResult, error)
}

var errNotConfigured = errors.New("httpapi: operation not configured")

// CommandExecutor routes Executor calls through go-command handlers.
type CommandExecutor struct {
	AddRowCmd      gocommand.Commander[grid.AddRowRequest]
	UpdateFieldCmd gocommand.Commander[grid.UpdateFieldRequest]
	RemoveRowCmd   gocommand.Commander[grid.RemoveRowRequest]
	SearchCmd      gocommand.Commander[grid.SearchRequest]
	SortCmd        gocommand.Commander[grid.SortRequest]
	PageCmd        gocommand.Commander[grid.PageRequest]
	ResetCmd       gocommand.Commander[commands.ResetViewInput]

	ViewQuery   gocommand.Querier[queries.ViewInput, grid.View]
	TablesQuery gocommand.Querier[queries.TablesInput, []grid.TableSummary]
	ExportQuery gocommand.Querier[grid.ExportRequest, queries.ExportResult]
}

// NewCommandExecutor wires every command and query against one service.
func NewCommandExecutor(service *grid.Service, telemetry commands.Telemetry) *CommandExecutor {
	return &CommandExecutor{
		AddRowCmd:      commands.NewAddRowCommand(service, telemetry),
		UpdateFieldCmd: commands.NewUpdateFieldCommand(service, telemetry),
		RemoveRowCmd:   commands.NewRemoveRowCommand(service, telemetry),
		SearchCmd:      commands.NewSearchCommand(service, telemetry),
		SortCmd:        commands.NewToggleSortCommand(service, telemetry),
		PageCmd:        commands.NewSetPageCommand(service, telemetry),
		ResetCmd:       commands.NewResetViewCommand(service, telemetry),
		ViewQuery:      queries.NewViewQuery(service),
		TablesQuery:    queries.NewTablesQuery(service),
		ExportQuery:    queries.NewExportQuery(service),
	}
}

var _ Executor = (*CommandExecutor)(nil)

func (e *CommandExecutor) Tables(ctx context.Context) ([]grid.TableSummary, error) {
	if e.TablesQuery == nil {
		return nil, errNotConfigured
	}
	return e.TablesQuery.Query(ctx, queries.TablesInput{})
}

func (e *CommandExecutor) View(ctx context.Context, table string) (grid.View, error) {
	if e.ViewQuery == nil {
		return grid.View{}, errNotConfigured
	}
	return e.ViewQuery.Query(ctx, queries.ViewInput{Table: table})
}

func (e *CommandExecutor) AddRow(ctx context.Context, req grid.AddRowRequest) error {
	return execute(ctx, e.AddRowCmd, req)
}

func (e *CommandExecutor) UpdateField(ctx context.Context, req grid.UpdateFieldRequest) error {
	return execute(ctx, e.UpdateFieldCmd, req)
}

func (e *CommandExecutor) RemoveRow(ctx context.Context, req grid.RemoveRowRequest) error {
	return execute(ctx, e.RemoveRowCmd, req)
}

func (e *CommandExecutor) Search(ctx context.Context, req grid.SearchRequest) error {
	return execute(ctx, e.SearchCmd, req)
}

func (e *CommandExecutor) ToggleSort(ctx context.Context, req grid.SortRequest) error {
	return execute(ctx, e.SortCmd, req)
}

func (e *CommandExecutor) SetPage(ctx context.Context, req grid.PageRequest) error {
	return execute(ctx, e.PageCmd, req)
}

func (e *CommandExecutor) Reset(ctx context.Context, table string) error {
	return execute(ctx, e.ResetCmd, commands.ResetViewInput{Table: table})
}

func (e *CommandExecutor) Export(ctx context.Context, req grid.ExportRequest) (queries.ExportResult, error) {
	if e.ExportQuery == nil {
		return queries.ExportResult{}, errNotConfigured
	}
	return e.ExportQuery.Query(ctx, req)
}

func execute[T any](ctx context.Context, cmd gocommand.Commander[T], msg T) error {
	if cmd == nil {
		return errNotConfigured
	}
	return cmd.Execute(ctx, msg)
}
