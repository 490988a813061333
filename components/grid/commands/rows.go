package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-datagrid/components/grid"
)

type rowService interface {
	AddRow(ctx context.Context, req grid.AddRowRequest) (grid.Row, error)
	UpdateField(ctx context.Context, req grid.UpdateFieldRequest) (grid.Row, error)
	RemoveRow(ctx context.Context, req grid.RemoveRowRequest) error
}

// AddRowCommand wraps Service.AddRow so transports can append rows without
// linking directly against the service.
type AddRowCommand struct {
	service   rowService
	telemetry Telemetry
}

// NewAddRowCommand creates a command instance.
func NewAddRowCommand(service rowService, telemetry Telemetry) *AddRowCommand {
	return &AddRowCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[grid.AddRowRequest] = (*AddRowCommand)(nil)

// Execute delegates to the grid service.
func (c *AddRowCommand) Execute(ctx context.Context, msg grid.AddRowRequest) error {
	if c.service == nil {
		return errors.New("add row command requires service")
	}
	row, err := c.service.AddRow(ctx, msg)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "grid.command.add_row", map[string]any{
		"table":  msg.Table,
		"row_id": row.ID,
	})
	return nil
}

// UpdateFieldCommand wraps Service.UpdateField.
type UpdateFieldCommand struct {
	service   rowService
	telemetry Telemetry
}

// NewUpdateFieldCommand creates a command instance.
func NewUpdateFieldCommand(service rowService, telemetry Telemetry) *UpdateFieldCommand {
	return &UpdateFieldCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[grid.UpdateFieldRequest] = (*UpdateFieldCommand)(nil)

// Execute edits one field of a row.
func (c *UpdateFieldCommand) Execute(ctx context.Context, msg grid.UpdateFieldRequest) error {
	if c.service == nil {
		return errors.New("update field command requires service")
	}
	if _, err := c.service.UpdateField(ctx, msg); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "grid.command.update_field", map[string]any{
		"table":  msg.Table,
		"row_id": msg.RowID,
		"field":  msg.Field,
	})
	return nil
}

// RemoveRowCommand wraps Service.RemoveRow.
type RemoveRowCommand struct {
	service   rowService
	telemetry Telemetry
}

// NewRemoveRowCommand builds a command instance.
func NewRemoveRowCommand(service rowService, telemetry Telemetry) *RemoveRowCommand {
	return &RemoveRowCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[grid.RemoveRowRequest] = (*RemoveRowCommand)(nil)

// Execute removes the row.
func (c *RemoveRowCommand) Execute(ctx context.Context, msg grid.RemoveRowRequest) error {
	if c.service == nil {
		return errors.New("remove row command requires service")
	}
	if err := c.service.RemoveRow(ctx, msg); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "grid.command.remove_row", map[string]any{
		"table":  msg.Table,
		"row_id": msg.RowID,
	})
	return nil
}

type importService interface {
	Import(ctx context.Context, req grid.ImportRequest) (int, error)
}

// ImportRowsCommand loads a batch of rows into a table.
type ImportRowsCommand struct {
	service   importService
	telemetry Telemetry
}

// NewImportRowsCommand builds a command instance.
func NewImportRowsCommand(service importService, telemetry Telemetry) *ImportRowsCommand {
	return &ImportRowsCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[grid.ImportRequest] = (*ImportRowsCommand)(nil)

// Execute imports every row or none of them.
func (c *ImportRowsCommand) Execute(ctx context.Context, msg grid.ImportRequest) error {
	if c.service == nil {
		return errors.New("import command requires service")
	}
	n, err := c.service.Import(ctx, msg)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "grid.command.import", map[string]any{
		"table":   msg.Table,
		"rows":    n,
		"replace": msg.Replace,
	})
	return nil
}
