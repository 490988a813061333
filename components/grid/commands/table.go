package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-datagrid/components/grid"
)

// SaveTableInput names the table to snapshot.
type SaveTableInput struct {
	Table string `json:"table"`
}

type saveService interface {
	Save(ctx context.Context, table string) error
}

// SaveTableCommand writes a table's rows to the configured row store.
type SaveTableCommand struct {
	service   saveService
	telemetry Telemetry
}

// NewSaveTableCommand creates the command.
func NewSaveTableCommand(service saveService, telemetry Telemetry) *SaveTableCommand {
	return &SaveTableCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SaveTableInput] = (*SaveTableCommand)(nil)

// Execute saves the table snapshot.
func (c *SaveTableCommand) Execute(ctx context.Context, msg SaveTableInput) error {
	if c.service == nil {
		return errors.New("save command requires service")
	}
	if err := c.service.Save(ctx, msg.Table); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "grid.command.save", map[string]any{"table": msg.Table})
	return nil
}

// RefreshTableInput emits a refresh notification for a table.
type RefreshTableInput struct {
	Event grid.TableEvent `json:"event"`
}

type refreshNotifier interface {
	NotifyTableUpdated(ctx context.Context, event grid.TableEvent) error
}

// RefreshTableCommand triggers refresh hooks without touching table data.
type RefreshTableCommand struct {
	service   refreshNotifier
	telemetry Telemetry
}

// NewRefreshTableCommand creates the command.
func NewRefreshTableCommand(service refreshNotifier, telemetry Telemetry) *RefreshTableCommand {
	return &RefreshTableCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshTableInput] = (*RefreshTableCommand)(nil)

// Execute notifies the service's refresh hook.
func (c *RefreshTableCommand) Execute(ctx context.Context, msg RefreshTableInput) error {
	if c.service == nil {
		return errors.New("refresh command requires service")
	}
	if msg.Event.Reason == "" {
		msg.Event.Reason = "refresh"
	}
	if err := c.service.NotifyTableUpdated(ctx, msg.Event); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "grid.command.refresh", map[string]any{
		"table":  msg.Event.Table,
		"reason": msg.Event.Reason,
	})
	return nil
}
