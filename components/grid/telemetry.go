package grid

import (
	"context"
	"log/slog"
	"sort"
)

// Telemetry records grid events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// LogTelemetry writes telemetry events as structured log records.
type LogTelemetry struct {
	logger *slog.Logger
	level  slog.Level
}

// NewLogTelemetry adapts a slog logger. A nil logger uses slog.Default.
func NewLogTelemetry(logger *slog.Logger, level slog.Level) *LogTelemetry {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogTelemetry{logger: logger, level: level}
}

// Record logs the event name with the payload as sorted attributes.
func (t *LogTelemetry) Record(ctx context.Context, event string, payload map[string]any) {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, payload[k]))
	}
	t.logger.LogAttrs(ctx, t.level, event, attrs...)
}
