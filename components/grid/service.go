package grid

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// Options configures the grid Service. Every collaborator is provided via
// interface so applications can swap implementations.
type Options struct {
	Registry    TableRegistry
	Store       RowStore
	RefreshHook RefreshHook
	Telemetry   Telemetry
	Validator   RowValidator
	// PageSize and Locale apply to tables whose definition leaves them unset.
	PageSize    int
	Locale      string
	IDGenerator func() string
}

// Service serves many tables, one engine per table code. Engines are opened
// lazily and each is guarded by its own lock.
type Service struct {
	opts Options

	mu     sync.Mutex
	tables map[string]*tableState
}

type tableState struct {
	mu     sync.Mutex
	def    TableDefinition
	engine *Engine
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.Store == nil {
		opts.Store = NewInMemoryRowStore()
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Locale == "" {
		opts.Locale = DefaultLocale
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Service{opts: opts, tables: map[string]*tableState{}}
}

// TableSummary describes a registered table without its seed rows.
type TableSummary struct {
	Code           string   `json:"code"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Fields         []Field  `json:"fields"`
	Columns        []Column `json:"columns"`
	PageSize       int      `json:"page_size"`
	ExportFilename string   `json:"export_filename"`
}

// Tables lists the registered tables sorted by code.
func (s *Service) Tables(context.Context) []TableSummary {
	defs := s.opts.Registry.Definitions()
	out := make([]TableSummary, 0, len(defs))
	for _, def := range defs {
		pageSize := def.PageSize
		if pageSize <= 0 {
			pageSize = s.opts.PageSize
		}
		out = append(out, TableSummary{
			Code:           def.Code,
			Name:           def.Name,
			Description:    def.Description,
			Fields:         def.Schema.Fields,
			Columns:        def.ExportColumns(),
			PageSize:       pageSize,
			ExportFilename: def.Filename(),
		})
	}
	return out
}

// Definition returns the definition registered under code.
func (s *Service) Definition(code string) (TableDefinition, error) {
	def, ok := s.opts.Registry.Definition(code)
	if !ok {
		return TableDefinition{}, fmt.Errorf("%w: %s", ErrUnknownTable, code)
	}
	return def, nil
}

// View returns the current page of a table.
func (s *Service) View(ctx context.Context, table string) (View, error) {
	var view View
	err := s.withTable(ctx, table, func(t *tableState) error {
		view = t.view()
		return nil
	})
	return view, err
}

// SearchRequest replaces a table's search text.
type SearchRequest struct {
	Table string `json:"table"`
	Text  string `json:"text"`
}

// Search filters a table and returns its first page.
func (s *Service) Search(ctx context.Context, req SearchRequest) (View, error) {
	var view View
	err := s.withTable(ctx, req.Table, func(t *tableState) error {
		t.engine.SetSearchText(req.Text)
		view = t.view()
		return nil
	})
	if err != nil {
		return View{}, err
	}
	s.recordTelemetry(ctx, "grid.view.search", map[string]any{
		"table": req.Table,
		"text":  req.Text,
		"total": view.Total,
	})
	return view, s.notify(ctx, TableEvent{Table: req.Table, Reason: "view"})
}

// SortRequest toggles the sort on a table field.
type SortRequest struct {
	Table string `json:"table"`
	Field string `json:"field"`
}

// ToggleSort cycles a field's sort direction and returns the refreshed page.
func (s *Service) ToggleSort(ctx context.Context, req SortRequest) (View, error) {
	var view View
	err := s.withTable(ctx, req.Table, func(t *tableState) error {
		if _, err := t.engine.ToggleSort(req.Field); err != nil {
			return err
		}
		view = t.view()
		return nil
	})
	if err != nil {
		return View{}, err
	}
	s.recordTelemetry(ctx, "grid.view.sort", map[string]any{
		"table":     req.Table,
		"field":     view.Sort.Key,
		"direction": string(view.Sort.Direction),
	})
	return view, s.notify(ctx, TableEvent{Table: req.Table, Field: req.Field, Reason: "view"})
}

// PageRequest moves a table to a page, optionally resizing it first.
type PageRequest struct {
	Table    string `json:"table"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size,omitempty"`
}

// SetPage applies PageSize when positive, then moves to Page (clamped).
func (s *Service) SetPage(ctx context.Context, req PageRequest) (View, error) {
	var view View
	err := s.withTable(ctx, req.Table, func(t *tableState) error {
		if req.PageSize != 0 {
			if err := t.engine.SetPageSize(req.PageSize); err != nil {
				return err
			}
		}
		if req.Page != 0 {
			t.engine.SetPage(req.Page)
		}
		view = t.view()
		return nil
	})
	if err != nil {
		return View{}, err
	}
	s.recordTelemetry(ctx, "grid.view.page", map[string]any{
		"table":     req.Table,
		"page":      view.Page,
		"page_size": view.PageSize,
	})
	return view, s.notify(ctx, TableEvent{Table: req.Table, Reason: "view"})
}

// SetPageSize resizes a table's page keeping the first visible row on screen.
func (s *Service) SetPageSize(ctx context.Context, table string, size int) (View, error) {
	if size <= 0 {
		return View{}, invalid("set page size", "", "", ErrInvalidPageSize)
	}
	return s.SetPage(ctx, PageRequest{Table: table, PageSize: size})
}

// Reset restores a table's default sort, search and paging.
func (s *Service) Reset(ctx context.Context, table string) (View, error) {
	var view View
	err := s.withTable(ctx, table, func(t *tableState) error {
		t.engine.Reset()
		view = t.view()
		return nil
	})
	if err != nil {
		return View{}, err
	}
	s.recordTelemetry(ctx, "grid.view.reset", map[string]any{"table": table})
	return view, s.notify(ctx, TableEvent{Table: table, Reason: "view"})
}

// AddRowRequest captures the data required to append a row.
type AddRowRequest struct {
	Table  string         `json:"table"`
	ID     string         `json:"id,omitempty"`
	Values map[string]any `json:"values"`
}

// AddRow validates and appends a row to a table.
func (s *Service) AddRow(ctx context.Context, req AddRowRequest) (Row, error) {
	var row Row
	err := s.withTable(ctx, req.Table, func(t *tableState) error {
		added, err := t.engine.AddRow(Row{ID: req.ID, Values: req.Values})
		row = added
		return err
	})
	if err != nil {
		return Row{}, err
	}
	s.recordTelemetry(ctx, "grid.row.add", map[string]any{
		"table":  req.Table,
		"row_id": row.ID,
	})
	return row, s.notify(ctx, TableEvent{Table: req.Table, RowID: row.ID, Reason: "add"})
}

// UpdateFieldRequest sets a single field on a row.
type UpdateFieldRequest struct {
	Table string `json:"table"`
	RowID string `json:"row_id"`
	Field string `json:"field"`
	Value any    `json:"value"`
}

// UpdateField edits one field of a row by identity.
func (s *Service) UpdateField(ctx context.Context, req UpdateFieldRequest) (Row, error) {
	var row Row
	err := s.withTable(ctx, req.Table, func(t *tableState) error {
		updated, err := t.engine.UpdateField(req.RowID, req.Field, req.Value)
		row = updated
		return err
	})
	if err != nil {
		return Row{}, err
	}
	s.recordTelemetry(ctx, "grid.row.update", map[string]any{
		"table":  req.Table,
		"row_id": req.RowID,
		"field":  req.Field,
	})
	return row, s.notify(ctx, TableEvent{Table: req.Table, RowID: req.RowID, Field: req.Field, Reason: "update"})
}

// RemoveRowRequest identifies the row to delete.
type RemoveRowRequest struct {
	Table string `json:"table"`
	RowID string `json:"row_id"`
}

// RemoveRow deletes a row by identity.
func (s *Service) RemoveRow(ctx context.Context, req RemoveRowRequest) error {
	err := s.withTable(ctx, req.Table, func(t *tableState) error {
		return t.engine.RemoveRow(req.RowID)
	})
	if err != nil {
		return err
	}
	s.recordTelemetry(ctx, "grid.row.remove", map[string]any{
		"table":  req.Table,
		"row_id": req.RowID,
	})
	return s.notify(ctx, TableEvent{Table: req.Table, RowID: req.RowID, Reason: "remove"})
}

// ImportRequest loads rows into a table. Replace discards the existing rows.
type ImportRequest struct {
	Table   string `json:"table"`
	Rows    []Row  `json:"rows"`
	Replace bool   `json:"replace,omitempty"`
}

// Import adds rows in one step: either all of them load or the table is left
// unchanged. The current sort, search and paging carry over.
func (s *Service) Import(ctx context.Context, req ImportRequest) (int, error) {
	err := s.withTable(ctx, req.Table, func(t *tableState) error {
		rows := req.Rows
		if !req.Replace {
			rows = append(t.engine.Rows(), req.Rows...)
		}
		next, err := s.newEngine(t.def, rows)
		if err != nil {
			return err
		}
		next.restore(t.engine)
		t.engine = next
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.recordTelemetry(ctx, "grid.table.import", map[string]any{
		"table":   req.Table,
		"rows":    len(req.Rows),
		"replace": req.Replace,
	})
	return len(req.Rows), s.notify(ctx, TableEvent{Table: req.Table, Reason: "import"})
}

// ExportRequest selects the table and optional columns for a CSV export.
type ExportRequest struct {
	Table   string   `json:"table"`
	Columns []Column `json:"columns,omitempty"`
}

// Export writes the table's filtered and sorted rows as CSV.
func (s *Service) Export(ctx context.Context, w io.Writer, req ExportRequest) error {
	err := s.withTable(ctx, req.Table, func(t *tableState) error {
		columns := req.Columns
		if len(columns) == 0 {
			columns = t.def.ExportColumns()
		}
		return t.engine.ExportCSV(w, columns)
	})
	if err != nil {
		return err
	}
	s.recordTelemetry(ctx, "grid.table.export", map[string]any{"table": req.Table})
	return nil
}

// Save writes the table's rows to the row store.
func (s *Service) Save(ctx context.Context, table string) error {
	var count int
	err := s.withTable(ctx, table, func(t *tableState) error {
		rows := t.engine.Rows()
		count = len(rows)
		if err := s.opts.Store.SaveRows(ctx, table, rows); err != nil {
			return fmt.Errorf("grid: save table %s: %w", table, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.recordTelemetry(ctx, "grid.table.save", map[string]any{
		"table": table,
		"rows":  count,
	})
	return s.notify(ctx, TableEvent{Table: table, Reason: "save"})
}

// NotifyTableUpdated exposes refresh hook invocation for commands/transports.
func (s *Service) NotifyTableUpdated(ctx context.Context, event TableEvent) error {
	if _, ok := s.opts.Registry.Definition(event.Table); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTable, event.Table)
	}
	return s.notify(ctx, event)
}

func (s *Service) notify(ctx context.Context, event TableEvent) error {
	return s.opts.RefreshHook.TableUpdated(ctx, event)
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

func (s *Service) withTable(ctx context.Context, code string, fn func(t *tableState) error) error {
	t, err := s.open(ctx, code)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(t)
}

func (s *Service) open(ctx context.Context, code string) (*tableState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tables[code]; ok {
		return t, nil
	}
	def, err := s.Definition(code)
	if err != nil {
		return nil, err
	}
	rows, err := s.opts.Store.LoadRows(ctx, code)
	switch {
	case errors.Is(err, ErrNoSnapshot):
		rows = def.SeedRows()
	case err != nil:
		return nil, fmt.Errorf("grid: load table %s: %w", code, err)
	}
	engine, err := s.newEngine(def, rows)
	if err != nil {
		return nil, fmt.Errorf("grid: open table %s: %w", code, err)
	}
	t := &tableState{def: def, engine: engine}
	s.tables[code] = t
	return t, nil
}

func (s *Service) newEngine(def TableDefinition, rows []Row) (*Engine, error) {
	return def.Engine(rows, EngineOptions{
		PageSize:    pageSizeOr(def.PageSize, s.opts.PageSize),
		Locale:      stringOr(def.Locale, s.opts.Locale),
		Validator:   s.opts.Validator,
		IDGenerator: s.opts.IDGenerator,
	})
}

func (t *tableState) view() View {
	view := t.engine.VisibleRows()
	view.Table = t.def.Code
	return view
}

func pageSizeOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func stringOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

type noopRefreshHook struct{}

func (noopRefreshHook) TableUpdated(context.Context, TableEvent) error {
	return nil
}
