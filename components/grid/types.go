package grid

import "context"

// FieldType declares how a field's values are coerced, compared and rendered.
type FieldType string

const (
	// FieldString holds free text and sorts with locale-aware collation.
	FieldString FieldType = "string"
	// FieldNumber holds finite float64 values and sorts numerically.
	FieldNumber FieldType = "number"
)

// Valid reports whether the type is one of the supported field types.
func (t FieldType) Valid() bool {
	return t == FieldString || t == FieldNumber
}

// Field describes one column of a table schema.
type Field struct {
	Name       string    `json:"name" yaml:"name"`
	Label      string    `json:"label,omitempty" yaml:"label,omitempty"`
	Type       FieldType `json:"type" yaml:"type"`
	Required   bool      `json:"required,omitempty" yaml:"required,omitempty"`
	Searchable bool      `json:"searchable,omitempty" yaml:"searchable,omitempty"`
	ReadOnly   bool      `json:"read_only,omitempty" yaml:"read_only,omitempty"`
	Unsortable bool      `json:"unsortable,omitempty" yaml:"unsortable,omitempty"`
	Enum       []string  `json:"enum,omitempty" yaml:"enum,omitempty"`
	Minimum    *float64  `json:"minimum,omitempty" yaml:"minimum,omitempty"`
}

// Schema is the fixed field set shared by every row in a table.
type Schema struct {
	Fields []Field `json:"fields" yaml:"fields"`
}

// Column pairs an export/display label with a schema field.
type Column struct {
	Label string `json:"label" yaml:"label"`
	Field string `json:"field" yaml:"field"`
}

// Row is a single record. ID is stable across sorting, filtering and edits.
// Values only ever hold string or float64 entries keyed by field name.
type Row struct {
	ID     string         `json:"id"`
	Values map[string]any `json:"values"`
}

// SortDirection is the direction of the active sort.
type SortDirection string

const (
	SortNone       SortDirection = ""
	SortAscending  SortDirection = "ascending"
	SortDescending SortDirection = "descending"
)

// SortState names the sorted field. Direction is SortNone iff Key is empty.
type SortState struct {
	Key       string        `json:"key,omitempty"`
	Direction SortDirection `json:"direction,omitempty"`
}

// PageState is the 1-based page window over the filtered set.
type PageState struct {
	Size    int `json:"page_size"`
	Current int `json:"page"`
}

// ViewState is a snapshot of the engine's sort, filter and page state.
type ViewState struct {
	Sort   SortState `json:"sort"`
	Search string    `json:"search"`
	Page   PageState `json:"page"`
}

// TableDefinition configures a table registered with the service.
type TableDefinition struct {
	Code           string           `json:"code" yaml:"code"`
	Name           string           `json:"name" yaml:"name"`
	Description    string           `json:"description,omitempty" yaml:"description,omitempty"`
	Schema         Schema           `json:"schema" yaml:"schema"`
	Columns        []Column         `json:"columns,omitempty" yaml:"columns,omitempty"`
	PageSize       int              `json:"page_size,omitempty" yaml:"page_size,omitempty"`
	Locale         string           `json:"locale,omitempty" yaml:"locale,omitempty"`
	ExportFilename string           `json:"export_filename,omitempty" yaml:"export_filename,omitempty"`
	Seed           []map[string]any `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// TableRegistry stores table definitions discoverable via hooks or manifests.
type TableRegistry interface {
	RegisterDefinition(def TableDefinition) error
	Definition(code string) (TableDefinition, bool)
	Definitions() []TableDefinition
}

// RowStore persists table snapshots between process runs.
// LoadRows returns ErrNoSnapshot when nothing has been saved for the table.
type RowStore interface {
	LoadRows(ctx context.Context, table string) ([]Row, error)
	SaveRows(ctx context.Context, table string, rows []Row) error
}

// RefreshHook notifies transports (REST/WebSocket) about table changes.
type RefreshHook interface {
	TableUpdated(ctx context.Context, event TableEvent) error
}

// TableEvent describes a change transports might care about.
type TableEvent struct {
	Table  string `json:"table"`
	RowID  string `json:"row_id,omitempty"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}
