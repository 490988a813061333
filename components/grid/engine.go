package grid

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	// DefaultPageSize is the page size used when none is configured.
	DefaultPageSize = 10
	// DefaultLocale drives string collation when none is configured.
	DefaultLocale = "en"
)

// EngineOptions configures an Engine. Zero values fall back to defaults.
type EngineOptions struct {
	PageSize    int
	Locale      string
	Validator   RowValidator
	IDGenerator func() string
}

// Engine owns one table's rows plus its sort, filter and page state, and
// derives the visible page from them. It is not safe for concurrent use.
type Engine struct {
	schema     Schema
	searchable []string
	recs       []*record
	byID       map[string]*record

	sort     SortState
	search   string
	page     PageState
	pageSize int

	coll      *collate.Collator
	validator RowValidator
	newID     func() string
}

// NewEngine validates the schema and loads the initial rows in order.
func NewEngine(schema Schema, rows []Row, opts EngineOptions) (*Engine, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Locale == "" {
		opts.Locale = DefaultLocale
	}
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}
	if opts.IDGenerator == nil {
		opts.IDGenerator = uuid.NewString
	}
	e := &Engine{
		schema:     schema,
		searchable: schema.SearchableFields(),
		recs:       make([]*record, 0, len(rows)),
		byID:       make(map[string]*record, len(rows)),
		page:       PageState{Size: opts.PageSize, Current: 1},
		pageSize:   opts.PageSize,
		coll:       collate.New(language.Make(opts.Locale)),
		validator:  opts.Validator,
		newID:      opts.IDGenerator,
	}
	for idx, row := range rows {
		if _, err := e.insert(fmt.Sprintf("load row %d", idx), row); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Schema returns the table schema.
func (e *Engine) Schema() Schema { return e.schema }

// Len returns the unfiltered row count.
func (e *Engine) Len() int { return len(e.recs) }

// State returns the current sort, search and page state.
func (e *Engine) State() ViewState {
	return ViewState{Sort: e.sort, Search: e.search, Page: e.page}
}

// Row returns a copy of the row with the given identity.
func (e *Engine) Row(id string) (Row, bool) {
	rec, ok := e.byID[id]
	if !ok {
		return Row{}, false
	}
	return rec.row(), true
}

// Rows returns copies of every row in insertion order.
func (e *Engine) Rows() []Row {
	out := make([]Row, len(e.recs))
	for i, rec := range e.recs {
		out[i] = rec.row()
	}
	return out
}

// SetSearchText replaces the filter and returns to the first page.
func (e *Engine) SetSearchText(text string) {
	e.search = text
	e.page.Current = 1
}

// ToggleSort cycles the field through ascending and descending. Selecting a
// different field starts it at ascending and drops the previous sort.
func (e *Engine) ToggleSort(field string) (SortState, error) {
	f, ok := e.schema.Field(field)
	if !ok {
		return e.sort, invalid("toggle sort", "", field, ErrUnknownField)
	}
	if f.Unsortable {
		return e.sort, invalid("toggle sort", "", field, ErrUnsortableField)
	}
	direction := SortAscending
	if e.sort.Key == field && e.sort.Direction == SortAscending {
		direction = SortDescending
	}
	e.sort = SortState{Key: field, Direction: direction}
	return e.sort, nil
}

// AddRow validates and appends a row. An empty ID is generated.
func (e *Engine) AddRow(row Row) (Row, error) {
	rec, err := e.insert("add row", row)
	if err != nil {
		return Row{}, err
	}
	return rec.row(), nil
}

// UpdateField sets one field on the row with the given identity.
func (e *Engine) UpdateField(rowID, field string, value any) (Row, error) {
	const op = "update field"
	rec, ok := e.byID[rowID]
	if !ok {
		return Row{}, invalid(op, rowID, "", ErrUnknownRow)
	}
	f, ok := e.schema.Field(field)
	if !ok {
		return Row{}, invalid(op, rowID, field, ErrUnknownField)
	}
	if f.ReadOnly {
		return Row{}, invalid(op, rowID, field, ErrReadOnlyField)
	}
	v, present, err := f.coerce(value)
	if err != nil {
		return Row{}, invalid(op, rowID, field, err)
	}
	if !present && f.Required {
		return Row{}, invalid(op, rowID, field, ErrRequiredField)
	}
	candidate := make(map[string]any, len(rec.values)+1)
	for k, existing := range rec.values {
		candidate[k] = existing
	}
	if present {
		candidate[field] = v
	} else {
		delete(candidate, field)
	}
	if err := e.validator.ValidateRow(e.schema, candidate); err != nil {
		return Row{}, annotate(err, op, rowID)
	}
	rec.values = candidate
	e.clamp()
	return rec.row(), nil
}

// RemoveRow deletes the row with the given identity.
func (e *Engine) RemoveRow(rowID string) error {
	rec, ok := e.byID[rowID]
	if !ok {
		return invalid("remove row", rowID, "", ErrUnknownRow)
	}
	if idx := slices.Index(e.recs, rec); idx >= 0 {
		e.recs = slices.Delete(e.recs, idx, idx+1)
	}
	delete(e.byID, rowID)
	e.clamp()
	return nil
}

// SetPage moves to page n, clamped into range, and returns the page shown.
func (e *Engine) SetPage(n int) int {
	e.page.Current = clampPage(n, e.filteredCount(), e.page.Size)
	return e.page.Current
}

// NextPage advances one page when possible.
func (e *Engine) NextPage() int { return e.SetPage(e.page.Current + 1) }

// PrevPage goes back one page when possible.
func (e *Engine) PrevPage() int { return e.SetPage(e.page.Current - 1) }

// SetPageSize changes the page size keeping the first visible row on screen.
func (e *Engine) SetPageSize(n int) error {
	if n <= 0 {
		return invalid("set page size", "", "", ErrInvalidPageSize)
	}
	first := (e.page.Current - 1) * e.page.Size
	e.page.Size = n
	e.page.Current = first/n + 1
	e.clamp()
	return nil
}

// Reset restores the default sort, search and page state.
func (e *Engine) Reset() {
	e.sort = SortState{}
	e.search = ""
	e.page = PageState{Size: e.pageSize, Current: 1}
}

// VisibleRows derives the current page from the present state. It has no
// side effects and is recomputed on every call.
func (e *Engine) VisibleRows() View {
	filtered := e.derive()
	total := len(filtered)
	page := clampPage(e.page.Current, total, e.page.Size)
	start, end := pageWindow(total, page, e.page.Size)
	rows := make([]Row, 0, end-start)
	for _, rec := range filtered[start:end] {
		rows = append(rows, rec.row())
	}
	return View{
		Total:     total,
		Page:      page,
		PageSize:  e.page.Size,
		PageCount: pageCount(total, e.page.Size),
		Sort:      e.sort,
		Search:    e.search,
		rows:      rows,
	}
}

// Filtered yields the filtered and sorted rows without pagination. The
// sequence reads the engine state each time iteration starts.
func (e *Engine) Filtered() iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for _, rec := range e.derive() {
			if !yield(rec.row()) {
				return
			}
		}
	}
}

// restore copies prev's view state onto e. A sort on a field e cannot sort
// by is dropped.
func (e *Engine) restore(prev *Engine) {
	e.sort = prev.sort
	if f, ok := e.schema.Field(e.sort.Key); e.sort.Key != "" && (!ok || f.Unsortable) {
		e.sort = SortState{}
	}
	e.search = prev.search
	e.page = prev.page
	e.clamp()
}

func (e *Engine) derive() []*record {
	filtered := filterRecords(e.recs, e.search, e.searchable)
	sortRecords(filtered, e.sort, e.schema, e.coll)
	return filtered
}

func (e *Engine) filteredCount() int {
	if e.search == "" {
		return len(e.recs)
	}
	needle := strings.ToLower(e.search)
	n := 0
	for _, rec := range e.recs {
		if matches(rec, needle, e.searchable) {
			n++
		}
	}
	return n
}

func (e *Engine) clamp() {
	e.page.Current = clampPage(e.page.Current, e.filteredCount(), e.page.Size)
}

func (e *Engine) insert(op string, row Row) (*record, error) {
	id := strings.TrimSpace(row.ID)
	if id != "" {
		if _, exists := e.byID[id]; exists {
			return nil, invalid(op, id, "", ErrDuplicateRow)
		}
	}
	values, err := e.schema.coerceValues(op, id, row.Values)
	if err != nil {
		return nil, err
	}
	if err := e.validator.ValidateRow(e.schema, values); err != nil {
		return nil, annotate(err, op, id)
	}
	if id == "" {
		id = e.newID()
		for _, exists := e.byID[id]; exists; _, exists = e.byID[id] {
			id = e.newID()
		}
	}
	rec := &record{id: id, values: values}
	e.recs = append(e.recs, rec)
	e.byID[id] = rec
	return rec, nil
}

func annotate(err error, op, rowID string) error {
	if verr, ok := err.(*ValidationError); ok {
		if verr.Op == "" {
			verr.Op = op
		}
		if verr.RowID == "" {
			verr.RowID = rowID
		}
		return verr
	}
	return invalid(op, rowID, "", fmt.Errorf("%w: %v", ErrSchemaViolation, err))
}
