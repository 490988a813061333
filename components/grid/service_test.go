package grid

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHook struct {
	mu     sync.Mutex
	events []TableEvent
	err    error
}

func (h *recordingHook) TableUpdated(_ context.Context, event TableEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func (h *recordingHook) reasons() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.events))
	for _, e := range h.events {
		out = append(out, e.Reason)
	}
	return out
}

type recordingTelemetry struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

type failingStore struct {
	loadErr error
	saveErr error
}

func (s failingStore) LoadRows(context.Context, string) ([]Row, error) { return nil, s.loadErr }
func (s failingStore) SaveRows(context.Context, string, []Row) error { return s.saveErr }

func TestServiceViewOpensSeedRows(t *testing.T) {
	service := NewService(Options{})
	view, err := service.View(context.Background(), TableSales)
	require.NoError(t, err)
	assert.Equal(t, TableSales, view.Table)
	assert.Equal(t, 21, view.Total)
	assert.Equal(t, 10, view.Len())
	assert.Equal(t, 3, view.PageCount)
}

func TestServiceUnknownTable(t *testing.T) {
	service := NewService(Options{})
	_, err := service.View(context.Background(), "inventory.unknown")
	require.ErrorIs(t, err, ErrUnknownTable)
	_, err = service.AddRow(context.Background(), AddRowRequest{Table: "nope"})
	require.ErrorIs(t, err, ErrUnknownTable)
}

func TestServiceMutationsEmitEvents(t *testing.T) {
	hook := &recordingHook{}
	telemetry := &recordingTelemetry{}
	service := NewService(Options{RefreshHook: hook, Telemetry: telemetry})
	ctx := context.Background()

	row, err := service.AddRow(ctx, AddRowRequest{Table: TableProducts, Values: map[string]any{
		"name": "Banana", "sku": "PT003", "category": "Fruits", "price": "2", "qty": 40,
	}})
	require.NoError(t, err)
	assert.NotEmpty(t, row.ID)

	updated, err := service.UpdateField(ctx, UpdateFieldRequest{Table: TableProducts, RowID: row.ID, Field: "qty", Value: 35})
	require.NoError(t, err)
	assert.Equal(t, 35.0, updated.Values["qty"])

	require.NoError(t, service.RemoveRow(ctx, RemoveRowRequest{Table: TableProducts, RowID: "1"}))

	view, err := service.View(ctx, TableProducts)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Total)

	assert.Equal(t, []string{"add", "update", "remove"}, hook.reasons())
	assert.Equal(t, []string{"grid.row.add", "grid.row.update", "grid.row.remove"}, telemetry.events)
}

func TestServiceValidationErrorsDoNotNotify(t *testing.T) {
	hook := &recordingHook{}
	service := NewService(Options{RefreshHook: hook})
	_, err := service.UpdateField(context.Background(), UpdateFieldRequest{
		Table: TableProducts, RowID: "1", Field: "created_by", Value: "Someone",
	})
	require.ErrorIs(t, err, ErrReadOnlyField)
	assert.True(t, IsValidationError(err))
	assert.Empty(t, hook.reasons())
}

func TestServiceViewStateControls(t *testing.T) {
	hook := &recordingHook{}
	service := NewService(Options{RefreshHook: hook})
	ctx := context.Background()

	view, err := service.Search(ctx, SearchRequest{Table: TablePurchases, Text: "organic"})
	require.NoError(t, err)
	assert.Equal(t, 2, view.Total)

	view, err = service.ToggleSort(ctx, SortRequest{Table: TablePurchases, Field: "sale_price"})
	require.NoError(t, err)
	first := view.Slice()[0]
	assert.Equal(t, "Organic Turmeric Powder", first.Values["product"])

	_, err = service.ToggleSort(ctx, SortRequest{Table: TablePurchases, Field: "missing"})
	require.ErrorIs(t, err, ErrUnknownField)

	view, err = service.Reset(ctx, TablePurchases)
	require.NoError(t, err)
	assert.Equal(t, 12, view.Total)
	assert.Equal(t, SortState{}, view.Sort)

	view, err = service.SetPage(ctx, PageRequest{Table: TablePurchases, PageSize: 5, Page: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, view.Page)
	assert.Equal(t, 2, view.Len())

	_, err = service.SetPage(ctx, PageRequest{Table: TablePurchases, PageSize: -1})
	require.ErrorIs(t, err, ErrInvalidPageSize)

	assert.Equal(t, []string{"view", "view", "view", "view"}, hook.reasons())
}

func TestServiceSetPageSizeKeepsFirstRow(t *testing.T) {
	service := NewService(Options{})
	ctx := context.Background()

	_, err := service.SetPage(ctx, PageRequest{Table: TablePurchases, PageSize: 5, Page: 3})
	require.NoError(t, err)

	view, err := service.SetPageSize(ctx, TablePurchases, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, view.Page)
	assert.Equal(t, 4, view.Len())
	assert.Equal(t, "9", view.Slice()[0].ID)

	_, err = service.SetPageSize(ctx, TablePurchases, 0)
	require.ErrorIs(t, err, ErrInvalidPageSize)
}

func TestServiceExportUsesDefinitionColumns(t *testing.T) {
	service := NewService(Options{})
	ctx := context.Background()
	_, err := service.Search(ctx, SearchRequest{Table: TableSales, Text: "pet"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, service.Export(ctx, &buf, ExportRequest{Table: TableSales}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Unnamed,Timestamp,Category,Customer Type,Unit Price,Quantity,Total,Payment Type", lines[0])
	assert.Equal(t, "20,03-03-2022 04:55,Pet Foods,bronze,2.99,4,11.96,cash", lines[1])
}

func TestServiceSaveAndReopen(t *testing.T) {
	store := NewInMemoryRowStore()
	ctx := context.Background()
	service := NewService(Options{Store: store})
	require.NoError(t, service.RemoveRow(ctx, RemoveRowRequest{Table: TableProducts, RowID: "2"}))
	require.NoError(t, service.Save(ctx, TableProducts))

	reopened := NewService(Options{Store: store})
	view, err := reopened.View(ctx, TableProducts)
	require.NoError(t, err)
	require.Equal(t, 1, view.Total)
	assert.Equal(t, "Macbook pro", view.Slice()[0].Values["name"])
}

func TestServiceStoreErrors(t *testing.T) {
	ctx := context.Background()
	broken := errors.New("disk on fire")

	service := NewService(Options{Store: failingStore{loadErr: broken}})
	_, err := service.View(ctx, TableProducts)
	require.ErrorIs(t, err, broken)

	service = NewService(Options{Store: failingStore{loadErr: ErrNoSnapshot, saveErr: broken}})
	require.ErrorIs(t, service.Save(ctx, TableProducts), broken)
}

func TestServiceImportIsAllOrNothing(t *testing.T) {
	service := NewService(Options{})
	ctx := context.Background()

	_, err := service.Import(ctx, ImportRequest{Table: TableProducts, Rows: []Row{
		{Values: map[string]any{"name": "Kiwi", "sku": "PT010", "category": "Fruits", "price": 1, "qty": 5}},
		{Values: map[string]any{"name": "Broken", "sku": "PT011", "category": "Fruits", "price": "free", "qty": 5}},
	}})
	require.ErrorIs(t, err, ErrInvalidNumber)
	view, _ := service.View(ctx, TableProducts)
	assert.Equal(t, 2, view.Total)

	_, err = service.Search(ctx, SearchRequest{Table: TableProducts, Text: "fruits"})
	require.NoError(t, err)
	n, err := service.Import(ctx, ImportRequest{Table: TableProducts, Rows: []Row{
		{Values: map[string]any{"name": "Kiwi", "sku": "PT010", "category": "Fruits", "price": 1, "qty": 5}},
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	view, _ = service.View(ctx, TableProducts)
	assert.Equal(t, 2, view.Total)
	assert.Equal(t, "fruits", view.Search)

	_, err = service.Import(ctx, ImportRequest{Table: TableProducts, Replace: true, Rows: []Row{
		{ID: "only", Values: map[string]any{"name": "Fig", "sku": "PT020", "category": "Fruits", "price": 3, "qty": 1}},
	}})
	require.NoError(t, err)
	view, _ = service.View(ctx, TableProducts)
	assert.Equal(t, []string{"only"}, ids(view))
}

func TestServiceRefreshHookErrorIsReturned(t *testing.T) {
	hook := &recordingHook{err: errors.New("closed")}
	service := NewService(Options{RefreshHook: hook})
	_, err := service.AddRow(context.Background(), AddRowRequest{Table: TableCatalog, Values: map[string]any{
		"product": "Tea", "brand": "Tetley",
	}})
	require.EqualError(t, err, "closed")
	view, _ := service.View(context.Background(), TableCatalog)
	assert.Equal(t, 13, view.Total)
}

func TestServiceTablesSummaries(t *testing.T) {
	service := NewService(Options{})
	tables := service.Tables(context.Background())
	require.Len(t, tables, 4)
	assert.Equal(t, TableCatalog, tables[0].Code)
	for _, table := range tables {
		assert.NotEmpty(t, table.Columns)
		assert.Equal(t, DefaultPageSize, table.PageSize)
	}
}

func TestServiceConcurrentAccess(t *testing.T) {
	service := NewService(Options{})
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = service.AddRow(ctx, AddRowRequest{Table: TableCatalog, Values: map[string]any{
				"product": "Tea", "brand": "Tetley",
			}})
			_, _ = service.View(ctx, TableCatalog)
		}()
	}
	wg.Wait()
	view, err := service.View(ctx, TableCatalog)
	require.NoError(t, err)
	assert.Equal(t, 20, view.Total)
}
