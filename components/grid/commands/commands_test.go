package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-datagrid/components/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTelemetry struct {
	events []string
}

func (s *stubTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	s.events = append(s.events, event)
}

type stubService struct {
	addCalls     int
	updateCalls  int
	removeCalls  int
	importCalls  int
	searchCalls  int
	sortCalls    int
	pageCalls    int
	resetCalls   int
	saveCalls    int
	refreshCalls int
	lastEvent    grid.TableEvent
	err          error
}

func (s *stubService) AddRow(context.Context, grid.AddRowRequest) (grid.Row, error) {
	s.addCalls++
	return grid.Row{ID: "new"}, s.err
}

func (s *stubService) UpdateField(context.Context, grid.UpdateFieldRequest) (grid.Row, error) {
	s.updateCalls++
	return grid.Row{}, s.err
}

func (s *stubService) RemoveRow(context.Context, grid.RemoveRowRequest) error {
	s.removeCalls++
	return s.err
}

func (s *stubService) Import(_ context.Context, req grid.ImportRequest) (int, error) {
	s.importCalls++
	return len(req.Rows), s.err
}

func (s *stubService) Search(context.Context, grid.SearchRequest) (grid.View, error) {
	s.searchCalls++
	return grid.View{}, s.err
}

func (s *stubService) ToggleSort(context.Context, grid.SortRequest) (grid.View, error) {
	s.sortCalls++
	return grid.View{}, s.err
}

func (s *stubService) SetPage(context.Context, grid.PageRequest) (grid.View, error) {
	s.pageCalls++
	return grid.View{}, s.err
}

func (s *stubService) Reset(context.Context, string) (grid.View, error) {
	s.resetCalls++
	return grid.View{}, s.err
}

func (s *stubService) Save(context.Context, string) error {
	s.saveCalls++
	return s.err
}

func (s *stubService) NotifyTableUpdated(_ context.Context, event grid.TableEvent) error {
	s.refreshCalls++
	s.lastEvent = event
	return s.err
}

func TestRowCommandsDelegate(t *testing.T) {
	service := &stubService{}
	telemetry := &stubTelemetry{}
	ctx := context.Background()

	require.NoError(t, NewAddRowCommand(service, telemetry).Execute(ctx, grid.AddRowRequest{Table: grid.TableProducts}))
	require.NoError(t, NewUpdateFieldCommand(service, telemetry).Execute(ctx, grid.UpdateFieldRequest{Table: grid.TableProducts, RowID: "1", Field: "qty", Value: 2}))
	require.NoError(t, NewRemoveRowCommand(service, telemetry).Execute(ctx, grid.RemoveRowRequest{Table: grid.TableProducts, RowID: "1"}))
	require.NoError(t, NewImportRowsCommand(service, telemetry).Execute(ctx, grid.ImportRequest{Table: grid.TableProducts}))

	assert.Equal(t, 1, service.addCalls)
	assert.Equal(t, 1, service.updateCalls)
	assert.Equal(t, 1, service.removeCalls)
	assert.Equal(t, 1, service.importCalls)
	assert.Equal(t, []string{
		"grid.command.add_row",
		"grid.command.update_field",
		"grid.command.remove_row",
		"grid.command.import",
	}, telemetry.events)
}

func TestViewCommandsDelegate(t *testing.T) {
	service := &stubService{}
	ctx := context.Background()

	require.NoError(t, NewSearchCommand(service, nil).Execute(ctx, grid.SearchRequest{Table: grid.TableSales, Text: "dairy"}))
	require.NoError(t, NewToggleSortCommand(service, nil).Execute(ctx, grid.SortRequest{Table: grid.TableSales, Field: "total"}))
	require.NoError(t, NewSetPageCommand(service, nil).Execute(ctx, grid.PageRequest{Table: grid.TableSales, Page: 2}))
	require.NoError(t, NewResetViewCommand(service, nil).Execute(ctx, ResetViewInput{Table: grid.TableSales}))

	assert.Equal(t, 1, service.searchCalls)
	assert.Equal(t, 1, service.sortCalls)
	assert.Equal(t, 1, service.pageCalls)
	assert.Equal(t, 1, service.resetCalls)
}

func TestCommandsPropagateErrors(t *testing.T) {
	failing := errors.New("boom")
	service := &stubService{err: failing}
	telemetry := &stubTelemetry{}
	ctx := context.Background()

	require.ErrorIs(t, NewAddRowCommand(service, telemetry).Execute(ctx, grid.AddRowRequest{}), failing)
	require.ErrorIs(t, NewSaveTableCommand(service, telemetry).Execute(ctx, SaveTableInput{Table: grid.TableSales}), failing)
	require.ErrorIs(t, NewSearchCommand(service, telemetry).Execute(ctx, grid.SearchRequest{}), failing)
	assert.Empty(t, telemetry.events)
}

func TestCommandsRequireService(t *testing.T) {
	ctx := context.Background()
	require.Error(t, NewAddRowCommand(nil, nil).Execute(ctx, grid.AddRowRequest{}))
	require.Error(t, NewRemoveRowCommand(nil, nil).Execute(ctx, grid.RemoveRowRequest{}))
	require.Error(t, NewResetViewCommand(nil, nil).Execute(ctx, ResetViewInput{}))
	require.Error(t, NewSaveTableCommand(nil, nil).Execute(ctx, SaveTableInput{}))
}

func TestRefreshTableCommandDefaultsReason(t *testing.T) {
	service := &stubService{}
	cmd := NewRefreshTableCommand(service, nil)
	err := cmd.Execute(context.Background(), RefreshTableInput{Event: grid.TableEvent{Table: grid.TableCatalog}})
	require.NoError(t, err)
	assert.Equal(t, "refresh", service.lastEvent.Reason)
}

func TestCommandsAgainstService(t *testing.T) {
	service := grid.NewService(grid.Options{})
	ctx := context.Background()

	err := NewAddRowCommand(service, nil).Execute(ctx, grid.AddRowRequest{
		Table:  grid.TableProducts,
		ID:     "pt-3",
		Values: map[string]any{"name": "Pear", "sku": "PT003", "category": "Fruits", "price": 3, "qty": 9},
	})
	require.NoError(t, err)
	require.NoError(t, NewSearchCommand(service, nil).Execute(ctx, grid.SearchRequest{Table: grid.TableProducts, Text: "fruits"}))

	view, err := service.View(ctx, grid.TableProducts)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Total)

	err = NewUpdateFieldCommand(service, nil).Execute(ctx, grid.UpdateFieldRequest{
		Table: grid.TableProducts, RowID: "pt-3", Field: "price", Value: "cheap",
	})
	require.ErrorIs(t, err, grid.ErrInvalidNumber)
}
