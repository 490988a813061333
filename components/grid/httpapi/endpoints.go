package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-datagrid/components/grid"
	"github.com/goliatone/go-datagrid/components/grid/queries"
)

// Response is a transport-neutral JSON reply.
type Response struct {
	Status  int
	Payload any
}

// AddRowResponse is returned when a row is created.
type AddRowResponse struct {
	RowID string    `json:"row_id"`
	View  grid.View `json:"view"`
}

// UpdateFieldPayload is the body accepted when editing a row.
type UpdateFieldPayload struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// Endpoints implements the grid API once for every transport. Mutations
// answer with the table's refreshed view.
type Endpoints struct {
	API Executor
}

// StatusFor maps service errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case grid.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, grid.ErrUnknownTable):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func failure(status int, err error) Response {
	return Response{Status: status, Payload: map[string]string{"error": err.Error()}}
}

func fromError(err error) Response {
	return failure(StatusFor(err), err)
}

func decode(body []byte, dst any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("httpapi: decode payload: %w", err)
	}
	return nil
}

func (e Endpoints) view(ctx context.Context, table string, status int) Response {
	view, err := e.API.View(ctx, table)
	if err != nil {
		return fromError(err)
	}
	return Response{Status: status, Payload: view}
}

// Tables lists registered tables.
func (e Endpoints) Tables(ctx context.Context) Response {
	tables, err := e.API.Tables(ctx)
	if err != nil {
		return fromError(err)
	}
	return Response{Status: http.StatusOK, Payload: map[string]any{"tables": tables}}
}

// View returns the current page of a table.
func (e Endpoints) View(ctx context.Context, table string) Response {
	return e.view(ctx, table, http.StatusOK)
}

// AddRow appends a row. A missing id is assigned before dispatch so the
// reply can name it.
func (e Endpoints) AddRow(ctx context.Context, table string, body []byte) Response {
	var payload grid.AddRowRequest
	if err := decode(body, &payload); err != nil {
		return failure(http.StatusBadRequest, err)
	}
	payload.Table = table
	if strings.TrimSpace(payload.ID) == "" {
		payload.ID = uuid.NewString()
	}
	if err := e.API.AddRow(ctx, payload); err != nil {
		return fromError(err)
	}
	view, err := e.API.View(ctx, table)
	if err != nil {
		return fromError(err)
	}
	return Response{Status: http.StatusCreated, Payload: AddRowResponse{RowID: payload.ID, View: view}}
}

// UpdateField edits one field of a row.
func (e Endpoints) UpdateField(ctx context.Context, table, rowID string, body []byte) Response {
	var payload UpdateFieldPayload
	if err := decode(body, &payload); err != nil {
		return failure(http.StatusBadRequest, err)
	}
	if payload.Field == "" {
		return failure(http.StatusBadRequest, errors.New("httpapi: field is required"))
	}
	err := e.API.UpdateField(ctx, grid.UpdateFieldRequest{
		Table: table,
		RowID: rowID,
		Field: payload.Field,
		Value: payload.Value,
	})
	if err != nil {
		return fromError(err)
	}
	return e.view(ctx, table, http.StatusOK)
}

// RemoveRow deletes a row by identity.
func (e Endpoints) RemoveRow(ctx context.Context, table, rowID string) Response {
	if rowID == "" {
		return failure(http.StatusBadRequest, errors.New("httpapi: row id is required"))
	}
	if err := e.API.RemoveRow(ctx, grid.RemoveRowRequest{Table: table, RowID: rowID}); err != nil {
		return fromError(err)
	}
	return e.view(ctx, table, http.StatusOK)
}

// Search replaces the table's search text.
func (e Endpoints) Search(ctx context.Context, table string, body []byte) Response {
	var payload grid.SearchRequest
	if err := decode(body, &payload); err != nil {
		return failure(http.StatusBadRequest, err)
	}
	payload.Table = table
	if err := e.API.Search(ctx, payload); err != nil {
		return fromError(err)
	}
	return e.view(ctx, table, http.StatusOK)
}

// ToggleSort cycles a field's sort direction.
func (e Endpoints) ToggleSort(ctx context.Context, table string, body []byte) Response {
	var payload grid.SortRequest
	if err := decode(body, &payload); err != nil {
		return failure(http.StatusBadRequest, err)
	}
	payload.Table = table
	if err := e.API.ToggleSort(ctx, payload); err != nil {
		return fromError(err)
	}
	return e.view(ctx, table, http.StatusOK)
}

// SetPage moves or resizes the table's page.
func (e Endpoints) SetPage(ctx context.Context, table string, body []byte) Response {
	var payload grid.PageRequest
	if err := decode(body, &payload); err != nil {
		return failure(http.StatusBadRequest, err)
	}
	payload.Table = table
	if err := e.API.SetPage(ctx, payload); err != nil {
		return fromError(err)
	}
	return e.view(ctx, table, http.StatusOK)
}

// Reset restores the table's default view state.
func (e Endpoints) Reset(ctx context.Context, table string) Response {
	if err := e.API.Reset(ctx, table); err != nil {
		return fromError(err)
	}
	return e.view(ctx, table, http.StatusOK)
}

// Export renders the table as CSV. The Response is only meaningful when the
// export fails.
func (e Endpoints) Export(ctx context.Context, table string) (queries.ExportResult, Response) {
	result, err := e.API.Export(ctx, grid.ExportRequest{Table: table})
	if err != nil {
		return queries.ExportResult{}, fromError(err)
	}
	return result, Response{Status: http.StatusOK}
}

// ContentDisposition builds the attachment header for a CSV download.
func ContentDisposition(filename string) string {
	return fmt.Sprintf("attachment; filename=%q", filename)
}
