package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

const maxBodyBytes = 1 << 20

// Handlers exposes the grid API as net/http handlers.
type Handlers struct {
	API Executor
}

func (h *Handlers) endpoints() Endpoints { return Endpoints{API: h.API} }

// Mount registers every handler on mux below prefix (e.g. "/admin").
func (h *Handlers) Mount(mux *http.ServeMux, prefix string) {
	prefix = strings.TrimSuffix(prefix, "/")
	mux.HandleFunc("GET "+prefix+"/grids", h.HandleTables)
	mux.HandleFunc("GET "+prefix+"/grids/{table}", h.HandleView)
	mux.HandleFunc("POST "+prefix+"/grids/{table}/rows", h.HandleAddRow)
	mux.HandleFunc("POST "+prefix+"/grids/{table}/rows/{id}", h.HandleUpdateField)
	mux.HandleFunc("DELETE "+prefix+"/grids/{table}/rows/{id}", h.HandleRemoveRow)
	mux.HandleFunc("POST "+prefix+"/grids/{table}/search", h.HandleSearch)
	mux.HandleFunc("POST "+prefix+"/grids/{table}/sort", h.HandleSort)
	mux.HandleFunc("POST "+prefix+"/grids/{table}/page", h.HandlePage)
	mux.HandleFunc("POST "+prefix+"/grids/{table}/reset", h.HandleReset)
	mux.HandleFunc("GET "+prefix+"/grids/{table}/export", h.HandleExport)
}

func (h *Handlers) HandleTables(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, h.endpoints().Tables(r.Context()))
}

func (h *Handlers) HandleView(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, h.endpoints().View(r.Context(), r.PathValue("table")))
}

func (h *Handlers) HandleAddRow(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	writeResponse(w, h.endpoints().AddRow(r.Context(), r.PathValue("table"), body))
}

func (h *Handlers) HandleUpdateField(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	writeResponse(w, h.endpoints().UpdateField(r.Context(), r.PathValue("table"), r.PathValue("id"), body))
}

func (h *Handlers) HandleRemoveRow(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, h.endpoints().RemoveRow(r.Context(), r.PathValue("table"), r.PathValue("id")))
}

func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	writeResponse(w, h.endpoints().Search(r.Context(), r.PathValue("table"), body))
}

func (h *Handlers) HandleSort(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	writeResponse(w, h.endpoints().ToggleSort(r.Context(), r.PathValue("table"), body))
}

func (h *Handlers) HandlePage(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	writeResponse(w, h.endpoints().SetPage(r.Context(), r.PathValue("table"), body))
}

func (h *Handlers) HandleReset(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, h.endpoints().Reset(r.Context(), r.PathValue("table")))
}

func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	result, resp := h.endpoints().Export(r.Context(), r.PathValue("table"))
	if resp.Status != http.StatusOK {
		writeResponse(w, resp)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", ContentDisposition(result.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Data)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return body, true
}

func writeResponse(w http.ResponseWriter, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	if resp.Payload != nil {
		json.NewEncoder(w).Encode(resp.Payload)
	}
}
