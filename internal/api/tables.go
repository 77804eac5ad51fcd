package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/store"
)

type TablesHandler struct {
	store store.Store
}

func NewTablesHandler(s store.Store) *TablesHandler {
	return &TablesHandler{store: s}
}

// Structure handles GET /api/v1/tables/{name}/structure
func (h *TablesHandler) Structure(w http.ResponseWriter, r *http.Request) {
	cols, err := h.store.DescribeTable(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.writeTableErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cols)
}

// Data handles GET /api/v1/tables/{name}/data?page=&size=
func (h *TablesHandler) Data(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	size, err := queryInt(r, "size", 20)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.store.GetTablePage(r.Context(), chi.URLParam(r, "name"), page, size)
	if err != nil {
		h.writeTableErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *TablesHandler) writeTableErr(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrTableNotAllowed) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeErr(w, err)
}
