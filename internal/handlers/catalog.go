package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/diewo77/go-vertrieb/httpx"
	"github.com/diewo77/go-vertrieb/internal/catalog"
	"go.uber.org/zap"
)

// CatalogHandler exposes the price tables. Write routes are admin only.
type CatalogHandler struct {
	Store *catalog.Store
	Log   *zap.Logger
}

func NewCatalogHandler(store *catalog.Store, log *zap.Logger) *CatalogHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogHandler{Store: store, Log: log}
}

// Tables: GET /catalog
func (h *CatalogHandler) Tables(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{"tables": catalog.Tables()})
}

// List: GET /catalog/{table}
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Store.List(r.Context(), r.PathValue("table"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": rows, "total": len(rows)})
}

// Upsert: PUT /catalog/{table}
func (h *CatalogHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	body, err := httpx.ReadBody(w, r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_body", nil)
		return
	}
	if !json.Valid(body) {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	row, err := h.Store.Upsert(r.Context(), r.PathValue("table"), body)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.Log.Info("catalog row saved", zap.String("table", r.PathValue("table")))
	httpx.JSON(w, http.StatusOK, row)
}

// Delete: DELETE /catalog/{table}/{name}
func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	table, name := r.PathValue("table"), r.PathValue("name")
	if err := h.Store.Delete(r.Context(), table, name); err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.Log.Info("catalog row deleted", zap.String("table", table), zap.String("name", name))
	w.WriteHeader(http.StatusNoContent)
}

// Invalidate: POST /catalog/invalidate drops cached price snapshots.
func (h *CatalogHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	h.Store.Invalidate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
