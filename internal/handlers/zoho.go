package handlers

import (
	"net/http"
	"strconv"

	"github.com/diewo77/go-vertrieb/httpx"
	"github.com/diewo77/go-vertrieb/internal/services"
	"go.uber.org/zap"
)

// ZohoHandler takes CRM payloads pushed by the frontend.
type ZohoHandler struct {
	Svc *services.ZohoService
	Log *zap.Logger
}

func NewZohoHandler(svc *services.ZohoService, log *zap.Logger) *ZohoHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ZohoHandler{Svc: svc, Log: log}
}

// Import: POST /zoho/import with the raw Zoho records.
func (h *ZohoHandler) Import(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	body, err := httpx.ReadBody(w, r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_body", nil)
		return
	}
	kunden, err := h.Svc.Import(r.Context(), uid, body)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": kunden, "total": len(kunden)})
}

// Kundennummer: GET /zoho/{zohoID}/kundennummer
func (h *ZohoHandler) Kundennummer(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	zohoID, err := strconv.ParseInt(r.PathValue("zohoID"), 10, 64)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_zoho_id", nil)
		return
	}
	nr, err := h.Svc.Kundennummer(r.Context(), uid, zohoID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"zoho_id": zohoID, "kundennummer": nr})
}
