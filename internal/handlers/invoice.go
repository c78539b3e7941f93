package handlers

import (
	"net/http"

	"github.com/diewo77/go-vertrieb/gate"
	"github.com/diewo77/go-vertrieb/httpx"
	"github.com/diewo77/go-vertrieb/internal/models"
	"github.com/diewo77/go-vertrieb/internal/services"
	"go.uber.org/zap"
)

// InvoiceHandler serves electrician invoices and their positions.
type InvoiceHandler struct {
	Svc   *services.InvoiceService
	Authz Authorizer
	Log   *zap.Logger
}

func NewInvoiceHandler(svc *services.InvoiceService, authz Authorizer, log *zap.Logger) *InvoiceHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &InvoiceHandler{Svc: svc, Authz: authz, Log: log}
}

func (h *InvoiceHandler) load(w http.ResponseWriter, r *http.Request, action gate.Action) (*models.ElectricInvoice, bool) {
	inv, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.Log, err)
		return nil, false
	}
	if err := h.Authz.Authorize(r.Context(), action, services.ObjectInvoice, inv); err != nil {
		writeError(w, h.Log, err)
		return nil, false
	}
	return inv, true
}

// List: GET /invoices
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	out, err := h.Svc.List(r.Context(), listScope(r.Context(), h.Authz, services.ObjectInvoice, uid))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": out, "total": len(out)})
}

// Create: POST /invoices with the customer block as body.
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in models.KundenData
	if !decodeBody(w, r, &in) {
		return
	}
	inv, err := h.Svc.Create(r.Context(), uid, in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

// Get: GET /invoices/{id}
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.load(w, r, gate.ActionView)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

type positionRequest struct {
	Position string  `json:"position"`
	Quantity float64 `json:"quantity"`
}

// AddPosition: POST /invoices/{id}/positions
func (h *InvoiceHandler) AddPosition(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	inv, ok := h.load(w, r, gate.ActionUpdate)
	if !ok {
		return
	}
	var req positionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	pos, err := h.Svc.AddPosition(r.Context(), uid, inv.InvoiceID, req.Position, req.Quantity)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, pos)
}

// RemovePosition: DELETE /invoices/{id}/positions/{positionID}
func (h *InvoiceHandler) RemovePosition(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	posID, ok := pathUint(w, r, "positionID")
	if !ok {
		return
	}
	inv, ok := h.load(w, r, gate.ActionUpdate)
	if !ok {
		return
	}
	if err := h.Svc.RemovePosition(r.Context(), uid, inv.InvoiceID, posID); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Lock: POST /invoices/{id}/lock
func (h *InvoiceHandler) Lock(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	inv, ok := h.load(w, r, gate.ActionLock)
	if !ok {
		return
	}
	var req lockRequest
	if !decodeBody(w, r, &req) {
		return
	}
	inv, err := h.Svc.SetLocked(r.Context(), uid, inv.InvoiceID, req.Locked)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

// Total: GET /invoices/{id}/total
func (h *InvoiceHandler) Total(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.load(w, r, gate.ActionView)
	if !ok {
		return
	}
	total, err := h.Svc.Total(r.Context(), inv.InvoiceID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, total)
}
