package handlers

import (
	"net/http"

	"github.com/diewo77/go-vertrieb/gate"
	"github.com/diewo77/go-vertrieb/httpx"
	"github.com/diewo77/go-vertrieb/internal/models"
	"github.com/diewo77/go-vertrieb/internal/services"
	"go.uber.org/zap"
)

// TicketHandler serves the extension ticket endpoints.
type TicketHandler struct {
	Svc   *services.TicketService
	Authz Authorizer
	Log   *zap.Logger
}

func NewTicketHandler(svc *services.TicketService, authz Authorizer, log *zap.Logger) *TicketHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &TicketHandler{Svc: svc, Authz: authz, Log: log}
}

func (h *TicketHandler) load(w http.ResponseWriter, r *http.Request, action gate.Action) (*models.Ticket, bool) {
	t, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.Log, err)
		return nil, false
	}
	if err := h.Authz.Authorize(r.Context(), action, services.ObjectTicket, t); err != nil {
		writeError(w, h.Log, err)
		return nil, false
	}
	return t, true
}

// List: GET /tickets
func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	out, err := h.Svc.List(r.Context(), listScope(r.Context(), h.Authz, services.ObjectTicket, uid))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": out, "total": len(out)})
}

// Create: POST /tickets
func (h *TicketHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in models.Ticket
	if !decodeBody(w, r, &in) {
		return
	}
	t, err := h.Svc.Create(r.Context(), uid, &in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, t)
}

// Get: GET /tickets/{id}
func (h *TicketHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, ok := h.load(w, r, gate.ActionView)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, t)
}

// Update: PUT /tickets/{id}
func (h *TicketHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	cur, ok := h.load(w, r, gate.ActionUpdate)
	if !ok {
		return
	}
	var in models.Ticket
	if !decodeBody(w, r, &in) {
		return
	}
	t, err := h.Svc.Update(r.Context(), uid, cur.TicketID, &in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, t)
}

// Delete: DELETE /tickets/{id}
func (h *TicketHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	t, ok := h.load(w, r, gate.ActionDelete)
	if !ok {
		return
	}
	if err := h.Svc.Delete(r.Context(), uid, t.TicketID); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
