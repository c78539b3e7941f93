package handlers

import (
	"net/http"
	"strconv"

	"github.com/diewo77/go-vertrieb/gate"
	"github.com/diewo77/go-vertrieb/httpx"
	"github.com/diewo77/go-vertrieb/internal/models"
	"github.com/diewo77/go-vertrieb/internal/services"
	"go.uber.org/zap"
)

// angebotActions maps the ?action= query value to a form action. The form
// button names are accepted as well.
var angebotActions = map[string]string{
	"save":                   services.ActionSave,
	"calculate":              services.ActionCalculate,
	"document":               services.ActionDocument,
	services.ActionCalculate: services.ActionCalculate,
	services.ActionDocument:  services.ActionDocument,
}

// AngebotHandler serves the quote endpoints.
type AngebotHandler struct {
	Svc   *services.AngebotService
	Authz Authorizer
	Log   *zap.Logger
}

func NewAngebotHandler(svc *services.AngebotService, authz Authorizer, log *zap.Logger) *AngebotHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AngebotHandler{Svc: svc, Authz: authz, Log: log}
}

// angebotAction reads the submit action from the query string, defaulting to save.
func angebotAction(w http.ResponseWriter, r *http.Request) (string, bool) {
	action := r.URL.Query().Get("action")
	if action == "" {
		return services.ActionSave, true
	}
	mapped, ok := angebotActions[action]
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_action", nil)
		return "", false
	}
	return mapped, true
}

// load fetches the quote in the path and checks access to it.
func (h *AngebotHandler) load(w http.ResponseWriter, r *http.Request, action gate.Action) (*models.Angebot, bool) {
	a, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.Log, err)
		return nil, false
	}
	if err := h.Authz.Authorize(r.Context(), action, services.ObjectAngebot, a); err != nil {
		writeError(w, h.Log, err)
		return nil, false
	}
	return a, true
}

// List: GET /angebote?status=
func (h *AngebotHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	status := r.URL.Query().Get("status")
	out, err := h.Svc.List(r.Context(), listScope(r.Context(), h.Authz, services.ObjectAngebot, uid), status)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": out, "total": len(out)})
}

// Create: POST /angebote?action=
func (h *AngebotHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	action, ok := angebotAction(w, r)
	if !ok {
		return
	}
	var in models.Angebot
	if !decodeBody(w, r, &in) {
		return
	}
	a, err := h.Svc.Create(r.Context(), uid, &in, action)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, a)
}

// Calculate: POST /angebote/calculate
func (h *AngebotHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in models.Angebot
	if !decodeBody(w, r, &in) {
		return
	}
	res, err := h.Svc.Calculate(r.Context(), uid, &in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

// Get: GET /angebote/{id}
func (h *AngebotHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, ok := h.load(w, r, gate.ActionView)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}

// Update: PUT /angebote/{id}?action=
func (h *AngebotHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	action, ok := angebotAction(w, r)
	if !ok {
		return
	}
	cur, ok := h.load(w, r, gate.ActionUpdate)
	if !ok {
		return
	}
	var in models.Angebot
	if !decodeBody(w, r, &in) {
		return
	}
	a, err := h.Svc.Update(r.Context(), uid, cur.AngebotID, &in, action)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}

// Delete: DELETE /angebote/{id}
func (h *AngebotHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	a, ok := h.load(w, r, gate.ActionDelete)
	if !ok {
		return
	}
	if err := h.Svc.Delete(r.Context(), uid, a.AngebotID); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Lock: POST /angebote/{id}/lock
func (h *AngebotHandler) Lock(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	a, ok := h.load(w, r, gate.ActionLock)
	if !ok {
		return
	}
	var req lockRequest
	if !decodeBody(w, r, &req) {
		return
	}
	a, err := h.Svc.SetLocked(r.Context(), uid, a.AngebotID, req.Locked)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}

// Document: GET /angebote/{id}/document
func (h *AngebotHandler) Document(w http.ResponseWriter, r *http.Request) {
	a, ok := h.load(w, r, gate.ActionView)
	if !ok {
		return
	}
	doc, err := h.Svc.Document(r.Context(), a.AngebotID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

// History: GET /angebote/{id}/history
func (h *AngebotHandler) History(w http.ResponseWriter, r *http.Request) {
	a, ok := h.load(w, r, gate.ActionView)
	if !ok {
		return
	}
	entries, err := h.Svc.History(r.Context(), a.AngebotID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, entries)
}

type zohoIDRequest struct {
	AngebotZohoID string `json:"angebot_zoho_id"`
}

// AssignZohoID: PUT /angebote/{id}/zoho-id
func (h *AngebotHandler) AssignZohoID(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	a, ok := h.load(w, r, gate.ActionUpdate)
	if !ok {
		return
	}
	var req zohoIDRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.AngebotZohoID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_angebot_zoho_id", nil)
		return
	}
	a, err := h.Svc.AssignZohoID(r.Context(), uid, a.AngebotID, req.AngebotZohoID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}

// Accepted: GET /zoho/{zohoID}/angebot returns the accepted quote of a
// Zoho customer.
func (h *AngebotHandler) Accepted(w http.ResponseWriter, r *http.Request) {
	zohoID, err := strconv.ParseInt(r.PathValue("zohoID"), 10, 64)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_zoho_id", nil)
		return
	}
	a, err := h.Svc.Accepted(r.Context(), zohoID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if a == nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err := h.Authz.Authorize(r.Context(), gate.ActionView, services.ObjectAngebot, a); err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}
