package handlers

import (
	"net/http"

	"github.com/diewo77/go-vertrieb/gate"
	"github.com/diewo77/go-vertrieb/httpx"
	"github.com/diewo77/go-vertrieb/internal/models"
	"github.com/diewo77/go-vertrieb/internal/services"
	"go.uber.org/zap"
)

type CalculatorHandler struct {
	Svc   *services.CalculatorService
	Authz Authorizer
	Log   *zap.Logger
}

func NewCalculatorHandler(svc *services.CalculatorService, authz Authorizer, log *zap.Logger) *CalculatorHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CalculatorHandler{Svc: svc, Authz: authz, Log: log}
}

func (h *CalculatorHandler) load(w http.ResponseWriter, r *http.Request, action gate.Action) (*models.Calculator, bool) {
	c, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.Log, err)
		return nil, false
	}
	if err := h.Authz.Authorize(r.Context(), action, services.ObjectCalculator, c); err != nil {
		writeError(w, h.Log, err)
		return nil, false
	}
	return c, true
}

// List: GET /calculators
func (h *CalculatorHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	out, err := h.Svc.List(r.Context(), listScope(r.Context(), h.Authz, services.ObjectCalculator, uid))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": out, "total": len(out)})
}

// Create: POST /calculators
func (h *CalculatorHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in models.Calculator
	if !decodeBody(w, r, &in) {
		return
	}
	c, err := h.Svc.Create(r.Context(), uid, &in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

// Get: GET /calculators/{id}
func (h *CalculatorHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r, gate.ActionView)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

// Update: PUT /calculators/{id}
func (h *CalculatorHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	cur, ok := h.load(w, r, gate.ActionUpdate)
	if !ok {
		return
	}
	var in models.Calculator
	if !decodeBody(w, r, &in) {
		return
	}
	c, err := h.Svc.Update(r.Context(), uid, cur.CalculatorID, &in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}
