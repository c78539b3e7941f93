package handlers

import (
	"net/http"
	"time"

	"github.com/diewo77/go-vertrieb/httpx"
	"github.com/diewo77/go-vertrieb/internal/services"
	"go.uber.org/zap"
)

// AdminHandler manages users and runs maintenance. All routes are admin only.
type AdminHandler struct {
	Users   *services.UserService
	Cleanup *services.CleanupService
	Log     *zap.Logger
	now     func() time.Time
}

func NewAdminHandler(users *services.UserService, cleanup *services.CleanupService, log *zap.Logger) *AdminHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdminHandler{Users: users, Cleanup: cleanup, Log: log, now: time.Now}
}

// ListUsers: GET /admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": users, "total": len(users)})
}

// CreateUser: POST /admin/users
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var in services.CreateUserInput
	if !decodeBody(w, r, &in) {
		return
	}
	u, err := h.Users.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, u)
}

// GetUser: GET /admin/users/{id}
func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUint(w, r, "id")
	if !ok {
		return
	}
	u, err := h.Users.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, u)
}

type roleRequest struct {
	Role string `json:"role"`
}

// SetRole: PUT /admin/users/{id}/role
func (h *AdminHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUint(w, r, "id")
	if !ok {
		return
	}
	var req roleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	u, err := h.Users.SetRole(r.Context(), id, req.Role)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.Log.Info("role assigned", zap.Uint("user_id", id), zap.String("role", req.Role))
	httpx.JSON(w, http.StatusOK, u)
}

// UpdateAttributes: PATCH /admin/users/{id}
func (h *AdminHandler) UpdateAttributes(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUint(w, r, "id")
	if !ok {
		return
	}
	var in services.UserAttributes
	if !decodeBody(w, r, &in) {
		return
	}
	u, err := h.Users.UpdateAttributes(r.Context(), id, in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, u)
}

// RunCleanup: POST /admin/cleanup
func (h *AdminHandler) RunCleanup(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Cleanup.Run(r.Context(), h.now())
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rep)
}
