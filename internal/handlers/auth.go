package handlers

import (
	"net/http"

	"github.com/diewo77/go-vertrieb/auth"
	"github.com/diewo77/go-vertrieb/httpx"
	"github.com/diewo77/go-vertrieb/internal/services"
	"go.uber.org/zap"
)

type AuthHandler struct {
	Users    *services.UserService
	Sessions *auth.Sessions
	Log      *zap.Logger
}

func NewAuthHandler(users *services.UserService, sessions *auth.Sessions, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{Users: users, Sessions: sessions, Log: log}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login: POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	u, err := h.Users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.Log.Info("login failed", zap.String("email", req.Email))
		writeError(w, h.Log, err)
		return
	}
	if err := h.Sessions.CreateSession(w, u.ID); err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, u)
}

// Logout: POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.ClearSession(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me: GET /me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	u, err := h.Users.Get(r.Context(), uid)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, u)
}
