package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/diewo77/go-vertrieb/auth"
	"github.com/diewo77/go-vertrieb/gate"
	"github.com/diewo77/go-vertrieb/httpx"
	"github.com/diewo77/go-vertrieb/internal/catalog"
	"github.com/diewo77/go-vertrieb/internal/services"
	"go.uber.org/zap"
)

// Authorizer checks the current user's rights. *policy.AuthGate implements it.
type Authorizer interface {
	Authorize(ctx context.Context, action gate.Action, resourceType string, resource any) error
	IsAdmin(ctx context.Context) bool
	CanReadAll(ctx context.Context, resourceType string) bool
}

// writeError maps service errors to JSON responses. Unknown errors are
// logged and answered with 500.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", verr.Violations)
	case errors.Is(err, services.ErrNotFound), errors.Is(err, catalog.ErrRowNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, catalog.ErrUnknownTable):
		httpx.JSONError(w, http.StatusNotFound, "unknown_table", nil)
	case errors.Is(err, services.ErrLocked):
		httpx.JSONError(w, http.StatusConflict, "locked", nil)
	case errors.Is(err, services.ErrMissingKuerzel):
		httpx.JSONError(w, http.StatusUnprocessableEntity, "missing_kuerzel", nil)
	case errors.Is(err, catalog.ErrMissingName):
		httpx.JSONError(w, http.StatusBadRequest, "missing_name", nil)
	case errors.Is(err, services.ErrInvalid):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, services.ErrBadCredentials):
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
	case errors.Is(err, gate.ErrUnauthorized):
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
	default:
		if log != nil {
			log.Error("request failed", zap.Error(err))
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

// currentUser returns the authenticated user id or answers 401.
func currentUser(w http.ResponseWriter, r *http.Request) (uint, bool) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return 0, false
	}
	return uid, true
}

// listScope is the user filter for list endpoints. Admins and read-all
// roles see everything.
func listScope(ctx context.Context, authz Authorizer, resourceType string, uid uint) uint {
	if authz.CanReadAll(ctx, resourceType) {
		return 0
	}
	return uid
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(w, r, dst); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

func pathUint(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	n, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil || n == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_"+name, nil)
		return 0, false
	}
	return uint(n), true
}

type lockRequest struct {
	Locked bool `json:"locked"`
}
