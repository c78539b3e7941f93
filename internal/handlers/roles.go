package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/diewo77/go-vertrieb/httpx"
	"github.com/diewo77/go-vertrieb/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RoleHandler lets admins inspect roles and change their permissions.
type RoleHandler struct {
	DB *gorm.DB
	// OnChange drops cached roles after an edit; a role may affect many users.
	OnChange func()
	Log      *zap.Logger
}

func NewRoleHandler(db *gorm.DB, onChange func(), log *zap.Logger) *RoleHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &RoleHandler{DB: db, OnChange: onChange, Log: log}
}

// List: GET /admin/roles
func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	var roles []models.Role
	if err := h.DB.WithContext(r.Context()).Preload("Permissions").Order("name").Find(&roles).Error; err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"roles": roles})
}

// Permissions: GET /admin/permissions
func (h *RoleHandler) Permissions(w http.ResponseWriter, r *http.Request) {
	var perms []models.Permission
	if err := h.DB.WithContext(r.Context()).Order("resource_type, action").Find(&perms).Error; err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, perms)
}

type rolePermissionsRequest struct {
	Permissions []string `json:"permissions"` // "resource:action"
}

// SavePermissions: PUT /admin/roles/{id}/permissions replaces the role's
// permission set. The admin role is fixed.
func (h *RoleHandler) SavePermissions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUint(w, r, "id")
	if !ok {
		return
	}
	var req rolePermissionsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	db := h.DB.WithContext(r.Context())
	var role models.Role
	if err := db.First(&role, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		writeError(w, h.Log, err)
		return
	}
	if role.Name == models.RoleAdmin {
		httpx.JSONError(w, http.StatusConflict, "system_role", nil)
		return
	}

	perms := make([]models.Permission, 0, len(req.Permissions))
	for _, code := range req.Permissions {
		resource, action, _ := strings.Cut(code, ":")
		var p models.Permission
		err := db.Where("resource_type = ? AND action = ?", resource, action).First(&p).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusBadRequest, "unknown_permission", code)
			return
		}
		if err != nil {
			writeError(w, h.Log, err)
			return
		}
		perms = append(perms, p)
	}

	if err := db.Model(&role).Association("Permissions").Replace(perms); err != nil {
		writeError(w, h.Log, err)
		return
	}
	if h.OnChange != nil {
		h.OnChange()
	}
	h.Log.Info("role permissions changed", zap.String("role", role.Name), zap.Strings("permissions", req.Permissions))

	if err := db.Preload("Permissions").First(&role, id).Error; err != nil {
		writeError(w, h.Log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, role)
}
