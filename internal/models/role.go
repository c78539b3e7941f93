package models

import (
	"time"

	"gorm.io/gorm"
)

// Role groups permissions. A user is assigned to one role, inheriting all
// its permissions.
type Role struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Name        string         `gorm:"uniqueIndex;size:50;not null" json:"name"`
	Description string         `gorm:"size:500" json:"description,omitempty"`
	IsSystem    bool           `gorm:"default:false" json:"is_system"`
	// Many-to-many relationship via role_permissions join table.
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions,omitempty"`
	Users       []User       `gorm:"foreignKey:RoleID" json:"users,omitempty"`
}

// Role names seeded at startup.
const (
	RoleAdmin      = "admin"
	RoleVertrieb   = "Vertrieb"
	RoleElektriker = "Elektriker"
	RoleProjektant = "Projektant"
)

// RoleForBeruf returns the default role name for a job.
func RoleForBeruf(b Beruf) string {
	switch b {
	case BerufElektriker:
		return RoleElektriker
	case BerufProjektant:
		return RoleProjektant
	default:
		return RoleVertrieb
	}
}

// Permission represents a single action allowed on a resource type.
// Format: "resource:action" (e.g., "angebot:create", "invoice:view").
type Permission struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	ResourceType string         `gorm:"size:50;not null;index:idx_perm_resource_action" json:"resource_type"`
	Action       string         `gorm:"size:50;not null;index:idx_perm_resource_action" json:"action"`
	Description  string         `gorm:"size:200" json:"description,omitempty"`
}

// Code returns the permission in "resource:action" format for matching.
func (p Permission) Code() string {
	return p.ResourceType + ":" + p.Action
}
