package models

import (
	"fmt"
	"time"
)

// Audit actions
const (
	AuditCreate = "create"
	AuditChange = "change"
	AuditDelete = "delete"
)

// Audit logging
type AuditLog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"index" json:"user_id"` // who made the change
	ObjectType    string    `gorm:"size:50;index:idx_audit_object" json:"object_type"`
	ObjectID      string    `gorm:"size:64;index:idx_audit_object" json:"object_id"`
	ObjectRepr    string    `gorm:"size:255" json:"object_repr"`
	Action        string    `gorm:"size:20;not null" json:"action"`
	ChangeMessage string    `gorm:"type:text" json:"change_message,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// StatusChangeMessage is the audit text for a status transition.
func StatusChangeMessage(status AngebotStatus) string {
	switch status {
	case StatusNone:
		return ""
	case StatusAngenommen:
		return "<<Angenommen>>"
	case StatusAbgelaufen:
		return "<<Abgelaufen>>"
	default:
		return fmt.Sprintf("Status geändert zu <<%s>>", status)
	}
}

// Describe returns the human readable form of an entry.
func (l AuditLog) Describe() string {
	switch l.Action {
	case AuditCreate:
		return "Ein neues Angebot wurde erstellt"
	case AuditChange:
		if l.ChangeMessage != "" {
			return "Das Angebot wurde aktualisiert -  " + l.ChangeMessage
		}
		return "Das Angebot wurde aktualisiert"
	case AuditDelete:
		return "Das Angebot wurde gelöscht"
	}
	return "LogEntry Object"
}
