package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/diewo77/go-vertrieb/internal/models"
	"github.com/diewo77/go-vertrieb/internal/pricing"
	"gorm.io/gorm"
)

// Audited object types.
const (
	ObjectAngebot    = "angebot"
	ObjectTicket     = "ticket"
	ObjectCalculator = "calculator"
	ObjectInvoice    = "invoice"
)

// PriceSource hands out catalog snapshots. *catalog.Store implements it.
type PriceSource interface {
	Prices(ctx context.Context) (*pricing.Prices, error)
}

func writeAudit(tx *gorm.DB, userID uint, objectType, objectID, action, msg string) error {
	entry := models.AuditLog{
		UserID:        userID,
		ObjectType:    objectType,
		ObjectID:      objectID,
		ObjectRepr:    objectID,
		Action:        action,
		ChangeMessage: msg,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

// History returns the audit entries of one object, newest first.
func History(ctx context.Context, db *gorm.DB, objectType, objectID string) ([]models.AuditLog, error) {
	var out []models.AuditLog
	err := db.WithContext(ctx).
		Where("object_type = ? AND object_id = ?", objectType, objectID).
		Order("created_at desc, id desc").
		Find(&out).Error
	return out, err
}

func loadUser(ctx context.Context, db *gorm.DB, id uint) (*models.User, error) {
	var u models.User
	if err := db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &u, nil
}

// maxIDAttempts bounds how far createWithID moves past the current second.
const maxIDAttempts = 60

// createWithID stores a new record under a generated id. assign puts the
// id on the record and create inserts it inside a transaction. When the
// insert hits the unique index, the id moves forward one second and the
// whole create is retried, so concurrent creators never share an id.
// Soft-deleted rows still hold their id.
func createWithID(ctx context.Context, db *gorm.DB, prefix, kuerzel string, now func() time.Time,
	assign func(id string) error, create func(tx *gorm.DB) error) error {
	t := now()
	for i := 0; i < maxIDAttempts; i++ {
		if err := assign(models.GenerateRecordID(prefix, kuerzel, t)); err != nil {
			return err
		}
		err := db.WithContext(ctx).Transaction(create)
		if err == nil {
			return nil
		}
		if !isDuplicateKey(err) {
			return err
		}
		t = t.Add(time.Second)
	}
	return fmt.Errorf("no free %s id for %q", prefix, kuerzel)
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

func notFound(err error, what, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return err
}
