package services

import (
	"context"
	"fmt"
	"time"

	"github.com/diewo77/go-vertrieb/internal/models"
	"github.com/diewo77/go-vertrieb/validation"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InvoiceService manages electrician material lists.
type InvoiceService struct {
	db     *gorm.DB
	prices PriceSource
	log    *zap.Logger
	now    func() time.Time
}

func NewInvoiceService(db *gorm.DB, prices PriceSource, log *zap.Logger) *InvoiceService {
	if log == nil {
		log = zap.NewNop()
	}
	return &InvoiceService{db: db, prices: prices, log: log, now: time.Now}
}

// InvoiceTotal is the priced sum of an invoice.
type InvoiceTotal struct {
	InvoiceID string   `json:"invoice_id"`
	Total     float64  `json:"total"`
	Missing   []string `json:"missing,omitempty"`
}

func validateKundenData(k *models.KundenData) validation.Violations {
	v := validation.Violations{}
	validation.Required("zahlerschranken", k.Zahlerschranken, v)
	validation.OneOf("zahlerschranken", k.Zahlerschranken, models.Zaehlerschranken, v)
	validation.Required("netz_typ", k.NetzTyp, v)
	validation.OneOf("netz_typ", k.NetzTyp, models.NetzTypen, v)
	validation.MaxLen("kunden_name", k.KundenName, 100, v)
	validation.MaxLen("kunden_strasse", k.KundenStrasse, 100, v)
	validation.MaxLen("kunden_plz_ort", k.KundenPlzOrt, 100, v)
	validation.MaxLen("standort", k.Standort, 100, v)
	return v
}

// Create opens an unlocked invoice with its customer block. The owner needs
// a Kuerzel since it is part of the invoice id.
func (s *InvoiceService) Create(ctx context.Context, userID uint, kunden models.KundenData) (*models.ElectricInvoice, error) {
	if err := invalid(validateKundenData(&kunden)); err != nil {
		return nil, err
	}
	u, err := loadUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if u.KuerzelOrEmpty() == "" {
		return nil, ErrMissingKuerzel
	}

	now := s.now()
	inv := models.ElectricInvoice{
		UserID:      userID,
		CurrentDate: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}
	assign := func(id string) error {
		inv.ID = 0
		inv.InvoiceID = id
		return nil
	}
	err = createWithID(ctx, s.db, models.PrefixInvoice, u.KuerzelOrEmpty(), s.now, assign, func(tx *gorm.DB) error {
		if err := tx.Create(&inv).Error; err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		kunden.ID = 0
		kunden.InvoiceID = inv.ID
		if err := tx.Create(&kunden).Error; err != nil {
			return fmt.Errorf("create kunden data: %w", err)
		}
		inv.KundenData = &kunden
		return writeAudit(tx, userID, ObjectInvoice, inv.InvoiceID, models.AuditCreate, "")
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *InvoiceService) Get(ctx context.Context, invoiceID string) (*models.ElectricInvoice, error) {
	var inv models.ElectricInvoice
	err := s.db.WithContext(ctx).
		Preload("KundenData").
		Preload("Positions", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("invoice_id = ?", invoiceID).
		First(&inv).Error
	if err != nil {
		return nil, notFound(err, "invoice", invoiceID)
	}
	return &inv, nil
}

// List returns invoices newest first. userID 0 lists all.
func (s *InvoiceService) List(ctx context.Context, userID uint) ([]models.ElectricInvoice, error) {
	q := s.db.WithContext(ctx).Preload("KundenData").Order("created_at desc")
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	var out []models.ElectricInvoice
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *InvoiceService) editable(ctx context.Context, invoiceID string) (*models.ElectricInvoice, error) {
	inv, err := s.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !inv.CanEdit() {
		return nil, fmt.Errorf("invoice %s: %w", invoiceID, ErrLocked)
	}
	return inv, nil
}

// AddPosition appends a catalogue position to an unlocked invoice.
func (s *InvoiceService) AddPosition(ctx context.Context, actorID uint, invoiceID, position string, quantity float64) (*models.Position, error) {
	v := validation.Violations{}
	validation.Required("position", position, v)
	validation.OneOf("position", position, models.ElektrikPositionen, v)
	validation.PositiveFloat("quantity", quantity, v)
	if err := invalid(v); err != nil {
		return nil, err
	}
	inv, err := s.editable(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	pos := models.Position{InvoiceID: inv.ID, Position: position, Quantity: quantity}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&pos).Error; err != nil {
			return fmt.Errorf("create position: %w", err)
		}
		return writeAudit(tx, actorID, ObjectInvoice, inv.InvoiceID, models.AuditChange,
			fmt.Sprintf("Position hinzugefügt: %gx %s", quantity, position))
	})
	if err != nil {
		return nil, err
	}
	return &pos, nil
}

// RemovePosition deletes one position of an unlocked invoice.
func (s *InvoiceService) RemovePosition(ctx context.Context, actorID uint, invoiceID string, positionID uint) error {
	inv, err := s.editable(ctx, invoiceID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND invoice_id = ?", positionID, inv.ID).Delete(&models.Position{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("position %d: %w", positionID, ErrNotFound)
		}
		return writeAudit(tx, actorID, ObjectInvoice, inv.InvoiceID, models.AuditChange,
			fmt.Sprintf("Position %d entfernt", positionID))
	})
}

// SetLocked freezes or reopens an invoice.
func (s *InvoiceService) SetLocked(ctx context.Context, actorID uint, invoiceID string, locked bool) (*models.ElectricInvoice, error) {
	inv, err := s.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	msg := "entsperrt"
	if locked {
		msg = "gesperrt"
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(inv).Update("is_locked", locked).Error; err != nil {
			return err
		}
		return writeAudit(tx, actorID, ObjectInvoice, inv.InvoiceID, models.AuditChange, msg)
	})
	if err != nil {
		return nil, err
	}
	inv.IsLocked = locked
	return inv, nil
}

// Total prices the invoice against the electrician catalog.
func (s *InvoiceService) Total(ctx context.Context, invoiceID string) (InvoiceTotal, error) {
	inv, err := s.Get(ctx, invoiceID)
	if err != nil {
		return InvoiceTotal{}, err
	}
	p, err := s.prices.Prices(ctx)
	if err != nil {
		return InvoiceTotal{}, fmt.Errorf("load prices: %w", err)
	}
	total, missing := inv.Total(p)
	if len(missing) > 0 {
		s.log.Warn("positions without price", zap.String("invoice_id", inv.InvoiceID), zap.Strings("missing", missing))
	}
	return InvoiceTotal{InvoiceID: inv.InvoiceID, Total: total, Missing: missing}, nil
}
