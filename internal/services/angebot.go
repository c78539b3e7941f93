package services

import (
	"context"
	"fmt"
	"time"

	"github.com/diewo77/go-vertrieb/internal/models"
	"github.com/diewo77/go-vertrieb/internal/pricing"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AngebotService struct {
	db     *gorm.DB
	prices PriceSource
	log    *zap.Logger
	now    func() time.Time
}

func NewAngebotService(db *gorm.DB, prices PriceSource, log *zap.Logger) *AngebotService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AngebotService{db: db, prices: prices, log: log, now: time.Now}
}

func applyAngebotDefaults(a *models.Angebot, u *models.User) {
	a.EnergyInputs.ApplyDefaults(u.UserDefaults)
	a.Anlage.ApplyDefaults(u.UserDefaults)
	if a.GarantieWR == "" {
		a.GarantieWR = u.InitialGarantieWR
	}
}

// applyStatus handles a status transition from old to a.Status. Accepting a
// quote marks it as the customer's accepted one.
func applyStatus(a *models.Angebot, old models.AngebotStatus, now time.Time) string {
	if a.Status == old {
		return ""
	}
	if a.Status == models.StatusBekommen {
		a.MarkReceived(now)
	} else {
		a.ClearStatusChange()
	}
	if a.Status == models.StatusAngenommen {
		a.AngenommenesAngebot = a.AngebotID
	}
	return models.StatusChangeMessage(a.Status)
}

func (s *AngebotService) snapshot(ctx context.Context) (*pricing.Prices, error) {
	p, err := s.prices.Prices(ctx)
	if err != nil {
		return nil, fmt.Errorf("load prices: %w", err)
	}
	return p, nil
}

// Create validates, prices and stores a new quote for userID.
func (s *AngebotService) Create(ctx context.Context, userID uint, in *models.Angebot, action string) (*models.Angebot, error) {
	u, err := loadUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	p, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if err := invalid(ValidateAngebot(in, action, p.Value(models.ValueRabattLimit))); err != nil {
		return nil, err
	}

	a := *in
	a.ID = 0
	a.UserID = userID
	a.User = nil
	a.IsLocked = false
	a.AngebotIDAssigned = false
	a.AngebotZohoID = ""
	a.StatusChangeField = nil
	a.StatusChangeDate = ""
	a.CountdownOn = false
	applyAngebotDefaults(&a, u)

	now := s.now()
	assign := func(id string) error {
		a.ID = 0
		a.AngebotID = id
		applyStatus(&a, models.StatusNone, now)
		r := a.Recompute(p, u, now)
		if len(r.Missing) > 0 {
			s.log.Warn("catalog entries missing", zap.String("angebot_id", a.AngebotID), zap.Strings("missing", r.Missing))
		}
		return nil
	}
	err = createWithID(ctx, s.db, models.PrefixAngebot, u.KuerzelOrEmpty(), s.now, assign, func(tx *gorm.DB) error {
		if err := tx.Create(&a).Error; err != nil {
			return fmt.Errorf("create angebot: %w", err)
		}
		return writeAudit(tx, userID, ObjectAngebot, a.AngebotID, models.AuditCreate, "")
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("angebot created", zap.String("angebot_id", a.AngebotID), zap.Uint("user_id", userID))
	return &a, nil
}

// Update replaces the editable fields of a quote and recomputes it. actorID
// is recorded in the audit log; pricing uses the owner's attributes.
func (s *AngebotService) Update(ctx context.Context, actorID uint, angebotID string, in *models.Angebot, action string) (*models.Angebot, error) {
	cur, err := s.Get(ctx, angebotID)
	if err != nil {
		return nil, err
	}
	if cur.IsLocked {
		return nil, fmt.Errorf("angebot %s: %w", angebotID, ErrLocked)
	}
	owner, err := loadUser(ctx, s.db, cur.UserID)
	if err != nil {
		return nil, err
	}
	p, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if err := invalid(ValidateAngebot(in, action, p.Value(models.ValueRabattLimit))); err != nil {
		return nil, err
	}

	a := *in
	a.ID = cur.ID
	a.CreatedAt = cur.CreatedAt
	a.AngebotID = cur.AngebotID
	a.UserID = cur.UserID
	a.User = nil
	a.IsLocked = cur.IsLocked
	a.AngebotIDAssigned = cur.AngebotIDAssigned
	a.AngebotZohoID = cur.AngebotZohoID
	a.StatusChangeField = cur.StatusChangeField
	a.StatusChangeDate = cur.StatusChangeDate
	a.CountdownOn = cur.CountdownOn
	if a.AnfrageVom == "" {
		a.AnfrageVom = cur.AnfrageVom
	}
	// Fields set by status changes or the Zoho import are kept unless the
	// request carries a value.
	if a.AngenommenesAngebot == "" {
		a.AngenommenesAngebot = cur.AngenommenesAngebot
	}
	if a.StatusPVA == "" {
		a.StatusPVA = cur.StatusPVA
	}
	if a.Leadstatus == "" {
		a.Leadstatus = cur.Leadstatus
	}

	now := s.now()
	msg := applyStatus(&a, cur.Status, now)
	r := a.Recompute(p, owner, now)
	if len(r.Missing) > 0 {
		s.log.Warn("catalog entries missing", zap.String("angebot_id", a.AngebotID), zap.Strings("missing", r.Missing))
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&a).Error; err != nil {
			return fmt.Errorf("update angebot: %w", err)
		}
		return writeAudit(tx, actorID, ObjectAngebot, a.AngebotID, models.AuditChange, msg)
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Calculate prices a quote without storing it.
func (s *AngebotService) Calculate(ctx context.Context, userID uint, in *models.Angebot) (pricing.AngebotResult, error) {
	u, err := loadUser(ctx, s.db, userID)
	if err != nil {
		return pricing.AngebotResult{}, err
	}
	p, err := s.snapshot(ctx)
	if err != nil {
		return pricing.AngebotResult{}, err
	}
	if err := invalid(ValidateAngebot(in, ActionCalculate, p.Value(models.ValueRabattLimit))); err != nil {
		return pricing.AngebotResult{}, err
	}
	a := *in
	applyAngebotDefaults(&a, u)
	return pricing.CalculateAngebot(p, a.PricingInput(u)), nil
}

func (s *AngebotService) Get(ctx context.Context, angebotID string) (*models.Angebot, error) {
	var a models.Angebot
	if err := s.db.WithContext(ctx).Where("angebot_id = ?", angebotID).First(&a).Error; err != nil {
		return nil, notFound(err, "angebot", angebotID)
	}
	return &a, nil
}

// List returns quotes, newest first. userID 0 lists every user's quotes
// and an empty status matches all.
func (s *AngebotService) List(ctx context.Context, userID uint, status string) ([]models.Angebot, error) {
	q := s.db.WithContext(ctx).Order("updated_at desc")
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []models.Angebot
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Delete logs and soft-deletes a quote.
func (s *AngebotService) Delete(ctx context.Context, actorID uint, angebotID string) error {
	a, err := s.Get(ctx, angebotID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := writeAudit(tx, actorID, ObjectAngebot, a.AngebotID, models.AuditDelete, ""); err != nil {
			return err
		}
		return tx.Delete(a).Error
	})
}

// SetLocked locks or unlocks a quote.
func (s *AngebotService) SetLocked(ctx context.Context, actorID uint, angebotID string, locked bool) (*models.Angebot, error) {
	a, err := s.Get(ctx, angebotID)
	if err != nil {
		return nil, err
	}
	msg := "entsperrt"
	if locked {
		msg = "gesperrt"
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(a).Update("is_locked", locked).Error; err != nil {
			return err
		}
		return writeAudit(tx, actorID, ObjectAngebot, a.AngebotID, models.AuditChange, msg)
	})
	if err != nil {
		return nil, err
	}
	a.IsLocked = locked
	return a, nil
}

// AssignZohoID records the id Zoho gave the quote.
func (s *AngebotService) AssignZohoID(ctx context.Context, actorID uint, angebotID, zohoAngebotID string) (*models.Angebot, error) {
	a, err := s.Get(ctx, angebotID)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(a).Updates(map[string]any{
			"angebot_zoho_id":     zohoAngebotID,
			"angebot_id_assigned": true,
		}).Error; err != nil {
			return err
		}
		return writeAudit(tx, actorID, ObjectAngebot, a.AngebotID, models.AuditChange, "Zoho ID zugewiesen")
	})
	if err != nil {
		return nil, err
	}
	a.AngebotZohoID = zohoAngebotID
	a.AngebotIDAssigned = true
	return a, nil
}

// Accepted returns the accepted quote of a Zoho customer, or nil.
func (s *AngebotService) Accepted(ctx context.Context, zohoID int64) (*models.Angebot, error) {
	return findAccepted(ctx, s.db, zohoID)
}

func findAccepted(ctx context.Context, db *gorm.DB, zohoID int64) (*models.Angebot, error) {
	var out []models.Angebot
	err := db.WithContext(ctx).
		Where("zoho_id = ? AND angenommenes_angebot = angebot_id", zohoID).
		Order("updated_at desc").
		Limit(1).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

// History returns the audit trail of a quote.
func (s *AngebotService) History(ctx context.Context, angebotID string) ([]models.AuditLog, error) {
	return History(ctx, s.db, ObjectAngebot, angebotID)
}

// Document returns the stored document data of a quote after checking that
// the quote is complete enough to be printed.
func (s *AngebotService) Document(ctx context.Context, angebotID string) (*models.Document, error) {
	a, err := s.Get(ctx, angebotID)
	if err != nil {
		return nil, err
	}
	p, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if err := invalid(ValidateAngebot(a, ActionDocument, p.Value(models.ValueRabattLimit))); err != nil {
		return nil, err
	}
	if a.AgData == nil {
		return nil, fmt.Errorf("angebot %s has no document: %w", angebotID, ErrNotFound)
	}
	return a.AgData, nil
}
