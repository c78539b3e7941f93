package services

import (
	"context"
	"fmt"
	"time"

	"github.com/diewo77/go-vertrieb/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TicketService struct {
	db     *gorm.DB
	prices PriceSource
	log    *zap.Logger
	now    func() time.Time
}

func NewTicketService(db *gorm.DB, prices PriceSource, log *zap.Logger) *TicketService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TicketService{db: db, prices: prices, log: log, now: time.Now}
}

func (s *TicketService) accepted(ctx context.Context, t *models.Ticket) (*models.Angebot, error) {
	if t.ZohoID == nil {
		return nil, nil
	}
	return findAccepted(ctx, s.db, *t.ZohoID)
}

func (s *TicketService) recompute(ctx context.Context, t *models.Ticket, owner *models.User) error {
	p, err := s.prices.Prices(ctx)
	if err != nil {
		return fmt.Errorf("load prices: %w", err)
	}
	acc, err := s.accepted(ctx, t)
	if err != nil {
		return fmt.Errorf("find accepted angebot: %w", err)
	}
	r := t.Recompute(p, owner, acc, s.now())
	if len(r.Missing) > 0 {
		s.log.Warn("catalog entries missing", zap.String("ticket_id", t.TicketID), zap.Strings("missing", r.Missing))
	}
	return nil
}

// Create validates, prices and stores a new ticket.
func (s *TicketService) Create(ctx context.Context, userID uint, in *models.Ticket) (*models.Ticket, error) {
	if err := invalid(ValidateTicket(in)); err != nil {
		return nil, err
	}
	u, err := loadUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	t := *in
	t.ID = 0
	t.UserID = userID
	t.User = nil
	t.IsLocked = false
	assign := func(id string) error {
		t.ID = 0
		t.TicketID = id
		return s.recompute(ctx, &t, u)
	}
	err = createWithID(ctx, s.db, models.PrefixTicket, u.KuerzelOrEmpty(), s.now, assign, func(tx *gorm.DB) error {
		if err := tx.Create(&t).Error; err != nil {
			return fmt.Errorf("create ticket: %w", err)
		}
		return writeAudit(tx, userID, ObjectTicket, t.TicketID, models.AuditCreate, "")
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("ticket created", zap.String("ticket_id", t.TicketID), zap.String("angenommenes_angebot", t.AngenommenesAngebot))
	return &t, nil
}

// Update replaces the editable fields of a ticket.
func (s *TicketService) Update(ctx context.Context, actorID uint, ticketID string, in *models.Ticket) (*models.Ticket, error) {
	cur, err := s.Get(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if cur.IsLocked {
		return nil, fmt.Errorf("ticket %s: %w", ticketID, ErrLocked)
	}
	if err := invalid(ValidateTicket(in)); err != nil {
		return nil, err
	}
	owner, err := loadUser(ctx, s.db, cur.UserID)
	if err != nil {
		return nil, err
	}

	t := *in
	t.ID = cur.ID
	t.CreatedAt = cur.CreatedAt
	t.TicketID = cur.TicketID
	t.UserID = cur.UserID
	t.User = nil
	t.IsLocked = cur.IsLocked
	if t.AnfrageVom == "" {
		t.AnfrageVom = cur.AnfrageVom
	}
	if err := s.recompute(ctx, &t, owner); err != nil {
		return nil, err
	}

	msg := ""
	if t.Status != cur.Status {
		msg = models.StatusChangeMessage(t.Status)
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&t).Error; err != nil {
			return fmt.Errorf("update ticket: %w", err)
		}
		return writeAudit(tx, actorID, ObjectTicket, t.TicketID, models.AuditChange, msg)
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TicketService) Get(ctx context.Context, ticketID string) (*models.Ticket, error) {
	var t models.Ticket
	if err := s.db.WithContext(ctx).Where("ticket_id = ?", ticketID).First(&t).Error; err != nil {
		return nil, notFound(err, "ticket", ticketID)
	}
	return &t, nil
}

// List returns tickets, newest first. userID 0 lists all.
func (s *TicketService) List(ctx context.Context, userID uint) ([]models.Ticket, error) {
	q := s.db.WithContext(ctx).Order("updated_at desc")
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	var out []models.Ticket
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *TicketService) Delete(ctx context.Context, actorID uint, ticketID string) error {
	t, err := s.Get(ctx, ticketID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := writeAudit(tx, actorID, ObjectTicket, t.TicketID, models.AuditDelete, ""); err != nil {
			return err
		}
		return tx.Delete(t).Error
	})
}
