package services

import (
	"context"
	"fmt"
	"time"

	"github.com/diewo77/go-vertrieb/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Retention controls how long untouched quotes are kept.
type Retention struct {
	UnassignedAfter time.Duration
	StaleAfter      time.Duration
	AcceptedAfter   time.Duration
}

func DefaultRetention() Retention {
	return Retention{
		UnassignedAfter: 7 * 24 * time.Hour,
		StaleAfter:      6 * 7 * 24 * time.Hour,
		AcceptedAfter:   60 * 24 * time.Hour,
	}
}

// CleanupReport counts the rows touched by one run.
type CleanupReport struct {
	Unassigned int64 `json:"unassigned"`
	Stale      int64 `json:"stale"`
	Accepted   int64 `json:"accepted"`
	Expired    int64 `json:"expired"`
}

type CleanupService struct {
	db        *gorm.DB
	log       *zap.Logger
	retention Retention
}

func NewCleanupService(db *gorm.DB, retention Retention, log *zap.Logger) *CleanupService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CleanupService{db: db, log: log, retention: retention}
}

const acceptedCond = "(status = ? OR angenommenes_angebot = angebot_id)"

// Run purges stale quotes and expires received quotes whose countdown ran
// out. Every step commits on its own; a failing step stops the run.
func (s *CleanupService) Run(ctx context.Context, now time.Time) (CleanupReport, error) {
	var rep CleanupReport
	var err error

	rep.Unassigned, err = s.purge(ctx, "unassigned", func(q *gorm.DB) *gorm.DB {
		return q.Where("angebot_id_assigned = ? AND updated_at <= ?", false, now.Add(-s.retention.UnassignedAfter))
	})
	if err != nil {
		return rep, err
	}

	rep.Stale, err = s.purge(ctx, "stale", func(q *gorm.DB) *gorm.DB {
		return q.Where("updated_at <= ?", now.Add(-s.retention.StaleAfter)).
			Not(acceptedCond, models.StatusAngenommen)
	})
	if err != nil {
		return rep, err
	}

	rep.Accepted, err = s.purge(ctx, "accepted", func(q *gorm.DB) *gorm.DB {
		return q.Where("updated_at <= ?", now.Add(-s.retention.AcceptedAfter)).
			Where(acceptedCond, models.StatusAngenommen)
	})
	if err != nil {
		return rep, err
	}

	rep.Expired, err = s.ExpireReceived(ctx, now)
	return rep, err
}

func (s *CleanupService) purge(ctx context.Context, kind string, scope func(*gorm.DB) *gorm.DB) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := scope(tx.Unscoped()).Delete(&models.Angebot{})
		if res.Error != nil {
			return res.Error
		}
		n = res.RowsAffected
		return nil
	})
	if err != nil {
		s.log.Error("angebot cleanup failed", zap.String("kind", kind), zap.Error(err))
		return 0, fmt.Errorf("cleanup %s: %w", kind, err)
	}
	s.log.Info("angebote deleted", zap.String("kind", kind), zap.Int64("count", n))
	return n, nil
}

// ExpireReceived rejects quotes that stayed "bekommen" for the whole
// countdown window.
func (s *CleanupService) ExpireReceived(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var due []models.Angebot
		err := tx.Where("status = ? AND status_change_field IS NOT NULL AND status_change_field <= ?",
			models.StatusBekommen, now.Add(-models.CountdownWindow)).Find(&due).Error
		if err != nil {
			return err
		}
		for i := range due {
			a := &due[i]
			err := tx.Model(a).Updates(map[string]any{
				"status":       models.StatusAbgelehnt,
				"countdown_on": false,
			}).Error
			if err != nil {
				return err
			}
			if err := writeAudit(tx, a.UserID, ObjectAngebot, a.AngebotID, models.AuditChange,
				models.StatusChangeMessage(models.StatusAbgelehnt)); err != nil {
				return err
			}
		}
		n = int64(len(due))
		return nil
	})
	if err != nil {
		s.log.Error("expiring received angebote failed", zap.Error(err))
		return 0, fmt.Errorf("expire received: %w", err)
	}
	if n > 0 {
		s.log.Info("received angebote expired", zap.Int64("count", n))
	}
	return n, nil
}
