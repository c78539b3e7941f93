package services

import (
	"context"
	"fmt"
	"time"

	"github.com/diewo77/go-vertrieb/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CalculatorService struct {
	db     *gorm.DB
	prices PriceSource
	log    *zap.Logger
	now    func() time.Time
}

func NewCalculatorService(db *gorm.DB, prices PriceSource, log *zap.Logger) *CalculatorService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CalculatorService{db: db, prices: prices, log: log, now: time.Now}
}

func (s *CalculatorService) recompute(ctx context.Context, c *models.Calculator, owner *models.User) error {
	p, err := s.prices.Prices(ctx)
	if err != nil {
		return fmt.Errorf("load prices: %w", err)
	}
	r := c.Recompute(p, owner)
	if len(r.Missing) > 0 {
		s.log.Warn("catalog entries missing", zap.String("calculator_id", c.CalculatorID), zap.Strings("missing", r.Missing))
	}
	return nil
}

func (s *CalculatorService) Create(ctx context.Context, userID uint, in *models.Calculator) (*models.Calculator, error) {
	u, err := loadUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	c := *in
	c.ID = 0
	c.UserID = userID
	c.User = nil
	c.EnergyInputs.ApplyDefaults(u.UserDefaults)
	c.Anlage.ApplyDefaults(u.UserDefaults)
	if c.GarantieWR == "" {
		c.GarantieWR = u.InitialGarantieWR
	}
	assign := func(id string) error {
		c.ID = 0
		c.CalculatorID = id
		return s.recompute(ctx, &c, u)
	}
	err = createWithID(ctx, s.db, models.PrefixCalculator, u.KuerzelOrEmpty(), s.now, assign, func(tx *gorm.DB) error {
		if err := tx.Create(&c).Error; err != nil {
			return fmt.Errorf("create calculator: %w", err)
		}
		return writeAudit(tx, userID, ObjectCalculator, c.CalculatorID, models.AuditCreate, "")
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CalculatorService) Update(ctx context.Context, actorID uint, calculatorID string, in *models.Calculator) (*models.Calculator, error) {
	cur, err := s.Get(ctx, calculatorID)
	if err != nil {
		return nil, err
	}
	owner, err := loadUser(ctx, s.db, cur.UserID)
	if err != nil {
		return nil, err
	}
	c := *in
	c.ID = cur.ID
	c.CreatedAt = cur.CreatedAt
	c.CalculatorID = cur.CalculatorID
	c.UserID = cur.UserID
	c.User = nil
	if err := s.recompute(ctx, &c, owner); err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&c).Error; err != nil {
			return fmt.Errorf("update calculator: %w", err)
		}
		return writeAudit(tx, actorID, ObjectCalculator, c.CalculatorID, models.AuditChange, "")
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CalculatorService) Get(ctx context.Context, calculatorID string) (*models.Calculator, error) {
	var c models.Calculator
	if err := s.db.WithContext(ctx).Where("calculator_id = ?", calculatorID).First(&c).Error; err != nil {
		return nil, notFound(err, "calculator", calculatorID)
	}
	return &c, nil
}

// List returns a user's calculator runs, newest first.
func (s *CalculatorService) List(ctx context.Context, userID uint) ([]models.Calculator, error) {
	q := s.db.WithContext(ctx).Order("updated_at desc")
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	var out []models.Calculator
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
