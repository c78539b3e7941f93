package services

import (
	"context"
	"errors"
	"testing"

	"github.com/diewo77/go-vertrieb/internal/models"
)

func TestCalculatorService(t *testing.T) {
	db := setupTestDB(t, t.Name())
	u := seedUser(t, db, "mia@example.de", "ABC")
	svc := NewCalculatorService(db, staticPrices{testPrices()}, nil)
	svc.now = fixedClock(testNow)
	ctx := context.Background()

	c, err := svc.Create(ctx, u.ID, &models.Calculator{Anlage: models.Anlage{Modulanzahl: 20}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.CalculatorID != "RE-ABC31012025-142501" {
		t.Errorf("calculator id = %q", c.CalculatorID)
	}
	if c.GarantieWR != models.GarantieWR10 || c.Verbrauch != 15000 {
		t.Errorf("defaults not applied: garantie=%q verbrauch=%v", c.GarantieWR, c.Verbrauch)
	}
	if c.Angebotsumme <= 0 {
		t.Errorf("angebotsumme = %v", c.Angebotsumme)
	}

	in := *c
	in.Modulanzahl = 30
	updated, err := svc.Update(ctx, u.ID, c.CalculatorID, &in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Angebotsumme <= c.Angebotsumme {
		t.Errorf("more modules should cost more: %v <= %v", updated.Angebotsumme, c.Angebotsumme)
	}

	list, err := svc.List(ctx, u.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("list = %d, %v", len(list), err)
	}
	if _, err := svc.Get(ctx, "RE-unknown"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
