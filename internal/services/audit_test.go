package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/diewo77/go-vertrieb/internal/models"
	"gorm.io/gorm"
)

func TestCreateWithID_RetriesOnDuplicate(t *testing.T) {
	db := setupTestDB(t, t.Name())
	ctx := context.Background()

	// another writer took the first two seconds between our check and insert
	taken := map[string]bool{
		"AN-ABC31012025-142501": true,
		"AN-ABC31012025-142502": true,
	}
	var tried []string
	var id string
	err := createWithID(ctx, db, models.PrefixAngebot, "ABC", fixedClock(testNow),
		func(next string) error {
			id = next
			tried = append(tried, next)
			return nil
		},
		func(tx *gorm.DB) error {
			if taken[id] {
				return fmt.Errorf("create angebot: %w", gorm.ErrDuplicatedKey)
			}
			return nil
		})
	if err != nil {
		t.Fatalf("createWithID: %v", err)
	}
	if id != "AN-ABC31012025-142503" || len(tried) != 3 {
		t.Errorf("id = %q after %v", id, tried)
	}
}

func TestCreateWithID_StopsOnOtherErrors(t *testing.T) {
	db := setupTestDB(t, t.Name())
	boom := errors.New("disk full")
	calls := 0
	err := createWithID(context.Background(), db, models.PrefixTicket, "ABC", fixedClock(testNow),
		func(string) error { return nil },
		func(*gorm.DB) error {
			calls++
			return boom
		})
	if !errors.Is(err, boom) || calls != 1 {
		t.Errorf("err = %v after %d calls", err, calls)
	}
}

func TestCreateWithID_SoftDeletedIDStaysTaken(t *testing.T) {
	svc, u := newAngebotService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, u.ID, validAngebot(), ActionSave)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, u.ID, a.AngebotID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	b, err := svc.Create(ctx, u.ID, validAngebot(), ActionSave)
	if err != nil {
		t.Fatalf("create after delete: %v", err)
	}
	if b.AngebotID == a.AngebotID {
		t.Errorf("id %q reused", b.AngebotID)
	}
}
