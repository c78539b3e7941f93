package services

import (
	"context"
	"testing"
	"time"

	"github.com/diewo77/go-vertrieb/internal/models"
	"gorm.io/gorm"
)

func seedAngebot(t *testing.T, db *gorm.DB, userID uint, id string, assigned bool, status models.AngebotStatus, updated time.Time) *models.Angebot {
	a := models.Angebot{AngebotID: id, UserID: userID, AngebotIDAssigned: assigned, Status: status}
	if status == models.StatusAngenommen {
		a.AngenommenesAngebot = id
	}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("seed angebot: %v", err)
	}
	if err := db.Model(&a).UpdateColumn("updated_at", updated).Error; err != nil {
		t.Fatalf("set updated_at: %v", err)
	}
	return &a
}

func countAngebote(t *testing.T, db *gorm.DB) map[string]models.Angebot {
	var all []models.Angebot
	if err := db.Unscoped().Find(&all).Error; err != nil {
		t.Fatalf("list: %v", err)
	}
	out := make(map[string]models.Angebot, len(all))
	for _, a := range all {
		out[a.AngebotID] = a
	}
	return out
}

func TestCleanupService_Run(t *testing.T) {
	db := setupTestDB(t, t.Name())
	u := seedUser(t, db, "mia@example.de", "ABC")
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	seedAngebot(t, db, u.ID, "fresh-unassigned", false, models.StatusNone, now.Add(-1*day))
	seedAngebot(t, db, u.ID, "old-unassigned", false, models.StatusNone, now.Add(-8*day))
	seedAngebot(t, db, u.ID, "assigned-recent", true, models.StatusInKontakt, now.Add(-30*day))
	seedAngebot(t, db, u.ID, "assigned-stale", true, models.StatusInKontakt, now.Add(-50*day))
	seedAngebot(t, db, u.ID, "accepted-recent", true, models.StatusAngenommen, now.Add(-50*day))
	seedAngebot(t, db, u.ID, "accepted-old", true, models.StatusAngenommen, now.Add(-61*day))

	received := seedAngebot(t, db, u.ID, "received", true, models.StatusBekommen, now.Add(-1*day))
	changed := now.Add(-15 * day)
	if err := db.Model(received).UpdateColumns(map[string]any{"status_change_field": changed, "countdown_on": true}).Error; err != nil {
		t.Fatalf("set status change: %v", err)
	}
	open := seedAngebot(t, db, u.ID, "received-open", true, models.StatusBekommen, now.Add(-1*day))
	if err := db.Model(open).UpdateColumns(map[string]any{"status_change_field": now.Add(-3 * day), "countdown_on": true}).Error; err != nil {
		t.Fatalf("set status change: %v", err)
	}

	svc := NewCleanupService(db, DefaultRetention(), nil)
	rep, err := svc.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := CleanupReport{Unassigned: 1, Stale: 1, Accepted: 1, Expired: 1}
	if rep != want {
		t.Errorf("report = %+v, want %+v", rep, want)
	}

	left := countAngebote(t, db)
	for _, id := range []string{"old-unassigned", "assigned-stale", "accepted-old"} {
		if _, ok := left[id]; ok {
			t.Errorf("%s not deleted", id)
		}
	}
	for _, id := range []string{"fresh-unassigned", "assigned-recent", "accepted-recent", "received", "received-open"} {
		if _, ok := left[id]; !ok {
			t.Errorf("%s deleted", id)
		}
	}

	if got := left["received"]; got.Status != models.StatusAbgelehnt || got.CountdownOn {
		t.Errorf("expired quote = %q countdown=%v", got.Status, got.CountdownOn)
	}
	if got := left["received-open"]; got.Status != models.StatusBekommen {
		t.Errorf("open quote status = %q", got.Status)
	}

	hist, _ := History(context.Background(), db, ObjectAngebot, "received")
	if len(hist) != 1 || hist[0].ChangeMessage != "Status geändert zu <<abgelehnt>>" {
		t.Errorf("history = %+v", hist)
	}
}

func TestCleanupService_RunIsIdempotent(t *testing.T) {
	db := setupTestDB(t, t.Name())
	u := seedUser(t, db, "mia@example.de", "ABC")
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seedAngebot(t, db, u.ID, "old-unassigned", false, models.StatusNone, now.Add(-10*24*time.Hour))

	svc := NewCleanupService(db, DefaultRetention(), nil)
	if _, err := svc.Run(context.Background(), now); err != nil {
		t.Fatalf("first run: %v", err)
	}
	rep, err := svc.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if rep != (CleanupReport{}) {
		t.Errorf("second run report = %+v", rep)
	}
}
