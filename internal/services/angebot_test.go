package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/diewo77/go-vertrieb/internal/models"
)

var testNow = time.Date(2025, 1, 31, 14, 25, 1, 0, time.UTC)

func newAngebotService(t *testing.T) (*AngebotService, *models.User) {
	db := setupTestDB(t, t.Name())
	u := seedUser(t, db, "mia@example.de", "ABC")
	svc := NewAngebotService(db, staticPrices{testPrices()}, nil)
	svc.now = fixedClock(testNow)
	return svc, u
}

func TestAngebotService_Create(t *testing.T) {
	svc, u := newAngebotService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, u.ID, validAngebot(), ActionSave)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.AngebotID != "AN-ABC31012025-142501" {
		t.Errorf("angebot id = %q", a.AngebotID)
	}
	if a.UserID != u.ID {
		t.Errorf("user id = %d", a.UserID)
	}
	if a.Verbrauch != 15000 || a.Kabelanschluss != 10 {
		t.Errorf("user defaults not applied: verbrauch=%v kabel=%v", a.Verbrauch, a.Kabelanschluss)
	}
	if a.Name != "Mustermann, Max" {
		t.Errorf("name = %q", a.Name)
	}
	if a.AnfrageVom != "31-Jan-2025" {
		t.Errorf("anfrage vom = %q", a.AnfrageVom)
	}
	if a.Angebotsumme <= 0 || a.AgData == nil {
		t.Errorf("quote not priced: summe=%v", a.Angebotsumme)
	}

	second, err := svc.Create(ctx, u.ID, validAngebot(), ActionSave)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if second.AngebotID != "AN-ABC31012025-142502" {
		t.Errorf("colliding id not advanced: %q", second.AngebotID)
	}

	got, err := svc.Get(ctx, a.AngebotID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Angebotsumme != a.Angebotsumme || len(got.RestListe) != len(a.RestListe) {
		t.Errorf("stored quote differs: %v vs %v", got.Angebotsumme, a.Angebotsumme)
	}

	hist, err := svc.History(ctx, a.AngebotID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 1 || hist[0].Action != models.AuditCreate {
		t.Errorf("history = %+v", hist)
	}
}

func TestAngebotService_CreateRejectsInvalid(t *testing.T) {
	svc, u := newAngebotService(t)
	in := validAngebot()
	in.Modulanzahl = 3
	in.Rabatt = 16

	_, err := svc.Create(context.Background(), u.ID, in, ActionSave)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	for _, f := range []string{"modulanzahl", "rabatt"} {
		if _, ok := ve.Violations[f]; !ok {
			t.Errorf("missing violation %s", f)
		}
	}
}

func TestAngebotService_CreateUnknownUser(t *testing.T) {
	svc, _ := newAngebotService(t)
	if _, err := svc.Create(context.Background(), 999, validAngebot(), ActionSave); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAngebotService_UpdateStatus(t *testing.T) {
	svc, u := newAngebotService(t)
	ctx := context.Background()
	a, err := svc.Create(ctx, u.ID, validAngebot(), ActionSave)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	in := validAngebot()
	in.Status = models.StatusBekommen
	updated, err := svc.Update(ctx, u.ID, a.AngebotID, in, ActionSave)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.IsLocked || !updated.CountdownOn {
		t.Errorf("received quote should be locked with countdown: locked=%v countdown=%v", updated.IsLocked, updated.CountdownOn)
	}
	if updated.StatusChangeDate != "31.01.2025" {
		t.Errorf("status change date = %q", updated.StatusChangeDate)
	}
	if updated.AnfrageVom != a.AnfrageVom {
		t.Errorf("anfrage vom changed to %q", updated.AnfrageVom)
	}

	_, err = svc.Update(ctx, u.ID, a.AngebotID, validAngebot(), ActionSave)
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}

	hist, err := svc.History(ctx, a.AngebotID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 2 || hist[0].ChangeMessage != "Status geändert zu <<bekommen>>" {
		t.Errorf("history = %+v", hist)
	}
}

func TestAngebotService_AcceptMarksAcceptedOffer(t *testing.T) {
	svc, u := newAngebotService(t)
	ctx := context.Background()
	zoho := int64(4711)

	in := validAngebot()
	in.ZohoID = &zoho
	a, err := svc.Create(ctx, u.ID, in, ActionSave)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	acc, err := svc.Accepted(ctx, zoho)
	if err != nil || acc != nil {
		t.Fatalf("no accepted quote expected, got %v, %v", acc, err)
	}

	in = validAngebot()
	in.ZohoID = &zoho
	in.Status = models.StatusAngenommen
	updated, err := svc.Update(ctx, u.ID, a.AngebotID, in, ActionSave)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.AngenommenesAngebot != a.AngebotID || updated.IsLocked {
		t.Errorf("accepted = %q locked = %v", updated.AngenommenesAngebot, updated.IsLocked)
	}

	acc, err = svc.Accepted(ctx, zoho)
	if err != nil {
		t.Fatalf("accepted: %v", err)
	}
	if acc == nil || acc.AngebotID != a.AngebotID {
		t.Fatalf("accepted = %+v", acc)
	}
}

func TestAngebotService_UpdateKeepsAcceptance(t *testing.T) {
	svc, u := newAngebotService(t)
	ctx := context.Background()
	zoho := int64(4712)

	in := validAngebot()
	in.ZohoID = &zoho
	in.Status = models.StatusAngenommen
	in.StatusPVA = "in Planung"
	a, err := svc.Create(ctx, u.ID, in, ActionSave)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.AngenommenesAngebot != a.AngebotID {
		t.Fatalf("accepted = %q", a.AngenommenesAngebot)
	}

	in = validAngebot()
	in.ZohoID = &zoho
	in.Status = models.StatusAngenommen
	in.Modulanzahl = 24
	updated, err := svc.Update(ctx, u.ID, a.AngebotID, in, ActionSave)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.AngenommenesAngebot != a.AngebotID {
		t.Errorf("acceptance cleared: %q", updated.AngenommenesAngebot)
	}
	if updated.StatusPVA != "in Planung" {
		t.Errorf("status pva = %q", updated.StatusPVA)
	}
	if acc, err := svc.Accepted(ctx, zoho); err != nil || acc == nil || acc.AngebotID != a.AngebotID {
		t.Errorf("accepted after update = %+v, %v", acc, err)
	}
}

func TestAngebotService_LockAndZohoID(t *testing.T) {
	svc, u := newAngebotService(t)
	ctx := context.Background()
	a, err := svc.Create(ctx, u.ID, validAngebot(), ActionSave)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.SetLocked(ctx, u.ID, a.AngebotID, true); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if _, err := svc.Update(ctx, u.ID, a.AngebotID, validAngebot(), ActionSave); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if _, err := svc.SetLocked(ctx, u.ID, a.AngebotID, false); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if _, err := svc.Update(ctx, u.ID, a.AngebotID, validAngebot(), ActionSave); err != nil {
		t.Fatalf("update after unlock: %v", err)
	}

	if _, err := svc.AssignZohoID(ctx, u.ID, a.AngebotID, "Z-100"); err != nil {
		t.Fatalf("assign zoho id: %v", err)
	}
	got, err := svc.Get(ctx, a.AngebotID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.AngebotZohoID != "Z-100" || !got.AngebotIDAssigned {
		t.Errorf("zoho id = %q assigned = %v", got.AngebotZohoID, got.AngebotIDAssigned)
	}

	hist, _ := svc.History(ctx, a.AngebotID)
	if len(hist) != 5 {
		t.Errorf("history entries = %d, want 5", len(hist))
	}
}

func TestAngebotService_ListAndDelete(t *testing.T) {
	svc, u := newAngebotService(t)
	ctx := context.Background()
	other := seedUser(t, svc.db, "tom@example.de", "TOM")

	a, err := svc.Create(ctx, u.ID, validAngebot(), ActionSave)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	in := validAngebot()
	in.Status = models.StatusInKontakt
	if _, err := svc.Create(ctx, other.ID, in, ActionSave); err != nil {
		t.Fatalf("create: %v", err)
	}

	mine, err := svc.List(ctx, u.ID, "")
	if err != nil || len(mine) != 1 {
		t.Fatalf("list mine = %d, %v", len(mine), err)
	}
	all, _ := svc.List(ctx, 0, "")
	if len(all) != 2 {
		t.Errorf("list all = %d", len(all))
	}
	kontakt, _ := svc.List(ctx, 0, string(models.StatusInKontakt))
	if len(kontakt) != 1 || kontakt[0].UserID != other.ID {
		t.Errorf("status filter = %+v", kontakt)
	}

	if err := svc.Delete(ctx, u.ID, a.AngebotID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, a.AngebotID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	hist, _ := svc.History(ctx, a.AngebotID)
	if len(hist) != 2 || hist[0].Action != models.AuditDelete {
		t.Errorf("history = %+v", hist)
	}
}

func TestAngebotService_Calculate(t *testing.T) {
	svc, u := newAngebotService(t)
	ctx := context.Background()

	in := validAngebot()
	in.Kunde = models.Kunde{}
	r, err := svc.Calculate(ctx, u.ID, in)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if r.Angebotsumme <= 0 {
		t.Errorf("angebotsumme = %v", r.Angebotsumme)
	}

	var n int64
	svc.db.Model(&models.Angebot{}).Count(&n)
	if n != 0 {
		t.Errorf("calculate stored %d quotes", n)
	}

	in.Modulanzahl = 70
	if _, err := svc.Calculate(ctx, u.ID, in); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}
