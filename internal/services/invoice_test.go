package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/diewo77/go-vertrieb/internal/models"
)

func testKundenData() models.KundenData {
	return models.KundenData{
		KundenName:      "Max Mustermann",
		KundenStrasse:   "Hauptstr. 1",
		KundenPlzOrt:    "12345 Berlin",
		Zahlerschranken: "2-Zähler-Anlagen",
		NetzTyp:         "-TN-C-Netz",
	}
}

func newInvoiceService(t *testing.T) (*InvoiceService, *models.User) {
	db := setupTestDB(t, t.Name())
	u := seedUser(t, db, "el@example.de", "ELE")
	svc := NewInvoiceService(db, staticPrices{testPrices()}, nil)
	svc.now = fixedClock(testNow)
	return svc, u
}

func TestInvoiceService_Create(t *testing.T) {
	svc, u := newInvoiceService(t)
	ctx := context.Background()

	inv, err := svc.Create(ctx, u.ID, testKundenData())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inv.InvoiceID != "AN-ELE31012025-142501" {
		t.Errorf("invoice id = %q", inv.InvoiceID)
	}
	if !inv.CurrentDate.Equal(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("current date = %v", inv.CurrentDate)
	}

	got, err := svc.Get(ctx, inv.InvoiceID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.KundenData == nil || got.KundenData.NetzTyp != "-TN-C-Netz" {
		t.Errorf("kunden data = %+v", got.KundenData)
	}

	list, err := svc.List(ctx, u.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("list = %d, %v", len(list), err)
	}
}

func TestInvoiceService_CreateRequiresKuerzel(t *testing.T) {
	svc, _ := newInvoiceService(t)
	u := seedUser(t, svc.db, "nokurz@example.de", "")
	if _, err := svc.Create(context.Background(), u.ID, testKundenData()); !errors.Is(err, ErrMissingKuerzel) {
		t.Fatalf("expected ErrMissingKuerzel, got %v", err)
	}
}

func TestInvoiceService_CreateValidatesKundenData(t *testing.T) {
	svc, u := newInvoiceService(t)
	k := testKundenData()
	k.NetzTyp = "Inselnetz"
	k.Zahlerschranken = ""

	_, err := svc.Create(context.Background(), u.ID, k)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Violations["netz_typ"] != "invalid_choice" || ve.Violations["zahlerschranken"] != "required" {
		t.Errorf("violations = %v", ve.Violations)
	}
}

func TestInvoiceService_Positions(t *testing.T) {
	svc, u := newInvoiceService(t)
	ctx := context.Background()
	inv, err := svc.Create(ctx, u.ID, testKundenData())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.AddPosition(ctx, u.ID, inv.InvoiceID, "Kupferschiene N", 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddPosition(ctx, u.ID, inv.InvoiceID, "Hauptschalter 3x63A", 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	unpriced, err := svc.AddPosition(ctx, u.ID, inv.InvoiceID, "Kabelschellen Metall", 10)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddPosition(ctx, u.ID, inv.InvoiceID, "Gartenschlauch", 1); !errors.Is(err, ErrInvalid) {
		t.Errorf("unknown position: expected ErrInvalid, got %v", err)
	}
	if _, err := svc.AddPosition(ctx, u.ID, inv.InvoiceID, "Kupferschiene N", 0); !errors.Is(err, ErrInvalid) {
		t.Errorf("zero quantity: expected ErrInvalid, got %v", err)
	}

	total, err := svc.Total(ctx, inv.InvoiceID)
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total.Total != 105 {
		t.Errorf("total = %v, want 105", total.Total)
	}
	if len(total.Missing) != 1 || total.Missing[0] != "Kabelschellen Metall" {
		t.Errorf("missing = %v", total.Missing)
	}

	if err := svc.RemovePosition(ctx, u.ID, inv.InvoiceID, unpriced.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := svc.RemovePosition(ctx, u.ID, inv.InvoiceID, unpriced.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second remove: expected ErrNotFound, got %v", err)
	}
	total, _ = svc.Total(ctx, inv.InvoiceID)
	if len(total.Missing) != 0 {
		t.Errorf("missing after remove = %v", total.Missing)
	}
}

func TestInvoiceService_Locked(t *testing.T) {
	svc, u := newInvoiceService(t)
	ctx := context.Background()
	inv, err := svc.Create(ctx, u.ID, testKundenData())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	pos, err := svc.AddPosition(ctx, u.ID, inv.InvoiceID, "Kupferschiene N", 1)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := svc.SetLocked(ctx, u.ID, inv.InvoiceID, true); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if _, err := svc.AddPosition(ctx, u.ID, inv.InvoiceID, "Kupferschiene N", 1); !errors.Is(err, ErrLocked) {
		t.Errorf("add on locked: expected ErrLocked, got %v", err)
	}
	if err := svc.RemovePosition(ctx, u.ID, inv.InvoiceID, pos.ID); !errors.Is(err, ErrLocked) {
		t.Errorf("remove on locked: expected ErrLocked, got %v", err)
	}

	if _, err := svc.SetLocked(ctx, u.ID, inv.InvoiceID, false); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if err := svc.RemovePosition(ctx, u.ID, inv.InvoiceID, pos.ID); err != nil {
		t.Errorf("remove after unlock: %v", err)
	}

	hist, _ := History(ctx, svc.db, ObjectInvoice, inv.InvoiceID)
	if len(hist) != 5 {
		t.Errorf("history entries = %d, want 5", len(hist))
	}
}
