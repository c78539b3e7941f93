package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/diewo77/go-vertrieb/internal/models"
	"github.com/diewo77/go-vertrieb/internal/services"
)

func newAngebotHandler(t *testing.T) (*AngebotHandler, *models.User, *models.User, *models.User) {
	db := setupTestDB(t)
	store := seedCatalog(t, db)
	owner := seedUser(t, db, "owner@example.de", "OWN")
	other := seedUser(t, db, "other@example.de", "OTH")
	admin := seedUser(t, db, "admin@example.de", "ADM")
	authz := stubAuthz{admins: map[uint]bool{admin.ID: true}}
	return NewAngebotHandler(services.NewAngebotService(db, store, nil), authz, nil), owner, other, admin
}

func TestAngebotHandler_CreateAndGet(t *testing.T) {
	h, owner, other, admin := newAngebotHandler(t)

	w := do(t, h.Create, http.MethodPost, "/angebote", owner.ID, validAngebot())
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var created models.Angebot
	decode(t, w, &created)
	if !strings.HasPrefix(created.AngebotID, "AN-OWN") {
		t.Errorf("angebot id = %q", created.AngebotID)
	}
	if created.Angebotsumme <= 0 {
		t.Errorf("angebotsumme = %v", created.Angebotsumme)
	}

	if w := do(t, h.Get, http.MethodGet, "/angebote/x", owner.ID, nil, "id", created.AngebotID); w.Code != http.StatusOK {
		t.Errorf("owner get: expected 200 got %d", w.Code)
	}
	if w := do(t, h.Get, http.MethodGet, "/angebote/x", other.ID, nil, "id", created.AngebotID); w.Code != http.StatusForbidden {
		t.Errorf("foreign get: expected 403 got %d", w.Code)
	}
	if w := do(t, h.Get, http.MethodGet, "/angebote/x", admin.ID, nil, "id", created.AngebotID); w.Code != http.StatusOK {
		t.Errorf("admin get: expected 200 got %d", w.Code)
	}
	if w := do(t, h.Get, http.MethodGet, "/angebote/x", owner.ID, nil, "id", "AN-NOPE"); w.Code != http.StatusNotFound {
		t.Errorf("missing get: expected 404 got %d", w.Code)
	}
}

func TestAngebotHandler_CreateErrors(t *testing.T) {
	h, owner, _, _ := newAngebotHandler(t)

	if w := do(t, h.Create, http.MethodPost, "/angebote", 0, validAngebot()); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: expected 401 got %d", w.Code)
	}
	if w := do(t, h.Create, http.MethodPost, "/angebote?action=drucken", owner.ID, validAngebot()); w.Code != http.StatusBadRequest {
		t.Errorf("bad action: expected 400 got %d", w.Code)
	}
	if w := do(t, h.Create, http.MethodPost, "/angebote", owner.ID, "{"); w.Code != http.StatusBadRequest {
		t.Errorf("bad json: expected 400 got %d", w.Code)
	}

	in := validAngebot()
	in.Rabatt = 20
	w := do(t, h.Create, http.MethodPost, "/angebote", owner.ID, in)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("rabatt: expected 422 got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	decode(t, w, &resp)
	if resp.Error != "validation_failed" || !strings.Contains(resp.Details["rabatt"], "15%") {
		t.Errorf("response = %+v", resp)
	}
}

func TestAngebotHandler_ListScope(t *testing.T) {
	h, owner, other, admin := newAngebotHandler(t)
	do(t, h.Create, http.MethodPost, "/angebote", owner.ID, validAngebot())
	do(t, h.Create, http.MethodPost, "/angebote", other.ID, validAngebot())

	count := func(uid uint) int {
		w := do(t, h.List, http.MethodGet, "/angebote", uid, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("list: expected 200 got %d", w.Code)
		}
		var resp struct {
			Total int `json:"total"`
		}
		decode(t, w, &resp)
		return resp.Total
	}
	if n := count(owner.ID); n != 1 {
		t.Errorf("owner sees %d", n)
	}
	if n := count(admin.ID); n != 2 {
		t.Errorf("admin sees %d", n)
	}
}

func TestAngebotHandler_LockBlocksUpdate(t *testing.T) {
	h, owner, _, _ := newAngebotHandler(t)
	w := do(t, h.Create, http.MethodPost, "/angebote", owner.ID, validAngebot())
	var a models.Angebot
	decode(t, w, &a)

	w = do(t, h.Lock, http.MethodPost, "/angebote/x/lock", owner.ID, lockRequest{Locked: true}, "id", a.AngebotID)
	if w.Code != http.StatusOK {
		t.Fatalf("lock: expected 200 got %d", w.Code)
	}
	w = do(t, h.Update, http.MethodPut, "/angebote/x", owner.ID, validAngebot(), "id", a.AngebotID)
	if w.Code != http.StatusConflict {
		t.Errorf("update locked: expected 409 got %d body=%s", w.Code, w.Body.String())
	}

	w = do(t, h.History, http.MethodGet, "/angebote/x/history", owner.ID, nil, "id", a.AngebotID)
	var entries []models.AuditLog
	decode(t, w, &entries)
	if len(entries) != 2 || entries[0].ChangeMessage != "gesperrt" {
		t.Errorf("history = %+v", entries)
	}
}

func TestAngebotHandler_Calculate(t *testing.T) {
	h, owner, _, _ := newAngebotHandler(t)
	w := do(t, h.Calculate, http.MethodPost, "/angebote/calculate", owner.ID, validAngebot())
	if w.Code != http.StatusOK {
		t.Fatalf("calculate: expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if w := do(t, h.List, http.MethodGet, "/angebote", owner.ID, nil); !strings.Contains(w.Body.String(), `"total":0`) {
		t.Errorf("calculate stored a quote: %s", w.Body.String())
	}
}

func TestAngebotHandler_AssignZohoIDAndDelete(t *testing.T) {
	h, owner, other, _ := newAngebotHandler(t)
	w := do(t, h.Create, http.MethodPost, "/angebote", owner.ID, validAngebot())
	var a models.Angebot
	decode(t, w, &a)

	if w := do(t, h.AssignZohoID, http.MethodPut, "/angebote/x/zoho-id", owner.ID, zohoIDRequest{}, "id", a.AngebotID); w.Code != http.StatusBadRequest {
		t.Errorf("empty zoho id: expected 400 got %d", w.Code)
	}
	w = do(t, h.AssignZohoID, http.MethodPut, "/angebote/x/zoho-id", owner.ID, zohoIDRequest{AngebotZohoID: "Z-1"}, "id", a.AngebotID)
	var got models.Angebot
	decode(t, w, &got)
	if !got.AngebotIDAssigned || got.AngebotZohoID != "Z-1" {
		t.Errorf("zoho id not assigned: %+v", got)
	}

	if w := do(t, h.Delete, http.MethodDelete, "/angebote/x", other.ID, nil, "id", a.AngebotID); w.Code != http.StatusForbidden {
		t.Errorf("foreign delete: expected 403 got %d", w.Code)
	}
	if w := do(t, h.Delete, http.MethodDelete, "/angebote/x", owner.ID, nil, "id", a.AngebotID); w.Code != http.StatusNoContent {
		t.Errorf("delete: expected 204 got %d", w.Code)
	}
	if w := do(t, h.Get, http.MethodGet, "/angebote/x", owner.ID, nil, "id", a.AngebotID); w.Code != http.StatusNotFound {
		t.Errorf("get deleted: expected 404 got %d", w.Code)
	}
}

func TestAngebotHandler_Accepted(t *testing.T) {
	h, owner, _, _ := newAngebotHandler(t)
	if w := do(t, h.Accepted, http.MethodGet, "/zoho/x/angebot", owner.ID, nil, "zohoID", "abc"); w.Code != http.StatusBadRequest {
		t.Errorf("bad zoho id: expected 400 got %d", w.Code)
	}
	if w := do(t, h.Accepted, http.MethodGet, "/zoho/x/angebot", owner.ID, nil, "zohoID", "4711"); w.Code != http.StatusNotFound {
		t.Errorf("no accepted quote: expected 404 got %d", w.Code)
	}
}

func TestAngebotHandler_CreateActions(t *testing.T) {
	h, owner, _, _ := newAngebotHandler(t)
	for _, action := range []string{"save", "calculate", "document", "angebotsumme_rechnen", "pdf"} {
		t.Run(action, func(t *testing.T) {
			w := do(t, h.Create, http.MethodPost, "/angebote?action="+action, owner.ID, validAngebot())
			if w.Code != http.StatusCreated {
				t.Errorf("expected 201 got %d body=%s", w.Code, w.Body.String())
			}
		})
	}

	// calculate skips the customer fields, document does not.
	in := validAngebot()
	in.NameLastName = ""
	if w := do(t, h.Create, http.MethodPost, "/angebote?action=calculate", owner.ID, in); w.Code != http.StatusCreated {
		t.Errorf("calculate without name: expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	if w := do(t, h.Create, http.MethodPost, "/angebote?action=document", owner.ID, in); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("document without name: expected 422 got %d", w.Code)
	}
}
