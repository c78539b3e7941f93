package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/diewo77/go-vertrieb/internal/services"
)

const zohoPayload = `{"data": [
  {"ID": "4711", "Name": {"prefix": "Herr", "first_name": "Max", "last_name": "Muster"}, "Kundennummer": "K-2001"},
  {"ID": "4712", "Name": {"prefix": "Firma", "last_name": "Solar GmbH"}, "Kundennummer": "K-2002"}
]}`

func TestZohoHandler(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "v@example.de", "VVV")
	h := NewZohoHandler(services.NewZohoService(db, nil), nil)

	if w := do(t, h.Import, http.MethodPost, "/zoho/import", u.ID, "kein json"); w.Code != http.StatusBadRequest {
		t.Errorf("bad payload: expected 400 got %d", w.Code)
	}
	w := do(t, h.Import, http.MethodPost, "/zoho/import", u.ID, zohoPayload)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"total":2`) {
		t.Fatalf("import: got %d body=%s", w.Code, w.Body.String())
	}

	w = do(t, h.Kundennummer, http.MethodGet, "/zoho/x/kundennummer", u.ID, nil, "zohoID", "4712")
	var resp struct {
		Kundennummer string `json:"kundennummer"`
	}
	decode(t, w, &resp)
	if resp.Kundennummer != "K-2002" {
		t.Errorf("kundennummer = %q", resp.Kundennummer)
	}
	if w := do(t, h.Kundennummer, http.MethodGet, "/zoho/x/kundennummer", u.ID, nil, "zohoID", "x"); w.Code != http.StatusBadRequest {
		t.Errorf("bad zoho id: expected 400 got %d", w.Code)
	}
}
