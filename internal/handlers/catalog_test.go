package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/diewo77/go-vertrieb/internal/pricing"
)

func TestCatalogHandler(t *testing.T) {
	db := setupTestDB(t)
	h := NewCatalogHandler(seedCatalog(t, db), nil)

	w := do(t, h.Tables, http.MethodGet, "/catalog", 1, nil)
	if !strings.Contains(w.Body.String(), pricing.TableKwp) {
		t.Errorf("tables = %s", w.Body.String())
	}

	w = do(t, h.Upsert, http.MethodPut, "/catalog/x", 1, `{"name":"Preis5","price":1100}`, "table", pricing.TableKwp)
	if w.Code != http.StatusOK {
		t.Fatalf("upsert: expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	p, err := h.Store.Prices(t.Context())
	if err != nil {
		t.Fatalf("prices: %v", err)
	}
	if p.Kwp["Preis5"] != 1100 {
		t.Errorf("Preis5 = %v", p.Kwp["Preis5"])
	}

	cases := []struct {
		name   string
		table  string
		body   string
		status int
	}{
		{"unknown table", "nope", `{"name":"x"}`, http.StatusNotFound},
		{"missing name", pricing.TableKwp, `{"price":1}`, http.StatusBadRequest},
		{"bad json", pricing.TableKwp, `{`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, h.Upsert, http.MethodPut, "/catalog/x", 1, tc.body, "table", tc.table)
			if w.Code != tc.status {
				t.Errorf("expected %d got %d body=%s", tc.status, w.Code, w.Body.String())
			}
		})
	}

	w = do(t, h.List, http.MethodGet, "/catalog/x", 1, nil, "table", pricing.TableKwp)
	if !strings.Contains(w.Body.String(), `"total":8`) {
		t.Errorf("list = %s", w.Body.String())
	}
	if w := do(t, h.Delete, http.MethodDelete, "/catalog/x/y", 1, nil, "table", pricing.TableKwp, "name", "Preis5"); w.Code != http.StatusNoContent {
		t.Errorf("delete: expected 204 got %d", w.Code)
	}
	if w := do(t, h.Delete, http.MethodDelete, "/catalog/x/y", 1, nil, "table", pricing.TableKwp, "name", "Preis5"); w.Code != http.StatusNotFound {
		t.Errorf("second delete: expected 404 got %d", w.Code)
	}
	if w := do(t, h.Invalidate, http.MethodPost, "/catalog/invalidate", 1, nil); w.Code != http.StatusNoContent {
		t.Errorf("invalidate: expected 204 got %d", w.Code)
	}
}
