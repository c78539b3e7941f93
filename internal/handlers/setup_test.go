package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/diewo77/go-vertrieb/auth"
	"github.com/diewo77/go-vertrieb/gate"
	"github.com/diewo77/go-vertrieb/internal/catalog"
	"github.com/diewo77/go-vertrieb/internal/models"
	"github.com/diewo77/go-vertrieb/internal/pricing"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	tables := []any{
		&models.Permission{}, &models.Role{}, &models.User{},
		&models.Angebot{}, &models.Ticket{}, &models.Calculator{},
		&models.ElectricInvoice{}, &models.KundenData{}, &models.Position{},
		&models.AuditLog{},
	}
	for _, ctor := range models.CatalogModels {
		tables = append(tables, ctor())
	}
	if err := db.AutoMigrate(tables...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seedCatalog stores just enough prices to quote the default module.
func seedCatalog(t *testing.T, db *gorm.DB) *catalog.Store {
	t.Helper()
	rows := []any{
		&models.SolarModulePreis{Name: pricing.DefaultSolarModule, Price: 100, Zuschlag: 1, ModuleGarantie: "25 Jahre"},
		&models.KwpPreis{Name: "Preis5", Price: 1000},
		&models.KwpPreis{Name: "Preis7", Price: 900},
		&models.KwpPreis{Name: "Preis10", Price: 800},
		&models.KwpPreis{Name: "Preis12", Price: 700},
		&models.KwpPreis{Name: "Preis15", Price: 600},
		&models.KwpPreis{Name: "Preis20", Price: 500},
		&models.KwpPreis{Name: "Preis25", Price: 400},
		&models.KwpPreis{Name: "Preis30", Price: 300},
		&models.ElektrikPreis{Name: "Kupferschiene N", Price: 12.5},
		&models.AndereKonfigurationWert{Name: "steuersatz", Value: 0.19},
		&models.AndereKonfigurationWert{Name: models.ValueRabattLimit, Value: 15},
	}
	for _, r := range rows {
		if err := db.Create(r).Error; err != nil {
			t.Fatalf("seed %T: %v", r, err)
		}
	}
	return catalog.NewStore(db)
}

func seedUser(t *testing.T, db *gorm.DB, email, kuerzel string) *models.User {
	t.Helper()
	u := models.User{Email: email, Password: "hash", FirstName: "Mia", LastName: "Muster", IsActive: true, UserDefaults: models.DefaultUserDefaults()}
	if kuerzel != "" {
		u.Kuerzel = &kuerzel
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &u
}

type ownable interface{ GetUserID() uint }

// stubAuthz lets owners and admins through.
type stubAuthz struct {
	admins map[uint]bool
}

func (s stubAuthz) Authorize(ctx context.Context, _ gate.Action, _ string, resource any) error {
	uid, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return gate.ErrUnauthorized
	}
	if s.admins[uid] {
		return nil
	}
	if o, ok := resource.(ownable); ok && o.GetUserID() != uid {
		return gate.ErrUnauthorized
	}
	return nil
}

func (s stubAuthz) IsAdmin(ctx context.Context) bool {
	uid, _ := auth.UserIDFromContext(ctx)
	return s.admins[uid]
}

func (s stubAuthz) CanReadAll(ctx context.Context, _ string) bool {
	return s.IsAdmin(ctx)
}

// do runs h with body encoded as JSON and uid in the context. A zero uid
// sends an anonymous request.
func do(t *testing.T, h http.HandlerFunc, method, target string, uid uint, body any, pathValues ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	if uid != 0 {
		req = req.WithContext(auth.WithUserID(req.Context(), uid))
	}
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func validAngebot() *models.Angebot {
	return &models.Angebot{
		Kunde: models.Kunde{
			Anrede: models.AnredeHerr, NameFirstName: "Max", NameLastName: "Mustermann",
			Strasse: "Hauptstr. 1", Ort: "12345 Berlin", Email: "max@example.de",
		},
		EnergyInputs: models.EnergyInputs{Ausrichtung: models.AusrichtungSued, Komplex: models.KomplexSehrKomplex},
		Anlage:       models.Anlage{SolarModule: pricing.DefaultSolarModule, Modulanzahl: 20},
		Hersteller:   models.HerstellerHuawei,
		GarantieWR:   models.GarantieWRKeine,
	}
}
