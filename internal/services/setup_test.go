package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/diewo77/go-vertrieb/internal/models"
	"github.com/diewo77/go-vertrieb/internal/pricing"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&models.Permission{}, &models.Role{}, &models.User{},
		&models.Angebot{}, &models.Ticket{}, &models.Calculator{},
		&models.ElectricInvoice{}, &models.KundenData{}, &models.Position{},
		&models.AuditLog{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type staticPrices struct{ p *pricing.Prices }

func (s staticPrices) Prices(context.Context) (*pricing.Prices, error) { return s.p, nil }

func testPrices() *pricing.Prices {
	p := pricing.NewPrices()
	p.Module[pricing.DefaultSolarModule] = pricing.Module{Price: 100, Zuschlag: 1}
	for name, v := range map[string]float64{
		"Preis5": 1000, "Preis7": 900, "Preis10": 800, "Preis12": 700,
		"Preis15": 600, "Preis20": 500, "Preis25": 400, "Preis30": 300,
	} {
		p.Kwp[name] = v
	}
	p.Values["steuersatz"] = 0.19
	p.Values["sehr_komplex"] = 1
	p.Values["erzeugung_sued"] = 1000
	p.Values["erzeugung_ost_west"] = 900
	p.Values[models.ValueRabattLimit] = 15
	p.Accessories["batteriemodul_huawei7"] = 2000
	p.Accessories["leistungsmodul"] = 500
	p.Accessories["optimizer"] = 50
	p.Elektrik["Kupferschiene N"] = 12.5
	p.Elektrik["Hauptschalter 3x63A"] = 80
	return p
}

func seedUser(t *testing.T, db *gorm.DB, email, kuerzel string) *models.User {
	u := models.User{Email: email, Password: "hash", FirstName: "Mia", LastName: "Muster", UserDefaults: models.DefaultUserDefaults()}
	if kuerzel != "" {
		u.Kuerzel = &kuerzel
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &u
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
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
