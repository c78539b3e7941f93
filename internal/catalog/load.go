// Package catalog serves the price catalog to the pricing engine. Rows live
// in the database; readers get an immutable pricing.Prices snapshot that is
// cached in memory and optionally shared through Redis.
package catalog

import (
	"context"
	"fmt"

	"github.com/diewo77/go-vertrieb/internal/models"
	"github.com/diewo77/go-vertrieb/internal/pricing"
	"gorm.io/gorm"
)

// Load reads every catalog table into a fresh snapshot.
func Load(ctx context.Context, db *gorm.DB) (*pricing.Prices, error) {
	db = db.WithContext(ctx)
	p := pricing.NewPrices()

	var elektrik []models.ElektrikPreis
	if err := db.Find(&elektrik).Error; err != nil {
		return nil, fmt.Errorf("load elektrik: %w", err)
	}
	for _, r := range elektrik {
		p.Elektrik[r.Name] = r.Price
	}

	var garantie []models.WrGarantiePreis
	if err := db.Find(&garantie).Error; err != nil {
		return nil, fmt.Errorf("load garantie: %w", err)
	}
	for _, r := range garantie {
		p.Garantie[r.Name] = r.Price
	}

	var kwp []models.KwpPreis
	if err := db.Find(&kwp).Error; err != nil {
		return nil, fmt.Errorf("load kwp: %w", err)
	}
	for _, r := range kwp {
		p.Kwp[r.Name] = r.Price
	}

	var module []models.SolarModulePreis
	if err := db.Find(&module).Error; err != nil {
		return nil, fmt.Errorf("load module: %w", err)
	}
	for _, r := range module {
		p.Module[r.Name] = pricing.Module{
			Price:             r.Price,
			Zuschlag:          r.Zuschlag,
			ModuleGarantie:    r.ModuleGarantie,
			LeistungsGarantie: r.LeistungsGarantie,
		}
	}

	var wallbox []models.WallBoxPreis
	if err := db.Find(&wallbox).Error; err != nil {
		return nil, fmt.Errorf("load wallbox: %w", err)
	}
	for _, r := range wallbox {
		p.Wallbox[r.Name] = r.Price
		if r.PdfText != "" {
			p.WallboxText[r.Name] = r.PdfText
		}
	}

	var accessories []models.OptionalAccessoriesPreis
	if err := db.Find(&accessories).Error; err != nil {
		return nil, fmt.Errorf("load accessories: %w", err)
	}
	for _, r := range accessories {
		p.Accessories[r.Name] = r.Price
	}

	// inactive special discounts are not offered
	var rabatte []models.Sonderrabatt
	if err := db.Where("is_active = ?", true).Find(&rabatte).Error; err != nil {
		return nil, fmt.Errorf("load sonderrabatt: %w", err)
	}
	for _, r := range rabatte {
		p.Sonderrabatt[r.Name] = pricing.Sonderrabatt{Prozentsatz: r.Prozentsatz, Fixbetrag: r.Fixbetrag}
	}

	var values []models.AndereKonfigurationWert
	if err := db.Find(&values).Error; err != nil {
		return nil, fmt.Errorf("load values: %w", err)
	}
	for _, r := range values {
		p.Values[r.Name] = r.Value
	}

	return p, nil
}
