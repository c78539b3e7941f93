package models

import (
	"time"

	"github.com/diewo77/go-vertrieb/internal/pricing"
)

// Price catalog tables. Rows are addressed by their unique Name; the pricing
// engine looks them up through a pricing.Prices snapshot.

type ElektrikPreis struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Price     float64   `gorm:"type:decimal(10,2);not null" json:"price"`
}

func (ElektrikPreis) TableName() string { return "elektrik_preise" }

type WrGarantiePreis struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Price     float64   `gorm:"type:decimal(10,2);not null" json:"price"`
}

func (WrGarantiePreis) TableName() string { return "wr_garantie_preise" }

type KwpPreis struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Price     float64   `gorm:"type:decimal(10,2);not null" json:"price"`
}

func (KwpPreis) TableName() string { return "kwp_preise" }

type SolarModulePreis struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	Name              string    `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Price             float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Zuschlag          float64   `gorm:"type:decimal(10,3);not null;default:1" json:"zuschlag"`
	ModuleGarantie    string    `gorm:"size:100" json:"module_garantie,omitempty"`
	LeistungsGarantie string    `gorm:"size:100" json:"leistungs_garantie,omitempty"`
	Quantity          *int      `json:"quantity,omitempty"`
	InStock           bool      `gorm:"default:true" json:"in_stock"`
}

func (SolarModulePreis) TableName() string { return "solar_module_preise" }

type WallBoxPreis struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Price     float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	PdfText   string    `gorm:"type:text" json:"pdf_text,omitempty"`
	InStock   bool      `gorm:"default:true" json:"in_stock"`
}

func (WallBoxPreis) TableName() string { return "wallbox_preise" }

type OptionalAccessoriesPreis struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Price     float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	PdfName   string    `gorm:"size:255" json:"pdf_name,omitempty"`
	PdfText   string    `gorm:"type:text" json:"pdf_text,omitempty"`
}

func (OptionalAccessoriesPreis) TableName() string { return "optional_accessories_preise" }

type Sonderrabatt struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Prozentsatz float64   `gorm:"type:decimal(10,2);not null" json:"prozentsatz"`
	Fixbetrag   float64   `gorm:"type:decimal(10,2);not null" json:"fixbetrag"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
}

func (Sonderrabatt) TableName() string { return "sonderrabatte" }

// AndereKonfigurationWert holds tunables like steuersatz or rabatt_limit.
type AndereKonfigurationWert struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Value     float64   `gorm:"type:decimal(10,3);not null" json:"value"`
	Text      string    `gorm:"size:255" json:"text,omitempty"`
}

func (AndereKonfigurationWert) TableName() string { return "andere_konfiguration_werte" }

// CatalogModels maps catalog table keys to a constructor for their row type.
var CatalogModels = map[string]func() any{
	pricing.TableElektrik:     func() any { return &ElektrikPreis{} },
	pricing.TableGarantie:     func() any { return &WrGarantiePreis{} },
	pricing.TableKwp:          func() any { return &KwpPreis{} },
	pricing.TableModule:       func() any { return &SolarModulePreis{} },
	pricing.TableWallbox:      func() any { return &WallBoxPreis{} },
	pricing.TableAccessories:  func() any { return &OptionalAccessoriesPreis{} },
	pricing.TableSonderrabatt: func() any { return &Sonderrabatt{} },
	pricing.TableValues:       func() any { return &AndereKonfigurationWert{} },
}

// Config value names read outside the pricing engine.
const (
	ValueRabattLimit = "rabatt_limit"
	ValueSteuersatz  = "steuersatz"
)
