package models

import (
	"time"

	"github.com/diewo77/go-vertrieb/internal/pricing"
	"gorm.io/gorm"
)

// ElectricInvoice is an electrician's material list for one site.
// Implements the Ownable interface for ownership-based authorization.
type ElectricInvoice struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	InvoiceID   string    `gorm:"uniqueIndex;size:64;not null" json:"invoice_id"`
	CurrentDate time.Time `gorm:"type:date" json:"current_date"`

	// UserID is the owner of this invoice
	UserID   uint  `gorm:"index;not null" json:"user_id"`
	User     *User `gorm:"foreignKey:UserID" json:"-"`
	IsLocked bool  `gorm:"default:false" json:"is_locked"`

	KundenData *KundenData `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"kunden_data,omitempty"`
	Positions  []Position  `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"positions,omitempty"`
}

// GetUserID implements the Ownable interface for authorization.
func (i *ElectricInvoice) GetUserID() uint {
	return i.UserID
}

// CanEdit returns true if positions may still be changed.
func (i *ElectricInvoice) CanEdit() bool {
	return !i.IsLocked
}

// Total prices all positions against the electrician catalog. Positions
// without a catalog price are returned as missing.
func (i *ElectricInvoice) Total(p *pricing.Prices) (float64, []string) {
	var total float64
	var missing []string
	for _, pos := range i.Positions {
		price, ok := p.ElektrikPrice(pos.Position)
		if !ok {
			missing = append(missing, pos.Position)
			continue
		}
		total += pos.Quantity * price
	}
	return pricing.Round2(total), missing
}

// KundenData is the customer block of an electrician invoice.
type KundenData struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	InvoiceID       uint   `gorm:"uniqueIndex;not null" json:"invoice_id"`
	KundenName      string `gorm:"size:100" json:"kunden_name"`
	KundenStrasse   string `gorm:"size:100" json:"kunden_strasse"`
	KundenPlzOrt    string `gorm:"size:100" json:"kunden_plz_ort"`
	Standort        string `gorm:"size:100" json:"standort"`
	Zahlerschranken string `gorm:"size:100;not null" json:"zahlerschranken"`
	NetzTyp         string `gorm:"size:100;not null" json:"netz_typ"`
}

func (KundenData) TableName() string { return "kunden_data" }

// Position is one material line of an electrician invoice.
type Position struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	InvoiceID uint    `gorm:"index;not null" json:"invoice_id"`
	Position  string  `gorm:"size:100;not null" json:"position"`
	Quantity  float64 `gorm:"not null;default:0" json:"quantity"`
}
