package models

import (
	"time"

	"github.com/diewo77/go-vertrieb/internal/pricing"
	"gorm.io/gorm"
)

// Ticket extends the installation of an accepted quote. Counts in the
// embedded Anlage may be negative to remove parts.
type Ticket struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	TicketID string `gorm:"uniqueIndex;size:64;not null" json:"ticket_id"`
	UserID   uint   `gorm:"index;not null" json:"user_id"`
	User     *User  `gorm:"foreignKey:UserID" json:"-"`
	IsLocked bool   `gorm:"default:false" json:"is_locked"`

	AngenommenesAngebot string        `gorm:"size:64" json:"angenommenes_angebot,omitempty"`
	Status              AngebotStatus `gorm:"size:20" json:"status"`

	Kunde  `gorm:"embedded"`
	Anlage `gorm:"embedded"`

	Hersteller string `gorm:"size:20" json:"hersteller"`

	SolarModuleAngebotPrice      float64 `json:"solar_module_angebot_price"`
	BatteriespeicherAngebotPrice float64 `json:"batteriespeicher_angebot_price"`
	SmartmeterAngebotPrice       float64 `json:"smartmeter_angebot_price"`
	WallboxAngebotPrice          float64 `json:"wallbox_angebot_price"`
	NotstromAngebotPrice         float64 `json:"notstrom_angebot_price"`
	OptimizerAngebotPrice        float64 `json:"optimizer_angebot_price"`
	Angebotsumme                 float64 `json:"angebotsumme"`
	Rabattsumme                  float64 `json:"rabattsumme"`
	Bauteile                     string  `gorm:"type:text" json:"bauteile,omitempty"`

	AgData *Document `gorm:"type:text;serializer:json" json:"ag_data,omitempty"`
}

func (Ticket) TableName() string { return "tickets" }

// GetUserID implements the Ownable interface for authorization.
func (t *Ticket) GetUserID() uint {
	return t.UserID
}

// CanEdit returns true if the ticket is not locked.
func (t *Ticket) CanEdit() bool {
	return !t.IsLocked
}

// Recompute refreshes the derived fields. accepted is the customer's accepted
// quote, or nil when there is none.
func (t *Ticket) Recompute(p *pricing.Prices, u *User, accepted *Angebot, now time.Time) pricing.TicketResult {
	t.Kunde.RefreshNames()
	t.ZohoKundennumer = t.ResolveKundennummer(u)
	if t.AnfrageVom == "" {
		t.AnfrageVom = now.Format("02-Jan-2006")
	}

	in := pricing.TicketInput{Components: t.Anlage.Components()}
	if u != nil {
		in.UsersAufschlag = float64(u.UsersAufschlag)
	}
	t.AngenommenesAngebot = ""
	t.Bauteile = ""
	if accepted != nil {
		in.Accepted = accepted.AcceptedOffer()
		t.AngenommenesAngebot = accepted.AngebotID
		t.Bauteile = pricing.BauteileFinder(in.Accepted)
	}

	r := pricing.CalculateTicket(p, in)
	t.ModulleistungWp = r.ModulleistungWp
	t.SolarModuleAngebotPrice = r.SolarModulePreis
	t.BatteriespeicherAngebotPrice = r.BatteriePreis
	t.SmartmeterAngebotPrice = r.SmartmeterPreis
	t.WallboxAngebotPrice = r.WallboxPreis
	t.NotstromAngebotPrice = r.NotstromPreis
	t.OptimizerAngebotPrice = r.OptimizerPreis
	t.Angebotsumme = r.Angebotsumme
	t.Rabattsumme = r.Rabattsumme
	t.AgData = BuildTicketDocument(t, u, p, r, now)
	return r
}
