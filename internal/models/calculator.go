package models

import (
	"time"

	"github.com/diewo77/go-vertrieb/internal/pricing"
	"gorm.io/gorm"
)

// Calculator is a quick estimate made before a customer exists.
type Calculator struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	CalculatorID string `gorm:"uniqueIndex;size:64;not null" json:"calculator_id"`
	UserID       uint   `gorm:"index;not null" json:"user_id"`
	User         *User  `gorm:"foreignKey:UserID" json:"-"`

	EnergyInputs `gorm:"embedded"`
	Anlage       `gorm:"embedded"`

	Speicher   bool   `json:"speicher"`
	GarantieWR string `gorm:"column:garantie_wr;size:10" json:"garantieWR"`

	SolarModuleAngebotPrice      float64 `json:"solar_module_angebot_price"`
	BatteriespeicherAngebotPrice float64 `json:"batteriespeicher_angebot_price"`
	WallboxAngebotPrice          float64 `json:"wallbox_angebot_price"`
	NotstromAngebotPrice         float64 `json:"notstrom_angebot_price"`
	OptimizerAngebotPrice        float64 `json:"optimizer_angebot_price"`
	GarantieAngebotPrice         float64 `json:"garantie_angebot_price"`
	Angebotsumme                 float64 `json:"angebotsumme"`
	FullTicketPreis              float64 `json:"full_ticket_preis"`

	BenotigteRestenergie      float64 `json:"benotigte_restenergie"`
	NutzbareNutzenergie       float64 `json:"nutzbare_nutzenergie"`
	ErzeugteEnergieProJahr    float64 `json:"erzeugte_energie_pro_jahr"`
	EinspeiseverguetungGesamt float64 `json:"einspeiseverguetung_gesamt"`
	AbzugVerguetung           float64 `json:"abzug_verguetung"`
	Ersparnis                 float64 `json:"ersparnis"`
	KostenFuerRestenergie     float64 `json:"kosten_fuer_restenergie"`

	RestListe    []float64 `gorm:"type:text;serializer:json" json:"rest_liste"`
	ArbeitsListe []float64 `gorm:"type:text;serializer:json" json:"arbeits_liste"`
}

func (Calculator) TableName() string { return "calculators" }

// GetUserID implements the Ownable interface for authorization.
func (c *Calculator) GetUserID() uint {
	return c.UserID
}

// Recompute refreshes every derived field from the catalog snapshot.
func (c *Calculator) Recompute(p *pricing.Prices, u *User) pricing.CalculatorResult {
	in := pricing.CalculatorInput{
		Energy:     c.EnergyInputs.pricing(),
		Components: c.Anlage.Components(),
		Speicher:   c.Speicher,
		Komplex:    c.Komplex,
		GarantieWR: c.GarantieWR,
	}
	if u != nil {
		in.UsersAufschlag = float64(u.UsersAufschlag)
	}

	r := pricing.CalculateCalculator(p, in)
	c.ModulleistungWp = r.ModulleistungWp
	c.SolarModuleAngebotPrice = r.SolarModulePreis
	c.BatteriespeicherAngebotPrice = r.BatteriePreis
	c.WallboxAngebotPrice = r.WallboxPreis
	c.NotstromAngebotPrice = r.NotstromPreis
	c.OptimizerAngebotPrice = r.OptimizerPreis
	c.GarantieAngebotPrice = r.GarantiePreis
	c.Angebotsumme = r.Angebotsumme
	c.FullTicketPreis = r.FullTicketPreis

	e := r.Energy
	c.BenotigteRestenergie = e.Restenergie
	c.NutzbareNutzenergie = e.NutzEnergie
	c.ErzeugteEnergieProJahr = e.ErzeugteEnergie
	c.EinspeiseverguetungGesamt = e.EinspVerguetung
	c.AbzugVerguetung = e.Abzug
	c.Ersparnis = e.Ersparnis
	c.KostenFuerRestenergie = e.KostenRestEnergie
	c.RestListe = e.RestListe
	c.ArbeitsListe = e.ArbeitsListe
	return r
}
