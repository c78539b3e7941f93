package models

import (
	"fmt"
	"time"

	"github.com/diewo77/go-vertrieb/internal/pricing"
	"gorm.io/gorm"
)

// CountdownWindow is how long a received quote stays open.
const CountdownWindow = 14 * 24 * time.Hour

// Angebot is a sales quote for a PV installation. Derived prices and energy
// figures are recomputed on every save and stored with the record.
type Angebot struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	AngebotID string `gorm:"uniqueIndex;size:64;not null" json:"angebot_id"`
	UserID    uint   `gorm:"index;not null" json:"user_id"`
	User      *User  `gorm:"foreignKey:UserID" json:"-"`
	IsLocked  bool   `gorm:"default:false" json:"is_locked"`

	AngebotZohoID       string        `gorm:"size:100" json:"angebot_zoho_id,omitempty"`
	AngebotIDAssigned   bool          `gorm:"index" json:"angebot_id_assigned"`
	AngenommenesAngebot string        `gorm:"size:64" json:"angenommenes_angebot,omitempty"`
	Status              AngebotStatus `gorm:"size:20;index" json:"status"`
	StatusPVA           string        `gorm:"size:50" json:"status_pva,omitempty"`
	StatusChangeField   *time.Time    `json:"status_change_field,omitempty"`
	StatusChangeDate    string        `gorm:"size:20" json:"status_change_date,omitempty"`
	CountdownOn         bool          `json:"countdown_on"`
	Leadstatus          string        `gorm:"size:20" json:"leadstatus,omitempty"`

	Kunde        `gorm:"embedded"`
	EnergyInputs `gorm:"embedded"`
	Anlage       `gorm:"embedded"`

	Hersteller          string `gorm:"size:20" json:"hersteller"`
	WechselrichterModel string `gorm:"size:100" json:"wechselrichter_model,omitempty"`
	Speicher            bool   `json:"speicher"`
	GarantieWR          string `gorm:"column:garantie_wr;size:10" json:"garantieWR"`

	IndivPriceIncluded   bool    `json:"indiv_price_included"`
	IndivPrice           float64 `json:"indiv_price"`
	Zahlungsbedingungen  string  `gorm:"size:100" json:"zahlungsbedingungen,omitempty"`
	Rabatt               int     `json:"rabatt"`
	SonderrabattIncluded bool    `json:"sonderrabatt_included"`
	Sonderrabatt         string  `gorm:"size:255" json:"sonderrabatt,omitempty"`
	AusweisungRabatt     bool    `json:"ausweisung_rabatt"`
	GenehmigungRabatt    bool    `json:"genehmigung_rabatt"`

	Finanzierung       bool    `json:"finanzierung"`
	Anzahlung          float64 `json:"anzahlung"`
	Nettokreditbetrag  float64 `json:"nettokreditbetrag"`
	MonatlicheRate     float64 `json:"monatliche_rate"`
	Laufzeit           int     `json:"laufzeit"`
	Sollzinssatz       float64 `json:"sollzinssatz"`
	EffektiverZins     float64 `json:"effektiver_zins"`
	Gesamtkreditbetrag float64 `json:"gesamtkreditbetrag"`

	SolarModuleAngebotPrice      float64 `json:"solar_module_angebot_price"`
	BatteriespeicherAngebotPrice float64 `json:"batteriespeicher_angebot_price"`
	SmartmeterAngebotPrice       float64 `json:"smartmeter_angebot_price"`
	WallboxAngebotPrice          float64 `json:"wallbox_angebot_price"`
	NotstromAngebotPrice         float64 `json:"notstrom_angebot_price"`
	OptimizerAngebotPrice        float64 `json:"optimizer_angebot_price"`
	Angebotsumme                 float64 `json:"angebotsumme"`
	Rabattsumme                  float64 `json:"rabattsumme"`

	BenotigteRestenergie      float64 `json:"benotigte_restenergie"`
	NutzbareNutzenergie       float64 `json:"nutzbare_nutzenergie"`
	ErzeugteEnergieProJahr    float64 `json:"erzeugte_energie_pro_jahr"`
	EinspeiseverguetungGesamt float64 `json:"einspeiseverguetung_gesamt"`
	AbzugVerguetung           float64 `json:"abzug_verguetung"`
	Ersparnis                 float64 `json:"ersparnis"`
	KostenFuerRestenergie     float64 `json:"kosten_fuer_restenergie"`

	RestListe    []float64 `gorm:"type:text;serializer:json" json:"rest_liste"`
	ArbeitsListe []float64 `gorm:"type:text;serializer:json" json:"arbeits_liste"`
	AgData       *Document `gorm:"type:text;serializer:json" json:"ag_data,omitempty"`
}

func (Angebot) TableName() string { return "angebote" }

// GetUserID implements the Ownable interface for authorization.
func (a *Angebot) GetUserID() uint {
	return a.UserID
}

// IsAccepted reports whether this quote is the customer's accepted one.
func (a *Angebot) IsAccepted() bool {
	return a.Status == StatusAngenommen || (a.AngenommenesAngebot != "" && a.AngenommenesAngebot == a.AngebotID)
}

// CanEdit returns true if the quote is not locked.
func (a *Angebot) CanEdit() bool {
	return !a.IsLocked
}

func (a *Angebot) String() string {
	return a.AngebotID
}

// PricingInput maps the record onto the pricing engine input.
func (a *Angebot) PricingInput(u *User) pricing.AngebotInput {
	in := pricing.AngebotInput{
		Energy:               a.EnergyInputs.pricing(),
		Components:           a.Anlage.Components(),
		Hersteller:           a.Hersteller,
		Komplex:              a.Komplex,
		GarantieWR:           a.GarantieWR,
		IndivPriceIncluded:   a.IndivPriceIncluded,
		IndivPrice:           a.IndivPrice,
		Rabatt:               float64(a.Rabatt),
		SonderrabattIncluded: a.SonderrabattIncluded,
		Sonderrabatt:         a.Sonderrabatt,
		Finanzierung:         a.Finanzierung,
		Anzahlung:            a.Anzahlung,
	}
	if u != nil {
		in.UserTyp = string(u.Typ)
		in.UsersAufschlag = float64(u.UsersAufschlag)
	}
	return in
}

// Recompute refreshes every derived field from the catalog snapshot and
// returns the engine result.
func (a *Angebot) Recompute(p *pricing.Prices, u *User, now time.Time) pricing.AngebotResult {
	a.Kunde.RefreshNames()
	a.ZohoKundennumer = a.ResolveKundennummer(u)
	if a.AnfrageVom == "" {
		a.AnfrageVom = now.Format("02-Jan-2006")
	}

	r := pricing.CalculateAngebot(p, a.PricingInput(u))
	a.ModulleistungWp = r.ModulleistungWp
	a.SolarModuleAngebotPrice = r.SolarModulePreis
	a.BatteriespeicherAngebotPrice = r.BatteriePreis
	a.SmartmeterAngebotPrice = r.SmartmeterPreis
	a.WallboxAngebotPrice = r.WallboxPreis
	a.NotstromAngebotPrice = r.NotstromPreis
	a.OptimizerAngebotPrice = r.OptimizerPreis
	a.Angebotsumme = r.Angebotsumme
	a.Rabattsumme = r.Rabattsumme
	a.Nettokreditbetrag = r.Nettokreditbetrag

	e := r.Energy
	a.BenotigteRestenergie = e.Restenergie
	a.NutzbareNutzenergie = e.NutzEnergie
	a.ErzeugteEnergieProJahr = e.ErzeugteEnergie
	a.EinspeiseverguetungGesamt = e.EinspVerguetung
	a.AbzugVerguetung = e.Abzug
	a.Ersparnis = e.Ersparnis
	a.KostenFuerRestenergie = e.KostenRestEnergie
	a.RestListe = e.RestListe
	a.ArbeitsListe = e.ArbeitsListe

	a.AgData = BuildAngebotDocument(a, u, p, r, now)
	return r
}

// MarkReceived starts the countdown the first time a quote is handed to
// the customer.
func (a *Angebot) MarkReceived(now time.Time) {
	if a.StatusChangeField == nil {
		t := now
		a.StatusChangeField = &t
		a.StatusChangeDate = now.Format("02.01.2006")
		a.CountdownOn = true
	}
	a.IsLocked = true
}

// ClearStatusChange resets the countdown fields.
func (a *Angebot) ClearStatusChange() {
	a.StatusChangeField = nil
	a.StatusChangeDate = ""
	a.CountdownOn = false
}

// Countdown returns the time left of the 14 day window as
// "D Tage, H Stunde, M Minute". ok is false when no countdown is running
// or the status change lies outside the window.
func (a *Angebot) Countdown(now time.Time) (string, bool) {
	if a.StatusChangeField == nil {
		return "", false
	}
	delta := now.Sub(*a.StatusChangeField)
	days := int(delta.Hours() / 24)
	if delta < 0 || days > 14 {
		return "", false
	}
	left := CountdownWindow - delta
	if left <= 0 {
		return "0 days, 0 hours, 0 minutes", true
	}
	d := int(left / (24 * time.Hour))
	left -= time.Duration(d) * 24 * time.Hour
	h := int(left / time.Hour)
	left -= time.Duration(h) * time.Hour
	m := int(left / time.Minute)
	return fmt.Sprintf("%d Tage, %d Stunde, %d Minute", d, h, m), true
}

// AngebotGueltig returns the validity date printed on quotes.
func AngebotGueltig(now time.Time) string {
	return now.Add(CountdownWindow).Format("02.01.2006")
}

// AcceptedOffer extracts what a ticket needs from an accepted quote.
func (a *Angebot) AcceptedOffer() *pricing.AcceptedOffer {
	return &pricing.AcceptedOffer{
		AngebotID:     a.AngebotID,
		KWp:           pricing.KWp(a.ModulleistungWp, a.Modulanzahl),
		SolarModule:   a.SolarModule,
		Modulanzahl:   a.Modulanzahl,
		AnzOptimizer:  a.AnzOptimizer,
		SpeicherModel: a.SpeicherModel,
		AnzSpeicher:   a.AnzSpeicher,
		WallboxTyp:    a.WallboxTyp,
		WallboxAnzahl: a.WallboxAnzahl,
	}
}
