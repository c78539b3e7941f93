package models

import (
	"time"

	"github.com/diewo77/go-vertrieb/internal/pricing"
)

// DocumentVersion is bumped when the document layout changes.
const DocumentVersion = 1.0

// Document is the payload an offer or ticket PDF is rendered from. It is
// stored with the record so a document can be reproduced without the catalog.
type Document struct {
	Firma         string `json:"firma"`
	Anrede        string `json:"anrede"`
	Kunde         string `json:"kunde"`
	Adresse       string `json:"adresse"`
	Vertriebler   string `json:"vertriebler"`
	VertriebAbk   string `json:"vertriebAbk"`
	Gueltig       string `json:"gueltig"`
	Standort      string `json:"standort"`
	Hersteller    string `json:"hersteller,omitempty"`
	GarantieJahre string `json:"garantieJahre,omitempty"`

	Module            string  `json:"module"`
	WpModule          int     `json:"wpModule"`
	AnzModule         int     `json:"anzModule"`
	ProduktGarantie   string  `json:"produktGarantie"`
	LeistungsGarantie string  `json:"leistungsGarantie"`
	KWp               float64 `json:"kWp"`
	KWpOhneRundung    float64 `json:"kWpOhneRundung"`
	ExistingKWp       float64 `json:"existing_kWp,omitempty"`
	TicketKWp         float64 `json:"ticket_kWp,omitempty"`
	LeistModAnz       int     `json:"leistModAnz,omitempty"`

	BatterieVorh               float64 `json:"batterieVorh"`
	BatterieModell             string  `json:"batterieModell"`
	BatterieAnz                int     `json:"batterieAnz"`
	SmartmeterModell           string  `json:"smartmeterModell"`
	WandhalterungSpeicher      bool    `json:"wandhalterungSpeicher"`
	AnzWandhalterungSpeicher   int     `json:"anzWandhalterungSpeicher"`
	WandhalterungSpeicherPreis float64 `json:"wandhalterungSpeicherPreis"`
	WallboxVorh                float64 `json:"wallboxVorh"`
	WallboxTyp                 string  `json:"wallboxTyp"`
	WallboxText                string  `json:"wallboxText"`
	WallboxAnz                 int     `json:"wallboxAnz"`

	OptionVorh         bool `json:"optionVorh"`
	Elwa               bool `json:"elwa"`
	Thor               bool `json:"thor"`
	Heizstab           bool `json:"heizstab"`
	MidZaehler         int  `json:"midZaehler"`
	ApzFeld            bool `json:"apzFeld"`
	Zaehlerschrank     bool `json:"zaehlerschrank"`
	Potentialausgleich bool `json:"potentialausgleich"`
	GeruestKunde       bool `json:"geruestKunde"`
	GeruestOeffentlich bool `json:"geruestOeffentlich"`
	DachhakenKunde     bool `json:"dachhakenKunde"`
	BetaPlatte         bool `json:"betaPlatte"`
	MetallZiegel       bool `json:"metallZiegel"`
	PrefaBefestigung   bool `json:"prefaBefestigung"`
	SmartDongleLte     bool `json:"smartDongleLte"`
	Optimierer         bool `json:"optimierer"`
	AnzOptimierer      int  `json:"anzOptimierer"`
	Notstrom           bool `json:"notstrom"`

	SolarModulePreis      float64 `json:"solarModulePreis"`
	WallboxPreis          float64 `json:"wallboxPreis"`
	NotstromPreis         float64 `json:"notstromPreis"`
	BatterieSpeicherPreis float64 `json:"batterieSpeicherPreis"`
	GesamtOptimizerPreis  float64 `json:"gesamtOptimizerPreis"`
	Angebotssumme         float64 `json:"angebotssumme"`
	Steuersatz            float64 `json:"steuersatz"`
	KostenPVA             float64 `json:"kostenPVA"`

	ZahlungsBedingungen string  `json:"zahlungs_bedingungen,omitempty"`
	Rabatt              int     `json:"rabatt,omitempty"`
	Rabattsumme         float64 `json:"rabattsumme,omitempty"`
	GenehmigungRabatt   bool    `json:"genehmigung_rabatt,omitempty"`
	AusweisungRabatt    bool    `json:"ausweisung_rabatt,omitempty"`

	Finanzierung       bool    `json:"finanzierung,omitempty"`
	Anzahlung          float64 `json:"anzahlung,omitempty"`
	Nettokreditbetrag  float64 `json:"nettokreditbetrag,omitempty"`
	MonatlicheRate     float64 `json:"monatliche_rate,omitempty"`
	Laufzeit           int     `json:"laufzeit,omitempty"`
	Sollzinssatz       float64 `json:"sollzinssatz,omitempty"`
	EffektiverZins     float64 `json:"effektiver_zins,omitempty"`
	Gesamtkreditbetrag float64 `json:"gesamtkreditbetrag,omitempty"`

	Energy *DocumentEnergy `json:"energy,omitempty"`

	Debug   bool    `json:"debug"`
	Version float64 `json:"version"`
}

// DocumentEnergy is the amortization part of an offer document.
type DocumentEnergy struct {
	Stromverbrauch  float64   `json:"stromverbrauch"`
	Grundpreis      float64   `json:"grundpreis"`
	Arbeitspreis    float64   `json:"arbeitspreis"`
	Prognose        float64   `json:"prognose"`
	Zeitraum        int       `json:"zeitraum"`
	Bis10kWp        float64   `json:"bis10kWp"`
	Bis40kWp        float64   `json:"10bis40kWp"`
	Ausrichtung     string    `json:"ausrichtung"`
	ErzeugungProKWp float64   `json:"erzeugung"`
	GrundpreisGes   float64   `json:"grundpreisGes"`
	ArbeitspreisGes float64   `json:"arbeitspreisGes"`
	ErzeugteEnergie float64   `json:"erzeugteEnergie"`
	NutzEnergie     float64   `json:"nutzEnergie"`
	Restenergie     float64   `json:"restenergie"`
	ReststromPreis  float64   `json:"reststromPreis"`
	EinspVerg       float64   `json:"einspVerg"`
	KostenPVA       float64   `json:"kostenPVA"`
	Ersparnis       float64   `json:"ersparnis"`
	ArbeitsListe    []float64 `json:"arbeitsListe"`
	RestListe       []float64 `json:"restListe"`
}

func documentHeader(k *Kunde, u *User, p *pricing.Prices, module string, now time.Time) Document {
	d := Document{
		Firma:    k.Firma,
		Anrede:   k.Anrede,
		Kunde:    k.NameDisplayValue,
		Adresse:  k.FullAdresse(),
		Gueltig:  AngebotGueltig(now),
		Standort: k.AnlagenStandortOrDefault(),
		Module:   module,
		Version:  DocumentVersion,
	}
	if u != nil {
		d.Vertriebler = u.VertrieblerText()
		d.VertriebAbk = u.KuerzelOrEmpty()
	}
	if p != nil {
		if m, ok := p.Module[module]; ok {
			d.ProduktGarantie = m.ModuleGarantie
			d.LeistungsGarantie = m.LeistungsGarantie
		}
	}
	return d
}

func (d *Document) fillAnlage(a *Anlage, p *pricing.Prices) {
	d.BatterieModell = a.SpeicherModel
	d.BatterieAnz = a.AnzSpeicher
	d.SmartmeterModell = a.SmartmeterModel
	d.WandhalterungSpeicher = a.WandhalterungFuerSpeicher
	d.AnzWandhalterungSpeicher = a.AnzWandhalterungFuerSpeicher
	d.WallboxTyp = a.WallboxTyp
	d.WallboxAnz = a.WallboxAnzahl
	if p != nil {
		d.WallboxText = p.WallboxText[a.WallboxTyp]
	}
	d.OptionVorh = a.Notstrom
	d.Elwa = a.Elwa
	d.Thor = a.Thor
	d.Heizstab = a.Heizstab
	d.MidZaehler = a.MidZaehler
	d.ApzFeld = a.ApzFeld
	d.Zaehlerschrank = a.Zaehlerschrank
	d.Potentialausgleich = a.Potentialausgleich
	d.GeruestKunde = a.GeruestKunde
	d.GeruestOeffentlich = a.GeruestOeffentlich
	d.DachhakenKunde = a.DachhakenKunde
	d.BetaPlatte = a.BetaPlatte
	d.MetallZiegel = a.MetallZiegel
	d.PrefaBefestigung = a.PrefaBefestigung
	d.SmartDongleLte = a.SmartDongleLte
	d.Optimierer = a.Optimizer
	d.AnzOptimierer = a.AnzOptimizer
	d.Notstrom = a.Notstrom
}

// BuildAngebotDocument assembles the offer document from a recomputed quote.
func BuildAngebotDocument(a *Angebot, u *User, p *pricing.Prices, r pricing.AngebotResult, now time.Time) *Document {
	d := documentHeader(&a.Kunde, u, p, a.SolarModule, now)
	d.fillAnlage(&a.Anlage, p)
	d.Hersteller = a.Hersteller
	d.GarantieJahre = a.GarantieWR
	d.WpModule = r.ModulleistungWp
	d.AnzModule = a.Modulanzahl
	d.KWp = r.KWp
	d.KWpOhneRundung = r.KWp

	d.BatterieVorh = r.BatteriePreis
	d.WandhalterungSpeicherPreis = r.WandhalterungPreis
	d.WallboxVorh = r.WallboxPreis
	d.SolarModulePreis = r.SolarModulePreis
	d.WallboxPreis = r.WallboxPreis
	d.NotstromPreis = r.NotstromPreis
	d.BatterieSpeicherPreis = r.BatteriePreis
	d.GesamtOptimizerPreis = r.OptimizerPreis
	d.Angebotssumme = r.Angebotsumme
	d.Steuersatz = r.Steuersatz
	d.KostenPVA = r.Energy.KostenPVA

	d.ZahlungsBedingungen = a.Zahlungsbedingungen
	d.Rabatt = a.Rabatt
	d.Rabattsumme = r.Rabattsumme
	d.GenehmigungRabatt = a.GenehmigungRabatt
	d.AusweisungRabatt = a.AusweisungRabatt

	d.Finanzierung = a.Finanzierung
	d.Anzahlung = a.Anzahlung
	d.Nettokreditbetrag = r.Nettokreditbetrag
	d.MonatlicheRate = a.MonatlicheRate
	d.Laufzeit = a.Laufzeit
	d.Sollzinssatz = a.Sollzinssatz
	d.EffektiverZins = a.EffektiverZins
	d.Gesamtkreditbetrag = a.Gesamtkreditbetrag

	e := r.Energy
	d.Energy = &DocumentEnergy{
		Stromverbrauch:  a.Verbrauch,
		Grundpreis:      a.Grundpreis,
		Arbeitspreis:    a.Arbeitspreis,
		Prognose:        a.Prognose,
		Zeitraum:        a.Zeitraum,
		Bis10kWp:        a.Bis10kWp,
		Bis40kWp:        a.Bis40kWp,
		Ausrichtung:     a.Ausrichtung,
		ErzeugungProKWp: e.ErzeugungProKWp,
		GrundpreisGes:   e.GrundpreisGesamt,
		ArbeitspreisGes: e.ArbeitspreisGesamt,
		ErzeugteEnergie: e.ErzeugteEnergie,
		NutzEnergie:     e.NutzEnergie,
		Restenergie:     e.Restenergie,
		ReststromPreis:  e.RestStromPreis,
		EinspVerg:       e.EinspVerguetung,
		KostenPVA:       e.KostenPVA,
		Ersparnis:       e.Ersparnis,
		ArbeitsListe:    e.ArbeitsListe,
		RestListe:       e.RestListe,
	}
	return &d
}

// BuildTicketDocument assembles the ticket document.
func BuildTicketDocument(t *Ticket, u *User, p *pricing.Prices, r pricing.TicketResult, now time.Time) *Document {
	d := documentHeader(&t.Kunde, u, p, t.SolarModule, now)
	d.fillAnlage(&t.Anlage, p)
	d.WpModule = r.ModulleistungWp
	d.AnzModule = t.Modulanzahl
	d.KWp = pricing.Round2(r.KWp)
	d.KWpOhneRundung = r.KWp
	d.ExistingKWp = r.ExistingKWp
	d.TicketKWp = r.TicketKWp
	d.LeistModAnz = r.AnzLeistungsModule

	d.BatterieVorh = r.BatteriePreis
	d.WandhalterungSpeicherPreis = r.Accessories.Wandhalterung
	d.WallboxVorh = r.WallboxPreis
	d.SolarModulePreis = r.SolarModulePreis
	d.WallboxPreis = r.WallboxPreis
	d.NotstromPreis = r.NotstromPreis
	d.BatterieSpeicherPreis = r.BatteriePreis
	d.GesamtOptimizerPreis = r.OptimizerPreis
	d.Angebotssumme = r.Angebotsumme
	d.Steuersatz = r.Steuersatz
	d.KostenPVA = r.KostenPVA
	return &d
}
