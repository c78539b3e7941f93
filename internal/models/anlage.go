package models

import "github.com/diewo77/go-vertrieb/internal/pricing"

// EnergyInputs are the consumption and tariff figures of a forecast.
type EnergyInputs struct {
	Verbrauch    float64 `gorm:"default:15000" json:"verbrauch"`
	Grundpreis   float64 `json:"grundpreis"`
	Arbeitspreis float64 `json:"arbeitspreis"`
	Prognose     float64 `json:"prognose"`
	Zeitraum     int     `json:"zeitraum"`
	Bis10kWp     float64 `gorm:"column:bis10kwp" json:"bis10kWp"`
	Bis40kWp     float64 `gorm:"column:bis40kwp" json:"bis40kWp"`
	Ausrichtung  string  `gorm:"size:10" json:"ausrichtung"`
	Komplex      string  `gorm:"size:30" json:"komplex"`
}

func (e EnergyInputs) pricing() pricing.Energy {
	return pricing.Energy{
		Verbrauch:    e.Verbrauch,
		Grundpreis:   e.Grundpreis,
		Arbeitspreis: e.Arbeitspreis,
		Prognose:     e.Prognose,
		Zeitraum:     e.Zeitraum,
		Bis10kWp:     e.Bis10kWp,
		Bis40kWp:     e.Bis40kWp,
		Ausrichtung:  e.Ausrichtung,
	}
}

// ApplyDefaults fills zero inputs from a user's initial values.
func (e *EnergyInputs) ApplyDefaults(d UserDefaults) {
	if e.Verbrauch == 0 {
		e.Verbrauch = d.InitialVerbrauch
	}
	if e.Grundpreis == 0 {
		e.Grundpreis = d.InitialGrundpreis
	}
	if e.Arbeitspreis == 0 {
		e.Arbeitspreis = d.InitialArbeitspreis
	}
	if e.Prognose == 0 {
		e.Prognose = d.InitialPrognose
	}
	if e.Zeitraum == 0 {
		e.Zeitraum = d.InitialZeitraum
	}
	if e.Bis10kWp == 0 {
		e.Bis10kWp = d.InitialBis10kWp
	}
	if e.Bis40kWp == 0 {
		e.Bis40kWp = d.InitialBis40kWp
	}
	if e.Ausrichtung == "" {
		e.Ausrichtung = d.InitialAusrichtung
	}
	if e.Komplex == "" {
		e.Komplex = d.InitialKomplex
	}
}

// Anlage is the technical configuration of an installation. Tickets use
// negative counts to remove parts.
type Anlage struct {
	SolarModule     string `gorm:"size:100" json:"solar_module"`
	ModulleistungWp int    `gorm:"column:modulleistung_wp" json:"modulleistungWp"`
	Modulanzahl     int    `json:"modulanzahl"`

	SpeicherModel                string `gorm:"size:100" json:"speicher_model,omitempty"`
	AnzSpeicher                  int    `json:"anz_speicher"`
	SmartmeterModel              string `gorm:"size:100" json:"smartmeter_model,omitempty"`
	WandhalterungFuerSpeicher    bool   `json:"wandhalterung_fuer_speicher"`
	AnzWandhalterungFuerSpeicher int    `json:"anz_wandhalterung_fuer_speicher"`

	Wallbox        bool    `json:"wallbox"`
	WallboxTyp     string  `gorm:"column:wallboxtyp;size:100" json:"wallboxtyp,omitempty"`
	WallboxAnzahl  int     `json:"wallbox_anzahl"`
	Kabelanschluss float64 `json:"kabelanschluss"`

	Optimizer    bool `json:"optimizer"`
	AnzOptimizer int  `gorm:"column:anz_optimizer" json:"anzOptimizer"`
	MidZaehler   int  `gorm:"column:mid_zaehler" json:"midZaehler"`

	Elwa               bool `json:"elwa"`
	Thor               bool `json:"thor"`
	Heizstab           bool `json:"heizstab"`
	Notstrom           bool `json:"notstrom"`
	HubIncluded        bool `json:"hub_included"`
	ApzFeld            bool `gorm:"column:apz_feld" json:"apzFeld"`
	Zaehlerschrank     bool `json:"zaehlerschrank"`
	Potentialausgleich bool `json:"potentialausgleich"`
	BetaPlatte         bool `json:"beta_platte"`
	MetallZiegel       bool `json:"metall_ziegel"`
	PrefaBefestigung   bool `json:"prefa_befestigung"`
	SmartDongleLte     bool `gorm:"column:smart_dongle_lte" json:"smartDongleLte"`
	GeruestKunde       bool `gorm:"column:geruest_kunde" json:"geruestKunde"`
	GeruestOeffentlich bool `gorm:"column:geruest_oeffentlich" json:"geruestOeffentlich"`
	DachhakenKunde     bool `gorm:"column:dachhaken_kunde" json:"dachhakenKunde"`
}

// Components converts the configuration to the pricing engine's shape. The
// module wattage is always derived from the module name.
func (a Anlage) Components() pricing.Components {
	return pricing.Components{
		SolarModule:        a.SolarModule,
		Modulanzahl:        a.Modulanzahl,
		SpeicherModel:      a.SpeicherModel,
		AnzSpeicher:        a.AnzSpeicher,
		SmartmeterModel:    a.SmartmeterModel,
		AnzWandhalterung:   a.AnzWandhalterungFuerSpeicher,
		WallboxTyp:         a.WallboxTyp,
		WallboxAnzahl:      a.WallboxAnzahl,
		Kabelanschluss:     a.Kabelanschluss,
		AnzOptimizer:       a.AnzOptimizer,
		MidZaehler:         a.MidZaehler,
		Notstrom:           a.Notstrom,
		SmartDongleLte:     a.SmartDongleLte,
		ApzFeld:            a.ApzFeld,
		Zaehlerschrank:     a.Zaehlerschrank,
		Potentialausgleich: a.Potentialausgleich,
		BetaPlatte:         a.BetaPlatte,
		MetallZiegel:       a.MetallZiegel,
		PrefaBefestigung:   a.PrefaBefestigung,
		Elwa:               a.Elwa,
		Thor:               a.Thor,
		Heizstab:           a.Heizstab,
		HubIncluded:        a.HubIncluded,
		GeruestKunde:       a.GeruestKunde,
		GeruestOeffentlich: a.GeruestOeffentlich,
		DachhakenKunde:     a.DachhakenKunde,
	}
}

// ApplyDefaults fills an empty configuration from a user's initial values.
func (a *Anlage) ApplyDefaults(d UserDefaults) {
	if a.SolarModule == "" {
		a.SolarModule = d.InitialSolarModule
	}
	if a.Modulanzahl == 0 {
		a.Modulanzahl = d.InitialModulanzahl
	}
	if a.Kabelanschluss == 0 {
		a.Kabelanschluss = d.InitialKabelanschluss
	}
	if a.WallboxTyp == "" {
		a.WallboxTyp = d.InitialWallboxTyp
	}
	if a.WallboxAnzahl == 0 {
		a.WallboxAnzahl = d.InitialWallboxAnzahl
	}
	if a.AnzOptimizer == 0 {
		a.AnzOptimizer = d.InitialAnzOptimizer
	}
	a.Elwa = a.Elwa || d.InitialElwa
	a.Thor = a.Thor || d.InitialThor
	a.Heizstab = a.Heizstab || d.InitialHeizstab
	a.Notstrom = a.Notstrom || d.InitialNotstrom
}
