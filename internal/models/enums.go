package models

import "github.com/diewo77/go-vertrieb/internal/pricing"

// AngebotStatus is the sales status of a quote.
type AngebotStatus string

const (
	StatusNone           AngebotStatus = ""
	StatusAngenommen     AngebotStatus = "angenommen"
	StatusBekommen       AngebotStatus = "bekommen"
	StatusInKontakt      AngebotStatus = "in Kontakt"
	StatusKontaktversuch AngebotStatus = "Kontaktversuch"
	StatusAbgelehnt      AngebotStatus = "abgelehnt"
	StatusAbgelaufen     AngebotStatus = "abgelaufen"
	StatusOnHold         AngebotStatus = "on Hold"
	StatusStorniert      AngebotStatus = "storniert"
)

// AngebotStatuses lists every valid status.
var AngebotStatuses = []string{
	string(StatusNone), string(StatusAngenommen), string(StatusBekommen),
	string(StatusInKontakt), string(StatusKontaktversuch), string(StatusAbgelehnt),
	string(StatusAbgelaufen), string(StatusOnHold), string(StatusStorniert),
}

const (
	LeadAusstehend = "ausstehend"
	LeadReklamiert = "reklamiert"
	LeadAkzeptiert = "akzeptiert"
	LeadAbgelehnt  = "abgelehnt"
)

var Leadstatuses = []string{LeadAusstehend, LeadReklamiert, LeadAkzeptiert, LeadAbgelehnt}

const (
	AnredeHerr    = "Herr"
	AnredeFrau    = "Frau"
	AnredeFamilie = "Familie"
	AnredeFirma   = "Firma"
	AnredeDivers  = "Divers"
)

var Anreden = []string{AnredeHerr, AnredeFrau, AnredeFamilie, AnredeFirma, AnredeDivers}

const (
	AusrichtungSued    = pricing.AusrichtungSued
	AusrichtungOstWest = pricing.AusrichtungOstWest
)

var Ausrichtungen = []string{AusrichtungSued, AusrichtungOstWest}

const (
	KomplexEinfachEinfach = "einfach, einfach erreichbar"
	KomplexEinfachSchwer  = "einfach, schwer erreichbar"
	KomplexKomplexEinfach = "komplex, einfach erreichbar"
	KomplexKomplexSchwer  = "komplex, schwer erreichbar"
	KomplexSehrKomplex    = "sehr komplex"
)

var Komplexe = []string{
	KomplexEinfachEinfach, KomplexEinfachSchwer, KomplexKomplexEinfach,
	KomplexKomplexSchwer, KomplexSehrKomplex,
}

const (
	GarantieWRKeine = pricing.GarantieKeine
	GarantieWR10    = "10 Jahre"
	GarantieWR15    = "15 Jahre"
	GarantieWR20    = "20 Jahre"
)

var GarantieWRs = []string{GarantieWRKeine, GarantieWR10, GarantieWR15, GarantieWR20}

// HerstellerNone is the placeholder the quote form submits before a
// manufacturer is picked.
const HerstellerNone = "----"

const (
	HerstellerHuawei    = pricing.HerstellerHuawei
	HerstellerViessmann = pricing.HerstellerViessmann
)

// Inverter, wallbox and meter models checked for manufacturer compatibility.
const (
	WechselrichterSun2000   = "SUN 2000"
	WechselrichterVitocharg = "Vitocharge VX3"
	WallboxHuawei           = "Huawei FusionCharge AC"
	WallboxViessmann        = "Viessmann Charging Station"
)

const DefaultSolarModule = pricing.DefaultSolarModule

// Electrician invoice choices.
var NetzTypen = []string{"-TN-S-Netz", "-TN-C-Netz", "-TW-C-S-Netz", "-TT-Netz"}

var Zaehlerschranken = []string{"1-Zähler-Anlagen", "2-Zähler-Anlagen", "3-Zähler-Anlagen", "4-Zähler-Anlagen"}
