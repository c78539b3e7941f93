package services

import (
	"fmt"
	"strings"

	"github.com/diewo77/go-vertrieb/internal/models"
	"github.com/diewo77/go-vertrieb/internal/pricing"
	"github.com/diewo77/go-vertrieb/validation"
)

// Form actions. ActionCalculate only prices the quote, so customer data
// may still be incomplete.
const (
	ActionSave      = "save"
	ActionCalculate = "angebotsumme_rechnen"
	ActionDocument  = "pdf"
)

// DefaultRabattLimit applies when the catalog has no rabatt_limit value.
const DefaultRabattLimit = 100.0

const (
	minModule       = 6
	maxModule       = 69
	maxTicketModule = 4
)

// parts a manufacturer cannot be combined with, keyed by form field
var incompatible = map[string][]struct{ field, model string }{
	models.HerstellerViessmann: {
		{"wallboxtyp", models.WallboxHuawei},
		{"wechselrichter_model", models.WechselrichterSun2000},
		{"speicher_model", pricing.SpeicherLuna5},
		{"speicher_model", pricing.SpeicherLuna7},
		{"smartmeter_model", pricing.SmartmeterDTSU},
		{"smartmeter_model", pricing.SmartmeterEMMA},
	},
	models.HerstellerHuawei: {
		{"wallboxtyp", models.WallboxViessmann},
		{"wechselrichter_model", models.WechselrichterVitocharg},
		{"speicher_model", pricing.SpeicherViessmann},
		{"smartmeter_model", pricing.SmartmeterViessmann},
	},
}

type partSelection struct {
	hersteller     string
	wallboxTyp     string
	wechselrichter string
	speicher       string
	smartmeter     string
}

func (p partSelection) value(field string) string {
	switch field {
	case "wallboxtyp":
		return p.wallboxTyp
	case "wechselrichter_model":
		return p.wechselrichter
	case "speicher_model":
		return p.speicher
	case "smartmeter_model":
		return p.smartmeter
	}
	return ""
}

func checkCompatibility(p partSelection, v validation.Violations) {
	for _, rule := range incompatible[p.hersteller] {
		if p.value(rule.field) != rule.model {
			continue
		}
		first := strings.Fields(rule.model)[0]
		v.Add(rule.field, fmt.Sprintf(
			"Sie haben einen %s Hersteller ausgewählt. Sie können keine %s %s auswählen. Überprüfen Sie die Daten.",
			p.hersteller, first, strings.ReplaceAll(rule.field, "_", " ")))
	}
}

func checkBatteries(hersteller string, count int, v validation.Violations) {
	switch hersteller {
	case models.HerstellerViessmann:
		if count < 0 || count > 3 {
			v.Add("anz_speicher", "Die Anzahl der Batteriespeicher Viessmann Vitocharge VX3 kann nicht mehr als 3 sein.")
		}
	case models.HerstellerHuawei:
		if count < 0 || count > 6 {
			v.Add("anz_speicher", "Die Anzahl der Batteriespeicher von Huawei kann nicht mehr als 6 sein.")
		}
	default:
		if count < 0 || count > 6 {
			v.Add("anz_speicher", fmt.Sprintf("Ungültige Eingabe: %d. Der gültige Bereich ist zwischen 0 und 6.", count))
		}
	}
}

func checkOptimizer(optimizer, module int, v validation.Violations) {
	if optimizer > 0 && optimizer > module {
		v.Add("anzOptimizer", "Die Anzahl der Optimierer kann nicht größer sein als die Anzahl der Module.")
	}
}

// ValidateAngebot checks a quote before it is priced or stored. Customer
// fields and part compatibility are skipped for ActionCalculate.
func ValidateAngebot(a *models.Angebot, action string, rabattLimit float64) validation.Violations {
	v := validation.Violations{}
	if rabattLimit <= 0 {
		rabattLimit = DefaultRabattLimit
	}

	checkBatteries(a.Hersteller, a.AnzSpeicher, v)
	checkOptimizer(a.AnzOptimizer, a.Modulanzahl, v)
	if a.Wallbox && a.WallboxAnzahl <= 0 {
		v.Add("wallbox_anzahl", "Die Anzahl der Wallbox kann nicht 0 sein wenn die E-Ladestation (Wallbox) inkl. is True.")
	}

	if action != ActionCalculate {
		if strings.TrimSpace(a.Anrede) == "" {
			v.Add("anrede", "Anrede Feld ist erforderlich")
		}
		if strings.TrimSpace(a.NameLastName) == "" {
			v.Add("name_last_name", "Nachname Feld ist erforderlich und darf nicht leer sein")
		}
		if strings.TrimSpace(a.Strasse) == "" {
			v.Add("strasse", "Strasse Feld ist erforderlich")
		}
		if strings.TrimSpace(a.Ort) == "" {
			v.Add("ort", "Ort Feld ist erforderlich")
		}
		if strings.TrimSpace(a.Email) == "" {
			v.Add("email", "Email Feld ist erforderlich")
		}
		validation.Email("email", a.Email, v)

		checkCompatibility(partSelection{
			hersteller:     a.Hersteller,
			wallboxTyp:     a.WallboxTyp,
			wechselrichter: a.WechselrichterModel,
			speicher:       a.SpeicherModel,
			smartmeter:     a.SmartmeterModel,
		}, v)

		if a.MidZaehler > 0 && a.WallboxAnzahl > 0 &&
			(a.WallboxTyp == models.WallboxHuawei || a.WallboxTyp == models.WallboxViessmann) {
			v.Add("midZaehler", fmt.Sprintf(
				"Sie haben eine Wallbox vom Typ %s ausgewählt. Sie können keinen MID-Zähler auswählen. Überprüfen Sie die Daten.",
				a.WallboxTyp))
		}

		if action == ActionSave {
			if a.Anrede != models.AnredeFirma && strings.TrimSpace(a.NameFirstName) == "" {
				v.Add("name_first_name", "Vorname Feld ist erforderlich und kann nicht leer sein")
			}
		} else if a.Hersteller == "" || a.Hersteller == models.HerstellerNone {
			v.Add("hersteller", "Sie haben keinen Hersteller ausgewählt")
		}
	}

	if float64(a.Rabatt) < 0 || float64(a.Rabatt) > rabattLimit {
		v.Add("rabatt", fmt.Sprintf(
			"Ungültige Eingabe: %d. Die Höhe des Rabatts sollte zwischen 0%% und %s%% liegen.",
			a.Rabatt, formatLimit(rabattLimit)))
	}
	if a.Modulanzahl < minModule || a.Modulanzahl > maxModule {
		v.Add("modulanzahl", fmt.Sprintf(
			"Ungültige Eingabe: %d. Die Menge der Solarmodule sollte zwischen %d und %d liegen.",
			a.Modulanzahl, minModule, maxModule))
	}
	validation.GermanMobile("telefon_mobil", a.TelefonMobil, v)
	validation.GermanLandline("telefon_festnetz", a.TelefonFestnetz, v)
	return v
}

// ValidateTicket checks a ticket. Counts may be negative.
func ValidateTicket(t *models.Ticket) validation.Violations {
	v := validation.Violations{}
	if t.Hersteller == "" || t.Hersteller == models.HerstellerNone {
		v.Add("hersteller", "Sie haben keinen Hersteller ausgewählt")
	}
	if t.Modulanzahl > maxTicketModule {
		v.Add("modulanzahl", fmt.Sprintf(
			"Ungültige Eingabe: %d. Die Anzahl der Solarmodule sollte %d oder weniger betragen.", t.Modulanzahl, maxTicketModule))
	}
	if t.AnzOptimizer > maxTicketModule {
		v.Add("anzOptimizer", fmt.Sprintf(
			"Ungültige Eingabe: %d. Die Anzahl der Optimierer sollte %d oder weniger betragen.", t.AnzOptimizer, maxTicketModule))
	}
	checkOptimizer(t.AnzOptimizer, t.Modulanzahl, v)
	// removals are bounded like additions
	batteries := t.AnzSpeicher
	if batteries < 0 {
		batteries = -batteries
	}
	checkBatteries(t.Hersteller, batteries, v)
	checkCompatibility(partSelection{
		hersteller: t.Hersteller,
		wallboxTyp: t.WallboxTyp,
		speicher:   t.SpeicherModel,
		smartmeter: t.SmartmeterModel,
	}, v)
	validation.GermanMobile("telefon_mobil", t.TelefonMobil, v)
	validation.GermanLandline("telefon_festnetz", t.TelefonFestnetz, v)
	return v
}

func formatLimit(f float64) string {
	if f == float64(int(f)) {
		return fmt.Sprintf("%d", int(f))
	}
	return fmt.Sprintf("%g", f)
}
