package pricing

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Manufacturers.
const (
	HerstellerHuawei    = "Huawei"
	HerstellerViessmann = "Viessmann"
)

// User types affecting the base price.
const UserTypEvolti = "Evolti"

// GarantieKeine disables the inverter warranty extension.
const GarantieKeine = "keine"

// FinanzierungAufschlag is added to financed offers.
const FinanzierungAufschlag = 300.0

var komplexKeys = map[string]string{
	"einfach, einfach erreichbar": "einfach_einfach_erreichbar",
	"einfach, schwer erreichbar":  "einfach_schwer_erreichbar",
	"komplex, einfach erreichbar": "komplex_einfach_erreichbar",
	"komplex, schwer erreichbar":  "komplex_schwer_erreichbar",
	"sehr komplex":                "sehr_komplex",
}

// kWp price tiers as (lower, upper) bounds.
var kwpTiers = [][2]int{{0, 5}, {5, 7}, {7, 10}, {10, 12}, {12, 15}, {15, 20}, {20, 25}, {25, 30}, {30, 30}}

var garantieKw = []int{3, 4, 5, 6, 8, 10, 15, 16, 20, 25, 30}

// battUsageAngebot maps installed storage in kWh to the self-consumption factor.
var battUsageAngebot = map[int]float64{
	5: 0.6, 7: 0.66, 10: 0.74, 14: 0.79, 15: 0.79, 20: 0.81,
	21: 0.81, 25: 0.85, 28: 0.90, 30: 0.92, 35: 0.92, 42: 0.92,
}

// DefaultBattUsageAngebot applies to quotes without storage.
const DefaultBattUsageAngebot = 0.35

// AngebotInput is everything needed to price a quote.
type AngebotInput struct {
	Energy
	Components

	Hersteller string `json:"hersteller"`
	Komplex    string `json:"komplex"`
	GarantieWR string `json:"garantieWR"`

	IndivPriceIncluded   bool    `json:"indiv_price_included"`
	IndivPrice           float64 `json:"indiv_price"`
	Rabatt               float64 `json:"rabatt"`
	SonderrabattIncluded bool    `json:"sonderrabatt_included"`
	Sonderrabatt         string  `json:"sonderrabatt"`
	Finanzierung         bool    `json:"finanzierung"`
	Anzahlung            float64 `json:"anzahlung"`

	UserTyp        string  `json:"user_typ"`
	UsersAufschlag float64 `json:"users_aufschlag"`
}

// AngebotResult holds every derived value of a quote.
type AngebotResult struct {
	ModulleistungWp int     `json:"modulleistungWp"`
	KWp             float64 `json:"kwp"`
	Zuschlag        float64 `json:"zuschlag"`

	Accessories        Accessories `json:"accessories"`
	SolarModulePreis   float64     `json:"solar_module_preis"`
	BatteriePreis      float64     `json:"batterie_preis"`
	SmartmeterPreis    float64     `json:"smartmeter_preis"`
	WallboxPreis       float64     `json:"wallbox_preis"`
	NotstromPreis      float64     `json:"notstrom_preis"`
	OptimizerPreis     float64     `json:"optimizer_preis"`
	WandhalterungPreis float64     `json:"wandhalterung_preis"`
	GarantiePreis      float64     `json:"garantie_preis"`
	Steuersatz         float64     `json:"steuersatz"`

	Summe             float64 `json:"-"`
	Angebotsumme      float64 `json:"angebotsumme"`
	Rabattsumme       float64 `json:"rabattsumme"`
	Nettokreditbetrag float64 `json:"nettokreditbetrag"`

	Energy  EnergyResult `json:"energy"`
	Missing []string     `json:"missing,omitempty"`
}

// BattUsageAngebot returns the self-consumption factor for a storage setup.
// Sizes between table entries use the next lower entry; above 42 kWh the
// factor stays flat.
func BattUsageAngebot(model string, count int) float64 {
	if count <= 0 {
		return DefaultBattUsageAngebot
	}
	perModule := 5
	if model == SpeicherLuna7 {
		perModule = 7
	}
	kwh := min(count*perModule, 42)
	if f, ok := battUsageAngebot[kwh]; ok {
		return f
	}
	keys := make([]int, 0, len(battUsageAngebot))
	for k := range battUsageAngebot {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	f := DefaultBattUsageAngebot
	for _, k := range keys {
		if k > kwh {
			break
		}
		f = battUsageAngebot[k]
	}
	return f
}

func (b *book) komplexFaktor(komplex string) float64 {
	key, ok := komplexKeys[komplex]
	if !ok {
		return 0
	}
	return b.value(key)
}

// tierSum prices the module field over the kWp tiers.
func (b *book) tierSum(kwp, zuschlag float64) float64 {
	capped := math.Min(30, kwp)
	var sum float64
	for _, t := range kwpTiers {
		lower, upper := float64(t[0]), float64(t[1])
		if lower >= capped {
			continue
		}
		sum += (math.Min(kwp, upper) - lower) * b.kwp(fmt.Sprintf("Preis%d", t[1])) * zuschlag
	}
	return sum
}

// garantiePrice returns the inverter warranty extension price for garantieWR
// values like "10 Jahre".
func (b *book) garantiePrice(garantieWR string, kwp float64) float64 {
	if garantieWR == "" || garantieWR == GarantieKeine {
		return 0
	}
	fields := strings.Fields(garantieWR)
	if len(fields) == 0 {
		return 0
	}
	years, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	capped := math.Min(30, kwp)
	kw := garantieKw[len(garantieKw)-1]
	for _, k := range garantieKw {
		if capped <= float64(k) {
			kw = k
			break
		}
	}
	return b.garantie(fmt.Sprintf("garantie%d_%d", kw, years))
}

// CalculateAngebot prices a quote against the catalog snapshot.
func CalculateAngebot(p *Prices, in AngebotInput) AngebotResult {
	b := newBook(p)
	var r AngebotResult

	moduleName := in.module()
	r.ModulleistungWp = in.wp()
	r.KWp = KWp(r.ModulleistungWp, in.Modulanzahl)
	mod := b.module(moduleName)
	r.Zuschlag = mod.Zuschlag
	r.SolarModulePreis = mod.Price * float64(in.Modulanzahl)

	r.BatteriePreis = b.batterie(in.SpeicherModel, in.AnzSpeicher, r.KWp, true)
	r.Accessories = b.accessories(in.Components, r.KWp, r.BatteriePreis, true)
	r.SmartmeterPreis = r.Accessories.Smartmeter
	r.WallboxPreis = r.Accessories.Wallbox
	r.OptimizerPreis = r.Accessories.Optimizer
	r.WandhalterungPreis = r.Accessories.Wandhalterung
	r.NotstromPreis = b.accessory("backup_box")

	sum := b.tierSum(r.KWp, r.Zuschlag)
	if in.UserTyp == UserTypEvolti {
		sum *= 1.05
	}
	sum *= b.komplexFaktor(in.Komplex)
	sum += r.Accessories.Total()

	if in.Hersteller == HerstellerHuawei {
		r.GarantiePreis = b.garantiePrice(in.GarantieWR, r.KWp) * b.value("garantiefaktor")
		sum += r.GarantiePreis
	}

	if in.IndivPriceIncluded {
		sum = in.IndivPrice
	}

	rabatt := sum * (in.Rabatt / 100)
	sum *= 1 - in.Rabatt/100

	if in.SonderrabattIncluded && in.Sonderrabatt != "" {
		if s, ok := b.sonderrabatt(in.Sonderrabatt); ok {
			sum *= 1 - s.Prozentsatz/100
			sum -= s.Fixbetrag
		}
	}

	sum *= 1 + in.UsersAufschlag/100

	sum, selfRabatt := b.selfWork(in.Components, sum)
	rabatt += selfRabatt

	if in.Finanzierung {
		sum += FinanzierungAufschlag
	}

	r.Summe = sum
	r.Angebotsumme = Round2(sum)
	r.Rabattsumme = Round2(rabatt)
	r.Nettokreditbetrag = r.Angebotsumme - in.Anzahlung
	r.Steuersatz = b.value("steuersatz")

	r.Energy = b.energy(in.Energy, r.KWp, BattUsageAngebot(in.SpeicherModel, in.AnzSpeicher), sum)
	r.Missing = b.missingKeys()
	return r
}
