package pricing

import (
	"math"
	"regexp"
	"strconv"
)

// DefaultVerbrauch is the yearly consumption assumed when none is given.
const DefaultVerbrauch = 15000.0

// DefaultModulleistungWp is used when the module name carries no wattage.
const DefaultModulleistungWp = 420

// Orientation values accepted by the yield lookup.
const (
	AusrichtungSued    = "Sud"
	AusrichtungOstWest = "Ost/West"
)

var ausrichtungKeys = map[string]string{
	AusrichtungSued:    "erzeugung_sued",
	AusrichtungOstWest: "erzeugung_ost_west",
}

var firstNumber = regexp.MustCompile(`\d+`)

// Energy holds the consumption and tariff inputs of an amortization forecast.
// Grundpreis is in EUR per month, Arbeitspreis in cent per kWh, Prognose in
// percent per year and the feed-in tariffs Bis10kWp/Bis40kWp in cent per kWh.
type Energy struct {
	Verbrauch    float64 `json:"verbrauch"`
	Grundpreis   float64 `json:"grundpreis"`
	Arbeitspreis float64 `json:"arbeitspreis"`
	Prognose     float64 `json:"prognose"`
	Zeitraum     int     `json:"zeitraum"`
	Bis10kWp     float64 `json:"bis10kWp"`
	Bis40kWp     float64 `json:"bis40kWp"`
	Ausrichtung  string  `json:"ausrichtung"`
}

// EnergyResult is the full amortization breakdown for one quote.
type EnergyResult struct {
	GrundpreisGesamt   float64   `json:"grundpreis_gesamt"`
	ArbeitspreisGesamt float64   `json:"arbeitspreis_gesamt"`
	ErzeugungProKWp    float64   `json:"erzeugung_pro_kwp"`
	ErzeugteEnergie    float64   `json:"erzeugte_energie"`
	NutzEnergie        float64   `json:"nutz_energie"`
	Restenergie        float64   `json:"restenergie"`
	RestStromPreis     float64   `json:"rest_strom_preis"`
	KostenRestEnergie  float64   `json:"kosten_rest_energie"`
	EinspEnergie       float64   `json:"einsp_energie"`
	EinspProJahr       float64   `json:"einsp_pro_jahr"`
	EinspVerguetung    float64   `json:"einsp_verguetung"`
	KostenPVA          float64   `json:"kosten_pva"`
	Abzug              float64   `json:"abzug"`
	Ersparnis          float64   `json:"ersparnis"`
	ArbeitsListe       []float64 `json:"arbeits_liste"`
	RestListe          []float64 `json:"rest_liste"`
}

// Round2 rounds to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Inflation sums a yearly price growing by increase (a fraction) over years
// and returns the running totals per year.
func Inflation(pricePerYear, increase float64, years int) (float64, []float64) {
	var sum float64
	list := make([]float64, 0, max(years, 0))
	for i := 0; i < years; i++ {
		sum += pricePerYear
		list = append(list, sum)
		pricePerYear *= 1 + increase
	}
	return sum, list
}

// ModulleistungFromName extracts the module wattage from names like
// "Phono Solar PS420M7GFH-18/VNH".
func ModulleistungFromName(name string) int {
	if m := firstNumber.FindString(name); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return n
		}
	}
	return DefaultModulleistungWp
}

// KWp returns the peak power of count modules of wp watts.
func KWp(wp, count int) float64 {
	return float64(wp) * float64(count) / 1000
}

func (e Energy) normalized() Energy {
	if e.Verbrauch <= 0 {
		e.Verbrauch = DefaultVerbrauch
	}
	if e.Zeitraum < 0 {
		e.Zeitraum = 0
	}
	return e
}

func (b *book) erzeugungProKWp(ausrichtung string) float64 {
	key, ok := ausrichtungKeys[ausrichtung]
	if !ok {
		return 0
	}
	return b.value(key)
}

// energy runs the amortization forecast. usage is the self-consumption factor
// chosen from the storage configuration and summe the unrounded offer sum.
func (b *book) energy(e Energy, kwp, usage, summe float64) EnergyResult {
	e = e.normalized()
	var r EnergyResult

	r.GrundpreisGesamt = Round2(e.Grundpreis * 12 * float64(e.Zeitraum))
	arbeitGes, arbeitListe := Inflation(e.Arbeitspreis/100*e.Verbrauch, e.Prognose/100, e.Zeitraum)
	r.ArbeitspreisGesamt = Round2(arbeitGes)

	r.ErzeugungProKWp = b.erzeugungProKWp(e.Ausrichtung)
	r.ErzeugteEnergie = Round2(r.ErzeugungProKWp * kwp)

	nutz := e.Verbrauch
	if r.ErzeugteEnergie < nutz {
		nutz = r.ErzeugungProKWp * kwp
	}
	r.NutzEnergie = Round2(nutz * usage)
	r.Restenergie = e.Verbrauch - r.NutzEnergie

	restGes, restListe := Inflation(e.Arbeitspreis/100*r.Restenergie, e.Prognose/100, e.Zeitraum)
	r.RestStromPreis = Round2(restGes)
	r.KostenRestEnergie = r.RestStromPreis + r.GrundpreisGesamt

	r.EinspEnergie = r.ErzeugteEnergie - r.NutzEnergie
	switch {
	case kwp <= 0:
		r.EinspProJahr = 0
	case kwp <= 10:
		r.EinspProJahr = e.Bis10kWp * 0.01 * r.EinspEnergie
	default:
		klein := e.Bis10kWp * 0.01 * (10 / kwp)
		gross := e.Bis40kWp * 0.01 * (kwp - 10) / kwp
		r.EinspProJahr = (klein + gross) * r.EinspEnergie
	}
	r.EinspVerguetung = Round2(r.EinspProJahr * float64(e.Zeitraum))

	r.KostenPVA = summe * (1 + b.value("steuersatz"))
	if r.KostenPVA != 0 && r.RestStromPreis != 0 && r.GrundpreisGesamt != 0 && r.EinspVerguetung != 0 {
		r.Abzug = Round2(r.KostenPVA + r.RestStromPreis + r.GrundpreisGesamt - r.EinspVerguetung)
	}
	r.Ersparnis = Round2(r.ArbeitspreisGesamt - (r.KostenPVA + r.RestStromPreis - r.EinspVerguetung))

	for i := 0; i < e.Zeitraum; i++ {
		grund := e.Grundpreis * 12 * float64(i+1)
		arbeitListe[i] += grund
		restListe[i] += grund + r.KostenPVA - r.EinspProJahr*float64(i+1)
	}
	r.ArbeitsListe = arbeitListe
	r.RestListe = restListe
	return r
}
