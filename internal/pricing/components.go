package pricing

import (
	"fmt"
	"math"
)

// Storage models.
const (
	SpeicherLuna5     = "LUNA 2000-5-S0"
	SpeicherLuna7     = "LUNA 2000-7-S1"
	SpeicherViessmann = "Vitocharge VX3 PV-Stromspeicher"
)

// Smart meter models.
const (
	SmartmeterDTSU      = "Smart Power Sensor DTSU666H"
	SmartmeterEMMA      = "EMMA-A02"
	SmartmeterViessmann = "Viessmann Energiezähler"
)

type storageModel struct {
	key            string
	leistungsmodul bool
	kwhPerModule   int
}

var storageModels = map[string]storageModel{
	SpeicherLuna5:     {key: "batteriemodul_huawei5", leistungsmodul: true, kwhPerModule: 5},
	SpeicherLuna7:     {key: "batteriemodul_huawei7", leistungsmodul: true, kwhPerModule: 7},
	SpeicherViessmann: {key: "batteriemodul_viessmann", kwhPerModule: 5},
}

var smartmeterKeys = map[string]string{
	SmartmeterDTSU:      "smartmeter_dtsu",
	SmartmeterEMMA:      "smartmeter_emma",
	SmartmeterViessmann: "smartmeter_viessmann",
}

// Roof mounting surcharges are tabulated up to these kWp limits.
var mountingLimits = []int{7, 11, 15, 19, 23, 27, 30}

// Components is the technical configuration shared by quotes, tickets and
// calculator runs. Counts are signed so tickets can remove parts.
type Components struct {
	SolarModule      string  `json:"solar_module"`
	ModulleistungWp  int     `json:"modulleistungWp"`
	Modulanzahl      int     `json:"modulanzahl"`
	SpeicherModel    string  `json:"speicher_model"`
	AnzSpeicher      int     `json:"anz_speicher"`
	SmartmeterModel  string  `json:"smartmeter_model"`
	AnzWandhalterung int     `json:"anz_wandhalterung_fuer_speicher"`
	WallboxTyp       string  `json:"wallboxtyp"`
	WallboxAnzahl    int     `json:"wallbox_anzahl"`
	Kabelanschluss   float64 `json:"kabelanschluss"`
	AnzOptimizer     int     `json:"anzOptimizer"`
	MidZaehler       int     `json:"midZaehler"`

	Notstrom           bool `json:"notstrom"`
	SmartDongleLte     bool `json:"smartDongleLte"`
	ApzFeld            bool `json:"apzFeld"`
	Zaehlerschrank     bool `json:"zaehlerschrank"`
	Potentialausgleich bool `json:"potentialausgleich"`
	BetaPlatte         bool `json:"beta_platte"`
	MetallZiegel       bool `json:"metall_ziegel"`
	PrefaBefestigung   bool `json:"prefa_befestigung"`
	Elwa               bool `json:"elwa"`
	Thor               bool `json:"thor"`
	Heizstab           bool `json:"heizstab"`
	HubIncluded        bool `json:"hub_included"`

	GeruestKunde       bool `json:"geruestKunde"`
	GeruestOeffentlich bool `json:"geruestOeffentlich"`
	DachhakenKunde     bool `json:"dachhakenKunde"`
}

func (c Components) module() string {
	if c.SolarModule == "" {
		return DefaultSolarModule
	}
	return c.SolarModule
}

func (c Components) wp() int {
	if c.ModulleistungWp > 0 {
		return c.ModulleistungWp
	}
	return ModulleistungFromName(c.module())
}

// Accessories itemizes everything added on top of the module price.
type Accessories struct {
	Optimizer          float64 `json:"optimizer"`
	Wallbox            float64 `json:"wallbox"`
	Batterie           float64 `json:"batterie"`
	Smartmeter         float64 `json:"smartmeter"`
	Notstrom           float64 `json:"notstrom"`
	SmartDongleLte     float64 `json:"smart_dongle_lte"`
	MidZaehler         float64 `json:"mid_zaehler"`
	ApzFeld            float64 `json:"apz_feld"`
	Zaehlerschrank     float64 `json:"zaehlerschrank"`
	Potentialausgleich float64 `json:"potentialausgleich"`
	BetaPlatte         float64 `json:"beta_platte"`
	MetallZiegel       float64 `json:"metall_ziegel"`
	Prefa              float64 `json:"prefa"`
	Wandhalterung      float64 `json:"wandhalterung"`
	Hub                float64 `json:"hub"`
	Elwa               float64 `json:"elwa"`
	Thor               float64 `json:"thor"`
	Heizstab           float64 `json:"heizstab"`
}

// Total sums all accessory prices.
func (a Accessories) Total() float64 {
	return a.Optimizer + a.Wallbox + a.Batterie + a.Smartmeter + a.Notstrom +
		a.SmartDongleLte + a.MidZaehler + a.ApzFeld + a.Zaehlerschrank +
		a.Potentialausgleich + a.BetaPlatte + a.MetallZiegel + a.Prefa +
		a.Wandhalterung + a.Hub + a.Elwa + a.Thor + a.Heizstab
}

func ceilThird(n int) float64 {
	return math.Ceil(float64(n) / 3)
}

// batterie prices a fresh storage installation of count modules.
func (b *book) batterie(model string, count int, kwp float64, zusatzWR bool) float64 {
	if count == 0 {
		return 0
	}
	sm, ok := storageModels[model]
	if !ok {
		return 0
	}
	price := b.accessory(sm.key) * float64(count)
	if sm.leistungsmodul {
		price += ceilThird(count) * b.accessory("leistungsmodul")
	}
	// LUNA 7 racks run out of slots beyond six modules on small systems.
	if zusatzWR && kwp < 25 && model == SpeicherLuna7 && count > 6 {
		price += b.accessory("zusatzwechselrichter")
	}
	return price
}

func (b *book) smartmeter(model string) float64 {
	key, ok := smartmeterKeys[model]
	if !ok {
		return 0
	}
	return b.accessory(key)
}

func (b *book) wallboxPrice(typ string, count int, kabel float64, withCable bool) float64 {
	if count == 0 {
		return 0
	}
	price := b.wallbox(typ) * float64(count)
	if withCable && kabel >= 10 {
		price += (kabel - 10) * b.accessory("kabelpreis")
	}
	return price
}

func mountingLimit(kwp float64) int {
	capped := math.Min(30, kwp)
	for _, l := range mountingLimits {
		if float64(l) >= capped {
			return l
		}
	}
	return mountingLimits[len(mountingLimits)-1]
}

// accessories prices the full accessory list for quotes and tickets.
// batterie is computed by the caller since tickets price it differently.
func (b *book) accessories(c Components, kwp, batterie float64, withCable bool) Accessories {
	var a Accessories
	a.Optimizer = float64(c.AnzOptimizer) * b.accessory("optimizer")
	a.Wallbox = b.wallboxPrice(c.WallboxTyp, c.WallboxAnzahl, c.Kabelanschluss, withCable)
	a.Batterie = batterie
	a.Smartmeter = b.smartmeter(c.SmartmeterModel)
	if c.Notstrom {
		a.Notstrom = b.accessory("backup_box")
	}
	if c.SmartDongleLte {
		a.SmartDongleLte = b.accessory("smartDongleLte")
	}
	if c.MidZaehler > 0 {
		a.MidZaehler = float64(c.MidZaehler) * b.accessory("mid_zaehler")
	}
	if c.ApzFeld {
		a.ApzFeld = b.accessory("apzFeld")
	}
	if c.Zaehlerschrank {
		a.Zaehlerschrank = b.accessory("zaehlerschrank")
	}
	if c.Potentialausgleich {
		a.Potentialausgleich = b.accessory("potentialausgleich")
	}
	if c.BetaPlatte {
		a.BetaPlatte = b.kwp(fmt.Sprintf("BetaPlatte%d", mountingLimit(kwp)))
	}
	if c.MetallZiegel {
		a.MetallZiegel = b.kwp(fmt.Sprintf("MetallZiegel%d", mountingLimit(kwp)))
	}
	if c.PrefaBefestigung {
		a.Prefa = b.accessory("prefa_befestigung") * float64(c.Modulanzahl)
	}
	if c.AnzWandhalterung != 0 {
		a.Wandhalterung = b.accessory("wandhalterung_fuer_speicher") * float64(c.AnzWandhalterung)
	}
	if c.Elwa {
		a.Elwa = b.accessory("elwa_2")
	}
	if c.Thor {
		a.Thor = b.accessory("ac_thor_3_kw")
	}
	if c.Heizstab {
		a.Heizstab = b.accessory("heizstab")
	}
	return a
}

// selfWork applies customer-provided scaffolding and roof hooks after all
// discounts. It returns the adjusted sum and the added discount.
func (b *book) selfWork(c Components, sum float64) (float64, float64) {
	var rabatt float64
	if c.GeruestKunde {
		p := b.accessory("geruestKunde")
		sum -= p
		rabatt += p
	} else if c.GeruestOeffentlich {
		sum += b.accessory("geruestOeffentlich")
	}
	if c.DachhakenKunde {
		p := b.accessory("dachhakenKunde")
		sum -= p
		rabatt += p
	}
	return sum, rabatt
}
