package pricing

// battUsageCalculator maps the number of storage modules to the
// self-consumption factor.
var battUsageCalculator = map[int]float64{1: 0.6, 2: 0.7, 3: 0.75, 4: 0.8, 5: 0.85, 6: 0.92}

// DefaultBattUsageCalculator applies to calculator runs without storage.
const DefaultBattUsageCalculator = 0.3

// CalculatorInput is the quick estimate a sales rep runs before a quote exists.
type CalculatorInput struct {
	Energy
	Components

	Speicher       bool    `json:"speicher"`
	Komplex        string  `json:"komplex"`
	GarantieWR     string  `json:"garantieWR"`
	UsersAufschlag float64 `json:"users_aufschlag"`
}

// CalculatorResult holds the derived values of a calculator run.
type CalculatorResult struct {
	ModulleistungWp  int          `json:"modulleistungWp"`
	KWp              float64      `json:"kwp"`
	Accessories      Accessories  `json:"accessories"`
	SolarModulePreis float64      `json:"solar_module_preis"`
	BatteriePreis    float64      `json:"batterie_preis"`
	WallboxPreis     float64      `json:"wallbox_preis"`
	NotstromPreis    float64      `json:"notstrom_preis"`
	OptimizerPreis   float64      `json:"optimizer_preis"`
	GarantiePreis    float64      `json:"garantie_preis"`
	Summe            float64      `json:"-"`
	Angebotsumme     float64      `json:"angebotsumme"`
	FullTicketPreis  float64      `json:"full_ticket_preis"`
	Energy           EnergyResult `json:"energy"`
	Missing          []string     `json:"missing,omitempty"`
}

// BattUsageCalculator returns the self-consumption factor for count modules,
// capped at six.
func BattUsageCalculator(speicher bool, count int) float64 {
	if !speicher || count <= 0 {
		return DefaultBattUsageCalculator
	}
	return battUsageCalculator[min(count, 6)]
}

// CalculateCalculator prices a calculator run. It has no discounts and only
// a subset of the quote accessories.
func CalculateCalculator(p *Prices, in CalculatorInput) CalculatorResult {
	b := newBook(p)
	var r CalculatorResult

	r.ModulleistungWp = in.wp()
	r.KWp = KWp(r.ModulleistungWp, in.Modulanzahl)
	mod := b.module(in.module())
	r.SolarModulePreis = mod.Price * float64(in.Modulanzahl)

	r.BatteriePreis = b.batterie(in.SpeicherModel, in.AnzSpeicher, r.KWp, false)

	var a Accessories
	a.Optimizer = float64(in.AnzOptimizer) * b.accessory("optimizer")
	a.Wallbox = b.wallboxPrice(in.WallboxTyp, in.WallboxAnzahl, in.Kabelanschluss, true)
	a.Batterie = r.BatteriePreis
	if in.Notstrom {
		a.Notstrom = b.accessory("backup_box")
	}
	if in.HubIncluded {
		a.Hub = b.accessory("hub")
	}
	if in.Elwa {
		a.Elwa = b.accessory("elwa_2")
	}
	if in.Thor {
		a.Thor = b.accessory("ac_thor_3_kw")
	}
	if in.Heizstab {
		a.Heizstab = b.accessory("heizstab")
	}
	r.Accessories = a
	r.WallboxPreis = a.Wallbox
	r.OptimizerPreis = a.Optimizer
	r.NotstromPreis = b.accessory("backup_box")
	r.FullTicketPreis = a.Total()

	sum := b.tierSum(r.KWp, mod.Zuschlag)
	sum *= b.komplexFaktor(in.Komplex)
	sum += a.Total()
	r.GarantiePreis = b.garantiePrice(in.GarantieWR, r.KWp)
	sum += r.GarantiePreis
	sum *= 1 + in.UsersAufschlag/100

	r.Summe = sum
	r.Angebotsumme = Round2(sum)
	r.Energy = b.energy(in.Energy, r.KWp, BattUsageCalculator(in.Speicher, in.AnzSpeicher), sum)
	r.Missing = b.missingKeys()
	return r
}
