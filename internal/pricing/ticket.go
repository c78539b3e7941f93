package pricing

import (
	"fmt"
	"strings"
)

// AcceptedOffer is the part of an accepted quote a ticket builds on.
type AcceptedOffer struct {
	AngebotID     string  `json:"angebot_id"`
	KWp           float64 `json:"kwp"`
	SolarModule   string  `json:"solar_module"`
	Modulanzahl   int     `json:"modulanzahl"`
	AnzOptimizer  int     `json:"anzOptimizer"`
	SpeicherModel string  `json:"speicher_model"`
	AnzSpeicher   int     `json:"anz_speicher"`
	WallboxTyp    string  `json:"wallboxtyp"`
	WallboxAnzahl int     `json:"wallbox_anzahl"`
}

// TicketInput prices an extension of an installation. Accepted is nil when
// no accepted quote exists for the customer.
type TicketInput struct {
	Components
	UsersAufschlag float64        `json:"users_aufschlag"`
	Accepted       *AcceptedOffer `json:"-"`
}

// TicketResult holds the derived values of a ticket.
type TicketResult struct {
	ModulleistungWp    int         `json:"modulleistungWp"`
	ExistingKWp        float64     `json:"existing_kwp"`
	TicketKWp          float64     `json:"ticket_kwp"`
	KWp                float64     `json:"kwp"`
	AnzLeistungsModule int         `json:"anz_leistungs_module"`
	Accessories        Accessories `json:"accessories"`
	SolarModulePreis   float64     `json:"solar_module_preis"`
	BatteriePreis      float64     `json:"batterie_preis"`
	SmartmeterPreis    float64     `json:"smartmeter_preis"`
	WallboxPreis       float64     `json:"wallbox_preis"`
	NotstromPreis      float64     `json:"notstrom_preis"`
	OptimizerPreis     float64     `json:"optimizer_preis"`
	Steuersatz         float64     `json:"steuersatz"`
	Summe              float64     `json:"-"`
	Angebotsumme       float64     `json:"angebotsumme"`
	Rabattsumme        float64     `json:"rabattsumme"`
	KostenPVA          float64     `json:"kosten_pva"`
	Missing            []string    `json:"missing,omitempty"`
}

func ceilThirdInt(n int) int {
	return int(ceilThird(n))
}

// ticketBatterie prices storage modules added on top of an accepted quote.
func (b *book) ticketBatterie(in TicketInput, kwp float64) float64 {
	count := in.AnzSpeicher
	if count == 0 {
		return 0
	}
	acc := in.Accepted
	if acc == nil || acc.AnzSpeicher == 0 {
		return b.batterie(in.SpeicherModel, count, kwp, true)
	}
	sm, ok := storageModels[in.SpeicherModel]
	if !ok {
		return 0
	}
	prev := acc.AnzSpeicher
	leist := b.accessory("leistungsmodul")

	var price float64
	if in.SpeicherModel == acc.SpeicherModel {
		price = b.accessory(sm.key) * float64(count)
		if sm.leistungsmodul {
			price += float64(ceilThirdInt(count+prev)-ceilThirdInt(prev)) * leist
		}
	} else {
		price = b.accessory(sm.key) * float64(count)
		if prevModel, ok := storageModels[acc.SpeicherModel]; ok {
			price -= b.accessory(prevModel.key) * float64(prev)
		}
		if sm.leistungsmodul {
			price += float64(ceilThirdInt(count)-ceilThirdInt(prev)) * leist
		}
	}
	// Only charge the extra inverter when this ticket crosses the six module limit.
	if kwp < 25 && in.SpeicherModel == SpeicherLuna7 && prev <= 6 && count+prev > 6 {
		price += b.accessory("zusatzwechselrichter")
	}
	return price
}

// AnzLeistungsModule is the number of additional power modules a ticket needs.
func AnzLeistungsModule(count int, acc *AcceptedOffer) int {
	if acc == nil {
		return ceilThirdInt(count)
	}
	return ceilThirdInt(count+acc.AnzSpeicher) - ceilThirdInt(acc.AnzSpeicher)
}

// CalculateTicket prices a ticket against the catalog snapshot.
func CalculateTicket(p *Prices, in TicketInput) TicketResult {
	b := newBook(p)
	var r TicketResult

	r.ModulleistungWp = in.wp()
	if in.Accepted != nil {
		r.ExistingKWp = Round2(in.Accepted.KWp)
	}
	r.TicketKWp = Round2(KWp(r.ModulleistungWp, in.Modulanzahl))
	r.KWp = Round2(r.ExistingKWp + r.TicketKWp)
	r.AnzLeistungsModule = AnzLeistungsModule(in.AnzSpeicher, in.Accepted)

	mod := b.module(in.module())
	r.SolarModulePreis = mod.Price * float64(in.Modulanzahl)

	r.BatteriePreis = b.ticketBatterie(in, r.KWp)
	r.Accessories = b.accessories(in.Components, r.KWp, r.BatteriePreis, false)
	r.SmartmeterPreis = r.Accessories.Smartmeter
	r.WallboxPreis = r.Accessories.Wallbox
	r.OptimizerPreis = r.Accessories.Optimizer
	r.NotstromPreis = b.accessory("backup_box")

	sum := r.SolarModulePreis + r.Accessories.Total()
	sum *= 1 + in.UsersAufschlag/100
	sum, rabatt := b.selfWork(in.Components, sum)

	r.Summe = sum
	r.Angebotsumme = Round2(sum)
	r.Rabattsumme = Round2(rabatt)
	r.Steuersatz = b.value("steuersatz")
	r.KostenPVA = sum * (1 + r.Steuersatz)
	r.Missing = b.missingKeys()
	return r
}

// BauteileFinder lists the parts of an accepted quote, one "Nx part" per line.
func BauteileFinder(acc *AcceptedOffer) string {
	if acc == nil {
		return ""
	}
	var sb strings.Builder
	if acc.Modulanzahl > 0 {
		fmt.Fprintf(&sb, "%dx %s\n", acc.Modulanzahl, acc.SolarModule)
	}
	if acc.AnzOptimizer > 0 {
		fmt.Fprintf(&sb, "%dx Optimierer\n", acc.AnzOptimizer)
	}
	if acc.AnzSpeicher > 0 {
		fmt.Fprintf(&sb, "%dx Batteriemodul %s\n", acc.AnzSpeicher, acc.SpeicherModel)
	}
	if acc.WallboxAnzahl > 0 {
		fmt.Fprintf(&sb, "%dx  %s\n", acc.WallboxAnzahl, acc.WallboxTyp)
	}
	return sb.String()
}
