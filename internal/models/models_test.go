package models

import (
	"testing"
	"time"

	"github.com/diewo77/go-vertrieb/internal/pricing"
)

func TestGetUserID(t *testing.T) {
	if got := (&Angebot{UserID: 42}).GetUserID(); got != 42 {
		t.Errorf("Angebot.GetUserID() = %d, want 42", got)
	}
	if got := (&Ticket{UserID: 7}).GetUserID(); got != 7 {
		t.Errorf("Ticket.GetUserID() = %d, want 7", got)
	}
	if got := (&Calculator{UserID: 3}).GetUserID(); got != 3 {
		t.Errorf("Calculator.GetUserID() = %d, want 3", got)
	}
	if got := (&ElectricInvoice{UserID: 456}).GetUserID(); got != 456 {
		t.Errorf("ElectricInvoice.GetUserID() = %d, want 456", got)
	}
}

func TestKunde_SwapNameOrder(t *testing.T) {
	tests := []struct {
		name    string
		kunde   Kunde
		sorted  string
		display string
	}{
		{
			name:    "person",
			kunde:   Kunde{Anrede: AnredeHerr, NameFirstName: "Max", NameLastName: "Mustermann"},
			sorted:  "Mustermann, Max",
			display: "Max Mustermann",
		},
		{
			name:    "person with suffix",
			kunde:   Kunde{Anrede: AnredeFrau, NameFirstName: "Erika", NameLastName: "Muster", NameSuffix: "Dr."},
			sorted:  "Muster, Dr. Erika",
			display: "Dr. Erika Muster",
		},
		{
			name:    "company",
			kunde:   Kunde{Anrede: AnredeFirma, NameFirstName: "ignored", NameLastName: "Solar GmbH"},
			sorted:  "Solar GmbH",
			display: "Solar GmbH",
		},
		{
			name:    "family",
			kunde:   Kunde{Anrede: AnredeFamilie, NameLastName: "Schmidt"},
			sorted:  "Schmidt",
			display: "Schmidt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.kunde.SwapNameOrder(); got != tt.sorted {
				t.Errorf("SwapNameOrder() = %q, want %q", got, tt.sorted)
			}
			if got := tt.kunde.SwapNameOrderPDF(); got != tt.display {
				t.Errorf("SwapNameOrderPDF() = %q, want %q", got, tt.display)
			}
		})
	}
}

func TestKunde_RefreshNamesClearsCompanyFirstName(t *testing.T) {
	k := Kunde{Anrede: AnredeFirma, NameFirstName: "Hans", NameLastName: "Solar GmbH"}
	k.RefreshNames()
	if k.NameFirstName != "" {
		t.Errorf("NameFirstName = %q, want empty", k.NameFirstName)
	}
	if k.Name != "Solar GmbH" || k.NameDisplayValue != "Solar GmbH" {
		t.Errorf("names = %q / %q", k.Name, k.NameDisplayValue)
	}
}

func TestKunde_Addresses(t *testing.T) {
	k := Kunde{Strasse: "Hauptstr. 1", Ort: "12345 Berlin"}
	if got := k.FullAdresse(); got != "Hauptstr. 1\n12345 Berlin" {
		t.Errorf("FullAdresse() = %q", got)
	}
	if got := k.AnlagenStandortOrDefault(); got != "Hauptstr. 1, 12345 Berlin" {
		t.Errorf("AnlagenStandortOrDefault() = %q", got)
	}
	k.Anlagenstandort = "Feldweg 3"
	if got := k.AnlagenStandortOrDefault(); got != "Feldweg 3" {
		t.Errorf("AnlagenStandortOrDefault() = %q", got)
	}
}

func TestFindKundennummer(t *testing.T) {
	data := `[{"zoho_id": "111", "zoho_kundennumer": "K-1"}, {"zoho_id": "222", "zoho_kundennumer": "K-2"}]`
	tests := []struct {
		name string
		data string
		id   int64
		want string
	}{
		{"found", data, 222, "K-2"},
		{"not found", data, 333, ""},
		{"empty", "", 111, ""},
		{"malformed", "{not json", 111, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindKundennummer(tt.data, tt.id); got != tt.want {
				t.Errorf("FindKundennummer() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKunde_ResolveKundennummer(t *testing.T) {
	id := int64(111)
	u := &User{ZohoDataText: `[{"zoho_id": "111", "zoho_kundennumer": "K-1"}]`}

	k := Kunde{ZohoKundennumer: "EXISTING", ZohoID: &id}
	if got := k.ResolveKundennummer(u); got != "EXISTING" {
		t.Errorf("kept number = %q", got)
	}
	k.ZohoKundennumer = ""
	if got := k.ResolveKundennummer(u); got != "K-1" {
		t.Errorf("looked up number = %q", got)
	}
	k.ZohoID = nil
	if got := k.ResolveKundennummer(u); got != "" {
		t.Errorf("no zoho id = %q", got)
	}
}

func TestAngebot_Countdown(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}
	tests := []struct {
		name   string
		field  *time.Time
		want   string
		wantOK bool
	}{
		{"no timestamp", nil, "", false},
		{"just received", at(0), "14 Tage, 0 Stunde, 0 Minute", true},
		{"after a day and a half", at(36*time.Hour + 30*time.Minute), "12 Tage, 11 Stunde, 30 Minute", true},
		{"expired within day 14", at(14*24*time.Hour + time.Hour), "0 days, 0 hours, 0 minutes", true},
		{"outside window", at(16 * 24 * time.Hour), "", false},
		{"in the future", at(-time.Hour), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Angebot{StatusChangeField: tt.field}
			got, ok := a.Countdown(now)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Countdown() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestAngebot_MarkReceivedKeepsFirstTimestamp(t *testing.T) {
	first := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)
	a := &Angebot{}
	a.MarkReceived(first)
	a.MarkReceived(first.Add(48 * time.Hour))

	if !a.IsLocked || !a.CountdownOn {
		t.Fatal("expected locked quote with countdown")
	}
	if !a.StatusChangeField.Equal(first) {
		t.Errorf("StatusChangeField = %v, want %v", a.StatusChangeField, first)
	}
	if a.StatusChangeDate != "02.01.2025" {
		t.Errorf("StatusChangeDate = %q", a.StatusChangeDate)
	}

	a.ClearStatusChange()
	if a.StatusChangeField != nil || a.CountdownOn || a.StatusChangeDate != "" {
		t.Error("ClearStatusChange left state behind")
	}
}

func TestAngebotGueltig(t *testing.T) {
	now := time.Date(2025, 12, 25, 8, 0, 0, 0, time.UTC)
	if got := AngebotGueltig(now); got != "08.01.2026" {
		t.Errorf("AngebotGueltig() = %q", got)
	}
}

func TestGenerateRecordID(t *testing.T) {
	now := time.Date(2025, 1, 31, 14, 25, 1, 0, time.UTC)
	if got := GenerateRecordID(PrefixAngebot, "ABC", now); got != "AN-ABC31012025-142501" {
		t.Errorf("got %q", got)
	}
	if got := GenerateRecordID(PrefixTicket, "", now); got != "ZV-DEFAULT31012025-142501" {
		t.Errorf("got %q", got)
	}
}

func TestStatusChangeMessage(t *testing.T) {
	tests := map[AngebotStatus]string{
		StatusAngenommen: "<<Angenommen>>",
		StatusAbgelaufen: "<<Abgelaufen>>",
		StatusBekommen:   "Status geändert zu <<bekommen>>",
		StatusInKontakt:  "Status geändert zu <<in Kontakt>>",
		StatusNone:       "",
	}
	for status, want := range tests {
		if got := StatusChangeMessage(status); got != want {
			t.Errorf("StatusChangeMessage(%q) = %q, want %q", status, got, want)
		}
	}
}

func TestElectricInvoice_Total(t *testing.T) {
	p := pricing.NewPrices()
	p.Elektrik["Kabelkanal 30x30mm"] = 4.5
	p.Elektrik["Hauptschalter 3x63A"] = 80

	inv := &ElectricInvoice{Positions: []Position{
		{Position: "Kabelkanal 30x30mm", Quantity: 10},
		{Position: "Hauptschalter 3x63A", Quantity: 1},
		{Position: "Kupferschiene N", Quantity: 2},
	}}
	total, missing := inv.Total(p)
	if total != 125 {
		t.Errorf("Total() = %v, want 125", total)
	}
	if len(missing) != 1 || missing[0] != "Kupferschiene N" {
		t.Errorf("missing = %v", missing)
	}
}

func TestAngebot_RecomputeStoresDerivedFields(t *testing.T) {
	p := pricing.NewPrices()
	p.Module[DefaultSolarModule] = pricing.Module{Price: 100, Zuschlag: 1, ModuleGarantie: "25 Jahre"}
	p.Kwp["Preis5"] = 1000
	p.Kwp["Preis7"] = 900
	p.Values["sehr_komplex"] = 1
	p.Values["steuersatz"] = 0.19
	p.Values["erzeugung_sued"] = 1000

	kuerzel := "MM"
	u := &User{FirstName: "Mia", LastName: "Muster", Kuerzel: &kuerzel}
	a := &Angebot{
		Kunde:        Kunde{Anrede: AnredeHerr, NameFirstName: "Max", NameLastName: "Mustermann", Strasse: "Weg 1", Ort: "Ort"},
		EnergyInputs: EnergyInputs{Verbrauch: 5000, Ausrichtung: AusrichtungSued, Komplex: KomplexSehrKomplex, Zeitraum: 1, Arbeitspreis: 40},
		Anlage:       Anlage{SolarModule: DefaultSolarModule, Modulanzahl: 15},
		Hersteller:   HerstellerViessmann,
	}
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	r := a.Recompute(p, u, now)

	if a.ModulleistungWp != 420 {
		t.Errorf("ModulleistungWp = %d", a.ModulleistungWp)
	}
	// 6.3 kWp: 5*1000 + 1.3*900
	if a.Angebotsumme != 6170 || r.Angebotsumme != 6170 {
		t.Errorf("Angebotsumme = %v", a.Angebotsumme)
	}
	if a.SolarModuleAngebotPrice != 1500 {
		t.Errorf("SolarModuleAngebotPrice = %v", a.SolarModuleAngebotPrice)
	}
	if a.Name != "Mustermann, Max" || a.NameDisplayValue != "Max Mustermann" {
		t.Errorf("names = %q / %q", a.Name, a.NameDisplayValue)
	}
	if a.AnfrageVom != "01-May-2025" {
		t.Errorf("AnfrageVom = %q", a.AnfrageVom)
	}
	if len(a.ArbeitsListe) != 1 || len(a.RestListe) != 1 {
		t.Errorf("lists = %v / %v", a.ArbeitsListe, a.RestListe)
	}
	if a.AgData == nil {
		t.Fatal("AgData not set")
	}
	if a.AgData.VertriebAbk != "MM" || a.AgData.ProduktGarantie != "25 Jahre" || a.AgData.Gueltig != "15.05.2025" {
		t.Errorf("document header = %+v", a.AgData)
	}
	if a.AgData.Energy == nil || a.AgData.Energy.ErzeugteEnergie != 6300 {
		t.Errorf("document energy = %+v", a.AgData.Energy)
	}
}

func TestTicket_RecomputeWithAcceptedOffer(t *testing.T) {
	p := pricing.NewPrices()
	p.Module[DefaultSolarModule] = pricing.Module{Price: 100, Zuschlag: 1}
	p.Accessories["batteriemodul_huawei7"] = 2000
	p.Accessories["leistungsmodul"] = 500

	accepted := &Angebot{
		AngebotID: "AN-MM01012025-100000",
		Anlage: Anlage{
			SolarModule: DefaultSolarModule, ModulleistungWp: 420, Modulanzahl: 20,
			SpeicherModel: pricing.SpeicherLuna7, AnzSpeicher: 2,
		},
	}
	tk := &Ticket{Anlage: Anlage{SpeicherModel: pricing.SpeicherLuna7, AnzSpeicher: 1}}
	r := tk.Recompute(p, nil, accepted, time.Now())

	if tk.AngenommenesAngebot != accepted.AngebotID {
		t.Errorf("AngenommenesAngebot = %q", tk.AngenommenesAngebot)
	}
	if r.ExistingKWp != 8.4 {
		t.Errorf("ExistingKWp = %v", r.ExistingKWp)
	}
	// 2 + 1 modules stay within one power module
	if tk.BatteriespeicherAngebotPrice != 2000 {
		t.Errorf("battery = %v", tk.BatteriespeicherAngebotPrice)
	}
	if tk.Bauteile != "20x "+DefaultSolarModule+"\n2x Batteriemodul LUNA 2000-7-S1\n" {
		t.Errorf("Bauteile = %q", tk.Bauteile)
	}
	if tk.AgData == nil || tk.AgData.ExistingKWp != 8.4 {
		t.Errorf("document = %+v", tk.AgData)
	}
}
