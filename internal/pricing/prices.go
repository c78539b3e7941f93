// Package pricing computes offer sums, accessory prices and the energy
// amortization figures for photovoltaic quotes. It works on an in-memory
// snapshot of the price catalog and never touches the database.
package pricing

import (
	"sort"
	"sync"
)

// DefaultSolarModule is used whenever a quote does not name a module.
const DefaultSolarModule = "Phono Solar PS420M7GFH-18/VNH"

// Catalog table names, used to qualify missing price keys.
const (
	TableKwp          = "kwp"
	TableGarantie     = "garantie"
	TableModule       = "module"
	TableWallbox      = "wallbox"
	TableAccessories  = "accessories"
	TableElektrik     = "elektrik"
	TableSonderrabatt = "sonderrabatt"
	TableValues       = "values"
)

// Module is a solar module catalog row.
type Module struct {
	Price             float64 `json:"price"`
	Zuschlag          float64 `json:"zuschlag"`
	ModuleGarantie    string  `json:"module_garantie,omitempty"`
	LeistungsGarantie string  `json:"leistungs_garantie,omitempty"`
}

// Sonderrabatt is a named special discount.
type Sonderrabatt struct {
	Prozentsatz float64 `json:"prozentsatz"`
	Fixbetrag   float64 `json:"fixbetrag"`
}

// Prices is a read-only snapshot of all price catalog tables keyed by name.
// A snapshot is shared between requests and must not be mutated once built.
type Prices struct {
	Kwp          map[string]float64      `json:"kwp"`
	Garantie     map[string]float64      `json:"garantie"`
	Module       map[string]Module       `json:"module"`
	Wallbox      map[string]float64      `json:"wallbox"`
	WallboxText  map[string]string       `json:"wallbox_text,omitempty"`
	Accessories  map[string]float64      `json:"accessories"`
	Elektrik     map[string]float64      `json:"elektrik"`
	Sonderrabatt map[string]Sonderrabatt `json:"sonderrabatt"`
	Values       map[string]float64      `json:"values"`
}

// NewPrices returns an empty snapshot with all maps allocated.
func NewPrices() *Prices {
	return &Prices{
		Kwp:          map[string]float64{},
		Garantie:     map[string]float64{},
		Module:       map[string]Module{},
		Wallbox:      map[string]float64{},
		WallboxText:  map[string]string{},
		Accessories:  map[string]float64{},
		Elektrik:     map[string]float64{},
		Sonderrabatt: map[string]Sonderrabatt{},
		Values:       map[string]float64{},
	}
}

// book resolves catalog lookups for a single calculation. Unknown names
// price at zero and are remembered so the caller can report them.
type book struct {
	p       *Prices
	mu      sync.Mutex
	missing map[string]struct{}
}

func newBook(p *Prices) *book {
	if p == nil {
		p = NewPrices()
	}
	return &book{p: p, missing: map[string]struct{}{}}
}

func (b *book) miss(table, name string) {
	b.mu.Lock()
	b.missing[table+":"+name] = struct{}{}
	b.mu.Unlock()
}

func (b *book) lookup(table string, m map[string]float64, name string) float64 {
	if v, ok := m[name]; ok {
		return v
	}
	b.miss(table, name)
	return 0
}

func (b *book) accessory(name string) float64 {
	return b.lookup(TableAccessories, b.p.Accessories, name)
}

func (b *book) kwp(name string) float64 { return b.lookup(TableKwp, b.p.Kwp, name) }

func (b *book) garantie(name string) float64 {
	return b.lookup(TableGarantie, b.p.Garantie, name)
}

func (b *book) wallbox(name string) float64 {
	return b.lookup(TableWallbox, b.p.Wallbox, name)
}

func (b *book) value(name string) float64 { return b.lookup(TableValues, b.p.Values, name) }

func (b *book) module(name string) Module {
	if m, ok := b.p.Module[name]; ok {
		return m
	}
	b.miss(TableModule, name)
	return Module{}
}

func (b *book) sonderrabatt(name string) (Sonderrabatt, bool) {
	if s, ok := b.p.Sonderrabatt[name]; ok {
		return s, true
	}
	b.miss(TableSonderrabatt, name)
	return Sonderrabatt{}, false
}

// missingKeys returns the sorted "table:name" keys that were not found.
func (b *book) missingKeys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.missing) == 0 {
		return nil
	}
	out := make([]string, 0, len(b.missing))
	for k := range b.missing {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ElektrikPrice returns the electrician position price for name and whether it exists.
func (p *Prices) ElektrikPrice(name string) (float64, bool) {
	if p == nil {
		return 0, false
	}
	v, ok := p.Elektrik[name]
	return v, ok
}

// Value returns a configuration value, zero when absent.
func (p *Prices) Value(name string) float64 {
	if p == nil {
		return 0
	}
	return p.Values[name]
}
