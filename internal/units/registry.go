package units

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnknownUnit is returned when a definition refers to a unit that is not
// registered yet.
var ErrUnknownUnit = errors.New("unknown unit")

// divPlaces is the number of fractional digits kept when a scale needs a
// division (5/9, pi/180).
const divPlaces = 66

// Pi to 80 digits, enough for the 64 digit arithmetic of the evaluator.
var Pi = decimal.RequireFromString("3.1415926535897932384626433832795028841971693993751058209749445923078164062862")

// KeepPrecision as a CurrencyRate precision keeps the table precision of an
// existing currency, and means 2 decimals for a new one.
const KeepPrecision int32 = -1

// CurrencyRate overrides or adds a currency at registry construction.
type CurrencyRate struct {
	Code      string
	Title     string
	Rate      decimal.Decimal
	Precision int32
}

// Registry resolves unit names and aliases. It is immutable once built and
// safe for concurrent use.
type Registry struct {
	units      map[string]*Unit
	currencies []*Unit
}

// NewRegistry builds the registry from the built-in tables and applies the
// given currency overrides. Rates are expressed in BaseCurrency.
func NewRegistry(overrides ...CurrencyRate) (*Registry, error) {
	r := &Registry{units: make(map[string]*Unit)}

	for _, def := range currencyTable {
		u, err := r.build(def)
		if err != nil {
			return nil, fmt.Errorf("currency %s: %w", def.name, err)
		}
		u.Currency = true
		u.Aliases = append(u.Aliases, strings.ToLower(def.name))
		r.add(u)
		r.currencies = append(r.currencies, u)
	}

	for _, o := range overrides {
		if err := r.applyRate(o); err != nil {
			return nil, err
		}
	}

	for _, def := range physicalTable {
		u, err := r.build(def)
		if err != nil {
			return nil, fmt.Errorf("unit %s: %w", def.name, err)
		}
		r.add(u)
	}

	return r, nil
}

func (r *Registry) add(u *Unit) {
	r.units[u.Name] = u
	for _, a := range u.Aliases {
		if _, taken := r.units[a]; !taken {
			r.units[a] = u
		}
	}
}

func (r *Registry) build(def unitDef) (*Unit, error) {
	u := &Unit{
		Name:      def.name,
		Title:     def.title,
		Aliases:   append([]string(nil), def.aliases...),
		Precision: def.precision,
	}

	if def.offset != "" {
		off, err := parseScale(def.offset)
		if err != nil {
			return nil, err
		}
		u.Offset = off
	}

	if def.base != nil {
		scale, err := parseScale(def.scale)
		if err != nil {
			return nil, err
		}
		u.Dim = *def.base
		u.Scale = scale
		return u, nil
	}

	amount, ref, ok := strings.Cut(strings.TrimSpace(def.definition), " ")
	if !ok {
		return nil, fmt.Errorf("malformed definition %q", def.definition)
	}
	n, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("definition %q: %w", def.definition, err)
	}
	parent, found := r.units[strings.TrimSpace(ref)]
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUnit, ref)
	}
	u.Dim = parent.Dim
	u.Scale = n.Mul(parent.Scale)
	return u, nil
}

func (r *Registry) applyRate(o CurrencyRate) error {
	code := strings.ToUpper(strings.TrimSpace(o.Code))
	if code == "" {
		return errors.New("currency override without code")
	}
	if !o.Rate.IsPositive() {
		return fmt.Errorf("currency %s: rate must be positive, got %s", code, o.Rate)
	}
	if code == BaseCurrency && !o.Rate.Equal(decimal.NewFromInt(1)) {
		return fmt.Errorf("currency %s is the base currency and must have rate 1", code)
	}

	if u, ok := r.units[code]; ok && u.Currency {
		u.Scale = o.Rate
		if o.Precision != KeepPrecision {
			u.Precision = o.Precision
		}
		if o.Title != "" {
			u.Title = o.Title
		}
		return nil
	}

	if o.Precision == KeepPrecision {
		o.Precision = 2
	}
	u := &Unit{
		Name:      code,
		Title:     o.Title,
		Aliases:   []string{strings.ToLower(code)},
		Scale:     o.Rate,
		Currency:  true,
		Precision: o.Precision,
	}
	u.Dim[Currency] = 1
	if u.Title == "" {
		u.Title = code
	}
	r.add(u)
	r.currencies = append(r.currencies, u)
	return nil
}

// Lookup resolves a unit by name or alias. Names are case-sensitive.
func (r *Registry) Lookup(name string) (*Unit, bool) {
	u, ok := r.units[name]
	return u, ok
}

// Currency returns the currency with the given code.
func (r *Registry) Currency(code string) (*Unit, bool) {
	u, ok := r.units[code]
	if !ok || !u.Currency || u.Name != code {
		return nil, false
	}
	return u, true
}

// Currencies returns the registered currencies in table order.
func (r *Registry) Currencies() []*Unit {
	return append([]*Unit(nil), r.currencies...)
}

// Names returns every unit name (not aliases), sorted.
func (r *Registry) Names() []string {
	seen := make(map[string]bool)
	var out []string
	for _, u := range r.units {
		if !seen[u.Name] {
			seen[u.Name] = true
			out = append(out, u.Name)
		}
	}
	sort.Strings(out)
	return out
}

// parseScale understands plain decimals, "pi" and a single "a/b" fraction.
func parseScale(s string) (decimal.Decimal, error) {
	num, den, frac := strings.Cut(s, "/")
	n, err := parseAmount(num)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !frac {
		return n, nil
	}
	d, err := parseAmount(den)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return n.DivRound(d, divPlaces), nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "pi" {
		return Pi, nil
	}
	return decimal.NewFromString(s)
}
