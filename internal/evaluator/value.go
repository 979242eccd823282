package evaluator

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"go-chi-calculator/internal/units"
)

// Value is the result of an evaluation. The concrete types are BigNumber,
// Number, Quantity, Bool, Null, Undefined and Complex.
type Value interface {
	String() string
	isValue()
}

// BigNumber is an arbitrary-precision decimal. Number literals evaluate to
// BigNumbers.
type BigNumber struct {
	decimal.Decimal
}

// Number is a machine float, produced by the degree-mode trig overrides and by
// non-finite results.
type Number float64

// Quantity is an amount carrying units, currencies included.
type Quantity struct {
	Amount decimal.Decimal
	Terms  []Term
}

// Term is one unit raised to an integer power.
type Term struct {
	Unit  *units.Unit
	Power int
}

type Bool bool

type Null struct{}

type Undefined struct{}

// Complex is returned where a real result does not exist, e.g. sqrt(-4).
type Complex complex128

func (BigNumber) isValue() {}
func (Number) isValue()    {}
func (Quantity) isValue()  {}
func (Bool) isValue()      {}
func (Null) isValue()      {}
func (Undefined) isValue() {}
func (Complex) isValue()   {}

func Big(d decimal.Decimal) BigNumber {
	return BigNumber{Decimal: d}
}

func (n Number) String() string {
	f := float64(n)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (b Bool) String() string {
	return strconv.FormatBool(bool(b))
}

func (Null) String() string { return "null" }

func (Undefined) String() string { return "undefined" }

func (c Complex) String() string {
	re, im := real(c), imag(c)
	f := func(x float64) string { return strconv.FormatFloat(x, 'g', -1, 64) }
	switch {
	case im == 0:
		return f(re)
	case re == 0:
		return f(im) + "i"
	case im < 0:
		return f(re) + " - " + f(-im) + "i"
	}
	return f(re) + " + " + f(im) + "i"
}

func (q Quantity) String() string {
	return q.Amount.String() + " " + q.UnitString()
}

// Dim is the combined dimension of all terms.
func (q Quantity) Dim() units.Dimension {
	var d units.Dimension
	for _, t := range q.Terms {
		d = d.Add(t.Unit.Dim.Mul(t.Power))
	}
	return d
}

// Currency returns the currency unit when the quantity is a plain amount of a
// single currency.
func (q Quantity) Currency() (*units.Unit, bool) {
	if len(q.Terms) != 1 || q.Terms[0].Power != 1 || !q.Terms[0].Unit.Currency {
		return nil, false
	}
	return q.Terms[0].Unit, true
}

// UnitString renders the terms as "m / s^2" or "m^3 / (kg s^2)".
func (q Quantity) UnitString() string {
	var num, den []string
	for _, t := range q.Terms {
		switch {
		case t.Power > 0:
			num = append(num, termString(t.Unit.Name, t.Power))
		case t.Power < 0:
			den = append(den, termString(t.Unit.Name, -t.Power))
		}
	}

	if len(num) == 0 {
		neg := make([]string, 0, len(den))
		for _, t := range q.Terms {
			neg = append(neg, t.Unit.Name+"^"+strconv.Itoa(t.Power))
		}
		return strings.Join(neg, " ")
	}

	s := strings.Join(num, " ")
	switch len(den) {
	case 0:
		return s
	case 1:
		return s + " / " + den[0]
	}
	return s + " / (" + strings.Join(den, " ") + ")"
}

func termString(name string, p int) string {
	if p == 1 {
		return name
	}
	return name + "^" + strconv.Itoa(p)
}

// IsNumeric reports whether v is a BigNumber or a Number.
func IsNumeric(v Value) bool {
	switch v.(type) {
	case BigNumber, Number:
		return true
	}
	return false
}

// KindOf names the variant of v, as exposed by the API.
func KindOf(v Value) string {
	switch v.(type) {
	case BigNumber:
		return "bignumber"
	case Number:
		return "number"
	case Quantity:
		return "unit"
	case Bool:
		return "boolean"
	case Null:
		return "null"
	case Undefined, nil:
		return "undefined"
	case Complex:
		return "complex"
	}
	return "unknown"
}
