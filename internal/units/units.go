// Package units holds the unit and currency registry used by the evaluator and
// the result formatter. A Registry is built once at startup from a fixed table,
// optionally adjusted with configured currency rates, and is read-only afterwards.
package units

import (
	"github.com/shopspring/decimal"
)

// Base dimensions. Currency is treated as its own dimension so that money never
// converts to a physical quantity.
const (
	Length = iota
	Mass
	Time
	Current
	Temperature
	Angle
	Currency
	dimCount
)

var dimNames = [dimCount]string{"LENGTH", "MASS", "TIME", "CURRENT", "TEMPERATURE", "ANGLE", "CURRENCY"}

// Dimension is a vector of exponents over the base dimensions.
type Dimension [dimCount]int8

func (d Dimension) Add(o Dimension) Dimension {
	var out Dimension
	for i := range d {
		out[i] = d[i] + o[i]
	}
	return out
}

func (d Dimension) Mul(n int) Dimension {
	var out Dimension
	for i := range d {
		out[i] = d[i] * int8(n)
	}
	return out
}

func (d Dimension) IsZero() bool {
	return d == Dimension{}
}

// Is reports whether d is exactly the single base dimension idx.
func (d Dimension) Is(idx int) bool {
	var want Dimension
	want[idx] = 1
	return d == want
}

func (d Dimension) String() string {
	s := ""
	for i, p := range d {
		if p == 0 {
			continue
		}
		if s != "" {
			s += " "
		}
		s += dimNames[i]
		if p != 1 {
			s += "^" + decimal.NewFromInt(int64(p)).String()
		}
	}
	if s == "" {
		return "DIMENSIONLESS"
	}
	return s
}

// Unit is a named unit. A value v expressed in the unit equals (v+Offset)*Scale
// in base units.
type Unit struct {
	Name      string
	Title     string
	Aliases   []string
	Scale     decimal.Decimal
	Offset    decimal.Decimal
	Dim       Dimension
	Currency  bool
	Precision int32
}

// HasOffset reports whether the unit is affine (degC, degF).
func (u *Unit) HasOffset() bool {
	return !u.Offset.IsZero()
}

// Rate returns the value of one currency unit in the base currency.
func (u *Unit) Rate() decimal.Decimal {
	return u.Scale
}
