package calculator

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"go-chi-calculator/internal/evaluator"
)

const (
	// numberPrecision is the significant digit count for plain floats.
	numberPrecision = 15
	// unitPrecision is the significant digit count for non-currency quantities.
	unitPrecision = 10

	// Auto notation switches to exponential outside [1e-3, 1e5).
	autoLowerExp = -3
	autoUpperExp = 5

	// maxIntegerDigits caps integers written out digit by digit; longer ones
	// use exponential notation.
	maxIntegerDigits = 4096
)

// Format renders a value for the display according to mode and base. The
// second return value is an advisory, empty when the value could be shown as
// requested.
func Format(v evaluator.Value, base Base, precision int, mode Mode) (string, string) {
	wantsBase := nonDecimal(mode, base)

	switch x := v.(type) {
	case evaluator.BigNumber:
		if !x.IsInteger() {
			text := formatAuto(x.Decimal, precision)
			if wantsBase {
				return text, notIntegerAdvisory
			}
			return text, ""
		}
		if numDigits(x.Decimal)+int(x.Exponent()) > maxIntegerDigits {
			text := formatAuto(x.Decimal, precision)
			if wantsBase {
				return text, fmt.Sprintf("Info: Result too large for base %s. Displaying in decimal.", base)
			}
			return text, ""
		}
		return formatInteger(x.BigInt(), base, mode), ""

	case evaluator.Number:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			text := formatFloat(f, numberPrecision)
			if wantsBase {
				return text, notIntegerAdvisory
			}
			return text, ""
		}
		if math.Abs(f) >= 1e21 {
			return formatFloat(f, numberPrecision), ""
		}
		n, _ := big.NewFloat(f).Int(nil)
		return formatInteger(n, base, mode), ""

	case evaluator.Quantity:
		if u, ok := x.Currency(); ok {
			return x.Amount.StringFixed(u.Precision) + " " + u.Name, ""
		}
		text := formatAuto(x.Amount, unitPrecision) + " " + x.UnitString()
		if wantsBase {
			return text, fmt.Sprintf("Info: Result has units. Base %s only for dimensionless integers. Displaying in decimal.", base)
		}
		return text, ""

	case evaluator.Bool, evaluator.Null, evaluator.Undefined:
		return x.String(), ""

	case nil:
		return evaluator.Undefined{}.String(), ""
	}

	if wantsBase {
		return v.String(), fmt.Sprintf("Info: Result type not directly convertible to base %s. Displaying in standard format.", base)
	}
	return v.String(), ""
}

const notIntegerAdvisory = "Info: Result is not an integer. Displaying in decimal."

func formatInteger(n *big.Int, base Base, mode Mode) string {
	if mode != Programming {
		return n.String()
	}
	return strings.ToUpper(n.Text(base.Radix()))
}

func formatFloat(f float64, sig int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return formatAuto(decimal.NewFromFloat(f), sig)
}

// formatAuto rounds d to sig significant digits and picks fixed or
// exponential notation by the decimal exponent, e.g. "0.001", "1.2e-4",
// "12345.6", "1.23456e+5".
func formatAuto(d decimal.Decimal, sig int) string {
	if d.IsZero() {
		return "0"
	}
	d = roundSignificant(d, sig)
	exp := numDigits(d) + int(d.Exponent()) - 1

	if exp >= autoLowerExp && exp < autoUpperExp {
		return d.String()
	}

	digits := strings.TrimRight(new(big.Int).Abs(d.Coefficient()).String(), "0")
	if digits == "" {
		digits = "0"
	}
	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(digits[:1])
	if len(digits) > 1 {
		b.WriteByte('.')
		b.WriteString(digits[1:])
	}
	b.WriteByte('e')
	if exp >= 0 {
		b.WriteByte('+')
	}
	b.WriteString(strconv.Itoa(exp))
	return b.String()
}

func roundSignificant(d decimal.Decimal, sig int) decimal.Decimal {
	places := sig - (numDigits(d) + int(d.Exponent()))
	if int(-d.Exponent()) > places {
		d = d.Round(int32(places))
	}
	return d
}

// numDigits counts the digits of the coefficient. Decimal.NumDigits estimates
// through float64 and can be one off near powers of ten.
func numDigits(d decimal.Decimal) int {
	return len(new(big.Int).Abs(d.Coefficient()).String())
}
