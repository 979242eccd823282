package evaluator

import (
	"fmt"
	"math"
	"math/big"
	"math/cmplx"
	"strings"

	"github.com/shopspring/decimal"
)

// Precision is the number of significant digits BigNumber arithmetic keeps.
const Precision = 64

// guardDigits are carried through intermediate steps before the final rounding.
const guardDigits = 4

// maxFactorial bounds n! so a stray keystroke cannot stall a request.
const maxFactorial = 5000

// maxShift bounds the shift count of << and >>.
const maxShift = 1 << 16

// maxExponent bounds the decimal exponent of literals and BigNumber results.
// Products and quotients beyond it become Infinity or zero.
const maxExponent = 1_000_000

// Range codes reported by the checked operations.
const (
	inRange   = 0
	overflow  = 1
	underflow = -1
)

var (
	decOne = decimal.NewFromInt(1)
	decTwo = decimal.NewFromInt(2)
)

// roundSig rounds d to sig significant digits.
func roundSig(d decimal.Decimal, sig int) decimal.Decimal {
	if d.IsZero() {
		return d
	}
	intDigits := numDigits(d) + int(d.Exponent())
	places := sig - intDigits
	if int(-d.Exponent()) > places {
		return d.Round(int32(places))
	}
	return d
}

// numDigits counts the coefficient digits exactly; Decimal.NumDigits goes
// through float64 and can be one off.
func numDigits(d decimal.Decimal) int {
	return len(new(big.Int).Abs(d.Coefficient()).String())
}

// quo divides at working precision. b must not be zero.
func quo(a, b decimal.Decimal, sig int) decimal.Decimal {
	ia := numDigits(a) + int(a.Exponent())
	ib := numDigits(b) + int(b.Exponent())
	places := sig + guardDigits - (ia - ib)
	if places < 0 {
		places = 0
	}
	return roundSig(a.DivRound(b, int32(places)), sig)
}

// magnitude is the decimal exponent of the leading digit of a non-zero d.
func magnitude(d decimal.Decimal) int64 {
	return int64(numDigits(d)) + int64(d.Exponent()) - 1
}

func checkMagnitude(m int64) int {
	switch {
	case m > maxExponent:
		return overflow
	case m < -maxExponent:
		return underflow
	}
	return inRange
}

// mul multiplies at sig digits unless the product leaves the exponent range.
func mul(a, b decimal.Decimal, sig int) (decimal.Decimal, int) {
	if a.IsZero() || b.IsZero() {
		return decimal.Zero, inRange
	}
	if r := checkMagnitude(magnitude(a) + magnitude(b)); r != inRange {
		return decimal.Decimal{}, r
	}
	return roundSig(a.Mul(b), sig), inRange
}

// div is quo with the same range check as mul. b must not be zero.
func div(a, b decimal.Decimal, sig int) (decimal.Decimal, int) {
	if a.IsZero() {
		return decimal.Zero, inRange
	}
	if r := checkMagnitude(magnitude(a) - magnitude(b)); r != inRange {
		return decimal.Decimal{}, r
	}
	return quo(a, b, sig), inRange
}

// bounded maps a range code to Infinity with the given sign, zero, or d.
func bounded(d decimal.Decimal, r, sign int) Value {
	switch r {
	case overflow:
		return Number(math.Inf(sign))
	case underflow:
		return Big(decimal.Zero)
	}
	return Big(d)
}

// powInt raises d to an integer power by repeated squaring. Zero to a
// negative power reports overflow.
func powInt(d decimal.Decimal, n int64, sig int) (decimal.Decimal, int) {
	if n == 0 {
		return decOne, inRange
	}
	neg := n < 0
	if neg {
		if d.IsZero() {
			return decimal.Decimal{}, overflow
		}
		n = -n
	}
	if d.IsZero() {
		return decimal.Zero, inRange
	}
	result := decOne
	base := d
	r := inRange
	for n > 0 && r == inRange {
		if n&1 == 1 {
			result, r = mul(result, base, sig+guardDigits)
		}
		n >>= 1
		if n > 0 && r == inRange {
			base, r = mul(base, base, sig+guardDigits)
		}
	}
	if neg {
		if r != inRange {
			return decimal.Decimal{}, -r
		}
		return div(decOne, result, sig)
	}
	if r != inRange {
		return decimal.Decimal{}, r
	}
	return roundSig(result, sig), inRange
}

// sqrtDec is Newton's method seeded from the float square root.
func sqrtDec(a decimal.Decimal) decimal.Decimal {
	if a.IsZero() {
		return a
	}
	f := math.Sqrt(a.InexactFloat64())
	var x decimal.Decimal
	if f == 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		exp := (numDigits(a) + int(a.Exponent())) / 2
		x = decimal.New(1, int32(exp))
	} else {
		x = decimal.NewFromFloat(f)
	}
	for i := 0; i < 30; i++ {
		next := quo(x.Add(quo(a, x, Precision+guardDigits)), decTwo, Precision+guardDigits)
		if next.Equal(x) {
			break
		}
		x = next
	}
	return roundSig(x, Precision)
}

// fromFloat wraps a float result, keeping non-finite values as Numbers.
func fromFloat(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Number(f)
	}
	return Big(decimal.NewFromFloat(f))
}

// fromComplex drops to a real value when there is no imaginary part.
func fromComplex(c complex128, bigResult bool) Value {
	if imag(c) != 0 {
		return Complex(c)
	}
	if bigResult {
		return fromFloat(real(c))
	}
	return Number(real(c))
}

func parseNumber(text string) (Value, error) {
	lower := strings.ToLower(text)
	for prefix, radix := range map[string]int{"0x": 16, "0b": 2, "0o": 8} {
		if strings.HasPrefix(lower, prefix) {
			n, ok := new(big.Int).SetString(lower[2:], radix)
			if !ok {
				return nil, fmt.Errorf("%w: invalid number %q", ErrSyntax, text)
			}
			return Big(decimal.NewFromBigInt(n, 0)), nil
		}
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid number %q", ErrSyntax, text)
	}
	if d.IsZero() {
		return Big(decimal.Zero), nil
	}
	if checkMagnitude(magnitude(d)) != inRange {
		return nil, fmt.Errorf("%w: exponent of %q out of range", ErrDomain, text)
	}
	return Big(d), nil
}

// toDecimal converts numeric values. Non-finite Numbers do not convert.
func toDecimal(v Value) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case BigNumber:
		return x.Decimal, true
	case Number:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(f), true
	case Bool:
		if x {
			return decOne, true
		}
		return decimal.Zero, true
	}
	return decimal.Decimal{}, false
}

func toFloat(v Value) (float64, bool) {
	switch x := v.(type) {
	case BigNumber:
		return x.InexactFloat64(), true
	case Number:
		return float64(x), true
	case Bool:
		if x {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func toComplex(v Value) (complex128, bool) {
	if c, ok := v.(Complex); ok {
		return complex128(c), true
	}
	f, ok := toFloat(v)
	return complex(f, 0), ok
}

func toBigInt(v Value) (*big.Int, error) {
	switch x := v.(type) {
	case BigNumber:
		if !x.IsInteger() {
			return nil, fmt.Errorf("%w: integer expected, got %s", ErrType, x)
		}
		return x.BigInt(), nil
	case Number:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return nil, fmt.Errorf("%w: integer expected, got %s", ErrType, x)
		}
		n, _ := big.NewFloat(f).Int(nil)
		return n, nil
	case Bool:
		if x {
			return big.NewInt(1), nil
		}
		return big.NewInt(0), nil
	}
	return nil, fmt.Errorf("%w: integer expected, got %s", ErrType, KindOf(v))
}

// isFloatPair reports whether both operands are plain Numbers, in which case
// arithmetic stays in float64.
func isFloatPair(a, b Value) bool {
	_, fa := a.(Number)
	_, fb := b.(Number)
	if fa && fb {
		return true
	}
	// A non-finite Number cannot become a decimal.
	for _, v := range []Value{a, b} {
		if n, ok := v.(Number); ok && (math.IsNaN(float64(n)) || math.IsInf(float64(n), 0)) {
			return true
		}
	}
	return false
}

func arithmetic(op string, a, b Value) (Value, error) {
	_, ca := a.(Complex)
	_, cb := b.(Complex)
	if ca || cb {
		return complexArithmetic(op, a, b)
	}

	if isFloatPair(a, b) {
		x, okx := toFloat(a)
		y, oky := toFloat(b)
		if !okx || !oky {
			return nil, typeMismatch(op, a, b)
		}
		return floatArithmetic(op, x, y)
	}

	x, okx := toDecimal(a)
	y, oky := toDecimal(b)
	if !okx || !oky {
		return nil, typeMismatch(op, a, b)
	}

	switch op {
	case "+":
		return Big(roundSig(x.Add(y), Precision)), nil
	case "-":
		return Big(roundSig(x.Sub(y), Precision)), nil
	case "*":
		p, r := mul(x, y, Precision)
		return bounded(p, r, x.Sign()*y.Sign()), nil
	case "/":
		if y.IsZero() {
			return divideByZero(x.Sign()), nil
		}
		q, r := div(x, y, Precision)
		return bounded(q, r, x.Sign()*y.Sign()), nil
	case "%", "mod":
		if y.IsZero() {
			return Big(x), nil
		}
		r := x.Mod(y)
		if !r.IsZero() && r.Sign() != y.Sign() {
			r = r.Add(y)
		}
		return Big(r), nil
	case "^":
		return power(x, y)
	}
	return nil, fmt.Errorf("%w: unknown operator %s", ErrSyntax, op)
}

func divideByZero(sign int) Value {
	switch {
	case sign > 0:
		return Number(math.Inf(1))
	case sign < 0:
		return Number(math.Inf(-1))
	}
	return Number(math.NaN())
}

func power(x, y decimal.Decimal) (Value, error) {
	if y.IsInteger() && y.Abs().LessThanOrEqual(decimal.NewFromInt(1_000_000)) {
		n := y.IntPart()
		r, rc := powInt(x, n, Precision)
		sign := 1
		if x.IsNegative() && n%2 != 0 {
			sign = -1
		}
		return bounded(r, rc, sign), nil
	}
	xf, yf := x.InexactFloat64(), y.InexactFloat64()
	if xf < 0 && yf != math.Trunc(yf) {
		return fromComplex(cmplx.Pow(complex(xf, 0), complex(yf, 0)), true), nil
	}
	if y.Equal(decimal.RequireFromString("0.5")) && !x.IsNegative() {
		return Big(sqrtDec(x)), nil
	}
	return fromFloat(math.Pow(xf, yf)), nil
}

func floatArithmetic(op string, x, y float64) (Value, error) {
	switch op {
	case "+":
		return Number(x + y), nil
	case "-":
		return Number(x - y), nil
	case "*":
		return Number(x * y), nil
	case "/":
		return Number(x / y), nil
	case "%", "mod":
		if y == 0 {
			return Number(x), nil
		}
		r := math.Mod(x, y)
		if r != 0 && (r < 0) != (y < 0) {
			r += y
		}
		return Number(r), nil
	case "^":
		if x < 0 && y != math.Trunc(y) {
			return fromComplex(cmplx.Pow(complex(x, 0), complex(y, 0)), false), nil
		}
		return Number(math.Pow(x, y)), nil
	}
	return nil, fmt.Errorf("%w: unknown operator %s", ErrSyntax, op)
}

func complexArithmetic(op string, a, b Value) (Value, error) {
	x, okx := toComplex(a)
	y, oky := toComplex(b)
	if !okx || !oky {
		return nil, typeMismatch(op, a, b)
	}
	switch op {
	case "+":
		return Complex(x + y), nil
	case "-":
		return Complex(x - y), nil
	case "*":
		return Complex(x * y), nil
	case "/":
		return Complex(x / y), nil
	case "^":
		return Complex(cmplx.Pow(x, y)), nil
	}
	return nil, fmt.Errorf("%w: operator %s not defined for complex numbers", ErrType, op)
}

func bitwise(op string, a, b Value) (Value, error) {
	x, err := toBigInt(a)
	if err != nil {
		return nil, fmt.Errorf("bitwise %s: %w", op, err)
	}
	y, err := toBigInt(b)
	if err != nil {
		return nil, fmt.Errorf("bitwise %s: %w", op, err)
	}
	z := new(big.Int)
	switch op {
	case "and", "&":
		z.And(x, y)
	case "or", "|":
		z.Or(x, y)
	case "xor":
		z.Xor(x, y)
	case "<<", ">>":
		if y.Sign() < 0 || y.Cmp(big.NewInt(maxShift)) > 0 {
			return nil, fmt.Errorf("%w: shift count %s out of range", ErrDomain, y)
		}
		if op == "<<" {
			z.Lsh(x, uint(y.Uint64()))
		} else {
			z.Rsh(x, uint(y.Uint64()))
		}
	default:
		return nil, fmt.Errorf("%w: unknown operator %s", ErrSyntax, op)
	}
	return Big(decimal.NewFromBigInt(z, 0)), nil
}

func compare(op string, a, b Value) (Value, error) {
	var c int
	switch {
	case isFloatPair(a, b):
		x, okx := toFloat(a)
		y, oky := toFloat(b)
		if !okx || !oky {
			return nil, typeMismatch(op, a, b)
		}
		if math.IsNaN(x) || math.IsNaN(y) {
			return Bool(op == "!="), nil
		}
		switch {
		case x < y:
			c = -1
		case x > y:
			c = 1
		}
	default:
		qa, isQA := a.(Quantity)
		qb, isQB := b.(Quantity)
		if isQA || isQB {
			if !isQA || !isQB || qa.Dim() != qb.Dim() {
				return nil, unitMismatch(a, b)
			}
			c = toBase(qa).Cmp(toBase(qb))
			break
		}
		x, okx := toDecimal(a)
		y, oky := toDecimal(b)
		if !okx || !oky {
			if op == "==" || op == "!=" {
				return Bool((a == b) == (op == "==")), nil
			}
			return nil, typeMismatch(op, a, b)
		}
		c = x.Cmp(y)
	}

	switch op {
	case "==":
		return Bool(c == 0), nil
	case "!=":
		return Bool(c != 0), nil
	case "<":
		return Bool(c < 0), nil
	case ">":
		return Bool(c > 0), nil
	case "<=":
		return Bool(c <= 0), nil
	case ">=":
		return Bool(c >= 0), nil
	}
	return nil, fmt.Errorf("%w: unknown operator %s", ErrSyntax, op)
}

func typeMismatch(op string, a, b Value) error {
	return fmt.Errorf("%w: operator %s not defined for %s and %s", ErrType, op, KindOf(a), KindOf(b))
}

// Negate returns -v.
func Negate(v Value) (Value, error) {
	switch x := v.(type) {
	case BigNumber:
		return Big(x.Neg()), nil
	case Number:
		return -x, nil
	case Quantity:
		return Quantity{Amount: x.Amount.Neg(), Terms: x.Terms}, nil
	case Complex:
		return -x, nil
	case Bool:
		if x {
			return Big(decOne.Neg()), nil
		}
		return Big(decimal.Zero), nil
	}
	return nil, fmt.Errorf("%w: cannot negate %s", ErrType, KindOf(v))
}
