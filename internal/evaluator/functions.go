package evaluator

import (
	"fmt"
	"math"
	"math/big"
	"math/cmplx"

	"github.com/shopspring/decimal"
)

// Func is a function callable from an expression.
type Func func(args []Value) (Value, error)

func arity(name string, args []Value, min, max int) error {
	if len(args) < min || (max >= 0 && len(args) > max) {
		return fmt.Errorf("%w: wrong number of arguments in function %s (%d provided)", ErrType, name, len(args))
	}
	return nil
}

// floatFunc lifts a float64 function. Angle quantities are accepted as radians
// when angles is set.
func floatFunc(name string, fn func(float64) float64, angles bool) Func {
	return func(args []Value) (Value, error) {
		if err := arity(name, args, 1, 1); err != nil {
			return nil, err
		}
		if angles {
			if rad, ok := angleRadians(args[0]); ok {
				return fromFloat(fn(rad)), nil
			}
		}
		x, ok := toFloat(args[0])
		if !ok {
			return nil, fmt.Errorf("%w: function %s does not accept %s", ErrType, name, KindOf(args[0]))
		}
		r := fn(x)
		if _, isFloat := args[0].(Number); isFloat {
			return Number(r), nil
		}
		return fromFloat(r), nil
	}
}

// domainFunc is floatFunc for functions defined on [lo, hi] only; outside the
// range the complex variant answers.
func domainFunc(name string, fn func(float64) float64, cfn func(complex128) complex128, lo, hi float64) Func {
	inRange := floatFunc(name, fn, false)
	return func(args []Value) (Value, error) {
		if err := arity(name, args, 1, 1); err != nil {
			return nil, err
		}
		if c, ok := args[0].(Complex); ok {
			return fromComplex(cfn(complex128(c)), true), nil
		}
		x, ok := toFloat(args[0])
		if ok && (x < lo || x > hi) {
			return fromComplex(cfn(complex(x, 0)), true), nil
		}
		return inRange(args)
	}
}

func builtins() map[string]Func {
	return map[string]Func{
		"sin":  floatFunc("sin", math.Sin, true),
		"cos":  floatFunc("cos", math.Cos, true),
		"tan":  floatFunc("tan", math.Tan, true),
		"asin": domainFunc("asin", math.Asin, cmplx.Asin, -1, 1),
		"acos": domainFunc("acos", math.Acos, cmplx.Acos, -1, 1),
		"atan": floatFunc("atan", math.Atan, false),
		"atan2": func(args []Value) (Value, error) {
			if err := arity("atan2", args, 2, 2); err != nil {
				return nil, err
			}
			y, oky := toFloat(args[0])
			x, okx := toFloat(args[1])
			if !oky || !okx {
				return nil, fmt.Errorf("%w: function atan2 expects numbers", ErrType)
			}
			return fromFloat(math.Atan2(y, x)), nil
		},
		"sinh":  floatFunc("sinh", math.Sinh, false),
		"cosh":  floatFunc("cosh", math.Cosh, false),
		"tanh":  floatFunc("tanh", math.Tanh, false),
		"cbrt":  floatFunc("cbrt", math.Cbrt, false),
		"exp":   floatFunc("exp", math.Exp, false),
		"log2":  domainFunc("log2", math.Log2, func(c complex128) complex128 { return cmplx.Log(c) / complex(math.Ln2, 0) }, 0, math.Inf(1)),
		"gamma": floatFunc("gamma", math.Gamma, false),
		"sqrt":  sqrt,
		"abs":   abs,
		"log":   logFunc,
		"log10": log10,
		"floor": rounding("floor", decimal.Decimal.Floor, math.Floor),
		"ceil":  rounding("ceil", decimal.Decimal.Ceil, math.Ceil),
		"round": round,
		"mod": func(args []Value) (Value, error) {
			if err := arity("mod", args, 2, 2); err != nil {
				return nil, err
			}
			return arithmetic("mod", args[0], args[1])
		},
		"factorial": func(args []Value) (Value, error) {
			if err := arity("factorial", args, 1, 1); err != nil {
				return nil, err
			}
			return factorial(args[0])
		},
		"min": extreme("min", -1),
		"max": extreme("max", 1),
	}
}

func sqrt(args []Value) (Value, error) {
	if err := arity("sqrt", args, 1, 1); err != nil {
		return nil, err
	}
	switch x := args[0].(type) {
	case BigNumber:
		if x.IsNegative() {
			return fromComplex(cmplx.Sqrt(complex(x.InexactFloat64(), 0)), true), nil
		}
		return Big(sqrtDec(x.Decimal)), nil
	case Number:
		if x < 0 {
			return Complex(cmplx.Sqrt(complex(float64(x), 0))), nil
		}
		return Number(math.Sqrt(float64(x))), nil
	case Complex:
		return Complex(cmplx.Sqrt(complex128(x))), nil
	case Quantity:
		return powQuantityHalf(x)
	}
	return nil, fmt.Errorf("%w: function sqrt does not accept %s", ErrType, KindOf(args[0]))
}

// powQuantityHalf takes the square root of a quantity whose unit powers are
// all even, e.g. sqrt(9 m^2).
func powQuantityHalf(q Quantity) (Value, error) {
	terms := make([]Term, 0, len(q.Terms))
	for _, t := range q.Terms {
		if t.Power%2 != 0 {
			return nil, fmt.Errorf("%w: cannot take the square root of %s", ErrUnits, q.UnitString())
		}
		terms = append(terms, Term{Unit: t.Unit, Power: t.Power / 2})
	}
	if q.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: square root of a negative quantity", ErrDomain)
	}
	return Quantity{Amount: sqrtDec(q.Amount), Terms: terms}, nil
}

func abs(args []Value) (Value, error) {
	if err := arity("abs", args, 1, 1); err != nil {
		return nil, err
	}
	switch x := args[0].(type) {
	case BigNumber:
		return Big(x.Abs()), nil
	case Number:
		return Number(math.Abs(float64(x))), nil
	case Complex:
		return Big(decimal.NewFromFloat(cmplx.Abs(complex128(x)))), nil
	case Quantity:
		return Quantity{Amount: x.Amount.Abs(), Terms: x.Terms}, nil
	}
	return nil, fmt.Errorf("%w: function abs does not accept %s", ErrType, KindOf(args[0]))
}

func logFunc(args []Value) (Value, error) {
	if err := arity("log", args, 1, 2); err != nil {
		return nil, err
	}
	x, ok := toFloat(args[0])
	if !ok {
		return nil, fmt.Errorf("%w: function log does not accept %s", ErrType, KindOf(args[0]))
	}
	if len(args) == 1 {
		if x < 0 {
			return Complex(cmplx.Log(complex(x, 0))), nil
		}
		return fromFloat(math.Log(x)), nil
	}
	b, ok := toFloat(args[1])
	if !ok {
		return nil, fmt.Errorf("%w: function log does not accept %s", ErrType, KindOf(args[1]))
	}
	if x < 0 || b < 0 {
		return fromComplex(cmplx.Log(complex(x, 0))/cmplx.Log(complex(b, 0)), true), nil
	}
	return fromFloat(math.Log(x) / math.Log(b)), nil
}

// log10 is exact for powers of ten.
func log10(args []Value) (Value, error) {
	if err := arity("log10", args, 1, 1); err != nil {
		return nil, err
	}
	if b, ok := args[0].(BigNumber); ok && b.IsPositive() {
		coeff := b.Coefficient()
		exp := int64(b.Exponent())
		ten := big.NewInt(10)
		zero := big.NewInt(0)
		for coeff.Cmp(ten) >= 0 {
			q, r := new(big.Int).QuoRem(coeff, ten, new(big.Int))
			if r.Cmp(zero) != 0 {
				break
			}
			coeff = q
			exp++
		}
		if coeff.Cmp(big.NewInt(1)) == 0 {
			return Big(decimal.NewFromInt(exp)), nil
		}
	}
	x, ok := toFloat(args[0])
	if !ok {
		return nil, fmt.Errorf("%w: function log10 does not accept %s", ErrType, KindOf(args[0]))
	}
	if x < 0 {
		return Complex(cmplx.Log10(complex(x, 0))), nil
	}
	return fromFloat(math.Log10(x)), nil
}

func rounding(name string, dec func(decimal.Decimal) decimal.Decimal, fl func(float64) float64) Func {
	return func(args []Value) (Value, error) {
		if err := arity(name, args, 1, 1); err != nil {
			return nil, err
		}
		switch x := args[0].(type) {
		case BigNumber:
			return Big(dec(x.Decimal)), nil
		case Number:
			return Number(fl(float64(x))), nil
		case Quantity:
			return Quantity{Amount: dec(x.Amount), Terms: x.Terms}, nil
		}
		return nil, fmt.Errorf("%w: function %s does not accept %s", ErrType, name, KindOf(args[0]))
	}
}

// round rounds half away from zero, optionally to n decimals.
func round(args []Value) (Value, error) {
	if err := arity("round", args, 1, 2); err != nil {
		return nil, err
	}
	places := int32(0)
	if len(args) == 2 {
		n, err := toBigInt(args[1])
		if err != nil || !n.IsInt64() || n.Int64() < 0 || n.Int64() > Precision {
			return nil, fmt.Errorf("%w: number of decimals in function round must be an integer from 0 to %d", ErrDomain, Precision)
		}
		places = int32(n.Int64())
	}
	switch x := args[0].(type) {
	case BigNumber:
		return Big(x.Round(places)), nil
	case Number:
		p := math.Pow(10, float64(places))
		return Number(math.Round(float64(x)*p) / p), nil
	case Quantity:
		return Quantity{Amount: x.Amount.Round(places), Terms: x.Terms}, nil
	}
	return nil, fmt.Errorf("%w: function round does not accept %s", ErrType, KindOf(args[0]))
}

func factorial(v Value) (Value, error) {
	x, ok := toDecimal(v)
	if !ok {
		return nil, fmt.Errorf("%w: factorial does not accept %s", ErrType, KindOf(v))
	}
	if x.IsNegative() {
		if x.IsInteger() {
			return nil, fmt.Errorf("%w: factorial of a negative integer", ErrDomain)
		}
		return fromFloat(math.Gamma(x.InexactFloat64() + 1)), nil
	}
	if !x.IsInteger() {
		return fromFloat(math.Gamma(x.InexactFloat64() + 1)), nil
	}
	if x.GreaterThan(decimal.NewFromInt(maxFactorial)) {
		return Number(math.Inf(1)), nil
	}
	n := x.IntPart()
	if n < 2 {
		return Big(decOne), nil
	}
	f := new(big.Int).MulRange(1, n)
	return Big(roundSig(decimal.NewFromBigInt(f, 0), Precision)), nil
}

// extreme implements min (dir -1) and max (dir 1).
func extreme(name string, dir int) Func {
	return func(args []Value) (Value, error) {
		if err := arity(name, args, 1, -1); err != nil {
			return nil, err
		}
		best := args[0]
		for _, v := range args[1:] {
			gt, err := compare(">", v, best)
			if err != nil {
				return nil, fmt.Errorf("function %s: %w", name, err)
			}
			lt, _ := compare("<", v, best)
			if (dir > 0 && gt == Bool(true)) || (dir < 0 && lt == Bool(true)) {
				best = v
			}
		}
		return best, nil
	}
}
