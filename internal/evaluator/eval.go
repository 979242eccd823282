// Package evaluator evaluates calculator expressions: decimal arithmetic at
// 64 significant digits, integer bitwise operations, physical units and
// currencies, and a small library of math functions.
package evaluator

import (
	"fmt"
	"math"
	"math/big"
	"math/cmplx"

	"github.com/shopspring/decimal"

	"go-chi-calculator/internal/units"
)

// Scope supplies per-call overrides. Values are Func or Value.
type Scope map[string]any

// Evaluator is immutable after New and safe for concurrent use.
type Evaluator struct {
	reg       *units.Registry
	funcs     map[string]Func
	constants map[string]Value
}

var (
	eulerE    = decimal.RequireFromString("2.718281828459045235360287471352662497757247093699959574966967627724")
	goldenPhi = decimal.RequireFromString("1.618033988749894848204586834365638117720309179805762862135448622705")
)

func New(reg *units.Registry) (*Evaluator, error) {
	e := &Evaluator{
		reg:   reg,
		funcs: builtins(),
		constants: map[string]Value{
			"pi":        Big(roundSig(units.Pi, Precision)),
			"e":         Big(roundSig(eulerE, Precision)),
			"tau":       Big(roundSig(units.Pi.Mul(decTwo), Precision)),
			"phi":       Big(roundSig(goldenPhi, Precision)),
			"true":      Bool(true),
			"false":     Bool(false),
			"null":      Null{},
			"undefined": Undefined{},
			"Infinity":  Number(math.Inf(1)),
			"NaN":       Number(math.NaN()),
		},
	}

	for _, c := range units.Constants {
		v, err := e.Evaluate(c.Amount+" "+c.UnitExp, nil)
		if err != nil {
			return nil, fmt.Errorf("constant %s: %w", c.Name, err)
		}
		e.constants[c.Name] = v
	}
	return e, nil
}

func (e *Evaluator) Registry() *units.Registry {
	return e.reg
}

// Evaluate parses and evaluates expr. An empty expression yields Undefined.
// A panic inside the decimal arithmetic is reported as ErrDomain.
func (e *Evaluator) Evaluate(expr string, scope Scope) (v Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, fmt.Errorf("%w: %v", ErrDomain, r)
		}
	}()

	n, err := parse(expr)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return Undefined{}, nil
	}
	return e.eval(n, scope)
}

func (e *Evaluator) eval(n node, scope Scope) (Value, error) {
	switch n := n.(type) {
	case numberNode:
		return parseNumber(n.text)

	case identNode:
		return e.resolve(n.name, scope)

	case callNode:
		fn, err := e.function(n.name, scope)
		if err != nil {
			return nil, err
		}
		args := make([]Value, len(n.args))
		for i, a := range n.args {
			if args[i], err = e.eval(a, scope); err != nil {
				return nil, err
			}
		}
		return fn(args)

	case unaryNode:
		x, err := e.eval(n.x, scope)
		if err != nil {
			return nil, err
		}
		return unary(n.op, x)

	case binaryNode:
		x, err := e.eval(n.x, scope)
		if err != nil {
			return nil, err
		}
		y, err := e.eval(n.y, scope)
		if err != nil {
			return nil, err
		}
		return binary(n.op, x, y)

	case postfixNode:
		x, err := e.eval(n.x, scope)
		if err != nil {
			return nil, err
		}
		if n.op == "!" {
			return factorial(x)
		}
		return binary("/", x, Big(decimal.NewFromInt(100)))

	case convertNode:
		x, err := e.eval(n.x, scope)
		if err != nil {
			return nil, err
		}
		target, err := e.eval(n.target, scope)
		if err != nil {
			return nil, err
		}
		return convert(x, target)
	}
	return nil, fmt.Errorf("%w: unsupported node %T", ErrSyntax, n)
}

// resolve looks a symbol up in the scope, then the constants, then the unit
// registry.
func (e *Evaluator) resolve(name string, scope Scope) (Value, error) {
	if v, ok := scope[name]; ok {
		if val, isValue := v.(Value); isValue {
			return val, nil
		}
		return nil, fmt.Errorf("%w: %s is a function", ErrType, name)
	}
	if v, ok := e.constants[name]; ok {
		return v, nil
	}
	if e.reg != nil {
		if u, ok := e.reg.Lookup(name); ok {
			return unitQuantity(u), nil
		}
	}
	if _, ok := e.funcs[name]; ok {
		return nil, fmt.Errorf("%w: %s is a function", ErrType, name)
	}
	return nil, fmt.Errorf("%w %s", ErrUndefined, name)
}

func (e *Evaluator) function(name string, scope Scope) (Func, error) {
	if v, ok := scope[name]; ok {
		if fn, isFunc := v.(Func); isFunc {
			return fn, nil
		}
	}
	if fn, ok := e.funcs[name]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("%w %s", ErrUndefined, name)
}

func unary(op string, x Value) (Value, error) {
	switch op {
	case "-":
		return Negate(x)
	case "+":
		switch x.(type) {
		case BigNumber, Number, Quantity, Complex:
			return x, nil
		case Bool:
			return toValue(x)
		}
		return nil, fmt.Errorf("%w: unary + not defined for %s", ErrType, KindOf(x))
	case "~":
		n, err := toBigInt(x)
		if err != nil {
			return nil, fmt.Errorf("bitwise not: %w", err)
		}
		return Big(decimal.NewFromBigInt(new(big.Int).Not(n), 0)), nil
	case "not":
		return Bool(!truthy(x)), nil
	}
	return nil, fmt.Errorf("%w: unknown operator %s", ErrSyntax, op)
}

func toValue(x Value) (Value, error) {
	d, ok := toDecimal(x)
	if !ok {
		return nil, fmt.Errorf("%w: cannot convert %s to a number", ErrType, KindOf(x))
	}
	return Big(d), nil
}

func truthy(v Value) bool {
	switch x := v.(type) {
	case Bool:
		return bool(x)
	case BigNumber:
		return !x.IsZero()
	case Number:
		return x != 0 && !math.IsNaN(float64(x))
	case Quantity:
		return !x.Amount.IsZero()
	case Complex:
		return x != 0
	}
	return false
}

func binary(op string, x, y Value) (Value, error) {
	_, qx := x.(Quantity)
	_, qy := y.(Quantity)
	hasUnits := qx || qy

	switch op {
	case "+", "-":
		if hasUnits {
			return addQuantities(op, x, y)
		}
		return arithmetic(op, x, y)
	case "*", "/":
		if hasUnits {
			return scaleQuantity(op, x, y)
		}
		return arithmetic(op, x, y)
	case "%", "mod":
		if hasUnits {
			return nil, typeMismatch(op, x, y)
		}
		return arithmetic(op, x, y)
	case "^":
		if qy {
			return nil, fmt.Errorf("%w: exponent cannot have units", ErrUnits)
		}
		if qx {
			return powQuantity(x.(Quantity), y)
		}
		return arithmetic(op, x, y)
	case "and", "or", "xor":
		bx, isBX := x.(Bool)
		by, isBY := y.(Bool)
		if isBX && isBY {
			return logical(op, bool(bx), bool(by)), nil
		}
		return bitwise(op, x, y)
	case "&", "|", "<<", ">>":
		return bitwise(op, x, y)
	case "==", "!=", "<", ">", "<=", ">=":
		return compare(op, x, y)
	}
	return nil, fmt.Errorf("%w: unknown operator %s", ErrSyntax, op)
}

func logical(op string, a, b bool) Value {
	switch op {
	case "and":
		return Bool(a && b)
	case "or":
		return Bool(a || b)
	}
	return Bool(a != b)
}

// DegreeScope overrides the trigonometric functions so that plain numbers are
// taken and returned as degrees. Angle quantities such as "1 rad" keep their
// own unit.
func DegreeScope() Scope {
	std := builtins()
	toRad := math.Pi / 180

	forward := func(name string, fn func(float64) float64) Func {
		return func(args []Value) (Value, error) {
			if err := arity(name, args, 1, 1); err != nil {
				return nil, err
			}
			if _, ok := angleRadians(args[0]); ok {
				return std[name](args)
			}
			x, ok := toFloat(args[0])
			if !ok {
				return nil, fmt.Errorf("%w: function %s does not accept %s", ErrType, name, KindOf(args[0]))
			}
			return Number(fn(x * toRad)), nil
		}
	}

	inverse := func(name string, fn func(float64) float64, cfn func(complex128) complex128) Func {
		return func(args []Value) (Value, error) {
			if err := arity(name, args, 1, 1); err != nil {
				return nil, err
			}
			x, ok := toFloat(args[0])
			if !ok {
				return nil, fmt.Errorf("%w: function %s does not accept %s", ErrType, name, KindOf(args[0]))
			}
			if cfn != nil && (x < -1 || x > 1) {
				return fromComplex(cfn(complex(x, 0))/complex(toRad, 0), false), nil
			}
			return Number(fn(x) / toRad), nil
		}
	}

	return Scope{
		"sin":  forward("sin", math.Sin),
		"cos":  forward("cos", math.Cos),
		"tan":  forward("tan", math.Tan),
		"asin": inverse("asin", math.Asin, cmplx.Asin),
		"acos": inverse("acos", math.Acos, cmplx.Acos),
		"atan": inverse("atan", math.Atan, nil),
		"atan2": Func(func(args []Value) (Value, error) {
			if err := arity("atan2", args, 2, 2); err != nil {
				return nil, err
			}
			y, oky := toFloat(args[0])
			x, okx := toFloat(args[1])
			if !oky || !okx {
				return nil, fmt.Errorf("%w: function atan2 expects numbers", ErrType)
			}
			return Number(math.Atan2(y, x) / toRad), nil
		}),
	}
}
