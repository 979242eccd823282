package evaluator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"go-chi-calculator/internal/units"
)

func unitQuantity(u *units.Unit) Quantity {
	return Quantity{Amount: decOne, Terms: []Term{{Unit: u, Power: 1}}}
}

// affine reports whether q is a plain amount of an offset unit such as degC,
// the only shape where the offset takes part in conversion.
func affine(q Quantity) bool {
	return len(q.Terms) == 1 && q.Terms[0].Power == 1 && q.Terms[0].Unit.HasOffset()
}

func termsScale(terms []Term) decimal.Decimal {
	scale := decOne
	for _, t := range terms {
		p, _ := powInt(t.Unit.Scale, int64(t.Power), Precision+guardDigits)
		scale = scale.Mul(p)
	}
	return roundSig(scale, Precision+guardDigits)
}

// toBase returns the amount of q expressed in base units.
func toBase(q Quantity) decimal.Decimal {
	if affine(q) {
		u := q.Terms[0].Unit
		return roundSig(q.Amount.Add(u.Offset).Mul(u.Scale), Precision)
	}
	return roundSig(q.Amount.Mul(termsScale(q.Terms)), Precision)
}

// fromBase expresses a base-unit amount in the given terms.
func fromBase(base decimal.Decimal, terms []Term) Quantity {
	q := Quantity{Terms: terms}
	if affine(q) {
		u := terms[0].Unit
		q.Amount = roundSig(quo(base, u.Scale, Precision).Sub(u.Offset), Precision)
		return q
	}
	q.Amount = quo(base, termsScale(terms), Precision)
	return q
}

func unitMismatch(a, b Value) error {
	return fmt.Errorf("%w: cannot combine %s with %s", ErrUnits, describe(a), describe(b))
}

func describe(v Value) string {
	if q, ok := v.(Quantity); ok {
		return q.Dim().String()
	}
	return KindOf(v)
}

func sameTerms(a, b []Term) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// addQuantities adds or subtracts two quantities of the same dimension; the
// result is expressed in the units of the left operand.
func addQuantities(op string, a, b Value) (Value, error) {
	qa, okA := a.(Quantity)
	qb, okB := b.(Quantity)
	if !okA || !okB || qa.Dim() != qb.Dim() {
		return nil, unitMismatch(a, b)
	}

	if sameTerms(qa.Terms, qb.Terms) {
		amount := qa.Amount.Add(qb.Amount)
		if op == "-" {
			amount = qa.Amount.Sub(qb.Amount)
		}
		return Quantity{Amount: roundSig(amount, Precision), Terms: qa.Terms}, nil
	}

	x, y := toBase(qa), toBase(qb)
	sum := x.Add(y)
	if op == "-" {
		sum = x.Sub(y)
	}
	return fromBase(sum, qa.Terms), nil
}

// combine merges the terms of a and b, adding powers of equal units. sign is
// -1 when b divides a.
func combine(a, b []Term, sign int) []Term {
	out := append([]Term(nil), a...)
	for _, t := range b {
		merged := false
		for i := range out {
			if out[i].Unit == t.Unit {
				out[i].Power += sign * t.Power
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, Term{Unit: t.Unit, Power: sign * t.Power})
		}
	}

	kept := out[:0]
	for _, t := range out {
		if t.Power != 0 {
			kept = append(kept, t)
		}
	}
	return kept
}

// scaleQuantity multiplies or divides quantities and plain numbers. A result
// whose dimensions cancel collapses to a BigNumber in base units.
func scaleQuantity(op string, a, b Value) (Value, error) {
	qa, isQA := asQuantity(a)
	qb, isQB := asQuantity(b)
	if !isQA || !isQB {
		return nil, typeMismatch(op, a, b)
	}

	var q Quantity
	var r int
	switch op {
	case "*":
		q.Amount, r = mul(qa.Amount, qb.Amount, Precision)
		q.Terms = combine(qa.Terms, qb.Terms, 1)
	case "/":
		if qb.Amount.IsZero() {
			return divideByZero(qa.Amount.Sign()), nil
		}
		q.Amount, r = div(qa.Amount, qb.Amount, Precision)
		q.Terms = combine(qa.Terms, qb.Terms, -1)
	default:
		return nil, fmt.Errorf("%w: operator %s not defined for units", ErrType, op)
	}
	if r != inRange {
		return nil, fmt.Errorf("%w: result out of range", ErrDomain)
	}

	if len(q.Terms) == 0 {
		return Big(q.Amount), nil
	}
	if q.Dim().IsZero() {
		return Big(toBase(q)), nil
	}
	return q, nil
}

// asQuantity lifts plain numbers into unitless quantities.
func asQuantity(v Value) (Quantity, bool) {
	if q, ok := v.(Quantity); ok {
		return q, true
	}
	d, ok := toDecimal(v)
	if !ok {
		return Quantity{}, false
	}
	return Quantity{Amount: d}, true
}

func powQuantity(q Quantity, exp Value) (Value, error) {
	e, ok := toDecimal(exp)
	if !ok || !e.IsInteger() || e.Abs().GreaterThan(decimal.NewFromInt(64)) {
		return nil, fmt.Errorf("%w: unit exponent must be a small integer", ErrType)
	}
	n := e.IntPart()
	amount, r := powInt(q.Amount, n, Precision)
	if r != inRange {
		if q.Amount.IsZero() {
			return nil, fmt.Errorf("%w: division by zero", ErrDomain)
		}
		return nil, fmt.Errorf("%w: result out of range", ErrDomain)
	}
	terms := make([]Term, 0, len(q.Terms))
	for _, t := range q.Terms {
		if n != 0 {
			terms = append(terms, Term{Unit: t.Unit, Power: t.Power * int(n)})
		}
	}
	if len(terms) == 0 {
		return Big(amount), nil
	}
	return Quantity{Amount: amount, Terms: terms}, nil
}

// convert expresses x in the units of target, which must be a bare unit
// expression such as "ft" or "m / s".
func convert(x, target Value) (Value, error) {
	t, ok := target.(Quantity)
	if !ok || !t.Amount.Equal(decOne) || len(t.Terms) == 0 {
		return nil, fmt.Errorf("%w: conversion target must be a unit, got %s", ErrType, target)
	}
	q, ok := x.(Quantity)
	if !ok {
		return nil, fmt.Errorf("%w: cannot convert %s to %s", ErrUnits, KindOf(x), t.UnitString())
	}
	if q.Dim() != t.Dim() {
		return nil, fmt.Errorf("%w: cannot convert %s to %s", ErrUnits, q.UnitString(), t.UnitString())
	}
	return fromBase(toBase(q), t.Terms), nil
}

// angleRadians returns the angle of an ANGLE quantity in radians.
func angleRadians(v Value) (float64, bool) {
	q, ok := v.(Quantity)
	if !ok || !q.Dim().Is(units.Angle) {
		return 0, false
	}
	return toBase(q).InexactFloat64(), true
}
