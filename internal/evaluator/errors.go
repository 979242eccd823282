package evaluator

import "errors"

// Sentinel errors wrapped by every evaluation failure.
var (
	ErrSyntax    = errors.New("syntax error")
	ErrUndefined = errors.New("undefined symbol")
	ErrDomain    = errors.New("domain error")
	ErrUnits     = errors.New("unit mismatch")
	ErrType      = errors.New("type error")
)
