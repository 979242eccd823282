package calculator

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects the button layout and the evaluation rules.
type Mode string

const (
	Generic     Mode = "GENERIC"
	Physics     Mode = "PHYSICS"
	Programming Mode = "PROGRAMMING"
	Economics   Mode = "ECONOMICS"
)

// Modes lists every mode in display order.
var Modes = []Mode{Generic, Physics, Programming, Economics}

// AngleUnit selects how plain numbers are read by trigonometric functions.
type AngleUnit string

const (
	Radians AngleUnit = "RAD"
	Degrees AngleUnit = "DEG"
)

// Base is the number base used for input and output in Programming mode.
type Base string

const (
	Bin Base = "BIN"
	Oct Base = "OCT"
	Dec Base = "DEC"
	Hex Base = "HEX"
)

// Bases lists every base in the order the base selector cycles through them.
var Bases = []Base{Bin, Oct, Dec, Hex}

var (
	ErrUnknownMode     = errors.New("unknown calculator mode")
	ErrUnknownBase     = errors.New("unknown number base")
	ErrUnknownAngle    = errors.New("unknown angle unit")
	ErrBaseUnavailable = errors.New("number base can only be changed in PROGRAMMING mode")
	ErrButtonNotInMode = errors.New("button not available in this mode")
	ErrButtonDisabled  = errors.New("button disabled")
	ErrUnknownKind     = errors.New("unknown button kind")
)

func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func ParseBase(s string) (Base, error) {
	b := Base(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Bases {
		if b == known {
			return b, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBase, s)
}

func ParseAngle(s string) (AngleUnit, error) {
	switch a := AngleUnit(strings.ToUpper(strings.TrimSpace(s))); a {
	case Radians, Degrees:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAngle, s)
}

// Radix returns the numeric radix of the base.
func (b Base) Radix() int {
	switch b {
	case Bin:
		return 2
	case Oct:
		return 8
	case Hex:
		return 16
	}
	return 10
}

// Prefix returns the literal prefix understood by the evaluator, empty for DEC.
func (b Base) Prefix() string {
	switch b {
	case Bin:
		return "0b"
	case Oct:
		return "0o"
	case Hex:
		return "0x"
	}
	return ""
}

// validDigit reports whether c is a digit of the base. Hex is case-insensitive.
func (b Base) validDigit(c byte) bool {
	switch b {
	case Bin:
		return c == '0' || c == '1'
	case Oct:
		return c >= '0' && c <= '7'
	case Hex:
		return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
	}
	return c >= '0' && c <= '9'
}

// nonDecimal reports whether the mode and base call for base-prefixed literals.
func nonDecimal(mode Mode, base Base) bool {
	return mode == Programming && base != Dec
}

// Next returns the base that follows b in Bases.
func (b Base) Next() Base {
	for i, known := range Bases {
		if known == b {
			return Bases[(i+1)%len(Bases)]
		}
	}
	return Dec
}
