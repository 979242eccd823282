package calculator

// disableRule reports whether a button is disabled in one mode.
type disableRule func(b Button, base Base) bool

var disableRules = map[Mode]disableRule{
	Generic:     genericDisabled,
	Physics:     physicsDisabled,
	Programming: programmingDisabled,
	Economics:   economicsDisabled,
}

// Enabled reports whether b can be pressed in mode with base. The same
// predicate gates rendering and keyboard input.
func Enabled(b Button, mode Mode, base Base) bool {
	if b.Value == " " {
		return false
	}
	rule, ok := disableRules[mode]
	return !ok || !rule(b, base)
}

func genericDisabled(b Button, _ Base) bool {
	return b.Kind == KindHexDigit || programmerOps[b.Display] ||
		(b.Kind == KindUnit && b.Value != " to ")
}

func physicsDisabled(b Button, _ Base) bool {
	return b.Kind == KindHexDigit || programmerOps[b.Display]
}

func economicsDisabled(b Button, _ Base) bool {
	return b.Kind == KindHexDigit || programmerOps[b.Display] || isPhysicalConstant(b)
}

var programmingFunctions = map[string]bool{
	"sin(": true, "cos(": true, "tan(": true, "log(": true, "log10(": true, "sqrt(": true,
}

func programmingDisabled(b Button, base Base) bool {
	nonDec := base != Dec

	// Input that only makes sense for decimal numbers.
	if nonDec && (b.Value == "." || b.Display == "EXP" || b.Value == "%" || b.Kind == KindUnit || b.Value == " to ") {
		return true
	}

	if b.Kind == KindNumber || b.Kind == KindHexDigit {
		if len(b.Value) == 1 && b.Value[0] >= '2' && b.Value[0] <= '9' {
			if base == Bin || (base == Oct && b.Value[0] > '7') {
				return true
			}
		}
		if b.Kind == KindHexDigit {
			return base != Hex
		}
	}

	if programmingFunctions[b.Value] {
		return true
	}
	if !nonDec {
		return false
	}
	switch {
	case b.Kind == KindConstant && (b.Value == "pi" || b.Value == "speedOfLight" || b.Value == "e"):
		return true
	case b.Kind == KindFunctionPostfix && b.Value == "!":
		return true
	case b.Value == "+/-":
		return true
	}
	return false
}
