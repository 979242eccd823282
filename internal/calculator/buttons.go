package calculator

import (
	"sync"

	"go-chi-calculator/internal/units"
)

// Kind classifies a button by the effect of pressing it.
type Kind string

const (
	KindNumber          Kind = "number"
	KindHexDigit        Kind = "hexDigit"
	KindConstant        Kind = "constant"
	KindOperator        Kind = "operator"
	KindFunctionPrefix  Kind = "functionPrefix"
	KindFunctionPostfix Kind = "functionPostfix"
	KindUnit            Kind = "unit"
	KindEquals          Kind = "equals"
	KindClear           Kind = "clear"
	KindDelete          Kind = "delete"
	KindToggleSign      Kind = "toggleSign"
	KindMode            Kind = "mode"
	KindBaseMode        Kind = "baseMode"
)

// Button describes one key of a layout. Value is the text appended to the
// expression, or the command argument for non-text kinds.
type Button struct {
	Display string `json:"display"`
	Value   string `json:"value"`
	Kind    Kind   `json:"kind"`
	Title   string `json:"title,omitempty"`
	Base    Base   `json:"base,omitempty"`
}

// appends reports whether pressing the button appends Value to the text.
func (k Kind) appends() bool {
	switch k {
	case KindNumber, KindHexDigit, KindConstant, KindOperator,
		KindFunctionPrefix, KindFunctionPostfix, KindUnit:
		return true
	}
	return false
}

// startsValue reports whether the kind begins a new operand, which discards a
// pinned result instead of extending it.
func (k Kind) startsValue() bool {
	switch k {
	case KindNumber, KindHexDigit, KindConstant, KindFunctionPrefix, KindUnit:
		return true
	}
	return false
}

func btn(kind Kind, display, value string) Button {
	return Button{Display: display, Value: value, Kind: kind}
}

func titled(b Button, title string) Button {
	b.Title = title
	return b
}

func num(d string) Button { return btn(KindNumber, d, d) }

func hexDigit(d string) Button {
	return Button{Display: d, Value: d, Kind: KindHexDigit, Base: Hex}
}

func op(display, value string) Button { return btn(KindOperator, display, value) }

func fn(display, value string) Button { return btn(KindFunctionPrefix, display, value) }

var (
	clearButton  = btn(KindClear, "AC", "AC")
	deleteButton = btn(KindDelete, "DEL", "DEL")
	equalsButton = btn(KindEquals, "=", "=")
	signButton   = btn(KindToggleSign, "+/-", "+/-")
	dotButton    = num(".")
	powerButton  = titled(op("^", "^"), "Power")
	expButton    = titled(op("EXP", "e"), "Exponent (for scientific notation like 2.5e3)")
	piButton     = titled(btn(KindConstant, "π", "pi"), "Pi")
	eulerButton  = titled(btn(KindConstant, "e", "e"), "Euler's Number")
	factButton   = btn(KindFunctionPostfix, "x!", "!")
	toUnitButton = titled(op("to", " to "), "Convert unit (e.g. 10 m to ft)")
	spacer       = op(" ", " ")
)

// programmerOps are the displays of the bitwise operator buttons.
var programmerOps = map[string]bool{
	"Lsh": true, "Rsh": true, "AND": true, "OR": true, "XOR": true, "NOT": true,
}

func constantButton(name string) Button {
	for _, c := range units.Constants {
		if c.Name == name {
			return titled(btn(KindConstant, c.Symbol, c.Name), c.Title)
		}
	}
	return btn(KindConstant, name, name)
}

// isPhysicalConstant reports whether the button inserts a physical constant.
func isPhysicalConstant(b Button) bool {
	if b.Kind != KindConstant {
		return false
	}
	for _, c := range units.Constants {
		if c.Name == b.Value {
			return true
		}
	}
	return false
}

func unitButton(display, value, title string) Button {
	return titled(btn(KindUnit, display, value), title)
}

var genericLayout = []Button{
	clearButton, deleteButton, op("(", "("), op(")", ")"), op("%", "%"), op("/", "/"),
	fn("sin", "sin("), fn("cos", "cos("), fn("tan", "tan("), num("7"), num("8"), num("9"),
	fn("ln", "log("), fn("log₁₀", "log10("), factButton, num("4"), num("5"), num("6"),
	fn("√", "sqrt("), powerButton, expButton, num("1"), num("2"), num("3"),
	piButton, eulerButton, signButton, num("0"), dotButton,
	op("*", "*"), op("-", "-"), op("+", "+"), equalsButton,
}

var physicsLayout = []Button{
	fn("sin", "sin("), fn("cos", "cos("), fn("tan", "tan("), powerButton, fn("√", "sqrt("), factButton,
	fn("ln", "log("), fn("log₁₀", "log10("), constantButton("boltzmannConstant"), eulerButton, piButton, spacer,
	constantButton("speedOfLight"), constantButton("gravitationConstant"), constantButton("planckConstant"),
	constantButton("hBar"), constantButton("elementaryCharge"), constantButton("gravity"),
	unitButton("m", "m", "Meter"), unitButton("cm", "cm", "Centimeter"), unitButton("km", "km", "Kilometer"),
	unitButton("ft", "ft", "Foot"), unitButton("in", "in", "Inch"), unitButton("mi", "mi", "Mile"),
	unitButton("g", "g", "Gram"), unitButton("kg", "kg", "Kilogram"), unitButton("lb", "lb", "Pound (mass)"),
	unitButton("oz", "oz", "Ounce (mass)"), unitButton("N", "N", "Newton (force)"), unitButton("lbf", "lbf", "Pound-force"),
	unitButton("K", "K", "Kelvin"), unitButton("°C", "degC", "Celsius"), unitButton("°F", "degF", "Fahrenheit"),
	toUnitButton, signButton, dotButton,
	num("7"), num("8"), num("9"), deleteButton, clearButton, op("(", "("),
	num("4"), num("5"), num("6"), op("/", "/"), op("*", "*"), op(")", ")"),
	num("1"), num("2"), num("3"), op("-", "-"), op("+", "+"), op("%", "%"),
	num("0"), expButton, equalsButton,
}

var programmingLayout = []Button{
	op("(", "("), op(")", ")"), titled(op("Lsh", " << "), "Left Shift"), titled(op("Rsh", " >> "), "Right Shift (Arithmetic)"), clearButton, deleteButton,
	hexDigit("A"), hexDigit("B"), hexDigit("C"), titled(op("AND", " and "), "Bitwise AND"), op("%", "%"), op("/", "/"),
	hexDigit("D"), hexDigit("E"), hexDigit("F"), titled(op("OR", " or "), "Bitwise OR"), powerButton, op("*", "*"),
	num("7"), num("8"), num("9"), titled(op("XOR", " xor "), "Bitwise XOR"), signButton, op("-", "-"),
	num("4"), num("5"), num("6"), titled(fn("NOT", "~"), "Bitwise NOT"), op("+", "+"), equalsButton,
	num("1"), num("2"), num("3"), num("0"),
}

// economicsLayout builds the currency keypad. Currency buttons come first in
// registry order, followed by the numeric pad.
func economicsLayout(currencies []*units.Unit) []Button {
	out := []Button{
		clearButton, deleteButton, op("(", "("), op(")", ")"), op("%", "%"), op("/", "/"),
	}
	for _, c := range currencies {
		out = append(out, unitButton(c.Name, c.Name, c.Title))
	}
	return append(out,
		num("7"), num("8"), num("9"),
		toUnitButton, powerButton, fn("√", "sqrt("), num("4"), num("5"), num("6"),
		expButton, signButton, dotButton, num("1"), num("2"), num("3"),
		num("0"), op("*", "*"), op("-", "-"), op("+", "+"), equalsButton,
	)
}

var defaultCurrencies = sync.OnceValue(func() []*units.Unit {
	reg, err := units.NewRegistry()
	if err != nil {
		panic("calculator: built-in unit table: " + err.Error())
	}
	return reg.Currencies()
})

// Layout returns the buttons of mode in display order, six per row, using the
// built-in currency table.
func Layout(mode Mode) []Button {
	return layoutFor(mode, defaultCurrencies())
}

func layoutFor(mode Mode, currencies []*units.Unit) []Button {
	var src []Button
	switch mode {
	case Physics:
		src = physicsLayout
	case Programming:
		src = programmingLayout
	case Economics:
		return economicsLayout(currencies)
	default:
		src = genericLayout
	}
	return append([]Button(nil), src...)
}

// Selectors returns the angle or base toggles shown above the keypad.
func Selectors(mode Mode) []Button {
	if mode == Programming {
		out := make([]Button, 0, len(Bases))
		for _, b := range Bases {
			out = append(out, btn(KindBaseMode, string(b), string(b)))
		}
		return out
	}
	return []Button{
		titled(btn(KindMode, "Rad", string(Radians)), "Radians Mode"),
		titled(btn(KindMode, "Deg", string(Degrees)), "Degrees Mode"),
	}
}

// findButton looks a button up by value and optionally kind, skipping spacers.
func findButton(layout []Button, value string, kind Kind) (Button, bool) {
	for _, b := range layout {
		if b.Value == value && (kind == "" || b.Kind == kind) && b.Value != " " {
			return b, true
		}
	}
	return Button{}, false
}

func findButtonByDisplay(layout []Button, display string) (Button, bool) {
	for _, b := range layout {
		if b.Display == display && b.Value != " " {
			return b, true
		}
	}
	return Button{}, false
}
