package calculator

import "strings"

// KeyEvent is a physical key press as reported by a host.
type KeyEvent struct {
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrl,omitempty"`
	Meta  bool   `json:"meta,omitempty"`
	Shift bool   `json:"shift,omitempty"`
}

// ResolveKey maps a key press to the button it activates in mode and base.
// It reports false when the key has no enabled button.
func ResolveKey(mode Mode, base Base, ev KeyEvent) (Button, bool) {
	layout := Layout(mode)
	return resolveKey(layout, mode, base, ev)
}

func resolveKey(layout []Button, mode Mode, base Base, ev KeyEvent) (Button, bool) {
	enabled := func(b Button, ok bool) (Button, bool) {
		if !ok || !Enabled(b, mode, base) {
			return Button{}, false
		}
		return b, true
	}
	byValue := func(value string, kind Kind) (Button, bool) {
		return enabled(findButton(layout, value, kind))
	}
	byDisplay := func(display string) (Button, bool) {
		return enabled(findButtonByDisplay(layout, display))
	}

	key := ev.Key
	modified := ev.Ctrl || ev.Meta
	programming := mode == Programming

	switch {
	case len(key) == 1 && key[0] >= '0' && key[0] <= '9':
		return byValue(key, KindNumber)

	case programming && base == Hex && len(key) == 1 && isHexLetter(key[0]) && !modified:
		return byValue(strings.ToUpper(key), KindHexDigit)

	case key == ".":
		return byValue(".", "")

	case key == "+" || key == "-" || key == "*" || key == "/" || key == "%" || key == "(" || key == ")":
		return byValue(key, KindOperator)

	case key == "^":
		if programming {
			if b, ok := byDisplay("XOR"); ok {
				return b, true
			}
		}
		return byValue("^", KindOperator)

	case key == "Enter" || key == "=":
		return equalsButton, true

	case key == "Backspace":
		return deleteButton, true

	case key == "Escape":
		return clearButton, true

	case strings.EqualFold(key, "p") && modified:
		return byValue("pi", KindConstant)

	case strings.EqualFold(key, "e"):
		if modified {
			return byValue("e", KindConstant)
		}
		if b, ok := byDisplay("EXP"); ok {
			return b, true
		}
		if programming && base == Hex {
			return byValue("E", KindHexDigit)
		}
		return Button{}, false

	case key == "&" && programming:
		return byDisplay("AND")

	case key == "|" && programming:
		return byDisplay("OR")

	case key == "~" && programming:
		return byDisplay("NOT")

	case key == "L" && ev.Shift && programming:
		return byDisplay("Lsh")

	case key == "R" && ev.Shift && programming:
		return byDisplay("Rsh")

	case strings.EqualFold(key, "t") && (mode == Economics || mode == Physics):
		return byDisplay("to")
	}
	return Button{}, false
}

func isHexLetter(c byte) bool {
	return (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
