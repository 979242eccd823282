package calculator

import "testing"

func TestResolveKey(t *testing.T) {
	tests := []struct {
		name      string
		mode      Mode
		base      Base
		ev        KeyEvent
		wantOK    bool
		wantValue string
		wantKind  Kind
	}{
		{name: "digit", mode: Generic, base: Dec, ev: KeyEvent{Key: "7"}, wantOK: true, wantValue: "7", wantKind: KindNumber},
		{name: "operator", mode: Generic, base: Dec, ev: KeyEvent{Key: "*"}, wantOK: true, wantValue: "*", wantKind: KindOperator},
		{name: "enter", mode: Generic, base: Dec, ev: KeyEvent{Key: "Enter"}, wantOK: true, wantValue: "=", wantKind: KindEquals},
		{name: "backspace", mode: Physics, base: Dec, ev: KeyEvent{Key: "Backspace"}, wantOK: true, wantValue: "DEL", wantKind: KindDelete},
		{name: "escape", mode: Economics, base: Dec, ev: KeyEvent{Key: "Escape"}, wantOK: true, wantValue: "AC", wantKind: KindClear},
		{name: "exponent", mode: Generic, base: Dec, ev: KeyEvent{Key: "e"}, wantOK: true, wantValue: "e", wantKind: KindOperator},
		{name: "euler", mode: Generic, base: Dec, ev: KeyEvent{Key: "e", Ctrl: true}, wantOK: true, wantValue: "e", wantKind: KindConstant},
		{name: "pi", mode: Generic, base: Dec, ev: KeyEvent{Key: "p", Meta: true}, wantOK: true, wantValue: "pi", wantKind: KindConstant},
		{name: "plain p", mode: Generic, base: Dec, ev: KeyEvent{Key: "p"}, wantOK: false},
		{name: "hex letter", mode: Programming, base: Hex, ev: KeyEvent{Key: "a"}, wantOK: true, wantValue: "A", wantKind: KindHexDigit},
		{name: "hex e is a digit", mode: Programming, base: Hex, ev: KeyEvent{Key: "e"}, wantOK: true, wantValue: "E", wantKind: KindHexDigit},
		{name: "hex letter in dec", mode: Programming, base: Dec, ev: KeyEvent{Key: "a"}, wantOK: false},
		{name: "disabled digit", mode: Programming, base: Bin, ev: KeyEvent{Key: "2"}, wantOK: false},
		{name: "caret is xor", mode: Programming, base: Dec, ev: KeyEvent{Key: "^"}, wantOK: true, wantValue: " xor ", wantKind: KindOperator},
		{name: "caret is power", mode: Generic, base: Dec, ev: KeyEvent{Key: "^"}, wantOK: true, wantValue: "^", wantKind: KindOperator},
		{name: "ampersand", mode: Programming, base: Hex, ev: KeyEvent{Key: "&"}, wantOK: true, wantValue: " and ", wantKind: KindOperator},
		{name: "ampersand outside programming", mode: Generic, base: Dec, ev: KeyEvent{Key: "&"}, wantOK: false},
		{name: "tilde", mode: Programming, base: Dec, ev: KeyEvent{Key: "~"}, wantOK: true, wantValue: "~", wantKind: KindFunctionPrefix},
		{name: "left shift", mode: Programming, base: Dec, ev: KeyEvent{Key: "L", Shift: true}, wantOK: true, wantValue: " << ", wantKind: KindOperator},
		{name: "conversion", mode: Physics, base: Dec, ev: KeyEvent{Key: "t"}, wantOK: true, wantValue: " to ", wantKind: KindOperator},
		{name: "conversion in generic", mode: Generic, base: Dec, ev: KeyEvent{Key: "t"}, wantOK: false},
		{name: "dot in hex", mode: Programming, base: Hex, ev: KeyEvent{Key: "."}, wantOK: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, ok := ResolveKey(tc.mode, tc.base, tc.ev)
			if ok != tc.wantOK {
				t.Fatalf("expected ok %t, got %t (button %+v)", tc.wantOK, ok, b)
			}
			if !ok {
				return
			}
			if b.Value != tc.wantValue || b.Kind != tc.wantKind {
				t.Fatalf("expected %s %q, got %s %q", tc.wantKind, tc.wantValue, b.Kind, b.Value)
			}
		})
	}
}
