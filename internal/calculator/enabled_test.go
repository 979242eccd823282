package calculator

import "testing"

func TestEnabled(t *testing.T) {
	tests := []struct {
		name   string
		button Button
		mode   Mode
		base   Base
		want   bool
	}{
		{name: "spacer", button: spacer, mode: Physics, base: Dec, want: false},
		{name: "generic digit", button: num("7"), mode: Generic, base: Dec, want: true},
		{name: "generic hex digit", button: hexDigit("A"), mode: Generic, base: Dec, want: false},
		{name: "generic bitwise", button: op("AND", " and "), mode: Generic, base: Dec, want: false},
		{name: "generic unit", button: unitButton("m", "m", "Meter"), mode: Generic, base: Dec, want: false},
		{name: "generic conversion", button: toUnitButton, mode: Generic, base: Dec, want: true},
		{name: "physics unit", button: unitButton("m", "m", "Meter"), mode: Physics, base: Dec, want: true},
		{name: "physics constant", button: constantButton("speedOfLight"), mode: Physics, base: Dec, want: true},
		{name: "economics constant", button: constantButton("speedOfLight"), mode: Economics, base: Dec, want: false},
		{name: "economics pi", button: piButton, mode: Economics, base: Dec, want: true},
		{name: "bin two", button: num("2"), mode: Programming, base: Bin, want: false},
		{name: "bin one", button: num("1"), mode: Programming, base: Bin, want: true},
		{name: "oct eight", button: num("8"), mode: Programming, base: Oct, want: false},
		{name: "oct seven", button: num("7"), mode: Programming, base: Oct, want: true},
		{name: "hex letter in hex", button: hexDigit("F"), mode: Programming, base: Hex, want: true},
		{name: "hex letter in dec", button: hexDigit("F"), mode: Programming, base: Dec, want: false},
		{name: "dot in hex", button: dotButton, mode: Programming, base: Hex, want: false},
		{name: "dot in dec", button: dotButton, mode: Programming, base: Dec, want: true},
		{name: "exp in bin", button: expButton, mode: Programming, base: Bin, want: false},
		{name: "percent in oct", button: op("%", "%"), mode: Programming, base: Oct, want: false},
		{name: "sin always off", button: fn("sin", "sin("), mode: Programming, base: Dec, want: false},
		{name: "pi in hex", button: piButton, mode: Programming, base: Hex, want: false},
		{name: "factorial in bin", button: factButton, mode: Programming, base: Bin, want: false},
		{name: "factorial in dec", button: factButton, mode: Programming, base: Dec, want: true},
		{name: "sign in hex", button: signButton, mode: Programming, base: Hex, want: false},
		{name: "sign in dec", button: signButton, mode: Programming, base: Dec, want: true},
		{name: "xor in bin", button: op("XOR", " xor "), mode: Programming, base: Bin, want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Enabled(tc.button, tc.mode, tc.base)
			if got != tc.want {
				t.Fatalf("Enabled(%q, %s, %s): expected %t, got %t", tc.button.Display, tc.mode, tc.base, tc.want, got)
			}
		})
	}
}

func TestLayouts(t *testing.T) {
	for _, mode := range Modes {
		t.Run(string(mode), func(t *testing.T) {
			layout := Layout(mode)
			if len(layout) == 0 {
				t.Fatal("expected buttons")
			}
			if _, ok := findButton(layout, "=", KindEquals); !ok {
				t.Fatal("expected an equals button")
			}
			if _, ok := findButton(layout, "AC", KindClear); !ok {
				t.Fatal("expected a clear button")
			}
		})
	}

	if _, ok := findButton(Layout(Economics), "USD", KindUnit); !ok {
		t.Fatal("expected USD in the economics layout")
	}
	if got := len(Selectors(Programming)); got != len(Bases) {
		t.Fatalf("expected %d base selectors, got %d", len(Bases), got)
	}
	if got := Selectors(Generic)[1].Value; got != string(Degrees) {
		t.Fatalf("expected degree selector, got %q", got)
	}
}

func TestLayoutReturnsCopy(t *testing.T) {
	a := Layout(Generic)
	a[0].Display = "changed"
	if Layout(Generic)[0].Display == "changed" {
		t.Fatal("expected Layout to return an independent slice")
	}
}
