package calculator

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"go-chi-calculator/internal/evaluator"
)

func TestFormat(t *testing.T) {
	bn := func(s string) evaluator.Value { return evaluator.Big(decimal.RequireFromString(s)) }

	tests := []struct {
		name     string
		value    evaluator.Value
		mode     Mode
		base     Base
		want     string
		advisory string
	}{
		{name: "integer", value: bn("255"), mode: Generic, base: Dec, want: "255"},
		{name: "integer in hex", value: bn("255"), mode: Programming, base: Hex, want: "FF"},
		{name: "negative in hex", value: bn("-255"), mode: Programming, base: Hex, want: "-FF"},
		{name: "integer in bin", value: bn("10"), mode: Programming, base: Bin, want: "1010"},
		{name: "integer in oct", value: bn("64"), mode: Programming, base: Oct, want: "100"},
		{name: "base ignored outside programming", value: bn("255"), mode: Generic, base: Hex, want: "255"},
		{name: "fixed notation", value: bn("12345.6"), mode: Generic, base: Dec, want: "12345.6"},
		{name: "large exponent", value: bn("123456.7"), mode: Generic, base: Dec, want: "1.234567e+5"},
		{name: "small exponent", value: bn("0.0001"), mode: Generic, base: Dec, want: "1e-4"},
		{name: "small fixed", value: bn("0.001"), mode: Generic, base: Dec, want: "0.001"},
		{
			name: "fraction in hex", value: bn("0.5"), mode: Programming, base: Hex, want: "0.5",
			advisory: notIntegerAdvisory,
		},
		{name: "huge integer", value: bn("1e1000000"), mode: Generic, base: Dec, want: "1e+1000000"},
		{name: "huge negative integer", value: bn("-25e999998"), mode: Generic, base: Dec, want: "-2.5e+999999"},
		{
			name: "huge integer in hex", value: bn("1e5000"), mode: Programming, base: Hex, want: "1e+5000",
			advisory: "Info: Result too large for base HEX. Displaying in decimal.",
		},
		{name: "huge integer in programming dec", value: bn("1e5000"), mode: Programming, base: Dec, want: "1e+5000"},
		{name: "float", value: evaluator.Number(0.1 + 0.2), mode: Generic, base: Dec, want: "0.3"},
		{name: "float integer in hex", value: evaluator.Number(16), mode: Programming, base: Hex, want: "10"},
		{name: "infinity", value: evaluator.Number(math.Inf(1)), mode: Generic, base: Dec, want: "Infinity"},
		{name: "nan", value: evaluator.Number(math.NaN()), mode: Generic, base: Dec, want: "NaN"},
		{name: "bool", value: evaluator.Bool(true), mode: Generic, base: Dec, want: "true"},
		{name: "null", value: evaluator.Null{}, mode: Generic, base: Dec, want: "null"},
		{name: "undefined", value: nil, mode: Generic, base: Dec, want: "undefined"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			text, advisory := Format(tc.value, tc.base, DefaultPrecision, tc.mode)
			if text != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, text)
			}
			if advisory != tc.advisory {
				t.Fatalf("expected advisory %q, got %q", tc.advisory, advisory)
			}
		})
	}
}

func TestFormatQuantity(t *testing.T) {
	e := newTestEngine(t)

	v, err := e.Evaluate("2 m * 3", Physics, Dec, Radians)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	text, advisory := Format(v, Dec, DefaultPrecision, Physics)
	if text != "6 m" || advisory != "" {
		t.Fatalf("expected %q without advisory, got %q / %q", "6 m", text, advisory)
	}

	text, advisory = Format(v, Hex, DefaultPrecision, Programming)
	if text != "6 m" {
		t.Fatalf("expected %q, got %q", "6 m", text)
	}
	want := "Info: Result has units. Base HEX only for dimensionless integers. Displaying in decimal."
	if advisory != want {
		t.Fatalf("expected advisory %q, got %q", want, advisory)
	}
}

func TestFormatAutoRoundsToPrecision(t *testing.T) {
	got := formatAuto(decimal.RequireFromString("2.00000000000000000001"), 10)
	if got != "2" {
		t.Fatalf("expected %q, got %q", "2", got)
	}
}
