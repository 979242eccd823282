package evaluator

import (
	"errors"
	"testing"
)

func TestTokenize(t *testing.T) {
	type tk struct {
		kind tokenKind
		text string
	}

	tests := []struct {
		input string
		want  []tk
	}{
		{"2.5e3+0xFF", []tk{{tokNumber, "2.5e3"}, {tokOp, "+"}, {tokNumber, "0xFF"}}},
		{"1 << 2", []tk{{tokNumber, "1"}, {tokOp, "<<"}, {tokNumber, "2"}}},
		{"a xor b", []tk{{tokIdent, "a"}, {tokOp, "xor"}, {tokIdent, "b"}}},
		{"sin(30)", []tk{{tokIdent, "sin"}, {tokLParen, "("}, {tokNumber, "30"}, {tokRParen, ")"}}},
		{"atan2(3,4)", []tk{{tokIdent, "atan2"}, {tokLParen, "("}, {tokNumber, "3"}, {tokComma, ","}, {tokNumber, "4"}, {tokRParen, ")"}}},
		{"2e", []tk{{tokNumber, "2"}, {tokIdent, "e"}}},
		{"10 m to ft", []tk{{tokNumber, "10"}, {tokIdent, "m"}, {tokOp, "to"}, {tokIdent, "ft"}}},
		{".5 != 0b101", []tk{{tokNumber, ".5"}, {tokOp, "!="}, {tokNumber, "0b101"}}},
		{"5!", []tk{{tokNumber, "5"}, {tokOp, "!"}}},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			toks, err := tokenize(tc.input)
			if err != nil {
				t.Fatalf("tokenize(%q): %v", tc.input, err)
			}
			if last := toks[len(toks)-1]; last.kind != tokEOF {
				t.Fatalf("expected trailing EOF, got %+v", last)
			}
			toks = toks[:len(toks)-1]
			if len(toks) != len(tc.want) {
				t.Fatalf("expected %d tokens, got %+v", len(tc.want), toks)
			}
			for i, want := range tc.want {
				if toks[i].kind != want.kind || toks[i].text != want.text {
					t.Fatalf("token %d: expected %+v, got %+v", i, want, toks[i])
				}
			}
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	for _, input := range []string{"0x", "1.2.3", "2 # 3", "0b2"} {
		t.Run(input, func(t *testing.T) {
			if _, err := tokenize(input); !errors.Is(err, ErrSyntax) {
				t.Fatalf("expected ErrSyntax, got %v", err)
			}
		})
	}
}
