package calculator

import (
	"regexp"
	"strings"

	"go-chi-calculator/internal/evaluator"
)

// trailingLiteral matches the number at the end of the text with an optional
// sign and an optional glued unit suffix ("5", "-2.5e3", "0xFF", "10km").
var trailingLiteral = regexp.MustCompile(`([-+]?(?:0x[0-9a-fA-F]+|0b[01]+|0o[0-7]+|\d*\.?\d+(?:[eE][-+]?\d+)?))([a-zA-Z°]*)$`)

// wrappedLiteral matches a trailing "(-5)" produced for a literal that
// directly follows an operand.
var wrappedLiteral = regexp.MustCompile(`\(-((?:0x[0-9a-fA-F]+|0b[01]+|0o[0-7]+|\d*\.?\d+(?:[eE][-+]?\d+)?)[a-zA-Z°]*)\)$`)

// groupingChars mark text that needs parentheses before it can be negated as
// a whole.
var groupingChars = regexp.MustCompile(`[+\-*/\s^(%&|<>]`)

// unaryContext lists the words after which a sign is unary.
var unaryContext = map[string]bool{
	"and": true, "or": true, "xor": true, "not": true, "to": true, "mod": true,
}

// NegateValue evaluates a pinned result, negates the value and renders it
// again in the same context.
func (e *Engine) NegateValue(text string, mode Mode, base Base, angle AngleUnit) (string, error) {
	v, err := e.Evaluate(text, mode, base, angle)
	if err != nil {
		return text, err
	}
	neg, err := evaluator.Negate(v)
	if err != nil {
		return text, err
	}
	out, _ := Format(neg, base, e.precision, mode)
	return out, nil
}

// NegateTrailingLiteral flips the sign of the last literal in typed text,
// leaving the rest of the expression alone. Toggling twice restores the text.
func NegateTrailingLiteral(text string, mode Mode, base Base) string {
	if text == "" {
		if nonDecimal(mode, base) {
			return text
		}
		return "-"
	}

	if w := wrappedLiteral.FindStringSubmatchIndex(text); w != nil && closesOperand(text[:w[0]]) {
		return text[:w[0]] + text[w[2]:w[3]]
	}

	m := trailingLiteral.FindStringSubmatchIndex(text)
	if m == nil {
		return negateWhole(text)
	}

	start := m[2]
	before, literal := text[:start], text[start:]

	switch literal[0] {
	case '-', '+':
		if binarySign(before) {
			flipped := byte('+')
			if literal[0] == '+' {
				flipped = '-'
			}
			return before + string(flipped) + literal[1:]
		}
		if literal[0] == '-' {
			return before + literal[1:]
		}
		return before + "-" + literal[1:]
	}

	if closesOperand(before) {
		return before + "(-" + literal + ")"
	}
	return before + "-" + literal
}

// binarySign reports whether a sign following before is a binary operator,
// i.e. before ends in an operand.
func binarySign(before string) bool {
	return endsOperand(strings.TrimRight(before, " "))
}

func endsOperand(s string) bool {
	if s == "" {
		return false
	}
	c := s[len(s)-1]
	switch {
	case c == ')' || c == '!' || c == '%' || c == '.':
		return true
	case c >= '0' && c <= '9':
		return true
	case isWordLetter(c):
		i := len(s)
		for i > 0 && isWordLetter(s[i-1]) {
			i--
		}
		return !unaryContext[strings.ToLower(s[i:])]
	}
	// Multi-byte runes such as ° end unit names.
	return c >= 0x80
}

// closesOperand reports whether s ends in a closing parenthesis or postfix
// operator, after which a bare "-" would turn into a subtraction.
func closesOperand(s string) bool {
	if s == "" {
		return false
	}
	c := s[len(s)-1]
	return c == ')' || c == '!' || c == '%' || c >= 0x80
}

// negateWhole handles text without a trailing literal, e.g. "sin(30)" or "pi".
func negateWhole(text string) string {
	if inner, ok := unwrapNegation(text); ok {
		return inner
	}
	if strings.HasPrefix(text, "-") && !groupingChars.MatchString(text[1:]) {
		return text[1:]
	}
	if groupingChars.MatchString(text) || strings.Contains(text, " to ") {
		return "-(" + text + ")"
	}
	return "-" + text
}

// unwrapNegation undoes "-(x)" and "(-x)" when the parentheses enclose the
// whole rest of the text.
func unwrapNegation(text string) (string, bool) {
	switch {
	case strings.HasPrefix(text, "-(") && strings.HasSuffix(text, ")"):
		if closingParen(text, 1) == len(text)-1 {
			return text[2 : len(text)-1], true
		}
	case strings.HasPrefix(text, "(-") && strings.HasSuffix(text, ")"):
		if closingParen(text, 0) == len(text)-1 {
			return text[2 : len(text)-1], true
		}
	}
	return "", false
}

// closingParen returns the index of the parenthesis closing the one at open,
// or -1.
func closingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
