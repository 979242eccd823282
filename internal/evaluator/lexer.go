package evaluator

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// keywords lex as operators so that they never take part in implicit
// multiplication.
var keywords = map[string]bool{
	"and": true,
	"or":  true,
	"xor": true,
	"not": true,
	"to":  true,
	"mod": true,
}

// twoCharOps must be checked before their one character prefixes.
var twoCharOps = []string{"<<", ">>", "<=", ">=", "==", "!="}

const oneCharOps = "+-*/^%!~&|<>"

type lexer struct {
	s string
	i int
}

func tokenize(s string) ([]token, error) {
	l := &lexer{s: s}
	var out []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
		if tok.kind == tokEOF {
			return out, nil
		}
	}
}

func (l *lexer) next() (token, error) {
	for l.i < len(l.s) {
		r, size := utf8.DecodeRuneInString(l.s[l.i:])
		if !unicode.IsSpace(r) {
			break
		}
		l.i += size
	}
	if l.i >= len(l.s) {
		return token{kind: tokEOF, pos: l.i}, nil
	}

	start := l.i
	c := l.s[l.i]

	switch {
	case c == '(':
		l.i++
		return token{kind: tokLParen, text: "(", pos: start}, nil
	case c == ')':
		l.i++
		return token{kind: tokRParen, text: ")", pos: start}, nil
	case c == ',':
		l.i++
		return token{kind: tokComma, text: ",", pos: start}, nil
	case isDigit(c) || (c == '.' && l.i+1 < len(l.s) && isDigit(l.s[l.i+1])):
		return l.number()
	}

	for _, op := range twoCharOps {
		if strings.HasPrefix(l.s[l.i:], op) {
			l.i += len(op)
			return token{kind: tokOp, text: op, pos: start}, nil
		}
	}
	if strings.IndexByte(oneCharOps, c) >= 0 {
		l.i++
		return token{kind: tokOp, text: string(c), pos: start}, nil
	}

	r, _ := utf8.DecodeRuneInString(l.s[l.i:])
	if isIdentStart(r) {
		for l.i < len(l.s) {
			r, size := utf8.DecodeRuneInString(l.s[l.i:])
			if !isIdentStart(r) && !unicode.IsDigit(r) {
				break
			}
			l.i += size
		}
		word := l.s[start:l.i]
		if keywords[word] {
			return token{kind: tokOp, text: word, pos: start}, nil
		}
		return token{kind: tokIdent, text: word, pos: start}, nil
	}

	return token{}, fmt.Errorf("%w: unexpected character %q (char %d)", ErrSyntax, r, start+1)
}

func (l *lexer) number() (token, error) {
	start := l.i

	if l.s[l.i] == '0' && l.i+1 < len(l.s) {
		var valid func(byte) bool
		switch l.s[l.i+1] {
		case 'x', 'X':
			valid = isHexDigit
		case 'b', 'B':
			valid = func(c byte) bool { return c == '0' || c == '1' }
		case 'o', 'O':
			valid = func(c byte) bool { return c >= '0' && c <= '7' }
		}
		if valid != nil {
			l.i += 2
			digits := l.i
			for l.i < len(l.s) && valid(l.s[l.i]) {
				l.i++
			}
			if l.i == digits {
				return token{}, fmt.Errorf("%w: missing digits after %q (char %d)", ErrSyntax, l.s[start:l.i], start+1)
			}
			return token{kind: tokNumber, text: l.s[start:l.i], pos: start}, nil
		}
	}

	for l.i < len(l.s) && isDigit(l.s[l.i]) {
		l.i++
	}
	if l.i < len(l.s) && l.s[l.i] == '.' {
		l.i++
		for l.i < len(l.s) && isDigit(l.s[l.i]) {
			l.i++
		}
	}
	if l.i < len(l.s) && (l.s[l.i] == 'e' || l.s[l.i] == 'E') {
		j := l.i + 1
		if j < len(l.s) && (l.s[j] == '+' || l.s[j] == '-') {
			j++
		}
		if j < len(l.s) && isDigit(l.s[j]) {
			for j < len(l.s) && isDigit(l.s[j]) {
				j++
			}
			l.i = j
		}
	}
	if l.i < len(l.s) && l.s[l.i] == '.' {
		return token{}, fmt.Errorf("%w: unexpected %q in number (char %d)", ErrSyntax, '.', l.i+1)
	}

	return token{kind: tokNumber, text: l.s[start:l.i], pos: start}, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}
