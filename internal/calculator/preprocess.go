package calculator

import (
	"regexp"
	"strings"
)

var (
	percentLiteral = regexp.MustCompile(`(\d+(?:\.\d+(?:[eE][-+]?\d+)?)?)%`)
	whitespaceRun  = regexp.MustCompile(`\s\s+`)
)

// Preprocess rewrites the raw expression into the form the evaluator
// expects. It is pure and never fails.
func Preprocess(text string, base Base, mode Mode) string {
	out := percentLiteral.ReplaceAllString(text, "($1/100)")
	out = spaceBitwiseKeywords(out)
	if nonDecimal(mode, base) {
		out = prefixLiterals(out, base)
	}
	out = whitespaceRun.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

var bitwiseKeywords = map[string]string{
	"and": "and", "AND": "and",
	"or": "or", "OR": "or",
	"xor": "xor", "XOR": "xor",
}

// spaceBitwiseKeywords lowercases and/or/xor and puts a space on each side.
// Only whole letter runs count, so "floor" and "xoring" are left alone while
// digits may touch the keyword ("5AND3").
func spaceBitwiseKeywords(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); {
		if !isWordLetter(s[i]) {
			b.WriteByte(s[i])
			i++
			continue
		}
		j := i
		for j < len(s) && isWordLetter(s[j]) {
			j++
		}
		word := s[i:j]
		if kw, ok := bitwiseKeywords[word]; ok {
			b.WriteString(" " + kw + " ")
		} else {
			b.WriteString(word)
		}
		i = j
	}
	return b.String()
}

func isWordLetter(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isWordChar(c byte) bool {
	return isWordLetter(c) || (c >= '0' && c <= '9')
}

// prefixLiterals adds the base prefix to every standalone run of base digits.
// Runs that touch a word character belong to an identifier or an already
// prefixed literal and are kept verbatim.
func prefixLiterals(s string, base Base) string {
	prefix := base.Prefix()
	marker := prefix[1]

	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); {
		if !base.validDigit(s[i]) {
			b.WriteByte(s[i])
			i++
			continue
		}
		j := i
		for j < len(s) && base.validDigit(s[j]) {
			j++
		}
		run := s[i:j]

		var before, beforeThat, after byte
		if i > 0 {
			before = s[i-1]
		}
		if i > 1 {
			beforeThat = s[i-2]
		}
		if j < len(s) {
			after = s[j]
		}

		prefixed := beforeThat == '0' && lower(before) == marker
		touchesWord := (before != 0 && isWordChar(before) && !prefixed) ||
			(after != 0 && (isWordChar(after) || after == '.'))

		if !prefixed && !touchesWord && !keepsVerbatim(run, base) {
			b.WriteString(prefix)
		}
		b.WriteString(run)
		i = j
	}
	return b.String()
}

// keepsVerbatim covers the constant names that can look like digit runs.
// A lone "e" is Euler's number except in HEX, where it is the digit.
func keepsVerbatim(run string, base Base) bool {
	switch strings.ToLower(run) {
	case "e":
		return base != Hex
	case "pi":
		return true
	}
	return false
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
