package evaluator

import (
	"fmt"
)

type node interface{}

type numberNode struct {
	text string
	pos  int
}

type identNode struct {
	name string
	pos  int
}

type callNode struct {
	name string
	args []node
	pos  int
}

type unaryNode struct {
	op  string
	x   node
	pos int
}

type binaryNode struct {
	op   string
	x, y node
	pos  int
}

type postfixNode struct {
	op  string
	x   node
	pos int
}

type convertNode struct {
	x, target node
	pos       int
}

// parser is a recursive descent parser. Precedence, loosest first:
//
//	or, xor, and, |, &, comparisons, << >>, to, + -, * / % mod,
//	implicit multiplication, unary - + ~ not, ^, postfix !
type parser struct {
	toks []token
	i    int
}

func parse(src string) (node, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	if p.peek().kind == tokEOF {
		return nil, nil
	}
	n, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.unexpected(t)
	}
	return n, nil
}

func (p *parser) peek() token {
	return p.toks[p.i]
}

func (p *parser) advance() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) isOp(ops ...string) (token, bool) {
	t := p.peek()
	if t.kind != tokOp {
		return t, false
	}
	for _, op := range ops {
		if t.text == op {
			return t, true
		}
	}
	return t, false
}

func (p *parser) unexpected(t token) error {
	if t.kind == tokEOF {
		return fmt.Errorf("%w: unexpected end of expression (char %d)", ErrSyntax, t.pos+1)
	}
	return fmt.Errorf("%w: unexpected %q (char %d)", ErrSyntax, t.text, t.pos+1)
}

// binaryLevel parses a left-associative level.
func (p *parser) binaryLevel(next func() (node, error), ops ...string) (node, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		t, ok := p.isOp(ops...)
		if !ok {
			return left, nil
		}
		p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: t.text, x: left, y: right, pos: t.pos}
	}
}

func (p *parser) parseOr() (node, error)  { return p.binaryLevel(p.parseXor, "or") }
func (p *parser) parseXor() (node, error) { return p.binaryLevel(p.parseAnd, "xor") }
func (p *parser) parseAnd() (node, error) { return p.binaryLevel(p.parseBitOr, "and") }

func (p *parser) parseBitOr() (node, error)  { return p.binaryLevel(p.parseBitAnd, "|") }
func (p *parser) parseBitAnd() (node, error) { return p.binaryLevel(p.parseCompare, "&") }

func (p *parser) parseCompare() (node, error) {
	return p.binaryLevel(p.parseShift, "==", "!=", "<", ">", "<=", ">=")
}

func (p *parser) parseShift() (node, error) { return p.binaryLevel(p.parseConvert, "<<", ">>") }

func (p *parser) parseConvert() (node, error) {
	left, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	for {
		t, ok := p.isOp("to")
		if !ok {
			return left, nil
		}
		p.advance()
		target, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		left = convertNode{x: left, target: target, pos: t.pos}
	}
}

func (p *parser) parseAdd() (node, error) { return p.binaryLevel(p.parseMul, "+", "-") }

func (p *parser) parseMul() (node, error) {
	left, err := p.parseImplicit()
	if err != nil {
		return nil, err
	}
	for {
		t, ok := p.isOp("*", "/", "%", "mod")
		if !ok {
			return left, nil
		}
		p.advance()
		// A trailing % with nothing to divide by is a percentage.
		if t.text == "%" && !p.startsOperand() && !p.startsUnary() {
			left = postfixNode{op: "%", x: left, pos: t.pos}
			continue
		}
		right, err := p.parseImplicit()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: t.text, x: left, y: right, pos: t.pos}
	}
}

func (p *parser) startsOperand() bool {
	switch p.peek().kind {
	case tokNumber, tokIdent, tokLParen:
		return true
	}
	return false
}

func (p *parser) startsUnary() bool {
	_, ok := p.isOp("-", "+", "~", "not")
	return ok
}

func (p *parser) parseImplicit() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.startsOperand() {
		pos := p.peek().pos
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: "*", x: left, y: right, pos: pos}
	}
	return left, nil
}

func (p *parser) parseUnary() (node, error) {
	if t, ok := p.isOp("-", "+", "~", "not"); ok {
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return unaryNode{op: t.text, x: x, pos: t.pos}, nil
	}
	return p.parsePow()
}

func (p *parser) parsePow() (node, error) {
	base, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	t, ok := p.isOp("^")
	if !ok {
		return base, nil
	}
	p.advance()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return binaryNode{op: "^", x: base, y: exp, pos: t.pos}, nil
}

func (p *parser) parsePostfix() (node, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		t, ok := p.isOp("!")
		if !ok {
			return x, nil
		}
		p.advance()
		x = postfixNode{op: "!", x: x, pos: t.pos}
	}
}

func (p *parser) parsePrimary() (node, error) {
	t := p.advance()
	switch t.kind {
	case tokNumber:
		return numberNode{text: t.text, pos: t.pos}, nil

	case tokIdent:
		if p.peek().kind != tokLParen {
			return identNode{name: t.text, pos: t.pos}, nil
		}
		return p.parseCall(t)

	case tokOp:
		// mod in operand position is the function, e.g. mod(5, 3).
		if t.text == "mod" && p.peek().kind == tokLParen {
			return p.parseCall(t)
		}

	case tokLParen:
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.advance(); closing.kind != tokRParen {
			return nil, fmt.Errorf("%w: parenthesis ) expected (char %d)", ErrSyntax, closing.pos+1)
		}
		return inner, nil
	}
	return nil, p.unexpected(t)
}

// parseCall parses the argument list following the function name t.
func (p *parser) parseCall(t token) (node, error) {
	p.advance()
	var args []node
	if p.peek().kind != tokRParen {
		for {
			arg, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().kind != tokComma {
				break
			}
			p.advance()
		}
	}
	if closing := p.advance(); closing.kind != tokRParen {
		return nil, fmt.Errorf("%w: parenthesis ) expected (char %d)", ErrSyntax, closing.pos+1)
	}
	return callNode{name: t.text, args: args, pos: t.pos}, nil
}
