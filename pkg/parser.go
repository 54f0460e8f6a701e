package kaleido

import (
	"strconv"
	"strings"
)

// DefaultPrecedence is the binary-operator table of the base language. The
// keys double as the set of known infix operators: a punctuation character
// with no entry (or a non-positive one) never parses as an operator.
func DefaultPrecedence() map[rune]int {
	return map[rune]int{
		'<': 10,
		'+': 20,
		'-': 30,
		'*': 40,
	}
}

// Parser builds AST nodes from a token stream. It keeps exactly one token of
// lookahead and never backtracks; a failed construct leaves the offending
// token buffered so the driver can decide how to resynchronize.
type Parser struct {
	tokenizer Tokenizer
	prec      map[rune]int
	buf       *Token
	started   bool
}

func NewParser(tokenizer Tokenizer) *Parser {
	return &Parser{
		tokenizer: tokenizer,
		prec:      DefaultPrecedence(),
	}
}

// Peek returns the current token without consuming it. Drivers dispatch on it
// to pick a top-level production.
func (p *Parser) Peek() Token {
	return p.peek()
}

// Skip discards the current token. Drivers use it to resynchronize the stream
// after a failed construct.
func (p *Parser) Skip() Token {
	return p.next()
}

func (p *Parser) peek() Token {
	if p.buf == nil {
		temp := p.next()
		p.buf = &temp
	}

	return *p.buf
}

func (p *Parser) next() Token {
	if !p.started {
		go p.tokenizer.Do()
		p.started = true
	}

	if p.buf != nil {
		temp := p.buf
		p.buf = nil

		return *temp
	}

	return p.tokenizer.Get()
}

func (p *Parser) consume(r rune) bool {
	if !p.peek().isPunct(r) {
		return false
	}

	p.next()
	return true
}

// tokPrecedence returns the precedence of the current token as an infix
// operator, or -1 if it is not one.
func (p *Parser) tokPrecedence() int {
	prec, ok := p.prec[p.peek().punct()]
	if !ok || prec <= 0 {
		return -1
	}

	return prec
}

// ParseDefinition parses
//
//	definition := 'def' prototype expression
func (p *Parser) ParseDefinition() (*Function, error) {
	p.next() // Eat 'def'

	proto, err := p.parsePrototype()
	if err != nil {
		return nil, err
	}

	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &Function{Proto: proto, Body: body}, nil
}

// ParseExtern parses
//
//	extern := 'extern' prototype
func (p *Parser) ParseExtern() (*Prototype, error) {
	p.next() // Eat 'extern'

	return p.parsePrototype()
}

// ParseTopLevelExpr parses a bare expression and wraps it into an anonymous,
// zero-parameter function so it can reuse the function lowering path.
func (p *Parser) ParseTopLevelExpr() (*Function, error) {
	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &Function{Proto: &Prototype{}, Body: body}, nil
}

// parsePrototype parses
//
//	prototype := identifier '(' identifier* ')'
func (p *Parser) parsePrototype() (*Prototype, error) {
	name := p.next()
	if name.Typ != TokenIdentifier {
		return nil, syntaxErrorf("expected function name in prototype")
	}

	if !p.consume('(') {
		return nil, syntaxErrorf("expected '(' in prototype")
	}

	var params []string
	for p.peek().Typ == TokenIdentifier {
		params = append(params, p.next().Value)
	}

	if !p.consume(')') {
		return nil, syntaxErrorf("expected ')' in prototype")
	}

	return &Prototype{Name: name.Value, Params: params}, nil
}

// parseExpression parses
//
//	expression := primary binOpRHS
func (p *Parser) parseExpression() (Expr, error) {
	lhs, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	return p.parseBinOpRHS(0, lhs)
}

// parseBinOpRHS is the precedence-climbing loop: it absorbs operator/primary
// pairs as long as the operator's precedence meets minPrec, recursing only
// when the following operator binds tighter than the one just consumed. Equal
// precedence therefore associates to the left.
func (p *Parser) parseBinOpRHS(minPrec int, lhs Expr) (Expr, error) {
	for {
		prec := p.tokPrecedence()
		if prec < minPrec {
			return lhs, nil
		}

		op := p.next().punct()

		rhs, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}

		if prec < p.tokPrecedence() {
			rhs, err = p.parseBinOpRHS(prec+1, rhs)
			if err != nil {
				return nil, err
			}
		}

		lhs = &BinaryExpr{Op: op, LHS: lhs, RHS: rhs}
	}
}

// parsePrimary parses
//
//	primary := numberExpr | identifierExpr | parenExpr
func (p *Parser) parsePrimary() (Expr, error) {
	switch tok := p.peek(); {
	case tok.Typ == TokenNumber:
		return p.parseNumberExpr()
	case tok.Typ == TokenIdentifier:
		return p.parseIdentifierExpr()
	case tok.isPunct('('):
		return p.parseParenExpr()
	default:
		return nil, syntaxErrorf("unknown token when expecting an expression")
	}
}

func (p *Parser) parseNumberExpr() (Expr, error) {
	return &NumberExpr{Value: parseNumber(p.next().Value)}, nil
}

// parseParenExpr parses
//
//	parenExpr := '(' expression ')'
func (p *Parser) parseParenExpr() (Expr, error) {
	p.next() // Eat '('

	v, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if !p.consume(')') {
		return nil, syntaxErrorf("expected ')'")
	}

	return v, nil
}

// parseIdentifierExpr parses
//
//	identifierExpr := identifier
//	                | identifier '(' (expression (',' expression)*)? ')'
func (p *Parser) parseIdentifierExpr() (Expr, error) {
	name := p.next().Value

	if !p.peek().isPunct('(') {
		return &VariableExpr{Name: name}, nil
	}

	p.next() // Eat '('

	var args []Expr
	if !p.peek().isPunct(')') {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}

			args = append(args, arg)

			if p.peek().isPunct(')') {
				break
			}

			if !p.consume(',') {
				return nil, syntaxErrorf("expected ')' or ',' in argument list")
			}
		}
	}

	p.next() // Eat ')'

	return &CallExpr{Callee: name, Args: args}, nil
}

// parseNumber converts a number token permissively, taking the longest valid
// leading prefix the way strtod does: "1.2.3" reads as 1.2. Number tokens are
// never rejected.
func parseNumber(s string) float64 {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}

	if i := strings.IndexByte(s, '.'); i >= 0 {
		if j := strings.IndexByte(s[i+1:], '.'); j >= 0 {
			s = s[:i+1+j]
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}

	return v
}
