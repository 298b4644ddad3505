package pricing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// The custom_script formula runs inside this evaluator and nowhere else. The
// grammar is deliberately closed: numbers, whitelisted variables, arithmetic,
// comparisons, boolean combinators and a ternary conditional. There are no
// function calls, no assignment and no access to anything outside the
// variable map, so a rule document can never become a code-injection vector.
//
// Limits bound pathological expressions so evaluation stays cheap enough to
// run synchronously on the request path.
const (
	maxScriptLen    = 4096
	maxScriptTokens = 512
	maxEvalSteps    = 4096
)

var (
	errScriptTooLong  = errors.New("script exceeds maximum length")
	errTooManyTokens  = errors.New("script exceeds maximum token count")
	errTooManySteps   = errors.New("script exceeds maximum evaluation steps")
	errEmptyScript    = errors.New("empty script")
	errUnexpectedByte = errors.New("unexpected character")
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokOp
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	num  float64
}

func evalScript(src string, vars map[string]float64) (float64, error) {
	if len(src) > maxScriptLen {
		return 0, errScriptTooLong
	}
	toks, err := lexScript(src)
	if err != nil {
		return 0, err
	}
	if len(toks) == 1 { // EOF only
		return 0, errEmptyScript
	}

	p := &scriptParser{toks: toks, vars: vars}
	result, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if p.peek().kind != tokEOF {
		return 0, fmt.Errorf("unexpected trailing token %q", p.peek().text)
	}
	return result, nil
}

func lexScript(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		ch := src[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch >= '0' && ch <= '9':
			j := i
			for j < len(src) && src[j] >= '0' && src[j] <= '9' {
				j++
			}
			if j < len(src) && src[j] == '.' {
				j++
				for j < len(src) && src[j] >= '0' && src[j] <= '9' {
					j++
				}
			}
			num, err := strconv.ParseFloat(src[i:j], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q", src[i:j])
			}
			toks = append(toks, token{kind: tokNumber, num: num})
			i = j
		case isIdentStart(ch):
			j := i
			for j < len(src) && isIdentPart(src[j]) {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: src[i:j]})
			i = j
		default:
			op, n := lexOperator(src[i:])
			if n == 0 {
				return nil, fmt.Errorf("%w %q", errUnexpectedByte, string(ch))
			}
			toks = append(toks, token{kind: tokOp, text: op})
			i += n
		}
		if len(toks) > maxScriptTokens {
			return nil, errTooManyTokens
		}
	}
	toks = append(toks, token{kind: tokEOF})
	return toks, nil
}

func lexOperator(s string) (string, int) {
	two := []string{"<=", ">=", "==", "!=", "&&", "||"}
	for _, op := range two {
		if len(s) >= 2 && s[:2] == op {
			return op, 2
		}
	}
	switch s[0] {
	case '+', '-', '*', '/', '%', '(', ')', '<', '>', '!', '?', ':':
		return string(s[0]), 1
	}
	return "", 0
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}

// scriptParser evaluates during the parse. Both ternary branches are
// computed eagerly; division by zero yields an IEEE infinity which the
// formula layer rejects as NON_NUMERIC_RESULT, so no branch can fault.
type scriptParser struct {
	toks  []token
	pos   int
	steps int
	vars  map[string]float64
}

func (p *scriptParser) peek() token {
	return p.toks[p.pos]
}

func (p *scriptParser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *scriptParser) acceptOp(op string) bool {
	t := p.peek()
	if t.kind == tokOp && t.text == op {
		p.pos++
		return true
	}
	return false
}

func (p *scriptParser) step() error {
	p.steps++
	if p.steps > maxEvalSteps {
		return errTooManySteps
	}
	return nil
}

func (p *scriptParser) parseExpr() (float64, error) {
	return p.parseTernary()
}

func (p *scriptParser) parseTernary() (float64, error) {
	cond, err := p.parseOr()
	if err != nil {
		return 0, err
	}
	if !p.acceptOp("?") {
		return cond, nil
	}
	thenVal, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if !p.acceptOp(":") {
		return 0, errors.New("ternary missing ':'")
	}
	elseVal, err := p.parseTernary()
	if err != nil {
		return 0, err
	}
	if err := p.step(); err != nil {
		return 0, err
	}
	if cond != 0 {
		return thenVal, nil
	}
	return elseVal, nil
}

func (p *scriptParser) parseOr() (float64, error) {
	left, err := p.parseAnd()
	if err != nil {
		return 0, err
	}
	for p.acceptOp("||") {
		right, err := p.parseAnd()
		if err != nil {
			return 0, err
		}
		if err := p.step(); err != nil {
			return 0, err
		}
		left = boolToFloat(left != 0 || right != 0)
	}
	return left, nil
}

func (p *scriptParser) parseAnd() (float64, error) {
	left, err := p.parseEquality()
	if err != nil {
		return 0, err
	}
	for p.acceptOp("&&") {
		right, err := p.parseEquality()
		if err != nil {
			return 0, err
		}
		if err := p.step(); err != nil {
			return 0, err
		}
		left = boolToFloat(left != 0 && right != 0)
	}
	return left, nil
}

func (p *scriptParser) parseEquality() (float64, error) {
	left, err := p.parseComparison()
	if err != nil {
		return 0, err
	}
	for {
		var op string
		switch {
		case p.acceptOp("=="):
			op = "=="
		case p.acceptOp("!="):
			op = "!="
		default:
			return left, nil
		}
		right, err := p.parseComparison()
		if err != nil {
			return 0, err
		}
		if err := p.step(); err != nil {
			return 0, err
		}
		if op == "==" {
			left = boolToFloat(left == right)
		} else {
			left = boolToFloat(left != right)
		}
	}
}

func (p *scriptParser) parseComparison() (float64, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return 0, err
	}
	for {
		var op string
		switch {
		case p.acceptOp("<="):
			op = "<="
		case p.acceptOp(">="):
			op = ">="
		case p.acceptOp("<"):
			op = "<"
		case p.acceptOp(">"):
			op = ">"
		default:
			return left, nil
		}
		right, err := p.parseAdditive()
		if err != nil {
			return 0, err
		}
		if err := p.step(); err != nil {
			return 0, err
		}
		switch op {
		case "<":
			left = boolToFloat(left < right)
		case "<=":
			left = boolToFloat(left <= right)
		case ">":
			left = boolToFloat(left > right)
		case ">=":
			left = boolToFloat(left >= right)
		}
	}
}

func (p *scriptParser) parseAdditive() (float64, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return 0, err
	}
	for {
		switch {
		case p.acceptOp("+"):
			right, err := p.parseMultiplicative()
			if err != nil {
				return 0, err
			}
			if err := p.step(); err != nil {
				return 0, err
			}
			left += right
		case p.acceptOp("-"):
			right, err := p.parseMultiplicative()
			if err != nil {
				return 0, err
			}
			if err := p.step(); err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

func (p *scriptParser) parseMultiplicative() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		var op string
		switch {
		case p.acceptOp("*"):
			op = "*"
		case p.acceptOp("/"):
			op = "/"
		case p.acceptOp("%"):
			op = "%"
		default:
			return left, nil
		}
		right, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if err := p.step(); err != nil {
			return 0, err
		}
		switch op {
		case "*":
			left *= right
		case "/":
			left /= right
		case "%":
			left = math.Mod(left, right)
		}
	}
}

func (p *scriptParser) parseUnary() (float64, error) {
	if p.acceptOp("-") {
		v, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if err := p.step(); err != nil {
			return 0, err
		}
		return -v, nil
	}
	if p.acceptOp("!") {
		v, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if err := p.step(); err != nil {
			return 0, err
		}
		return boolToFloat(v == 0), nil
	}
	return p.parsePrimary()
}

func (p *scriptParser) parsePrimary() (float64, error) {
	if err := p.step(); err != nil {
		return 0, err
	}

	t := p.next()
	switch t.kind {
	case tokNumber:
		return t.num, nil
	case tokIdent:
		v, ok := p.vars[t.text]
		if !ok {
			return 0, fmt.Errorf("unknown variable %q", t.text)
		}
		return v, nil
	case tokOp:
		if t.text == "(" {
			v, err := p.parseExpr()
			if err != nil {
				return 0, err
			}
			if !p.acceptOp(")") {
				return 0, errors.New("missing closing parenthesis")
			}
			return v, nil
		}
	}
	return 0, fmt.Errorf("unexpected token %q", t.text)
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
