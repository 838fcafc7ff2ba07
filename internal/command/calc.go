package command

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	calcRe      = regexp.MustCompile(`(?i)^calc(?:ulate)?\s+(.+)$`)
	whatIsRe    = regexp.MustCompile(`(?i)^what\s+is\s+([0-9+\-*/().\s]+)\??$`)
	allowedExpr = regexp.MustCompile(`^[0-9+\-*/().\s]+$`)
)

func (it *Interpreter) tryCalc(t string) *Result {
	m := calcRe.FindStringSubmatch(t)
	if m == nil {
		m = whatIsRe.FindStringSubmatch(t)
	}
	if m == nil {
		return nil
	}

	expr := strings.TrimSpace(m[1])
	if !allowedExpr.MatchString(expr) {
		return reply("Only simple arithmetic is supported.")
	}
	val, err := evalArithmetic(expr)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
		return reply("Sorry, I could not compute that.")
	}
	return reply(formatNumber(val))
}

// formatNumber prints a float the way a calculator would: no exponent for
// ordinary magnitudes, no trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// evalArithmetic evaluates +, -, *, / and parentheses over decimal numbers
// with a recursive descent parser. The input is never executed as code.
func evalArithmetic(expr string) (float64, error) {
	p := &exprParser{input: expr}
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return 0, fmt.Errorf("unexpected %q at offset %d", p.input[p.pos], p.pos)
	}
	return v, nil
}

type exprParser struct {
	input string
	pos   int
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *exprParser) peek() (byte, bool) {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

// parseExpr handles + and -.
func (p *exprParser) parseExpr() (float64, error) {
	v, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		c, ok := p.peek()
		if !ok || (c != '+' && c != '-') {
			return v, nil
		}
		p.pos++
		rhs, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if c == '+' {
			v += rhs
		} else {
			v -= rhs
		}
	}
}

// parseTerm handles * and /. Division by zero follows float semantics and is
// rejected by the caller's finite check.
func (p *exprParser) parseTerm() (float64, error) {
	v, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		c, ok := p.peek()
		if !ok || (c != '*' && c != '/') {
			return v, nil
		}
		p.pos++
		rhs, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if c == '*' {
			v *= rhs
		} else {
			v /= rhs
		}
	}
}

func (p *exprParser) parseUnary() (float64, error) {
	c, ok := p.peek()
	if !ok {
		return 0, fmt.Errorf("unexpected end of expression")
	}
	switch c {
	case '-':
		p.pos++
		v, err := p.parseUnary()
		return -v, err
	case '+':
		p.pos++
		return p.parseUnary()
	}
	return p.parseAtom()
}

func (p *exprParser) parseAtom() (float64, error) {
	c, ok := p.peek()
	if !ok {
		return 0, fmt.Errorf("unexpected end of expression")
	}
	if c == '(' {
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		c, ok = p.peek()
		if !ok || c != ')' {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	}
	return p.parseNumber()
}

func (p *exprParser) parseNumber() (float64, error) {
	p.skipSpace()
	start := p.pos
	seenDot := false
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c >= '0' && c <= '9' {
			p.pos++
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		return 0, fmt.Errorf("expected a number at offset %d", start)
	}
	return strconv.ParseFloat(p.input[start:p.pos], 64)
}
