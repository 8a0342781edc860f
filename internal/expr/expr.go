// Package expr evaluates the small arithmetic language used for item amounts:
// decimal literals, + - * /, unary signs and parentheses. Input is cleaned of
// every other character first, so "20 + 35 coffee" evaluates as "20+35".
package expr

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmpty          = errors.New("expr: empty expression")
	ErrSyntax         = errors.New("expr: syntax error")
	ErrDivisionByZero = errors.New("expr: division by zero")
	ErrNotFinite      = errors.New("expr: result is not finite")
)

// divisionPrecision is the number of fractional digits kept by a division
// before the final rounding.
const divisionPrecision = 16

// Clean keeps digits, '.', parentheses and the four operators.
func Clean(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if allowed(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allowed(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r == '.', r == '(', r == ')', r == '+', r == '-', r == '*', r == '/':
		return true
	}
	return false
}

// Eval cleans raw and evaluates it. The result is rounded to 2 decimal places.
func Eval(raw string) (float64, error) {
	d, err := EvalDecimal(raw)
	if err != nil {
		return 0, err
	}
	f, _ := d.Round(2).Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, ErrNotFinite
	}
	return f, nil
}

// EvalDecimal is Eval without the final rounding and float conversion.
func EvalDecimal(raw string) (decimal.Decimal, error) {
	src := Clean(raw)
	if src == "" {
		return decimal.Zero, ErrEmpty
	}
	p := &parser{src: src}
	v, err := p.expression()
	if err != nil {
		return decimal.Zero, err
	}
	if p.pos != len(p.src) {
		return decimal.Zero, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, p.src[p.pos], p.pos)
	}
	return v, nil
}

// parser is a recursive-descent evaluator over a cleaned string. Cleaning
// removes whitespace, so every byte is significant.
type parser struct {
	src string
	pos int
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

// expression = term { ("+" | "-") term }
func (p *parser) expression() (decimal.Decimal, error) {
	left, err := p.term()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.term()
		if err != nil {
			return decimal.Zero, err
		}
		if op == '+' {
			left = left.Add(right)
		} else {
			left = left.Sub(right)
		}
	}
}

// term = factor { ("*" | "/") factor }
func (p *parser) term() (decimal.Decimal, error) {
	left, err := p.factor()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.factor()
		if err != nil {
			return decimal.Zero, err
		}
		if op == '*' {
			left = left.Mul(right)
			continue
		}
		if right.IsZero() {
			return decimal.Zero, ErrDivisionByZero
		}
		left = left.DivRound(right, divisionPrecision)
	}
}

// factor = ("+" | "-") factor | number | "(" expression ")"
func (p *parser) factor() (decimal.Decimal, error) {
	switch c := p.peek(); {
	case c == '+':
		p.pos++
		return p.factor()
	case c == '-':
		p.pos++
		v, err := p.factor()
		if err != nil {
			return decimal.Zero, err
		}
		return v.Neg(), nil
	case c == '(':
		p.pos++
		v, err := p.expression()
		if err != nil {
			return decimal.Zero, err
		}
		if p.peek() != ')' {
			return decimal.Zero, fmt.Errorf("%w: missing ')' at %d", ErrSyntax, p.pos)
		}
		p.pos++
		return v, nil
	case c == '.' || (c >= '0' && c <= '9'):
		return p.number()
	case c == 0:
		return decimal.Zero, fmt.Errorf("%w: unexpected end of input", ErrSyntax)
	default:
		return decimal.Zero, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, c, p.pos)
	}
}

// number accepts "12", "12.5", ".5" and "12.". A second '.' ends the literal.
func (p *parser) number() (decimal.Decimal, error) {
	start := p.pos
	digits, dot := 0, false
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c >= '0' && c <= '9' {
			digits++
		} else if c == '.' && !dot {
			dot = true
		} else {
			break
		}
		p.pos++
	}
	if digits == 0 {
		return decimal.Zero, fmt.Errorf("%w: malformed number at %d", ErrSyntax, start)
	}
	lit := strings.TrimSuffix(p.src[start:p.pos], ".")
	if strings.HasPrefix(lit, ".") {
		lit = "0" + lit
	}
	v, err := decimal.NewFromString(lit)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return v, nil
}

// Live holds the value previewed next to an expression field. Input that does
// not evaluate leaves the previous value in place; a blank field resets it to
// zero.
type Live struct {
	value float64
}

// Update re-evaluates raw and returns the value now held.
func (l *Live) Update(raw string) float64 {
	if strings.TrimSpace(raw) == "" {
		l.value = 0
		return l.value
	}
	if v, err := Eval(raw); err == nil {
		l.value = v
	}
	return l.value
}

func (l *Live) Value() float64 { return l.value }

func (l *Live) Reset() { l.value = 0 }
