package features

import (
	"regexp"

	"github.com/dekarrin/eagerparse/internal/parseerr"
)

// tokenClass distinguishes the lexical categories of the feature template
// expression language.
type tokenClass int

const (
	tcAtom tokenClass = iota
	tcProduct
	tcPlus
	tcMinus
	tcLParen
	tcRParen
	tcEOF
)

func (c tokenClass) String() string {
	switch c {
	case tcAtom:
		return "atom"
	case tcProduct:
		return "++"
	case tcPlus:
		return "+"
	case tcMinus:
		return "-"
	case tcLParen:
		return "("
	case tcRParen:
		return ")"
	case tcEOF:
		return "end of expression"
	default:
		return "unknown"
	}
}

// token is one lexed unit of a single-line feature expression, with its
// 0-indexed column for error rendering.
type token struct {
	class  tokenClass
	lexeme string
	col    int
}

// atomPattern matches one "L:N" location/namespace atom. L and N are each
// an identifier; the leading character of each must be a letter.
var atomPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*:[A-Za-z][A-Za-z0-9_]*`)

// lexLine tokenizes one feature expression line.
func lexLine(line string) ([]token, error) {
	var toks []token
	pos := 0

	for pos < len(line) {
		c := line[pos]
		if c == ' ' || c == '\t' {
			pos++
			continue
		}

		switch {
		case c == '(':
			toks = append(toks, token{tcLParen, "(", pos})
			pos++
		case c == ')':
			toks = append(toks, token{tcRParen, ")", pos})
			pos++
		case c == '+' && pos+1 < len(line) && line[pos+1] == '+':
			toks = append(toks, token{tcProduct, "++", pos})
			pos += 2
		case c == '+':
			toks = append(toks, token{tcPlus, "+", pos})
			pos++
		case c == '-':
			toks = append(toks, token{tcMinus, "-", pos})
			pos++
		default:
			m := atomPattern.FindString(line[pos:])
			if m == "" {
				return nil, parseerr.NewTemplateParse(line, pos+1, "unrecognized token at column %d", pos+1)
			}
			toks = append(toks, token{tcAtom, m, pos})
			pos += len(m)
		}
	}

	toks = append(toks, token{tcEOF, "", len(line)})
	return toks, nil
}
