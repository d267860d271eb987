// Package features implements the feature-template expression language: a
// shunting-yard parser that folds a template file into a tree of location
// and cartesian-product nodes under a per-file union, plus the FeatureKey
// hashing primitive that the tree's evaluation builds up.
package features

import (
	"bufio"
	"io"
	"strings"

	"github.com/dekarrin/eagerparse/internal/corpus"
	"github.com/dekarrin/eagerparse/internal/dict"
	"github.com/dekarrin/eagerparse/internal/parseerr"
	"github.com/dekarrin/eagerparse/internal/parsestate"
)

// locationNames maps a template atom's location half to the LocationName
// enumeration.
var locationNames = map[string]parsestate.LocationName{
	"S0":        parsestate.S0,
	"S0_head":   parsestate.S0Head,
	"S0_left":   parsestate.S0Left,
	"S0_left2":  parsestate.S0Left2,
	"S0_right":  parsestate.S0Right,
	"S0_right2": parsestate.S0Right2,
	"N0":        parsestate.N0,
	"N1":        parsestate.N1,
	"N2":        parsestate.N2,
	"N0_left":   parsestate.N0Left,
	"N0_left2":  parsestate.N0Left2,
	"N0_right":  parsestate.N0Right,
}

// Parse reads a feature template file: one feature expression per non-empty,
// non-comment ('#') line, folded into a root UnionList with one member per
// line, in file order. Namespace names are interned into d, allocating new
// ids if d is not yet frozen.
func Parse(r io.Reader, d *dict.Dictionary) (*Template, error) {
	var members []node

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		toks, err := lexLine(line)
		if err != nil {
			return nil, err
		}
		n, err := parseExpr(toks, line, d)
		if err != nil {
			return nil, err
		}
		members = append(members, n)
	}
	if err := sc.Err(); err != nil {
		return nil, parseerr.NewTemplateParse("", 0, "reading template: %v", err)
	}
	if len(members) == 0 {
		return nil, parseerr.NewTemplateParse("", 0, "template contains no feature expressions")
	}

	return &Template{members: members}, nil
}

// parseExpr runs the shunting-yard algorithm over toks to produce a postfix
// sequence, then folds that sequence into a tree.
func parseExpr(toks []token, line string, d *dict.Dictionary) (node, error) {
	precedence := func(c tokenClass) int {
		switch c {
		case tcProduct:
			return 2
		case tcPlus, tcMinus:
			return 1
		default:
			return 0
		}
	}
	isOperator := func(c tokenClass) bool {
		return c == tcProduct || c == tcPlus || c == tcMinus
	}

	var postfix []token
	var opStack []token

	for _, tk := range toks {
		switch tk.class {
		case tcAtom:
			postfix = append(postfix, tk)

		case tcProduct, tcPlus, tcMinus:
			for len(opStack) > 0 {
				top := opStack[len(opStack)-1]
				if isOperator(top.class) && precedence(top.class) >= precedence(tk.class) {
					postfix = append(postfix, top)
					opStack = opStack[:len(opStack)-1]
					continue
				}
				break
			}
			opStack = append(opStack, tk)

		case tcLParen:
			opStack = append(opStack, tk)

		case tcRParen:
			closed := false
			for len(opStack) > 0 {
				top := opStack[len(opStack)-1]
				opStack = opStack[:len(opStack)-1]
				if top.class == tcLParen {
					closed = true
					break
				}
				postfix = append(postfix, top)
			}
			if !closed {
				return nil, parseerr.NewTemplateParse(line, tk.col+1, "unmatched ')'")
			}

		case tcEOF:
			// nothing to do; loop ends naturally after this entry
		}
	}

	for len(opStack) > 0 {
		top := opStack[len(opStack)-1]
		opStack = opStack[:len(opStack)-1]
		if top.class == tcLParen {
			return nil, parseerr.NewTemplateParse(line, top.col+1, "unmatched '('")
		}
		postfix = append(postfix, top)
	}

	return foldPostfix(postfix, line, d)
}

// foldPostfix folds a postfix token sequence into a tree of location and
// product nodes. '+'/'-' parse (so that precedence is correctly assigned
// around them) but are reserved and have no evaluation node yet; using one
// is a template parse error rather than a silent no-op.
func foldPostfix(postfix []token, line string, d *dict.Dictionary) (node, error) {
	var stack []node

	for _, tk := range postfix {
		switch tk.class {
		case tcAtom:
			n, err := parseAtom(tk, line, d)
			if err != nil {
				return nil, err
			}
			stack = append(stack, n)

		case tcPlus, tcMinus:
			return nil, parseerr.NewTemplateParse(line, tk.col+1, "operator %q is reserved and not yet implemented", tk.lexeme)

		case tcProduct:
			if len(stack) < 2 {
				return nil, parseerr.NewTemplateParse(line, tk.col+1, "'++' is missing an operand")
			}
			rhs := stack[len(stack)-1]
			lhs := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			stack = append(stack, &productNode{lhs: lhs, rhs: rhs})

		default:
			return nil, parseerr.NewTemplateParse(line, tk.col+1, "unexpected %s in feature expression", tk.class)
		}
	}

	if len(stack) != 1 {
		return nil, parseerr.NewTemplateParse(line, 1, "malformed feature expression")
	}
	return stack[0], nil
}

// parseAtom splits an "L:N" atom into its location and namespace halves and
// builds the corresponding Location node. Templates never specify a
// token-specific namespace tag, so tokenSpecificNS is always corpus.NoTag.
func parseAtom(tk token, line string, d *dict.Dictionary) (node, error) {
	locPart, nsPart, ok := strings.Cut(tk.lexeme, ":")
	if !ok {
		return nil, parseerr.NewTemplateParse(line, tk.col+1, "malformed atom %q", tk.lexeme)
	}

	loc, ok := locationNames[locPart]
	if !ok {
		return nil, parseerr.NewTemplateParse(line, tk.col+1, "unknown location name %q", locPart)
	}

	return &locationNode{
		loc:             loc,
		namespaceID:     d.Namespace(nsPart),
		tokenSpecificNS: corpus.NoTag,
	}, nil
}
