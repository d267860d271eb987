package features

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLexLine(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    []tokenClass
		expectErr bool
	}{
		{name: "single atom", input: "S0:w", expect: []tokenClass{
			tcAtom, tcEOF,
		}},
		{name: "product of two atoms", input: "S0:w ++ N0:p", expect: []tokenClass{
			tcAtom, tcProduct, tcAtom, tcEOF,
		}},
		{name: "product, ignore space", input: "S0:w++N0:p", expect: []tokenClass{
			tcAtom, tcProduct, tcAtom, tcEOF,
		}},
		{name: "parenthesized group", input: "S0:w ++ (N0:w ++ N0:p)", expect: []tokenClass{
			tcAtom, tcProduct, tcLParen, tcAtom, tcProduct, tcAtom, tcRParen, tcEOF,
		}},
		{name: "reserved plus", input: "S0:w + N0:p", expect: []tokenClass{
			tcAtom, tcPlus, tcAtom, tcEOF,
		}},
		{name: "reserved minus", input: "S0:w - N0:p", expect: []tokenClass{
			tcAtom, tcMinus, tcAtom, tcEOF,
		}},
		{name: "three-way product", input: "S0:p ++ S0:p ++ S0:w", expect: []tokenClass{
			tcAtom, tcProduct, tcAtom, tcProduct, tcAtom, tcEOF,
		}},
		{name: "underscore location", input: "S0_left2:w", expect: []tokenClass{
			tcAtom, tcEOF,
		}},
		{name: "bad atom", input: "S0:w ++ :p", expectErr: true},
		{name: "stray punctuation", input: "S0:w ?? N0:p", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			toks, err := lexLine(tc.input)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			assert.Nil(err)

			actual := make([]string, len(toks))
			for i := range toks {
				actual[i] = toks[i].class.String()
			}
			expect := make([]string, len(tc.expect))
			for i := range tc.expect {
				expect[i] = tc.expect[i].String()
			}

			assert.Equal(strings.Join(expect, " "), strings.Join(actual, " "))
		})
	}
}
