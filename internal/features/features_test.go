package features

import (
	"math"
	"strings"
	"testing"

	"github.com/dekarrin/eagerparse/internal/corpus"
	"github.com/dekarrin/eagerparse/internal/dict"
	"github.com/dekarrin/eagerparse/internal/parsestate"
)

func frontOf(d *dict.Dictionary, ns string, attrs ...corpus.Attribute) corpus.NamespaceFront {
	return corpus.NamespaceFront{
		NamespaceID:     d.Namespace(ns),
		TokenSpecificNS: corpus.NoTag,
		Attributes:      attrs,
	}
}

// TestFeatureExpansionTwoNamespaces evaluates "S0:w ++ S0:p" at a token
// whose w front has two attributes and whose p front has one, expecting
// exactly 2 keys with values approximately 0.6 and 0.4.
func TestFeatureExpansionTwoNamespaces(t *testing.T) {
	d := dict.New()
	aID := d.Attribute("a")
	bID := d.Attribute("b")
	xID := d.Attribute("x")

	tok0 := &corpus.Token{Index: 0, Fronts: []corpus.NamespaceFront{
		frontOf(d, "w", corpus.Attribute{ID: aID, Value: 0.6}, corpus.Attribute{ID: bID, Value: 0.4}),
		frontOf(d, "p", corpus.Attribute{ID: xID, Value: 1.0}),
	}}
	tok1 := &corpus.Token{Index: 1}
	root := &corpus.Token{Index: 2, GoldHead: -1}
	sent := &corpus.Sentence{Tokens: []*corpus.Token{tok0, tok1, root}}

	tmpl, err := Parse(strings.NewReader("S0:w ++ S0:p\n"), d)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	ps := parsestate.New(3, 0)
	if ps.Locations[parsestate.S0] != 0 {
		t.Fatalf("expected S0=0, got %d", ps.Locations[parsestate.S0])
	}

	keys := tmpl.FillFeatures(ps, sent, nil)
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d: %+v", len(keys), keys)
	}

	values := []float64{keys[0].Value, keys[1].Value}
	foundA, foundB := false, false
	for _, v := range values {
		if math.Abs(v-0.6) < 1e-9 {
			foundA = true
		}
		if math.Abs(v-0.4) < 1e-9 {
			foundB = true
		}
	}
	if !foundA || !foundB {
		t.Fatalf("expected values ~0.6 and ~0.4, got %v", values)
	}
	if keys[0].Hash == keys[1].Hash {
		t.Fatalf("expected distinct hashes for the two expanded keys")
	}
}

// TestFeatureExpansionRepeatedNamespace evaluates "S0:p ++ S0:p ++ S0:w"
// on one token, where w has 2 attributes and p has 1. A location with k
// attributes multiplies the live range size by k, independent of where in
// the product tree it sits, so the expected count is 1*1*2 = 2.
func TestFeatureExpansionRepeatedNamespace(t *testing.T) {
	d := dict.New()
	xID := d.Attribute("x")
	aID := d.Attribute("a")
	bID := d.Attribute("b")

	tok0 := &corpus.Token{Index: 0, Fronts: []corpus.NamespaceFront{
		frontOf(d, "p", corpus.Attribute{ID: xID, Value: 1.0}),
		frontOf(d, "w", corpus.Attribute{ID: aID, Value: 0.6}, corpus.Attribute{ID: bID, Value: 0.4}),
	}}
	root := &corpus.Token{Index: 1, GoldHead: -1}
	sent := &corpus.Sentence{Tokens: []*corpus.Token{tok0, root}}

	tmpl, err := Parse(strings.NewReader("S0:p ++ S0:p ++ S0:w\n"), d)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	ps := parsestate.New(2, 0)
	keys := tmpl.FillFeatures(ps, sent, nil)
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d: %+v", len(keys), keys)
	}
}

func TestParseUnionPerLine(t *testing.T) {
	d := dict.New()
	tmpl, err := Parse(strings.NewReader("S0:w\nN0:w\n# a comment\n\nN0:p\n"), d)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tmpl.NumTemplates() != 3 {
		t.Fatalf("expected 3 union members, got %d", tmpl.NumTemplates())
	}
}

func TestParseUnknownLocationName(t *testing.T) {
	d := dict.New()
	_, err := Parse(strings.NewReader("S0:w ++ Bogus:p\n"), d)
	if err == nil {
		t.Fatalf("expected an error for an unknown location name")
	}
}

func TestParseUnmatchedParen(t *testing.T) {
	d := dict.New()
	_, err := Parse(strings.NewReader("(S0:w ++ S0:p\n"), d)
	if err == nil {
		t.Fatalf("expected an error for an unmatched '('")
	}
}

func TestParseReservedOperatorRejected(t *testing.T) {
	d := dict.New()
	_, err := Parse(strings.NewReader("S0:w + S0:p\n"), d)
	if err == nil {
		t.Fatalf("expected an error for the reserved '+' operator")
	}
}

func TestParseParenthesesGroup(t *testing.T) {
	d := dict.New()
	_, err := Parse(strings.NewReader("S0:w ++ (N0:w ++ N0:p)\n"), d)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
}

func TestUndefinedLocationClearsRange(t *testing.T) {
	d := dict.New()
	tmpl, err := Parse(strings.NewReader("S0_left2:w\n"), d)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	root := &corpus.Token{Index: 0, GoldHead: -1}
	sent := &corpus.Sentence{Tokens: []*corpus.Token{root}}
	ps := &parsestate.ParseState{Length: 1, Stack: nil, N0: 0, Heads: []int{-1}, Labels: []int{-1}}
	ps.RecomputeLocations()

	keys := tmpl.FillFeatures(ps, sent, nil)
	if len(keys) != 0 {
		t.Fatalf("expected no keys when the location is undefined, got %d", len(keys))
	}
}

func TestCombineIsDeterministicAndAvoidsZero(t *testing.T) {
	h1 := combine(seedKey(0).Hash, 7)
	h2 := combine(seedKey(0).Hash, 7)
	if h1 != h2 {
		t.Fatalf("combine is not deterministic: %d != %d", h1, h2)
	}
	if h1 == reservedEmpty {
		t.Fatalf("combine produced the reserved empty sentinel")
	}
	if seedKey(0).Hash == reservedEmpty {
		t.Fatalf("seedKey(0) produced the reserved empty sentinel")
	}
}
