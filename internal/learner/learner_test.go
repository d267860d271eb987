package learner

import (
	"strings"
	"testing"

	"github.com/dekarrin/eagerparse/internal/corpus"
	"github.com/dekarrin/eagerparse/internal/dict"
	"github.com/dekarrin/eagerparse/internal/features"
	"github.com/dekarrin/eagerparse/internal/weights"
)

func singleArcSentence(d *dict.Dictionary) *corpus.Sentence {
	wNS := d.Namespace("w")
	aID := d.Attribute("a")
	bID := d.Attribute("b")
	nsubj := d.Label("nsubj")
	root := d.Label("root")

	tokA := &corpus.Token{Index: 0, TokenID: "a", GoldHead: 1, GoldLabel: nsubj, Fronts: []corpus.NamespaceFront{
		{NamespaceID: wNS, TokenSpecificNS: corpus.NoTag, Attributes: []corpus.Attribute{{ID: aID, Value: 1.0}}},
	}}
	tokB := &corpus.Token{Index: 1, TokenID: "b", GoldHead: 2, GoldLabel: root, Fronts: []corpus.NamespaceFront{
		{NamespaceID: wNS, TokenSpecificNS: corpus.NoTag, Attributes: []corpus.Attribute{{ID: bID, Value: 1.0}}},
	}}
	tokRoot := &corpus.Token{Index: 2, TokenID: "__ROOT__", GoldHead: -1, GoldLabel: root}

	return &corpus.Sentence{Tokens: []*corpus.Token{tokA, tokB, tokRoot}}
}

// TestFitThenParseRecoversTrainingSentence trains on one small, trivially
// separable sentence and checks that inference with the finalized weights
// reproduces the gold heads and labels of every real token. No move assigns
// ROOT a head or a label, so ROOT keeps -1 for both.
func TestFitThenParseRecoversTrainingSentence(t *testing.T) {
	d := dict.New()
	sent := singleArcSentence(d)

	tmpl, err := features.Parse(strings.NewReader("S0:w\nN0:w\n"), d)
	if err != nil {
		t.Fatalf("Parse template: %v", err)
	}

	l := New(d, tmpl)
	l.Fit([]*corpus.Sentence{sent}, 20)

	nsubj := d.Label("nsubj")
	root := d.Label("root")

	heads, labels := l.Parse(sent)
	wantHeads := []int{1, 2, -1}
	wantLabels := []int{nsubj, root, -1}

	for i := range wantHeads {
		if heads[i] != wantHeads[i] {
			t.Fatalf("heads[%d] = %d, want %d (heads=%v)", i, heads[i], wantHeads[i], heads)
		}
		if labels[i] != wantLabels[i] {
			t.Fatalf("labels[%d] = %d, want %d (labels=%v)", i, labels[i], wantLabels[i], labels)
		}
	}
}

// TestParseIsDeterministic: parsing the same sentence twice with the same
// weights must produce identical (heads, labels).
func TestParseIsDeterministic(t *testing.T) {
	d := dict.New()
	sent := singleArcSentence(d)

	tmpl, err := features.Parse(strings.NewReader("S0:w\nN0:w\n"), d)
	if err != nil {
		t.Fatalf("Parse template: %v", err)
	}

	l := New(d, tmpl)
	l.Fit([]*corpus.Sentence{sent}, 5)

	h1, lb1 := l.Parse(sent)
	h2, lb2 := l.Parse(sent)

	for i := range h1 {
		if h1[i] != h2[i] || lb1[i] != lb2[i] {
			t.Fatalf("Parse is not deterministic: (%v,%v) vs (%v,%v)", h1, lb1, h2, lb2)
		}
	}
}

// TestWeightBoundAfterFit is testable property 6: |weights[move]| <=
// num_updates for every (key, move) touched during training.
func TestWeightBoundAfterFit(t *testing.T) {
	d := dict.New()
	sent := singleArcSentence(d)

	tmpl, err := features.Parse(strings.NewReader("S0:w\nN0:w\n"), d)
	if err != nil {
		t.Fatalf("Parse template: %v", err)
	}

	l := New(d, tmpl)
	l.Fit([]*corpus.Sentence{sent}, 20)

	n := float64(l.NumUpdates())
	if n == 0 {
		t.Fatalf("expected at least one update")
	}

	l.store.ForEach(func(key uint64, b *weights.Block) {
		for _, w := range b.Weights {
			if w > n || w < -n {
				t.Fatalf("weight %v exceeds num_updates bound %v", w, n)
			}
		}
	})
}
