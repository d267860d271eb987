// Package learner implements the averaged-perceptron training loop and
// inference entry point: Fit trains in place with early update against the
// dynamic oracle; Parse runs inference with the finalized weights.
package learner

import (
	"math"

	"github.com/dekarrin/eagerparse/internal/corpus"
	"github.com/dekarrin/eagerparse/internal/dict"
	"github.com/dekarrin/eagerparse/internal/features"
	"github.com/dekarrin/eagerparse/internal/parseerr"
	"github.com/dekarrin/eagerparse/internal/parsestate"
	"github.com/dekarrin/eagerparse/internal/transition"
	"github.com/dekarrin/eagerparse/internal/weights"
)

// Learner owns the feature tree, weight store, and move enumeration for one
// training run and the inference that follows it.
type Learner struct {
	dict  *dict.Dictionary
	tmpl  *features.Template
	store *weights.Store
	moves []transition.LabeledMove
	sys   transition.System

	numUpdates int
}

// New builds a Learner over tmpl, sizing its weight store and move
// enumeration from d's current label count. Callers must finish interning
// every training label (by reading the full training corpus) before calling
// New, since the move enumeration is fixed at this point.
func New(d *dict.Dictionary, tmpl *features.Template) *Learner {
	moves := transition.Moves(d.NumLabels())
	return &Learner{
		dict:  d,
		tmpl:  tmpl,
		store: weights.New(len(moves)),
		moves: moves,
		sys:   transition.ConstrainedArcEager{},
	}
}

// FromModel builds a Learner around weights loaded from a model store,
// for inference only: Fit must not be called on the result, since store's
// Timestamps/Acc bookkeeping was discarded at save time and a further Fit
// call would average against a bogus history.
func FromModel(d *dict.Dictionary, tmpl *features.Template, store *weights.Store) *Learner {
	return &Learner{
		dict:  d,
		tmpl:  tmpl,
		store: store,
		moves: transition.Moves(d.NumLabels()),
		sys:   transition.ConstrainedArcEager{},
	}
}

// NumUpdates returns the number of perceptron updates performed so far.
func (l *Learner) NumUpdates() int {
	return l.numUpdates
}

// Weights returns the learner's weight store. After Fit it holds the
// finalized averaged weights, which is what model persistence saves.
func (l *Learner) Weights() *weights.Store {
	return l.store
}

// Fit trains in place over sentences for numRounds passes in input order,
// reusing that order every round so a run is deterministic, then finalizes
// the averaged weights. Freezes d first, since training introduces no new
// vocabulary and a frozen dictionary keeps later eval-time lookups of
// unseen strings degrading to Absent instead of silently growing it.
func (l *Learner) Fit(sentences []*corpus.Sentence, numRounds int) {
	l.dict.Freeze()

	var buf []features.FeatureKey
	for round := 0; round < numRounds; round++ {
		for _, sent := range sentences {
			l.fitSentence(sent, &buf)
		}
	}

	l.finalize()
}

func (l *Learner) fitSentence(sent *corpus.Sentence, buf *[]features.FeatureKey) {
	ps := parsestate.New(sent.Len(), len(sent.SpanConstraints))

	for !ps.Terminal() {
		*buf = l.tmpl.FillFeatures(ps, sent, (*buf)[:0])

		allowed := l.sys.AllowedLabeledMoves(ps, sent)
		oracle := transition.Oracle(l.sys, ps, sent)

		pred, _ := l.argmax(allowed, *buf)
		gold, _ := l.argmax(oracle, *buf)

		if !pred.Equal(gold) {
			l.numUpdates++
			for _, f := range *buf {
				l.update(f, pred, gold)
			}
		}

		transition.PerformMove(gold, ps, sent)
	}
}

// Parse runs inference over sent with the finalized weights, returning the
// predicted heads and labels. Scoring uses Weights only, never Acc; the
// accumulators exist solely to serve finalization.
func (l *Learner) Parse(sent *corpus.Sentence) ([]int, []int) {
	ps := parsestate.New(sent.Len(), len(sent.SpanConstraints))
	var buf []features.FeatureKey

	for !ps.Terminal() {
		buf = l.tmpl.FillFeatures(ps, sent, buf[:0])
		allowed := l.sys.AllowedLabeledMoves(ps, sent)
		best, _ := l.argmax(allowed, buf)
		transition.PerformMove(best, ps, sent)
	}

	return ps.Heads, ps.Labels
}

// argmax scores every move in moveSet against buf, breaking ties toward
// the later-enumerated move: the running comparison is >=, so a later
// candidate with an equal score displaces the current best.
func (l *Learner) argmax(moveSet transition.LabeledMoveSet, buf []features.FeatureKey) (transition.LabeledMove, float64) {
	var best transition.LabeledMove
	bestScore := math.Inf(-1)
	haveBest := false

	moveSet.ForEach(l.moves, func(lm transition.LabeledMove) {
		s := l.score(lm, buf)
		if !haveBest || s >= bestScore {
			best, bestScore, haveBest = lm, s, true
		}
	})

	if !haveBest {
		parseerr.Invariantf("argmax found no legal move at a non-terminal configuration")
	}
	return best, bestScore
}

// score sums m's weight slot across every feature key in buf. A feature
// key absent from the store contributes zero.
func (l *Learner) score(m transition.LabeledMove, buf []features.FeatureKey) float64 {
	var total float64
	for _, f := range buf {
		if b, ok := l.store.Lookup(f.Hash); ok {
			total += b.Weights[m.Index]
		}
	}
	return total
}

// update performs the sparse averaged-perceptron update for one feature
// key against the two moves pred and gold: catch up both slots' lazy
// averaging, then reward gold and penalize pred by the key's value.
func (l *Learner) update(f features.FeatureKey, pred, gold transition.LabeledMove) {
	b := l.store.GetOrInsert(f.Hash)

	l.catchUp(b, pred.Index)
	l.catchUp(b, gold.Index)

	b.Weights[gold.Index] += f.Value
	b.Acc[gold.Index] += f.Value
	b.Weights[pred.Index] -= f.Value
	b.Acc[pred.Index] -= f.Value
}

// catchUp applies the lazy averaging catch-up for move slot m: the weight
// has been sitting unchanged since timestamps[m], so acc[m] absorbs that
// stretch before the slot is touched again.
func (l *Learner) catchUp(b *weights.Block, m int) {
	dt := l.numUpdates - b.Timestamps[m] - 1
	b.Acc[m] += float64(dt) * b.Weights[m]
	b.Timestamps[m] = l.numUpdates
}

// finalize replaces every live weight with its time-averaged value: for
// every move slot with a non-zero timestamp, the accumulator absorbs the
// stretch since the slot's last update, then the weight becomes
// acc / num_updates.
func (l *Learner) finalize() {
	numUpdates := l.numUpdates
	l.store.ForEach(func(key uint64, b *weights.Block) {
		for m := range b.Weights {
			if b.Timestamps[m] != 0 {
				b.Acc[m] += b.Weights[m] * float64(numUpdates-b.Timestamps[m])
			}
			if numUpdates > 0 {
				b.Weights[m] = b.Acc[m] / float64(numUpdates)
			}
		}
	})
}
