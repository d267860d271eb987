package transition

import (
	"github.com/dekarrin/eagerparse/internal/corpus"
	"github.com/dekarrin/eagerparse/internal/parsestate"
)

// Oracle returns the set of zero-cost moves at ps under the dynamic
// oracle, starting from sys's legal set and disabling any move that would
// make a still-reachable gold arc unreachable. It is shared between
// ArcEager and ConstrainedArcEager: only the starting legal set differs
// between variants.
func Oracle(sys System, ps *parsestate.ParseState, sent *corpus.Sentence) LabeledMoveSet {
	legal := sys.AllowedLabeledMoves(ps, sent)
	if legal.Empty() {
		return legal
	}

	s0 := ps.Top()
	b := ps.N0
	goldHead := func(x int) int { return sent.Tokens[x].GoldHead }
	goldLabel := func(x int) int { return sent.Tokens[x].GoldLabel }

	hasHeadInBuffer := func(x int) bool { return goldHead(x) >= ps.N0 }
	hasHeadInStack := func(x int) bool { return ps.InStack(goldHead(x)) }
	hasDepInBuffer := func(x int) bool {
		for i := ps.N0; i < ps.Length; i++ {
			if goldHead(i) == x {
				return true
			}
		}
		return false
	}
	hasDepInStack := func(x int) bool {
		for _, i := range ps.Stack {
			if goldHead(i) == x {
				return true
			}
		}
		return false
	}

	oracle := legal

	if s0 != parsestate.Undefined && legal.Enabled(LeftArc) {
		isGoldArc := goldHead(s0) == b
		if !isGoldArc && hasHeadInBuffer(s0) {
			oracle.Disable(LeftArc)
		}
	}

	if legal.Enabled(RightArc) {
		isGoldArc := s0 != parsestate.Undefined && goldHead(b) == s0
		if !isGoldArc && (hasHeadInStack(b) || hasHeadInBuffer(b) || hasDepInStack(b)) {
			oracle.Disable(RightArc)
		}
	}

	if s0 != parsestate.Undefined && legal.Enabled(Reduce) {
		// REDUCE never forms an arc itself, so there is no "is this arc
		// gold" exception: the rule fires whenever s0 still has reachable
		// gold dependents.
		if hasDepInStack(s0) || hasDepInBuffer(s0) {
			oracle.Disable(Reduce)
		}
	}

	if legal.Enabled(Shift) {
		if hasHeadInStack(b) || hasDepInStack(b) {
			oracle.Disable(Shift)
		}
	}

	if oracle.Enabled(LeftArc) {
		oracle.RestrictLabel(LeftArc, goldLabel(s0))
	}
	if oracle.Enabled(RightArc) {
		oracle.RestrictLabel(RightArc, goldLabel(b))
	}

	if oracle.Empty() {
		// The disable rules pruned every move, which can happen after a
		// prior non-gold choice already put the configuration in a state
		// with no reachable gold continuation. Fall back to the
		// unconstrained legal set so training can still make progress.
		return legal
	}

	return oracle
}
