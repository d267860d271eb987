package transition

import (
	"github.com/dekarrin/eagerparse/internal/corpus"
	"github.com/dekarrin/eagerparse/internal/parseerr"
	"github.com/dekarrin/eagerparse/internal/parsestate"
)

// System is implemented by ArcEager and ConstrainedArcEager. The dynamic
// oracle (Oracle) is shared between both and calls AllowedLabeledMoves to
// get its starting point, per the variant's own structural/constraint
// rules.
type System interface {
	AllowedLabeledMoves(ps *parsestate.ParseState, sent *corpus.Sentence) LabeledMoveSet
}

// ArcEager is the base, unconstrained arc-eager transition system.
type ArcEager struct{}

// AllowedLabeledMoves returns the structurally legal moves at ps,
// independent of gold: with an empty stack only SHIFT is legal; otherwise
// all four start legal and are disabled individually (SHIFT/RIGHT_ARC at
// buffer end, REDUCE while the top is headless, LEFT_ARC once it has a
// head).
func (ArcEager) AllowedLabeledMoves(ps *parsestate.ParseState, sent *corpus.Sentence) LabeledMoveSet {
	s := NewLabeledMoveSet()

	if len(ps.Stack) == 0 {
		if ps.N0 < ps.Length-1 {
			s.Enable(Shift)
		}
		return s
	}

	top := ps.Top()
	atBufferEnd := ps.N0 == ps.Length-1

	if !atBufferEnd {
		s.Enable(Shift)
		s.Enable(RightArc)
	}
	if ps.Heads[top] != -1 {
		s.Enable(Reduce)
	}
	if ps.Heads[top] == -1 {
		s.Enable(LeftArc)
	}

	return s
}

// PerformMove applies lmove to ps, mutating its stack/buffer/heads/labels,
// recomputing its location cache, and updating any span-constraint
// bookkeeping in sent. It panics via parseerr.Invariantf if lmove's
// precondition does not hold; PerformMove is only ever called with a move
// already known to be legal, so a precondition failure here indicates a
// bug upstream, not bad input.
func PerformMove(lmove LabeledMove, ps *parsestate.ParseState, sent *corpus.Sentence) {
	switch lmove.Move {
	case Shift:
		if ps.N0 >= ps.Length-1 {
			parseerr.Invariantf("SHIFT precondition violated: n0=%d, length=%d", ps.N0, ps.Length)
		}
		ps.Stack = append(ps.Stack, ps.N0)
		ps.N0++

	case Reduce:
		if len(ps.Stack) == 0 {
			parseerr.Invariantf("REDUCE precondition violated: stack is empty")
		}
		top := ps.Top()
		if ps.Heads[top] == -1 {
			parseerr.Invariantf("REDUCE precondition violated: heads[top]=-1")
		}
		ps.Stack = ps.Stack[:len(ps.Stack)-1]

	case LeftArc:
		if len(ps.Stack) == 0 {
			parseerr.Invariantf("LEFT_ARC precondition violated: stack is empty")
		}
		top := ps.Top()
		if ps.Heads[top] != -1 {
			parseerr.Invariantf("LEFT_ARC precondition violated: heads[top] already set")
		}
		ps.Heads[top] = ps.N0
		ps.Labels[top] = lmove.Label
		ps.Stack = ps.Stack[:len(ps.Stack)-1]

	case RightArc:
		if len(ps.Stack) == 0 {
			parseerr.Invariantf("RIGHT_ARC precondition violated: stack is empty")
		}
		if ps.N0 >= ps.Length-1 {
			parseerr.Invariantf("RIGHT_ARC precondition violated: n0=%d, length=%d", ps.N0, ps.Length)
		}
		top := ps.Top()
		ps.Heads[ps.N0] = top
		ps.Labels[ps.N0] = lmove.Label
		ps.Stack = append(ps.Stack, ps.N0)
		ps.N0++

	default:
		parseerr.Invariantf("unknown move kind %v", lmove.Move)
	}

	ps.RecomputeLocations()
	recomputeSpanStates(ps, sent)
}

// recomputeSpanStates rebuilds ps.SpanStates from scratch against the
// current heads/stack rather than tracking the crossing deltas
// incrementally, the same recompute-don't-maintain design the location
// cache uses.
func recomputeSpanStates(ps *parsestate.ParseState, sent *corpus.Sentence) {
	for i, sc := range sent.SpanConstraints {
		inside := func(x int) bool { return x >= sc.Start && x <= sc.End }

		headless := 0
		for _, x := range ps.Stack {
			if inside(x) && ps.Heads[x] == -1 {
				headless++
			}
		}

		root := parsestate.Undefined
		for x := sc.Start; x <= sc.End && x < ps.Length; x++ {
			if ps.Heads[x] != -1 && !inside(ps.Heads[x]) {
				root = x
				break
			}
		}

		ps.SpanStates[i] = parsestate.SpanState{HeadlessInStack: headless, DesignatedRoot: root}
	}
}
