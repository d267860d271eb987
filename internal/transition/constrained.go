package transition

import (
	"github.com/dekarrin/eagerparse/internal/corpus"
	"github.com/dekarrin/eagerparse/internal/parsestate"
)

// ConstrainedArcEager is the arc-eager system filtered by a sentence's
// ArcConstraint and SpanConstraint lists.
type ConstrainedArcEager struct{}

// AllowedLabeledMoves returns ArcEager's legal set further narrowed by
// sent's arc and span constraints.
func (ConstrainedArcEager) AllowedLabeledMoves(ps *parsestate.ParseState, sent *corpus.Sentence) LabeledMoveSet {
	s := ArcEager{}.AllowedLabeledMoves(ps, sent)
	if s.Empty() {
		return s
	}

	filterByArcConstraints(&s, ps, sent)
	if s.Empty() {
		return s
	}
	filterBySpanConstraints(&s, ps, sent)
	return s
}

// filterByArcConstraints disables any move that would cut off a pinned
// (H,D,L) edge and, when an enabled LEFT_ARC/RIGHT_ARC would realize
// exactly the constrained edge,
// narrows it to the constraint's required label (when L != -1) so that the
// resulting tree satisfies heads[D]==H and labels[D]==L, not just the
// former.
func filterByArcConstraints(s *LabeledMoveSet, ps *parsestate.ParseState, sent *corpus.Sentence) {
	s0 := ps.Top()
	n0 := ps.N0

	for _, c := range sent.ArcConstraints {
		h, d := c.Head, c.Dep

		if s.Enabled(LeftArc) && ((h == s0 && d >= n0) || (d == s0 && h > n0)) {
			s.Disable(LeftArc)
		}
		if s.Enabled(RightArc) {
			touchesBoundary := h == n0 || d == n0
			isTheConstrainedEdge := h == s0 && d == n0
			if touchesBoundary && !isTheConstrainedEdge {
				if ps.InStack(h) || ps.InStack(d) {
					s.Disable(RightArc)
				}
			}
		}
		if s.Enabled(Reduce) && ((h == s0 && d >= n0) || (d == s0 && h >= n0)) {
			s.Disable(Reduce)
		}
		if s.Enabled(Shift) {
			if h == n0 && ps.InStack(d) {
				s.Disable(Shift)
			} else if d == n0 && ps.InStack(h) {
				s.Disable(Shift)
			}
		}

		if c.Label != -1 {
			if s.Enabled(LeftArc) && d == s0 && h == n0 {
				s.RestrictLabel(LeftArc, c.Label)
			}
			if s.Enabled(RightArc) && d == n0 && h == s0 {
				s.RestrictLabel(RightArc, c.Label)
			}
		}
	}
}

// filterBySpanConstraints disables moves that would leave a span without a
// single external root, using the span state tracked in ps.SpanStates
// (maintained by PerformMove).
func filterBySpanConstraints(s *LabeledMoveSet, ps *parsestate.ParseState, sent *corpus.Sentence) {
	s0 := ps.Top()
	n0 := ps.N0

	for i, sc := range sent.SpanConstraints {
		ss := ps.SpanStates[i]
		inside := func(x int) bool { return x >= sc.Start && x <= sc.End }
		hasRoot := ss.DesignatedRoot != parsestate.Undefined

		if s.Enabled(LeftArc) {
			disable := (hasRoot && s0 == ss.DesignatedRoot && inside(n0)) ||
				(hasRoot && inside(s0) && s0 != ss.DesignatedRoot && !inside(n0)) ||
				(sc.PermitRootDeps && hasRoot && n0 != ss.DesignatedRoot && inside(n0) && !inside(s0)) ||
				(!sc.PermitRootDeps && inside(n0) && !inside(s0))
			if disable {
				s.Disable(LeftArc)
			}
		}

		if s.Enabled(RightArc) {
			closesSpan := n0 == sc.End && ss.HeadlessInStack > 1
			unroots := hasRoot && n0 == ss.DesignatedRoot && inside(s0)
			externalDep := inside(s0) && !inside(n0) && !(sc.PermitRootDeps && hasRoot && s0 == ss.DesignatedRoot)
			if closesSpan || unroots || externalDep {
				s.Disable(RightArc)
			}
		}

		if s.Enabled(Shift) {
			if n0 == sc.End && ss.HeadlessInStack > 0 {
				s.Disable(Shift)
			}
		}

		if s.Enabled(Reduce) {
			if hasRoot && s0 == ss.DesignatedRoot && inside(n0) {
				s.Disable(Reduce)
			}
		}
	}
}
