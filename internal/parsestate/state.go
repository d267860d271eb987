// Package parsestate holds the arc-eager parse configuration ("ParseState")
// and its derived location cache. Mutation is the transition package's job
// (PerformMove); this package only owns the data and its recomputation.
package parsestate

import "github.com/dekarrin/eagerparse/internal/parseerr"

// LocationName indexes the derived Locations cache of a ParseState.
type LocationName int

const (
	S0 LocationName = iota
	S0Head
	S0Left
	S0Left2
	S0Right
	S0Right2
	N0
	N1
	N2
	N0Left
	N0Left2
	N0Right

	NumLocations
)

// Undefined is the value a ParseState.Locations entry holds when the named
// location does not currently exist.
const Undefined = -1

// SpanState is the per-span-constraint bookkeeping tracked alongside one
// ParseState: how many tokens of the span currently sit in the stack with
// no assigned head yet, and which token (if any) has been designated the
// span's external root.
type SpanState struct {
	HeadlessInStack int
	DesignatedRoot  int // Undefined if none yet
}

// ParseState is the arc-eager configuration for one sentence: a stack of
// token indices, a pointer into the buffer, and the head/label assignments
// built up so far.
type ParseState struct {
	// Length is the number of tokens in the sentence, including ROOT.
	Length int

	// Stack holds token indices; the last element is S0 (top of stack).
	Stack []int

	// N0 is the index of the front of the buffer.
	N0 int

	// Heads and Labels hold the predicted head/label per token index, -1
	// where unset.
	Heads  []int
	Labels []int

	// Locations is the derived location cache, recomputed after every move.
	Locations [NumLocations]int

	// SpanStates is indexed in parallel with the sentence's SpanConstraints.
	SpanStates []SpanState
}

// New returns a fresh ParseState for a sentence of the given length (token
// count including ROOT) and number of span constraints: stack = [0], N0 =
// 1, heads/labels all unset. A tree needs at least one real token besides
// ROOT, so length must be at least 2.
func New(length int, numSpanConstraints int) *ParseState {
	if length < 2 {
		parseerr.Invariantf("parse state needs at least 2 tokens including ROOT, got %d", length)
	}
	heads := make([]int, length)
	labels := make([]int, length)
	for i := range heads {
		heads[i] = -1
		labels[i] = -1
	}

	spanStates := make([]SpanState, numSpanConstraints)
	for i := range spanStates {
		spanStates[i] = SpanState{DesignatedRoot: Undefined}
	}

	ps := &ParseState{
		Length:     length,
		Stack:      []int{0},
		N0:         1,
		Heads:      heads,
		Labels:     labels,
		SpanStates: spanStates,
	}
	ps.RecomputeLocations()
	return ps
}

// Top returns S0, the index at the top of the stack, or Undefined if the
// stack is empty.
func (ps *ParseState) Top() int {
	if len(ps.Stack) == 0 {
		return Undefined
	}
	return ps.Stack[len(ps.Stack)-1]
}

// Terminal reports whether no further moves are possible: the buffer is
// exhausted and the stack is empty.
func (ps *ParseState) Terminal() bool {
	return ps.N0 == ps.Length-1 && len(ps.Stack) == 0
}

// InStack reports whether token index x currently sits anywhere in the
// stack.
func (ps *ParseState) InStack(x int) bool {
	for _, s := range ps.Stack {
		if s == x {
			return true
		}
	}
	return false
}

// RecomputeLocations rebuilds the Locations cache from the current stack,
// buffer pointer, and head assignments. Called after every move rather than
// maintained incrementally, per the derived-cache design.
func (ps *ParseState) RecomputeLocations() {
	for i := range ps.Locations {
		ps.Locations[i] = Undefined
	}

	s0 := ps.Top()
	ps.Locations[S0] = s0

	if s0 != Undefined {
		if ps.Heads[s0] != -1 {
			ps.Locations[S0Head] = ps.Heads[s0]
		}

		left1, left2 := ps.firstTwoDependentsBefore(s0, s0)
		ps.Locations[S0Left] = left1
		ps.Locations[S0Left2] = left2

		right1, right2 := ps.firstTwoDependentsAfter(s0, s0)
		ps.Locations[S0Right] = right1
		ps.Locations[S0Right2] = right2
	}

	n0 := ps.N0
	if n0 < ps.Length {
		ps.Locations[N0] = n0
	}
	if n0+1 < ps.Length {
		ps.Locations[N1] = n0 + 1
	}
	if n0+2 < ps.Length {
		ps.Locations[N2] = n0 + 2
	}

	nLeft1, nLeft2 := ps.firstTwoDependentsBefore(n0, n0)
	ps.Locations[N0Left] = nLeft1
	ps.Locations[N0Left2] = nLeft2

	nRight1, _ := ps.firstTwoDependentsAfter(n0, n0)
	ps.Locations[N0Right] = nRight1
}

// firstTwoDependentsBefore returns the first two indices in [0, before)
// whose current head equals of, nearest first: scanning right to left
// gives left1 as the closest dependent and left2 as the second closest.
func (ps *ParseState) firstTwoDependentsBefore(of, before int) (int, int) {
	first, second := Undefined, Undefined
	for i := before - 1; i >= 0; i-- {
		if ps.Heads[i] == of {
			if first == Undefined {
				first = i
			} else {
				second = i
				break
			}
		}
	}
	return first, second
}

// firstTwoDependentsAfter returns the first two indices strictly after
// `after` whose current head equals of, nearest first.
func (ps *ParseState) firstTwoDependentsAfter(of, after int) (int, int) {
	first, second := Undefined, Undefined
	for i := after + 1; i < ps.Length; i++ {
		if ps.Heads[i] == of {
			if first == Undefined {
				first = i
			} else {
				second = i
				break
			}
		}
	}
	return first, second
}
