// Package transition implements the arc-eager shift-reduce transition
// system: the legal-move set, the dynamic oracle, PerformMove, and the
// constrained variant that additionally enforces ArcConstraint/
// SpanConstraint.
package transition

// Move is one of the four arc-eager transition kinds.
type Move int

const (
	Shift Move = iota
	Reduce
	LeftArc
	RightArc

	numMoveKinds
)

func (m Move) String() string {
	switch m {
	case Shift:
		return "SHIFT"
	case Reduce:
		return "REDUCE"
	case LeftArc:
		return "LEFT_ARC"
	case RightArc:
		return "RIGHT_ARC"
	default:
		return "UNKNOWN"
	}
}

// NoLabel marks a LabeledMove that carries no label (SHIFT, REDUCE).
const NoLabel = -1

// LabeledMove is one fully-specified transition: a move kind, a label id
// (NoLabel for SHIFT/REDUCE), and its dense Index into the enumerated move
// list returned by Moves (used to address weight blocks). Equal ignores
// Index.
type LabeledMove struct {
	Move  Move
	Label int
	Index int
}

// Equal reports whether two LabeledMoves have the same move and label,
// ignoring Index.
func (lm LabeledMove) Equal(o LabeledMove) bool {
	return lm.Move == o.Move && lm.Label == o.Label
}

// Moves returns the ordered enumeration of every LabeledMove for a
// vocabulary of numLabels dependency labels: one SHIFT, one REDUCE, then
// LEFT_ARC for each label id, then RIGHT_ARC for each label id. A
// LabeledMove's Index equals its position in this list, which is also used
// to size weight blocks (NumLabeledMoves(numLabels) entries).
func Moves(numLabels int) []LabeledMove {
	out := make([]LabeledMove, 0, NumLabeledMoves(numLabels))
	idx := 0

	out = append(out, LabeledMove{Move: Shift, Label: NoLabel, Index: idx})
	idx++
	out = append(out, LabeledMove{Move: Reduce, Label: NoLabel, Index: idx})
	idx++
	for l := 0; l < numLabels; l++ {
		out = append(out, LabeledMove{Move: LeftArc, Label: l, Index: idx})
		idx++
	}
	for l := 0; l < numLabels; l++ {
		out = append(out, LabeledMove{Move: RightArc, Label: l, Index: idx})
		idx++
	}
	return out
}

// NumLabeledMoves returns the size of the Moves(numLabels) enumeration:
// 2 + 2*numLabels.
func NumLabeledMoves(numLabels int) int {
	return 2 + 2*numLabels
}

// moveFlags is a per-move-kind record of whether the kind is enabled and,
// if so, which label (if any) it is restricted to.
type moveFlags struct {
	enabled       bool
	requiredLabel int // NoLabel means "any label"
}

// LabeledMoveSet is a bit-set over the four move kinds plus, per kind, an
// optional required label id (NoLabel meaning "any label"). Membership
// (Contains) tests both the move kind and, when set, the label.
type LabeledMoveSet struct {
	flags [numMoveKinds]moveFlags
}

// NewLabeledMoveSet returns an empty LabeledMoveSet (every move disabled).
func NewLabeledMoveSet() LabeledMoveSet {
	var s LabeledMoveSet
	for i := range s.flags {
		s.flags[i] = moveFlags{enabled: false, requiredLabel: NoLabel}
	}
	return s
}

// Enable turns on move m with no label restriction (any label, for LeftArc/
// RightArc; ignored for Shift/Reduce).
func (s *LabeledMoveSet) Enable(m Move) {
	s.flags[m] = moveFlags{enabled: true, requiredLabel: NoLabel}
}

// EnableLabel turns on move m restricted to exactly the given label.
func (s *LabeledMoveSet) EnableLabel(m Move, label int) {
	s.flags[m] = moveFlags{enabled: true, requiredLabel: label}
}

// Disable turns off move m entirely.
func (s *LabeledMoveSet) Disable(m Move) {
	s.flags[m] = moveFlags{enabled: false, requiredLabel: NoLabel}
}

// RestrictLabel narrows an already-enabled move m to exactly the given
// label, if it is not already restricted to a different one. No-op if m is
// not enabled.
func (s *LabeledMoveSet) RestrictLabel(m Move, label int) {
	if !s.flags[m].enabled {
		return
	}
	if s.flags[m].requiredLabel != NoLabel && s.flags[m].requiredLabel != label {
		return
	}
	s.flags[m].requiredLabel = label
}

// Enabled reports whether move kind m is enabled at all (for any label).
func (s LabeledMoveSet) Enabled(m Move) bool {
	return s.flags[m].enabled
}

// RequiredLabel returns the label m is restricted to, or NoLabel if m is
// enabled for any label. Meaningless if m is not enabled.
func (s LabeledMoveSet) RequiredLabel(m Move) int {
	return s.flags[m].requiredLabel
}

// Contains reports whether lm is a member: its move kind must be enabled,
// and if the set restricts that kind to a specific label, lm.Label must
// match it.
func (s LabeledMoveSet) Contains(lm LabeledMove) bool {
	f := s.flags[lm.Move]
	if !f.enabled {
		return false
	}
	return f.requiredLabel == NoLabel || f.requiredLabel == lm.Label
}

// Empty reports whether no move kind is enabled.
func (s LabeledMoveSet) Empty() bool {
	for _, f := range s.flags {
		if f.enabled {
			return false
		}
	}
	return true
}

// Intersect disables anything in s not also present in o, narrowing any
// shared label restriction to whichever of the two is more specific
// (preferring a concrete label over "any").
func (s *LabeledMoveSet) Intersect(o LabeledMoveSet) {
	for m := Move(0); m < numMoveKinds; m++ {
		sf := s.flags[m]
		of := o.flags[m]
		if !sf.enabled || !of.enabled {
			s.flags[m] = moveFlags{enabled: false, requiredLabel: NoLabel}
			continue
		}
		switch {
		case sf.requiredLabel == NoLabel:
			s.flags[m].requiredLabel = of.requiredLabel
		case of.requiredLabel == NoLabel:
			// keep sf.requiredLabel
		case sf.requiredLabel == of.requiredLabel:
			// already agree
		default:
			// conflicting concrete labels: nothing satisfies both
			s.flags[m] = moveFlags{enabled: false, requiredLabel: NoLabel}
		}
	}
}

// ForEach iterates every LabeledMove from the enumeration that s contains,
// calling fn with it. Used by the learner to scan allowed/oracle moves when
// computing an argmax.
func (s LabeledMoveSet) ForEach(all []LabeledMove, fn func(LabeledMove)) {
	for _, lm := range all {
		if s.Contains(lm) {
			fn(lm)
		}
	}
}
