// Package projectivize repairs a non-projective gold tree before training:
// repeatedly lift the farthest-spanning non-projective edge's dependent to
// its grandparent until none remain.
package projectivize

// IsNonprojective reports whether the edge (head[i] -> i) is non-projective:
// some index strictly between min(i, heads[i]) and max(i, heads[i]) has a
// head outside that span. ROOT's own edge (heads[root] == -1) is never
// non-projective.
func IsNonprojective(heads []int, i int) bool {
	h := heads[i]
	if h < 0 {
		return false
	}

	lo, hi := i, h
	if lo > hi {
		lo, hi = hi, lo
	}

	for j := lo + 1; j < hi; j++ {
		hj := heads[j]
		if hj < lo || hj > hi {
			return true
		}
	}
	return false
}

// span returns the |i - heads[i]| distance used to rank non-projective
// edges by how far apart their endpoints are.
func span(heads []int, i int) int {
	d := i - heads[i]
	if d < 0 {
		return -d
	}
	return d
}

// LiftLongest repeatedly selects the non-projective edge with the largest
// span (ties broken by ascending dependent index, i.e. enumeration order)
// and lifts its dependent to attach to its own head's head (its
// grandparent), until no non-projective edge remains. Edges attached to
// ROOT are never selected, since ROOT has no head to lift to; whenever such
// an edge is non-projective, the edge crossing it is itself non-projective
// and liftable. Mutates heads in place and also returns it.
func LiftLongest(heads []int) []int {
	for {
		best := -1
		bestSpan := -1

		for i := range heads {
			if !IsNonprojective(heads, i) {
				continue
			}
			if heads[heads[i]] < 0 {
				continue
			}
			sp := span(heads, i)
			if sp > bestSpan {
				bestSpan = sp
				best = i
			}
		}

		if best == -1 {
			return heads
		}

		heads[best] = heads[heads[best]]
	}
}
