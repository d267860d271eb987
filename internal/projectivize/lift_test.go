package projectivize

import "testing"

func anyNonprojective(heads []int) bool {
	for i := range heads {
		if IsNonprojective(heads, i) {
			return true
		}
	}
	return false
}

// TestLiftLongestRepairsNonprojectiveTree: heads [6,0,4,0,0,1,-1] (index 6
// is ROOT) is nonprojective; LiftLongest must terminate and leave no
// nonprojective edge.
func TestLiftLongestRepairsNonprojectiveTree(t *testing.T) {
	heads := []int{6, 0, 4, 0, 0, 1, -1}
	if !anyNonprojective(heads) {
		t.Fatalf("expected the fixture to start nonprojective")
	}

	result := LiftLongest(heads)
	if anyNonprojective(result) {
		t.Fatalf("expected no nonprojective edge after LiftLongest, got heads=%v", result)
	}
}

func TestIsNonprojectiveProjectiveTree(t *testing.T) {
	// A simple left-branching chain: 0<-1<-2<-3<-ROOT(4).
	heads := []int{1, 2, 3, 4, -1}
	for i := range heads {
		if IsNonprojective(heads, i) {
			t.Fatalf("token %d unexpectedly flagged nonprojective in a chain", i)
		}
	}
}

func TestIsNonprojectiveDetectsCrossingEdge(t *testing.T) {
	// Token 0's head is 2 but token 1 (strictly between 0 and 2) attaches
	// outside [0,2], at 3: a crossing edge.
	heads := []int{2, 3, 4, 4, -1}
	if !IsNonprojective(heads, 0) {
		t.Fatalf("expected edge (0->2) to be flagged nonprojective")
	}
}

func TestLiftLongestTerminatesOnAlreadyProjectiveTree(t *testing.T) {
	heads := []int{1, 2, 3, 4, -1}
	result := LiftLongest(append([]int(nil), heads...))
	for i, h := range result {
		if h != heads[i] {
			t.Fatalf("expected an already-projective tree to be unchanged, got %v", result)
		}
	}
}
