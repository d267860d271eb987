package parsestate

import "testing"

func TestNewInitialState(t *testing.T) {
	ps := New(3, 0)

	if len(ps.Stack) != 1 || ps.Stack[0] != 0 {
		t.Fatalf("Stack = %v, want [0]", ps.Stack)
	}
	if ps.N0 != 1 {
		t.Fatalf("N0 = %d, want 1", ps.N0)
	}
	for i, h := range ps.Heads {
		if h != -1 {
			t.Fatalf("Heads[%d] = %d, want -1", i, h)
		}
	}
	if ps.Terminal() {
		t.Fatalf("fresh 3-token state should not be terminal")
	}
}

func TestTerminalStateEmptyStack(t *testing.T) {
	// A two-token sentence (one real token + ROOT) with its stack emptied
	// and N0 at ROOT: check the terminal boundary condition directly.
	ps := New(2, 0)
	ps.Stack = nil
	ps.N0 = 1
	if !ps.Terminal() {
		t.Fatalf("expected terminal state with empty stack and N0 at length-1")
	}
}

func TestRecomputeLocationsDependents(t *testing.T) {
	ps := New(5, 0)
	// Pretend token 2 is S0 with dependents 0 and 1 to its left and 3, 4 to
	// its right.
	ps.Stack = []int{2}
	ps.N0 = 5 // out of range; buffer exhausted for this check
	ps.Heads[0] = 2
	ps.Heads[1] = 2
	ps.Heads[3] = 2
	ps.Heads[4] = 2
	ps.RecomputeLocations()

	if ps.Locations[S0] != 2 {
		t.Fatalf("S0 = %d, want 2", ps.Locations[S0])
	}
	if ps.Locations[S0Left] != 1 || ps.Locations[S0Left2] != 0 {
		t.Fatalf("S0Left/S0Left2 = %d/%d, want 1/0", ps.Locations[S0Left], ps.Locations[S0Left2])
	}
	if ps.Locations[S0Right] != 3 || ps.Locations[S0Right2] != 4 {
		t.Fatalf("S0Right/S0Right2 = %d/%d, want 3/4", ps.Locations[S0Right], ps.Locations[S0Right2])
	}
}
