package routing

import (
	"testing"

	"atlantis/pkg/worker"
	"atlantis/pkg/world"
)

// diamond builds a 5-node diamond graph: 0-1-3-4, 0-2-4.
func diamond(t *testing.T) *world.World {
	t.Helper()
	in := `{"workers":[
		{"id":0,"flavor":"General","desk":[]},
		{"id":1,"flavor":"General","desk":[]},
		{"id":2,"flavor":"General","desk":[]},
		{"id":3,"flavor":"General","desk":[]},
		{"id":4,"flavor":"General","desk":[]}],
		"neighbor_map":[[0,1],[1,3],[3,4],[0,2],[2,4]],"score":0}`
	w, _, err := world.FromSnapshot([]byte(in))
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}
	return w
}

func noLoad(worker.ID) int { return 0 }

func TestShortestPathNoLoadPrefersLowerIDOnTie(t *testing.T) {
	w := diamond(t)
	route := ShortestPath(w, 4, 0, noLoad)
	want := []worker.ID{4, 2, 0}
	if len(route) != len(want) {
		t.Fatalf("route = %v, want %v", route, want)
	}
	for i := range want {
		if route[i] != want[i] {
			t.Fatalf("route = %v, want %v", route, want)
		}
	}
}

func TestShortestPathStartEqualsGoal(t *testing.T) {
	w := diamond(t)
	route := ShortestPath(w, 0, 0, noLoad)
	if len(route) != 1 || route[0] != 0 {
		t.Fatalf("route = %v, want [0]", route)
	}
}

func TestShortestPathRespectsLoad(t *testing.T) {
	w := diamond(t)
	// Loading up worker 2 makes the 0->1->3->4 route cheaper despite
	// being one hop longer in unloaded terms.
	load := func(id worker.ID) int {
		if id == 2 {
			return 10
		}
		return 0
	}
	route := ShortestPath(w, 0, 4, load)
	want := []worker.ID{0, 1, 3, 4}
	if len(route) != len(want) {
		t.Fatalf("route = %v, want %v", route, want)
	}
	for i := range want {
		if route[i] != want[i] {
			t.Fatalf("route = %v, want %v", route, want)
		}
	}
}

func TestShortestTreeNeighborOrderIsAscending(t *testing.T) {
	w := diamond(t)
	for id, ns := range w.Neighbors {
		for i := 1; i < len(ns); i++ {
			if ns[i-1] >= ns[i] {
				t.Fatalf("neighbors[%d] = %v is not strictly ascending", id, ns)
			}
		}
	}
}
