package world

import (
	"strings"
	"testing"

	"atlantis/pkg/worker"
)

func TestFromSnapshotIdleWorld(t *testing.T) {
	in := `{"workers":[{"id":0,"flavor":"General","desk":[]},{"id":1,"flavor":"General","desk":[]}],
	        "neighbor_map":[[0,1]],"score":0}`
	w, warnings, err := FromSnapshot([]byte(in))
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(w.Workers) != 2 {
		t.Fatalf("want 2 workers, got %d", len(w.Workers))
	}
	if got := w.Neighbors[0]; len(got) != 1 || got[0] != 1 {
		t.Fatalf("neighbors[0] = %v, want [1]", got)
	}
}

func TestFromSnapshotNeighborsSortedAscending(t *testing.T) {
	in := `{"workers":[{"id":0,"flavor":"General","desk":[]},
	                   {"id":3,"flavor":"General","desk":[]},
	                   {"id":1,"flavor":"General","desk":[]},
	                   {"id":2,"flavor":"General","desk":[]}],
	        "neighbor_map":[[0,3],[0,2],[0,1]],"score":0}`
	w, _, err := FromSnapshot([]byte(in))
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}
	got := w.Neighbors[0]
	want := []worker.ID{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("neighbors[0] = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("neighbors[0] = %v, want %v", got, want)
		}
	}
}

func TestFromSnapshotUnknownFlavorWarnsAndDefaultsGeneral(t *testing.T) {
	in := `{"workers":[{"id":0,"flavor":"Quantum","desk":[]}],"neighbor_map":[],"score":0}`
	w, warnings, err := FromSnapshot([]byte(in))
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("want 1 warning, got %d", len(warnings))
	}
	if w.Workers[0].Kind != worker.General {
		t.Fatalf("unknown flavor should default to General")
	}
}

func TestFromSnapshotUnknownColorIsFatal(t *testing.T) {
	in := `{"workers":[{"id":0,"flavor":"General","desk":[{"id":1,"layers":[{"color":"Purple","thickness":1}]}]}],"neighbor_map":[],"score":0}`
	_, _, err := FromSnapshot([]byte(in))
	if err == nil {
		t.Fatalf("expected fatal error for unknown pearl color")
	}
}

func TestFromSnapshotMalformedJSONIsFatal(t *testing.T) {
	_, _, err := FromSnapshot([]byte("{not json"))
	if err == nil {
		t.Fatalf("expected fatal error for malformed JSON")
	}
}

func TestFromSnapshotDisconnectedGraphIsFatal(t *testing.T) {
	in := `{"workers":[{"id":0,"flavor":"General","desk":[]},{"id":1,"flavor":"General","desk":[]},{"id":2,"flavor":"General","desk":[]}],
	        "neighbor_map":[[0,1]],"score":0}`
	_, _, err := FromSnapshot([]byte(in))
	if err == nil || !strings.Contains(err.Error(), "disconnected") {
		t.Fatalf("expected disconnected-graph error, got %v", err)
	}
}

func TestFromSnapshotEmptyWorld(t *testing.T) {
	in := `{"workers":[],"neighbor_map":[],"score":0}`
	w, _, err := FromSnapshot([]byte(in))
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}
	if len(w.Workers) != 0 {
		t.Fatalf("want empty world")
	}
}
