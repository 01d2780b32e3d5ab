package main

import (
	"bytes"
	"strings"
	"testing"
)

// S1 then S2 back to back through the real process loop (minus the
// observability/render side effects, both left disabled).
func TestRunProcessesSnapshotsAndExitsZeroOnEOF(t *testing.T) {
	in := strings.Join([]string{
		`{"workers":[{"id":0,"flavor":"General","desk":[]},{"id":1,"flavor":"General","desk":[]}],"neighbor_map":[[0,1]],"score":0}`,
		`{"workers":[{"id":0,"flavor":"General","desk":[{"id":7,"layers":[{"color":"Green","thickness":10}]}]},{"id":1,"flavor":"Vector","desk":[]}],"neighbor_map":[[0,1]],"score":0}`,
		"",
	}, "\n")

	var out bytes.Buffer
	code := run(nil, strings.NewReader(in), &out)

	if code != 0 {
		t.Fatalf("want exit code 0, got %d (output: %s)", code, out.String())
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 output lines, got %d: %v", len(lines), lines)
	}
	if lines[0] != "{}" {
		t.Fatalf("tick 1 (idle world) = %s, want {}", lines[0])
	}
	if lines[1] != `{"0":{"Pass":{"pearl_id":7,"to_worker":1}}}` {
		t.Fatalf("tick 2 = %s, want the S2 Pass", lines[1])
	}
}

func TestRunExitsNonZeroOnMalformedInput(t *testing.T) {
	var out bytes.Buffer
	code := run(nil, strings.NewReader("{not json}\n"), &out)
	if code == 0 {
		t.Fatalf("want non-zero exit code for malformed input")
	}
}
