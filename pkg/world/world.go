// Package world builds the immutable per-tick snapshot the scheduler
// reasons over: workers, their desks, and deterministic adjacency.
package world

import (
	"encoding/json"
	"fmt"
	"sort"

	"atlantis/pkg/pearl"
	"atlantis/pkg/worker"
)

// World is one tick's snapshot. It is constructed fresh from host JSON
// every tick and is immutable for the duration of a Step call; only the
// scheduler's plans and worker_load survive across ticks.
type World struct {
	Workers map[worker.ID]worker.Worker
	// Neighbors holds, for every worker, its adjacent workers sorted
	// ascending by id. All routing iteration over neighbors must use
	// this order to keep results deterministic.
	Neighbors map[worker.ID][]worker.ID
	Score     int32
}

// Warning is a non-fatal condition encountered while building a World,
// such as an unknown worker flavor defaulting to General.
type Warning struct {
	WorkerID worker.ID
	Message  string
}

// --- wire format ---

type snapshotJSON struct {
	Workers     []workerJSON  `json:"workers"`
	NeighborMap [][2]uint32   `json:"neighbor_map"`
	Score       int32         `json:"score"`
}

type workerJSON struct {
	ID     worker.ID  `json:"id"`
	Flavor string     `json:"flavor"`
	Desk   []pearlJSON `json:"desk"`
}

type pearlJSON struct {
	ID     pearl.ID    `json:"id"`
	Layers []layerJSON `json:"layers"`
}

type layerJSON struct {
	Color     string `json:"color"`
	Thickness uint32 `json:"thickness"`
}

// FromSnapshot parses one host JSON frame into a World. Malformed JSON
// and unknown pearl colors are fatal (the returned error should abort the
// process); unknown worker flavors default to General and are reported as
// warnings rather than failing the tick. Connectivity is validated
// defensively even though the host is assumed to guarantee it.
func FromSnapshot(data []byte) (*World, []Warning, error) {
	var raw snapshotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("malformed snapshot: %w", err)
	}

	workers := make(map[worker.ID]worker.Worker, len(raw.Workers))
	var warnings []Warning

	for _, wj := range raw.Workers {
		kind, known := worker.ParseKind(wj.Flavor)
		if !known {
			warnings = append(warnings, Warning{
				WorkerID: wj.ID,
				Message:  fmt.Sprintf("unknown worker flavor %q, defaulting to General", wj.Flavor),
			})
		}

		desk := make([]pearl.Pearl, 0, len(wj.Desk))
		for _, pj := range wj.Desk {
			layers := make([]pearl.Layer, 0, len(pj.Layers))
			for _, lj := range pj.Layers {
				color, ok := pearl.ParseColor(lj.Color)
				if !ok {
					return nil, nil, fmt.Errorf("pearl %d: unknown color %q", pj.ID, lj.Color)
				}
				layers = append(layers, pearl.Layer{Color: color, Thickness: lj.Thickness})
			}
			desk = append(desk, pearl.Pearl{ID: pj.ID, Layers: layers})
		}

		workers[wj.ID] = worker.New(wj.ID, kind, desk)
	}

	neighbors := make(map[worker.ID][]worker.ID, len(workers))
	for _, edge := range raw.NeighborMap {
		a, b := edge[0], edge[1]
		if _, ok := workers[a]; !ok {
			return nil, nil, fmt.Errorf("neighbor_map references unknown worker %d", a)
		}
		if _, ok := workers[b]; !ok {
			return nil, nil, fmt.Errorf("neighbor_map references unknown worker %d", b)
		}
		neighbors[a] = append(neighbors[a], b)
		neighbors[b] = append(neighbors[b], a)
	}
	for id, ns := range neighbors {
		sort.Slice(ns, func(i, j int) bool { return ns[i] < ns[j] })
		neighbors[id] = ns
	}

	w := &World{Workers: workers, Neighbors: neighbors, Score: raw.Score}

	if len(workers) > 0 {
		if err := checkConnected(w); err != nil {
			return nil, nil, err
		}
	}

	return w, warnings, nil
}
