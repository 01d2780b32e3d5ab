package world

import (
	"fmt"
	"sort"

	"atlantis/pkg/worker"
)

// unionFind is a disjoint-set data structure with path halving and union
// by rank, used to validate that the induced worker graph is connected.
type unionFind struct {
	parent map[worker.ID]worker.ID
	rank   map[worker.ID]byte
}

func newUnionFind(ids []worker.ID) *unionFind {
	uf := &unionFind{
		parent: make(map[worker.ID]worker.ID, len(ids)),
		rank:   make(map[worker.ID]byte, len(ids)),
	}
	for _, id := range ids {
		uf.parent[id] = id
	}
	return uf
}

func (uf *unionFind) find(x worker.ID) worker.ID {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]] // path halving
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(x, y worker.ID) {
	rx, ry := uf.find(x), uf.find(y)
	if rx == ry {
		return
	}
	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
}

// checkConnected returns an error naming an unreachable worker if w's
// graph is not fully connected. Called once per FromSnapshot; routing
// itself assumes connectivity holds and does not re-check it on every
// query.
func checkConnected(w *World) error {
	ids := make([]worker.ID, 0, len(w.Workers))
	for id := range w.Workers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	uf := newUnionFind(ids)
	for id, neighbors := range w.Neighbors {
		for _, n := range neighbors {
			uf.union(id, n)
		}
	}

	root := uf.find(ids[0])
	for _, id := range ids[1:] {
		if uf.find(id) != root {
			return fmt.Errorf("worker graph is disconnected: worker %d is unreachable from worker %d", id, ids[0])
		}
	}
	return nil
}
