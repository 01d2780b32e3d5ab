// Package routing implements the weighted shortest-path kernel used to
// route a digested pearl back to the gatekeeper. (The route to a
// processing worker comes from pkg/plan's own target-selection walk.)
//
// Edge weight from u to v is 1 + worker_load[v] (stepping into v costs one
// move unit plus v's currently booked load; the start node is entered
// for free). Ties are broken by neighbor iteration order, which is
// always ascending by id, so results stay deterministic.
package routing

import (
	"atlantis/pkg/worker"
	"atlantis/pkg/world"
)

// LoadFunc reports a worker's currently booked load — the congestion
// term added to the cost of stepping into it.
type LoadFunc func(worker.ID) int

// Tree is the result of a single-source traversal: enough to reconstruct
// the shortest route to any reached worker.
type Tree struct {
	Dist map[worker.ID]int
	Pred map[worker.ID]worker.ID // no entry for the start node
}

// minHeap is a concrete-typed binary min-heap over (worker, dist) pairs.
// Hand-rolled rather than container/heap to avoid interface-boxing overhead
// on the hot path.
type minHeap struct {
	items []heapItem
}

type heapItem struct {
	worker worker.ID
	dist   int
}

func (h *minHeap) push(w worker.ID, dist int) {
	h.items = append(h.items, heapItem{w, dist})
	h.siftUp(len(h.items) - 1)
}

func (h *minHeap) pop() heapItem {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item
}

func (h *minHeap) empty() bool { return len(h.items) == 0 }

func (h *minHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.items[i].dist >= h.items[parent].dist {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *minHeap) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left, right := 2*i+1, 2*i+2
		if left < n && h.items[left].dist < h.items[smallest].dist {
			smallest = left
		}
		if right < n && h.items[right].dist < h.items[smallest].dist {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}

// ShortestTree runs a full single-source search from start over w's
// adjacency. Neighbors are always visited in ascending id order (w's
// Neighbors lists are pre-sorted), so equal-distance ties resolve toward
// the first-discovered predecessor.
func ShortestTree(w *world.World, start worker.ID, load LoadFunc) *Tree {
	dist := map[worker.ID]int{start: 0}
	pred := map[worker.ID]worker.ID{}
	visited := map[worker.ID]bool{}

	h := &minHeap{}
	h.push(start, 0)

	for !h.empty() {
		cur := h.pop()
		if visited[cur.worker] {
			continue
		}
		visited[cur.worker] = true

		for _, n := range w.Neighbors[cur.worker] {
			if visited[n] {
				continue
			}
			newDist := cur.dist + 1 + load(n)
			if old, ok := dist[n]; !ok || newDist < old {
				dist[n] = newDist
				pred[n] = cur.worker
				h.push(n, newDist)
			}
		}
	}

	return &Tree{Dist: dist, Pred: pred}
}

// Route reconstructs [start, ..., goal] from a Tree built with the same
// start. Returns nil if goal was never reached.
func (t *Tree) Route(start, goal worker.ID) []worker.ID {
	if goal == start {
		return []worker.ID{start}
	}
	if _, ok := t.Dist[goal]; !ok {
		return nil
	}
	var route []worker.ID
	for cur := goal; ; {
		route = append(route, cur)
		if cur == start {
			break
		}
		p, ok := t.Pred[cur]
		if !ok {
			return nil
		}
		cur = p
	}
	// reverse
	for i, j := 0, len(route)-1; i < j; i, j = i+1, j-1 {
		route[i], route[j] = route[j], route[i]
	}
	return route
}

// ShortestPath returns the route [start, ..., goal]. Undefined if goal is
// unreachable — precondition: w is connected, so in a valid world this
// cannot occur.
func ShortestPath(w *world.World, start, goal worker.ID, load LoadFunc) []worker.ID {
	return ShortestTree(w, start, load).Route(start, goal)
}
