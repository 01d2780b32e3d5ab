// Package plan builds the ordered command sequence — the execution plan —
// for a single pearl: either a return trip to the gatekeeper (a digested
// pearl) or a route to the best processing worker followed by enough Nom
// commands to fully digest it there.
package plan

import (
	"atlantis/pkg/command"
	"atlantis/pkg/pearl"
	"atlantis/pkg/routing"
	"atlantis/pkg/worker"
	"atlantis/pkg/world"
)

// LoadFunc reports a worker's currently booked load.
type LoadFunc = routing.LoadFunc

// Scratch holds reusable traversal buffers so building many plans within
// one tick does not allocate fresh maps per pearl.
type Scratch struct {
	moveCost map[worker.ID]int
	movePath map[worker.ID]worker.ID
	queue    []queueItem
}

type queueItem struct {
	worker worker.ID
	cost   int
}

// NewScratch allocates an empty, ready-to-use Scratch.
func NewScratch() *Scratch {
	return &Scratch{
		moveCost: make(map[worker.ID]int),
		movePath: make(map[worker.ID]worker.ID),
	}
}

func (s *Scratch) reset() {
	for k := range s.moveCost {
		delete(s.moveCost, k)
	}
	for k := range s.movePath {
		delete(s.movePath, k)
	}
	s.queue = s.queue[:0]
}

// Build constructs the execution plan for pearl p, currently held by
// worker `current`, against world w. Returns nil if no plan is required:
// a digested pearl already sitting at the gatekeeper needs no further
// action. scratch may be nil, in which case a private one is allocated.
func Build(w *world.World, p pearl.Pearl, current worker.ID, load LoadFunc, scratch *Scratch) []command.Command {
	if p.Digested() {
		return buildReturnPlan(w, p, current, load)
	}
	if scratch == nil {
		scratch = NewScratch()
	}
	return buildProcessPlan(w, p, current, load, scratch)
}

// buildReturnPlan implements Case A: route the digested pearl back to the
// gatekeeper.
func buildReturnPlan(w *world.World, p pearl.Pearl, current worker.ID, load LoadFunc) []command.Command {
	if current == worker.Gatekeeper {
		return nil
	}
	route := routing.ShortestPath(w, current, worker.Gatekeeper, load)
	return commandsFromRoute(p.ID, route, 0)
}

// buildProcessPlan implements Case B: select the best target worker via
// an admissibly-pruned FIFO-frontier walk, then route to it and append
// enough Nom commands to fully digest the pearl there.
//
// The traversal is a plain FIFO queue, not a priority queue: edges are
// non-negative and the admissible pruning rule (skip any branch whose
// move_cost already meets or exceeds the current best total) bounds
// exploration without needing a priority order.
func buildProcessPlan(w *world.World, p pearl.Pearl, current worker.ID, load LoadFunc, scratch *Scratch) []command.Command {
	scratch.reset()

	best := current
	bestTotal := int(w.Workers[current].CostPearl(p))
	if current == worker.Gatekeeper {
		bestTotal += 2 * len(w.Workers)
	}

	scratch.moveCost[current] = 0
	scratch.queue = append(scratch.queue, queueItem{current, 0})

	for len(scratch.queue) > 0 {
		item := scratch.queue[0]
		scratch.queue = scratch.queue[1:]

		if item.cost >= bestTotal {
			continue
		}

		for _, n := range w.Neighbors[item.worker] {
			newCost := item.cost + 1 + load(n)
			if old, ok := scratch.moveCost[n]; ok && old <= newCost {
				continue
			}
			scratch.movePath[n] = item.worker
			scratch.moveCost[n] = newCost
			scratch.queue = append(scratch.queue, queueItem{n, newCost})

			total := newCost + int(w.Workers[n].CostPearl(p))
			if total < bestTotal {
				bestTotal = total
				best = n
			}
		}
	}

	route := reconstructRoute(current, best, scratch.movePath)
	nomCount := w.Workers[best].CostPearl(p)
	return commandsFromRoute(p.ID, route, nomCount)
}

// reconstructRoute rebuilds [start, ..., goal] from a predecessor map
// built during the FIFO walk. If goal == start the route is [start]
// alone.
func reconstructRoute(start, goal worker.ID, movePath map[worker.ID]worker.ID) []worker.ID {
	if goal == start {
		return []worker.ID{start}
	}
	var route []worker.ID
	for cur := goal; ; {
		route = append(route, cur)
		if cur == start {
			break
		}
		cur = movePath[cur]
	}
	for i, j := 0, len(route)-1; i < j; i, j = i+1, j-1 {
		route[i], route[j] = route[j], route[i]
	}
	return route
}

// commandsFromRoute emits a Pass for every consecutive pair in route,
// then nomCount copies of Nom at the route's final worker.
func commandsFromRoute(id pearl.ID, route []worker.ID, nomCount uint32) []command.Command {
	if len(route) == 0 {
		return nil
	}
	cmds := make([]command.Command, 0, len(route)-1+int(nomCount))
	for i := 0; i+1 < len(route); i++ {
		cmds = append(cmds, command.Pass{From: route[i], To: route[i+1], Of: id})
	}
	last := route[len(route)-1]
	for i := uint32(0); i < nomCount; i++ {
		cmds = append(cmds, command.Nom{Worker: last, Of: id})
	}
	return cmds
}
