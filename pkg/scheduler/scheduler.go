// Package scheduler implements the per-tick dispatcher: the only piece of
// state that survives across calls to Step. The world is reconstructed
// fresh from each snapshot; a pearl's plan is kept across ticks and rebuilt
// only when it is missing or no longer matches the pearl's holder.
package scheduler

import (
	"sort"

	"atlantis/pkg/command"
	"atlantis/pkg/pearl"
	"atlantis/pkg/plan"
	"atlantis/pkg/worker"
	"atlantis/pkg/world"
)

// Scheduler holds the state that persists across ticks: each in-flight
// pearl's execution plan, and the advisory congestion signal routing and
// target-selection read from. Per-tick scratch state (plan.Scratch) is kept
// separate from this engine-lifetime state so it can be reused tick to tick
// without carrying stale data forward.
type Scheduler struct {
	plans   map[pearl.ID][]command.Command
	load    map[worker.ID]int
	scratch *plan.Scratch
}

// New returns a scheduler with no in-flight plans.
func New() *Scheduler {
	return &Scheduler{
		plans:   make(map[pearl.ID][]command.Command),
		load:    make(map[worker.ID]int),
		scratch: plan.NewScratch(),
	}
}

// candidate pairs a pearl with the worker currently holding it.
type candidate struct {
	pearl  pearl.Pearl
	holder worker.ID
}

// Step runs one full dispatch pipeline against the given snapshot and
// returns the command issued to each worker this tick, at most one per
// worker.
func (s *Scheduler) Step(w *world.World) command.Output {
	candidates := s.enumerateCandidates(w)
	sortByPriority(candidates)

	out := make(command.Output)
	for _, c := range candidates {
		cmds := s.acquirePlan(w, c)
		if len(cmds) == 0 {
			continue
		}

		next := cmds[0]
		id := next.Source()
		if _, taken := out[id]; taken {
			// Another pearl already claimed this worker this tick; the
			// plan's head is left in place and retried next tick.
			continue
		}

		out[id] = next
		s.dispatch(c.pearl.ID, id)
	}
	return out
}

// enumerateCandidates collects (pearl, holder) pairs from every worker's
// desk. Workers are walked in ascending id order purely for readable,
// reproducible traces — the priority sort that follows does not depend
// on enumeration order since ties are broken by the unique pearl id.
func (s *Scheduler) enumerateCandidates(w *world.World) []candidate {
	ids := make([]worker.ID, 0, len(w.Workers))
	for id := range w.Workers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []candidate
	for _, id := range ids {
		desk := w.Workers[id].Desk
		pearlIDs := make([]pearl.ID, 0, len(desk))
		for pid := range desk {
			pearlIDs = append(pearlIDs, pid)
		}
		sort.Slice(pearlIDs, func(i, j int) bool { return pearlIDs[i] < pearlIDs[j] })
		for _, pid := range pearlIDs {
			out = append(out, candidate{pearl: desk[pid], holder: id})
		}
	}
	return out
}

// sortByPriority orders candidates thinnest-first, ties broken by
// ascending pearl id.
func sortByPriority(c []candidate) {
	sort.Slice(c, func(i, j int) bool {
		ti, tj := c[i].pearl.RemainingThickness(), c[j].pearl.RemainingThickness()
		if ti != tj {
			return ti < tj
		}
		return c[i].pearl.ID < c[j].pearl.ID
	})
}

// acquirePlan returns the live plan for c's pearl, rebuilding it first if
// none exists or the stored plan has desynced from the current holder. A
// nil/empty result means the pearl needs no action this tick (already at
// the gatekeeper, fully digested).
func (s *Scheduler) acquirePlan(w *world.World, c candidate) []command.Command {
	cmds, ok := s.plans[c.pearl.ID]
	if ok && len(cmds) > 0 && cmds[0].Source() == c.holder {
		return cmds
	}

	// Either no plan, an exhausted one (should already have been removed,
	// but treat defensively the same as "none"), or one whose head no
	// longer matches reality — rebuild without retracting any bookings
	// the old plan made. The load that booking leaves behind is advisory
	// and self-heals as plans complete; it is never retracted early.
	built := plan.Build(w, c.pearl, c.holder, s.loadOf, s.scratch)
	if len(built) == 0 {
		delete(s.plans, c.pearl.ID)
		return nil
	}
	for _, cmd := range built {
		s.load[cmd.Source()]++
	}
	s.plans[c.pearl.ID] = built
	return built
}

// dispatch pops the front command of pearl id's plan, saturating-
// decrements the load booked against the dispatched worker, and drops
// the plan once it is empty.
func (s *Scheduler) dispatch(id pearl.ID, workerID worker.ID) {
	if v := s.load[workerID]; v > 0 {
		s.load[workerID] = v - 1
	}

	remaining := s.plans[id][1:]
	if len(remaining) == 0 {
		delete(s.plans, id)
		return
	}
	s.plans[id] = remaining
}

// loadOf reports the currently booked load for a worker — the congestion
// term routing and target selection read from. Unbooked workers default
// to zero via the zero value of an absent map entry.
func (s *Scheduler) loadOf(id worker.ID) int {
	return s.load[id]
}

// Backlog reports the number of pearls with a live execution plan —
// exposed for observability (internal/observability's backlog gauge).
func (s *Scheduler) Backlog() int {
	return len(s.plans)
}
