// Package worker defines worker kinds, their processing rates, and the
// cost model for digesting a pearl at a worker.
package worker

import "atlantis/pkg/pearl"

// ID identifies a worker. ID 0 is always the gatekeeper — the network's
// entry and exit point.
type ID = uint32

// Gatekeeper is the reserved worker ID for the entry/exit point.
const Gatekeeper ID = 0

// Kind is a worker's specialization. The set is closed: {General, Vector,
// Matrix}.
type Kind int

const (
	General Kind = iota
	Vector
	Matrix
)

// String returns the wire-format name of the kind.
func (k Kind) String() string {
	switch k {
	case General:
		return "General"
	case Vector:
		return "Vector"
	case Matrix:
		return "Matrix"
	default:
		return "Unknown"
	}
}

// ParseKind parses the wire-format flavor name. An unrecognized flavor
// defaults to General; the caller is responsible for emitting a warning —
// this function only reports whether the name was known.
func ParseKind(s string) (k Kind, known bool) {
	switch s {
	case "Vector":
		return Vector, true
	case "Matrix":
		return Matrix, true
	case "General":
		return General, true
	default:
		return General, false
	}
}

// rateTable[kind][color] is the pearl-thickness-units digested per Nom.
var rateTable = [3][3]uint32{
	General: {pearl.Red: 1, pearl.Green: 1, pearl.Blue: 1},
	Vector:  {pearl.Red: 1, pearl.Green: 5, pearl.Blue: 2},
	Matrix:  {pearl.Red: 1, pearl.Green: 2, pearl.Blue: 10},
}

// Rate returns the pearls-thickness-units digested per Nom for this kind
// and color.
func (k Kind) Rate(c pearl.Color) uint32 {
	return rateTable[k][c]
}

// Worker is a processing node: an identity, a specialization, and the set
// of pearls currently on its desk.
type Worker struct {
	ID   ID
	Kind Kind
	Desk map[pearl.ID]pearl.Pearl
}

// New creates a worker with the given desk contents.
func New(id ID, kind Kind, desk []pearl.Pearl) Worker {
	d := make(map[pearl.ID]pearl.Pearl, len(desk))
	for _, p := range desk {
		d[p.ID] = p
	}
	return Worker{ID: id, Kind: kind, Desk: d}
}

// ceilDiv is integer ceiling division. No floating point anywhere in the
// routing-adjacent cost path.
func ceilDiv(a, b uint32) uint32 {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// CostLayer returns the number of Noms required to fully process one
// layer at this worker kind: ceil(thickness / rate[kind, color]).
func (k Kind) CostLayer(l pearl.Layer) uint32 {
	return ceilDiv(l.Thickness, k.Rate(l.Color))
}

// CostPearl returns the total Noms required to fully digest the pearl at
// this worker kind — the sum of per-layer costs, including zero-thickness
// layers (which contribute zero). Cost is a pure function of kind and
// layer vector; it never depends on scheduler state.
func (k Kind) CostPearl(p pearl.Pearl) uint32 {
	var total uint32
	for _, l := range p.Layers {
		total += k.CostLayer(l)
	}
	return total
}

// CostPearl returns the cost of fully digesting p at this worker.
func (w Worker) CostPearl(p pearl.Pearl) uint32 {
	return w.Kind.CostPearl(p)
}
