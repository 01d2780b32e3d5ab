// Package pearl defines the layered job that workers pass and digest.
package pearl

// ID identifies a pearl. The same ID denotes the same logical pearl
// across ticks.
type ID = uint32

// Color is one of the three pigments a pearl layer can be made of.
type Color int

const (
	Red Color = iota
	Green
	Blue
)

// String returns the wire-format name of the color.
func (c Color) String() string {
	switch c {
	case Red:
		return "Red"
	case Green:
		return "Green"
	case Blue:
		return "Blue"
	default:
		return "Unknown"
	}
}

// ParseColor parses the wire-format color name. The color set is closed;
// an unrecognized name is a fatal input error.
func ParseColor(s string) (Color, bool) {
	switch s {
	case "Red":
		return Red, true
	case "Green":
		return Green, true
	case "Blue":
		return Blue, true
	default:
		return 0, false
	}
}

// Layer is one bitable layer of a pearl. Thickness is a count of bites
// remaining; a zero-thickness layer contributes nothing to cost but still
// occupies a slot in the layer sequence.
type Layer struct {
	Color     Color
	Thickness uint32
}

// Pearl is a layered job. The top layer — the first element of Layers —
// is the one Nom bites.
type Pearl struct {
	ID     ID
	Layers []Layer
}

// Top returns the pearl's top layer and true, or the zero layer and false
// if the pearl has no layers left (or never had any).
func (p Pearl) Top() (Layer, bool) {
	if len(p.Layers) == 0 {
		return Layer{}, false
	}
	return p.Layers[0], true
}

// RemainingThickness is the sum of all layer thicknesses, including
// already-zero layers (which contribute zero).
func (p Pearl) RemainingThickness() uint32 {
	var t uint32
	for _, l := range p.Layers {
		t += l.Thickness
	}
	return t
}

// Digested reports whether the pearl has nothing left to bite. A pearl
// with an empty layer list is digested, same as one whose layers are all
// zero-thickness.
func (p Pearl) Digested() bool {
	return p.RemainingThickness() == 0
}
