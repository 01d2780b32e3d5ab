package worker

import (
	"testing"

	"atlantis/pkg/pearl"
)

func TestCostLayerRoundsUp(t *testing.T) {
	cases := []struct {
		kind      Kind
		color     pearl.Color
		thickness uint32
		want      uint32
	}{
		{General, pearl.Red, 10, 10},
		{Vector, pearl.Green, 10, 2},
		{Vector, pearl.Green, 11, 3}, // ceil(11/5) = 3
		{Matrix, pearl.Blue, 10, 1},
		{Matrix, pearl.Green, 5, 3}, // ceil(5/2) = 3
		{General, pearl.Red, 0, 0},
	}
	for _, c := range cases {
		got := c.kind.CostLayer(pearl.Layer{Color: c.color, Thickness: c.thickness})
		if got != c.want {
			t.Errorf("%s.CostLayer(%s:%d) = %d, want %d", c.kind, c.color, c.thickness, got, c.want)
		}
	}
}

func TestCostPearlSumsLayersIncludingZero(t *testing.T) {
	p := pearl.Pearl{ID: 1, Layers: []pearl.Layer{
		{Color: pearl.Green, Thickness: 11},
		{Color: pearl.Red, Thickness: 0},
	}}
	if got, want := Vector.CostPearl(p), uint32(3); got != want {
		t.Fatalf("CostPearl = %d, want %d", got, want)
	}
}

func TestParseKindDefaultsToGeneral(t *testing.T) {
	k, known := ParseKind("Flibbertigibbet")
	if known {
		t.Fatalf("expected unknown flavor to report known=false")
	}
	if k != General {
		t.Fatalf("unknown flavor should default to General, got %s", k)
	}

	for _, name := range []string{"General", "Vector", "Matrix"} {
		k, known := ParseKind(name)
		if !known || k.String() != name {
			t.Fatalf("ParseKind(%q) = (%s, %v)", name, k, known)
		}
	}
}
