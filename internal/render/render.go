// Package render writes a per-tick Graphviz DOT snapshot of the world,
// for offline debugging. It emits DOT text (text/template, stdlib-only)
// and leaves rasterization to whatever the developer already has
// installed (`dot -Tpng`) rather than shelling out or vendoring one.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"atlantis/pkg/world"
)

var dotTemplate = template.Must(template.New("world").Parse(`graph Atlantis {
{{- range .Nodes}}
  {{.ID}} [label="{{.Label}}", shape=oval];
{{- end}}
{{- range .Edges}}
  {{.From}} -- {{.To}};
{{- end}}
}
`))

type node struct {
	ID    uint32
	Label string
}

type edge struct {
	From, To uint32
}

type docData struct {
	Nodes []node
	Edges []edge
}

// Tick writes dir/tick-NNNN.dot (n zero-padded to four digits) describing w. Callers gate this behind
// config.RenderDir being non-empty; Tick itself does no such check so it
// stays trivially testable.
func Tick(dir string, n int, w *world.World) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("render: ensure dir %s: %w", dir, err)
	}

	data := buildDocData(w)
	path := filepath.Join(dir, fmt.Sprintf("tick-%04d.dot", n))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: create %s: %w", path, err)
	}
	defer f.Close()

	if err := dotTemplate.Execute(f, data); err != nil {
		return fmt.Errorf("render: execute template: %w", err)
	}
	return nil
}

func buildDocData(w *world.World) docData {
	ids := make([]uint32, 0, len(w.Workers))
	for id := range w.Workers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	data := docData{}
	seen := make(map[[2]uint32]bool)
	for _, id := range ids {
		wk := w.Workers[id]
		var labelParts []string
		labelParts = append(labelParts, fmt.Sprintf("%d - %s", id, wk.Kind))
		pearlIDs := make([]uint32, 0, len(wk.Desk))
		for pid := range wk.Desk {
			pearlIDs = append(pearlIDs, pid)
		}
		sort.Slice(pearlIDs, func(i, j int) bool { return pearlIDs[i] < pearlIDs[j] })
		for _, pid := range pearlIDs {
			p := wk.Desk[pid]
			labelParts = append(labelParts, fmt.Sprintf("pearl %d (%d left)", p.ID, p.RemainingThickness()))
		}
		data.Nodes = append(data.Nodes, node{ID: id, Label: strings.Join(labelParts, `\n`)})

		for _, n2 := range w.Neighbors[id] {
			key := [2]uint32{id, n2}
			if id > n2 {
				key = [2]uint32{n2, id}
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			data.Edges = append(data.Edges, edge{From: key[0], To: key[1]})
		}
	}
	return data
}
