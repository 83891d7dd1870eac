package dot

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/ladderflow/pkg/ladder"
)

func sampleRung() *ladder.Rung {
	r := ladder.NewRung("r1", ladder.Bounds{1530, 200}, ladder.Bounds{})
	for _, k := range []ladder.Kind{ladder.KindContact, ladder.KindCoil} {
		seq := ladder.AddNewNode(r, k, r.DefaultBounds, nil)
		r = r.WithNodes(seq.Nodes).WithEdges(seq.Edges)
	}
	c := ladder.CloneNode(r.Nodes[1])
	c.Data.Variable = ladder.Binding{Name: "Start"}
	c.Data.WrongVariable = true
	r = r.WithNodes(ladder.ReplaceNode(r.Nodes, c))
	r.Comment = "motor"
	return r
}

func TestToDOT(t *testing.T) {
	r := sampleRung()
	contact, coil := r.Nodes[1].ID, r.Nodes[2].ID

	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "plain",
			want: []string{
				`digraph "r1" {`,
				"rankdir=LR;",
				`label="motor";`,
				`"left-rail" [label="left rail", style=filled, fillcolor=black, fontcolor=white];`,
				`"` + contact + `" [label="contact\nStart", color=red, fontcolor=red];`,
				`"` + coil + `" [label="coil\n???"];`,
				`"` + contact + `" -> "` + coil + `";`,
			},
		},
		{
			name: "detailed",
			opts: Options{Detailed: true},
			want: []string{
				`label="contact\nStart\n(26, 88)"`,
				`"left-rail" -> "` + contact + `" [label="output → input"];`,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDOT(r, tt.opts)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("ToDOT() missing %s\n%s", w, got)
				}
			}
		})
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s", got)
	}

	plain := []byte(`<svg><g/></svg>`)
	if !bytes.Equal(normalizeViewBox(plain), plain) {
		t.Error("svg without viewBox was changed")
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(sampleRung(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() = %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("output is not SVG")
	}
	if _, err := RenderSVG(context.Background(), "digraph {"); err == nil {
		t.Error("RenderSVG accepted broken DOT")
	}
}
