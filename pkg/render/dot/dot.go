package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/ladderflow/pkg/ladder"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds node positions to labels and handle names to wires.
	Detailed bool
}

// ToDOT converts a rung to Graphviz DOT source.
func ToDOT(r *ladder.Rung, opts Options) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", r.ID)
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	if r.Comment != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", r.Comment)
	}
	buf.WriteString("\n")

	for _, n := range r.Nodes {
		label := fmtLabel(n, opts.Detailed)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, label), ", "))
	}

	buf.WriteString("\n")
	for _, e := range r.Edges {
		if opts.Detailed && (e.SourceHandle != "" || e.TargetHandle != "") {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.Source, e.Target, e.SourceHandle+" → "+e.TargetHandle)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *ladder.Node, detailed bool) string {
	var parts []string
	switch n.Kind {
	case ladder.KindPowerRail:
		parts = []string{n.Data.Variant + " rail"}
	case ladder.KindBlock:
		name := "???"
		if n.Data.BlockVariant != nil {
			name = n.Data.BlockVariant.Name
		}
		parts = []string{name}
		if v := n.Data.Variable.Name; v != "" {
			parts = append(parts, v)
		}
	case ladder.KindParallel, ladder.KindPlaceholder, ladder.KindParallelPlaceholder:
		parts = []string{n.Kind.String()}
		if n.Data.Variant != "" {
			parts[0] += " " + n.Data.Variant
		}
	default:
		parts = []string{n.Kind.String()}
		if v := n.Data.Variant; v != "" && v != ladder.ContactDefault {
			parts[0] += " (" + v + ")"
		}
		v := n.Data.Variable.Name
		if v == "" {
			v = "???"
		}
		parts = append(parts, v)
	}
	if detailed {
		parts = append(parts, fmt.Sprintf("(%g, %g)", n.Position.X, n.Position.Y))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n *ladder.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch n.Kind {
	case ladder.KindPowerRail:
		attrs = append(attrs, "style=filled", "fillcolor=black", "fontcolor=white")
	case ladder.KindBlock:
		attrs = append(attrs, "fillcolor=lightyellow")
	case ladder.KindParallel:
		attrs = append(attrs, "shape=diamond", "fillcolor=lightgrey")
	case ladder.KindPlaceholder, ladder.KindParallelPlaceholder:
		attrs = append(attrs, "style=\"rounded,dashed\"", "color=grey", "fontcolor=grey")
	case ladder.KindVariable:
		attrs = append(attrs, "shape=ellipse")
	}
	if n.Data.WrongVariable {
		attrs = append(attrs, "color=red", "fontcolor=red")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders DOT source to PNG.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the diagram scales with
// its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
