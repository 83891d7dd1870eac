// Package dot renders a ladder rung as a Graphviz diagram for debugging.
//
// The diagram is a plain directed graph: one box per element from left to
// right, one arrow per wire. It shows what the editor holds, not what the
// canvas draws; handle geometry is ignored and parallel branches appear as
// forks between the two markers.
//
//	src := dot.ToDOT(rung, dot.Options{Detailed: true})
//	svg, err := dot.RenderSVG(ctx, src)
//
// Nodes whose variable binding failed its type check are drawn red.
//
// Rendering uses [github.com/goccy/go-graphviz], which runs Graphviz
// in-process, so no external binary is needed.
package dot
