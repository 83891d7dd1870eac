package ladder

import "strconv"

// ContentWidth returns the right edge of the rightmost non-rail node, or 0
// for a rung without content. The left rail anchors the box at x=0.
func ContentWidth(nodes []*Node) float64 {
	w := 0.0
	for _, n := range nodes {
		if n.IsRail() {
			continue
		}
		w = max(w, n.Right())
	}
	return w
}

// ChangePowerRailBounds computes where the right rail of r belongs given
// nodes. When the content plus gap overflows the default width the rail
// moves to the content's right edge plus gap; otherwise it snaps back to
// the default width minus the rail width. The rail's handles move with it.
// It returns a fresh rail node, or false when r has no right rail.
// Calling it again with the same nodes yields the same position.
func ChangePowerRailBounds(r *Rung, nodes []*Node, gap float64, bounds Bounds) (*Node, bool) {
	rail, ok := FindNode(r, RightRailID)
	if !ok {
		return nil, false
	}

	x := bounds.Width() - rail.Width
	if w := ContentWidth(nodes); w+gap > bounds.Width() {
		x = w + gap
	}
	return moveNodeX(rail, x), true
}

// moveNodeX returns a copy of n shifted horizontally to x, handles
// included.
func moveNodeX(n *Node, x float64) *Node {
	dx := x - n.Position.X
	out := CloneNode(n)
	out.Position.X = x
	for i := range out.Data.Handles {
		out.Data.Handles[i].Global.X += dx
	}
	setConnectors(out)
	return out
}

// NodeSequence is the result of a sequence helper: the complete new node
// and edge lists of the rung.
type NodeSequence struct {
	Nodes []*Node
	Edges []*Edge
}

// AddNewNode appends a node of kind k after the last element of the main
// chain (or the left rail when the rung is empty), wires it in before the
// right rail, and recomputes the right rail position. Unknown kinds and
// rungs without rails are returned unchanged.
func AddNewNode(r *Rung, k Kind, bounds Bounds, styles Styles) NodeSequence {
	unchanged := NodeSequence{Nodes: r.Nodes, Edges: r.Edges}
	left, okL := FindNode(r, LeftRailID)
	_, okR := FindNode(r, RightRailID)
	if !okL || !okR || !k.Valid() {
		return unchanged
	}

	content := Content(r)
	last := left
	if len(content) > 0 {
		last = content[len(content)-1]
	}
	lastStyle, newStyle := styles.Of(last.Kind), styles.Of(k)

	wireY := newStyle.HandleY
	if h, ok := last.SourceHandle(); ok {
		wireY = h.Global.Y
	}
	posX := last.Right() + lastStyle.Gap + newStyle.Gap
	posY := wireY - newStyle.HandleY
	if last.Kind == k {
		posY = last.Position.Y
	}

	node, _ := Build(k, BuildParams{
		ID:       k.String() + "_" + formatCoord(posX) + "_" + formatCoord(posY),
		Position: Point{X: posX, Y: posY},
		Handle:   Point{X: posX, Y: wireY},
		Variant:  defaultVariant(k),
	})

	withNode := &Rung{Nodes: append(append([]*Node{}, r.Nodes...), node), Edges: r.Edges}
	rail, _ := ChangePowerRailBounds(r, append(append([]*Node{left}, content...), node), newStyle.Gap, bounds)

	nodes := make([]*Node, 0, len(content)+3)
	nodes = append(nodes, left)
	nodes = append(nodes, content...)
	nodes = append(nodes, node, rail)

	return NodeSequence{Nodes: nodes, Edges: ConnectNodes(withNode, last.ID, node.ID)}
}

// RemoveNode drops the last element of the main chain, reconnects its
// neighbours, and recomputes the right rail position using the gap of the
// element that becomes last. It undoes AddNewNode.
func RemoveNode(r *Rung, bounds Bounds, styles Styles) NodeSequence {
	unchanged := NodeSequence{Nodes: r.Nodes, Edges: r.Edges}
	left, okL := FindNode(r, LeftRailID)
	content := Content(r)
	if !okL || len(content) == 0 {
		return unchanged
	}
	if _, ok := FindNode(r, RightRailID); !ok {
		return unchanged
	}

	removed := content[len(content)-1]
	rest := content[:len(content)-1]
	gap := 0.0
	if len(rest) > 0 {
		gap = styles.Of(rest[len(rest)-1].Kind).Gap
	}
	rail, _ := ChangePowerRailBounds(r, append([]*Node{left}, rest...), gap, bounds)

	nodes := make([]*Node, 0, len(rest)+2)
	nodes = append(nodes, left)
	nodes = append(nodes, rest...)
	nodes = append(nodes, rail)

	return NodeSequence{Nodes: nodes, Edges: DetachNode(r, removed.ID)}
}

func defaultVariant(k Kind) string {
	switch k {
	case KindContact:
		return ContactDefault
	case KindCoil:
		return CoilDefault
	case KindParallel:
		return ParallelOpen
	case KindVariable:
		return VariableInput
	case KindPowerRail:
		return RailLeft
	}
	return ""
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
