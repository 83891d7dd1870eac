package ladder

// NewRung returns an empty rung: a left rail at the origin, a right rail at
// the default width, and one wire between them. Both rails are centred
// vertically. The viewport is at least as large as bounds.
func NewRung(id string, bounds, viewport Bounds) *Rung {
	y := bounds.Height()/2 - RailHeight/2
	left := BuildPowerRail(LeftRailID, Point{X: 0, Y: y}, RailLeft)
	right := BuildPowerRail(RightRailID, Point{X: bounds.Width() - RailWidth, Y: y}, RailRight)

	r := &Rung{
		ID:            id,
		DefaultBounds: bounds,
		FlowViewport:  Bounds{max(viewport[0], bounds[0]), max(viewport[1], bounds[1])},
		Nodes:         []*Node{left, right},
	}
	r.Edges = []*Edge{buildEdge(r, LeftRailID, RightRailID)}
	return r
}

// WithNodes returns a shallow copy of r holding nodes.
func (r *Rung) WithNodes(nodes []*Node) *Rung {
	out := *r
	out.Nodes = nodes
	return &out
}

// WithEdges returns a shallow copy of r holding edges.
func (r *Rung) WithEdges(edges []*Edge) *Rung {
	out := *r
	out.Edges = edges
	return &out
}

// ReplaceNode returns a copy of nodes where the node with n's ID is
// replaced by n. Other pointers are reused.
func ReplaceNode(nodes []*Node, n *Node) []*Node {
	out := make([]*Node, len(nodes))
	for i, cur := range nodes {
		if cur.ID == n.ID {
			out[i] = n
			continue
		}
		out[i] = cur
	}
	return out
}
