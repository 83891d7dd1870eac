package ladder

// The lookups below return (zero, false) instead of failing. Editing
// operations rely on that to treat missing elements as no-ops.

// FindNode returns the node with the given ID.
func FindNode(r *Rung, id string) (*Node, bool) {
	if r == nil {
		return nil, false
	}
	for _, n := range r.Nodes {
		if n != nil && n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// NodeIndex returns the position of node id in r.Nodes, or -1.
func NodeIndex(r *Rung, id string) int {
	if r == nil {
		return -1
	}
	for i, n := range r.Nodes {
		if n != nil && n.ID == id {
			return i
		}
	}
	return -1
}

// FindEdge returns the edge with the given ID.
func FindEdge(r *Rung, id string) (*Edge, bool) {
	if r == nil {
		return nil, false
	}
	for _, e := range r.Edges {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// FindEdgeFrom returns the first edge leaving node id.
func FindEdgeFrom(r *Rung, id string) (*Edge, bool) {
	if r == nil {
		return nil, false
	}
	for _, e := range r.Edges {
		if e.Source == id {
			return e, true
		}
	}
	return nil, false
}

// FindEdgeTo returns the first edge entering node id.
func FindEdgeTo(r *Rung, id string) (*Edge, bool) {
	if r == nil {
		return nil, false
	}
	for _, e := range r.Edges {
		if e.Target == id {
			return e, true
		}
	}
	return nil, false
}

// EdgesOf splits the edges touching node id into those where it is the
// source and those where it is the target.
func EdgesOf(r *Rung, id string) (from, to []*Edge) {
	if r == nil {
		return nil, nil
	}
	for _, e := range r.Edges {
		if e.Source == id {
			from = append(from, e)
		}
		if e.Target == id {
			to = append(to, e)
		}
	}
	return from, to
}

// FindRung returns the rung with the given ID.
func FindRung(f *Flow, id string) (*Rung, bool) {
	if f == nil {
		return nil, false
	}
	for _, r := range f.Rungs {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// RungIndex returns the position of rung id in f.Rungs, or -1.
func RungIndex(f *Flow, id string) int {
	if f == nil {
		return -1
	}
	for i, r := range f.Rungs {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// FindRungOf returns the rung of f that contains node id.
func FindRungOf(f *Flow, nodeID string) (*Rung, *Node, bool) {
	if f == nil {
		return nil, nil, false
	}
	for _, r := range f.Rungs {
		if n, ok := FindNode(r, nodeID); ok {
			return r, n, true
		}
	}
	return nil, nil, false
}

// Content returns the non-rail nodes of r in order.
func Content(r *Rung) []*Node {
	if r == nil {
		return nil
	}
	out := make([]*Node, 0, len(r.Nodes))
	for _, n := range r.Nodes {
		if !n.IsRail() {
			out = append(out, n)
		}
	}
	return out
}
