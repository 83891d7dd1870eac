package ladder

import "slices"

// RemoveElement deletes node id from r and bridges the wire entering it
// to the wire leaving its output connector. Variable nodes and
// placeholders attached to it are removed with it. Emptied branches
// collapse and the right rail is recomputed. A variable node without an
// outgoing wire, such as a block output, is dropped with the wire into
// it. Rails, missing nodes, and other nodes without an outgoing wire
// leave r unchanged.
func RemoveElement(r *Rung, id string, bounds Bounds, styles Styles) NodeSequence {
	unchanged := NodeSequence{Nodes: r.Nodes, Edges: r.Edges}
	n, ok := FindNode(r, id)
	if !ok || !n.Deletable() {
		return unchanged
	}

	attached := map[string]bool{}
	for _, m := range r.Nodes {
		if (m.Kind == KindVariable && m.Data.Block != nil && m.Data.Block.ID == id) || m.Data.RelatedNode == id {
			attached[m.ID] = true
		}
	}
	work := &Rung{
		Nodes: slices.DeleteFunc(slices.Clone(r.Nodes), func(m *Node) bool { return attached[m.ID] }),
		Edges: slices.DeleteFunc(slices.Clone(r.Edges), func(e *Edge) bool { return attached[e.Source] || attached[e.Target] }),
	}

	next, hasNext := outgoing(work, n)
	if !hasNext && n.Kind != KindVariable {
		return unchanged
	}
	into, hasInto := FindEdgeTo(work, id)
	work.Edges = slices.DeleteFunc(work.Edges, func(e *Edge) bool { return e.Source == id || e.Target == id })
	if hasInto && hasNext {
		work.Edges = append(work.Edges, wire(into.Source, into.SourceHandle, next.Target, next.TargetHandle))
	}
	work.Nodes = slices.DeleteFunc(work.Nodes, func(m *Node) bool { return m.ID == id })
	work = CollapseEmptyParallels(work)

	content := Content(work)
	gap := 0.0
	if len(content) > 0 {
		gap = styles.Of(content[len(content)-1].Kind).Gap
	}
	if rail, ok := ChangePowerRailBounds(work, work.Nodes, gap, bounds); ok {
		work.Nodes = ReplaceNode(work.Nodes, rail)
	}
	return NodeSequence{Nodes: work.Nodes, Edges: work.Edges}
}

// outgoing returns the wire leaving n through its output connector,
// falling back to any wire leaving n.
func outgoing(r *Rung, n *Node) (*Edge, bool) {
	if c := n.Data.OutputConnector; c != nil {
		for _, e := range r.Edges {
			if e.Source == n.ID && e.SourceHandle == c.ID {
				return e, true
			}
		}
	}
	return FindEdgeFrom(r, n.ID)
}

// CollapseEmptyParallels removes every parallel pair one of whose
// branches no longer holds any element, splicing the remaining branch
// into the main chain. It returns r itself when there is nothing to do.
func CollapseEmptyParallels(r *Rung) *Rung {
	for {
		open, empty, ok := findEmptyParallel(r)
		if !ok {
			return r
		}
		r = collapseParallel(r, open, empty)
	}
}

func findEmptyParallel(r *Rung) (*Node, *Edge, bool) {
	for _, n := range r.Nodes {
		if n.Kind != KindParallel || n.Data.Variant != ParallelOpen || n.Data.ParallelCloseReference == "" {
			continue
		}
		for _, e := range r.Edges {
			if e.Source == n.ID && e.Target == n.Data.ParallelCloseReference {
				return n, e, true
			}
		}
	}
	return nil, nil, false
}

func collapseParallel(r *Rung, open *Node, empty *Edge) *Rung {
	closeID := open.Data.ParallelCloseReference
	var into, first, last, outOf *Edge
	for _, e := range r.Edges {
		switch {
		case e == empty:
		case e.Target == open.ID:
			into = e
		case e.Source == open.ID:
			first = e
		case e.Target == closeID:
			last = e
		case e.Source == closeID:
			outOf = e
		}
	}
	drop := map[*Edge]bool{empty: true, into: true, first: true, last: true, outOf: true}
	if first != nil && first.Target == closeID {
		// Both branches empty.
		first, last = nil, nil
	}

	edges := make([]*Edge, 0, len(r.Edges))
	for _, e := range r.Edges {
		if !drop[e] {
			edges = append(edges, e)
		}
	}
	switch {
	case first != nil && last != nil:
		if into != nil {
			edges = append(edges, wire(into.Source, into.SourceHandle, first.Target, first.TargetHandle))
		}
		if outOf != nil {
			edges = append(edges, wire(last.Source, last.SourceHandle, outOf.Target, outOf.TargetHandle))
		}
	case into != nil && outOf != nil:
		edges = append(edges, wire(into.Source, into.SourceHandle, outOf.Target, outOf.TargetHandle))
	}

	nodes := slices.DeleteFunc(slices.Clone(r.Nodes), func(n *Node) bool {
		return n.ID == open.ID || n.ID == closeID
	})
	out := r.WithNodes(nodes)
	out.Edges = edges
	return out
}

func wire(source, sourceHandle, target, targetHandle string) *Edge {
	return &Edge{
		ID:           EdgeID(source, target),
		Source:       source,
		SourceHandle: sourceHandle,
		Target:       target,
		TargetHandle: targetHandle,
	}
}
