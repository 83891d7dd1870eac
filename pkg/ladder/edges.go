package ladder

// EdgeID returns the identifier of the wire from source to target.
func EdgeID(source, target string) string {
	return "e_" + source + "_" + target
}

// buildEdge wires source to target through the source's first source
// handle and the target's first target handle. Missing nodes leave the
// handle names empty.
func buildEdge(r *Rung, source, target string) *Edge {
	e := &Edge{ID: EdgeID(source, target), Source: source, Target: target}
	if n, ok := FindNode(r, source); ok {
		if h, ok := n.SourceHandle(); ok {
			e.SourceHandle = h.ID
		}
	}
	if n, ok := FindNode(r, target); ok {
		if h, ok := n.TargetHandle(); ok {
			e.TargetHandle = h.ID
		}
	}
	return e
}

// ConnectNodes wires target after source. If an edge already leaves
// source, target is spliced into it: the edge is replaced by
// source→target and target→(old target). Otherwise source→target is
// appended. The input slice is never modified.
func ConnectNodes(r *Rung, source, target string) []*Edge {
	existing, ok := FindEdgeFrom(r, source)
	if !ok {
		out := make([]*Edge, 0, len(r.Edges)+1)
		out = append(out, r.Edges...)
		return append(out, buildEdge(r, source, target))
	}

	out := make([]*Edge, 0, len(r.Edges)+1)
	for _, e := range r.Edges {
		if e.ID != existing.ID {
			out = append(out, e)
		}
	}
	out = append(out, buildEdge(r, source, target))
	tail := buildEdge(r, target, existing.Target)
	tail.TargetHandle = existing.TargetHandle
	return append(out, tail)
}

// DisconnectNodes removes the edge ending at source and, when an edge also
// ends at target, replaces that one too with a bridge from the first
// edge's source to the second edge's target. Called with a node and its
// successor, it lifts the node out of the chain while keeping the chain
// connected. Without an edge ending at source the edges are returned
// unchanged.
func DisconnectNodes(r *Rung, source, target string) []*Edge {
	into, ok := FindEdgeTo(r, source)
	if !ok {
		return r.Edges
	}
	outOf, hasTarget := FindEdgeTo(r, target)

	out := make([]*Edge, 0, len(r.Edges))
	for _, e := range r.Edges {
		if e.ID == into.ID || (hasTarget && e.ID == outOf.ID) {
			continue
		}
		out = append(out, e)
	}
	if hasTarget {
		bridge := buildEdge(r, into.Source, outOf.Target)
		bridge.SourceHandle = into.SourceHandle
		bridge.TargetHandle = outOf.TargetHandle
		out = append(out, bridge)
	}
	return out
}

// DetachNode lifts id out of the main chain by disconnecting it from its
// successor. It undoes ConnectNodes(r, x, id) when nothing else changed.
func DetachNode(r *Rung, id string) []*Edge {
	next, ok := FindEdgeFrom(r, id)
	if !ok {
		return r.Edges
	}
	return DisconnectNodes(r, id, next.Target)
}
