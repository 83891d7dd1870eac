package store

import (
	"slices"

	"github.com/matzehuels/ladderflow/pkg/binding"
	"github.com/matzehuels/ladderflow/pkg/ladder"
	"github.com/matzehuels/ladderflow/pkg/observability"
	"github.com/matzehuels/ladderflow/pkg/plc"
)

// OnNodesChange applies incremental node changes from the canvas. Only
// structural changes mark the flow updated.
func (s *Store) OnNodesChange(editor, rungID string, changes []NodeChange) {
	r, ok := s.Rung(editor, rungID)
	if !ok {
		s.noop(editor, rungID, "onNodesChange")
		return
	}
	next, changed, structural := ApplyNodeChanges(r, changes)
	s.updateRung(editor, rungID, "onNodesChange", structural, func(*ladder.Rung) (*ladder.Rung, bool) {
		return next, changed
	})
}

// OnEdgesChange applies incremental edge changes from the canvas.
func (s *Store) OnEdgesChange(editor, rungID string, changes []EdgeChange) {
	s.updateRung(editor, rungID, "onEdgesChange", true, func(r *ladder.Rung) (*ladder.Rung, bool) {
		return ApplyEdgeChanges(r, changes)
	})
}

// OnConnect adds the wire the user drew. A wire between the same pair of
// handles is added only once.
func (s *Store) OnConnect(editor, rungID string, c Connection) {
	s.updateRung(editor, rungID, "onConnect", true, func(r *ladder.Rung) (*ladder.Rung, bool) {
		dup := slices.ContainsFunc(r.Edges, func(e *ladder.Edge) bool {
			return e.Source == c.Source && e.Target == c.Target &&
				e.SourceHandle == c.SourceHandle && e.TargetHandle == c.TargetHandle
		})
		if dup || c.Source == "" || c.Target == "" {
			return nil, false
		}
		e := &ladder.Edge{
			ID:           ladder.HandleEdgeID(c.Source, c.Target, c.SourceHandle, c.TargetHandle),
			Source:       c.Source,
			SourceHandle: c.SourceHandle,
			Target:       c.Target,
			TargetHandle: c.TargetHandle,
		}
		return r.WithEdges(append(slices.Clone(r.Edges), e)), true
	})
}

// SetNodes replaces the node list of a rung. A list without exactly one
// left and one right rail is ignored.
func (s *Store) SetNodes(editor, rungID string, nodes []*ladder.Node) {
	s.updateRung(editor, rungID, "setNodes", true, func(r *ladder.Rung) (*ladder.Rung, bool) {
		if err := ladder.CheckRails(nodes); err != nil {
			s.Logger.Debug("rejected node list", "flow", editor, "rung", rungID, "err", err)
			return nil, false
		}
		return r.WithNodes(slices.Clone(nodes)), true
	})
}

// UpdateNode replaces node nodeID of a rung with n. n must keep the ID,
// and a rail can only be replaced by a rail.
func (s *Store) UpdateNode(editor, rungID, nodeID string, n *ladder.Node) {
	s.updateRung(editor, rungID, "updateNode", true, func(r *ladder.Rung) (*ladder.Rung, bool) {
		i := ladder.NodeIndex(r, nodeID)
		if i < 0 || !canReplace(r.Nodes[i], n) {
			return nil, false
		}
		nodes := slices.Clone(r.Nodes)
		nodes[i] = n
		return r.WithNodes(nodes), true
	})
}

// AddNode appends n to a rung and makes it the selection.
func (s *Store) AddNode(editor, rungID string, n *ladder.Node) {
	s.updateRung(editor, rungID, "addNode", true, func(r *ladder.Rung) (*ladder.Rung, bool) {
		if n == nil || ladder.NodeIndex(r, n.ID) >= 0 {
			return nil, false
		}
		out := r.WithNodes(append(slices.Clone(r.Nodes), n))
		out.Selected = []string{n.ID}
		return out, true
	})
}

// RemoveNodes deletes the given nodes one after the other, bridging the
// wires around each, and returns every node that left the rung. Attached
// variable nodes and placeholders are part of the result. Rails and
// unknown IDs are skipped.
func (s *Store) RemoveNodes(editor, rungID string, ids []string) []*ladder.Node {
	var removed []*ladder.Node
	s.updateRung(editor, rungID, "removeNodes", true, func(r *ladder.Rung) (*ladder.Rung, bool) {
		out := r
		bounds := s.boundsOf(r)
		for _, id := range ids {
			seq := ladder.RemoveElement(out, id, bounds, s.Styles)
			out = out.WithNodes(seq.Nodes).WithEdges(seq.Edges)
		}
		for _, n := range r.Nodes {
			if ladder.NodeIndex(out, n.ID) < 0 {
				removed = append(removed, n)
			}
		}
		if len(removed) == 0 {
			return nil, false
		}
		out.Selected = slices.DeleteFunc(slices.Clone(out.Selected), func(id string) bool {
			return ladder.NodeIndex(out, id) < 0
		})
		return out, true
	})
	return removed
}

// SetEdges replaces the edge list of a rung.
func (s *Store) SetEdges(editor, rungID string, edges []*ladder.Edge) {
	s.updateRung(editor, rungID, "setEdges", true, func(r *ladder.Rung) (*ladder.Rung, bool) {
		return r.WithEdges(slices.Clone(edges)), true
	})
}

// UpdateEdge replaces edge edgeID of a rung with e.
func (s *Store) UpdateEdge(editor, rungID, edgeID string, e *ladder.Edge) {
	s.updateRung(editor, rungID, "updateEdge", true, func(r *ladder.Rung) (*ladder.Rung, bool) {
		i := slices.IndexFunc(r.Edges, func(cur *ladder.Edge) bool { return cur.ID == edgeID })
		if i < 0 || e == nil {
			return nil, false
		}
		edges := slices.Clone(r.Edges)
		edges[i] = e
		return r.WithEdges(edges), true
	})
}

// AddEdge appends e to a rung unless an edge with its ID exists.
func (s *Store) AddEdge(editor, rungID string, e *ladder.Edge) {
	s.updateRung(editor, rungID, "addEdge", true, func(r *ladder.Rung) (*ladder.Rung, bool) {
		if e == nil {
			return nil, false
		}
		if _, ok := ladder.FindEdge(r, e.ID); ok {
			return nil, false
		}
		return r.WithEdges(append(slices.Clone(r.Edges), e)), true
	})
}

// AddNewNode appends a node of kind k to the main chain of a rung and
// returns its ID.
func (s *Store) AddNewNode(editor, rungID string, k ladder.Kind) (string, bool) {
	var id string
	ok := s.updateRung(editor, rungID, "addNewNode", true, func(r *ladder.Rung) (*ladder.Rung, bool) {
		seq := ladder.AddNewNode(r, k, s.boundsOf(r), s.Styles)
		if len(seq.Nodes) == len(r.Nodes) {
			return nil, false
		}
		for _, n := range seq.Nodes {
			if ladder.NodeIndex(r, n.ID) < 0 {
				id = n.ID
			}
		}
		return r.WithNodes(seq.Nodes).WithEdges(seq.Edges), true
	})
	return id, ok
}

// RemoveLastNode drops the last element of the main chain of a rung.
func (s *Store) RemoveLastNode(editor, rungID string) bool {
	return s.updateRung(editor, rungID, "removeLastNode", true, func(r *ladder.Rung) (*ladder.Rung, bool) {
		seq := ladder.RemoveNode(r, s.boundsOf(r), s.Styles)
		if len(seq.Nodes) == len(r.Nodes) {
			return nil, false
		}
		return r.WithNodes(seq.Nodes).WithEdges(seq.Edges), true
	})
}

// BindVariable binds node nodeID of a rung to the variable called name,
// looked up in vars, and returns the type check outcome. It reports false
// when the rung or node does not exist.
func (s *Store) BindVariable(editor, rungID, nodeID, name string, vars []plc.Variable) (binding.Validation, bool) {
	r, ok := s.Rung(editor, rungID)
	if !ok {
		s.noop(editor, rungID, "bindVariable")
		return binding.Validation{}, false
	}
	n, ok := ladder.FindNode(r, nodeID)
	if !ok {
		s.noop(editor, rungID, "bindVariable")
		return binding.Validation{}, false
	}

	next, v := binding.Bind(r, nodeID, name, vars)
	observability.Binding().OnBind(n.Kind.String(), v.Valid)
	s.updateRung(editor, rungID, "bindVariable", true, func(*ladder.Rung) (*ladder.Rung, bool) {
		return next, next != r
	})
	return v, true
}

// RevalidateFlow recomputes the binding state of every rung of a flow
// after its variable table changed.
func (s *Store) RevalidateFlow(editor string, vars []plc.Variable) {
	s.updateFlow(editor, "", "revalidate", func(f *ladder.Flow) (*ladder.Flow, bool) {
		rungs := make([]*ladder.Rung, len(f.Rungs))
		changed := false
		for i, r := range f.Rungs {
			rungs[i] = binding.Revalidate(r, vars)
			changed = changed || rungs[i] != r
		}
		if !changed {
			return nil, false
		}
		out := *f
		out.Rungs = rungs
		out.Updated = true
		return &out, true
	})
}

// boundsOf returns the default bounds of r, or the store's when r carries
// none.
func (s *Store) boundsOf(r *ladder.Rung) ladder.Bounds {
	if r.DefaultBounds == (ladder.Bounds{}) {
		return s.Bounds
	}
	return r.DefaultBounds
}
