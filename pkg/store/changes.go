package store

import (
	"slices"

	"github.com/matzehuels/ladderflow/pkg/ladder"
)

// ChangeType names the kind of a node or edge change.
type ChangeType string

// Change types sent by the editor canvas.
const (
	ChangePosition   ChangeType = "position"
	ChangeDimensions ChangeType = "dimensions"
	ChangeSelect     ChangeType = "select"
	ChangeRemove     ChangeType = "remove"
	ChangeAdd        ChangeType = "add"
	ChangeReplace    ChangeType = "replace"
)

// NodeChange is one incremental change to the nodes of a rung. Which
// fields are read depends on Type: Position for position changes,
// Dimensions for dimension changes, Selected for select changes, and Item
// for add and replace.
type NodeChange struct {
	Type       ChangeType    `json:"type"`
	ID         string        `json:"id,omitempty"`
	Position   *ladder.Point `json:"position,omitempty"`
	Dimensions *ladder.Size  `json:"dimensions,omitempty"`
	Selected   bool          `json:"selected,omitempty"`
	Item       *ladder.Node  `json:"item,omitempty"`
}

// EdgeChange is one incremental change to the edges of a rung.
type EdgeChange struct {
	Type     ChangeType   `json:"type"`
	ID       string       `json:"id,omitempty"`
	Selected bool         `json:"selected,omitempty"`
	Item     *ladder.Edge `json:"item,omitempty"`
}

// Connection is a wire drawn by the user between two handles.
type Connection struct {
	Source       string `json:"source"`
	SourceHandle string `json:"sourceHandle"`
	Target       string `json:"target"`
	TargetHandle string `json:"targetHandle"`
}

// structural reports whether a change alters persisted rung content.
// Selection and measured size are view state.
func (t ChangeType) structural() bool {
	return t != ChangeSelect && t != ChangeDimensions
}

// ApplyNodeChanges returns r with changes applied in order. Changes that
// name a missing node are skipped, as are changes that would remove a
// power rail or change its ID or kind. It also reports whether anything
// changed and whether any applied change was structural.
func ApplyNodeChanges(r *ladder.Rung, changes []NodeChange) (*ladder.Rung, bool, bool) {
	nodes := r.Nodes
	selected := r.Selected
	changed, structural := false, false

	for _, c := range changes {
		i := slices.IndexFunc(nodes, func(n *ladder.Node) bool { return n.ID == c.ID })
		switch c.Type {
		case ChangePosition:
			if i < 0 || c.Position == nil || nodes[i].Position == *c.Position {
				continue
			}
			n := ladder.CloneNode(nodes[i])
			n.Position = *c.Position
			nodes = ladder.ReplaceNode(nodes, n)
		case ChangeDimensions:
			if i < 0 || c.Dimensions == nil {
				continue
			}
			n := ladder.CloneNode(nodes[i])
			d := *c.Dimensions
			n.Measured = &d
			nodes = ladder.ReplaceNode(nodes, n)
		case ChangeSelect:
			if i < 0 {
				continue
			}
			has := slices.Contains(selected, c.ID)
			switch {
			case c.Selected && !has:
				selected = append(slices.Clone(selected), c.ID)
			case !c.Selected && has:
				selected = slices.DeleteFunc(slices.Clone(selected), func(id string) bool { return id == c.ID })
			default:
				continue
			}
		case ChangeRemove:
			if i < 0 || nodes[i].IsRail() {
				continue
			}
			nodes = slices.Delete(slices.Clone(nodes), i, i+1)
			selected = slices.DeleteFunc(slices.Clone(selected), func(id string) bool { return id == c.ID })
		case ChangeAdd:
			if c.Item == nil || slices.ContainsFunc(nodes, func(n *ladder.Node) bool { return n.ID == c.Item.ID }) {
				continue
			}
			nodes = append(slices.Clone(nodes), c.Item)
		case ChangeReplace:
			if i < 0 || !canReplace(nodes[i], c.Item) {
				continue
			}
			nodes = slices.Clone(nodes)
			nodes[i] = c.Item
		default:
			continue
		}
		changed = true
		structural = structural || c.Type.structural()
	}

	if !changed {
		return r, false, false
	}
	out := r.WithNodes(nodes)
	out.Selected = selected
	return out, true, structural
}

// canReplace reports whether n may take the place of cur: it keeps cur's
// ID, and a rail stays a rail.
func canReplace(cur, n *ladder.Node) bool {
	if n == nil || n.ID != cur.ID {
		return false
	}
	return !cur.IsRail() || n.Kind == ladder.KindPowerRail
}

// ApplyEdgeChanges returns r with changes applied in order. Edges carry no
// selection state, so select changes are ignored.
func ApplyEdgeChanges(r *ladder.Rung, changes []EdgeChange) (*ladder.Rung, bool) {
	edges := r.Edges
	changed := false

	for _, c := range changes {
		i := slices.IndexFunc(edges, func(e *ladder.Edge) bool { return e.ID == c.ID })
		switch c.Type {
		case ChangeRemove:
			if i < 0 {
				continue
			}
			edges = slices.Delete(slices.Clone(edges), i, i+1)
		case ChangeAdd:
			if c.Item == nil || slices.ContainsFunc(edges, func(e *ladder.Edge) bool { return e.ID == c.Item.ID }) {
				continue
			}
			edges = append(slices.Clone(edges), c.Item)
		case ChangeReplace:
			if i < 0 || c.Item == nil {
				continue
			}
			edges = slices.Clone(edges)
			edges[i] = c.Item
		default:
			continue
		}
		changed = true
	}

	if !changed {
		return r, false
	}
	return r.WithEdges(edges), true
}
