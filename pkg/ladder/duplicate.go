package ladder

import "github.com/matzehuels/ladderflow/pkg/plc"

// HandleEdgeID returns an edge identifier that also encodes the handles,
// used where two nodes may be wired through more than one handle pair.
func HandleEdgeID(source, target, sourceHandle, targetHandle string) string {
	return EdgeID(source, target) + "__" + sourceHandle + "_" + targetHandle
}

// DuplicateRung returns a deep copy of r under rungID. Every non-rail node
// gets a fresh ID from newID; edges, parallel partner references, and
// variable-node block references are remapped accordingly. Function block
// instance bindings are cleared so the copy does not share an instance
// with the original.
func DuplicateRung(r *Rung, rungID string, newID func(Kind) string) *Rung {
	out := CloneRung(r)
	out.ID = rungID
	out.Selected = nil

	ids := make(map[string]string, len(out.Nodes))
	for _, n := range out.Nodes {
		if n.IsRail() {
			ids[n.ID] = n.ID
			continue
		}
		ids[n.ID] = newID(n.Kind)
	}
	remap := func(id string) string {
		if id == "" {
			return ""
		}
		if m, ok := ids[id]; ok {
			return m
		}
		return id
	}

	for _, n := range out.Nodes {
		n.ID = ids[n.ID]
		n.Data.NumericID = NumericID(n.ID)
		switch n.Kind {
		case KindBlock:
			if n.Data.BlockVariant != nil && n.Data.BlockVariant.Type == plc.PouFunctionBlock {
				n.Data.Variable = Binding{}
				n.Data.WrongVariable = false
			}
		case KindParallel:
			n.Data.ParallelOpenReference = remap(n.Data.ParallelOpenReference)
			n.Data.ParallelCloseReference = remap(n.Data.ParallelCloseReference)
		case KindVariable:
			if n.Data.Block != nil {
				n.Data.Block.ID = remap(n.Data.Block.ID)
			}
		case KindPlaceholder, KindParallelPlaceholder:
			n.Data.RelatedNode = remap(n.Data.RelatedNode)
		}
	}

	for _, e := range out.Edges {
		e.Source = remap(e.Source)
		e.Target = remap(e.Target)
		e.ID = HandleEdgeID(e.Source, e.Target, e.SourceHandle, e.TargetHandle)
	}
	return out
}
