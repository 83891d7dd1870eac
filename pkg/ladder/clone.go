package ladder

import (
	"encoding/json"
	"maps"
	"slices"
)

// CloneHandle returns a deep copy of h.
func CloneHandle(h Handle) Handle {
	out := h
	out.Style = maps.Clone(h.Style)
	return out
}

func cloneHandles(hs []Handle) []Handle {
	if hs == nil {
		return nil
	}
	out := make([]Handle, len(hs))
	for i, h := range hs {
		out[i] = CloneHandle(h)
	}
	return out
}

func cloneHandlePtr(h *Handle) *Handle {
	if h == nil {
		return nil
	}
	c := CloneHandle(*h)
	return &c
}

// CloneBlockVariant returns a deep copy of v.
func CloneBlockVariant(v BlockVariant) BlockVariant {
	out := v
	if v.Variables != nil {
		out.Variables = make([]BlockVariable, len(v.Variables))
		for i, bv := range v.Variables {
			out.Variables[i] = cloneBlockVariable(bv)
		}
	}
	return out
}

func cloneBlockVariable(bv BlockVariable) BlockVariable {
	out := bv
	if bv.Type.Array != nil {
		arr := *bv.Type.Array
		arr.Dimensions = slices.Clone(bv.Type.Array.Dimensions)
		out.Type.Array = &arr
	}
	return out
}

// CloneNode returns a deep copy of n sharing no memory with it.
func CloneNode(n *Node) *Node {
	if n == nil {
		return nil
	}
	out := *n
	if n.Measured != nil {
		m := *n.Measured
		out.Measured = &m
	}
	d := &out.Data
	d.Handles = cloneHandles(n.Data.Handles)
	d.InputHandles = cloneHandles(n.Data.InputHandles)
	d.OutputHandles = cloneHandles(n.Data.OutputHandles)
	d.InputConnector = cloneHandlePtr(n.Data.InputConnector)
	d.OutputConnector = cloneHandlePtr(n.Data.OutputConnector)
	if n.Data.BlockVariant != nil {
		v := CloneBlockVariant(*n.Data.BlockVariant)
		d.BlockVariant = &v
	}
	if n.Data.ConnectedVariables != nil {
		d.ConnectedVariables = make(map[string]ConnectedVariable, len(n.Data.ConnectedVariables))
		for k, cv := range n.Data.ConnectedVariables {
			if cv.Variable != nil {
				v := *cv.Variable
				if v.Type.Array != nil {
					arr := *v.Type.Array
					arr.Dimensions = slices.Clone(arr.Dimensions)
					v.Type.Array = &arr
				}
				cv.Variable = &v
			}
			d.ConnectedVariables[k] = cv
		}
	}
	if n.Data.Extra != nil {
		d.Extra = make(map[string]json.RawMessage, len(n.Data.Extra))
		for k, v := range n.Data.Extra {
			d.Extra[k] = slices.Clone(v)
		}
	}
	if n.Data.Block != nil {
		ref := *n.Data.Block
		ref.VariableType = cloneBlockVariable(n.Data.Block.VariableType)
		d.Block = &ref
	}
	return &out
}

// CloneEdge returns a copy of e.
func CloneEdge(e *Edge) *Edge {
	if e == nil {
		return nil
	}
	out := *e
	return &out
}

// CloneRung returns a deep copy of r, including every node and edge.
func CloneRung(r *Rung) *Rung {
	if r == nil {
		return nil
	}
	out := *r
	if r.Nodes != nil {
		out.Nodes = make([]*Node, len(r.Nodes))
		for i, n := range r.Nodes {
			out.Nodes[i] = CloneNode(n)
		}
	}
	if r.Edges != nil {
		out.Edges = make([]*Edge, len(r.Edges))
		for i, e := range r.Edges {
			out.Edges[i] = CloneEdge(e)
		}
	}
	out.Selected = slices.Clone(r.Selected)
	return &out
}

// CloneFlow returns a deep copy of f.
func CloneFlow(f *Flow) *Flow {
	if f == nil {
		return nil
	}
	out := *f
	if f.Rungs != nil {
		out.Rungs = make([]*Rung, len(f.Rungs))
		for i, r := range f.Rungs {
			out.Rungs[i] = CloneRung(r)
		}
	}
	return &out
}
