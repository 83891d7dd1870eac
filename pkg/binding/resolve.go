package binding

import (
	"strings"

	"github.com/matzehuels/ladderflow/pkg/ladder"
	"github.com/matzehuels/ladderflow/pkg/plc"
)

// Query identifies the node being bound. VariableName is the text the
// user typed; the node's stored binding takes precedence when present.
type Query struct {
	NodeID       string
	VariableName string
}

// Resolution is everything a binding decision needs. Any part may be
// missing: POU and Rung are nil when not found, Node is nil when the
// node is not on any rung of the POU's flow, and Selected is nil when no
// variable matched.
type Resolution struct {
	POU       *plc.POU
	Rung      *ladder.Rung
	Node      *ladder.Node
	Variables []plc.Variable
	Selected  *plc.Variable
	Sources   []*ladder.Edge // edges leaving the node
	Targets   []*ladder.Edge // edges entering the node
}

// Resolve locates the POU named pou, the rung of its flow holding
// q.NodeID, the node itself, and the variable the node is bound to.
// Nothing here fails: absent parts are left zero.
func Resolve(pou string, project *plc.Project, flows []*ladder.Flow, q Query) Resolution {
	var res Resolution
	if project != nil {
		if p, ok := project.POU(pou); ok {
			res.POU = &p
			res.Variables = p.Variables
		}
	}

	for _, f := range flows {
		if f.Name != pou {
			continue
		}
		if r, n, ok := ladder.FindRungOf(f, q.NodeID); ok {
			res.Rung, res.Node = r, n
		}
		break
	}
	if res.Node == nil {
		return res
	}

	res.Sources, res.Targets = ladder.EdgesOf(res.Rung, q.NodeID)
	if v, ok := Select(res.Node, q.VariableName, res.Variables); ok {
		res.Selected = &v
	}
	return res
}

// Select picks the variable n is bound to. A stored variable ID wins over
// any name. Otherwise the node's stored name is used, falling back to
// name. Contacts and coils never bind to derived variables. An element
// reference such as "Sensor[2]" resolves to the array's element.
func Select(n *ladder.Node, name string, vars []plc.Variable) (plc.Variable, bool) {
	if id := n.Data.Variable.ID; id != "" {
		for _, v := range vars {
			if v.ID == id && accepts(n, v) {
				return v, true
			}
		}
	}

	if n.Data.Variable.Name != "" {
		name = n.Data.Variable.Name
	}
	if name == "" {
		return plc.Variable{}, false
	}
	for _, v := range vars {
		if strings.EqualFold(v.Name, name) && accepts(n, v) {
			return v, true
		}
	}
	if v, ok := plc.ResolveArrayElement(vars, name); ok && accepts(n, v) {
		return v, true
	}
	return plc.Variable{}, false
}

func accepts(n *ladder.Node, v plc.Variable) bool {
	switch n.Kind {
	case ladder.KindContact, ladder.KindCoil:
		return !v.IsDerived()
	}
	return true
}
