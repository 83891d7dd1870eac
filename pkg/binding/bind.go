package binding

import (
	"slices"
	"strings"

	"github.com/matzehuels/ladderflow/pkg/ladder"
	"github.com/matzehuels/ladderflow/pkg/plc"
)

// Bind points node nodeID of r at the variable called name and records
// whether the binding type-checks. It returns a new rung holding a fresh
// copy of the node; r is returned unchanged when the node is missing or
// the binding already matches.
func Bind(r *ladder.Rung, nodeID, name string, vars []plc.Variable) (*ladder.Rung, Validation) {
	n, ok := ladder.FindNode(r, nodeID)
	if !ok {
		return r, valid
	}

	probe := *n
	probe.Data.Variable = ladder.Binding{}
	b := ladder.Binding{Name: name}
	selected, found := Select(&probe, name, vars)
	var sel *plc.Variable
	if found {
		sel = &selected
		b.Name = selected.Name
		if !strings.ContainsRune(selected.Name, '[') {
			b.ID = selected.ID
		}
	}
	v := Check(n, name, sel)
	return apply(r, n, b, !v.Valid), v
}

// Revalidate recomputes the binding state of every node of r against a
// changed variable table. Bindings that resolve by ID follow a renamed
// variable. It returns r itself when nothing changed.
func Revalidate(r *ladder.Rung, vars []plc.Variable) *ladder.Rung {
	out := r
	for _, n := range r.Nodes {
		if _, ok := ExpectedType(n); !ok || (n.Data.Variable.Name == "" && n.Data.Variable.ID == "") {
			continue
		}
		b := n.Data.Variable
		selected, found := Select(n, "", vars)
		var sel *plc.Variable
		if found {
			sel = &selected
			if b.ID != "" && b.ID == selected.ID {
				b.Name = selected.Name
			}
		}
		v := Check(n, b.Name, sel)
		out = apply(out, n, b, !v.Valid)
	}
	return out
}

func apply(r *ladder.Rung, n *ladder.Node, b ladder.Binding, wrong bool) *ladder.Rung {
	if n.Data.Variable == b && n.Data.WrongVariable == wrong {
		return r
	}
	fresh := ladder.CloneNode(n)
	fresh.Data.Variable = b
	fresh.Data.WrongVariable = wrong
	return r.WithNodes(ladder.ReplaceNode(r.Nodes, fresh))
}

// IsFunctionBlockVariableInUse reports whether any function-block node on
// rungs is bound to the instance name (case-insensitive).
func IsFunctionBlockVariableInUse(name string, rungs []*ladder.Rung) bool {
	for _, r := range rungs {
		for _, n := range r.Nodes {
			if instanceName(n) != "" && strings.EqualFold(instanceName(n), name) {
				return true
			}
		}
	}
	return false
}

// FunctionBlockVariablesToCleanup returns the instance variables that the
// removed nodes were bound to and that nothing on rungs uses any more.
// Only derived variables qualify. Names come back in removal order.
func FunctionBlockVariablesToCleanup(removed []*ladder.Node, rungs []*ladder.Rung, vars []plc.Variable) []string {
	var out []string
	for _, n := range removed {
		name := instanceName(n)
		if name == "" || slices.ContainsFunc(out, func(s string) bool { return strings.EqualFold(s, name) }) {
			continue
		}
		v, ok := plc.FindVariable(vars, name)
		if !ok || !v.IsDerived() || IsFunctionBlockVariableInUse(name, rungs) {
			continue
		}
		out = append(out, v.Name)
	}
	return out
}

// instanceName returns the instance a function-block node is bound to.
func instanceName(n *ladder.Node) string {
	if n.Kind != ladder.KindBlock || n.Data.BlockVariant == nil || n.Data.BlockVariant.Type != plc.PouFunctionBlock {
		return ""
	}
	return n.Data.Variable.Name
}

// AllRungs flattens the rungs of flows.
func AllRungs(flows []*ladder.Flow) []*ladder.Rung {
	var out []*ladder.Rung
	for _, f := range flows {
		out = append(out, f.Rungs...)
	}
	return out
}
