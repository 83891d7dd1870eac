package binding

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/ladderflow/pkg/ladder"
	"github.com/matzehuels/ladderflow/pkg/plc"
)

// Validation is the soft outcome of a type check.
type Validation struct {
	Valid bool   `json:"isValid"`
	Error string `json:"error,omitempty"`
}

var valid = Validation{Valid: true}

// ValidateVariableType checks a concrete type name against an expected
// connector type. The wildcard accepts everything, a generic family
// accepts its expanded members, and anything else must match exactly.
// All comparisons ignore case.
func ValidateVariableType(selected, expected string) Validation {
	sel := strings.ToUpper(strings.TrimSpace(selected))
	exp := strings.ToUpper(strings.TrimSpace(expected))

	if exp == plc.Wildcard {
		return valid
	}
	if plc.IsGeneric(exp) {
		members := plc.ExpandFamily(exp)
		if slices.Contains(members, strings.ToLower(sel)) {
			return valid
		}
		return Validation{Error: "Expected one of: " + strings.Join(members, ", ")}
	}
	if sel == exp {
		return valid
	}
	return Validation{Error: fmt.Sprintf("Expected: %s, Got: %s", exp, sel)}
}

// ExpectedType returns the type a node's bound variable must satisfy.
// Blocks of plain functions have no instance and report false, as do
// rails, parallels, and placeholders.
func ExpectedType(n *ladder.Node) (string, bool) {
	switch n.Kind {
	case ladder.KindContact, ladder.KindCoil:
		return "BOOL", true
	case ladder.KindBlock:
		bv := n.Data.BlockVariant
		if bv == nil || bv.Type != plc.PouFunctionBlock {
			return "", false
		}
		return bv.Name, true
	case ladder.KindVariable:
		if n.Data.Block == nil {
			return plc.Wildcard, true
		}
		return n.Data.Block.VariableType.Type.Value, true
	}
	return "", false
}

// Check validates selected against what n expects. An empty binding is
// valid: there is nothing to check yet. A name that did not resolve is
// not.
func Check(n *ladder.Node, name string, selected *plc.Variable) Validation {
	expected, ok := ExpectedType(n)
	if !ok || name == "" {
		return valid
	}
	if selected == nil {
		return Validation{Error: fmt.Sprintf("Variable not found: %s", name)}
	}

	switch n.Kind {
	case ladder.KindContact, ladder.KindCoil:
		if selected.Type.Definition != plc.DefBaseType {
			return Validation{Error: fmt.Sprintf("Expected: BOOL, Got: %s", strings.ToUpper(selected.Type.Value))}
		}
	case ladder.KindBlock:
		if !selected.IsDerived() {
			return Validation{Error: fmt.Sprintf("Expected: %s, Got: %s", strings.ToUpper(expected), strings.ToUpper(selected.Type.Value))}
		}
	}
	return ValidateVariableType(selected.Type.Value, expected)
}
