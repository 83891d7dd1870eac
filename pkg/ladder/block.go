package ladder

import (
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/ladderflow/pkg/plc"
)

// Execution-control connector names.
const (
	ConnectorEN  = "EN"
	ConnectorENO = "ENO"
)

// DefaultBlockName is the name of the placeholder block type used until
// the user picks a real one.
const DefaultBlockName = "???"

// DefaultBlockVariant returns the generic placeholder block type: one BOOL
// input and one BOOL output.
func DefaultBlockVariant() BlockVariant {
	return BlockVariant{
		Name: DefaultBlockName,
		Type: "generic",
		Variables: []BlockVariable{
			{Name: DefaultBlockName, Class: plc.ClassInput, Type: plc.VariableType{Definition: plc.DefBaseType, Value: "BOOL"}},
			{Name: DefaultBlockName, Class: plc.ClassOutput, Type: plc.VariableType{Definition: plc.DefBaseType, Value: "BOOL"}},
		},
	}
}

// BlockVariantFromPOU derives a block type from a user function or
// function block. Only interface variables become connectors.
func BlockVariantFromPOU(pou plc.POU) BlockVariant {
	bv := BlockVariant{
		Name:          pou.Name,
		Type:          pou.Type,
		Documentation: pou.Documentation,
	}
	for _, v := range pou.Variables {
		if v.IsInput() || v.IsOutput() {
			bv.Variables = append(bv.Variables, BlockVariable{Name: v.Name, Class: v.Class, Type: v.Type})
		}
	}
	if pou.Type == plc.PouFunction && pou.ReturnType != "" {
		bv.Variables = append(bv.Variables, BlockVariable{
			Name:  "OUT",
			Class: plc.ClassOutput,
			Type:  plc.VariableType{Definition: plc.DefBaseType, Value: pou.ReturnType},
		})
	}
	return bv
}

// WithExecutionControl adds or strips the EN/ENO connectors. They are
// forced on, and locked, when the block lacks a BOOL-compatible first
// input or first output. The returned variant never aliases v.Variables.
func WithExecutionControl(v BlockVariant, requested bool) (out BlockVariant, enabled, locked bool) {
	out = v
	out.Variables = slices.Clone(v.Variables)

	stripped := slices.DeleteFunc(slices.Clone(v.Variables), func(bv BlockVariable) bool {
		return bv.Name == ConnectorEN || bv.Name == ConnectorENO
	})
	probe := BlockVariant{Variables: stripped}
	ins, outs := probe.Inputs(), probe.Outputs()
	locked = len(ins) == 0 || len(outs) == 0 ||
		!acceptsBool(ins[0].Type.Value) || !acceptsBool(outs[0].Type.Value)

	if requested || locked {
		has := slices.ContainsFunc(v.Variables, func(bv BlockVariable) bool {
			return bv.Name == ConnectorEN || bv.Name == ConnectorENO
		})
		if !has {
			out.Variables = append([]BlockVariable{
				{Name: ConnectorEN, Class: plc.ClassInput, Type: plc.VariableType{Definition: plc.DefGenericType, Value: "BOOL"}},
				{Name: ConnectorENO, Class: plc.ClassOutput, Type: plc.VariableType{Definition: plc.DefGenericType, Value: "BOOL"}},
			}, out.Variables...)
		}
		return out, true, locked
	}
	out.Variables = stripped
	return out, false, false
}

// acceptsBool reports whether a connector declared with typ accepts a BOOL.
func acceptsBool(typ string) bool {
	if strings.EqualFold(typ, plc.Wildcard) || strings.EqualFold(typ, plc.TypeBool) {
		return true
	}
	return slices.Contains(plc.ExpandFamily(typ), plc.TypeBool)
}

// BlockSize returns the width and height of a block built from v.
func BlockSize(v BlockVariant) (width, height float64) {
	ins, outs := v.Inputs(), v.Outputs()
	rows := max(len(ins)-1, len(outs)-1, 0)
	height = BlockConnectorY + blockFooter + float64(rows)*BlockConnectorSpacing

	longest := func(vars []BlockVariable) float64 {
		w := 0.0
		for _, bv := range vars {
			w = math.Max(w, float64(len(bv.Name))*blockCharWidth)
		}
		return w
	}
	nameWidth := float64(len(v.Name)) * blockCharWidth
	width = math.Min(math.Max(longest(ins)+blockNamePadding+longest(outs), nameWidth), BlockMaxWidth)
	return width, height
}

// BuildBlock builds a block from its type definition. handle is the global
// position of the first input connector; every further connector sits
// BlockConnectorSpacing below the previous one.
func BuildBlock(id string, pos, handle Point, variant BlockVariant, executionControl bool) *Node {
	v, enabled, locked := WithExecutionControl(variant, executionControl)
	width, height := BlockSize(v)

	var handles []Handle
	for i, in := range v.Inputs() {
		dy := float64(i) * BlockConnectorSpacing
		h := newHandle(in.Name, SideLeft, RoleTarget,
			Point{X: handle.X, Y: handle.Y + dy}, Point{X: 0, Y: BlockConnectorY + dy})
		h.IsConnectable = false
		handles = append(handles, h)
	}
	for i, out := range v.Outputs() {
		dy := float64(i) * BlockConnectorSpacing
		h := newHandle(out.Name, SideRight, RoleSource,
			Point{X: handle.X + width, Y: handle.Y + dy}, Point{X: width, Y: BlockConnectorY + dy})
		h.IsConnectable = false
		handles = append(handles, h)
	}
	if handles == nil {
		handles = []Handle{}
	}

	n := newNode(KindBlock, id, pos, width, height, handles)
	n.Data.BlockVariant = &v
	n.Data.ConnectedVariables = map[string]ConnectedVariable{}
	n.Data.ExecutionControl = enabled
	n.Data.LockExecutionControl = locked
	return n
}

// Connector returns the block connector slot backing handle id.
func (b BlockVariant) Connector(id string) (BlockVariable, bool) {
	for _, v := range b.Variables {
		if v.Name == id {
			return v, true
		}
	}
	return BlockVariable{}, false
}
