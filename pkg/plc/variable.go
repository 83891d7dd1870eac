package plc

import (
	"regexp"
	"strconv"
	"strings"
)

// Class is the declaration section a variable belongs to.
type Class string

// Variable classes.
const (
	ClassInput    Class = "input"
	ClassOutput   Class = "output"
	ClassInOut    Class = "inOut"
	ClassExternal Class = "external"
	ClassLocal    Class = "local"
	ClassTemp     Class = "temp"
	ClassGlobal   Class = "global"
)

// Definition tells how a variable's type value is interpreted.
type Definition string

// Type definitions.
const (
	DefBaseType    Definition = "base-type"
	DefUserType    Definition = "user-data-type"
	DefArray       Definition = "array"
	DefDerived     Definition = "derived"
	DefGenericType Definition = "generic-type"
)

// VariableType is a variable's declared type. Value holds the type name
// (elementary, user data type, function block, or generic family). Array
// types additionally describe their element type and dimensions.
type VariableType struct {
	Definition Definition `json:"definition"`
	Value      string     `json:"value"`
	Array      *ArrayType `json:"data,omitempty"`
}

// ArrayType describes an array variable's element type and dimensions,
// each written as "lo..hi".
type ArrayType struct {
	BaseType   string   `json:"baseType"`
	Dimensions []string `json:"dimensions"`
}

// Variable is one row of a POU's variable table or of the global variable
// list.
type Variable struct {
	ID            string       `json:"id,omitempty"`
	Name          string       `json:"name"`
	Class         Class        `json:"class"`
	Type          VariableType `json:"type"`
	Location      string       `json:"location"`
	InitialValue  string       `json:"initialValue,omitempty"`
	Documentation string       `json:"documentation"`
	Debug         bool         `json:"debug"`
}

// IsDerived reports whether the variable is a function block instance or
// other derived aggregate.
func (v Variable) IsDerived() bool {
	return v.Type.Definition == DefDerived
}

// IsInput reports whether the variable feeds a block's input side.
func (v Variable) IsInput() bool {
	return v.Class == ClassInput || v.Class == ClassInOut
}

// IsOutput reports whether the variable is produced on a block's output side.
func (v Variable) IsOutput() bool {
	return v.Class == ClassOutput || v.Class == ClassInOut
}

// TypeName returns the effective type name used for compatibility checks.
// For arrays it is the element type.
func (v Variable) TypeName() string {
	if v.Type.Definition == DefArray && v.Type.Array != nil {
		return v.Type.Array.BaseType
	}
	return v.Type.Value
}

// Clone returns a deep copy of v.
func (v Variable) Clone() Variable {
	out := v
	if v.Type.Array != nil {
		arr := *v.Type.Array
		arr.Dimensions = cloneStrings(v.Type.Array.Dimensions)
		out.Type.Array = &arr
	}
	return out
}

// FindVariable returns the first variable whose name matches
// case-insensitively.
func FindVariable(vars []Variable, name string) (Variable, bool) {
	for _, v := range vars {
		if strings.EqualFold(v.Name, name) {
			return v, true
		}
	}
	return Variable{}, false
}

var (
	elementAccessRegex = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\[(.+)\]$`)
	indexRegex         = regexp.MustCompile(`^-?\d+$`)
	rangeRegex         = regexp.MustCompile(`^(-?\d+)\.\.(-?\d+)$`)
)

// ResolveArrayElement resolves an element reference such as "Matrix[0,1]"
// against vars. The result is a synthetic variable named after the
// reference and typed with the array's element type. Out-of-range indices,
// a wrong index count, or a non-array base all fail.
func ResolveArrayElement(vars []Variable, ref string) (Variable, bool) {
	m := elementAccessRegex.FindStringSubmatch(strings.TrimSpace(ref))
	if m == nil {
		return Variable{}, false
	}
	base, ok := FindVariable(vars, m[1])
	if !ok || base.Type.Definition != DefArray || base.Type.Array == nil {
		return Variable{}, false
	}

	parts := strings.Split(m[2], ",")
	dims := base.Type.Array.Dimensions
	if len(parts) != len(dims) {
		return Variable{}, false
	}
	indices := make([]string, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if !indexRegex.MatchString(part) {
			return Variable{}, false
		}
		idx, _ := strconv.Atoi(part)
		lo, hi, ok := parseRange(dims[i])
		if !ok || idx < lo || idx > hi {
			return Variable{}, false
		}
		indices[i] = part
	}

	elem := base.Clone()
	elem.Name = base.Name + "[" + strings.Join(indices, ",") + "]"
	def := DefUserType
	if IsBaseType(base.Type.Array.BaseType) {
		def = DefBaseType
	}
	elem.Type = VariableType{Definition: def, Value: base.Type.Array.BaseType}
	return elem, true
}

func parseRange(dim string) (lo, hi int, ok bool) {
	m := rangeRegex.FindStringSubmatch(strings.TrimSpace(dim))
	if m == nil {
		return 0, 0, false
	}
	lo, _ = strconv.Atoi(m[1])
	hi, _ = strconv.Atoi(m[2])
	return lo, hi, lo <= hi
}

func cloneVariables(vars []Variable) []Variable {
	if vars == nil {
		return nil
	}
	out := make([]Variable, len(vars))
	for i, v := range vars {
		out[i] = v.Clone()
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
