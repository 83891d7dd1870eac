package plc

import "strings"

// PouType distinguishes programs, functions, and function blocks.
type PouType string

// POU types.
const (
	PouProgram       PouType = "program"
	PouFunction      PouType = "function"
	PouFunctionBlock PouType = "function-block"
)

// Language is the body language of a POU.
type Language string

// Body languages.
const (
	LangLD  Language = "ld"
	LangFBD Language = "fbd"
	LangST  Language = "st"
	LangIL  Language = "il"
	LangSFC Language = "sfc"
)

// IsGraphical reports whether the POU body is a node graph held by the
// flow store rather than text.
func (l Language) IsGraphical() bool {
	return l == LangLD || l == LangFBD
}

// POU is a program organization unit. Body holds the source text for
// textual languages and is empty for graphical ones.
type POU struct {
	Type          PouType    `json:"type"`
	Name          string     `json:"name"`
	Language      Language   `json:"language"`
	ReturnType    string     `json:"returnType,omitempty"`
	Variables     []Variable `json:"variables"`
	Body          string     `json:"body"`
	Documentation string     `json:"documentation"`
}

// Clone returns a deep copy of p.
func (p POU) Clone() POU {
	out := p
	out.Variables = cloneVariables(p.Variables)
	return out
}

// Derivation is the kind of a user data type.
type Derivation string

// Data type derivations.
const (
	DerivArray      Derivation = "array"
	DerivEnumerated Derivation = "enumerated"
	DerivStructure  Derivation = "structure"
)

// StructElement is one field of a structure data type.
type StructElement struct {
	Name         string       `json:"name"`
	Type         VariableType `json:"type"`
	InitialValue string       `json:"initialValue,omitempty"`
}

// DataType is a user-defined data type.
type DataType struct {
	Name         string          `json:"name"`
	Derivation   Derivation      `json:"derivation"`
	BaseType     string          `json:"baseType,omitempty"`
	Dimensions   []string        `json:"dimensions,omitempty"`
	Values       []string        `json:"values,omitempty"`
	InitialValue string          `json:"initialValue,omitempty"`
	Elements     []StructElement `json:"elements,omitempty"`
}

// Clone returns a deep copy of d.
func (d DataType) Clone() DataType {
	out := d
	out.Dimensions = cloneStrings(d.Dimensions)
	out.Values = cloneStrings(d.Values)
	if d.Elements != nil {
		out.Elements = make([]StructElement, len(d.Elements))
		for i, e := range d.Elements {
			out.Elements[i] = e
			if e.Type.Array != nil {
				arr := *e.Type.Array
				arr.Dimensions = cloneStrings(e.Type.Array.Dimensions)
				out.Elements[i].Type.Array = &arr
			}
		}
	}
	return out
}

// Task schedules program instances.
type Task struct {
	Name       string `json:"name"`
	Triggering string `json:"triggering"`
	Interval   string `json:"interval,omitempty"`
	Priority   int    `json:"priority"`
}

// Instance binds a program to a task.
type Instance struct {
	Name    string `json:"name"`
	Task    string `json:"task"`
	Program string `json:"program"`
}

// Resource is the shared configuration: global variables, tasks, and
// program instances.
type Resource struct {
	GlobalVariables []Variable `json:"globalVariables"`
	Tasks           []Task     `json:"tasks"`
	Instances       []Instance `json:"instances"`
}

// IsEmpty reports whether the resource holds nothing.
func (r Resource) IsEmpty() bool {
	return len(r.GlobalVariables) == 0 && len(r.Tasks) == 0 && len(r.Instances) == 0
}

// Clone returns a deep copy of r.
func (r Resource) Clone() Resource {
	out := Resource{GlobalVariables: cloneVariables(r.GlobalVariables)}
	if r.Tasks != nil {
		out.Tasks = append([]Task(nil), r.Tasks...)
	}
	if r.Instances != nil {
		out.Instances = append([]Instance(nil), r.Instances...)
	}
	return out
}

// Project is the editable PLC project.
type Project struct {
	Name      string     `json:"name"`
	POUs      []POU      `json:"pous"`
	DataTypes []DataType `json:"dataTypes"`
	Resource  Resource   `json:"resource"`
}

// POU returns the POU with the given name (case-sensitive, as editor tabs
// are keyed).
func (p *Project) POU(name string) (POU, bool) {
	i := p.pouIndex(name)
	if i < 0 {
		return POU{}, false
	}
	return p.POUs[i], true
}

// SetPOU replaces the POU with the same name. It reports false when no such
// POU exists.
func (p *Project) SetPOU(pou POU) bool {
	i := p.pouIndex(pou.Name)
	if i < 0 {
		return false
	}
	p.POUs[i] = pou
	return true
}

// DataType returns the data type with the given name (case-insensitive).
func (p *Project) DataType(name string) (DataType, bool) {
	i := p.dataTypeIndex(name)
	if i < 0 {
		return DataType{}, false
	}
	return p.DataTypes[i], true
}

// SetDataType replaces the data type with the same name. It reports false
// when no such data type exists.
func (p *Project) SetDataType(dt DataType) bool {
	i := p.dataTypeIndex(dt.Name)
	if i < 0 {
		return false
	}
	p.DataTypes[i] = dt
	return true
}

func (p *Project) pouIndex(name string) int {
	for i := range p.POUs {
		if p.POUs[i].Name == name {
			return i
		}
	}
	return -1
}

func (p *Project) dataTypeIndex(name string) int {
	for i := range p.DataTypes {
		if strings.EqualFold(p.DataTypes[i].Name, name) {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of p.
func (p Project) Clone() Project {
	out := Project{Name: p.Name, Resource: p.Resource.Clone()}
	if p.POUs != nil {
		out.POUs = make([]POU, len(p.POUs))
		for i, pou := range p.POUs {
			out.POUs[i] = pou.Clone()
		}
	}
	if p.DataTypes != nil {
		out.DataTypes = make([]DataType, len(p.DataTypes))
		for i, dt := range p.DataTypes {
			out.DataTypes[i] = dt.Clone()
		}
	}
	return out
}
