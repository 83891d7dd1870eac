package ladder

import (
	"encoding/json"

	"github.com/matzehuels/ladderflow/pkg/plc"
)

// Sentinel node IDs present in every rung.
const (
	LeftRailID  = "left-rail"
	RightRailID = "right-rail"
)

// Point is a 2D coordinate on the rung's drawing surface.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair as measured by the renderer.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bounds is a rung's [width, height] pair.
type Bounds [2]float64

// Width returns b[0].
func (b Bounds) Width() float64 { return b[0] }

// Height returns b[1].
func (b Bounds) Height() float64 { return b[1] }

// Side is the edge of a node a handle sits on.
type Side string

// Handle sides.
const (
	SideLeft   Side = "left"
	SideRight  Side = "right"
	SideTop    Side = "top"
	SideBottom Side = "bottom"
)

// Role tells whether a handle starts (source) or ends (target) an edge.
type Role string

// Handle roles.
const (
	RoleSource Role = "source"
	RoleTarget Role = "target"
)

// Handle is a connection point owned by exactly one node. Global is the
// absolute position on the rung surface; Relative is the offset from the
// node's origin.
type Handle struct {
	ID            string         `json:"id"`
	Side          Side           `json:"position"`
	Role          Role           `json:"type"`
	IsConnectable bool           `json:"isConnectable"`
	Global        Point          `json:"glbPosition"`
	Relative      Point          `json:"relPosition"`
	Style         map[string]any `json:"style,omitempty"`
}

// Binding names the program variable a node is bound to. ID, when set, is
// preferred over Name during resolution.
type Binding struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// BlockVariable is one connector slot of a block type.
type BlockVariable struct {
	Name  string           `json:"name"`
	Class plc.Class        `json:"class"`
	Type  plc.VariableType `json:"type"`
}

// BlockVariant is the type definition a block node is built from: a
// library function or function block, or a user POU.
type BlockVariant struct {
	Name          string          `json:"name"`
	Type          plc.PouType     `json:"type"`
	Variables     []BlockVariable `json:"variables"`
	Documentation string          `json:"documentation"`
	Extensible    bool            `json:"extensible,omitempty"`
}

// Inputs returns the input and inOut connector slots in declaration order.
func (b BlockVariant) Inputs() []BlockVariable {
	var out []BlockVariable
	for _, v := range b.Variables {
		if v.Class == plc.ClassInput || v.Class == plc.ClassInOut {
			out = append(out, v)
		}
	}
	return out
}

// Outputs returns the output and inOut connector slots in declaration order.
func (b BlockVariant) Outputs() []BlockVariable {
	var out []BlockVariable
	for _, v := range b.Variables {
		if v.Class == plc.ClassOutput || v.Class == plc.ClassInOut {
			out = append(out, v)
		}
	}
	return out
}

// BlockRef ties a variable node to one connector of a block node.
type BlockRef struct {
	ID           string        `json:"id"`
	HandleID     string        `json:"handleId"`
	VariableType BlockVariable `json:"variableType"`
}

// ConnectedVariable records a variable wired to a block connector.
type ConnectedVariable struct {
	Variable *plc.Variable `json:"variable,omitempty"`
	Type     string        `json:"type"`
}

// NodeData is the kind-specific payload of a node. Fields that do not
// apply to a kind are left zero.
//
// On disk, "variant" holds either a variant name or, for blocks, the full
// block type definition. Keys the editor does not model are kept in Extra
// and written back unchanged.
type NodeData struct {
	Handles         []Handle `json:"handles"`
	InputHandles    []Handle `json:"inputHandles"`
	OutputHandles   []Handle `json:"outputHandles"`
	InputConnector  *Handle  `json:"inputConnector,omitempty"`
	OutputConnector *Handle  `json:"outputConnector,omitempty"`
	NumericID       string   `json:"numericId"`
	Variable        Binding  `json:"variable"`
	WrongVariable   bool     `json:"wrongVariable,omitempty"`

	// Variant is the sub-kind of contacts, coils, parallels, variable
	// nodes, and power rails.
	Variant string `json:"-"`

	// Block nodes. All five are written for every block.
	BlockVariant         *BlockVariant                `json:"-"`
	ExecutionControl     bool                         `json:"-"`
	LockExecutionControl bool                         `json:"-"`
	ExecutionOrder       int                          `json:"-"`
	ConnectedVariables   map[string]ConnectedVariable `json:"-"`

	// Parallel markers reference their partner.
	ParallelOpenReference  string `json:"parallelOpenReference,omitempty"`
	ParallelCloseReference string `json:"parallelCloseReference,omitempty"`

	// Placeholders.
	PlaceholderSide Side   `json:"placeholderPosition,omitempty"`
	RelatedNode     string `json:"relatedNode,omitempty"`

	// Variable nodes.
	Block *BlockRef `json:"block,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Node is one element of a rung. Published nodes are immutable: edits
// produce a fresh *Node.
type Node struct {
	ID         string   `json:"id"`
	Kind       Kind     `json:"type"`
	Position   Point    `json:"position"`
	Height     float64  `json:"height"`
	Width      float64  `json:"width"`
	Measured   *Size    `json:"measured,omitempty"`
	Draggable  bool     `json:"draggable"`
	Selectable bool     `json:"selectable"`
	Data       NodeData `json:"data"`
}

// Deletable reports whether the user may delete the node. It is a property
// of the node's kind.
func (n *Node) Deletable() bool {
	return traitsOf(n.Kind).deletable
}

// IsRail reports whether n is one of the two sentinel power rails.
func (n *Node) IsRail() bool {
	return n.ID == LeftRailID || n.ID == RightRailID
}

// SourceHandle returns the first source handle of n.
func (n *Node) SourceHandle() (Handle, bool) {
	return n.handleByRole(RoleSource)
}

// TargetHandle returns the first target handle of n.
func (n *Node) TargetHandle() (Handle, bool) {
	return n.handleByRole(RoleTarget)
}

// Handle returns the handle with the given ID.
func (n *Node) Handle(id string) (Handle, bool) {
	for _, h := range n.Data.Handles {
		if h.ID == id {
			return h, true
		}
	}
	return Handle{}, false
}

func (n *Node) handleByRole(r Role) (Handle, bool) {
	for _, h := range n.Data.Handles {
		if h.Role == r {
			return h, true
		}
	}
	return Handle{}, false
}

// Right returns the x coordinate of the node's right edge.
func (n *Node) Right() float64 {
	return n.Position.X + n.Width
}

// Edge is a wire between two handles. Its ID derives from its endpoints.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	SourceHandle string `json:"sourceHandle"`
	Target       string `json:"target"`
	TargetHandle string `json:"targetHandle"`
}

// Rung is one row of a ladder diagram. Nodes and Edges hold shared
// immutable elements; a mutation builds new slices.
type Rung struct {
	ID            string  `json:"id"`
	Comment       string  `json:"comment"`
	DefaultBounds Bounds  `json:"defaultBounds"`
	FlowViewport  Bounds  `json:"flowViewport"`
	Nodes         []*Node `json:"nodes"`
	Edges         []*Edge `json:"edges"`

	// Selected holds the IDs of selected nodes. It is UI state and is not
	// persisted.
	Selected []string `json:"-"`
}

// Flow holds the rungs of one ladder POU.
type Flow struct {
	Name    string  `json:"name"`
	Updated bool    `json:"updated"`
	Rungs   []*Rung `json:"rungs"`
}
