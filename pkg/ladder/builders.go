package ladder

import (
	"strconv"

	"github.com/google/uuid"
)

// Variant names.
const (
	RailLeft  = "left"
	RailRight = "right"

	ContactDefault     = "default"
	ContactNegated     = "negated"
	ContactRisingEdge  = "risingEdge"
	ContactFallingEdge = "fallingEdge"

	CoilDefault     = "default"
	CoilNegated     = "negated"
	CoilRisingEdge  = "risingEdge"
	CoilFallingEdge = "fallingEdge"
	CoilSet         = "set"
	CoilReset       = "reset"

	ParallelOpen  = "open"
	ParallelClose = "close"

	VariableInput  = "input"
	VariableOutput = "output"
)

var (
	contactVariants = []string{ContactDefault, ContactNegated, ContactRisingEdge, ContactFallingEdge}
	coilVariants    = []string{CoilDefault, CoilNegated, CoilRisingEdge, CoilFallingEdge, CoilSet, CoilReset}
)

// numericNamespace seeds NumericID so that it is a pure function of the
// node ID.
var numericNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("ladderflow/numeric-id"))

// NumericID returns the short stable number downstream code generation
// uses to refer to a node.
func NumericID(id string) string {
	return strconv.FormatUint(uint64(uuid.NewSHA1(numericNamespace, []byte(id)).ID()), 10)
}

func newHandle(id string, side Side, role Role, glb, rel Point) Handle {
	return Handle{
		ID:            id,
		Side:          side,
		Role:          role,
		IsConnectable: true,
		Global:        glb,
		Relative:      rel,
		Style:         handleStyle(side, rel),
	}
}

// handleStyle places a handle for the canvas: pinned to its side, offset
// along that side by its relative position.
func handleStyle(side Side, rel Point) map[string]any {
	switch side {
	case SideLeft, SideRight:
		return map[string]any{"top": rel.Y, string(side): 0.0}
	default:
		return map[string]any{"left": rel.X, string(side): 0.0}
	}
}

// newNode assembles a node of kind k and derives the handle partitions,
// connectors, and numeric ID.
func newNode(k Kind, id string, pos Point, width, height float64, handles []Handle) *Node {
	t := traitsOf(k)
	n := &Node{
		ID:         id,
		Kind:       k,
		Position:   pos,
		Width:      width,
		Height:     height,
		Measured:   &Size{Width: width, Height: height},
		Draggable:  t.draggable,
		Selectable: t.selectable,
	}
	n.Data.Handles = handles
	n.Data.NumericID = NumericID(id)
	setConnectors(n)
	return n
}

// setConnectors recomputes InputHandles, OutputHandles, and the two
// connector shortcuts from Data.Handles.
func setConnectors(n *Node) {
	n.Data.InputHandles = []Handle{}
	n.Data.OutputHandles = []Handle{}
	for _, h := range n.Data.Handles {
		if h.Role == RoleTarget {
			n.Data.InputHandles = append(n.Data.InputHandles, h)
		} else {
			n.Data.OutputHandles = append(n.Data.OutputHandles, h)
		}
	}
	n.Data.InputConnector = nil
	n.Data.OutputConnector = nil
	if len(n.Data.InputHandles) > 0 {
		h := n.Data.InputHandles[0]
		n.Data.InputConnector = &h
	}
	if len(n.Data.OutputHandles) > 0 {
		h := n.Data.OutputHandles[0]
		n.Data.OutputConnector = &h
	}
}

// BuildPowerRail builds a power rail. A left rail exposes a source handle
// on its right edge; a right rail exposes a target handle on its left edge.
func BuildPowerRail(id string, pos Point, variant string) *Node {
	mid := RailHeight / 2
	var h Handle
	if variant == RailRight {
		h = newHandle("input", SideLeft, RoleTarget,
			Point{X: pos.X, Y: pos.Y + mid}, Point{X: 0, Y: mid})
	} else {
		variant = RailLeft
		h = newHandle("output", SideRight, RoleSource,
			Point{X: pos.X + RailWidth, Y: pos.Y + mid}, Point{X: RailWidth, Y: mid})
	}
	n := newNode(KindPowerRail, id, pos, RailWidth, RailHeight, []Handle{h})
	n.Data.Variant = variant
	return n
}

func serialHandles(width, height float64, handle Point) []Handle {
	return []Handle{
		newHandle("input", SideLeft, RoleTarget, handle, Point{X: 0, Y: height / 2}),
		newHandle("output", SideRight, RoleSource, Point{X: handle.X + width, Y: handle.Y}, Point{X: width, Y: height / 2}),
	}
}

// BuildContact builds a contact whose input handle sits at handle.
func BuildContact(id string, pos, handle Point, variant string) *Node {
	if !isOneOf(variant, contactVariants) {
		variant = ContactDefault
	}
	n := newNode(KindContact, id, pos, ContactWidth, ContactHeight, serialHandles(ContactWidth, ContactHeight, handle))
	n.Data.Variant = variant
	return n
}

// BuildCoil builds a coil whose input handle sits at handle.
func BuildCoil(id string, pos, handle Point, variant string) *Node {
	if !isOneOf(variant, coilVariants) {
		variant = CoilDefault
	}
	n := newNode(KindCoil, id, pos, CoilWidth, CoilHeight, serialHandles(CoilWidth, CoilHeight, handle))
	n.Data.Variant = variant
	return n
}

// BuildParallel builds one half of a parallel branch. An open marker
// forks the wire through output-down; a close marker joins it back through
// input-down. partner is the ID of the other half, if known.
func BuildParallel(id string, pos, handle Point, variant, partner string) *Node {
	mid := ParallelHeight / 2
	down := newHandle("output-down", SideBottom, RoleSource,
		Point{X: handle.X + ParallelWidth/2, Y: handle.Y}, Point{X: ParallelWidth / 2, Y: mid})
	if variant == ParallelClose {
		down.ID = "input-down"
		down.Role = RoleTarget
	} else {
		variant = ParallelOpen
	}
	handles := []Handle{
		newHandle("input", SideLeft, RoleTarget, handle, Point{X: 0, Y: mid}),
		newHandle("output-up", SideRight, RoleSource,
			Point{X: handle.X + ParallelWidth, Y: handle.Y}, Point{X: ParallelWidth, Y: mid}),
		down,
	}
	n := newNode(KindParallel, id, pos, ParallelWidth, ParallelHeight, handles)
	n.Data.Variant = variant
	if variant == ParallelOpen {
		n.Data.ParallelCloseReference = partner
	} else {
		n.Data.ParallelOpenReference = partner
	}
	return n
}

// BuildPlaceholder builds a drop-target marker next to related. Set
// parallel for the marker offered below an element to open a branch.
func BuildPlaceholder(id string, related *Node, side Side, parallel bool) *Node {
	k := KindPlaceholder
	if parallel {
		k = KindParallelPlaceholder
	}
	pos := placeholderPosition(related, side)
	n := newNode(k, id, pos, PlaceholderWidth, PlaceholderHeight, []Handle{})
	n.Data.PlaceholderSide = side
	if related != nil {
		n.Data.RelatedNode = related.ID
	}
	return n
}

func placeholderPosition(related *Node, side Side) Point {
	if related == nil {
		return Point{}
	}
	p := related.Position
	switch side {
	case SideLeft:
		return Point{X: p.X - PlaceholderGap - PlaceholderWidth, Y: p.Y + related.Height/2 - PlaceholderHeight/2}
	case SideRight:
		return Point{X: related.Right() + PlaceholderGap, Y: p.Y + related.Height/2 - PlaceholderHeight/2}
	default:
		return Point{X: p.X + related.Width/2 - PlaceholderWidth/2, Y: p.Y + related.Height + PlaceholderGap}
	}
}

// BuildVariable builds a variable node attached to a block connector. An
// input variable feeds the block and exposes a source handle; an output
// variable receives from the block and exposes a target handle.
func BuildVariable(id string, pos, handle Point, variant string, ref BlockRef) *Node {
	mid := VariableHeight / 2
	var h Handle
	if variant == VariableOutput {
		h = newHandle("input", SideLeft, RoleTarget, handle, Point{X: 0, Y: mid})
	} else {
		variant = VariableInput
		h = newHandle("output", SideRight, RoleSource,
			Point{X: handle.X + VariableWidth, Y: handle.Y}, Point{X: VariableWidth, Y: mid})
	}
	n := newNode(KindVariable, id, pos, VariableWidth, VariableHeight, []Handle{h})
	n.Data.Variant = variant
	n.Data.Block = &ref
	return n
}

func isOneOf(s string, set []string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func buildPowerRailParams(p BuildParams) *Node {
	return BuildPowerRail(p.ID, p.Position, p.Variant)
}

func buildContactParams(p BuildParams) *Node {
	return BuildContact(p.ID, p.Position, p.Handle, p.Variant)
}

func buildCoilParams(p BuildParams) *Node {
	return BuildCoil(p.ID, p.Position, p.Handle, p.Variant)
}

func buildBlockParams(p BuildParams) *Node {
	variant := DefaultBlockVariant()
	if p.Block != nil {
		variant = *p.Block
	}
	return BuildBlock(p.ID, p.Position, p.Handle, variant, p.ExecutionControl)
}

func buildParallelParams(p BuildParams) *Node {
	return BuildParallel(p.ID, p.Position, p.Handle, p.Variant, p.RelatedNode)
}

func buildPlaceholderParams(p BuildParams) *Node {
	return placeholderFromParams(p, false)
}

func buildParallelPlaceholderParams(p BuildParams) *Node {
	return placeholderFromParams(p, true)
}

func placeholderFromParams(p BuildParams, parallel bool) *Node {
	n := BuildPlaceholder(p.ID, nil, p.Side, parallel)
	n.Position = p.Position
	n.Data.RelatedNode = p.RelatedNode
	return n
}

func buildVariableParams(p BuildParams) *Node {
	var ref BlockRef
	if p.BlockRef != nil {
		ref = *p.BlockRef
	}
	return BuildVariable(p.ID, p.Position, p.Handle, p.Variant, ref)
}
