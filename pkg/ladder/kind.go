package ladder

import "fmt"

// Kind is the closed set of node kinds a rung may contain.
type Kind int

const (
	KindPowerRail Kind = iota
	KindContact
	KindCoil
	KindBlock
	KindParallel
	KindPlaceholder
	KindParallelPlaceholder
	KindVariable

	kindCount
)

var kindNames = [kindCount]string{
	KindPowerRail:           "powerRail",
	KindContact:             "contact",
	KindCoil:                "coil",
	KindBlock:               "block",
	KindParallel:            "parallel",
	KindPlaceholder:         "placeholder",
	KindParallelPlaceholder: "parallelPlaceholder",
	KindVariable:            "variable",
}

// Kinds returns every node kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, kindCount)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// Valid reports whether k is a declared kind.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind returns the kind with the given persisted name.
func ParseKind(s string) (Kind, bool) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	return 0, false
}

// MarshalText encodes k as its persisted name.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText decodes a persisted kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, ok := ParseKind(string(b))
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, string(b))
	}
	*k = parsed
	return nil
}

// traits are the user-manipulation flags of a kind.
type traits struct {
	draggable  bool
	selectable bool
	deletable  bool
}

var kindTraits = [kindCount]traits{
	KindPowerRail:           {},
	KindContact:             {draggable: true, selectable: true, deletable: true},
	KindCoil:                {draggable: true, selectable: true, deletable: true},
	KindBlock:               {draggable: true, selectable: true, deletable: true},
	KindParallel:            {},
	KindPlaceholder:         {},
	KindParallelPlaceholder: {},
	KindVariable:            {draggable: true, selectable: true, deletable: true},
}

func traitsOf(k Kind) traits {
	if !k.Valid() {
		return traits{}
	}
	return kindTraits[k]
}

// BuildParams carries everything a builder may need. Builders read only
// the fields that apply to their kind.
type BuildParams struct {
	ID       string
	Position Point
	// Handle is the global coordinate of the wire the node attaches to:
	// the input handle's position for serial elements.
	Handle           Point
	Variant          string
	Block            *BlockVariant
	ExecutionControl bool
	Side             Side
	RelatedNode      string
	BlockRef         *BlockRef
}

// kindEntry pairs a kind's builder with the shape check applied by
// Validate.
type kindEntry struct {
	build    func(BuildParams) *Node
	validate func(*Node) error
}

// registry is indexed by Kind; its fixed length forces an entry per kind.
var registry = [kindCount]kindEntry{
	KindPowerRail:           {build: buildPowerRailParams, validate: validatePowerRail},
	KindContact:             {build: buildContactParams, validate: validateSerial},
	KindCoil:                {build: buildCoilParams, validate: validateSerial},
	KindBlock:               {build: buildBlockParams, validate: validateBlock},
	KindParallel:            {build: buildParallelParams, validate: validateParallel},
	KindPlaceholder:         {build: buildPlaceholderParams, validate: validatePlaceholder},
	KindParallelPlaceholder: {build: buildParallelPlaceholderParams, validate: validatePlaceholder},
	KindVariable:            {build: buildVariableParams, validate: validateVariableNode},
}

// Build constructs a node of the given kind. It reports false for an
// undeclared kind.
func Build(k Kind, p BuildParams) (*Node, bool) {
	if !k.Valid() {
		return nil, false
	}
	return registry[k].build(p), true
}
