package ladder

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrUnknownKind is returned when decoding a node whose type is not one
	// of the declared kinds.
	ErrUnknownKind = errors.New("unknown node kind")

	// ErrEmptyRungID is reported by [Validate] for a rung without an ID.
	ErrEmptyRungID = errors.New("rung ID must not be empty")

	// ErrMissingRail is reported by [Validate] when the left or right power
	// rail is absent or appears more than once.
	ErrMissingRail = errors.New("rung must contain exactly one left and one right rail")

	// ErrInvalidNodeID is reported by [Validate] for a node with an empty ID.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is reported by [Validate] when two nodes share an ID.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrMalformedNode is reported by [Validate] when a node's handles or
	// payload do not match its kind.
	ErrMalformedNode = errors.New("malformed node")

	// ErrDanglingEdge is reported by [Validate] when an edge references a
	// node that does not exist.
	ErrDanglingEdge = errors.New("edge references unknown node")

	// ErrUnknownHandle is reported by [Validate] when an edge names a handle
	// its node does not expose in the matching role.
	ErrUnknownHandle = errors.New("edge references unknown handle")

	// ErrCycle is reported by [Validate] when the wires form a cycle.
	// Detection uses depth-first search with white/gray/black coloring.
	ErrCycle = errors.New("rung contains a cycle")

	// ErrUnpairedParallel is reported by [Validate] when a parallel open or
	// close marker does not reference a matching partner.
	ErrUnpairedParallel = errors.New("unpaired parallel marker")

	// ErrUnreachable is reported by [Validate] when a chain element cannot
	// be reached from the left rail.
	ErrUnreachable = errors.New("element not reachable from left rail")
)

// Validate checks the structural invariants of a rung and reports every
// violation found, joined with errors.Join. Editing operations never call
// it; it is meant for data crossing the persistence boundary.
func Validate(r *Rung) error {
	if r == nil {
		return ErrMissingRail
	}
	var errs []error
	if r.ID == "" {
		errs = append(errs, ErrEmptyRungID)
	}
	r, nulls := withoutNulls(r)
	errs = append(errs, nulls...)

	rails := map[string]int{}
	ids := make(map[string]*Node, len(r.Nodes))
	for _, n := range r.Nodes {
		if n.IsRail() {
			rails[n.ID]++
		}
		if n.ID == "" {
			errs = append(errs, ErrInvalidNodeID)
			continue
		}
		if _, dup := ids[n.ID]; dup {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID))
			continue
		}
		ids[n.ID] = n
		if !n.Kind.Valid() {
			errs = append(errs, fmt.Errorf("node %s: %w", n.ID, ErrUnknownKind))
			continue
		}
		if err := registry[n.Kind].validate(n); err != nil {
			errs = append(errs, fmt.Errorf("node %s: %w", n.ID, err))
		}
	}
	if rails[LeftRailID] != 1 || rails[RightRailID] != 1 {
		errs = append(errs, ErrMissingRail)
	}

	edgesOK := true
	for _, e := range r.Edges {
		if err := validateEdge(e, ids); err != nil {
			errs = append(errs, fmt.Errorf("edge %s: %w", e.ID, err))
			edgesOK = false
		}
	}
	errs = append(errs, validateParallelPairs(r.Nodes, ids)...)

	if edgesOK {
		if err := detectCycles(r); err != nil {
			errs = append(errs, err)
		} else if rails[LeftRailID] == 1 {
			errs = append(errs, checkReachability(r)...)
		}
	}
	return errors.Join(errs...)
}

// withoutNulls returns r without null node and edge entries, reporting
// each one. r is returned as is when it has none.
func withoutNulls(r *Rung) (*Rung, []error) {
	var errs []error
	for i, n := range r.Nodes {
		if n == nil {
			errs = append(errs, fmt.Errorf("node %d is null: %w", i, ErrInvalidNodeID))
		}
	}
	for i, e := range r.Edges {
		if e == nil {
			errs = append(errs, fmt.Errorf("edge %d is null: %w", i, ErrDanglingEdge))
		}
	}
	if errs == nil {
		return r, nil
	}
	out := *r
	out.Nodes = slices.DeleteFunc(slices.Clone(r.Nodes), func(n *Node) bool { return n == nil })
	out.Edges = slices.DeleteFunc(slices.Clone(r.Edges), func(e *Edge) bool { return e == nil })
	return &out, errs
}

func validateEdge(e *Edge, ids map[string]*Node) error {
	src, okS := ids[e.Source]
	dst, okT := ids[e.Target]
	if !okS || !okT {
		return ErrDanglingEdge
	}
	if e.SourceHandle != "" && !hasHandle(src, e.SourceHandle, RoleSource) {
		return fmt.Errorf("%w: %s.%s", ErrUnknownHandle, e.Source, e.SourceHandle)
	}
	if e.TargetHandle != "" && !hasHandle(dst, e.TargetHandle, RoleTarget) {
		return fmt.Errorf("%w: %s.%s", ErrUnknownHandle, e.Target, e.TargetHandle)
	}
	return nil
}

func hasHandle(n *Node, id string, role Role) bool {
	for _, h := range n.Data.Handles {
		if h.ID == id && h.Role == role {
			return true
		}
	}
	return false
}

func validateParallelPairs(nodes []*Node, ids map[string]*Node) []error {
	var errs []error
	for _, n := range nodes {
		if n.Kind != KindParallel {
			continue
		}
		var partner *Node
		var back string
		if n.Data.Variant == ParallelOpen {
			partner = ids[n.Data.ParallelCloseReference]
			if partner != nil {
				back = partner.Data.ParallelOpenReference
			}
		} else {
			partner = ids[n.Data.ParallelOpenReference]
			if partner != nil {
				back = partner.Data.ParallelCloseReference
			}
		}
		if partner == nil || partner.Kind != KindParallel || partner.Data.Variant == n.Data.Variant || back != n.ID {
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnpairedParallel, n.ID))
		}
	}
	return errs
}

func detectCycles(r *Rung) error {
	const (
		white = iota
		gray
		black
	)

	outgoing := make(map[string][]string, len(r.Nodes))
	for _, e := range r.Edges {
		outgoing[e.Source] = append(outgoing[e.Source], e.Target)
	}

	color := make(map[string]int, len(r.Nodes))
	var hasCycle bool

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, child := range outgoing[id] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				hasCycle = true
				return
			}
		}
		color[id] = black
	}

	for _, n := range r.Nodes {
		if color[n.ID] == white {
			dfs(n.ID)
			if hasCycle {
				return ErrCycle
			}
		}
	}
	return nil
}

// checkReachability reports chain elements (contacts, coils, blocks,
// parallel markers, and the right rail) that no wire path from the left
// rail reaches. Variable nodes hang off block connectors and placeholders
// are transient, so both are exempt.
func checkReachability(r *Rung) []error {
	outgoing := make(map[string][]string, len(r.Nodes))
	for _, e := range r.Edges {
		outgoing[e.Source] = append(outgoing[e.Source], e.Target)
	}
	seen := map[string]bool{LeftRailID: true}
	stack := []string{LeftRailID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range outgoing[id] {
			if !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}

	var errs []error
	for _, n := range r.Nodes {
		switch n.Kind {
		case KindVariable, KindPlaceholder, KindParallelPlaceholder:
			continue
		}
		if n.ID == LeftRailID || seen[n.ID] {
			continue
		}
		errs = append(errs, fmt.Errorf("%w: %s", ErrUnreachable, n.ID))
	}
	return errs
}

// ValidateShape is the minimal check applied before accepting a batch of
// rungs: an ID and both rails exactly once.
func ValidateShape(r *Rung) error {
	if r == nil || r.ID == "" {
		return ErrEmptyRungID
	}
	return CheckRails(r.Nodes)
}

// CheckRails reports whether nodes can form a rung: no null entries and
// exactly one left and one right rail.
func CheckRails(nodes []*Node) error {
	left, right := 0, 0
	for _, n := range nodes {
		switch {
		case n == nil:
			return ErrInvalidNodeID
		case n.ID == LeftRailID:
			left++
		case n.ID == RightRailID:
			right++
		}
	}
	if left != 1 || right != 1 {
		return ErrMissingRail
	}
	return nil
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedNode, fmt.Sprintf(format, args...))
}

func requireHandles(n *Node, want map[string]Role) error {
	if len(n.Data.Handles) != len(want) {
		return malformed("%s has %d handles, want %d", n.Kind, len(n.Data.Handles), len(want))
	}
	for id, role := range want {
		if !hasHandle(n, id, role) {
			return malformed("%s lacks %s handle %q", n.Kind, role, id)
		}
	}
	return nil
}

func validatePowerRail(n *Node) error {
	switch n.ID {
	case LeftRailID:
		return requireHandles(n, map[string]Role{"output": RoleSource})
	case RightRailID:
		return requireHandles(n, map[string]Role{"input": RoleTarget})
	}
	if n.Data.Variant == RailRight {
		return requireHandles(n, map[string]Role{"input": RoleTarget})
	}
	return requireHandles(n, map[string]Role{"output": RoleSource})
}

func validateSerial(n *Node) error {
	variants := contactVariants
	if n.Kind == KindCoil {
		variants = coilVariants
	}
	if !isOneOf(n.Data.Variant, variants) {
		return malformed("unknown %s variant %q", n.Kind, n.Data.Variant)
	}
	return requireHandles(n, map[string]Role{"input": RoleTarget, "output": RoleSource})
}

func validateBlock(n *Node) error {
	v := n.Data.BlockVariant
	if v == nil {
		return malformed("block without type definition")
	}
	ins, outs := v.Inputs(), v.Outputs()
	if len(n.Data.Handles) != len(ins)+len(outs) {
		return malformed("block %s has %d handles, want %d", v.Name, len(n.Data.Handles), len(ins)+len(outs))
	}
	for _, in := range ins {
		if !hasHandle(n, in.Name, RoleTarget) {
			return malformed("block %s lacks input %q", v.Name, in.Name)
		}
	}
	for _, out := range outs {
		if !hasHandle(n, out.Name, RoleSource) {
			return malformed("block %s lacks output %q", v.Name, out.Name)
		}
	}
	return nil
}

func validateParallel(n *Node) error {
	switch n.Data.Variant {
	case ParallelOpen:
		return requireHandles(n, map[string]Role{"input": RoleTarget, "output-up": RoleSource, "output-down": RoleSource})
	case ParallelClose:
		return requireHandles(n, map[string]Role{"input": RoleTarget, "output-up": RoleSource, "input-down": RoleTarget})
	}
	return malformed("unknown parallel variant %q", n.Data.Variant)
}

func validatePlaceholder(n *Node) error {
	switch n.Data.PlaceholderSide {
	case SideLeft, SideRight, SideBottom, "":
		return nil
	}
	return malformed("invalid placeholder position %q", n.Data.PlaceholderSide)
}

func validateVariableNode(n *Node) error {
	if n.Data.Block == nil || n.Data.Block.ID == "" {
		return malformed("variable node without block reference")
	}
	switch n.Data.Variant {
	case VariableInput:
		return requireHandles(n, map[string]Role{"output": RoleSource})
	case VariableOutput:
		return requireHandles(n, map[string]Role{"input": RoleTarget})
	}
	return malformed("unknown variable variant %q", n.Data.Variant)
}
