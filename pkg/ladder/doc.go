// Package ladder implements the graph model of a ladder-diagram rung and
// the structural operations that keep it consistent while it is edited.
//
// # Overview
//
// A [Rung] is an ordered list of nodes plus a list of edges (wires). Two
// sentinel nodes, [LeftRailID] and [RightRailID], are always present; every
// other element sits on a path between them, either in series or inside a
// branch delimited by a pair of parallel markers.
//
// Nodes come from a closed set of kinds ([Kind]): power rails, contacts,
// coils, function blocks, parallel open/close markers, placeholders, and
// variable nodes attached to block connectors. Each kind has a builder
// that computes the node's size and its handles. A handle carries two
// coordinates: a global one on the rung's drawing surface, used for
// layout, and one relative to the node's origin, used by renderers.
//
// # Builders
//
// [BuildContact], [BuildCoil], [BuildBlock], [BuildParallel],
// [BuildPlaceholder], [BuildVariable], and [BuildPowerRail] are pure: the
// same arguments always produce an identical node, including the numeric
// ID, which is derived from the node ID. [Build] dispatches on [Kind]
// through a fixed-size registry that also holds each kind's shape check.
//
// # Wiring
//
// [ConnectNodes] splices a node into the wire leaving its predecessor.
// [DisconnectNodes] lifts a node out and bridges its neighbours.
// [DetachNode] is the inverse of a splice. All three are total: when the
// edge they look for is missing they return the edges unchanged.
//
// # Layout
//
// [AddNewNode] and [RemoveNode] append to and remove from the end of the
// main chain. Both recompute the right rail with [ChangePowerRailBounds]:
// the rail follows the content when it overflows the rung's default
// width and snaps back to the default otherwise.
//
// # Immutability
//
// Nodes and edges are shared between successive versions of a rung.
// Operations in this package never modify a node or edge they were given;
// they return fresh copies for anything that changes and reuse the
// pointers of everything else.
//
// # Validation
//
// Editing never validates. [Validate] is an opt-in check of the structural
// invariants (rails, unique IDs, edge endpoints and handles, acyclicity,
// parallel pairing, reachability) for data crossing the persistence
// boundary.
package ladder
