// Package store holds the ladder flows of an open project and exposes the
// structural edit API the editor drives.
//
// A [Store] has a single owner. Every edit replaces the affected flow and
// rung with fresh values and allocates a new flow slice, so a slice
// returned by [Store.Flows] before an edit keeps describing the state it
// was read from. Nodes and edges that an edit does not touch are shared
// between the old and the new state.
//
// Edits address their target by editor (the POU name) and rung ID. A
// missing flow, rung or node is not an error: the call is a no-op that is
// logged at Debug level and reported through [observability.EditHooks].
//
// The store does no locking. Callers that share one across goroutines,
// such as the HTTP server, serialize access themselves.
package store
