// Package library provides the block catalog offered when a block node's
// type is picked: the IEC 61131-3 standard functions and function blocks,
// plus whatever functions and function blocks the open project declares.
//
// The standard catalog ships embedded as TOML and is decoded once. Each
// entry becomes a [ladder.BlockVariant] that [ladder.BuildBlock] can turn
// into a node directly:
//
//	ton, ok := library.Standard().Lookup("ton")
//	n := ladder.BuildBlock(id, pos, handle, ton, false)
//
// User POUs are layered on top with [Catalog.WithProject]; a user block of
// the same name shadows the standard one.
package library
