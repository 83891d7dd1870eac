// Package pkg holds the libraries behind the ladderflow editor engine.
//
// # Overview
//
// ladderflow edits IEC 61131-3 ladder diagrams. A project carries POUs
// (programs, functions, function blocks) with their variables; each
// ladder POU owns a flow of rungs, and each rung is a left-to-right chain
// of elements between two power rails. Parallel branches fork from a
// parallel-start node and merge again at a parallel-end node.
//
// # Data Flow
//
//	project.json
//	     ↓
//	[io] import, optional validation
//	     ↓
//	[store] copy-on-write flows, rungs, nodes, edges
//	     ↓               ↘
//	[binding] resolve    [history] per-POU undo/redo
//	and type-check       snapshots
//	     ↓
//	[render/dot] Graphviz DOT, SVG, PNG
//	     ↓
//	[io] export
//
// # Packages
//
// Model:
//   - [plc]: projects, POUs, variables and the IEC type names
//   - [ladder]: rungs, nodes, edges, layout, duplication and removal
//   - [library]: the standard function-block catalog plus project blocks
//
// Editing:
//   - [store]: the single-writer flow store and its change events
//   - [binding]: variable resolution and type checks for a node
//   - [history]: bounded undo and redo per POU
//
// Infrastructure:
//   - [io]: project documents on disk
//   - [render/dot]: Graphviz output for debugging rungs
//   - [cache]: rendered artifacts keyed by DOT source
//   - [config]: TOML/YAML settings, environment overrides and file watching
//   - [observability]: hooks with a Prometheus implementation
//   - [errors]: coded errors with user-facing messages
//   - [buildinfo]: version stamped at link time
//
// # Quick Start
//
//	doc, err := io.ImportProject("plant.json")
//	if err != nil {
//	    return err
//	}
//	flows := store.New(cfg, logger)
//	flows.SetFlows(doc.LadderFlows)
//
//	id, _ := flows.AddNewNode("main", "r1", ladder.KindContact)
//	v, _ := flows.BindVariable("main", "r1", id, "Start", pou.Variables)
//	if !v.Valid {
//	    fmt.Println(v.Error)
//	}
//
// The command-line tool in cmd/ladderflow and the HTTP API in
// internal/server are both thin layers over these packages.
package pkg
