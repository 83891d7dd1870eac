// Package io reads and writes ladderflow projects, flows, and rungs as
// JSON.
//
// # JSON Format
//
// A project document is the PLC project with its ladder flows alongside:
//
//	{
//	  "name": "plant",
//	  "pous": [{"type": "program", "name": "main", "language": "ld", "variables": [...]}],
//	  "dataTypes": [],
//	  "resource": {"globalVariables": [], "tasks": [], "instances": []},
//	  "ladderFlows": [{"name": "main", "updated": false, "rungs": [...]}]
//	}
//
// A rung is exactly
//
//	{"id", "comment", "defaultBounds", "flowViewport", "nodes", "edges"}
//
// and a node carries {id, type, position, height, width, measured,
// draggable, selectable, data}. Edges are {id, source, sourceHandle,
// target, targetHandle}. Reading and writing a rung reproduces the same
// document after JSON parsing.
//
// # Validation
//
// Every Read function checks what it decoded before returning it:
// rungs with [ladder.Validate], projects additionally for POU names and
// for flows that do not belong to a ladder POU. All problems found are
// reported together. The returned error is an [*errors.Error] whose code
// tells the failure class: INVALID_FORMAT for undecodable input,
// INVALID_RUNG, INVALID_FLOW, or INVALID_PROJECT for structural defects,
// and FILE_NOT_FOUND from the Import functions. Use [errors.Problems] to
// list the individual defects.
//
// Editing code never goes through this package: the structural
// operations in [ladder] and [store] tolerate intermediate states that
// validation would reject.
package io
