// Package render groups the output formats for ladder rungs.
//
// Only [dot] exists today: it turns a rung into Graphviz DOT and lays it
// out as SVG or PNG in-process. The editor canvas draws rungs itself from
// node positions; these renderers are for inspection, diffs and bug
// reports.
package render
