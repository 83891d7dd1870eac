// Package plc defines the IEC 61131-3 vocabulary shared by the ladder
// engine: elementary types, generic type families, variables, program
// organization units (POUs), user data types, and the resource
// configuration.
//
// # Types
//
// Elementary types are identified by their lowercase name ("bool", "int",
// "lreal", ...). Generic families such as ANY_NUM or ANY_BIT group
// elementary types and may nest; [ExpandFamily] flattens a family into its
// concrete members.
//
// # Projects
//
// A [Project] is the aggregate the editor works on: POUs with their
// variable tables, data types, and the shared [Resource] holding global
// variables, tasks, and program instances. The ladder graphs for graphical
// POUs live outside the project, in the flow store.
//
// Every aggregate offers a Clone method producing a fully materialized copy
// that shares no slices or maps with the original. History snapshots rely
// on that property.
package plc
