// Package binding ties ladder nodes to entries of a POU's variable table.
//
// Contacts and coils bind to BOOL variables, function-block nodes bind to
// an instance of their block type, and variable nodes bind to anything
// that satisfies the connector they feed. [Resolve] finds the bound
// variable for a node, [ValidateVariableType] checks a concrete type
// against an expected one (including the generic ANY_* families), and
// [Bind] and [Revalidate] write the outcome back into fresh node copies.
//
// A failed check is never an error. It is a [Validation] value, and the
// node is flagged with wrongVariable so the editor can draw it distinctly.
package binding
