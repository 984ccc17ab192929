// Package source provides the file-location type threaded through every
// pass for diagnostic reporting.
package source

import "fmt"

// Location identifies a point in a source file. It is the Go realization
// of the "global file-location thread-through" design note: rather than a
// process-wide mutable current-location, each AST node and diagnostic
// carries its own copy, and passes that synthesize nodes propagate the
// location of whichever node they are resolving.
type Location struct {
	File   string
	Line   int
	Column int
}

// String formats the location as "file:line:column", omitting the file
// segment when it is empty (as happens for synthesized nodes created
// before a file name is known).
func (l Location) String() string {
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// IsValid reports whether the location carries real line information.
func (l Location) IsValid() bool {
	return l.Line > 0
}

// Unknown is the zero-value placeholder used for nodes synthesized without
// a clear origin (e.g. built-in declarations registered before parsing).
var Unknown = Location{}
