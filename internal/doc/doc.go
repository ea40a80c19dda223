// Package doc provides a width-aware document model for pretty printing.
//
// Callers describe output with a [Printer]: literal text, groups whose
// optional line breaks resolve together, indentation scopes, forced breaks
// and fill-style wrapping. [Printer.Flush] then lays the document out at
// the configured maximum width, in the manner of Wadler's "prettier printer"
// and its descendants (prettier, prettier_print).
package doc

// kind is a kind of [node].
type kind uint8

const (
	kindText      kind = iota // Literal text.
	kindGroup                 // See [Printer.Group].
	kindNest                  // See [Printer.Nest].
	kindBreakable             // See [Printer.Breakable].
	kindIfBreak               // See [Printer.IfBreak].
)

// node is a single element of a document.
type node struct {
	kind kind

	// text is the literal for kindText and the flat separator for
	// kindBreakable.
	text string

	// force marks a breakable that always breaks.
	force bool

	// indent is the number of columns added by kindNest.
	indent int

	// broken is set on groups that contain a forced break.
	broken bool

	// children holds the contents of groups and nests, and the broken
	// contents of kindIfBreak.
	children []*node

	// flat holds the flat contents of kindIfBreak.
	flat []*node
}

// propagateBreaks marks every group that transitively contains a forced
// breakable as broken. Returns whether nodes contain a forced break.
func propagateBreaks(nodes []*node) bool {
	found := false
	for _, n := range nodes {
		switch n.kind {
		case kindBreakable:
			if n.force {
				found = true
			}
		case kindGroup:
			if propagateBreaks(n.children) {
				n.broken = true
				found = true
			}
		case kindNest:
			if propagateBreaks(n.children) {
				found = true
			}
		case kindIfBreak:
			a := propagateBreaks(n.children)
			b := propagateBreaks(n.flat)
			if a || b {
				found = true
			}
		}
	}
	return found
}
