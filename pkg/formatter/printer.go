package formatter

import (
	"strings"

	"github.com/grindlemire/hamlfmt/internal/doc"
	"github.com/grindlemire/hamlfmt/internal/haml"
	"github.com/grindlemire/hamlfmt/internal/ruby"
)

// printer renders a node tree into a document. One printer serves one
// format call.
type printer struct {
	*doc.Printer
	quote byte
	expr  ruby.ExprFormatter

	// literals holds source lines copied to the output unchanged, by line
	// number.
	literals map[int]string
}

// newPrinter creates a printer with the formatter's settings.
func newPrinter(f *Formatter, source string) *printer {
	return &printer{
		Printer:  doc.NewPrinter(f.maxWidth),
		quote:    f.quote,
		expr:     f.expr,
		literals: literalLines(source),
	}
}

// literalLines records the lines that start with "!". Their exact text is
// significant, so they are never re-derived from the tree.
func literalLines(source string) map[int]string {
	literals := make(map[int]string)
	for i, line := range strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n") {
		if strings.HasPrefix(line, "!") {
			literals[i+1] = strings.TrimRight(line, " \t")
		}
	}
	return literals
}

// node renders n. Every kind has a rule; anything else is a bug in the
// parser.
func (p *printer) node(n *haml.Node) {
	switch n.Kind {
	case haml.KindRoot:
		p.printRoot(n)
	case haml.KindTag:
		p.printTag(n)
	case haml.KindPlain:
		p.printPlain(n)
	case haml.KindScript:
		p.printScript(n)
	case haml.KindSilentScript:
		p.printSilentScript(n)
	case haml.KindComment:
		p.printComment(n)
	case haml.KindHamlComment:
		p.printHamlComment(n)
	case haml.KindDoctype:
		p.printDoctype(n)
	case haml.KindFilter:
		p.printFilter(n)
	default:
		panic(&haml.UnsupportedKindError{Kind: n.Kind})
	}
}

// printRoot prints each top-level node on its own line.
func (p *printer) printRoot(n *haml.Node) {
	for i, child := range n.Children {
		if i > 0 && blankBetween(n.Children[i-1], child) {
			p.ForceBreak()
		}
		p.node(child)
		p.ForceBreak()
	}
}

// withChildren prints head followed by n's children, one level deeper.
func (p *printer) withChildren(n *haml.Node, head func()) {
	if len(n.Children) == 0 {
		p.Group(head)
		return
	}

	p.Group(func() {
		p.Group(head)
		p.Indent(func() {
			for i, child := range n.Children {
				if i > 0 && blankBetween(n.Children[i-1], child) {
					p.ForceBreak()
				}
				p.ForceBreak()
				p.node(child)
			}
		})
	})
}

// blankBetween reports whether the source had blank lines between two
// siblings. Any number of blank lines is printed as one.
func blankBetween(prev, next *haml.Node) bool {
	return next.Line-prev.LastLine() > 1
}

// literal returns the verbatim source of n, if n is a single line that
// must be copied unchanged.
func (p *printer) literal(n *haml.Node) (string, bool) {
	if n.EndLine > n.Line {
		return "", false
	}
	line, ok := p.literals[n.Line]
	return line, ok
}

// expression re-renders embedded Ruby, falling back to the original text
// when it cannot be understood.
func (p *printer) expression(src string, width int) string {
	formatted, err := p.expr.Format(src, width)
	if err != nil {
		logFallback("expression", src, err)
		return strings.TrimSpace(src)
	}
	return formatted
}
