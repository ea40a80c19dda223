package formatter

import (
	"strings"

	"github.com/grindlemire/hamlfmt/internal/haml"
)

// printScript prints an = line and the lines nested in it.
func (p *printer) printScript(n *haml.Node) {
	s := n.Script
	p.withChildren(n, func() {
		if line, ok := p.literal(n); ok {
			p.Text(line)
			return
		}

		p.Text(scriptSigil(s.EscapeHTML, s.Unescape, s.Preserve))
		p.Text(" ")
		p.Text(strings.TrimSpace(s.Text))
	})
}

// scriptSigil returns the prefix of an outputting script with the given
// flags, such as "=", "&=" or "!~".
func scriptSigil(escapeHTML, unescape, preserve bool) string {
	var sigil string
	switch {
	case escapeHTML:
		sigil = "&"
	case unescape:
		sigil = "!"
	}
	if preserve {
		return sigil + "~"
	}
	return sigil + "="
}

// printSilentScript prints a - line. Continuations such as else and when
// line up with the statement they continue; other children are indented.
func (p *printer) printSilentScript(n *haml.Node) {
	s := n.Silent
	p.Group(func() {
		p.Text("- ")
		p.Text(strings.TrimSpace(s.Text))

		for i, child := range n.Children {
			blank := i > 0 && blankBetween(n.Children[i-1], child)
			body := func() {
				if blank {
					p.ForceBreak()
				}
				p.ForceBreak()
				p.node(child)
			}

			if continuation(n, child) {
				body()
			} else {
				p.Indent(body)
			}
		}
	})
}

// continuation reports whether child continues the statement opened by n.
func continuation(n, child *haml.Node) bool {
	if child.Kind != haml.KindSilentScript {
		return false
	}
	return haml.IsContinuation(n.Silent.Keyword, child.Silent.Keyword)
}
