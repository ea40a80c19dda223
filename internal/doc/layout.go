package doc

import (
	"strings"

	"github.com/rivo/uniseg"
)

// mode is the layout mode of a command.
type mode uint8

const (
	modeBreak mode = iota
	modeFlat
)

// command is a node scheduled for layout at an indentation and mode.
type command struct {
	indent int
	mode   mode
	node   *node
}

// pushAll schedules nodes so that the first node is popped first.
func pushAll(cmds []command, indent int, m mode, nodes []*node) []command {
	for i := len(nodes) - 1; i >= 0; i-- {
		cmds = append(cmds, command{indent: indent, mode: m, node: nodes[i]})
	}
	return cmds
}

// Flush lays out the document and returns the rendered text.
func (p *Printer) Flush() string {
	propagateBreaks(p.root)

	var out []byte
	column := 0
	cmds := pushAll(nil, 0, modeBreak, p.root)

	for len(cmds) > 0 {
		cmd := cmds[len(cmds)-1]
		cmds = cmds[:len(cmds)-1]
		n := cmd.node

		switch n.kind {
		case kindText:
			out = append(out, n.text...)
			column = advance(column, n.text)

		case kindGroup:
			m := modeBreak
			if !n.broken && (cmd.mode == modeFlat || p.fits(cmd.indent, n.children, cmds, p.maxWidth-column)) {
				m = modeFlat
			}
			cmds = pushAll(cmds, cmd.indent, m, n.children)

		case kindNest:
			cmds = pushAll(cmds, cmd.indent+n.indent, cmd.mode, n.children)

		case kindIfBreak:
			if cmd.mode == modeBreak {
				cmds = pushAll(cmds, cmd.indent, cmd.mode, n.children)
			} else {
				cmds = pushAll(cmds, cmd.indent, cmd.mode, n.flat)
			}

		case kindBreakable:
			if cmd.mode == modeFlat && !n.force {
				out = append(out, n.text...)
				column += width(n.text)
				continue
			}
			out = trimTrailing(out)
			out = append(out, '\n')
			out = append(out, strings.Repeat(" ", cmd.indent)...)
			column = cmd.indent
		}
	}

	return string(trimTrailing(out))
}

// fits reports whether nodes, printed flat, together with the rest of the
// current line fit in the remaining width. The rest of the line ends at
// the first breakable of rest that is laid out in break mode.
func (p *Printer) fits(indent int, nodes []*node, rest []command, remaining int) bool {
	cmds := pushAll(nil, indent, modeFlat, nodes)
	restIdx := len(rest)

	for remaining >= 0 {
		if len(cmds) == 0 {
			if restIdx == 0 {
				return true
			}
			restIdx--
			cmds = append(cmds, rest[restIdx])
			continue
		}

		cmd := cmds[len(cmds)-1]
		cmds = cmds[:len(cmds)-1]
		n := cmd.node

		switch n.kind {
		case kindText:
			if i := strings.IndexByte(n.text, '\n'); i >= 0 {
				return remaining-width(n.text[:i]) >= 0
			}
			remaining -= width(n.text)

		case kindGroup:
			m := cmd.mode
			if n.broken {
				m = modeBreak
			}
			cmds = pushAll(cmds, cmd.indent, m, n.children)

		case kindNest:
			cmds = pushAll(cmds, cmd.indent+n.indent, cmd.mode, n.children)

		case kindIfBreak:
			if cmd.mode == modeBreak {
				cmds = pushAll(cmds, cmd.indent, cmd.mode, n.children)
			} else {
				cmds = pushAll(cmds, cmd.indent, cmd.mode, n.flat)
			}

		case kindBreakable:
			if cmd.mode == modeBreak || n.force {
				return true
			}
			remaining -= width(n.text)
		}
	}

	return false
}

// width returns the number of terminal cells s occupies.
func width(s string) int {
	return uniseg.StringWidth(s)
}

// advance returns the column after writing s at column.
func advance(column int, s string) int {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return width(s[i+1:])
	}
	return column + width(s)
}

// trimTrailing removes spaces and tabs at the end of the output.
func trimTrailing(out []byte) []byte {
	for len(out) > 0 && (out[len(out)-1] == ' ' || out[len(out)-1] == '\t') {
		out = out[:len(out)-1]
	}
	return out
}
