package formatter

import (
	"strings"

	"github.com/grindlemire/hamlfmt/internal/haml"
)

// specialCharacters start lines that are not plain text. Plain text that
// begins with one of them is escaped with a backslash.
const specialCharacters = `.#%/&=~-\:!`

// doctypeTypes maps recognized doctype types to their canonical spelling.
var doctypeTypes = map[string]string{
	"basic":    "Basic",
	"frameset": "Frameset",
	"mobile":   "Mobile",
	"rdfa":     "RDFa",
	"strict":   "Strict",
	"xml":      "XML",
}

// doctypeVersions are the recognized doctype versions.
var doctypeVersions = map[string]bool{
	"1.1": true,
	"5":   true,
}

// escaped reports whether text would be read as something other than
// plain text at the start of a line.
func escaped(text string) bool {
	return text != "" && strings.IndexByte(specialCharacters, text[0]) >= 0
}

// printPlain prints a line of plain text.
func (p *printer) printPlain(n *haml.Node) {
	if line, ok := p.literal(n); ok {
		p.Text(line)
		return
	}

	plain := n.Plain
	switch {
	case plain.EscapeHTML:
		p.Text("& ")
	case plain.Unescape:
		p.Text("! ")
	case escaped(plain.Text):
		p.Text(`\`)
	}
	p.Text(plain.Text)
}

// printComment prints a markup comment and the lines nested in it.
func (p *printer) printComment(n *haml.Node) {
	c := n.Comment
	p.withChildren(n, func() {
		p.Text("/")
		if c.Revealed {
			p.Text("!")
		}

		if c.Conditional != "" {
			p.Text(c.Conditional)
		} else if c.Text != "" {
			p.Text(" " + c.Text)
		}
	})
}

// printHamlComment prints a -# comment. Multi-line bodies move below the
// marker.
func (p *printer) printHamlComment(n *haml.Node) {
	p.Text("-#")
	text := strings.TrimSpace(n.HamlComment.Text)

	if !strings.Contains(text, "\n") {
		if text != "" {
			p.Text(" " + text)
		}
		return
	}

	lines := strings.Split(text, "\n")
	p.Indent(func() {
		p.ForceBreak()
		p.Seplist(len(lines), p.ForceBreak, func(i int) {
			p.Text(strings.TrimRight(lines[i], " \t"))
		})
	})
}

// printDoctype prints a !!! declaration.
func (p *printer) printDoctype(n *haml.Node) {
	d := n.Doctype
	parts := []string{"!!!"}

	switch {
	case doctypeTypes[d.Type] != "":
		parts = append(parts, doctypeTypes[d.Type])
	case doctypeVersions[d.Version]:
		parts = append(parts, d.Version)
	case d.Type != "":
		parts = append(parts, d.Type)
	case d.Version != "":
		parts = append(parts, d.Version)
	}

	if d.Encoding != "" {
		parts = append(parts, d.Encoding)
	}
	p.Text(strings.Join(parts, " "))
}

// printFilter prints a :name filter. The body is foreign text: it is
// trimmed as a block and each line is copied one level deeper.
func (p *printer) printFilter(n *haml.Node) {
	f := n.Filter
	lines := filterLines(f.Text)

	p.Group(func() {
		p.Text(":" + f.Name)
		if len(lines) == 0 {
			return
		}

		p.Indent(func() {
			p.ForceBreak()
			p.Seplist(len(lines), p.ForceBreak, func(i int) {
				p.Text(lines[i])
			})
		})
	})
}

// filterLines splits a filter body into right-trimmed lines without
// leading or trailing blank lines.
func filterLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
