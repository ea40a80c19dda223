package formatter

import (
	"math"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/grindlemire/hamlfmt/internal/haml"
	"github.com/grindlemire/hamlfmt/internal/ruby"
)

// part is one piece of a tag declaration, such as %p, .foo or {a: 1}.
type part interface {
	// format prints the part. align is the width of the parts before it,
	// which a part that breaks across lines can use to line up.
	format(p *printer, align int)
	// length returns the flat width of the part.
	length() int
}

// plainPart is text printed as is.
type plainPart string

func (pp plainPart) format(p *printer, align int) { p.Text(string(pp)) }
func (pp plainPart) length() int                  { return uniseg.StringWidth(string(pp)) }

// prefixPart is a sigil followed by a name, such as %p or #main.
type prefixPart struct {
	prefix string
	value  string
}

func (pp prefixPart) format(p *printer, align int) { p.Text(pp.prefix + pp.value) }
func (pp prefixPart) length() int                  { return uniseg.StringWidth(pp.prefix + pp.value) }

// printTag prints a tag declaration, its inline value and its children.
func (p *printer) printTag(n *haml.Node) {
	t := n.Tag
	parts := p.tagParts(t)

	if !t.HasValue() {
		p.withChildren(n, func() { p.printParts(parts) })
		return
	}

	p.withChildren(n, func() {
		p.Group(func() { p.printParts(parts) })
		p.Indent(func() {
			// Splits the declaration from the value, which moves to its
			// own line when the declaration breaks.
			p.Breakable("")
			p.printTagValue(t)
		})
	})
}

// tagParts builds the declaration of t in canonical order: name, class,
// id, HTML attributes, static attributes, dynamic hash, object
// reference, then the whitespace and self-closing markers.
func (p *printer) tagParts(t *haml.Tag) []part {
	var parts []part

	if t.Name != "div" || t.ExplicitName {
		parts = append(parts, prefixPart{prefix: "%", value: t.Name})
	}

	static := t.Attributes
	if class, ok := shorthandClass(t); ok {
		parts = append(parts, prefixPart{prefix: ".", value: class})
		static = without(static, "class")
	}
	if id, ok := shorthandID(t); ok {
		parts = append(parts, prefixPart{prefix: "#", value: id})
		static = without(static, "id")
	}

	var html, old part
	if t.DynamicAttributes.New != "" {
		html = p.htmlAttributesPart(t.DynamicAttributes.New)
	}
	if t.DynamicAttributes.Old != "" {
		old = p.dynamicAttributesPart(t.DynamicAttributes.Old)
	}

	// A declaration holds at most one {...}, so static attributes join
	// the dynamic hash, or the (...) list when the hash is kept as
	// written.
	if old != nil && len(static) > 0 {
		if hp, ok := old.(hashPart); ok {
			hp.entries = append(p.staticEntries(static), hp.entries...)
			old, static = hp, nil
		} else if hp, ok := html.(htmlAttributesPart); ok {
			hp.attrs = append(hp.attrs, p.staticHTMLAttributes(static)...)
			html, static = hp, nil
		} else if html == nil {
			html, static = htmlAttributesPart{attrs: p.staticHTMLAttributes(static)}, nil
		}
	}

	if html != nil {
		parts = append(parts, html)
	}

	if len(static) > 0 {
		parts = append(parts, p.staticAttributesPart(static))
	}

	if old != nil {
		if len(parts) == 0 {
			parts = append(parts, plainPart("%div"))
		}
		parts = append(parts, old)
	}

	if t.ObjectRef != "" {
		if len(parts) == 0 {
			parts = append(parts, plainPart("%div"))
		}
		parts = append(parts, plainPart(t.ObjectRef))
	}

	if t.NukeOuter {
		parts = append(parts, plainPart(">"))
	}
	if t.NukeInner {
		parts = append(parts, plainPart("<"))
	}
	if t.SelfClosing {
		parts = append(parts, plainPart("/"))
	}

	if len(parts) == 0 {
		parts = append(parts, plainPart("%div"))
	}
	return parts
}

// printParts prints parts side by side, tracking their running width.
func (p *printer) printParts(parts []part) {
	align := 0
	for _, part := range parts {
		part.format(p, align)
		align += part.length()
	}
}

// printTagValue prints the inline content of a tag.
func (p *printer) printTagValue(t *haml.Tag) {
	if !t.Parse {
		p.printInlineText(t.Value, plainSigil(t.EscapeHTML, t.Unescape))
		return
	}

	value := p.expression(t.Value, math.MaxInt32)
	if !t.EscapeHTML && !t.Unescape && !t.Preserve {
		// = "text #{code}" is the same as inline text with interpolation.
		if text, ok := interpolatedText(value); ok {
			p.printInlineText(text, "")
			return
		}
	}

	p.Text(scriptSigil(t.EscapeHTML, t.Unescape, t.Preserve))
	p.Text(" ")
	p.Text(value)
}

// printInlineText prints text after a tag. On its own line, text that
// would not read as plain text is escaped.
func (p *printer) printInlineText(text, sigil string) {
	if sigil != "" {
		p.Text(sigil + " " + text)
		return
	}

	p.IfBreak(func() {
		if escaped(text) {
			p.Text(`\`)
		}
	}, func() {
		p.Text(" ")
	})
	p.Text(text)
}

// plainSigil returns the marker for plain text with the given flags.
func plainSigil(escapeHTML, unescape bool) string {
	switch {
	case escapeHTML:
		return "&"
	case unescape:
		return "!"
	}
	return ""
}

// interpolatedText returns the text of a double-quoted string literal
// with interpolation, when that text can be written as inline plain text
// with the same meaning.
func interpolatedText(value string) (string, bool) {
	s, ok := ruby.ParseString(value)
	if !ok || !s.Interpolated() {
		return "", false
	}

	text := haml.UnescapeInterpolated(s.Body)
	if text == "" || text != strings.TrimSpace(text) || haml.EscapeInterpolated(text) != s.Body {
		return "", false
	}
	return text, true
}

// shorthandClass returns the .a.b form of t's class attribute, if it can
// be written that way.
func shorthandClass(t *haml.Tag) (string, bool) {
	v, ok := t.Attribute("class")
	if !ok {
		return "", false
	}
	s, ok := v.(haml.StringValue)
	if !ok {
		return "", false
	}

	names := strings.Split(string(s), " ")
	for _, name := range names {
		if !shorthandName(name) {
			return "", false
		}
	}
	return strings.Join(names, "."), true
}

// shorthandID returns t's id attribute, if it can be written as #id.
func shorthandID(t *haml.Tag) (string, bool) {
	v, ok := t.Attribute("id")
	if !ok {
		return "", false
	}
	s, ok := v.(haml.StringValue)
	if !ok || !shorthandName(string(s)) {
		return "", false
	}
	return string(s), true
}

// shorthandName reports whether name can follow . or # in a declaration.
func shorthandName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9', c == '_', c == '-':
		default:
			return false
		}
	}
	return true
}

// without returns attrs minus the attribute named key.
func without(attrs []haml.Attribute, key string) []haml.Attribute {
	var out []haml.Attribute
	for _, attr := range attrs {
		if attr.Key != key {
			out = append(out, attr)
		}
	}
	return out
}
