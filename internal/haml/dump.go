package haml

import (
	"strconv"

	"github.com/grindlemire/hamlfmt/internal/doc"
)

// Dump renders n as a parenthesized tree, wrapping at width columns.
func Dump(n *Node, width int) string {
	d := &dumper{p: doc.NewPrinter(width)}
	d.node(n)
	return d.p.Flush() + "\n"
}

// dumper writes nodes in the form (kind field=value ... children=[...]).
type dumper struct {
	p *doc.Printer
}

func (d *dumper) node(n *Node) {
	d.p.Group(func() {
		d.p.Text("(" + n.Kind.String())
		d.p.Nest(2, func() { d.fields(n) })
		d.p.Breakable("")
		d.p.Text(")")
	})
}

func (d *dumper) fields(n *Node) {
	switch n.Kind {
	case KindRoot:
	case KindTag:
		t := n.Tag
		d.quoted("name", t.Name)
		if len(t.Attributes) > 0 {
			d.field("attributes", func() { d.attributes(t.Attributes) })
		}
		if t.DynamicAttributes.New != "" {
			d.quoted("dynamic_attributes.new", t.DynamicAttributes.New)
		}
		if t.DynamicAttributes.Old != "" {
			d.quoted("dynamic_attributes.old", t.DynamicAttributes.Old)
		}
		if t.ObjectRef != "" {
			d.quoted("object_ref", t.ObjectRef)
		}
		d.flag("nuke_outer_whitespace", t.NukeOuter)
		d.flag("nuke_inner_whitespace", t.NukeInner)
		d.flag("self_closing", t.SelfClosing)
		if t.HasValue() {
			d.quoted("value", t.Value)
			d.flag("parse", t.Parse)
			d.flag("escape_html", t.EscapeHTML)
			d.flag("unescape", t.Unescape)
			d.flag("preserve", t.Preserve)
		}
	case KindPlain:
		d.quoted("text", n.Plain.Text)
		d.flag("escape_html", n.Plain.EscapeHTML)
		d.flag("unescape", n.Plain.Unescape)
	case KindScript:
		d.quoted("text", n.Script.Text)
		d.flag("escape_html", n.Script.EscapeHTML)
		d.flag("unescape", n.Script.Unescape)
		d.flag("preserve", n.Script.Preserve)
	case KindSilentScript:
		d.quoted("text", n.Silent.Text)
		if n.Silent.Keyword != "" {
			d.quoted("keyword", n.Silent.Keyword)
		}
	case KindComment:
		if n.Comment.Conditional != "" {
			d.quoted("conditional", n.Comment.Conditional)
		} else if n.Comment.Text != "" {
			d.quoted("text", n.Comment.Text)
		}
		d.flag("revealed", n.Comment.Revealed)
	case KindHamlComment:
		d.quoted("text", n.HamlComment.Text)
	case KindDoctype:
		if n.Doctype.Type != "" {
			d.quoted("type", n.Doctype.Type)
		}
		if n.Doctype.Version != "" {
			d.quoted("version", n.Doctype.Version)
		}
		if n.Doctype.Encoding != "" {
			d.quoted("encoding", n.Doctype.Encoding)
		}
	case KindFilter:
		d.field("name", func() { d.p.Text(n.Filter.Name) })
		d.quoted("text", n.Filter.Text)
	default:
		panic(&UnsupportedKindError{Kind: n.Kind})
	}

	if len(n.Children) > 0 {
		d.field("children", func() {
			d.list(len(n.Children), func(i int) { d.node(n.Children[i]) })
		})
	}
}

func (d *dumper) field(name string, value func()) {
	d.p.Breakable(" ")
	d.p.Text(name + "=")
	value()
}

func (d *dumper) quoted(name, value string) {
	d.field(name, func() { d.p.Text(strconv.Quote(value)) })
}

func (d *dumper) flag(name string, set bool) {
	if set {
		d.p.Breakable(" ")
		d.p.Text(name)
	}
}

func (d *dumper) list(n int, item func(i int)) {
	d.p.Group(func() {
		d.p.Text("[")
		d.p.Nest(1, func() {
			d.p.Seplist(n, d.p.CommaBreakable, item)
		})
		d.p.Text("]")
	})
}

func (d *dumper) attributes(attrs []Attribute) {
	d.p.Group(func() {
		d.p.Text("{")
		d.p.Nest(1, func() {
			d.p.Seplist(len(attrs), d.p.CommaBreakable, func(i int) {
				d.p.Text(strconv.Quote(attrs[i].Key) + "=>")
				d.value(attrs[i].Value)
			})
		})
		d.p.Text("}")
	})
}

func (d *dumper) value(v Value) {
	switch v := v.(type) {
	case StringValue:
		d.p.Text(strconv.Quote(string(v)))
	case BoolValue:
		d.p.Text(strconv.FormatBool(bool(v)))
	case HashValue:
		d.attributes(v)
	}
}
