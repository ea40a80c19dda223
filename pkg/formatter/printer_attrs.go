package formatter

import (
	"strconv"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/grindlemire/hamlfmt/internal/debug"
	"github.com/grindlemire/hamlfmt/internal/haml"
	"github.com/grindlemire/hamlfmt/internal/ruby"
)

// htmlAttributesPart is a (key=value ...) list.
type htmlAttributesPart struct {
	attrs []haml.HTMLAttribute
}

func (hp htmlAttributesPart) format(p *printer, align int) {
	p.Group(func() {
		p.Text("(")
		p.Nest(align, func() {
			p.Seplist(len(hp.attrs), func() { p.FillBreakable(" ") }, func(i int) {
				attr := hp.attrs[i]
				if attr.Value == "" {
					p.Text(attr.Key)
					return
				}
				p.Text(attr.Key + "=" + attr.Value)
			})
		})
		p.Text(")")
	})
}

func (hp htmlAttributesPart) length() int {
	return uniseg.StringWidth(haml.FormatHTMLAttributes(hp.attrs))
}

// hashPart is a {key: value, ...} hash.
type hashPart struct {
	entries []hashEntry
}

func (hp hashPart) format(p *printer, align int) {
	p.printHash(hp.entries, 0)
}

func (hp hashPart) length() int {
	return flatHashWidth(hp.entries, 0)
}

// hashEntry is one key of a hash with its value: either a nested hash or
// literal source.
type hashEntry struct {
	key   string
	value attributeValue
}

// attributeValue is a parsed attribute value.
type attributeValue struct {
	hash    []hashEntry
	isHash  bool
	literal string
}

// htmlAttributesPart builds the part for an HTML-style attribute list.
// Lists that cannot be split are kept as written.
func (p *printer) htmlAttributesPart(raw string) part {
	attrs, err := haml.ParseHTMLAttributes(raw)
	if err != nil {
		logFallback("html attributes", raw, err)
		return plainPart(raw)
	}
	return htmlAttributesPart{attrs: attrs}
}

// staticAttributesPart builds the hash for attributes with literal values.
func (p *printer) staticAttributesPart(attrs []haml.Attribute) part {
	return hashPart{entries: p.staticEntries(attrs)}
}

func (p *printer) staticEntries(attrs []haml.Attribute) []hashEntry {
	entries := make([]hashEntry, 0, len(attrs))
	for _, attr := range attrs {
		var value attributeValue
		switch v := attr.Value.(type) {
		case haml.StringValue:
			value.literal = ruby.Quote(string(v), p.quote)
		case haml.BoolValue:
			value.literal = strconv.FormatBool(bool(v))
		case haml.HashValue:
			value.hash = p.staticEntries(v)
			value.isHash = true
		}
		entries = append(entries, hashEntry{key: attr.Key, value: value})
	}
	return entries
}

// staticHTMLAttributes converts attributes with literal values to
// (key=value) entries.
func (p *printer) staticHTMLAttributes(attrs []haml.Attribute) []haml.HTMLAttribute {
	out := make([]haml.HTMLAttribute, 0, len(attrs))
	for _, attr := range attrs {
		switch v := attr.Value.(type) {
		case haml.StringValue:
			out = append(out, haml.HTMLAttribute{Key: attr.Key, Value: ruby.Quote(string(v), p.quote)})
		case haml.BoolValue:
			if v {
				out = append(out, haml.HTMLAttribute{Key: attr.Key})
			} else {
				out = append(out, haml.HTMLAttribute{Key: attr.Key, Value: "false"})
			}
		}
	}
	return out
}

// dynamicAttributesPart builds the part for a {...} attribute hash whose
// values are Ruby. Anything but a hash literal is kept as written.
func (p *printer) dynamicAttributesPart(raw string) part {
	if _, err := p.expr.Format(raw, p.MaxWidth()); err != nil {
		logFallback("attribute hash", raw, err)
		return plainPart(raw)
	}

	value := p.attributeValue(raw)
	if !value.isHash {
		return plainPart(raw)
	}
	return hashPart{entries: value.hash}
}

// attributeValue parses an attribute value: hashes recursively, string
// literals re-quoted, anything else as re-rendered Ruby.
func (p *printer) attributeValue(src string) attributeValue {
	if pairs, err := ruby.ParseHash(src); err == nil {
		entries := make([]hashEntry, 0, len(pairs))
		for _, pair := range pairs {
			entries = append(entries, hashEntry{key: pair.Key, value: p.attributeValue(pair.Value)})
		}
		return attributeValue{hash: entries, isHash: true}
	}

	if s, ok := ruby.ParseString(src); ok {
		return attributeValue{literal: ruby.Requote(s, p.quote)}
	}
	return attributeValue{literal: p.expression(src, p.MaxWidth())}
}

// printHash prints a hash. A top-level hash that breaks closes flush with
// its contents; nested hashes are padded with spaces.
func (p *printer) printHash(entries []hashEntry, level int) {
	if len(entries) == 0 {
		p.Text("{}")
		return
	}

	sep := ""
	if level > 0 {
		sep = " "
	}

	p.Group(func() {
		p.Text("{")
		p.Indent(func() {
			p.Group(func() {
				p.Breakable(sep)
				p.Seplist(len(entries), p.CommaBreakable, func(i int) {
					entry := entries[i]
					p.Text(p.hashKey(entry.key))
					p.Text(" ")
					if entry.value.isHash {
						p.printHash(entry.value.hash, level+1)
					} else {
						p.Text(entry.value.literal)
					}
				})
			})
		})
		p.Breakable(sep)
		p.Text("}")
	})
}

// hashKey renders a hash key as a label, quoting it when it is not a
// plain identifier.
func (p *printer) hashKey(key string) string {
	if strings.HasPrefix(key, "@") || strings.ContainsAny(key, "-:") || !ruby.IsIdentifier(key) {
		return ruby.Quote(key, p.quote) + ":"
	}
	return key + ":"
}

// flatHashWidth returns the width of a hash printed on one line.
func flatHashWidth(entries []hashEntry, level int) int {
	if len(entries) == 0 {
		return 2
	}
	width := 2
	if level > 0 {
		width += 2
	}
	for i, entry := range entries {
		if i > 0 {
			width += 2
		}
		width += uniseg.StringWidth(entry.key) + 2
		if entry.value.isHash {
			width += flatHashWidth(entry.value.hash, level+1)
		} else {
			width += uniseg.StringWidth(entry.value.literal)
		}
	}
	return width
}

// logFallback records a fragment that was kept as written.
func logFallback(what, src string, err error) {
	debug.Render("keeping %s as written: %v: %q", what, err, src)
}
