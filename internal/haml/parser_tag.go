package haml

import (
	"errors"
	"strings"

	"github.com/grindlemire/hamlfmt/internal/ruby"
)

// tagBuilder accumulates the parts of a tag declaration.
type tagBuilder struct {
	tag     *Tag
	classes []string
	ids     []string
	attrs   []Attribute
	dynamic []HTMLAttribute
}

// parseTag parses a %name.class#id{...}(...)[...]<>/= value line.
func (p *Parser) parseTag(text string, pos Position) *Node {
	lineNo := pos.Line
	b := &tagBuilder{tag: &Tag{Name: "div"}}

	i := 0
	if text[0] == '%' {
		j := 1
		for j < len(text) && (isNameChar(text[j]) || text[j] == ':') {
			j++
		}
		b.tag.Name = text[1:j]
		b.tag.ExplicitName = true
		i = j
	}

	for i < len(text) && (text[i] == '.' || text[i] == '#') {
		j := i + 1
		for j < len(text) && isNameChar(text[j]) {
			j++
		}
		if j == i+1 {
			p.errors.Add(NewErrorWithHint(pos, "illegal element: classes and ids must have values", `escape the line with \`))
			return nil
		}
		if text[i] == '.' {
			b.classes = append(b.classes, text[i+1:j])
		} else {
			b.ids = append(b.ids, text[i+1:j])
		}
		i = j
	}

	var seenOld, seenNew, seenRef bool
sections:
	for i < len(text) {
		open := text[i]
		switch {
		case open == '{' && !seenOld, open == '(' && !seenNew, open == '[' && !seenRef:
		default:
			break sections
		}

		var (
			raw string
			err error
		)
		text, raw, err = p.balancedSection(text, i)
		if err != nil {
			p.errors.Add(NewErrorWithHint(pos, "unterminated attribute list", "close the "+string(open)+" opened on this line"))
			return nil
		}
		i += len(raw)

		switch open {
		case '{':
			seenOld = true
			b.addOld(raw)
		case '(':
			seenNew = true
			b.addNew(raw)
		case '[':
			seenRef = true
			b.tag.ObjectRef = raw
		}
	}
	end := p.idx // the last line consumed by multi-line attributes

	for i < len(text) && (text[i] == '<' || text[i] == '>') {
		if text[i] == '<' {
			b.tag.NukeInner = true
		} else {
			b.tag.NukeOuter = true
		}
		i++
	}
	if i < len(text) && text[i] == '/' {
		b.tag.SelfClosing = true
		i++
	}

	if err := p.parseTagValue(b.tag, text[i:], lineNo); err != nil {
		p.errors.Add(NewError(pos, err.Error()))
		return nil
	}
	if b.tag.SelfClosing && b.tag.HasValue() {
		p.errors.Add(NewError(pos, "self-closing tags can't have content"))
		return nil
	}
	if p.idx > end {
		end = p.idx
	}

	b.finish()
	return &Node{Kind: KindTag, Line: lineNo, EndLine: end, Tag: b.tag}
}

// balancedSection returns the bracketed section starting at text[i]. When
// the section is not closed on this line, following lines are appended to
// text until it is. Returns the possibly extended text and the section.
func (p *Parser) balancedSection(text string, i int) (string, string, error) {
	for {
		end, err := ruby.SkipBalanced(text, i)
		if err == nil {
			return text, text[i:end], nil
		}
		if !errors.Is(err, ruby.ErrUnterminated) || p.idx >= len(p.lines) {
			return text, "", err
		}
		text += "\n" + strings.TrimRight(p.lines[p.idx], " \t")
		p.idx++
	}
}

// parseTagValue parses the inline content that follows a tag declaration.
func (p *Parser) parseTagValue(t *Tag, rest string, lineNo int) error {
	if strings.TrimSpace(rest) == "" {
		return nil
	}

	for _, sigil := range scriptSigils {
		if !strings.HasPrefix(rest, sigil.prefix) {
			continue
		}
		code, _ := p.continued(strings.TrimSpace(rest[len(sigil.prefix):]), lineNo)
		if code == "" {
			return errors.New("there's no Ruby code for " + sigil.prefix + " to evaluate")
		}
		t.Value = code
		t.Parse = true
		t.EscapeHTML = sigil.escapeHTML
		t.Unescape = sigil.unescape
		t.Preserve = sigil.preserve
		return nil
	}

	switch {
	case strings.HasPrefix(rest, "& "):
		t.EscapeHTML = true
		rest = rest[1:]
	case strings.HasPrefix(rest, "! "):
		t.Unescape = true
		rest = rest[1:]
	case rest[0] != ' ' && rest[0] != '\t':
		return errors.New("illegal element: unexpected " + quoteRune(rest[0]) + " after tag")
	}

	text := strings.TrimSpace(rest)
	if strings.Contains(text, "#{") {
		t.Value = `"` + EscapeInterpolated(text) + `"`
		t.Parse = true
		return nil
	}
	t.Value = text
	return nil
}

func quoteRune(c byte) string {
	return "'" + string(c) + "'"
}

// addOld records a {...} attribute hash. Hashes made only of literal
// strings become static attributes; anything else stays dynamic.
func (b *tagBuilder) addOld(raw string) {
	pairs, err := ruby.ParseHash(raw)
	if err != nil {
		b.tag.DynamicAttributes.Old = raw
		return
	}

	values := make([]string, len(pairs))
	for i, pair := range pairs {
		lit, ok := ruby.ParseString(pair.Value)
		if !ok {
			b.tag.DynamicAttributes.Old = raw
			return
		}
		value, ok := lit.Decode()
		if !ok {
			b.tag.DynamicAttributes.Old = raw
			return
		}
		values[i] = value
	}

	for i, pair := range pairs {
		b.add(pair.Key, StringValue(values[i]))
	}
}

// addNew records a (...) attribute list. Quoted literals and bare names
// become static attributes; the rest stay dynamic.
func (b *tagBuilder) addNew(raw string) {
	attrs, err := ParseHTMLAttributes(raw)
	if err != nil {
		b.tag.DynamicAttributes.New = raw
		return
	}

	for _, attr := range attrs {
		if attr.Value == "" {
			b.add(attr.Key, BoolValue(true))
			continue
		}
		if lit, ok := ruby.ParseString(attr.Value); ok {
			if value, ok := lit.Decode(); ok {
				b.add(attr.Key, StringValue(value))
				continue
			}
		}
		b.dynamic = append(b.dynamic, attr)
	}

	if len(b.dynamic) > 0 {
		b.tag.DynamicAttributes.New = FormatHTMLAttributes(b.dynamic)
	}
}

// add records a static attribute. class values accumulate, ids join with
// an underscore, and other keys keep their last value.
func (b *tagBuilder) add(key string, value Value) {
	switch key {
	case "class":
		if s, ok := value.(StringValue); ok {
			b.classes = append(b.classes, string(s))
			return
		}
	case "id":
		if s, ok := value.(StringValue); ok {
			b.ids = append(b.ids, string(s))
			return
		}
	}

	for i := range b.attrs {
		if b.attrs[i].Key == key {
			b.attrs[i].Value = value
			return
		}
	}
	b.attrs = append(b.attrs, Attribute{Key: key, Value: value})
}

// finish assembles the static attributes: class, id, then the rest.
func (b *tagBuilder) finish() {
	var attrs []Attribute
	if len(b.classes) > 0 {
		attrs = append(attrs, Attribute{Key: "class", Value: StringValue(strings.Join(b.classes, " "))})
	}
	if len(b.ids) > 0 {
		attrs = append(attrs, Attribute{Key: "id", Value: StringValue(strings.Join(b.ids, "_"))})
	}
	b.tag.Attributes = append(attrs, b.attrs...)
}
