package haml

import "fmt"

// Kind identifies the variant of a [Node]. The set of kinds is closed.
type Kind int

const (
	KindRoot         Kind = iota // document root
	KindTag                      // %p.foo#bar{...} element
	KindPlain                    // plain text line
	KindScript                   // = expr (outputting Ruby)
	KindSilentScript             // - stmt (control Ruby)
	KindComment                  // / markup comment
	KindHamlComment              // -# non-rendering comment
	KindDoctype                  // !!! doctype
	KindFilter                   // :name embedded block
)

var kindNames = map[Kind]string{
	KindRoot:         "root",
	KindTag:          "tag",
	KindPlain:        "plain",
	KindScript:       "script",
	KindSilentScript: "silent_script",
	KindComment:      "comment",
	KindHamlComment:  "haml_comment",
	KindDoctype:      "doctype",
	KindFilter:       "filter",
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node is one element of a parsed template. Exactly one payload field is
// set, matching Kind; Root has none.
type Node struct {
	Kind Kind
	// Line is the 1-based source line the node starts on (0 for Root).
	Line int
	// EndLine is the last source line of the node's own text, not
	// counting children. Equal to Line for single-line nodes.
	EndLine  int
	Children []*Node

	Tag         *Tag
	Plain       *Plain
	Script      *Script
	Silent      *SilentScript
	Comment     *Comment
	HamlComment *HamlComment
	Doctype     *Doctype
	Filter      *Filter
}

// LastLine returns the last source line covered by the node, including
// its children.
func (n *Node) LastLine() int {
	if len(n.Children) > 0 {
		return n.Children[len(n.Children)-1].LastLine()
	}
	if n.EndLine > n.Line {
		return n.EndLine
	}
	return n.Line
}

// Tag is the payload of a KindTag node.
type Tag struct {
	Name              string
	ExplicitName      bool        // written as %div rather than implied
	Attributes        []Attribute // static: class, id, then source order
	DynamicAttributes DynamicAttributes
	ObjectRef         string // raw [...] text; empty when absent
	NukeOuter         bool   // >
	NukeInner         bool   // <
	SelfClosing       bool   // /
	Value             string // inline content; empty when absent
	Parse             bool   // Value is a Ruby expression

	// Sigils preceding a parsed value.
	EscapeHTML bool // &=
	Unescape   bool // !=
	Preserve   bool // ~
}

// HasValue reports whether the tag carries inline content.
func (t *Tag) HasValue() bool {
	return t.Value != ""
}

// Attribute returns the static attribute with the given key.
func (t *Tag) Attribute(key string) (Value, bool) {
	for _, attr := range t.Attributes {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return nil, false
}

// DynamicAttributes holds attribute lists whose values are Ruby
// expressions, as raw source text including delimiters.
type DynamicAttributes struct {
	New string // (key=value ...) HTML style
	Old string // {key: value} hash style
}

// Attribute is a static key/value pair.
type Attribute struct {
	Key   string
	Value Value
}

// Value is a static attribute value: [StringValue], [BoolValue] or
// [HashValue].
type Value interface {
	value()
}

// StringValue is a decoded string literal.
type StringValue string

// BoolValue is a boolean attribute such as (checked).
type BoolValue bool

// HashValue is a nested mapping such as data: {...}.
type HashValue []Attribute

func (StringValue) value() {}
func (BoolValue) value()   {}
func (HashValue) value()   {}

// Plain is the payload of a KindPlain node.
type Plain struct {
	Text       string
	EscapeHTML bool // & text
	Unescape   bool // ! text
}

// Script is the payload of a KindScript node.
type Script struct {
	Text       string
	EscapeHTML bool // &=
	Unescape   bool // !=
	Preserve   bool // ~
}

// SilentScript is the payload of a KindSilentScript node.
type SilentScript struct {
	Text    string
	Keyword string // first word of Text, e.g. "if", "else", "case"
}

// Comment is the payload of a KindComment node.
type Comment struct {
	Text        string
	Conditional string // e.g. "[if IE]"
	Revealed    bool   // /!
}

// HamlComment is the payload of a KindHamlComment node.
type HamlComment struct {
	Text string
}

// Doctype is the payload of a KindDoctype node.
type Doctype struct {
	Type     string // lowercased, e.g. "strict", "xml"
	Version  string // e.g. "5", "1.1"
	Encoding string
}

// Filter is the payload of a KindFilter node.
type Filter struct {
	Name string
	Text string
}
