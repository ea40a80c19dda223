package haml

import (
	"strings"
)

// frame is an open node on the indentation stack.
type frame struct {
	indent      int   // indentation of the node's own line
	node        *Node // the node children attach to
	childIndent int   // indentation of the node's children, -1 until known
}

// Parser parses HAML source into a node tree.
type Parser struct {
	filename string
	lines    []string
	idx      int // index of the next line to read
	stack    []*frame
	errors   *ErrorList
}

// NewParser creates a Parser for the given source.
func NewParser(filename, source string) *Parser {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	lines := strings.Split(source, "\n")
	// A trailing newline does not start another line.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return &Parser{
		filename: filename,
		lines:    lines,
		errors:   NewErrorList(),
	}
}

// Parse parses source and returns its root node.
func Parse(filename, source string) (*Node, error) {
	return NewParser(filename, source).Parse()
}

// Errors returns any errors encountered during parsing.
func (p *Parser) Errors() *ErrorList {
	return p.errors
}

// Parse parses the whole document.
func (p *Parser) Parse() (*Node, error) {
	root := &Node{Kind: KindRoot}
	p.stack = []*frame{{indent: -1, node: root, childIndent: -1}}

	for p.idx < len(p.lines) {
		line := p.lines[p.idx]
		lineNo := p.idx + 1
		p.idx++

		if strings.TrimSpace(line) == "" {
			continue
		}

		indent := indentation(line)
		text := strings.TrimRight(line[indent:], " \t")

		parent := p.parentFor(indent, lineNo)
		if parent == nil {
			continue
		}

		node := p.parseLine(text, indent, lineNo)
		if node == nil {
			continue
		}

		p.attach(parent, node, indent)
	}

	if err := p.errors.Err(); err != nil {
		return nil, err
	}
	return root, nil
}

// parentFor pops frames that cannot contain a line at indent and returns
// the frame the line belongs to.
func (p *Parser) parentFor(indent, lineNo int) *frame {
	for len(p.stack) > 1 && p.stack[len(p.stack)-1].indent >= indent {
		p.stack = p.stack[:len(p.stack)-1]
	}
	parent := p.stack[len(p.stack)-1]

	pos := Position{File: p.filename, Line: lineNo, Column: indent + 1}
	if !canHaveChildren(parent.node) {
		p.errors.Add(NewErrorWithHint(pos,
			"illegal nesting: nesting within "+describe(parent.node)+" is illegal",
			"move this line out one level"))
		return nil
	}
	return parent
}

// attach adds node under parent, honoring continuations such as else and
// when, which belong to the preceding if or case.
func (p *Parser) attach(parent *frame, node *Node, indent int) {
	if prev := lastChild(parent.node); prev != nil && node.Kind == KindSilentScript {
		if opener := chainOpener(prev); opener != nil && IsContinuation(opener.Silent.Keyword, node.Silent.Keyword) {
			opener.Children = append(opener.Children, node)
			p.stack = append(p.stack, &frame{indent: indent, node: node, childIndent: -1})
			return
		}
	}

	if parent.childIndent == -1 {
		parent.childIndent = indent
	} else if parent.childIndent != indent {
		p.errors.Add(NewErrorWithHint(
			Position{File: p.filename, Line: node.Line, Column: indent + 1},
			"inconsistent indentation",
			"indent siblings by the same amount"))
		return
	}

	parent.node.Children = append(parent.node.Children, node)
	p.stack = append(p.stack, &frame{indent: indent, node: node, childIndent: -1})
}

// chainOpener returns the silent script that starts a continuation chain
// ending at n, or nil.
func chainOpener(n *Node) *Node {
	if n.Kind != KindSilentScript {
		return nil
	}
	switch n.Silent.Keyword {
	case "if", "unless", "case":
		return n
	}
	return nil
}

// IsContinuation reports whether a silent script with keyword child
// continues the block opened by keyword parent rather than nesting in it.
func IsContinuation(parent, child string) bool {
	switch parent {
	case "case":
		return child == "in" || child == "when" || child == "else"
	case "if", "unless":
		return child == "elsif" || child == "else"
	}
	return false
}

// parseLine parses one logical line. It may consume following lines that
// belong to it (filter bodies, comment blocks, multi-line attributes).
func (p *Parser) parseLine(text string, indent, lineNo int) *Node {
	pos := Position{File: p.filename, Line: lineNo, Column: indent + 1}

	switch {
	case strings.HasPrefix(text, "!!!"):
		return p.parseDoctype(text, lineNo)

	case strings.HasPrefix(text, "-#"):
		return p.parseHamlComment(text, indent, lineNo)

	case text[0] == '-':
		return p.parseSilentScript(text, lineNo)

	case text[0] == '/':
		return p.parseComment(text, lineNo)

	case text[0] == '\\':
		return &Node{Kind: KindPlain, Line: lineNo, EndLine: lineNo, Plain: &Plain{Text: text[1:]}}

	case text[0] == ':' && len(text) > 1 && isNameChar(text[1]):
		return p.parseFilter(text, indent, lineNo)

	case len(text) > 1 && (text[0] == '%' || text[0] == '.' || text[0] == '#') && isNameChar(text[1]):
		return p.parseTag(text, pos)

	case text[0] == '%':
		p.errors.Add(NewError(pos, "invalid tag: "+text))
		return nil
	}

	if script := p.parseScript(text, lineNo); script != nil {
		return script
	}

	return &Node{Kind: KindPlain, Line: lineNo, EndLine: lineNo, Plain: parsePlain(text)}
}

// parsePlain parses plain text, including the & and ! escaping sigils.
func parsePlain(text string) *Plain {
	switch {
	case strings.HasPrefix(text, "& "):
		return &Plain{Text: strings.TrimSpace(text[2:]), EscapeHTML: true}
	case strings.HasPrefix(text, "! "):
		return &Plain{Text: strings.TrimSpace(text[2:]), Unescape: true}
	}
	return &Plain{Text: text}
}

// scriptSigils are the prefixes of outputting scripts, on their own line
// or after a tag declaration.
var scriptSigils = []struct {
	prefix     string
	escapeHTML bool
	unescape   bool
	preserve   bool
}{
	{prefix: "&=", escapeHTML: true},
	{prefix: "!=", unescape: true},
	{prefix: "&~", escapeHTML: true, preserve: true},
	{prefix: "!~", unescape: true, preserve: true},
	{prefix: "="},
	{prefix: "~", preserve: true},
}

// parseScript parses an outputting script line, or returns nil if text is
// not one.
func (p *Parser) parseScript(text string, lineNo int) *Node {
	for _, sigil := range scriptSigils {
		if !strings.HasPrefix(text, sigil.prefix) {
			continue
		}
		code, end := p.continued(strings.TrimSpace(text[len(sigil.prefix):]), lineNo)
		return &Node{
			Kind:    KindScript,
			Line:    lineNo,
			EndLine: end,
			Script: &Script{
				Text:       code,
				EscapeHTML: sigil.escapeHTML,
				Unescape:   sigil.unescape,
				Preserve:   sigil.preserve,
			},
		}
	}
	return nil
}

// parseSilentScript parses a "- statement" line.
func (p *Parser) parseSilentScript(text string, lineNo int) *Node {
	code, end := p.continued(strings.TrimSpace(text[1:]), lineNo)
	return &Node{
		Kind:    KindSilentScript,
		Line:    lineNo,
		EndLine: end,
		Silent:  &SilentScript{Text: code, Keyword: keyword(code)},
	}
}

// continued joins lines that continue a script ending in a comma.
func (p *Parser) continued(code string, lineNo int) (string, int) {
	end := lineNo
	for strings.HasSuffix(code, ",") && p.idx < len(p.lines) {
		next := strings.TrimSpace(p.lines[p.idx])
		if next == "" {
			break
		}
		code += " " + next
		p.idx++
		end = p.idx
	}
	return code, end
}

// keyword returns the leading word of a Ruby statement.
func keyword(code string) string {
	n := 0
	for n < len(code) && (isLetter(code[n]) || code[n] == '_') {
		n++
	}
	return code[:n]
}

// parseDoctype parses a "!!! [version] [type] [encoding]" line.
func (p *Parser) parseDoctype(text string, lineNo int) *Node {
	fields := strings.Fields(text[3:])
	d := &Doctype{}
	if len(fields) > 0 && isVersion(fields[0]) {
		d.Version = fields[0]
		fields = fields[1:]
	}
	if len(fields) > 0 && isWord(fields[0]) {
		d.Type = strings.ToLower(fields[0])
		fields = fields[1:]
	}
	if len(fields) > 0 {
		d.Encoding = strings.Join(fields, " ")
	}
	return &Node{Kind: KindDoctype, Line: lineNo, EndLine: lineNo, Doctype: d}
}

// parseComment parses a "/ text", "/[cond]" or "/!" line.
func (p *Parser) parseComment(text string, lineNo int) *Node {
	rest := text[1:]
	c := &Comment{}
	if strings.HasPrefix(rest, "!") {
		c.Revealed = true
		rest = rest[1:]
	}
	if strings.HasPrefix(rest, "[") {
		if end := strings.IndexByte(rest, ']'); end >= 0 {
			c.Conditional = rest[:end+1]
			rest = rest[end+1:]
		}
	}
	c.Text = strings.TrimSpace(rest)
	if c.Conditional != "" && c.Text != "" {
		// "/[if IE] text" keeps the text as part of the condition line.
		c.Conditional += " " + c.Text
		c.Text = ""
	}
	return &Node{Kind: KindComment, Line: lineNo, EndLine: lineNo, Comment: c}
}

// parseHamlComment parses "-#" and its nested block.
func (p *Parser) parseHamlComment(text string, indent, lineNo int) *Node {
	first := strings.TrimSpace(text[2:])
	block, end := p.block(indent, lineNo)

	body := first
	if len(block) > 0 {
		body = strings.TrimSpace(first + "\n" + strings.Join(block, "\n"))
	}
	return &Node{Kind: KindHamlComment, Line: lineNo, EndLine: end, HamlComment: &HamlComment{Text: body}}
}

// parseFilter parses ":name" and its nested block.
func (p *Parser) parseFilter(text string, indent, lineNo int) *Node {
	n := 1
	for n < len(text) && isNameChar(text[n]) {
		n++
	}
	block, end := p.block(indent, lineNo)
	body := ""
	if len(block) > 0 {
		body = strings.Join(block, "\n") + "\n"
	}
	return &Node{Kind: KindFilter, Line: lineNo, EndLine: end, Filter: &Filter{Name: text[1:n], Text: body}}
}

// block consumes the lines nested deeper than indent, dedented to their
// common indentation. Trailing blank lines are left for the main loop.
// Returns the lines and the last line number consumed.
func (p *Parser) block(indent, lineNo int) ([]string, int) {
	start := p.idx
	last := start // one past the last non-blank nested line
	for i := start; i < len(p.lines); i++ {
		line := p.lines[i]
		if strings.TrimSpace(line) == "" {
			continue
		}
		if indentation(line) <= indent {
			break
		}
		last = i + 1
	}
	if last == start {
		return nil, lineNo
	}

	lines := p.lines[start:last]
	common := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if w := indentation(line); common == -1 || w < common {
			common = w
		}
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out[i] = strings.TrimRight(line[common:], " \t")
	}
	p.idx = last
	return out, last
}

// canHaveChildren reports whether lines may be nested under n.
func canHaveChildren(n *Node) bool {
	switch n.Kind {
	case KindRoot, KindScript, KindSilentScript, KindComment:
		return true
	case KindTag:
		return !n.Tag.HasValue() && !n.Tag.SelfClosing
	}
	return false
}

// describe names a node for error messages.
func describe(n *Node) string {
	switch n.Kind {
	case KindTag:
		if n.Tag.SelfClosing {
			return "a self-closing tag"
		}
		return "a tag with inline content"
	case KindPlain:
		return "plain text"
	case KindDoctype:
		return "a doctype"
	case KindHamlComment:
		return "a haml comment"
	case KindFilter:
		return "a filter"
	}
	return n.Kind.String()
}

func lastChild(n *Node) *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

// indentation returns the number of leading spaces and tabs.
func indentation(line string) int {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return n
}

func isVersion(s string) bool {
	if s == "" || !isDigit(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isDigit(s[i]) && s[i] != '.' {
			return false
		}
	}
	return true
}

func isWord(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isLetter(s[i]) {
			return false
		}
	}
	return s != ""
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// isNameChar reports whether c may appear in tag, class, id and filter
// names.
func isNameChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_' || c == '-'
}
