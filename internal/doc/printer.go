package doc

// DefaultIndent is the number of columns added by [Printer.Indent].
const DefaultIndent = 2

// Printer builds a document and lays it out at a maximum width.
//
// Builder methods append to the innermost open scope. Scopes are opened by
// the callback-taking methods ([Printer.Group], [Printer.Nest],
// [Printer.Indent], [Printer.IfBreak]) and closed when the callback
// returns.
type Printer struct {
	maxWidth int
	root     []*node
	target   *[]*node
}

// NewPrinter creates a Printer that targets the given line width.
func NewPrinter(maxWidth int) *Printer {
	p := &Printer{maxWidth: maxWidth}
	p.target = &p.root
	return p
}

// MaxWidth returns the target line width.
func (p *Printer) MaxWidth() int {
	return p.maxWidth
}

// Text appends literal text.
func (p *Printer) Text(s string) {
	if s == "" {
		return
	}
	p.push(&node{kind: kindText, text: s})
}

// Group appends a scope whose breakables either all print flat or all
// print broken, depending on whether the flat rendering fits.
func (p *Printer) Group(body func()) {
	n := &node{kind: kindGroup}
	p.push(n)
	p.within(&n.children, body)
}

// Nest appends a scope whose line breaks indent by n more columns.
func (p *Printer) Nest(n int, body func()) {
	nest := &node{kind: kindNest, indent: n}
	p.push(nest)
	p.within(&nest.children, body)
}

// Indent is Nest with [DefaultIndent] columns.
func (p *Printer) Indent(body func()) {
	p.Nest(DefaultIndent, body)
}

// Breakable appends an optional line break. When its group prints flat it
// renders as sep; otherwise it renders as a newline plus indentation.
func (p *Printer) Breakable(sep string) {
	p.push(&node{kind: kindBreakable, text: sep})
}

// ForceBreak appends a line break that always breaks. Every enclosing
// group is broken as a consequence.
func (p *Printer) ForceBreak() {
	p.push(&node{kind: kindBreakable, force: true})
}

// FillBreakable appends a breakable wrapped in its own group, so it breaks
// only when the content that follows it would not fit on the line.
func (p *Printer) FillBreakable(sep string) {
	p.Group(func() { p.Breakable(sep) })
}

// CommaBreakable appends a comma followed by a breakable space.
func (p *Printer) CommaBreakable() {
	p.Text(",")
	p.Breakable(" ")
}

// Seplist calls item for each index in [0, n), calling sep between items.
func (p *Printer) Seplist(n int, sep func(), item func(i int)) {
	for i := 0; i < n; i++ {
		if i > 0 {
			sep()
		}
		item(i)
	}
}

// FillList appends items separated by fill breakables.
func (p *Printer) FillList(items []string, sep string) {
	p.Seplist(len(items), func() { p.FillBreakable(sep) }, func(i int) {
		p.Text(items[i])
	})
}

// IfBreak appends content that depends on the mode of the enclosing group:
// broken is used when the group breaks, flat otherwise. Either callback may
// be nil.
func (p *Printer) IfBreak(broken, flat func()) {
	n := &node{kind: kindIfBreak}
	p.push(n)
	if broken != nil {
		p.within(&n.children, broken)
	}
	if flat != nil {
		p.within(&n.flat, flat)
	}
}

// push appends a node to the current scope.
func (p *Printer) push(n *node) {
	*p.target = append(*p.target, n)
}

// within runs body with target as the current scope.
func (p *Printer) within(target *[]*node, body func()) {
	saved := p.target
	p.target = target
	defer func() { p.target = saved }()
	body()
}
