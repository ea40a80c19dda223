// Package formatter provides code formatting for .haml files.
package formatter

import (
	"github.com/grindlemire/hamlfmt/internal/haml"
	"github.com/grindlemire/hamlfmt/internal/ruby"
)

const (
	// DefaultMaxWidth is the default target line width.
	DefaultMaxWidth = 80
	// DefaultQuote is the default quote used for re-quoted strings.
	DefaultQuote = '"'
)

// Formatter formats HAML source code. A Formatter is immutable once
// created and safe for concurrent use.
type Formatter struct {
	maxWidth int
	quote    byte
	expr     ruby.ExprFormatter
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithMaxWidth sets the target maximum line width. Values below one are
// ignored.
func WithMaxWidth(width int) Option {
	return func(f *Formatter) {
		if width > 0 {
			f.maxWidth = width
		}
	}
}

// WithQuote sets the quote used for re-quoted string literals. Only '"'
// and '\'' are recognized; anything else is ignored.
func WithQuote(quote rune) Option {
	return func(f *Formatter) {
		if quote == '"' || quote == '\'' {
			f.quote = byte(quote)
		}
	}
}

// WithExprFormatter sets the collaborator used to re-render embedded Ruby
// expressions.
func WithExprFormatter(expr ruby.ExprFormatter) Option {
	return func(f *Formatter) {
		if expr != nil {
			f.expr = expr
		}
	}
}

// New creates a new Formatter with default settings.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		maxWidth: DefaultMaxWidth,
		quote:    DefaultQuote,
		expr:     ruby.Formatter{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// MaxWidth returns the target maximum line width.
func (f *Formatter) MaxWidth() int {
	return f.maxWidth
}

// Quote returns the quote used for re-quoted string literals.
func (f *Formatter) Quote() rune {
	return rune(f.quote)
}

// Format parses and reformats the given HAML source code.
// Returns the formatted code and any error encountered during parsing.
func (f *Formatter) Format(filename, source string) (string, error) {
	root, err := haml.Parse(filename, source)
	if err != nil {
		return "", err
	}
	return f.FormatTree(root, source), nil
}

// FormatTree renders an already parsed tree. source is the text root was
// parsed from; it is consulted for lines that are copied verbatim.
func (f *Formatter) FormatTree(root *haml.Node, source string) string {
	p := newPrinter(f, source)
	p.node(root)
	return p.Flush()
}

// FormatResult contains the result of formatting a file.
type FormatResult struct {
	// Content is the formatted content.
	Content string
	// Changed indicates if the content was different from the original.
	Changed bool
}

// FormatWithResult formats the source and indicates if it changed.
func (f *Formatter) FormatWithResult(filename, source string) (FormatResult, error) {
	formatted, err := f.Format(filename, source)
	if err != nil {
		return FormatResult{}, err
	}

	return FormatResult{
		Content: formatted,
		Changed: formatted != source,
	}, nil
}
