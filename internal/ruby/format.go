package ruby

import (
	"strings"
)

// ExprFormatter re-renders a Ruby fragment embedded in a template. An error
// means the fragment could not be understood; callers then keep the
// original text.
type ExprFormatter interface {
	Format(src string, width int) (string, error)
}

// Formatter is the default ExprFormatter. It validates that the fragment is
// well formed and returns it with surrounding whitespace removed. Hash and
// string literals are normalized by the attribute formatter, not here.
type Formatter struct{}

var _ ExprFormatter = Formatter{}

// Format implements ExprFormatter. Width is accepted for interface
// compatibility; fragments are never wrapped.
func (Formatter) Format(src string, width int) (string, error) {
	if err := Check(src); err != nil {
		return "", err
	}
	return strings.TrimSpace(src), nil
}
