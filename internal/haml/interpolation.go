package haml

import (
	"strings"

	"github.com/grindlemire/hamlfmt/internal/ruby"
)

// EscapeInterpolated escapes plain text for use as the body of a
// double-quoted Ruby string. Code inside #{...} is copied unchanged.
func EscapeInterpolated(text string) string {
	var sb strings.Builder
	for i := 0; i < len(text); i++ {
		if end := interpolationEnd(text, i); end > i {
			sb.WriteString(text[i:end])
			i = end - 1
			continue
		}
		if c := text[i]; c == '\\' || c == '"' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(text[i])
	}
	return sb.String()
}

// UnescapeInterpolated reverses EscapeInterpolated. Escapes other than \\
// and \" are left as written.
func UnescapeInterpolated(body string) string {
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		if end := interpolationEnd(body, i); end > i {
			sb.WriteString(body[i:end])
			i = end - 1
			continue
		}
		if body[i] == '\\' && i+1 < len(body) {
			if next := body[i+1]; next == '\\' || next == '"' {
				sb.WriteByte(next)
			} else {
				sb.WriteString(body[i : i+2])
			}
			i++
			continue
		}
		sb.WriteByte(body[i])
	}
	return sb.String()
}

// interpolationEnd returns the offset just past the #{...} starting at
// s[i], or i when there is none.
func interpolationEnd(s string, i int) int {
	if s[i] != '#' || i+1 >= len(s) || s[i+1] != '{' {
		return i
	}
	end, err := ruby.SkipBalanced(s, i+1)
	if err != nil {
		return i
	}
	return end
}
