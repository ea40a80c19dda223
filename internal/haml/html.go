package haml

import (
	"fmt"
	"strings"

	"github.com/grindlemire/hamlfmt/internal/ruby"
)

// HTMLAttribute is one entry of a (key=value ...) attribute list. Value is
// the raw source of the value and is empty for a bare name such as
// (checked).
type HTMLAttribute struct {
	Key   string
	Value string
}

// ParseHTMLAttributes splits a parenthesized attribute list, including
// its delimiters, into entries in source order.
func ParseHTMLAttributes(raw string) ([]HTMLAttribute, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) < 2 || raw[0] != '(' || raw[len(raw)-1] != ')' {
		return nil, fmt.Errorf("attribute list %q is not parenthesized", raw)
	}
	src := raw[1 : len(raw)-1]

	var attrs []HTMLAttribute
	i := skipSpace(src, 0)
	for i < len(src) {
		start := i
		for i < len(src) && isAttributeNameChar(src[i]) {
			i++
		}
		if i == start {
			return nil, fmt.Errorf("unexpected %q in attribute list", src[i])
		}
		attr := HTMLAttribute{Key: src[start:i]}

		i = skipSpace(src, i)
		if i < len(src) && src[i] == '=' {
			i = skipSpace(src, i+1)
			end, err := attributeValueEnd(src, i)
			if err != nil {
				return nil, err
			}
			if end == i {
				return nil, fmt.Errorf("missing value for attribute %q", attr.Key)
			}
			attr.Value = src[i:end]
			i = skipSpace(src, end)
		}
		attrs = append(attrs, attr)
	}
	return attrs, nil
}

// attributeValueEnd returns the end of the value starting at src[i]: a
// string literal, or a bare expression running to the next top-level
// whitespace.
func attributeValueEnd(src string, i int) (int, error) {
	if i < len(src) && (src[i] == '"' || src[i] == '\'') {
		return ruby.SkipString(src, i)
	}
	for i < len(src) && !isSpace(src[i]) {
		switch src[i] {
		case '"', '\'':
			end, err := ruby.SkipString(src, i)
			if err != nil {
				return 0, err
			}
			i = end
		case '(', '[', '{':
			end, err := ruby.SkipBalanced(src, i)
			if err != nil {
				return 0, err
			}
			i = end
		default:
			i++
		}
	}
	return i, nil
}

// FormatHTMLAttributes writes attrs back as a single-line list.
func FormatHTMLAttributes(attrs []HTMLAttribute) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, attr := range attrs {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(attr.Key)
		if attr.Value != "" {
			sb.WriteByte('=')
			sb.WriteString(attr.Value)
		}
	}
	sb.WriteByte(')')
	return sb.String()
}

func isAttributeNameChar(c byte) bool {
	return isNameChar(c) || c == ':' || c == '@' || c == '.'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}
