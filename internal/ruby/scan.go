// Package ruby scans the small subset of Ruby that appears inside HAML
// templates: attribute hashes, string literals and inline expressions.
//
// It is not a Ruby parser. It understands delimiters, string literals and
// interpolation well enough to split hash literals into pairs, re-quote
// string literals, and reject fragments whose brackets or strings do not
// balance.
package ruby

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnterminated is returned when a string or bracket is not closed.
var ErrUnterminated = errors.New("unterminated expression")

// SyntaxError describes a malformed fragment.
type SyntaxError struct {
	Offset  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("ruby: offset %d: %s", e.Offset, e.Message)
}

// closers maps opening delimiters to their closing counterpart.
var closers = map[byte]byte{
	'{': '}',
	'(': ')',
	'[': ']',
}

// SkipString returns the offset just past the string literal starting at
// src[i], which must be a single or double quote. Double-quoted strings may
// contain #{...} interpolation with nested strings and braces.
func SkipString(src string, i int) (int, error) {
	quote := src[i]
	j := i + 1
	for j < len(src) {
		switch c := src[j]; {
		case c == '\\':
			j += 2
		case c == quote:
			return j + 1, nil
		case quote == '"' && c == '#' && j+1 < len(src) && src[j+1] == '{':
			end, err := SkipBalanced(src, j+1)
			if err != nil {
				return 0, err
			}
			j = end
		default:
			j++
		}
	}
	return 0, fmt.Errorf("string starting at offset %d: %w", i, ErrUnterminated)
}

// SkipBalanced returns the offset just past the bracket that closes the
// opening bracket at src[i]. Strings and nested brackets of any kind are
// skipped.
func SkipBalanced(src string, i int) (int, error) {
	var stack []byte
	j := i
	for j < len(src) {
		c := src[j]
		switch c {
		case '"', '\'':
			end, err := SkipString(src, j)
			if err != nil {
				return 0, err
			}
			j = end
			continue
		case '{', '(', '[':
			stack = append(stack, closers[c])
		case '}', ')', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return 0, &SyntaxError{Offset: j, Message: fmt.Sprintf("unexpected %q", c)}
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return j + 1, nil
			}
		}
		j++
	}
	return 0, fmt.Errorf("bracket at offset %d: %w", i, ErrUnterminated)
}

// Check reports whether src is a well-formed fragment: every string is
// terminated and every bracket is matched.
func Check(src string) error {
	for i := 0; i < len(src); {
		switch c := src[i]; c {
		case '"', '\'':
			end, err := SkipString(src, i)
			if err != nil {
				return err
			}
			i = end
		case '{', '(', '[':
			end, err := SkipBalanced(src, i)
			if err != nil {
				return err
			}
			i = end
		case '}', ')', ']':
			return &SyntaxError{Offset: i, Message: fmt.Sprintf("unexpected %q", c)}
		default:
			i++
		}
	}
	return nil
}

// SplitTopLevel splits src on sep where sep is outside strings and
// brackets. Leading and trailing whitespace of each part is removed.
func SplitTopLevel(src string, sep byte) ([]string, error) {
	var parts []string
	start := 0
	for i := 0; i < len(src); {
		switch c := src[i]; {
		case c == '"' || c == '\'':
			end, err := SkipString(src, i)
			if err != nil {
				return nil, err
			}
			i = end
		case c == '{' || c == '(' || c == '[':
			end, err := SkipBalanced(src, i)
			if err != nil {
				return nil, err
			}
			i = end
		case c == '}' || c == ')' || c == ']':
			return nil, &SyntaxError{Offset: i, Message: fmt.Sprintf("unexpected %q", c)}
		case c == sep:
			parts = append(parts, strings.TrimSpace(src[start:i]))
			i++
			start = i
		default:
			i++
		}
	}
	return append(parts, strings.TrimSpace(src[start:])), nil
}

// IsIdentifier reports whether s can be written as a bare hash label.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_' || isLetter(c):
		case isDigit(c) && i > 0:
		default:
			return false
		}
	}
	return true
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
