package ruby

import (
	"fmt"
	"strings"
)

// String is a single string literal.
type String struct {
	Quote byte   // ' or "
	Body  string // raw source between the quotes
}

// Source returns the literal as written.
func (s String) Source() string {
	return string(s.Quote) + s.Body + string(s.Quote)
}

// Interpolated reports whether the literal contains #{}, #@ or #$
// interpolation.
func (s String) Interpolated() bool {
	if s.Quote != '"' {
		return false
	}
	return hasInterpolation(s.Body)
}

// hasInterpolation reports whether a double-quoted body interpolates.
func hasInterpolation(body string) bool {
	for i := 0; i < len(body)-1; i++ {
		switch body[i] {
		case '\\':
			i++
		case '#':
			switch body[i+1] {
			case '{', '@', '$':
				return true
			}
		}
	}
	return false
}

// ParseString parses src as exactly one string literal.
func ParseString(src string) (String, bool) {
	src = strings.TrimSpace(src)
	if len(src) < 2 || (src[0] != '"' && src[0] != '\'') {
		return String{}, false
	}
	end, err := SkipString(src, 0)
	if err != nil || end != len(src) {
		return String{}, false
	}
	return String{Quote: src[0], Body: src[1 : len(src)-1]}, true
}

// doubleEscapes maps escape letters understood by Decode to their value.
var doubleEscapes = map[byte]byte{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'f':  '\f',
	'v':  '\v',
	'a':  '\a',
	'b':  '\b',
	'e':  0x1b,
	's':  ' ',
	'0':  0,
	'\\': '\\',
	'"':  '"',
	'\'': '\'',
	'#':  '#',
}

// Decode returns the value of the literal. It fails for interpolated
// strings and for escapes it does not understand, since those cannot be
// re-encoded faithfully.
func (s String) Decode() (string, bool) {
	var sb strings.Builder
	body := s.Body
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			sb.WriteByte(c)
			continue
		}
		next := body[i+1]
		if s.Quote == '\'' {
			// Only \\ and \' are escapes in single quotes.
			if next == '\\' || next == '\'' {
				sb.WriteByte(next)
				i++
			} else {
				sb.WriteByte(c)
			}
			continue
		}
		v, ok := doubleEscapes[next]
		if !ok || (next == '0' && i+2 < len(body) && isDigit(body[i+2])) {
			return "", false
		}
		sb.WriteByte(v)
		i++
	}
	if s.Interpolated() {
		return "", false
	}
	return sb.String(), true
}

// Quote encodes value as a string literal using quote. Values containing
// control characters are always double quoted, since single quotes cannot
// express them.
func Quote(value string, quote byte) string {
	if quote == '\'' && hasControl(value) {
		quote = '"'
	}

	var sb strings.Builder
	sb.WriteByte(quote)
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c == '\\' || c == quote:
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case quote == '\'':
			sb.WriteByte(c)
		case c == '#' && i+1 < len(value) && (value[i+1] == '{' || value[i+1] == '@' || value[i+1] == '$'):
			sb.WriteString(`\#`)
		case c == 0 && i+1 < len(value) && isDigit(value[i+1]):
			sb.WriteString(`\x00`)
		case c < 0x20 || c == 0x7f:
			sb.WriteString(controlEscape(c))
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte(quote)
	return sb.String()
}

// Requote rewrites a literal to use quote when that does not change its
// meaning; otherwise the literal is returned as written.
func Requote(s String, quote byte) string {
	if s.Quote == quote {
		return s.Source()
	}
	value, ok := s.Decode()
	if !ok {
		return s.Source()
	}
	return Quote(value, quote)
}

// RequoteSource is Requote for raw literal source. Text that is not a
// single string literal is returned unchanged.
func RequoteSource(src string, quote byte) string {
	s, ok := ParseString(src)
	if !ok {
		return src
	}
	return Requote(s, quote)
}

func hasControl(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] == 0x7f {
			return true
		}
	}
	return false
}

func controlEscape(c byte) string {
	switch c {
	case '\n':
		return `\n`
	case '\t':
		return `\t`
	case '\r':
		return `\r`
	case '\f':
		return `\f`
	case '\v':
		return `\v`
	case '\a':
		return `\a`
	case '\b':
		return `\b`
	case 0x1b:
		return `\e`
	case 0:
		return `\0`
	}
	return fmt.Sprintf(`\x%02X`, c)
}
