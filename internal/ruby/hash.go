package ruby

import (
	"fmt"
	"strings"
)

// KeyStyle records how a hash key was written.
type KeyStyle int

const (
	KeyLabel       KeyStyle = iota // key: value
	KeyQuotedLabel                 // "key": value
	KeySymbol                      // :key => value
	KeyString                      // "key" => value
)

// Pair is one entry of a hash literal.
type Pair struct {
	Key   string   // decoded key name
	Style KeyStyle // how the key was written
	Value string   // raw value source, trimmed
}

// ParseHash parses src as a single hash literal, {...}, and returns its
// entries in source order. Values are returned as raw source. Entries whose
// key is not a literal (double splats, expression keys, interpolated
// strings) make the whole hash unparseable.
func ParseHash(src string) ([]Pair, error) {
	src = strings.TrimSpace(src)
	if src == "" || src[0] != '{' {
		return nil, &SyntaxError{Offset: 0, Message: "not a hash literal"}
	}
	end, err := SkipBalanced(src, 0)
	if err != nil {
		return nil, err
	}
	if end != len(src) {
		return nil, &SyntaxError{Offset: end, Message: "unexpected text after hash literal"}
	}

	entries, err := SplitTopLevel(src[1:len(src)-1], ',')
	if err != nil {
		return nil, err
	}

	var pairs []Pair
	for i, entry := range entries {
		if entry == "" {
			// {} and a trailing comma both leave one empty entry at the end.
			if i == len(entries)-1 {
				continue
			}
			return nil, &SyntaxError{Message: "empty hash entry"}
		}
		pair, err := parsePair(entry)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

// parsePair parses a single key/value entry.
func parsePair(entry string) (Pair, error) {
	var (
		key   string
		style KeyStyle
		rest  string
	)

	switch c := entry[0]; {
	case c == '"' || c == '\'':
		end, err := SkipString(entry, 0)
		if err != nil {
			return Pair{}, err
		}
		lit := String{Quote: c, Body: entry[1 : end-1]}
		decoded, ok := lit.Decode()
		if !ok {
			return Pair{}, &SyntaxError{Message: fmt.Sprintf("unsupported key %s", lit.Source())}
		}
		key = decoded
		after := entry[end:]
		if strings.HasPrefix(after, ":") && !strings.HasPrefix(after, "::") {
			style, rest = KeyQuotedLabel, after[1:]
		} else if r, ok := cutArrow(after); ok {
			style, rest = KeyString, r
		} else {
			return Pair{}, &SyntaxError{Message: fmt.Sprintf("missing value for key %q", key)}
		}

	case c == ':':
		name, n := symbolName(entry[1:])
		if n == 0 {
			return Pair{}, &SyntaxError{Message: fmt.Sprintf("unsupported key in %q", entry)}
		}
		r, ok := cutArrow(entry[1+n:])
		if !ok {
			return Pair{}, &SyntaxError{Message: fmt.Sprintf("missing => after :%s", name)}
		}
		key, style, rest = name, KeySymbol, r

	default:
		n := identLen(entry)
		if n == 0 || n >= len(entry) || entry[n] != ':' || strings.HasPrefix(entry[n:], "::") {
			return Pair{}, &SyntaxError{Message: fmt.Sprintf("unsupported key in %q", entry)}
		}
		key, style, rest = entry[:n], KeyLabel, entry[n+1:]
	}

	value := strings.TrimSpace(rest)
	if value == "" {
		return Pair{}, &SyntaxError{Message: fmt.Sprintf("missing value for key %q", key)}
	}
	return Pair{Key: key, Style: style, Value: value}, nil
}

// cutArrow strips leading whitespace and a => from s.
func cutArrow(s string) (string, bool) {
	s = strings.TrimLeft(s, " \t\r\n")
	if !strings.HasPrefix(s, "=>") {
		return "", false
	}
	return s[2:], true
}

// symbolName reads the name of a symbol after its colon, which may be an
// identifier or a string literal. Returns the name and the bytes consumed.
func symbolName(s string) (string, int) {
	if s != "" && (s[0] == '"' || s[0] == '\'') {
		end, err := SkipString(s, 0)
		if err != nil {
			return "", 0
		}
		decoded, ok := String{Quote: s[0], Body: s[1 : end-1]}.Decode()
		if !ok {
			return "", 0
		}
		return decoded, end
	}
	n := identLen(s)
	return s[:n], n
}

// identLen returns the length of the identifier at the start of s,
// including a trailing ? or !.
func identLen(s string) int {
	n := 0
	for n < len(s) && (s[n] == '_' || isLetter(s[n]) || (n > 0 && isDigit(s[n]))) {
		n++
	}
	if n > 0 && n < len(s) && (s[n] == '?' || s[n] == '!') {
		n++
	}
	return n
}
