package ruby

import (
	"reflect"
	"testing"
)

func TestParseHash(t *testing.T) {
	type tc struct {
		src     string
		want    []Pair
		wantErr bool
	}

	tests := map[string]tc{
		"labels": {
			src: `{foo: "bar", baz: 1}`,
			want: []Pair{
				{Key: "foo", Style: KeyLabel, Value: `"bar"`},
				{Key: "baz", Style: KeyLabel, Value: "1"},
			},
		},
		"hash rockets": {
			src: `{:foo => "bar", "baz" => qux, :"data-x" => 1}`,
			want: []Pair{
				{Key: "foo", Style: KeySymbol, Value: `"bar"`},
				{Key: "baz", Style: KeyString, Value: "qux"},
				{Key: "data-x", Style: KeySymbol, Value: "1"},
			},
		},
		"quoted label": {
			src:  `{"@click": "open = true"}`,
			want: []Pair{{Key: "@click", Style: KeyQuotedLabel, Value: `"open = true"`}},
		},
		"nested": {
			src:  `{ data: { controller: "x" } }`,
			want: []Pair{{Key: "data", Style: KeyLabel, Value: `{ controller: "x" }`}},
		},
		"predicate label": {
			src:  `{checked?: true}`,
			want: []Pair{{Key: "checked?", Style: KeyLabel, Value: "true"}},
		},
		"trailing comma": {
			src:  "{a: 1,\n}",
			want: []Pair{{Key: "a", Style: KeyLabel, Value: "1"}},
		},
		"empty": {
			src: "{}",
		},
		"constant value": {
			src:  "{a: Foo::Bar}",
			want: []Pair{{Key: "a", Style: KeyLabel, Value: "Foo::Bar"}},
		},
		"method call":        {src: "{html_attrs('fr-fr')}", wantErr: true},
		"double splat":       {src: "{**attrs}", wantErr: true},
		"interpolated key":   {src: `{"a#{b}": 1}`, wantErr: true},
		"not a hash":         {src: "attrs", wantErr: true},
		"text after hash":    {src: "{a: 1}.merge(b)", wantErr: true},
		"missing value":      {src: "{a: }", wantErr: true},
		"empty middle entry": {src: "{a: 1,, b: 2}", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseHash(tt.src)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHash(%q) error = %v, wantErr %v", tt.src, err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseHash(%q) = %+v, want %+v", tt.src, got, tt.want)
			}
		})
	}
}

func TestFormatter(t *testing.T) {
	got, err := Formatter{}.Format("  foo(1, 2)  ", 80)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "foo(1, 2)" {
		t.Errorf("Format() = %q", got)
	}

	if _, err := (Formatter{}).Format("foo(", 80); err == nil {
		t.Error("expected an error for an unbalanced fragment")
	}
}
