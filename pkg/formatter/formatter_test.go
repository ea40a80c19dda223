package formatter

import (
	"errors"
	"strings"
	"testing"

	"github.com/grindlemire/hamlfmt/internal/haml"
)

// TestFormat tests formatting of each kind of node.
func TestFormat(t *testing.T) {
	type tc struct {
		input string
		want  string // defaults to input
		opts  []Option
	}

	tests := map[string]tc{
		// Tags
		"plain div":                   {input: "%div\n"},
		"div with value":              {input: "%div Hello, world!\n"},
		"class":                       {input: "%p.foo\n"},
		"multiple classes":            {input: "%p.foo.bar.baz\n"},
		"id":                          {input: "%p#foo\n"},
		"classes and id":              {input: "%p.foo.bar#baz\n"},
		"explicit div with shorthand": {input: "%div.foo.bar#baz\n"},
		"implicit div":                {input: ".foo\n"},
		"self closing":                {input: "%br/\n"},
		"nuke outer whitespace":       {input: "%p>= \"Foo\\nBar\"\n"},
		"nuke inner whitespace":       {input: "%p<= \"Foo\\nBar\"\n"},
		"nuke inner with children":    {input: "%blockquote<\n  %div\n    Foo!\n"},
		"dynamic attributes call":     {input: "%span{html_attrs('fr-fr')}\n"},
		"dynamic attributes nested":   {input: "%div{data: { controller: \"lesson-evaluation\" }}\n"},
		"dynamic attributes integers": {input: "%span{foo: 1}\n"},
		"html style dynamic":          {input: "%img(title=@title alt=@alt)/\n"},
		"html style boolean":          {input: "%span(foo)\n", want: "%span{foo: true}\n"},
		"static attributes with at":   {input: "%span{\"@click\": \"open = true\"}\n"},
		"hash rocket becomes label":   {input: "%span{:foo => \"bar\"}\n", want: "%span{foo: \"bar\"}\n"},
		"string key becomes label":    {input: "%span{\"foo\" => \"bar\"}\n", want: "%span{foo: \"bar\"}\n"},
		"object reference":            {input: "%div[@user, :greeting]\n  %bar[290]/\n  Hello!\n"},
		"html style strings": {
			input: "%section(xml:lang=\"en\" title=\"title\")\n",
			want:  "%section{\"xml:lang\": \"en\", title: \"title\"}\n",
		},
		"quotes in strings": {
			input: "%div{title: 'escape \" quotes'}\n",
			want:  "%div{title: \"escape \\\" quotes\"}\n",
		},
		"interpolation in value": {
			input: "%p <small>hello</small>\"#{1 + 2} little pigs\"\n",
		},
		"interpolated script value becomes text": {
			input: "%p= \"Hello #{name}\"\n",
			want:  "%p Hello #{name}\n",
		},
		"script value with escapes stays script": {
			input: "%p= \"a\\nb #{x}\"\n",
		},
		"preserve value":        {input: "%p~ foo\n"},
		"escape html value":     {input: "%p&= foo\n"},
		"preserve escape value": {input: "%p&~ foo\n"},
		"unescape value":        {input: "%p!= foo\n"},
		"escaped text value":    {input: "%p& <b>\n"},
		"class from hash merges": {
			input: "%p.a{class: \"b\"}\n",
			want:  "%p.a.b\n",
		},
		"unsafe class stays in hash": {
			input: "%p{class: \"a@b\"}\n",
		},
		"static joins dynamic hash": {
			input: "%a(href=\"x\"){data: foo}\n",
			want:  "%a{href: \"x\", data: foo}\n",
		},
		"static joins html list when hash is opaque": {
			input: "%a(title=@t href=\"x\"){attrs}\n",
			want:  "%a(title=@t href=\"x\"){attrs}\n",
		},
		"html dynamic before static hash": {
			input: "%a(href=\"x\" title=@t)\n",
			want:  "%a(title=@t){href: \"x\"}\n",
		},
		"multi-line hash is joined": {
			input: "%a{href: url,\n   title: \"x\"}\n%p\n",
			want:  "%a{href: url, title: \"x\"}\n%p\n",
		},
		"empty nested hash": {
			input: "%div{data: {}}\n",
		},

		// Scripts
		"script":                {input: "= foo\n"},
		"script preserve":       {input: "~ foo\n"},
		"script escape html":    {input: "&= foo\n"},
		"script preserve html":  {input: "&~ foo\n"},
		"script unescape":       {input: "!= hello\n"},
		"script trims":          {input: "=    foo   \n", want: "= foo\n"},
		"script with children":  {input: "= form_for @user do |f|\n  = f.text_field :name\n"},
		"script continued line": {input: "= link_to \"Home\",\n  root_path\n", want: "= link_to \"Home\", root_path\n"},

		// Silent scripts
		"silent script": {input: "- foo\n"},
		"case when else": {
			input: "- case foo\n- when bar\n  bar\n- when baz\n  baz\n- else\n  qux\n",
		},
		"case in": {
			input: "- case foo\n- in bar\n  bar\n- in baz\n  baz\n",
		},
		"if elsif else": {
			input: "- if foo\n  foo\n- elsif bar\n  bar\n- else\n  baz\n",
		},
		"unless else": {
			input: "- unless foo\n  foo\n- elsif bar\n  bar\n- else\n  baz\n",
		},
		"nested while": {
			input: "- while foo\n  - while bar\n    baz\n",
		},
		"nested if else": {
			input: "- if a\n  - if b\n    x\n  - else\n    y\n- else\n  z\n",
		},
		"blank line before else": {
			input: "- if a\n  x\n\n\n- else\n  y\n",
			want:  "- if a\n  x\n\n- else\n  y\n",
		},

		// Comments
		"comment":            {input: "/ This is the peanutbutterjelly element\n"},
		"comment multi line": {input: "/\n  This doesn't render, because it's commented out!\n"},
		"conditional":        {input: "/[if IE]\n  Get Firefox\n"},
		"revealed":           {input: "/![if !IE]\n  You are not using Internet Explorer, or are using version 10+.\n"},

		// Haml comments
		"haml comment empty":     {input: "-#\n"},
		"haml comment same line": {input: "-# comment\n"},
		"haml comment multi line": {
			input: "-#\n  this is a\n    # multi line\n  comment\n",
		},
		"haml comment spacing": {input: "-#       foobar      \n", want: "-# foobar\n"},
		"haml comment text moves below": {
			input: "-# first\n  second\n",
			want:  "-#\n  first\n  second\n",
		},

		// Doctypes
		"doctype basic":    {input: "!!! Basic\n"},
		"doctype frameset": {input: "!!! Frameset\n"},
		"doctype mobile":   {input: "!!! Mobile\n"},
		"doctype rdfa":     {input: "!!! RDFa\n"},
		"doctype strict":   {input: "!!! Strict\n"},
		"doctype xml":      {input: "!!! XML\n"},
		"doctype lowercase": {
			input: "!!! xml\n",
			want:  "!!! XML\n",
		},
		"doctype encoding": {input: "!!! XML iso-8859-1\n"},
		"doctype 1.1":      {input: "!!! 1.1\n"},
		"doctype 5":        {input: "!!! 5\n"},
		"doctype misc":     {input: "!!! foo\n"},
		"doctype empty":    {input: "!!!\n"},

		// Filters
		"filter haml":       {input: ":haml\n  -# comment\n"},
		"filter custom":     {input: ":python\n  def foo:\n    bar\n"},
		"filter javascript": {input: ":javascript\n  1 + 1;\n"},
		"filter no blank lines added": {
			input: "%html\n  %head\n    :javascript\n      console.log(\"This is inline script.\");\n  %body\n    = yield\n",
		},
		"filter keeps blank line after": {
			input: "%html\n  %head\n    :javascript\n      console.log(\"This is inline script.\");\n\n  %body\n    = yield\n",
		},
		"filter interior blank lines": {
			input: ":markdown\n  # Title\n\n  Body\n",
		},
		"filter trailing spaces": {
			input: ":css\n    a { color: red; }   \n",
			want:  ":css\n  a { color: red; }\n",
		},

		// Plain text
		"plain":             {input: "plain\n"},
		"escapes percent":   {input: "\\%\n"},
		"escapes period":    {input: "\\.\n"},
		"escapes equals":    {input: "\\= not code\n"},
		"unescape literal":  {input: "! hello\n"},
		"escape html plain": {input: "& <b>\n"},
		"keeps blank lines": {input: "plain\n\nplain\n"},
		"keeps nested blank lines": {
			input: "%div\n  plain\n\n  plain\n",
		},
		"collapses blank lines": {
			input: "%p\n\n\n\n%span\n",
			want:  "%p\n\n%span\n",
		},
		"no blank line when adjacent": {
			input: "%p\n%span\n",
		},
		"literal line kept verbatim": {
			input: "!=   raw   \n",
			want:  "!=   raw\n",
		},
		"reindents": {
			input: "%div\n    %p\n        text\n",
			want:  "%div\n  %p\n    text\n",
		},
		"empty document": {input: "", want: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			want := tt.want
			if want == "" {
				want = tt.input
			}

			got, err := New(tt.opts...).Format("test.haml", tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != want {
				t.Errorf("Format() mismatch\ninput:\n%s\ngot:\n%s\nwant:\n%s", tt.input, got, want)
			}
		})
	}
}

// TestFormatQuote tests re-quoting with the single quote preference.
func TestFormatQuote(t *testing.T) {
	type tc struct {
		input string
		want  string
	}

	tests := map[string]tc{
		"nested hash": {
			input: "%div{data: { controller: \"lesson-evaluation\" }}\n",
			want:  "%div{data: { controller: 'lesson-evaluation' }}\n",
		},
		"html style strings": {
			input: "%section(xml:lang=\"en\" title=\"title\")\n",
			want:  "%section{'xml:lang': 'en', title: 'title'}\n",
		},
		"interpolation keeps double quotes": {
			input: "%div{style: \"background: center/cover url(#{url_for(page.resource.file)})\"}\n",
			want:  "%div{style: \"background: center/cover url(#{url_for(page.resource.file)})\"}\n",
		},
		"internal single quote is escaped": {
			input: "%a{href: \"it's\", title: \"x\"}\n",
			want:  "%a{href: 'it\\'s', title: 'x'}\n",
		},
		"dynamic value with single quote": {
			input: "%a{title: \"it's\", data: foo}\n",
			want:  "%a{title: 'it\\'s', data: foo}\n",
		},
		"control characters stay double quoted": {
			input: "%a{title: \"a\\tb\", data: foo}\n",
			want:  "%a{title: \"a\\tb\", data: foo}\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := New(WithQuote('\'')).Format("test.haml", tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

// TestFormatWidth tests line breaking of long declarations.
func TestFormatWidth(t *testing.T) {
	type tc struct {
		input string
		want  string
		width int
	}

	long := strings.Repeat("a", 80)

	tests := map[string]tc{
		"long declaration before text": {
			input: "%button{ data: { current: " + long + " } } foo\n",
			want: "%button{\n" +
				"  data: {\n" +
				"    current: " + long + "\n" +
				"  }\n" +
				"}\n" +
				"  foo\n",
		},
		"html attributes fill": {
			input: "%img(src=@src alt=@alt title=@title data-x=@x)\n",
			want:  "%img(src=@src alt=@alt\n    title=@title data-x=@x)\n",
			width: 30,
		},
		"text moved below is escaped": {
			input: "%p{a: b, c: d, e: f} = not code\n",
			want:  "%p{a: b, c: d, e: f}\n  \\= not code\n",
			width: 20,
		},
		"script value moves below": {
			input: "%p{a: b, c: d, e: f}= value\n",
			want:  "%p{a: b, c: d, e: f}\n  = value\n",
			width: 20,
		},
		"hash breaks one entry per line": {
			input: "%div{alpha: one, beta: two, gamma: three}\n",
			want:  "%div{\n  alpha: one,\n  beta: two,\n  gamma: three\n}\n",
			width: 30,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var opts []Option
			if tt.width > 0 {
				opts = append(opts, WithMaxWidth(tt.width))
			}
			f := New(opts...)

			got, err := f.Format("test.haml", tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}

			again, err := f.Format("test.haml", got)
			if err != nil {
				t.Fatalf("reformat: unexpected error: %v", err)
			}
			if again != got {
				t.Errorf("not idempotent\nfirst:\n%s\nsecond:\n%s", got, again)
			}
		})
	}
}

// failingExpr rejects every expression.
type failingExpr struct{}

func (failingExpr) Format(src string, width int) (string, error) {
	return "", errors.New("cannot parse")
}

// TestFormatFallback tests that unparseable embedded Ruby is kept as
// written.
func TestFormatFallback(t *testing.T) {
	type tc struct {
		input string
	}

	tests := map[string]tc{
		"attribute hash":   {input: "%span{ :foo=>1,  bar: baz(1,2) }\n"},
		"tag value":        {input: "%p= foo(  1 )\n"},
		"nested with body": {input: "%div{ a:1 }\n  %p text\n"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := New(WithExprFormatter(failingExpr{})).Format("test.haml", tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.input {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.input)
			}
		})
	}
}

func TestFormatParseError(t *testing.T) {
	_, err := New().Format("bad.haml", "%p text\n  %span nested\n")
	if err == nil {
		t.Fatal("expected an error")
	}

	var list *haml.ErrorList
	if !errors.As(err, &list) {
		t.Fatalf("error is %T, want *haml.ErrorList", err)
	}
	if !strings.HasPrefix(err.Error(), "bad.haml:2:3: error: illegal nesting") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestFormatTreeUnsupportedKind(t *testing.T) {
	root := &haml.Node{Kind: haml.KindRoot, Children: []*haml.Node{{Kind: haml.Kind(99), Line: 1}}}

	defer func() {
		r := recover()
		err, ok := r.(*haml.UnsupportedKindError)
		if !ok {
			t.Fatalf("recovered %v, want *haml.UnsupportedKindError", r)
		}
		if err.Kind != haml.Kind(99) {
			t.Errorf("Kind = %v", err.Kind)
		}
	}()

	New().FormatTree(root, "")
}

func TestFormatWithResult(t *testing.T) {
	type tc struct {
		input       string
		wantChanged bool
	}

	tests := map[string]tc{
		"already formatted": {input: "%p.foo\n  text\n", wantChanged: false},
		"needs formatting":  {input: "%p.foo\n    text\n", wantChanged: true},
		"missing newline":   {input: "%p.foo", wantChanged: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			res, err := New().FormatWithResult("test.haml", tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Changed != tt.wantChanged {
				t.Errorf("Changed = %v, want %v (content %q)", res.Changed, tt.wantChanged, res.Content)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	f := New()
	if f.MaxWidth() != DefaultMaxWidth || f.Quote() != DefaultQuote {
		t.Errorf("defaults = %d %q", f.MaxWidth(), f.Quote())
	}

	f = New(WithMaxWidth(0), WithQuote('`'), WithExprFormatter(nil))
	if f.MaxWidth() != DefaultMaxWidth || f.Quote() != DefaultQuote || f.expr == nil {
		t.Errorf("invalid options were applied: %d %q", f.MaxWidth(), f.Quote())
	}

	f = New(WithMaxWidth(120), WithQuote('\''))
	if f.MaxWidth() != 120 || f.Quote() != '\'' {
		t.Errorf("options = %d %q", f.MaxWidth(), f.Quote())
	}
}
