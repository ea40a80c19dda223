package haml

import (
	"strings"
	"testing"
)

func TestDumpWraps(t *testing.T) {
	root, err := Parse("test.haml", "%p.a\n  = foo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	narrow := Dump(root, 20)
	if !strings.HasPrefix(narrow, "(root\n  children=[") {
		t.Errorf("narrow dump did not break after the kind:\n%s", narrow)
	}
	if flat := Dump(root, 1000); strings.Count(flat, "\n") != 1 {
		t.Errorf("wide dump is not on one line: %q", flat)
	}
}

func TestDumpEmpty(t *testing.T) {
	if got := Dump(&Node{Kind: KindRoot}, 80); got != "(root)\n" {
		t.Errorf("Dump() = %q", got)
	}
}

func TestDumpUnsupportedKind(t *testing.T) {
	defer func() {
		if _, ok := recover().(*UnsupportedKindError); !ok {
			t.Error("expected an *UnsupportedKindError panic")
		}
	}()
	Dump(&Node{Kind: Kind(42)}, 80)
}
