package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grindlemire/hamlfmt/pkg/formatter"
)

func TestParse(t *testing.T) {
	type tc struct {
		input   string
		want    Config
		wantErr string
	}

	tests := map[string]tc{
		"empty file uses defaults": {
			input: "",
			want:  Config{MaxWidth: 80, Quote: `"`},
		},
		"width only": {
			input: "max_width: 100\n",
			want:  Config{MaxWidth: 100, Quote: `"`},
		},
		"single quote": {
			input: "quote: \"'\"\n",
			want:  Config{MaxWidth: 80, Quote: "'"},
		},
		"both": {
			input: "max_width: 120\nquote: \"'\"\n",
			want:  Config{MaxWidth: 120, Quote: "'"},
		},
		"unknown key": {
			input:   "indent: 4\n",
			wantErr: "field indent not found",
		},
		"bad quote": {
			input:   "quote: \"`\"\n",
			wantErr: "quote must be",
		},
		"bad width": {
			input:   "max_width: 0\n",
			wantErr: "max_width must be positive",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Parse(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "app", "views")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	path, err := Find(nested)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if path != "" && strings.HasPrefix(path, root) {
		t.Fatalf("Find found %q before a config was written", path)
	}

	want := filepath.Join(root, FileName)
	if err := os.WriteFile(want, []byte("max_width: 60\nquote: \"'\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	path, err = Find(nested)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if path != want {
		t.Fatalf("Find = %q, want %q", path, want)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxWidth != 60 || cfg.Quote != "'" {
		t.Errorf("Load = %+v", cfg)
	}

	f := formatter.New(cfg.Options()...)
	if f.MaxWidth() != 60 || f.Quote() != '\'' {
		t.Errorf("formatter options not applied: width=%d quote=%q", f.MaxWidth(), f.Quote())
	}
}
