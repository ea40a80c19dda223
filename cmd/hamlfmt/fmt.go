package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/grindlemire/hamlfmt/internal/config"
	"github.com/grindlemire/hamlfmt/internal/debug"
	"github.com/grindlemire/hamlfmt/pkg/formatter"
)

// fmtOptions are the arguments of the fmt subcommand.
type fmtOptions struct {
	stdout     bool // print to stdout instead of modifying files
	check      bool // check mode (exit 1 if not formatted)
	verbose    bool
	width      int    // 0 when not given
	quote      string // "" when not given
	configPath string // "" to search for .hamlfmt.yml
	paths      []string
}

// parseFmtArgs parses the arguments of the fmt subcommand.
func parseFmtArgs(args []string) (fmtOptions, error) {
	var opts fmtOptions

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--stdout", "-stdout":
			opts.stdout = true
		case "--check", "-check":
			opts.check = true
		case "-v", "--verbose":
			opts.verbose = true
		case "--width", "-width", "--quote", "-quote", "--config", "-config":
			if i+1 >= len(args) {
				return fmtOptions{}, fmt.Errorf("%s requires a value", arg)
			}
			i++
			if err := opts.set(arg, args[i]); err != nil {
				return fmtOptions{}, err
			}
		default:
			opts.paths = append(opts.paths, arg)
		}
	}

	return opts, nil
}

func (o *fmtOptions) set(flag, value string) error {
	switch flag {
	case "--width", "-width":
		width, err := strconv.Atoi(value)
		if err != nil || width < 1 {
			return fmt.Errorf("invalid width %q", value)
		}
		o.width = width
	case "--quote", "-quote":
		if value != `"` && value != "'" {
			return fmt.Errorf(`invalid quote %q: must be " or '`, value)
		}
		o.quote = value
	case "--config", "-config":
		o.configPath = value
	}
	return nil
}

// settings resolves the configuration file and applies flags on top.
func (o fmtOptions) settings() (config.Config, error) {
	path := o.configPath
	if path == "" {
		found, err := config.Find(".")
		if err != nil {
			return config.Config{}, fmt.Errorf("finding config: %w", err)
		}
		path = found
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
		debug.CLI("loaded %s: %+v", path, cfg)
	}

	if o.width > 0 {
		cfg.MaxWidth = o.width
	}
	if o.quote != "" {
		cfg.Quote = o.quote
	}
	return cfg, nil
}

// runFmt implements the fmt subcommand.
// It formats .haml files in place, checks formatting, or formats stdin.
func runFmt(args []string) error {
	opts, err := parseFmtArgs(args)
	if err != nil {
		return err
	}

	cfg, err := opts.settings()
	if err != nil {
		return err
	}
	fmtr := formatter.New(cfg.Options()...)

	if len(opts.paths) == 0 {
		// Piped input is formatted to stdout.
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return formatStream(fmtr, os.Stdin, os.Stdout)
		}
		opts.paths = []string{"."}
	}

	files, err := collectHamlFiles(opts.paths)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no %s files found", extension)
	}

	if opts.verbose {
		fmt.Printf("Formatting %d %s file(s)\n", len(files), extension)
	}

	switch {
	case opts.check:
		return runFmtCheck(fmtr, files, os.Stderr)
	case opts.stdout:
		return runFmtStdout(fmtr, files, os.Stdout, os.Stderr)
	}
	return runFmtInPlace(fmtr, files, os.Stdout, os.Stderr)
}

// formatStream formats all of r and writes the result to w.
func formatStream(fmtr *formatter.Formatter, r io.Reader, w io.Writer) error {
	source, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	formatted, err := fmtr.Format("<stdin>", string(source))
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, formatted)
	return err
}

// fileResult is the outcome of formatting one file.
type fileResult struct {
	path    string
	changed bool
	err     error
}

// formatFiles formats files concurrently. When write is set, changed
// files are rewritten on disk. Results are in the order of files.
func formatFiles(fmtr *formatter.Formatter, files []string, write bool) []fileResult {
	results := make([]fileResult, len(files))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range files {
		g.Go(func() error {
			results[i] = formatFile(fmtr, path, write)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// formatFile formats a single file.
func formatFile(fmtr *formatter.Formatter, path string, write bool) fileResult {
	start := time.Now()

	source, err := os.ReadFile(path)
	if err != nil {
		return fileResult{path: path, err: fmt.Errorf("reading file: %w", err)}
	}

	res, err := fmtr.FormatWithResult(filepath.Base(path), string(source))
	if err != nil {
		return fileResult{path: path, err: err}
	}

	if write && res.Changed {
		if err := os.WriteFile(path, []byte(res.Content), 0644); err != nil {
			return fileResult{path: path, err: fmt.Errorf("writing file: %w", err)}
		}
	}

	debug.CLI("formatted %s in %s (changed=%t)", path, time.Since(start), res.Changed)
	return fileResult{path: path, changed: res.Changed}
}

// runFmtInPlace formats files in place, modifying them on disk.
func runFmtInPlace(fmtr *formatter.Formatter, files []string, stdout, stderr io.Writer) error {
	var errorCount int
	for _, res := range formatFiles(fmtr, files, true) {
		if res.err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", res.path, res.err)
			errorCount++
		} else if res.changed {
			fmt.Fprintf(stdout, "Formatted: %s\n", res.path)
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("%d file(s) had errors", errorCount)
	}

	return nil
}

// runFmtStdout formats files and prints to stdout.
func runFmtStdout(fmtr *formatter.Formatter, files []string, stdout, stderr io.Writer) error {
	var errorCount int

	for _, path := range files {
		source, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "%s: reading file: %v\n", path, err)
			errorCount++
			continue
		}

		formatted, err := fmtr.Format(filepath.Base(path), string(source))
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", path, err)
			errorCount++
			continue
		}

		if len(files) > 1 {
			fmt.Fprintf(stdout, "-# %s\n", path)
		}
		fmt.Fprint(stdout, formatted)
	}

	if errorCount > 0 {
		return fmt.Errorf("%d file(s) had errors", errorCount)
	}

	return nil
}

// runFmtCheck checks if files are formatted without modifying them.
// Returns an error if any file is not formatted.
func runFmtCheck(fmtr *formatter.Formatter, files []string, stderr io.Writer) error {
	var errorCount, notFormattedCount int
	for _, res := range formatFiles(fmtr, files, false) {
		if res.err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", res.path, res.err)
			errorCount++
		} else if res.changed {
			fmt.Fprintf(stderr, "ERROR: %s is not formatted\n", res.path)
			notFormattedCount++
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("%d file(s) had errors", errorCount)
	}

	if notFormattedCount > 0 {
		return fmt.Errorf("%d file(s) not formatted", notFormattedCount)
	}

	return nil
}
