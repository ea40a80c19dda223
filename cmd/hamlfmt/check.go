package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/grindlemire/hamlfmt/internal/haml"
)

// runCheck implements the check subcommand.
// It parses .haml files without formatting them.
// Useful for syntax checking and editor integration.
func runCheck(args []string) error {
	verbose := false
	var paths []string

	// Parse arguments
	for _, arg := range args {
		if arg == "-v" || arg == "--verbose" {
			verbose = true
		} else {
			paths = append(paths, arg)
		}
	}

	// Default to current directory if no paths specified
	if len(paths) == 0 {
		paths = []string{"."}
	}

	files, err := collectHamlFiles(paths)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no %s files found", extension)
	}

	if verbose {
		fmt.Printf("Checking %d %s file(s)\n", len(files), extension)
	}

	var errorCount int
	for _, inputPath := range files {
		if verbose {
			fmt.Printf("Checking %s\n", inputPath)
		}

		if err := checkFile(inputPath); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			errorCount++
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("%d file(s) had errors", errorCount)
	}

	if verbose {
		fmt.Printf("All %d file(s) passed checks\n", len(files))
	}

	return nil
}

// checkFile parses a single .haml file.
func checkFile(inputPath string) error {
	source, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	// Errors name the file as it was given on the command line.
	_, err = haml.Parse(filepath.Clean(inputPath), string(source))
	return err
}
