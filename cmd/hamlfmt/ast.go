package main

import (
	"fmt"
	"os"

	"github.com/grindlemire/hamlfmt/internal/haml"
)

// astWidth is the line width of tree dumps.
const astWidth = 80

// runAST implements the ast subcommand.
// It prints the tree the parser builds for each file.
func runAST(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("ast requires at least one file")
	}

	for _, path := range args {
		source, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}

		root, err := haml.Parse(path, string(source))
		if err != nil {
			return err
		}

		if len(args) > 1 {
			fmt.Printf("-# %s\n", path)
		}
		fmt.Print(haml.Dump(root, astWidth))
	}

	return nil
}
