// Package main provides the hamlfmt command line tool.
//
// Usage:
//
//	hamlfmt fmt [path...]     Format .haml files in place
//	hamlfmt check [path...]   Parse .haml files and report errors
//	hamlfmt ast file.haml     Print the parsed tree of a file
//	hamlfmt lsp               Run the language server on stdin/stdout
//	hamlfmt help              Show help
//
// Examples:
//
//	hamlfmt fmt ./...             Recursively format all .haml files
//	hamlfmt fmt --check app/views Check formatting without modifying
//	cat page.haml | hamlfmt fmt   Format stdin to stdout
package main

import (
	"fmt"
	"os"

	"github.com/grindlemire/hamlfmt/internal/debug"
)

const version = "0.1.0"

const usage = `hamlfmt - formatter for HAML templates

Usage:
  hamlfmt <command> [options] [path...]

Commands:
  fmt         Format .haml files
  check       Parse .haml files and report syntax errors
  ast         Print the parsed tree of a .haml file
  lsp         Start the language server (formatting and diagnostics)
  version     Print version information
  help        Show this help message

Options (fmt):
  --check         Report unformatted files instead of rewriting them
  --stdout        Print formatted output instead of rewriting files
  --width N       Maximum line width (default 80)
  --quote Q       Preferred string quote, " or ' (default ")
  --config FILE   Settings file (default: nearest .hamlfmt.yml)
  -v              Verbose output

Options (lsp):
  --log FILE      Write protocol logs to FILE
  --config FILE   Settings file (default: nearest .hamlfmt.yml)

Examples:
  hamlfmt fmt ./...                 Format all .haml files recursively
  hamlfmt fmt --check ./...         Check formatting without modifying
  hamlfmt fmt --stdout page.haml    Print formatted output to stdout
  hamlfmt fmt --quote "'" ./...     Prefer single quotes
  hamlfmt check app/views           Check syntax of a directory
  hamlfmt ast page.haml             Show how a file is parsed

Set HAMLFMT_DEBUG=/path/to/log to write debug logs.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	if err := debug.InitFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "fmt":
		err = runFmt(args)
	case "check":
		err = runCheck(args)
	case "ast":
		err = runAST(args)
	case "lsp":
		err = runLSP(args)
	case "version":
		fmt.Printf("hamlfmt version %s\n", version)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", command)
		fmt.Print(usage)
		err = errUsage
	}

	debug.Close()
	if err != nil {
		if err != errUsage {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
