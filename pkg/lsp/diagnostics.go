package lsp

import (
	"github.com/grindlemire/hamlfmt/internal/debug"
	"github.com/grindlemire/hamlfmt/internal/haml"
)

// DiagnosticSeverity represents the severity of a diagnostic.
type DiagnosticSeverity int

const (
	// DiagnosticSeverityError reports an error.
	DiagnosticSeverityError DiagnosticSeverity = 1
	// DiagnosticSeverityWarning reports a warning.
	DiagnosticSeverityWarning DiagnosticSeverity = 2
)

// Diagnostic represents a diagnostic, such as a parse error.
type Diagnostic struct {
	Range    Range              `json:"range"`
	Severity DiagnosticSeverity `json:"severity,omitempty"`
	Source   string             `json:"source,omitempty"`
	Message  string             `json:"message"`
}

// PublishDiagnosticsParams represents the parameters for publishDiagnostics.
type PublishDiagnosticsParams struct {
	URI         string       `json:"uri"`
	Version     *int         `json:"version,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// publishDiagnostics sends diagnostics for a document.
func (s *Server) publishDiagnostics(doc *Document) {
	if doc == nil {
		return
	}

	diagnostics := make([]Diagnostic, 0, len(doc.Errors))
	for _, err := range doc.Errors {
		diag := Diagnostic{
			Range:    errorRange(doc.Content, err.Pos),
			Severity: DiagnosticSeverityError,
			Source:   "hamlfmt",
			Message:  err.Message,
		}
		if err.Hint != "" {
			diag.Message = err.Message + " (" + err.Hint + ")"
		}
		diagnostics = append(diagnostics, diag)
	}

	version := doc.Version
	params := PublishDiagnosticsParams{
		URI:         doc.URI,
		Version:     &version,
		Diagnostics: diagnostics,
	}

	if err := s.sendNotification("textDocument/publishDiagnostics", params); err != nil {
		debug.LSP("error publishing diagnostics: %v", err)
	}
}

// errorRange spans from the error position to the end of its line.
func errorRange(content string, pos haml.Position) Range {
	line := max(pos.Line-1, 0)
	text := lineText(content, line)

	col := min(max(pos.Column-1, 0), len(text))
	start := Position{Line: line, Character: utf16Len(text[:col])}
	end := Position{Line: line, Character: utf16Len(text)}
	if end.Character <= start.Character {
		end.Character = start.Character + 1
	}
	return Range{Start: start, End: end}
}
