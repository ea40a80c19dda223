package lsp

import (
	"encoding/json"

	"github.com/grindlemire/hamlfmt/internal/debug"
)

// DocumentFormattingParams represents textDocument/formatting parameters.
type DocumentFormattingParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Options      FormattingOptions      `json:"options"`
}

// FormattingOptions represents formatting options. HAML indentation is
// always two spaces, so TabSize and InsertSpaces are ignored.
type FormattingOptions struct {
	TabSize      int  `json:"tabSize"`
	InsertSpaces bool `json:"insertSpaces"`
}

// TextEdit represents a text edit.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// handleFormatting handles textDocument/formatting requests.
func (s *Server) handleFormatting(params json.RawMessage) (any, *Error) {
	var p DocumentFormattingParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}

	debug.LSP("formatting request for %s", p.TextDocument.URI)

	doc := s.docs.Get(p.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	// Unparseable documents are left alone; diagnostics already cover them.
	if doc.Root == nil {
		return []TextEdit{}, nil
	}

	formatted := s.formatter.FormatTree(doc.Root, doc.Content)
	if formatted == doc.Content {
		return []TextEdit{}, nil
	}

	return []TextEdit{
		{
			Range: Range{
				Start: Position{Line: 0, Character: 0},
				End:   endPosition(doc.Content),
			},
			NewText: formatted,
		},
	}, nil
}
