package lsp

import (
	"encoding/json"

	"github.com/grindlemire/hamlfmt/internal/debug"
)

// InitializeParams represents the parameters for the initialize request.
type InitializeParams struct {
	ProcessID *int   `json:"processId"`
	RootURI   string `json:"rootUri"`
	RootPath  string `json:"rootPath"`
}

// InitializeResult represents the result of the initialize request.
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   *ServerInfo        `json:"serverInfo,omitempty"`
}

// ServerInfo names the server.
type ServerInfo struct {
	Name string `json:"name"`
}

// ServerCapabilities represents server capabilities.
type ServerCapabilities struct {
	TextDocumentSync           *TextDocumentSyncOptions `json:"textDocumentSync,omitempty"`
	DocumentFormattingProvider bool                     `json:"documentFormattingProvider,omitempty"`
}

// TextDocumentSyncOptions represents text document sync options.
type TextDocumentSyncOptions struct {
	OpenClose bool                 `json:"openClose"`
	Change    TextDocumentSyncKind `json:"change"`
	Save      *SaveOptions         `json:"save,omitempty"`
}

// TextDocumentSyncKind represents how documents are synced.
type TextDocumentSyncKind int

const (
	// TextDocumentSyncKindNone means documents should not be synced.
	TextDocumentSyncKindNone TextDocumentSyncKind = 0
	// TextDocumentSyncKindFull means full documents are synced.
	TextDocumentSyncKindFull TextDocumentSyncKind = 1
)

// SaveOptions represents save options.
type SaveOptions struct {
	IncludeText bool `json:"includeText,omitempty"`
}

// handleInitialize handles the initialize request.
func (s *Server) handleInitialize(params json.RawMessage) (any, *Error) {
	var p InitializeParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}

	s.rootURI = p.RootURI
	debug.LSP("initialize with root: %s", s.rootURI)

	return InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync: &TextDocumentSyncOptions{
				OpenClose: true,
				Change:    TextDocumentSyncKindFull,
				Save:      &SaveOptions{IncludeText: true},
			},
			DocumentFormattingProvider: true,
		},
		ServerInfo: &ServerInfo{Name: "hamlfmt"},
	}, nil
}

// handleInitialized handles the initialized notification.
func (s *Server) handleInitialized() (any, *Error) {
	s.initialized = true
	debug.LSP("server initialized")
	return nil, nil
}

// handleShutdown handles the shutdown request.
func (s *Server) handleShutdown() (any, *Error) {
	s.shutdown = true
	return nil, nil
}

// handleExit handles the exit notification.
func (s *Server) handleExit() {
	debug.LSP("exit requested")
	s.shutdown = true
}

// DidOpenParams represents textDocument/didOpen parameters.
type DidOpenParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

// TextDocumentItem represents an item passed in didOpen.
type TextDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Version    int    `json:"version"`
	Text       string `json:"text"`
}

// handleDidOpen handles textDocument/didOpen.
func (s *Server) handleDidOpen(params json.RawMessage) (any, *Error) {
	var p DidOpenParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}

	debug.LSP("document opened: %s", p.TextDocument.URI)

	doc := s.docs.Open(p.TextDocument.URI, p.TextDocument.Text, p.TextDocument.Version)
	s.publishDiagnostics(doc)
	return nil, nil
}

// DidChangeParams represents textDocument/didChange parameters.
type DidChangeParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

// VersionedTextDocumentIdentifier represents a versioned document ID.
type VersionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version int    `json:"version"`
}

// TextDocumentContentChangeEvent represents a content change.
type TextDocumentContentChangeEvent struct {
	// Full text sync: Text contains the whole document
	Text string `json:"text"`
}

// handleDidChange handles textDocument/didChange.
func (s *Server) handleDidChange(params json.RawMessage) (any, *Error) {
	var p DidChangeParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}

	if len(p.ContentChanges) == 0 {
		return nil, nil
	}

	// We use full document sync, so take the last change
	content := p.ContentChanges[len(p.ContentChanges)-1].Text
	doc := s.docs.Update(p.TextDocument.URI, content, p.TextDocument.Version)
	s.publishDiagnostics(doc)
	return nil, nil
}

// DidCloseParams represents textDocument/didClose parameters.
type DidCloseParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// TextDocumentIdentifier represents a document identifier.
type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

// handleDidClose handles textDocument/didClose.
func (s *Server) handleDidClose(params json.RawMessage) (any, *Error) {
	var p DidCloseParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}

	debug.LSP("document closed: %s", p.TextDocument.URI)
	s.docs.Close(p.TextDocument.URI)

	// Clear diagnostics for closed document
	if err := s.sendNotification("textDocument/publishDiagnostics", PublishDiagnosticsParams{
		URI:         p.TextDocument.URI,
		Diagnostics: []Diagnostic{},
	}); err != nil {
		debug.LSP("error clearing diagnostics: %v", err)
	}
	return nil, nil
}

// DidSaveParams represents textDocument/didSave parameters.
type DidSaveParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Text         *string                `json:"text,omitempty"`
}

// handleDidSave handles textDocument/didSave.
func (s *Server) handleDidSave(params json.RawMessage) (any, *Error) {
	var p DidSaveParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}

	if p.Text == nil {
		return nil, nil
	}
	if doc := s.docs.Get(p.TextDocument.URI); doc != nil {
		doc = s.docs.Update(p.TextDocument.URI, *p.Text, doc.Version+1)
		s.publishDiagnostics(doc)
	}
	return nil, nil
}
