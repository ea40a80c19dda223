package lsp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/grindlemire/hamlfmt/internal/haml"
)

// mockReadWriter provides a mock for testing LSP communication.
type mockReadWriter struct {
	input  *bytes.Buffer
	output *bytes.Buffer
}

func newMockReadWriter() *mockReadWriter {
	return &mockReadWriter{
		input:  new(bytes.Buffer),
		output: new(bytes.Buffer),
	}
}

func (m *mockReadWriter) Read(p []byte) (n int, err error) {
	return m.input.Read(p)
}

func (m *mockReadWriter) Write(p []byte) (n int, err error) {
	return m.output.Write(p)
}

// writeRequest writes a JSON-RPC request to the mock input.
func (m *mockReadWriter) writeRequest(id any, method string, params any) error {
	req := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
	}
	if id != nil {
		req["id"] = id
	}
	if params != nil {
		req["params"] = params
	}

	content, err := json.Marshal(req)
	if err != nil {
		return err
	}

	fmt.Fprintf(m.input, "Content-Length: %d\r\n\r\n", len(content))
	m.input.Write(content)
	return nil
}

// message is a response or notification read back from the server.
type message struct {
	ID     any             `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
	Result json.RawMessage `json:"result"`
	Error  *Error          `json:"error"`
}

// readMessage reads the next JSON-RPC message from the mock output.
func (m *mockReadWriter) readMessage() (*message, error) {
	var contentLength int
	for {
		line, err := m.output.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		if value, ok := strings.CutPrefix(line, "Content-Length:"); ok {
			if _, err := fmt.Sscanf(strings.TrimSpace(value), "%d", &contentLength); err != nil {
				return nil, err
			}
		}
	}

	if contentLength == 0 {
		return nil, io.EOF
	}

	content := make([]byte, contentLength)
	if _, err := io.ReadFull(m.output, content); err != nil {
		return nil, err
	}

	var msg message
	if err := json.Unmarshal(content, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// readAll reads every message the server wrote.
func (m *mockReadWriter) readAll(t *testing.T) []*message {
	t.Helper()
	var msgs []*message
	for {
		msg, err := m.readMessage()
		if err == io.EOF {
			return msgs
		}
		if err != nil {
			t.Fatalf("readMessage: %v", err)
		}
		msgs = append(msgs, msg)
	}
}

// session is one request or notification sent to the server.
type session struct {
	id     any
	method string
	params any
}

// runSession sends the requests followed by shutdown and exit, runs the
// server and returns everything it wrote.
func runSession(t *testing.T, reqs ...session) []*message {
	t.Helper()
	mock := newMockReadWriter()

	reqs = append(reqs, session{id: 99, method: "shutdown"}, session{method: "exit"})
	for _, r := range reqs {
		if err := mock.writeRequest(r.id, r.method, r.params); err != nil {
			t.Fatalf("writeRequest: %v", err)
		}
	}

	server := NewServer(mock, mock)
	if err := server.Run(t.Context()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return mock.readAll(t)
}

// find returns the message answering id, or the first notification named
// method when id is nil.
func find(t *testing.T, msgs []*message, id any, method string) *message {
	t.Helper()
	for _, msg := range msgs {
		if id != nil && msg.ID != nil && fmt.Sprint(msg.ID) == fmt.Sprint(id) {
			return msg
		}
		if id == nil && msg.Method == method {
			return msg
		}
	}
	t.Fatalf("no message for id=%v method=%q", id, method)
	return nil
}

func openParams(uri, text string) DidOpenParams {
	return DidOpenParams{TextDocument: TextDocumentItem{
		URI:        uri,
		LanguageID: "haml",
		Version:    1,
		Text:       text,
	}}
}

func TestServerInitialize(t *testing.T) {
	msgs := runSession(t, session{
		id:     1,
		method: "initialize",
		params: InitializeParams{RootURI: "file:///test"},
	})

	resp := find(t, msgs, 1, "")
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	var result InitializeResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if !result.Capabilities.DocumentFormattingProvider {
		t.Error("expected DocumentFormattingProvider to be enabled")
	}
	if sync := result.Capabilities.TextDocumentSync; sync == nil || sync.Change != TextDocumentSyncKindFull {
		t.Errorf("TextDocumentSync = %+v, want full sync", sync)
	}
	if result.ServerInfo == nil || result.ServerInfo.Name != "hamlfmt" {
		t.Errorf("ServerInfo = %+v, want hamlfmt", result.ServerInfo)
	}
}

func TestServerUnknownMethod(t *testing.T) {
	msgs := runSession(t, session{id: 1, method: "textDocument/hover", params: map[string]any{}})

	resp := find(t, msgs, 1, "")
	if resp.Error == nil {
		t.Fatal("expected an error response")
	}
	if resp.Error.Code != CodeMethodNotFound {
		t.Errorf("error code = %d, want %d", resp.Error.Code, CodeMethodNotFound)
	}
}

func TestServerInvalidJSON(t *testing.T) {
	mock := newMockReadWriter()
	body := "{not json"
	fmt.Fprintf(mock.input, "Content-Length: %d\r\n\r\n%s", len(body), body)

	server := NewServer(mock, mock)
	if err := server.Run(t.Context()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	msgs := mock.readAll(t)
	if len(msgs) != 1 || msgs[0].Error == nil || msgs[0].Error.Code != CodeParseError {
		t.Fatalf("expected a single parse error response, got %+v", msgs)
	}
}

func TestServerDiagnostics(t *testing.T) {
	type tc struct {
		text      string
		wantCount int
		wantRange Range
		wantMsg   string
	}

	tests := map[string]tc{
		"valid document": {
			text:      "%div\n  %p hello\n",
			wantCount: 0,
		},
		"illegal nesting": {
			text:      "%p text\n  %span\n",
			wantCount: 1,
			wantRange: Range{
				Start: Position{Line: 1, Character: 2},
				End:   Position{Line: 1, Character: 7},
			},
			wantMsg: "illegal nesting: nesting within a tag with inline content is illegal (move this line out one level)",
		},
		"two errors": {
			text:      "%p x\n  a\n%q x\n  b\n",
			wantCount: 2,
			wantRange: Range{
				Start: Position{Line: 1, Character: 2},
				End:   Position{Line: 1, Character: 3},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			msgs := runSession(t, session{
				method: "textDocument/didOpen",
				params: openParams("file:///test.haml", tt.text),
			})

			note := find(t, msgs, nil, "textDocument/publishDiagnostics")
			var params PublishDiagnosticsParams
			if err := json.Unmarshal(note.Params, &params); err != nil {
				t.Fatalf("unmarshal params: %v", err)
			}

			if params.URI != "file:///test.haml" {
				t.Errorf("URI = %q", params.URI)
			}
			if len(params.Diagnostics) != tt.wantCount {
				t.Fatalf("got %d diagnostics, want %d: %+v", len(params.Diagnostics), tt.wantCount, params.Diagnostics)
			}
			if tt.wantCount == 0 {
				return
			}

			diag := params.Diagnostics[0]
			if diag.Range != tt.wantRange {
				t.Errorf("Range = %+v, want %+v", diag.Range, tt.wantRange)
			}
			if diag.Severity != DiagnosticSeverityError {
				t.Errorf("Severity = %d, want error", diag.Severity)
			}
			if diag.Source != "hamlfmt" {
				t.Errorf("Source = %q, want hamlfmt", diag.Source)
			}
			if tt.wantMsg != "" && diag.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", diag.Message, tt.wantMsg)
			}
		})
	}
}

func TestServerDidChangeClearsDiagnostics(t *testing.T) {
	uri := "file:///test.haml"
	msgs := runSession(t,
		session{method: "textDocument/didOpen", params: openParams(uri, "%p x\n  a\n")},
		session{method: "textDocument/didChange", params: DidChangeParams{
			TextDocument:   VersionedTextDocumentIdentifier{URI: uri, Version: 2},
			ContentChanges: []TextDocumentContentChangeEvent{{Text: "%p x\n"}},
		}},
	)

	var counts []int
	for _, msg := range msgs {
		if msg.Method != "textDocument/publishDiagnostics" {
			continue
		}
		var params PublishDiagnosticsParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			t.Fatalf("unmarshal params: %v", err)
		}
		counts = append(counts, len(params.Diagnostics))
	}

	if len(counts) != 2 || counts[0] != 1 || counts[1] != 0 {
		t.Errorf("diagnostic counts = %v, want [1 0]", counts)
	}
}

func TestServerFormatting(t *testing.T) {
	type tc struct {
		text      string
		wantEdits []TextEdit
	}

	tests := map[string]tc{
		"reformats document": {
			text: "%div{ :class => 'a' }\n    %p hello",
			wantEdits: []TextEdit{{
				Range: Range{
					Start: Position{Line: 0, Character: 0},
					End:   Position{Line: 1, Character: 12},
				},
				NewText: "%div.a\n  %p hello\n",
			}},
		},
		"already formatted": {
			text:      "%p hello\n",
			wantEdits: []TextEdit{},
		},
		"parse error leaves document alone": {
			text:      "%p x\n  a\n",
			wantEdits: []TextEdit{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			uri := "file:///test.haml"
			msgs := runSession(t,
				session{method: "textDocument/didOpen", params: openParams(uri, tt.text)},
				session{id: 2, method: "textDocument/formatting", params: DocumentFormattingParams{
					TextDocument: TextDocumentIdentifier{URI: uri},
					Options:      FormattingOptions{TabSize: 4, InsertSpaces: true},
				}},
			)

			resp := find(t, msgs, 2, "")
			if resp.Error != nil {
				t.Fatalf("unexpected error: %v", resp.Error.Message)
			}

			var edits []TextEdit
			if err := json.Unmarshal(resp.Result, &edits); err != nil {
				t.Fatalf("unmarshal result: %v", err)
			}
			if len(edits) != len(tt.wantEdits) {
				t.Fatalf("got %d edits, want %d: %+v", len(edits), len(tt.wantEdits), edits)
			}
			for i := range edits {
				if edits[i] != tt.wantEdits[i] {
					t.Errorf("edit %d = %+v, want %+v", i, edits[i], tt.wantEdits[i])
				}
			}
		})
	}
}

func TestServerFormattingUnknownDocument(t *testing.T) {
	msgs := runSession(t, session{id: 2, method: "textDocument/formatting", params: DocumentFormattingParams{
		TextDocument: TextDocumentIdentifier{URI: "file:///missing.haml"},
	}})

	resp := find(t, msgs, 2, "")
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}
	if string(resp.Result) != "null" {
		t.Errorf("Result = %s, want null", resp.Result)
	}
}

func TestErrorRange(t *testing.T) {
	type tc struct {
		content string
		line    int
		column  int
		want    Range
	}

	tests := map[string]tc{
		"middle of line": {
			content: "abc\n  defg\n",
			line:    2,
			column:  3,
			want:    Range{Start: Position{Line: 1, Character: 2}, End: Position{Line: 1, Character: 6}},
		},
		"end of line widens to one character": {
			content: "abc",
			line:    1,
			column:  4,
			want:    Range{Start: Position{Line: 0, Character: 3}, End: Position{Line: 0, Character: 4}},
		},
		"wide runes count utf-16 units": {
			content: "%p 😀 x",
			line:    1,
			column:  9,
			want:    Range{Start: Position{Line: 0, Character: 6}, End: Position{Line: 0, Character: 7}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := errorRange(tt.content, haml.Position{Line: tt.line, Column: tt.column})
			if got != tt.want {
				t.Errorf("errorRange() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEndPosition(t *testing.T) {
	type tc struct {
		content string
		want    Position
	}

	tests := map[string]tc{
		"empty":            {content: "", want: Position{}},
		"no final newline": {content: "a\nbc", want: Position{Line: 1, Character: 2}},
		"final newline":    {content: "a\nbc\n", want: Position{Line: 2, Character: 0}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := endPosition(tt.content); got != tt.want {
				t.Errorf("endPosition(%q) = %+v, want %+v", tt.content, got, tt.want)
			}
		})
	}
}
