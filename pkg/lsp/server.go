// Package lsp provides a Language Server Protocol implementation for .haml
// files. It reports parse errors as diagnostics and formats documents.
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/grindlemire/hamlfmt/internal/debug"
	"github.com/grindlemire/hamlfmt/pkg/formatter"
)

// Server represents the HAML LSP server.
type Server struct {
	// Input/output for JSON-RPC communication
	reader *bufio.Reader
	writer io.Writer
	mu     sync.Mutex // protects writer

	docs      *DocumentManager
	formatter *formatter.Formatter

	// Server state
	initialized bool
	shutdown    bool
	rootURI     string
}

// NewServer creates a new LSP server that communicates over the given
// reader/writer. Documents are formatted with the given options.
func NewServer(reader io.Reader, writer io.Writer, opts ...formatter.Option) *Server {
	return &Server{
		reader:    bufio.NewReader(reader),
		writer:    writer,
		docs:      NewDocumentManager(),
		formatter: formatter.New(opts...),
	}
}

// Run starts the LSP server main loop. It returns after a shutdown request
// or when the input is closed.
func (s *Server) Run(ctx context.Context) error {
	debug.LSP("server starting")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msg, err := s.readMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				debug.LSP("connection closed")
				return nil
			}
			return fmt.Errorf("reading message: %w", err)
		}

		debug.LSP("received: %s", msg)

		response, err := s.handleMessage(msg)
		if err != nil {
			debug.LSP("error handling message: %v", err)
			continue
		}

		if response != nil {
			if err := s.writeMessage(response); err != nil {
				return fmt.Errorf("writing response: %w", err)
			}
		}

		if s.shutdown {
			debug.LSP("server shutdown requested")
			return nil
		}
	}
}

// readMessage reads a JSON-RPC message from the input.
// Messages are formatted as HTTP-like headers followed by content:
// Content-Length: <length>\r\n
// \r\n
// <content>
func (s *Server) readMessage() ([]byte, error) {
	var contentLength int
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		if value, ok := strings.CutPrefix(line, "Content-Length:"); ok {
			contentLength, err = strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
		}
	}

	if contentLength == 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}

	content := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, content); err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}

	return content, nil
}

// writeMessage writes a JSON-RPC message to the output.
func (s *Server) writeMessage(msg []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(msg))
	if _, err := io.WriteString(s.writer, header); err != nil {
		return err
	}
	if _, err := s.writer.Write(msg); err != nil {
		return err
	}

	debug.LSP("sent: %s", msg)
	return nil
}

// sendNotification sends a notification (no response expected).
func (s *Server) sendNotification(method string, params any) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.writeMessage(data)
}

// Request represents a JSON-RPC request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"` // can be number or string
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response represents a JSON-RPC response.
type Response struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id,omitempty"`
	Result  any    `json:"result"`
	Error   *Error `json:"error,omitempty"`
}

// Error represents a JSON-RPC error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// JSON-RPC error codes
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// handleMessage processes a single JSON-RPC message.
func (s *Server) handleMessage(msg []byte) ([]byte, error) {
	var req Request
	if err := json.Unmarshal(msg, &req); err != nil {
		return s.errorResponse(nil, CodeParseError, "Parse error")
	}

	result, rpcErr := s.route(req)

	// Notifications don't get responses
	if req.ID == nil {
		return nil, nil
	}

	if rpcErr != nil {
		return s.errorResponse(req.ID, rpcErr.Code, rpcErr.Message)
	}

	return json.Marshal(Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  result,
	})
}

// errorResponse creates an error response.
func (s *Server) errorResponse(id any, code int, message string) ([]byte, error) {
	return json.Marshal(Response{
		JSONRPC: "2.0",
		ID:      id,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	})
}
