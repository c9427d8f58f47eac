// Package lsp implements a language server for the toy imperative language,
// reporting parse and name-resolution diagnostics as the editor opens and
// edits a file.
package lsp

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"ssaopt/internal/ast"
	"ssaopt/internal/parser"
)

// Handler implements the glsp protocol.Handler callbacks for this language.
type Handler struct {
	mu       sync.RWMutex
	content  map[string]string
	programs map[string]*ast.Program
}

// NewHandler creates an empty Handler ready to be wired into a
// protocol.Handler.
func NewHandler() *Handler {
	return &Handler{
		content:  make(map[string]string),
		programs: make(map[string]*ast.Program),
	}
}

// Initialize advertises this server's capabilities to the client.
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("LSP Initialize called")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Println("LSP Initialized")
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Println("LSP Shutdown")
	return nil
}

func (h *Handler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	return h.publishDiagnostics(ctx, params.TextDocument.URI)
}

func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	return h.publishDiagnostics(ctx, params.TextDocument.URI)
}

func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	h.mu.Lock()
	delete(h.content, string(params.TextDocument.URI))
	delete(h.programs, string(params.TextDocument.URI))
	h.mu.Unlock()
	return nil
}

// publishDiagnostics re-reads the document from disk (the editor has
// already written the buffer there by the time DidChange fires for most
// clients this server targets) and republishes its diagnostics.
func (h *Handler) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri) error {
	path, err := uriToPath(string(uri))
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", uri, err)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}

	prog, parseErr := parser.ParseString(path, string(src))
	diagnostics := diagnosticsFor(parseErr)

	h.mu.Lock()
	h.content[string(uri)] = string(src)
	if parseErr == nil {
		h.programs[string(uri)] = prog
	} else {
		delete(h.programs, string(uri))
	}
	h.mu.Unlock()

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
	return nil
}

func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}
	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}

func ptrBool(b bool) *bool { return &b }

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind { return &k }
