// Package lsp serves token-stream files over the Language Server Protocol.
// Every open document is ingested and parsed on each change, and the
// resulting decode and syntax errors are published as diagnostics.
package lsp

import (
	"context"
	"strings"
	"sync"

	"github.com/dhamidi/hkast/hk/frontend"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

const lsName = "hkast"

var log = commonlog.GetLogger("hkast.lsp")

type document struct {
	text string
	res  *frontend.Result
}

type Server struct {
	handler protocol.Handler
	server  *server.Server
	name    string
	version string
	opts    frontend.Options

	mu   sync.Mutex
	docs map[protocol.DocumentUri]*document
}

// NewServer returns a server that parses documents with opts. An empty name
// defaults to "hkast".
func NewServer(name, version string, opts frontend.Options) *Server {
	if name == "" {
		name = lsName
	}
	s := &Server{
		name:    name,
		version: version,
		opts:    opts,
		docs:    make(map[protocol.DocumentUri]*document),
	}

	s.handler = protocol.Handler{
		Initialize:                 s.initialize,
		Initialized:                s.initialized,
		Shutdown:                   s.shutdown,
		SetTrace:                   s.setTrace,
		TextDocumentDidOpen:        s.textDocumentDidOpen,
		TextDocumentDidChange:      s.textDocumentDidChange,
		TextDocumentDidClose:       s.textDocumentDidClose,
		TextDocumentDidSave:        s.textDocumentDidSave,
		TextDocumentDocumentSymbol: s.textDocumentDocumentSymbol,
	}

	s.server = server.NewServer(&s.handler, name, false)

	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    s.name,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("client initialized")
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		s.update(ctx, params.TextDocument.URI, whole.Text)
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.mu.Lock()
	delete(s.docs, params.TextDocument.URI)
	s.mu.Unlock()

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		s.update(ctx, params.TextDocument.URI, *params.Text)
	}
	return nil
}

func (s *Server) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := s.document(params.TextDocument.URI)
	if doc == nil {
		return []protocol.DocumentSymbol{}, nil
	}
	return Symbols(doc.text, doc.res), nil
}

// update parses text as the new content of uri and publishes its
// diagnostics.
func (s *Server) update(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	res, err := frontend.Run(context.Background(), uri, strings.NewReader(text), s.opts)
	if err != nil {
		log.Errorf("parse %s: %s", uri, err)
		return
	}

	s.mu.Lock()
	s.docs[uri] = &document{text: text, res: res}
	s.mu.Unlock()

	diags := Diagnostics(uri, text, res)
	log.Debugf("publishing %d diagnostics for %s", len(diags), uri)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
}

func (s *Server) document(uri protocol.DocumentUri) *document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[uri]
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
