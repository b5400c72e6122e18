// Package lsp serves builder-analysis diagnostics over the language server
// protocol.
package lsp

import (
	"errors"
	"net/url"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dhamidi/freebuilder/analysis"
	"github.com/dhamidi/freebuilder/diag"
	"github.com/dhamidi/freebuilder/java/codebase"
	"github.com/dhamidi/freebuilder/processor"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

const lsName = "freebuilder"

type Server struct {
	codebase *codebase.Codebase
	handler  protocol.Handler
	server   *server.Server
	version  string
	log      commonlog.Logger

	mu sync.Mutex
	// published holds the URIs that currently show diagnostics, so they can
	// be cleared once fixed.
	published map[string]bool
}

func NewServer(version string) *Server {
	ls := &Server{
		version:   version,
		log:       commonlog.GetLogger("freebuilder.lsp"),
		published: make(map[string]bool),
	}

	ls.handler = protocol.Handler{
		Initialize:            ls.initialize,
		Initialized:           ls.initialized,
		Shutdown:              ls.shutdown,
		SetTrace:              ls.setTrace,
		TextDocumentDidOpen:   ls.textDocumentDidOpen,
		TextDocumentDidChange: ls.textDocumentDidChange,
		TextDocumentDidClose:  ls.textDocumentDidClose,
		TextDocumentDidSave:   ls.textDocumentDidSave,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}
	ls.codebase = codebase.New(rootDir)
	ls.log.Infof("workspace root %s", rootDir)

	capabilities := ls.handler.CreateServerCapabilities()
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
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := ls.codebase.ScanAll(); err != nil {
		ls.log.Warningf("scan workspace: %s", err)
	}
	ls.publish(ctx)
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.codebase.UpdateFile(path, []byte(params.TextDocument.Text))
	ls.publish(ctx)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.codebase.UpdateFile(path, []byte(textChange.Text))
			ls.publish(ctx)
		}
	}
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.codebase.UpdateFile(path, []byte(*params.Text))
	} else if err := ls.codebase.ScanFile(path); err != nil {
		ls.log.Warningf("rescan %s: %s", path, err)
	}
	ls.publish(ctx)
	return nil
}

// publish re-analyzes the workspace and sends the diagnostics of every
// affected document, including empty lists for documents that were fixed.
func (ls *Server) publish(ctx *glsp.Context) {
	byPath, err := Diagnostics(ls.codebase)
	if err != nil {
		ls.log.Errorf("analyze workspace: %s", err)
		return
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	current := make(map[string]bool, len(byPath))
	for path, diagnostics := range byPath {
		uri := pathToURI(path)
		current[uri] = true
		ctx.Notify(string(protocol.ServerTextDocumentPublishDiagnostics), protocol.PublishDiagnosticsParams{
			URI:         uri,
			Diagnostics: diagnostics,
		})
	}
	for uri := range ls.published {
		if !current[uri] {
			ctx.Notify(string(protocol.ServerTextDocumentPublishDiagnostics), protocol.PublishDiagnosticsParams{
				URI:         uri,
				Diagnostics: []protocol.Diagnostic{},
			})
		}
	}
	ls.published = current
	ls.log.Debugf("published diagnostics for %d documents", len(current))
}

// Diagnostics analyzes every @FreeBuilder type of c and groups the
// resulting diagnostics, syntax errors included, by source path.
func Diagnostics(c *codebase.Codebase) (map[string][]protocol.Diagnostic, error) {
	u, err := c.Universe()
	if err != nil {
		return nil, err
	}
	byPath := make(map[string][]protocol.Diagnostic)
	for _, se := range c.SyntaxErrors() {
		for _, e := range se.Errors {
			d := diag.Diagnostic{Severity: diag.Error, Pos: e.Pos, Element: se.Path, Message: e.Message}
			byPath[se.Path] = append(byPath[se.Path], toProtocol(d))
		}
	}
	for _, decl := range processor.Annotated(u) {
		var sink diag.Log
		if _, err := analysis.Analyze(u, decl, &sink); err != nil && !errors.Is(err, analysis.ErrCannotGenerate) {
			return nil, err
		}
		for _, d := range sink.Diagnostics() {
			path := d.Pos.File
			if path == "" {
				continue
			}
			byPath[path] = append(byPath[path], toProtocol(d))
		}
	}
	for _, diagnostics := range byPath {
		sort.SliceStable(diagnostics, func(i, j int) bool {
			return diagnostics[i].Range.Start.Line < diagnostics[j].Range.Start.Line
		})
	}
	return byPath, nil
}

func toProtocol(d diag.Diagnostic) protocol.Diagnostic {
	severity := toProtocolSeverity(d.Severity)
	source := lsName
	pos := protocol.Position{
		Line:      zeroBased(d.Pos.Line),
		Character: zeroBased(d.Pos.Column),
	}
	return protocol.Diagnostic{
		Range:    protocol.Range{Start: pos, End: pos},
		Severity: &severity,
		Source:   &source,
		Message:  d.Message,
	}
}

func toProtocolSeverity(s diag.Severity) protocol.DiagnosticSeverity {
	switch s {
	case diag.Error:
		return protocol.DiagnosticSeverityError
	case diag.Warning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityInformation
	}
}

// zeroBased converts a one-based line or column; unknown positions map
// to zero.
func zeroBased(n int) protocol.UInteger {
	if n <= 1 {
		return 0
	}
	return protocol.UInteger(n - 1)
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
