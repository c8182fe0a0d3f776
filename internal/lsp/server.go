package lsp

import (
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"quartz/internal/config"
	"quartz/internal/scheduler"
	"quartz/internal/store"
	"quartz/internal/telemetry"
	"quartz/internal/toolchain"
)

const serverName = "quartz"

// Server holds every process-wide facility spec.md §5 names: the
// document/import-graph store, the negotiated config, the toolchain
// subprocess wrapper, and a scoped logger. Everything else (the
// analysis Engine) is constructed fresh per request.
type Server struct {
	handler *protocol.Handler
	log     *telemetry.Logger
	tc      *toolchain.Toolchain
	sched   *scheduler.Scheduler

	mu        sync.RWMutex
	store     *store.Store
	cfg       config.Config
	rootPath  string
	graphAddr string
}

// NewServer builds the glsp server, wiring every handler the way
// internal/server/server.go wires Server{...}: one struct field per
// LSP method, named identically to the method itself.
func NewServer() (*glspserver.Server, error) {
	s := &Server{
		log:   telemetry.New("quartz.lsp"),
		tc:    toolchain.New(),
		sched: scheduler.NewScheduler(64),
	}
	s.sched.RunScheduler()
	s.handler = &protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidSave:   s.textDocumentDidSave,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentCompletion:         s.textDocumentCompletion,
		TextDocumentHover:              s.textDocumentHover,
		TextDocumentDefinition:         s.textDocumentDefinition,
		TextDocumentDeclaration:        s.textDocumentDeclaration,
		TextDocumentReferences:         s.textDocumentReferences,
		TextDocumentRename:             s.textDocumentRename,
		TextDocumentDocumentSymbol:     s.textDocumentDocumentSymbol,
		TextDocumentSemanticTokensFull: s.textDocumentSemanticTokensFull,
		TextDocumentFormatting:         s.textDocumentFormatting,

		WorkspaceExecuteCommand: s.workspaceExecuteCommand,
		WorkspaceSymbol:         s.workspaceSymbol,
	}
	return glspserver.NewServer(s.handler, serverName, false), nil
}
