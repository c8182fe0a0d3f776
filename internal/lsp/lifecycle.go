package lsp

import (
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"quartz/internal/config"
	"quartz/internal/graph"
	"quartz/internal/offset"
	"quartz/internal/scanner"
	"quartz/internal/scheduler"
	"quartz/internal/store"
	"quartz/internal/store/persist"
	"quartz/internal/uri"
)

// osReader implements store.FileReader over the local filesystem, the
// production collaborator internal/store's tests substitute a fakeFS
// for.
type osReader struct{}

func (osReader) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

func (s *Server) initialize(
	context *glsp.Context,
	params *protocol.InitializeParams,
) (any, error) {
	cfg := s.loadConfigOverlay(params.RootURI)
	if params.InitializationOptions != nil {
		loaded, err := config.Load(params.InitializationOptions)
		if err != nil {
			return nil, fmt.Errorf("initialize: %w", err)
		}
		cfg = loaded
	}

	enc := offset.UTF16
	if params.Capabilities.General != nil {
		for _, e := range params.Capabilities.General.PositionEncodings {
			if e == protocol.PositionEncodingKindUTF8 {
				enc = offset.UTF8
				break
			}
		}
	}

	s.mu.Lock()
	s.cfg = cfg
	s.store = store.New(enc, osReader{})
	if cfg.ZigLibPath != "" {
		s.store.SetStdRoot(cfg.ZigLibPath)
	}
	if params.RootURI != nil {
		if root, err := url.Parse(*params.RootURI); err == nil {
			s.rootPath = root.Path
		}
	}
	s.mu.Unlock()

	if pc, err := openPersistCache(); err != nil {
		s.log.Info(fmt.Sprintf("build-file cache disabled: %v", err))
	} else {
		s.store.SetPersistCache(pc)
	}

	s.log.Info(fmt.Sprintf("initialized with root %q, encoding=%v", s.rootPath, enc))

	if s.rootPath != "" {
		go s.warmScan(s.rootPath)
	}

	s.sched.SchedulePeriodicTask(5*time.Minute, scheduler.Task{
		Name:    "revalidate-open-documents",
		Execute: func() error { return s.revalidateOpenDocuments(context) },
	})

	syncKind := protocol.TextDocumentSyncKindIncremental
	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
		Save:      &protocol.SaveOptions{IncludeText: boolPtr(true)},
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{".", "@"},
	}
	capabilities.HoverProvider = boolPtr(true)
	capabilities.DefinitionProvider = boolPtr(true)
	capabilities.DeclarationProvider = boolPtr(true)
	capabilities.ReferencesProvider = boolPtr(true)
	capabilities.RenameProvider = boolPtr(true)
	capabilities.DocumentSymbolProvider = boolPtr(true)
	capabilities.WorkspaceSymbolProvider = boolPtr(true)
	capabilities.DocumentFormattingProvider = boolPtr(true)
	if cfg.EnableSemanticTokens {
		capabilities.SemanticTokensProvider = &protocol.SemanticTokensOptions{
			Legend: protocol.SemanticTokensLegend{
				TokenTypes:     semanticTokenTypes,
				TokenModifiers: semanticTokenModifiers,
			},
			Full: true,
		}
	}
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: []string{"quartz.showImportGraph"},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: strPtr("0.1.0"),
		},
	}, nil
}

func (s *Server) initialized(context *glsp.Context, params *protocol.InitializedParams) error {
	s.log.Info("client initialized")
	return nil
}

func (s *Server) shutdown(context *glsp.Context) error {
	s.log.Info("shutting down")
	s.sched.StopScheduler()
	return nil
}

// revalidateOpenDocuments republishes diagnostics for every open handle,
// grounded on internal/server/lifecycle_handlers.go's 5-minute
// cache-dump ticker, generalized from a periodic disk flush to a
// periodic diagnostic refresh scheduled through internal/scheduler
// instead of a bare time.Ticker — catches drift when an imported file
// changes on disk outside the editor between saves.
func (s *Server) revalidateOpenDocuments(ctx *glsp.Context) error {
	s.mu.RLock()
	st := s.store
	s.mu.RUnlock()
	if st == nil {
		return nil
	}
	for _, h := range st.AllHandles() {
		if h.Open {
			s.publishDiagnostics(ctx, h)
		}
	}
	return nil
}

// warmScan walks the workspace root once at startup so workspace/symbol
// and goto-definition into not-yet-opened files work immediately,
// grounded on internal/server/lifecycle_handlers.go's initialize-time
// scanner.Scan invocation, generalized from note-cache warming to
// store.Store.WarmDocument.
func (s *Server) warmScan(root string) {
	s.mu.RLock()
	st := s.store
	s.mu.RUnlock()
	if st == nil {
		return
	}

	skipFile := func(path string, info fs.FileInfo) bool {
		return info.IsDir() || filepath.Ext(path) != ".zig"
	}
	callback := func(path string, contents []byte) {
		st.WarmDocument(uri.PathToURI(path), string(contents))
	}
	scanner.Scan(root, scanner.IgnoreDir, skipFile, callback)
	s.log.Info(fmt.Sprintf("warm scan of %q complete", root))
}

// configDir implements spec.md §6's "platform's local config directory"
// lookup for an optional quartz.json overlay, following the same
// XDG-with-HOME-fallback discipline as internal/server/lifecycle_handlers.go's
// getXDGStateHome but rooted at XDG_CONFIG_HOME.
func configDir(appName string) (string, error) {
	xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfigHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("configDir: %w", err)
		}
		xdgConfigHome = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfigHome, appName), nil
}

// stateDir mirrors configDir's XDG discipline for XDG_STATE_HOME, the
// directory internal/server/lifecycle_handlers.go's getXDGStateHome
// resolves the note cache's dump file under.
func stateDir(appName string) (string, error) {
	xdgStateHome := os.Getenv("XDG_STATE_HOME")
	if xdgStateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("stateDir: %w", err)
		}
		xdgStateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(xdgStateHome, appName), nil
}

// openPersistCache opens the on-disk build-file package cache under the
// XDG state directory, creating the directory if necessary.
func openPersistCache() (*persist.Cache, error) {
	dir, err := stateDir("quartz")
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return persist.Open(filepath.Join(dir, "build_cache.db"))
}

// loadConfigOverlay applies spec.md §6's on-disk fallback when the client
// sends no initializationOptions: a workspace-local quartz.json takes
// priority over one in the XDG config directory, and either overlays
// defaultConfig the same way Load does. Missing files fall through to
// defaultConfig silently; a malformed file is logged and ignored rather
// than failing initialize.
func (s *Server) loadConfigOverlay(rootURI *string) config.Config {
	var candidates []string
	if rootURI != nil {
		if root, err := url.Parse(*rootURI); err == nil {
			candidates = append(candidates, filepath.Join(root.Path, "quartz.json"))
		}
	}
	if dir, err := configDir("quartz"); err == nil {
		candidates = append(candidates, filepath.Join(dir, "quartz.json"))
	}

	for _, path := range candidates {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		cfg, err := config.LoadFromJSON(f)
		f.Close()
		if err != nil {
			s.log.Info(fmt.Sprintf("ignoring malformed config overlay %s: %v", path, err))
			continue
		}
		return cfg
	}
	loaded, _ := config.Load(nil)
	return loaded
}

// semanticTokenTypes/semanticTokenModifiers are spec.md §4.8's full
// token legend. Not every entry has a producer in semantictokens.go —
// this grammar has no async/abstract/generic constructs — but the
// legend itself is advertised in full so a client's highlighter can
// theme every category the protocol defines, matching zls's own
// legend-vs-emitter split.
var (
	semanticTokenTypes = []string{
		"keyword", "namespace", "type", "parameter", "variable",
		"enumMember", "field", "errorTag", "function", "comment",
		"string", "number", "operator", "builtin", "label",
	}
	semanticTokenModifiers = []string{
		"declaration", "definition", "readonly", "static", "deprecated",
		"abstract", "async", "modification", "documentation",
		"defaultLibrary", "generic",
	}
)

// showImportGraphCommand rebuilds the import graph from every currently
// loaded handle and opens (or reuses) the visualizer tab. Grounded on
// internal/server/command_handler.go's graph()/ProcessEvents pair,
// generalized from an incremental note-cache subscription to a
// one-shot snapshot of store.Store.AllHandles rebuilt on each command
// invocation (the store has no equivalent event stream to subscribe to).
func (s *Server) showImportGraphCommand(ctx *glsp.Context) error {
	s.mu.RLock()
	st := s.store
	addr := s.graphAddr
	s.mu.RUnlock()
	if st == nil {
		return nil
	}

	if addr == "" {
		addr = graph.ShowGraph(":0")
		s.mu.Lock()
		s.graphAddr = addr
		s.mu.Unlock()
	}

	ids := map[string]int{}
	nextID := 0
	idFor := func(uri string) int {
		if id, ok := ids[uri]; ok {
			return id
		}
		nextID++
		ids[uri] = nextID
		return nextID
	}

	var data graph.GraphData
	for _, h := range st.AllHandles() {
		data.Nodes = append(data.Nodes, graph.Node{ID: idFor(h.URI), Label: h.URI})
	}
	for _, h := range st.AllHandles() {
		for _, imp := range h.ImportURIs {
			data.Links = append(data.Links, graph.Link{Source: idFor(h.URI), Target: idFor(imp)})
		}
	}
	if err := graph.Reset(data); err != nil {
		return err
	}

	ctx.Notify("window/showDocument", protocol.ShowDocumentParams{
		URI:      protocol.URI(addr),
		External: boolPtr(true),
	})
	return nil
}
