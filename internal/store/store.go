package store

import (
	"sync"

	"quartz/internal/langast"
	"quartz/internal/offset"
	"quartz/internal/store/persist"
	"quartz/internal/uri"
)

// FileReader abstracts reading a file from disk, so imported files can
// be loaded on demand without the store depending on os directly (kept
// swappable for tests, matching how the teacher's scanner.Scan takes
// callback/skip closures instead of hard-coding I/O). Only the direct
// imports of a document passed to OpenDocument or ApplyChanges are
// loaded; a handle loaded for an import does not have its own imports
// loaded.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// Store owns every open or transitively-imported handle, keyed by URI.
type Store struct {
	mu       sync.Mutex
	handles  map[string]*Handle
	encoding offset.Encoding
	reader   FileReader
	stdRoot  string // zig_lib_path equivalent; "" disables std resolution
	persist  *persist.Cache
}

// SetPersistCache attaches an on-disk cache of previously discovered
// build-file package tables, consulted by refreshBuildFile as a
// fallback when the build-runner script fails.
func (s *Store) SetPersistCache(pc *persist.Cache) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persist = pc
}

// New creates an empty Store. enc is the encoding negotiated during
// initialize; reader loads file contents for on-demand imports.
func New(enc offset.Encoding, reader FileReader) *Store {
	return &Store{
		handles:  make(map[string]*Handle),
		encoding: enc,
		reader:   reader,
	}
}

// SetStdRoot configures the standard-library root used by import
// resolution (spec.md §4.5's "standard library root" clause).
func (s *Store) SetStdRoot(root string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stdRoot = root
}

// StdRoot returns the configured standard-library root, or "" if none
// was set. Used by references/rename's skip_std filter (spec.md §4.7).
func (s *Store) StdRoot() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stdRoot
}

// GetHandle looks up a handle without changing its refcount.
func (s *Store) GetHandle(docURI string) (*Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.handles[docURI]
	return h, ok
}

// AllHandles returns every handle currently in the store, for whole-graph
// walks (L7 references/rename, workspace symbols).
func (s *Store) AllHandles() []*Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Handle, 0, len(s.handles))
	for _, h := range s.handles {
		out = append(out, h)
	}
	return out
}

// OpenDocument implements spec.md §4.5 open_document: idempotent open,
// replacing text if it differs, loading and ref-counting its imports.
func (s *Store) OpenDocument(docURI, text string) *Handle {
	s.mu.Lock()
	h, exists := s.handles[docURI]
	if !exists {
		h = newHandle(docURI, text, s.encoding)
		s.handles[docURI] = h
	} else if string(h.Text()) != text {
		h.replaceAll(text)
	}
	h.Open = true
	s.mu.Unlock()

	s.syncImports(h)
	return h
}

// WarmDocument preloads a file discovered by a workspace scan without
// marking it open, so workspace/symbol can see it before any editor
// opens a buffer for it. A handle that already exists (because it was
// opened or reached via import) is left untouched — the scan never
// overwrites live state with a stale on-disk read.
func (s *Store) WarmDocument(docURI, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.handles[docURI]; exists {
		return
	}
	s.handles[docURI] = newHandle(docURI, text, s.encoding)
}

// CloseDocument implements spec.md §4.5 close_document: clears the open
// flag and prunes the handle (and cascades) if nothing keeps it alive.
func (s *Store) CloseDocument(docURI string) {
	s.mu.Lock()
	h, ok := s.handles[docURI]
	s.mu.Unlock()
	if !ok {
		return
	}
	h.Open = false
	s.pruneIfUnreachable(docURI)
}

// ApplyChanges implements spec.md §4.5 apply_changes: replay edits in
// order, reparse, then diff the import set to adjust downstream refcounts.
func (s *Store) ApplyChanges(docURI string, edits []Edit) {
	h, ok := s.GetHandle(docURI)
	if !ok {
		return
	}
	for _, e := range edits {
		if e.WholeDocument {
			h.replaceAll(e.Text)
		} else {
			h.replace(e.Range, e.Text)
		}
	}
	s.syncImports(h)
}

// Edit is one document change, carrying either a full-document
// replacement or a ranged splice in the negotiated encoding.
type Edit struct {
	WholeDocument bool
	Range         offset.Range
	Text          string
}

// syncImports rescans h's tree for import expressions, resolves each to
// a URI, and adjusts refcounts for the symmetric difference against the
// previous import set — spec.md's "Import-graph invariants" paragraph.
func (s *Store) syncImports(h *Handle) {
	newStrings := scanImportStrings(h.Tree())
	newURIs := make([]string, 0, len(newStrings))
	seen := make(map[string]bool, len(newStrings))
	for _, imp := range newStrings {
		target, ok := s.UriFromImport(h, imp)
		if !ok || seen[target] {
			continue
		}
		seen[target] = true
		newURIs = append(newURIs, target)
	}

	oldSet := make(map[string]bool, len(h.ImportURIs))
	for _, u := range h.ImportURIs {
		oldSet[u] = true
	}
	newSet := make(map[string]bool, len(newURIs))
	for _, u := range newURIs {
		newSet[u] = true
	}

	for u := range newSet {
		if !oldSet[u] {
			s.retain(u)
		}
	}
	for u := range oldSet {
		if !newSet[u] {
			s.release(u)
		}
	}

	h.ImportURIs = newURIs
}

// retain loads target (if necessary) and increments its refcount. If
// target cannot be read — it disappeared between UriFromImport's
// existence check and this call — no handle is created and the
// refcount is left untouched, matching spec.md's "import of a missing
// file creates no handle" boundary.
func (s *Store) retain(targetURI string) {
	s.mu.Lock()
	if h, ok := s.handles[targetURI]; ok {
		h.RefCount++
		s.mu.Unlock()
		return
	}
	reader := s.reader
	s.mu.Unlock()

	path, err := uri.URIToPath(targetURI)
	if err != nil || reader == nil {
		return
	}
	b, err := reader.ReadFile(path)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.handles[targetURI]
	if !ok {
		h = newHandle(targetURI, string(b), s.encoding)
		s.handles[targetURI] = h
	}
	h.RefCount++
}

// release decrements target's refcount and prunes it if it is now
// unreachable, cascading into its own imports.
func (s *Store) release(targetURI string) {
	s.mu.Lock()
	h, ok := s.handles[targetURI]
	if !ok {
		s.mu.Unlock()
		return
	}
	h.RefCount--
	s.mu.Unlock()
	s.pruneIfUnreachable(targetURI)
}

// pruneIfUnreachable destroys a handle once open=false and ref_count=0,
// cascading the release of everything it itself imports — spec.md's
// "Destroying a handle decrements ref_counts of every URI it imports"
// invariant.
func (s *Store) pruneIfUnreachable(docURI string) {
	s.mu.Lock()
	h, ok := s.handles[docURI]
	if !ok {
		s.mu.Unlock()
		return
	}
	if h.Open || h.RefCount > 0 {
		s.mu.Unlock()
		return
	}
	imports := h.ImportURIs
	delete(s.handles, docURI)
	s.mu.Unlock()

	for _, imp := range imports {
		s.release(imp)
	}
}

// ApplySave implements spec.md §4.5 apply_save: re-runs build-file
// discovery when the saved handle is itself recognized as a build file.
func (s *Store) ApplySave(docURI string, describe DescribeBuildFunc) {
	h, ok := s.GetHandle(docURI)
	if !ok {
		return
	}
	if IsBuildFile(docURI) {
		s.refreshBuildFile(h, describe)
	}
}

func scanImportStrings(tree *langast.Tree) []string {
	var out []string
	for i, n := range tree.Nodes {
		if n.Tag != langast.NodeBuiltinCall {
			continue
		}
		if tree.NodeName(int32(i)) != "import" {
			continue
		}
		if len(n.List) == 0 {
			continue
		}
		arg := tree.Nodes[n.List[0]]
		if arg.Tag != langast.NodeStringLiteral {
			continue
		}
		raw := string(tree.TokenSource(arg.MainToken))
		out = append(out, unquote(raw))
	}
	return out
}

func unquote(raw string) string {
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		return raw[1 : len(raw)-1]
	}
	return raw
}
