// Package store owns document handles keyed by URI, the refcounted
// import graph between them, and build-script-driven include-path
// discovery (spec.md L5 / §3). Grounded on internal/manager/manager.go's
// DocumentManager for the per-URI parser/doc bookkeeping and on
// internal/cache/graph.go for the forward/back-link bookkeeping style,
// generalized from a note graph to an import DAG with true refcounting.
package store

import (
	"sync"

	"github.com/segmentio/ksuid"

	"quartz/internal/astadapter"
	"quartz/internal/document"
	"quartz/internal/langast"
	"quartz/internal/offset"
)

// Handle is one managed file: spec.md §3's DocumentHandle.
type Handle struct {
	URI string

	mu      sync.RWMutex
	doc     *document.Document
	tree    *langast.Tree
	adapter *astadapter.Adapter

	Open            bool
	ImportURIs      []string // lexical order
	RefCount        int
	AssociatedBuild *BuildFile

	// Generation stamps each (re)creation of a handle at this URI with a
	// fresh id, so two handles created at the same URI can be told apart.
	// Declaration values do not record it, and nothing in the module
	// compares it.
	Generation string
}

func newHandle(uri string, text string, enc offset.Encoding) *Handle {
	h := &Handle{
		URI:        uri,
		doc:        document.New(text, enc),
		Generation: ksuid.New().String(),
	}
	h.reparse()
	return h
}

func (h *Handle) reparse() {
	h.tree = langast.Parse(h.doc.Text())
	h.adapter = astadapter.Wrap(h.tree)
}

// Text returns the handle's current buffer contents.
func (h *Handle) Text() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.doc.Text()
}

// Tree returns the handle's current parsed syntax tree.
func (h *Handle) Tree() *langast.Tree {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.tree
}

// Encoding returns the column encoding negotiated for this handle.
func (h *Handle) Encoding() offset.Encoding {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.doc.Encoding()
}

// Adapter returns the AST adapter wrapping the handle's current tree.
func (h *Handle) Adapter() *astadapter.Adapter {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.adapter
}

// replaceAll replaces the buffer wholesale and reparses.
func (h *Handle) replaceAll(text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.doc.ReplaceAll(text)
	h.reparse()
}

// replace splices a single edit into the buffer and reparses.
func (h *Handle) replace(r offset.Range, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.doc.Replace(r, text)
	h.reparse()
}
