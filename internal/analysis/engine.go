package analysis

import (
	"quartz/internal/astadapter"
	"quartz/internal/store"
)

// maxAliasDepth bounds alias-chain and pointer/optional unwrap
// traversal (spec.md §9 Open Question: "the target implementation must
// choose an explicit bound (suggested: 32)").
const maxAliasDepth = 32

// Engine is spec.md L6's analysis engine. It holds no state of its own
// beyond a per-request type-resolution cache; every lookup is computed
// fresh from the store's current handles, matching spec.md's invariant
// that stale offsets are never reused across a reparse.
type Engine struct {
	store *store.Store

	// typeCache memoizes resolveTypeOfNode within one Engine's lifetime
	// (spec.md §4.6(b): "computes ... caching per-handle"). An Engine is
	// created fresh per request by internal/lsp, so this is exactly the
	// per-request arena spec.md §5 describes for short-lived allocation.
	typeCache map[typeCacheKey]*TypeWithHandle
}

type typeCacheKey struct {
	uri  string
	node int32
}

// New builds an Engine over s. Call once per request.
func New(s *store.Store) *Engine {
	return &Engine{store: s, typeCache: make(map[typeCacheKey]*TypeWithHandle)}
}

// handleTree is a small pair used throughout the resolver to keep a
// node index paired with the adapter whose tree it belongs to, since
// nodes are only meaningful relative to one tree (spec.md: "types are
// cross-file"). Resolution reaches the concrete parse tree exclusively
// through astadapter.Adapter, spec.md §4.4's L4 interface.
type handleTree struct {
	uri string
	ad  *astadapter.Adapter
}

func (e *Engine) handleFor(uri string) (handleTree, bool) {
	h, ok := e.store.GetHandle(uri)
	if !ok {
		return handleTree{}, false
	}
	return handleTree{uri: uri, ad: h.Adapter()}, true
}
