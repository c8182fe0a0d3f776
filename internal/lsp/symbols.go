package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"quartz/internal/fuzzy"
	"quartz/internal/langast"
	"quartz/internal/store"
)

// textDocumentDocumentSymbol implements spec.md §4.8's hierarchical
// outline: top-level declarations, with container members nested under
// their declaring struct/enum/union.
func (s *Server) textDocumentDocumentSymbol(
	ctx *glsp.Context,
	params *protocol.DocumentSymbolParams,
) (any, error) {
	s.mu.RLock()
	st := s.store
	s.mu.RUnlock()

	h, ok := st.GetHandle(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	tree := h.Tree()

	var out []protocol.DocumentSymbol
	for _, d := range tree.Nodes[tree.Root].List {
		if sym, ok := documentSymbolFor(h, tree, d); ok {
			out = append(out, sym)
		}
	}
	return out, nil
}

func documentSymbolFor(h *store.Handle, tree *langast.Tree, node int32) (protocol.DocumentSymbol, bool) {
	n := tree.Nodes[node]
	name := tree.NodeName(node)
	if name == "" {
		return protocol.DocumentSymbol{}, false
	}

	var kind protocol.SymbolKind
	switch n.Tag {
	case langast.NodeFnDecl:
		kind = protocol.SymbolKindFunction
	case langast.NodeVarDecl:
		if n.Mutable {
			kind = protocol.SymbolKindVariable
		} else {
			kind = protocol.SymbolKindConstant
		}
	case langast.NodeContainerField:
		kind = protocol.SymbolKindField
	default:
		return protocol.DocumentSymbol{}, false
	}

	nameRange := toProtoRange(tokenRange(h, n.MainToken))
	fullRange := nameRange
	if n.StartTok >= 0 && n.EndTok >= n.StartTok {
		fullRange = toProtoRange(spanRange(h, n.StartTok, n.EndTok))
	}

	sym := protocol.DocumentSymbol{
		Name:           name,
		Kind:           kind,
		Range:          fullRange,
		SelectionRange: nameRange,
	}
	if n.Tag == langast.NodeVarDecl && n.Rhs >= 0 && tree.Nodes[n.Rhs].Tag == langast.NodeContainerDecl {
		container := tree.Nodes[n.Rhs]
		sym.Kind = containerSymbolKind(container.Tag)
		for _, member := range container.List {
			if child, ok := documentSymbolFor(h, tree, member); ok {
				sym.Children = append(sym.Children, child)
			}
		}
	}
	return sym, true
}

func containerSymbolKind(langast.NodeTag) protocol.SymbolKind {
	return protocol.SymbolKindStruct
}

// workspaceSymbol implements spec.md §4.7's workspace-wide fuzzy symbol
// search. Grounded on internal/server/definition_handlers.go's
// workspaceSymbol, generalized from note titles to declared names and
// from the inline bitap scan to internal/fuzzy.FilterParallel.
func (s *Server) workspaceSymbol(
	ctx *glsp.Context,
	params *protocol.WorkspaceSymbolParams,
) ([]protocol.SymbolInformation, error) {
	s.mu.RLock()
	st := s.store
	s.mu.RUnlock()
	if st == nil {
		return nil, nil
	}

	type candidate struct {
		name string
		uri  string
		tok  int32
	}
	var candidates []candidate
	names := make(map[string][]int, 0)
	for _, h := range st.AllHandles() {
		tree := h.Tree()
		for _, d := range tree.Nodes[tree.Root].List {
			name := tree.NodeName(d)
			if name == "" {
				continue
			}
			idx := len(candidates)
			candidates = append(candidates, candidate{name: name, uri: h.URI, tok: tree.Nodes[d].MainToken})
			names[name] = append(names[name], idx)
		}
	}

	pool := make([]string, 0, len(candidates))
	seen := map[string]bool{}
	for _, c := range candidates {
		if seen[c.name] {
			continue
		}
		seen[c.name] = true
		pool = append(pool, c.name)
	}

	const maxResults = 128
	hits := fuzzy.FilterParallel(params.Query, pool, 2, maxResults)

	var out []protocol.SymbolInformation
	for _, name := range hits {
		for _, idx := range names[name] {
			c := candidates[idx]
			h, ok := st.GetHandle(c.uri)
			if !ok {
				continue
			}
			out = append(out, protocol.SymbolInformation{
				Name:     name,
				Kind:     protocol.SymbolKindVariable,
				Location: protocol.Location{URI: c.uri, Range: toProtoRange(tokenRange(h, c.tok))},
			})
		}
	}
	return out, nil
}
