package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"quartz/internal/analysis"
	"quartz/internal/langast"
	"quartz/internal/refs"
	"quartz/internal/store"
)

// textDocumentDefinition implements spec.md §4.7 goto_definition:
// resolve the symbol under the cursor and follow member aliases to
// their ultimate target, matching resolve_var_decl_alias's "follows
// aliases" clause.
func (s *Server) textDocumentDefinition(
	ctx *glsp.Context,
	params *protocol.DefinitionParams,
) (any, error) {
	s.mu.RLock()
	st := s.store
	s.mu.RUnlock()

	h, ok := st.GetHandle(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	eng := analysis.New(st)
	decl, ok := declarationAtPosition(eng, h, params.Position)
	if !ok {
		return nil, nil
	}
	if declHandle, ok := st.GetHandle(decl.HandleURI); ok && decl.Kind == analysis.DeclASTNode {
		if resolved, ok := eng.ResolveVarDeclAlias(declHandle, decl.Index); ok {
			decl = resolved
		}
	}
	return declarationLocation(st, eng, decl), nil
}

// textDocumentDeclaration implements spec.md §4.7 goto_declaration: the
// resolved symbol's own site, without following alias chains.
func (s *Server) textDocumentDeclaration(
	ctx *glsp.Context,
	params *protocol.DeclarationParams,
) (any, error) {
	s.mu.RLock()
	st := s.store
	s.mu.RUnlock()

	h, ok := st.GetHandle(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	eng := analysis.New(st)
	decl, ok := declarationAtPosition(eng, h, params.Position)
	if !ok {
		return nil, nil
	}
	return declarationLocation(st, eng, decl), nil
}

// textDocumentReferences implements spec.md §4.7 symbol_references /
// label_references, dispatching on the resolved declaration's kind.
// Grounded on internal/server/definition_handlers.go's
// textDocumentReferences.
func (s *Server) textDocumentReferences(
	ctx *glsp.Context,
	params *protocol.ReferenceParams,
) ([]protocol.Location, error) {
	s.mu.RLock()
	st := s.store
	skipStd := s.cfg.SkipStdReferences
	s.mu.RUnlock()

	h, ok := st.GetHandle(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	eng := analysis.New(st)
	decl, ok := declarationAtPosition(eng, h, params.Position)
	if !ok {
		return nil, nil
	}

	var locs []refs.Location
	if decl.Kind == analysis.DeclLabel {
		locs = refs.LabelReferences(eng, h, decl, params.Context.IncludeDeclaration)
	} else {
		locs = refs.SymbolReferences(eng, st, decl, params.Context.IncludeDeclaration, skipStd)
	}

	out := make([]protocol.Location, 0, len(locs))
	for _, l := range locs {
		out = append(out, toProtoLocation(l.URI, l.Range))
	}
	return out, nil
}

// textDocumentRename implements spec.md §4.7 rename_symbol.
func (s *Server) textDocumentRename(
	ctx *glsp.Context,
	params *protocol.RenameParams,
) (*protocol.WorkspaceEdit, error) {
	s.mu.RLock()
	st := s.store
	s.mu.RUnlock()

	h, ok := st.GetHandle(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	eng := analysis.New(st)
	decl, ok := declarationAtPosition(eng, h, params.Position)
	if !ok {
		return nil, nil
	}

	edit := refs.RenameSymbol(eng, st, decl, params.NewName)
	out := &protocol.WorkspaceEdit{Changes: make(map[string][]protocol.TextEdit, len(edit.Changes))}
	for uri, edits := range edit.Changes {
		converted := make([]protocol.TextEdit, 0, len(edits))
		for _, e := range edits {
			converted = append(converted, protocol.TextEdit{Range: toProtoRange(e.Range), NewText: e.NewText})
		}
		out.Changes[uri] = converted
	}
	return out, nil
}

// declarationAtPosition resolves the symbol, label, or field-access
// member at pos to a Declaration, the shared first step of definition,
// declaration, references, and rename.
func declarationAtPosition(eng *analysis.Engine, h *store.Handle, pos protocol.Position) (analysis.Declaration, bool) {
	tree := h.Tree()
	tok := tokenAtByte(tree, posToByte(h, pos))
	if tok < 0 || int(tok) >= len(tree.Tokens) {
		return analysis.Declaration{}, false
	}

	pc := analysis.ClassifyPosition(h, tok)
	if pc.Kind == analysis.ContextLabel {
		if tree.Tokens[tok].Tag == langast.TokIdentifier {
			return eng.LookupLabel(h, string(tree.TokenSource(tok)), tok)
		}
	}

	return resolveDeclarationAtToken(eng, h, tree, tok)
}

func declarationLocation(st *store.Store, eng *analysis.Engine, decl analysis.Declaration) protocol.Location {
	h, ok := st.GetHandle(decl.HandleURI)
	if !ok {
		return protocol.Location{}
	}
	tok := decl.NameToken(eng)
	return toProtoLocation(decl.HandleURI, tokenRange(h, tok))
}
