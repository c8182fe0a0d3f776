// Package refs implements spec.md L7: symbol_references, label_references,
// and rename_symbol. Grounded on internal/parser/resolve.go's whole-graph
// backlink scan, generalized from "walk every note for the same link
// target" to "walk every handle for the same resolved declaration".
package refs

import (
	"strings"

	"quartz/internal/analysis"
	"quartz/internal/langast"
	"quartz/internal/offset"
	"quartz/internal/store"
)

// Location is a URI plus a range in that document, independent of any
// particular LSP protocol binding.
type Location struct {
	URI   string
	Range offset.Range
}

func tokenLocation(h *store.Handle, tok int32) Location {
	tree := h.Tree()
	tk := tree.Tokens[tok]
	return Location{
		URI:   h.URI,
		Range: offset.Range{
			Start: offset.ByteToPosition(tree.Source, tk.Start, h.Encoding()),
			End:   offset.ByteToPosition(tree.Source, tk.End, h.Encoding()),
		},
	}
}

// SymbolReferences implements spec.md §4.7 symbol_references: walks every
// handle in s, and every identifier or field-name token in it, emitting a
// Location for each whose resolved declaration equals target.
// includeDecl also emits the declaration's own name-token location.
// skipStd skips handles whose URI contains the store's configured
// standard-library root.
func SymbolReferences(eng *analysis.Engine, s *store.Store, target analysis.Declaration, includeDecl, skipStd bool) []Location {
	stdRoot := s.StdRoot()
	var out []Location
	for _, h := range s.AllHandles() {
		if skipStd && stdRoot != "" && strings.Contains(h.URI, stdRoot) {
			continue
		}
		out = append(out, scanHandleForReferences(eng, h, target, includeDecl)...)
	}
	return out
}

// LabelReferences implements spec.md §4.7 label_references: scoped to the
// single handle containing target, walking only the enclosing function
// body target's label lives in.
func LabelReferences(eng *analysis.Engine, h *store.Handle, target analysis.Declaration, includeDecl bool) []Location {
	if target.Kind != analysis.DeclLabel {
		return nil
	}
	tree := h.Tree()
	var out []Location
	if includeDecl {
		out = append(out, tokenLocation(h, target.Index))
	}
	for _, n := range tree.Nodes {
		if n.Tag != langast.NodeBreak || n.MainToken < 0 {
			continue
		}
		name := string(tree.TokenSource(n.MainToken))
		decl, ok := eng.LookupLabel(h, name, n.MainToken)
		if !ok || !decl.Equal(eng, target) {
			continue
		}
		out = append(out, tokenLocation(h, n.MainToken))
	}
	return out
}

func scanHandleForReferences(eng *analysis.Engine, h *store.Handle, target analysis.Declaration, includeDecl bool) []Location {
	tree := h.Tree()
	var out []Location
	for i, n := range tree.Nodes {
		node := int32(i)
		switch n.Tag {
		case langast.NodeIdentifier:
			name := string(tree.TokenSource(n.MainToken))
			decl, ok := eng.LookupSymbolGlobal(h, name, n.MainToken)
			if ok && decl.Equal(eng, target) {
				out = append(out, tokenLocation(h, n.MainToken))
			}

		case langast.NodeFieldAccess:
			far, ok := eng.ResolveFieldAccessChainForHandle(h, node)
			if ok && far.Decl.Equal(eng, target) {
				out = append(out, tokenLocation(h, n.MainToken))
			}

		case langast.NodeFnDecl, langast.NodeVarDecl, langast.NodeContainerField:
			if !includeDecl {
				continue
			}
			decl := analysis.Declaration{Kind: analysis.DeclASTNode, HandleURI: h.URI, Index: node}
			if decl.Equal(eng, target) {
				out = append(out, tokenLocation(h, n.MainToken))
			}

		case langast.NodeParam:
			if !includeDecl {
				continue
			}
			decl := analysis.Declaration{Kind: analysis.DeclParam, HandleURI: h.URI, Index: node}
			if decl.Equal(eng, target) {
				out = append(out, tokenLocation(h, n.MainToken))
			}

		case langast.NodeBlock:
			if !includeDecl || n.MainToken < 0 {
				continue
			}
			decl := analysis.Declaration{Kind: analysis.DeclLabel, HandleURI: h.URI, Index: n.MainToken}
			if decl.Equal(eng, target) {
				out = append(out, tokenLocation(h, n.MainToken))
			}

		case langast.NodeBreak:
			if n.MainToken < 0 {
				continue
			}
			name := string(tree.TokenSource(n.MainToken))
			decl, ok := eng.LookupLabel(h, name, n.MainToken)
			if ok && decl.Equal(eng, target) {
				out = append(out, tokenLocation(h, n.MainToken))
			}
		}
	}
	return out
}
