package lsp

import (
	"fmt"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"quartz/internal/analysis"
	"quartz/internal/builtins"
	"quartz/internal/langast"
	"quartz/internal/store"
)

// textDocumentHover implements spec.md §4.8's hover: a signature line
// plus the declaration's doc comment, rendered as Markdown. Grounded on
// walteh-gotmpls__server.go / nevalang-neva-lsp__symbols.go's
// protocol.Hover{Contents: protocol.MarkupContent{...}} shape.
func (s *Server) textDocumentHover(
	ctx *glsp.Context,
	params *protocol.HoverParams,
) (*protocol.Hover, error) {
	s.mu.RLock()
	st := s.store
	s.mu.RUnlock()

	h, ok := st.GetHandle(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	tree := h.Tree()
	tok := tokenAtByte(tree, posToByte(h, params.Position))
	if tok < 0 || int(tok) >= len(tree.Tokens) {
		return nil, nil
	}

	if isBuiltinCallToken(tree, tok) {
		if b, ok := builtins.Lookup(string(tree.TokenSource(tok))); ok {
			return &protocol.Hover{
				Contents: protocol.MarkupContent{
					Kind:  protocol.MarkupKindMarkdown,
					Value: fmt.Sprintf("```\n%s\n```\n%s", b.Signature, b.Doc),
				},
			}, nil
		}
		return nil, nil
	}

	eng := analysis.New(st)
	decl, ok := resolveDeclarationAtToken(eng, h, tree, tok)
	if !ok {
		return nil, nil
	}

	value := hoverSignature(st, eng, decl)
	if doc, ok := eng.DocComment(decl); ok {
		value += "\n\n" + doc
	}
	rng := toProtoRange(tokenRange(h, tok))
	return &protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: value},
		Range:    &rng,
	}, nil
}

// isBuiltinCallToken reports whether tok is the name half of an
// `@name(...)` builtin call, i.e. the token immediately before it is "@".
func isBuiltinCallToken(tree *langast.Tree, tok int32) bool {
	for i := tok - 1; i >= 0; i-- {
		switch tree.Tokens[i].Tag {
		case langast.TokDocComment, langast.TokLineComment:
			continue
		default:
			return tree.Tokens[i].Tag == langast.TokAt
		}
	}
	return false
}

// resolveDeclarationAtToken finds the smallest enclosing NodeFieldAccess
// whose member name sits at tok (resolving it through the field-access
// chain) or, failing that, the NodeIdentifier at tok (resolving it
// through ordinary scoped lookup) — the same two cases
// internal/refs.scanHandleForReferences distinguishes.
func resolveDeclarationAtToken(eng *analysis.Engine, h *store.Handle, tree *langast.Tree, tok int32) (analysis.Declaration, bool) {
	for i, n := range tree.Nodes {
		if n.Tag == langast.NodeFieldAccess && n.MainToken == tok {
			far, ok := eng.ResolveFieldAccessChainForHandle(h, int32(i))
			if !ok {
				return analysis.Declaration{}, false
			}
			return far.Decl, true
		}
	}
	if tree.Tokens[tok].Tag == langast.TokIdentifier {
		name := string(tree.TokenSource(tok))
		return eng.LookupSymbolGlobal(h, name, tok)
	}
	return analysis.Declaration{}, false
}

// hoverSignature renders decl's signature line. Function declarations
// spell out their parameter list and return type from the AST rather
// than a placeholder, matching spec.md §4.8's hover example
// (`fn add(a: i32, b: i32) i32`).
func hoverSignature(st *store.Store, eng *analysis.Engine, decl analysis.Declaration) string {
	name := decl.Name(eng)
	if decl.NodeKind(eng) == langast.NodeFnDecl {
		if h, ok := st.GetHandle(decl.HandleURI); ok {
			tree := h.Tree()
			params, ret := fnSignatureParts(tree, decl.Index)
			sig := fmt.Sprintf("fn %s(%s)", name, params)
			if ret != "" {
				sig += " " + ret
			}
			return fmt.Sprintf("```\n%s\n```", sig)
		}
	}
	return fmt.Sprintf("```\n%s\n```", name)
}

// fnSignatureParts renders an fn declaration's parameter list and return
// type as source text, walking the type-expression node shapes
// internal/langast's parseTypeExpr produces.
func fnSignatureParts(tree *langast.Tree, fnNode int32) (params, ret string) {
	fn := tree.Nodes[fnNode]
	parts := make([]string, 0, len(fn.List))
	for _, p := range fn.List {
		pn := tree.Nodes[p]
		pname := string(tree.TokenSource(pn.MainToken))
		if pn.Lhs >= 0 {
			pname += ": " + typeExprSource(tree, pn.Lhs)
		}
		parts = append(parts, pname)
	}
	if fn.Rhs >= 0 {
		ret = typeExprSource(tree, fn.Rhs)
	}
	return strings.Join(parts, ", "), ret
}

// typeExprSource reconstructs the source text of a type-expression node,
// recursing through the pointer/optional/error-union/slice wrappers
// parseTypeExpr builds around a base identifier or field-access chain.
func typeExprSource(tree *langast.Tree, idx int32) string {
	if idx < 0 || int(idx) >= len(tree.Nodes) {
		return ""
	}
	n := tree.Nodes[idx]
	switch n.Tag {
	case langast.NodePtrType:
		return "*" + typeExprSource(tree, n.Lhs)
	case langast.NodePtrConstType:
		return "*const " + typeExprSource(tree, n.Lhs)
	case langast.NodeOptionalType:
		return "?" + typeExprSource(tree, n.Lhs)
	case langast.NodeSliceType:
		return "[]" + typeExprSource(tree, n.Lhs)
	case langast.NodeErrorUnionType:
		errSet := ""
		if n.Lhs >= 0 {
			errSet = typeExprSource(tree, n.Lhs)
		}
		return errSet + "!" + typeExprSource(tree, n.Rhs)
	case langast.NodeFieldAccess:
		return typeExprSource(tree, n.Lhs) + "." + string(tree.TokenSource(n.MainToken))
	default:
		return string(tree.TokenSource(n.MainToken))
	}
}
