// fieldaccess.go implements spec.md §4.6(c): resolving a dotted chain
// `a.b.c...` by left-folding over its segments, unwrapping pointers and
// optionals automatically and following aliases through each step.
// Grounded on internal/parser/resolve.go's ExtractLinks left-to-right
// scan over a reference string, generalized from string targets to
// typed declarations.
package analysis

import (
	"quartz/internal/astadapter"
	"quartz/internal/langast"
	"quartz/internal/store"
)

// TopLevelLookup finds name among h's top-level declarations only,
// bypassing local/parameter scope — used to resolve the first segment
// after `@import("...")`  (spec.md's "owner's associated build file's
// package table" collaborator lands you in a different file's
// namespace, not a scope nested inside it).
func (e *Engine) TopLevelLookup(h *store.Handle, name string) (Declaration, bool) {
	ad := h.Adapter()
	for _, d := range ad.RootDecls() {
		if topLevelName(ad, d) == name {
			return Declaration{Kind: DeclASTNode, HandleURI: h.URI, Index: d}, true
		}
	}
	return Declaration{}, false
}

// segments splits a NodeFieldAccess chain into its base expression and
// the ordered list of `.name` FieldAccess node indices, left to right.
func segments(ad *astadapter.Adapter, node int32) (base int32, fields []int32) {
	var chain []int32
	cur := node
	for ad.NodeTag(cur) == langast.NodeFieldAccess {
		chain = append(chain, cur)
		lhs, _ := ad.NodeData(cur)
		cur = lhs
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return cur, chain
}

func unquoteToken(ad *astadapter.Adapter, tok int32) string {
	raw := string(ad.TokenText(tok))
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		return raw[1 : len(raw)-1]
	}
	return raw
}

// ResolveFieldAccessChainForHandle is ResolveFieldAccessChain's public
// entrypoint for callers outside this package (internal/refs) that only
// have a *store.Handle, not the internal handleTree pairing.
func (e *Engine) ResolveFieldAccessChainForHandle(h *store.Handle, node int32) (FieldAccessReturn, bool) {
	return e.ResolveFieldAccessChain(handleTree{uri: h.URI, ad: h.Adapter()}, node)
}

// ResolveFieldAccessChain resolves node (a NodeFieldAccess) to a
// FieldAccessReturn, implementing spec.md §4.6(c) exactly: start by
// resolving the leftmost identifier, then for each subsequent segment
// unwrap pointers/optionals, look the name up as an instance member of
// the current container, and follow aliases transparently.
func (e *Engine) ResolveFieldAccessChain(ht handleTree, node int32) (FieldAccessReturn, bool) {
	base, fields := segments(ht.ad, node)
	baseTag := ht.ad.NodeTag(base)

	var curDecl Declaration
	var curType TypeWithHandle

	// An identifier bound to `const A = @import("...")` resolves through
	// the import expression itself.
	if baseTag == langast.NodeIdentifier {
		if h, ok := e.store.GetHandle(ht.uri); ok {
			mainTok := ht.ad.MainToken(base)
			if decl, ok := e.LookupSymbolGlobal(h, string(ht.ad.TokenText(mainTok)), mainTok); ok &&
				decl.Kind == DeclASTNode && decl.HandleURI == ht.uri && ht.ad.NodeTag(decl.Index) == langast.NodeVarDecl {
				if _, init := ht.ad.NodeData(decl.Index); init >= 0 &&
					ht.ad.NodeTag(init) == langast.NodeBuiltinCall && ht.ad.NodeName(init) == "import" {
					base, baseTag = init, langast.NodeBuiltinCall
				}
			}
		}
	}

	if baseTag == langast.NodeBuiltinCall && ht.ad.NodeName(base) == "import" {
		baseArgs := ht.ad.NodeChildren(base)
		if len(fields) == 0 || len(baseArgs) == 0 {
			return FieldAccessReturn{}, false
		}
		argNode := baseArgs[0]
		if ht.ad.NodeTag(argNode) != langast.NodeStringLiteral {
			return FieldAccessReturn{}, false
		}
		h, ok := e.store.GetHandle(ht.uri)
		if !ok {
			return FieldAccessReturn{}, false
		}
		targetURI, ok := e.store.UriFromImport(h, unquoteToken(ht.ad, ht.ad.MainToken(argNode)))
		if !ok {
			return FieldAccessReturn{}, false
		}
		targetH, ok := e.store.GetHandle(targetURI)
		if !ok {
			return FieldAccessReturn{}, false
		}
		name := ht.ad.NodeName(fields[0])
		decl, ok := e.TopLevelLookup(targetH, name)
		if !ok {
			return FieldAccessReturn{}, false
		}
		if resolved, ok := e.followMemberAlias(decl, 0); ok {
			decl = resolved
		}
		curDecl = decl
		curType, _ = e.declaredType(decl)
		fields = fields[1:]
	} else if baseTag == langast.NodeIdentifier {
		h, ok := e.store.GetHandle(ht.uri)
		if !ok {
			return FieldAccessReturn{}, false
		}
		mainTok := ht.ad.MainToken(base)
		decl, ok := e.LookupSymbolGlobal(h, string(ht.ad.TokenText(mainTok)), mainTok)
		if !ok {
			return FieldAccessReturn{}, false
		}
		curDecl = decl
		curType, ok = e.declaredType(decl)
		if !ok {
			return FieldAccessReturn{}, false
		}
	} else {
		// Any other base expression (a call, a parenthesized expr, ...)
		// resolves through the general expression-type resolver.
		t, ok := e.resolveTypeOfNodeInternal(ht, base)
		if !ok {
			return FieldAccessReturn{}, false
		}
		curType = t
	}

	for _, f := range fields {
		name := ht.ad.NodeName(f)
		containerHT, containerNode, ok := e.containerOf(curType)
		if !ok {
			return FieldAccessReturn{}, false
		}
		decl, ok := e.LookupSymbolContainer(containerHT, containerNode, name, true)
		if !ok {
			return FieldAccessReturn{}, false
		}
		if resolved, ok := e.followMemberAlias(decl, 0); ok {
			decl = resolved
		}
		curDecl = decl
		curType, _ = e.declaredType(decl)
	}

	far := FieldAccessReturn{Original: curType, Decl: curDecl}
	if unwrapped, ok := e.unwrapOnce(curType); ok {
		far.Unwrapped = &unwrapped
	}
	return far, true
}
