// Grounded on internal/parser/resolve.go's link-target lookup, but
// generalized from "one flat namespace of note titles" to spec.md
// §4.6(a)'s scoped walk: locals, then params, then file-top-level.
package analysis

import (
	"quartz/internal/astadapter"
	"quartz/internal/langast"
	"quartz/internal/store"
)

// LookupSymbolGlobal implements spec.md §4.6(a): walk outward from the
// innermost scope containing the token at pos — local declarations
// first, then enclosing function parameters, then file-top-level.
// Imports are ordinary top-level `const`/`var` declarations in this
// grammar, so "each import exposed as a top-level alias" needs no
// separate step: it is already covered by the top-level scan.
func (e *Engine) LookupSymbolGlobal(h *store.Handle, name string, posTok int32) (Declaration, bool) {
	ad := h.Adapter()

	if fn := enclosingFn(ad, posTok); fn >= 0 {
		for _, block := range innermostBlocks(ad, fn, posTok) {
			if decl, ok := localInBlock(ad, block, name, posTok); ok {
				return Declaration{Kind: DeclASTNode, HandleURI: h.URI, Index: decl}, true
			}
		}
		for _, p := range ad.NodeChildren(fn) {
			if ad.NodeTag(p) == langast.NodeParam && ad.NodeName(p) == name {
				return Declaration{Kind: DeclParam, HandleURI: h.URI, Index: p}, true
			}
		}
	}

	for _, d := range ad.RootDecls() {
		if topLevelName(ad, d) == name {
			return Declaration{Kind: DeclASTNode, HandleURI: h.URI, Index: d}, true
		}
	}
	return Declaration{}, false
}

// InScopeDeclarations implements spec.md §4.8's var_access/empty
// completion candidate set: every name visible at posTok, nearest scope
// first — locals from the innermost block outward, then the enclosing
// function's parameters, then file-top-level declarations — with a name
// already seen in an inner scope shadowing the same name further out.
func (e *Engine) InScopeDeclarations(h *store.Handle, posTok int32) []Declaration {
	ad := h.Adapter()
	seen := make(map[string]bool)
	var out []Declaration
	add := func(name string, decl Declaration) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, decl)
	}

	if fn := enclosingFn(ad, posTok); fn >= 0 {
		for _, block := range innermostBlocks(ad, fn, posTok) {
			for _, decl := range localsInBlock(ad, block, posTok) {
				add(ad.NodeName(decl), Declaration{Kind: DeclASTNode, HandleURI: h.URI, Index: decl})
			}
		}
		for _, p := range ad.NodeChildren(fn) {
			if ad.NodeTag(p) == langast.NodeParam {
				add(ad.NodeName(p), Declaration{Kind: DeclParam, HandleURI: h.URI, Index: p})
			}
		}
	}

	for _, d := range ad.RootDecls() {
		add(topLevelName(ad, d), Declaration{Kind: DeclASTNode, HandleURI: h.URI, Index: d})
	}
	return out
}

// localInBlock returns the most recent `const`/`var` statement named
// name declared strictly before posTok within block (not its nested
// blocks — those are handled by the caller's outer loop over the chain).
func localInBlock(ad *astadapter.Adapter, block int32, name string, posTok int32) (int32, bool) {
	best := int32(-1)
	for _, stmt := range ad.NodeChildren(block) {
		if ad.NodeTag(stmt) != langast.NodeVarDecl {
			continue
		}
		start, _ := ad.NodeSpan(stmt)
		if start >= posTok {
			break
		}
		if ad.NodeName(stmt) == name {
			best = stmt
		}
	}
	if best < 0 {
		return -1, false
	}
	return best, true
}

// localsInBlock returns every `const`/`var` statement declared strictly
// before posTok within block, nearest declaration first so the caller can
// walk it in shadowing order (most recent redeclaration wins).
func localsInBlock(ad *astadapter.Adapter, block int32, posTok int32) []int32 {
	var out []int32
	for _, stmt := range ad.NodeChildren(block) {
		if ad.NodeTag(stmt) != langast.NodeVarDecl {
			continue
		}
		start, _ := ad.NodeSpan(stmt)
		if start >= posTok {
			break
		}
		out = append(out, stmt)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func topLevelName(ad *astadapter.Adapter, node int32) string {
	switch ad.NodeTag(node) {
	case langast.NodeVarDecl, langast.NodeFnDecl:
		return ad.NodeName(node)
	default:
		return ""
	}
}

// LookupSymbolContainer implements spec.md §4.6(a): look up name as a
// member of a container. instance=true omits type-only declarations
// (bare `const`/`var` members) and includes instance-reachable members
// (fields and methods, both callable via `value.member`); instance=false
// includes everything, for type-context completion like `Container.Const`.
func (e *Engine) LookupSymbolContainer(ht handleTree, containerNode int32, name string, instance bool) (Declaration, bool) {
	if ht.ad.NodeTag(containerNode) != langast.NodeContainerDecl {
		return Declaration{}, false
	}
	for _, member := range ht.ad.NodeChildren(containerNode) {
		var memberName string
		switch ht.ad.NodeTag(member) {
		case langast.NodeContainerField:
			memberName = ht.ad.NodeName(member)
		case langast.NodeFnDecl:
			memberName = ht.ad.NodeName(member)
		case langast.NodeVarDecl:
			if instance {
				continue // type-only declaration, not instance-reachable
			}
			memberName = ht.ad.NodeName(member)
		default:
			continue
		}
		if memberName == name {
			return Declaration{Kind: DeclASTNode, HandleURI: ht.uri, Index: member}, true
		}
	}
	return Declaration{}, false
}

// ContainerMembers lists every member declaration of a container,
// applying the same instance filter as LookupSymbolContainer. Used by
// completion (spec.md §4.8 field_access).
func (e *Engine) ContainerMembers(ht handleTree, containerNode int32, instance bool) []Declaration {
	if ht.ad.NodeTag(containerNode) != langast.NodeContainerDecl {
		return nil
	}
	var out []Declaration
	for _, member := range ht.ad.NodeChildren(containerNode) {
		switch ht.ad.NodeTag(member) {
		case langast.NodeContainerField, langast.NodeFnDecl:
			out = append(out, Declaration{Kind: DeclASTNode, HandleURI: ht.uri, Index: member})
		case langast.NodeVarDecl:
			if !instance {
				out = append(out, Declaration{Kind: DeclASTNode, HandleURI: ht.uri, Index: member})
			}
		}
	}
	return out
}

// LookupLabel implements spec.md §4.6(a): the enclosing block label of
// this name, searched from the innermost containing block outward.
func (e *Engine) LookupLabel(h *store.Handle, name string, posTok int32) (Declaration, bool) {
	ad := h.Adapter()
	fn := enclosingFn(ad, posTok)
	if fn < 0 {
		return Declaration{}, false
	}
	for _, block := range innermostBlocks(ad, fn, posTok) {
		label := ad.MainToken(block)
		if label < 0 {
			continue
		}
		if string(ad.TokenText(label)) == name {
			return Declaration{Kind: DeclLabel, HandleURI: h.URI, Index: label}, true
		}
	}
	return Declaration{}, false
}
