// completioncontext.go implements the two remaining spec.md §4.8
// completion candidate sets that don't reduce to a simple scope or
// container-member walk: enum_literal ("all variants of the expected
// enum at the cursor") and global_error_set ("all error names defined
// anywhere in the reachable graph").
package analysis

import (
	"quartz/internal/astadapter"
	"quartz/internal/langast"
	"quartz/internal/store"
)

// ExpectedEnumMembers implements spec.md §4.8's enum_literal completion:
// find the nearest enclosing typed `const`/`var` declaration containing
// tok, resolve its declared type, and list that container's variant
// members. Returns nil if no enclosing declaration carries a type
// annotation, or if that type doesn't reduce to a container.
func (e *Engine) ExpectedEnumMembers(h *store.Handle, tok int32) []Declaration {
	ad := h.Adapter()
	decl := enclosingTypedVarDecl(ad, tok)
	if decl < 0 {
		return nil
	}
	typeExpr, _ := ad.NodeData(decl)
	ht := handleTree{uri: h.URI, ad: ad}
	t, ok := e.typeFromExpr(ht, typeExpr)
	if !ok {
		return nil
	}
	members := e.ContainerMembersForType(t, false)
	out := make([]Declaration, 0, len(members))
	for _, m := range members {
		mht, ok := e.handleFor(m.HandleURI)
		if !ok {
			continue
		}
		if mht.ad.NodeTag(m.Index) == langast.NodeContainerField {
			out = append(out, m)
		}
	}
	return out
}

// enclosingTypedVarDecl finds the innermost NodeVarDecl whose span
// contains tok and which carries a type annotation, by walking the
// whole tree and keeping the narrowest match — the same "innermost
// wins" rule as scope.go's block-chain walk, but over declarations
// rather than blocks since a typed var-decl can sit at any nesting
// depth (top-level, inside a function body, inside a container).
func enclosingTypedVarDecl(ad *astadapter.Adapter, tok int32) int32 {
	best := int32(-1)
	bestSpan := int32(-1)
	var walk func(n int32)
	walk = func(n int32) {
		if n < 0 || int(n) >= ad.NodeCount() {
			return
		}
		lhs, rhs := ad.NodeData(n)
		if ad.NodeTag(n) == langast.NodeVarDecl && lhs >= 0 && ad.NodeContains(n, tok) {
			start, end := ad.NodeSpan(n)
			span := end - start
			if best < 0 || span < bestSpan {
				best, bestSpan = n, span
			}
		}
		if lhs >= 0 {
			walk(lhs)
		}
		if rhs >= 0 {
			walk(rhs)
		}
		for _, c := range ad.NodeChildren(n) {
			walk(c)
		}
	}
	walk(ad.Root())
	return best
}

// GlobalErrorNames implements spec.md §4.8's global_error_set
// completion. The grammar has no error-set declaration syntax — every
// error name's only "definition" is an `error.Name` use site, Zig's
// inferred-error-set semantics — so this scans every handle's token
// stream for that three-token pattern rather than walking declarations.
func (e *Engine) GlobalErrorNames() []string {
	seen := make(map[string]bool)
	var out []string
	for _, h := range e.store.AllHandles() {
		ad := h.Adapter()
		n := int32(ad.TokenCount())
		for i := int32(0); i+2 < n; i++ {
			if ad.TokenTag(i) != langast.TokKeywordError {
				continue
			}
			if ad.TokenTag(i+1) != langast.TokDot {
				continue
			}
			if ad.TokenTag(i+2) != langast.TokIdentifier {
				continue
			}
			name := string(ad.TokenText(i + 2))
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}
