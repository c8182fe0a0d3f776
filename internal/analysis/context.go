// context.go implements spec.md §4.6(e): classifying the syntactic
// context around a cursor position so completion and hover know which
// candidate set to offer.
package analysis

import (
	"quartz/internal/astadapter"
	"quartz/internal/langast"
	"quartz/internal/store"
)

// PositionContextKind is spec.md §4.6(e)'s classification result.
type PositionContextKind int

const (
	ContextOther PositionContextKind = iota
	ContextEmpty
	ContextBuiltin
	ContextVarAccess
	ContextFieldAccess
	ContextStringLiteral
	ContextEnumLiteral
	ContextGlobalErrorSet
	ContextLabel
)

// PositionContext is the result of classifying a cursor position: the
// kind plus, for kinds that need it, the node the cursor sits inside.
type PositionContext struct {
	Kind PositionContextKind
	Node int32 // meaningful for ContextFieldAccess (the base) and ContextVarAccess (n/a, -1)
}

// ClassifyPosition implements spec.md §4.6(e). tok is the token index
// nearest the cursor, found by the caller via offset lookup. It checks,
// in order: whether the previous significant token is `@`, whether tok
// is the member name of a field-access node in the tree, and then tok's
// own token tag.
func ClassifyPosition(h *store.Handle, tok int32) PositionContext {
	ad := h.Adapter()
	if tok < 0 || int(tok) >= ad.TokenCount() {
		return PositionContext{Kind: ContextEmpty, Node: -1}
	}

	if prevSignificant(ad, tok) == langast.TokAt {
		return PositionContext{Kind: ContextBuiltin, Node: -1}
	}

	if node, ok := findFieldAccessAt(ad, tok); ok {
		return PositionContext{Kind: ContextFieldAccess, Node: node}
	}

	switch ad.TokenTag(tok) {
	case langast.TokStringLiteral:
		return PositionContext{Kind: ContextStringLiteral, Node: -1}
	case langast.TokDot:
		return PositionContext{Kind: ContextEnumLiteral, Node: -1}
	case langast.TokKeywordError:
		return PositionContext{Kind: ContextGlobalErrorSet, Node: -1}
	case langast.TokColon:
		if prevSignificant(ad, tok) == langast.TokIdentifier {
			return PositionContext{Kind: ContextLabel, Node: -1}
		}
	}

	if ad.TokenTag(tok) == langast.TokIdentifier {
		return PositionContext{Kind: ContextVarAccess, Node: -1}
	}

	return PositionContext{Kind: ContextOther, Node: -1}
}

// prevSignificant returns the tag of the nearest non-comment token
// strictly before tok.
func prevSignificant(ad *astadapter.Adapter, tok int32) langast.TokenTag {
	for i := tok - 1; i >= 0; i-- {
		switch ad.TokenTag(i) {
		case langast.TokDocComment, langast.TokLineComment:
			continue
		default:
			return ad.TokenTag(i)
		}
	}
	return langast.TokInvalid
}

// findFieldAccessAt walks the AST for a NodeFieldAccess node whose
// trailing "." sits immediately before tok, i.e. the cursor is
// positioned to complete a member name after a dotted base expression.
func findFieldAccessAt(ad *astadapter.Adapter, tok int32) (int32, bool) {
	var found int32 = -1
	var walk func(n int32) bool
	walk = func(n int32) bool {
		if n < 0 || int(n) >= ad.NodeCount() {
			return false
		}
		lhs, rhs := ad.NodeData(n)
		if ad.NodeTag(n) == langast.NodeFieldAccess && ad.MainToken(n) == tok {
			found = lhs
			return true
		}
		if walk(lhs) || walk(rhs) {
			return true
		}
		for _, c := range ad.NodeChildren(n) {
			if walk(c) {
				return true
			}
		}
		return false
	}
	if walk(ad.Root()) {
		return found, true
	}
	return -1, false
}
