// resolve.go implements spec.md §4.6(b): resolve_type_of_node and
// resolve_var_decl_alias.
package analysis

import (
	"quartz/internal/langast"
	"quartz/internal/store"
)

// ResolveTypeOfNode computes the declared type for an expression node,
// memoizing per (handle, node) for the lifetime of this Engine.
func (e *Engine) ResolveTypeOfNode(h *store.Handle, node int32) (TypeWithHandle, bool) {
	key := typeCacheKey{uri: h.URI, node: node}
	if cached, ok := e.typeCache[key]; ok {
		if cached == nil {
			return TypeWithHandle{}, false
		}
		return *cached, true
	}
	ht := handleTree{uri: h.URI, ad: h.Adapter()}
	t, ok := e.resolveTypeOfNodeInternal(ht, node)
	if !ok {
		e.typeCache[key] = nil
		return TypeWithHandle{}, false
	}
	e.typeCache[key] = &t
	return t, true
}

func (e *Engine) resolveTypeOfNodeInternal(ht handleTree, node int32) (TypeWithHandle, bool) {
	if node < 0 || int(node) >= ht.ad.NodeCount() {
		return TypeWithHandle{}, false
	}
	tag := ht.ad.NodeTag(node)
	lhs, _ := ht.ad.NodeData(node)
	switch tag {
	case langast.NodePtrType, langast.NodePtrConstType, langast.NodeOptionalType,
		langast.NodeErrorUnionType, langast.NodeSliceType, langast.NodeContainerDecl:
		return e.typeFromExpr(ht, node)

	case langast.NodeIdentifier:
		h, ok := e.store.GetHandle(ht.uri)
		if !ok {
			return TypeWithHandle{}, false
		}
		mainTok := ht.ad.MainToken(node)
		decl, ok := e.LookupSymbolGlobal(h, string(ht.ad.TokenText(mainTok)), mainTok)
		if !ok {
			return TypeWithHandle{}, false
		}
		return e.declaredType(decl)

	case langast.NodeFieldAccess:
		far, ok := e.ResolveFieldAccessChain(ht, node)
		if !ok {
			return TypeWithHandle{}, false
		}
		return far.Original, true

	case langast.NodeCall:
		calleeDecl, ok := e.resolveExprToDecl(ht, lhs)
		if !ok {
			return TypeWithHandle{}, false
		}
		calleeHT, ok := e.handleFor(calleeDecl.HandleURI)
		if !ok {
			return TypeWithHandle{}, false
		}
		if calleeHT.ad.NodeTag(calleeDecl.Index) != langast.NodeFnDecl {
			return TypeWithHandle{}, false
		}
		_, fnRhs := calleeHT.ad.NodeData(calleeDecl.Index)
		if fnRhs < 0 {
			return TypeWithHandle{}, false
		}
		return e.typeFromExpr(calleeHT, fnRhs)

	case langast.NodeStringLiteral:
		return TypeWithHandle{Data: TypeSlice, Node: -1, HandleURI: ht.uri, Primitive: "u8"}, true

	case langast.NodeIntegerLiteral:
		return TypeWithHandle{Data: TypePrimitive, Node: -1, HandleURI: ht.uri, Primitive: "integer"}, true

	case langast.NodeTry, langast.NodeCatch:
		inner, ok := e.resolveTypeOfNodeInternal(ht, lhs)
		if !ok {
			return TypeWithHandle{}, false
		}
		if inner.Data != TypeErrorUnion {
			return inner, true
		}
		innerHT, ok := e.handleFor(inner.HandleURI)
		if !ok {
			return TypeWithHandle{}, false
		}
		_, innerRhs := innerHT.ad.NodeData(inner.Node)
		return e.typeFromExpr(innerHT, innerRhs)

	default:
		return TypeWithHandle{}, false
	}
}

// declaredType returns the declared type of a resolved Declaration:
// a parameter's annotated type, a var/const's annotated or inferred
// type, a container field's type, or (for a container itself bound to
// a name) the container as a type value.
func (e *Engine) declaredType(decl Declaration) (TypeWithHandle, bool) {
	ht, ok := e.handleFor(decl.HandleURI)
	if !ok {
		return TypeWithHandle{}, false
	}
	switch decl.Kind {
	case DeclParam:
		lhs, _ := ht.ad.NodeData(decl.Index)
		return e.typeFromExpr(ht, lhs)
	case DeclASTNode:
		tag := ht.ad.NodeTag(decl.Index)
		lhs, rhs := ht.ad.NodeData(decl.Index)
		switch tag {
		case langast.NodeVarDecl:
			if lhs >= 0 {
				return e.typeFromExpr(ht, lhs)
			}
			if rhs >= 0 {
				return e.resolveTypeOfNodeInternal(ht, rhs)
			}
			return TypeWithHandle{}, false
		case langast.NodeContainerField:
			return e.typeFromExpr(ht, lhs)
		case langast.NodeContainerDecl:
			return TypeWithHandle{Data: TypeOther, Node: decl.Index, IsTypeVal: true, HandleURI: ht.uri}, true
		default:
			return TypeWithHandle{}, false
		}
	default:
		return TypeWithHandle{}, false
	}
}

// typeFromExpr interprets node as a type expression (a value that IS a
// type), used for the annotated-type positions in var decls, params,
// fields, and function returns.
func (e *Engine) typeFromExpr(ht handleTree, node int32) (TypeWithHandle, bool) {
	if node < 0 || int(node) >= ht.ad.NodeCount() {
		return TypeWithHandle{}, false
	}
	tag := ht.ad.NodeTag(node)
	switch tag {
	case langast.NodePtrType, langast.NodePtrConstType:
		return TypeWithHandle{Data: TypePointer, Node: node, IsTypeVal: true, HandleURI: ht.uri}, true
	case langast.NodeOptionalType:
		return TypeWithHandle{Data: TypeOther, Node: node, IsTypeVal: true, HandleURI: ht.uri}, true
	case langast.NodeErrorUnionType:
		return TypeWithHandle{Data: TypeErrorUnion, Node: node, IsTypeVal: true, HandleURI: ht.uri}, true
	case langast.NodeSliceType:
		return TypeWithHandle{Data: TypeSlice, Node: node, IsTypeVal: true, HandleURI: ht.uri}, true
	case langast.NodeContainerDecl:
		return TypeWithHandle{Data: TypeOther, Node: node, IsTypeVal: true, HandleURI: ht.uri}, true
	case langast.NodeIdentifier:
		mainTok := ht.ad.MainToken(node)
		name := string(ht.ad.TokenText(mainTok))
		h, ok := e.store.GetHandle(ht.uri)
		if !ok {
			return TypeWithHandle{}, false
		}
		decl, ok := e.LookupSymbolGlobal(h, name, mainTok)
		if !ok {
			// Unresolved bare names in type position are primitives
			// (i32, u8, void, bool, ...) — the grammar has no builtin
			// type table of its own, so any unresolved identifier used
			// as a type is treated as one.
			return TypeWithHandle{Data: TypePrimitive, Node: -1, IsTypeVal: true, HandleURI: ht.uri, Primitive: name}, true
		}
		return e.aliasedTypeValue(decl, 0)
	case langast.NodeFieldAccess:
		far, ok := e.ResolveFieldAccessChain(ht, node)
		if !ok {
			return TypeWithHandle{}, false
		}
		return e.aliasedTypeValue(far.Decl, 0)
	default:
		return TypeWithHandle{}, false
	}
}

// aliasedTypeValue follows `const Foo = Bar;`-style pure re-exports down
// to the type they ultimately name, bounded by maxAliasDepth.
func (e *Engine) aliasedTypeValue(decl Declaration, depth int) (TypeWithHandle, bool) {
	if depth >= maxAliasDepth {
		return TypeWithHandle{}, false
	}
	ht, ok := e.handleFor(decl.HandleURI)
	if !ok || decl.Kind != DeclASTNode {
		return TypeWithHandle{}, false
	}
	tag := ht.ad.NodeTag(decl.Index)
	_, rhs := ht.ad.NodeData(decl.Index)
	switch tag {
	case langast.NodeContainerDecl:
		return TypeWithHandle{Data: TypeOther, Node: decl.Index, IsTypeVal: true, HandleURI: decl.HandleURI}, true
	case langast.NodeVarDecl:
		if rhs < 0 {
			return TypeWithHandle{}, false
		}
		switch ht.ad.NodeTag(rhs) {
		case langast.NodeIdentifier, langast.NodeFieldAccess:
			aliasDecl, ok := e.resolveExprToDecl(ht, rhs)
			if !ok {
				return TypeWithHandle{}, false
			}
			return e.aliasedTypeValue(aliasDecl, depth+1)
		default:
			return e.typeFromExpr(ht, rhs)
		}
	default:
		return TypeWithHandle{}, false
	}
}

// resolveExprToDecl resolves a value-position identifier or field-access
// expression to the Declaration it names.
func (e *Engine) resolveExprToDecl(ht handleTree, node int32) (Declaration, bool) {
	if node < 0 || int(node) >= ht.ad.NodeCount() {
		return Declaration{}, false
	}
	tag := ht.ad.NodeTag(node)
	switch tag {
	case langast.NodeIdentifier:
		h, ok := e.store.GetHandle(ht.uri)
		if !ok {
			return Declaration{}, false
		}
		mainTok := ht.ad.MainToken(node)
		return e.LookupSymbolGlobal(h, string(ht.ad.TokenText(mainTok)), mainTok)
	case langast.NodeFieldAccess:
		far, ok := e.ResolveFieldAccessChain(ht, node)
		if !ok {
			return Declaration{}, false
		}
		return far.Decl, true
	default:
		return Declaration{}, false
	}
}

// ResolveVarDeclAlias implements spec.md §4.6(b): if node's initializer
// is a pure re-export, returns the ultimate target, bounded to
// maxAliasDepth to guard against cyclic aliases.
func (e *Engine) ResolveVarDeclAlias(h *store.Handle, node int32) (Declaration, bool) {
	return e.followMemberAlias(Declaration{Kind: DeclASTNode, HandleURI: h.URI, Index: node}, 0)
}

// followMemberAlias follows one step of `const Foo = Bar;` /
// `const Foo = @import("...").Bar;` re-export aliasing starting from an
// already-resolved declaration, recursing through the full chain.
func (e *Engine) followMemberAlias(decl Declaration, depth int) (Declaration, bool) {
	if depth >= maxAliasDepth || decl.Kind != DeclASTNode {
		return Declaration{}, false
	}
	ht, ok := e.handleFor(decl.HandleURI)
	if !ok {
		return Declaration{}, false
	}
	tag := ht.ad.NodeTag(decl.Index)
	_, rhs := ht.ad.NodeData(decl.Index)
	if tag != langast.NodeVarDecl || rhs < 0 {
		return Declaration{}, false
	}
	switch ht.ad.NodeTag(rhs) {
	case langast.NodeIdentifier, langast.NodeFieldAccess:
		resolved, ok := e.resolveExprToDecl(ht, rhs)
		if !ok {
			return Declaration{}, false
		}
		if next, ok := e.followMemberAlias(resolved, depth+1); ok {
			return next, true
		}
		return resolved, true
	default:
		return Declaration{}, false
	}
}
