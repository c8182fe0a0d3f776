package analysis

import "quartz/internal/langast"

// TypeData tags the shape of a resolved type, spec.md §3 TypeWithHandle.
type TypeData int

const (
	TypeOther TypeData = iota
	TypeSlice
	TypeErrorUnion
	TypePointer
	TypePrimitive
)

// TypeWithHandle is spec.md §3's resolved type: a node plus the handle
// whose tree it lives in, since types are cross-file.
type TypeWithHandle struct {
	Data      TypeData
	Node      int32 // meaningful for TypeSlice/TypeErrorUnion/TypePointer/TypeOther; -1 for TypePrimitive
	IsTypeVal bool  // true iff the value IS a type (drives completion class)
	HandleURI string
	Primitive string // set when Data == TypePrimitive
}

// FieldAccessReturn is spec.md §3's result of resolving `a.b.c...`.
type FieldAccessReturn struct {
	Original   TypeWithHandle
	Unwrapped  *TypeWithHandle // nil if no one-level unwrap applies
	Decl       Declaration     // the resolved declaration of the final segment
}

// unwrapOnce follows one level of pointer or optional wrapping, the
// "unwrapped" half of FieldAccessReturn (spec.md §4.6(c)).
func (e *Engine) unwrapOnce(t TypeWithHandle) (TypeWithHandle, bool) {
	ht, ok := e.handleFor(t.HandleURI)
	if !ok || t.Node < 0 {
		return TypeWithHandle{}, false
	}
	tag := ht.ad.NodeTag(t.Node)
	lhs, _ := ht.ad.NodeData(t.Node)
	switch tag {
	case langast.NodePtrType, langast.NodePtrConstType:
		return e.typeFromExpr(ht, lhs)
	case langast.NodeOptionalType:
		return e.typeFromExpr(ht, lhs)
	default:
		return TypeWithHandle{}, false
	}
}

// ContainerMembersForType is completion's entrypoint into the container
// member list for a resolved type (spec.md §4.8's field_access
// candidate set), reducing t to its underlying container the same way
// ResolveFieldAccessChain does for each dotted segment.
func (e *Engine) ContainerMembersForType(t TypeWithHandle, instance bool) []Declaration {
	ht, containerNode, ok := e.containerOf(t)
	if !ok {
		return nil
	}
	return e.ContainerMembers(ht, containerNode, instance)
}

// containerOf reduces a type down to the underlying container node it
// names, unwrapping error-unions/pointers/optionals as needed, bounded
// by maxAliasDepth so a self-referential type can never loop forever.
func (e *Engine) containerOf(t TypeWithHandle) (handleTree, int32, bool) {
	cur := t
	for depth := 0; depth < maxAliasDepth; depth++ {
		ht, ok := e.handleFor(cur.HandleURI)
		if !ok || cur.Node < 0 {
			return handleTree{}, -1, false
		}
		tag := ht.ad.NodeTag(cur.Node)
		lhs, rhs := ht.ad.NodeData(cur.Node)
		switch tag {
		case langast.NodeContainerDecl:
			return ht, cur.Node, true
		case langast.NodePtrType, langast.NodePtrConstType, langast.NodeOptionalType:
			next, ok := e.typeFromExpr(ht, lhs)
			if !ok {
				return handleTree{}, -1, false
			}
			cur = next
			continue
		case langast.NodeErrorUnionType:
			next, ok := e.typeFromExpr(ht, rhs)
			if !ok {
				return handleTree{}, -1, false
			}
			cur = next
			continue
		case langast.NodeIdentifier, langast.NodeFieldAccess:
			decl, ok := e.resolveExprToDecl(ht, cur.Node)
			if !ok {
				return handleTree{}, -1, false
			}
			next, ok := e.declaredType(decl)
			if !ok {
				return handleTree{}, -1, false
			}
			cur = next
			continue
		default:
			return handleTree{}, -1, false
		}
	}
	return handleTree{}, -1, false
}
