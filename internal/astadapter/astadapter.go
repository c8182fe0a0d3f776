// Package astadapter is the thin wrapper spec.md L4 describes over the
// concrete parser/AST, grounded on the wrapping style of
// internal/sitteradapter/sitteradapter.go (small pure conversion
// functions, no state of its own). It exposes exactly the surface the
// analysis engine needs: counts, tags, children, and structured views
// for the half-dozen node shapes that resolution inspects.
package astadapter

import (
	"fmt"

	"quartz/internal/langast"
	"quartz/internal/offset"
)

// Adapter wraps one parsed Tree.
type Adapter struct {
	tree *langast.Tree
}

// Wrap builds an Adapter over a parsed Tree.
func Wrap(tree *langast.Tree) *Adapter {
	return &Adapter{tree: tree}
}

func (a *Adapter) Tree() *langast.Tree { return a.tree }

func (a *Adapter) TokenCount() int { return len(a.tree.Tokens) }
func (a *Adapter) NodeCount() int  { return len(a.tree.Nodes) }

func (a *Adapter) TokenTag(i int32) langast.TokenTag { return a.tree.Tokens[i].Tag }

// TokenSource returns the byte range of token i.
func (a *Adapter) TokenSource(i int32) (int, int) {
	t := a.tree.Tokens[i]
	return t.Start, t.End
}

// TokenRange returns token i's position span in the negotiated encoding.
func (a *Adapter) TokenRange(i int32, enc offset.Encoding) offset.TokenRange {
	start, end := a.TokenSource(i)
	return offset.ByteRangeToTokenRange(a.tree.Source, start, end, enc)
}

func (a *Adapter) NodeTag(i int32) langast.NodeTag { return a.tree.Nodes[i].Tag }

// NodeData returns the left/right child indices for node i. A slot the
// node's tag does not use is reported as -1, the same as an absent child.
func (a *Adapter) NodeData(i int32) (lhs, rhs int32) {
	n := a.tree.Nodes[i]
	switch n.Tag {
	case langast.NodeVarDecl, langast.NodeFnDecl, langast.NodeErrorUnionType, langast.NodeCatch:
		return n.Lhs, n.Rhs
	case langast.NodeParam, langast.NodeContainerField, langast.NodePtrType, langast.NodePtrConstType,
		langast.NodeOptionalType, langast.NodeSliceType, langast.NodeFieldAccess, langast.NodeCall,
		langast.NodeTry, langast.NodeReturn, langast.NodeBreak:
		return n.Lhs, -1
	}
	return -1, -1
}

// NodeChildren returns the variable-arity child list for node i (params,
// fields, container members, call arguments, block statements).
func (a *Adapter) NodeChildren(i int32) []int32 {
	return a.tree.Nodes[i].List
}

// Root returns the index of the tree's root node.
func (a *Adapter) Root() int32 { return a.tree.Root }

// RootDecls iterates the top-level declaration node indices.
func (a *Adapter) RootDecls() []int32 {
	return a.tree.Nodes[a.tree.Root].List
}

// MainToken returns the token that names/anchors node i.
func (a *Adapter) MainToken(i int32) int32 { return a.tree.Nodes[i].MainToken }

// NodeName returns the identifier-like text of node i's main token.
func (a *Adapter) NodeName(i int32) string { return a.tree.NodeName(i) }

// NodePub reports whether node i (a VarDecl/FnDecl/ContainerField) was
// declared `pub`.
func (a *Adapter) NodePub(i int32) bool { return a.tree.Nodes[i].Pub }

// NodeMutable reports whether node i (a VarDecl) was declared `var`.
func (a *Adapter) NodeMutable(i int32) bool { return a.tree.Nodes[i].Mutable }

// NodeSpan returns the inclusive token range node i spans, for the
// scope-bearing shapes that set it (blocks, function and variable
// declarations, containers).
func (a *Adapter) NodeSpan(i int32) (start, end int32) {
	n := a.tree.Nodes[i]
	return n.StartTok, n.EndTok
}

// NodeContains reports whether tok falls within node i's span.
func (a *Adapter) NodeContains(i int32, tok int32) bool {
	return a.tree.Nodes[i].Contains(tok)
}

// DocComments returns the "///" token run immediately preceding node i,
// for the declaration shapes that collect one (spec.md §4.6(d)).
func (a *Adapter) DocComments(i int32) []int32 { return a.tree.Nodes[i].DocComments }

// TokenText returns the source bytes a token spans.
func (a *Adapter) TokenText(i int32) []byte { return a.tree.TokenSource(i) }

// RenderParseError renders one parse error as a diagnostic string.
func (a *Adapter) RenderParseError(e langast.ParseError) string {
	return fmt.Sprintf("%s near %q", e.Message, a.tree.TokenSource(e.Token))
}

// FnProto is the structured view of a NodeFnDecl.
type FnProto struct {
	Node       int32
	Name       string
	Params     []int32
	ReturnType int32
	Body       int32
	Pub        bool
}

// FnProto returns the structured view of node, or nil if it is not a function declaration.
func (a *Adapter) FnProto(node int32) *FnProto {
	n := a.tree.Nodes[node]
	if n.Tag != langast.NodeFnDecl {
		return nil
	}
	return &FnProto{
		Node: node, Name: a.tree.NodeName(node), Params: n.List,
		ReturnType: n.Rhs, Body: n.Lhs, Pub: n.Pub,
	}
}

// VarDecl is the structured view of a NodeVarDecl.
type VarDecl struct {
	Node     int32
	Name     string
	TypeExpr int32 // -1 if absent
	Init     int32 // -1 if absent
	Pub      bool
	Mutable  bool
}

// VarDecl returns the structured view of node, or nil if it is not a variable declaration.
func (a *Adapter) VarDecl(node int32) *VarDecl {
	n := a.tree.Nodes[node]
	if n.Tag != langast.NodeVarDecl {
		return nil
	}
	return &VarDecl{
		Node: node, Name: a.tree.NodeName(node), TypeExpr: n.Lhs, Init: n.Rhs,
		Pub: n.Pub, Mutable: n.Mutable,
	}
}

// Field is the structured view of a NodeContainerField.
type Field struct {
	Node     int32
	Name     string
	TypeExpr int32
	Pub      bool
}

// ContainerField returns the structured view of node, or nil if it is not a container field.
func (a *Adapter) ContainerField(node int32) *Field {
	n := a.tree.Nodes[node]
	if n.Tag != langast.NodeContainerField {
		return nil
	}
	return &Field{Node: node, Name: a.tree.NodeName(node), TypeExpr: n.Lhs, Pub: n.Pub}
}

// PtrType is the structured view of a NodePtrType/NodePtrConstType.
type PtrType struct {
	Node  int32
	Elem  int32
	Const bool
}

// PtrType returns the structured view of node, or nil if it is not a pointer type.
func (a *Adapter) PtrType(node int32) *PtrType {
	n := a.tree.Nodes[node]
	switch n.Tag {
	case langast.NodePtrType:
		return &PtrType{Node: node, Elem: n.Lhs, Const: false}
	case langast.NodePtrConstType:
		return &PtrType{Node: node, Elem: n.Lhs, Const: true}
	default:
		return nil
	}
}

// Container is the structured view of a NodeContainerDecl.
type Container struct {
	Node    int32
	Kind    langast.ContainerKind
	Members []int32
}

// ContainerDecl returns the structured view of node, or nil if it is not a container declaration.
func (a *Adapter) ContainerDecl(node int32) *Container {
	n := a.tree.Nodes[node]
	if n.Tag != langast.NodeContainerDecl {
		return nil
	}
	return &Container{Node: node, Kind: langast.ContainerKind(n.Rhs), Members: n.List}
}
