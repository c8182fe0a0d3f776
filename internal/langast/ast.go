package langast

// NodeTag identifies the syntactic shape of a Node.
type NodeTag int

const (
	NodeInvalid NodeTag = iota
	NodeRoot
	NodeVarDecl
	NodeFnDecl
	NodeParam
	NodeContainerDecl
	NodeContainerField
	NodePtrType
	NodePtrConstType
	NodeOptionalType
	NodeErrorUnionType
	NodeSliceType
	NodeIdentifier
	NodeFieldAccess
	NodeCall
	NodeBuiltinCall
	NodeTry
	NodeCatch
	NodeStringLiteral
	NodeIntegerLiteral
	NodeBlock
	NodeBreak
	NodeReturn
)

// noIndex marks an absent child in Node.Lhs/Node.Rhs.
const noIndex int32 = -1

// ContainerKind distinguishes struct/enum/union/opaque declarations.
type ContainerKind int

const (
	ContainerStruct ContainerKind = iota
	ContainerEnum
	ContainerUnion
	ContainerOpaque
)

// Node is one entry in the flat node array. Children are referenced by
// index into Tree.Nodes; in a slot the node's tag uses, -1 means
// "absent". Slots a tag does not use are left at zero, except that a
// ContainerDecl's Rhs holds its ContainerKind; astadapter.NodeData
// reports unused slots as -1. List holds child indices
// for variable-arity shapes (container members, params, call arguments,
// block statements) the way Zig's Ast packs them into extra_data.
type Node struct {
	Tag       NodeTag
	MainToken int32 // the token that names/anchors this node, e.g. a decl's name
	Lhs, Rhs  int32
	List      []int32
	Pub       bool // VarDecl/FnDecl/ContainerField: declared `pub`
	Mutable   bool // VarDecl: true for `var`, false for `const`

	// StartTok/EndTok bound the token range this node spans, source order
	// inclusive. Only set for the scope-bearing shapes (blocks, function
	// and variable declarations, containers) that the analysis engine's
	// position-context scope walk needs; zero-valued elsewhere.
	StartTok, EndTok int32

	// DocComments holds the contiguous run of "///" tokens immediately
	// preceding this declaration (spec.md §4.6(d)), in source order.
	// Only populated for VarDecl/FnDecl/ContainerField.
	DocComments []int32
}

// Contains reports whether tok falls within [StartTok, EndTok].
func (n Node) Contains(tok int32) bool {
	return n.EndTok >= n.StartTok && tok >= n.StartTok && tok <= n.EndTok
}

// Tree is the parsed result: a flat token array and a flat node array,
// exactly the shape spec.md L4 describes as the external parser's output.
type Tree struct {
	Source []byte
	Tokens []Token
	Nodes  []Node
	Root   int32 // index of the NodeRoot
	Errors []ParseError
}

// ParseError is a single syntax error found while parsing.
type ParseError struct {
	Token   int32
	Message string
}

// TokenSource returns the source bytes a token spans.
func (t *Tree) TokenSource(tok int32) []byte {
	if tok < 0 || int(tok) >= len(t.Tokens) {
		return nil
	}
	tk := t.Tokens[tok]
	return t.Source[tk.Start:tk.End]
}

// NodeName returns the identifier-like text of a node's main token, used
// for declarations whose MainToken is their name.
func (t *Tree) NodeName(node int32) string {
	return string(t.TokenSource(t.Nodes[node].MainToken))
}
