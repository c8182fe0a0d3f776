package langast

import "testing"

func findFnDecl(t *Tree, name string) int32 {
	for i, n := range t.Nodes {
		if n.Tag == NodeFnDecl && t.NodeName(int32(i)) == name {
			return int32(i)
		}
	}
	return noIndex
}

func TestParseSimpleFunction(t *testing.T) {
	src := []byte(`fn add(a: i32, b: i32) i32 { return a + b; }`)
	tree := Parse(src)
	if len(tree.Errors) != 0 {
		t.Fatalf("unexpected parse errors: %+v", tree.Errors)
	}
	fn := findFnDecl(tree, "add")
	if fn == noIndex {
		t.Fatal("fn add not found")
	}
	node := tree.Nodes[fn]
	if len(node.List) != 2 {
		t.Fatalf("expected 2 params, got %d", len(node.List))
	}
}

func TestParseVarDeclAlias(t *testing.T) {
	src := []byte(`const A = @import("a.ext"); const Z = A.X;`)
	tree := Parse(src)
	if len(tree.Errors) != 0 {
		t.Fatalf("unexpected parse errors: %+v", tree.Errors)
	}
	root := tree.Nodes[tree.Root]
	if len(root.List) != 2 {
		t.Fatalf("expected 2 top level decls, got %d", len(root.List))
	}
}

func TestParseContainerWithFields(t *testing.T) {
	src := []byte(`const P = struct { x: i32, y: i32 };`)
	tree := Parse(src)
	if len(tree.Errors) != 0 {
		t.Fatalf("unexpected parse errors: %+v", tree.Errors)
	}
	root := tree.Nodes[tree.Root]
	varDecl := tree.Nodes[root.List[0]]
	container := tree.Nodes[varDecl.Rhs]
	if container.Tag != NodeContainerDecl {
		t.Fatalf("expected container decl, got %v", container.Tag)
	}
	if len(container.List) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(container.List))
	}
}

func TestParseErrorRecovers(t *testing.T) {
	src := []byte(`fn (`)
	tree := Parse(src)
	if len(tree.Errors) == 0 {
		t.Fatal("expected at least one parse error")
	}
}

func TestParseDocComment(t *testing.T) {
	src := []byte("/// Adds two numbers.\nfn add(a: i32, b: i32) i32 { return a + b; }")
	tree := Parse(src)
	if len(tree.Errors) != 0 {
		t.Fatalf("unexpected parse errors: %+v", tree.Errors)
	}
	var docIdx int32 = -1
	for i, tok := range tree.Tokens {
		if tok.Tag == TokDocComment {
			docIdx = int32(i)
			break
		}
	}
	if docIdx == -1 {
		t.Fatal("doc comment token not found")
	}
}

func TestParsePointerOptionalErrorUnion(t *testing.T) {
	src := []byte(`fn f(a: *const i32, b: ?i32, c: anyerror!i32) void {}`)
	tree := Parse(src)
	if len(tree.Errors) != 0 {
		t.Fatalf("unexpected parse errors: %+v", tree.Errors)
	}
	fn := findFnDecl(tree, "f")
	if fn == noIndex {
		t.Fatal("fn f not found")
	}
	params := tree.Nodes[fn].List
	if len(params) != 3 {
		t.Fatalf("expected 3 params, got %d", len(params))
	}
	pType := tree.Nodes[tree.Nodes[params[0]].Lhs]
	if pType.Tag != NodePtrConstType {
		t.Errorf("param 0 expected PtrConstType, got %v", pType.Tag)
	}
	oType := tree.Nodes[tree.Nodes[params[1]].Lhs]
	if oType.Tag != NodeOptionalType {
		t.Errorf("param 1 expected OptionalType, got %v", oType.Tag)
	}
	eType := tree.Nodes[tree.Nodes[params[2]].Lhs]
	if eType.Tag != NodeErrorUnionType {
		t.Errorf("param 2 expected ErrorUnionType, got %v", eType.Tag)
	}
}
