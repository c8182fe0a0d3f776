package analysis

import (
	"testing"

	"quartz/internal/langast"
	"quartz/internal/offset"
	"quartz/internal/store"
	"quartz/internal/uri"
)

type fakeFS map[string]string

func (f fakeFS) ReadFile(p string) ([]byte, error) {
	if text, ok := f[p]; ok {
		return []byte(text), nil
	}
	return nil, errNotFound{p}
}

type errNotFound struct{ path string }

func (e errNotFound) Error() string { return "no such file: " + e.path }

func TestLookupSymbolGlobalPrefersLocalOverTopLevel(t *testing.T) {
	docURI := uri.PathToURI("/proj/a.ext")
	s := store.New(offset.UTF16, fakeFS{})
	src := `const x: i32 = 1;
fn f() i32 {
	const x: i32 = 2;
	return x;
}`
	h := s.OpenDocument(docURI, src)
	tree := h.Tree()

	var retNode int32 = -1
	for i, n := range tree.Nodes {
		if n.Tag == langast.NodeReturn {
			retNode = int32(i)
		}
	}
	if retNode < 0 {
		t.Fatal("return statement not found")
	}
	identTok := tree.Nodes[tree.Nodes[retNode].Lhs].MainToken

	eng := New(s)
	decl, ok := eng.LookupSymbolGlobal(h, "x", identTok)
	if !ok {
		t.Fatal("expected lookup to succeed")
	}
	if decl.Kind != DeclASTNode {
		t.Fatalf("expected DeclASTNode, got %v", decl.Kind)
	}
	// The local `x` inside f must win, not the top-level one.
	fnNode := findFnDeclLookup(tree, "f")
	if fnNode < 0 {
		t.Fatal("fn f not found")
	}
	if !tree.Nodes[fnNode].Contains(tree.Nodes[decl.Index].StartTok) {
		t.Error("expected resolved declaration to be the local shadowing one")
	}
}

func findFnDeclLookup(tree *langast.Tree, name string) int32 {
	for i, n := range tree.Nodes {
		if n.Tag == langast.NodeFnDecl && tree.NodeName(int32(i)) == name {
			return int32(i)
		}
	}
	return -1
}

func TestLookupSymbolGlobalFallsBackToParam(t *testing.T) {
	docURI := uri.PathToURI("/proj/a.ext")
	s := store.New(offset.UTF16, fakeFS{})
	h := s.OpenDocument(docURI, `fn f(a: i32) i32 { return a; }`)
	tree := h.Tree()

	var retNode int32 = -1
	for i, n := range tree.Nodes {
		if n.Tag == langast.NodeReturn {
			retNode = int32(i)
		}
	}
	identTok := tree.Nodes[tree.Nodes[retNode].Lhs].MainToken

	eng := New(s)
	decl, ok := eng.LookupSymbolGlobal(h, "a", identTok)
	if !ok {
		t.Fatal("expected lookup to succeed")
	}
	if decl.Kind != DeclParam {
		t.Fatalf("expected DeclParam, got %v", decl.Kind)
	}
}

func TestLookupSymbolContainerExcludesTypeOnlyMembersForInstance(t *testing.T) {
	docURI := uri.PathToURI("/proj/a.ext")
	s := store.New(offset.UTF16, fakeFS{})
	h := s.OpenDocument(docURI, `const P = struct {
	x: i32,
	const Version = 1;
	fn get(self: P) i32 { return self.x; }
};`)
	tree := h.Tree()
	root := tree.Nodes[tree.Root]
	container := tree.Nodes[tree.Nodes[root.List[0]].Rhs]
	if container.Tag != langast.NodeContainerDecl {
		t.Fatal("expected container decl")
	}
	containerNode := tree.Nodes[root.List[0]].Rhs

	eng := New(s)
	ht := handleTree{uri: docURI, ad: h.Adapter()}

	if _, ok := eng.LookupSymbolContainer(ht, containerNode, "Version", true); ok {
		t.Error("expected type-only member to be excluded from instance lookup")
	}
	if _, ok := eng.LookupSymbolContainer(ht, containerNode, "Version", false); !ok {
		t.Error("expected type-only member to be found in non-instance lookup")
	}
	if _, ok := eng.LookupSymbolContainer(ht, containerNode, "x", true); !ok {
		t.Error("expected field to resolve in instance lookup")
	}
	if _, ok := eng.LookupSymbolContainer(ht, containerNode, "get", true); !ok {
		t.Error("expected method to resolve in instance lookup")
	}
}
