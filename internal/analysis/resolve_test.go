package analysis

import (
	"testing"

	"quartz/internal/langast"
	"quartz/internal/offset"
	"quartz/internal/store"
	"quartz/internal/uri"
)

func TestResolveVarDeclAliasFollowsChain(t *testing.T) {
	docURI := uri.PathToURI("/proj/a.ext")
	s := store.New(offset.UTF16, fakeFS{})
	h := s.OpenDocument(docURI, `const P = struct {};
const Q = P;
const R = Q;`)
	tree := h.Tree()
	root := tree.Nodes[tree.Root]
	rDeclNode := root.List[2]

	eng := New(s)
	decl, ok := eng.ResolveVarDeclAlias(h, rDeclNode)
	if !ok {
		t.Fatal("expected alias chain to resolve")
	}
	if tree.NodeName(decl.Index) != "P" {
		t.Errorf("expected chain to bottom out at P, got %s", tree.NodeName(decl.Index))
	}
}

func TestResolveVarDeclAliasRejectsNonAlias(t *testing.T) {
	docURI := uri.PathToURI("/proj/a.ext")
	s := store.New(offset.UTF16, fakeFS{})
	h := s.OpenDocument(docURI, `const X: i32 = 1;`)
	tree := h.Tree()
	root := tree.Nodes[tree.Root]

	eng := New(s)
	if _, ok := eng.ResolveVarDeclAlias(h, root.List[0]); ok {
		t.Error("expected a literal initializer to not resolve as an alias")
	}
}

func TestResolveTypeOfNodeCachesResult(t *testing.T) {
	docURI := uri.PathToURI("/proj/a.ext")
	s := store.New(offset.UTF16, fakeFS{})
	h := s.OpenDocument(docURI, `const x: i32 = 1;`)
	tree := h.Tree()
	root := tree.Nodes[tree.Root]
	varDecl := tree.Nodes[root.List[0]]

	eng := New(s)
	t1, ok := eng.ResolveTypeOfNode(h, varDecl.Rhs)
	if !ok {
		t.Fatal("expected literal to resolve a type")
	}
	if t1.Data != TypePrimitive || t1.Primitive != "integer" {
		t.Errorf("expected integer primitive, got %+v", t1)
	}
	t2, ok := eng.ResolveTypeOfNode(h, varDecl.Rhs)
	if !ok || t2 != t1 {
		t.Error("expected cached lookup to return an identical result")
	}
}

func TestResolveTypeOfNodeErrorUnionUnwrap(t *testing.T) {
	docURI := uri.PathToURI("/proj/a.ext")
	s := store.New(offset.UTF16, fakeFS{})
	h := s.OpenDocument(docURI, `fn f() !i32 { return 1; }
fn g() i32 { return try f(); }`)
	tree := h.Tree()

	var tryNode int32 = -1
	for i, n := range tree.Nodes {
		if n.Tag == langast.NodeTry {
			tryNode = int32(i)
		}
	}
	if tryNode < 0 {
		t.Fatal("try expression not found")
	}

	eng := New(s)
	tv, ok := eng.ResolveTypeOfNode(h, tryNode)
	if !ok {
		t.Fatal("expected try expression to resolve a type")
	}
	if tv.Data == TypeErrorUnion {
		t.Error("expected try to unwrap the error union payload")
	}
}
