package analysis

import (
	"testing"

	"quartz/internal/langast"
	"quartz/internal/offset"
	"quartz/internal/store"
	"quartz/internal/uri"
)

func TestResolveFieldAccessChainAcrossImport(t *testing.T) {
	aURI := uri.PathToURI("/proj/a.ext")
	bURI := uri.PathToURI("/proj/b.ext")
	fs := fakeFS{"/proj/a.ext": `pub const P = struct { x: i32 };`}

	s := store.New(offset.UTF16, fs)
	h := s.OpenDocument(bURI, `const A = @import("a.ext"); const y = A.P;`)
	tree := h.Tree()

	root := tree.Nodes[tree.Root]
	yDecl := tree.Nodes[root.List[1]]
	if tree.Nodes[yDecl.Rhs].Tag != langast.NodeFieldAccess {
		t.Fatal("expected y's initializer to be a field access")
	}

	eng := New(s)
	ht := handleTree{uri: bURI, ad: h.Adapter()}
	far, ok := eng.ResolveFieldAccessChain(ht, yDecl.Rhs)
	if !ok {
		t.Fatal("expected field access chain to resolve")
	}
	if far.Decl.HandleURI != aURI {
		t.Errorf("expected resolved decl to live in a.ext, got %s", far.Decl.HandleURI)
	}
	if far.Original.Data != TypeOther || !far.Original.IsTypeVal {
		t.Errorf("expected P to resolve as a type value, got %+v", far.Original)
	}
}

func TestResolveFieldAccessChainInstanceField(t *testing.T) {
	docURI := uri.PathToURI("/proj/a.ext")
	s := store.New(offset.UTF16, fakeFS{})
	h := s.OpenDocument(docURI, `const P = struct { x: i32 };
fn f(p: P) i32 { return p.x; }`)
	tree := h.Tree()

	var retNode int32 = -1
	for i, n := range tree.Nodes {
		if n.Tag == langast.NodeReturn {
			retNode = int32(i)
		}
	}
	fieldNode := tree.Nodes[retNode].Lhs
	if tree.Nodes[fieldNode].Tag != langast.NodeFieldAccess {
		t.Fatal("expected return value to be a field access")
	}

	eng := New(s)
	ht := handleTree{uri: docURI, ad: h.Adapter()}
	far, ok := eng.ResolveFieldAccessChain(ht, fieldNode)
	if !ok {
		t.Fatal("expected p.x to resolve")
	}
	if tree.NodeName(far.Decl.Index) != "x" {
		t.Errorf("expected resolved decl to be field x, got %s", tree.NodeName(far.Decl.Index))
	}
}
