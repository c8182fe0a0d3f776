package analysis

import (
	"testing"

	"quartz/internal/offset"
	"quartz/internal/store"
	"quartz/internal/uri"
)

func TestDocCommentJoinsContiguousRun(t *testing.T) {
	docURI := uri.PathToURI("/proj/a.ext")
	s := store.New(offset.UTF16, fakeFS{})
	h := s.OpenDocument(docURI, "/// Adds two numbers.\n/// Returns their sum.\nfn add(a: i32, b: i32) i32 { return a + b; }")
	tree := h.Tree()
	root := tree.Nodes[tree.Root]

	eng := New(s)
	decl := Declaration{Kind: DeclASTNode, HandleURI: docURI, Index: root.List[0]}
	doc, ok := eng.DocComment(decl)
	if !ok {
		t.Fatal("expected doc comment to be present")
	}
	want := "Adds two numbers.  \nReturns their sum."
	if doc != want {
		t.Errorf("got %q, want %q", doc, want)
	}
}

func TestDocCommentAbsentWhenNoneWritten(t *testing.T) {
	docURI := uri.PathToURI("/proj/a.ext")
	s := store.New(offset.UTF16, fakeFS{})
	h := s.OpenDocument(docURI, `fn add(a: i32, b: i32) i32 { return a + b; }`)
	tree := h.Tree()
	root := tree.Nodes[tree.Root]

	eng := New(s)
	decl := Declaration{Kind: DeclASTNode, HandleURI: docURI, Index: root.List[0]}
	if _, ok := eng.DocComment(decl); ok {
		t.Error("expected no doc comment")
	}
}

func TestDocCommentStopsAtLineCommentGap(t *testing.T) {
	docURI := uri.PathToURI("/proj/a.ext")
	s := store.New(offset.UTF16, fakeFS{})
	h := s.OpenDocument(docURI, "/// stale\n// not a doc comment\nfn add() void {}")
	tree := h.Tree()
	root := tree.Nodes[tree.Root]

	eng := New(s)
	decl := Declaration{Kind: DeclASTNode, HandleURI: docURI, Index: root.List[0]}
	if _, ok := eng.DocComment(decl); ok {
		t.Error("expected the line comment to terminate the doc-comment run")
	}
}
