package analysis

import (
	"testing"

	"quartz/internal/langast"
	"quartz/internal/offset"
	"quartz/internal/store"
	"quartz/internal/uri"
)

func TestClassifyPositionBuiltin(t *testing.T) {
	docURI := uri.PathToURI("/proj/a.ext")
	s := store.New(offset.UTF16, fakeFS{})
	h := s.OpenDocument(docURI, `const A = @import("a.ext");`)
	tree := h.Tree()

	var importTok int32 = -1
	for i, tok := range tree.Tokens {
		if tok.Tag == langast.TokIdentifier && string(tree.TokenSource(int32(i))) == "import" {
			importTok = int32(i)
		}
	}
	if importTok < 0 {
		t.Fatal("import token not found")
	}
	ctx := ClassifyPosition(h, importTok)
	if ctx.Kind != ContextBuiltin {
		t.Errorf("expected ContextBuiltin, got %v", ctx.Kind)
	}
}

func TestClassifyPositionFieldAccess(t *testing.T) {
	docURI := uri.PathToURI("/proj/a.ext")
	s := store.New(offset.UTF16, fakeFS{})
	h := s.OpenDocument(docURI, `const y = a.b;`)
	tree := h.Tree()

	var fieldTok int32 = -1
	for _, n := range tree.Nodes {
		if n.Tag == langast.NodeFieldAccess {
			fieldTok = n.MainToken
		}
	}
	if fieldTok < 0 {
		t.Fatal("field access node not found")
	}
	ctx := ClassifyPosition(h, fieldTok)
	if ctx.Kind != ContextFieldAccess {
		t.Errorf("expected ContextFieldAccess, got %v", ctx.Kind)
	}
}

func TestClassifyPositionVarAccess(t *testing.T) {
	docURI := uri.PathToURI("/proj/a.ext")
	s := store.New(offset.UTF16, fakeFS{})
	h := s.OpenDocument(docURI, `const y = x;`)
	tree := h.Tree()

	var identTok int32 = -1
	for i, n := range tree.Nodes {
		if n.Tag == langast.NodeIdentifier && string(tree.TokenSource(n.MainToken)) == "x" {
			identTok = n.MainToken
			_ = i
		}
	}
	if identTok < 0 {
		t.Fatal("identifier x not found")
	}
	ctx := ClassifyPosition(h, identTok)
	if ctx.Kind != ContextVarAccess {
		t.Errorf("expected ContextVarAccess, got %v", ctx.Kind)
	}
}
