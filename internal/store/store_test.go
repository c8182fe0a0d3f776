package store

import (
	"fmt"
	"testing"

	"quartz/internal/offset"
	"quartz/internal/uri"
)

type fakeFS map[string]string

func (f fakeFS) ReadFile(p string) ([]byte, error) {
	if text, ok := f[p]; ok {
		return []byte(text), nil
	}
	return nil, fmt.Errorf("no such file: %s", p)
}

func TestOpenImportIsLoadedAndRefCounted(t *testing.T) {
	aURI := uri.PathToURI("/proj/a.ext")
	bURI := uri.PathToURI("/proj/b.ext")
	fs := fakeFS{"/proj/a.ext": `pub const X = struct { y: i32 };`}

	s := New(offset.UTF16, fs)
	s.OpenDocument(bURI, `const A = @import("a.ext"); const Z = A.X;`)

	a, ok := s.GetHandle(aURI)
	if !ok {
		t.Fatal("expected a.ext to be loaded transitively")
	}
	if a.RefCount != 1 {
		t.Errorf("expected ref count 1, got %d", a.RefCount)
	}
	if a.Open {
		t.Error("a.ext should not be marked open")
	}
}

func TestCloseDocumentPrunesWhenUnreachable(t *testing.T) {
	aURI := uri.PathToURI("/proj/a.ext")
	bURI := uri.PathToURI("/proj/b.ext")
	fs := fakeFS{"/proj/a.ext": `pub const X = struct {};`}

	s := New(offset.UTF16, fs)
	s.OpenDocument(bURI, `const A = @import("a.ext");`)
	if _, ok := s.GetHandle(aURI); !ok {
		t.Fatal("expected a.ext loaded")
	}

	s.CloseDocument(bURI)

	if _, ok := s.GetHandle(bURI); ok {
		t.Error("b.ext should have been pruned")
	}
	if _, ok := s.GetHandle(aURI); ok {
		t.Error("a.ext should have been pruned transitively")
	}
}

func TestCloseDocumentKeepsHandleIfStillImported(t *testing.T) {
	aURI := uri.PathToURI("/proj/a.ext")
	bURI := uri.PathToURI("/proj/b.ext")
	cURI := uri.PathToURI("/proj/c.ext")
	fs := fakeFS{"/proj/a.ext": `pub const X = struct {};`}

	s := New(offset.UTF16, fs)
	s.OpenDocument(bURI, `const A = @import("a.ext");`)
	s.OpenDocument(cURI, `const A = @import("a.ext");`)

	s.CloseDocument(bURI)

	a, ok := s.GetHandle(aURI)
	if !ok {
		t.Fatal("a.ext should still be reachable via c.ext")
	}
	if a.RefCount != 1 {
		t.Errorf("expected ref count 1, got %d", a.RefCount)
	}
}

func TestApplyChangesAdjustsImportRefs(t *testing.T) {
	aURI := uri.PathToURI("/proj/a.ext")
	bURI := uri.PathToURI("/proj/b.ext")
	fs := fakeFS{"/proj/a.ext": `pub const X = struct {};`}

	s := New(offset.UTF16, fs)
	h := s.OpenDocument(bURI, `const A = @import("a.ext");`)
	if _, ok := s.GetHandle(aURI); !ok {
		t.Fatal("expected a.ext loaded")
	}

	s.ApplyChanges(bURI, []Edit{{WholeDocument: true, Text: `const Z = 1;`}})

	if _, ok := s.GetHandle(aURI); ok {
		t.Error("a.ext should have been pruned after import was removed")
	}
	_ = h
}

func TestUriFromImportMissingFileReturnsFalse(t *testing.T) {
	bURI := uri.PathToURI("/proj/b.ext")
	s := New(offset.UTF16, fakeFS{})
	h := s.OpenDocument(bURI, `const A = @import("nope.ext");`)
	_, ok := s.UriFromImport(h, "also-nope.ext")
	if ok {
		t.Error("expected a relative import of a non-existent file to fail to resolve")
	}
}

func TestWarmDocumentDoesNotOverwriteLiveHandle(t *testing.T) {
	aURI := uri.PathToURI("/proj/a.ext")
	s := New(offset.UTF16, fakeFS{})

	h := s.OpenDocument(aURI, `const A = 1;`)
	s.WarmDocument(aURI, `const A = 2;`)

	if string(h.Text()) != `const A = 1;` {
		t.Errorf("warm scan overwrote a live handle's text: got %q", h.Text())
	}
}

func TestWarmDocumentLoadsUnopenedFile(t *testing.T) {
	aURI := uri.PathToURI("/proj/a.ext")
	s := New(offset.UTF16, fakeFS{})

	s.WarmDocument(aURI, `const A = 1;`)

	h, ok := s.GetHandle(aURI)
	if !ok {
		t.Fatal("expected warm-scanned handle to be present")
	}
	if h.Open {
		t.Error("warm-scanned handle should not be marked open")
	}
}

func TestCyclicImportsDoNotLeak(t *testing.T) {
	aURI := uri.PathToURI("/proj/a.ext")
	bURI := uri.PathToURI("/proj/b.ext")
	fs := fakeFS{
		"/proj/a.ext": `const B = @import("b.ext");`,
		"/proj/b.ext": `const A = @import("a.ext");`,
	}
	s := New(offset.UTF16, fs)
	s.OpenDocument(aURI, `const B = @import("b.ext");`)

	if _, ok := s.GetHandle(bURI); !ok {
		t.Fatal("expected b.ext loaded via cycle")
	}

	s.CloseDocument(aURI)

	if _, ok := s.GetHandle(aURI); ok {
		t.Error("a.ext should be pruned once closed")
	}
}
