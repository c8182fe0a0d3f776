package builtins

import "testing"

func TestAllIsStableAcrossCalls(t *testing.T) {
	a := All()
	b := All()
	if len(a) != len(b) {
		t.Fatalf("expected stable table length, got %d then %d", len(a), len(b))
	}
	if &a[0] != &b[0] {
		t.Error("expected the singleton table to be built once and reused")
	}
}

func TestLookupFindsImport(t *testing.T) {
	b, ok := Lookup("import")
	if !ok {
		t.Fatal("expected @import to be a known builtin")
	}
	if b.Signature == "" || b.Doc == "" {
		t.Error("expected a populated signature and doc")
	}
}

func TestLookupMissingReturnsFalse(t *testing.T) {
	if _, ok := Lookup("doesNotExist"); ok {
		t.Error("expected an unknown builtin name to fail lookup")
	}
}
