package analysis

import (
	"testing"

	"quartz/internal/offset"
	"quartz/internal/store"
	"quartz/internal/uri"
)

func TestCheckStyleFlagsFunctionsAndFields(t *testing.T) {
	docURI := uri.PathToURI("/proj/a.ext")
	s := store.New(offset.UTF16, fakeFS{})
	h := s.OpenDocument(docURI, `const P = struct {
	BadField: i32,
};
fn Bad_Name() void {}
fn MakeThing() type { return P; }`)

	issues := CheckStyle(h)
	kinds := map[StyleIssueKind]int{}
	for _, iss := range issues {
		kinds[iss.Kind]++
	}
	if kinds[StyleSnakeCase] != 1 {
		t.Errorf("expected 1 snake_case violation, got %d", kinds[StyleSnakeCase])
	}
	if kinds[StyleCamelCase] != 1 {
		t.Errorf("expected 1 camelCase violation, got %d", kinds[StyleCamelCase])
	}
	if kinds[StylePascalCase] != 0 {
		t.Errorf("expected MakeThing (returns type) to already be PascalCase, got %d violations", kinds[StylePascalCase])
	}
}

func TestCheckStyleAcceptsConformingNames(t *testing.T) {
	docURI := uri.PathToURI("/proj/a.ext")
	s := store.New(offset.UTF16, fakeFS{})
	h := s.OpenDocument(docURI, `const P = struct {
	field_name: i32,
};
fn doThing() void {}
fn MakeThing() type { return P; }`)

	issues := CheckStyle(h)
	if len(issues) != 0 {
		t.Errorf("expected no style issues, got %+v", issues)
	}
}
