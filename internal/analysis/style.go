// style.go implements spec.md §4.8's warn_style diagnostics: functions
// whose body returns `type` must be PascalCase, other functions must be
// camelCase, and fields must be snake_case.
package analysis

import (
	"github.com/iancoleman/strcase"

	"quartz/internal/astadapter"
	"quartz/internal/langast"
	"quartz/internal/store"
)

// StyleIssueKind distinguishes which naming rule a StyleIssue violates.
type StyleIssueKind int

const (
	StylePascalCase StyleIssueKind = iota
	StyleCamelCase
	StyleSnakeCase
)

// StyleIssue is one style diagnostic, keyed by the declaration's name
// token so callers can translate it to an LSP range without re-walking
// the tree.
type StyleIssue struct {
	NameToken int32
	Kind      StyleIssueKind
	Want      string
}

// CheckStyle walks h's declarations and reports every warn_style
// violation. Grounded on internal/parser's tree walk, generalized from
// link-extraction to a name-convention pass.
func CheckStyle(h *store.Handle) []StyleIssue {
	ad := h.Adapter()
	var issues []StyleIssue
	var walk func(n int32)
	walk = func(n int32) {
		if n < 0 || int(n) >= ad.NodeCount() {
			return
		}
		lhs, rhs := ad.NodeData(n)
		switch ad.NodeTag(n) {
		case langast.NodeFnDecl:
			checkFnStyle(ad, n, &issues)
		case langast.NodeContainerField:
			checkFieldStyle(ad, n, &issues)
		}
		if lhs >= 0 {
			walk(lhs)
		}
		if rhs >= 0 {
			walk(rhs)
		}
		for _, c := range ad.NodeChildren(n) {
			walk(c)
		}
	}
	walk(ad.Root())
	return issues
}

func checkFnStyle(ad *astadapter.Adapter, n int32, issues *[]StyleIssue) {
	name := ad.NodeName(n)
	if name == "" {
		return
	}
	_, retType := ad.NodeData(n)
	if returnsType(ad, retType) {
		if want := strcase.ToCamel(name); want != name {
			*issues = append(*issues, StyleIssue{NameToken: ad.MainToken(n), Kind: StylePascalCase, Want: want})
		}
		return
	}
	if want := strcase.ToLowerCamel(name); want != name {
		*issues = append(*issues, StyleIssue{NameToken: ad.MainToken(n), Kind: StyleCamelCase, Want: want})
	}
}

func checkFieldStyle(ad *astadapter.Adapter, n int32, issues *[]StyleIssue) {
	name := ad.NodeName(n)
	if name == "" {
		return
	}
	if want := strcase.ToSnake(name); want != name {
		*issues = append(*issues, StyleIssue{NameToken: ad.MainToken(n), Kind: StyleSnakeCase, Want: want})
	}
}

// returnsType reports whether a function's return-type expression is
// the literal identifier `type`, marking it a Zig-style type
// constructor whose name is conventionally PascalCase.
func returnsType(ad *astadapter.Adapter, retType int32) bool {
	if retType < 0 || int(retType) >= ad.NodeCount() {
		return false
	}
	return ad.NodeTag(retType) == langast.NodeIdentifier && string(ad.TokenText(ad.MainToken(retType))) == "type"
}
