package refs

import (
	"quartz/internal/analysis"
	"quartz/internal/offset"
	"quartz/internal/store"
)

// TextEdit is a single replacement within one document.
type TextEdit struct {
	Range   offset.Range
	NewText string
}

// WorkspaceEdit groups TextEdits by the URI of the document they apply
// to, spec.md §4.7 rename_symbol's return shape.
type WorkspaceEdit struct {
	Changes map[string][]TextEdit
}

// RenameSymbol implements spec.md §4.7 rename_symbol: every occurrence of
// target (including its own declaration) is replaced with newName.
func RenameSymbol(eng *analysis.Engine, s *store.Store, target analysis.Declaration, newName string) WorkspaceEdit {
	locs := SymbolReferences(eng, s, target, true, false)
	edit := WorkspaceEdit{Changes: make(map[string][]TextEdit)}
	for _, loc := range locs {
		edit.Changes[loc.URI] = append(edit.Changes[loc.URI], TextEdit{Range: loc.Range, NewText: newName})
	}
	return edit
}
