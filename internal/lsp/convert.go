// Package lsp wires the analysis/store/refs engine into the Language
// Server Protocol, the transport spec.md treats as an external
// collaborator. Grounded on internal/server's protocol.Handler wiring
// (field-name-is-method-name style) and internal/manager's
// per-document bookkeeping, generalized from a note-link server to a
// declaration/type-resolution server.
package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"quartz/internal/langast"
	"quartz/internal/offset"
	"quartz/internal/store"
)

func toProtoPosition(p offset.Position) protocol.Position {
	return protocol.Position{Line: p.Line, Character: p.Column}
}

func toProtoRange(r offset.Range) protocol.Range {
	return protocol.Range{Start: toProtoPosition(r.Start), End: toProtoPosition(r.End)}
}

func fromProtoPosition(p protocol.Position) offset.Position {
	return offset.Position{Line: p.Line, Column: p.Character}
}

// posToByte resolves a protocol Position within h's current text to a
// byte offset, in h's negotiated encoding.
func posToByte(h *store.Handle, pos protocol.Position) int {
	return offset.PositionToByte(h.Text(), fromProtoPosition(pos), h.Encoding())
}

// tokenAtByte finds the token whose range contains byteIdx, or the
// nearest token ending at or before it if the cursor sits in
// whitespace — the "token index nearest the cursor" ClassifyPosition
// expects.
func tokenAtByte(tree *langast.Tree, byteIdx int) int32 {
	best := int32(-1)
	for i, tk := range tree.Tokens {
		if tk.Start <= byteIdx && byteIdx <= tk.End {
			return int32(i)
		}
		if tk.End <= byteIdx {
			best = int32(i)
		}
	}
	return best
}

func tokenRange(h *store.Handle, tok int32) offset.Range {
	tree := h.Tree()
	if tok < 0 || int(tok) >= len(tree.Tokens) {
		return offset.Range{}
	}
	tk := tree.Tokens[tok]
	return offset.Range{
		Start: offset.ByteToPosition(tree.Source, tk.Start, h.Encoding()),
		End:   offset.ByteToPosition(tree.Source, tk.End, h.Encoding()),
	}
}

func toProtoLocation(uri string, r offset.Range) protocol.Location {
	return protocol.Location{URI: uri, Range: toProtoRange(r)}
}

// spanRange builds the range from the start of startTok to the end of
// endTok, both token indices into h's current tree.
func spanRange(h *store.Handle, startTok, endTok int32) offset.Range {
	tree := h.Tree()
	if startTok < 0 || endTok < 0 || int(startTok) >= len(tree.Tokens) || int(endTok) >= len(tree.Tokens) {
		return offset.Range{}
	}
	return offset.Range{
		Start: offset.ByteToPosition(tree.Source, tree.Tokens[startTok].Start, h.Encoding()),
		End:   offset.ByteToPosition(tree.Source, tree.Tokens[endTok].End, h.Encoding()),
	}
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
