package lsp

import (
	"context"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"quartz/internal/offset"
)

// textDocumentFormatting implements spec.md §6's toolchain-driven
// formatting: shell out to the configured formatter exe and replace the
// whole document with its stdout, mirroring internal/toolchain.Format's
// single-shot subprocess contract.
func (s *Server) textDocumentFormatting(
	ctx *glsp.Context,
	params *protocol.DocumentFormattingParams,
) ([]protocol.TextEdit, error) {
	s.mu.RLock()
	st := s.store
	tc := s.tc
	exePath := s.cfg.ZigExePath
	s.mu.RUnlock()

	if exePath == "" {
		return nil, nil
	}
	h, ok := st.GetHandle(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	formatted, err := tc.Format(context.Background(), exePath, h.Text())
	if err != nil {
		s.log.Warning(err.Error())
		return nil, nil
	}

	text := h.Text()
	endLine := offset.ByteToPosition(text, len(text), h.Encoding())
	return []protocol.TextEdit{{
		Range:   protocol.Range{Start: protocol.Position{Line: 0, Character: 0}, End: toProtoPosition(endLine)},
		NewText: string(formatted),
	}}, nil
}
