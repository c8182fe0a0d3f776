package lsp

import (
	"context"
	"fmt"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"quartz/internal/analysis"
	"quartz/internal/offset"
	"quartz/internal/store"
)

func (s *Server) textDocumentDidOpen(
	ctx *glsp.Context,
	params *protocol.DidOpenTextDocumentParams,
) error {
	s.mu.RLock()
	st := s.store
	s.mu.RUnlock()
	h := st.OpenDocument(params.TextDocument.URI, params.TextDocument.Text)
	s.publishDiagnostics(ctx, h)
	return nil
}

func (s *Server) textDocumentDidChange(
	ctx *glsp.Context,
	params *protocol.DidChangeTextDocumentParams,
) error {
	s.mu.RLock()
	st := s.store
	s.mu.RUnlock()

	uri := params.TextDocument.URI
	h, ok := st.GetHandle(uri)
	if !ok {
		return nil
	}

	edits := make([]store.Edit, 0, len(params.ContentChanges))
	for _, raw := range params.ContentChanges {
		change, ok := raw.(protocol.TextDocumentContentChangeEvent)
		if !ok {
			return fmt.Errorf("textDocumentDidChange: unexpected change event type %T", raw)
		}
		if change.Range == nil {
			edits = append(edits, store.Edit{WholeDocument: true, Text: change.Text})
			continue
		}
		edits = append(edits, store.Edit{
			Range: offset.Range{
				Start: fromProtoPosition(change.Range.Start),
				End:   fromProtoPosition(change.Range.End),
			},
			Text: change.Text,
		})
	}
	st.ApplyChanges(uri, edits)
	s.publishDiagnostics(ctx, h)
	return nil
}

func (s *Server) textDocumentDidSave(
	ctx *glsp.Context,
	params *protocol.DidSaveTextDocumentParams,
) error {
	s.mu.RLock()
	st := s.store
	tc := s.tc
	cfg := s.cfg
	s.mu.RUnlock()

	uri := params.TextDocument.URI
	if params.Text != nil {
		if h, ok := st.GetHandle(uri); ok {
			st.ApplyChanges(uri, []store.Edit{{WholeDocument: true, Text: *params.Text}})
			s.publishDiagnostics(ctx, h)
		}
	}

	if store.IsBuildFile(uri) && cfg.BuildRunnerPath != "" {
		st.ApplySave(uri, func(buildFileURI string) (map[string]string, error) {
			return tc.DescribeBuild(context.Background(), cfg.BuildRunnerPath, buildFileURI)
		})
	}
	return nil
}

func (s *Server) textDocumentDidClose(
	ctx *glsp.Context,
	params *protocol.DidCloseTextDocumentParams,
) error {
	s.mu.RLock()
	st := s.store
	s.mu.RUnlock()
	st.CloseDocument(params.TextDocument.URI)
	return nil
}

// publishDiagnostics implements spec.md §4.8's diagnostic set: one Error
// per parse error, one Information per warn_style violation when the
// negotiated config enables it. Grounded on
// internal/server/textdocument_handlers.go's publishDiagnostics/
// linkDiagnostics pair.
func (s *Server) publishDiagnostics(ctx *glsp.Context, h *store.Handle) {
	tree := h.Tree()
	errSeverity := protocol.DiagnosticSeverityError
	infoSeverity := protocol.DiagnosticSeverityInformation

	diagnostics := make([]protocol.Diagnostic, 0, len(tree.Errors))
	for _, pe := range tree.Errors {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    toProtoRange(tokenRange(h, pe.Token)),
			Severity: &errSeverity,
			Message:  pe.Message,
		})
	}

	s.mu.RLock()
	warnStyle := s.cfg.WarnStyle
	s.mu.RUnlock()
	if warnStyle {
		for _, issue := range analysis.CheckStyle(h) {
			diagnostics = append(diagnostics, protocol.Diagnostic{
				Range:    toProtoRange(tokenRange(h, issue.NameToken)),
				Severity: &infoSeverity,
				Message:  fmt.Sprintf("style: expected %q", issue.Want),
			})
		}
	}

	ctx.Notify("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         h.URI,
		Diagnostics: diagnostics,
	})
}
