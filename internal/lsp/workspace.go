package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// workspaceExecuteCommand dispatches spec.md §6's single custom command,
// "quartz.showImportGraph". Grounded on
// internal/server/command_handler.go's workspaceExecuteCommand.
func (s *Server) workspaceExecuteCommand(
	ctx *glsp.Context,
	params *protocol.ExecuteCommandParams,
) (any, error) {
	if params.Command == "quartz.showImportGraph" {
		return nil, s.showImportGraphCommand(ctx)
	}
	return nil, nil
}
