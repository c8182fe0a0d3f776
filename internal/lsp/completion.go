package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"quartz/internal/analysis"
	"quartz/internal/builtins"
	"quartz/internal/langast"
	"quartz/internal/store"
)

// textDocumentCompletion implements spec.md §4.8's completion dispatch:
// classify the cursor position, then offer the candidate set that
// context calls for. Grounded on internal/server's request-handler
// shape, generalized from note-title completion to declaration/builtin
// completion driven by internal/analysis.ClassifyPosition.
func (s *Server) textDocumentCompletion(
	ctx *glsp.Context,
	params *protocol.CompletionParams,
) (any, error) {
	s.mu.RLock()
	st := s.store
	enableSnippets := s.cfg.EnableSnippets
	operatorCompletions := s.cfg.OperatorCompletions
	s.mu.RUnlock()

	h, ok := st.GetHandle(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	tok := tokenAtByte(h.Tree(), posToByte(h, params.Position))
	pc := analysis.ClassifyPosition(h, tok)

	var items []protocol.CompletionItem
	switch pc.Kind {
	case analysis.ContextBuiltin:
		items = builtinCompletions(enableSnippets)

	case analysis.ContextFieldAccess:
		items = s.fieldAccessCompletions(h, pc.Node, operatorCompletions)

	case analysis.ContextVarAccess, analysis.ContextEmpty, analysis.ContextOther:
		items = s.symbolCompletions(h, tok)

	case analysis.ContextLabel:
		items = s.labelCompletions(h, tok)

	case analysis.ContextEnumLiteral:
		items = s.enumLiteralCompletions(h, tok)

	case analysis.ContextGlobalErrorSet:
		items = s.globalErrorSetCompletions()

	default:
		return nil, nil
	}

	return protocol.CompletionList{IsIncomplete: false, Items: items}, nil
}

func builtinCompletions(snippets bool) []protocol.CompletionItem {
	kind := protocol.CompletionItemKindFunction
	fmtSnippet := protocol.InsertTextFormatSnippet
	out := make([]protocol.CompletionItem, 0, len(builtins.All()))
	for _, b := range builtins.All() {
		item := protocol.CompletionItem{
			Label:  b.Name,
			Kind:   &kind,
			Detail: strPtr(b.Signature),
			Documentation: protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: b.Doc,
			},
		}
		if snippets {
			item.InsertText = strPtr(b.Snippet)
			item.InsertTextFormat = &fmtSnippet
		}
		out = append(out, item)
	}
	return out
}

// fieldAccessCompletions implements spec.md §4.8's field_access
// completion: the base expression's type resolves to a container, and
// every instance-reachable member of that container becomes a
// candidate. baseNode is ContextFieldAccess's reported base expression.
// Slice, pointer, and optional receivers additionally offer their
// built-in pseudo-members (len/ptr, dereference, unwrap), gated behind
// the operator_completions setting.
func (s *Server) fieldAccessCompletions(h *store.Handle, baseNode int32, operatorCompletions bool) []protocol.CompletionItem {
	eng := analysis.New(s.store)
	t, ok := eng.ResolveTypeOfNode(h, baseNode)
	if !ok {
		return nil
	}
	members := eng.ContainerMembersForType(t, true)
	items := declCompletions(eng, members)
	if operatorCompletions {
		items = append(items, receiverOperatorCompletions(s.store, t)...)
	}
	return items
}

// receiverOperatorCompletions implements the slice/pointer/optional
// clauses of spec.md §4.8's field_access completion, which sit outside
// the container-member set ContainerMembersForType resolves.
func receiverOperatorCompletions(st *store.Store, t analysis.TypeWithHandle) []protocol.CompletionItem {
	fnKind := protocol.CompletionItemKindMethod
	opKind := protocol.CompletionItemKindOperator

	switch t.Data {
	case analysis.TypeSlice:
		return []protocol.CompletionItem{
			{Label: "len", Kind: &fnKind, Detail: strPtr("usize")},
			{Label: "ptr", Kind: &fnKind, Detail: strPtr("[*]T")},
		}
	case analysis.TypePointer:
		return []protocol.CompletionItem{
			{Label: "*", Kind: &opKind, Detail: strPtr("dereference")},
		}
	}

	if isOptionalReceiver(st, t) {
		return []protocol.CompletionItem{
			{Label: "?", Kind: &opKind, Detail: strPtr("unwrap")},
		}
	}
	return nil
}

// isOptionalReceiver reports whether t names an optional type. Optional
// types are tagged TypeOther by resolve.go's typeFromExpr (there is no
// dedicated TypeData value for them), so distinguishing them requires
// looking at the underlying node's tag directly.
func isOptionalReceiver(st *store.Store, t analysis.TypeWithHandle) bool {
	if t.Node < 0 {
		return false
	}
	h, ok := st.GetHandle(t.HandleURI)
	if !ok {
		return false
	}
	tree := h.Tree()
	if int(t.Node) >= len(tree.Nodes) {
		return false
	}
	return tree.Nodes[t.Node].Tag == langast.NodeOptionalType
}

// symbolCompletions implements spec.md §4.8's var_access/empty candidate
// set: every name in scope at tok, nearest first, via
// analysis.InScopeDeclarations's locals -> params -> top-level walk.
func (s *Server) symbolCompletions(h *store.Handle, tok int32) []protocol.CompletionItem {
	eng := analysis.New(s.store)
	decls := eng.InScopeDeclarations(h, tok)
	return declCompletions(eng, decls)
}

// enumLiteralCompletions implements spec.md §4.8's enum_literal
// candidate set: every variant of the enum expected at the cursor.
func (s *Server) enumLiteralCompletions(h *store.Handle, tok int32) []protocol.CompletionItem {
	eng := analysis.New(s.store)
	members := eng.ExpectedEnumMembers(h, tok)
	return declCompletions(eng, members)
}

// globalErrorSetCompletions implements spec.md §4.8's global_error_set
// candidate set: every error name defined anywhere in the reachable
// graph, via analysis.GlobalErrorNames's inferred-error-set scan.
func (s *Server) globalErrorSetCompletions() []protocol.CompletionItem {
	eng := analysis.New(s.store)
	kind := protocol.CompletionItemKindEnumMember
	names := eng.GlobalErrorNames()
	items := make([]protocol.CompletionItem, 0, len(names))
	for _, name := range names {
		items = append(items, protocol.CompletionItem{Label: name, Kind: &kind})
	}
	return items
}

func (s *Server) labelCompletions(h *store.Handle, tok int32) []protocol.CompletionItem {
	tree := h.Tree()
	kind := protocol.CompletionItemKindVariable
	var items []protocol.CompletionItem
	seen := map[string]bool{}
	for _, n := range tree.Nodes {
		if n.Tag != langast.NodeBlock || n.MainToken < 0 || !n.Contains(tok) {
			continue
		}
		name := string(tree.TokenSource(n.MainToken))
		if seen[name] {
			continue
		}
		seen[name] = true
		items = append(items, protocol.CompletionItem{Label: name, Kind: &kind})
	}
	return items
}

func declCompletions(eng *analysis.Engine, decls []analysis.Declaration) []protocol.CompletionItem {
	fnKind := protocol.CompletionItemKindFunction
	varKind := protocol.CompletionItemKindVariable
	fieldKind := protocol.CompletionItemKindField

	items := make([]protocol.CompletionItem, 0, len(decls))
	for _, d := range decls {
		name := d.Name(eng)
		if name == "" {
			continue
		}
		item := protocol.CompletionItem{Label: name}
		switch d.NodeKind(eng) {
		case langast.NodeFnDecl:
			item.Kind = &fnKind
		case langast.NodeContainerField:
			item.Kind = &fieldKind
		default:
			item.Kind = &varKind
		}
		if doc, ok := eng.DocComment(d); ok {
			item.Documentation = protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: doc}
		}
		items = append(items, item)
	}
	return items
}
