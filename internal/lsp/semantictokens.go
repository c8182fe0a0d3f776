package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"quartz/internal/langast"
)

// semantic token type indices, matching lifecycle.go's semanticTokenTypes
// legend order.
const (
	semTokKeyword = iota
	semTokNamespace
	semTokType
	semTokParameter
	semTokVariable
	semTokEnumMember
	semTokField
	semTokErrorTag
	semTokFunction
	semTokComment
	semTokString
	semTokNumber
	semTokOperator
	semTokBuiltin
	semTokLabel
)

const (
	semModDeclaration = 1 << 0
	semModReadonly    = 1 << 2
	semModDocs        = 1 << 8
)

// operatorTokens classifies the punctuation tags that stand for an
// expression operator rather than a structural delimiter — parens,
// braces, and separators carry no highlighting of their own.
var operatorTokens = map[langast.TokenTag]bool{
	langast.TokEqual:     true,
	langast.TokBang:      true,
	langast.TokQuestion:  true,
	langast.TokStar:      true,
	langast.TokAmpersand: true,
	langast.TokArrow:     true,
	langast.TokPlus:      true,
	langast.TokMinus:     true,
	langast.TokEqEq:      true,
}

// keywordTokens classifies the reserved-word tags, spec.md §4.8's
// "keyword" token type.
var keywordTokens = map[langast.TokenTag]bool{
	langast.TokKeywordPub:       true,
	langast.TokKeywordConst:     true,
	langast.TokKeywordVar:       true,
	langast.TokKeywordFn:        true,
	langast.TokKeywordStruct:    true,
	langast.TokKeywordEnum:      true,
	langast.TokKeywordUnion:     true,
	langast.TokKeywordOpaque:    true,
	langast.TokKeywordReturn:    true,
	langast.TokKeywordTry:       true,
	langast.TokKeywordCatch:     true,
	langast.TokKeywordBreak:     true,
	langast.TokKeywordContinue:  true,
	langast.TokKeywordIf:        true,
	langast.TokKeywordElse:      true,
	langast.TokKeywordWhile:     true,
	langast.TokKeywordFor:       true,
	langast.TokKeywordUndefined: true,
	langast.TokKeywordError:     true,
}

// textDocumentSemanticTokensFull implements spec.md §4.8's semantic
// tokens: a full-vocabulary classification pass over both the token
// stream (keywords, comments, literals, operators, `error.Name` error
// tags) and the declaration tree (functions, parameters, fields vs enum
// members, variables vs type-bound names, block labels, `@builtin`
// calls), delta-encoded five values per token as the LSP wire format
// requires.
func (s *Server) textDocumentSemanticTokensFull(
	ctx *glsp.Context,
	params *protocol.SemanticTokensParams,
) (*protocol.SemanticTokens, error) {
	s.mu.RLock()
	st := s.store
	s.mu.RUnlock()

	h, ok := st.GetHandle(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	tree := h.Tree()

	type tok struct {
		startTok int32
		typ      uint32
		mod      uint32
	}
	var toks []tok

	for i, t := range tree.Tokens {
		switch {
		case keywordTokens[t.Tag]:
			toks = append(toks, tok{int32(i), semTokKeyword, 0})
		case t.Tag == langast.TokDocComment:
			toks = append(toks, tok{int32(i), semTokComment, semModDocs})
		case t.Tag == langast.TokLineComment:
			toks = append(toks, tok{int32(i), semTokComment, 0})
		case t.Tag == langast.TokStringLiteral:
			toks = append(toks, tok{int32(i), semTokString, 0})
		case t.Tag == langast.TokIntegerLiteral:
			toks = append(toks, tok{int32(i), semTokNumber, 0})
		case operatorTokens[t.Tag]:
			toks = append(toks, tok{int32(i), semTokOperator, 0})
		}
	}

	// `error.Name` use sites: the middle dot is skipped, the trailing
	// identifier is the error tag itself (spec.md's inferred error set).
	for i := 0; i+2 < len(tree.Tokens); i++ {
		if tree.Tokens[i].Tag == langast.TokKeywordError &&
			tree.Tokens[i+1].Tag == langast.TokDot &&
			tree.Tokens[i+2].Tag == langast.TokIdentifier {
			toks = append(toks, tok{int32(i + 2), semTokErrorTag, 0})
		}
	}

	enumFields := enumFieldNodes(tree)

	for i, n := range tree.Nodes {
		switch n.Tag {
		case langast.NodeFnDecl:
			toks = append(toks, tok{n.MainToken, semTokFunction, semModDeclaration})
		case langast.NodeParam:
			toks = append(toks, tok{n.MainToken, semTokParameter, 0})
		case langast.NodeContainerField:
			typ := uint32(semTokField)
			if enumFields[int32(i)] {
				typ = semTokEnumMember
			}
			toks = append(toks, tok{n.MainToken, typ, semModDeclaration})
		case langast.NodeVarDecl:
			mod := uint32(semModDeclaration)
			if !n.Mutable {
				mod |= semModReadonly
			}
			typ := uint32(semTokVariable)
			if n.Rhs >= 0 && tree.Nodes[n.Rhs].Tag == langast.NodeContainerDecl {
				typ = semTokType
			}
			toks = append(toks, tok{n.MainToken, typ, mod})
		case langast.NodeBlock:
			if n.MainToken >= 0 {
				toks = append(toks, tok{n.MainToken, semTokLabel, semModDeclaration})
			}
		case langast.NodeBuiltinCall:
			toks = append(toks, tok{n.MainToken, semTokBuiltin, 0})
		}
	}

	// stable sort by token position; declarations are discovered in tree
	// order which is already source order, but block labels and the
	// token-stream pass above interleave with the node pass.
	for i := 1; i < len(toks); i++ {
		for j := i; j > 0 && toks[j].startTok < toks[j-1].startTok; j-- {
			toks[j], toks[j-1] = toks[j-1], toks[j]
		}
	}

	data := make([]protocol.UInteger, 0, len(toks)*5)
	var prevLine, prevCol uint32
	for _, t := range toks {
		r := tokenRange(h, t.startTok)
		length := uint32(0)
		if int(t.startTok) < len(tree.Tokens) {
			length = uint32(tree.Tokens[t.startTok].Len())
		}
		deltaLine := r.Start.Line - prevLine
		deltaCol := r.Start.Column
		if deltaLine == 0 {
			deltaCol = r.Start.Column - prevCol
		}
		data = append(data,
			protocol.UInteger(deltaLine),
			protocol.UInteger(deltaCol),
			protocol.UInteger(length),
			protocol.UInteger(t.typ),
			protocol.UInteger(t.mod),
		)
		prevLine, prevCol = r.Start.Line, r.Start.Column
	}

	return &protocol.SemanticTokens{Data: data}, nil
}

// enumFieldNodes returns the set of NodeContainerField indices declared
// directly inside an enum container, distinguishing enum variants from
// struct/union fields for the field vs enumMember token-type split.
func enumFieldNodes(tree *langast.Tree) map[int32]bool {
	out := make(map[int32]bool)
	for _, n := range tree.Nodes {
		if n.Tag != langast.NodeContainerDecl || langast.ContainerKind(n.Rhs) != langast.ContainerEnum {
			continue
		}
		for _, member := range n.List {
			if tree.Nodes[member].Tag == langast.NodeContainerField {
				out[member] = true
			}
		}
	}
	return out
}
