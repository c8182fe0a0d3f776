// doccomment.go implements spec.md §4.6(d): collecting the contiguous
// run of doc-comment tokens immediately preceding a declaration and
// rendering it as hover text.
package analysis

import (
	"strings"

	"quartz/internal/astadapter"
	"quartz/internal/store"
)

// DocComment renders decl's collected "///" run as Markdown: each line's
// leading "///" and at most one following space is stripped, then the
// lines are joined with a hard break so the block renders as one
// paragraph in a hover popup.
func (e *Engine) DocComment(decl Declaration) (string, bool) {
	ht, ok := e.handleFor(decl.HandleURI)
	if !ok || decl.Kind != DeclASTNode {
		return "", false
	}
	if int(decl.Index) >= ht.ad.NodeCount() {
		return "", false
	}
	toks := ht.ad.DocComments(decl.Index)
	if len(toks) == 0 {
		return "", false
	}
	return renderDocComment(ht.ad, toks), true
}

// DocCommentForNode is DocComment's counterpart for AST nodes that are
// not themselves resolved Declarations (e.g. a container field looked
// up positionally rather than by name).
func (e *Engine) DocCommentForNode(h *store.Handle, node int32) (string, bool) {
	ad := h.Adapter()
	if node < 0 || int(node) >= ad.NodeCount() {
		return "", false
	}
	toks := ad.DocComments(node)
	if len(toks) == 0 {
		return "", false
	}
	return renderDocComment(ad, toks), true
}

func renderDocComment(ad *astadapter.Adapter, toks []int32) string {
	lines := make([]string, 0, len(toks))
	for _, tok := range toks {
		raw := string(ad.TokenText(tok))
		raw = strings.TrimPrefix(raw, "///")
		raw = strings.TrimPrefix(raw, " ")
		lines = append(lines, raw)
	}
	return strings.Join(lines, "  \n")
}
