package analysis

import (
	"quartz/internal/astadapter"
	"quartz/internal/langast"
)

// enclosingFn finds the function declaration textually containing tok,
// searching top-level declarations and, recursively at any depth, the
// members of containers (methods declared inside a struct/enum/union
// assigned to a const). Functions never nest in this grammar (SPEC_FULL.md §3.1), so
// there is at most one match.
func enclosingFn(ad *astadapter.Adapter, tok int32) int32 {
	for _, d := range ad.RootDecls() {
		if found := searchDeclForFn(ad, d, tok); found >= 0 {
			return found
		}
	}
	return -1
}

func searchDeclForFn(ad *astadapter.Adapter, decl int32, tok int32) int32 {
	tag := ad.NodeTag(decl)
	_, rhs := ad.NodeData(decl)
	switch tag {
	case langast.NodeFnDecl:
		if ad.NodeContains(decl, tok) {
			return decl
		}
	case langast.NodeVarDecl:
		if rhs >= 0 {
			if found := searchDeclForFn(ad, rhs, tok); found >= 0 {
				return found
			}
		}
	case langast.NodeContainerDecl:
		if !ad.NodeContains(decl, tok) {
			return -1
		}
		for _, member := range ad.NodeChildren(decl) {
			if found := searchDeclForFn(ad, member, tok); found >= 0 {
				return found
			}
		}
	}
	return -1
}

// innermostBlocks returns the chain of blocks containing tok within fn's
// body, innermost first, by descending through nested `{ }` statements.
func innermostBlocks(ad *astadapter.Adapter, fnNode int32, tok int32) []int32 {
	body, _ := ad.NodeData(fnNode)
	if body < 0 || ad.NodeTag(body) != langast.NodeBlock {
		return nil
	}
	var chain []int32
	cur := body
	for {
		chain = append(chain, cur)
		next := int32(-1)
		for _, stmt := range ad.NodeChildren(cur) {
			if ad.NodeTag(stmt) == langast.NodeBlock && ad.NodeContains(stmt, tok) {
				next = stmt
				break
			}
		}
		if next < 0 {
			break
		}
		cur = next
	}
	// reverse so index 0 is innermost
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
