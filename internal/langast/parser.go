package langast

// Parser is a recursive-descent parser producing a flat Node array from
// a flat Token array, grounded on the plain hand-rolled descent style of
// daios-ai-msg's parser.go (no parser-generator, no combinator library —
// the teacher corpus never reaches for one either).
type Parser struct {
	src    []byte
	toks   []Token
	pos    int
	nodes  []Node
	errors []ParseError
}

// Parse tokenizes and parses src into a Tree. Parsing never panics;
// malformed input produces Tree.Errors and a best-effort partial tree so
// every other feature can degrade gracefully (spec.md boundary: "File
// with only a parse error").
func Parse(src []byte) *Tree {
	toks := Tokenize(src)
	p := &Parser{src: src, toks: toks}
	root := p.parseRoot()
	return &Tree{
		Source: src,
		Tokens: toks,
		Nodes:  p.nodes,
		Root:   root,
		Errors: p.errors,
	}
}

func (p *Parser) addNode(n Node) int32 {
	p.nodes = append(p.nodes, n)
	return int32(len(p.nodes) - 1)
}

func (p *Parser) cur() Token {
	if p.pos >= len(p.toks) {
		return Token{Tag: TokEOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) curTag() TokenTag { return p.cur().Tag }

func (p *Parser) advance() int32 {
	idx := int32(p.pos)
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return idx
}

// skipTrivia advances past comment tokens, collecting the run of
// doc-comment tokens immediately preceding the next real token. A
// non-doc comment terminates the run; blank lines are not tokenized and
// do not.
func (p *Parser) skipTrivia() []int32 {
	var doc []int32
	for {
		switch p.curTag() {
		case TokDocComment:
			doc = append(doc, p.advance())
		case TokLineComment:
			p.advance()
			doc = nil
		default:
			return doc
		}
	}
}

func (p *Parser) expect(tag TokenTag) (int32, bool) {
	if p.curTag() == tag {
		return p.advance(), true
	}
	p.errors = append(p.errors, ParseError{
		Token:   int32(p.pos),
		Message: "unexpected token",
	})
	return int32(p.pos), false
}

func (p *Parser) parseRoot() int32 {
	var decls []int32
	for {
		doc := p.skipTrivia()
		if p.curTag() == TokEOF {
			break
		}
		startPos := p.pos
		d := p.parseTopLevelDecl(doc)
		if d >= 0 {
			decls = append(decls, d)
		}
		if p.pos == startPos {
			// guarantee forward progress on malformed input
			p.advance()
		}
	}
	return p.addNode(Node{Tag: NodeRoot, List: decls})
}

func (p *Parser) parseTopLevelDecl(doc []int32) int32 {
	pub := false
	if p.curTag() == TokKeywordPub {
		p.advance()
		pub = true
	}
	switch p.curTag() {
	case TokKeywordConst, TokKeywordVar:
		return p.parseVarDecl(pub, doc)
	case TokKeywordFn:
		return p.parseFnDecl(pub, doc)
	default:
		p.errors = append(p.errors, ParseError{Token: int32(p.pos), Message: "expected declaration"})
		if p.curTag() != TokEOF {
			p.advance()
		}
		return noIndex
	}
}

func (p *Parser) parseVarDecl(pub bool, doc []int32) int32 {
	start := int32(p.pos)
	mutable := p.curTag() == TokKeywordVar
	p.advance() // const|var
	name, _ := p.expect(TokIdentifier)

	var typeExpr int32 = noIndex
	if p.curTag() == TokColon {
		p.advance()
		typeExpr = p.parseTypeExpr()
	}

	var init int32 = noIndex
	if p.curTag() == TokEqual {
		p.advance()
		init = p.parseExpr()
	}
	if p.curTag() == TokSemicolon {
		p.advance()
	}
	return p.addNode(Node{
		Tag: NodeVarDecl, MainToken: name, Lhs: typeExpr, Rhs: init,
		Pub: pub, Mutable: mutable, StartTok: start, EndTok: int32(p.pos - 1),
		DocComments: doc,
	})
}

func (p *Parser) parseFnDecl(pub bool, doc []int32) int32 {
	start := p.advance() // fn
	name, _ := p.expect(TokIdentifier)
	p.expect(TokLParen)

	var params []int32
	for p.curTag() != TokRParen && p.curTag() != TokEOF {
		pname, _ := p.expect(TokIdentifier)
		var ptype int32 = noIndex
		if p.curTag() == TokColon {
			p.advance()
			ptype = p.parseTypeExpr()
		}
		params = append(params, p.addNode(Node{Tag: NodeParam, MainToken: pname, Lhs: ptype}))
		if p.curTag() == TokComma {
			p.advance()
		} else {
			break
		}
	}
	p.expect(TokRParen)

	retType := p.parseTypeExpr()
	body := p.parseBlock()

	return p.addNode(Node{
		Tag: NodeFnDecl, MainToken: name, Lhs: body, Rhs: retType,
		Pub: pub, List: params, StartTok: start, EndTok: int32(p.pos - 1),
		DocComments: doc,
	})
}

// parseTypeExpr parses the subset of type syntax spec.md L6(c) needs to
// unwrap: pointers, optionals, error unions, slices, containers, and
// plain expressions used as type references (identifiers, field access).
func (p *Parser) parseTypeExpr() int32 {
	switch p.curTag() {
	case TokStar:
		p.advance()
		isConst := false
		if p.curTag() == TokKeywordConst {
			p.advance()
			isConst = true
		}
		elem := p.parseTypeExpr()
		tag := NodePtrType
		if isConst {
			tag = NodePtrConstType
		}
		return p.addNode(Node{Tag: tag, Lhs: elem})
	case TokQuestion:
		p.advance()
		elem := p.parseTypeExpr()
		return p.addNode(Node{Tag: NodeOptionalType, Lhs: elem})
	case TokLBracket:
		p.advance()
		p.expect(TokRBracket)
		elem := p.parseTypeExpr()
		return p.addNode(Node{Tag: NodeSliceType, Lhs: elem})
	case TokBang:
		p.advance()
		payload := p.parseTypeExpr()
		return p.addNode(Node{Tag: NodeErrorUnionType, Lhs: noIndex, Rhs: payload})
	case TokKeywordStruct, TokKeywordEnum, TokKeywordUnion, TokKeywordOpaque:
		return p.parseContainerDecl()
	default:
		base := p.parsePostfixExpr()
		if p.curTag() == TokBang {
			p.advance()
			payload := p.parseTypeExpr()
			return p.addNode(Node{Tag: NodeErrorUnionType, Lhs: base, Rhs: payload})
		}
		return base
	}
}

func containerKindTag(t TokenTag) ContainerKind {
	switch t {
	case TokKeywordEnum:
		return ContainerEnum
	case TokKeywordUnion:
		return ContainerUnion
	case TokKeywordOpaque:
		return ContainerOpaque
	default:
		return ContainerStruct
	}
}

func (p *Parser) parseContainerDecl() int32 {
	start := int32(p.pos)
	kindTok := p.advance() // struct|enum|union|opaque
	p.expect(TokLBrace)

	var members []int32
	for p.curTag() != TokRBrace && p.curTag() != TokEOF {
		doc := p.skipTrivia()
		if p.curTag() == TokRBrace {
			break
		}
		pub := false
		if p.curTag() == TokKeywordPub {
			p.advance()
			pub = true
		}
		switch p.curTag() {
		case TokKeywordConst, TokKeywordVar:
			members = append(members, p.parseVarDecl(pub, doc))
		case TokKeywordFn:
			members = append(members, p.parseFnDecl(pub, doc))
		case TokIdentifier:
			members = append(members, p.parseContainerField(pub, doc))
		default:
			p.errors = append(p.errors, ParseError{Token: int32(p.pos), Message: "expected container member"})
			p.advance()
		}
	}
	p.expect(TokRBrace)

	n := Node{Tag: NodeContainerDecl, MainToken: kindTok, List: members, StartTok: start, EndTok: int32(p.pos - 1)}
	n.Rhs = int32(containerKindTag(p.toks[kindTok].Tag))
	return p.addNode(n)
}

func (p *Parser) parseContainerField(pub bool, doc []int32) int32 {
	name, _ := p.expect(TokIdentifier)
	var typeExpr int32 = noIndex
	if p.curTag() == TokColon {
		p.advance()
		typeExpr = p.parseTypeExpr()
	}
	if p.curTag() == TokComma {
		p.advance()
	}
	return p.addNode(Node{Tag: NodeContainerField, MainToken: name, Lhs: typeExpr, Pub: pub, DocComments: doc})
}

func (p *Parser) parseBlock() int32 {
	start := int32(p.pos)
	var label int32 = noIndex
	if p.curTag() == TokIdentifier && p.pos+1 < len(p.toks) && p.toks[p.pos+1].Tag == TokColon &&
		p.pos+2 < len(p.toks) && p.toks[p.pos+2].Tag == TokLBrace {
		label = p.advance()
		p.advance() // colon
	}
	p.expect(TokLBrace)

	var stmts []int32
	for p.curTag() != TokRBrace && p.curTag() != TokEOF {
		startPos := p.pos
		s := p.parseStatement()
		if s >= 0 {
			stmts = append(stmts, s)
		}
		if p.pos == startPos {
			p.advance()
		}
	}
	p.expect(TokRBrace)
	return p.addNode(Node{Tag: NodeBlock, MainToken: label, List: stmts, StartTok: start, EndTok: int32(p.pos - 1)})
}

func (p *Parser) parseStatement() int32 {
	switch p.curTag() {
	case TokKeywordConst, TokKeywordVar:
		return p.parseVarDecl(false, nil)
	case TokKeywordReturn:
		p.advance()
		var val int32 = noIndex
		if p.curTag() != TokSemicolon {
			val = p.parseExpr()
		}
		if p.curTag() == TokSemicolon {
			p.advance()
		}
		return p.addNode(Node{Tag: NodeReturn, Lhs: val})
	case TokKeywordBreak:
		p.advance()
		var label int32 = noIndex
		if p.curTag() == TokColon {
			p.advance()
			label, _ = p.expect(TokIdentifier)
		}
		var val int32 = noIndex
		if p.curTag() != TokSemicolon {
			val = p.parseExpr()
		}
		if p.curTag() == TokSemicolon {
			p.advance()
		}
		return p.addNode(Node{Tag: NodeBreak, MainToken: label, Lhs: val})
	case TokLBrace:
		return p.parseBlock()
	default:
		if p.curTag() == TokIdentifier && p.pos+1 < len(p.toks) && p.toks[p.pos+1].Tag == TokColon &&
			p.pos+2 < len(p.toks) && p.toks[p.pos+2].Tag == TokLBrace {
			return p.parseBlock()
		}
		e := p.parseExpr()
		if p.curTag() == TokSemicolon {
			p.advance()
		}
		return e
	}
}

// parseExpr handles the `try`/`catch` prefix forms and falls through to
// postfix expressions.
func (p *Parser) parseExpr() int32 {
	switch p.curTag() {
	case TokKeywordTry:
		p.advance()
		operand := p.parseExpr()
		return p.addNode(Node{Tag: NodeTry, Lhs: operand})
	case TokKeywordCatch:
		p.advance()
		operand := p.parseExpr()
		var fallback int32 = noIndex
		if p.curTag() != TokSemicolon && p.curTag() != TokComma && p.curTag() != TokRParen &&
			p.curTag() != TokRBrace && p.curTag() != TokEOF {
			fallback = p.parseExpr()
		}
		return p.addNode(Node{Tag: NodeCatch, Lhs: operand, Rhs: fallback})
	default:
		return p.parsePostfixExpr()
	}
}

// parsePostfixExpr parses a primary expression followed by any chain of
// `.field` accesses and `(...)` calls, which is the shape spec.md L6(c)'s
// field-access resolver left-folds over.
func (p *Parser) parsePostfixExpr() int32 {
	n := p.parsePrimaryExpr()
	for {
		switch p.curTag() {
		case TokDot:
			p.advance()
			name, _ := p.expect(TokIdentifier)
			n = p.addNode(Node{Tag: NodeFieldAccess, MainToken: name, Lhs: n})
		case TokLParen:
			p.advance()
			var args []int32
			for p.curTag() != TokRParen && p.curTag() != TokEOF {
				args = append(args, p.parseExpr())
				if p.curTag() == TokComma {
					p.advance()
				} else {
					break
				}
			}
			p.expect(TokRParen)
			n = p.addNode(Node{Tag: NodeCall, Lhs: n, List: args})
		default:
			return n
		}
	}
}

func (p *Parser) parsePrimaryExpr() int32 {
	switch p.curTag() {
	case TokIdentifier:
		tok := p.advance()
		return p.addNode(Node{Tag: NodeIdentifier, MainToken: tok})
	case TokStringLiteral:
		tok := p.advance()
		return p.addNode(Node{Tag: NodeStringLiteral, MainToken: tok})
	case TokIntegerLiteral:
		tok := p.advance()
		return p.addNode(Node{Tag: NodeIntegerLiteral, MainToken: tok})
	case TokKeywordUndefined:
		tok := p.advance()
		return p.addNode(Node{Tag: NodeIdentifier, MainToken: tok})
	case TokAt:
		p.advance()
		name, _ := p.expect(TokIdentifier)
		p.expect(TokLParen)
		var args []int32
		for p.curTag() != TokRParen && p.curTag() != TokEOF {
			args = append(args, p.parseExpr())
			if p.curTag() == TokComma {
				p.advance()
			} else {
				break
			}
		}
		p.expect(TokRParen)
		return p.addNode(Node{Tag: NodeBuiltinCall, MainToken: name, List: args})
	case TokLParen:
		p.advance()
		inner := p.parseExpr()
		p.expect(TokRParen)
		return inner
	case TokLBrace:
		return p.parseBlock()
	case TokKeywordStruct, TokKeywordEnum, TokKeywordUnion, TokKeywordOpaque:
		return p.parseContainerDecl()
	default:
		p.errors = append(p.errors, ParseError{Token: int32(p.pos), Message: "expected expression"})
		tok := p.advance()
		return p.addNode(Node{Tag: NodeIdentifier, MainToken: tok})
	}
}
