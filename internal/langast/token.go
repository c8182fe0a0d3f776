// Package langast is a small hand-written lexer/parser for the target
// language. spec.md treats the concrete parser as an external
// collaborator; nothing in this ecosystem ships a grammar for a made-up
// systems language, so this package plays that role itself, grounded on
// the table-driven lexer/parser style of daios-ai-msg's lexer.go and
// parser.go. internal/astadapter wraps it the way
// internal/sitteradapter wraps tree-sitter for the teacher's grammar.
package langast

// TokenTag identifies the lexical category of a Token.
type TokenTag int

const (
	TokEOF TokenTag = iota
	TokInvalid

	TokIdentifier
	TokStringLiteral
	TokIntegerLiteral
	TokDocComment  // "/// ..."
	TokLineComment // "// ..."

	TokKeywordPub
	TokKeywordConst
	TokKeywordVar
	TokKeywordFn
	TokKeywordStruct
	TokKeywordEnum
	TokKeywordUnion
	TokKeywordOpaque
	TokKeywordReturn
	TokKeywordTry
	TokKeywordCatch
	TokKeywordBreak
	TokKeywordContinue
	TokKeywordIf
	TokKeywordElse
	TokKeywordWhile
	TokKeywordFor
	TokKeywordUndefined
	TokKeywordError

	TokLParen
	TokRParen
	TokLBrace
	TokRBrace
	TokLBracket
	TokRBracket
	TokColon
	TokComma
	TokSemicolon
	TokDot
	TokEqual
	TokBang
	TokQuestion
	TokStar
	TokAmpersand
	TokAt
	TokArrow
	TokPlus
	TokMinus
	TokEqEq
)

var keywords = map[string]TokenTag{
	"pub":       TokKeywordPub,
	"const":     TokKeywordConst,
	"var":       TokKeywordVar,
	"fn":        TokKeywordFn,
	"struct":    TokKeywordStruct,
	"enum":      TokKeywordEnum,
	"union":     TokKeywordUnion,
	"opaque":    TokKeywordOpaque,
	"return":    TokKeywordReturn,
	"try":       TokKeywordTry,
	"catch":     TokKeywordCatch,
	"break":     TokKeywordBreak,
	"continue":  TokKeywordContinue,
	"if":        TokKeywordIf,
	"else":      TokKeywordElse,
	"while":     TokKeywordWhile,
	"for":       TokKeywordFor,
	"undefined": TokKeywordUndefined,
	"error":     TokKeywordError,
}

// Token is a single lexical token with its byte range in the source.
type Token struct {
	Tag        TokenTag
	Start, End int
}

func (t Token) Len() int { return t.End - t.Start }
