// Package printtoken implements the print-token builder: a non-mutating
// visitor that turns an AST into a tree of semantic-layout tokens which the
// printer (pkg/printer) then renders into text. Building never writes back
// into the AST — positioned-comment slices are read through the carrier's
// copy-on-read accessors, so the same AST can be built and printed
// repeatedly with identical results.
package printtoken

import "github.com/sqlkit-go/sqlkit/pkg/ast"

// Kind enumerates the closed set of print-token kinds.
type Kind int

const (
	Keyword Kind = iota
	Identifier
	QuotedIdentifier
	Literal
	ParameterRef
	Operator
	Punctuation
	Whitespace
	Newline
	IndentIncrement
	IndentDecrement
	CommaSeparator
	AndSeparator
	Comment
	HintBlock
	CTEStart
	CTEEnd
	SubQueryStart
	SubQueryEnd
	ClauseStart
	ClauseEnd
	Group // a non-semantic grouping node; printer recurses into Children only
)

// Token is one node of the print-token tree. Leaf kinds (Keyword, Operator,
// Identifier, Literal, Comment, ...) carry Text; Group carries Children.
// CTEStart/End, SubQueryStart/End and ClauseStart/End are built as flat
// markers among their siblings, without Children.
type Token struct {
	Kind     Kind
	Text     string
	Children []*Token

	// ParameterRef fields: at most one of ParamName/ParamIndex is set
	// (neither for an anonymous `?`), mirroring ast.ParameterRef. The printer substitutes the textual form.
	ParamName  *string
	ParamIndex *int

	// CommentSide distinguishes Before/After for Comment tokens.
	CommentSide ast.CommentSide

	// ClauseLevel marks a Comment token as owned by a clause/statement node
	// rather than an expression node; strictCommentPlacement keeps only these.
	ClauseLevel bool

	// Clause names the clause for ClauseStart/ClauseEnd, e.g. "Select", "From".
	Clause string

	// Tight suppresses the space the printer would otherwise insert before
	// this token; used for function-call parens (`count(` not `count (`).
	Tight bool
}

func leaf(kind Kind, text string) *Token { return &Token{Kind: kind, Text: text} }

func group(children ...*Token) *Token { return &Token{Kind: Group, Children: children} }

func kw(text string) *Token    { return leaf(Keyword, text) }
func op(text string) *Token    { return leaf(Operator, text) }
func punct(text string) *Token { return leaf(Punctuation, text) }

// callParen is an opening paren glued to the token before it.
func callParen() *Token { return &Token{Kind: Punctuation, Text: "(", Tight: true} }

func indentInc() *Token { return &Token{Kind: IndentIncrement} }
func indentDec() *Token { return &Token{Kind: IndentDecrement} }
func newline() *Token   { return &Token{Kind: Newline} }
func comma() *Token     { return &Token{Kind: CommaSeparator} }
func andSep() *Token    { return &Token{Kind: AndSeparator} }

func commentTokens(side ast.CommentSide, comments []string, clauseLevel bool) []*Token {
	var out []*Token
	for _, c := range comments {
		out = append(out, &Token{Kind: Comment, Text: c, CommentSide: side, ClauseLevel: clauseLevel})
	}
	return out
}

// beforeAfter wraps a carrier's Before/After comments (read via copy-on-read
// accessors, never mutated) around the tokens produced for the node itself.
func beforeAfter(before, body, after []*Token) []*Token {
	out := append([]*Token{}, before...)
	out = append(out, body...)
	out = append(out, after...)
	return out
}
