// Package parser implements the recursive-descent family that turns a
// lexeme stream into the typed AST in pkg/ast: one parse function per
// production. The exported entry points offer a whole-text mode
// (ParseSelect, ParseStatement) and a FromLexeme(lexemes, index) mode for
// composing productions.
package parser

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sqlkit-go/sqlkit/pkg/ast"
	"github.com/sqlkit-go/sqlkit/pkg/dialect"
	"github.com/sqlkit-go/sqlkit/pkg/lexer"
	"github.com/sqlkit-go/sqlkit/pkg/sqlerr"
)

// Parser holds the lexeme stream and cursor shared by every production
// parser in this package. It is stateful and single-use per statement: the
// exported entry points below construct one internally.
type Parser struct {
	lexemes []lexer.Lexeme
	pos     int
	dialect dialect.Preset
}

// New constructs a Parser over pre-tokenized lexemes using the given dialect
// preset (only bracket-identifier scanning was already applied by the
// tokenizer; the parser itself doesn't re-tokenize).
func New(lexemes []lexer.Lexeme, d dialect.Preset) *Parser {
	return &Parser{lexemes: lexemes, dialect: d}
}

// newFromText tokenizes sql with the given dialect and returns a ready Parser.
func newFromText(sql string, d dialect.Preset) (*Parser, error) {
	tz := lexer.NewWithOptions(sql, lexer.Options{BracketIdentifiers: d.BracketIdents})
	lexemes, err := tz.Tokenize()
	if err != nil {
		return nil, err
	}
	return New(lexemes, d), nil
}

func (p *Parser) cur() lexer.Lexeme {
	if p.pos >= len(p.lexemes) {
		return lexer.Lexeme{Kind: lexer.EOF}
	}
	return p.lexemes[p.pos]
}

func (p *Parser) peek(offset int) lexer.Lexeme {
	idx := p.pos + offset
	if idx < 0 || idx >= len(p.lexemes) {
		return lexer.Lexeme{Kind: lexer.EOF}
	}
	return p.lexemes[idx]
}

func (p *Parser) atEnd() bool {
	return p.cur().Kind == lexer.EOF
}

func (p *Parser) advance() lexer.Lexeme {
	l := p.cur()
	if p.pos < len(p.lexemes) {
		p.pos++
	}
	return l
}

func (p *Parser) curIsKeyword(kw string) bool {
	c := p.cur()
	return c.Kind == lexer.Keyword && strings.EqualFold(c.Value, kw)
}

func (p *Parser) peekIsKeyword(offset int, kw string) bool {
	c := p.peek(offset)
	return c.Kind == lexer.Keyword && strings.EqualFold(c.Value, kw)
}

func (p *Parser) curIsAnyKeyword(kws ...string) bool {
	for _, kw := range kws {
		if p.curIsKeyword(kw) {
			return true
		}
	}
	return false
}

func (p *Parser) curIs(kind lexer.TokenKind) bool {
	return p.cur().Kind == kind
}

// curIsLiteral matches the keyword-literals NULL/TRUE/FALSE, which the
// tokenizer classifies as Literal rather than Keyword.
func (p *Parser) curIsLiteral(word string) bool {
	c := p.cur()
	return c.Kind == lexer.Literal && strings.EqualFold(c.Value, word)
}

// curIsWord matches a bare word regardless of whether the tokenizer
// classified it as a reserved Keyword or a plain Identifier, for the
// non-reserved words the grammar reads positionally (e.g. ROW/ROWS after
// OFFSET) rather than through the identifier allow-list.
func (p *Parser) curIsWord(word string) bool {
	c := p.cur()
	return (c.Kind == lexer.Keyword || c.Kind == lexer.Identifier) && strings.EqualFold(c.Value, word)
}

// curIsAnyWord is curIsWord for a set of candidates.
func (p *Parser) curIsAnyWord(words ...string) bool {
	for _, w := range words {
		if p.curIsWord(w) {
			return true
		}
	}
	return false
}

// peekIsWord is curIsWord at an offset.
func (p *Parser) peekIsWord(offset int, word string) bool {
	c := p.peek(offset)
	return (c.Kind == lexer.Keyword || c.Kind == lexer.Identifier) && strings.EqualFold(c.Value, word)
}

// consumeWord advances past a non-reserved word token (Keyword- or
// Identifier-lexed) matching the given text, or returns a ParseError.
func (p *Parser) consumeWord(word string) error {
	if !p.curIsWord(word) {
		return p.errorf("Expected `%s`", word)
	}
	p.advance()
	return nil
}

// consumeKeyword advances past the expected keyword or returns a ParseError.
func (p *Parser) consumeKeyword(kw string) error {
	if !p.curIsKeyword(kw) {
		return p.errorf("Expected `%s`", kw)
	}
	p.advance()
	return nil
}

func (p *Parser) consumeKind(kind lexer.TokenKind, what string) (lexer.Lexeme, error) {
	if !p.curIs(kind) {
		return lexer.Lexeme{}, p.errorf("Expected %s", what)
	}
	return p.advance(), nil
}

func (p *Parser) contextWindow() []string {
	var out []string
	for i := p.pos - 2; i <= p.pos+2; i++ {
		if i < 0 || i >= len(p.lexemes) {
			continue
		}
		text := p.lexemes[i].Value
		if i == p.pos {
			text = "[" + text + "]"
		}
		out = append(out, text)
	}
	return out
}

func (p *Parser) errorf(format string, args ...any) error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	c := p.cur()
	return &sqlerr.ParseError{
		Message:       msg,
		TokenIndex:    p.pos,
		Line:          c.Pos.StartLine,
		Column:        c.Pos.StartColumn,
		ContextWindow: p.contextWindow(),
	}
}

// --- public entry points -----------------------------------------------

// ParseSelect parses sql as a single SELECT/VALUES/WITH query.
func ParseSelect(sql string) (ast.SelectQuery, error) {
	return ParseSelectWithDialect(sql, dialect.Default())
}

// ParseSelectContext is ParseSelect honoring ctx cancellation before work
// begins. Parsing itself is synchronous and CPU-bound; the context exists so
// asynchronous call sites can wire the parser in without a wrapper.
func ParseSelectContext(ctx context.Context, sql string) (ast.SelectQuery, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ParseSelect(sql)
}

// ParseStatementContext is ParseStatement honoring ctx cancellation before
// work begins.
func ParseStatementContext(ctx context.Context, sql string) (ast.Statement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ParseStatement(sql)
}

// ParseSelectFromLexeme parses a SELECT/VALUES/WITH query from a contiguous
// lexeme slice starting at index, returning the query and the index of the
// first unconsumed lexeme.
func ParseSelectFromLexeme(lexemes []lexer.Lexeme, index int) (ast.SelectQuery, int, error) {
	p := New(lexemes, dialect.Default())
	p.pos = index
	q, err := p.parseSelectQuery()
	if err != nil {
		return nil, p.pos, err
	}
	return q, p.pos, nil
}

// ParseStatementFromLexeme parses one DML/DDL statement from a contiguous
// lexeme slice starting at index, returning the statement and the index of
// the first unconsumed lexeme.
func ParseStatementFromLexeme(lexemes []lexer.Lexeme, index int) (ast.Statement, int, error) {
	p := New(lexemes, dialect.Default())
	p.pos = index
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, p.pos, err
	}
	return stmt, p.pos, nil
}

// ParseExpressionFromLexeme parses one expression from a contiguous lexeme
// slice starting at index.
func ParseExpressionFromLexeme(lexemes []lexer.Lexeme, index int) (ast.Expression, int, error) {
	p := New(lexemes, dialect.Default())
	p.pos = index
	e, err := p.parseExpression()
	if err != nil {
		return nil, p.pos, err
	}
	return e, p.pos, nil
}

// ParseSelectWithDialect is ParseSelect with an explicit dialect preset
// (only the bracket-identifier scanning behavior is dialect-sensitive here).
func ParseSelectWithDialect(sql string, d dialect.Preset) (ast.SelectQuery, error) {
	p, err := newFromText(sql, d)
	if err != nil {
		return nil, err
	}
	q, err := p.parseSelectQuery()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, p.errorf("Unparsed lexeme remains")
	}
	return q, nil
}

// ParseStatement parses sql as a single DML or DDL statement.
func ParseStatement(sql string) (ast.Statement, error) {
	return ParseStatementWithDialect(sql, dialect.Default())
}

// ParseStatementWithDialect is ParseStatement with an explicit dialect preset.
func ParseStatementWithDialect(sql string, d dialect.Preset) (ast.Statement, error) {
	p, err := newFromText(sql, d)
	if err != nil {
		return nil, err
	}
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	p.skipSemicolons()
	if !p.atEnd() {
		return nil, p.errorf("Unparsed lexeme remains")
	}
	return stmt, nil
}

// ParseStatements splits sql on top-level semicolons and parses each
// statement independently, skipping empty statements while carrying their
// leading comments forward onto the next statement's header.
func ParseStatements(sql string) ([]ast.Statement, error) {
	return ParseStatementsWithDialect(sql, dialect.Default())
}

// ParseStatementsWithDialect is ParseStatements with an explicit dialect preset.
func ParseStatementsWithDialect(sql string, d dialect.Preset) ([]ast.Statement, error) {
	tz := lexer.NewWithOptions(sql, lexer.Options{BracketIdentifiers: d.BracketIdents})
	lexemes, err := tz.Tokenize()
	if err != nil {
		return nil, err
	}
	var stmts []ast.Statement
	var carriedComments []string
	start := 0
	emit := func(end int) error {
		segment := lexemes[start:end]
		if allInsignificant(segment) {
			for _, l := range segment {
				carriedComments = append(carriedComments, l.CommentsAt(lexer.Before)...)
				carriedComments = append(carriedComments, l.CommentsAt(lexer.After)...)
			}
			return nil
		}
		if len(carriedComments) > 0 && len(segment) > 0 {
			segment = append([]lexer.Lexeme(nil), segment...)
			segment[0].AddPositionedComments(lexer.Before, carriedComments)
			carriedComments = nil
		}
		sp := New(segment, d)
		stmt, err := sp.parseStatement()
		if err != nil {
			return &sqlerr.ParseError{Message: "statement " + strconv.Itoa(len(stmts)) + ": " + err.Error()}
		}
		if !sp.atEnd() {
			return &sqlerr.ParseError{Message: "statement " + strconv.Itoa(len(stmts)) + ": Unparsed lexeme remains"}
		}
		stmts = append(stmts, stmt)
		return nil
	}
	depth := 0
	for i, l := range lexemes {
		switch l.Kind {
		case lexer.LParen:
			depth++
		case lexer.RParen:
			depth--
		case lexer.Semicolon:
			if depth == 0 {
				// An empty statement's leading comments sit on the boundary
				// semicolon; carry them onto the next real statement.
				if allInsignificant(lexemes[start:i]) {
					carriedComments = append(carriedComments, l.CommentsAt(lexer.Before)...)
				}
				if err := emit(i); err != nil {
					return nil, err
				}
				start = i + 1
			}
		case lexer.EOF:
			if i > start {
				if err := emit(i); err != nil {
					return nil, err
				}
			}
			start = i + 1
		}
	}
	return stmts, nil
}

func allInsignificant(segment []lexer.Lexeme) bool {
	for _, l := range segment {
		if l.Kind != lexer.EOF {
			return false
		}
	}
	return true
}

func (p *Parser) skipSemicolons() {
	for p.curIs(lexer.Semicolon) {
		p.advance()
	}
}

// AnalyzeResult is the tolerant, non-throwing result of Analyze.
type AnalyzeResult struct {
	Success         bool
	Query           ast.SelectQuery
	Error           error
	ErrorPosition   *lexer.Position
	RemainingTokens []lexer.Lexeme
}

// Analyze is a non-throwing entry point for interactive/incremental tooling:
// it attempts ParseSelect and reports a structured result instead of
// returning an error.
func Analyze(sql string) AnalyzeResult {
	p, err := newFromText(sql, dialect.Default())
	if err != nil {
		return AnalyzeResult{Success: false, Error: err}
	}
	q, err := p.parseSelectQuery()
	if err != nil {
		pos := p.cur().Pos
		return AnalyzeResult{Success: false, Error: err, ErrorPosition: &pos, RemainingTokens: p.lexemes[p.pos:]}
	}
	if !p.atEnd() {
		return AnalyzeResult{Success: true, Query: q, RemainingTokens: p.lexemes[p.pos:]}
	}
	return AnalyzeResult{Success: true, Query: q}
}

// parseStatement dispatches on the leading keyword to the right statement
// production. Statement-header comments are captured here, before any clause
// parsing consumes the first lexeme. WITH-led statements are dispatched whole
// because the WITH production folds its own interstitial comments into the
// header.
func (p *Parser) parseStatement() (ast.Statement, error) {
	if p.curIsKeyword("WITH") {
		return p.parseWithLeadStatement()
	}
	header := p.cur().CommentsAt(lexer.Before)

	var stmt ast.Statement
	var err error
	switch {
	case p.curIsKeyword("SELECT"):
		stmt, err = p.parseSelectQuery()
	case p.curIsKeyword("VALUES"):
		stmt, err = p.parseValuesQuery(nil)
	case p.curIsKeyword("INSERT"):
		stmt, err = p.parseInsert(nil)
	case p.curIsKeyword("UPDATE"):
		stmt, err = p.parseUpdate(nil)
	case p.curIsKeyword("DELETE"):
		stmt, err = p.parseDelete(nil)
	case p.curIsKeyword("MERGE"):
		stmt, err = p.parseMerge(nil)
	case p.curIsKeyword("CREATE"):
		stmt, err = p.parseCreate()
	case p.curIsKeyword("DROP"):
		stmt, err = p.parseDrop()
	case p.curIsKeyword("ALTER"):
		stmt, err = p.parseAlter()
	case p.curIsKeyword("COMMENT"):
		stmt, err = p.parseCommentOn()
	case p.curIsKeyword("ANALYZE"):
		stmt, err = p.parseAnalyzeStatement()
	default:
		return nil, p.errorf("Unexpected %s", p.cur().Value)
	}
	if err != nil {
		return nil, err
	}
	if cc, ok := stmt.(interface {
		SetHeaderComments([]string)
	}); ok {
		cc.SetHeaderComments(header)
	}
	return stmt, nil
}
