package lexer

import (
	"strings"
	"unicode"

	"github.com/sqlkit-go/sqlkit/pkg/sqlerr"
)

// Tokenizer scans a single SQL string into an ordered slice of Lexeme.
// It is stateful and single-use: construct one per call to Tokenize.
type Tokenizer struct {
	src  []rune
	pos  int
	line int
	col  int

	bracketIdents bool // accept [ident] as a quoted identifier, SQL Server style

	pendingBefore []string // comments collected since the last emitted lexeme
	lastLineEnd   int      // source line on which the last lexeme ended
}

// Options configures dialect-sensitive scanning behavior.
type Options struct {
	// BracketIdentifiers enables scanning `[ident]` as a quoted identifier
	// when it appears in identifier-start position (not postfix of an
	// expression, where it is array indexing instead).
	BracketIdentifiers bool
}

// New constructs a Tokenizer over sql with default (ANSI/Postgres-leaning) options.
func New(sql string) *Tokenizer {
	return NewWithOptions(sql, Options{})
}

// NewWithOptions constructs a Tokenizer with explicit dialect-sensitive options.
func NewWithOptions(sql string, opts Options) *Tokenizer {
	return &Tokenizer{
		src:           []rune(sql),
		pos:           0,
		line:          1,
		col:           1,
		bracketIdents: opts.BracketIdentifiers,
	}
}

// Tokenize scans the full input. On an unterminated block comment, it
// returns the lexemes produced so far with no error (fail-fast without an
// infinite loop). On an unterminated quoted identifier or string literal it
// returns a *sqlerr.TokenizationError.
func (t *Tokenizer) Tokenize() ([]Lexeme, error) {
	var out []Lexeme
	for {
		lex, err := t.next(&out)
		if err != nil {
			return out, err
		}
		if lex == nil {
			continue
		}
		out = append(out, *lex)
		if lex.Kind == EOF {
			return out, nil
		}
	}
}

func (t *Tokenizer) eof() bool { return t.pos >= len(t.src) }

func (t *Tokenizer) peekRune() rune {
	if t.eof() {
		return 0
	}
	return t.src[t.pos]
}

func (t *Tokenizer) peekAt(offset int) rune {
	if t.pos+offset >= len(t.src) {
		return 0
	}
	return t.src[t.pos+offset]
}

func (t *Tokenizer) advance() rune {
	r := t.src[t.pos]
	t.pos++
	if r == '\n' {
		t.line++
		t.col = 1
	} else {
		t.col++
	}
	return r
}

// next scans and returns the next lexeme, folding any leading comments into
// pendingBefore and attaching same-line trailing comments to the previous
// lexeme in out (appended in place).
func (t *Tokenizer) next(out *[]Lexeme) (*Lexeme, error) {
	for {
		t.skipInsignificantWhitespace()
		if t.eof() {
			lex := t.finishWithComments(Lexeme{Kind: EOF, Pos: t.posHere()})
			return &lex, nil
		}
		if t.peekRune() == '-' && t.peekAt(1) == '-' {
			t.scanLineComment(out)
			continue
		}
		if t.peekRune() == '/' && t.peekAt(1) == '*' {
			if t.peekAt(2) == '+' {
				lex, err := t.scanHintBlock()
				if err != nil {
					return nil, err
				}
				return lex, nil
			}
			if err := t.scanBlockComment(out); err != nil {
				return nil, err
			}
			continue
		}
		break
	}

	start := t.posHere()
	r := t.peekRune()

	switch {
	case r == '\'':
		return t.scanString(start, "")
	case (r == 'e' || r == 'E') && t.peekAt(1) == '\'':
		t.advance()
		return t.scanString(start, "E")
	case r == '$' && isDollarTagStart(t.peekAt(1)):
		if lex, ok, err := t.tryScanDollarQuoted(start); ok || err != nil {
			return lex, err
		}
		return t.scanParameterOrOperator(start)
	case r == '"':
		return t.scanQuotedIdentifier(start)
	case r == '[' && t.bracketIdentPosition(out):
		return t.scanBracketIdentifier(start)
	case unicode.IsDigit(r):
		return t.scanNumber(start)
	case isIdentStart(r):
		return t.scanIdentifierOrKeyword(start)
	case r == ':' || r == '?' || r == '@' || r == '$':
		return t.scanParameterOrOperator(start)
	default:
		return t.scanOperatorOrPunctuation(start)
	}
}

func (t *Tokenizer) posHere() Position {
	return Position{StartOffset: t.pos, StartLine: t.line, StartColumn: t.col}
}

func (t *Tokenizer) finishWithComments(lex Lexeme) Lexeme {
	if len(t.pendingBefore) > 0 {
		lex.AddPositionedComments(Before, t.pendingBefore)
		t.pendingBefore = nil
	}
	lex.Pos.EndOffset = t.pos
	t.lastLineEnd = t.line
	return lex
}

func (t *Tokenizer) skipInsignificantWhitespace() {
	for !t.eof() {
		r := t.peekRune()
		if r == ' ' || r == '\t' || r == '\r' || r == '\n' {
			t.advance()
			continue
		}
		return
	}
}

// scanLineComment consumes a `-- ...` comment through end of line and either
// attaches it as an After comment of the just-emitted lexeme (same source
// line) or queues it as a Before comment for the next lexeme.
func (t *Tokenizer) scanLineComment(out *[]Lexeme) {
	commentLine := t.line
	t.advance()
	t.advance()
	var b strings.Builder
	for !t.eof() && t.peekRune() != '\n' {
		b.WriteRune(t.advance())
	}
	text := strings.TrimSpace(b.String())
	t.attachComment(out, commentLine, text)
}

// scanBlockComment consumes a possibly-nested /* ... */ comment. A comment
// that never terminates is dropped and nil is returned, not an error.
func (t *Tokenizer) scanBlockComment(out *[]Lexeme) error {
	commentLine := t.line
	t.advance()
	t.advance()
	depth := 1
	var b strings.Builder
	for {
		if t.eof() {
			// Unterminated: keep the lexemes produced so far, drop the partial
			// comment, and let the caller reach EOF normally.
			return nil
		}
		if t.peekRune() == '/' && t.peekAt(1) == '*' {
			b.WriteRune(t.advance())
			b.WriteRune(t.advance())
			depth++
			continue
		}
		if t.peekRune() == '*' && t.peekAt(1) == '/' {
			depth--
			if depth == 0 {
				t.advance()
				t.advance()
				break
			}
			b.WriteRune(t.advance())
			b.WriteRune(t.advance())
			continue
		}
		b.WriteRune(t.advance())
	}
	text := strings.TrimSpace(b.String())
	t.attachComment(out, commentLine, text)
	return nil
}

func (t *Tokenizer) attachComment(out *[]Lexeme, commentLine int, text string) {
	if len(*out) > 0 && commentLine == t.lastLineEnd {
		last := &(*out)[len(*out)-1]
		last.AddPositionedComments(After, []string{text})
		return
	}
	t.pendingBefore = append(t.pendingBefore, text)
}

// scanHintBlock consumes /*+ ... */ as a single HintBlock lexeme; a hint is
// never a comment, per the tokenizer invariant.
func (t *Tokenizer) scanHintBlock() (*Lexeme, error) {
	start := t.posHere()
	t.advance() // /
	t.advance() // *
	t.advance() // +
	var b strings.Builder
	for {
		if t.eof() {
			return nil, &sqlerr.TokenizationError{Message: "unterminated hint block", Line: start.StartLine, Column: start.StartColumn}
		}
		if t.peekRune() == '*' && t.peekAt(1) == '/' {
			t.advance()
			t.advance()
			break
		}
		b.WriteRune(t.advance())
	}
	lex := t.finishWithComments(Lexeme{Kind: HintBlock, Value: "/*+" + b.String() + "*/", Pos: start})
	return &lex, nil
}

func isDollarTagStart(r rune) bool {
	return r == '$' || isIdentStart(r)
}

// tryScanDollarQuoted attempts `$tag$ ... $tag$`. Returns ok=false if the
// lookahead does not actually form a dollar-quote tag (e.g. bare `$1`
// parameter), so the caller can fall back to parameter scanning.
func (t *Tokenizer) tryScanDollarQuoted(start Position) (*Lexeme, bool, error) {
	save := t.pos
	saveLine, saveCol := t.line, t.col
	t.advance() // opening $
	var tag strings.Builder
	for !t.eof() && t.peekRune() != '$' && isIdentPart(t.peekRune()) {
		tag.WriteRune(t.advance())
	}
	if t.eof() || t.peekRune() != '$' {
		t.pos, t.line, t.col = save, saveLine, saveCol
		return nil, false, nil
	}
	t.advance() // closing $ of opening tag
	closing := "$" + tag.String() + "$"
	var body strings.Builder
	for {
		if t.eof() {
			return nil, true, &sqlerr.TokenizationError{Message: "unterminated dollar-quoted literal", Line: start.StartLine, Column: start.StartColumn}
		}
		if t.matchAhead(closing) {
			for range []rune(closing) {
				t.advance()
			}
			break
		}
		body.WriteRune(t.advance())
	}
	lex := t.finishWithComments(Lexeme{Kind: StringLiteral, Value: body.String(), Prefix: closing, Pos: start})
	return &lex, true, nil
}

func (t *Tokenizer) matchAhead(s string) bool {
	rs := []rune(s)
	if t.pos+len(rs) > len(t.src) {
		return false
	}
	for i, r := range rs {
		if t.src[t.pos+i] != r {
			return false
		}
	}
	return true
}

// scanString scans a single-quoted literal with '' escaping. prefix is ""
// or "E" for an E-prefixed literal.
func (t *Tokenizer) scanString(start Position, prefix string) (*Lexeme, error) {
	t.advance() // opening '
	var b strings.Builder
	for {
		if t.eof() {
			return nil, &sqlerr.TokenizationError{Message: "unterminated string literal", Line: start.StartLine, Column: start.StartColumn}
		}
		r := t.peekRune()
		if r == '\'' {
			if t.peekAt(1) == '\'' {
				t.advance()
				t.advance()
				b.WriteRune('\'')
				continue
			}
			t.advance()
			break
		}
		if prefix == "E" && r == '\\' && !t.eofAt(1) {
			b.WriteRune(t.advance())
			b.WriteRune(t.advance())
			continue
		}
		b.WriteRune(t.advance())
	}
	lex := t.finishWithComments(Lexeme{Kind: StringLiteral, Value: b.String(), Prefix: prefix, Pos: start})
	return &lex, nil
}

func (t *Tokenizer) eofAt(offset int) bool { return t.pos+offset >= len(t.src) }

// scanQuotedIdentifier scans a "..." identifier with "" escaping.
func (t *Tokenizer) scanQuotedIdentifier(start Position) (*Lexeme, error) {
	t.advance() // opening "
	var b strings.Builder
	for {
		if t.eof() {
			return nil, &sqlerr.TokenizationError{Message: "unterminated quoted identifier", Line: start.StartLine, Column: start.StartColumn}
		}
		r := t.peekRune()
		if r == '"' {
			if t.peekAt(1) == '"' {
				t.advance()
				t.advance()
				b.WriteRune('"')
				continue
			}
			t.advance()
			break
		}
		b.WriteRune(t.advance())
	}
	lex := t.finishWithComments(Lexeme{Kind: QuotedIdentifier, Value: b.String(), Pos: start})
	return &lex, nil
}

// bracketIdentPosition reports whether a `[` at the current position should
// be scanned as a quoted identifier (true) or left as punctuation for array
// indexing (false). It is identifier-start position unless the previously
// emitted significant lexeme was an identifier, literal, closing paren, or
// closing bracket (a postfix position).
func (t *Tokenizer) bracketIdentPosition(out *[]Lexeme) bool {
	if !t.bracketIdents {
		return false
	}
	if len(*out) == 0 {
		return true
	}
	switch (*out)[len(*out)-1].Kind {
	case Identifier, QuotedIdentifier, StringLiteral, NumericLiteral, RParen, RBracket, Literal:
		return false
	default:
		return true
	}
}

func (t *Tokenizer) scanBracketIdentifier(start Position) (*Lexeme, error) {
	t.advance() // opening [
	var b strings.Builder
	for {
		if t.eof() {
			return nil, &sqlerr.TokenizationError{Message: "unterminated bracket identifier", Line: start.StartLine, Column: start.StartColumn}
		}
		r := t.peekRune()
		if r == ']' {
			if t.peekAt(1) == ']' {
				t.advance()
				t.advance()
				b.WriteRune(']')
				continue
			}
			t.advance()
			break
		}
		b.WriteRune(t.advance())
	}
	lex := t.finishWithComments(Lexeme{Kind: QuotedIdentifier, Value: b.String(), Pos: start})
	return &lex, nil
}

func (t *Tokenizer) scanNumber(start Position) (*Lexeme, error) {
	var b strings.Builder
	for !t.eof() && unicode.IsDigit(t.peekRune()) {
		b.WriteRune(t.advance())
	}
	if t.peekRune() == '.' && unicode.IsDigit(t.peekAt(1)) {
		b.WriteRune(t.advance())
		for !t.eof() && unicode.IsDigit(t.peekRune()) {
			b.WriteRune(t.advance())
		}
	}
	if t.peekRune() == 'e' || t.peekRune() == 'E' {
		if unicode.IsDigit(t.peekAt(1)) || ((t.peekAt(1) == '+' || t.peekAt(1) == '-') && unicode.IsDigit(t.peekAt(2))) {
			b.WriteRune(t.advance())
			if t.peekRune() == '+' || t.peekRune() == '-' {
				b.WriteRune(t.advance())
			}
			for !t.eof() && unicode.IsDigit(t.peekRune()) {
				b.WriteRune(t.advance())
			}
		}
	}
	lex := t.finishWithComments(Lexeme{Kind: NumericLiteral, Value: b.String(), Pos: start})
	return &lex, nil
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (t *Tokenizer) scanIdentifierOrKeyword(start Position) (*Lexeme, error) {
	var b strings.Builder
	for !t.eof() && isIdentPart(t.peekRune()) {
		b.WriteRune(t.advance())
	}
	word := b.String()
	upper := strings.ToUpper(word)
	kind := Identifier
	switch upper {
	case "NULL", "TRUE", "FALSE":
		kind = Literal
	default:
		if LookupKeyword(upper) {
			kind = Keyword
		}
	}
	lex := t.finishWithComments(Lexeme{Kind: kind, Value: word, Pos: start})
	return &lex, nil
}

// scanParameterOrOperator handles :name, ?, $N, @name placeholders, falling
// back to :: for casts and bare $/@ as operators when no name/digits follow.
func (t *Tokenizer) scanParameterOrOperator(start Position) (*Lexeme, error) {
	r := t.peekRune()
	switch r {
	case '?':
		t.advance()
		lex := t.finishWithComments(Lexeme{Kind: ParameterPlaceholder, Value: "?", Pos: start})
		return &lex, nil
	case ':':
		if t.peekAt(1) == ':' {
			t.advance()
			t.advance()
			lex := t.finishWithComments(Lexeme{Kind: Operator, Value: "::", Pos: start})
			return &lex, nil
		}
		t.advance()
		if isIdentStart(t.peekRune()) {
			var b strings.Builder
			for !t.eof() && isIdentPart(t.peekRune()) {
				b.WriteRune(t.advance())
			}
			lex := t.finishWithComments(Lexeme{Kind: ParameterPlaceholder, Value: ":" + b.String(), Pos: start})
			return &lex, nil
		}
		lex := t.finishWithComments(Lexeme{Kind: Operator, Value: ":", Pos: start})
		return &lex, nil
	case '@':
		t.advance()
		if isIdentStart(t.peekRune()) {
			var b strings.Builder
			for !t.eof() && isIdentPart(t.peekRune()) {
				b.WriteRune(t.advance())
			}
			lex := t.finishWithComments(Lexeme{Kind: ParameterPlaceholder, Value: "@" + b.String(), Pos: start})
			return &lex, nil
		}
		lex := t.finishWithComments(Lexeme{Kind: Operator, Value: "@", Pos: start})
		return &lex, nil
	case '$':
		t.advance()
		if unicode.IsDigit(t.peekRune()) {
			var b strings.Builder
			for !t.eof() && unicode.IsDigit(t.peekRune()) {
				b.WriteRune(t.advance())
			}
			lex := t.finishWithComments(Lexeme{Kind: ParameterPlaceholder, Value: "$" + b.String(), Pos: start})
			return &lex, nil
		}
		lex := t.finishWithComments(Lexeme{Kind: Operator, Value: "$", Pos: start})
		return &lex, nil
	}
	return t.scanOperatorOrPunctuation(start)
}

var multiCharOperators = []string{"<=", ">=", "<>", "!=", "||", "::"}

func (t *Tokenizer) scanOperatorOrPunctuation(start Position) (*Lexeme, error) {
	r := t.advance()
	switch r {
	case '.':
		lex := t.finishWithComments(Lexeme{Kind: Dot, Value: ".", Pos: start})
		return &lex, nil
	case ',':
		lex := t.finishWithComments(Lexeme{Kind: Comma, Value: ",", Pos: start})
		return &lex, nil
	case '(':
		lex := t.finishWithComments(Lexeme{Kind: LParen, Value: "(", Pos: start})
		return &lex, nil
	case ')':
		lex := t.finishWithComments(Lexeme{Kind: RParen, Value: ")", Pos: start})
		return &lex, nil
	case '[':
		lex := t.finishWithComments(Lexeme{Kind: LBracket, Value: "[", Pos: start})
		return &lex, nil
	case ']':
		lex := t.finishWithComments(Lexeme{Kind: RBracket, Value: "]", Pos: start})
		return &lex, nil
	case ';':
		lex := t.finishWithComments(Lexeme{Kind: Semicolon, Value: ";", Pos: start})
		return &lex, nil
	}
	two := string(r) + string(t.peekRune())
	for _, op := range multiCharOperators {
		if op == two {
			t.advance()
			lex := t.finishWithComments(Lexeme{Kind: Operator, Value: op, Pos: start})
			return &lex, nil
		}
	}
	lex := t.finishWithComments(Lexeme{Kind: Operator, Value: string(r), Pos: start})
	return &lex, nil
}
