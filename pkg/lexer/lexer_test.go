package lexer

import (
	"errors"
	"testing"

	"github.com/sqlkit-go/sqlkit/pkg/sqlerr"
)

func tokenize(t *testing.T, sql string) []Lexeme {
	t.Helper()
	lexemes, err := New(sql).Tokenize()
	if err != nil {
		t.Fatalf("Failed to tokenize %q: %v", sql, err)
	}
	return lexemes
}

func kinds(lexemes []Lexeme) []TokenKind {
	out := make([]TokenKind, 0, len(lexemes))
	for _, l := range lexemes {
		if l.Kind == EOF {
			continue
		}
		out = append(out, l.Kind)
	}
	return out
}

func TestTokenizeBasicSelect(t *testing.T) {
	lexemes := tokenize(t, `SELECT id, name FROM users WHERE age >= 18`)
	want := []TokenKind{
		Keyword, Identifier, Comma, Identifier, Keyword, Identifier,
		Keyword, Identifier, Operator, NumericLiteral,
	}
	got := kinds(lexemes)
	if len(got) != len(want) {
		t.Fatalf("Expected %d lexemes, got %d: %v", len(want), len(got), lexemes)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("lexeme %d: expected %v, got %v (%q)", i, want[i], got[i], lexemes[i].Value)
		}
	}
}

func TestTokenizeLiteralsAndIdentifiers(t *testing.T) {
	tests := []struct {
		name      string
		sql       string
		wantKind  TokenKind
		wantValue string
	}{
		{name: "String with escaped quote", sql: `'it''s'`, wantKind: StringLiteral, wantValue: "it's"},
		{name: "E-prefixed string", sql: `E'a\nb'`, wantKind: StringLiteral, wantValue: `a\nb`},
		{name: "Dollar-quoted empty tag", sql: `$$body$$`, wantKind: StringLiteral, wantValue: "body"},
		{name: "Dollar-quoted named tag", sql: `$fn$select 1$fn$`, wantKind: StringLiteral, wantValue: "select 1"},
		{name: "Quoted identifier with escape", sql: `"we""ird"`, wantKind: QuotedIdentifier, wantValue: `we"ird`},
		{name: "Decimal number", sql: `12.5`, wantKind: NumericLiteral, wantValue: "12.5"},
		{name: "Exponent number", sql: `1e6`, wantKind: NumericLiteral, wantValue: "1e6"},
		{name: "NULL literal", sql: `null`, wantKind: Literal, wantValue: "null"},
		{name: "Named parameter", sql: `:user_id`, wantKind: ParameterPlaceholder, wantValue: ":user_id"},
		{name: "At parameter", sql: `@name`, wantKind: ParameterPlaceholder, wantValue: "@name"},
		{name: "Indexed parameter", sql: `$3`, wantKind: ParameterPlaceholder, wantValue: "$3"},
		{name: "Anonymous parameter", sql: `?`, wantKind: ParameterPlaceholder, wantValue: "?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lexemes := tokenize(t, tt.sql)
			if lexemes[0].Kind != tt.wantKind {
				t.Fatalf("Expected kind %v, got %v", tt.wantKind, lexemes[0].Kind)
			}
			if lexemes[0].Value != tt.wantValue {
				t.Errorf("Expected value %q, got %q", tt.wantValue, lexemes[0].Value)
			}
		})
	}
}

func TestTokenizeStringPrefixes(t *testing.T) {
	lexemes := tokenize(t, `E'x'`)
	if lexemes[0].Prefix != "E" {
		t.Errorf("Expected E prefix, got %q", lexemes[0].Prefix)
	}
	lexemes = tokenize(t, `$tag$x$tag$`)
	if lexemes[0].Prefix != "$tag$" {
		t.Errorf("Expected $tag$ prefix, got %q", lexemes[0].Prefix)
	}
}

func TestTokenizeCastOperator(t *testing.T) {
	lexemes := tokenize(t, `x::int`)
	got := kinds(lexemes)
	want := []TokenKind{Identifier, Operator, Identifier}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("lexeme %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if lexemes[1].Value != "::" {
		t.Errorf("Expected :: operator, got %q", lexemes[1].Value)
	}
}

func TestTokenizeHintBlock(t *testing.T) {
	lexemes := tokenize(t, `SELECT /*+ INDEX(users idx) */ id FROM users`)
	foundHint := false
	for _, l := range lexemes {
		if l.Kind == HintBlock {
			foundHint = true
			if l.Value != "/*+ INDEX(users idx) */" {
				t.Errorf("Hint value mismatch: %q", l.Value)
			}
		}
	}
	if !foundHint {
		t.Fatal("Expected a HintBlock lexeme")
	}
}

func TestTokenizeComments(t *testing.T) {
	t.Run("Leading comment becomes Before of next lexeme", func(t *testing.T) {
		lexemes := tokenize(t, "-- header\nSELECT 1")
		if got := lexemes[0].CommentsAt(Before); len(got) != 1 || got[0] != "header" {
			t.Fatalf("Expected [header], got %v", got)
		}
	})

	t.Run("Trailing same-line comment becomes After of previous lexeme", func(t *testing.T) {
		lexemes := tokenize(t, "SELECT a -- note\nFROM t")
		var a *Lexeme
		for i := range lexemes {
			if lexemes[i].Value == "a" {
				a = &lexemes[i]
			}
		}
		if a == nil {
			t.Fatal("lexeme a not found")
		}
		if got := a.CommentsAt(After); len(got) != 1 || got[0] != "note" {
			t.Fatalf("Expected [note], got %v", got)
		}
	})

	t.Run("Nested block comment", func(t *testing.T) {
		lexemes := tokenize(t, "/* outer /* inner */ still outer */ SELECT 1")
		got := lexemes[0].CommentsAt(Before)
		if len(got) != 1 || got[0] != "outer /* inner */ still outer" {
			t.Fatalf("Expected nested comment preserved, got %v", got)
		}
	})

	t.Run("Multiple leading comments preserved in order", func(t *testing.T) {
		lexemes := tokenize(t, "-- one\n\n-- two\nSELECT 1")
		got := lexemes[0].CommentsAt(Before)
		if len(got) != 2 || got[0] != "one" || got[1] != "two" {
			t.Fatalf("Expected [one two], got %v", got)
		}
	})
}

func TestTokenizeFailFast(t *testing.T) {
	t.Run("Unterminated block comment returns lexemes so far", func(t *testing.T) {
		lexemes, err := New("SELECT 1 /* never closed").Tokenize()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		got := kinds(lexemes)
		if len(got) != 2 || got[0] != Keyword || got[1] != NumericLiteral {
			t.Fatalf("Expected SELECT and 1 lexemes, got %v", lexemes)
		}
	})

	t.Run("Unterminated string literal fails with position", func(t *testing.T) {
		_, err := New("SELECT 'oops").Tokenize()
		var terr *sqlerr.TokenizationError
		if !errors.As(err, &terr) {
			t.Fatalf("Expected TokenizationError, got %v", err)
		}
		if terr.Line != 1 || terr.Column != 8 {
			t.Errorf("Expected position 1:8, got %d:%d", terr.Line, terr.Column)
		}
	})

	t.Run("Unterminated quoted identifier fails", func(t *testing.T) {
		_, err := New(`SELECT "oops`).Tokenize()
		var terr *sqlerr.TokenizationError
		if !errors.As(err, &terr) {
			t.Fatalf("Expected TokenizationError, got %v", err)
		}
	})
}

func TestTokenizePositions(t *testing.T) {
	lexemes := tokenize(t, "SELECT\n  id")
	if lexemes[0].Pos.StartLine != 1 || lexemes[0].Pos.StartColumn != 1 {
		t.Errorf("SELECT position: got %d:%d", lexemes[0].Pos.StartLine, lexemes[0].Pos.StartColumn)
	}
	if lexemes[1].Pos.StartLine != 2 || lexemes[1].Pos.StartColumn != 3 {
		t.Errorf("id position: got %d:%d", lexemes[1].Pos.StartLine, lexemes[1].Pos.StartColumn)
	}
}

func TestTokenizeBracketIdentifiers(t *testing.T) {
	lexemes, err := NewWithOptions(`SELECT [user name] FROM [orders]`, Options{BracketIdentifiers: true}).Tokenize()
	if err != nil {
		t.Fatalf("Failed to tokenize: %v", err)
	}
	var quoted []string
	for _, l := range lexemes {
		if l.Kind == QuotedIdentifier {
			quoted = append(quoted, l.Value)
		}
	}
	if len(quoted) != 2 || quoted[0] != "user name" || quoted[1] != "orders" {
		t.Fatalf("Expected bracket identifiers, got %v", quoted)
	}
}

func TestTokenizeBracketIsIndexAfterIdentifier(t *testing.T) {
	lexemes, err := NewWithOptions(`a[1]`, Options{BracketIdentifiers: true}).Tokenize()
	if err != nil {
		t.Fatalf("Failed to tokenize: %v", err)
	}
	got := kinds(lexemes)
	want := []TokenKind{Identifier, LBracket, NumericLiteral, RBracket}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("lexeme %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}
