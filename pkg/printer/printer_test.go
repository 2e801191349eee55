package printer

import (
	"strings"
	"testing"

	"github.com/sqlkit-go/sqlkit/pkg/dialect"
	"github.com/sqlkit-go/sqlkit/pkg/parser"
	"github.com/sqlkit-go/sqlkit/pkg/printtoken"
)

func formatSQL(t *testing.T, sql string, cfg Config) Result {
	t.Helper()
	stmt, err := parser.ParseStatement(sql)
	if err != nil {
		t.Fatalf("Failed to parse %q: %v", sql, err)
	}
	return Format(printtoken.Build(stmt), stmt.Params(), cfg)
}

// oneline returns the default config collapsed to a single line.
func oneline() Config {
	cfg := Default()
	cfg.Newline = " "
	return cfg
}

func TestFormatSimpleSelect(t *testing.T) {
	got := formatSQL(t, `SELECT id, name FROM users WHERE active = true AND age > 18`, Default()).SQL
	want := "SELECT\n  \"id\",\n  \"name\"\nFROM\n  \"users\"\nWHERE\n  \"active\" = TRUE\n  AND \"age\" > 18"
	if got != want {
		t.Errorf("Formatted SQL mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestFormatOneline(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want string
	}{
		{
			name: "Select with function call",
			sql:  `SELECT COUNT(*) FROM users`,
			want: `SELECT COUNT(*) FROM "users"`,
		},
		{
			name: "In list",
			sql:  `SELECT 1 FROM t WHERE x IN (1, 2)`,
			want: `SELECT 1 FROM "t" WHERE "x" IN (1, 2)`,
		},
		{
			name: "Cast and array access",
			sql:  `SELECT a[1]::text FROM t`,
			want: `SELECT "a"[1]::text FROM "t"`,
		},
		{
			name: "Extract",
			sql:  `SELECT EXTRACT(year FROM created_at) FROM t`,
			want: `SELECT EXTRACT(YEAR FROM "created_at") FROM "t"`,
		},
		{
			name: "Insert values",
			sql:  `INSERT INTO t (a, b) VALUES (1, 'x''y')`,
			want: `INSERT INTO "t" ("a", "b") VALUES (1, 'x''y')`,
		},
		{
			name: "Between",
			sql:  `SELECT 1 FROM t WHERE x BETWEEN 1 AND 10`,
			want: `SELECT 1 FROM "t" WHERE "x" BETWEEN 1 AND 10`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatSQL(t, tt.sql, oneline()).SQL
			if got != tt.want {
				t.Errorf("got:  %q\nwant: %q", got, tt.want)
			}
		})
	}
}

func TestFormatKeywordCase(t *testing.T) {
	cfg := oneline()
	cfg.KeywordCase = KeywordLower
	got := formatSQL(t, `SELECT 1 FROM t WHERE x IS NOT NULL`, cfg).SQL
	want := `select 1 from "t" where "x" is not null`
	if got != want {
		t.Errorf("got:  %q\nwant: %q", got, want)
	}
}

func TestFormatPresets(t *testing.T) {
	t.Run("mysql backticks and anonymous params", func(t *testing.T) {
		cfg, err := oneline().WithPreset("mysql")
		if err != nil {
			t.Fatalf("Failed to resolve preset: %v", err)
		}
		stmt, err := parser.ParseStatement(`SELECT id FROM users WHERE id = :uid`)
		if err != nil {
			t.Fatalf("Failed to parse: %v", err)
		}
		stmt.Params().Set("uid", 7)
		res := Format(printtoken.Build(stmt), stmt.Params(), cfg)
		want := "SELECT `id` FROM `users` WHERE `id` = ?"
		if res.SQL != want {
			t.Errorf("got:  %q\nwant: %q", res.SQL, want)
		}
		if len(res.Ordered) != 1 || res.Ordered[0] != 7 {
			t.Errorf("Ordered params: %v", res.Ordered)
		}
	})

	t.Run("sqlserver brackets", func(t *testing.T) {
		cfg, err := oneline().WithPreset("sqlserver")
		if err != nil {
			t.Fatalf("Failed to resolve preset: %v", err)
		}
		got := formatSQL(t, `SELECT id FROM users`, cfg).SQL
		want := `SELECT [id] FROM [users]`
		if got != want {
			t.Errorf("got:  %q\nwant: %q", got, want)
		}
	})

	t.Run("Unknown preset fails", func(t *testing.T) {
		if _, err := Default().WithPreset("oracle"); err == nil {
			t.Fatal("Expected ConfigError")
		}
	})
}

func TestFormatParameterStyles(t *testing.T) {
	parse := func(t *testing.T) (res func(cfg Config) Result) {
		stmt, err := parser.ParseStatement(`SELECT 1 FROM t WHERE a = :x AND b = :y AND c = :x`)
		if err != nil {
			t.Fatalf("Failed to parse: %v", err)
		}
		stmt.Params().Set("x", 10)
		stmt.Params().Set("y", 20)
		return func(cfg Config) Result {
			return Format(printtoken.Build(stmt), stmt.Params(), cfg)
		}
	}

	t.Run("Named", func(t *testing.T) {
		res := parse(t)(oneline())
		if !strings.Contains(res.SQL, ":x") || !strings.Contains(res.SQL, ":y") {
			t.Errorf("SQL: %q", res.SQL)
		}
		if res.Named["x"] != 10 || res.Named["y"] != 20 {
			t.Errorf("Named params: %v", res.Named)
		}
	})

	t.Run("Indexed reuses index for duplicate names", func(t *testing.T) {
		cfg := oneline()
		cfg.ParameterStyle = dialect.Indexed
		cfg.ParameterSymbol = "$"
		res := parse(t)(cfg)
		want := `SELECT 1 FROM "t" WHERE "a" = $1 AND "b" = $2 AND "c" = $1`
		if res.SQL != want {
			t.Errorf("got:  %q\nwant: %q", res.SQL, want)
		}
		if len(res.Ordered) != 2 || res.Ordered[0] != 10 || res.Ordered[1] != 20 {
			t.Errorf("Ordered params: %v", res.Ordered)
		}
	})

	t.Run("Anonymous repeats duplicates", func(t *testing.T) {
		cfg := oneline()
		cfg.ParameterStyle = dialect.Anonymous
		cfg.ParameterSymbol = "?"
		res := parse(t)(cfg)
		if strings.Count(res.SQL, "?") != 3 {
			t.Errorf("Expected 3 placeholders: %q", res.SQL)
		}
		if len(res.Ordered) != 3 || res.Ordered[2] != 10 {
			t.Errorf("Ordered params: %v", res.Ordered)
		}
	})

	t.Run("Paired parameter escape", func(t *testing.T) {
		cfg := oneline()
		cfg.ParameterEscape = &dialect.Escape{Start: "@", End: "@"}
		res := parse(t)(cfg)
		if !strings.Contains(res.SQL, "@x@") {
			t.Errorf("Expected @x@ style placeholder: %q", res.SQL)
		}
	})
}

func TestFormatBreakStyles(t *testing.T) {
	t.Run("Comma break none", func(t *testing.T) {
		cfg := Default()
		cfg.CommaBreak = BreakNone
		got := formatSQL(t, `SELECT a, b FROM t`, cfg).SQL
		if !strings.Contains(got, "\"a\", \"b\"") {
			t.Errorf("Expected items on one line: %q", got)
		}
	})

	t.Run("Comma break before", func(t *testing.T) {
		cfg := Default()
		cfg.CommaBreak = BreakBefore
		got := formatSQL(t, `SELECT a, b FROM t`, cfg).SQL
		if !strings.Contains(got, "\"a\"\n  , \"b\"") {
			t.Errorf("Expected comma-leading layout: %q", got)
		}
	})

	t.Run("And break after", func(t *testing.T) {
		cfg := Default()
		cfg.AndBreak = BreakAfter
		got := formatSQL(t, `SELECT 1 FROM t WHERE a = 1 AND b = 2`, cfg).SQL
		if !strings.Contains(got, "AND\n") {
			t.Errorf("Expected AND-trailing layout: %q", got)
		}
	})

	t.Run("Values comma break override", func(t *testing.T) {
		cfg := oneline()
		vb := BreakNone
		cfg.ValuesCommaBreak = &vb
		got := formatSQL(t, `INSERT INTO t VALUES (1, 2), (3, 4)`, cfg).SQL
		if !strings.Contains(got, "(1, 2), (3, 4)") {
			t.Errorf("VALUES layout: %q", got)
		}
	})
}

func TestFormatComments(t *testing.T) {
	t.Run("Exported block comments", func(t *testing.T) {
		got := formatSQL(t, "SELECT a -- note\n, b FROM t", oneline()).SQL
		if !strings.Contains(got, "/* note */") {
			t.Errorf("Expected line comment promoted to block: %q", got)
		}
	})

	t.Run("exportComment false elides comments", func(t *testing.T) {
		cfg := oneline()
		cfg.ExportComment = false
		got := formatSQL(t, "SELECT a -- note\n, b FROM t", cfg).SQL
		if strings.Contains(got, "note") {
			t.Errorf("Expected comments elided: %q", got)
		}
	})

	t.Run("strictCommentPlacement drops expression-level comments", func(t *testing.T) {
		// The SET column comment lives on an identifier expression; clause
		// comments like a select-list leader survive strict mode.
		cfg := oneline()
		cfg.StrictCommentPlacement = true
		got := formatSQL(t, "UPDATE t SET a /* c1 */ = 1", cfg).SQL
		if strings.Contains(got, "c1") {
			t.Errorf("Expected expression-level comment dropped: %q", got)
		}

		got = formatSQL(t, "SELECT /* lead */ a FROM t", cfg).SQL
		if !strings.Contains(got, "lead") {
			t.Errorf("Expected clause-level comment kept: %q", got)
		}
	})
}

func TestFormatHintBlocks(t *testing.T) {
	got := formatSQL(t, `SELECT /*+ INDEX(u idx) */ id FROM users u`, oneline()).SQL
	if !strings.Contains(got, "/*+ INDEX(u idx) */") {
		t.Errorf("Expected hint preserved: %q", got)
	}
}

func TestFormatDeterminism(t *testing.T) {
	stmt, err := parser.ParseStatement(`WITH x AS (SELECT 1) SELECT a, COUNT(*) FROM t GROUP BY a ORDER BY a DESC NULLS LAST LIMIT 10`)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	cfg := Default()
	first := Format(printtoken.Build(stmt), stmt.Params(), cfg)
	for i := 0; i < 5; i++ {
		again := Format(printtoken.Build(stmt), stmt.Params(), cfg)
		if again.SQL != first.SQL {
			t.Fatalf("Run %d produced different output:\n%q\n%q", i, again.SQL, first.SQL)
		}
	}
}
