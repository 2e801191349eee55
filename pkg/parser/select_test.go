package parser

import (
	"errors"
	"testing"

	"github.com/sqlkit-go/sqlkit/pkg/ast"
	"github.com/sqlkit-go/sqlkit/pkg/lexer"
	"github.com/sqlkit-go/sqlkit/pkg/sqlerr"
)

func mustParseSelect(t *testing.T, sql string) ast.SelectQuery {
	t.Helper()
	q, err := ParseSelect(sql)
	if err != nil {
		t.Fatalf("Failed to parse %q: %v", sql, err)
	}
	return q
}

func mustSimple(t *testing.T, sql string) *ast.SimpleSelectQuery {
	t.Helper()
	q := mustParseSelect(t, sql)
	simple, ok := q.(*ast.SimpleSelectQuery)
	if !ok {
		t.Fatalf("Expected SimpleSelectQuery, got %T", q)
	}
	return simple
}

func TestParseSelectBasics(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		wantErr bool
	}{
		{name: "Star", sql: `SELECT * FROM users`},
		{name: "Columns with aliases", sql: `SELECT id AS user_id, name username FROM users u`},
		{name: "Qualified wildcard", sql: `SELECT u.* FROM users u`},
		{name: "Distinct", sql: `SELECT DISTINCT city FROM users`},
		{name: "Distinct on", sql: `SELECT DISTINCT ON (city) city, name FROM users ORDER BY city`},
		{name: "Group by having", sql: `SELECT city, COUNT(*) FROM users GROUP BY city HAVING COUNT(*) > 10`},
		{name: "Limit offset", sql: `SELECT * FROM users LIMIT 10 OFFSET 20`},
		{name: "Offset rows", sql: `SELECT * FROM users OFFSET 5 ROWS`},
		{name: "For update skip locked", sql: `SELECT * FROM jobs FOR UPDATE SKIP LOCKED`},
		{name: "For no key update of", sql: `SELECT * FROM jobs j FOR NO KEY UPDATE OF j NOWAIT`},
		{name: "Bare values", sql: `VALUES (1, 'a'), (2, 'b')`},
		{name: "Subquery source", sql: `SELECT * FROM (SELECT id FROM users) sub`},
		{name: "Lateral join", sql: `SELECT * FROM users u JOIN LATERAL (SELECT * FROM orders o WHERE o.user_id = u.id) recent ON TRUE`},
		{name: "Function source", sql: `SELECT * FROM generate_series(1, 10) AS g(n)`},
		{name: "With ordinality", sql: `SELECT * FROM unnest(tags) WITH ORDINALITY t`},
		{name: "Trailing garbage", sql: `SELECT 1 oops oops`, wantErr: true},
		{name: "Missing select list", sql: `SELECT FROM users`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSelect(tt.sql)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseSelect error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseJoins(t *testing.T) {
	q := mustSimple(t, `SELECT * FROM a
		INNER JOIN b ON a.id = b.a_id
		LEFT OUTER JOIN c ON b.id = c.b_id
		RIGHT JOIN d USING (id)
		FULL OUTER JOIN e ON TRUE
		CROSS JOIN f
		NATURAL JOIN g`)
	joins := q.From.Sources[0].Joins
	if len(joins) != 6 {
		t.Fatalf("Expected 6 joins, got %d", len(joins))
	}
	wantKinds := []ast.JoinKind{ast.JoinInner, ast.JoinLeft, ast.JoinRight, ast.JoinFull, ast.JoinCross, ast.JoinInner}
	for i, want := range wantKinds {
		if joins[i].JoinKind != want {
			t.Errorf("join %d: expected %v, got %v", i, want, joins[i].JoinKind)
		}
	}
	if joins[2].ConditionKind != ast.JoinUsing || len(joins[2].Using) != 1 {
		t.Errorf("join 2: expected USING (id)")
	}
	if joins[5].ConditionKind != ast.JoinNatural {
		t.Errorf("join 5: expected NATURAL")
	}
}

func TestParseSetOperations(t *testing.T) {
	q := mustParseSelect(t, `SELECT 1 UNION ALL SELECT 2 EXCEPT SELECT 3`)
	outer, ok := q.(*ast.BinarySelectQuery)
	if !ok {
		t.Fatalf("Expected BinarySelectQuery, got %T", q)
	}
	if outer.Op != ast.OpExcept {
		t.Errorf("Expected left-associative EXCEPT at the root, got %v", outer.Op)
	}
	inner, ok := outer.Left.(*ast.BinarySelectQuery)
	if !ok {
		t.Fatalf("Expected nested BinarySelectQuery on the left, got %T", outer.Left)
	}
	if inner.Op != ast.OpUnionAll {
		t.Errorf("Expected UNION ALL inside, got %v", inner.Op)
	}
}

func TestParseWithClause(t *testing.T) {
	q := mustSimple(t, `WITH RECURSIVE nums(n) AS (SELECT 1 UNION ALL SELECT n + 1 FROM nums WHERE n < 10),
		other AS NOT MATERIALIZED (SELECT 2)
		SELECT * FROM nums`)
	if q.With == nil || !q.With.Recursive {
		t.Fatal("Expected recursive WITH clause")
	}
	if len(q.With.Tables) != 2 {
		t.Fatalf("Expected 2 CTEs, got %d", len(q.With.Tables))
	}
	first := q.With.Tables[0]
	if first.Name.Name.Value != "nums" || len(first.ColumnAliases) != 1 {
		t.Errorf("First CTE: got name %q, %d column aliases", first.Name.Name.Value, len(first.ColumnAliases))
	}
	if q.With.Tables[1].Materialized != ast.NotMaterialized {
		t.Errorf("Expected NOT MATERIALIZED hint on second CTE")
	}
}

func TestParseWindow(t *testing.T) {
	q := mustSimple(t, `SELECT ROW_NUMBER() OVER (PARTITION BY dept ORDER BY salary DESC),
		SUM(x) OVER w,
		AVG(x) OVER (ROWS BETWEEN 2 PRECEDING AND CURRENT ROW)
		FROM emp WINDOW w AS (ORDER BY hired)`)
	items := q.Select.Items

	rn := items[0].Value.(*ast.FunctionCall)
	if rn.OverSpec == nil || len(rn.OverSpec.PartitionBy) != 1 || rn.OverSpec.OrderBy == nil {
		t.Errorf("ROW_NUMBER window spec incomplete: %+v", rn.OverSpec)
	}
	if rn.OverSpec.OrderBy.Items[0].Direction != ast.OrderDesc {
		t.Errorf("Expected DESC ordering in window spec")
	}

	sum := items[1].Value.(*ast.FunctionCall)
	if sum.OverName != "w" {
		t.Errorf("Expected named window reference w, got %q", sum.OverName)
	}

	avg := items[2].Value.(*ast.FunctionCall)
	if avg.OverSpec == nil || avg.OverSpec.Frame == nil {
		t.Fatal("Expected frame clause")
	}
	frame := avg.OverSpec.Frame
	if frame.Unit != ast.FrameRows || frame.Start.BoundKind != ast.BoundPreceding || frame.End == nil || frame.End.BoundKind != ast.BoundCurrentRow {
		t.Errorf("Frame mismatch: %+v", frame)
	}

	if q.Window == nil || len(q.Window.Windows) != 1 || q.Window.Windows[0].Name.Name.Value != "w" {
		t.Error("Expected WINDOW clause with one named window")
	}
}

func TestParseOrderByNulls(t *testing.T) {
	q := mustSimple(t, `SELECT * FROM t ORDER BY a ASC NULLS FIRST, b DESC NULLS LAST, c`)
	items := q.OrderBy.Items
	if items[0].Direction != ast.OrderAsc || items[0].Nulls != ast.NullsFirst {
		t.Errorf("item 0: %+v", items[0])
	}
	if items[1].Direction != ast.OrderDesc || items[1].Nulls != ast.NullsLast {
		t.Errorf("item 1: %+v", items[1])
	}
	if items[2].Direction != ast.OrderNone || items[2].Nulls != ast.NullsUnspecified {
		t.Errorf("item 2: %+v", items[2])
	}
}

func TestParseHintBlocks(t *testing.T) {
	q := mustSimple(t, `SELECT /*+ INDEX(u idx_users) */ /*+ PARALLEL(4) */ id FROM users u`)
	if len(q.Select.Hints) != 2 {
		t.Fatalf("Expected 2 hints, got %d", len(q.Select.Hints))
	}
	if q.Select.Hints[0].Text != "/*+ INDEX(u idx_users) */" {
		t.Errorf("Hint 0 text: %q", q.Select.Hints[0].Text)
	}
}

func TestParseReservedKeywordAsIdentifier(t *testing.T) {
	_, err := ParseSelect(`SELECT id FROM select`)
	var ierr *sqlerr.IdentifierError
	if !errors.As(err, &ierr) {
		t.Fatalf("Expected IdentifierError, got %v", err)
	}
	if ierr.Value != "select" {
		t.Errorf("Expected offending value select, got %q", ierr.Value)
	}

	// Non-reserved words remain usable as names.
	q := mustSimple(t, `SELECT partition, range FROM groups`)
	if len(q.Select.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(q.Select.Items))
	}
}

func TestParseErrorContextWindow(t *testing.T) {
	_, err := ParseSelect(`SELECT id FROM users WHERE`)
	var perr *sqlerr.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Expected ParseError, got %v", err)
	}
	if len(perr.ContextWindow) == 0 {
		t.Error("Expected a lexeme context window")
	}
}

func TestAnalyze(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		res := Analyze(`SELECT 1`)
		if !res.Success || res.Query == nil {
			t.Fatalf("Expected success, got %+v", res)
		}
	})

	t.Run("Success with remaining tokens", func(t *testing.T) {
		res := Analyze(`SELECT 1 garbage garbage`)
		if !res.Success {
			t.Fatalf("Expected tolerant success, got error %v", res.Error)
		}
		if len(res.RemainingTokens) == 0 {
			t.Error("Expected remaining tokens to be reported")
		}
	})

	t.Run("Failure reports position without throwing", func(t *testing.T) {
		res := Analyze(`SELECT FROM`)
		if res.Success {
			t.Fatal("Expected failure")
		}
		if res.Error == nil || res.ErrorPosition == nil {
			t.Errorf("Expected error and position, got %+v", res)
		}
	})
}

func TestParseStatements(t *testing.T) {
	t.Run("Multiple statements", func(t *testing.T) {
		stmts, err := ParseStatements(`SELECT 1; INSERT INTO t VALUES (1); ; DELETE FROM t`)
		if err != nil {
			t.Fatalf("Failed to parse: %v", err)
		}
		if len(stmts) != 3 {
			t.Fatalf("Expected 3 statements (empty one skipped), got %d", len(stmts))
		}
		if _, ok := stmts[1].(*ast.InsertQuery); !ok {
			t.Errorf("Statement 1: expected InsertQuery, got %T", stmts[1])
		}
	})

	t.Run("No trailing semicolon required", func(t *testing.T) {
		stmts, err := ParseStatements(`SELECT 1; SELECT 2`)
		if err != nil || len(stmts) != 2 {
			t.Fatalf("got %d statements, err %v", len(stmts), err)
		}
	})

	t.Run("Error identifies statement index", func(t *testing.T) {
		_, err := ParseStatements(`SELECT 1; SELECT FROM`)
		if err == nil {
			t.Fatal("Expected error")
		}
		var perr *sqlerr.ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("Expected ParseError, got %v", err)
		}
	})

	t.Run("Leading comments of empty statements carry forward", func(t *testing.T) {
		stmts, err := ParseStatements("-- keep me\n;\nSELECT 1")
		if err != nil || len(stmts) != 1 {
			t.Fatalf("got %d statements, err %v", len(stmts), err)
		}
		header := stmts[0].(*ast.SimpleSelectQuery).HeaderComments()
		if len(header) != 1 || header[0] != "keep me" {
			t.Errorf("Expected carried comment, got %v", header)
		}
	})
}

func TestParseFromLexeme(t *testing.T) {
	lexemes, err := lexer.New(`SELECT 1 FROM t`).Tokenize()
	if err != nil {
		t.Fatalf("Failed to tokenize: %v", err)
	}
	q, next, err := ParseSelectFromLexeme(lexemes, 0)
	if err != nil {
		t.Fatalf("Failed to parse from lexemes: %v", err)
	}
	if q == nil {
		t.Fatal("Expected a query")
	}
	if lexemes[next].Kind != lexer.EOF {
		t.Errorf("Expected cursor at EOF, got %v", lexemes[next])
	}
}

func TestParseStatementRejectsTrailing(t *testing.T) {
	if _, err := ParseStatement(`SELECT 1; SELECT 2`); err == nil {
		t.Fatal("Expected failure for multiple statements in ParseStatement")
	}
	if _, err := ParseStatement(`SELECT 1;`); err != nil {
		t.Fatalf("Trailing semicolon should be accepted: %v", err)
	}
}
