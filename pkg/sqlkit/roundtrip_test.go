package sqlkit

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/sqlkit-go/sqlkit/pkg/ast"
	"github.com/sqlkit-go/sqlkit/pkg/printer"
	"github.com/sqlkit-go/sqlkit/pkg/transform"
)

func oneline() printer.Config {
	cfg := printer.Default()
	cfg.Newline = " "
	return cfg
}

func TestCTEOnelineFormatting(t *testing.T) {
	sql := `WITH user_summary AS ( SELECT id, name, COUNT(*) FROM users WHERE active = true GROUP BY id, name ) SELECT * FROM user_summary ORDER BY name`
	cfg := printer.Default()
	cfg.WithClauseStyle = printer.WithCTEOneline

	res, err := FormatSQL(sql, cfg)
	if err != nil {
		t.Fatalf("Failed to format: %v", err)
	}
	want := "WITH\n" +
		"  \"user_summary\" AS (SELECT \"id\", \"name\", COUNT(*) FROM \"users\" WHERE \"active\" = TRUE GROUP BY \"id\", \"name\")\n" +
		"SELECT\n" +
		"  *\n" +
		"FROM\n" +
		"  \"user_summary\"\n" +
		"ORDER BY\n" +
		"  \"name\""
	if res.SQL != want {
		t.Errorf("Formatted SQL mismatch:\ngot:\n%s\nwant:\n%s", res.SQL, want)
	}
}

func TestAddCTEMaterializedFormatting(t *testing.T) {
	base, err := ParseSelect(`SELECT * FROM t`)
	if err != nil {
		t.Fatalf("Failed to parse base: %v", err)
	}
	cteQuery, err := ParseSelect(`SELECT 1 as v`)
	if err != nil {
		t.Fatalf("Failed to parse CTE: %v", err)
	}
	simple := base.(*ast.SimpleSelectQuery)
	mat := true
	if _, err := AddCTE(simple, "x", cteQuery, transform.CTEOptions{Materialized: &mat}); err != nil {
		t.Fatalf("Failed to add CTE: %v", err)
	}

	cfg := oneline()
	cfg.KeywordCase = printer.KeywordLower
	res := Format(simple, cfg)
	want := `with "x" as materialized (select 1 as "v") select * from "t"`
	if res.SQL != want {
		t.Errorf("got:  %q\nwant: %q", res.SQL, want)
	}
}

func TestParameterInjectionScenario(t *testing.T) {
	q, err := ParseSelect(`SELECT * FROM articles a`)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	resolver := func(table string) []string {
		if table == "articles" {
			return []string{"price", "article_name", "category_id", "tags"}
		}
		return nil
	}
	state := transform.State{
		{Key: "price", Value: transform.Condition{Ops: []transform.Op{
			{Name: "min", Value: 10}, {Name: "max", Value: 100}, {Name: "!=", Value: 50},
		}}},
		{Key: "article_name", Value: transform.Condition{Ops: []transform.Op{{Name: "ilike", Value: "%premium%"}}}},
		{Key: "category_id", Value: transform.Condition{Ops: []transform.Op{{Name: "in", Value: []any{1, 2, 3, 4}}}}},
		{Key: "tags", Value: transform.Condition{Ops: []transform.Op{{Name: "any", Value: []any{100, 200, 300}}}}},
	}
	if _, err := InjectParams(q, state, resolver, transform.InjectOptions{}); err != nil {
		t.Fatalf("Failed to inject: %v", err)
	}

	res := Format(q, oneline())
	want := `SELECT * FROM "articles" AS "a" WHERE ` +
		`("a"."price" >= :price_min AND "a"."price" <= :price_max AND "a"."price" != :price_neq) ` +
		`AND "a"."article_name" ILIKE :article_name_ilike ` +
		`AND "a"."category_id" IN (:category_id_in_0, :category_id_in_1, :category_id_in_2, :category_id_in_3) ` +
		`AND "a"."tags" = ANY(:tags_any)`
	if res.SQL != want {
		t.Errorf("got:  %q\nwant: %q", res.SQL, want)
	}

	if res.Named["price_min"] != 10 || res.Named["price_max"] != 100 {
		t.Errorf("Named params incomplete: %v", res.Named)
	}
	if len(res.Named) != 9 {
		t.Errorf("Expected 9 named params, got %d: %v", len(res.Named), res.Named)
	}
}

func TestSortInjectionScenario(t *testing.T) {
	q, err := ParseSelect(`SELECT id, last_login FROM users ORDER BY id ASC`)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	simple := q.(*ast.SimpleSelectQuery)
	specs := []transform.SortSpec{
		{ColumnOrAlias: "last_login", Options: transform.SortOption{Desc: true, NullsLast: true}},
		{ColumnOrAlias: "id", Options: transform.SortOption{Asc: true}},
	}
	if _, err := InjectSort(simple, specs); err != nil {
		t.Fatalf("Failed to inject sort: %v", err)
	}

	res := Format(simple, oneline())
	if !strings.HasSuffix(res.SQL, `ORDER BY "id" ASC, "last_login" DESC NULLS LAST, "id" ASC`) {
		t.Errorf("ORDER BY mismatch: %q", res.SQL)
	}
}

func TestFormatIdempotence(t *testing.T) {
	// After one formatting pass the output is a fixpoint: parsing it and
	// formatting again reproduces the same bytes.
	queries := []string{
		`SELECT DISTINCT u.id, COUNT(*) AS n FROM users u LEFT JOIN orders o ON o.user_id = u.id GROUP BY u.id HAVING COUNT(*) > 1 ORDER BY n DESC NULLS LAST LIMIT 10 OFFSET 5`,
		`WITH x AS (SELECT 1 AS a), y AS NOT MATERIALIZED (SELECT 2 AS b) SELECT * FROM x, y`,
		`SELECT 1 UNION ALL SELECT 2 INTERSECT SELECT 3`,
		`VALUES (1, 'a'), (2, 'b')`,
		`INSERT INTO t (a, b) SELECT a, b FROM s ON CONFLICT (a) DO UPDATE SET b = 1 WHERE t.a > 0 RETURNING *`,
		`UPDATE t SET a = a + 1 FROM s WHERE t.id = s.id RETURNING t.a`,
		`DELETE FROM t USING s WHERE t.id = s.id RETURNING t.id`,
		`MERGE INTO t USING s ON t.id = s.id WHEN MATCHED THEN UPDATE SET a = s.a WHEN NOT MATCHED THEN INSERT (id, a) VALUES (s.id, s.a)`,
		`SELECT ROW_NUMBER() OVER (PARTITION BY dept ORDER BY salary DESC), AVG(x) OVER (ROWS BETWEEN 2 PRECEDING AND CURRENT ROW) FROM emp`,
		`SELECT CASE WHEN x > 0 THEN 'p' ELSE 'n' END, x::numeric(10, 2), a[1:3], EXTRACT(YEAR FROM d) FROM t WHERE x BETWEEN 1 AND 5 AND y IS NOT DISTINCT FROM z`,
		`SELECT * FROM jobs FOR NO KEY UPDATE OF jobs SKIP LOCKED`,
		`CREATE TABLE IF NOT EXISTS snap AS SELECT * FROM live`,
		`DROP INDEX CONCURRENTLY IF EXISTS a, b CASCADE`,
		`ALTER TABLE t ALTER COLUMN c SET DEFAULT 0`,
		`CREATE SEQUENCE s INCREMENT BY 2 START WITH 10 CACHE 5`,
		`COMMENT ON TABLE users IS 'people'`,
		`ANALYZE VERBOSE users (email)`,
	}

	for _, cfg := range []printer.Config{printer.Default(), oneline()} {
		for _, sql := range queries {
			first, err := FormatSQL(sql, cfg)
			if err != nil {
				t.Fatalf("%q: failed first pass: %v", sql, err)
			}
			second, err := FormatSQL(first.SQL, cfg)
			if err != nil {
				t.Fatalf("%q: failed to re-parse %q: %v", sql, first.SQL, err)
			}
			if second.SQL != first.SQL {
				t.Errorf("Not a fixpoint:\nfirst:  %q\nsecond: %q", first.SQL, second.SQL)
			}
		}
	}
}

func TestFormatDoesNotMutateAST(t *testing.T) {
	sql := "-- header\nSELECT a -- trail\n, b FROM t"
	stmt, err := ParseStatement(sql)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	q := stmt.(*ast.SimpleSelectQuery)

	snap := func() [][]string {
		var out [][]string
		out = append(out, q.HeaderComments())
		for _, item := range q.Select.Items {
			out = append(out, item.GetPositionedComments(ast.Before), item.GetPositionedComments(ast.After))
		}
		return out
	}

	before := snap()
	first := Format(q, printer.Default())
	second := Format(q, printer.Default())
	if first.SQL != second.SQL {
		t.Errorf("Repeated formatting diverged:\n%q\n%q", first.SQL, second.SQL)
	}
	if !reflect.DeepEqual(before, snap()) {
		t.Errorf("Comment state mutated by formatting:\nbefore %v\nafter  %v", before, snap())
	}
}

func TestCommentOwnership(t *testing.T) {
	t.Run("Statement header", func(t *testing.T) {
		stmt, err := ParseStatement("-- header one\n-- header two\nSELECT 1")
		if err != nil {
			t.Fatalf("Failed to parse: %v", err)
		}
		header := stmt.(*ast.SimpleSelectQuery).HeaderComments()
		if len(header) != 2 || header[0] != "header one" {
			t.Errorf("Header mismatch: %v", header)
		}
	})

	t.Run("Comment between WITH and first CTE joins outer header", func(t *testing.T) {
		stmt, err := ParseStatement("-- outer\nWITH\n-- interstitial\nx AS (SELECT 1) SELECT * FROM x")
		if err != nil {
			t.Fatalf("Failed to parse: %v", err)
		}
		header := stmt.(*ast.SimpleSelectQuery).HeaderComments()
		if !reflect.DeepEqual(header, []string{"outer", "interstitial"}) {
			t.Errorf("Header mismatch: %v", header)
		}
	})

	t.Run("Comment inside CTE parens is the inner header", func(t *testing.T) {
		stmt, err := ParseStatement("WITH x AS (\n-- inner\nSELECT 1) SELECT * FROM x")
		if err != nil {
			t.Fatalf("Failed to parse: %v", err)
		}
		q := stmt.(*ast.SimpleSelectQuery)
		inner := q.With.Tables[0].Query.(*ast.SimpleSelectQuery).HeaderComments()
		if len(inner) != 1 || inner[0] != "inner" {
			t.Errorf("Inner header mismatch: %v", inner)
		}
		if len(q.HeaderComments()) != 0 {
			t.Errorf("Outer header must be empty: %v", q.HeaderComments())
		}
	})

	t.Run("Comment before main SELECT after CTEs is a before comment", func(t *testing.T) {
		stmt, err := ParseStatement("WITH x AS (SELECT 1)\n-- main\nSELECT * FROM x")
		if err != nil {
			t.Fatalf("Failed to parse: %v", err)
		}
		q := stmt.(*ast.SimpleSelectQuery)
		before := q.GetPositionedComments(ast.Before)
		if len(before) != 1 || before[0] != "main" {
			t.Errorf("Before mismatch: %v", before)
		}
		if len(q.HeaderComments()) != 0 {
			t.Errorf("Header must be empty: %v", q.HeaderComments())
		}
	})

	t.Run("Per-item comments around commas", func(t *testing.T) {
		stmt, err := ParseStatement("SELECT a -- after a\n,\n-- before b\nb FROM t")
		if err != nil {
			t.Fatalf("Failed to parse: %v", err)
		}
		items := stmt.(*ast.SimpleSelectQuery).Select.Items
		if got := items[0].GetPositionedComments(ast.After); len(got) != 1 || got[0] != "after a" {
			t.Errorf("Item 0 after: %v", got)
		}
		if got := items[1].GetPositionedComments(ast.Before); len(got) != 1 || got[0] != "before b" {
			t.Errorf("Item 1 before: %v", got)
		}
	})
}

func TestSetParameterAndValidate(t *testing.T) {
	stmt, err := ParseStatement(`SELECT * FROM t WHERE id = :id`)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	SetParameter(stmt, "id", 99)
	res := Format(stmt, oneline())
	if res.Named["id"] != 99 {
		t.Errorf("Expected binding to pass through, got %v", res.Named)
	}

	if ok, err := ValidateSql(`SELECT 1`); !ok || err != nil {
		t.Errorf("Expected valid, got %v %v", ok, err)
	}
	if ok, _ := ValidateSql(`SELECT FROM`); ok {
		t.Error("Expected invalid")
	}
}

func TestParseContextEntryPoints(t *testing.T) {
	if _, err := ParseSelectContext(context.Background(), `SELECT 1`); err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ParseStatementContext(ctx, `SELECT 1`); err == nil {
		t.Fatal("Expected cancellation error")
	}
}

func TestBuildJSONFacade(t *testing.T) {
	q, err := ParseSelect(`SELECT o.id AS order_id, i.id AS item_id FROM orders o JOIN items i ON i.order_id = o.id`)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	out, err := BuildJSON(q, transform.JSONMapping{
		Entities: []transform.JSONEntity{
			{Name: "order", Columns: []transform.JSONColumn{{Column: "order_id", Property: "id"}}},
			{
				Name: "item", Parent: "order", Relation: transform.JSONArrayRelation,
				ParentKey: "order_id", ChildKey: "order_id",
				Columns: []transform.JSONColumn{{Column: "item_id", Property: "id"}},
			},
		},
	})
	if err != nil {
		t.Fatalf("Failed to build: %v", err)
	}
	res := Format(out, oneline())
	for _, want := range []string{"json_build_object", "json_agg", "COALESCE", "_json_base", "_json_item", "GROUP BY"} {
		if !strings.Contains(res.SQL, want) && !strings.Contains(res.SQL, strings.ToUpper(want)) {
			t.Errorf("Expected %q in output: %q", want, res.SQL)
		}
	}
}

func TestLargeValuesPerformance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping perf regression in -short mode")
	}
	var b strings.Builder
	b.WriteString("INSERT INTO bulk (a, b) VALUES ")
	for i := 0; i < 20000; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(1, 'x')")
	}
	start := time.Now()
	res, err := FormatSQL(b.String(), oneline())
	if err != nil {
		t.Fatalf("Failed to format: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("20k-row VALUES took %v, budget is 2s", elapsed)
	}
	if len(res.SQL) == 0 {
		t.Error("Empty output")
	}
}
