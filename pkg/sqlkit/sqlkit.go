// Package sqlkit is the convenience facade: it wires pkg/parser,
// pkg/transform, pkg/printtoken and pkg/printer into the
// parse -> transform? -> format pipeline so callers don't have to touch the
// intermediate print-token stage themselves.
package sqlkit

import (
	"context"
	"fmt"

	"github.com/sqlkit-go/sqlkit/pkg/ast"
	"github.com/sqlkit-go/sqlkit/pkg/parser"
	"github.com/sqlkit-go/sqlkit/pkg/printer"
	"github.com/sqlkit-go/sqlkit/pkg/printtoken"
	"github.com/sqlkit-go/sqlkit/pkg/transform"
)

// ParseSelect parses sql as a single SELECT/VALUES/WITH query.
func ParseSelect(sql string) (ast.SelectQuery, error) {
	return parser.ParseSelect(sql)
}

// ParseStatement parses sql as a single DML or DDL statement.
func ParseStatement(sql string) (ast.Statement, error) {
	return parser.ParseStatement(sql)
}

// ParseStatements splits sql on top-level semicolons and parses each one.
func ParseStatements(sql string) ([]ast.Statement, error) {
	return parser.ParseStatements(sql)
}

// ParseSelectContext is ParseSelect for asynchronous call sites; parsing is
// synchronous and CPU-bound, the context is only checked up front.
func ParseSelectContext(ctx context.Context, sql string) (ast.SelectQuery, error) {
	return parser.ParseSelectContext(ctx, sql)
}

// ParseStatementContext is ParseStatement for asynchronous call sites.
func ParseStatementContext(ctx context.Context, sql string) (ast.Statement, error) {
	return parser.ParseStatementContext(ctx, sql)
}

// Analyze is the tolerant, non-throwing entry point for interactive tooling.
func Analyze(sql string) parser.AnalyzeResult {
	return parser.Analyze(sql)
}

// ValidateSql reports whether sql parses as a single statement, returning
// the parse error (unwrapped) when it does not.
func ValidateSql(sql string) (bool, error) {
	if _, err := parser.ParseStatement(sql); err != nil {
		return false, err
	}
	return true, nil
}

// Format renders stmt's print-token tree under cfg, substituting parameter
// placeholders from its own binding table.
func Format(stmt ast.Statement, cfg printer.Config) printer.Result {
	tree := printtoken.Build(stmt)
	return printer.Format(tree, stmt.Params(), cfg)
}

// SetParameter records a binding on stmt's own parameter table, returning
// stmt for chaining.
func SetParameter(stmt ast.Statement, name string, value any) ast.Statement {
	stmt.Params().Set(name, value)
	return stmt
}

// InjectParams adds WHERE predicates for every defined state entry.
func InjectParams(query ast.SelectQuery, state transform.State, resolver transform.TableColumnResolver, opts transform.InjectOptions) (ast.SelectQuery, error) {
	if err := transform.InjectParams(query, state, resolver, opts); err != nil {
		return nil, err
	}
	return query, nil
}

// InjectSort appends to query's existing ORDER BY.
func InjectSort(query *ast.SimpleSelectQuery, specs []transform.SortSpec) (*ast.SimpleSelectQuery, error) {
	if err := transform.InjectSort(query, specs); err != nil {
		return nil, err
	}
	return query, nil
}

// InjectPaging sets query's LIMIT/OFFSET from a page/pageSize pair.
func InjectPaging(query *ast.SimpleSelectQuery, page, pageSize int) (*ast.SimpleSelectQuery, error) {
	if err := transform.InjectPaging(query, page, pageSize); err != nil {
		return nil, err
	}
	return query, nil
}

// AddCTE appends a new CTE to query's WITH clause.
func AddCTE(query *ast.SimpleSelectQuery, name string, cteQuery ast.SelectQuery, opts transform.CTEOptions) (*ast.SimpleSelectQuery, error) {
	if err := transform.AddCTE(query, name, cteQuery, opts); err != nil {
		return nil, err
	}
	return query, nil
}

// RemoveCTE drops the named CTE.
func RemoveCTE(query *ast.SimpleSelectQuery, name string) (*ast.SimpleSelectQuery, error) {
	if err := transform.RemoveCTE(query, name); err != nil {
		return nil, err
	}
	return query, nil
}

// ReplaceCTE swaps the named CTE's query in place.
func ReplaceCTE(query *ast.SimpleSelectQuery, name string, cteQuery ast.SelectQuery, opts transform.CTEOptions) (*ast.SimpleSelectQuery, error) {
	if err := transform.ReplaceCTE(query, name, cteQuery, opts); err != nil {
		return nil, err
	}
	return query, nil
}

// HasCTE reports whether query has a CTE with the given name.
func HasCTE(query *ast.SimpleSelectQuery, name string) bool {
	return transform.HasCTE(query, name)
}

// GetCTENames lists query's CTE names in insertion order.
func GetCTENames(query *ast.SimpleSelectQuery) []string {
	return transform.GetCTENames(query)
}

// BuildJSON transforms a base SELECT into one that projects mapping's
// hierarchical JSON structure.
func BuildJSON(query ast.SelectQuery, mapping transform.JSONMapping) (*ast.SimpleSelectQuery, error) {
	return transform.BuildJSON(query, mapping)
}

// FormatSQL is a one-shot convenience: parse sql as a single statement and
// format it under cfg.
func FormatSQL(sql string, cfg printer.Config) (printer.Result, error) {
	stmt, err := parser.ParseStatement(sql)
	if err != nil {
		return printer.Result{}, fmt.Errorf("parse: %w", err)
	}
	return Format(stmt, cfg), nil
}
