package transform

import (
	"strings"

	"github.com/sqlkit-go/sqlkit/pkg/ast"
	"github.com/sqlkit-go/sqlkit/pkg/sqlerr"
)

// CTEOptions bundles addCTE/replaceCTE's optional materialization hint.
// Materialized is nil for "leave unchanged".
type CTEOptions struct {
	Materialized *bool
}

func materializedHint(opts CTEOptions) ast.MaterializedHint {
	if opts.Materialized == nil {
		return ast.MaterializedUnspecified
	}
	if *opts.Materialized {
		return ast.Materialized
	}
	return ast.NotMaterialized
}

// AddCTE appends a new CTE to query's WITH clause, creating the clause if
// needed.
func AddCTE(query *ast.SimpleSelectQuery, name string, cteQuery ast.SelectQuery, opts CTEOptions) error {
	if strings.TrimSpace(name) == "" {
		return &sqlerr.InvalidCTENameError{Name: name}
	}
	if query.With == nil {
		query.With = &ast.WithClause{}
	}
	if query.With.HasTable(name) {
		return &sqlerr.DuplicateCTEError{Name: name}
	}
	query.With.AddTable(&ast.CommonTable{
		Name:         ast.NewIdentifier(name),
		Materialized: materializedHint(opts),
		Query:        cteQuery,
	})
	return nil
}

// RemoveCTE drops the named CTE.
func RemoveCTE(query *ast.SimpleSelectQuery, name string) error {
	if query.With == nil || !query.With.RemoveTable(name) {
		return &sqlerr.CTENotFoundError{Name: name}
	}
	if len(query.With.Tables) == 0 {
		query.With = nil
	}
	return nil
}

// ReplaceCTE swaps the named CTE's query in place, preserving its position.
func ReplaceCTE(query *ast.SimpleSelectQuery, name string, cteQuery ast.SelectQuery, opts CTEOptions) error {
	if query.With == nil || !query.With.ReplaceTable(name, cteQuery, materializedHint(opts)) {
		return &sqlerr.CTENotFoundError{Name: name}
	}
	return nil
}

// HasCTE reports whether query has a CTE with the given name.
func HasCTE(query *ast.SimpleSelectQuery, name string) bool {
	if query.With == nil {
		return false
	}
	return query.With.HasTable(name)
}

// GetCTENames lists query's CTE names in insertion order.
func GetCTENames(query *ast.SimpleSelectQuery) []string {
	if query.With == nil {
		return nil
	}
	return query.With.TableNames()
}

// ToSimpleQuery wraps a binary set-operation or bare VALUES query in a
// SimpleSelectQuery (`SELECT * FROM (<query>) _wrapped`) so the CTE API
// becomes usable on it uniformly.
func ToSimpleQuery(query ast.SelectQuery) *ast.SimpleSelectQuery {
	if simple, ok := query.(*ast.SimpleSelectQuery); ok {
		return simple
	}
	alias := ast.NewIdentifier("_wrapped")
	return &ast.SimpleSelectQuery{
		Select: &ast.SelectClause{
			Items: []*ast.SelectItem{{Value: &ast.Wildcard{}}},
		},
		From: &ast.FromClause{
			Sources: []*ast.SourceWithJoins{{
				Base: &ast.SourceExpression{
					Source: &ast.SubQuerySource{Query: query},
					Alias:  alias,
				},
			}},
		},
	}
}
