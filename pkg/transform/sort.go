package transform

import (
	"fmt"

	"github.com/sqlkit-go/sqlkit/pkg/ast"
)

// SortOption is one column's requested direction and null placement.
type SortOption struct {
	Asc        bool
	Desc       bool
	NullsFirst bool
	NullsLast  bool
}

// SortSpec pairs a column or select-item alias with its SortOption. A slice
// (rather than a map) carries the caller's declared order, since appended
// ORDER BY items must preserve that order.
type SortSpec struct {
	ColumnOrAlias string
	Options       SortOption
}

// InjectSort appends to query's existing ORDER BY. Binary/Values queries are
// refused by the caller's choice of argument type (*ast.SimpleSelectQuery).
func InjectSort(query *ast.SimpleSelectQuery, specs []SortSpec) error {
	items := make([]*ast.OrderByItem, 0, len(specs))
	for _, spec := range specs {
		if err := validateSortOption(spec.Options); err != nil {
			return fmt.Errorf("sort column %q: %w", spec.ColumnOrAlias, err)
		}
		items = append(items, &ast.OrderByItem{
			Expr:      resolveSortColumn(query, spec.ColumnOrAlias),
			Direction: sortDirection(spec.Options),
			Nulls:     sortNulls(spec.Options),
		})
	}
	if len(items) == 0 {
		return nil
	}
	if query.OrderBy == nil {
		query.OrderBy = &ast.OrderByClause{}
	}
	query.OrderBy.Items = append(query.OrderBy.Items, items...)
	return nil
}

// RemoveOrderBy returns a copy of query's ORDER BY items removed; it does not
// mutate the argument, unlike every other transformer in this package.
func RemoveOrderBy(query *ast.SimpleSelectQuery) *ast.SimpleSelectQuery {
	clone := *query
	clone.OrderBy = nil
	return &clone
}

func validateSortOption(o SortOption) error {
	if o.Asc && o.Desc {
		return fmt.Errorf("both asc and desc requested")
	}
	if o.NullsFirst && o.NullsLast {
		return fmt.Errorf("both nullsFirst and nullsLast requested")
	}
	if !o.Asc && !o.Desc && !o.NullsFirst && !o.NullsLast {
		return fmt.Errorf("empty sort options")
	}
	return nil
}

func sortDirection(o SortOption) ast.OrderDirection {
	switch {
	case o.Asc:
		return ast.OrderAsc
	case o.Desc:
		return ast.OrderDesc
	default:
		return ast.OrderNone
	}
}

func sortNulls(o SortOption) ast.NullsOrder {
	switch {
	case o.NullsFirst:
		return ast.NullsFirst
	case o.NullsLast:
		return ast.NullsLast
	default:
		return ast.NullsUnspecified
	}
}

// resolveSortColumn builds the ORDER BY reference as a bare identifier for
// name, which the database resolves as either a select-item alias or a
// physical column. No lookup is made against the query's select items or
// tables, so an unknown name is not reported.
func resolveSortColumn(query *ast.SimpleSelectQuery, name string) ast.Expression {
	return ast.NewIdentifier(name)
}
