package transform

import (
	"fmt"
	"strings"

	"github.com/sqlkit-go/sqlkit/pkg/ast"
	"github.com/sqlkit-go/sqlkit/pkg/sqlerr"
)

// Undefined is the sentinel state value meaning "no condition for this key".
// It is distinct from nil, which produces a real `col = :name` equality
// bound to a NULL parameter value.
type Undefined struct{}

// Entry is one state mapping from a logical key to a value, a condition
// map, or Undefined{}. A slice (rather than a plain map) carries the
// caller's declared order, since same-scope predicates are ANDed together
// in that order and output must be deterministic.
type Entry struct {
	Key   string
	Value any
}

// State is the ordered condition mapping ParamInjector consumes.
type State []Entry

// InjectOptions controls ParamInjector's safety rule and name matching.
type InjectOptions struct {
	// AllowAllUndefined permits injection when every state value is
	// Undefined{}; by default that fails with AllUndefinedError.
	AllowAllUndefined bool
	// IgnoreCaseAndUnderscore collapses both the state key and candidate
	// column names to lowercase alphanumerics before comparing.
	IgnoreCaseAndUnderscore bool
}

// injection is one planned WHERE predicate: the scope it attaches to and the
// parameter bindings it introduces. Planning and committing are separate
// phases so a failing entry leaves the caller's AST and bindings untouched.
type injection struct {
	scope *ast.SimpleSelectQuery
	pred  ast.Expression
	binds *ast.ParamBindings
}

// InjectParams adds WHERE predicates for every defined state entry,
// searching upstream (root FROM sources, then inline subqueries, then CTEs)
// for the scope each key's column belongs to. All parameter bindings land on
// query's own binding table, since that is the statement the printer will be
// handed.
func InjectParams(query ast.SelectQuery, state State, resolver TableColumnResolver, opts InjectOptions) error {
	if err := checkAllUndefined(state, opts); err != nil {
		return err
	}
	plan, err := planInjections(query, state, resolver, opts)
	if err != nil {
		return err
	}
	root := query.Params()
	for _, inj := range plan {
		for _, name := range inj.binds.Names() {
			v, _ := inj.binds.Get(name)
			root.Set(name, v)
		}
		appendPredicate(inj.scope, inj.pred)
	}
	return nil
}

func planInjections(query ast.SelectQuery, state State, resolver TableColumnResolver, opts InjectOptions) ([]injection, error) {
	switch q := query.(type) {
	case *ast.SimpleSelectQuery:
		return planSimple(q, state, resolver, opts)
	case *ast.BinarySelectQuery:
		left, err := planInjections(q.Left, state, resolver, opts)
		if err != nil {
			return nil, err
		}
		right, err := planInjections(q.Right, state, resolver, opts)
		if err != nil {
			return nil, err
		}
		return append(left, right...), nil
	case *ast.ValuesQuery:
		return planCTEsOnly(q.With, state, opts)
	}
	return nil, fmt.Errorf("unsupported query type for parameter injection")
}

func checkAllUndefined(state State, opts InjectOptions) error {
	if opts.AllowAllUndefined || len(state) == 0 {
		return nil
	}
	for _, e := range state {
		if _, ok := e.Value.(Undefined); !ok {
			return nil
		}
	}
	return &sqlerr.AllUndefinedError{}
}

func planSimple(query *ast.SimpleSelectQuery, state State, resolver TableColumnResolver, opts InjectOptions) ([]injection, error) {
	var plan []injection
	for _, e := range state {
		if _, ok := e.Value.(Undefined); ok {
			continue
		}
		binds := &ast.ParamBindings{}
		if e.Key == "or" || e.Key == "and" {
			pred, err := buildGroup(e.Key, e.Value, binds, opts)
			if err != nil {
				return nil, err
			}
			plan = append(plan, injection{scope: query, pred: pred, binds: binds})
			continue
		}
		searchKey := e.Key
		if override := conditionColumnOverride(e.Value); override != "" {
			searchKey = override
		}
		scope, colExpr, err := resolveScope(query, resolver, searchKey, opts)
		if err != nil {
			return nil, err
		}
		pred, err := buildCondition(e.Key, colExpr, e.Value, binds, opts)
		if err != nil {
			return nil, err
		}
		plan = append(plan, injection{scope: scope, pred: pred, binds: binds})
	}
	return plan, nil
}

// planCTEsOnly handles the ValuesQuery case: there is no FROM to search,
// only the CTEs visible to it.
func planCTEsOnly(with *ast.WithClause, state State, opts InjectOptions) ([]injection, error) {
	var plan []injection
	for _, e := range state {
		if _, ok := e.Value.(Undefined); ok {
			continue
		}
		if with == nil {
			return nil, &sqlerr.ColumnNotFoundError{Name: e.Key}
		}
		cte, colExpr, ok := findInCTEs(with, e.Key, opts)
		if !ok {
			return nil, &sqlerr.ColumnNotFoundError{Name: e.Key}
		}
		binds := &ast.ParamBindings{}
		pred, err := buildCondition(e.Key, colExpr, e.Value, binds, opts)
		if err != nil {
			return nil, err
		}
		plan = append(plan, injection{scope: cte, pred: pred, binds: binds})
	}
	return plan, nil
}

func appendPredicate(owner *ast.SimpleSelectQuery, pred ast.Expression) {
	if owner.Where == nil {
		owner.Where = &ast.WhereClause{Predicate: pred}
		return
	}
	owner.Where.Predicate = &ast.BinaryOp{Op: "AND", Left: owner.Where.Predicate, Right: pred}
}

func normalizeName(name string, ignoreCaseAndUnderscore bool) string {
	if !ignoreCaseAndUnderscore {
		return name
	}
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r == '_' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// resolveScope implements the upstream search rule: the query's own FROM
// sources (physical tables via resolver), then its inline subqueries' own
// output columns (recursing into them), then the CTEs reachable from its
// WITH clause. The match closest to the data wins, so the predicate filters
// rows before they flow into enclosing queries.
func resolveScope(query *ast.SimpleSelectQuery, resolver TableColumnResolver, key string, opts InjectOptions) (*ast.SimpleSelectQuery, ast.Expression, error) {
	if query.From != nil {
		for _, swj := range query.From.Sources {
			if swj.Base == nil {
				continue
			}
			if table, ok := swj.Base.Source.(*ast.TableSource); ok && resolver != nil {
				cols := resolver(table.Name.Name.Value)
				for _, col := range cols {
					if normalizeName(col, opts.IgnoreCaseAndUnderscore) == normalizeName(key, opts.IgnoreCaseAndUnderscore) {
						qualifier := table.Name.Name.Value
						if swj.Base.Alias != nil {
							qualifier = swj.Base.Alias.Name.Value
						}
						return query, qualifiedIdentifier(qualifier, col), nil
					}
				}
			}
		}
		for _, swj := range query.From.Sources {
			if swj.Base == nil {
				continue
			}
			if sub, ok := swj.Base.Source.(*ast.SubQuerySource); ok {
				if simple, ok := sub.Query.(*ast.SimpleSelectQuery); ok {
					if _, expr, ok := matchSelectItems(simple, key, opts); ok {
						return simple, expr, nil
					}
					if scope, expr, err := resolveScope(simple, resolver, key, opts); err == nil {
						return scope, expr, nil
					}
				}
			}
		}
	}
	if query.With != nil {
		if cte, expr, ok := findInCTEs(query.With, key, opts); ok {
			return cte, expr, nil
		}
	}
	return nil, nil, &sqlerr.ColumnNotFoundError{Name: key}
}

func findInCTEs(with *ast.WithClause, key string, opts InjectOptions) (*ast.SimpleSelectQuery, ast.Expression, bool) {
	for _, cte := range with.Tables {
		simple, ok := cte.Query.(*ast.SimpleSelectQuery)
		if !ok {
			continue
		}
		if _, expr, ok := matchSelectItems(simple, key, opts); ok {
			return simple, expr, true
		}
	}
	return nil, nil, false
}

// matchSelectItems looks for a select-item whose alias (or, lacking one,
// bare identifier name) matches key, and returns the column reference
// usable inside that query's own WHERE: the underlying identifier when the
// item projects one directly, otherwise the alias itself.
func matchSelectItems(query *ast.SimpleSelectQuery, key string, opts InjectOptions) (string, ast.Expression, bool) {
	if query.Select == nil {
		return "", nil, false
	}
	want := normalizeName(key, opts.IgnoreCaseAndUnderscore)
	for _, item := range query.Select.Items {
		name := ""
		if item.Alias != nil {
			name = item.Alias.Name.Value
		} else if id, ok := item.Value.(*ast.Identifier); ok {
			name = id.Name.Value
		}
		if name == "" || normalizeName(name, opts.IgnoreCaseAndUnderscore) != want {
			continue
		}
		if id, ok := item.Value.(*ast.Identifier); ok {
			return name, &ast.Identifier{Namespaces: id.Namespaces, Name: id.Name}, true
		}
		return name, ast.NewIdentifier(name), true
	}
	return "", nil, false
}

func qualifiedIdentifier(qualifier, column string) *ast.Identifier {
	id := ast.NewIdentifier(column)
	if qualifier != "" {
		id.Namespaces = []string{qualifier}
	}
	return id
}
