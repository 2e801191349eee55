package transform

import (
	"fmt"
	"reflect"

	"github.com/sqlkit-go/sqlkit/pkg/ast"
	"github.com/sqlkit-go/sqlkit/pkg/sqlerr"
)

// Op is one operator/value pair inside a Condition, evaluated in
// declaration order so repeated operators against the same key compose
// into a deterministic parenthesized AND group.
type Op struct {
	// Name is one of: "=", "!=", "<>", "<", ">", "<=", ">=", "min", "max",
	// "like", "ilike", "in", "any".
	Name  string
	Value any
}

// Condition is the structured (non-scalar) form a State entry's value may
// take. Column overrides the logical key when it maps to a differently
// named physical column.
type Condition struct {
	Column string
	Ops    []Op
}

// conditionColumnOverride reports a Condition's physical column override,
// used by InjectParams before the upstream search so resolution matches the
// physical name rather than the logical key.
func conditionColumnOverride(value any) string {
	if c, ok := value.(Condition); ok {
		return c.Column
	}
	return ""
}

// buildCondition builds the WHERE predicate for one non-group state entry.
func buildCondition(key string, colExpr ast.Expression, value any, bindings *ast.ParamBindings, opts InjectOptions) (ast.Expression, error) {
	return buildLeafPredicate(key, colExpr, value, bindings)
}

// buildGroup builds a parenthesized OR/AND group spanning arbitrary columns.
// value must be a State listing one entry per column; group members are not
// upstream-searched — the whole group lands on the top query's own WHERE.
func buildGroup(kind string, value any, bindings *ast.ParamBindings, opts InjectOptions) (ast.Expression, error) {
	items, ok := value.(State)
	if !ok {
		return nil, fmt.Errorf("%q group requires a State value", kind)
	}
	preds := make([]ast.Expression, 0, len(items))
	for i, item := range items {
		if _, isUndef := item.Value.(Undefined); isUndef {
			continue
		}
		bindingKey := fmt.Sprintf("%s_%s_%d", item.Key, kind, i)
		col := columnWithName(nil, item.Key)
		pred, err := buildLeafPredicate(bindingKey, col, item.Value, bindings)
		if err != nil {
			return nil, err
		}
		preds = append(preds, pred)
	}
	if len(preds) == 0 {
		return nil, fmt.Errorf("%q group has no defined conditions", kind)
	}
	if len(preds) == 1 {
		return &ast.Paren{Inner: preds[0]}, nil
	}
	op := "AND"
	if kind == "or" {
		op = "OR"
	}
	chain := preds[0]
	for _, p := range preds[1:] {
		chain = &ast.BinaryOp{Op: op, Left: chain, Right: p}
	}
	return &ast.Paren{Inner: chain}, nil
}

func buildLeafPredicate(bindingKey string, colExpr ast.Expression, value any, bindings *ast.ParamBindings) (ast.Expression, error) {
	switch v := value.(type) {
	case Condition:
		return buildConditionOps(bindingKey, colExpr, v, bindings)
	case State:
		return nil, fmt.Errorf("state value not valid as a leaf condition for %q", bindingKey)
	default:
		bindings.Set(bindingKey, v)
		return &ast.BinaryOp{Op: "=", Left: colExpr, Right: paramRef(bindingKey)}, nil
	}
}

func buildConditionOps(bindingKey string, colExpr ast.Expression, cond Condition, bindings *ast.ParamBindings) (ast.Expression, error) {
	if len(cond.Ops) == 0 {
		return nil, fmt.Errorf("condition for %q has no operators", bindingKey)
	}
	col := colExpr
	if cond.Column != "" {
		col = columnWithName(colExpr, cond.Column)
	}
	preds := make([]ast.Expression, 0, len(cond.Ops))
	for _, op := range cond.Ops {
		pred, err := buildOp(bindingKey, col, op, bindings)
		if err != nil {
			return nil, err
		}
		preds = append(preds, pred)
	}
	if len(preds) == 1 {
		return preds[0], nil
	}
	chain := preds[0]
	for _, p := range preds[1:] {
		chain = &ast.BinaryOp{Op: "AND", Left: chain, Right: p}
	}
	return &ast.Paren{Inner: chain}, nil
}

func buildOp(bindingKey string, col ast.Expression, op Op, bindings *ast.ParamBindings) (ast.Expression, error) {
	switch op.Name {
	case "=", "eq":
		return simpleCompare(bindingKey, "eq", "=", col, op.Value, bindings), nil
	case "!=", "<>", "neq":
		return simpleCompare(bindingKey, "neq", "!=", col, op.Value, bindings), nil
	case "<", "lt":
		return simpleCompare(bindingKey, "lt", "<", col, op.Value, bindings), nil
	case ">", "gt":
		return simpleCompare(bindingKey, "gt", ">", col, op.Value, bindings), nil
	case "<=", "lte":
		return simpleCompare(bindingKey, "lte", "<=", col, op.Value, bindings), nil
	case ">=", "gte":
		return simpleCompare(bindingKey, "gte", ">=", col, op.Value, bindings), nil
	case "min":
		return simpleCompare(bindingKey, "min", ">=", col, op.Value, bindings), nil
	case "max":
		return simpleCompare(bindingKey, "max", "<=", col, op.Value, bindings), nil
	case "like":
		return likePredicate(bindingKey, "like", false, col, op.Value, bindings), nil
	case "ilike":
		return likePredicate(bindingKey, "ilike", true, col, op.Value, bindings), nil
	case "in":
		return inPredicate(bindingKey, col, op.Value, bindings)
	case "any":
		return anyPredicate(bindingKey, col, op.Value, bindings), nil
	default:
		return nil, &sqlerr.UnsupportedOperatorError{Op: op.Name, Key: bindingKey}
	}
}

func simpleCompare(bindingKey, suffix, sqlOp string, col ast.Expression, value any, bindings *ast.ParamBindings) ast.Expression {
	name := bindingKey + "_" + suffix
	bindings.Set(name, value)
	return &ast.BinaryOp{Op: sqlOp, Left: col, Right: paramRef(name)}
}

func likePredicate(bindingKey, suffix string, caseFold bool, col ast.Expression, value any, bindings *ast.ParamBindings) ast.Expression {
	name := bindingKey + "_" + suffix
	bindings.Set(name, value)
	return &ast.Like{Target: col, Pattern: paramRef(name), CaseFold: caseFold}
}

func inPredicate(bindingKey string, col ast.Expression, value any, bindings *ast.ParamBindings) (ast.Expression, error) {
	values, ok := toSlice(value)
	if !ok {
		return nil, fmt.Errorf("in operator for %q requires a slice value", bindingKey)
	}
	items := make([]ast.Expression, len(values))
	for i, v := range values {
		name := fmt.Sprintf("%s_in_%d", bindingKey, i)
		bindings.Set(name, v)
		items[i] = paramRef(name)
	}
	return &ast.InList{Target: col, List: &ast.ValueList{Items: items}}, nil
}

func anyPredicate(bindingKey string, col ast.Expression, value any, bindings *ast.ParamBindings) ast.Expression {
	name := bindingKey + "_any"
	bindings.Set(name, value)
	return &ast.BinaryOp{
		Op:   "=",
		Left: col,
		Right: &ast.FunctionCall{
			Qualified: ast.NewIdentifier("ANY"),
			Args:      []ast.Expression{paramRef(name)},
		},
	}
}

func paramRef(name string) *ast.ParameterRef {
	n := name
	return &ast.ParameterRef{Name: &n}
}

func columnWithName(base ast.Expression, name string) ast.Expression {
	if id, ok := base.(*ast.Identifier); ok {
		return &ast.Identifier{Namespaces: id.Namespaces, Name: ast.NameRef{Value: name}}
	}
	return ast.NewIdentifier(name)
}

func toSlice(value any) ([]any, bool) {
	if v, ok := value.([]any); ok {
		return v, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
