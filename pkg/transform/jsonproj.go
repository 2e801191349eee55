package transform

import (
	"fmt"
	"sort"

	"github.com/sqlkit-go/sqlkit/pkg/ast"
	"github.com/sqlkit-go/sqlkit/pkg/sqlerr"
)

// JSONRelationKind tags how one entity relates to its parent: a single
// nested object, or an aggregated array of objects.
type JSONRelationKind int

const (
	JSONObjectRelation JSONRelationKind = iota
	JSONArrayRelation
)

// JSONColumn maps one base-query output column to a JSON property name.
type JSONColumn struct {
	Column   string
	Property string
}

// JSONEntity is one node of the hierarchical mapping BuildJSON consumes.
// The root entity has an empty Parent. Every other entity names its parent,
// the relationship kind, and the pair of columns (both present in the base
// query's output) used to correlate parent and child rows.
type JSONEntity struct {
	Name   string
	Parent string
	// Property is this entity's key inside its parent's JSON object;
	// defaults to Name when empty.
	Property  string
	Relation  JSONRelationKind
	ParentKey string // column, on the parent side, identifying one parent row
	ChildKey  string // column, on this entity's side, matching ParentKey
	Columns   []JSONColumn
}

// JSONMapping is the full hierarchical mapping passed to BuildJSON.
type JSONMapping struct {
	Entities []JSONEntity
	// ResultFormat is "object" (default, one JSON object per base row) or
	// "array" (the whole result wrapped into a single JSON array row).
	ResultFormat string
	// UseJSONB selects the jsonb_* aggregation family over json_*.
	UseJSONB bool
}

type jsonNode struct {
	entity   JSONEntity
	depth    int
	children []*jsonNode
}

func (n *jsonNode) property() string {
	if n.entity.Property != "" {
		return n.entity.Property
	}
	return n.entity.Name
}

// BuildJSON transforms a base SELECT into one that projects the JSON
// structure mapping describes: it validates the mapping against the base
// query's output columns and the entity tree shape, then emits one CTE per
// non-root entity (deepest first) aggregating or nesting its JSON value,
// joining back up to a final SELECT that projects the root object (or, with
// ResultFormat "array", the whole set aggregated into one array).
func BuildJSON(query ast.SelectQuery, mapping JSONMapping) (*ast.SimpleSelectQuery, error) {
	base := ToSimpleQuery(query)

	nodes, root, err := buildJSONTree(mapping)
	if err != nil {
		return nil, err
	}
	if err := validateJSONColumns(base, mapping); err != nil {
		return nil, err
	}
	if err := validateArrayChildren(nodes); err != nil {
		return nil, err
	}

	const baseCTE = "_json_base"
	with := &ast.WithClause{}
	with.AddTable(&ast.CommonTable{Name: ast.NewIdentifier(baseCTE), Query: base})

	builtJSONCol := make(map[string]string, len(nodes))

	for _, node := range depthDescendingOrder(nodes) {
		if node == root {
			continue
		}
		cteName := "_json_" + node.entity.Name
		jsonCol := node.entity.Name + "_json"
		keyCol := node.entity.Name + "_key"

		objExpr := buildEntityObject(node, builtJSONCol, mapping.UseJSONB)

		fromSrc := entityFromClause(node, baseCTE, builtJSONCol)

		var valueExpr ast.Expression = objExpr
		if node.entity.Relation == JSONArrayRelation {
			valueExpr = &ast.FunctionCall{
				Qualified: ast.NewIdentifier(jsonFuncName(mapping.UseJSONB, "agg")),
				Args:      []ast.Expression{objExpr},
			}
		}

		cte := &ast.SimpleSelectQuery{
			Select: &ast.SelectClause{Items: []*ast.SelectItem{
				{Value: qualifyCol(baseCTE, node.entity.ParentKey), Alias: ast.NewIdentifier(keyCol)},
				{Value: valueExpr, Alias: ast.NewIdentifier(jsonCol)},
			}},
			From: &ast.FromClause{Sources: []*ast.SourceWithJoins{fromSrc}},
		}
		if node.entity.Relation == JSONArrayRelation {
			cte.GroupBy = &ast.GroupByClause{Items: []ast.Expression{qualifyCol(baseCTE, node.entity.ParentKey)}}
		}

		with.AddTable(&ast.CommonTable{Name: ast.NewIdentifier(cteName), Query: cte})
		builtJSONCol[node.entity.Name] = jsonCol
	}

	rootObjExpr := buildEntityObject(root, builtJSONCol, mapping.UseJSONB)
	fromSrc := entityFromClause(root, baseCTE, builtJSONCol)

	finalQuery := &ast.SimpleSelectQuery{
		With: with,
		Select: &ast.SelectClause{Items: []*ast.SelectItem{
			{Value: rootObjExpr, Alias: ast.NewIdentifier("result")},
		}},
		From: &ast.FromClause{Sources: []*ast.SourceWithJoins{fromSrc}},
	}

	if mapping.ResultFormat == "array" {
		finalQuery.Select.Items = []*ast.SelectItem{{
			Value: &ast.FunctionCall{
				Qualified: ast.NewIdentifier(jsonFuncName(mapping.UseJSONB, "agg")),
				Args:      []ast.Expression{rootObjExpr},
			},
			Alias: ast.NewIdentifier("result"),
		}}
	}

	return finalQuery, nil
}

// entityFromClause builds the FROM tree for node's own CTE (or the final
// query when node is root): the base rows, LEFT JOINed to each direct
// child's already-built CTE on its correlating keys.
func entityFromClause(node *jsonNode, baseCTE string, builtJSONCol map[string]string) *ast.SourceWithJoins {
	src := &ast.SourceWithJoins{
		Base: &ast.SourceExpression{Source: &ast.TableSource{Name: ast.NewIdentifier(baseCTE)}},
	}
	for _, child := range node.children {
		childCTE := "_json_" + child.entity.Name
		src.Joins = append(src.Joins, &ast.JoinClause{
			JoinKind:      ast.JoinLeft,
			Source:        &ast.SourceExpression{Source: &ast.TableSource{Name: ast.NewIdentifier(childCTE)}, Alias: ast.NewIdentifier(childCTE)},
			ConditionKind: ast.JoinOn,
			On: &ast.BinaryOp{
				Op:    "=",
				Left:  qualifyCol(baseCTE, child.entity.ChildKey),
				Right: qualifyCol(childCTE, child.entity.Name+"_key"),
			},
		})
	}
	return src
}

// buildEntityObject builds node's json_build_object(...) expression: its own
// mapped columns plus, for each direct child, the child's already-built JSON
// value (array children are COALESCEd to an empty array so a childless
// parent row yields `[]` rather than SQL NULL).
func buildEntityObject(node *jsonNode, builtJSONCol map[string]string, jsonb bool) ast.Expression {
	args := make([]ast.Expression, 0, (len(node.entity.Columns)+len(node.children))*2)
	for _, c := range node.entity.Columns {
		args = append(args, stringLiteral(c.Property), ast.NewIdentifier(c.Column))
	}
	for _, child := range node.children {
		childCTE := "_json_" + child.entity.Name
		jsonCol := builtJSONCol[child.entity.Name]
		var valueExpr ast.Expression = qualifyCol(childCTE, jsonCol)
		if child.entity.Relation == JSONArrayRelation {
			valueExpr = &ast.FunctionCall{
				Qualified: ast.NewIdentifier("COALESCE"),
				Args:      []ast.Expression{qualifyCol(childCTE, jsonCol), emptyArrayLiteral(jsonb)},
			}
		}
		args = append(args, stringLiteral(child.property()), valueExpr)
	}
	return &ast.FunctionCall{
		Qualified: ast.NewIdentifier(jsonFuncName(jsonb, "build_object")),
		Args:      args,
	}
}

func buildJSONTree(mapping JSONMapping) (map[string]*jsonNode, *jsonNode, error) {
	nodes := make(map[string]*jsonNode, len(mapping.Entities))
	for _, e := range mapping.Entities {
		if _, dup := nodes[e.Name]; dup {
			return nil, nil, &sqlerr.MappingValidationError{Message: "duplicate entity name", Entity: e.Name}
		}
		nodes[e.Name] = &jsonNode{entity: e}
	}
	var root *jsonNode
	for _, node := range nodes {
		if node.entity.Parent == "" {
			if root != nil {
				return nil, nil, &sqlerr.MappingValidationError{Message: "more than one root entity", Entity: node.entity.Name}
			}
			root = node
			continue
		}
		parent, ok := nodes[node.entity.Parent]
		if !ok {
			return nil, nil, &sqlerr.MappingValidationError{Message: "missing parent entity", Entity: node.entity.Name}
		}
		parent.children = append(parent.children, node)
	}
	if root == nil {
		return nil, nil, &sqlerr.MappingValidationError{Message: "no root entity: exactly one entity must have an empty Parent"}
	}
	assignDepth(root, 0)
	return nodes, root, nil
}

func assignDepth(node *jsonNode, depth int) {
	node.depth = depth
	sort.Slice(node.children, func(i, j int) bool { return node.children[i].entity.Name < node.children[j].entity.Name })
	for _, c := range node.children {
		assignDepth(c, depth+1)
	}
}

func validateArrayChildren(nodes map[string]*jsonNode) error {
	for _, name := range sortedKeys(nodes) {
		node := nodes[name]
		arrayCount := 0
		for _, c := range node.children {
			if c.entity.Relation == JSONArrayRelation {
				arrayCount++
			}
		}
		if arrayCount > 1 {
			return &sqlerr.MappingValidationError{Message: "entity has more than one direct array child", Entity: node.entity.Name}
		}
	}
	return nil
}

func validateJSONColumns(base *ast.SimpleSelectQuery, mapping JSONMapping) error {
	cols := outputColumnSet(base)
	for _, e := range mapping.Entities {
		for _, c := range e.Columns {
			if !cols[c.Column] {
				return &sqlerr.MappingValidationError{Message: fmt.Sprintf("mapped column %q not found in base query output", c.Column), Entity: e.Name}
			}
		}
		if e.Parent == "" {
			continue
		}
		if !cols[e.ChildKey] {
			return &sqlerr.MappingValidationError{Message: fmt.Sprintf("join column %q not found in base query output", e.ChildKey), Entity: e.Name}
		}
		if !cols[e.ParentKey] {
			return &sqlerr.MappingValidationError{Message: fmt.Sprintf("join column %q not found in base query output", e.ParentKey), Entity: e.Name}
		}
	}
	return nil
}

func outputColumnSet(query *ast.SimpleSelectQuery) map[string]bool {
	out := make(map[string]bool)
	if query.Select == nil {
		return out
	}
	for _, item := range query.Select.Items {
		if item.Alias != nil {
			out[item.Alias.Name.Value] = true
			continue
		}
		if id, ok := item.Value.(*ast.Identifier); ok {
			out[id.Name.Value] = true
		}
	}
	return out
}

func depthDescendingOrder(nodes map[string]*jsonNode) []*jsonNode {
	list := make([]*jsonNode, 0, len(nodes))
	for _, n := range nodes {
		list = append(list, n)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].depth != list[j].depth {
			return list[i].depth > list[j].depth
		}
		return list[i].entity.Name < list[j].entity.Name
	})
	return list
}

func sortedKeys(nodes map[string]*jsonNode) []string {
	keys := make([]string, 0, len(nodes))
	for k := range nodes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func jsonFuncName(jsonb bool, suffix string) string {
	prefix := "json"
	if jsonb {
		prefix = "jsonb"
	}
	if suffix == "" {
		return prefix
	}
	return prefix + "_" + suffix
}

func emptyArrayLiteral(jsonb bool) ast.Expression {
	typeName := "json"
	if jsonb {
		typeName = "jsonb"
	}
	return &ast.Cast{Expr: &ast.Literal{LitKind: ast.LitString, Raw: "[]"}, TargetType: ast.TypeName{Name: typeName}}
}

func stringLiteral(s string) *ast.Literal {
	return &ast.Literal{LitKind: ast.LitString, Raw: s}
}

func qualifyCol(table, col string) *ast.Identifier {
	return &ast.Identifier{Namespaces: []string{table}, Name: ast.NameRef{Value: col}}
}
