package ast

// Node is the capability shared by every AST node: a diagnostic kind tag and
// positioned-comment storage.
type Node interface {
	Kind() string
}

// Expression is any value-producing AST node: identifiers, literals,
// operators, function calls, subqueries, and so on.
type Expression interface {
	Node
	expressionNode()
}

// Clause is a named syntactic piece of a statement: SELECT list, FROM, WHERE,
// GROUP BY, WITH, and so on. Clauses are not independently valid SQL.
type Clause interface {
	Node
	clauseNode()
}

// Statement is a complete, independently parseable SQL statement.
type Statement interface {
	Node
	statementNode()
	// Params returns the statement's parameter binding table, populated by
	// SetParameter and consumed by the printer.
	Params() *ParamBindings
}
