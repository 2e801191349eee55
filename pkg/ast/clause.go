package ast

// DistinctMode is SelectClause's DISTINCT marker.
type DistinctMode int

const (
	DistinctNone DistinctMode = iota
	DistinctPlain
	DistinctOn
)

// HintClause is a `/*+ ... */` optimizer hint attached to a SELECT.
type HintClause struct {
	Comments
	Text string
}

func (*HintClause) Kind() string { return "HintClause" }
func (*HintClause) clauseNode()  {}

// SelectItem is one projected expression, with an optional alias.
type SelectItem struct {
	Comments
	Value Expression
	Alias *Identifier
}

func (*SelectItem) Kind() string { return "SelectItem" }
func (*SelectItem) clauseNode()  {}

// SelectClause is the projection list plus DISTINCT mode and hint blocks.
type SelectClause struct {
	Comments
	Items      []*SelectItem
	Distinct   DistinctMode
	DistinctOn []Expression
	Hints      []*HintClause
}

func (*SelectClause) Kind() string { return "SelectClause" }
func (*SelectClause) clauseNode()  {}

// JoinKind enumerates join types.
type JoinKind int

const (
	JoinInner JoinKind = iota
	JoinLeft
	JoinRight
	JoinFull
	JoinCross
)

func (k JoinKind) String() string {
	switch k {
	case JoinLeft:
		return "LEFT"
	case JoinRight:
		return "RIGHT"
	case JoinFull:
		return "FULL"
	case JoinCross:
		return "CROSS"
	default:
		return "INNER"
	}
}

// JoinConditionKind tags how a join is qualified.
type JoinConditionKind int

const (
	JoinOn JoinConditionKind = iota
	JoinUsing
	JoinNatural
)

// TableSource names a physical table (optionally schema-qualified).
type TableSource struct {
	Comments
	Name *Identifier
}

func (*TableSource) Kind() string    { return "TableSource" }
func (*TableSource) sourceBodyNode() {}

// SubQuerySource is a derived table: `(SELECT ...) alias`.
type SubQuerySource struct {
	Comments
	Query SelectQuery
}

func (*SubQuerySource) Kind() string    { return "SubQuerySource" }
func (*SubQuerySource) sourceBodyNode() {}

// ValuesSource is an inline `(VALUES ...)` used as a FROM source.
type ValuesSource struct {
	Comments
	Values *ValuesClause
}

func (*ValuesSource) Kind() string    { return "ValuesSource" }
func (*ValuesSource) sourceBodyNode() {}

// FunctionSource is a set-returning function used as a FROM source.
type FunctionSource struct {
	Comments
	Call *FunctionCall
}

func (*FunctionSource) Kind() string    { return "FunctionSource" }
func (*FunctionSource) sourceBodyNode() {}

// ParenSource is a parenthesized join tree: `(t1 JOIN t2 ON ...)`.
type ParenSource struct {
	Comments
	Inner *SourceWithJoins
}

func (*ParenSource) Kind() string    { return "ParenSource" }
func (*ParenSource) sourceBodyNode() {}

// SourceBody is the non-alias portion of a SourceExpression: exactly one of
// TableSource, ParenSource, SubQuerySource, ValuesSource, FunctionSource.
type SourceBody interface {
	Node
	sourceBodyNode()
}

// SourceExpression is a single FROM/JOIN source with its alias and, for
// derived tables, column aliases.
type SourceExpression struct {
	Comments
	Source        SourceBody
	Alias         *Identifier
	ColumnAliases []*Identifier
	Lateral       bool
}

func (*SourceExpression) Kind() string { return "SourceExpression" }
func (*SourceExpression) clauseNode()  {}

// JoinClause attaches one joined source to the source chain.
type JoinClause struct {
	Comments
	JoinKind      JoinKind
	Lateral       bool
	Source        *SourceExpression
	ConditionKind JoinConditionKind
	On            Expression
	Using         []*Identifier
}

func (*JoinClause) Kind() string { return "JoinClause" }
func (*JoinClause) clauseNode()  {}

// SourceWithJoins is a FROM item: a base source plus its chained joins.
type SourceWithJoins struct {
	Comments
	Base  *SourceExpression
	Joins []*JoinClause
}

func (*SourceWithJoins) Kind() string { return "SourceWithJoins" }
func (*SourceWithJoins) clauseNode()  {}

// FromClause is the full FROM list (comma-joined source trees).
type FromClause struct {
	Comments
	Sources []*SourceWithJoins
}

func (*FromClause) Kind() string { return "FromClause" }
func (*FromClause) clauseNode()  {}

// WhereClause wraps the filter predicate for SELECT/UPDATE/DELETE.
type WhereClause struct {
	Comments
	Predicate Expression
}

func (*WhereClause) Kind() string { return "WhereClause" }
func (*WhereClause) clauseNode()  {}

// GroupByClause is the GROUP BY expression list.
type GroupByClause struct {
	Comments
	Items []Expression
}

func (*GroupByClause) Kind() string { return "GroupByClause" }
func (*GroupByClause) clauseNode()  {}

// HavingClause wraps the post-aggregation filter predicate.
type HavingClause struct {
	Comments
	Predicate Expression
}

func (*HavingClause) Kind() string { return "HavingClause" }
func (*HavingClause) clauseNode()  {}

// OrderDirection is ASC/DESC/unspecified.
type OrderDirection int

const (
	OrderNone OrderDirection = iota
	OrderAsc
	OrderDesc
)

// NullsOrder is NULLS FIRST/LAST/unspecified.
type NullsOrder int

const (
	NullsUnspecified NullsOrder = iota
	NullsFirst
	NullsLast
)

// OrderByItem is one sort key.
type OrderByItem struct {
	Comments
	Expr      Expression
	Direction OrderDirection
	Nulls     NullsOrder
}

func (*OrderByItem) Kind() string { return "OrderByItem" }
func (*OrderByItem) clauseNode()  {}

// OrderByClause is the full ORDER BY list; also reused for WITHIN GROUP and
// in-argument aggregate ordering.
type OrderByClause struct {
	Comments
	Items []*OrderByItem
}

func (*OrderByClause) Kind() string { return "OrderByClause" }
func (*OrderByClause) clauseNode()  {}

// LimitClause wraps the LIMIT value expression.
type LimitClause struct {
	Comments
	Value Expression
}

func (*LimitClause) Kind() string { return "LimitClause" }
func (*LimitClause) clauseNode()  {}

// OffsetClause wraps the OFFSET value expression.
type OffsetClause struct {
	Comments
	Value Expression
}

func (*OffsetClause) Kind() string { return "OffsetClause" }
func (*OffsetClause) clauseNode()  {}

// ForMode is the locking strength of a FOR clause.
type ForMode int

const (
	ForUpdate ForMode = iota
	ForShare
	ForNoKeyUpdate
	ForKeyShare
)

// ForWait is the wait policy of a FOR clause.
type ForWait int

const (
	WaitDefault ForWait = iota
	WaitNoWait
	WaitSkipLocked
)

// ForClause is `FOR UPDATE|SHARE [OF ...] [NOWAIT|SKIP LOCKED]`.
type ForClause struct {
	Comments
	Mode ForMode
	Of   []*Identifier
	Wait ForWait
}

func (*ForClause) Kind() string { return "ForClause" }
func (*ForClause) clauseNode()  {}

// MaterializedHint is a CTE's MATERIALIZED/NOT MATERIALIZED/unspecified hint.
type MaterializedHint int

const (
	MaterializedUnspecified MaterializedHint = iota
	Materialized
	NotMaterialized
)

// CommonTable is one WITH-clause entry.
type CommonTable struct {
	Comments
	Name          *Identifier
	ColumnAliases []*Identifier
	Materialized  MaterializedHint
	Query         SelectQuery
}

func (*CommonTable) Kind() string { return "CommonTable" }
func (*CommonTable) clauseNode()  {}

// WithClause is the full WITH [RECURSIVE] CTE list.
type WithClause struct {
	Comments
	Recursive bool
	Tables    []*CommonTable
	names     map[string]bool // tracked for O(1) hasCTE; built lazily by ensureIndex and kept current by the methods below
}

func (*WithClause) Kind() string { return "WithClause" }
func (*WithClause) clauseNode()  {}

// ensureIndex lazily builds the name index from Tables, so WithClauses built
// directly by the parser (which never touches the unexported names field)
// still get O(1) HasTable after their first call.
func (w *WithClause) ensureIndex() {
	if w.names != nil {
		return
	}
	w.names = make(map[string]bool, len(w.Tables))
	for _, t := range w.Tables {
		w.names[t.Name.Name.Value] = true
	}
}

// HasTable reports whether name is already a CTE in this WITH clause.
func (w *WithClause) HasTable(name string) bool {
	w.ensureIndex()
	return w.names[name]
}

// AddTable appends a new CTE entry, maintaining the name index.
func (w *WithClause) AddTable(cte *CommonTable) {
	w.ensureIndex()
	w.Tables = append(w.Tables, cte)
	w.names[cte.Name.Name.Value] = true
}

// RemoveTable removes the named CTE and reports whether it existed.
func (w *WithClause) RemoveTable(name string) bool {
	w.ensureIndex()
	for i, t := range w.Tables {
		if t.Name.Name.Value == name {
			w.Tables = append(w.Tables[:i], w.Tables[i+1:]...)
			delete(w.names, name)
			return true
		}
	}
	return false
}

// ReplaceTable swaps the named CTE's query and materialization hint in
// place, preserving its position, and reports whether it existed.
func (w *WithClause) ReplaceTable(name string, query SelectQuery, materialized MaterializedHint) bool {
	w.ensureIndex()
	for _, t := range w.Tables {
		if t.Name.Name.Value == name {
			t.Query = query
			t.Materialized = materialized
			return true
		}
	}
	return false
}

// TableNames returns CTE names in insertion order.
func (w *WithClause) TableNames() []string {
	out := make([]string, len(w.Tables))
	for i, t := range w.Tables {
		out[i] = t.Name.Name.Value
	}
	return out
}

// ReturningClause is the RETURNING projection of INSERT/UPDATE/DELETE.
type ReturningClause struct {
	Comments
	Items []*SelectItem
}

func (*ReturningClause) Kind() string { return "ReturningClause" }
func (*ReturningClause) clauseNode()  {}

// SetItem is one `column = value` pair of an UPDATE SET clause.
type SetItem struct {
	Comments
	Column *Identifier
	Value  Expression
}

func (*SetItem) Kind() string { return "SetItem" }
func (*SetItem) clauseNode()  {}

// SetClause is the full UPDATE SET list.
type SetClause struct {
	Comments
	Items []*SetItem
}

func (*SetClause) Kind() string { return "SetClause" }
func (*SetClause) clauseNode()  {}

// UsingClause is DELETE's USING source list.
type UsingClause struct {
	Comments
	Sources []*SourceExpression
}

func (*UsingClause) Kind() string { return "UsingClause" }
func (*UsingClause) clauseNode()  {}

// NamedWindow is one entry of a WINDOW clause: `name AS (spec)`.
type NamedWindow struct {
	Comments
	Name *Identifier
	Spec *WindowSpec
}

func (*NamedWindow) Kind() string { return "NamedWindow" }
func (*NamedWindow) clauseNode()  {}

// WindowClause is the full WINDOW clause of a SELECT.
type WindowClause struct {
	Comments
	Windows []*NamedWindow
}

func (*WindowClause) Kind() string { return "WindowClause" }
func (*WindowClause) clauseNode()  {}

// ValuesClause is a `VALUES (...), (...), ...` tuple list.
type ValuesClause struct {
	Comments
	Tuples []*Tuple
}

func (*ValuesClause) Kind() string { return "ValuesClause" }
func (*ValuesClause) clauseNode()  {}
