package ast

// NameRef is a single identifier segment with its quoting state preserved so
// the printer can decide whether to re-escape it.
type NameRef struct {
	Value  string
	Quoted bool
}

// Identifier is a (possibly qualified) name reference: schema.table.column,
// a bare column, a function name, and so on.
type Identifier struct {
	Comments
	Namespaces []string
	Name       NameRef
}

func (*Identifier) Kind() string    { return "Identifier" }
func (*Identifier) expressionNode() {}

// NewIdentifier builds an unqualified, unquoted identifier.
func NewIdentifier(name string) *Identifier {
	return &Identifier{Name: NameRef{Value: name}}
}

// Wildcard is `*` or `table.*`.
type Wildcard struct {
	Comments
	Qualifier string
}

func (*Wildcard) Kind() string    { return "Wildcard" }
func (*Wildcard) expressionNode() {}

// LiteralKind classifies a Literal's value domain.
type LiteralKind int

const (
	LitString LiteralKind = iota
	LitNumber
	LitBoolean
	LitNull
)

// Literal is a scalar constant. Raw preserves the original source text
// (unescaped storage form for strings) so the printer can re-render it
// verbatim or re-quote it.
type Literal struct {
	Comments
	LitKind LiteralKind
	Raw     string
	Prefix  string // "E" or a dollar-quote tag like "$tag$"; "" otherwise
}

func (*Literal) Kind() string    { return "Literal" }
func (*Literal) expressionNode() {}

// ParameterRef is a normalized parameter placeholder. At most one of Name or
// Index is set: Name for :name/@name forms, Index for positional $N forms;
// both are nil for an anonymous `?`.
type ParameterRef struct {
	Comments
	Name  *string
	Index *int
}

func (*ParameterRef) Kind() string    { return "ParameterRef" }
func (*ParameterRef) expressionNode() {}

// BinaryOp is any infix operator expression: arithmetic, comparison, AND/OR,
// string concatenation, IS [NOT] DISTINCT FROM, etc.
type BinaryOp struct {
	Comments
	Op    string
	Left  Expression
	Right Expression
}

func (*BinaryOp) Kind() string    { return "BinaryOp" }
func (*BinaryOp) expressionNode() {}

// UnaryOp is a prefix (NOT, -, +) or postfix operator expression.
type UnaryOp struct {
	Comments
	Op      string
	Operand Expression
	Prefix  bool
}

func (*UnaryOp) Kind() string    { return "UnaryOp" }
func (*UnaryOp) expressionNode() {}

// WindowFrameUnit is ROWS, RANGE, or GROUPS.
type WindowFrameUnit int

const (
	FrameNone WindowFrameUnit = iota
	FrameRows
	FrameRange
	FrameGroups
)

// FrameBoundKind classifies one edge of a window frame.
type FrameBoundKind int

const (
	BoundUnboundedPreceding FrameBoundKind = iota
	BoundUnboundedFollowing
	BoundCurrentRow
	BoundPreceding // Offset holds the expression
	BoundFollowing
)

// FrameBound is one edge (start or end) of a window frame clause.
type FrameBound struct {
	BoundKind FrameBoundKind
	Offset    Expression
}

// WindowFrame is the ROWS|RANGE|GROUPS frame_clause of a window spec.
type WindowFrame struct {
	Unit  WindowFrameUnit
	Start FrameBound
	End   *FrameBound // nil when the frame has only a start bound (BETWEEN omitted)
}

// WindowSpec is an inline `(PARTITION BY ... ORDER BY ... frame)` window
// definition, usable both in OVER(...) and in a WINDOW clause entry.
type WindowSpec struct {
	Comments
	BaseName    string // optional named window this spec extends, "" if none
	PartitionBy []Expression
	OrderBy     *OrderByClause
	Frame       *WindowFrame
}

func (*WindowSpec) Kind() string { return "WindowSpec" }

// FunctionCall is `name(args) [WITHIN GROUP (...)] [FILTER (...)] [OVER ...]`.
// Args is nil for `f(*)` (use Star=true) and empty-non-nil for `f()`.
type FunctionCall struct {
	Comments
	Qualified      *Identifier
	Star           bool
	Distinct       bool
	Args           []Expression
	OrderBy        *OrderByClause // in-argument ORDER BY, e.g. string_agg(x, ',' ORDER BY y)
	WithinGroup    *OrderByClause
	Filter         Expression
	OverSpec       *WindowSpec
	OverName       string // named window reference; mutually exclusive with OverSpec
	WithOrdinality bool
}

func (*FunctionCall) Kind() string    { return "FunctionCall" }
func (*FunctionCall) expressionNode() {}

// CaseBranch is one WHEN/THEN pair of a Case expression.
type CaseBranch struct {
	When Expression
	Then Expression
}

// Case is both the simple (`CASE x WHEN ...`) and searched (`CASE WHEN ...`)
// forms; Discriminant is nil for the searched form.
type Case struct {
	Comments
	Discriminant Expression
	Branches     []CaseBranch
	Else         Expression
}

func (*Case) Kind() string    { return "Case" }
func (*Case) expressionNode() {}

// Between is `target [NOT] BETWEEN low AND high`.
type Between struct {
	Comments
	Target  Expression
	Low     Expression
	High    Expression
	Negated bool
}

func (*Between) Kind() string    { return "Between" }
func (*Between) expressionNode() {}

// InList is `target [NOT] IN (list-or-subquery)`.
type InList struct {
	Comments
	Target  Expression
	List    Expression // *ValueList or *SubQuery
	Negated bool
}

func (*InList) Kind() string    { return "InList" }
func (*InList) expressionNode() {}

// Like is `target [NOT] LIKE|ILIKE pattern [ESCAPE esc]`.
type Like struct {
	Comments
	Target   Expression
	Pattern  Expression
	Escape   Expression
	Negated  bool
	CaseFold bool // true for ILIKE
}

func (*Like) Kind() string    { return "Like" }
func (*Like) expressionNode() {}

// IsCheck is `expr IS [NOT] NULL|TRUE|FALSE|UNKNOWN` or
// `expr IS [NOT] DISTINCT FROM other`.
type IsCheck struct {
	Comments
	Target    Expression
	Predicate string     // "NULL", "TRUE", "FALSE", "UNKNOWN", "DISTINCT FROM"
	Other     Expression // set only for DISTINCT FROM
	Negated   bool
}

func (*IsCheck) Kind() string    { return "IsCheck" }
func (*IsCheck) expressionNode() {}

// TypeName is a cast/DDL column target type: optional namespace, name,
// optional type args (e.g. numeric(10,2)), optional array suffix.
type TypeName struct {
	Namespaces []string
	Name       string
	Args       []Expression
	IsArray    bool
}

// Cast is `expr::type` or `CAST(expr AS type)`.
type Cast struct {
	Comments
	Expr       Expression
	TargetType TypeName
}

func (*Cast) Kind() string    { return "Cast" }
func (*Cast) expressionNode() {}

// ArrayIndex is `array[index]`.
type ArrayIndex struct {
	Comments
	Array Expression
	Index Expression
}

func (*ArrayIndex) Kind() string    { return "ArrayIndex" }
func (*ArrayIndex) expressionNode() {}

// ArraySlice is `array[start:end]` with either endpoint optionally open.
type ArraySlice struct {
	Comments
	Array Expression
	Start Expression // nil for open start
	End   Expression // nil for open end
}

func (*ArraySlice) Kind() string    { return "ArraySlice" }
func (*ArraySlice) expressionNode() {}

// Paren is an explicitly parenthesized sub-expression, used where grouping
// must survive printing regardless of operator precedence (e.g. transformer-
// built AND/OR groups).
type Paren struct {
	Comments
	Inner Expression
}

func (*Paren) Kind() string    { return "Paren" }
func (*Paren) expressionNode() {}

// Tuple is a parenthesized expression list used as a single value, e.g.
// `(a, b) = (1, 2)`.
type Tuple struct {
	Comments
	Items []Expression
}

func (*Tuple) Kind() string    { return "Tuple" }
func (*Tuple) expressionNode() {}

// ValueList is a parenthesized list used as an IN(...) target or a VALUES row.
type ValueList struct {
	Comments
	Items []Expression
}

func (*ValueList) Kind() string    { return "ValueList" }
func (*ValueList) expressionNode() {}

// SubQuery wraps a SelectQuery so it can appear anywhere an Expression can.
type SubQuery struct {
	Comments
	Query SelectQuery
}

func (*SubQuery) Kind() string    { return "SubQuery" }
func (*SubQuery) expressionNode() {}

// Exists is `[NOT] EXISTS (subquery)`.
type Exists struct {
	Comments
	Query   SelectQuery
	Negated bool
}

func (*Exists) Kind() string    { return "Exists" }
func (*Exists) expressionNode() {}
