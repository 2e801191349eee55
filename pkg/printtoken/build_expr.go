package printtoken

import (
	"strings"

	"github.com/sqlkit-go/sqlkit/pkg/ast"
)

// identTokens renders a (possibly qualified) Identifier as dot-joined
// identifier/quoted-identifier tokens, wrapped in the node's own before/after
// comments.
func identTokens(id *ast.Identifier) []*Token {
	if id == nil {
		return nil
	}
	var body []*Token
	for i, ns := range id.Namespaces {
		if i > 0 {
			body = append(body, punct("."))
		}
		body = append(body, nameRefToken(ast.NameRef{Value: ns}))
	}
	if len(id.Namespaces) > 0 {
		body = append(body, punct("."))
	}
	body = append(body, nameRefToken(id.Name))
	return beforeAfter(
		commentTokens(ast.Before, id.GetPositionedComments(ast.Before), false),
		body,
		commentTokens(ast.After, id.GetPositionedComments(ast.After), false),
	)
}

func nameRefToken(n ast.NameRef) *Token {
	if n.Quoted {
		return leaf(QuotedIdentifier, n.Value)
	}
	return leaf(Identifier, n.Value)
}

// buildExpr dispatches on the concrete Expression kind.
func buildExpr(e ast.Expression) []*Token {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *ast.Identifier:
		return identTokens(n)
	case *ast.Wildcard:
		var body []*Token
		if n.Qualifier != "" {
			body = append(body, leaf(Identifier, n.Qualifier), punct("."))
		}
		body = append(body, punct("*"))
		return wrapComments(n, body)
	case *ast.Literal:
		return wrapComments(n, []*Token{buildLiteral(n)})
	case *ast.ParameterRef:
		t := &Token{Kind: ParameterRef}
		if n.Name != nil {
			name := *n.Name
			t.ParamName = &name
		}
		if n.Index != nil {
			idx := *n.Index
			t.ParamIndex = &idx
		}
		return wrapComments(n, []*Token{t})
	case *ast.BinaryOp:
		return wrapComments(n, buildBinaryOp(n))
	case *ast.UnaryOp:
		return wrapComments(n, buildUnaryOp(n))
	case *ast.FunctionCall:
		return wrapComments(n, buildFunctionCall(n))
	case *ast.Case:
		return wrapComments(n, buildCase(n))
	case *ast.Between:
		return wrapComments(n, buildBetween(n))
	case *ast.InList:
		return wrapComments(n, buildInList(n))
	case *ast.Like:
		return wrapComments(n, buildLike(n))
	case *ast.IsCheck:
		return wrapComments(n, buildIsCheck(n))
	case *ast.Cast:
		return wrapComments(n, buildCast(n))
	case *ast.ArrayIndex:
		body := append(buildExpr(n.Array), punct("["))
		body = append(body, buildExpr(n.Index)...)
		body = append(body, punct("]"))
		return wrapComments(n, body)
	case *ast.ArraySlice:
		body := append(buildExpr(n.Array), punct("["))
		if n.Start != nil {
			body = append(body, buildExpr(n.Start)...)
		}
		body = append(body, punct(":"))
		if n.End != nil {
			body = append(body, buildExpr(n.End)...)
		}
		body = append(body, punct("]"))
		return wrapComments(n, body)
	case *ast.Paren:
		body := append([]*Token{punct("(")}, buildExpr(n.Inner)...)
		body = append(body, punct(")"))
		return wrapComments(n, body)
	case *ast.Tuple:
		return wrapComments(n, buildExprList(n.Items, true))
	case *ast.ValueList:
		return wrapComments(n, buildExprList(n.Items, true))
	case *ast.SubQuery:
		body := []*Token{{Kind: SubQueryStart}, punct("(")}
		body = append(body, buildSelectQuery(n.Query)...)
		body = append(body, punct(")"), &Token{Kind: SubQueryEnd})
		return wrapComments(n, []*Token{group(body...)})
	case *ast.Exists:
		var body []*Token
		if n.Negated {
			body = append(body, kw("NOT"))
		}
		body = append(body, kw("EXISTS"), punct("("))
		body = append(body, buildSelectQuery(n.Query)...)
		body = append(body, punct(")"))
		return wrapComments(n, body)
	}
	return nil
}

type commentCarrier interface {
	GetPositionedComments(side ast.CommentSide) []string
}

func wrapComments(n commentCarrier, body []*Token) []*Token {
	clauseLevel := true
	if _, ok := n.(ast.Expression); ok {
		clauseLevel = false
	}
	return beforeAfter(
		commentTokens(ast.Before, n.GetPositionedComments(ast.Before), clauseLevel),
		body,
		commentTokens(ast.After, n.GetPositionedComments(ast.After), clauseLevel),
	)
}

func buildLiteral(l *ast.Literal) *Token {
	switch l.LitKind {
	case ast.LitString:
		return leaf(Literal, quoteString(l.Raw, l.Prefix))
	case ast.LitNumber:
		return leaf(Literal, l.Raw)
	case ast.LitBoolean:
		return leaf(Keyword, l.Raw)
	case ast.LitNull:
		return leaf(Keyword, l.Raw)
	}
	return leaf(Literal, l.Raw)
}

// quoteString re-quotes a string literal from its stored (unescaped) form:
// dollar-quoted bodies keep their tag verbatim, everything else doubles
// embedded quotes, with the E prefix re-attached when present.
func quoteString(raw, prefix string) string {
	if strings.HasPrefix(prefix, "$") {
		return prefix + raw + prefix
	}
	return prefix + "'" + strings.ReplaceAll(raw, "'", "''") + "'"
}

// buildValuesTuples wraps a whole VALUES tuple list in a marker Group so the
// printer applies valuesCommaBreak instead of the general commaBreak, both
// between tuples and inside them.
func buildValuesTuples(tuples []*ast.Tuple) *Token {
	var children []*Token
	for i, t := range tuples {
		if i > 0 {
			children = append(children, comma())
		}
		children = append(children, buildExprList(t.Items, true)...)
	}
	return &Token{Kind: Group, Clause: "ValuesTuple", Children: children}
}

func buildExprList(items []ast.Expression, parens bool) []*Token {
	var body []*Token
	if parens {
		body = append(body, punct("("))
	}
	for i, item := range items {
		if i > 0 {
			body = append(body, comma())
		}
		body = append(body, buildExpr(item)...)
	}
	if parens {
		body = append(body, punct(")"))
	}
	return body
}

func buildBinaryOp(n *ast.BinaryOp) []*Token {
	var body []*Token
	body = append(body, buildExpr(n.Left)...)
	if isWordOp(n.Op) {
		if n.Op == "AND" {
			body = append(body, andSep())
		} else {
			body = append(body, kw(n.Op))
		}
	} else {
		body = append(body, op(n.Op))
	}
	body = append(body, buildExpr(n.Right)...)
	return body
}

func isWordOp(op string) bool {
	switch op {
	case "AND", "OR":
		return true
	}
	return false
}

func buildUnaryOp(n *ast.UnaryOp) []*Token {
	var body []*Token
	tok := op(n.Op)
	if n.Op == "NOT" {
		tok = kw(n.Op)
	}
	if n.Prefix {
		body = append(body, tok)
		body = append(body, buildExpr(n.Operand)...)
	} else {
		body = append(body, buildExpr(n.Operand)...)
		body = append(body, tok)
	}
	return body
}

// funcNameTokens renders a call's name. A plain unqualified, unquoted name
// is emitted as a Keyword so keywordCase applies (`COUNT(*)`, `count(*)`);
// qualified or quoted names render as identifiers.
func funcNameTokens(id *ast.Identifier) []*Token {
	if id != nil && len(id.Namespaces) == 0 && !id.Name.Quoted {
		return beforeAfter(
			commentTokens(ast.Before, id.GetPositionedComments(ast.Before), false),
			[]*Token{kw(id.Name.Value)},
			commentTokens(ast.After, id.GetPositionedComments(ast.After), false),
		)
	}
	return identTokens(id)
}

func buildFunctionCall(n *ast.FunctionCall) []*Token {
	if isExtractCall(n) {
		return buildExtract(n)
	}
	var body []*Token
	body = append(body, funcNameTokens(n.Qualified)...)
	body = append(body, callParen())
	if n.Distinct {
		body = append(body, kw("DISTINCT"))
	}
	if n.Star {
		body = append(body, punct("*"))
	} else {
		for i, a := range n.Args {
			if i > 0 {
				body = append(body, comma())
			}
			body = append(body, buildExpr(a)...)
		}
	}
	if n.OrderBy != nil {
		body = append(body, buildOrderByClause(n.OrderBy)...)
	}
	body = append(body, punct(")"))
	if n.WithOrdinality {
		body = append(body, kw("WITH"), kw("ORDINALITY"))
	}
	if n.WithinGroup != nil {
		body = append(body, kw("WITHIN"), kw("GROUP"), punct("("))
		body = append(body, buildOrderByClause(n.WithinGroup)...)
		body = append(body, punct(")"))
	}
	if n.Filter != nil {
		body = append(body, kw("FILTER"), punct("("), kw("WHERE"))
		body = append(body, buildExpr(n.Filter)...)
		body = append(body, punct(")"))
	}
	if n.OverSpec != nil {
		body = append(body, kw("OVER"), punct("("))
		body = append(body, buildWindowSpecBody(n.OverSpec)...)
		body = append(body, punct(")"))
	} else if n.OverName != "" {
		body = append(body, kw("OVER"), leaf(Identifier, n.OverName))
	}
	return body
}

func isExtractCall(n *ast.FunctionCall) bool {
	if n.Qualified == nil || !strings.EqualFold(n.Qualified.Name.Value, "EXTRACT") {
		return false
	}
	if len(n.Args) != 2 {
		return false
	}
	unit, ok := n.Args[0].(*ast.Literal)
	return ok && unit.LitKind == ast.LitString
}

// buildExtract renders the `EXTRACT(unit FROM expr)` special form; the
// parser stores the unit as the call's first argument.
func buildExtract(n *ast.FunctionCall) []*Token {
	unit := n.Args[0].(*ast.Literal)
	body := []*Token{kw("EXTRACT"), callParen(), kw(unit.Raw), kw("FROM")}
	body = append(body, buildExpr(n.Args[1])...)
	body = append(body, punct(")"))
	return body
}

func buildWindowSpecBody(spec *ast.WindowSpec) []*Token {
	var body []*Token
	if spec.BaseName != "" {
		body = append(body, leaf(Identifier, spec.BaseName))
	}
	if len(spec.PartitionBy) > 0 {
		body = append(body, kw("PARTITION"), kw("BY"))
		for i, e := range spec.PartitionBy {
			if i > 0 {
				body = append(body, comma())
			}
			body = append(body, buildExpr(e)...)
		}
	}
	if spec.OrderBy != nil {
		body = append(body, buildOrderByClause(spec.OrderBy)...)
	}
	if spec.Frame != nil {
		body = append(body, buildWindowFrame(spec.Frame)...)
	}
	return body
}

func buildWindowFrame(f *ast.WindowFrame) []*Token {
	var body []*Token
	switch f.Unit {
	case ast.FrameRows:
		body = append(body, kw("ROWS"))
	case ast.FrameRange:
		body = append(body, kw("RANGE"))
	case ast.FrameGroups:
		body = append(body, kw("GROUPS"))
	}
	if f.End != nil {
		body = append(body, kw("BETWEEN"))
		body = append(body, buildFrameBound(f.Start)...)
		body = append(body, kw("AND"))
		body = append(body, buildFrameBound(*f.End)...)
	} else {
		body = append(body, buildFrameBound(f.Start)...)
	}
	return body
}

func buildFrameBound(b ast.FrameBound) []*Token {
	switch b.BoundKind {
	case ast.BoundUnboundedPreceding:
		return []*Token{kw("UNBOUNDED"), kw("PRECEDING")}
	case ast.BoundUnboundedFollowing:
		return []*Token{kw("UNBOUNDED"), kw("FOLLOWING")}
	case ast.BoundCurrentRow:
		return []*Token{kw("CURRENT"), kw("ROW")}
	case ast.BoundPreceding:
		return append(buildExpr(b.Offset), kw("PRECEDING"))
	case ast.BoundFollowing:
		return append(buildExpr(b.Offset), kw("FOLLOWING"))
	}
	return nil
}

func buildCase(n *ast.Case) []*Token {
	body := []*Token{kw("CASE")}
	if n.Discriminant != nil {
		body = append(body, buildExpr(n.Discriminant)...)
	}
	for _, b := range n.Branches {
		body = append(body, kw("WHEN"))
		body = append(body, buildExpr(b.When)...)
		body = append(body, kw("THEN"))
		body = append(body, buildExpr(b.Then)...)
	}
	if n.Else != nil {
		body = append(body, kw("ELSE"))
		body = append(body, buildExpr(n.Else)...)
	}
	body = append(body, kw("END"))
	return body
}

func buildBetween(n *ast.Between) []*Token {
	var body []*Token
	body = append(body, buildExpr(n.Target)...)
	if n.Negated {
		body = append(body, kw("NOT"))
	}
	body = append(body, kw("BETWEEN"))
	body = append(body, buildExpr(n.Low)...)
	body = append(body, kw("AND"))
	body = append(body, buildExpr(n.High)...)
	return body
}

func buildInList(n *ast.InList) []*Token {
	var body []*Token
	body = append(body, buildExpr(n.Target)...)
	if n.Negated {
		body = append(body, kw("NOT"))
	}
	body = append(body, kw("IN"))
	switch l := n.List.(type) {
	case *ast.ValueList:
		body = append(body, buildExprList(l.Items, true)...)
	case *ast.SubQuery:
		body = append(body, punct("("))
		body = append(body, buildSelectQuery(l.Query)...)
		body = append(body, punct(")"))
	default:
		body = append(body, buildExpr(n.List)...)
	}
	return body
}

func buildLike(n *ast.Like) []*Token {
	var body []*Token
	body = append(body, buildExpr(n.Target)...)
	if n.Negated {
		body = append(body, kw("NOT"))
	}
	if n.CaseFold {
		body = append(body, kw("ILIKE"))
	} else {
		body = append(body, kw("LIKE"))
	}
	body = append(body, buildExpr(n.Pattern)...)
	if n.Escape != nil {
		body = append(body, kw("ESCAPE"))
		body = append(body, buildExpr(n.Escape)...)
	}
	return body
}

func buildIsCheck(n *ast.IsCheck) []*Token {
	var body []*Token
	body = append(body, buildExpr(n.Target)...)
	body = append(body, kw("IS"))
	if n.Negated {
		body = append(body, kw("NOT"))
	}
	for _, w := range splitWords(n.Predicate) {
		body = append(body, kw(w))
	}
	if n.Predicate == "DISTINCT FROM" {
		body = append(body, buildExpr(n.Other)...)
	}
	return body
}

func splitWords(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ' ' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

// buildCast always renders the `expr::type` form; the parser accepts both
// that and `CAST(expr AS type)` into the same node, so printing canonically
// in one form keeps format(ast) deterministic regardless of source syntax.
func buildCast(n *ast.Cast) []*Token {
	body := buildExpr(n.Expr)
	body = append(body, op("::"))
	body = append(body, buildTypeName(n.TargetType)...)
	return body
}

// Type names render as bare text: quoting them the way column identifiers
// are quoted is valid but noisy, and keyword casing does not apply.
func buildTypeName(t ast.TypeName) []*Token {
	var body []*Token
	for i, ns := range t.Namespaces {
		if i > 0 {
			body = append(body, punct("."))
		}
		body = append(body, leaf(Literal, ns))
	}
	if len(t.Namespaces) > 0 {
		body = append(body, punct("."))
	}
	body = append(body, leaf(Literal, t.Name))
	if len(t.Args) > 0 {
		body = append(body, callParen())
		for i, a := range t.Args {
			if i > 0 {
				body = append(body, comma())
			}
			body = append(body, buildExpr(a)...)
		}
		body = append(body, punct(")"))
	}
	if t.IsArray {
		body = append(body, punct("["), punct("]"))
	}
	return body
}
