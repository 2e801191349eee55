package printtoken

import "github.com/sqlkit-go/sqlkit/pkg/ast"

// Build is the public entry point: it visits a Statement and returns its
// print-token tree. Building is read-only; it never mutates the AST.
func Build(stmt ast.Statement) *Token {
	switch s := stmt.(type) {
	case ast.SelectQuery:
		return group(buildSelectQuery(s)...)
	case *ast.InsertQuery:
		return group(buildInsert(s)...)
	case *ast.UpdateQuery:
		return group(buildUpdate(s)...)
	case *ast.DeleteQuery:
		return group(buildDelete(s)...)
	case *ast.MergeQuery:
		return group(buildMerge(s)...)
	case *ast.CreateTableQuery:
		return group(buildCreateTable(s)...)
	case *ast.DropTableQuery:
		return group(buildDropTable(s)...)
	case *ast.CreateIndexQuery:
		return group(buildCreateIndex(s)...)
	case *ast.DropIndexQuery:
		return group(buildDropIndex(s)...)
	case *ast.AlterTableQuery:
		return group(buildAlterTable(s)...)
	case *ast.CreateSequenceQuery:
		return group(buildCreateSequence(s)...)
	case *ast.AlterSequenceQuery:
		return group(buildAlterSequence(s)...)
	case *ast.CreateSchemaQuery:
		return group(buildCreateSchema(s)...)
	case *ast.DropSchemaQuery:
		return group(buildDropSchema(s)...)
	case *ast.CommentOnQuery:
		return group(buildCommentOn(s)...)
	case *ast.AnalyzeQuery:
		return group(buildAnalyze(s)...)
	}
	return group()
}

func header(c commentCarrier) []*Token {
	type headerer interface{ HeaderComments() []string }
	if h, ok := c.(headerer); ok {
		return commentTokens(ast.Before, h.HeaderComments(), true)
	}
	return nil
}

func buildSelectQuery(q ast.SelectQuery) []*Token {
	switch s := q.(type) {
	case *ast.SimpleSelectQuery:
		return buildSimpleSelect(s)
	case *ast.BinarySelectQuery:
		return buildBinarySelect(s)
	case *ast.ValuesQuery:
		return buildValuesQuery(s)
	}
	return nil
}

func buildBinarySelect(b *ast.BinarySelectQuery) []*Token {
	var body []*Token
	body = append(body, header(b)...)
	if b.With != nil {
		body = append(body, buildWithClause(b.With)...)
		body = append(body, newline())
	}
	body = append(body, buildSelectQuery(b.Left)...)
	body = append(body, newline(), kw(b.Op.String()), newline())
	body = append(body, buildSelectQuery(b.Right)...)
	return wrapComments(b, body)
}

func buildValuesQuery(v *ast.ValuesQuery) []*Token {
	var body []*Token
	body = append(body, header(v)...)
	if v.With != nil {
		body = append(body, buildWithClause(v.With)...)
		body = append(body, newline())
	}
	body = append(body, kw("VALUES"))
	body = append(body, buildValuesTuples(v.Tuples))
	return wrapComments(v, body)
}

func buildWithClause(w *ast.WithClause) []*Token {
	body := []*Token{{Kind: ClauseStart, Clause: "With"}}
	body = append(body, kw("WITH"))
	if w.Recursive {
		body = append(body, kw("RECURSIVE"))
	}
	body = append(body, indentInc(), newline())
	for i, cte := range w.Tables {
		if i > 0 {
			body = append(body, comma())
		}
		body = append(body, buildCommonTable(cte)...)
	}
	body = append(body, indentDec())
	body = append(body, &Token{Kind: ClauseEnd, Clause: "With"})
	return wrapComments(w, body)
}

func buildCommonTable(cte *ast.CommonTable) []*Token {
	body := identTokens(cte.Name)
	if len(cte.ColumnAliases) > 0 {
		body = append(body, punct("("))
		for i, c := range cte.ColumnAliases {
			if i > 0 {
				body = append(body, comma())
			}
			body = append(body, identTokens(c)...)
		}
		body = append(body, punct(")"))
	}
	body = append(body, kw("AS"))
	switch cte.Materialized {
	case ast.Materialized:
		body = append(body, kw("MATERIALIZED"))
	case ast.NotMaterialized:
		body = append(body, kw("NOT"), kw("MATERIALIZED"))
	}
	body = append(body, &Token{Kind: CTEStart}, punct("("))
	body = append(body, indentInc(), newline())
	body = append(body, buildSelectQuery(cte.Query)...)
	body = append(body, indentDec(), newline())
	body = append(body, punct(")"), &Token{Kind: CTEEnd})
	return wrapComments(cte, body)
}

func buildSimpleSelect(s *ast.SimpleSelectQuery) []*Token {
	var body []*Token
	body = append(body, header(s)...)
	if s.With != nil {
		body = append(body, buildWithClause(s.With)...)
		body = append(body, newline())
	}
	body = append(body, buildSelectClause(s.Select)...)
	if s.From != nil {
		body = append(body, newline())
		body = append(body, buildFromClause(s.From)...)
	}
	if s.Where != nil {
		body = append(body, newline())
		body = append(body, buildWhereClause(s.Where)...)
	}
	if s.GroupBy != nil {
		body = append(body, newline())
		body = append(body, buildGroupByClause(s.GroupBy)...)
	}
	if s.Having != nil {
		body = append(body, newline())
		body = append(body, buildHavingClause(s.Having)...)
	}
	if s.Window != nil {
		body = append(body, newline())
		body = append(body, buildWindowClause(s.Window)...)
	}
	if s.OrderBy != nil {
		body = append(body, newline())
		body = append(body, buildOrderByClauseWithKeyword(s.OrderBy)...)
	}
	if s.Limit != nil {
		body = append(body, newline(), kw("LIMIT"))
		body = append(body, buildExpr(s.Limit.Value)...)
	}
	if s.Offset != nil {
		body = append(body, newline(), kw("OFFSET"))
		body = append(body, buildExpr(s.Offset.Value)...)
	}
	if s.For != nil {
		body = append(body, newline())
		body = append(body, buildForClause(s.For)...)
	}
	return wrapComments(s, body)
}

func buildSelectClause(sel *ast.SelectClause) []*Token {
	body := []*Token{{Kind: ClauseStart, Clause: "Select"}, kw("SELECT")}
	for _, h := range sel.Hints {
		body = append(body, &Token{Kind: HintBlock, Text: h.Text})
	}
	switch sel.Distinct {
	case ast.DistinctPlain:
		body = append(body, kw("DISTINCT"))
	case ast.DistinctOn:
		body = append(body, kw("DISTINCT"), kw("ON"))
		body = append(body, buildExprList(sel.DistinctOn, true)...)
	}
	body = append(body, indentInc(), newline())
	for i, item := range sel.Items {
		if i > 0 {
			body = append(body, comma())
		}
		body = append(body, buildSelectItem(item)...)
	}
	body = append(body, indentDec())
	body = append(body, &Token{Kind: ClauseEnd, Clause: "Select"})
	return wrapComments(sel, body)
}

func buildSelectItem(item *ast.SelectItem) []*Token {
	body := buildExpr(item.Value)
	if item.Alias != nil {
		body = append(body, kw("AS"))
		body = append(body, identTokens(item.Alias)...)
	}
	return wrapComments(item, body)
}

func buildFromClause(f *ast.FromClause) []*Token {
	body := []*Token{{Kind: ClauseStart, Clause: "From"}, kw("FROM"), indentInc(), newline()}
	for i, swj := range f.Sources {
		if i > 0 {
			body = append(body, comma())
		}
		body = append(body, buildSourceWithJoins(swj)...)
	}
	body = append(body, indentDec())
	body = append(body, &Token{Kind: ClauseEnd, Clause: "From"})
	return wrapComments(f, body)
}

func buildSourceWithJoins(swj *ast.SourceWithJoins) []*Token {
	body := buildSourceExpression(swj.Base)
	for _, j := range swj.Joins {
		body = append(body, newline())
		body = append(body, buildJoinClause(j)...)
	}
	return wrapComments(swj, body)
}

func buildJoinClause(j *ast.JoinClause) []*Token {
	var body []*Token
	if j.ConditionKind == ast.JoinNatural {
		body = append(body, kw("NATURAL"))
	}
	if j.JoinKind != ast.JoinInner || j.ConditionKind != ast.JoinNatural {
		switch j.JoinKind {
		case ast.JoinLeft:
			body = append(body, kw("LEFT"))
		case ast.JoinRight:
			body = append(body, kw("RIGHT"))
		case ast.JoinFull:
			body = append(body, kw("FULL"))
		case ast.JoinCross:
			body = append(body, kw("CROSS"))
		}
	}
	body = append(body, kw("JOIN"))
	if j.Lateral {
		body = append(body, kw("LATERAL"))
	}
	body = append(body, buildSourceExpression(j.Source)...)
	switch j.ConditionKind {
	case ast.JoinOn:
		body = append(body, kw("ON"))
		body = append(body, buildExpr(j.On)...)
	case ast.JoinUsing:
		body = append(body, kw("USING"), punct("("))
		for i, id := range j.Using {
			if i > 0 {
				body = append(body, comma())
			}
			body = append(body, identTokens(id)...)
		}
		body = append(body, punct(")"))
	}
	return wrapComments(j, body)
}

func buildSourceExpression(se *ast.SourceExpression) []*Token {
	var body []*Token
	if se.Lateral {
		body = append(body, kw("LATERAL"))
	}
	switch src := se.Source.(type) {
	case *ast.TableSource:
		body = append(body, identTokens(src.Name)...)
	case *ast.ParenSource:
		body = append(body, punct("("))
		body = append(body, buildSourceWithJoins(src.Inner)...)
		body = append(body, punct(")"))
	case *ast.SubQuerySource:
		body = append(body, &Token{Kind: SubQueryStart}, punct("("))
		body = append(body, buildSelectQuery(src.Query)...)
		body = append(body, punct(")"), &Token{Kind: SubQueryEnd})
	case *ast.ValuesSource:
		body = append(body, punct("("), kw("VALUES"))
		body = append(body, buildValuesTuples(src.Values.Tuples))
		body = append(body, punct(")"))
	case *ast.FunctionSource:
		body = append(body, buildFunctionCall(src.Call)...)
	}
	if se.Alias != nil {
		body = append(body, kw("AS"))
		body = append(body, identTokens(se.Alias)...)
	}
	if len(se.ColumnAliases) > 0 {
		body = append(body, punct("("))
		for i, c := range se.ColumnAliases {
			if i > 0 {
				body = append(body, comma())
			}
			body = append(body, identTokens(c)...)
		}
		body = append(body, punct(")"))
	}
	return wrapComments(se, body)
}

func buildWhereClause(w *ast.WhereClause) []*Token {
	body := []*Token{{Kind: ClauseStart, Clause: "Where"}, kw("WHERE"), indentInc(), newline()}
	body = append(body, buildExpr(w.Predicate)...)
	body = append(body, indentDec())
	body = append(body, &Token{Kind: ClauseEnd, Clause: "Where"})
	return wrapComments(w, body)
}

func buildGroupByClause(g *ast.GroupByClause) []*Token {
	body := []*Token{{Kind: ClauseStart, Clause: "GroupBy"}, kw("GROUP"), kw("BY"), indentInc(), newline()}
	for i, e := range g.Items {
		if i > 0 {
			body = append(body, comma())
		}
		body = append(body, buildExpr(e)...)
	}
	body = append(body, indentDec())
	body = append(body, &Token{Kind: ClauseEnd, Clause: "GroupBy"})
	return wrapComments(g, body)
}

func buildHavingClause(h *ast.HavingClause) []*Token {
	body := []*Token{{Kind: ClauseStart, Clause: "Having"}, kw("HAVING"), indentInc(), newline()}
	body = append(body, buildExpr(h.Predicate)...)
	body = append(body, indentDec())
	body = append(body, &Token{Kind: ClauseEnd, Clause: "Having"})
	return wrapComments(h, body)
}

func buildWindowClause(w *ast.WindowClause) []*Token {
	body := []*Token{kw("WINDOW")}
	for i, nw := range w.Windows {
		if i > 0 {
			body = append(body, comma())
		}
		body = append(body, identTokens(nw.Name)...)
		body = append(body, kw("AS"), punct("("))
		body = append(body, buildWindowSpecBody(nw.Spec)...)
		body = append(body, punct(")"))
	}
	return wrapComments(w, body)
}

// buildOrderByClause renders an inline `ORDER BY ...` without clause-level
// layout; used inside function arguments, WITHIN GROUP, and window specs.
func buildOrderByClause(o *ast.OrderByClause) []*Token {
	body := []*Token{kw("ORDER"), kw("BY")}
	for i, item := range o.Items {
		if i > 0 {
			body = append(body, comma())
		}
		body = append(body, buildOrderByItem(item)...)
	}
	return body
}

func buildOrderByClauseWithKeyword(o *ast.OrderByClause) []*Token {
	body := []*Token{{Kind: ClauseStart, Clause: "OrderBy"}, kw("ORDER"), kw("BY"), indentInc(), newline()}
	for i, item := range o.Items {
		if i > 0 {
			body = append(body, comma())
		}
		body = append(body, buildOrderByItem(item)...)
	}
	body = append(body, indentDec())
	body = append(body, &Token{Kind: ClauseEnd, Clause: "OrderBy"})
	return wrapComments(o, body)
}

func buildOrderByItem(item *ast.OrderByItem) []*Token {
	body := buildExpr(item.Expr)
	switch item.Direction {
	case ast.OrderAsc:
		body = append(body, kw("ASC"))
	case ast.OrderDesc:
		body = append(body, kw("DESC"))
	}
	switch item.Nulls {
	case ast.NullsFirst:
		body = append(body, kw("NULLS"), kw("FIRST"))
	case ast.NullsLast:
		body = append(body, kw("NULLS"), kw("LAST"))
	}
	return wrapComments(item, body)
}

func buildForClause(f *ast.ForClause) []*Token {
	body := []*Token{kw("FOR")}
	switch f.Mode {
	case ast.ForUpdate:
		body = append(body, kw("UPDATE"))
	case ast.ForShare:
		body = append(body, kw("SHARE"))
	case ast.ForNoKeyUpdate:
		body = append(body, kw("NO"), kw("KEY"), kw("UPDATE"))
	case ast.ForKeyShare:
		body = append(body, kw("KEY"), kw("SHARE"))
	}
	if len(f.Of) > 0 {
		body = append(body, kw("OF"))
		for i, id := range f.Of {
			if i > 0 {
				body = append(body, comma())
			}
			body = append(body, identTokens(id)...)
		}
	}
	switch f.Wait {
	case ast.WaitNoWait:
		body = append(body, kw("NOWAIT"))
	case ast.WaitSkipLocked:
		body = append(body, kw("SKIP"), kw("LOCKED"))
	}
	return wrapComments(f, body)
}

func buildReturningClause(r *ast.ReturningClause) []*Token {
	body := []*Token{kw("RETURNING")}
	for i, item := range r.Items {
		if i > 0 {
			body = append(body, comma())
		}
		body = append(body, buildSelectItem(item)...)
	}
	return wrapComments(r, body)
}
