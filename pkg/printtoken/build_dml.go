package printtoken

import "github.com/sqlkit-go/sqlkit/pkg/ast"

func buildInsert(q *ast.InsertQuery) []*Token {
	var body []*Token
	body = append(body, header(q)...)
	if q.With != nil {
		body = append(body, buildWithClause(q.With)...)
		body = append(body, newline())
	}
	body = append(body, kw("INSERT"), kw("INTO"))
	body = append(body, buildSourceExpression(q.Target)...)
	if len(q.Columns) > 0 {
		body = append(body, punct("("))
		for i, c := range q.Columns {
			if i > 0 {
				body = append(body, comma())
			}
			body = append(body, identTokens(c)...)
		}
		body = append(body, punct(")"))
	}
	body = append(body, newline())
	switch q.SourceKind {
	case ast.InsertFromSelect:
		body = append(body, buildSelectQuery(q.Select)...)
	case ast.InsertFromValues:
		body = append(body, kw("VALUES"))
		body = append(body, buildValuesTuples(q.Values.Tuples))
	case ast.InsertDefaultValues:
		body = append(body, kw("DEFAULT"), kw("VALUES"))
	}
	if q.OnConflict != nil {
		body = append(body, newline())
		body = append(body, buildOnConflict(q.OnConflict)...)
	}
	if q.Returning != nil {
		body = append(body, newline())
		body = append(body, buildReturningClause(q.Returning)...)
	}
	return wrapComments(q, body)
}

func buildOnConflict(c *ast.OnConflictClause) []*Token {
	body := []*Token{kw("ON"), kw("CONFLICT")}
	if len(c.Columns) > 0 {
		body = append(body, punct("("))
		for i, col := range c.Columns {
			if i > 0 {
				body = append(body, comma())
			}
			body = append(body, identTokens(col)...)
		}
		body = append(body, punct(")"))
	}
	body = append(body, kw("DO"))
	switch c.Action {
	case ast.ConflictDoNothing:
		body = append(body, kw("NOTHING"))
	case ast.ConflictDoUpdate:
		body = append(body, kw("UPDATE"))
		body = append(body, buildSetClause(c.Set)...)
		if c.Where != nil {
			body = append(body, buildWhereClause(c.Where)...)
		}
	}
	return wrapComments(c, body)
}

func buildSetClause(s *ast.SetClause) []*Token {
	body := []*Token{kw("SET")}
	for i, item := range s.Items {
		if i > 0 {
			body = append(body, comma())
		}
		body = append(body, buildSetItem(item)...)
	}
	return wrapComments(s, body)
}

func buildSetItem(item *ast.SetItem) []*Token {
	body := identTokens(item.Column)
	body = append(body, op("="))
	body = append(body, buildExpr(item.Value)...)
	return wrapComments(item, body)
}

func buildUpdate(q *ast.UpdateQuery) []*Token {
	var body []*Token
	body = append(body, header(q)...)
	if q.With != nil {
		body = append(body, buildWithClause(q.With)...)
		body = append(body, newline())
	}
	body = append(body, kw("UPDATE"))
	body = append(body, buildSourceExpression(q.Target)...)
	body = append(body, newline())
	body = append(body, buildSetClause(q.Set)...)
	if q.From != nil {
		body = append(body, newline())
		body = append(body, buildFromClause(q.From)...)
	}
	if q.Where != nil {
		body = append(body, newline())
		body = append(body, buildWhereClause(q.Where)...)
	}
	if q.Returning != nil {
		body = append(body, newline())
		body = append(body, buildReturningClause(q.Returning)...)
	}
	return wrapComments(q, body)
}

func buildUsingClause(u *ast.UsingClause) []*Token {
	body := []*Token{kw("USING")}
	for i, src := range u.Sources {
		if i > 0 {
			body = append(body, comma())
		}
		body = append(body, buildSourceExpression(src)...)
	}
	return wrapComments(u, body)
}

func buildDelete(q *ast.DeleteQuery) []*Token {
	var body []*Token
	body = append(body, header(q)...)
	if q.With != nil {
		body = append(body, buildWithClause(q.With)...)
		body = append(body, newline())
	}
	body = append(body, kw("DELETE"), kw("FROM"))
	body = append(body, buildSourceExpression(q.Target)...)
	if q.Using != nil {
		body = append(body, newline())
		body = append(body, buildUsingClause(q.Using)...)
	}
	if q.Where != nil {
		body = append(body, newline())
		body = append(body, buildWhereClause(q.Where)...)
	}
	if q.Returning != nil {
		body = append(body, newline())
		body = append(body, buildReturningClause(q.Returning)...)
	}
	return wrapComments(q, body)
}

func buildMerge(q *ast.MergeQuery) []*Token {
	var body []*Token
	body = append(body, header(q)...)
	if q.With != nil {
		body = append(body, buildWithClause(q.With)...)
		body = append(body, newline())
	}
	body = append(body, kw("MERGE"), kw("INTO"))
	body = append(body, buildSourceExpression(q.Into)...)
	body = append(body, newline(), kw("USING"))
	body = append(body, buildSourceExpression(q.Using)...)
	body = append(body, kw("ON"))
	body = append(body, buildExpr(q.On)...)
	for _, w := range q.WhenClauses {
		body = append(body, newline())
		body = append(body, buildWhenClause(w)...)
	}
	return wrapComments(q, body)
}

func buildWhenClause(w *ast.WhenClause) []*Token {
	body := []*Token{kw("WHEN")}
	switch w.MatchKind {
	case ast.MergeMatched:
		body = append(body, kw("MATCHED"))
	case ast.MergeNotMatchedByTarget:
		body = append(body, kw("NOT"), kw("MATCHED"))
	case ast.MergeNotMatchedBySource:
		body = append(body, kw("NOT"), kw("MATCHED"), kw("BY"), kw("SOURCE"))
	}
	if w.Condition != nil {
		body = append(body, kw("AND"))
		body = append(body, buildExpr(w.Condition)...)
	}
	body = append(body, commentTokens(ast.Before, w.ThenLeadingComments, true)...)
	body = append(body, kw("THEN"))
	body = append(body, buildMergeAction(w.Action)...)
	return wrapComments(w, body)
}

func buildMergeAction(a *ast.MergeAction) []*Token {
	var body []*Token
	switch a.ActionKind {
	case ast.MergeActionUpdate:
		body = append(body, kw("UPDATE"))
		body = append(body, buildSetClause(a.Set)...)
		if a.Where != nil {
			body = append(body, buildWhereClause(a.Where)...)
		}
	case ast.MergeActionDelete:
		body = append(body, kw("DELETE"))
		if a.Where != nil {
			body = append(body, buildWhereClause(a.Where)...)
		}
	case ast.MergeActionInsert:
		body = append(body, kw("INSERT"))
		if len(a.Columns) > 0 {
			body = append(body, punct("("))
			for i, c := range a.Columns {
				if i > 0 {
					body = append(body, comma())
				}
				body = append(body, identTokens(c)...)
			}
			body = append(body, punct(")"))
		}
		if a.DefaultValues {
			body = append(body, kw("DEFAULT"), kw("VALUES"))
		} else {
			body = append(body, kw("VALUES"))
			body = append(body, buildValuesTuples([]*ast.Tuple{{Items: a.Values}}))
		}
	case ast.MergeActionDoNothing:
		body = append(body, kw("DO"), kw("NOTHING"))
	}
	return wrapComments(a, body)
}
