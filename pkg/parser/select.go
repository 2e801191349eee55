package parser

import (
	"github.com/sqlkit-go/sqlkit/pkg/ast"
	"github.com/sqlkit-go/sqlkit/pkg/lexer"
)

// parseSelectQuery is the SELECT/VALUES/WITH entry point. It captures the
// statement-header comment sequence before consuming any clause content,
// then delegates to the set-operation chain.
func (p *Parser) parseSelectQuery() (ast.SelectQuery, error) {
	if p.curIsKeyword("WITH") {
		stmt, err := p.parseWithLeadStatement()
		if err != nil {
			return nil, err
		}
		q, ok := stmt.(ast.SelectQuery)
		if !ok {
			return nil, p.errorf("Expected `SELECT` or `VALUES` after WITH clause")
		}
		return q, nil
	}
	header := p.cur().CommentsAt(lexer.Before)
	q, err := p.parseSetOpChain(nil)
	if err != nil {
		return nil, err
	}
	if c, ok := q.(interface{ SetHeaderComments([]string) }); ok {
		c.SetHeaderComments(header)
	}
	return q, nil
}

// parseWithLeadStatement handles a statement beginning with WITH: it parses
// the CTE list, folding comments between WITH and the first CTE name up into
// the outer statement's header, then dispatches to whichever statement
// keyword follows. A comment between the last CTE's `)` and the main query
// becomes a `before` comment of the statement, not part of the header.
func (p *Parser) parseWithLeadStatement() (ast.Statement, error) {
	header := p.cur().CommentsAt(lexer.Before)
	with, extraHeader, err := p.parseWithClause()
	if err != nil {
		return nil, err
	}
	header = append(header, extraHeader...)

	beforeMain := p.cur().CommentsAt(lexer.Before)

	var stmt ast.Statement
	switch {
	case p.curIsKeyword("SELECT"):
		stmt, err = p.parseSetOpChain(with)
	case p.curIsKeyword("VALUES"):
		stmt, err = p.parseValuesQueryWith(with)
	case p.curIsKeyword("INSERT"):
		stmt, err = p.parseInsert(with)
	case p.curIsKeyword("UPDATE"):
		stmt, err = p.parseUpdate(with)
	case p.curIsKeyword("DELETE"):
		stmt, err = p.parseDelete(with)
	case p.curIsKeyword("MERGE"):
		stmt, err = p.parseMerge(with)
	default:
		return nil, p.errorf("Expected `SELECT`, `INSERT`, `UPDATE`, `DELETE`, `MERGE` or `VALUES` after WITH clause")
	}
	if err != nil {
		return nil, err
	}
	if c, ok := stmt.(interface{ SetHeaderComments([]string) }); ok {
		c.SetHeaderComments(header)
	}
	if carrier, ok := stmt.(interface {
		AddPositionedComments(side ast.CommentSide, comments []string)
	}); ok {
		carrier.AddPositionedComments(ast.Before, beforeMain)
	}
	return stmt, nil
}

// parseSetOpChain parses one SELECT/VALUES operand then folds in any
// trailing UNION/INTERSECT/EXCEPT operands, left-associatively.
func (p *Parser) parseSetOpChain(with *ast.WithClause) (ast.SelectQuery, error) {
	left, err := p.parseSetOpOperand(with)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.trySetOperator()
		if !ok {
			return left, nil
		}
		right, err := p.parseSetOpOperand(nil)
		if err != nil {
			return nil, err
		}
		left = &ast.BinarySelectQuery{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) trySetOperator() (ast.SetOperator, bool) {
	switch {
	case p.curIsKeyword("UNION"):
		p.advance()
		if p.curIsKeyword("ALL") {
			p.advance()
			return ast.OpUnionAll, true
		}
		if p.curIsKeyword("DISTINCT") {
			p.advance()
		}
		return ast.OpUnion, true
	case p.curIsKeyword("INTERSECT"):
		p.advance()
		if p.curIsKeyword("DISTINCT") {
			p.advance()
		}
		return ast.OpIntersect, true
	case p.curIsKeyword("EXCEPT"):
		p.advance()
		if p.curIsKeyword("DISTINCT") {
			p.advance()
		}
		return ast.OpExcept, true
	}
	return 0, false
}

func (p *Parser) parseSetOpOperand(with *ast.WithClause) (ast.SelectQuery, error) {
	switch {
	case p.curIsKeyword("SELECT"):
		return p.parseSimpleSelect(with)
	case p.curIsKeyword("VALUES"):
		return p.parseValuesQueryWith(with)
	case p.curIs(lexer.LParen):
		p.advance()
		q, err := p.parseSetOpChain(nil)
		if err != nil {
			return nil, err
		}
		if _, err := p.consumeKind(lexer.RParen, "`)`"); err != nil {
			return nil, err
		}
		return q, nil
	}
	return nil, p.errorf("Expected `SELECT` or `VALUES`")
}

// parseWithClause parses `WITH [RECURSIVE] name [(cols)] AS [[NOT]
// MATERIALIZED] (query), ...`. It returns interstitial comments found
// between WITH and the first CTE name, which the caller folds into the outer
// statement's header rather than attaching them to the CTE.
func (p *Parser) parseWithClause() (*ast.WithClause, []string, error) {
	if err := p.consumeKeyword("WITH"); err != nil {
		return nil, nil, err
	}
	// A trailing comment on the WITH line itself also sits between WITH and
	// the first CTE name, so it joins the outer header.
	withTrailing := p.peek(-1).CommentsAt(lexer.After)
	recursive := false
	if p.curIsKeyword("RECURSIVE") {
		p.advance()
		recursive = true
	}
	wc := &ast.WithClause{Recursive: recursive}
	extraHeader := append([]string(nil), withTrailing...)
	first := true
	for {
		interstitial := p.cur().CommentsAt(lexer.Before)
		nameIdent, err := p.parseIdentifierName()
		if err != nil {
			return nil, nil, err
		}
		if first {
			extraHeader = append(extraHeader, interstitial...)
			first = false
		} else {
			nameIdent.AddPositionedComments(ast.Before, interstitial)
		}
		cte := &ast.CommonTable{Name: nameIdent}
		if p.curIs(lexer.LParen) {
			p.advance()
			for {
				col, err := p.parseIdentifierName()
				if err != nil {
					return nil, nil, err
				}
				cte.ColumnAliases = append(cte.ColumnAliases, col)
				if p.curIs(lexer.Comma) {
					p.advance()
					continue
				}
				break
			}
			if _, err := p.consumeKind(lexer.RParen, "`)`"); err != nil {
				return nil, nil, err
			}
		}
		if err := p.consumeKeyword("AS"); err != nil {
			return nil, nil, err
		}
		if p.curIsKeyword("MATERIALIZED") {
			p.advance()
			cte.Materialized = ast.Materialized
		} else if p.curIsKeyword("NOT") && p.peekIsKeyword(1, "MATERIALIZED") {
			p.advance()
			p.advance()
			cte.Materialized = ast.NotMaterialized
		}
		if _, err := p.consumeKind(lexer.LParen, "`(`"); err != nil {
			return nil, nil, err
		}
		// A comment between the CTE's `(` and its inner SELECT becomes the
		// inner SELECT's own header, handled naturally since parseSelectQuery
		// captures header from the lexeme it starts on.
		inner, err := p.parseSelectQuery()
		if err != nil {
			return nil, nil, err
		}
		cte.Query = inner
		if _, err := p.consumeKind(lexer.RParen, "`)`"); err != nil {
			return nil, nil, err
		}
		wc.Tables = append(wc.Tables, cte)
		if p.curIs(lexer.Comma) {
			p.advance()
			continue
		}
		break
	}
	return wc, extraHeader, nil
}

func (p *Parser) parseSimpleSelect(with *ast.WithClause) (*ast.SimpleSelectQuery, error) {
	if err := p.consumeKeyword("SELECT"); err != nil {
		return nil, err
	}
	q := &ast.SimpleSelectQuery{With: with}

	sel := &ast.SelectClause{}
	for p.curIs(lexer.HintBlock) {
		h := p.advance()
		sel.Hints = append(sel.Hints, &ast.HintClause{Text: h.Value})
	}
	if p.curIsKeyword("DISTINCT") {
		p.advance()
		if p.curIsKeyword("ON") {
			p.advance()
			if _, err := p.consumeKind(lexer.LParen, "`(`"); err != nil {
				return nil, err
			}
			items, err := p.parseExpressionList()
			if err != nil {
				return nil, err
			}
			if _, err := p.consumeKind(lexer.RParen, "`)`"); err != nil {
				return nil, err
			}
			sel.Distinct = ast.DistinctOn
			sel.DistinctOn = items
		} else {
			sel.Distinct = ast.DistinctPlain
		}
	} else if p.curIsKeyword("ALL") {
		p.advance()
	}

	// Clause-internal comments (between SELECT/DISTINCT and the first item)
	// attach to the enclosing SelectClause as `before`, including a same-line
	// trailing comment on the last keyword consumed.
	sel.AddPositionedComments(ast.Before, p.peek(-1).CommentsAt(lexer.After))
	sel.AddPositionedComments(ast.Before, p.cur().CommentsAt(lexer.Before))

	items, err := p.parseSelectItemList()
	if err != nil {
		return nil, err
	}
	sel.Items = items
	q.Select = sel

	if p.curIsKeyword("FROM") {
		from, err := p.parseFromClause()
		if err != nil {
			return nil, err
		}
		q.From = from
	}
	if p.curIsKeyword("WHERE") {
		p.advance()
		pred, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		q.Where = &ast.WhereClause{Predicate: pred}
	}
	if p.curIsKeyword("GROUP") {
		p.advance()
		if err := p.consumeKeyword("BY"); err != nil {
			return nil, err
		}
		items, err := p.parseExpressionList()
		if err != nil {
			return nil, err
		}
		q.GroupBy = &ast.GroupByClause{Items: items}
	}
	if p.curIsKeyword("HAVING") {
		p.advance()
		pred, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		q.Having = &ast.HavingClause{Predicate: pred}
	}
	if p.curIsKeyword("WINDOW") {
		wc, err := p.parseWindowClause()
		if err != nil {
			return nil, err
		}
		q.Window = wc
	}
	if p.curIsKeyword("ORDER") {
		ob, err := p.parseOrderByClause()
		if err != nil {
			return nil, err
		}
		q.OrderBy = ob
	}
	if p.curIsKeyword("LIMIT") {
		p.advance()
		v, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		q.Limit = &ast.LimitClause{Value: v}
	}
	if p.curIsKeyword("OFFSET") {
		p.advance()
		v, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if p.curIsWord("ROW") || p.curIsWord("ROWS") {
			p.advance()
		}
		q.Offset = &ast.OffsetClause{Value: v}
	}
	if p.curIsKeyword("FOR") {
		fc, err := p.parseForClause()
		if err != nil {
			return nil, err
		}
		q.For = fc
	}
	return q, nil
}

func (p *Parser) parseSelectItemList() ([]*ast.SelectItem, error) {
	var items []*ast.SelectItem
	for {
		// The first item's leading comments already went to the enclosing
		// SelectClause; later items own the comments that follow each comma.
		item, err := p.parseSelectItemCollect(len(items) > 0)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.curIs(lexer.Comma) {
			before := p.cur().CommentsAt(lexer.Before)
			item.AddPositionedComments(ast.After, before)
			p.advance()
			continue
		}
		break
	}
	return items, nil
}

func (p *Parser) parseSelectItem() (*ast.SelectItem, error) {
	return p.parseSelectItemCollect(true)
}

func (p *Parser) parseSelectItemCollect(collectBefore bool) (*ast.SelectItem, error) {
	before := p.cur().CommentsAt(lexer.Before)
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	item := &ast.SelectItem{Value: expr}
	if collectBefore {
		item.AddPositionedComments(ast.Before, before)
	}
	if p.curIsKeyword("AS") {
		p.advance()
		alias, err := p.parseIdentifierName()
		if err != nil {
			return nil, err
		}
		item.Alias = alias
	} else if p.curIs(lexer.Identifier) || p.curIs(lexer.QuotedIdentifier) {
		alias, err := p.parseIdentifierName()
		if err != nil {
			return nil, err
		}
		item.Alias = alias
	}
	// A same-line trailing comment folds onto the item's last lexeme as
	// After; pull it up so the item owns it.
	item.AddPositionedComments(ast.After, p.peek(-1).CommentsAt(lexer.After))
	return item, nil
}

func (p *Parser) parseExpressionList() ([]ast.Expression, error) {
	var out []ast.Expression
	for {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
		if p.curIs(lexer.Comma) {
			p.advance()
			continue
		}
		break
	}
	return out, nil
}

// --- FROM / JOIN ---------------------------------------------------------

func (p *Parser) parseFromClause() (*ast.FromClause, error) {
	if err := p.consumeKeyword("FROM"); err != nil {
		return nil, err
	}
	fc := &ast.FromClause{}
	for {
		swj, err := p.parseSourceWithJoins()
		if err != nil {
			return nil, err
		}
		fc.Sources = append(fc.Sources, swj)
		if p.curIs(lexer.Comma) {
			p.advance()
			continue
		}
		break
	}
	return fc, nil
}

func (p *Parser) parseSourceWithJoins() (*ast.SourceWithJoins, error) {
	base, err := p.parseSourceExpression()
	if err != nil {
		return nil, err
	}
	swj := &ast.SourceWithJoins{Base: base}
	for {
		jc, ok, err := p.tryParseJoin()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		swj.Joins = append(swj.Joins, jc)
	}
	return swj, nil
}

func (p *Parser) tryParseJoin() (*ast.JoinClause, bool, error) {
	lateral := false
	kind := ast.JoinInner
	matched := true
	switch {
	case p.curIsKeyword("JOIN"):
		p.advance()
	case p.curIsKeyword("INNER"):
		p.advance()
		if err := p.consumeKeyword("JOIN"); err != nil {
			return nil, false, err
		}
	case p.curIsKeyword("LEFT"):
		p.advance()
		if p.curIsWord("OUTER") {
			p.advance()
		}
		if err := p.consumeKeyword("JOIN"); err != nil {
			return nil, false, err
		}
		kind = ast.JoinLeft
	case p.curIsKeyword("RIGHT"):
		p.advance()
		if p.curIsWord("OUTER") {
			p.advance()
		}
		if err := p.consumeKeyword("JOIN"); err != nil {
			return nil, false, err
		}
		kind = ast.JoinRight
	case p.curIsKeyword("FULL"):
		p.advance()
		if p.curIsWord("OUTER") {
			p.advance()
		}
		if err := p.consumeKeyword("JOIN"); err != nil {
			return nil, false, err
		}
		kind = ast.JoinFull
	case p.curIsKeyword("CROSS"):
		p.advance()
		if err := p.consumeKeyword("JOIN"); err != nil {
			return nil, false, err
		}
		kind = ast.JoinCross
	case p.curIsKeyword("NATURAL"):
		p.advance()
		jk, err := p.naturalJoinKind()
		if err != nil {
			return nil, false, err
		}
		kind = jk
		source, err := p.parseSourceExpression()
		if err != nil {
			return nil, false, err
		}
		return &ast.JoinClause{JoinKind: kind, Source: source, ConditionKind: ast.JoinNatural}, true, nil
	default:
		matched = false
	}
	if !matched {
		return nil, false, nil
	}
	if p.curIsKeyword("LATERAL") {
		p.advance()
		lateral = true
	}
	source, err := p.parseSourceExpression()
	if err != nil {
		return nil, false, err
	}
	source.Lateral = lateral
	jc := &ast.JoinClause{JoinKind: kind, Lateral: lateral, Source: source}
	switch {
	case p.curIsKeyword("ON"):
		p.advance()
		cond, err := p.parseExpression()
		if err != nil {
			return nil, false, err
		}
		jc.ConditionKind = ast.JoinOn
		jc.On = cond
	case p.curIsKeyword("USING"):
		p.advance()
		if _, err := p.consumeKind(lexer.LParen, "`(`"); err != nil {
			return nil, false, err
		}
		for {
			id, err := p.parseIdentifierName()
			if err != nil {
				return nil, false, err
			}
			jc.Using = append(jc.Using, id)
			if p.curIs(lexer.Comma) {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.consumeKind(lexer.RParen, "`)`"); err != nil {
			return nil, false, err
		}
		jc.ConditionKind = ast.JoinUsing
	case kind == ast.JoinCross:
		// no condition required
	default:
		return nil, false, p.errorf("Expected `ON` or `USING` after join source")
	}
	return jc, true, nil
}

func (p *Parser) naturalJoinKind() (ast.JoinKind, error) {
	switch {
	case p.curIsKeyword("LEFT"):
		p.advance()
		if p.curIsWord("OUTER") {
			p.advance()
		}
		if err := p.consumeKeyword("JOIN"); err != nil {
			return 0, err
		}
		return ast.JoinLeft, nil
	case p.curIsKeyword("RIGHT"):
		p.advance()
		if p.curIsWord("OUTER") {
			p.advance()
		}
		if err := p.consumeKeyword("JOIN"); err != nil {
			return 0, err
		}
		return ast.JoinRight, nil
	case p.curIsKeyword("FULL"):
		p.advance()
		if p.curIsWord("OUTER") {
			p.advance()
		}
		if err := p.consumeKeyword("JOIN"); err != nil {
			return 0, err
		}
		return ast.JoinFull, nil
	case p.curIsKeyword("INNER"):
		p.advance()
		if err := p.consumeKeyword("JOIN"); err != nil {
			return 0, err
		}
		return ast.JoinInner, nil
	}
	if err := p.consumeKeyword("JOIN"); err != nil {
		return 0, err
	}
	return ast.JoinInner, nil
}

func (p *Parser) parseSourceExpression() (*ast.SourceExpression, error) {
	lateral := false
	if p.curIsKeyword("LATERAL") {
		p.advance()
		lateral = true
	}
	var body ast.SourceBody
	switch {
	case p.curIsKeyword("VALUES"):
		vc, err := p.parseValuesClause()
		if err != nil {
			return nil, err
		}
		body = &ast.ValuesSource{Values: vc}
	case p.curIs(lexer.LParen):
		p.advance()
		if p.curIsKeyword("SELECT") || p.curIsKeyword("WITH") || p.curIsKeyword("VALUES") {
			q, err := p.parseSetOpChainOrWith()
			if err != nil {
				return nil, err
			}
			if _, err := p.consumeKind(lexer.RParen, "`)`"); err != nil {
				return nil, err
			}
			body = &ast.SubQuerySource{Query: q}
		} else {
			inner, err := p.parseSourceWithJoins()
			if err != nil {
				return nil, err
			}
			if _, err := p.consumeKind(lexer.RParen, "`)`"); err != nil {
				return nil, err
			}
			body = &ast.ParenSource{Inner: inner}
		}
	default:
		id, err := p.parseQualifiedIdentifier()
		if err != nil {
			return nil, err
		}
		if p.curIs(lexer.LParen) {
			call, err := p.parseFunctionCallTail(id)
			if err != nil {
				return nil, err
			}
			body = &ast.FunctionSource{Call: call}
		} else {
			body = &ast.TableSource{Name: id}
		}
	}
	se := &ast.SourceExpression{Source: body, Lateral: lateral}
	if p.curIsKeyword("AS") {
		p.advance()
		alias, err := p.parseIdentifierName()
		if err != nil {
			return nil, err
		}
		se.Alias = alias
	} else if p.curIs(lexer.Identifier) || p.curIs(lexer.QuotedIdentifier) {
		alias, err := p.parseIdentifierName()
		if err != nil {
			return nil, err
		}
		se.Alias = alias
	}
	if se.Alias != nil && p.curIs(lexer.LParen) {
		p.advance()
		for {
			c, err := p.parseIdentifierName()
			if err != nil {
				return nil, err
			}
			se.ColumnAliases = append(se.ColumnAliases, c)
			if p.curIs(lexer.Comma) {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.consumeKind(lexer.RParen, "`)`"); err != nil {
			return nil, err
		}
	}
	return se, nil
}

// parseSetOpChainOrWith allows a parenthesized derived table to itself start
// with WITH.
func (p *Parser) parseSetOpChainOrWith() (ast.SelectQuery, error) {
	if p.curIsKeyword("WITH") {
		header := p.cur().CommentsAt(lexer.Before)
		with, extraHeader, err := p.parseWithClause()
		if err != nil {
			return nil, err
		}
		header = append(header, extraHeader...)
		var q ast.SelectQuery
		if p.curIsKeyword("VALUES") {
			q, err = p.parseValuesQueryWith(with)
		} else {
			q, err = p.parseSetOpChain(with)
		}
		if err != nil {
			return nil, err
		}
		if c, ok := q.(interface{ SetHeaderComments([]string) }); ok {
			c.SetHeaderComments(header)
		}
		return q, nil
	}
	return p.parseSelectQuery()
}

func (p *Parser) parseValuesClause() (*ast.ValuesClause, error) {
	if err := p.consumeKeyword("VALUES"); err != nil {
		return nil, err
	}
	vc := &ast.ValuesClause{}
	for {
		if _, err := p.consumeKind(lexer.LParen, "`(`"); err != nil {
			return nil, err
		}
		items, err := p.parseExpressionList()
		if err != nil {
			return nil, err
		}
		if _, err := p.consumeKind(lexer.RParen, "`)`"); err != nil {
			return nil, err
		}
		vc.Tuples = append(vc.Tuples, &ast.Tuple{Items: items})
		if p.curIs(lexer.Comma) {
			p.advance()
			continue
		}
		break
	}
	return vc, nil
}

func (p *Parser) parseValuesQueryWith(with *ast.WithClause) (ast.SelectQuery, error) {
	vc, err := p.parseValuesClause()
	if err != nil {
		return nil, err
	}
	return &ast.ValuesQuery{With: with, Tuples: vc.Tuples}, nil
}

func (p *Parser) parseValuesQuery(with *ast.WithClause) (ast.Statement, error) {
	header := p.cur().CommentsAt(lexer.Before)
	q, err := p.parseValuesQueryWith(with)
	if err != nil {
		return nil, err
	}
	if c, ok := q.(interface{ SetHeaderComments([]string) }); ok {
		c.SetHeaderComments(header)
	}
	return q, nil
}

func (p *Parser) parseWindowClause() (*ast.WindowClause, error) {
	p.advance() // WINDOW
	wc := &ast.WindowClause{}
	for {
		name, err := p.parseIdentifierName()
		if err != nil {
			return nil, err
		}
		if err := p.consumeKeyword("AS"); err != nil {
			return nil, err
		}
		if _, err := p.consumeKind(lexer.LParen, "`(`"); err != nil {
			return nil, err
		}
		spec, err := p.parseWindowSpecBody()
		if err != nil {
			return nil, err
		}
		if _, err := p.consumeKind(lexer.RParen, "`)`"); err != nil {
			return nil, err
		}
		wc.Windows = append(wc.Windows, &ast.NamedWindow{Name: name, Spec: spec})
		if p.curIs(lexer.Comma) {
			p.advance()
			continue
		}
		break
	}
	return wc, nil
}

func (p *Parser) parseOrderByClause() (*ast.OrderByClause, error) {
	p.advance() // ORDER
	if err := p.consumeKeyword("BY"); err != nil {
		return nil, err
	}
	oc := &ast.OrderByClause{}
	for {
		item, err := p.parseOrderByItem()
		if err != nil {
			return nil, err
		}
		oc.Items = append(oc.Items, item)
		if p.curIs(lexer.Comma) {
			p.advance()
			continue
		}
		break
	}
	return oc, nil
}

func (p *Parser) parseOrderByItem() (*ast.OrderByItem, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	item := &ast.OrderByItem{Expr: expr}
	switch {
	case p.curIsKeyword("ASC"):
		p.advance()
		item.Direction = ast.OrderAsc
	case p.curIsKeyword("DESC"):
		p.advance()
		item.Direction = ast.OrderDesc
	}
	if p.curIsWord("NULLS") {
		p.advance()
		switch {
		case p.curIsWord("FIRST"):
			p.advance()
			item.Nulls = ast.NullsFirst
		case p.curIsWord("LAST"):
			p.advance()
			item.Nulls = ast.NullsLast
		default:
			return nil, p.errorf("Expected `FIRST` or `LAST` after NULLS")
		}
	}
	return item, nil
}

func (p *Parser) parseForClause() (*ast.ForClause, error) {
	p.advance() // FOR
	fc := &ast.ForClause{}
	switch {
	case p.curIsKeyword("UPDATE"):
		p.advance()
		fc.Mode = ast.ForUpdate
	case p.curIsKeyword("SHARE"):
		p.advance()
		fc.Mode = ast.ForShare
	case p.curIsWord("NO"):
		p.advance()
		if err := p.consumeWord("KEY"); err != nil {
			return nil, err
		}
		if err := p.consumeKeyword("UPDATE"); err != nil {
			return nil, err
		}
		fc.Mode = ast.ForNoKeyUpdate
	case p.curIsWord("KEY"):
		p.advance()
		if err := p.consumeKeyword("SHARE"); err != nil {
			return nil, err
		}
		fc.Mode = ast.ForKeyShare
	default:
		return nil, p.errorf("Expected `UPDATE`, `SHARE`, `NO KEY UPDATE` or `KEY SHARE`")
	}
	if p.curIsWord("OF") {
		p.advance()
		for {
			id, err := p.parseQualifiedIdentifier()
			if err != nil {
				return nil, err
			}
			fc.Of = append(fc.Of, id)
			if p.curIs(lexer.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	switch {
	case p.curIsKeyword("NOWAIT"):
		p.advance()
		fc.Wait = ast.WaitNoWait
	case p.curIsKeyword("SKIP"):
		p.advance()
		if err := p.consumeKeyword("LOCKED"); err != nil {
			return nil, err
		}
		fc.Wait = ast.WaitSkipLocked
	}
	return fc, nil
}

