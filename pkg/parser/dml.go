package parser

import (
	"github.com/sqlkit-go/sqlkit/pkg/ast"
	"github.com/sqlkit-go/sqlkit/pkg/lexer"
)

// parseTargetSource parses the single-table target of INSERT/UPDATE/DELETE/
// MERGE: a qualified name with an optional alias, never a join tree.
func (p *Parser) parseTargetSource() (*ast.SourceExpression, error) {
	id, err := p.parseQualifiedIdentifier()
	if err != nil {
		return nil, err
	}
	se := &ast.SourceExpression{Source: &ast.TableSource{Name: id}}
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
	return se, nil
}

func (p *Parser) parseReturningClause() (*ast.ReturningClause, error) {
	p.advance() // RETURNING
	rc := &ast.ReturningClause{}
	if p.curIs(lexer.Operator) && p.cur().Value == "*" {
		p.advance()
		rc.Items = append(rc.Items, &ast.SelectItem{Value: &ast.Wildcard{}})
		return rc, nil
	}
	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		rc.Items = append(rc.Items, item)
		if p.curIs(lexer.Comma) {
			before := p.cur().CommentsAt(lexer.Before)
			item.AddPositionedComments(ast.After, before)
			p.advance()
			continue
		}
		break
	}
	return rc, nil
}

// --- INSERT --------------------------------------------------------------

func (p *Parser) parseInsert(with *ast.WithClause) (ast.Statement, error) {
	if err := p.consumeKeyword("INSERT"); err != nil {
		return nil, err
	}
	if err := p.consumeKeyword("INTO"); err != nil {
		return nil, err
	}
	target, err := p.parseTargetSource()
	if err != nil {
		return nil, err
	}
	q := &ast.InsertQuery{With: with, Target: target}

	if p.curIs(lexer.LParen) {
		p.advance()
		for {
			before := p.cur().CommentsAt(lexer.Before)
			col, err := p.parseIdentifierName()
			if err != nil {
				return nil, err
			}
			col.AddPositionedComments(ast.Before, before)
			q.Columns = append(q.Columns, col)
			if p.curIs(lexer.Comma) {
				after := p.cur().CommentsAt(lexer.Before)
				col.AddPositionedComments(ast.After, after)
				p.advance()
				continue
			}
			break
		}
		if _, err := p.consumeKind(lexer.RParen, "`)`"); err != nil {
			return nil, err
		}
	}

	switch {
	case p.curIsKeyword("DEFAULT"):
		p.advance()
		if err := p.consumeKeyword("VALUES"); err != nil {
			return nil, err
		}
		q.SourceKind = ast.InsertDefaultValues
	case p.curIsKeyword("VALUES"):
		vc, err := p.parseValuesClause()
		if err != nil {
			return nil, err
		}
		q.SourceKind = ast.InsertFromValues
		q.Values = vc
	case p.curIsKeyword("SELECT") || p.curIsKeyword("WITH"):
		sel, err := p.parseSetOpChainOrWith()
		if err != nil {
			return nil, err
		}
		q.SourceKind = ast.InsertFromSelect
		q.Select = sel
	default:
		return nil, p.errorf("Expected `VALUES`, `DEFAULT VALUES` or a SELECT after INSERT target")
	}

	if p.curIsKeyword("ON") {
		p.advance()
		if err := p.consumeKeyword("CONFLICT"); err != nil {
			return nil, err
		}
		oc := &ast.OnConflictClause{}
		if p.curIs(lexer.LParen) {
			p.advance()
			for {
				col, err := p.parseIdentifierName()
				if err != nil {
					return nil, err
				}
				oc.Columns = append(oc.Columns, col)
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
		if err := p.consumeKeyword("DO"); err != nil {
			return nil, err
		}
		if p.curIsKeyword("NOTHING") {
			p.advance()
			oc.Action = ast.ConflictDoNothing
		} else if err := p.consumeKeyword("UPDATE"); err == nil {
			oc.Action = ast.ConflictDoUpdate
			if err := p.consumeKeyword("SET"); err != nil {
				return nil, err
			}
			set, err := p.parseSetClauseItems()
			if err != nil {
				return nil, err
			}
			oc.Set = set
			if p.curIsKeyword("WHERE") {
				p.advance()
				pred, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				oc.Where = &ast.WhereClause{Predicate: pred}
			}
		} else {
			return nil, err
		}
		q.OnConflict = oc
	}

	if p.curIsKeyword("RETURNING") {
		rc, err := p.parseReturningClause()
		if err != nil {
			return nil, err
		}
		q.Returning = rc
	}
	return q, nil
}

// --- UPDATE ----------------------------------------------------------------

// parseSetClauseItems parses `col = val, col = val, ...`; comments before
// the `=` attach to the target column's `after` positioned comments.
func (p *Parser) parseSetClauseItems() (*ast.SetClause, error) {
	sc := &ast.SetClause{}
	for {
		before := p.cur().CommentsAt(lexer.Before)
		col, err := p.parseIdentifierName()
		if err != nil {
			return nil, err
		}
		col.AddPositionedComments(ast.Before, before)
		col.AddPositionedComments(ast.After, p.peek(-1).CommentsAt(lexer.After))
		col.AddPositionedComments(ast.After, p.cur().CommentsAt(lexer.Before))
		if !p.curIs(lexer.Operator) || p.cur().Value != "=" {
			return nil, p.errorf("Expected `=`")
		}
		p.advance()
		val, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		item := &ast.SetItem{Column: col, Value: val}
		sc.Items = append(sc.Items, item)
		if p.curIs(lexer.Comma) {
			after := p.cur().CommentsAt(lexer.Before)
			item.AddPositionedComments(ast.After, after)
			p.advance()
			continue
		}
		break
	}
	return sc, nil
}

func (p *Parser) parseUpdate(with *ast.WithClause) (ast.Statement, error) {
	if err := p.consumeKeyword("UPDATE"); err != nil {
		return nil, err
	}
	target, err := p.parseTargetSource()
	if err != nil {
		return nil, err
	}
	if err := p.consumeKeyword("SET"); err != nil {
		return nil, err
	}
	set, err := p.parseSetClauseItems()
	if err != nil {
		return nil, err
	}
	q := &ast.UpdateQuery{With: with, Target: target, Set: set}
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
	if p.curIsKeyword("RETURNING") {
		rc, err := p.parseReturningClause()
		if err != nil {
			return nil, err
		}
		q.Returning = rc
	}
	return q, nil
}

// --- DELETE ------------------------------------------------------------

func (p *Parser) parseDelete(with *ast.WithClause) (ast.Statement, error) {
	if err := p.consumeKeyword("DELETE"); err != nil {
		return nil, err
	}
	if err := p.consumeKeyword("FROM"); err != nil {
		return nil, err
	}
	target, err := p.parseTargetSource()
	if err != nil {
		return nil, err
	}
	q := &ast.DeleteQuery{With: with, Target: target}
	if p.curIsKeyword("USING") {
		p.advance()
		uc := &ast.UsingClause{}
		for {
			src, err := p.parseSourceExpression()
			if err != nil {
				return nil, err
			}
			uc.Sources = append(uc.Sources, src)
			if p.curIs(lexer.Comma) {
				p.advance()
				continue
			}
			break
		}
		q.Using = uc
	}
	if p.curIsKeyword("WHERE") {
		p.advance()
		pred, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		q.Where = &ast.WhereClause{Predicate: pred}
	}
	if p.curIsKeyword("RETURNING") {
		rc, err := p.parseReturningClause()
		if err != nil {
			return nil, err
		}
		q.Returning = rc
	}
	return q, nil
}

// --- MERGE ------------------------------------------------------------

func (p *Parser) parseMerge(with *ast.WithClause) (ast.Statement, error) {
	if err := p.consumeKeyword("MERGE"); err != nil {
		return nil, err
	}
	if err := p.consumeKeyword("INTO"); err != nil {
		return nil, err
	}
	into, err := p.parseTargetSource()
	if err != nil {
		return nil, err
	}
	if err := p.consumeKeyword("USING"); err != nil {
		return nil, err
	}
	using, err := p.parseSourceExpression()
	if err != nil {
		return nil, err
	}
	if err := p.consumeKeyword("ON"); err != nil {
		return nil, err
	}
	on, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	q := &ast.MergeQuery{With: with, Into: into, Using: using, On: on}
	for p.curIsKeyword("WHEN") {
		wc, err := p.parseMergeWhenClause()
		if err != nil {
			return nil, err
		}
		q.WhenClauses = append(q.WhenClauses, wc)
	}
	if len(q.WhenClauses) == 0 {
		return nil, p.errorf("Expected at least one `WHEN` clause in MERGE")
	}
	return q, nil
}

func (p *Parser) parseMergeWhenClause() (*ast.WhenClause, error) {
	p.advance() // WHEN
	wc := &ast.WhenClause{}
	if p.curIsKeyword("NOT") {
		p.advance()
		if err := p.consumeKeyword("MATCHED"); err != nil {
			return nil, err
		}
		if p.curIsKeyword("BY") {
			p.advance()
			switch {
			case p.curIsWord("SOURCE"):
				p.advance()
				wc.MatchKind = ast.MergeNotMatchedBySource
			case p.curIsWord("TARGET"):
				p.advance()
				wc.MatchKind = ast.MergeNotMatchedByTarget
			default:
				return nil, p.errorf("Expected `SOURCE` or `TARGET` after `BY`")
			}
		} else {
			wc.MatchKind = ast.MergeNotMatchedByTarget
		}
	} else {
		if err := p.consumeKeyword("MATCHED"); err != nil {
			return nil, err
		}
		wc.MatchKind = ast.MergeMatched
	}
	if p.curIsKeyword("AND") {
		p.advance()
		cond, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		wc.Condition = cond
	}
	// Comments leading THEN belong to the when-clause's ThenLeadingComments
	// slot; comments after THEN but before the action belong to the action.
	wc.ThenLeadingComments = append([]string(nil), p.cur().CommentsAt(lexer.Before)...)
	if err := p.consumeKeyword("THEN"); err != nil {
		return nil, err
	}
	// A comment after THEN folds onto the THEN lexeme when it shares its
	// line, or onto the action's first lexeme otherwise; both lead the action.
	actionLeading := append([]string(nil), p.peek(-1).CommentsAt(lexer.After)...)
	actionLeading = append(actionLeading, p.cur().CommentsAt(lexer.Before)...)

	action, err := p.parseMergeAction()
	if err != nil {
		return nil, err
	}
	action.AddPositionedComments(ast.Before, actionLeading)
	wc.Action = action
	return wc, nil
}

func (p *Parser) parseMergeAction() (*ast.MergeAction, error) {
	switch {
	case p.curIsKeyword("UPDATE"):
		p.advance()
		if err := p.consumeKeyword("SET"); err != nil {
			return nil, err
		}
		set, err := p.parseSetClauseItems()
		if err != nil {
			return nil, err
		}
		action := &ast.MergeAction{ActionKind: ast.MergeActionUpdate, Set: set}
		if p.curIsKeyword("WHERE") {
			p.advance()
			pred, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			action.Where = &ast.WhereClause{Predicate: pred}
		}
		return action, nil
	case p.curIsKeyword("DELETE"):
		p.advance()
		action := &ast.MergeAction{ActionKind: ast.MergeActionDelete}
		if p.curIsKeyword("WHERE") {
			p.advance()
			pred, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			action.Where = &ast.WhereClause{Predicate: pred}
		}
		return action, nil
	case p.curIsKeyword("INSERT"):
		p.advance()
		action := &ast.MergeAction{ActionKind: ast.MergeActionInsert}
		if p.curIsKeyword("DEFAULT") {
			p.advance()
			if err := p.consumeKeyword("VALUES"); err != nil {
				return nil, err
			}
			action.DefaultValues = true
			return action, nil
		}
		if p.curIs(lexer.LParen) {
			p.advance()
			for {
				col, err := p.parseIdentifierName()
				if err != nil {
					return nil, err
				}
				action.Columns = append(action.Columns, col)
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
		if err := p.consumeKeyword("VALUES"); err != nil {
			return nil, err
		}
		if _, err := p.consumeKind(lexer.LParen, "`(`"); err != nil {
			return nil, err
		}
		vals, err := p.parseExpressionList()
		if err != nil {
			return nil, err
		}
		if _, err := p.consumeKind(lexer.RParen, "`)`"); err != nil {
			return nil, err
		}
		action.Values = vals
		return action, nil
	case p.curIsKeyword("DO"):
		p.advance()
		if err := p.consumeKeyword("NOTHING"); err != nil {
			return nil, err
		}
		return &ast.MergeAction{ActionKind: ast.MergeActionDoNothing}, nil
	}
	return nil, p.errorf("Expected `UPDATE`, `DELETE`, `INSERT` or `DO NOTHING` after THEN")
}
