package parser

import (
	"strconv"
	"strings"

	"github.com/sqlkit-go/sqlkit/pkg/ast"
	"github.com/sqlkit-go/sqlkit/pkg/lexer"
)

// parseExpression is the entry point of the precedence-climbing expression
// grammar: OR < AND < NOT < comparison/IS/BETWEEN/IN/LIKE < additive <
// multiplicative < unary < postfix (cast/array access) < primary.
func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (ast.Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.curIsKeyword("OR") {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: "OR", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expression, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.curIsKeyword("AND") {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: "AND", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseNot() (ast.Expression, error) {
	if p.curIsKeyword("NOT") && !p.peekIsKeyword(1, "EXISTS") {
		p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: "NOT", Operand: operand, Prefix: true}, nil
	}
	return p.parseComparison()
}

var comparisonOps = map[string]bool{
	"=": true, "<>": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
}

// parseComparison handles comparison operators and the predicate family
// (BETWEEN, IN, LIKE/ILIKE, IS) that all bind at the same precedence tier
// and operate on an additive-level left operand.
func (p *Parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.curIs(lexer.Operator) && comparisonOps[p.cur().Value]:
			op := p.advance().Value
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			left = &ast.BinaryOp{Op: op, Left: left, Right: right}
			continue
		case p.curIsKeyword("BETWEEN"):
			node, err := p.parseBetween(left, false)
			if err != nil {
				return nil, err
			}
			left = node
			continue
		case p.curIsKeyword("IN"):
			node, err := p.parseInList(left, false)
			if err != nil {
				return nil, err
			}
			left = node
			continue
		case p.curIsKeyword("LIKE") || p.curIsKeyword("ILIKE"):
			node, err := p.parseLike(left, false)
			if err != nil {
				return nil, err
			}
			left = node
			continue
		case p.curIsKeyword("IS"):
			node, err := p.parseIsCheck(left)
			if err != nil {
				return nil, err
			}
			left = node
			continue
		case p.curIsKeyword("NOT") && p.peekStartsNegatablePredicate():
			p.advance()
			switch {
			case p.curIsKeyword("BETWEEN"):
				node, err := p.parseBetween(left, true)
				if err != nil {
					return nil, err
				}
				left = node
			case p.curIsKeyword("IN"):
				node, err := p.parseInList(left, true)
				if err != nil {
					return nil, err
				}
				left = node
			case p.curIsKeyword("LIKE") || p.curIsKeyword("ILIKE"):
				node, err := p.parseLike(left, true)
				if err != nil {
					return nil, err
				}
				left = node
			}
			continue
		}
		return left, nil
	}
}

func (p *Parser) peekStartsNegatablePredicate() bool {
	return p.curIsKeyword("NOT") && (p.peekIsKeyword(1, "BETWEEN") || p.peekIsKeyword(1, "IN") || p.peekIsKeyword(1, "LIKE") || p.peekIsKeyword(1, "ILIKE"))
}

func (p *Parser) parseBetween(target ast.Expression, negated bool) (ast.Expression, error) {
	p.advance() // BETWEEN
	low, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if err := p.consumeKeyword("AND"); err != nil {
		return nil, err
	}
	high, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	return &ast.Between{Target: target, Low: low, High: high, Negated: negated}, nil
}

func (p *Parser) parseInList(target ast.Expression, negated bool) (ast.Expression, error) {
	p.advance() // IN
	if _, err := p.consumeKind(lexer.LParen, "`(`"); err != nil {
		return nil, err
	}
	var list ast.Expression
	if p.curIsKeyword("SELECT") || p.curIsKeyword("WITH") {
		q, err := p.parseSetOpChainOrWith()
		if err != nil {
			return nil, err
		}
		list = &ast.SubQuery{Query: q}
	} else {
		items, err := p.parseExpressionList()
		if err != nil {
			return nil, err
		}
		list = &ast.ValueList{Items: items}
	}
	if _, err := p.consumeKind(lexer.RParen, "`)`"); err != nil {
		return nil, err
	}
	return &ast.InList{Target: target, List: list, Negated: negated}, nil
}

func (p *Parser) parseLike(target ast.Expression, negated bool) (ast.Expression, error) {
	caseFold := p.curIsKeyword("ILIKE")
	p.advance() // LIKE/ILIKE
	pattern, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	like := &ast.Like{Target: target, Pattern: pattern, Negated: negated, CaseFold: caseFold}
	if p.curIsKeyword("ESCAPE") {
		p.advance()
		esc, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		like.Escape = esc
	}
	return like, nil
}

func (p *Parser) parseIsCheck(target ast.Expression) (ast.Expression, error) {
	p.advance() // IS
	negated := false
	if p.curIsKeyword("NOT") {
		p.advance()
		negated = true
	}
	switch {
	case p.curIsLiteral("NULL"):
		p.advance()
		return &ast.IsCheck{Target: target, Predicate: "NULL", Negated: negated}, nil
	case p.curIsLiteral("TRUE"):
		p.advance()
		return &ast.IsCheck{Target: target, Predicate: "TRUE", Negated: negated}, nil
	case p.curIsLiteral("FALSE"):
		p.advance()
		return &ast.IsCheck{Target: target, Predicate: "FALSE", Negated: negated}, nil
	case p.curIsKeyword("UNKNOWN"):
		p.advance()
		return &ast.IsCheck{Target: target, Predicate: "UNKNOWN", Negated: negated}, nil
	case p.curIsKeyword("DISTINCT"):
		p.advance()
		if err := p.consumeKeyword("FROM"); err != nil {
			return nil, err
		}
		other, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &ast.IsCheck{Target: target, Predicate: "DISTINCT FROM", Other: other, Negated: negated}, nil
	}
	return nil, p.errorf("Expected `NULL`, `TRUE`, `FALSE`, `UNKNOWN` or `DISTINCT FROM` after IS")
}

var additiveOps = map[string]bool{"+": true, "-": true, "||": true}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.curIs(lexer.Operator) && additiveOps[p.cur().Value] {
		op := p.advance().Value
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: op, Left: left, Right: right}
	}
	return left, nil
}

var multiplicativeOps = map[string]bool{"*": true, "/": true, "%": true}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.curIs(lexer.Operator) && multiplicativeOps[p.cur().Value] {
		op := p.advance().Value
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	if p.curIs(lexer.Operator) && (p.cur().Value == "-" || p.cur().Value == "+") {
		op := p.advance().Value
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: op, Operand: operand, Prefix: true}, nil
	}
	return p.parsePostfix()
}

// parsePostfix handles the chainable postfix productions: `::type` casts,
// `[index]`/`[start:end]` array access, applied left to right.
func (p *Parser) parsePostfix() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.curIs(lexer.Operator) && p.cur().Value == "::":
			p.advance()
			t, err := p.parseTypeName()
			if err != nil {
				return nil, err
			}
			expr = &ast.Cast{Expr: expr, TargetType: t}
		case p.curIs(lexer.LBracket):
			p.advance()
			node, err := p.parseArrayAccessTail(expr)
			if err != nil {
				return nil, err
			}
			expr = node
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseArrayAccessTail(array ast.Expression) (ast.Expression, error) {
	if p.curIs(lexer.Operator) && p.cur().Value == ":" {
		p.advance()
		if p.curIs(lexer.RBracket) {
			p.advance()
			return &ast.ArraySlice{Array: array}, nil
		}
		end, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consumeKind(lexer.RBracket, "`]`"); err != nil {
			return nil, err
		}
		return &ast.ArraySlice{Array: array, End: end}, nil
	}
	first, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.curIs(lexer.Operator) && p.cur().Value == ":" {
		p.advance()
		if p.curIs(lexer.RBracket) {
			p.advance()
			return &ast.ArraySlice{Array: array, Start: first}, nil
		}
		end, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consumeKind(lexer.RBracket, "`]`"); err != nil {
			return nil, err
		}
		return &ast.ArraySlice{Array: array, Start: first, End: end}, nil
	}
	if _, err := p.consumeKind(lexer.RBracket, "`]`"); err != nil {
		return nil, err
	}
	return &ast.ArrayIndex{Array: array, Index: first}, nil
}

// parseTypeName parses a cast target type: optional namespace, name,
// optional (args), optional [] array suffix.
func (p *Parser) parseTypeName() (ast.TypeName, error) {
	id, err := p.parseQualifiedIdentifier()
	if err != nil {
		return ast.TypeName{}, err
	}
	t := ast.TypeName{Namespaces: id.Namespaces, Name: id.Name.Value}
	if p.curIs(lexer.LParen) {
		p.advance()
		args, err := p.parseExpressionList()
		if err != nil {
			return ast.TypeName{}, err
		}
		t.Args = args
		if _, err := p.consumeKind(lexer.RParen, "`)`"); err != nil {
			return ast.TypeName{}, err
		}
	}
	if p.curIs(lexer.LBracket) {
		p.advance()
		if _, err := p.consumeKind(lexer.RBracket, "`]`"); err != nil {
			return ast.TypeName{}, err
		}
		t.IsArray = true
	}
	return t, nil
}

// parsePrimary parses the atoms of the expression grammar: literals,
// parameters, parenthesized expressions/subqueries, CASE, EXISTS, CAST,
// EXTRACT, function calls, and identifiers/wildcards.
func (p *Parser) parsePrimary() (ast.Expression, error) {
	c := p.cur()
	switch {
	case c.Kind == lexer.StringLiteral:
		p.advance()
		return &ast.Literal{LitKind: ast.LitString, Raw: c.Value, Prefix: c.Prefix}, nil
	case c.Kind == lexer.NumericLiteral:
		p.advance()
		return &ast.Literal{LitKind: ast.LitNumber, Raw: c.Value}, nil
	case c.Kind == lexer.Literal:
		p.advance()
		switch strings.ToUpper(c.Value) {
		case "NULL":
			return &ast.Literal{LitKind: ast.LitNull, Raw: c.Value}, nil
		default:
			return &ast.Literal{LitKind: ast.LitBoolean, Raw: c.Value}, nil
		}
	case c.Kind == lexer.ParameterPlaceholder:
		p.advance()
		return p.paramRefFromLexeme(c)
	case p.curIs(lexer.Operator) && c.Value == "*":
		p.advance()
		return &ast.Wildcard{}, nil
	case p.curIsKeyword("CASE"):
		return p.parseCase()
	case p.curIsKeyword("EXISTS"):
		return p.parseExists(false)
	case p.curIsKeyword("NOT") && p.peekIsKeyword(1, "EXISTS"):
		p.advance()
		return p.parseExists(true)
	case p.curIsKeyword("CAST"):
		return p.parseCastKeyword()
	case p.curIsKeyword("EXTRACT"):
		return p.parseExtract()
	case p.curIs(lexer.LParen):
		return p.parseParenthesized()
	}
	return p.parseIdentifierOrCall()
}

// paramRefFromLexeme normalizes the four placeholder spellings: `?` carries
// neither name nor index, `$N` carries an index, `:name` and `@name` carry
// the bare name with the symbol stripped.
func (p *Parser) paramRefFromLexeme(c lexer.Lexeme) (ast.Expression, error) {
	v := c.Value
	switch {
	case v == "?":
		return &ast.ParameterRef{}, nil
	case strings.HasPrefix(v, "$"):
		if n, err := strconv.Atoi(v[1:]); err == nil {
			return &ast.ParameterRef{Index: &n}, nil
		}
	case strings.HasPrefix(v, ":") || strings.HasPrefix(v, "@"):
		name := v[1:]
		return &ast.ParameterRef{Name: &name}, nil
	}
	name := v
	return &ast.ParameterRef{Name: &name}, nil
}

func (p *Parser) parseCase() (ast.Expression, error) {
	p.advance() // CASE
	cs := &ast.Case{}
	if !p.curIsKeyword("WHEN") {
		discriminant, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		cs.Discriminant = discriminant
	}
	for p.curIsKeyword("WHEN") {
		p.advance()
		when, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.consumeKeyword("THEN"); err != nil {
			return nil, err
		}
		then, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		cs.Branches = append(cs.Branches, ast.CaseBranch{When: when, Then: then})
	}
	if p.curIsKeyword("ELSE") {
		p.advance()
		elseExpr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		cs.Else = elseExpr
	}
	if err := p.consumeKeyword("END"); err != nil {
		return nil, err
	}
	return cs, nil
}

func (p *Parser) parseExists(negated bool) (ast.Expression, error) {
	p.advance() // EXISTS
	if _, err := p.consumeKind(lexer.LParen, "`(`"); err != nil {
		return nil, err
	}
	q, err := p.parseSetOpChainOrWith()
	if err != nil {
		return nil, err
	}
	if _, err := p.consumeKind(lexer.RParen, "`)`"); err != nil {
		return nil, err
	}
	return &ast.Exists{Query: q, Negated: negated}, nil
}

func (p *Parser) parseCastKeyword() (ast.Expression, error) {
	p.advance() // CAST
	if _, err := p.consumeKind(lexer.LParen, "`(`"); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.consumeKeyword("AS"); err != nil {
		return nil, err
	}
	t, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	if _, err := p.consumeKind(lexer.RParen, "`)`"); err != nil {
		return nil, err
	}
	return &ast.Cast{Expr: expr, TargetType: t}, nil
}

// extractUnits is the closed list of EXTRACT field names.
var extractUnits = map[string]bool{
	"CENTURY": true, "DAY": true, "DECADE": true, "DOW": true, "DOY": true,
	"EPOCH": true, "HOUR": true, "ISODOW": true, "ISOYEAR": true,
	"MICROSECONDS": true, "MILLENNIUM": true, "MILLISECONDS": true,
	"MINUTE": true, "MONTH": true, "QUARTER": true, "SECOND": true,
	"TIMEZONE": true, "TIMEZONE_HOUR": true, "TIMEZONE_MINUTE": true,
	"WEEK": true, "YEAR": true,
}

func (p *Parser) parseExtract() (ast.Expression, error) {
	p.advance() // EXTRACT
	if _, err := p.consumeKind(lexer.LParen, "`(`"); err != nil {
		return nil, err
	}
	unit := p.cur().Value
	if !extractUnits[strings.ToUpper(unit)] {
		return nil, p.errorf("Unsupported EXTRACT field %q", unit)
	}
	p.advance()
	if err := p.consumeKeyword("FROM"); err != nil {
		return nil, err
	}
	src, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consumeKind(lexer.RParen, "`)`"); err != nil {
		return nil, err
	}
	return &ast.FunctionCall{
		Qualified: ast.NewIdentifier("EXTRACT"),
		Args:      []ast.Expression{&ast.Literal{LitKind: ast.LitString, Raw: strings.ToUpper(unit)}, src},
	}, nil
}

func (p *Parser) parseParenthesized() (ast.Expression, error) {
	p.advance() // (
	if p.curIsKeyword("SELECT") || p.curIsKeyword("WITH") || p.curIsKeyword("VALUES") {
		q, err := p.parseSetOpChainOrWith()
		if err != nil {
			return nil, err
		}
		if _, err := p.consumeKind(lexer.RParen, "`)`"); err != nil {
			return nil, err
		}
		return &ast.SubQuery{Query: q}, nil
	}
	first, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.curIs(lexer.Comma) {
		items := []ast.Expression{first}
		for p.curIs(lexer.Comma) {
			p.advance()
			next, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			items = append(items, next)
		}
		if _, err := p.consumeKind(lexer.RParen, "`)`"); err != nil {
			return nil, err
		}
		return &ast.Tuple{Items: items}, nil
	}
	if _, err := p.consumeKind(lexer.RParen, "`)`"); err != nil {
		return nil, err
	}
	return first, nil
}

// parseIdentifierOrCall parses a (possibly qualified) identifier, a
// `table.*` wildcard, or a function call with its OVER/FILTER/WITHIN GROUP
// trailers.
func (p *Parser) parseIdentifierOrCall() (ast.Expression, error) {
	id, err := p.parseQualifiedIdentifier()
	if err != nil {
		return nil, err
	}
	if p.curIs(lexer.Dot) && p.peekIsStar(1) {
		p.advance() // .
		p.advance() // *
		qualifier := id.Name.Value
		if len(id.Namespaces) > 0 {
			qualifier = strings.Join(append(append([]string(nil), id.Namespaces...), id.Name.Value), ".")
		}
		return &ast.Wildcard{Qualifier: qualifier}, nil
	}
	if p.curIs(lexer.LParen) {
		return p.parseFunctionCallTail(id)
	}
	return id, nil
}

func (p *Parser) peekIsStar(offset int) bool {
	c := p.peek(offset)
	return c.Kind == lexer.Operator && c.Value == "*"
}

func (p *Parser) parseFunctionCallTail(name *ast.Identifier) (*ast.FunctionCall, error) {
	p.advance() // (
	fc := &ast.FunctionCall{Qualified: name}
	if p.curIs(lexer.Operator) && p.cur().Value == "*" {
		p.advance()
		fc.Star = true
	} else if !p.curIs(lexer.RParen) {
		if p.curIsKeyword("DISTINCT") {
			p.advance()
			fc.Distinct = true
		}
		items, err := p.parseExpressionList()
		if err != nil {
			return nil, err
		}
		fc.Args = items
		if p.curIsKeyword("ORDER") {
			ob, err := p.parseOrderByClause()
			if err != nil {
				return nil, err
			}
			fc.OrderBy = ob
		}
	} else {
		fc.Args = []ast.Expression{}
	}
	if _, err := p.consumeKind(lexer.RParen, "`)`"); err != nil {
		return nil, err
	}
	if p.curIsKeyword("WITHIN") {
		p.advance()
		if err := p.consumeKeyword("GROUP"); err != nil {
			return nil, err
		}
		if _, err := p.consumeKind(lexer.LParen, "`(`"); err != nil {
			return nil, err
		}
		ob, err := p.parseOrderByClause()
		if err != nil {
			return nil, err
		}
		fc.WithinGroup = ob
		if _, err := p.consumeKind(lexer.RParen, "`)`"); err != nil {
			return nil, err
		}
	}
	if p.curIsKeyword("WITH") && p.peekIsWord(1, "ORDINALITY") {
		p.advance()
		p.advance()
		fc.WithOrdinality = true
	}
	if p.curIsKeyword("FILTER") {
		p.advance()
		if _, err := p.consumeKind(lexer.LParen, "`(`"); err != nil {
			return nil, err
		}
		if err := p.consumeKeyword("WHERE"); err != nil {
			return nil, err
		}
		pred, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		fc.Filter = pred
		if _, err := p.consumeKind(lexer.RParen, "`)`"); err != nil {
			return nil, err
		}
	}
	if p.curIsKeyword("OVER") {
		p.advance()
		if p.curIs(lexer.LParen) {
			p.advance()
			spec, err := p.parseWindowSpecBody()
			if err != nil {
				return nil, err
			}
			if _, err := p.consumeKind(lexer.RParen, "`)`"); err != nil {
				return nil, err
			}
			fc.OverSpec = spec
		} else {
			name, err := p.parseIdentifierName()
			if err != nil {
				return nil, err
			}
			fc.OverName = name.Name.Value
		}
	}
	return fc, nil
}

// parseWindowSpecBody parses the inside of `(...)` for both OVER(...) and a
// WINDOW clause entry: optional base window name, PARTITION BY, ORDER BY,
// frame clause.
func (p *Parser) parseWindowSpecBody() (*ast.WindowSpec, error) {
	spec := &ast.WindowSpec{}
	if p.curIs(lexer.Identifier) && !p.curIsAnyWord("PARTITION", "ORDER", "ROWS", "RANGE", "GROUPS") {
		name, err := p.parseIdentifierName()
		if err != nil {
			return nil, err
		}
		spec.BaseName = name.Name.Value
	}
	if p.curIsWord("PARTITION") {
		p.advance()
		if err := p.consumeKeyword("BY"); err != nil {
			return nil, err
		}
		items, err := p.parseExpressionList()
		if err != nil {
			return nil, err
		}
		spec.PartitionBy = items
	}
	if p.curIsKeyword("ORDER") {
		ob, err := p.parseOrderByClause()
		if err != nil {
			return nil, err
		}
		spec.OrderBy = ob
	}
	if p.curIsWord("ROWS") || p.curIsWord("RANGE") || p.curIsWord("GROUPS") {
		frame, err := p.parseWindowFrame()
		if err != nil {
			return nil, err
		}
		spec.Frame = frame
	}
	return spec, nil
}

func (p *Parser) parseWindowFrame() (*ast.WindowFrame, error) {
	unit := ast.FrameRows
	switch {
	case p.curIsWord("RANGE"):
		unit = ast.FrameRange
	case p.curIsWord("GROUPS"):
		unit = ast.FrameGroups
	}
	p.advance()
	frame := &ast.WindowFrame{Unit: unit}
	if p.curIsKeyword("BETWEEN") {
		p.advance()
		start, err := p.parseFrameBound()
		if err != nil {
			return nil, err
		}
		if err := p.consumeKeyword("AND"); err != nil {
			return nil, err
		}
		end, err := p.parseFrameBound()
		if err != nil {
			return nil, err
		}
		frame.Start = start
		frame.End = &end
		return frame, nil
	}
	start, err := p.parseFrameBound()
	if err != nil {
		return nil, err
	}
	frame.Start = start
	return frame, nil
}

func (p *Parser) parseFrameBound() (ast.FrameBound, error) {
	switch {
	case p.curIsWord("UNBOUNDED"):
		p.advance()
		if p.curIsWord("PRECEDING") {
			p.advance()
			return ast.FrameBound{BoundKind: ast.BoundUnboundedPreceding}, nil
		}
		if p.curIsWord("FOLLOWING") {
			p.advance()
			return ast.FrameBound{BoundKind: ast.BoundUnboundedFollowing}, nil
		}
		return ast.FrameBound{}, p.errorf("Expected `PRECEDING` or `FOLLOWING` after UNBOUNDED")
	case p.curIsWord("CURRENT"):
		p.advance()
		if err := p.consumeWord("ROW"); err != nil {
			return ast.FrameBound{}, err
		}
		return ast.FrameBound{BoundKind: ast.BoundCurrentRow}, nil
	default:
		offset, err := p.parseAdditive()
		if err != nil {
			return ast.FrameBound{}, err
		}
		if p.curIsWord("PRECEDING") {
			p.advance()
			return ast.FrameBound{BoundKind: ast.BoundPreceding, Offset: offset}, nil
		}
		if p.curIsWord("FOLLOWING") {
			p.advance()
			return ast.FrameBound{BoundKind: ast.BoundFollowing, Offset: offset}, nil
		}
		return ast.FrameBound{}, p.errorf("Expected `PRECEDING` or `FOLLOWING`")
	}
}
