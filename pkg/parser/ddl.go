package parser

import (
	"strings"

	"github.com/sqlkit-go/sqlkit/pkg/ast"
	"github.com/sqlkit-go/sqlkit/pkg/lexer"
)

func (p *Parser) parseDropBehavior() ast.DropBehavior {
	switch {
	case p.curIsKeyword("CASCADE"):
		p.advance()
		return ast.BehaviorCascade
	case p.curIsKeyword("RESTRICT"):
		p.advance()
		return ast.BehaviorRestrict
	}
	return ast.BehaviorUnspecified
}

func (p *Parser) parseNameList() ([]*ast.Identifier, error) {
	var out []*ast.Identifier
	for {
		id, err := p.parseQualifiedIdentifier()
		if err != nil {
			return nil, err
		}
		out = append(out, id)
		if p.curIs(lexer.Comma) {
			p.advance()
			continue
		}
		break
	}
	return out, nil
}

// --- CREATE ----------------------------------------------------------------

func (p *Parser) parseCreate() (ast.Statement, error) {
	p.advance() // CREATE
	switch {
	case p.curIsKeyword("TABLE"):
		return p.parseCreateTable()
	case p.curIsKeyword("UNIQUE"):
		return p.parseCreateIndex(true)
	case p.curIsKeyword("INDEX"):
		return p.parseCreateIndex(false)
	case p.curIsKeyword("SEQUENCE"):
		return p.parseCreateSequence()
	case p.curIsKeyword("SCHEMA"):
		return p.parseCreateSchema()
	}
	return nil, p.errorf("Expected `TABLE`, `[UNIQUE] INDEX`, `SEQUENCE` or `SCHEMA` after CREATE")
}

func (p *Parser) parseCreateTable() (ast.Statement, error) {
	p.advance() // TABLE
	q := &ast.CreateTableQuery{}
	if p.curIsKeyword("IF") {
		p.advance()
		if err := p.consumeKeyword("NOT"); err != nil {
			return nil, err
		}
		if err := p.consumeKeyword("EXISTS"); err != nil {
			return nil, err
		}
		q.IfNotExists = true
	}
	if p.curIsKeyword("TEMPORARY") || p.curIsWord("TEMP") {
		p.advance()
		q.IsTemporary = true
	}
	name, err := p.parseQualifiedIdentifier()
	if err != nil {
		return nil, err
	}
	q.Name = name
	if p.curIs(lexer.LParen) {
		return nil, p.errorf("inline column definitions in CREATE TABLE are not supported; use CREATE TABLE ... AS SELECT")
	}
	if err := p.consumeKeyword("AS"); err != nil {
		return nil, err
	}
	sel, err := p.parseSetOpChainOrWith()
	if err != nil {
		return nil, err
	}
	q.AsSelect = sel
	return q, nil
}

func (p *Parser) parseCreateIndex(forcedUnique bool) (ast.Statement, error) {
	q := &ast.CreateIndexQuery{Unique: forcedUnique}
	if forcedUnique {
		p.advance() // UNIQUE
	}
	if err := p.consumeKeyword("INDEX"); err != nil {
		return nil, err
	}
	if p.curIsKeyword("CONCURRENTLY") {
		p.advance()
		q.Concurrently = true
	}
	if p.curIsKeyword("IF") {
		p.advance()
		if err := p.consumeKeyword("NOT"); err != nil {
			return nil, err
		}
		if err := p.consumeKeyword("EXISTS"); err != nil {
			return nil, err
		}
		q.IfNotExists = true
	}
	if !p.curIsKeyword("ON") {
		name, err := p.parseIdentifierName()
		if err != nil {
			return nil, err
		}
		q.Name = name
	}
	if err := p.consumeKeyword("ON"); err != nil {
		return nil, err
	}
	table, err := p.parseQualifiedIdentifier()
	if err != nil {
		return nil, err
	}
	q.Table = table
	if p.curIsKeyword("USING") {
		p.advance()
		method, err := p.parseIdentifierName()
		if err != nil {
			return nil, err
		}
		q.Method = method.Name.Value
	}
	if _, err := p.consumeKind(lexer.LParen, "`(`"); err != nil {
		return nil, err
	}
	cols, err := p.parseExpressionList()
	if err != nil {
		return nil, err
	}
	q.Columns = cols
	if _, err := p.consumeKind(lexer.RParen, "`)`"); err != nil {
		return nil, err
	}
	if p.curIsKeyword("INCLUDE") {
		p.advance()
		if _, err := p.consumeKind(lexer.LParen, "`(`"); err != nil {
			return nil, err
		}
		inc, err := p.parseNameList()
		if err != nil {
			return nil, err
		}
		q.Include = inc
		if _, err := p.consumeKind(lexer.RParen, "`)`"); err != nil {
			return nil, err
		}
	}
	if p.curIsKeyword("WITH") {
		p.advance()
		if _, err := p.consumeKind(lexer.LParen, "`(`"); err != nil {
			return nil, err
		}
		for {
			key, err := p.parseIdentifierName()
			if err != nil {
				return nil, err
			}
			if !p.curIs(lexer.Operator) || p.cur().Value != "=" {
				return nil, p.errorf("Expected `=`")
			}
			p.advance()
			val, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			q.With = append(q.With, ast.KeyValue{Key: key.Name.Value, Value: val})
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
	if p.curIsKeyword("TABLESPACE") {
		p.advance()
		ts, err := p.parseIdentifierName()
		if err != nil {
			return nil, err
		}
		q.Tablespace = ts.Name.Value
	}
	if p.curIsKeyword("WHERE") {
		p.advance()
		pred, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		q.Where = &ast.WhereClause{Predicate: pred}
	}
	return q, nil
}

// --- sequence options, shared by CREATE/ALTER SEQUENCE ---------------------

func (p *Parser) parseSequenceOptions() (ast.SequenceOptions, error) {
	var opts ast.SequenceOptions
	for {
		switch {
		case p.curIsWord("INCREMENT"):
			p.advance()
			if p.curIsKeyword("BY") {
				p.advance()
			}
			v, err := p.parseExpression()
			if err != nil {
				return opts, err
			}
			opts.IncrementBy = &v
		case p.curIsWord("START"):
			p.advance()
			if p.curIsKeyword("WITH") {
				p.advance()
			}
			v, err := p.parseExpression()
			if err != nil {
				return opts, err
			}
			opts.StartWith = &v
		case p.curIsWord("MINVALUE"):
			p.advance()
			v, err := p.parseExpression()
			if err != nil {
				return opts, err
			}
			opts.MinValue = &v
		case p.curIsWord("MAXVALUE"):
			p.advance()
			v, err := p.parseExpression()
			if err != nil {
				return opts, err
			}
			opts.MaxValue = &v
		case p.curIsWord("CACHE"):
			p.advance()
			v, err := p.parseExpression()
			if err != nil {
				return opts, err
			}
			opts.Cache = &v
		case p.curIsWord("RESTART"):
			p.advance()
			if p.curIsKeyword("WITH") {
				p.advance()
				v, err := p.parseExpression()
				if err != nil {
					return opts, err
				}
				opts.RestartWith = &v
			} else if p.curIs(lexer.NumericLiteral) {
				v, err := p.parseExpression()
				if err != nil {
					return opts, err
				}
				opts.RestartWith = &v
			} else {
				opts.RestartBare = true
			}
		case p.curIsWord("OWNED"):
			p.advance()
			if err := p.consumeKeyword("BY"); err != nil {
				return opts, err
			}
			if p.curIsWord("NONE") {
				p.advance()
				continue
			}
			id, err := p.parseQualifiedIdentifier()
			if err != nil {
				return opts, err
			}
			opts.OwnedBy = id
		default:
			return opts, nil
		}
	}
}

func (p *Parser) parseCreateSequence() (ast.Statement, error) {
	p.advance() // SEQUENCE
	q := &ast.CreateSequenceQuery{}
	if p.curIsKeyword("IF") {
		p.advance()
		if err := p.consumeKeyword("NOT"); err != nil {
			return nil, err
		}
		if err := p.consumeKeyword("EXISTS"); err != nil {
			return nil, err
		}
		q.IfNotExists = true
	}
	name, err := p.parseQualifiedIdentifier()
	if err != nil {
		return nil, err
	}
	q.Name = name
	opts, err := p.parseSequenceOptions()
	if err != nil {
		return nil, err
	}
	q.Options = opts
	return q, nil
}

func (p *Parser) parseCreateSchema() (ast.Statement, error) {
	p.advance() // SCHEMA
	q := &ast.CreateSchemaQuery{}
	if p.curIsKeyword("IF") {
		p.advance()
		if err := p.consumeKeyword("NOT"); err != nil {
			return nil, err
		}
		if err := p.consumeKeyword("EXISTS"); err != nil {
			return nil, err
		}
		q.IfNotExists = true
	}
	name, err := p.parseIdentifierName()
	if err != nil {
		return nil, err
	}
	q.Name = name
	if p.curIsKeyword("AUTHORIZATION") {
		p.advance()
		role, err := p.parseIdentifierName()
		if err != nil {
			return nil, err
		}
		q.Authorization = role
	}
	return q, nil
}

// --- DROP --------------------------------------------------------------

func (p *Parser) parseDrop() (ast.Statement, error) {
	p.advance() // DROP
	switch {
	case p.curIsKeyword("TABLE"):
		return p.parseDropTable()
	case p.curIsKeyword("INDEX"):
		return p.parseDropIndex()
	case p.curIsKeyword("SCHEMA"):
		return p.parseDropSchema()
	}
	return nil, p.errorf("Expected `TABLE`, `INDEX` or `SCHEMA` after DROP")
}

func (p *Parser) parseDropTable() (ast.Statement, error) {
	p.advance() // TABLE
	q := &ast.DropTableQuery{}
	if p.curIsKeyword("IF") {
		p.advance()
		if err := p.consumeKeyword("EXISTS"); err != nil {
			return nil, err
		}
		q.IfExists = true
	}
	names, err := p.parseNameList()
	if err != nil {
		return nil, err
	}
	q.Names = names
	q.Behavior = p.parseDropBehavior()
	return q, nil
}

// parseDropIndex enforces the documented option order: CONCURRENTLY before
// IF EXISTS before the index name list.
func (p *Parser) parseDropIndex() (ast.Statement, error) {
	p.advance() // INDEX
	q := &ast.DropIndexQuery{}
	if p.curIsKeyword("CONCURRENTLY") {
		p.advance()
		q.Concurrently = true
	}
	if p.curIsKeyword("IF") {
		p.advance()
		if err := p.consumeKeyword("EXISTS"); err != nil {
			return nil, err
		}
		q.IfExists = true
	}
	names, err := p.parseNameList()
	if err != nil {
		return nil, err
	}
	q.Names = names
	q.Behavior = p.parseDropBehavior()
	return q, nil
}

func (p *Parser) parseDropSchema() (ast.Statement, error) {
	p.advance() // SCHEMA
	q := &ast.DropSchemaQuery{}
	if p.curIsKeyword("IF") {
		p.advance()
		if err := p.consumeKeyword("EXISTS"); err != nil {
			return nil, err
		}
		q.IfExists = true
	}
	names, err := p.parseNameList()
	if err != nil {
		return nil, err
	}
	q.Names = names
	q.Behavior = p.parseDropBehavior()
	return q, nil
}

// --- ALTER ------------------------------------------------------------

func (p *Parser) parseAlter() (ast.Statement, error) {
	p.advance() // ALTER
	switch {
	case p.curIsKeyword("TABLE"):
		return p.parseAlterTable()
	case p.curIsKeyword("SEQUENCE"):
		return p.parseAlterSequence()
	}
	return nil, p.errorf("Expected `TABLE` or `SEQUENCE` after ALTER")
}

func (p *Parser) parseAlterTable() (ast.Statement, error) {
	p.advance() // TABLE
	q := &ast.AlterTableQuery{}
	if p.curIsKeyword("IF") {
		p.advance()
		if err := p.consumeKeyword("EXISTS"); err != nil {
			return nil, err
		}
		q.IfExists = true
	}
	if p.curIsWord("ONLY") {
		p.advance()
		q.Only = true
	}
	name, err := p.parseQualifiedIdentifier()
	if err != nil {
		return nil, err
	}
	q.Name = name
	for {
		action, err := p.parseAlterTableAction()
		if err != nil {
			return nil, err
		}
		q.Actions = append(q.Actions, action)
		if p.curIs(lexer.Comma) {
			p.advance()
			continue
		}
		break
	}
	return q, nil
}

func (p *Parser) parseAlterTableAction() (*ast.AlterTableAction, error) {
	switch {
	case p.curIsKeyword("ADD"):
		p.advance()
		if err := p.consumeKeyword("CONSTRAINT"); err != nil {
			return nil, err
		}
		name, err := p.parseIdentifierName()
		if err != nil {
			return nil, err
		}
		def := p.collectRawUntilCommaOrEnd()
		return &ast.AlterTableAction{ActionKind: ast.ActionAddConstraint, ConstraintName: name, ConstraintDef: def}, nil
	case p.curIsKeyword("DROP"):
		p.advance()
		switch {
		case p.curIsKeyword("CONSTRAINT"):
			p.advance()
			action := &ast.AlterTableAction{ActionKind: ast.ActionDropConstraint}
			if p.curIsKeyword("IF") {
				p.advance()
				if err := p.consumeKeyword("EXISTS"); err != nil {
					return nil, err
				}
				action.IfExists = true
			}
			name, err := p.parseIdentifierName()
			if err != nil {
				return nil, err
			}
			action.ConstraintName = name
			action.Behavior = p.parseDropBehavior()
			return action, nil
		case p.curIsKeyword("COLUMN"):
			p.advance()
			action := &ast.AlterTableAction{ActionKind: ast.ActionDropColumn}
			if p.curIsKeyword("IF") {
				p.advance()
				if err := p.consumeKeyword("EXISTS"); err != nil {
					return nil, err
				}
				action.IfExists = true
			}
			name, err := p.parseIdentifierName()
			if err != nil {
				return nil, err
			}
			action.ColumnName = name
			action.Behavior = p.parseDropBehavior()
			return action, nil
		}
		return nil, p.errorf("Expected `CONSTRAINT` or `COLUMN` after DROP")
	case p.curIsKeyword("ALTER"):
		p.advance()
		if p.curIsKeyword("COLUMN") {
			p.advance()
		}
		name, err := p.parseIdentifierName()
		if err != nil {
			return nil, err
		}
		switch {
		case p.curIsKeyword("SET"):
			p.advance()
			if err := p.consumeKeyword("DEFAULT"); err != nil {
				return nil, err
			}
			v, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			return &ast.AlterTableAction{ActionKind: ast.ActionAlterColumnSetDefault, ColumnName: name, Default: v}, nil
		case p.curIsKeyword("DROP"):
			p.advance()
			if err := p.consumeKeyword("DEFAULT"); err != nil {
				return nil, err
			}
			return &ast.AlterTableAction{ActionKind: ast.ActionAlterColumnDropDefault, ColumnName: name}, nil
		}
		return nil, p.errorf("Expected `SET DEFAULT` or `DROP DEFAULT` after ALTER COLUMN")
	}
	return nil, p.errorf("Expected `ADD`, `DROP` or `ALTER` in ALTER TABLE action")
}

// collectRawUntilCommaOrEnd captures an opaque constraint definition's source
// text verbatim, stopping at a top-level comma or end of statement.
func (p *Parser) collectRawUntilCommaOrEnd() string {
	var parts []string
	depth := 0
	for {
		c := p.cur()
		if c.Kind == lexer.EOF || c.Kind == lexer.Semicolon {
			break
		}
		if c.Kind == lexer.Comma && depth == 0 {
			break
		}
		if c.Kind == lexer.LParen {
			depth++
		}
		if c.Kind == lexer.RParen {
			if depth == 0 {
				break
			}
			depth--
		}
		parts = append(parts, c.Value)
		p.advance()
	}
	return strings.Join(parts, " ")
}

func (p *Parser) parseAlterSequence() (ast.Statement, error) {
	p.advance() // SEQUENCE
	q := &ast.AlterSequenceQuery{}
	if p.curIsKeyword("IF") {
		p.advance()
		if err := p.consumeKeyword("EXISTS"); err != nil {
			return nil, err
		}
		q.IfExists = true
	}
	name, err := p.parseQualifiedIdentifier()
	if err != nil {
		return nil, err
	}
	q.Name = name
	opts, err := p.parseSequenceOptions()
	if err != nil {
		return nil, err
	}
	q.Options = opts
	return q, nil
}

// --- COMMENT ON / ANALYZE ------------------------------------------------

func (p *Parser) parseCommentOn() (ast.Statement, error) {
	p.advance() // COMMENT
	if err := p.consumeKeyword("ON"); err != nil {
		return nil, err
	}
	q := &ast.CommentOnQuery{}
	switch {
	case p.curIsKeyword("TABLE"):
		p.advance()
		q.TargetKind = ast.CommentOnTable
	case p.curIsKeyword("COLUMN"):
		p.advance()
		q.TargetKind = ast.CommentOnColumn
	case p.curIsKeyword("INDEX"):
		p.advance()
		q.TargetKind = ast.CommentOnIndex
	case p.curIsKeyword("SCHEMA"):
		p.advance()
		q.TargetKind = ast.CommentOnSchema
	case p.curIsKeyword("SEQUENCE"):
		p.advance()
		q.TargetKind = ast.CommentOnSequence
	default:
		return nil, p.errorf("Expected `TABLE`, `COLUMN`, `INDEX`, `SCHEMA` or `SEQUENCE` after COMMENT ON")
	}
	target, err := p.parseQualifiedIdentifier()
	if err != nil {
		return nil, err
	}
	q.Target = target
	if err := p.consumeKeyword("IS"); err != nil {
		return nil, err
	}
	if p.curIsLiteral("NULL") {
		p.advance()
	} else {
		lit, err := p.consumeKind(lexer.StringLiteral, "string literal")
		if err != nil {
			return nil, err
		}
		text := lit.Value
		q.Text = &text
	}
	return q, nil
}

func (p *Parser) parseAnalyzeStatement() (ast.Statement, error) {
	p.advance() // ANALYZE
	q := &ast.AnalyzeQuery{}
	if p.curIsKeyword("VERBOSE") {
		p.advance()
		q.Verbose = true
	}
	if p.atEnd() || p.curIs(lexer.Semicolon) {
		return q, nil
	}
	target, err := p.parseQualifiedIdentifier()
	if err != nil {
		return nil, err
	}
	q.Target = target
	if p.curIs(lexer.LParen) {
		p.advance()
		cols, err := p.parseNameList()
		if err != nil {
			return nil, err
		}
		q.Columns = cols
		if _, err := p.consumeKind(lexer.RParen, "`)`"); err != nil {
			return nil, err
		}
	}
	return q, nil
}
