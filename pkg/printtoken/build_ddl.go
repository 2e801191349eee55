package printtoken

import "github.com/sqlkit-go/sqlkit/pkg/ast"

func buildDropBehavior(b ast.DropBehavior) []*Token {
	switch b {
	case ast.BehaviorCascade:
		return []*Token{kw("CASCADE")}
	case ast.BehaviorRestrict:
		return []*Token{kw("RESTRICT")}
	}
	return nil
}

func buildNameList(names []*ast.Identifier) []*Token {
	var body []*Token
	for i, n := range names {
		if i > 0 {
			body = append(body, comma())
		}
		body = append(body, identTokens(n)...)
	}
	return body
}

func buildCreateTable(q *ast.CreateTableQuery) []*Token {
	body := append([]*Token{}, header(q)...)
	body = append(body, kw("CREATE"))
	if q.IsTemporary {
		body = append(body, kw("TEMPORARY"))
	}
	body = append(body, kw("TABLE"))
	if q.IfNotExists {
		body = append(body, kw("IF"), kw("NOT"), kw("EXISTS"))
	}
	body = append(body, identTokens(q.Name)...)
	body = append(body, kw("AS"), newline())
	body = append(body, buildSelectQuery(q.AsSelect)...)
	return wrapComments(q, body)
}

func buildDropTable(q *ast.DropTableQuery) []*Token {
	body := append([]*Token{}, header(q)...)
	body = append(body, kw("DROP"), kw("TABLE"))
	if q.IfExists {
		body = append(body, kw("IF"), kw("EXISTS"))
	}
	body = append(body, buildNameList(q.Names)...)
	body = append(body, buildDropBehavior(q.Behavior)...)
	return wrapComments(q, body)
}

func buildCreateIndex(q *ast.CreateIndexQuery) []*Token {
	body := append([]*Token{}, header(q)...)
	body = append(body, kw("CREATE"))
	if q.Unique {
		body = append(body, kw("UNIQUE"))
	}
	body = append(body, kw("INDEX"))
	if q.Concurrently {
		body = append(body, kw("CONCURRENTLY"))
	}
	if q.IfNotExists {
		body = append(body, kw("IF"), kw("NOT"), kw("EXISTS"))
	}
	if q.Name != nil {
		body = append(body, identTokens(q.Name)...)
	}
	body = append(body, kw("ON"))
	body = append(body, identTokens(q.Table)...)
	if q.Method != "" {
		body = append(body, kw("USING"), leaf(Identifier, q.Method))
	}
	body = append(body, buildExprList(q.Columns, true)...)
	if len(q.Include) > 0 {
		body = append(body, kw("INCLUDE"), punct("("))
		body = append(body, buildNameList(q.Include)...)
		body = append(body, punct(")"))
	}
	if len(q.With) > 0 {
		body = append(body, kw("WITH"), punct("("))
		for i, kv := range q.With {
			if i > 0 {
				body = append(body, comma())
			}
			body = append(body, leaf(Identifier, kv.Key), op("="))
			body = append(body, buildExpr(kv.Value)...)
		}
		body = append(body, punct(")"))
	}
	if q.Tablespace != "" {
		body = append(body, kw("TABLESPACE"), leaf(Identifier, q.Tablespace))
	}
	if q.Where != nil {
		body = append(body, buildWhereClause(q.Where)...)
	}
	return wrapComments(q, body)
}

func buildDropIndex(q *ast.DropIndexQuery) []*Token {
	body := append([]*Token{}, header(q)...)
	body = append(body, kw("DROP"), kw("INDEX"))
	if q.Concurrently {
		body = append(body, kw("CONCURRENTLY"))
	}
	if q.IfExists {
		body = append(body, kw("IF"), kw("EXISTS"))
	}
	body = append(body, buildNameList(q.Names)...)
	body = append(body, buildDropBehavior(q.Behavior)...)
	return wrapComments(q, body)
}

func buildSequenceOptions(o ast.SequenceOptions) []*Token {
	var body []*Token
	if o.IncrementBy != nil {
		body = append(body, kw("INCREMENT"), kw("BY"))
		body = append(body, buildExpr(*o.IncrementBy)...)
	}
	if o.StartWith != nil {
		body = append(body, kw("START"), kw("WITH"))
		body = append(body, buildExpr(*o.StartWith)...)
	}
	if o.MinValue != nil {
		body = append(body, kw("MINVALUE"))
		body = append(body, buildExpr(*o.MinValue)...)
	}
	if o.MaxValue != nil {
		body = append(body, kw("MAXVALUE"))
		body = append(body, buildExpr(*o.MaxValue)...)
	}
	if o.Cache != nil {
		body = append(body, kw("CACHE"))
		body = append(body, buildExpr(*o.Cache)...)
	}
	if o.RestartBare {
		body = append(body, kw("RESTART"))
	} else if o.RestartWith != nil {
		body = append(body, kw("RESTART"), kw("WITH"))
		body = append(body, buildExpr(*o.RestartWith)...)
	}
	if o.OwnedBy != nil {
		body = append(body, kw("OWNED"), kw("BY"))
		body = append(body, identTokens(o.OwnedBy)...)
	}
	return body
}

func buildCreateSequence(q *ast.CreateSequenceQuery) []*Token {
	body := append([]*Token{}, header(q)...)
	body = append(body, kw("CREATE"), kw("SEQUENCE"))
	if q.IfNotExists {
		body = append(body, kw("IF"), kw("NOT"), kw("EXISTS"))
	}
	body = append(body, identTokens(q.Name)...)
	body = append(body, buildSequenceOptions(q.Options)...)
	return wrapComments(q, body)
}

func buildAlterSequence(q *ast.AlterSequenceQuery) []*Token {
	body := append([]*Token{}, header(q)...)
	body = append(body, kw("ALTER"), kw("SEQUENCE"))
	if q.IfExists {
		body = append(body, kw("IF"), kw("EXISTS"))
	}
	body = append(body, identTokens(q.Name)...)
	body = append(body, buildSequenceOptions(q.Options)...)
	return wrapComments(q, body)
}

func buildCreateSchema(q *ast.CreateSchemaQuery) []*Token {
	body := append([]*Token{}, header(q)...)
	body = append(body, kw("CREATE"), kw("SCHEMA"))
	if q.IfNotExists {
		body = append(body, kw("IF"), kw("NOT"), kw("EXISTS"))
	}
	body = append(body, identTokens(q.Name)...)
	if q.Authorization != nil {
		body = append(body, kw("AUTHORIZATION"))
		body = append(body, identTokens(q.Authorization)...)
	}
	return wrapComments(q, body)
}

func buildDropSchema(q *ast.DropSchemaQuery) []*Token {
	body := append([]*Token{}, header(q)...)
	body = append(body, kw("DROP"), kw("SCHEMA"))
	if q.IfExists {
		body = append(body, kw("IF"), kw("EXISTS"))
	}
	body = append(body, buildNameList(q.Names)...)
	body = append(body, buildDropBehavior(q.Behavior)...)
	return wrapComments(q, body)
}

func buildAlterTable(q *ast.AlterTableQuery) []*Token {
	body := append([]*Token{}, header(q)...)
	body = append(body, kw("ALTER"), kw("TABLE"))
	if q.IfExists {
		body = append(body, kw("IF"), kw("EXISTS"))
	}
	if q.Only {
		body = append(body, kw("ONLY"))
	}
	body = append(body, identTokens(q.Name)...)
	for i, a := range q.Actions {
		if i > 0 {
			body = append(body, comma())
		}
		body = append(body, buildAlterTableAction(a)...)
	}
	return wrapComments(q, body)
}

func buildAlterTableAction(a *ast.AlterTableAction) []*Token {
	var body []*Token
	switch a.ActionKind {
	case ast.ActionAddConstraint:
		body = append(body, kw("ADD"), kw("CONSTRAINT"))
		if a.ConstraintName != nil {
			body = append(body, identTokens(a.ConstraintName)...)
		}
		body = append(body, leaf(Literal, a.ConstraintDef))
	case ast.ActionDropConstraint:
		body = append(body, kw("DROP"), kw("CONSTRAINT"))
		if a.IfExists {
			body = append(body, kw("IF"), kw("EXISTS"))
		}
		body = append(body, identTokens(a.ConstraintName)...)
		body = append(body, buildDropBehavior(a.Behavior)...)
	case ast.ActionDropColumn:
		body = append(body, kw("DROP"), kw("COLUMN"))
		if a.IfExists {
			body = append(body, kw("IF"), kw("EXISTS"))
		}
		body = append(body, identTokens(a.ColumnName)...)
		body = append(body, buildDropBehavior(a.Behavior)...)
	case ast.ActionAlterColumnSetDefault:
		body = append(body, kw("ALTER"), kw("COLUMN"))
		body = append(body, identTokens(a.ColumnName)...)
		body = append(body, kw("SET"), kw("DEFAULT"))
		body = append(body, buildExpr(a.Default)...)
	case ast.ActionAlterColumnDropDefault:
		body = append(body, kw("ALTER"), kw("COLUMN"))
		body = append(body, identTokens(a.ColumnName)...)
		body = append(body, kw("DROP"), kw("DEFAULT"))
	}
	return wrapComments(a, body)
}

func buildCommentOn(q *ast.CommentOnQuery) []*Token {
	body := append([]*Token{}, header(q)...)
	body = append(body, kw("COMMENT"), kw("ON"))
	switch q.TargetKind {
	case ast.CommentOnTable:
		body = append(body, kw("TABLE"))
	case ast.CommentOnColumn:
		body = append(body, kw("COLUMN"))
	case ast.CommentOnIndex:
		body = append(body, kw("INDEX"))
	case ast.CommentOnSchema:
		body = append(body, kw("SCHEMA"))
	case ast.CommentOnSequence:
		body = append(body, kw("SEQUENCE"))
	}
	body = append(body, identTokens(q.Target)...)
	body = append(body, kw("IS"))
	if q.Text == nil {
		body = append(body, kw("NULL"))
	} else {
		body = append(body, leaf(Literal, "'"+*q.Text+"'"))
	}
	return wrapComments(q, body)
}

func buildAnalyze(q *ast.AnalyzeQuery) []*Token {
	body := append([]*Token{}, header(q)...)
	body = append(body, kw("ANALYZE"))
	if q.Verbose {
		body = append(body, kw("VERBOSE"))
	}
	if q.Target != nil {
		body = append(body, identTokens(q.Target)...)
		if len(q.Columns) > 0 {
			body = append(body, punct("("))
			body = append(body, buildNameList(q.Columns)...)
			body = append(body, punct(")"))
		}
	}
	return wrapComments(q, body)
}
