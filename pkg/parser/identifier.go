package parser

import (
	"strings"

	"github.com/sqlkit-go/sqlkit/pkg/ast"
	"github.com/sqlkit-go/sqlkit/pkg/lexer"
	"github.com/sqlkit-go/sqlkit/pkg/sqlerr"
)

// nonReservedAllowList is the pragmatic set of reserved words the grammar
// also accepts as plain identifiers, since the lexer's keyword set is
// closed and several SQL keywords double as common column/table names.
var nonReservedAllowList = map[string]bool{
	"GROUPS": true, "RANGE": true, "PARTITION": true,
	"KEY": true, "VALUE": true, "MATERIALIZED": true, "FILTER": true,
	"OVER": true, "WITHIN": true, "ORDINALITY": true, "NO": true,
	"CONFLICT": true, "CONCURRENTLY": true, "RESTART": true, "OWNED": true,
	"INCREMENT": true, "CACHE": true, "SEQUENCE": true, "TEXT": true,
	"DATA": true, "COLUMN": true, "COMMENT": true, "SCHEMA": true,
	"TABLESPACE": true, "INCLUDE": true, "VERBOSE": true, "AUTHORIZATION": true,
	"LOCKED": true,
}

func isNonReservedAllowed(value string) bool {
	return nonReservedAllowList[strings.ToUpper(value)]
}

// parseIdentifierName parses a single (unqualified) identifier segment:
// a bare Identifier, a QuotedIdentifier, or a reserved keyword that the
// non-reserved allow-list still permits as a name.
func (p *Parser) parseIdentifierName() (*ast.Identifier, error) {
	c := p.cur()
	switch c.Kind {
	case lexer.QuotedIdentifier:
		if c.Value == "" {
			return nil, &sqlerr.IdentifierError{Message: "identifier is empty", Value: c.Value}
		}
		p.advance()
		return &ast.Identifier{Name: ast.NameRef{Value: c.Value, Quoted: true}}, nil
	case lexer.Identifier:
		p.advance()
		return &ast.Identifier{Name: ast.NameRef{Value: c.Value}}, nil
	case lexer.Keyword:
		if isNonReservedAllowed(c.Value) {
			p.advance()
			return &ast.Identifier{Name: ast.NameRef{Value: c.Value}}, nil
		}
		return nil, &sqlerr.IdentifierError{Message: "reserved keyword cannot be used as an identifier", Value: c.Value}
	}
	return nil, p.errorf("Expected identifier, got %q", c.Value)
}

// parseQualifiedIdentifier parses `a.b.c`-style dotted names, folding every
// segment but the last into Namespaces. A `.*` suffix is left unconsumed for
// the caller's `table.*` wildcard handling.
func (p *Parser) parseQualifiedIdentifier() (*ast.Identifier, error) {
	first, err := p.parseIdentifierName()
	if err != nil {
		return nil, err
	}
	for p.curIs(lexer.Dot) && !p.peekIsStar(1) {
		p.advance()
		next, err := p.parseIdentifierName()
		if err != nil {
			return nil, err
		}
		first.Namespaces = append(first.Namespaces, first.Name.Value)
		first.Name = next.Name
	}
	return first, nil
}
