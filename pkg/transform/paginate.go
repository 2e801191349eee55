package transform

import (
	"fmt"

	"github.com/sqlkit-go/sqlkit/pkg/ast"
)

// InjectPaging sets query's LIMIT/OFFSET from a page/pageSize pair, replacing
// whatever was there. OFFSET = (page-1) * pageSize, LIMIT = pageSize.
func InjectPaging(query *ast.SimpleSelectQuery, page, pageSize int) error {
	if page < 1 {
		return fmt.Errorf("invalid page %d: must be >= 1", page)
	}
	if pageSize < 1 || pageSize > 1000 {
		return fmt.Errorf("invalid pageSize %d: must be between 1 and 1000", pageSize)
	}
	offset := (page - 1) * pageSize
	query.Limit = &ast.LimitClause{Value: intLiteral(pageSize)}
	query.Offset = &ast.OffsetClause{Value: intLiteral(offset)}
	return nil
}

func intLiteral(n int) *ast.Literal {
	return &ast.Literal{LitKind: ast.LitNumber, Raw: fmt.Sprintf("%d", n)}
}
