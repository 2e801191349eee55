// Package transform implements the AST-mutating operations the facade
// exposes: WHERE/ORDER BY/pagination injection, CTE management, and the
// JSON projection builder. Transformers mutate their AST argument in place;
// on failure they leave it untouched and report a typed error.
package transform

// TableColumnResolver resolves a physical table's column list, used whenever
// a condition's column must be checked against a plain table FROM source.
type TableColumnResolver func(tableName string) []string
