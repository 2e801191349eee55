package transform

import (
	"errors"
	"testing"

	"github.com/sqlkit-go/sqlkit/pkg/ast"
	"github.com/sqlkit-go/sqlkit/pkg/parser"
	"github.com/sqlkit-go/sqlkit/pkg/sqlerr"
)

func boolPtr(b bool) *bool { return &b }

func TestAddCTE(t *testing.T) {
	q := parseSimple(t, `SELECT * FROM t`)
	cte, err := parser.ParseSelect(`SELECT 1 AS v`)
	if err != nil {
		t.Fatalf("Failed to parse CTE query: %v", err)
	}

	if err := AddCTE(q, "x", cte, CTEOptions{Materialized: boolPtr(true)}); err != nil {
		t.Fatalf("Failed to add CTE: %v", err)
	}
	if !HasCTE(q, "x") {
		t.Error("hasCTE must be true after add")
	}
	if q.With.Tables[0].Materialized != ast.Materialized {
		t.Error("Expected MATERIALIZED hint")
	}

	t.Run("Duplicate fails", func(t *testing.T) {
		err := AddCTE(q, "x", cte, CTEOptions{})
		var derr *sqlerr.DuplicateCTEError
		if !errors.As(err, &derr) {
			t.Fatalf("Expected DuplicateCTEError, got %v", err)
		}
	})

	t.Run("Empty name fails", func(t *testing.T) {
		err := AddCTE(q, "   ", cte, CTEOptions{})
		var ierr *sqlerr.InvalidCTENameError
		if !errors.As(err, &ierr) {
			t.Fatalf("Expected InvalidCTENameError, got %v", err)
		}
	})
}

func TestCTESetLaws(t *testing.T) {
	q := parseSimple(t, `SELECT * FROM t`)
	cte, _ := parser.ParseSelect(`SELECT 1`)

	for _, name := range []string{"a", "b", "c"} {
		if err := AddCTE(q, name, cte, CTEOptions{}); err != nil {
			t.Fatalf("Failed to add %s: %v", name, err)
		}
	}

	names := GetCTENames(q)
	if len(names) != 3 || names[0] != "a" || names[1] != "b" || names[2] != "c" {
		t.Fatalf("Insertion order violated: %v", names)
	}

	if err := RemoveCTE(q, "b"); err != nil {
		t.Fatalf("Failed to remove: %v", err)
	}
	if HasCTE(q, "b") {
		t.Error("hasCTE must be false after remove")
	}
	names = GetCTENames(q)
	if len(names) != 2 || names[0] != "a" || names[1] != "c" {
		t.Fatalf("Order after remove: %v", names)
	}

	t.Run("Remove missing fails", func(t *testing.T) {
		err := RemoveCTE(q, "zzz")
		var nerr *sqlerr.CTENotFoundError
		if !errors.As(err, &nerr) {
			t.Fatalf("Expected CTENotFoundError, got %v", err)
		}
	})
}

func TestReplaceCTEPreservesPosition(t *testing.T) {
	q := parseSimple(t, `SELECT * FROM t`)
	old, _ := parser.ParseSelect(`SELECT 1`)
	for _, name := range []string{"a", "b", "c"} {
		if err := AddCTE(q, name, old, CTEOptions{}); err != nil {
			t.Fatalf("Failed to add: %v", err)
		}
	}

	replacement, _ := parser.ParseSelect(`SELECT 2`)
	if err := ReplaceCTE(q, "b", replacement, CTEOptions{Materialized: boolPtr(false)}); err != nil {
		t.Fatalf("Failed to replace: %v", err)
	}
	names := GetCTENames(q)
	if names[1] != "b" {
		t.Errorf("Position not preserved: %v", names)
	}
	if q.With.Tables[1].Query != replacement {
		t.Error("Query not swapped")
	}
	if q.With.Tables[1].Materialized != ast.NotMaterialized {
		t.Error("Expected NOT MATERIALIZED hint")
	}

	t.Run("Replace missing fails", func(t *testing.T) {
		err := ReplaceCTE(q, "zzz", replacement, CTEOptions{})
		var nerr *sqlerr.CTENotFoundError
		if !errors.As(err, &nerr) {
			t.Fatalf("Expected CTENotFoundError, got %v", err)
		}
	})
}

func TestRemoveLastCTEDropsWithClause(t *testing.T) {
	q := parseSimple(t, `WITH x AS (SELECT 1) SELECT * FROM x`)
	if err := RemoveCTE(q, "x"); err != nil {
		t.Fatalf("Failed to remove: %v", err)
	}
	if q.With != nil {
		t.Error("Expected WITH clause dropped entirely")
	}
}

func TestToSimpleQuery(t *testing.T) {
	t.Run("Simple passes through", func(t *testing.T) {
		q := parseSimple(t, `SELECT 1`)
		if ToSimpleQuery(q) != q {
			t.Error("Expected identity for SimpleSelectQuery")
		}
	})

	t.Run("Binary query is wrapped", func(t *testing.T) {
		q, err := parser.ParseSelect(`SELECT 1 UNION SELECT 2`)
		if err != nil {
			t.Fatalf("Failed to parse: %v", err)
		}
		wrapped := ToSimpleQuery(q)
		if wrapped.From == nil {
			t.Fatal("Expected synthesized FROM")
		}
		src := wrapped.From.Sources[0].Base
		if _, ok := src.Source.(*ast.SubQuerySource); !ok {
			t.Fatalf("Expected SubQuerySource, got %T", src.Source)
		}
		if src.Alias == nil {
			t.Error("Expected generated alias")
		}

		// CTE APIs become usable on the wrapper.
		cte, _ := parser.ParseSelect(`SELECT 3`)
		if err := AddCTE(wrapped, "extra", cte, CTEOptions{}); err != nil {
			t.Fatalf("Failed to add CTE to wrapper: %v", err)
		}
	})
}
