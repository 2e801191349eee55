package transform

import (
	"errors"
	"strings"
	"testing"

	"github.com/sqlkit-go/sqlkit/pkg/ast"
	"github.com/sqlkit-go/sqlkit/pkg/sqlerr"
)

func orderItemsMapping() JSONMapping {
	return JSONMapping{
		Entities: []JSONEntity{
			{
				Name: "order",
				Columns: []JSONColumn{
					{Column: "order_id", Property: "id"},
					{Column: "order_date", Property: "date"},
				},
			},
			{
				Name:      "item",
				Parent:    "order",
				Relation:  JSONArrayRelation,
				ParentKey: "order_id",
				ChildKey:  "order_id",
				Columns: []JSONColumn{
					{Column: "item_id", Property: "id"},
					{Column: "item_name", Property: "name"},
				},
			},
		},
	}
}

const orderItemsBase = `SELECT o.id AS order_id, o.created AS order_date, i.id AS item_id, i.name AS item_name
	FROM orders o JOIN items i ON i.order_id = o.id`

func TestBuildJSONShape(t *testing.T) {
	base := parseSimple(t, orderItemsBase)
	out, err := BuildJSON(base, orderItemsMapping())
	if err != nil {
		t.Fatalf("Failed to build: %v", err)
	}
	if out.With == nil || len(out.With.Tables) != 2 {
		t.Fatalf("Expected base + item CTEs, got %+v", out.With)
	}
	names := out.With.TableNames()
	if names[0] != "_json_base" || names[1] != "_json_item" {
		t.Errorf("CTE names/order mismatch: %v", names)
	}

	// The array child's CTE groups by the parent key and aggregates.
	itemCTE := out.With.Tables[1].Query.(*ast.SimpleSelectQuery)
	if itemCTE.GroupBy == nil {
		t.Error("Array-relation CTE must GROUP BY the parent key")
	}
	agg, ok := itemCTE.Select.Items[1].Value.(*ast.FunctionCall)
	if !ok || !strings.Contains(agg.Qualified.Name.Value, "agg") {
		t.Errorf("Expected aggregation call, got %+v", itemCTE.Select.Items[1].Value)
	}

	// Root projection builds the object and COALESCEs the array child.
	root, ok := out.Select.Items[0].Value.(*ast.FunctionCall)
	if !ok || root.Qualified.Name.Value != "json_build_object" {
		t.Fatalf("Expected json_build_object root, got %+v", out.Select.Items[0].Value)
	}
}

func TestBuildJSONOptions(t *testing.T) {
	t.Run("jsonb family", func(t *testing.T) {
		base := parseSimple(t, orderItemsBase)
		m := orderItemsMapping()
		m.UseJSONB = true
		out, err := BuildJSON(base, m)
		if err != nil {
			t.Fatalf("Failed to build: %v", err)
		}
		root := out.Select.Items[0].Value.(*ast.FunctionCall)
		if root.Qualified.Name.Value != "jsonb_build_object" {
			t.Errorf("Expected jsonb_build_object, got %q", root.Qualified.Name.Value)
		}
	})

	t.Run("array result format", func(t *testing.T) {
		base := parseSimple(t, orderItemsBase)
		m := orderItemsMapping()
		m.ResultFormat = "array"
		out, err := BuildJSON(base, m)
		if err != nil {
			t.Fatalf("Failed to build: %v", err)
		}
		root := out.Select.Items[0].Value.(*ast.FunctionCall)
		if root.Qualified.Name.Value != "json_agg" {
			t.Errorf("Expected json_agg wrapper, got %q", root.Qualified.Name.Value)
		}
	})
}

func TestBuildJSONValidation(t *testing.T) {
	t.Run("Missing column", func(t *testing.T) {
		base := parseSimple(t, orderItemsBase)
		m := orderItemsMapping()
		m.Entities[0].Columns = append(m.Entities[0].Columns, JSONColumn{Column: "ghost", Property: "g"})
		_, err := BuildJSON(base, m)
		var merr *sqlerr.MappingValidationError
		if !errors.As(err, &merr) {
			t.Fatalf("Expected MappingValidationError, got %v", err)
		}
	})

	t.Run("Missing parent", func(t *testing.T) {
		base := parseSimple(t, orderItemsBase)
		m := orderItemsMapping()
		m.Entities[1].Parent = "ghost"
		_, err := BuildJSON(base, m)
		var merr *sqlerr.MappingValidationError
		if !errors.As(err, &merr) {
			t.Fatalf("Expected MappingValidationError, got %v", err)
		}
	})

	t.Run("Two array children under one parent", func(t *testing.T) {
		base := parseSimple(t, orderItemsBase)
		m := orderItemsMapping()
		m.Entities = append(m.Entities, JSONEntity{
			Name:      "note",
			Parent:    "order",
			Relation:  JSONArrayRelation,
			ParentKey: "order_id",
			ChildKey:  "order_id",
			Columns:   []JSONColumn{{Column: "item_name", Property: "text"}},
		})
		_, err := BuildJSON(base, m)
		var merr *sqlerr.MappingValidationError
		if !errors.As(err, &merr) {
			t.Fatalf("Expected MappingValidationError, got %v", err)
		}
	})

	t.Run("No root", func(t *testing.T) {
		base := parseSimple(t, orderItemsBase)
		m := orderItemsMapping()
		m.Entities[0].Parent = "item"
		_, err := BuildJSON(base, m)
		var merr *sqlerr.MappingValidationError
		if !errors.As(err, &merr) {
			t.Fatalf("Expected MappingValidationError, got %v", err)
		}
	})
}

func TestBuildJSONObjectRelation(t *testing.T) {
	base := parseSimple(t, `SELECT u.id AS user_id, p.bio AS bio, p.user_id AS profile_user_id
		FROM users u LEFT JOIN profiles p ON p.user_id = u.id`)
	m := JSONMapping{
		Entities: []JSONEntity{
			{Name: "user", Columns: []JSONColumn{{Column: "user_id", Property: "id"}}},
			{
				Name: "profile", Parent: "user", Relation: JSONObjectRelation,
				ParentKey: "user_id", ChildKey: "user_id",
				Columns: []JSONColumn{{Column: "bio", Property: "bio"}},
			},
		},
	}
	out, err := BuildJSON(base, m)
	if err != nil {
		t.Fatalf("Failed to build: %v", err)
	}
	// Object relations join without aggregation: missing row yields JSON null.
	profileCTE := out.With.Tables[1].Query.(*ast.SimpleSelectQuery)
	if profileCTE.GroupBy != nil {
		t.Error("Object-relation CTE must not aggregate")
	}
}
