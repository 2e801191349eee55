package ast

import (
	"reflect"
	"testing"
)

func TestCommentsCarrier(t *testing.T) {
	var c Comments
	c.AddPositionedComments(Before, []string{"one"})
	c.AddPositionedComments(After, []string{"two"})
	c.AddPositionedComments(Before, []string{"three"})
	c.AddPositionedComments(Before, nil)

	if got := c.GetPositionedComments(Before); !reflect.DeepEqual(got, []string{"one", "three"}) {
		t.Errorf("Before: %v", got)
	}
	if got := c.GetPositionedComments(After); !reflect.DeepEqual(got, []string{"two"}) {
		t.Errorf("After: %v", got)
	}
	if got := c.LegacyComments(); !reflect.DeepEqual(got, []string{"one", "two", "three"}) {
		t.Errorf("Legacy: %v", got)
	}
}

func TestCommentsClone(t *testing.T) {
	var c Comments
	c.AddPositionedComments(Before, []string{"x"})
	c.SetHeaderComments([]string{"h"})

	clone := c.Clone()
	clone.AddPositionedComments(Before, []string{"y"})
	clone.SetHeaderComments([]string{"h2"})

	if got := c.GetPositionedComments(Before); len(got) != 1 {
		t.Errorf("Original mutated: %v", got)
	}
	if got := c.HeaderComments(); len(got) != 1 || got[0] != "h" {
		t.Errorf("Original header mutated: %v", got)
	}
}

func TestParamBindings(t *testing.T) {
	var b ParamBindings
	b.Set("a", 1)
	b.Set("b", 2)
	b.Set("a", 3) // overwrite keeps first-set order

	if got := b.Names(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Names: %v", got)
	}
	if v, ok := b.Get("a"); !ok || v != 3 {
		t.Errorf("Get a: %v %v", v, ok)
	}
	if _, ok := b.Get("missing"); ok {
		t.Error("Expected missing binding")
	}

	clone := b.Clone()
	clone.Set("c", 4)
	if _, ok := b.Get("c"); ok {
		t.Error("Clone must be independent")
	}
}

func TestWithClauseNameIndex(t *testing.T) {
	w := &WithClause{}
	w.AddTable(&CommonTable{Name: NewIdentifier("a")})
	w.AddTable(&CommonTable{Name: NewIdentifier("b")})

	if !w.HasTable("a") || !w.HasTable("b") || w.HasTable("c") {
		t.Error("HasTable mismatch")
	}
	if !w.RemoveTable("a") || w.RemoveTable("a") {
		t.Error("RemoveTable mismatch")
	}
	if got := w.TableNames(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("TableNames: %v", got)
	}

	// Index lazily built for parser-constructed clauses.
	parserBuilt := &WithClause{Tables: []*CommonTable{{Name: NewIdentifier("x")}}}
	if !parserBuilt.HasTable("x") {
		t.Error("Lazy index miss")
	}
}
