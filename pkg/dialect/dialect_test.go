package dialect

import "testing"

func TestPresets(t *testing.T) {
	tests := []struct {
		name   string
		escape Escape
		symbol string
		style  ParamStyle
	}{
		{name: "postgres", escape: Escape{Start: `"`, End: `"`}, symbol: ":", style: Named},
		{name: "mysql", escape: Escape{Start: "`", End: "`"}, symbol: "?", style: Anonymous},
		{name: "sqlserver", escape: Escape{Start: "[", End: "]"}, symbol: "@", style: Named},
		{name: "sqlite", escape: Escape{Start: `"`, End: `"`}, symbol: "?", style: Anonymous},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := Get(tt.name)
			if !ok {
				t.Fatalf("Preset %q missing", tt.name)
			}
			if p.IdentifierEscape != tt.escape || p.ParameterSymbol != tt.symbol || p.ParameterStyle != tt.style {
				t.Errorf("Preset mismatch: %+v", p)
			}
		})
	}

	if _, ok := Get("oracle"); ok {
		t.Error("Unknown preset must not resolve")
	}
	if Default().Name != "postgres" {
		t.Errorf("Default preset: %q", Default().Name)
	}
}
