// Package printer renders a print-token tree (pkg/printtoken) into SQL text
// under a configurable layout, substituting parameter placeholders according
// to the chosen parameter style.
package printer

import (
	"github.com/sqlkit-go/sqlkit/pkg/dialect"
	"github.com/sqlkit-go/sqlkit/pkg/sqlerr"
)

// KeywordCase controls how Keyword tokens are rendered.
type KeywordCase int

const (
	KeywordAsIs KeywordCase = iota
	KeywordUpper
	KeywordLower
)

// BreakStyle controls where CommaSeparator/AndSeparator tokens break the line.
type BreakStyle int

const (
	BreakNone BreakStyle = iota
	BreakBefore
	BreakAfter
)

// WithClauseStyle controls how a WITH clause's CTE bodies lay out.
type WithClauseStyle int

const (
	WithStandard WithClauseStyle = iota
	WithCTEOneline
	WithFullOneline
)

// Config bundles every printer option. Zero value is not usable directly;
// call Default() and override fields from there.
type Config struct {
	Preset                  string
	IdentifierEscape        *dialect.Escape
	ParameterSymbol         string
	ParameterEscape         *dialect.Escape
	ParameterStyle          dialect.ParamStyle
	IndentSize              int
	IndentChar              string
	Newline                 string
	KeywordCase             KeywordCase
	CommaBreak              BreakStyle
	ValuesCommaBreak        *BreakStyle
	AndBreak                BreakStyle
	WithClauseStyle         WithClauseStyle
	ExportComment           bool
	StrictCommentPlacement  bool
}

// Default returns the postgres-preset baseline: 2-space indent, "\n"
// newlines, upper keyword case, comma-after / and-before breaks, standard
// WITH layout, comments exported.
func Default() Config {
	p := dialect.Default()
	return Config{
		Preset:           p.Name,
		IdentifierEscape: &p.IdentifierEscape,
		ParameterSymbol:  p.ParameterSymbol,
		ParameterStyle:   p.ParameterStyle,
		IndentSize:       2,
		IndentChar:       " ",
		Newline:          "\n",
		KeywordCase:      KeywordUpper,
		CommaBreak:       BreakAfter,
		AndBreak:         BreakBefore,
		WithClauseStyle:  WithStandard,
		ExportComment:    true,
	}
}

// WithPreset resolves the named dialect preset, overriding identifier
// escape, parameter symbol and parameter style. Explicit per-field
// overrides set after calling WithPreset win, matching the documented
// "preset, then explicit override" precedence.
func (c Config) WithPreset(name string) (Config, error) {
	p, ok := dialect.Get(name)
	if !ok {
		return c, &sqlerr.ConfigError{Message: "unknown dialect preset: " + name}
	}
	c.Preset = p.Name
	esc := p.IdentifierEscape
	c.IdentifierEscape = &esc
	c.ParameterSymbol = p.ParameterSymbol
	c.ParameterStyle = p.ParameterStyle
	return c, nil
}

func (c Config) commaBreak(insideValues bool) BreakStyle {
	if insideValues && c.ValuesCommaBreak != nil {
		return *c.ValuesCommaBreak
	}
	return c.CommaBreak
}
