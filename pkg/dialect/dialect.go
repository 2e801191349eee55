// Package dialect holds the small, closed set of dialect presets the
// printer (and, for bracket-identifier scanning, the lexer) consult: the
// identifier escape pair, the parameter symbol, and the default parameter
// style for postgres, mysql, sqlserver, and sqlite.
package dialect

// ParamStyle controls how the printer renders a ParameterRef.
type ParamStyle int

const (
	// Named renders the binding's own name, e.g. :name or @name.
	Named ParamStyle = iota
	// Indexed renders a position-assigned index, e.g. $1, $2.
	Indexed
	// Anonymous renders the bare symbol with no name or index.
	Anonymous
)

// Escape is an identifier quoting pair, e.g. `"`/`"` or `[`/`]`.
type Escape struct {
	Start string
	End   string
}

// Preset bundles the dialect-specific rendering defaults.
type Preset struct {
	Name             string
	IdentifierEscape Escape
	ParameterSymbol  string // single symbol; paired forms use ParameterEscape instead
	ParameterEscape  *Escape
	ParameterStyle   ParamStyle
	BracketIdents    bool // SQL Server style [ident] quoting accepted by the lexer
}

var presets = map[string]Preset{
	"postgres": {
		Name:             "postgres",
		IdentifierEscape: Escape{Start: `"`, End: `"`},
		ParameterSymbol:  ":",
		ParameterStyle:   Named,
	},
	"mysql": {
		Name:             "mysql",
		IdentifierEscape: Escape{Start: "`", End: "`"},
		ParameterSymbol:  "?",
		ParameterStyle:   Anonymous,
	},
	"sqlserver": {
		Name:             "sqlserver",
		IdentifierEscape: Escape{Start: "[", End: "]"},
		ParameterSymbol:  "@",
		ParameterStyle:   Named,
		BracketIdents:    true,
	},
	"sqlite": {
		Name:             "sqlite",
		IdentifierEscape: Escape{Start: `"`, End: `"`},
		ParameterSymbol:  "?",
		ParameterStyle:   Anonymous,
	},
}

// Get returns the named preset. ok is false for an unrecognized name; callers
// that need a hard failure should wrap that into a sqlerr.ConfigError.
func Get(name string) (Preset, bool) {
	p, ok := presets[name]
	return p, ok
}

// Default is the preset used when no explicit preset is configured.
func Default() Preset {
	p, _ := Get("postgres")
	return p
}

// Names lists every recognized preset name, for error messages and CLI help.
func Names() []string {
	return []string{"postgres", "mysql", "sqlserver", "sqlite"}
}
