package printer

import (
	"strconv"
	"strings"

	"github.com/sqlkit-go/sqlkit/pkg/ast"
	"github.com/sqlkit-go/sqlkit/pkg/dialect"
	"github.com/sqlkit-go/sqlkit/pkg/printtoken"
)

// Result is format's output: the rendered SQL text plus the collected
// parameter values in the shape the configured ParameterStyle implies.
type Result struct {
	SQL string
	// Named holds name -> value when ParameterStyle is dialect.Named.
	Named map[string]any
	// Ordered holds values in emission order when ParameterStyle is
	// dialect.Indexed or dialect.Anonymous.
	Ordered []any
}

type state struct {
	cfg          Config
	bindings     *ast.ParamBindings
	buf          strings.Builder
	indent       int
	atLineStart  bool
	lastText     string
	insideValues int
	collapse     int // >0 while inside a CTE body/WITH list rendered oneline

	named   map[string]any
	ordered []any
	indexOf map[string]int // name -> assigned index, for ParameterStyle Indexed
}

// Format walks tree and renders it under cfg, resolving ParameterRef tokens
// against bindings. Rendering is a pure function of tree+cfg+bindings: the
// same inputs always produce byte-identical output.
func Format(tree *printtoken.Token, bindings *ast.ParamBindings, cfg Config) Result {
	s := &state{cfg: cfg, bindings: bindings, atLineStart: true, indexOf: map[string]int{}}
	s.render(tree)
	out := Result{SQL: s.buf.String()}
	switch cfg.ParameterStyle {
	case dialect.Named:
		out.Named = s.named
	default:
		out.Ordered = s.ordered
	}
	return out
}

func (s *state) write(text string) {
	s.writeToken(text, false)
}

func (s *state) writeToken(text string, tight bool) {
	if text == "" {
		return
	}
	if !tight && s.needsSpaceBefore(text) {
		s.buf.WriteString(" ")
	}
	s.buf.WriteString(text)
	s.lastText = text
	s.atLineStart = false
}

// needsSpaceBefore applies a small set of punctuation-aware spacing rules:
// no space is inserted immediately after an opening bracket/dot/cast operator,
// or immediately before a closing bracket, comma, array subscript, or the
// cast operator.
func (s *state) needsSpaceBefore(next string) bool {
	if s.atLineStart || s.lastText == "" {
		return false
	}
	switch s.lastText {
	case "(", "[", ".", ":", "::":
		return false
	}
	switch next {
	case ")", "]", "[", ",", ".", ":", "::", ";":
		return false
	}
	return true
}

// newline breaks the line and indents. Inside a collapsed region, or when
// the configured newline literal is not a line break at all (e.g. " "), the
// break is dropped entirely and the ordinary token-spacing rules supply the
// single separating space.
func (s *state) newline() {
	if s.collapse > 0 || !strings.Contains(s.cfg.Newline, "\n") {
		return
	}
	s.buf.WriteString(s.cfg.Newline)
	s.buf.WriteString(strings.Repeat(s.cfg.IndentChar, s.cfg.IndentSize*s.indent))
	s.lastText = ""
	s.atLineStart = true
}

func (s *state) render(t *printtoken.Token) {
	if t == nil {
		return
	}
	switch t.Kind {
	case printtoken.Group:
		// CTEStart/CTEEnd/ClauseStart/ClauseEnd are flat sibling markers in
		// the builder's output, not containers, except where the builder
		// explicitly nests (ValuesTuple, SubQuery) — those carry Children.
		if t.Clause == "ValuesTuple" {
			s.insideValues++
			defer func() { s.insideValues-- }()
		}
		for _, c := range t.Children {
			s.render(c)
		}
	case printtoken.ClauseStart:
		if t.Clause == "With" && s.cfg.WithClauseStyle == WithFullOneline {
			s.collapse++
		}
		for _, c := range t.Children {
			s.render(c)
		}
	case printtoken.ClauseEnd:
		for _, c := range t.Children {
			s.render(c)
		}
		if t.Clause == "With" && s.cfg.WithClauseStyle == WithFullOneline {
			s.collapse--
		}
	case printtoken.CTEStart:
		if s.cfg.WithClauseStyle == WithCTEOneline || s.cfg.WithClauseStyle == WithFullOneline {
			s.collapse++
		}
	case printtoken.CTEEnd:
		if s.cfg.WithClauseStyle == WithCTEOneline || s.cfg.WithClauseStyle == WithFullOneline {
			s.collapse--
		}
	case printtoken.SubQueryStart, printtoken.SubQueryEnd:
		for _, c := range t.Children {
			s.render(c)
		}
	case printtoken.Keyword:
		s.write(s.applyKeywordCase(t.Text))
	case printtoken.Identifier, printtoken.QuotedIdentifier:
		s.write(s.escapeIdentifier(t.Text))
	case printtoken.Literal:
		s.write(t.Text)
	case printtoken.Operator:
		s.write(t.Text)
	case printtoken.Punctuation:
		s.writeToken(t.Text, t.Tight)
	case printtoken.ParameterRef:
		s.write(s.renderParam(t))
	case printtoken.Whitespace:
		s.write(t.Text)
	case printtoken.Newline:
		s.newline()
	case printtoken.IndentIncrement:
		s.indent++
	case printtoken.IndentDecrement:
		if s.indent > 0 {
			s.indent--
		}
	case printtoken.CommaSeparator:
		s.renderBreak(",", s.cfg.commaBreak(s.insideValues > 0))
	case printtoken.AndSeparator:
		s.renderBreak("AND", s.cfg.AndBreak)
	case printtoken.Comment:
		if s.cfg.ExportComment && (t.ClauseLevel || !s.cfg.StrictCommentPlacement) {
			s.write("/* " + t.Text + " */")
		}
	case printtoken.HintBlock:
		s.write(t.Text)
	}
}

func (s *state) renderBreak(text string, style BreakStyle) {
	switch style {
	case BreakBefore:
		s.newline()
		s.write(text)
	case BreakAfter:
		s.write(text)
		s.newline()
	default:
		s.write(text)
	}
}

func (s *state) applyKeywordCase(text string) string {
	switch s.cfg.KeywordCase {
	case KeywordUpper:
		return strings.ToUpper(text)
	case KeywordLower:
		return strings.ToLower(text)
	default:
		return text
	}
}

func (s *state) escapeIdentifier(text string) string {
	if s.cfg.IdentifierEscape == nil {
		return text
	}
	esc := s.cfg.IdentifierEscape
	body := strings.ReplaceAll(text, esc.End, esc.End+esc.End)
	return esc.Start + body + esc.End
}

func (s *state) renderParam(t *printtoken.Token) string {
	switch s.cfg.ParameterStyle {
	case dialect.Named:
		name := s.paramKey(t)
		if s.named == nil {
			s.named = map[string]any{}
		}
		if v, ok := s.bindings.Get(name); ok {
			s.named[name] = v
		}
		if s.cfg.ParameterEscape != nil {
			return s.cfg.ParameterEscape.Start + name + s.cfg.ParameterEscape.End
		}
		return s.cfg.ParameterSymbol + name
	case dialect.Indexed:
		name := s.paramKey(t)
		idx, ok := s.indexOf[name]
		if !ok {
			idx = len(s.indexOf) + 1
			s.indexOf[name] = idx
			if v, ok := s.bindings.Get(name); ok {
				s.ordered = append(s.ordered, v)
			} else {
				s.ordered = append(s.ordered, nil)
			}
		}
		return s.cfg.ParameterSymbol + strconv.Itoa(idx)
	default: // dialect.Anonymous
		name := s.paramKey(t)
		if v, ok := s.bindings.Get(name); ok {
			s.ordered = append(s.ordered, v)
		} else {
			s.ordered = append(s.ordered, nil)
		}
		return s.cfg.ParameterSymbol
	}
}

func (s *state) paramKey(t *printtoken.Token) string {
	if t.ParamName != nil {
		return *t.ParamName
	}
	if t.ParamIndex != nil {
		return strconv.Itoa(*t.ParamIndex)
	}
	return ""
}
