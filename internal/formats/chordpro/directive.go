package chordpro

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Directive is one parsed "{name: value}" line.
type Directive struct {
	Name  string
	Value string
}

// directiveGrammar is the participle grammar for a directive line.
// Examples: "{title: Amazing Grace}", "{soc}", "{start_of_verse: label="Verse 1"}"
//
//nolint:govet // participle grammar tags are not standard struct tags
type directiveGrammar struct {
	Name  string `"{" Whitespace? @Ident Whitespace?`
	Value string `":"? @~"}"* "}"`
}

// directiveLexer keeps whitespace so values survive verbatim.
var directiveLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_\-]*`},
	{Name: "Punct", Pattern: `[{}:]`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
	{Name: "Text", Pattern: `[^{}:\s]+`},
})

var directiveParser = participle.MustBuild[directiveGrammar](
	participle.Lexer(directiveLexer),
)

// IsDirective reports whether line has the shape of a directive.
func IsDirective(line string) bool {
	line = strings.TrimSpace(line)
	return strings.HasPrefix(line, "{") && strings.HasSuffix(line, "}")
}

// ParseDirective parses a directive line. The name is lower-cased and the
// value trimmed.
func ParseDirective(line string) (*Directive, error) {
	g, err := directiveParser.ParseString("", strings.TrimSpace(line))
	if err != nil {
		return nil, err
	}
	return &Directive{
		Name:  strings.ToLower(g.Name),
		Value: strings.TrimSpace(g.Value),
	}, nil
}

// Label extracts the section name from a section directive value. Both
// `label="Verse 1"` and a bare `Verse 1` are accepted.
func (d *Directive) Label() string {
	v := d.Value
	if rest, ok := strings.CutPrefix(v, "label="); ok {
		v = strings.TrimSpace(rest)
		if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
			v = v[1 : len(v)-1]
		}
	}
	return strings.TrimSpace(v)
}
