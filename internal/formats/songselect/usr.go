package songselect

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/JuniperLiturgy/core/encoding"
	apperrors "github.com/FocuswithJustin/JuniperLiturgy/core/errors"
	"github.com/FocuswithJustin/JuniperLiturgy/core/song"
)

// Separators used inside .usr values.
const (
	fieldSep = "/t"
	lineSep  = "/n"
)

// usrFile is a parsed .usr file: one "[S A<ccli>]" header and Key=Value lines.
type usrFile struct {
	Lines []usrLine `@@*`
}

type usrLine struct {
	Section  string `  @Section`
	Property string `| @Property`
}

var usrLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `[#;][^\r\n]*`},
	{Name: "Section", Pattern: `\[[^\]\r\n]+\]`},
	{Name: "Property", Pattern: `[a-zA-Z][a-zA-Z0-9_ ]*=[^\r\n]*`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
	{Name: "Newline", Pattern: `[\r\n]+`},
	// Anything else on a line is ignored.
	{Name: "Other", Pattern: `[^\r\n]+`},
})

var usrParser = participle.MustBuild[usrFile](
	participle.Lexer(usrLexer),
	participle.Elide("Comment", "Whitespace", "Newline", "Other"),
)

// ParseUSR reads a SongSelect .usr file. The CCLI number comes from the
// "[S A<number>]" section header.
func ParseUSR(r io.Reader, warn func(string)) (*song.Song, error) {
	if warn == nil {
		warn = func(string) {}
	}
	data, err := io.ReadAll(encoding.NewTextReader(r))
	if err != nil {
		return nil, apperrors.NewIO("read", "", err)
	}
	parsed, err := usrParser.ParseBytes("", data)
	if err != nil {
		return nil, &apperrors.ParseError{Format: Format.Name, Message: "malformed .usr file", Err: err}
	}

	s := song.New("", "")
	l := s.AddLyrics("")
	values := make(map[string]string)
	for _, line := range parsed.Lines {
		if line.Section != "" {
			header := strings.TrimSpace(line.Section[1 : len(line.Section)-1])
			if rest, ok := strings.CutPrefix(header, "S A"); ok {
				s.CCLINumber = strings.TrimSpace(rest)
			}
			continue
		}
		key, value, _ := strings.Cut(line.Property, "=")
		values[strings.ToLower(strings.TrimSpace(key))] = value
	}

	s.Name = strings.TrimSpace(values["title"])
	if s.Name == "" {
		return nil, apperrors.NewParse(Format.Name, "", "missing Title")
	}
	addAuthors(l, values["author"])
	s.Copyright = strings.TrimSpace(values["copyright"])
	s.Publisher = strings.TrimSpace(values["admin"])
	s.Key = strings.TrimSpace(values["keys"])
	for _, theme := range strings.Split(values["themes"], fieldSep) {
		s.Tags.Add(theme)
	}

	var fields, words []string
	if v := values["fields"]; v != "" {
		fields = strings.Split(v, fieldSep)
	}
	if v := values["words"]; v != "" {
		words = strings.Split(v, fieldSep)
	}
	if len(fields) != len(words) {
		warn(fmt.Sprintf("Fields and Words for '%s' differ in length (%d, %d)", s.Name, len(fields), len(words)))
	}
	for i, w := range words {
		name := fmt.Sprintf("Section %d", i+1)
		if i < len(fields) && strings.TrimSpace(fields[i]) != "" {
			name = strings.TrimSpace(fields[i])
		}
		var text []string
		for _, line := range strings.Split(w, lineSep) {
			if line = strings.TrimSpace(line); line != "" {
				text = append(text, line)
			}
		}
		l.AddSection(name, strings.Join(text, "\n"))
	}

	finish(s)
	return s, nil
}
