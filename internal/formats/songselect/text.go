package songselect

import (
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/FocuswithJustin/JuniperLiturgy/core/encoding"
	apperrors "github.com/FocuswithJustin/JuniperLiturgy/core/errors"
	"github.com/FocuswithJustin/JuniperLiturgy/core/song"
)

var (
	// sectionLabel matches "Verse 1", "Chorus", "Misc 1 (BRIDGE)", "Pre-Chorus 2".
	sectionLabel = regexp.MustCompile(`(?i)^(verse|chorus|pre-chorus|prechorus|bridge|intro|outro|ending|tag|interlude|instrumental|misc|refrain|vamp|coda|turnaround|channel)(\s+\d+[a-z]?)?(\s*\(.*\))?$`)
	ccliSong     = regexp.MustCompile(`(?i)^CCLI\s+Song\s*(#|No\.?)\s*(\d+)`)
	headerLabel  = regexp.MustCompile(`^(?i)(title|author|authors|copyright|ccli|key|theme|themes)\s*:\s*(.*)$`)
)

// ParseText reads a SongSelect .txt export.
func ParseText(r io.Reader, warn func(string)) (*song.Song, error) {
	if warn == nil {
		warn = func(string) {}
	}
	lines, err := encoding.ReadLines(r)
	if err != nil {
		return nil, apperrors.NewIO("read", "", err)
	}

	s := song.New("", "")
	l := s.AddLyrics("")

	i := parseHeader(s, l, lines)

	var (
		section   *song.Section
		body      []string
		footer    bool
		afterCCLI bool

		// the footer's author line has been read
		footerAuthors bool
	)
	prevBlank := true
	closeSection := func() {
		if section != nil {
			section.Text = strings.Join(body, "\n")
			l.Sections = append(l.Sections, section)
		}
		section, body = nil, nil
	}

	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			prevBlank = true
			continue
		}

		if m := ccliSong.FindStringSubmatch(line); m != nil {
			closeSection()
			s.CCLINumber = m[2]
			footer, afterCCLI = true, true
			continue
		}
		if footer || isCopyright(line) {
			if !footer {
				closeSection()
				footer = true
			}
			switch {
			case isCopyright(line):
				s.Copyright = copyrightText(line)
			case isBoilerplate(line):
			case afterCCLI && len(l.Authors) == 0:
				addAuthors(l, line)
				footerAuthors = true
			case footerAuthors && s.Copyright == "":
				// Plain holder lines such as "Public Domain".
				s.Copyright = line
			}
			continue
		}

		if prevBlank && isLabel(line) {
			closeSection()
			section = &song.Section{Name: labelText(line)}
			prevBlank = false
			continue
		}
		prevBlank = false

		if section == nil {
			section = &song.Section{Name: "Verse"}
			warn("Lyrics before the first section label — using 'Verse'")
		}
		body = append(body, line)
	}
	closeSection()

	if s.Name == "" {
		return nil, apperrors.NewParse(Format.Name, "", "missing title")
	}
	finish(s)
	return s, nil
}

// parseHeader reads either labeled "Key: value" lines or a bare title line
// and returns the index of the first body line.
func parseHeader(s *song.Song, l *song.Lyrics, lines []string) int {
	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	labeled := false
	for ; i < len(lines); i++ {
		m := headerLabel.FindStringSubmatch(strings.TrimSpace(lines[i]))
		if m == nil {
			break
		}
		labeled = true
		value := strings.TrimSpace(m[2])
		switch strings.ToLower(m[1]) {
		case "title":
			s.Name = value
		case "author", "authors":
			addAuthors(l, value)
		case "copyright":
			s.Copyright = value
		case "ccli":
			s.CCLINumber = value
		case "key":
			s.Key = value
		case "theme", "themes":
			for _, t := range strings.Split(value, ",") {
				s.Tags.Add(t)
			}
		}
	}
	if labeled {
		return i
	}
	if i < len(lines) {
		s.Name = strings.TrimSpace(lines[i])
		i++
	}
	return i
}

func isLabel(line string) bool {
	if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") && len(line) > 2 {
		return true
	}
	if sectionLabel.MatchString(line) {
		return true
	}
	return isShortCaps(line)
}

// isShortCaps reports an upper-case line of at most three words, such as
// "CHORUS" or "VERSE 2".
func isShortCaps(line string) bool {
	if len(strings.Fields(line)) > 3 {
		return false
	}
	letters := 0
	for _, r := range line {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		}
	}
	return letters > 1
}

func labelText(line string) string {
	line = strings.TrimPrefix(line, "[")
	line = strings.TrimSuffix(line, "]")
	return strings.TrimSpace(line)
}

func isCopyright(line string) bool {
	lower := strings.ToLower(line)
	return strings.HasPrefix(line, "©") || strings.HasPrefix(lower, "(c)") || strings.HasPrefix(lower, "copyright ")
}

func copyrightText(line string) string {
	for _, p := range []string{"©", "(c)", "(C)", "Copyright", "copyright"} {
		if rest, ok := strings.CutPrefix(line, p); ok {
			return strings.TrimSpace(rest)
		}
	}
	return line
}

func isBoilerplate(line string) bool {
	lower := strings.ToLower(line)
	return strings.HasPrefix(lower, "for use solely") ||
		strings.HasPrefix(lower, "ccli license") ||
		strings.HasPrefix(lower, "note:") ||
		strings.Contains(lower, "www.ccli.com")
}
