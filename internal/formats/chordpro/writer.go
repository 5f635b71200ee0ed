package chordpro

import (
	"strings"

	"github.com/FocuswithJustin/JuniperLiturgy/core/song"
)

const crlf = "\r\n"

// SectionKind picks the ChordPro environment for a section name: names
// starting with "chorus" or "refrain" are choruses, "bridge" bridges, and
// everything else a verse.
func SectionKind(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	switch {
	case strings.HasPrefix(n, "chorus"), strings.HasPrefix(n, "refrain"):
		return "chorus"
	case strings.HasPrefix(n, "bridge"):
		return "bridge"
	}
	return "verse"
}

// Emit renders s as ChordPro. Metadata directives come first in a fixed
// order, then one block per section of the original lyrics, blocks
// separated by a blank line.
func Emit(s *song.Song) string {
	var b strings.Builder
	line := func(text string) {
		b.WriteString(text)
		b.WriteString(crlf)
	}
	directive := func(name, value string) {
		if value != "" {
			line("{" + name + ": " + value + "}")
		}
	}

	l := s.OriginalLyrics()
	var authors []*song.Author
	var books []*song.SongBook
	var sections []*song.Section
	if l != nil {
		authors, books, sections = l.Authors, l.SongBooks, l.Sections
	}
	byType := func(typ song.AuthorType) {
		name := map[song.AuthorType]string{
			song.AuthorUnspecified: "author",
			song.AuthorComposer:    "composer",
			song.AuthorLyricist:    "lyricist",
			song.AuthorArrangement: "arranger",
			song.AuthorTranslation: "translator",
		}[typ]
		for _, a := range authors {
			if a.Type == typ {
				directive(name, a.Name)
			}
		}
	}

	title := s.Name
	if l != nil && l.Title != "" {
		title = l.Title
	}

	directive("ccli", s.CCLINumber)
	directive("copyright", s.Copyright)
	directive("key", s.Key)
	directive("title", title)
	for _, n := range s.NoteLines() {
		directive("comment", n)
	}
	byType(song.AuthorUnspecified)
	directive("year", s.Released)
	directive("tempo", s.Tempo)
	directive("transpose", s.Transposition)
	directive("subtitle", s.Variant)
	byType(song.AuthorComposer)
	byType(song.AuthorLyricist)
	byType(song.AuthorArrangement)
	byType(song.AuthorTranslation)
	for _, bk := range books {
		if bk.Entry != "" {
			directive("book", bk.Name+" #"+bk.Entry)
		} else {
			directive("book", bk.Name)
		}
	}
	directive("album", s.Source)

	for _, sec := range sections {
		kind := SectionKind(sec.Name)
		line("")
		line("{start_of_" + kind + `: label="` + sec.Name + `"}`)
		for _, l := range sec.Lines() {
			line(l)
		}
		line("{end_of_" + kind + "}")
	}
	return b.String()
}
