package openlyrics

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/FocuswithJustin/JuniperLiturgy/core/encoding"
	"github.com/FocuswithJustin/JuniperLiturgy/core/song"
)

// exportTypes maps model author types back to OpenLyrics.
var exportTypes = map[song.AuthorType]string{
	song.AuthorLyricist:    "words",
	song.AuthorComposer:    "music",
	song.AuthorTranslation: "translation",
	song.AuthorArrangement: "arrangement",
}

// FormatModifiedDate renders t in UTC, with sub-second digits only when t
// carries them.
func FormatModifiedDate(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond() == 0 {
		return t.Format("2006-01-02T15:04:05Z")
	}
	return t.Format(time.RFC3339Nano)
}

// Emit renders s as an OpenLyrics document. Empty properties are omitted.
// Authors and song books of the first lyrics variant are written without a
// lang attribute; those of later variants carry the variant's language.
func Emit(s *song.Song) string {
	var buf strings.Builder

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
`)
	buf.WriteString(fmt.Sprintf(`<song xmlns="%s" version="%s"`, Namespace, Version))
	writeAttr(&buf, "createdIn", s.CreatedIn)
	writeAttr(&buf, "modifiedIn", s.ModifiedIn)
	if !s.ModifiedDate.IsZero() {
		writeAttr(&buf, "modifiedDate", FormatModifiedDate(s.ModifiedDate))
	}
	buf.WriteString(">\n")

	buf.WriteString("  <properties>\n")
	writeTitles(&buf, s)
	writeAuthors(&buf, s)
	writeElement(&buf, "copyright", s.Copyright)
	writeElement(&buf, "ccliNo", s.CCLINumber)
	writeElement(&buf, "released", s.Released)
	writeElement(&buf, "transposition", s.Transposition)
	if s.Tempo != "" {
		typ := "text"
		if _, err := strconv.Atoi(s.Tempo); err == nil {
			typ = "bpm"
		}
		buf.WriteString(fmt.Sprintf("    <tempo type=\"%s\">%s</tempo>\n", typ, encoding.EscapeXMLText(s.Tempo)))
	}
	writeElement(&buf, "key", s.Key)
	writeElement(&buf, "variant", s.Variant)
	writeElement(&buf, "publisher", s.Publisher)
	writeElement(&buf, "keywords", s.Keywords)
	writeSongBooks(&buf, s)
	if len(s.Tags) > 0 {
		buf.WriteString("    <themes>\n")
		for _, tag := range s.Tags {
			buf.WriteString(fmt.Sprintf("      <theme>%s</theme>\n", encoding.EscapeXMLText(tag)))
		}
		buf.WriteString("    </themes>\n")
	}
	if notes := s.NoteLines(); len(notes) > 0 {
		buf.WriteString("    <comments>\n")
		for _, n := range notes {
			buf.WriteString(fmt.Sprintf("      <comment>%s</comment>\n", encoding.EscapeXMLText(n)))
		}
		buf.WriteString("    </comments>\n")
	}
	buf.WriteString("  </properties>\n")

	writeLyrics(&buf, s)
	buf.WriteString("</song>\n")
	return buf.String()
}

func writeAttr(buf *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	buf.WriteString(fmt.Sprintf(` %s="%s"`, name, encoding.EscapeXMLAttr(value)))
}

func writeElement(buf *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	buf.WriteString(fmt.Sprintf("    <%s>%s</%s>\n", name, encoding.EscapeXMLText(value), name))
}

func writeTitles(buf *strings.Builder, s *song.Song) {
	buf.WriteString("    <titles>\n")
	wrote := false
	for _, l := range s.Lyrics {
		if l.Title == "" {
			continue
		}
		buf.WriteString("      <title")
		writeAttr(buf, "lang", l.Language)
		if l.IsOriginal {
			writeAttr(buf, "original", "true")
		}
		writeAttr(buf, "translit", l.Transliteration)
		buf.WriteString(fmt.Sprintf(">%s</title>\n", encoding.EscapeXMLText(l.Title)))
		wrote = true
	}
	if !wrote {
		buf.WriteString(fmt.Sprintf("      <title>%s</title>\n", encoding.EscapeXMLText(s.Name)))
	}
	buf.WriteString("    </titles>\n")
}

func writeAuthors(buf *strings.Builder, s *song.Song) {
	if len(s.AllAuthors()) == 0 {
		return
	}
	buf.WriteString("    <authors>\n")
	for i, l := range s.Lyrics {
		for _, a := range l.Authors {
			buf.WriteString("      <author")
			writeAttr(buf, "type", exportTypes[a.Type])
			if i > 0 {
				writeAttr(buf, "lang", l.Language)
			}
			buf.WriteString(fmt.Sprintf(">%s</author>\n", encoding.EscapeXMLText(a.Name)))
		}
	}
	buf.WriteString("    </authors>\n")
}

func writeSongBooks(buf *strings.Builder, s *song.Song) {
	var books []*song.SongBook
	for _, l := range s.Lyrics {
		books = append(books, l.SongBooks...)
	}
	if len(books) == 0 {
		return
	}
	buf.WriteString("    <songbooks>\n")
	for _, b := range books {
		buf.WriteString("      <songbook")
		writeAttr(buf, "name", b.Name)
		writeAttr(buf, "entry", b.Entry)
		buf.WriteString("/>\n")
	}
	buf.WriteString("    </songbooks>\n")
}

func writeLyrics(buf *strings.Builder, s *song.Song) {
	buf.WriteString("  <lyrics>\n")
	for _, l := range s.Lyrics {
		for _, sec := range l.Sections {
			buf.WriteString("    <verse")
			writeAttr(buf, "name", sec.Name)
			writeAttr(buf, "lang", l.Language)
			buf.WriteString(">\n")
			if sec.Text == "" {
				buf.WriteString("      <lines/>\n")
			} else {
				lines := strings.Split(sec.Text, "\n")
				for i, line := range lines {
					lines[i] = encoding.EscapeXMLText(line)
				}
				buf.WriteString(fmt.Sprintf("      <lines>%s</lines>\n", strings.Join(lines, "<br/>")))
			}
			buf.WriteString("    </verse>\n")
		}
	}
	buf.WriteString("  </lyrics>\n")
}
