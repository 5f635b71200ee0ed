package chordpro

import (
	"fmt"
	"io"
	"strings"

	"github.com/FocuswithJustin/JuniperLiturgy/core/encoding"
	apperrors "github.com/FocuswithJustin/JuniperLiturgy/core/errors"
	"github.com/FocuswithJustin/JuniperLiturgy/core/song"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/formats/base"
)

// Directive aliases, resolved before dispatch.
var aliases = map[string]string{
	"t":   "title",
	"st":  "subtitle",
	"c":   "comment",
	"ci":  "comment",
	"cb":  "comment",
	"ns":  "new_song",
	"sov": "start_of_verse",
	"eov": "end_of_verse",
	"soc": "start_of_chorus",
	"eoc": "end_of_chorus",
	"sob": "start_of_bridge",
	"eob": "end_of_bridge",

	"comment_italic": "comment",
	"comment_box":    "comment",
	"artist":         "author",
}

// Author directives and the type each records.
var authorDirectives = map[string]song.AuthorType{
	"author":     song.AuthorUnspecified,
	"composer":   song.AuthorComposer,
	"lyricist":   song.AuthorLyricist,
	"arranger":   song.AuthorArrangement,
	"translator": song.AuthorTranslation,
}

// Directives that set song metadata. Seeing one after a finished section
// begins the next song.
var headerDirectives = map[string]bool{
	"title": true, "subtitle": true, "ccli": true, "copyright": true, "key": true,
	"author": true, "composer": true, "lyricist": true, "arranger": true, "translator": true,
	"year": true, "tempo": true, "transpose": true, "book": true, "album": true,
}

// parser is the per-file state of one ChordPro parse.
type parser struct {
	songs []*song.Song
	cur   *song.Song

	section     *song.Section // open explicit or implicit section
	implicit    bool
	sectionKind string
	lines       []string
	kindCount   map[string]int

	// comments seen between sections, held until the next line shows
	// whether they open another song's header block
	pending []string

	warn func(string)
}

// Parse reads every song in r.
func Parse(r io.Reader, warn func(string)) ([]*song.Song, error) {
	if warn == nil {
		warn = func(string) {}
	}
	lines, err := encoding.ReadLines(r)
	if err != nil {
		return nil, apperrors.NewIO("read", "", err)
	}

	p := &parser{warn: warn}
	p.newSong()
	for i, line := range lines {
		p.line(i+1, line)
	}
	p.flushPending()
	p.closeSection()
	p.finishSong()

	if len(p.songs) == 0 {
		return nil, apperrors.NewParse(Format.Name, "", "no song content")
	}
	return p.songs, nil
}

func (p *parser) newSong() {
	p.cur = song.New("", "")
	p.cur.AddLyrics("")
	p.kindCount = make(map[string]int)
}

// finishSong keeps the current song if it holds anything.
func (p *parser) finishSong() {
	s := p.cur
	l := s.Lyrics[0]
	if s.Name == "" && len(l.Sections) == 0 && len(l.Authors) == 0 && s.Notes == "" {
		return
	}
	if s.Name == "" {
		s.Name = fmt.Sprintf("Untitled %d", len(p.songs)+1)
		p.warn(fmt.Sprintf("Song %d has no title — using '%s'", len(p.songs)+1, s.Name))
	}
	if s.DefaultTitle == "" {
		s.DefaultTitle = s.Name
	}
	if l.Title == "" {
		l.Title = s.Name
	}
	key := s.Name
	if s.CCLINumber != "" {
		key += "|" + s.CCLINumber
	}
	s.ID = base.DocumentID(Format.Name, key)
	p.songs = append(p.songs, s)
}

func (p *parser) line(lineNo int, raw string) {
	trimmed := strings.TrimSpace(raw)

	if IsDirective(trimmed) {
		d, err := ParseDirective(trimmed)
		if err != nil {
			p.warn(fmt.Sprintf("Line %d: directive could not be parsed — ignored", lineNo))
			return
		}
		p.directive(d)
		return
	}

	if strings.HasPrefix(trimmed, "#") {
		return
	}

	if trimmed == "" {
		if p.implicit {
			p.closeSection()
		}
		return
	}

	if p.section == nil {
		p.flushPending()
		p.openSection("verse", "", true)
	}
	p.lines = append(p.lines, strings.TrimRight(raw, "\r"))
}

func (p *parser) directive(d *Directive) {
	name := d.Name
	if a, ok := aliases[name]; ok {
		name = a
	}

	if name == "comment" && p.section == nil && len(p.cur.Lyrics[0].Sections) > 0 {
		p.pending = append(p.pending, d.Value)
		return
	}
	if headerDirectives[name] {
		if p.implicit {
			p.closeSection()
		}
		if p.section == nil && len(p.cur.Lyrics[0].Sections) > 0 {
			p.finishSong()
			p.newSong()
		}
	}
	p.flushPending()

	switch {
	case strings.HasPrefix(name, "start_of_"):
		p.closeSection()
		p.openSection(strings.TrimPrefix(name, "start_of_"), d.Label(), false)
		return
	case strings.HasPrefix(name, "end_of_"):
		p.closeSection()
		return
	case name == "new_song":
		p.closeSection()
		p.finishSong()
		p.newSong()
		return
	}
	p.apply(name, d.Value)
}

// flushPending attaches held comments to the current song.
func (p *parser) flushPending() {
	for _, c := range p.pending {
		p.cur.AddNote(c)
	}
	p.pending = nil
}

func (p *parser) apply(name, value string) {
	s := p.cur
	l := s.Lyrics[0]
	if typ, ok := authorDirectives[name]; ok {
		if value != "" {
			l.AddAuthor(value, typ)
		}
		return
	}

	switch name {
	case "title":
		s.Name = value
		s.DefaultTitle = value
		l.Title = value
	case "subtitle":
		s.Variant = value
	case "ccli":
		s.CCLINumber = value
	case "copyright":
		s.Copyright = value
	case "key":
		s.Key = value
	case "comment":
		s.AddNote(value)
	case "year":
		s.Released = value
	case "tempo":
		s.Tempo = value
	case "transpose":
		s.Transposition = value
	case "album":
		s.Source = value
	case "book":
		bookName, entry, _ := strings.Cut(value, " #")
		l.AddSongBook(strings.TrimSpace(bookName), strings.TrimSpace(entry))
	}
}

func (p *parser) openSection(kind, label string, implicit bool) {
	p.kindCount[kind]++
	if label == "" {
		label = fmt.Sprintf("%s %d", defaultName(kind), p.kindCount[kind])
	}
	p.section = &song.Section{Name: label}
	p.sectionKind = kind
	p.implicit = implicit
	p.lines = nil
}

func (p *parser) closeSection() {
	if p.section == nil {
		return
	}
	p.section.Text = strings.Join(p.lines, "\n")
	l := p.cur.Lyrics[0]
	l.Sections = append(l.Sections, p.section)
	p.section = nil
	p.implicit = false
	p.lines = nil
}

func defaultName(kind string) string {
	if kind == "" {
		return "Section"
	}
	return strings.ToUpper(kind[:1]) + kind[1:]
}
