package openlyrics

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/FocuswithJustin/JuniperLiturgy/core/encoding"
	apperrors "github.com/FocuswithJustin/JuniperLiturgy/core/errors"
	"github.com/FocuswithJustin/JuniperLiturgy/core/formats"
	"github.com/FocuswithJustin/JuniperLiturgy/core/song"
	"github.com/FocuswithJustin/JuniperLiturgy/core/xml"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/formats/base"
)

// authorTypes maps OpenLyrics author types to the model.
var authorTypes = map[string]song.AuthorType{
	"words":       song.AuthorLyricist,
	"music":       song.AuthorComposer,
	"translation": song.AuthorTranslation,
	"arrangement": song.AuthorArrangement,
}

// Elements inside lines whose content is not lyric text. Chords keep the
// syllables they wrap.
var skipInLines = map[string]bool{
	"comment": true,
}

func parseFile(path string, result *formats.ImportResult[*song.Song]) ([]*song.Song, error) {
	f, err := base.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Parse(f, result.Warn)
	if err != nil {
		var pe *apperrors.ParseError
		if apperrors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return []*song.Song{s}, nil
}

type pendingAuthor struct {
	name, lang string
	typ        song.AuthorType
}

type pendingBook struct {
	name, entry string
}

// parser is the per-document state of one OpenLyrics parse.
type parser struct {
	song *song.Song

	path  []string // lower-case local names of open elements
	attrs xml.StartElement
	text  strings.Builder

	// verse state
	verseName, verseLang string
	lines                []string
	line                 strings.Builder
	inLines              bool
	afterBreak           bool // the last line ended at a <br/>
	skip                 int

	authors []pendingAuthor
	books   []pendingBook
	warn    func(string)
}

// Parse reads one OpenLyrics song from r.
func Parse(r io.Reader, warn func(string)) (*song.Song, error) {
	if warn == nil {
		warn = func(string) {}
	}
	p := &parser{song: song.New("", ""), warn: warn}

	d := xml.NewDecoder(r)
	rootSeen := false
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			line, _ := d.InputPos()
			return nil, &apperrors.ParseError{Format: Format.Name, Line: line, Message: err.Error(), Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			local := strings.ToLower(t.Name.Local)
			if !rootSeen {
				rootSeen = true
				if local != "song" {
					return nil, apperrors.NewParse(Format.Name, "", fmt.Sprintf("root element <%s> is not song", t.Name.Local))
				}
				p.startSong(t)
			} else {
				p.start(local, t)
			}
			p.path = append(p.path, local)
		case xml.EndElement:
			local := strings.ToLower(t.Name.Local)
			if len(p.path) > 0 {
				p.path = p.path[:len(p.path)-1]
			}
			p.end(local)
		case xml.CharData:
			switch {
			case p.skip > 0:
			case p.inLines:
				p.line.Write(t)
			default:
				p.text.Write(t)
			}
		}
	}
	if !rootSeen {
		return nil, apperrors.NewParse(Format.Name, "", "no root element")
	}

	p.finish()
	return p.song, nil
}

func (p *parser) parent() string {
	if len(p.path) == 0 {
		return ""
	}
	return p.path[len(p.path)-1]
}

func (p *parser) startSong(se xml.StartElement) {
	s := p.song
	s.CreatedIn, _ = xml.Attr(se, "createdIn")
	s.ModifiedIn, _ = xml.Attr(se, "modifiedIn")
	if v, ok := xml.Attr(se, "modifiedDate"); ok && strings.TrimSpace(v) != "" {
		t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(v))
		if err != nil {
			p.warn(fmt.Sprintf("Modified date '%s' could not be parsed — ignoring it", v))
		} else {
			s.ModifiedDate = t.UTC()
		}
	}
}

func (p *parser) start(local string, se xml.StartElement) {
	if p.skip > 0 {
		p.skip++
		return
	}
	if p.inLines {
		switch {
		case skipInLines[local]:
			p.skip = 1
		case local == "br":
			p.breakLine()
			p.afterBreak = true
		case local == "line":
			// OpenLyrics 0.8 wraps each line in its own element.
			if encoding.NormalizeSpace(p.line.String()) != "" {
				p.breakLine()
			}
			p.line.Reset()
		}
		return
	}

	p.attrs = se.Copy()
	p.text.Reset()
	switch local {
	case "verse":
		if p.parent() == "lyrics" {
			p.verseName, _ = xml.Attr(se, "name")
			p.verseLang, _ = xml.Attr(se, "lang")
			p.lines = nil
		}
	case "lines":
		p.inLines = true
		p.afterBreak = false
		p.line.Reset()
	case "songbook":
		name, _ := xml.Attr(se, "name")
		entry, _ := xml.Attr(se, "entry")
		p.books = append(p.books, pendingBook{name: strings.TrimSpace(name), entry: strings.TrimSpace(entry)})
	}
}

func (p *parser) breakLine() {
	p.lines = append(p.lines, encoding.NormalizeSpace(p.line.String()))
	p.line.Reset()
}

func (p *parser) end(local string) {
	if p.skip > 0 {
		p.skip--
		return
	}
	if p.inLines {
		switch local {
		case "lines":
			p.inLines = false
			if rest := encoding.NormalizeSpace(p.line.String()); rest != "" || p.afterBreak {
				p.lines = append(p.lines, rest)
			}
			p.line.Reset()
		case "line":
			p.breakLine()
			p.afterBreak = false
		}
		return
	}

	text := encoding.NormalizeSpace(p.text.String())
	p.text.Reset()
	s := p.song

	switch p.parent() {
	case "titles":
		if local == "title" {
			p.addTitle(text)
		}
		return
	case "authors":
		if local == "author" {
			typ, _ := xml.Attr(p.attrs, "type")
			lang, _ := xml.Attr(p.attrs, "lang")
			p.authors = append(p.authors, pendingAuthor{name: text, lang: lang, typ: authorTypes[strings.ToLower(typ)]})
		}
		return
	case "themes":
		if local == "theme" {
			s.Tags.Add(text)
		}
		return
	case "comments":
		if local == "comment" && text != "" {
			s.AddNote(text)
		}
		return
	case "properties":
		p.setProperty(local, text)
		return
	case "lyrics":
		if local == "verse" {
			p.endVerse()
		}
	}
}

func (p *parser) addTitle(text string) {
	s := p.song
	lang, _ := xml.Attr(p.attrs, "lang")
	l := s.GetOrAddLyrics(song.CanonicalLanguage(lang))
	if l.Title == "" {
		l.Title = text
	}
	if v, _ := xml.Attr(p.attrs, "original"); strings.EqualFold(v, "true") {
		l.IsOriginal = true
	}
	if v, ok := xml.Attr(p.attrs, "translit"); ok {
		l.Transliteration = v
	}
	if s.Name == "" {
		s.Name = text
		s.DefaultTitle = text
	}
}

func (p *parser) setProperty(local, text string) {
	s := p.song
	switch local {
	case "copyright":
		s.Copyright = text
	case "cclino":
		s.CCLINumber = text
	case "released":
		s.Released = text
	case "transposition":
		s.Transposition = text
	case "tempo":
		s.Tempo = text
	case "key":
		s.Key = text
	case "variant":
		s.Variant = text
	case "publisher":
		s.Publisher = text
	case "keywords":
		s.Keywords = text
	}
}

func (p *parser) endVerse() {
	l := p.lyricsFor(p.verseLang)
	l.AddSection(p.verseName, strings.Join(p.lines, "\n"))
	p.lines = nil
}

// lyricsFor returns the variant for lang. An empty lang selects the first
// variant, creating one if the song has none. A variant without a language
// and without sections adopts the first concrete language asked for.
func (p *parser) lyricsFor(lang string) *song.Lyrics {
	lang = song.CanonicalLanguage(lang)
	if lang == "" && len(p.song.Lyrics) > 0 {
		return p.song.Lyrics[0]
	}
	if l := p.song.LyricsFor(lang); l != nil {
		return l
	}
	if lang != "" {
		if l := p.song.LyricsFor(""); l != nil && len(l.Sections) == 0 {
			l.Language = lang
			return l
		}
	}
	return p.song.AddLyrics(lang)
}

func (p *parser) finish() {
	s := p.song
	for _, a := range p.authors {
		p.lyricsFor(a.lang).AddAuthor(a.name, a.typ)
	}
	for _, b := range p.books {
		p.lyricsFor("").AddSongBook(b.name, b.entry)
	}
	if s.Name == "" {
		s.Name = "Untitled"
		p.warn("Song has no title — using 'Untitled'")
	}
	key := s.Name
	if s.CCLINumber != "" {
		key += "|" + s.CCLINumber
	}
	s.ID = base.DocumentID(Format.Name, key)
}
