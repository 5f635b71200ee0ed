// Package opensong imports OpenSong XML bibles.
//
// OpenSong bibles carry no metadata: the bible is named after its file and
// books are numbered by position. Verses may span a range, either through a
// "t" attribute or an "a-b" number.
package opensong

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/JuniperLiturgy/core/bible"
	"github.com/FocuswithJustin/JuniperLiturgy/core/encoding"
	apperrors "github.com/FocuswithJustin/JuniperLiturgy/core/errors"
	"github.com/FocuswithJustin/JuniperLiturgy/core/formats"
	"github.com/FocuswithJustin/JuniperLiturgy/core/xml"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/formats/base"
)

// Format describes OpenSong bible XML.
var Format = formats.Format{
	Name:       "OpenSong",
	Extensions: []string{".xml", ".xmm"},
	MimeTypes:  []string{"application/x-opensong+xml"},
	Roots:      []string{"bible"},
	ReadOnly:   true,
}

// maxRangeSpan bounds how many verses past its start a range may reach.
const maxRangeSpan = 200

// Provider implements formats.Provider for OpenSong bibles.
type Provider struct{}

// New returns an OpenSong provider.
func New() *Provider {
	return &Provider{}
}

// Format returns the OpenSong descriptor.
func (p *Provider) Format() formats.Format {
	return Format
}

// Detect reports whether path is an OpenSong bible.
func (p *Provider) Detect(path string) *formats.DetectResult {
	return base.DetectFile(path, base.DetectConfig{Format: Format})
}

// Import parses path and upserts the bible it holds.
func (p *Provider) Import(adapter formats.PersistAdapter[*bible.Bible], path string) *formats.ImportResult[*bible.Bible] {
	return base.ImportFile(adapter, Format.Name, path, func(path string, result *formats.ImportResult[*bible.Bible]) ([]*bible.Bible, error) {
		f, err := base.OpenFile(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		b, err := Parse(f, name, result.Warn)
		if err != nil {
			var pe *apperrors.ParseError
			if apperrors.As(err, &pe) {
				pe.Path = path
			}
			return nil, err
		}
		return []*bible.Bible{b}, nil
	})
}

// Export is not supported.
func (p *Provider) Export(w io.Writer, b *bible.Bible) error {
	return base.UnsupportedExport(Format.Name)
}

// parser is the per-document state of one OpenSong parse.
type parser struct {
	bible   *bible.Bible
	book    *bible.Book
	chapter *bible.Chapter

	text      strings.Builder
	depth     int // element depth inside the open verse, 0 when none
	verseFrom int
	verseTo   int

	warn func(string)
}

// Parse reads an OpenSong bible from r and names it name.
func Parse(r io.Reader, name string, warn func(string)) (*bible.Bible, error) {
	if warn == nil {
		warn = func(string) {}
	}
	p := &parser{
		bible: bible.New(base.DocumentID(Format.Name, name), name),
		warn:  warn,
	}

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
				if local != "bible" {
					return nil, apperrors.NewParse(Format.Name, "", fmt.Sprintf("root element <%s> is not bible", t.Name.Local))
				}
				continue
			}
			p.start(local, t)
		case xml.EndElement:
			p.end(strings.ToLower(t.Name.Local))
		case xml.CharData:
			if p.depth > 0 {
				p.text.Write(t)
			}
		}
	}
	if !rootSeen {
		return nil, apperrors.NewParse(Format.Name, "", "no root element")
	}
	return p.bible, nil
}

func (p *parser) start(local string, se xml.StartElement) {
	if p.depth > 0 {
		p.depth++
		return
	}
	switch local {
	case "b":
		name, _ := xml.Attr(se, "n")
		num := len(p.bible.Books) + 1
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("Book %d", num)
		}
		p.book = p.bible.AddBook(num, name)
		p.chapter = nil
	case "c":
		if p.book == nil {
			p.warn("Chapter outside of a book ignored")
			return
		}
		raw, _ := xml.Attr(se, "n")
		prev := 0
		if n := len(p.book.Chapters); n > 0 {
			prev = p.book.Chapters[n-1].Number
		}
		num, ok := base.NextNumber(raw, prev)
		if !ok {
			p.warn(formats.NumberWarning("Chapter number", p.book.Name))
		}
		p.chapter = p.book.AddChapter(num)
	case "v":
		if p.chapter == nil {
			p.warn("Verse outside of a chapter ignored")
			return
		}
		p.startVerse(se)
		p.depth = 1
		p.text.Reset()
	}
}

func (p *parser) startVerse(se xml.StartElement) {
	context := fmt.Sprintf("%s %d", p.book.Name, p.chapter.Number)
	prev := 0
	if n := len(p.chapter.Verses); n > 0 {
		prev = p.chapter.Verses[n-1].Number
	}

	raw, _ := xml.Attr(se, "n")
	raw = strings.TrimSpace(raw)
	to := ""
	if i := strings.Index(raw, "-"); i > 0 {
		raw, to = raw[:i], raw[i+1:]
	}
	if t, ok := xml.Attr(se, "t"); ok {
		to = t
	}

	from, ok := base.NextNumber(raw, prev)
	if !ok {
		p.warn(formats.NumberWarning("Verse number", context))
	}
	p.verseFrom, p.verseTo = from, from
	if to != "" {
		n, err := strconv.Atoi(strings.TrimSpace(to))
		switch {
		case err != nil || n-from > maxRangeSpan:
			p.warn(formats.NumberWarning("Verse range end", context))
		case n > from:
			p.verseTo = n
		}
	}
}

func (p *parser) end(local string) {
	if p.depth > 1 {
		p.depth--
		return
	}
	switch local {
	case "v":
		if p.depth == 0 {
			return
		}
		p.depth = 0
		text := encoding.NormalizeSpace(p.text.String())
		context := fmt.Sprintf("%s %d", p.book.Name, p.chapter.Number)
		if text == "" {
			p.warn(fmt.Sprintf("Verse text for '%s:%d' is missing — using empty text", context, p.verseFrom))
		}
		if p.verseTo == p.verseFrom {
			p.chapter.AddVerse(p.verseFrom, text)
			return
		}
		for n := p.verseFrom; n <= p.verseTo; n++ {
			p.warn(fmt.Sprintf("Verse %d of range %d-%d in '%s' duplicates the text of the range", n, p.verseFrom, p.verseTo, context))
			p.chapter.AddVerse(n, text)
		}
	case "c":
		p.chapter = nil
	case "b":
		p.book = nil
		p.chapter = nil
	}
}
