package zefania

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/FocuswithJustin/JuniperLiturgy/core/bible"
	"github.com/FocuswithJustin/JuniperLiturgy/core/encoding"
	apperrors "github.com/FocuswithJustin/JuniperLiturgy/core/errors"
	"github.com/FocuswithJustin/JuniperLiturgy/core/formats"
	"github.com/FocuswithJustin/JuniperLiturgy/core/xml"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/formats/base"
)

// Elements whose text never belongs to the verse.
var ignored = map[string]bool{
	"note":    true,
	"xref":    true,
	"div":     true,
	"remark":  true,
	"caption": true,
}

// Element name aliases, keyed by lower-case local name.
var elementAlias = map[string]string{
	"xmlbible":  "bible",
	"x":         "bible",
	"biblebook": "book",
	"b":         "book",
	"chapter":   "chapter",
	"c":         "chapter",
	"vers":      "verse",
	"v":         "verse",
}

func parseFile(path string, result *formats.ImportResult[*bible.Bible]) ([]*bible.Bible, error) {
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
}

// parser is the per-document state of one Zefania parse.
type parser struct {
	bible   *bible.Bible
	book    *bible.Book
	chapter *bible.Chapter

	path     []string // lower-case local names of open elements
	text     strings.Builder
	ignore   int // depth inside ignored elements
	inVerse  bool
	verseNum int

	info map[string]string
	warn func(string)
}

// Parse reads a Zefania document from r. fallbackName names the bible when
// the document carries neither a title nor a biblename. Recoverable problems
// are passed to warn.
func Parse(r io.Reader, fallbackName string, warn func(string)) (*bible.Bible, error) {
	if warn == nil {
		warn = func(string) {}
	}
	p := &parser{
		bible: bible.New("", ""),
		info:  make(map[string]string),
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
				if elementAlias[local] != "bible" {
					return nil, apperrors.NewParse(Format.Name, "", fmt.Sprintf("root element <%s> is not XMLBIBLE", t.Name.Local))
				}
			}
			p.start(local, t)
		case xml.EndElement:
			p.end(strings.ToLower(t.Name.Local))
		case xml.CharData:
			if p.ignore == 0 {
				p.text.Write(t)
			}
		}
	}
	if !rootSeen {
		return nil, apperrors.NewParse(Format.Name, "", "no root element")
	}

	p.applyInformation(fallbackName)
	return p.bible, nil
}

func (p *parser) parent() string {
	if len(p.path) == 0 {
		return ""
	}
	return p.path[len(p.path)-1]
}

func (p *parser) start(local string, se xml.StartElement) {
	defer func() { p.path = append(p.path, local) }()

	if p.ignore > 0 || (p.inVerse && ignored[local]) {
		p.ignore++
		return
	}
	if p.inVerse {
		// Inline markup such as STYLE or gr keeps its text.
		return
	}
	if p.parent() == "information" {
		p.text.Reset()
		return
	}

	switch elementAlias[local] {
	case "bible":
		if v, ok := xml.Attr(se, "biblename"); ok {
			p.bible.Name = strings.TrimSpace(v)
		}
		if v, ok := xml.Attr(se, "language"); ok {
			p.info["language"] = strings.TrimSpace(v)
		}
	case "book":
		p.startBook(se)
	case "chapter":
		p.startChapter(se)
	case "verse":
		p.startVerse(se)
	}
}

func (p *parser) startBook(se xml.StartElement) {
	name, _ := xml.Attr(se, "bname", "bn")
	name = strings.TrimSpace(name)
	raw, _ := xml.Attr(se, "bnumber", "n")

	prev := 0
	if last := p.bible.GetLastBook(); last != nil {
		prev = last.Number
	}
	num, ok := base.NextNumber(raw, prev)
	if name == "" {
		name = fmt.Sprintf("Book %d", num)
	}
	if !ok {
		p.warn(formats.NumberWarning("Book number", name))
	}
	p.book = p.bible.AddBook(num, name)
	p.chapter = nil
}

func (p *parser) startChapter(se xml.StartElement) {
	if p.book == nil {
		p.warn("Chapter outside of a book ignored")
		p.chapter = nil
		return
	}
	raw, _ := xml.Attr(se, "cnumber", "n")
	prev := 0
	if n := len(p.book.Chapters); n > 0 {
		prev = p.book.Chapters[n-1].Number
	}
	num, ok := base.NextNumber(raw, prev)
	if !ok {
		p.warn(formats.NumberWarning("Chapter number", p.book.Name))
	}
	p.chapter = p.book.AddChapter(num)
}

func (p *parser) startVerse(se xml.StartElement) {
	if p.chapter == nil {
		p.warn("Verse outside of a chapter ignored")
		p.ignore++
		return
	}
	raw, _ := xml.Attr(se, "vnumber", "n")
	prev := 0
	if n := len(p.chapter.Verses); n > 0 {
		prev = p.chapter.Verses[n-1].Number
	}
	num, ok := base.NextNumber(raw, prev)
	if !ok {
		p.warn(formats.NumberWarning("Verse number", fmt.Sprintf("%s %d", p.book.Name, p.chapter.Number)))
	}
	p.verseNum = num
	p.inVerse = true
	p.text.Reset()
}

func (p *parser) end(local string) {
	if len(p.path) > 0 {
		p.path = p.path[:len(p.path)-1]
	}
	if p.ignore > 0 {
		p.ignore--
		return
	}

	if p.parent() == "information" {
		p.info[local] = encoding.NormalizeSpace(p.text.String())
		p.text.Reset()
		return
	}

	switch elementAlias[local] {
	case "verse":
		if !p.inVerse {
			return
		}
		text := encoding.NormalizeSpace(p.text.String())
		if text == "" {
			p.warn(fmt.Sprintf("Verse text for '%s %d:%d' is missing — using empty text", p.book.Name, p.chapter.Number, p.verseNum))
		}
		p.chapter.AddVerse(p.verseNum, text)
		p.inVerse = false
		p.text.Reset()
	case "chapter":
		p.chapter = nil
	case "book":
		p.book = nil
		p.chapter = nil
	}
}

func (p *parser) applyInformation(fallbackName string) {
	b := p.bible
	if v := p.info["title"]; v != "" {
		b.Name = v
	}
	if b.Name == "" {
		b.Name = fallbackName
	}
	b.Language = p.info["language"]
	b.Copyright = p.info["rights"]
	b.Source = p.info["source"]
	if b.Source == "" {
		b.Source = p.info["publisher"]
	}
	b.Notes = p.info["description"]
	b.ID = p.info["identifier"]
	if b.ID == "" {
		b.ID = base.DocumentID(Format.Name, b.Name)
	}
}
