// Package ref parses human scripture references such as "John 3:16",
// "1 Cor 13:4-7", "Gen.1.1" or "Psalm 23" and resolves them against a Bible.
package ref

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/JuniperLiturgy/core/bible"
	apperrors "github.com/FocuswithJustin/JuniperLiturgy/core/errors"
)

// Ref is a parsed reference. Verse is 0 for a whole-chapter reference.
type Ref struct {
	Book       string `json:"book,omitempty"`
	BookNumber int    `json:"book_number,omitempty"`
	Chapter    int    `json:"chapter"`
	Verse      int    `json:"verse,omitempty"`
	VerseEnd   int    `json:"verse_end,omitempty"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type refGrammar struct {
	Prefix  *int         `@Int?`
	Words   []string     `@Ident* "."?`
	Locator *locatorPart `@@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type locatorPart struct {
	Chapter int  `@Int`
	Verse   *int `( (":" | ".") @Int )?`
	End     *int `( "-" @Int )?`
}

var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[A-Za-z][A-Za-z']*`},
	{Name: "Punct", Pattern: `[.:\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var refParser = participle.MustBuild[refGrammar](
	participle.Lexer(refLexer),
	participle.Elide("Whitespace"),
)

// Parse parses s. A bare number in place of a book name ("43 3:16") is
// taken as a book number.
func Parse(s string) (*Ref, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, apperrors.NewValidation("reference", "empty reference")
	}
	parsed, err := refParser.ParseString("", s)
	if err != nil {
		return nil, apperrors.NewValidation("reference", fmt.Sprintf("invalid reference %q: %v", s, err))
	}

	r := &Ref{Chapter: parsed.Locator.Chapter}
	switch {
	case len(parsed.Words) == 0 && parsed.Prefix != nil:
		r.BookNumber = *parsed.Prefix
	case len(parsed.Words) == 0:
		return nil, apperrors.NewValidation("reference", fmt.Sprintf("missing book in %q", s))
	default:
		name := strings.Join(parsed.Words, " ")
		if parsed.Prefix != nil {
			name = strconv.Itoa(*parsed.Prefix) + " " + name
		}
		r.Book = name
	}
	if parsed.Locator.Verse != nil {
		r.Verse = *parsed.Locator.Verse
	}
	if parsed.Locator.End != nil {
		if r.Verse == 0 || *parsed.Locator.End < r.Verse {
			return nil, apperrors.NewValidation("reference", fmt.Sprintf("invalid range in %q", s))
		}
		r.VerseEnd = *parsed.Locator.End
	}
	return r, nil
}

// String renders r as "Book C:V", "Book C:V-E" or "Book C".
func (r *Ref) String() string {
	var sb strings.Builder
	if r.Book != "" {
		sb.WriteString(r.Book)
	} else {
		sb.WriteString(strconv.Itoa(r.BookNumber))
	}
	fmt.Fprintf(&sb, " %d", r.Chapter)
	if r.Verse > 0 {
		fmt.Fprintf(&sb, ":%d", r.Verse)
		if r.VerseEnd > r.Verse {
			fmt.Fprintf(&sb, "-%d", r.VerseEnd)
		}
	}
	return sb.String()
}

// Resolve locates the first verse of r in b. Books match by exact name, then
// by number, then by abbreviation ("Gen" for "Genesis", "1 Cor" for
// "1 Corinthians").
func (r *Ref) Resolve(b *bible.Bible) (*bible.LocatedVerse, error) {
	bk := r.matchBook(b)
	if bk == nil {
		return nil, apperrors.NewNotFound("book", r.bookLabel())
	}
	ch := bk.ChapterByNumber(r.Chapter)
	if ch == nil {
		return nil, apperrors.NewNotFound("chapter", r.String())
	}
	var v *bible.Verse
	if r.Verse == 0 {
		if len(ch.Verses) > 0 {
			v = ch.Verses[0]
		}
	} else {
		v = ch.VerseByNumber(r.Verse)
	}
	if v == nil {
		return nil, apperrors.NewNotFound("verse", r.String())
	}
	return &bible.LocatedVerse{Bible: b, Book: bk, Chapter: ch, Verse: v}, nil
}

// ResolveRange returns every verse r covers, in chapter order.
func (r *Ref) ResolveRange(b *bible.Bible) ([]*bible.LocatedVerse, error) {
	first, err := r.Resolve(b)
	if err != nil {
		return nil, err
	}
	var out []*bible.LocatedVerse
	for _, v := range first.Chapter.Verses {
		if r.Verse != 0 && (v.Number < r.Verse || v.Number > max(r.Verse, r.VerseEnd)) {
			continue
		}
		out = append(out, &bible.LocatedVerse{Bible: b, Book: first.Book, Chapter: first.Chapter, Verse: v})
	}
	return out, nil
}

func (r *Ref) bookLabel() string {
	if r.Book != "" {
		return r.Book
	}
	return strconv.Itoa(r.BookNumber)
}

func (r *Ref) matchBook(b *bible.Bible) *bible.Book {
	if bk := b.GetMatchingBook(&bible.Book{Name: r.Book, Number: r.BookNumber}); bk != nil {
		return bk
	}
	if r.Book == "" {
		return nil
	}
	want := squash(r.Book)
	for _, bk := range b.Books {
		if strings.HasPrefix(squash(bk.Name), want) {
			return bk
		}
	}
	return nil
}

// squash lower-cases s and drops everything but letters and digits.
func squash(s string) string {
	var sb strings.Builder
	for _, c := range strings.ToLower(s) {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}
