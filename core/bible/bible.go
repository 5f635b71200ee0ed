// Package bible defines the canonical scripture document tree
// (Bible > Book > Chapter > Verse) and its document-order navigation.
//
// List order is the reading order. Book, chapter and verse numbers are
// labels used for lookup and display; navigation never sorts by them. Call
// Reorder to bring the lists into numeric order explicitly.
package bible

import (
	"sort"
	"strings"
	"time"

	"github.com/FocuswithJustin/JuniperLiturgy/core/tags"
)

// Bible is the root of a scripture document.
type Bible struct {
	ID           string    `json:"id" bson:"id"`
	Name         string    `json:"name" bson:"name"`
	Language     string    `json:"language,omitempty" bson:"language,omitempty"`
	Source       string    `json:"source,omitempty" bson:"source,omitempty"`
	Copyright    string    `json:"copyright,omitempty" bson:"copyright,omitempty"`
	Notes        string    `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedDate  time.Time `json:"created_date" bson:"created_date"`
	ModifiedDate time.Time `json:"modified_date" bson:"modified_date"`
	Tags         tags.Set  `json:"tags,omitempty" bson:"tags,omitempty"`
	Books        []*Book   `json:"books" bson:"books"`
}

// Book is one book of a Bible.
type Book struct {
	Number   int        `json:"number" bson:"number"`
	Name     string     `json:"name" bson:"name"`
	Chapters []*Chapter `json:"chapters" bson:"chapters"`
}

// Chapter is one chapter of a Book.
type Chapter struct {
	Number int      `json:"number" bson:"number"`
	Verses []*Verse `json:"verses" bson:"verses"`
}

// Verse is a single numbered verse. Text may be empty.
type Verse struct {
	Number int    `json:"number" bson:"number"`
	Text   string `json:"text" bson:"text"`
}

// New returns an empty Bible with both dates set to now (UTC).
func New(id, name string) *Bible {
	now := time.Now().UTC()
	return &Bible{ID: id, Name: name, CreatedDate: now, ModifiedDate: now}
}

// AddBook appends a new book and returns it.
func (b *Bible) AddBook(number int, name string) *Book {
	bk := &Book{Number: number, Name: name}
	b.Books = append(b.Books, bk)
	return bk
}

// BookByNumber returns the first book carrying number, or nil.
func (b *Bible) BookByNumber(number int) *Book {
	for _, bk := range b.Books {
		if bk.Number == number {
			return bk
		}
	}
	return nil
}

// BookByName returns the first book whose name matches case-insensitively, or nil.
func (b *Bible) BookByName(name string) *Book {
	name = strings.TrimSpace(name)
	for _, bk := range b.Books {
		if strings.EqualFold(strings.TrimSpace(bk.Name), name) {
			return bk
		}
	}
	return nil
}

// GetLastBook returns the last book in list order, or nil for an empty Bible.
func (b *Bible) GetLastBook() *Book {
	if len(b.Books) == 0 {
		return nil
	}
	return b.Books[len(b.Books)-1]
}

// GetMaxBookNumber returns the highest book number, or 0 for an empty Bible.
func (b *Bible) GetMaxBookNumber() int {
	max := 0
	for _, bk := range b.Books {
		if bk.Number > max {
			max = bk.Number
		}
	}
	return max
}

// VerseCount returns the total number of verses.
func (b *Bible) VerseCount() int {
	n := 0
	for _, bk := range b.Books {
		for _, ch := range bk.Chapters {
			n += len(ch.Verses)
		}
	}
	return n
}

// AddChapter appends a new chapter and returns it.
func (bk *Book) AddChapter(number int) *Chapter {
	ch := &Chapter{Number: number}
	bk.Chapters = append(bk.Chapters, ch)
	return ch
}

// ChapterByNumber returns the first chapter carrying number, or nil.
func (bk *Book) ChapterByNumber(number int) *Chapter {
	for _, ch := range bk.Chapters {
		if ch.Number == number {
			return ch
		}
	}
	return nil
}

// GetOrAddChapter returns the chapter carrying number, appending it if absent.
func (bk *Book) GetOrAddChapter(number int) *Chapter {
	if ch := bk.ChapterByNumber(number); ch != nil {
		return ch
	}
	return bk.AddChapter(number)
}

// AddVerse appends a new verse and returns it.
func (ch *Chapter) AddVerse(number int, text string) *Verse {
	v := &Verse{Number: number, Text: text}
	ch.Verses = append(ch.Verses, v)
	return v
}

// VerseByNumber returns the first verse carrying number, or nil.
func (ch *Chapter) VerseByNumber(number int) *Verse {
	for _, v := range ch.Verses {
		if v.Number == number {
			return v
		}
	}
	return nil
}

// Renumber assigns 1..N to books, chapters and verses in current list order.
func (b *Bible) Renumber() {
	for i, bk := range b.Books {
		bk.Number = i + 1
		for j, ch := range bk.Chapters {
			ch.Number = j + 1
			for k, v := range ch.Verses {
				v.Number = k + 1
			}
		}
	}
}

// SortByNumber stable-sorts books, chapters and verses by their numbers
// without changing any number.
func (b *Bible) SortByNumber() {
	sort.SliceStable(b.Books, func(i, j int) bool { return b.Books[i].Number < b.Books[j].Number })
	for _, bk := range b.Books {
		bk.SortByNumber()
	}
}

// SortByNumber stable-sorts the chapters of bk and the verses of each chapter.
func (bk *Book) SortByNumber() {
	sort.SliceStable(bk.Chapters, func(i, j int) bool { return bk.Chapters[i].Number < bk.Chapters[j].Number })
	for _, ch := range bk.Chapters {
		sort.SliceStable(ch.Verses, func(i, j int) bool { return ch.Verses[i].Number < ch.Verses[j].Number })
	}
}

// Reorder sorts every list by number and then renumbers it 1..N.
func (b *Bible) Reorder() {
	b.SortByNumber()
	b.Renumber()
}

// Copy returns a deep clone sharing no state with b.
func (b *Bible) Copy() *Bible {
	if b == nil {
		return nil
	}
	out := *b
	out.Tags = b.Tags.Clone()
	out.Books = make([]*Book, len(b.Books))
	for i, bk := range b.Books {
		out.Books[i] = bk.Copy()
	}
	return &out
}

// Copy returns a deep clone of bk.
func (bk *Book) Copy() *Book {
	out := &Book{Number: bk.Number, Name: bk.Name, Chapters: make([]*Chapter, len(bk.Chapters))}
	for i, ch := range bk.Chapters {
		out.Chapters[i] = ch.Copy()
	}
	return out
}

// Copy returns a deep clone of ch.
func (ch *Chapter) Copy() *Chapter {
	out := &Chapter{Number: ch.Number, Verses: make([]*Verse, len(ch.Verses))}
	for i, v := range ch.Verses {
		vc := *v
		out.Verses[i] = &vc
	}
	return out
}
