package bible

import (
	"fmt"
	"strings"
)

// LocatedVerse is a read-only reference to a verse together with the
// book, chapter and bible that contain it.
type LocatedVerse struct {
	Bible   *Bible
	Book    *Book
	Chapter *Chapter
	Verse   *Verse
}

// Reference renders the location as "Book C:V".
func (lv *LocatedVerse) Reference() string {
	if lv == nil {
		return ""
	}
	return fmt.Sprintf("%s %d:%d", lv.Book.Name, lv.Chapter.Number, lv.Verse.Number)
}

// Triplet is a (previous, current, next) window of verses. Previous or Next
// is nil at a document boundary.
type Triplet struct {
	Previous *LocatedVerse
	Current  *LocatedVerse
	Next     *LocatedVerse
}

// position indexes a verse by list positions, not numbers.
type position struct {
	book, chapter, verse int
}

func (b *Bible) locate(bookNum, chapterNum, verseNum int) (position, bool) {
	for bi, bk := range b.Books {
		if bk.Number != bookNum {
			continue
		}
		for ci, ch := range bk.Chapters {
			if ch.Number != chapterNum {
				continue
			}
			for vi, v := range ch.Verses {
				if v.Number == verseNum {
					return position{bi, ci, vi}, true
				}
			}
		}
	}
	return position{}, false
}

func (b *Bible) at(p position) *LocatedVerse {
	bk := b.Books[p.book]
	ch := bk.Chapters[p.chapter]
	return &LocatedVerse{Bible: b, Book: bk, Chapter: ch, Verse: ch.Verses[p.verse]}
}

// next steps one verse forward in list order, skipping empty chapters and books.
func (b *Bible) next(p position) (position, bool) {
	bi, ci, vi := p.book, p.chapter, p.verse+1
	for {
		if vi < len(b.Books[bi].Chapters[ci].Verses) {
			return position{bi, ci, vi}, true
		}
		ci++
		vi = 0
		for ci >= len(b.Books[bi].Chapters) {
			bi++
			if bi >= len(b.Books) {
				return position{}, false
			}
			ci = 0
		}
	}
}

// previous steps one verse backward in list order.
func (b *Bible) previous(p position) (position, bool) {
	bi, ci, vi := p.book, p.chapter, p.verse-1
	for {
		if vi >= 0 {
			return position{bi, ci, vi}, true
		}
		ci--
		for ci < 0 {
			bi--
			if bi < 0 {
				return position{}, false
			}
			ci = len(b.Books[bi].Chapters) - 1
		}
		vi = len(b.Books[bi].Chapters[ci].Verses) - 1
	}
}

func (b *Bible) atIf(p position, ok bool) *LocatedVerse {
	if !ok {
		return nil
	}
	return b.at(p)
}

// GetVerse returns the first verse matching the numbers, or nil.
func (b *Bible) GetVerse(bookNum, chapterNum, verseNum int) *LocatedVerse {
	return b.atIf(b.locate(bookNum, chapterNum, verseNum))
}

// GetNextVerse returns the verse after the given one in document order,
// crossing chapter and book boundaries. It returns nil past the end or when
// the starting verse does not exist.
func (b *Bible) GetNextVerse(bookNum, chapterNum, verseNum int) *LocatedVerse {
	p, ok := b.locate(bookNum, chapterNum, verseNum)
	if !ok {
		return nil
	}
	return b.atIf(b.next(p))
}

// GetPreviousVerse returns the verse before the given one in document order.
func (b *Bible) GetPreviousVerse(bookNum, chapterNum, verseNum int) *LocatedVerse {
	p, ok := b.locate(bookNum, chapterNum, verseNum)
	if !ok {
		return nil
	}
	return b.atIf(b.previous(p))
}

func (b *Bible) tripletAt(p position) *Triplet {
	t := &Triplet{Current: b.at(p)}
	t.Previous = b.atIf(b.previous(p))
	t.Next = b.atIf(b.next(p))
	return t
}

// GetTriplet returns the window centred on the given verse, or nil when the
// verse does not exist.
func (b *Bible) GetTriplet(bookNum, chapterNum, verseNum int) *Triplet {
	p, ok := b.locate(bookNum, chapterNum, verseNum)
	if !ok {
		return nil
	}
	return b.tripletAt(p)
}

// GetNextTriplet returns the window centred on the verse after the given one.
func (b *Bible) GetNextTriplet(bookNum, chapterNum, verseNum int) *Triplet {
	p, ok := b.locate(bookNum, chapterNum, verseNum)
	if !ok {
		return nil
	}
	np, ok := b.next(p)
	if !ok {
		return nil
	}
	return b.tripletAt(np)
}

// GetPreviousTriplet returns the window centred on the verse before the given one.
func (b *Bible) GetPreviousTriplet(bookNum, chapterNum, verseNum int) *Triplet {
	p, ok := b.locate(bookNum, chapterNum, verseNum)
	if !ok {
		return nil
	}
	pp, ok := b.previous(p)
	if !ok {
		return nil
	}
	return b.tripletAt(pp)
}

// GetMatchingBook finds the book in b corresponding to a book of another
// bible: first by case-insensitive name, then by number.
func (b *Bible) GetMatchingBook(other *Book) *Book {
	if other == nil {
		return nil
	}
	if name := strings.TrimSpace(other.Name); name != "" {
		if bk := b.BookByName(name); bk != nil {
			return bk
		}
	}
	return b.BookByNumber(other.Number)
}

func (b *Bible) matchLocated(lv *LocatedVerse) *LocatedVerse {
	if lv == nil || lv.Book == nil || lv.Chapter == nil || lv.Verse == nil {
		return nil
	}
	bk := b.GetMatchingBook(lv.Book)
	if bk == nil {
		return nil
	}
	for _, ch := range bk.Chapters {
		if ch.Number != lv.Chapter.Number {
			continue
		}
		if v := ch.VerseByNumber(lv.Verse.Number); v != nil {
			return &LocatedVerse{Bible: b, Book: bk, Chapter: ch, Verse: v}
		}
	}
	return nil
}

// GetMatchingTriplet re-resolves each verse of a triplet taken from another
// bible. Each position is matched independently and may come back nil; the
// result is nil only when nothing matched.
func (b *Bible) GetMatchingTriplet(other *Triplet) *Triplet {
	if other == nil {
		return nil
	}
	t := &Triplet{
		Previous: b.matchLocated(other.Previous),
		Current:  b.matchLocated(other.Current),
		Next:     b.matchLocated(other.Next),
	}
	if t.Previous == nil && t.Current == nil && t.Next == nil {
		return nil
	}
	return t
}
