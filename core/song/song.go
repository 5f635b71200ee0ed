// Package song defines the canonical lyric document tree
// (Song > Lyrics > Author, SongBook, Section).
package song

import (
	"strings"
	"time"

	"github.com/FocuswithJustin/JuniperLiturgy/core/tags"
)

// AuthorType classifies an author's contribution.
type AuthorType string

// Author type constants.
const (
	AuthorUnspecified AuthorType = ""
	AuthorComposer    AuthorType = "composer"
	AuthorLyricist    AuthorType = "lyricist"
	AuthorTranslation AuthorType = "translation"
	AuthorArrangement AuthorType = "arrangement"
)

// Song is the root of a lyric document.
type Song struct {
	ID            string    `json:"id" bson:"id"`
	Name          string    `json:"name" bson:"name"`
	DefaultTitle  string    `json:"default_title,omitempty" bson:"default_title,omitempty"`
	CCLINumber    string    `json:"ccli_number,omitempty" bson:"ccli_number,omitempty"`
	Copyright     string    `json:"copyright,omitempty" bson:"copyright,omitempty"`
	Key           string    `json:"key,omitempty" bson:"key,omitempty"`
	Keywords      string    `json:"keywords,omitempty" bson:"keywords,omitempty"`
	Notes         string    `json:"notes,omitempty" bson:"notes,omitempty"`
	Publisher     string    `json:"publisher,omitempty" bson:"publisher,omitempty"`
	Released      string    `json:"released,omitempty" bson:"released,omitempty"`
	Source        string    `json:"source,omitempty" bson:"source,omitempty"`
	Tempo         string    `json:"tempo,omitempty" bson:"tempo,omitempty"`
	Transposition string    `json:"transposition,omitempty" bson:"transposition,omitempty"`
	Variant       string    `json:"variant,omitempty" bson:"variant,omitempty"`
	Tags          tags.Set  `json:"tags,omitempty" bson:"tags,omitempty"`
	Lyrics        []*Lyrics `json:"lyrics" bson:"lyrics"`

	// Provenance as recorded by OpenLyrics documents.
	CreatedIn    string    `json:"created_in,omitempty" bson:"created_in,omitempty"`
	ModifiedIn   string    `json:"modified_in,omitempty" bson:"modified_in,omitempty"`
	ModifiedDate time.Time `json:"modified_date,omitempty" bson:"modified_date,omitempty"`
}

// Lyrics is one language or translation variant of a song.
type Lyrics struct {
	Language        string      `json:"language,omitempty" bson:"language,omitempty"`
	Title           string      `json:"title" bson:"title"`
	IsOriginal      bool        `json:"is_original,omitempty" bson:"is_original,omitempty"`
	Transliteration string      `json:"transliteration,omitempty" bson:"transliteration,omitempty"`
	Authors         []*Author   `json:"authors,omitempty" bson:"authors,omitempty"`
	SongBooks       []*SongBook `json:"song_books,omitempty" bson:"song_books,omitempty"`
	Sections        []*Section  `json:"sections,omitempty" bson:"sections,omitempty"`
}

// Author credits one contributor.
type Author struct {
	Name string     `json:"name" bson:"name"`
	Type AuthorType `json:"type,omitempty" bson:"type,omitempty"`
}

// SongBook places the song in a printed hymnal.
type SongBook struct {
	Name  string `json:"name" bson:"name"`
	Entry string `json:"entry,omitempty" bson:"entry,omitempty"`
}

// Section is one verse, chorus, bridge or similar block. Lines are
// separated by "\n".
type Section struct {
	Name string `json:"name" bson:"name"`
	Text string `json:"text" bson:"text"`
}

// New returns an empty song.
func New(id, name string) *Song {
	return &Song{ID: id, Name: name}
}

// LyricsFor returns the first lyrics variant for language, or nil. Language
// tags compare case-insensitively.
func (s *Song) LyricsFor(language string) *Lyrics {
	for _, l := range s.Lyrics {
		if strings.EqualFold(l.Language, language) {
			return l
		}
	}
	return nil
}

// GetOrAddLyrics returns the variant for language, appending one if absent.
func (s *Song) GetOrAddLyrics(language string) *Lyrics {
	if l := s.LyricsFor(language); l != nil {
		return l
	}
	return s.AddLyrics(language)
}

// AddLyrics appends a new lyrics variant.
func (s *Song) AddLyrics(language string) *Lyrics {
	l := &Lyrics{Language: language}
	s.Lyrics = append(s.Lyrics, l)
	return l
}

// OriginalLyrics returns the variant flagged original, falling back to the first.
func (s *Song) OriginalLyrics() *Lyrics {
	for _, l := range s.Lyrics {
		if l.IsOriginal {
			return l
		}
	}
	if len(s.Lyrics) > 0 {
		return s.Lyrics[0]
	}
	return nil
}

// AddNote appends a line to Notes.
func (s *Song) AddNote(line string) {
	if s.Notes == "" {
		s.Notes = line
		return
	}
	s.Notes += "\n" + line
}

// NoteLines splits Notes into its lines; empty Notes has none.
func (s *Song) NoteLines() []string {
	if s.Notes == "" {
		return nil
	}
	return strings.Split(s.Notes, "\n")
}

// AllAuthors returns the authors of every variant in order.
func (s *Song) AllAuthors() []*Author {
	var out []*Author
	for _, l := range s.Lyrics {
		out = append(out, l.Authors...)
	}
	return out
}

// AddAuthor appends an author.
func (l *Lyrics) AddAuthor(name string, typ AuthorType) *Author {
	a := &Author{Name: name, Type: typ}
	l.Authors = append(l.Authors, a)
	return a
}

// AddSongBook appends a songbook entry.
func (l *Lyrics) AddSongBook(name, entry string) *SongBook {
	sb := &SongBook{Name: name, Entry: entry}
	l.SongBooks = append(l.SongBooks, sb)
	return sb
}

// AddSection appends a section.
func (l *Lyrics) AddSection(name, text string) *Section {
	sec := &Section{Name: name, Text: text}
	l.Sections = append(l.Sections, sec)
	return sec
}

// Lines splits the section text into lines. An empty section has none.
func (sec *Section) Lines() []string {
	if sec.Text == "" {
		return nil
	}
	return strings.Split(sec.Text, "\n")
}

// Copy returns a deep clone sharing no state with s.
func (s *Song) Copy() *Song {
	if s == nil {
		return nil
	}
	out := *s
	out.Tags = s.Tags.Clone()
	out.Lyrics = make([]*Lyrics, len(s.Lyrics))
	for i, l := range s.Lyrics {
		out.Lyrics[i] = l.Copy()
	}
	return &out
}

// Copy returns a deep clone of l.
func (l *Lyrics) Copy() *Lyrics {
	out := *l
	out.Authors = make([]*Author, len(l.Authors))
	for i, a := range l.Authors {
		ac := *a
		out.Authors[i] = &ac
	}
	out.SongBooks = make([]*SongBook, len(l.SongBooks))
	for i, sb := range l.SongBooks {
		sbc := *sb
		out.SongBooks[i] = &sbc
	}
	out.Sections = make([]*Section, len(l.Sections))
	for i, sec := range l.Sections {
		sc := *sec
		out.Sections[i] = &sc
	}
	return &out
}
