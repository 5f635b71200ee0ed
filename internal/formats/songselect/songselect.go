// Package songselect imports CCLI SongSelect lyric downloads, both the
// plain-text .txt export and the legacy .usr key=value export.
package songselect

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/FocuswithJustin/JuniperLiturgy/core/formats"
	"github.com/FocuswithJustin/JuniperLiturgy/core/song"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/formats/base"
)

// Format describes SongSelect text exports.
var Format = formats.Format{
	Name:       "SongSelect",
	Extensions: []string{".txt", ".usr"},
	MimeTypes:  []string{"text/plain", "application/x-songselect"},
	ReadOnly:   true,
}

// Provider implements formats.Provider for SongSelect files.
type Provider struct{}

// New returns a SongSelect provider.
func New() *Provider {
	return &Provider{}
}

// Format returns the SongSelect descriptor.
func (p *Provider) Format() formats.Format {
	return Format
}

// Detect reports whether path is a SongSelect file.
func (p *Provider) Detect(path string) *formats.DetectResult {
	return base.DetectFile(path, base.DetectConfig{Format: Format})
}

// Import parses path and upserts the song it holds.
func (p *Provider) Import(adapter formats.PersistAdapter[*song.Song], path string) *formats.ImportResult[*song.Song] {
	return base.ImportFile(adapter, Format.Name, path, func(path string, result *formats.ImportResult[*song.Song]) ([]*song.Song, error) {
		f, err := base.OpenFile(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		var s *song.Song
		if strings.EqualFold(filepath.Ext(path), ".usr") {
			s, err = ParseUSR(f, result.Warn)
		} else {
			s, err = ParseText(f, result.Warn)
		}
		if err != nil {
			return nil, err
		}
		return []*song.Song{s}, nil
	})
}

// Export is not supported.
func (p *Provider) Export(w io.Writer, s *song.Song) error {
	return base.UnsupportedExport(Format.Name)
}

// finish fills in the derived fields shared by both variants.
func finish(s *song.Song) {
	l := s.Lyrics[0]
	if l.Title == "" {
		l.Title = s.Name
	}
	s.DefaultTitle = s.Name
	key := s.Name
	if s.CCLINumber != "" {
		key += "|" + s.CCLINumber
	}
	s.ID = base.DocumentID(Format.Name, key)
}

// addAuthors splits an "A | B" credit line.
func addAuthors(l *song.Lyrics, line string) {
	for _, name := range strings.Split(line, "|") {
		if name = strings.TrimSpace(name); name != "" {
			l.AddAuthor(name, song.AuthorUnspecified)
		}
	}
}
