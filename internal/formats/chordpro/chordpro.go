// Package chordpro imports and exports ChordPro song sheets.
//
// A file may hold several songs. Lyric lines are kept verbatim, inline
// [chord] markers included.
package chordpro

import (
	"io"

	"github.com/FocuswithJustin/JuniperLiturgy/core/formats"
	"github.com/FocuswithJustin/JuniperLiturgy/core/song"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/formats/base"
)

// Format describes ChordPro text.
var Format = formats.Format{
	Name:       "ChordPro",
	Extensions: []string{".cho", ".chordpro", ".chopro", ".crd", ".pro"},
	MimeTypes:  []string{"text/x-chordpro", "application/x-chordpro"},
}

// Provider implements formats.Provider for ChordPro songs.
type Provider struct{}

// New returns a ChordPro provider.
func New() *Provider {
	return &Provider{}
}

// Format returns the ChordPro descriptor.
func (p *Provider) Format() formats.Format {
	return Format
}

// Detect reports whether path is a ChordPro file.
func (p *Provider) Detect(path string) *formats.DetectResult {
	return base.DetectFile(path, base.DetectConfig{Format: Format})
}

// Import parses path and upserts every song it holds.
func (p *Provider) Import(adapter formats.PersistAdapter[*song.Song], path string) *formats.ImportResult[*song.Song] {
	return base.ImportFile(adapter, Format.Name, path, func(path string, result *formats.ImportResult[*song.Song]) ([]*song.Song, error) {
		f, err := base.OpenFile(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return Parse(f, result.Warn)
	})
}

// Export writes s as ChordPro with CRLF line endings.
func (p *Provider) Export(w io.Writer, s *song.Song) error {
	_, err := io.WriteString(w, Emit(s))
	return err
}
