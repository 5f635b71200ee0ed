// Package openlyrics imports and exports OpenLyrics XML songs.
package openlyrics

import (
	"io"

	"github.com/FocuswithJustin/JuniperLiturgy/core/formats"
	"github.com/FocuswithJustin/JuniperLiturgy/core/song"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/formats/base"
)

// Namespace is the OpenLyrics XML namespace.
const Namespace = "http://openlyrics.info/namespace/2009/song"

// Version is the OpenLyrics version written on export.
const Version = "0.9"

// Format describes OpenLyrics XML.
var Format = formats.Format{
	Name:       "OpenLyrics",
	Extensions: []string{".xml"},
	MimeTypes:  []string{"application/vnd.openlyrics+xml"},
	Roots:      []string{"song"},
}

// Provider implements formats.Provider for OpenLyrics songs.
type Provider struct{}

// New returns an OpenLyrics provider.
func New() *Provider {
	return &Provider{}
}

// Format returns the OpenLyrics descriptor.
func (p *Provider) Format() formats.Format {
	return Format
}

// Detect reports whether path is an OpenLyrics document.
func (p *Provider) Detect(path string) *formats.DetectResult {
	return base.DetectFile(path, base.DetectConfig{Format: Format})
}

// Import parses path and upserts the song it holds.
func (p *Provider) Import(adapter formats.PersistAdapter[*song.Song], path string) *formats.ImportResult[*song.Song] {
	return base.ImportFile(adapter, Format.Name, path, parseFile)
}

// Export writes s as OpenLyrics XML.
func (p *Provider) Export(w io.Writer, s *song.Song) error {
	_, err := io.WriteString(w, Emit(s))
	return err
}
