// Package zefania imports and exports Zefania XML bibles.
//
// Zefania documents nest XMLBIBLE > BIBLEBOOK > CHAPTER > VERS, with the
// short-tag variant x > b > c > v. An optional INFORMATION block carries
// Dublin Core style metadata.
package zefania

import (
	"io"

	"github.com/FocuswithJustin/JuniperLiturgy/core/bible"
	"github.com/FocuswithJustin/JuniperLiturgy/core/formats"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/formats/base"
)

// Format describes Zefania XML.
var Format = formats.Format{
	Name:       "Zefania",
	Extensions: []string{".xml"},
	MimeTypes:  []string{"application/x-zefania+xml"},
	Roots:      []string{"xmlbible", "x"},
}

// Provider implements formats.Provider for Zefania bibles.
type Provider struct{}

// New returns a Zefania provider.
func New() *Provider {
	return &Provider{}
}

// Format returns the Zefania descriptor.
func (p *Provider) Format() formats.Format {
	return Format
}

// Detect reports whether path is a Zefania document.
func (p *Provider) Detect(path string) *formats.DetectResult {
	return base.DetectFile(path, base.DetectConfig{Format: Format})
}

// Import parses path and upserts the bible it holds.
func (p *Provider) Import(adapter formats.PersistAdapter[*bible.Bible], path string) *formats.ImportResult[*bible.Bible] {
	return base.ImportFile(adapter, Format.Name, path, parseFile)
}

// Export writes b as Zefania XML.
func (p *Provider) Export(w io.Writer, b *bible.Bible) error {
	_, err := io.WriteString(w, Emit(b))
	return err
}
