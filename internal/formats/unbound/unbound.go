// Package unbound imports Unbound Bible zip archives.
//
// An archive holds book_names.txt, mapping book codes to names, and a
// <base>_utf8.txt data member of tab-delimited verse lines whose layout is
// declared by a #columns header.
package unbound

import (
	"archive/zip"
	"io"
	"path/filepath"
	"strings"

	"github.com/FocuswithJustin/JuniperLiturgy/core/bible"
	"github.com/FocuswithJustin/JuniperLiturgy/core/formats"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/formats/base"
)

// BookNamesMember is the fixed name of the book table.
const BookNamesMember = "book_names.txt"

// Format describes Unbound Bible archives.
var Format = formats.Format{
	Name:       "UnboundBible",
	Extensions: []string{".zip"},
	MimeTypes:  []string{"application/zip", "application/x-zip-compressed"},
	ReadOnly:   true,
}

// Provider implements formats.Provider for Unbound Bible archives.
type Provider struct{}

// New returns an Unbound Bible provider.
func New() *Provider {
	return &Provider{}
}

// Format returns the Unbound Bible descriptor.
func (p *Provider) Format() formats.Format {
	return Format
}

// Detect reports whether path is a zip archive that looks like an Unbound
// Bible. An archive lacking book_names.txt is still accepted so that import
// can report it.
func (p *Provider) Detect(path string) *formats.DetectResult {
	return base.DetectFile(path, base.DetectConfig{
		Format: Format,
		CustomValidator: func(path string) (bool, string) {
			zr, err := zip.OpenReader(path)
			if err != nil {
				return false, "not a zip archive"
			}
			defer zr.Close()
			for _, f := range zr.File {
				name := strings.ToLower(filepath.Base(f.Name))
				if name == BookNamesMember || strings.HasSuffix(name, "_utf8.txt") {
					return true, "Unbound Bible members detected"
				}
			}
			return false, "no Unbound Bible members"
		},
	})
}

// Import reads the archive at path and upserts the bible it holds.
func (p *Provider) Import(adapter formats.PersistAdapter[*bible.Bible], path string) *formats.ImportResult[*bible.Bible] {
	return base.ImportFile(adapter, Format.Name, path, func(path string, result *formats.ImportResult[*bible.Bible]) ([]*bible.Bible, error) {
		b, err := ReadArchive(path, result.Warn)
		if err != nil {
			return nil, err
		}
		return []*bible.Bible{b}, nil
	})
}

// Export is not supported.
func (p *Provider) Export(w io.Writer, b *bible.Bible) error {
	return base.UnsupportedExport(Format.Name)
}
