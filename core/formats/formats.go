// Package formats defines the capability contract shared by every document
// format provider: detection, import into a PersistAdapter, and export.
//
// Providers form a closed set. Each registry lists its providers in a fixed
// priority order and detection always walks that order.
package formats

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format describes a document format.
type Format struct {
	// Name is the display name (e.g., "Zefania", "OpenLyrics").
	Name string
	// Extensions lists lower-case file extensions including the dot.
	Extensions []string
	// MimeTypes lists MIME types claimed by the format.
	MimeTypes []string
	// Roots lists lower-case XML root element names; empty for text formats.
	Roots []string
	// ReadOnly formats fail Export with an UnsupportedError.
	ReadOnly bool
}

// MatchesPath reports whether the file extension of path belongs to f.
func (f Format) MatchesPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range f.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// MatchesMimeType reports whether mimeType belongs to f. Parameters such as
// "; charset=utf-8" are ignored.
func (f Format) MatchesMimeType(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0]))
	for _, m := range f.MimeTypes {
		if mimeType == m {
			return true
		}
	}
	return false
}

// MatchesRoot reports whether an XML root element name belongs to f.
func (f Format) MatchesRoot(root string) bool {
	root = strings.ToLower(root)
	for _, r := range f.Roots {
		if root == r {
			return true
		}
	}
	return false
}

// IsXML reports whether the format is sniffed by XML root element.
func (f Format) IsXML() bool {
	return len(f.Roots) > 0
}

// DetectResult is the result of a detect call.
type DetectResult struct {
	Detected bool
	Format   string
	Reason   string
}

// PersistAdapter stores documents on behalf of an import. It is supplied by
// the caller; providers never touch storage layout directly.
type PersistAdapter[T any] interface {
	// Exists reports whether a document with id is already stored.
	Exists(id string) (bool, error)
	// Upsert creates or replaces doc and reports whether it replaced an
	// existing document.
	Upsert(doc T) (updated bool, err error)
}

// Provider is one format-specific implementation of detect, import and export.
// Providers hold no per-document state and may be reused across imports.
type Provider[T any] interface {
	// Format returns the static descriptor of the provider.
	Format() Format
	// Detect decides whether path holds this format. XML formats sniff the
	// root element; text formats rely on the extension.
	Detect(path string) *DetectResult
	// Import parses path and upserts every document it contains.
	Import(adapter PersistAdapter[T], path string) *ImportResult[T]
	// Export renders doc in this format.
	Export(w io.Writer, doc T) error
}

// NumberWarning formats the warning emitted when a numeric field cannot be
// parsed and the next number in sequence is substituted.
func NumberWarning(field, context string) string {
	return fmt.Sprintf("%s for '%s' could not be parsed — using next in sequence", field, context)
}
