package formats

import (
	"io"
	"os"
	"strings"

	apperrors "github.com/FocuswithJustin/JuniperLiturgy/core/errors"
	"github.com/FocuswithJustin/JuniperLiturgy/core/xml"
)

// Registry holds providers for one document type in priority order.
type Registry[T any] struct {
	providers []Provider[T]
}

// NewRegistry returns a registry scanning providers in the given order.
func NewRegistry[T any](providers ...Provider[T]) *Registry[T] {
	return &Registry[T]{providers: providers}
}

// Providers returns the registered providers in priority order.
func (r *Registry[T]) Providers() []Provider[T] {
	return r.providers
}

// Lookup returns the provider whose format name matches, case-insensitively.
func (r *Registry[T]) Lookup(name string) (Provider[T], error) {
	for _, p := range r.providers {
		if strings.EqualFold(p.Format().Name, name) {
			return p, nil
		}
	}
	return nil, apperrors.NewNotFound("format", name)
}

// Detect selects the provider for path. Extension matching comes first; a
// single match wins outright. When several providers share the extension, or
// none claims it, each candidate inspects the content in registration order
// and the first to accept it wins.
func (r *Registry[T]) Detect(path string) (Provider[T], error) {
	if info, err := os.Stat(path); err != nil {
		return nil, apperrors.NewIO("stat", path, err)
	} else if info.IsDir() {
		return nil, apperrors.NewUnsupported("input", path+" is a directory")
	}

	var candidates []Provider[T]
	for _, p := range r.providers {
		if p.Format().MatchesPath(path) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}
	if len(candidates) == 0 {
		candidates = r.providers
	}
	for _, p := range candidates {
		if res := p.Detect(path); res != nil && res.Detected {
			return p, nil
		}
	}
	return nil, apperrors.NewUnsupported("format", "no provider recognises "+path)
}

// DetectMimeType selects the first provider claiming mimeType.
func (r *Registry[T]) DetectMimeType(mimeType string) (Provider[T], error) {
	for _, p := range r.providers {
		if p.Format().MatchesMimeType(mimeType) {
			return p, nil
		}
	}
	return nil, apperrors.NewUnsupported("mime type", mimeType)
}

// DetectReader selects the provider for a stream by its XML root element,
// walking providers in registration order. Text formats cannot be told apart
// without a file name, so input that is not XML is reported as unsupported.
func (r *Registry[T]) DetectReader(rd io.Reader) (Provider[T], error) {
	root, err := xml.SniffRoot(rd)
	if err != nil {
		return nil, apperrors.NewUnsupported("stream", "no XML root element: "+err.Error())
	}
	for _, p := range r.providers {
		if p.Format().MatchesRoot(root) {
			return p, nil
		}
	}
	return nil, apperrors.NewUnsupported("format", "no provider recognises root <"+root+">")
}

// ImportAll detects and imports every path. A failure on one path is
// recorded in the result and does not stop the others.
func (r *Registry[T]) ImportAll(adapter PersistAdapter[T], paths ...string) *ImportResult[T] {
	result := NewImportResult[T]()
	for _, path := range paths {
		p, err := r.Detect(path)
		if err != nil {
			result.Fail(err)
			continue
		}
		result.Merge(p.Import(adapter, path))
	}
	return result
}

// ExportTo exports doc with the named provider.
func (r *Registry[T]) ExportTo(w io.Writer, formatName string, doc T) error {
	p, err := r.Lookup(formatName)
	if err != nil {
		return err
	}
	return p.Export(w, doc)
}
