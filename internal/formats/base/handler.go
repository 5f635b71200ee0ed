// Package base provides common functionality and utilities for format
// providers. It reduces code duplication by abstracting the detect, open and
// persist steps every provider shares.
package base

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/FocuswithJustin/JuniperLiturgy/core/errors"
	"github.com/FocuswithJustin/JuniperLiturgy/core/formats"
	"github.com/FocuswithJustin/JuniperLiturgy/core/xml"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/logging"
	"github.com/google/uuid"
)

// idNamespace scopes generated document ids.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/FocuswithJustin/JuniperLiturgy"))

// DetectConfig contains configuration for format detection.
type DetectConfig struct {
	// Format is the descriptor of the provider being detected.
	Format formats.Format
	// CustomValidator is an optional check run after the extension or root
	// matched. It may reject the file with a reason.
	CustomValidator func(path string) (bool, string)
}

// DetectFile performs common file detection logic. XML formats are
// recognised by their root element whatever the extension; other formats by
// extension alone.
func DetectFile(path string, config DetectConfig) *formats.DetectResult {
	name := config.Format.Name
	info, err := os.Stat(path)
	if err != nil {
		return &formats.DetectResult{
			Detected: false,
			Reason:   fmt.Sprintf("cannot stat: %v", err),
		}
	}
	if info.IsDir() {
		return &formats.DetectResult{
			Detected: false,
			Reason:   "path is a directory, not a file",
		}
	}

	reason := fmt.Sprintf("%s file extension detected", name)
	if config.Format.IsXML() {
		f, err := os.Open(path)
		if err != nil {
			return &formats.DetectResult{
				Detected: false,
				Reason:   fmt.Sprintf("cannot read: %v", err),
			}
		}
		root, err := xml.SniffRoot(f)
		f.Close()
		if err != nil {
			return &formats.DetectResult{
				Detected: false,
				Reason:   fmt.Sprintf("not XML: %v", err),
			}
		}
		if !config.Format.MatchesRoot(root) {
			return &formats.DetectResult{
				Detected: false,
				Reason:   fmt.Sprintf("root element <%s> is not %s", root, name),
			}
		}
		reason = fmt.Sprintf("%s root element <%s> detected", name, root)
	} else if !config.Format.MatchesPath(path) {
		return &formats.DetectResult{
			Detected: false,
			Reason:   fmt.Sprintf("not a %s file", name),
		}
	}

	if config.CustomValidator != nil {
		ok, why := config.CustomValidator(path)
		if !ok {
			return &formats.DetectResult{Detected: false, Reason: why}
		}
		if why != "" {
			reason = why
		}
	}

	return &formats.DetectResult{
		Detected: true,
		Format:   name,
		Reason:   reason,
	}
}

// ParseFunc parses the file at path into zero or more documents. Recoverable
// problems go to result as warnings; a returned error aborts the file and
// nothing it produced is persisted.
type ParseFunc[T any] func(path string, result *formats.ImportResult[T]) ([]T, error)

// ImportFile runs parse over path and upserts every document it returns. The
// import is logged under format.
func ImportFile[T any](adapter formats.PersistAdapter[T], format, path string, parse ParseFunc[T]) *formats.ImportResult[T] {
	ctx := context.Background()
	start := time.Now()
	logging.ImportStarted(ctx, format, path)

	result := formats.NewImportResult[T]()
	docs, err := parse(path, result)
	if err == nil {
		for _, doc := range docs {
			Persist(adapter, result, doc)
		}
	} else {
		result.Fail(err)
	}

	for _, w := range result.Warnings {
		logging.ImportWarning(ctx, format, path, w)
	}
	for _, e := range result.Errors {
		logging.ImportFailed(ctx, format, path, e)
	}
	logging.ImportFinished(ctx, format, path, len(result.Created), len(result.Updated), len(result.Warnings), time.Since(start))
	return result
}

// Persist upserts doc and files it under Created or Updated.
func Persist[T any](adapter formats.PersistAdapter[T], result *formats.ImportResult[T], doc T) {
	updated, err := adapter.Upsert(doc)
	switch {
	case err != nil:
		result.Fail(apperrors.Wrap(err, "persist"))
	case updated:
		result.Updated = append(result.Updated, doc)
	default:
		result.Created = append(result.Created, doc)
	}
}

// OpenFile opens path for reading, wrapping failures as IOError.
func OpenFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewIO("open", path, err)
	}
	return f, nil
}

// DocumentID returns a stable id derived from the format and document name.
// Importing the same document twice yields the same id, so the second import
// updates rather than duplicates.
func DocumentID(format, name string) string {
	return uuid.NewSHA1(idNamespace, []byte(strings.ToLower(format)+"\x00"+name)).String()
}

// NextNumber parses raw as a positive integer. When raw is missing or not a
// number it returns prev+1 and ok is false; the caller should warn.
func NextNumber(raw string, prev int) (n int, ok bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return prev + 1, false
	}
	return n, true
}

// UnsupportedExport returns the standard error for read-only formats.
func UnsupportedExport(format string) error {
	return apperrors.NewUnsupported("export", format+" format does not support export")
}

// ExportFile renders doc with p and writes it to path, returning the number
// of bytes written. Nothing is created when the export fails.
func ExportFile[T any](p formats.Provider[T], path string, doc T) (int64, error) {
	var buf bytes.Buffer
	if err := p.Export(&buf, doc); err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return 0, apperrors.NewIO("write", path, err)
	}
	return int64(buf.Len()), nil
}
