package formats

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/FocuswithJustin/JuniperLiturgy/core/errors"
)

type doc struct{ id string }

// fakeProvider detects by a content prefix when marker is set.
type fakeProvider struct {
	format Format
	marker string
	fail   bool
}

func (f *fakeProvider) Format() Format { return f.format }

func (f *fakeProvider) Detect(path string) *DetectResult {
	if f.marker == "" {
		return &DetectResult{Detected: f.format.MatchesPath(path)}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return &DetectResult{Reason: err.Error()}
	}
	return &DetectResult{Detected: strings.HasPrefix(string(data), f.marker), Format: f.format.Name}
}

func (f *fakeProvider) Import(adapter PersistAdapter[doc], path string) *ImportResult[doc] {
	r := NewImportResult[doc]()
	if f.fail {
		r.Fail(apperrors.NewParse(f.format.Name, path, "boom"))
		return r
	}
	d := doc{id: filepath.Base(path)}
	updated, err := adapter.Upsert(d)
	if err != nil {
		r.Fail(err)
	} else if updated {
		r.Updated = append(r.Updated, d)
	} else {
		r.Created = append(r.Created, d)
	}
	r.Warn(f.format.Name + " imported")
	return r
}

func (f *fakeProvider) Export(w io.Writer, d doc) error {
	if f.format.ReadOnly {
		return apperrors.NewUnsupported("export", f.format.Name)
	}
	_, err := io.WriteString(w, f.format.Name+":"+d.id)
	return err
}

type memAdapter struct{ seen map[string]bool }

func (m *memAdapter) Exists(id string) (bool, error) { return m.seen[id], nil }

func (m *memAdapter) Upsert(d doc) (bool, error) {
	existed := m.seen[d.id]
	m.seen[d.id] = true
	return existed, nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestRegistry() (*Registry[doc], *fakeProvider, *fakeProvider, *fakeProvider) {
	a := &fakeProvider{format: Format{Name: "Alpha", Extensions: []string{".xml"}, Roots: []string{"alpha"}}, marker: "<alpha"}
	b := &fakeProvider{format: Format{Name: "Beta", Extensions: []string{".xml"}, Roots: []string{"beta"}}, marker: "<beta"}
	c := &fakeProvider{format: Format{Name: "Gamma", Extensions: []string{".cho"}, MimeTypes: []string{"text/x-chordpro"}, ReadOnly: true}}
	return NewRegistry[doc](a, b, c), a, b, c
}

func TestFormatMatching(t *testing.T) {
	f := Format{Name: "X", Extensions: []string{".usr", ".txt"}, MimeTypes: []string{"text/plain"}, Roots: []string{"song"}}
	if !f.MatchesPath("/a/b/SONG.TXT") {
		t.Error("Expected case-insensitive extension match")
	}
	if f.MatchesPath("song.xml") {
		t.Error("Expected .xml not to match")
	}
	if !f.MatchesMimeType("Text/Plain; charset=utf-8") {
		t.Error("Expected mime type match ignoring parameters")
	}
	if !f.MatchesRoot("SONG") || f.MatchesRoot("bible") {
		t.Error("Unexpected root match result")
	}
	if !f.IsXML() || (Format{}).IsXML() {
		t.Error("Unexpected IsXML result")
	}
}

func TestRegistryDetect(t *testing.T) {
	dir := t.TempDir()
	reg, a, b, c := newTestRegistry()

	tests := []struct {
		name     string
		file     string
		content  string
		expected Provider[doc]
	}{
		{"unique extension", "song.cho", "{title: x}", c},
		{"ambiguous first", "one.xml", "<alpha/>", a},
		{"ambiguous second", "two.xml", "<beta/>", b},
		{"no extension match falls back to sniff", "three.dat", "<beta/>", b},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)
			got, err := reg.Detect(path)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected.Format().Name, got.Format().Name)
			}
		})
	}

	unknown := writeFile(t, dir, "four.xml", "<gamma/>")
	if _, err := reg.Detect(unknown); !errors.Is(err, apperrors.ErrUnsupported) {
		t.Errorf("Expected ErrUnsupported, got %v", err)
	}
	if _, err := reg.Detect(filepath.Join(dir, "missing.xml")); err == nil {
		t.Error("Expected error for missing file")
	}
	if _, err := reg.Detect(dir); !errors.Is(err, apperrors.ErrUnsupported) {
		t.Errorf("Expected directory to be unsupported, got %v", err)
	}
}

func TestRegistryDetectMimeType(t *testing.T) {
	reg, _, _, c := newTestRegistry()
	got, err := reg.DetectMimeType("text/x-chordpro")
	if err != nil || got != c {
		t.Errorf("Expected Gamma, got %v %v", got, err)
	}
	if _, err := reg.DetectMimeType("application/pdf"); err == nil {
		t.Error("Expected error for unknown mime type")
	}
}

func TestRegistryDetectReader(t *testing.T) {
	reg, a, b, _ := newTestRegistry()
	tests := []struct {
		name     string
		content  string
		expected Provider[doc]
	}{
		{"first root", "<alpha/>", a},
		{"second root with prolog", "<?xml version=\"1.0\"?>\n<!-- x -->\n<Beta n=\"1\"/>", b},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.DetectReader(strings.NewReader(tt.content))
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected.Format().Name, got.Format().Name)
			}
		})
	}

	for _, content := range []string{"{title: x}\n", "", "<gamma/>"} {
		if _, err := reg.DetectReader(strings.NewReader(content)); !errors.Is(err, apperrors.ErrUnsupported) {
			t.Errorf("Expected ErrUnsupported for %q, got %v", content, err)
		}
	}
}

func TestRegistryLookup(t *testing.T) {
	reg, a, _, _ := newTestRegistry()
	if got, err := reg.Lookup("alpha"); err != nil || got != a {
		t.Errorf("Expected Alpha, got %v %v", got, err)
	}
	if _, err := reg.Lookup("delta"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if len(reg.Providers()) != 3 {
		t.Error("Expected 3 providers")
	}
}

func TestImportAllIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	reg, _, b, _ := newTestRegistry()
	b.fail = true

	good := writeFile(t, dir, "good.xml", "<alpha/>")
	bad := writeFile(t, dir, "bad.xml", "<beta/>")
	unknown := writeFile(t, dir, "unknown.bin", "???")

	adapter := &memAdapter{seen: map[string]bool{}}
	result := reg.ImportAll(adapter, bad, good, unknown, good)

	if len(result.Created) != 1 || result.Created[0].id != "good.xml" {
		t.Errorf("Expected good.xml created once, got %+v", result.Created)
	}
	if len(result.Updated) != 1 {
		t.Errorf("Expected second import to update, got %+v", result.Updated)
	}
	if len(result.Errors) != 2 {
		t.Errorf("Expected 2 errors, got %v", result.Errors)
	}
	if !result.HasErrors() || len(result.Warnings) != 2 {
		t.Errorf("Unexpected warnings %v", result.Warnings)
	}
	if len(result.Documents()) != 2 {
		t.Errorf("Expected 2 documents, got %d", len(result.Documents()))
	}
}

func TestExportTo(t *testing.T) {
	reg, _, _, _ := newTestRegistry()
	var sb strings.Builder
	if err := reg.ExportTo(&sb, "Alpha", doc{id: "x"}); err != nil {
		t.Fatal(err)
	}
	if sb.String() != "Alpha:x" {
		t.Errorf("Unexpected export %q", sb.String())
	}
	if err := reg.ExportTo(&sb, "Gamma", doc{id: "x"}); !errors.Is(err, apperrors.ErrUnsupported) {
		t.Errorf("Expected ErrUnsupported for read-only format, got %v", err)
	}
}

func TestNumberWarning(t *testing.T) {
	got := NumberWarning("Chapter number", "Genesis")
	want := "Chapter number for 'Genesis' could not be parsed — using next in sequence"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestResultMergeNil(t *testing.T) {
	r := NewImportResult[doc]()
	r.Merge(nil)
	r.Fail(nil)
	r.Warnf("%d warnings", 1)
	if r.HasErrors() || len(r.Warnings) != 1 || r.Warnings[0] != "1 warnings" {
		t.Errorf("Unexpected result %+v", r)
	}
}
