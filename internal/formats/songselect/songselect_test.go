package songselect

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/FocuswithJustin/JuniperLiturgy/core/errors"
	"github.com/FocuswithJustin/JuniperLiturgy/core/song"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/store/memstore"
)

func importFixture(t *testing.T, path string) (*song.Song, []string) {
	t.Helper()
	store := memstore.New(func(s *song.Song) string { return s.ID })
	result := New().Import(store, path)
	if result.HasErrors() {
		t.Fatalf("Import(%s) failed: %v", path, result.Errors)
	}
	if len(result.Created) != 1 {
		t.Fatalf("Expected 1 song, got %d", len(result.Created))
	}
	return result.Created[0], result.Warnings
}

func TestImportText(t *testing.T) {
	s, warnings := importFixture(t, filepath.Join("testdata", "amazing-grace.txt"))

	if s.Name != "Amazing Grace" {
		t.Errorf("Expected name 'Amazing Grace', got %q", s.Name)
	}
	if s.CCLINumber != "22025" {
		t.Errorf("Expected CCLI 22025, got %q", s.CCLINumber)
	}
	if s.Copyright != "Words: Public Domain" {
		t.Errorf("Expected copyright 'Words: Public Domain', got %q", s.Copyright)
	}
	if len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}

	l := s.Lyrics[0]
	if l.Title != "Amazing Grace" {
		t.Errorf("Expected lyrics title 'Amazing Grace', got %q", l.Title)
	}
	if len(l.Authors) != 2 || l.Authors[1].Name != "John P. Rees" {
		t.Errorf("Expected 2 authors ending with John P. Rees, got %+v", l.Authors)
	}

	wantNames := []string{"Verse 1", "Verse 2", "CHORUS", "Misc 1 (ENDING)"}
	if len(l.Sections) != len(wantNames) {
		t.Fatalf("Expected %d sections, got %d", len(wantNames), len(l.Sections))
	}
	for i, want := range wantNames {
		if l.Sections[i].Name != want {
			t.Errorf("Section %d: expected %q, got %q", i, want, l.Sections[i].Name)
		}
	}
	if n := len(l.Sections[0].Lines()); n != 4 {
		t.Errorf("Expected 4 lines in Verse 1, got %d", n)
	}
	if got := l.Sections[3].Text; got != "Amazing grace" {
		t.Errorf("Expected ending text 'Amazing grace', got %q", got)
	}
}

func TestImportUSR(t *testing.T) {
	s, warnings := importFixture(t, filepath.Join("testdata", "amazing-grace.usr"))

	if s.Name != "Amazing Grace" || s.CCLINumber != "22025" {
		t.Errorf("Expected Amazing Grace / 22025, got %q / %q", s.Name, s.CCLINumber)
	}
	if s.Key != "G" {
		t.Errorf("Expected key G, got %q", s.Key)
	}
	if s.Publisher != "Public Domain" {
		t.Errorf("Expected publisher 'Public Domain', got %q", s.Publisher)
	}
	if len(s.Tags) != 2 {
		t.Errorf("Expected 2 tags, got %v", s.Tags)
	}
	if len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}

	l := s.Lyrics[0]
	if len(l.Authors) != 2 {
		t.Errorf("Expected 2 authors, got %d", len(l.Authors))
	}
	if len(l.Sections) != 3 {
		t.Fatalf("Expected 3 sections, got %d", len(l.Sections))
	}
	if l.Sections[2].Name != "Chorus" {
		t.Errorf("Expected 'Chorus', got %q", l.Sections[2].Name)
	}
	if l.Sections[1].Text != "'Twas grace that taught my heart to fear\nAnd grace my fears relieved" {
		t.Errorf("Unexpected Verse 2 text %q", l.Sections[1].Text)
	}
}

func TestTextAndUSRShareID(t *testing.T) {
	txt, _ := importFixture(t, filepath.Join("testdata", "amazing-grace.txt"))
	usr, _ := importFixture(t, filepath.Join("testdata", "amazing-grace.usr"))
	if txt.ID != usr.ID {
		t.Errorf("Expected matching IDs, got %s and %s", txt.ID, usr.ID)
	}
}

func TestParseUSRMismatch(t *testing.T) {
	input := "[S A1]\nTitle=Short\nFields=Verse 1\nWords=one/ttwo\n"
	var warnings []string
	s, err := ParseUSR(strings.NewReader(input), func(w string) { warnings = append(warnings, w) })
	if err != nil {
		t.Fatalf("ParseUSR() error: %v", err)
	}
	if len(warnings) != 1 {
		t.Errorf("Expected 1 warning, got %v", warnings)
	}
	secs := s.Lyrics[0].Sections
	if len(secs) != 2 || secs[1].Name != "Section 2" {
		t.Errorf("Expected fallback name 'Section 2', got %+v", secs)
	}
}

func TestParseUSRMissingTitle(t *testing.T) {
	_, err := ParseUSR(strings.NewReader("[S A1]\nAuthor=x\n"), nil)
	if !apperrors.Is(err, apperrors.ErrMalformed) {
		t.Errorf("Expected ErrMalformed, got %v", err)
	}
}

func TestParseTextLabeledHeader(t *testing.T) {
	input := "Title: Be Thou My Vision\nAuthor: Dallan Forgaill\nKey: Eb\nCCLI: 30639\n\n[Verse 1]\nBe Thou my vision\nO Lord of my heart\n"
	s, err := ParseText(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("ParseText() error: %v", err)
	}
	if s.Name != "Be Thou My Vision" || s.Key != "Eb" || s.CCLINumber != "30639" {
		t.Errorf("Unexpected header fields: %q %q %q", s.Name, s.Key, s.CCLINumber)
	}
	l := s.Lyrics[0]
	if len(l.Authors) != 1 {
		t.Errorf("Expected 1 author, got %d", len(l.Authors))
	}
	if len(l.Sections) != 1 || l.Sections[0].Name != "Verse 1" {
		t.Fatalf("Expected single 'Verse 1' section, got %+v", l.Sections)
	}
}

func TestParseTextUnlabeledLyrics(t *testing.T) {
	var warnings []string
	s, err := ParseText(strings.NewReader("Song\n\nline one\nline two\n"), func(w string) { warnings = append(warnings, w) })
	if err != nil {
		t.Fatalf("ParseText() error: %v", err)
	}
	if len(warnings) != 1 {
		t.Errorf("Expected 1 warning, got %v", warnings)
	}
	if secs := s.Lyrics[0].Sections; len(secs) != 1 || secs[0].Name != "Verse" {
		t.Errorf("Expected fallback 'Verse' section, got %+v", secs)
	}
}

func TestParseTextPlainCopyrightLine(t *testing.T) {
	input := "Amazing Grace\n\nVerse 1\nAmazing grace\n\n" +
		"CCLI Song # 22025\nJohn Newton\nPublic Domain\nArranged for choir\nCCLI License # 1234567\n"
	s, err := ParseText(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("ParseText() error: %v", err)
	}
	if s.Copyright != "Public Domain" {
		t.Errorf("Expected copyright 'Public Domain', got %q", s.Copyright)
	}
	if len(s.Lyrics[0].Authors) != 1 || s.Lyrics[0].Authors[0].Name != "John Newton" {
		t.Errorf("Expected author John Newton, got %+v", s.Lyrics[0].Authors)
	}
	if s.CCLINumber != "22025" {
		t.Errorf("Expected CCLI 22025, got %q", s.CCLINumber)
	}
}

func TestParseTextEmpty(t *testing.T) {
	_, err := ParseText(bytes.NewReader(nil), nil)
	if !apperrors.Is(err, apperrors.ErrMalformed) {
		t.Errorf("Expected ErrMalformed, got %v", err)
	}
}

func TestDetect(t *testing.T) {
	p := New()
	if r := p.Detect(filepath.Join("testdata", "amazing-grace.usr")); !r.Detected {
		t.Errorf("Expected .usr to be detected: %s", r.Reason)
	}
	dir := t.TempDir()
	other := filepath.Join(dir, "song.cho")
	if err := os.WriteFile(other, []byte("{title: x}"), 0644); err != nil {
		t.Fatal(err)
	}
	if r := p.Detect(other); r.Detected {
		t.Error("Expected .cho not to be detected")
	}
}

func TestExportUnsupported(t *testing.T) {
	err := New().Export(&bytes.Buffer{}, song.New("x", "x"))
	if !apperrors.Is(err, apperrors.ErrUnsupported) {
		t.Errorf("Expected ErrUnsupported, got %v", err)
	}
}
