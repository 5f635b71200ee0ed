package openlyrics

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/FocuswithJustin/JuniperLiturgy/core/song"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/store/memstore"
)

func importFixture(t *testing.T, name string) *song.Song {
	t.Helper()
	store := memstore.New(func(s *song.Song) string { return s.ID })
	result := New().Import(store, filepath.Join("testdata", name))
	if result.HasErrors() {
		t.Fatalf("Import(%s) failed: %v", name, result.Errors)
	}
	if len(result.Created) != 1 {
		t.Fatalf("Expected 1 song, got %d", len(result.Created))
	}
	return result.Created[0]
}

func TestRoundTripCanonical(t *testing.T) {
	want, err := os.ReadFile(filepath.Join("testdata", "canonical.xml"))
	if err != nil {
		t.Fatal(err)
	}
	s := importFixture(t, "canonical.xml")

	var buf bytes.Buffer
	if err := New().Export(&buf, s); err != nil {
		t.Fatal(err)
	}
	if buf.String() != string(want) {
		t.Errorf("Round trip differs.\nExpected:\n%s\nGot:\n%s", want, buf.String())
	}
}

func TestImportCanonical(t *testing.T) {
	s := importFixture(t, "canonical.xml")
	if s.Name != "Amazing Grace" || s.DefaultTitle != "Amazing Grace" {
		t.Errorf("Unexpected name %q", s.Name)
	}
	if s.CCLINumber != "22025" || s.Tempo != "90" || s.Key != "G" || s.Transposition != "2" {
		t.Errorf("Unexpected properties %+v", s)
	}
	if s.NoteLines()[1] != "Key change before verse 4." {
		t.Errorf("Unexpected notes %q", s.Notes)
	}
	if !s.ModifiedDate.Equal(time.Date(2012, 4, 10, 22, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected modified date %v", s.ModifiedDate)
	}
	en := s.LyricsFor("en")
	if en == nil || !en.IsOriginal || len(en.Sections) != 3 {
		t.Fatalf("Unexpected English lyrics %+v", en)
	}
	if got := len(en.Sections[0].Lines()); got != 4 {
		t.Errorf("Expected 4 lines in v1, got %d", got)
	}
	if en.Sections[2].Text != "" {
		t.Errorf("Expected empty intro, got %q", en.Sections[2].Text)
	}
	if len(en.Authors) != 3 || en.Authors[0].Type != song.AuthorLyricist || en.Authors[1].Type != song.AuthorComposer {
		t.Errorf("Unexpected authors %+v", en.Authors)
	}
	de := s.LyricsFor("de")
	if de == nil || len(de.Authors) != 1 || de.Authors[0].Type != song.AuthorTranslation {
		t.Errorf("Expected translator on German lyrics, got %+v", de)
	}
	if len(en.SongBooks) != 2 || en.SongBooks[1].Name != "Songs & Hymns" || en.SongBooks[0].Entry != "41" {
		t.Errorf("Unexpected song books %+v", en.SongBooks)
	}
}

func TestImportExample04(t *testing.T) {
	s := importFixture(t, "openlyrics-example04.xml")
	if len(s.Lyrics) != 6 {
		t.Fatalf("Expected 6 lyrics, got %d", len(s.Lyrics))
	}
	if len(s.Tags) != 7 {
		t.Errorf("Expected 7 tags, got %d: %v", len(s.Tags), s.Tags)
	}

	langs := []string{"en", "de", "fr", "es", "pt-BR", "ja"}
	for i, l := range s.Lyrics {
		if l.Language != langs[i] {
			t.Errorf("Lyrics %d: expected %s, got %s", i, langs[i], l.Language)
		}
		if len(l.Sections) != 1 {
			t.Errorf("Lyrics %s: expected 1 section, got %d", l.Language, len(l.Sections))
		}
	}

	if orig := s.OriginalLyrics(); orig.Language != "de" {
		t.Errorf("Expected German original, got %s", orig.Language)
	}
	if s.Lyrics[5].Transliteration != "en" {
		t.Errorf("Expected transliteration, got %q", s.Lyrics[5].Transliteration)
	}

	en := s.Lyrics[0]
	if got := en.Sections[0].Text; got != "Silent night, holy night\nAll is calm, all is bright" {
		t.Errorf("Unexpected English text %q", got)
	}
	if got := s.Lyrics[5].Sections[0].Text; got != "Kiyoshi kono yoru\nHoshi wa hikari" {
		t.Errorf("Unexpected line-element text %q", got)
	}
	if len(en.Authors) != 3 || en.Authors[2].Type != song.AuthorUnspecified {
		t.Errorf("Unexpected English authors %+v", en.Authors)
	}
	if len(s.Lyrics[1].Authors) != 1 || s.Lyrics[1].Authors[0].Name != "Joseph Mohr" {
		t.Errorf("Unexpected German authors %+v", s.Lyrics[1].Authors)
	}
	if !s.ModifiedDate.Equal(time.Date(2011, 9, 26, 19, 52, 0, 0, time.UTC)) {
		t.Errorf("Expected UTC modified date, got %v", s.ModifiedDate)
	}
	if s.Notes != "Traditionally sung by candlelight." {
		t.Errorf("Unexpected notes %q", s.Notes)
	}
}

func TestFormatModifiedDate(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2012, 4, 10, 22, 0, 0, 0, time.UTC), "2012-04-10T22:00:00Z"},
		{time.Date(2012, 4, 10, 22, 0, 0, 500000000, time.UTC), "2012-04-10T22:00:00.5Z"},
		{time.Date(2012, 4, 11, 0, 0, 0, 0, time.FixedZone("x", 2*3600)), "2012-04-10T22:00:00Z"},
	}
	for _, tt := range tests {
		if got := FormatModifiedDate(tt.in); got != tt.want {
			t.Errorf("FormatModifiedDate(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEmitMinimal(t *testing.T) {
	s := song.New("id", "Untitled Hymn")
	l := s.AddLyrics("")
	l.AddSection("v1", "One line")
	s.Tempo = "moderato"

	out := Emit(s)
	for _, want := range []string{
		`<song xmlns="http://openlyrics.info/namespace/2009/song" version="0.9">`,
		"      <title>Untitled Hymn</title>\n",
		`<tempo type="text">moderato</tempo>`,
		`    <verse name="v1">` + "\n      <lines>One line</lines>\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "<authors>") || strings.Contains(out, "<themes>") || strings.Contains(out, "modifiedDate") {
		t.Errorf("Expected empty properties omitted:\n%s", out)
	}
}

func TestParseWarningsAndErrors(t *testing.T) {
	var warnings []string
	s, err := Parse(strings.NewReader(`<song modifiedDate="yesterday"><lyrics><verse name="v1"><lines>x</lines></verse></lyrics></song>`),
		func(w string) { warnings = append(warnings, w) })
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 2 {
		t.Errorf("Expected date and title warnings, got %v", warnings)
	}
	if s.Name != "Untitled" || s.Lyrics[0].Sections[0].Text != "x" {
		t.Errorf("Unexpected song %+v", s)
	}

	if _, err := Parse(strings.NewReader(`<XMLBIBLE/>`), nil); err == nil {
		t.Error("Expected error for wrong root")
	}
	if _, err := Parse(strings.NewReader(`<song><properties>`), nil); err == nil {
		t.Error("Expected error for truncated document")
	}
}

func TestDetect(t *testing.T) {
	if r := New().Detect(filepath.Join("testdata", "canonical.xml")); !r.Detected {
		t.Errorf("Expected OpenLyrics detected: %s", r.Reason)
	}
}

func TestUntitledLanguageAdoptedByVerses(t *testing.T) {
	input := `<song xmlns="http://openlyrics.info/namespace/2009/song" version="0.9">
  <properties>
    <titles><title>Amazing Grace</title></titles>
    <authors><author>John Newton</author></authors>
  </properties>
  <lyrics>
    <verse name="v1" lang="en"><lines>Amazing grace</lines></verse>
    <verse name="v2" lang="en"><lines>'Twas grace</lines></verse>
  </lyrics>
</song>`
	s, err := Parse(strings.NewReader(input), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Lyrics) != 1 {
		t.Fatalf("Expected 1 lyrics variant, got %d", len(s.Lyrics))
	}
	l := s.Lyrics[0]
	if l.Language != "en" || l.Title != "Amazing Grace" {
		t.Errorf("Expected titled en variant, got lang=%q title=%q", l.Language, l.Title)
	}
	if len(l.Sections) != 2 {
		t.Errorf("Expected 2 sections, got %d", len(l.Sections))
	}
	if len(l.Authors) != 1 {
		t.Errorf("Expected 1 author, got %d", len(l.Authors))
	}
}
