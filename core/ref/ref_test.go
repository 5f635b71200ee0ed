package ref

import (
	"testing"

	"github.com/FocuswithJustin/JuniperLiturgy/core/bible"
	apperrors "github.com/FocuswithJustin/JuniperLiturgy/core/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Ref
	}{
		{"John 3:16", Ref{Book: "John", Chapter: 3, Verse: 16}},
		{"1 Cor 13:4", Ref{Book: "1 Cor", Chapter: 13, Verse: 4}},
		{"1Cor 13:4-7", Ref{Book: "1 Cor", Chapter: 13, Verse: 4, VerseEnd: 7}},
		{"Gen.1.1", Ref{Book: "Gen", Chapter: 1, Verse: 1}},
		{"Psalm 23", Ref{Book: "Psalm", Chapter: 23}},
		{"Song of Solomon 2:1", Ref{Book: "Song of Solomon", Chapter: 2, Verse: 1}},
		{"43 3:16", Ref{BookNumber: 43, Chapter: 3, Verse: 16}},
		{"  Rev 22:21 ", Ref{Book: "Rev", Chapter: 22, Verse: 21}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}
			if *got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, *got)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, input := range []string{"", "John", "3:16", "John 3:16-10", "John 3-5", "John x:1"} {
		t.Run(input, func(t *testing.T) {
			if _, err := Parse(input); !apperrors.Is(err, apperrors.ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput for %q, got %v", input, err)
			}
		})
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		ref  Ref
		want string
	}{
		{Ref{Book: "John", Chapter: 3, Verse: 16}, "John 3:16"},
		{Ref{Book: "1 Cor", Chapter: 13, Verse: 4, VerseEnd: 7}, "1 Cor 13:4-7"},
		{Ref{Book: "Psalm", Chapter: 23}, "Psalm 23"},
		{Ref{BookNumber: 43, Chapter: 3, Verse: 16}, "43 3:16"},
	}
	for _, tt := range tests {
		if got := tt.ref.String(); got != tt.want {
			t.Errorf("Expected %q, got %q", tt.want, got)
		}
	}
}

func sampleBible() *bible.Bible {
	b := bible.New("test", "Test")
	gen := b.AddBook(1, "Genesis")
	gen.AddChapter(1).AddVerse(1, "In the beginning")
	ps := b.AddBook(19, "Psalms")
	ch := ps.AddChapter(23)
	ch.AddVerse(1, "The LORD is my shepherd")
	ch.AddVerse(2, "He maketh me to lie down")
	ch.AddVerse(3, "He restoreth my soul")
	cor := b.AddBook(46, "1 Corinthians")
	cor.AddChapter(13).AddVerse(4, "Charity suffereth long")
	return b
}

func TestResolve(t *testing.T) {
	b := sampleBible()
	tests := []struct {
		input string
		want  string
	}{
		{"Gen.1.1", "Genesis 1:1"},
		{"Genesis 1:1", "Genesis 1:1"},
		{"Psalm 23", "Psalms 23:1"},
		{"Ps 23:3", "Psalms 23:3"},
		{"1 Cor 13:4", "1 Corinthians 13:4"},
		{"46 13:4", "1 Corinthians 13:4"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			lv, err := r.Resolve(b)
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if got := lv.Reference(); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestResolveNotFound(t *testing.T) {
	b := sampleBible()
	for _, input := range []string{"Exodus 1:1", "Gen 2:1", "Gen 1:9"} {
		r, err := Parse(input)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", input, err)
		}
		if _, err := r.Resolve(b); !apperrors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("Expected ErrNotFound for %q, got %v", input, err)
		}
	}
}

func TestResolveRange(t *testing.T) {
	b := sampleBible()
	r, _ := Parse("Psalm 23:2-3")
	verses, err := r.ResolveRange(b)
	if err != nil {
		t.Fatalf("ResolveRange() error: %v", err)
	}
	if len(verses) != 2 || verses[0].Verse.Number != 2 || verses[1].Verse.Number != 3 {
		t.Errorf("Expected verses 2-3, got %d verses", len(verses))
	}

	r, _ = Parse("Psalm 23")
	verses, _ = r.ResolveRange(b)
	if len(verses) != 3 {
		t.Errorf("Expected whole chapter of 3 verses, got %d", len(verses))
	}
}
