package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      *NotFoundError
		wantMsg  string
		wantBase error
	}{
		{
			name:     "with ID",
			err:      &NotFoundError{Resource: "bible", ID: "kjv"},
			wantMsg:  "bible not found: kjv",
			wantBase: ErrNotFound,
		},
		{
			name:     "without ID",
			err:      &NotFoundError{Resource: "verse"},
			wantMsg:  "verse not found",
			wantBase: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); !errors.Is(got, tt.wantBase) {
				t.Errorf("Unwrap() = %v, want %v", got, tt.wantBase)
			}
		})
	}

	t.Run("with underlying error", func(t *testing.T) {
		underlyingErr := fmt.Errorf("disk error")
		err := &NotFoundError{Resource: "song", ID: "abc", Err: underlyingErr}
		if got := err.Unwrap(); got != underlyingErr {
			t.Errorf("Unwrap() = %v, want %v", got, underlyingErr)
		}
	})
}

func TestMissingMemberError(t *testing.T) {
	err := NewMissingMember("kjv.zip", "book_names.txt")
	want := `kjv.zip: required member "book_names.txt" not found`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrNotFound) {
		t.Error("Expected MissingMemberError to unwrap to ErrNotFound")
	}
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name    string
		err     *ParseError
		wantMsg string
	}{
		{
			name:    "with line",
			err:     NewParseLine("UnboundBible", "kjv_utf8.txt", 12, "too few columns"),
			wantMsg: "failed to parse UnboundBible at kjv_utf8.txt:12: too few columns",
		},
		{
			name:    "with path",
			err:     NewParse("Zefania", "bible.xml", "unexpected EOF"),
			wantMsg: "failed to parse Zefania at bible.xml: unexpected EOF",
		},
		{
			name:    "bare",
			err:     NewParse("ChordPro", "", "empty input"),
			wantMsg: "failed to parse ChordPro: empty input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, ErrMalformed) {
				t.Error("Expected ParseError to unwrap to ErrMalformed")
			}
		})
	}

	cause := fmt.Errorf("xml: syntax error")
	err := &ParseError{Format: "OpenLyrics", Message: "bad", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("Expected ParseError to unwrap to its cause")
	}
}

func TestUnsupportedError(t *testing.T) {
	err := NewUnsupported("export", "SongSelect is a read-only format")
	if got := err.Error(); got != "unsupported export: SongSelect is a read-only format" {
		t.Errorf("Error() = %q", got)
	}
	if !Is(err, ErrUnsupported) {
		t.Error("Expected UnsupportedError to unwrap to ErrUnsupported")
	}
	if got := NewUnsupported("export", "").Error(); got != "unsupported export" {
		t.Errorf("Error() = %q", got)
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidation("store", "unknown backend")
	if got := err.Error(); got != "validation failed for store: unknown backend" {
		t.Errorf("Error() = %q", got)
	}
	if !Is(err, ErrInvalidInput) {
		t.Error("Expected ValidationError to unwrap to ErrInvalidInput")
	}
}

func TestIOError(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := NewIO("open", "/tmp/x", cause)
	if got := err.Error(); got != "failed to open /tmp/x: permission denied" {
		t.Errorf("Error() = %q", got)
	}
	if !Is(err, cause) {
		t.Error("Expected IOError to unwrap to cause")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "ctx") != nil {
		t.Error("Wrap(nil) should be nil")
	}
	if Wrapf(nil, "ctx %d", 1) != nil {
		t.Error("Wrapf(nil) should be nil")
	}
	err := Wrapf(ErrNotFound, "lookup %s", "Gen 1:1")
	if err.Error() != "lookup Gen 1:1: not found" {
		t.Errorf("Wrapf() = %q", err.Error())
	}
	var target *NotFoundError
	if As(Wrap(NewNotFound("bible", "x"), "load"), &target) == false || target.ID != "x" {
		t.Error("Expected As to find wrapped NotFoundError")
	}
}
