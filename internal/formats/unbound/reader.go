package unbound

import (
	"archive/zip"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/FocuswithJustin/JuniperLiturgy/core/bible"
	"github.com/FocuswithJustin/JuniperLiturgy/core/encoding"
	apperrors "github.com/FocuswithJustin/JuniperLiturgy/core/errors"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/formats/base"
)

// columns maps logical fields to physical column indices.
type columns struct {
	book, chapter, verse, text int
}

// defaultColumns applies when no #columns header is present. A negative
// text index counts from the end of the line.
var defaultColumns = columns{book: 0, chapter: 1, verse: 2, text: -1}

// minColumns is the fewest columns a data line may have.
const minColumns = 4

// ReadArchive reads the Unbound Bible archive at path. The archive is opened
// twice: once for the book table and once for the verse data.
func ReadArchive(path string, warn func(string)) (*bible.Bible, error) {
	if warn == nil {
		warn = func(string) {}
	}
	baseName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	b := bible.New("", baseName)

	codes, err := readBookNames(path, b)
	if err != nil {
		return nil, err
	}
	if err := readVerses(path, baseName, b, codes, warn); err != nil {
		return nil, err
	}
	for _, bk := range b.Books {
		bk.SortByNumber()
	}
	b.ID = docID(b.Name)
	return b, nil
}

func docID(name string) string {
	return base.DocumentID(Format.Name, name)
}

// readBookNames is the first pass. It adds one book per declared code, in
// declaration order, and returns the books keyed by code.
func readBookNames(path string, b *bible.Bible) (map[string]*bible.Book, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, apperrors.NewIO("open", path, err)
	}
	defer zr.Close()

	member := findMember(zr, func(name string) bool { return name == BookNamesMember })
	if member == nil {
		return nil, apperrors.NewMissingMember(path, BookNamesMember)
	}
	lines, err := readMember(member)
	if err != nil {
		return nil, apperrors.NewIO("read", path+":"+member.Name, err)
	}

	codes := make(map[string]*bible.Book)
	for _, line := range lines {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		code, name, _ := strings.Cut(line, "\t")
		code, name = strings.TrimSpace(code), strings.TrimSpace(name)
		if name == "" {
			name = code
		}
		if name == "Acts of the Apostles" {
			name = "Acts"
		}
		codes[code] = b.AddBook(bookNumber(code, len(b.Books)+1), name)
	}
	return codes, nil
}

// bookNumber reads the leading digits of a code such as "01O" or "40N",
// falling back to the declaration index.
func bookNumber(code string, index int) int {
	end := 0
	for end < len(code) && unicode.IsDigit(rune(code[end])) {
		end++
	}
	if n, err := strconv.Atoi(code[:end]); err == nil && n > 0 {
		return n
	}
	return index
}

// readVerses is the second pass over the data member.
func readVerses(path, baseName string, b *bible.Bible, codes map[string]*bible.Book, warn func(string)) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return apperrors.NewIO("open", path, err)
	}
	defer zr.Close()

	want := strings.ToLower(baseName + "_utf8.txt")
	member := findMember(zr, func(name string) bool { return name == want })
	if member == nil {
		member = findMember(zr, func(name string) bool { return strings.HasSuffix(name, "_utf8.txt") })
	}
	if member == nil {
		return apperrors.NewMissingMember(path, baseName+"_utf8.txt")
	}
	lines, err := readMember(member)
	if err != nil {
		return apperrors.NewIO("read", path+":"+member.Name, err)
	}

	cols := defaultColumns
	for i, line := range lines {
		lineNo := i + 1
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if c, ok := applyHeader(b, line); ok {
				cols = c
			}
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < minColumns || len(fields) <= cols.max() {
			return apperrors.NewParseLine(Format.Name, member.Name, lineNo,
				fmt.Sprintf("expected at least %d tab-delimited columns, found %d", max(minColumns, cols.max()+1), len(fields)))
		}

		code := strings.TrimSpace(fields[cols.book])
		bk := codes[code]
		if bk == nil {
			warn(fmt.Sprintf("Book code '%s' on line %d is not in %s — line skipped", code, lineNo, BookNamesMember))
			continue
		}
		chNum, err := strconv.Atoi(strings.TrimSpace(fields[cols.chapter]))
		if err != nil {
			return apperrors.NewParseLine(Format.Name, member.Name, lineNo,
				fmt.Sprintf("chapter number %q is not a number", fields[cols.chapter]))
		}
		vNum, err := strconv.Atoi(strings.TrimSpace(fields[cols.verse]))
		if err != nil {
			return apperrors.NewParseLine(Format.Name, member.Name, lineNo,
				fmt.Sprintf("verse number %q is not a number", fields[cols.verse]))
		}

		textIdx := cols.text
		if textIdx < 0 {
			textIdx = len(fields) - 1
		}
		text := strings.TrimSpace(fields[textIdx])
		if text == "" {
			warn(fmt.Sprintf("Verse text for '%s %d:%d' is missing — using empty text", bk.Name, chNum, vNum))
		}
		bk.GetOrAddChapter(chNum).AddVerse(vNum, text)
	}
	return nil
}

func (c columns) max() int {
	return max(c.book, c.chapter, c.verse, c.text)
}

// applyHeader handles a "#key\tvalue" line. It returns a new column mapping
// when the line is a #columns declaration.
func applyHeader(b *bible.Bible, line string) (columns, bool) {
	key, value, _ := strings.Cut(line, "\t")
	key = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(key, "#")))
	value = strings.TrimSpace(value)

	switch key {
	case "name":
		if value != "" {
			b.Name = value
		}
	case "language":
		b.Language = value
	case "copyright":
		b.Copyright = value
	case "note":
		if value != "" {
			if b.Notes != "" {
				b.Notes += "\n"
			}
			b.Notes += value
		}
	case "columns":
		return parseColumns(strings.Split(line, "\t")[1:]), true
	}
	return columns{}, false
}

func parseColumns(names []string) columns {
	cols := columns{book: -1, chapter: -1, verse: -1, text: -1}
	for i, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "orig_book_index", "book_index":
			if cols.book < 0 {
				cols.book = i
			}
		case "orig_chapter", "chapter":
			if cols.chapter < 0 {
				cols.chapter = i
			}
		case "orig_verse", "verse":
			if cols.verse < 0 {
				cols.verse = i
			}
		case "text":
			cols.text = i
		}
	}
	if cols.book < 0 {
		cols.book = defaultColumns.book
	}
	if cols.chapter < 0 {
		cols.chapter = defaultColumns.chapter
	}
	if cols.verse < 0 {
		cols.verse = defaultColumns.verse
	}
	return cols
}

func findMember(zr *zip.ReadCloser, match func(name string) bool) *zip.File {
	for _, f := range zr.File {
		if match(strings.ToLower(filepath.Base(f.Name))) {
			return f
		}
	}
	return nil
}

func readMember(f *zip.File) ([]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return encoding.ReadLines(rc)
}
