package encoding

import (
	"bufio"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// NewTextReader wraps r so that a leading byte-order mark selects the
// decoding (UTF-8, UTF-16LE or UTF-16BE) and is stripped. Input without a BOM
// is read as UTF-8.
func NewTextReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// ReadLines reads every line of r through NewTextReader. Both LF and CRLF
// terminators are accepted; the terminator is not part of the line.
func ReadLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(NewTextReader(r))
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// SplitLines splits s on LF, dropping a trailing CR from each line.
func SplitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
