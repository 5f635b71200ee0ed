package song

import (
	"strings"

	"golang.org/x/text/language"
)

// CanonicalLanguage normalises a BCP 47 tag ("pt-br" becomes "pt-BR").
// Values that do not parse are returned trimmed but otherwise unchanged.
func CanonicalLanguage(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	t, err := language.Parse(tag)
	if err != nil {
		return tag
	}
	return t.String()
}
