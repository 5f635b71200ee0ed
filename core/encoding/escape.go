// Package encoding provides shared text encoding, escaping and whitespace
// utilities used by the format providers.
package encoding

import (
	"strings"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\"", "&quot;")
)

// EscapeXMLText escapes only the basic XML entities for text content.
// Quotes are left alone so that exported documents stay readable.
func EscapeXMLText(s string) string {
	return textEscaper.Replace(s)
}

// EscapeXMLAttr escapes text for use in double-quoted XML attributes.
func EscapeXMLAttr(s string) string {
	return attrEscaper.Replace(s)
}

// NormalizeSpace trims s and collapses every run of whitespace (including
// line breaks) into a single space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
