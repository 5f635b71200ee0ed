package zefania

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/JuniperLiturgy/core/bible"
	"github.com/FocuswithJustin/JuniperLiturgy/core/encoding"
)

// Emit renders b as a Zefania document. Books, chapters and verses are
// written in list order with their current numbers.
func Emit(b *bible.Bible) string {
	var buf strings.Builder

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
`)
	buf.WriteString(fmt.Sprintf(`<XMLBIBLE biblename="%s" type="x-bible">
`, encoding.EscapeXMLAttr(b.Name)))

	writeInformation(&buf, b)

	for _, bk := range b.Books {
		buf.WriteString(fmt.Sprintf(`  <BIBLEBOOK bnumber="%d" bname="%s">
`, bk.Number, encoding.EscapeXMLAttr(bk.Name)))
		for _, ch := range bk.Chapters {
			buf.WriteString(fmt.Sprintf(`    <CHAPTER cnumber="%d">
`, ch.Number))
			for _, v := range ch.Verses {
				buf.WriteString(fmt.Sprintf(`      <VERS vnumber="%d">%s</VERS>
`, v.Number, encoding.EscapeXMLText(v.Text)))
			}
			buf.WriteString("    </CHAPTER>\n")
		}
		buf.WriteString("  </BIBLEBOOK>\n")
	}

	buf.WriteString("</XMLBIBLE>\n")
	return buf.String()
}

func writeInformation(buf *strings.Builder, b *bible.Bible) {
	fields := []struct{ name, value string }{
		{"title", b.Name},
		{"identifier", b.ID},
		{"language", b.Language},
		{"rights", b.Copyright},
		{"source", b.Source},
		{"description", b.Notes},
	}
	buf.WriteString("  <INFORMATION>\n")
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		buf.WriteString(fmt.Sprintf("    <%s>%s</%s>\n", f.name, encoding.EscapeXMLText(f.value), f.name))
	}
	buf.WriteString("  </INFORMATION>\n")
}
