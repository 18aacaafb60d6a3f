package render

import "strings"

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		`"`, "&#34;",
		"'", "&#39;",
		"<", "&#60;",
		">", "&#62;",
		"`", "&#96;",
		"\n", "&#10;",
		"\r", "&#13;",
	)
)

// EscapeText escapes s for use as element content.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// EscapeAttr escapes s for use inside a quoted attribute value. Besides the
// quotes it encodes backticks and line breaks, which some parsers treat as
// attribute delimiters.
func EscapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
