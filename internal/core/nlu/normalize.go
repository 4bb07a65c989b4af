package nlu

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var punctReplacer = strings.NewReplacer(
	"‘", "'", "’", "'", "ʼ", "'",
	"“", `"`, "”", `"`,
	"–", "-", "—", "-", "−", "-",
	"\u00a0", " ",
)

// Normalize 轉小寫、移除變音符號、統一標點並壓縮空白
func Normalize(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	cleaned, _, err := transform.String(t, text)
	if err != nil {
		cleaned = text
	}
	cleaned = punctReplacer.Replace(cleaned)
	return strings.Join(strings.Fields(strings.ToLower(cleaned)), " ")
}
