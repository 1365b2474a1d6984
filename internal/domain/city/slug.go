package city

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify lowercases, strips accents, drops punctuation and joins words with
// single hyphens: "Saint-André-des-Eaux (44)" gives "saint-andre-des-eaux-44".
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(stripped) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			pendingHyphen = true
		}
	}
	return strings.Trim(b.String(), "-_")
}
