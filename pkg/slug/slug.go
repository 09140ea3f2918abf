package slug

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const MaxLength = 96

// Fold strips diacritics ("Göteborg" -> "Goteborg"). Letters without an ASCII
// decomposition are kept as-is.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Make turns a title into a lowercase, hyphen separated ASCII slug.
func Make(title string) string {
	folded := strings.ToLower(Fold(title))
	folded = strings.NewReplacer("ß", "ss", "æ", "ae", "ø", "o", "ı", "i", "&", " and ").Replace(folded)

	var b strings.Builder
	lastHyphen := true // suppress leading hyphens
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
		if b.Len() >= MaxLength {
			break
		}
	}
	return strings.Trim(b.String(), "-")
}

// WithSuffix returns base for n <= 1, otherwise "base-n".
func WithSuffix(base string, n int) string {
	if n <= 1 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}
