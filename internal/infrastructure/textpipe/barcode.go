package textpipe

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// barcodeSafe is the character set Code 128 payloads are restricted to.
// Scanners in the field choke on anything richer, so diacritics are folded
// to their base letters first and the rest is dropped.
func barcodeSafe(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == ' ', r == '-', r == '.':
		return true
	}
	return false
}

// foldDiacritics decomposes to NFD and strips combining marks, turning
// "Çiğdem" into "Cigdem" rather than losing the letters outright
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SanitizeForBarcode reduces arbitrary text to a Code 128 safe payload.
// The result always matches ^[A-Za-z0-9 .-]*$ and is trimmed; when the
// decomposition transform fails the fallback keeps plain alphanumerics only.
func SanitizeForBarcode(s string) string {
	folded, _, err := transform.String(foldDiacritics, s)
	if err != nil {
		return keepAlphanumeric(s)
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if barcodeSafe(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func keepAlphanumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
