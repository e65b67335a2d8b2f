package textpipe

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var barcodeSafePattern = regexp.MustCompile(`^[A-Za-z0-9\s\-.]*$`)

func TestSanitizeForBarcode(t *testing.T) {
	t.Run("passes through safe payloads", func(t *testing.T) {
		assert.Equal(t, "SO-2026-0001", SanitizeForBarcode("SO-2026-0001"))
	})

	t.Run("folds diacritics to base letters", func(t *testing.T) {
		assert.Equal(t, "Cigdem Yilmaz", SanitizeForBarcode("Çiğdem Yılmaz"))
		assert.Equal(t, "Muller", SanitizeForBarcode("Müller"))
	})

	t.Run("drops characters with no base letter", func(t *testing.T) {
		assert.Equal(t, "TRK-1", SanitizeForBarcode("TRK№-1"))
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		assert.Equal(t, "ABC 123", SanitizeForBarcode("  ABC 123  "))
	})

	t.Run("empty in, empty out", func(t *testing.T) {
		assert.Equal(t, "", SanitizeForBarcode(""))
	})

	t.Run("output is always scanner safe", func(t *testing.T) {
		inputs := []string{
			"Çiğdem Yılmaz",
			"Петров Павел",
			"大阪市北区",
			"SO/2026#0001",
			"trk:  123",
			"�garbled�",
			"emoji 📦 payload",
		}
		for _, in := range inputs {
			out := SanitizeForBarcode(in)
			assert.Regexp(t, barcodeSafePattern, out, "input %q", in)
		}
	})
}
