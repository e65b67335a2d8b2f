package textpipe

import "unicode"

// CoverageFont is the fallback family guaranteed to be present in both the
// browser preview bundle and the PDF renderer's embedded fonts. Every
// resolved stack carries it directly after the preferred family.
const CoverageFont = "Noto Sans"

// scriptFallbacks maps a detected script to the families appended for it.
// One table, consulted by both render surfaces; entries are ordered so the
// resolved stack is deterministic.
var scriptFallbacks = []struct {
	name  string
	table *unicode.RangeTable
	fonts []string
}{
	{"Cyrillic", unicode.Cyrillic, []string{"DejaVu Sans"}},
	{"Greek", unicode.Greek, []string{"DejaVu Sans"}},
	{"Arabic", unicode.Arabic, []string{"Noto Sans Arabic", "Noto Naskh Arabic"}},
	{"Hebrew", unicode.Hebrew, []string{"Noto Sans Hebrew"}},
	{"Han", unicode.Han, []string{"Noto Sans CJK SC"}},
	{"Hiragana", unicode.Hiragana, []string{"Noto Sans CJK JP"}},
	{"Katakana", unicode.Katakana, []string{"Noto Sans CJK JP"}},
	{"Hangul", unicode.Hangul, []string{"Noto Sans CJK KR"}},
	{"Thai", unicode.Thai, []string{"Noto Sans Thai"}},
}

// FontStack resolves the ordered font family list for a piece of text.
// The preferred family leads, the coverage font comes right behind it, and
// script-specific fallbacks follow in table order for each script the text
// actually contains. Duplicates keep their first position.
func FontStack(text, preferred string) []string {
	stack := make([]string, 0, 4)
	seen := make(map[string]bool)

	push := func(family string) {
		if family == "" || seen[family] {
			return
		}
		seen[family] = true
		stack = append(stack, family)
	}

	push(preferred)
	push(CoverageFont)

	for _, entry := range scriptFallbacks {
		if containsScript(text, entry.table) {
			for _, f := range entry.fonts {
				push(f)
			}
		}
	}

	return stack
}

func containsScript(s string, table *unicode.RangeTable) bool {
	for _, r := range s {
		if unicode.Is(table, r) {
			return true
		}
	}
	return false
}
