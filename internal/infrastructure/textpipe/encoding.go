package textpipe

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// EnsureProperEncoding normalizes text to NFC so that visually identical
// strings compare and measure identically on both render surfaces.
// Idempotent; empty input stays empty.
func EnsureProperEncoding(s string) string {
	if s == "" {
		return ""
	}
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

// IssueSeverity grades an encoding diagnostic
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "ERROR"
	SeverityWarning IssueSeverity = "WARNING"
	SeverityInfo    IssueSeverity = "INFO"
)

// EncodingIssue is one diagnostic found in authored text. Diagnostics never
// block rendering; they surface in the designer so authors can fix data
// before it reaches a printed label.
type EncodingIssue struct {
	Severity IssueSeverity `json:"severity"`
	Code     string        `json:"code"`
	Message  string        `json:"message"`
}

// DetectEncodingIssues inspects text for the classes of problems that
// corrupt printed labels: replacement characters from earlier mojibake,
// control characters, mixed-script runs that suggest copy-paste confusion,
// and Turkish-specific letters that need font coverage.
func DetectEncodingIssues(s string) []EncodingIssue {
	var issues []EncodingIssue

	if !utf8.ValidString(s) || strings.ContainsRune(s, utf8.RuneError) {
		issues = append(issues, EncodingIssue{
			Severity: SeverityError,
			Code:     "REPLACEMENT_CHARACTER",
			Message:  "Text contains the Unicode replacement character, usually a sign of earlier encoding corruption",
		})
	}

	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			issues = append(issues, EncodingIssue{
				Severity: SeverityWarning,
				Code:     "CONTROL_CHARACTER",
				Message:  "Text contains control characters that will not print",
			})
			break
		}
	}

	if hasLatin(s) && hasCyrillic(s) {
		issues = append(issues, EncodingIssue{
			Severity: SeverityInfo,
			Code:     "MIXED_SCRIPT",
			Message:  "Text mixes Latin and Cyrillic letters, check for look-alike characters",
		})
	}

	if strings.ContainsAny(s, "ıİğĞşŞ") {
		issues = append(issues, EncodingIssue{
			Severity: SeverityInfo,
			Code:     "TURKISH_CHARACTERS",
			Message:  "Text contains Turkish-specific letters, a font with Turkish coverage will be used",
		})
	}

	return issues
}

func hasLatin(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Latin, r) {
			return true
		}
	}
	return false
}

func hasCyrillic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}
