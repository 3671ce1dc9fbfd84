package internal

import (
	"fmt"
	"strings"
	"unicode"
)

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isAlphaNumeric(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// OutputFileName returns the CSV file name for a ranked list of topN words.
// English keeps the historical name, other languages get a language infix.
func OutputFileName(language string, topN int) string {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" || language == "en" {
		return fmt.Sprintf("wiki_wordfreq_top%d.csv", topN)
	}
	return fmt.Sprintf("wiki_wordfreq_%s_top%d.csv", SanitizeFilename(language), topN)
}

// isAlphaNumeric checks if a rune is a letter or digit in any script
func isAlphaNumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
