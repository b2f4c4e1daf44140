package apiindex

import (
	"strings"
	"unicode"
)

// KebabCase converts a display title into a page slug.
// Examples:
//   - "Alert" -> "alert"
//   - "AlertGroup" -> "alert-group"
//   - "Date picker" -> "date-picker"
//   - "HTMLElement" -> "html-element"
func KebabCase(s string) string {
	var (
		words   []string
		current []rune
	)

	flush := func() {
		if len(current) > 0 {
			words = append(words, strings.ToLower(string(current)))
			current = current[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}

		if unicode.IsUpper(r) && len(current) > 0 {
			prev := runes[i-1]
			nextIsLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextIsLower) {
				flush()
			}
		}
		current = append(current, r)
	}
	flush()

	return strings.Join(words, "-")
}
