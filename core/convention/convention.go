// Package convention derives collection names from model names.
package convention

import (
	"strings"
	"unicode"
)

// CollectionName returns the default collection name for a model:
// the snake_case plural of its name ("TaskItem" -> "task_items").
func CollectionName(model string) string {
	snake := SnakeCase(model)
	if snake == "" {
		return ""
	}
	idx := strings.LastIndex(snake, "_")
	return snake[:idx+1] + Pluralize(snake[idx+1:])
}

// SnakeCase converts CamelCase, spaced or dashed names to snake_case.
func SnakeCase(s string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r == ' ' || r == '-' || r == '_':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "_") {
				b.WriteByte('_')
			}
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// Pluralize returns the plural form of a word using simple English rules.
func Pluralize(word string) string {
	if word == "" {
		return ""
	}

	lower := strings.ToLower(word)
	if plural, ok := irregularPlurals[lower]; ok {
		if unicode.IsUpper(rune(word[0])) {
			return strings.ToUpper(plural[:1]) + plural[1:]
		}
		return plural
	}

	switch {
	case hasAnySuffix(lower, "s", "x", "z", "ch", "sh"):
		return word + "es"
	case strings.HasSuffix(lower, "y") && len(word) > 1 && !isVowel(rune(lower[len(lower)-2])):
		return word[:len(word)-1] + "ies"
	case strings.HasSuffix(lower, "fe"):
		return word[:len(word)-2] + "ves"
	case strings.HasSuffix(lower, "f"):
		return word[:len(word)-1] + "ves"
	}
	return word + "s"
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

func isVowel(r rune) bool {
	switch unicode.ToLower(r) {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

var irregularPlurals = map[string]string{
	"person": "people",
	"child":  "children",
	"index":  "indices",
	"datum":  "data",
	"medium": "media",
	"schema": "schemas",
	"status": "statuses",
}
