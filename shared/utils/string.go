package utils

import (
	"math/rand"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var letters = []rune("abcdefghijklmnopqrstuvwxyz0123456789")

func GenerateRandomStringWithLength(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}

// Slugify lowercases text, strips diacritics and anything that is not a
// letter, digit or space, joins words with separator and cuts the result to
// maxLength without leaving a trailing separator.
func Slugify(text string, separator string, maxLength int) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	normalized, _, err := transform.String(stripMarks, text)
	if err != nil {
		normalized = text
	}
	normalized = strings.TrimSpace(strings.ToLower(normalized))

	var b strings.Builder
	for _, r := range normalized {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' {
			b.WriteRune(r)
		}
	}

	slug := strings.Join(strings.Fields(b.String()), separator)
	if len(slug) > maxLength {
		slug = slug[:maxLength]
	}
	return strings.TrimRight(slug, separator)
}
