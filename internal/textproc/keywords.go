package textproc

import (
	"regexp"
	"strings"
)

// MaxKeywords caps the keyword list per document
const MaxKeywords = 20

var nonWord = regexp.MustCompile(`\W+`)

// Keywords derives a coarse term list from text: lower-cased, split on
// non-word runs, tokens longer than 3 characters, first MaxKeywords kept in
// original order. No deduplication or stop words; the list is only an extra
// substring-search field.
func Keywords(text string) []string {
	words := nonWord.Split(strings.ToLower(text), -1)

	keywords := make([]string, 0, MaxKeywords)
	for _, word := range words {
		if len(word) <= 3 {
			continue
		}
		keywords = append(keywords, word)
		if len(keywords) == MaxKeywords {
			break
		}
	}
	return keywords
}
