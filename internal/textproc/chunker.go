// Package textproc holds the pure text-processing steps of the ingestion
// pipeline: sentence-based chunking and coarse keyword extraction.
package textproc

import "strings"

// DefaultChunkSize is the default maximum chunk length in characters
const DefaultChunkSize = 1000

// Chunk splits text into bounded-length chunks along sentence boundaries.
// Sentences are split on terminating punctuation, then greedily accumulated
// until appending the next one would exceed maxLength. Sentences are
// rejoined with ". ". Input with no sentence boundaries yields a single
// chunk of the first maxLength characters; empty input yields nil.
func Chunk(text string, maxLength int) []string {
	if maxLength <= 0 {
		maxLength = DefaultChunkSize
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if !strings.ContainsAny(text, ".!?") {
		// Run-on block with no sentence boundaries
		return []string{firstRunes(strings.TrimSpace(text), maxLength)}
	}

	sentences := splitSentences(text)

	var chunks []string
	var current string
	for _, sentence := range sentences {
		if current != "" && len(current)+len(sentence) > maxLength {
			chunks = append(chunks, strings.TrimSpace(current))
			current = sentence
			continue
		}
		if current == "" {
			current = sentence
		} else {
			current += ". " + sentence
		}
	}
	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}

	if len(chunks) == 0 {
		// Punctuation-only input
		return []string{firstRunes(strings.TrimSpace(text), maxLength)}
	}
	return chunks
}

func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			sentences = append(sentences, strings.TrimSpace(p))
		}
	}
	return sentences
}

func firstRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
