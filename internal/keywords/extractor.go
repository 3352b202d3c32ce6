// Package keywords derives frequent and rare term lists from accumulated
// transcript text. Extraction is a pure function: the same text always
// produces the same lists.
package keywords

import (
	"regexp"
	"sort"
	"strings"

	"github.com/vexalabs/meetwatch/internal/vexa"
)

// Term is one extracted keyword with its occurrence count
type Term struct {
	Word  string
	Count int
}

// Result holds the two keyword views over a transcript
type Result struct {
	Frequent []Term // Top terms by descending count, at most 10
	Rare     []Term // Least frequent terms, at most 10
}

const maxTerms = 10

var tokenPattern = regexp.MustCompile(`[a-z]{3,}`)

// stopWords are never reported as keywords
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "had": true,
	"her": true, "was": true, "one": true, "our": true, "out": true,
	"has": true, "have": true, "this": true, "that": true, "with": true,
	"they": true, "them": true, "from": true, "will": true, "would": true,
	"there": true, "their": true, "been": true, "were": true, "just": true,
	"like": true, "about": true, "into": true, "your": true, "some": true,
	"than": true, "then": true, "its": true, "also": true,
	"going": true, "get": true, "got": true, "yeah": true, "okay": true,
}

// Extract tokenizes the text and builds the frequent and rare term lists
func Extract(text string) Result {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)

	for _, token := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if stopWords[token] {
			continue
		}
		if _, seen := counts[token]; !seen {
			firstSeen[token] = len(firstSeen)
		}
		counts[token]++
	}

	// Descending by count; ties keep first-encountered order.
	sorted := make([]Term, 0, len(counts))
	for word, count := range counts {
		sorted = append(sorted, Term{Word: word, Count: count})
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Count != sorted[j].Count {
			return sorted[i].Count > sorted[j].Count
		}
		return firstSeen[sorted[i].Word] < firstSeen[sorted[j].Word]
	})

	result := Result{}

	for i := 0; i < len(sorted) && i < maxTerms; i++ {
		result.Frequent = append(result.Frequent, sorted[i])
	}

	// Rare terms: singletons from the tail of the sorted list, least
	// frequent first. When every term repeats, fall back to the lowest
	// scoring terms overall.
	for i := len(sorted) - 1; i >= 0 && len(result.Rare) < maxTerms; i-- {
		if sorted[i].Count == 1 {
			result.Rare = append(result.Rare, sorted[i])
		}
	}
	if len(result.Rare) == 0 {
		for i := len(sorted) - 1; i >= 0 && len(result.Rare) < maxTerms; i-- {
			result.Rare = append(result.Rare, sorted[i])
		}
	}

	return result
}

// FromSegments extracts keywords from the accumulated segment text
func FromSegments(segments []vexa.Segment) Result {
	var builder strings.Builder
	for _, segment := range segments {
		builder.WriteString(segment.Text)
		builder.WriteByte(' ')
	}
	return Extract(builder.String())
}
