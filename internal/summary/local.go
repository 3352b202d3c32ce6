package summary

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/vexalabs/meetwatch/internal/vexa"
)

const localSummarySize = 8

var localTokenPattern = regexp.MustCompile(`[a-z]{3,}`)

// localStopWords extends the keyword stop-word rules with pronouns and
// WH-words, which otherwise dominate conversational term frequencies
var localStopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "had": true,
	"was": true, "one": true, "our": true, "out": true, "has": true,
	"have": true, "this": true, "that": true, "with": true, "they": true,
	"them": true, "from": true, "will": true, "would": true, "there": true,
	"their": true, "been": true, "were": true, "just": true, "like": true,
	"about": true, "into": true, "your": true, "some": true, "than": true,
	"then": true, "its": true, "also": true, "going": true, "get": true,
	"got": true, "yeah": true, "okay": true,
	// Pronouns
	"she": true, "him": true, "her": true, "his": true, "hers": true,
	"ours": true, "yours": true, "theirs": true, "mine": true, "myself": true,
	"yourself": true, "himself": true, "herself": true, "itself": true,
	"ourselves": true, "themselves": true, "everyone": true, "someone": true,
	"anyone": true, "nobody": true,
	// WH-words
	"what": true, "when": true, "where": true, "which": true, "who": true,
	"whom": true, "whose": true, "why": true, "how": true,
}

func localTokens(text string) []string {
	var tokens []string
	for _, token := range localTokenPattern.FindAllString(strings.ToLower(text), -1) {
		if localStopWords[token] {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// localFrequencySummary is the always-available tier: it scores every
// non-empty segment by the summed corpus frequency of its tokens and keeps
// the top segments, ties broken by original order.
func localFrequencySummary(segments []vexa.Segment) []Block {
	frequency := make(map[string]int)
	for _, segment := range segments {
		for _, token := range localTokens(segment.Text) {
			frequency[token]++
		}
	}

	type scored struct {
		index int
		score int
	}
	var candidates []scored
	for i, segment := range segments {
		if strings.TrimSpace(segment.Text) == "" {
			continue
		}
		score := 0
		for _, token := range localTokens(segment.Text) {
			score += frequency[token]
		}
		candidates = append(candidates, scored{index: i, score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > localSummarySize {
		candidates = candidates[:localSummarySize]
	}

	blocks := make([]Block, 0, len(candidates))
	for _, candidate := range candidates {
		segment := segments[candidate.index]
		blocks = append(blocks, Block{
			Kind: BlockText,
			Text: fmt.Sprintf("(%s) %s: %s", segment.Time, segment.Speaker, segment.Text),
		})
	}
	return blocks
}
