package summary

import "strings"

// BlockKind classifies one renderable line of a summary
type BlockKind int

const (
	BlockText BlockKind = iota
	BlockHeading
	BlockBullet
	BlockBreak
)

// Block is one renderable line of a summary
type Block struct {
	Kind BlockKind
	Text string
}

// renderMarkdownLite maps the restricted markdown subset used by the
// generative summary endpoint onto blocks: # / ## / ### all collapse to a
// single heading level, lines beginning "- " become bullets, and a pair of
// blank lines becomes a break. Everything else is plain text.
func renderMarkdownLite(markdown string) []Block {
	var blocks []Block
	pendingBlanks := 0

	for _, raw := range strings.Split(markdown, "\n") {
		line := strings.TrimRight(raw, " \t")

		if strings.TrimSpace(line) == "" {
			pendingBlanks++
			if pendingBlanks == 2 {
				blocks = append(blocks, Block{Kind: BlockBreak})
				pendingBlanks = 0
			}
			continue
		}
		pendingBlanks = 0

		switch {
		case strings.HasPrefix(line, "### "):
			blocks = append(blocks, Block{Kind: BlockHeading, Text: strings.TrimPrefix(line, "### ")})
		case strings.HasPrefix(line, "## "):
			blocks = append(blocks, Block{Kind: BlockHeading, Text: strings.TrimPrefix(line, "## ")})
		case strings.HasPrefix(line, "# "):
			blocks = append(blocks, Block{Kind: BlockHeading, Text: strings.TrimPrefix(line, "# ")})
		case strings.HasPrefix(line, "- "):
			blocks = append(blocks, Block{Kind: BlockBullet, Text: strings.TrimPrefix(line, "- ")})
		default:
			blocks = append(blocks, Block{Kind: BlockText, Text: line})
		}
	}

	return blocks
}
