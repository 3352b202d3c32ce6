// Package render is the presentation seam of the client. The analysis
// engine pushes deltas and snapshots into a Sink; the console sink turns
// them into terminal output. Keeping the seam narrow keeps rendering cost
// proportional to transcript growth.
package render

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/vexalabs/meetwatch/internal/emotion"
	"github.com/vexalabs/meetwatch/internal/keywords"
	"github.com/vexalabs/meetwatch/internal/summary"
	"github.com/vexalabs/meetwatch/internal/vexa"
)

// Sink receives incremental updates from the live analysis engine
type Sink interface {
	// Segments receives only the newly appended segments, never the
	// whole cache.
	Segments(delta []vexa.Segment)
	SessionEvent(event string)
	Keywords(result keywords.Result)
	Mood(distribution []emotion.MoodScore, insights []emotion.SpeakerInsight)
	Summary(s *summary.Summary)
	Elapsed(elapsed time.Duration)
}

// Console renders updates as plain terminal lines
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	labels *vexa.EmotionLabels
}

// NewConsole creates a console sink. labels may be nil when the label
// endpoint was unreachable; emotions then render without emoji.
func NewConsole(out io.Writer, labels *vexa.EmotionLabels) *Console {
	return &Console{out: out, labels: labels}
}

func (c *Console) emoji(emotionName string) string {
	if c.labels == nil {
		return ""
	}
	if emoji, ok := c.labels.Labels[emotionName]; ok {
		return " " + emoji
	}
	return ""
}

// Segments prints each appended segment as one transcript line
func (c *Console) Segments(delta []vexa.Segment) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, segment := range delta {
		fmt.Fprintf(c.out, "[%s] %s: %s\n", segment.Time, segment.Speaker, segment.Text)
	}
}

// SessionEvent prints a lifecycle banner
func (c *Console) SessionEvent(event string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch event {
	case "admitted":
		fmt.Fprintln(c.out, "--- bot admitted, recording ---")
	case "dropped":
		fmt.Fprintln(c.out, "--- bot dropped from meeting ---")
	}
}

// Keywords prints the frequent and rare term lists
func (c *Console) Keywords(result keywords.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(result.Frequent) == 0 {
		return
	}

	var frequent []string
	for _, term := range result.Frequent {
		frequent = append(frequent, fmt.Sprintf("%s(%d)", term.Word, term.Count))
	}
	fmt.Fprintf(c.out, "keywords: %s\n", strings.Join(frequent, " "))

	if len(result.Rare) > 0 {
		var rare []string
		for _, term := range result.Rare {
			rare = append(rare, term.Word)
		}
		fmt.Fprintf(c.out, "rare:     %s\n", strings.Join(rare, " "))
	}
}

// Mood prints the mood distribution and the per-speaker insight lines
func (c *Console) Mood(distribution []emotion.MoodScore, insights []emotion.SpeakerInsight) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(distribution) > 0 {
		var parts []string
		for _, score := range distribution {
			parts = append(parts, fmt.Sprintf("%s%s %.0f%%", score.Emotion, c.emoji(score.Emotion), score.Score*100))
		}
		fmt.Fprintf(c.out, "mood:     %s\n", strings.Join(parts, "  "))
	}

	for _, insight := range insights {
		fmt.Fprintf(c.out, "          %s: %s%s (%d samples)\n",
			insight.Speaker, insight.Dominant, c.emoji(insight.Dominant), insight.Samples)
	}
}

// Summary prints a rendered summary with its source tier
func (c *Console) Summary(s *summary.Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(c.out, "--- summary (%s) ---\n", s.Tier)
	for _, block := range s.Blocks {
		switch block.Kind {
		case summary.BlockHeading:
			fmt.Fprintf(c.out, "== %s ==\n", block.Text)
		case summary.BlockBullet:
			fmt.Fprintf(c.out, "  * %s\n", block.Text)
		case summary.BlockBreak:
			fmt.Fprintln(c.out)
		default:
			fmt.Fprintln(c.out, block.Text)
		}
	}
}

// Elapsed prints the recording clock once every thirty seconds to keep
// the transcript stream readable
func (c *Console) Elapsed(elapsed time.Duration) {
	seconds := int64(elapsed.Seconds())
	if seconds == 0 || seconds%30 != 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "--- recording %s ---\n", FormatElapsed(elapsed))
}

// FormatElapsed renders a duration as H:MM:SS
func FormatElapsed(elapsed time.Duration) string {
	total := int64(elapsed.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
}
