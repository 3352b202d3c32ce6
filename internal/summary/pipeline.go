// Package summary produces a renderable meeting summary through a tiered
// fallback: a remote narrative summary, then a remote bulleted summary,
// then a local frequency-based extract that cannot fail on network grounds.
package summary

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vexalabs/meetwatch/internal/observability"
	"github.com/vexalabs/meetwatch/internal/vexa"
)

// Tier identifies which fallback strategy produced a summary
type Tier int

const (
	TierGenerative Tier = iota
	TierServerFrequency
	TierLocalFrequency
)

func (t Tier) String() string {
	switch t {
	case TierGenerative:
		return "generative"
	case TierServerFrequency:
		return "server_frequency"
	default:
		return "local_frequency"
	}
}

// ErrNothingToSummarize is returned when no transcript segments exist yet.
// No network calls are made in that case.
var ErrNothingToSummarize = errors.New("nothing to summarize yet")

// ErrSuperseded is returned when a newer Summarize call completed while
// this one was in flight; its result must not be applied.
var ErrSuperseded = errors.New("summary superseded by a newer request")

// Summary is the renderable result of one pipeline invocation
type Summary struct {
	Tier     Tier
	Blocks   []Block
	Markdown string // Raw markdown for export; only set by the generative tier
}

// Fetcher is the transport dependency of the pipeline
type Fetcher interface {
	GetGenerativeSummary(ctx context.Context, platform, nativeMeetingID string) (*vexa.GenerativeSummary, error)
	GetBulletSummary(ctx context.Context, platform, nativeMeetingID string) (*vexa.BulletSummary, error)
}

// SegmentSource supplies the accumulated transcript
type SegmentSource interface {
	Segments() []vexa.Segment
}

// Pipeline selects a summary tier at call time. Nothing is cached between
// calls: each invocation is free to land on a different tier depending on
// transient remote availability.
type Pipeline struct {
	fetcher   Fetcher
	source    SegmentSource
	platform  string
	meetingID string
	logger    zerolog.Logger

	mu                 sync.Mutex
	nextStart          uint64
	lastCompletedStart uint64
}

// NewPipeline creates a pipeline for one meeting identity
func NewPipeline(fetcher Fetcher, source SegmentSource, platform, nativeMeetingID string) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		source:    source,
		platform:  platform,
		meetingID: nativeMeetingID,
		logger: observability.WithComponent("summary").With().
			Str("platform", platform).
			Str("meeting_id", nativeMeetingID).
			Logger(),
	}
}

// Summarize walks the tier chain and returns the first summary produced.
// Remote failures advance to the next tier rather than failing the call;
// the local tier always yields a result when at least one segment exists.
// When calls overlap, the last-started call wins: an older call finishing
// after a newer one returns ErrSuperseded.
func (p *Pipeline) Summarize(ctx context.Context) (*Summary, error) {
	segments := p.source.Segments()
	if len(segments) == 0 {
		return nil, ErrNothingToSummarize
	}

	p.mu.Lock()
	p.nextStart++
	start := p.nextStart
	p.mu.Unlock()

	summary := p.runTiers(ctx, segments)

	p.mu.Lock()
	defer p.mu.Unlock()
	if start < p.lastCompletedStart {
		return nil, ErrSuperseded
	}
	p.lastCompletedStart = start

	observability.RecordSummaryTier(summary.Tier.String())
	return summary, nil
}

func (p *Pipeline) runTiers(ctx context.Context, segments []vexa.Segment) *Summary {
	if generative, err := p.fetcher.GetGenerativeSummary(ctx, p.platform, p.meetingID); err == nil && generative.Text != "" {
		return &Summary{
			Tier:     TierGenerative,
			Blocks:   renderMarkdownLite(generative.Text),
			Markdown: generative.Text,
		}
	} else if err != nil {
		p.logger.Debug().Err(err).Msg("Generative summary unavailable, trying server frequency tier")
	}

	if bullets, err := p.fetcher.GetBulletSummary(ctx, p.platform, p.meetingID); err == nil && len(bullets.Bullets) > 0 {
		blocks := make([]Block, 0, len(bullets.Bullets))
		for _, bullet := range bullets.Bullets {
			blocks = append(blocks, Block{Kind: BlockBullet, Text: bullet})
		}
		return &Summary{Tier: TierServerFrequency, Blocks: blocks}
	} else if err != nil {
		p.logger.Debug().Err(err).Msg("Server frequency summary unavailable, falling back to local tier")
	}

	return &Summary{
		Tier:   TierLocalFrequency,
		Blocks: localFrequencySummary(segments),
	}
}
