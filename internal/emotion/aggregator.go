// Package emotion maintains the per-speaker emotion cache, the deduplicated
// emotion timeline, and the meeting-level mood rollups. All state is derived
// from periodic fetches of the remote analyzer's meeting payload; nothing is
// inferred locally.
package emotion

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vexalabs/meetwatch/internal/observability"
	"github.com/vexalabs/meetwatch/internal/vexa"
)

// Fetcher is the transport dependency of the aggregator
type Fetcher interface {
	GetMeetingEmotions(ctx context.Context, platform, nativeMeetingID string) (*vexa.EmotionReport, error)
}

// MoodScore is one emotion with its aggregate score
type MoodScore struct {
	Emotion string
	Score   float64
}

// SpeakerInsight is the one-line rollup for a speaker
type SpeakerInsight struct {
	Speaker  string
	Dominant string
	Samples  int
}

const (
	distributionSize = 5
	chipCount        = 8
)

// Aggregator owns all emotion-derived state for one meeting
type Aggregator struct {
	fetcher       Fetcher
	platform      string
	meetingID     string
	timelineLimit int
	logger        zerolog.Logger

	mu         sync.Mutex
	enabled    bool
	refreshing bool

	speakerLatest map[string]vexa.EmotionSample
	overallMood   map[string]float64
	timeline      []vexa.EmotionSample
	// watermark is the maximum timestamp seen in any fetched timeline;
	// entries at or below it are duplicates and are dropped.
	watermark string

	distribution []MoodScore
	chips        []string
	insights     []SpeakerInsight
}

// NewAggregator creates an enabled aggregator for one meeting identity
func NewAggregator(fetcher Fetcher, platform, nativeMeetingID string, timelineLimit int) *Aggregator {
	return &Aggregator{
		fetcher:       fetcher,
		platform:      platform,
		meetingID:     nativeMeetingID,
		timelineLimit: timelineLimit,
		enabled:       true,
		speakerLatest: make(map[string]vexa.EmotionSample),
		logger: observability.WithComponent("emotion").With().
			Str("platform", platform).
			Str("meeting_id", nativeMeetingID).
			Logger(),
	}
}

// Refresh fetches the meeting emotion payload and rebuilds all derived
// state. Transport and parse failures are swallowed: the previous snapshot
// stays in place and the next refresh tries again. Overlapping calls are
// dropped, not queued.
func (a *Aggregator) Refresh(ctx context.Context) {
	a.mu.Lock()
	if !a.enabled || a.refreshing {
		a.mu.Unlock()
		return
	}
	a.refreshing = true
	platform, meetingID := a.platform, a.meetingID
	a.mu.Unlock()

	report, err := a.fetcher.GetMeetingEmotions(ctx, platform, meetingID)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.refreshing = false

	if !a.enabled {
		// Disabled while the fetch was in flight.
		return
	}
	if err != nil {
		observability.RecordEmotionRefresh(false)
		a.logger.Debug().Err(err).Msg("Emotion refresh failed, keeping prior snapshot")
		return
	}

	a.apply(report)
	observability.RecordEmotionRefresh(true)
}

// apply rebuilds state from one fetched payload. Caller holds the lock.
func (a *Aggregator) apply(report *vexa.EmotionReport) {
	// Last sample per speaker wins, by arrival order. No timestamp
	// comparison: the cache mirrors the most recently fetched view even
	// when the timeline already holds something newer.
	for _, speaker := range report.Speakers {
		if len(speaker.Emotions) == 0 {
			continue
		}
		latest := speaker.Emotions[len(speaker.Emotions)-1]
		latest.Speaker = speaker.Speaker
		a.speakerLatest[speaker.Speaker] = latest
	}

	// Fresh snapshot, not a merge.
	a.overallMood = make(map[string]float64, len(report.OverallMood))
	for emotion, score := range report.OverallMood {
		a.overallMood[emotion] = score
	}

	a.mergeTimeline(report.EmotionTimeline)
	a.rebuildRollups(report)
}

// mergeTimeline appends timeline entries newer than the watermark and
// advances the watermark to the maximum fetched timestamp, whether or not
// the entry carrying it survived the filter.
func (a *Aggregator) mergeTimeline(fetched []vexa.EmotionSample) {
	appended := 0
	maxSeen := a.watermark

	for _, entry := range fetched {
		if a.watermark == "" || timestampAfter(entry.Timestamp, a.watermark) {
			a.timeline = append(a.timeline, entry)
			appended++
		}
		if maxSeen == "" || timestampAfter(entry.Timestamp, maxSeen) {
			maxSeen = entry.Timestamp
		}
	}
	a.watermark = maxSeen

	if len(a.timeline) > a.timelineLimit {
		a.timeline = a.timeline[len(a.timeline)-a.timelineLimit:]
	}

	observability.RecordTimelineAppends(appended)
}

// rebuildRollups recomputes the projection views from one payload.
// Caller holds the lock.
func (a *Aggregator) rebuildRollups(report *vexa.EmotionReport) {
	scores := make([]MoodScore, 0, len(report.OverallMood))
	for emotion, score := range report.OverallMood {
		scores = append(scores, MoodScore{Emotion: emotion, Score: score})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].Emotion < scores[j].Emotion
	})

	a.distribution = nil
	for i := 0; i < len(scores) && i < distributionSize; i++ {
		a.distribution = append(a.distribution, scores[i])
	}

	a.chips = nil
	for i := 0; i < len(scores) && i < chipCount; i++ {
		a.chips = append(a.chips, scores[i].Emotion)
	}

	a.insights = nil
	for _, speaker := range report.Speakers {
		a.insights = append(a.insights, SpeakerInsight{
			Speaker:  speaker.Speaker,
			Dominant: speaker.DominantEmotion,
			Samples:  len(speaker.Emotions),
		})
	}
	sort.Slice(a.insights, func(i, j int) bool {
		return a.insights[i].Speaker < a.insights[j].Speaker
	})
}

// SetEnabled toggles emotion analysis. Disabling clears the speaker cache
// and the mood snapshot but deliberately keeps the watermark and the
// rendered timeline, so re-enabling resumes filtered merging where it
// left off.
func (a *Aggregator) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.enabled = enabled
	if !enabled {
		a.speakerLatest = make(map[string]vexa.EmotionSample)
		a.overallMood = nil
		a.distribution = nil
		a.chips = nil
		a.insights = nil
	}
}

// Enabled reports whether emotion analysis is active
func (a *Aggregator) Enabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.enabled
}

// SpeakerEmotions returns a copy of the latest sample per speaker
func (a *Aggregator) SpeakerEmotions() map[string]vexa.EmotionSample {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[string]vexa.EmotionSample, len(a.speakerLatest))
	for speaker, sample := range a.speakerLatest {
		out[speaker] = sample
	}
	return out
}

// OverallMood returns a copy of the current mood snapshot
func (a *Aggregator) OverallMood() map[string]float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[string]float64, len(a.overallMood))
	for emotion, score := range a.overallMood {
		out[emotion] = score
	}
	return out
}

// DominantMood returns the highest scoring emotion and its score.
// The boolean is false when no mood snapshot exists.
func (a *Aggregator) DominantMood() (MoodScore, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.distribution) == 0 {
		return MoodScore{}, false
	}
	return a.distribution[0], true
}

// Distribution returns the top emotions by score, at most five
func (a *Aggregator) Distribution() []MoodScore {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]MoodScore(nil), a.distribution...)
}

// Chips returns the top emotions as discrete labels, at most eight
func (a *Aggregator) Chips() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.chips...)
}

// SpeakerInsights returns the per-speaker rollup lines
func (a *Aggregator) SpeakerInsights() []SpeakerInsight {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]SpeakerInsight(nil), a.insights...)
}

// Timeline returns a copy of the rendered emotion timeline
func (a *Aggregator) Timeline() []vexa.EmotionSample {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]vexa.EmotionSample(nil), a.timeline...)
}

// timestampAfter reports whether a is strictly newer than b. Timestamps
// are RFC3339 when the analyzer had wall-clock time and meeting-relative
// strings otherwise, so fall back to ordinal comparison when parsing
// fails on either side.
func timestampAfter(a, b string) bool {
	ta, errA := time.Parse(time.RFC3339, a)
	tb, errB := time.Parse(time.RFC3339, b)
	if errA == nil && errB == nil {
		return ta.After(tb)
	}
	return a > b
}
