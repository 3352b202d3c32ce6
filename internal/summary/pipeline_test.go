package summary

import (
	"context"
	"fmt"
	"testing"

	"github.com/vexalabs/meetwatch/internal/vexa"
)

type stubSource struct {
	segments []vexa.Segment
}

func (s *stubSource) Segments() []vexa.Segment {
	return s.segments
}

type stubFetcher struct {
	generative      *vexa.GenerativeSummary
	generativeErr   error
	bullets         *vexa.BulletSummary
	bulletsErr      error
	generativeCalls int
	bulletCalls     int
}

func (f *stubFetcher) GetGenerativeSummary(ctx context.Context, platform, nativeMeetingID string) (*vexa.GenerativeSummary, error) {
	f.generativeCalls++
	if f.generativeErr != nil {
		return nil, f.generativeErr
	}
	return f.generative, nil
}

func (f *stubFetcher) GetBulletSummary(ctx context.Context, platform, nativeMeetingID string) (*vexa.BulletSummary, error) {
	f.bulletCalls++
	if f.bulletsErr != nil {
		return nil, f.bulletsErr
	}
	return f.bullets, nil
}

func someSegments() []vexa.Segment {
	return []vexa.Segment{
		{Time: "00:01", Speaker: "A", Text: "budget planning for the quarter"},
	}
}

func TestSummarize_GenerativeTierWins(t *testing.T) {
	fetcher := &stubFetcher{
		generative: &vexa.GenerativeSummary{Text: "# Meeting\n- point one"},
		bullets:    &vexa.BulletSummary{Bullets: []string{"unused"}},
	}
	p := NewPipeline(fetcher, &stubSource{segments: someSegments()}, "google_meet", "abc-123")

	summary, err := p.Summarize(context.Background())
	if err != nil {
		t.Fatalf("Summarize() failed: %v", err)
	}

	if summary.Tier != TierGenerative {
		t.Errorf("Expected generative tier, got %v", summary.Tier)
	}
	if summary.Markdown != "# Meeting\n- point one" {
		t.Errorf("Expected raw markdown exposed for export, got %q", summary.Markdown)
	}
	if fetcher.bulletCalls != 0 {
		t.Error("Expected no fallback call when the generative tier succeeds")
	}
}

func TestSummarize_FallsBackToServerFrequency(t *testing.T) {
	fetcher := &stubFetcher{
		generativeErr: fmt.Errorf("status 503"),
		bullets:       &vexa.BulletSummary{Bullets: []string{"first point", "second point"}},
	}
	p := NewPipeline(fetcher, &stubSource{segments: someSegments()}, "google_meet", "abc-123")

	summary, err := p.Summarize(context.Background())
	if err != nil {
		t.Fatalf("Summarize() failed: %v", err)
	}

	if summary.Tier != TierServerFrequency {
		t.Errorf("Expected server frequency tier, got %v", summary.Tier)
	}
	if len(summary.Blocks) != 2 || summary.Blocks[0].Kind != BlockBullet || summary.Blocks[0].Text != "first point" {
		t.Errorf("Expected bullets rendered verbatim, got %+v", summary.Blocks)
	}
}

func TestSummarize_EmptyGenerativeTextFallsThrough(t *testing.T) {
	fetcher := &stubFetcher{
		generative: &vexa.GenerativeSummary{Text: ""},
		bullets:    &vexa.BulletSummary{Bullets: []string{"point"}},
	}
	p := NewPipeline(fetcher, &stubSource{segments: someSegments()}, "google_meet", "abc-123")

	summary, err := p.Summarize(context.Background())
	if err != nil {
		t.Fatalf("Summarize() failed: %v", err)
	}
	if summary.Tier != TierServerFrequency {
		t.Errorf("Expected empty generative body to advance the chain, got %v", summary.Tier)
	}
}

func TestSummarize_LocalTierAlwaysProduces(t *testing.T) {
	fetcher := &stubFetcher{
		generativeErr: fmt.Errorf("connection refused"),
		bulletsErr:    fmt.Errorf("connection refused"),
	}
	p := NewPipeline(fetcher, &stubSource{segments: someSegments()}, "google_meet", "abc-123")

	summary, err := p.Summarize(context.Background())
	if err != nil {
		t.Fatalf("Summarize() failed: %v", err)
	}

	if summary.Tier != TierLocalFrequency {
		t.Errorf("Expected local tier with all remotes failing, got %v", summary.Tier)
	}
	if len(summary.Blocks) == 0 {
		t.Error("Expected a non-empty summary when at least one segment exists")
	}
}

func TestSummarize_NothingToSummarize(t *testing.T) {
	fetcher := &stubFetcher{}
	p := NewPipeline(fetcher, &stubSource{}, "google_meet", "abc-123")

	_, err := p.Summarize(context.Background())
	if err != ErrNothingToSummarize {
		t.Fatalf("Expected ErrNothingToSummarize, got %v", err)
	}
	if fetcher.generativeCalls != 0 || fetcher.bulletCalls != 0 {
		t.Error("Expected no network calls with an empty transcript")
	}
}

func TestSummarize_TierChosenPerCall(t *testing.T) {
	fetcher := &stubFetcher{
		generativeErr: fmt.Errorf("status 503"),
		bullets:       &vexa.BulletSummary{Bullets: []string{"point"}},
	}
	p := NewPipeline(fetcher, &stubSource{segments: someSegments()}, "google_meet", "abc-123")

	first, err := p.Summarize(context.Background())
	if err != nil {
		t.Fatalf("Summarize() failed: %v", err)
	}
	if first.Tier != TierServerFrequency {
		t.Fatalf("Expected server frequency tier first, got %v", first.Tier)
	}

	// The generative endpoint recovers; the next call must land on it.
	fetcher.generativeErr = nil
	fetcher.generative = &vexa.GenerativeSummary{Text: "recovered"}

	second, err := p.Summarize(context.Background())
	if err != nil {
		t.Fatalf("Summarize() failed: %v", err)
	}
	if second.Tier != TierGenerative {
		t.Errorf("Expected tier re-selected at call time, got %v", second.Tier)
	}
}

func TestLocalFrequencySummary_RanksRepeatedTermsFirst(t *testing.T) {
	segments := []vexa.Segment{
		{Time: "00:01", Speaker: "A", Text: "budget budget budget"},
		{Time: "00:05", Speaker: "B", Text: "unrelated niche remark"},
	}

	blocks := localFrequencySummary(segments)

	if len(blocks) != 2 {
		t.Fatalf("Expected 2 summary lines, got %d", len(blocks))
	}
	if blocks[0].Text != "(00:01) A: budget budget budget" {
		t.Errorf("Expected the high-frequency segment first, got %q", blocks[0].Text)
	}
}

func TestLocalFrequencySummary_CapsAtEight(t *testing.T) {
	var segments []vexa.Segment
	for i := 0; i < 12; i++ {
		segments = append(segments, vexa.Segment{
			Time:    fmt.Sprintf("00:%02d", i),
			Speaker: "A",
			Text:    fmt.Sprintf("topic number %d", i),
		})
	}

	blocks := localFrequencySummary(segments)
	if len(blocks) != 8 {
		t.Errorf("Expected summary capped at 8 segments, got %d", len(blocks))
	}
}

func TestLocalFrequencySummary_SkipsEmptySegments(t *testing.T) {
	segments := []vexa.Segment{
		{Time: "00:01", Speaker: "A", Text: "   "},
		{Time: "00:02", Speaker: "B", Text: "actual content"},
	}

	blocks := localFrequencySummary(segments)
	if len(blocks) != 1 {
		t.Fatalf("Expected empty segments skipped, got %d blocks", len(blocks))
	}
	if blocks[0].Text != "(00:02) B: actual content" {
		t.Errorf("Unexpected summary line %q", blocks[0].Text)
	}
}

func TestLocalFrequencySummary_StableOnTies(t *testing.T) {
	segments := []vexa.Segment{
		{Time: "00:01", Speaker: "A", Text: "alpha topic"},
		{Time: "00:02", Speaker: "B", Text: "beta topic"},
	}

	blocks := localFrequencySummary(segments)
	if blocks[0].Text != "(00:01) A: alpha topic" {
		t.Errorf("Expected original order preserved on tied scores, got %q first", blocks[0].Text)
	}
}
