// Package transcript owns the append-only transcript cache and the polling
// loop that keeps it reconciled with the remote feed. The remote endpoint
// returns the full segment list on every fetch; the synchronizer turns that
// into a monotonic append stream and session-lifecycle events.
package transcript

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vexalabs/meetwatch/internal/observability"
	"github.com/vexalabs/meetwatch/internal/vexa"
)

// SessionEvent is a lifecycle signal derived from transcript growth
type SessionEvent int

const (
	EventNone SessionEvent = iota
	// EventAdmitted fires exactly once per polling session, on the first
	// poll that returns segments for a previously empty cache. It is the
	// signal that a human let the bot into the meeting.
	EventAdmitted
	// EventDropped fires when the feed returns zero segments while the
	// cache holds some: the bot is no longer contributing transcript.
	EventDropped
)

func (e SessionEvent) String() string {
	switch e {
	case EventAdmitted:
		return "admitted"
	case EventDropped:
		return "dropped"
	default:
		return "none"
	}
}

// PollResult is the outcome of one reconciliation cycle
type PollResult struct {
	Appended []vexa.Segment // New segments only, never the whole cache
	Event    SessionEvent
	Length   int  // Cache length after this poll
	Failed   bool // Fetch failed; cache untouched
	Stale    bool // Completed after the session was invalidated; discarded
}

// Fetcher is the transport dependency of the synchronizer
type Fetcher interface {
	GetTranscript(ctx context.Context, platform, nativeMeetingID string) ([]vexa.Segment, error)
}

// Synchronizer owns the transcript cache for one meeting identity.
// The cache is append-only within a polling session and cleared only
// when the identity switches.
type Synchronizer struct {
	fetcher Fetcher
	logger  zerolog.Logger

	mu         sync.Mutex
	platform   string
	meetingID  string
	cache      []vexa.Segment
	admitted   bool
	generation uint64
}

// NewSynchronizer creates a synchronizer for one meeting identity
func NewSynchronizer(fetcher Fetcher, platform, nativeMeetingID string) *Synchronizer {
	return &Synchronizer{
		fetcher:   fetcher,
		platform:  platform,
		meetingID: nativeMeetingID,
		logger: observability.WithComponent("transcript").With().
			Str("platform", platform).
			Str("meeting_id", nativeMeetingID).
			Logger(),
	}
}

// Poll fetches the current segment list and reconciles it with the cache.
// A fetch failure is swallowed: it is reported in the result but neither
// mutates the cache nor returns an error, so the polling loop never halts
// on a single bad cycle. A completion that arrives after InvalidateSession
// is discarded without touching the cache.
func (s *Synchronizer) Poll(ctx context.Context) PollResult {
	s.mu.Lock()
	generation := s.generation
	previous := len(s.cache)
	platform, meetingID := s.platform, s.meetingID
	s.mu.Unlock()

	fetched, err := s.fetcher.GetTranscript(ctx, platform, meetingID)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Poll fetch failed, keeping prior state")
		observability.RecordPollCycle("failed")
		return PollResult{Length: previous, Failed: true}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		// The session was stopped or the identity switched while this
		// fetch was in flight. Its response must not overwrite fresher
		// state.
		return PollResult{Length: len(s.cache), Stale: true}
	}

	n := len(s.cache)
	m := len(fetched)

	switch {
	case m > n:
		delta := make([]vexa.Segment, m-n)
		copy(delta, fetched[n:])
		s.cache = append(s.cache, delta...)

		event := EventNone
		if n == 0 && !s.admitted {
			s.admitted = true
			event = EventAdmitted
			s.logger.Info().Int("segments", m).Msg("Bot admitted to meeting")
		}

		observability.RecordPollCycle("grown")
		observability.RecordSegmentsAppended(len(delta), len(s.cache))
		return PollResult{Appended: delta, Event: event, Length: len(s.cache)}

	case m == 0 && n > 0:
		// The cache is a durable record of everything seen; a dropped
		// bot does not erase it.
		observability.RecordPollCycle("dropped")
		s.logger.Warn().Int("cached", n).Msg("Feed returned no segments, bot dropped")
		return PollResult{Event: EventDropped, Length: n}

	case m < n:
		// A shrunken non-empty feed is outside the append-only contract.
		// Keep the cache and wait for the feed to catch back up.
		observability.RecordPollCycle("steady")
		s.logger.Warn().Int("cached", n).Int("fetched", m).Msg("Feed shorter than cache, ignoring")
		return PollResult{Length: n}

	default:
		observability.RecordPollCycle("steady")
		return PollResult{Length: n}
	}
}

// Segments returns a copy of the cached transcript
func (s *Synchronizer) Segments() []vexa.Segment {
	s.mu.Lock()
	defer s.mu.Unlock()

	segments := make([]vexa.Segment, len(s.cache))
	copy(segments, s.cache)
	return segments
}

// Len returns the current cache length
func (s *Synchronizer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}

// InvalidateSession discards any in-flight poll and re-arms the admission
// event for the next session on the same identity
func (s *Synchronizer) InvalidateSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.admitted = false
}

// SwitchMeeting clears the cache and retargets the synchronizer at a new
// meeting identity. This is the only operation that shrinks the cache.
func (s *Synchronizer) SwitchMeeting(platform, nativeMeetingID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.admitted = false
	s.cache = nil
	s.platform = platform
	s.meetingID = nativeMeetingID
	s.logger = observability.WithComponent("transcript").With().
		Str("platform", platform).
		Str("meeting_id", nativeMeetingID).
		Logger()
}
