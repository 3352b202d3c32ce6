package transcript

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vexalabs/meetwatch/internal/observability"
)

// Watcher drives the synchronizer on a fixed interval. Only one poll may
// be in flight at a time: ticks that land during a slow fetch are skipped,
// not queued, so cache mutations stay in order.
type Watcher struct {
	sync      *Synchronizer
	interval  time.Duration
	onResult  func(PollResult)
	sessionID string
	logger    zerolog.Logger

	mu       sync.Mutex
	running  bool
	inFlight bool
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewWatcher creates a watcher delivering every non-stale poll result to
// onResult. onResult is invoked from the polling goroutine; at most one
// invocation is active at a time.
func NewWatcher(synchronizer *Synchronizer, interval time.Duration, onResult func(PollResult)) *Watcher {
	sessionID := observability.NewSessionID()
	return &Watcher{
		sync:      synchronizer,
		interval:  interval,
		onResult:  onResult,
		sessionID: sessionID,
		logger:    observability.WithSessionID(sessionID).With().Str("component", "watcher").Logger(),
	}
}

// SessionID identifies this polling session in logs and status output
func (w *Watcher) SessionID() string {
	return w.sessionID
}

// Start begins the polling session. The first poll runs immediately,
// then on every interval tick.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher is already running")
	}
	w.running = true
	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	w.mu.Unlock()

	w.logger.Info().Dur("interval", w.interval).Msg("Polling session started")

	go w.run(runCtx)
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

// tick launches one poll unless a previous poll is still in flight
func (w *Watcher) tick(ctx context.Context) {
	w.mu.Lock()
	if w.inFlight {
		w.mu.Unlock()
		observability.RecordPollCycle("skipped")
		w.logger.Debug().Msg("Previous poll still in flight, skipping tick")
		return
	}
	w.inFlight = true
	w.mu.Unlock()

	go func() {
		result := w.sync.Poll(ctx)

		w.mu.Lock()
		w.inFlight = false
		w.mu.Unlock()

		if result.Stale {
			return
		}
		if w.onResult != nil {
			w.onResult(result)
		}
	}()
}

// Stop ends the polling session. Cancellation is immediate: an in-flight
// fetch is aborted, and a response that nonetheless arrives is discarded
// by the synchronizer's generation check.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	cancel := w.cancel
	done := w.done
	w.mu.Unlock()

	w.sync.InvalidateSession()
	cancel()
	<-done

	w.logger.Info().Msg("Polling session stopped")
}
