// Package session tracks the bot-presence state machine and the recording
// wall clock. State is derived from transcript growth events, never polled
// independently, and nothing survives a restart.
package session

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vexalabs/meetwatch/internal/observability"
)

// State is the bot-presence state
type State int

const (
	StateIdle State = iota
	StateAwaitingAdmission
	StateRecording
)

func (s State) String() string {
	switch s {
	case StateAwaitingAdmission:
		return "awaiting_admission"
	case StateRecording:
		return "recording"
	default:
		return "idle"
	}
}

// Timer is the session state machine with a one-second recording clock.
// While recording, onTick receives the elapsed wall time every second;
// leaving the recording state delivers a final zero to reset the display.
type Timer struct {
	onTick func(elapsed time.Duration)
	logger zerolog.Logger

	mu                 sync.Mutex
	state              State
	recordingStartedAt time.Time
	stopTick           chan struct{}
}

// NewTimer creates an idle timer. onTick may be nil.
func NewTimer(onTick func(elapsed time.Duration)) *Timer {
	return &Timer{
		onTick: onTick,
		logger: observability.WithComponent("session"),
	}
}

// State returns the current state
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Elapsed returns the wall time since recording started, zero otherwise
func (t *Timer) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateRecording {
		return 0
	}
	return time.Since(t.recordingStartedAt)
}

// AwaitAdmission marks a dispatched bot waiting to be let in
func (t *Timer) AwaitAdmission() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateAwaitingAdmission {
		return
	}
	t.logger.Debug().Str("from", t.state.String()).Msg("Awaiting admission")
	t.stopClockLocked()
	t.state = StateAwaitingAdmission
}

// MarkRecording transitions to recording and starts the clock. It is
// triggered by the admission event, so only the awaiting state advances.
func (t *Timer) MarkRecording() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateAwaitingAdmission {
		return
	}
	t.state = StateRecording
	t.recordingStartedAt = time.Now()
	t.logger.Info().Msg("Recording started")

	stop := make(chan struct{})
	t.stopTick = stop
	startedAt := t.recordingStartedAt

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if t.onTick != nil {
					t.onTick(time.Since(startedAt))
				}
			}
		}
	}()
}

// Degrade drops a recording session back to awaiting admission. Any poll
// failure is treated as a potential admission loss, so the recording
// indicator can never stick after the bot is gone.
func (t *Timer) Degrade() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateRecording {
		return
	}
	t.logger.Warn().Msg("Poll failure while recording, downgrading to awaiting admission")
	t.stopClockLocked()
	t.state = StateAwaitingAdmission
}

// Stop returns to idle from any state
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateIdle {
		return
	}
	t.stopClockLocked()
	t.state = StateIdle
	t.logger.Info().Msg("Session stopped")
}

// stopClockLocked halts the tick loop and zeroes the display.
// Caller holds the lock.
func (t *Timer) stopClockLocked() {
	if t.stopTick != nil {
		close(t.stopTick)
		t.stopTick = nil
	}
	if t.state == StateRecording {
		t.recordingStartedAt = time.Time{}
		if t.onTick != nil {
			t.onTick(0)
		}
	}
}
