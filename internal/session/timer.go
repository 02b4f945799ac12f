package session

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// defaultAdvancePause is the fixed pause between a prompt resolving and the
// next prompt activating.
const defaultAdvancePause = 5 * time.Second

// promptTimer is one cancellable timer process. At most one is owned per
// room; starting a new one supersedes the old.
type promptTimer struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// timerEngine drives the two-phase prompt lifecycle per room: betting window
// expires, betting closes, the resolution delay elapses, the prompt resolves,
// and after a fixed pause the next prompt activates.
type timerEngine struct {
	clock clockwork.Clock
	app   *App
	pause time.Duration

	mu     sync.Mutex
	active map[string]*promptTimer
}

func newTimerEngine(clock clockwork.Clock, pause time.Duration) *timerEngine {
	return &timerEngine{
		clock:  clock,
		pause:  pause,
		active: make(map[string]*promptTimer),
	}
}

// start launches the timer process for a prompt, superseding any prior
// process still running for the room.
func (e *timerEngine) start(roomID, promptID string, window, delay time.Duration) {
	pt := e.replace(roomID)
	go e.run(pt, roomID, promptID, window, delay)

	log.Debug().
		Str("room_id", roomID).
		Str("prompt_id", promptID).
		Dur("betting_window", window).
		Dur("resolution_delay", delay).
		Msg("started prompt timer")
}

// replace atomically swaps in a fresh timer process for a room, cancelling
// any existing one so the old process cannot slip in between.
func (e *timerEngine) replace(roomID string) *promptTimer {
	e.mu.Lock()
	defer e.mu.Unlock()

	if existing, ok := e.active[roomID]; ok {
		existing.cancel()
		log.Debug().Str("room_id", roomID).Msg("superseded existing prompt timer")
	}

	ctx, cancel := context.WithCancel(context.Background())
	pt := &promptTimer{ctx: ctx, cancel: cancel}
	e.active[roomID] = pt
	return pt
}

// cancel stops and removes a room's timer process, if any. A cancelled
// process never proceeds to close-betting or resolve.
func (e *timerEngine) cancel(roomID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if pt, ok := e.active[roomID]; ok {
		pt.cancel()
		delete(e.active, roomID)
		log.Debug().Str("room_id", roomID).Msg("cancelled prompt timer")
	}
}

// cancelAll stops every timer process. Used on shutdown.
func (e *timerEngine) cancelAll() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for roomID, pt := range e.active {
		pt.cancel()
		delete(e.active, roomID)
	}
}

// finish removes a timer entry after its process ran to completion, unless a
// newer process already replaced it.
func (e *timerEngine) finish(roomID string, pt *promptTimer) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active[roomID] == pt {
		pt.cancel()
		delete(e.active, roomID)
	}
}

func (e *timerEngine) run(pt *promptTimer, roomID, promptID string, window, delay time.Duration) {
	timer := e.clock.NewTimer(window)

	if !e.wait(pt.ctx, timer) {
		return
	}
	e.app.closeBetting(roomID, promptID)

	timer.Reset(delay)
	if !e.wait(pt.ctx, timer) {
		return
	}
	finished := e.app.resolvePrompt(roomID, promptID)
	if finished {
		e.finish(roomID, pt)
		return
	}

	timer.Reset(e.pause)
	if !e.wait(pt.ctx, timer) {
		return
	}
	e.finish(roomID, pt)
	e.app.activateNextPrompt(roomID)
}

// wait suspends until the timer fires. Returns false when the process was
// cancelled or superseded first.
func (e *timerEngine) wait(ctx context.Context, timer clockwork.Timer) bool {
	select {
	case <-timer.Chan():
		return true
	case <-ctx.Done():
		stopAndDrainTimer(timer)
		return false
	}
}

// stopAndDrainTimer safely stops a timer and drains its channel, following
// the pattern from the time.Timer.Stop documentation.
func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}
