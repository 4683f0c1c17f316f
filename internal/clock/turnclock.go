// Package clock derives a locally-ticking turn countdown from server
// snapshots. The server pushes the per-turn budget implicitly through phase
// and active-player transitions and never sends sub-second ticks, so the
// client counts down on its own and treats every transition as a fresh
// budget.
package clock

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/tablewire/tablewire/internal/game"
)

// DefaultDuration is the per-turn budget in seconds
const DefaultDuration = 20

// LowTimeThreshold is the remaining-seconds boundary at or below which each
// decrement emits a low-time event
const LowTimeThreshold = 5

// TurnClock runs while the snapshot reports the PLAYER phase with an active
// seat. Any change to the (phase, active player) pair hard-resets the
// countdown to the full duration; there is no pause or resume. On expiry the
// clock holds at zero until the next transition.
type TurnClock struct {
	clock     clockwork.Clock
	duration  int
	onLowTime func(remaining int)

	mu       sync.Mutex
	timeLeft int
	active   bool
	phase    game.Phase
	activeID string
	ticker   clockwork.Ticker
	stopCh   chan struct{}
	gen      uint64 // invalidates ticks from superseded tickers
}

// New creates a stopped turn clock. onLowTime may be nil; when set it is
// called outside the clock's lock once per decrement that lands in
// (0, LowTimeThreshold].
func New(clk clockwork.Clock, duration int, onLowTime func(remaining int)) *TurnClock {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &TurnClock{
		clock:     clk,
		duration:  duration,
		onLowTime: onLowTime,
		timeLeft:  duration,
	}
}

// Observe is a synchronizer subscriber: it maps each installed snapshot to
// the (phase, active player identity) pair that drives the state machine.
func (c *TurnClock) Observe(_ game.Phase, state *game.GameState) {
	activeID := ""
	if p := state.ActivePlayer(); p != nil {
		activeID = p.ID
	}
	c.apply(state.Phase, activeID)
}

func (c *TurnClock) apply(phase game.Phase, activeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	running := phase == game.PhasePlayer && activeID != ""

	if !running {
		if c.active {
			log.Debug().Str("phase", string(phase)).Msg("turn clock stopped")
		}
		c.stopTickerLocked()
		c.active = false
		c.phase = phase
		c.activeID = activeID
		c.timeLeft = c.duration
		return
	}

	if c.active && phase == c.phase && activeID == c.activeID {
		// Same turn, keep ticking
		return
	}

	// New turn: hard reset to the full budget
	c.stopTickerLocked()
	c.phase = phase
	c.activeID = activeID
	c.timeLeft = c.duration
	c.active = true
	c.startTickerLocked()

	log.Debug().
		Str("active_player", activeID).
		Int("duration", c.duration).
		Msg("turn clock started")
}

// TimeLeft returns the remaining seconds, always within [0, duration]
func (c *TurnClock) TimeLeft() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeLeft
}

// Active reports whether the clock is engaged with a turn, including holding
// at zero after expiry
func (c *TurnClock) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Stop tears the clock down and resets it to idle
func (c *TurnClock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTickerLocked()
	c.active = false
	c.timeLeft = c.duration
}

func (c *TurnClock) startTickerLocked() {
	c.gen++
	gen := c.gen
	ticker := c.clock.NewTicker(time.Second)
	stop := make(chan struct{})
	c.ticker = ticker
	c.stopCh = stop

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.Chan():
				c.tick(gen)
			case <-stop:
				return
			}
		}
	}()
}

func (c *TurnClock) stopTickerLocked() {
	if c.stopCh != nil {
		close(c.stopCh)
		c.stopCh = nil
		c.ticker = nil
	}
}

// tick decrements once per second of wall-clock time. A tick carrying a
// stale generation raced a reset and is discarded, so a superseded ticker
// can never drain the new turn's budget.
func (c *TurnClock) tick(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || !c.active || c.timeLeft == 0 {
		c.mu.Unlock()
		return
	}

	c.timeLeft--
	remaining := c.timeLeft
	low := remaining > 0 && remaining <= LowTimeThreshold
	if remaining == 0 {
		// Expired: hold at zero, no more decrements until the next turn
		c.stopTickerLocked()
		log.Debug().Str("active_player", c.activeID).Msg("turn clock expired")
	}
	cb := c.onLowTime
	c.mu.Unlock()

	if low && cb != nil {
		cb(remaining)
	}
}
