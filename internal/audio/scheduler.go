// Package audio maps discrete game events to short synthesized cues. Audio
// is a pure enhancement: every operation is fire-and-forget and a failing
// backend degrades to silence, never to a caller-visible error.
package audio

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Tone is one synthesized note
type Tone struct {
	Freq     float64
	Duration time.Duration
}

// Synth plays a sequence of tones. Implementations may block briefly on
// scheduling but must not block for the audible duration.
type Synth interface {
	Play(tones ...Tone) error
}

// Scheduler turns semantic game events into tone sequences on a Synth.
// When muted, every cue is a no-op before any synthesis work begins.
type Scheduler struct {
	synth Synth

	mu    sync.Mutex
	muted bool
}

// NewScheduler creates a scheduler for the given backend
func NewScheduler(synth Synth, muted bool) *Scheduler {
	return &Scheduler{synth: synth, muted: muted}
}

// SetMuted toggles the global mute flag
func (s *Scheduler) SetMuted(muted bool) {
	s.mu.Lock()
	s.muted = muted
	s.mu.Unlock()
}

// Muted returns the global mute flag
func (s *Scheduler) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// CardDealt chirps once per newly dealt card. Callers gate this per card
// identity so re-renders of a known card stay silent.
func (s *Scheduler) CardDealt() {
	s.play("card_dealt", Tone{880, 40 * time.Millisecond})
}

// ChipPlaced clicks when a bet goes in
func (s *Scheduler) ChipPlaced() {
	s.play("chip_placed", Tone{660, 60 * time.Millisecond})
}

// RoundWon plays a rising major arpeggio
func (s *Scheduler) RoundWon() {
	s.play("round_won",
		Tone{523.25, 120 * time.Millisecond},
		Tone{659.25, 120 * time.Millisecond},
		Tone{783.99, 180 * time.Millisecond},
	)
}

// RoundLost plays a falling figure
func (s *Scheduler) RoundLost() {
	s.play("round_lost",
		Tone{392.00, 150 * time.Millisecond},
		Tone{329.63, 150 * time.Millisecond},
		Tone{261.63, 220 * time.Millisecond},
	)
}

// BlackjackAchieved plays a four-note fanfare
func (s *Scheduler) BlackjackAchieved() {
	s.play("blackjack",
		Tone{783.99, 100 * time.Millisecond},
		Tone{987.77, 100 * time.Millisecond},
		Tone{1174.66, 100 * time.Millisecond},
		Tone{1318.51, 200 * time.Millisecond},
	)
}

// LowTimeTick beeps once per second while the turn clock runs low
func (s *Scheduler) LowTimeTick() {
	s.play("low_time", Tone{1046.50, 80 * time.Millisecond})
}

// ShuffleStarted plays a short two-note riffle
func (s *Scheduler) ShuffleStarted() {
	s.play("shuffle",
		Tone{440, 50 * time.Millisecond},
		Tone{493.88, 50 * time.Millisecond},
	)
}

func (s *Scheduler) play(cue string, tones ...Tone) {
	if s.Muted() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Debug().Interface("panic", r).Str("cue", cue).Msg("audio backend panicked")
		}
	}()
	if err := s.synth.Play(tones...); err != nil {
		log.Debug().Err(err).Str("cue", cue).Msg("audio cue failed")
	}
}
