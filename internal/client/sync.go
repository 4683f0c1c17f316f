package client

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/tablewire/tablewire/internal/game"
)

// Subscriber is notified after each snapshot installation. prev is the phase
// of the superseded snapshot (empty before the first one), so subscribers can
// detect phase-entry edges without keeping their own history. Subscribers run
// synchronously in registration order; the next frame is not processed until
// all of them return.
type Subscriber func(prev game.Phase, state *game.GameState)

// Synchronizer converts raw inbound frames into validated snapshots and
// publishes the latest one. A malformed or invalid frame is logged and
// dropped; the previously published snapshot stays authoritative. Snapshots
// are installed by pointer replacement, never field mutation, so readers
// never observe a torn state.
type Synchronizer struct {
	mu        sync.RWMutex
	current   *game.GameState
	prevPhase game.Phase
	subs      []Subscriber
}

// NewSynchronizer creates a synchronizer with no published snapshot
func NewSynchronizer() *Synchronizer {
	return &Synchronizer{}
}

// Subscribe registers a callback for future snapshot installations.
// Not safe to call concurrently with frame processing; register everything
// during wiring, before the connection opens.
func (s *Synchronizer) Subscribe(fn Subscriber) {
	s.subs = append(s.subs, fn)
}

// HandleRaw processes one inbound frame. Frames arrive from a single read
// loop, so installations happen strictly in arrival order, one at a time.
func (s *Synchronizer) HandleRaw(data []byte) {
	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		log.Warn().Err(err).Msg("dropping malformed frame")
		return
	}

	if frame.Kind != KindState {
		log.Debug().Str("kind", string(frame.Kind)).Msg("ignoring non-state frame")
		return
	}

	if frame.State == nil {
		log.Warn().Msg("dropping state frame without a snapshot")
		return
	}

	if err := frame.State.Validate(); err != nil {
		log.Warn().Err(err).Msg("dropping invalid snapshot")
		return
	}

	s.install(frame.State)
}

func (s *Synchronizer) install(state *game.GameState) {
	s.mu.Lock()
	prev := game.Phase("")
	if s.current != nil {
		prev = s.current.Phase
	}
	s.prevPhase = prev
	s.current = state
	subs := s.subs
	s.mu.Unlock()

	log.Debug().
		Str("room", state.RoomCode).
		Str("phase", string(state.Phase)).
		Int("players", len(state.Players)).
		Msg("snapshot installed")

	for _, fn := range subs {
		fn(prev, state)
	}
}

// State returns the currently published snapshot, or nil before the first
// one. The snapshot is shared and read-only to all callers.
func (s *Synchronizer) State() *game.GameState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// PrevPhase returns the phase of the snapshot superseded by the current one
func (s *Synchronizer) PrevPhase() game.Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prevPhase
}
