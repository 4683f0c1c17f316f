package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablewire/tablewire/internal/game"
)

func card(id string, rank game.Rank) game.Card {
	return game.Card{ID: id, Suit: game.Hearts, Rank: rank}
}

func tableWith(phase game.Phase, ann game.Player) *game.GameState {
	return &game.GameState{
		RoomCode:          "R1",
		Phase:             phase,
		ActivePlayerIndex: game.NoActivePlayer,
		Players:           []game.Player{ann},
	}
}

// playsOfLen counts backend calls whose tone sequence has the given length,
// which is enough to tell single-chirp cues from result sequences.
func playsOfLen(s *stubSynth, n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, call := range s.calls {
		if len(call) == n {
			count++
		}
	}
	return count
}

func TestDirectorSuppressesFirstSnapshot(t *testing.T) {
	synth := &stubSynth{}
	d := NewDirector(NewScheduler(synth, false), "Ann")

	ann := game.Player{ID: "p1", Name: "Ann", Hand: game.Hand{card("c1", game.Ten), card("c2", game.Six)}}
	d.Observe("", tableWith(game.PhasePlayer, ann))

	assert.Zero(t, synth.count(), "a reconnect snapshot must not replay cues")
}

func TestDirectorFiresCardDealtOncePerIdentity(t *testing.T) {
	synth := &stubSynth{}
	d := NewDirector(NewScheduler(synth, false), "Ann")

	ann := game.Player{ID: "p1", Name: "Ann"}
	d.Observe("", tableWith(game.PhaseLobby, ann))
	require.Zero(t, synth.count())

	ann.Hand = game.Hand{card("c1", game.Ten)}
	d.Observe(game.PhaseLobby, tableWith(game.PhaseDealing, ann))
	assert.Equal(t, 1, playsOfLen(synth, 1), "one chirp for the new card")

	// Same snapshot re-delivered: the card was already announced
	d.Observe(game.PhaseDealing, tableWith(game.PhaseDealing, ann))
	assert.Equal(t, 1, playsOfLen(synth, 1))

	ann.Hand = game.Hand{card("c1", game.Ten), card("c3", game.Five)}
	d.Observe(game.PhaseDealing, tableWith(game.PhaseDealing, ann))
	assert.Equal(t, 2, playsOfLen(synth, 1))
}

func TestDirectorShuffleAndChips(t *testing.T) {
	synth := &stubSynth{}
	d := NewDirector(NewScheduler(synth, false), "Ann")

	ann := game.Player{ID: "p1", Name: "Ann"}
	d.Observe("", tableWith(game.PhaseLobby, ann))

	d.Observe(game.PhaseLobby, tableWith(game.PhaseShuffling, ann))
	assert.Equal(t, 1, playsOfLen(synth, 2), "shuffle riffle on SHUFFLING entry")

	// Staying in SHUFFLING must not repeat the riffle
	d.Observe(game.PhaseShuffling, tableWith(game.PhaseShuffling, ann))
	assert.Equal(t, 1, playsOfLen(synth, 2))

	before := synth.count()
	ann.CurrentBet = 50
	d.Observe(game.PhaseShuffling, tableWith(game.PhaseShuffling, ann))
	assert.Equal(t, before+1, synth.count(), "bet raise clicks a chip")

	// Unchanged bet stays silent
	d.Observe(game.PhaseShuffling, tableWith(game.PhaseShuffling, ann))
	assert.Equal(t, before+1, synth.count())
}

func TestDirectorBlackjackFanfareOncePerRound(t *testing.T) {
	synth := &stubSynth{}
	d := NewDirector(NewScheduler(synth, false), "Ann")

	ann := game.Player{ID: "p1", Name: "Ann"}
	d.Observe("", tableWith(game.PhaseLobby, ann))

	ann.Hand = game.Hand{card("c1", game.Ace), card("c2", game.King)}
	d.Observe(game.PhaseLobby, tableWith(game.PhaseDealing, ann))
	assert.Equal(t, 1, playsOfLen(synth, 4), "natural plays the fanfare")

	d.Observe(game.PhaseDealing, tableWith(game.PhasePlayer, ann))
	assert.Equal(t, 1, playsOfLen(synth, 4), "no repeat within the round")

	// A fresh deal resets the gate
	ann.Hand = game.Hand{card("d1", game.Ace), card("d2", game.Queen)}
	d.Observe(game.PhaseResult, tableWith(game.PhaseDealing, ann))
	assert.Equal(t, 2, playsOfLen(synth, 4))
}

func TestDirectorResultCuesOnEntryOnly(t *testing.T) {
	synth := &stubSynth{}
	d := NewDirector(NewScheduler(synth, false), "Ann")

	ann := game.Player{ID: "p1", Name: "Ann"}
	d.Observe("", tableWith(game.PhaseDealer, ann))

	ann.Result = game.ResultWin
	d.Observe(game.PhaseDealer, tableWith(game.PhaseResult, ann))
	assert.Equal(t, 1, playsOfLen(synth, 3), "win cue on RESULT entry")

	// RESULT re-delivered: no duplicate cue
	d.Observe(game.PhaseResult, tableWith(game.PhaseResult, ann))
	assert.Equal(t, 1, playsOfLen(synth, 3))
}

func TestDirectorLossCue(t *testing.T) {
	synth := &stubSynth{}
	d := NewDirector(NewScheduler(synth, false), "Ann")

	ann := game.Player{ID: "p1", Name: "Ann"}
	d.Observe("", tableWith(game.PhaseDealer, ann))

	ann.Result = game.ResultBust
	d.Observe(game.PhaseDealer, tableWith(game.PhaseResult, ann))
	require.Equal(t, 1, synth.count())
	assert.Len(t, synth.last(), 3)
}
