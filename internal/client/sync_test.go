package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablewire/tablewire/internal/game"
)

func stateFrame(t *testing.T, body string) []byte {
	t.Helper()
	return []byte(body)
}

func TestHandleRawInstallsStateFrame(t *testing.T) {
	s := NewSynchronizer()
	s.HandleRaw(stateFrame(t, `{"kind":"state","state":{"room_code":"R1","phase":"LOBBY","players":[]}}`))

	state := s.State()
	require.NotNil(t, state)
	assert.Equal(t, "R1", state.RoomCode)
	assert.Equal(t, game.PhaseLobby, state.Phase)
}

func TestHandleRawDropsMalformedFrame(t *testing.T) {
	s := NewSynchronizer()
	s.HandleRaw(stateFrame(t, `{"kind":"state","state":{"phase":"LOBBY"}}`))
	before := s.State()
	require.NotNil(t, before)

	assert.NotPanics(t, func() {
		s.HandleRaw([]byte(`{"kind":"state","state":{`))
		s.HandleRaw([]byte(`not json at all`))
		s.HandleRaw(nil)
	})

	assert.Same(t, before, s.State(), "malformed frames must leave the published snapshot untouched")
}

func TestHandleRawDropsInvalidSnapshot(t *testing.T) {
	s := NewSynchronizer()
	s.HandleRaw(stateFrame(t, `{"kind":"state","state":{"phase":"LOBBY"}}`))
	before := s.State()

	// Unknown phase
	s.HandleRaw(stateFrame(t, `{"kind":"state","state":{"phase":"HALFTIME"}}`))
	assert.Same(t, before, s.State())

	// Active index out of range during PLAYER
	s.HandleRaw(stateFrame(t, `{"kind":"state","state":{"phase":"PLAYER","players":[],"active_player_index":2}}`))
	assert.Same(t, before, s.State())

	// State frame without a snapshot
	s.HandleRaw(stateFrame(t, `{"kind":"state"}`))
	assert.Same(t, before, s.State())
}

func TestHandleRawIgnoresOtherKinds(t *testing.T) {
	s := NewSynchronizer()
	s.HandleRaw(stateFrame(t, `{"kind":"state","state":{"phase":"LOBBY"}}`))
	before := s.State()

	s.HandleRaw(stateFrame(t, `{"kind":"chat","payload":{"text":"hi"}}`))
	assert.Same(t, before, s.State())
}

func TestPrevPhaseTracksSupersededSnapshot(t *testing.T) {
	s := NewSynchronizer()
	assert.Equal(t, game.Phase(""), s.PrevPhase())

	s.HandleRaw(stateFrame(t, `{"kind":"state","state":{"phase":"LOBBY"}}`))
	assert.Equal(t, game.Phase(""), s.PrevPhase())

	s.HandleRaw(stateFrame(t, `{"kind":"state","state":{"phase":"DEALING"}}`))
	assert.Equal(t, game.PhaseLobby, s.PrevPhase())

	s.HandleRaw(stateFrame(t, `{"kind":"state","state":{"phase":"RESULT"}}`))
	assert.Equal(t, game.PhaseDealing, s.PrevPhase())
}

func TestSubscribersRunInOrderWithEdge(t *testing.T) {
	s := NewSynchronizer()

	var order []string
	var prevSeen []game.Phase
	s.Subscribe(func(prev game.Phase, _ *game.GameState) {
		order = append(order, "first")
		prevSeen = append(prevSeen, prev)
	})
	s.Subscribe(func(_ game.Phase, _ *game.GameState) {
		order = append(order, "second")
	})

	s.HandleRaw(stateFrame(t, `{"kind":"state","state":{"phase":"LOBBY"}}`))
	s.HandleRaw(stateFrame(t, `{"kind":"state","state":{"phase":"RESULT"}}`))

	assert.Equal(t, []string{"first", "second", "first", "second"}, order)
	assert.Equal(t, []game.Phase{"", game.PhaseLobby}, prevSeen)
}
