package client

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablewire/tablewire/internal/clock"
	"github.com/tablewire/tablewire/internal/game"
)

// Full join flow: connect, announce the player, receive a lobby snapshot,
// then receive a PLAYER snapshot that starts the turn clock at the full
// budget.
func TestJoinFlowStartsTurnClock(t *testing.T) {
	server := newTableServer(t)

	synchronizer := NewSynchronizer()
	turnClock := clock.New(clockwork.NewFakeClock(), 20, nil)
	synchronizer.Subscribe(turnClock.Observe)

	m := NewManager(testConfig(server.url()), clockwork.NewRealClock(), synchronizer)
	defer m.Close()

	require.NoError(t, m.Connect())
	m.JoinRoom("R1", "Ann")

	frame := server.nextFrame()
	require.Equal(t, KindJoin, frame.Kind)
	var payload JoinPayload
	require.NoError(t, json.Unmarshal(frame.Payload, &payload))
	require.Equal(t, "Ann", payload.Name)

	server.push(`{"kind":"state","state":{"room_code":"R1","phase":"LOBBY","players":[{"id":"p1","name":"Ann"}]}}`)
	require.Eventually(t, func() bool {
		s := synchronizer.State()
		return s != nil && s.Phase == game.PhaseLobby
	}, 2*time.Second, 10*time.Millisecond)
	assert.False(t, turnClock.Active())

	server.push(`{"kind":"state","state":{"room_code":"R1","phase":"PLAYER","active_player_index":0,"players":[{"id":"p1","name":"Ann"}]}}`)
	require.Eventually(t, turnClock.Active, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 20, turnClock.TimeLeft())

	s := synchronizer.State()
	require.NotNil(t, s)
	active := s.ActivePlayer()
	require.NotNil(t, active)
	assert.Equal(t, "Ann", active.Name)
}
