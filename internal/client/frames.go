package client

import (
	"encoding/json"

	"github.com/tablewire/tablewire/internal/game"
)

// Kind identifies a frame type on the wire
type Kind string

const (
	// Inbound; the only kind the sync layer interprets
	KindState Kind = "state"

	// Outbound player actions
	KindJoin      Kind = "join"
	KindReady     Kind = "ready"
	KindBet       Kind = "bet"
	KindStart     Kind = "start"
	KindHit       Kind = "hit"
	KindStand     Kind = "stand"
	KindDouble    Kind = "double"
	KindInsurance Kind = "insurance"
	KindLeave     Kind = "leave"
)

// Frame is the transport envelope in both directions. State frames carry a
// full snapshot in State; outbound action frames carry a kind-specific
// Payload or nothing at all.
type Frame struct {
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload,omitempty"`
	State   *game.GameState `json:"state,omitempty"`
}

// JoinPayload announces the local player's display name
type JoinPayload struct {
	Name string `json:"name"`
}

// ReadyPayload toggles the lobby ready flag
type ReadyPayload struct {
	Ready bool `json:"ready"`
}

// BetPayload places or raises the current bet
type BetPayload struct {
	Value int `json:"value"`
}
