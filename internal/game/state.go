package game

import "fmt"

// Phase is the enumerated stage of a round
type Phase string

const (
	PhaseLobby     Phase = "LOBBY"
	PhaseShuffling Phase = "SHUFFLING"
	PhaseDealing   Phase = "DEALING"
	PhaseInsurance Phase = "INSURANCE"
	PhasePlayer    Phase = "PLAYER"
	PhaseDealer    Phase = "DEALER"
	PhaseResult    Phase = "RESULT"
)

// Valid reports whether p is one of the seven known phases
func (p Phase) Valid() bool {
	switch p {
	case PhaseLobby, PhaseShuffling, PhaseDealing, PhaseInsurance, PhasePlayer, PhaseDealer, PhaseResult:
		return true
	}
	return false
}

// RoundResult is the outcome of a player's hand, empty until the server
// settles the round
type RoundResult string

const (
	ResultBlackjack RoundResult = "BLACKJACK"
	ResultWin       RoundResult = "WIN"
	ResultLose      RoundResult = "LOSE"
	ResultBust      RoundResult = "BUST"
	ResultPush      RoundResult = "PUSH"
)

// IsWin returns true if this result pays the player
func (r RoundResult) IsWin() bool {
	return r == ResultWin || r == ResultBlackjack
}

// Player is a seat at the table as reported by the server. Players are only
// ever replaced wholesale when a new snapshot arrives, never mutated in place.
type Player struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Stack        int         `json:"stack"`
	CurrentBet   int         `json:"current_bet"`
	InsuranceBet int         `json:"insurance_bet,omitempty"`
	Ready        bool        `json:"ready"`
	Hand         Hand        `json:"hand"`
	Status       string      `json:"status"`
	Result       RoundResult `json:"result,omitempty"`
}

// NoActivePlayer is the sentinel index meaning no seat currently holds the turn
const NoActivePlayer = -1

// GameState is a complete, self-contained snapshot of the table at one
// instant. Each snapshot fully supersedes the previous one; there is no
// client-side merging.
type GameState struct {
	RoomCode          string   `json:"room_code"`
	Players           []Player `json:"players"` // seat order = turn order
	DealerHand        Hand     `json:"dealer_hand"`
	Phase             Phase    `json:"phase"`
	ActivePlayerIndex int      `json:"active_player_index"`
}

// Validate checks the snapshot invariants that the sync layer relies on.
// ActivePlayerIndex is only meaningful during the PLAYER phase, where it must
// index into Players or be the no-active-player sentinel.
func (s *GameState) Validate() error {
	if !s.Phase.Valid() {
		return fmt.Errorf("unknown phase %q", s.Phase)
	}
	if s.Phase == PhasePlayer && s.ActivePlayerIndex != NoActivePlayer {
		if s.ActivePlayerIndex < 0 || s.ActivePlayerIndex >= len(s.Players) {
			return fmt.Errorf("active player index %d out of range for %d players", s.ActivePlayerIndex, len(s.Players))
		}
	}
	return nil
}

// ActivePlayer returns the player whose turn it is, or nil when the phase is
// not PLAYER or no seat holds the turn.
func (s *GameState) ActivePlayer() *Player {
	if s.Phase != PhasePlayer {
		return nil
	}
	if s.ActivePlayerIndex < 0 || s.ActivePlayerIndex >= len(s.Players) {
		return nil
	}
	return &s.Players[s.ActivePlayerIndex]
}

// PlayerByName finds a seat by display name, or nil if absent
func (s *GameState) PlayerByName(name string) *Player {
	for i := range s.Players {
		if s.Players[i].Name == name {
			return &s.Players[i]
		}
	}
	return nil
}
