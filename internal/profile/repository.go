// Package profile persists the local player's settings and win/loss tallies.
// Everything here is best-effort bookkeeping: the sync layer keeps working
// when the store is unavailable.
package profile

import (
	"context"

	"github.com/tablewire/tablewire/internal/game"
)

// Profile holds the locally persisted player settings, read at startup and
// written on change.
type Profile struct {
	Name  string
	Theme string
	Muted bool
}

// Stats aggregates round outcomes for the local player
type Stats struct {
	Wins       int
	Losses     int
	Pushes     int
	Blackjacks int
	Busts      int
}

// Rounds returns the total number of settled rounds
func (s Stats) Rounds() int {
	return s.Wins + s.Losses + s.Pushes + s.Blackjacks + s.Busts
}

// Repository stores the profile and statistics
type Repository interface {
	LoadProfile(ctx context.Context) (*Profile, error)
	SaveProfile(ctx context.Context, p *Profile) error
	LoadStats(ctx context.Context) (*Stats, error)
	RecordResult(ctx context.Context, result game.RoundResult) error
	Close() error
}
