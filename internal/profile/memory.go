package profile

import (
	"context"
	"sync"

	"github.com/tablewire/tablewire/internal/game"
)

// MemoryRepository is an in-memory Repository used in tests and as a
// fallback when the sqlite store cannot be opened.
type MemoryRepository struct {
	mu      sync.Mutex
	profile Profile
	stats   Stats
}

// NewMemoryRepository creates an empty in-memory store
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) LoadProfile(_ context.Context) (*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.profile
	return &p, nil
}

func (r *MemoryRepository) SaveProfile(_ context.Context, p *Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profile = *p
	return nil
}

func (r *MemoryRepository) LoadStats(_ context.Context) (*Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.stats
	return &s, nil
}

func (r *MemoryRepository) RecordResult(_ context.Context, result game.RoundResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch result {
	case game.ResultWin:
		r.stats.Wins++
	case game.ResultLose:
		r.stats.Losses++
	case game.ResultPush:
		r.stats.Pushes++
	case game.ResultBlackjack:
		r.stats.Blackjacks++
	case game.ResultBust:
		r.stats.Busts++
	}
	return nil
}

func (r *MemoryRepository) Close() error {
	return nil
}
