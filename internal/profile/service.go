package profile

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/tablewire/tablewire/internal/game"
)

// Service caches the profile in memory, writes changes through to the
// repository, and records round outcomes exactly once per RESULT entry.
type Service struct {
	repo Repository

	mu      sync.Mutex
	profile Profile
}

// NewService loads the stored profile. A load failure falls back to a zero
// profile rather than failing startup.
func NewService(ctx context.Context, repo Repository) *Service {
	s := &Service{repo: repo}
	p, err := repo.LoadProfile(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load profile, starting fresh")
		p = &Profile{}
	}
	s.profile = *p
	return s
}

// Profile returns a copy of the cached profile
func (s *Service) Profile() Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// SetName updates and persists the display name
func (s *Service) SetName(ctx context.Context, name string) {
	s.update(ctx, func(p *Profile) { p.Name = name })
}

// SetTheme updates and persists the UI theme
func (s *Service) SetTheme(ctx context.Context, theme string) {
	s.update(ctx, func(p *Profile) { p.Theme = theme })
}

// SetMuted updates and persists the audio mute flag
func (s *Service) SetMuted(ctx context.Context, muted bool) {
	s.update(ctx, func(p *Profile) { p.Muted = muted })
}

func (s *Service) update(ctx context.Context, fn func(*Profile)) {
	s.mu.Lock()
	fn(&s.profile)
	p := s.profile
	s.mu.Unlock()

	if err := s.repo.SaveProfile(ctx, &p); err != nil {
		log.Warn().Err(err).Msg("failed to save profile")
	}
}

// Stats returns the aggregated round outcomes
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.LoadStats(ctx)
}

// OnSnapshot is a synchronizer subscriber that records the local player's
// outcome when a round settles. The RESULT phase-entry edge makes this a
// one-shot per round even though RESULT snapshots may arrive repeatedly.
func (s *Service) OnSnapshot(prev game.Phase, state *game.GameState) {
	if state.Phase != game.PhaseResult || prev == game.PhaseResult {
		return
	}

	s.mu.Lock()
	name := s.profile.Name
	s.mu.Unlock()

	local := state.PlayerByName(name)
	if local == nil || local.Result == "" {
		return
	}

	if err := s.repo.RecordResult(context.Background(), local.Result); err != nil {
		log.Warn().Err(err).Str("result", string(local.Result)).Msg("failed to record round result")
		return
	}
	log.Info().Str("result", string(local.Result)).Msg("round result recorded")
}
