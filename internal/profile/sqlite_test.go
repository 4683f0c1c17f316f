package profile

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablewire/tablewire/internal/game"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "profile.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestProfileRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	p, err := repo.LoadProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Profile{}, p, "empty store yields a zero profile")

	want := &Profile{Name: "Ann", Theme: "felt-green", Muted: true}
	require.NoError(t, repo.SaveProfile(ctx, want))

	got, err := repo.LoadProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Saving again overwrites the single row
	want.Theme = "midnight"
	want.Muted = false
	require.NoError(t, repo.SaveProfile(ctx, want))
	got, err = repo.LoadProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRecordResultAccumulates(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	require.NoError(t, repo.RecordResult(ctx, game.ResultWin))
	require.NoError(t, repo.RecordResult(ctx, game.ResultWin))
	require.NoError(t, repo.RecordResult(ctx, game.ResultLose))
	require.NoError(t, repo.RecordResult(ctx, game.ResultBlackjack))
	require.NoError(t, repo.RecordResult(ctx, game.ResultPush))
	require.NoError(t, repo.RecordResult(ctx, game.ResultBust))

	stats, err := repo.LoadStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Wins)
	assert.Equal(t, 1, stats.Losses)
	assert.Equal(t, 1, stats.Blackjacks)
	assert.Equal(t, 1, stats.Pushes)
	assert.Equal(t, 1, stats.Busts)
	assert.Equal(t, 6, stats.Rounds())
}
