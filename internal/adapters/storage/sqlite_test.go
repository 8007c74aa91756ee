package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alejandrodnm/valuebet/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSnapshotEmpty(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), snap.Version)
	assert.Empty(t, snap.Teams)
	assert.Empty(t, snap.Markets)
}

func TestAddTeamBumpsVersion(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.AddTeam(ctx, domain.Team{
		Name:    "Manchester United",
		Sport:   "football",
		Aliases: []string{"man utd", "man united"},
	})
	require.NoError(t, err)

	v, err := store.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Teams, 1)
	// Los nombres se guardan normalizados a minúsculas.
	assert.Equal(t, "manchester united", snap.Teams[0].Name)
	assert.Equal(t, "football", snap.Teams[0].Sport)
	assert.ElementsMatch(t, []string{"man utd", "man united"}, snap.Teams[0].Aliases)
}

func TestAddTeamDuplicateKeepsVersion(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	team := domain.Team{Name: "chelsea", Sport: "football"}
	require.NoError(t, store.AddTeam(ctx, team))
	require.NoError(t, store.AddTeam(ctx, team))

	v, err := store.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v, "el duplicado no debe incrementar la versión")
}

func TestAddMarketWithTypeCodes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.AddMarket(ctx, domain.Market{
		Name:      "half time/full time",
		Sport:     "football",
		Aliases:   []string{"ht/ft", "htft"},
		TypeCodes: []string{"HALF_TIME_FULL_TIME"},
	})
	require.NoError(t, err)

	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Markets, 1)
	assert.Equal(t, []string{"HALF_TIME_FULL_TIME"}, snap.Markets[0].TypeCodes)
	assert.ElementsMatch(t, []string{"ht/ft", "htft"}, snap.Markets[0].Aliases)
}

func TestAddAliasToExistingEntity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddTeam(ctx, domain.Team{Name: "arsenal", Sport: "football"}))
	require.NoError(t, store.AddTeamAlias(ctx, "arsenal", "the gunners"))

	v, err := store.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Teams, 1)
	assert.Contains(t, snap.Teams[0].Aliases, "the gunners")
}

func TestAddAliasUnknownEntityFails(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.AddTeamAlias(ctx, "nonexistent", "alias")
	assert.Error(t, err)

	err = store.AddMarketAlias(ctx, "nonexistent", "alias")
	assert.Error(t, err)

	v, err := store.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)
}

func TestSaveAndListBets(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := domain.SavedBet{
		ID:        "11111111-1111-1111-1111-111111111111",
		Bookmaker: "bet365",
		Sport:     "football",
		Text:      "chelsea to win",
		Odds:      2.1,
		Price:     1.9,
		Decision:  domain.Value,
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	second := first
	second.ID = "22222222-2222-2222-2222-222222222222"
	second.Decision = domain.TwoPercent
	second.CreatedAt = first.CreatedAt.Add(time.Hour)

	require.NoError(t, store.SaveBet(ctx, first))
	require.NoError(t, store.SaveBet(ctx, second))

	bets, err := store.RecentBets(ctx, 10)
	require.NoError(t, err)
	require.Len(t, bets, 2)
	// La más reciente primero.
	assert.Equal(t, second.ID, bets[0].ID)
	assert.Equal(t, domain.TwoPercent, bets[0].Decision)
	assert.Equal(t, first.ID, bets[1].ID)
	assert.Equal(t, domain.Value, bets[1].Decision)
}

func TestSaveBetDuplicateIDFails(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	bet := domain.SavedBet{
		ID:        "33333333-3333-3333-3333-333333333333",
		Bookmaker: "pinnacle",
		Sport:     "nba",
		Text:      "lakers moneyline",
		Odds:      1.8,
		Price:     1.7,
		Decision:  domain.Value,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.SaveBet(ctx, bet))
	assert.Error(t, store.SaveBet(ctx, bet))
}
