package league_test

import (
	"database/sql"
	"testing"

	"github.com/rochesterdegens/dartboard/internal/database"
	"github.com/rochesterdegens/dartboard/internal/league"
	"github.com/rochesterdegens/dartboard/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (league.LeagueStore, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	store := league.New(db)
	return store, db, dbTeardown
}

func ptr(f float64) *float64 { return &f }

func TestProfiles(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.UpsertProfile(league.Profile{ID: "p1", DisplayName: "Dave Miller", Email: "dave@example.com"}))
	require.NoError(t, store.UpsertProfile(league.Profile{ID: "p2", DisplayName: "Ann Cole"}))

	t.Run("get by id", func(t *testing.T) {
		profile, err := store.GetProfile("p1")
		require.NoError(t, err)
		assert.Equal(t, "Dave Miller", profile.DisplayName)
		assert.Equal(t, "dave@example.com", profile.Email)
	})

	t.Run("fuzzy lookup by name is case insensitive", func(t *testing.T) {
		profile, err := store.GetProfileByName("dav")
		require.NoError(t, err)
		assert.Equal(t, "p1", profile.ID)
	})

	t.Run("lookup miss returns an error", func(t *testing.T) {
		_, err := store.GetProfileByName("nobody")
		assert.Error(t, err)
	})

	t.Run("upsert updates display name", func(t *testing.T) {
		require.NoError(t, store.UpsertProfile(league.Profile{ID: "p2", DisplayName: "Ann B. Cole"}))
		profile, err := store.GetProfile("p2")
		require.NoError(t, err)
		assert.Equal(t, "Ann B. Cole", profile.DisplayName)
	})

	t.Run("list is sorted by display name", func(t *testing.T) {
		profiles, err := store.ListProfiles()
		require.NoError(t, err)
		require.Len(t, profiles, 2)
		assert.Equal(t, "p2", profiles[0].ID)
		assert.Equal(t, "p1", profiles[1].ID)
	})
}

func TestRecordMatch(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.UpsertProfile(league.Profile{ID: "p1", DisplayName: "Dave"}))
	require.NoError(t, store.UpsertProfile(league.Profile{ID: "p2", DisplayName: "Ann"}))

	match := &league.Match{
		GameType: stats.GameType501,
		PlayedAt: 1700000000,
		Players: []league.MatchPlayer{
			{PlayerID: "p1", Score: ptr(85.5), IsWinner: true},
			{PlayerID: "p2", IsWinner: false},
		},
	}
	require.NoError(t, store.RecordMatch(match))
	assert.NotEmpty(t, match.ID, "an empty match ID should be assigned a UUID")

	t.Run("fetches the recorded match with participants", func(t *testing.T) {
		got, err := store.GetMatch(match.ID)
		require.NoError(t, err)
		assert.Equal(t, stats.GameType501, got.GameType)
		assert.Equal(t, league.StatusNew, got.ProcessingStatus)
		require.Len(t, got.Players, 2)
		assert.Equal(t, "Dave", got.Players[0].PlayerName)
		require.NotNil(t, got.Players[0].Score)
		assert.InDelta(t, 85.5, *got.Players[0].Score, 0.001)
		assert.Nil(t, got.Players[1].Score)
	})

	t.Run("re-recording replaces participants without resetting status", func(t *testing.T) {
		require.NoError(t, store.UpdateProcessingStatus(match.ID, league.StatusResultNotified))

		match.Players[0].Score = ptr(90)
		require.NoError(t, store.RecordMatch(match))

		got, err := store.GetMatch(match.ID)
		require.NoError(t, err)
		assert.Equal(t, league.StatusResultNotified, got.ProcessingStatus)
		require.Len(t, got.Players, 2)
		require.NotNil(t, got.Players[0].Score)
		assert.InDelta(t, 90, *got.Players[0].Score, 0.001)
	})

	t.Run("unknown match id returns an error", func(t *testing.T) {
		_, err := store.GetMatch("nope")
		assert.Error(t, err)
	})
}

func TestMatchPipeline(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.RecordMatch(&league.Match{ID: "m1", GameType: stats.GameTypeCricket, PlayedAt: 100}))
	require.NoError(t, store.RecordMatch(&league.Match{ID: "m2", GameType: stats.GameType501, PlayedAt: 200}))

	pending, err := store.GetMatchesForProcessing()
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	require.NoError(t, store.UpdateProcessingStatus("m1", league.StatusCompleted))

	pending, err = store.GetMatchesForProcessing()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "m2", pending[0].ID)

	require.NoError(t, store.UpdateNotificationTimestamp("m2"))
	got, err := store.GetMatch("m2")
	require.NoError(t, err)
	assert.NotNil(t, got.ResultNotifiedTS)
}

func TestListMatches(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.RecordMatch(&league.Match{ID: "old", GameType: stats.GameType501, PlayedAt: 100}))
	require.NoError(t, store.RecordMatch(&league.Match{ID: "new", GameType: stats.GameType501, PlayedAt: 200}))

	matches, err := store.ListMatches()
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "new", matches[0].ID)
	assert.Equal(t, "old", matches[1].ID)
}

func TestResultRows(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.UpsertProfile(league.Profile{ID: "p1", DisplayName: "Dave"}))
	require.NoError(t, store.UpsertProfile(league.Profile{ID: "p2", DisplayName: "Ann"}))

	require.NoError(t, store.RecordMatch(&league.Match{
		ID: "m1", GameType: stats.GameType501, PlayedAt: 100,
		Players: []league.MatchPlayer{
			{PlayerID: "p1", Score: ptr(80), IsWinner: true},
			{PlayerID: "p2", IsWinner: false},
		},
	}))
	require.NoError(t, store.RecordMatch(&league.Match{
		ID: "m2", GameType: stats.GameTypeCricket, PlayedAt: 200,
		Players: []league.MatchPlayer{
			{PlayerID: "p1", IsWinner: false},
			{PlayerID: "p2", Score: ptr(2.5), IsWinner: true},
		},
	}))

	t.Run("full feed is chronological with names joined in", func(t *testing.T) {
		rows, err := store.ResultRows()
		require.NoError(t, err)
		require.Len(t, rows, 4)
		assert.Equal(t, "m1", rows[0].MatchID)
		assert.Equal(t, "p1", rows[0].PlayerID)
		assert.Equal(t, "Dave", rows[0].PlayerName)
		require.NotNil(t, rows[0].Score)
		assert.InDelta(t, 80, *rows[0].Score, 0.001)
		assert.Nil(t, rows[1].Score)
		assert.Equal(t, stats.GameTypeCricket, rows[2].GameType)
	})

	t.Run("player feed includes opponents of shared matches", func(t *testing.T) {
		rows, err := store.ResultRowsForPlayer("p1")
		require.NoError(t, err)
		assert.Len(t, rows, 4)
	})

	t.Run("feed works with the aggregator", func(t *testing.T) {
		rows, err := store.ResultRows()
		require.NoError(t, err)
		records := stats.OverallRecords(rows)
		require.Len(t, records, 2)
		assert.Equal(t, 1, records[0].Wins)
		assert.Equal(t, 1, records[0].Losses)
	})
}

func TestDeleteAccount(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.UpsertProfile(league.Profile{ID: "p1", DisplayName: "Dave"}))
	require.NoError(t, store.UpsertProfile(league.Profile{ID: "p2", DisplayName: "Ann"}))
	require.NoError(t, store.RecordMatch(&league.Match{
		ID: "m1", GameType: stats.GameType501, PlayedAt: 100, CreatedBy: "p1",
		Players: []league.MatchPlayer{
			{PlayerID: "p1", IsWinner: true},
			{PlayerID: "p2", IsWinner: false},
		},
	}))

	require.NoError(t, store.DeleteAccount("p1"))

	_, err := store.GetProfile("p1")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	// The match survives with the creator cleared and p1's rows removed.
	got, err := store.GetMatch("m1")
	require.NoError(t, err)
	assert.Empty(t, got.CreatedBy)
	require.Len(t, got.Players, 1)
	assert.Equal(t, "p2", got.Players[0].PlayerID)

	rows, err := store.ResultRows()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "p2", rows[0].PlayerID)
}

func TestDeleteMatchAndClear(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.UpsertProfile(league.Profile{ID: "p1", DisplayName: "Dave"}))
	require.NoError(t, store.RecordMatch(&league.Match{
		ID: "m1", GameType: stats.GameType501, PlayedAt: 100,
		Players: []league.MatchPlayer{{PlayerID: "p1", IsWinner: true}},
	}))

	store.DeleteMatch("m1")
	rows, err := store.ResultRows()
	require.NoError(t, err)
	assert.Empty(t, rows, "cascade should remove the match's result rows")

	require.NoError(t, store.RecordMatch(&league.Match{ID: "m2", GameType: stats.GameType501, PlayedAt: 200}))
	store.Clear()

	matches, err := store.ListMatches()
	require.NoError(t, err)
	assert.Empty(t, matches)
	profiles, err := store.ListProfiles()
	require.NoError(t, err)
	assert.Empty(t, profiles)
}
