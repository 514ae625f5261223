package processor

import (
	"testing"
	"time"

	"github.com/rochesterdegens/dartboard/internal/league"
	"github.com/rochesterdegens/dartboard/internal/metrics"
	"github.com/rochesterdegens/dartboard/internal/notifier"
	"github.com/rochesterdegens/dartboard/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessor_ProcessMatches(t *testing.T) {
	t.Run("fresh result publishes a notify event and completes", func(t *testing.T) {
		// Setup
		store := league.NewMock()
		notif := notifier.NewMock()
		metr := metrics.NewMock()
		ps := pubsub.NewMock("TEST")
		p := New(store, notif, metr, ps)

		match := &league.Match{
			ID:               "m1",
			ProcessingStatus: league.StatusNew,
			PlayedAt:         time.Now().Unix(),
		}
		store.GetMatchesForProcessingFunc = func() ([]*league.Match, error) {
			return []*league.Match{match}, nil
		}

		// Execute
		p.ProcessMatches(false)

		// Assert
		// The processor's responsibility is to SEND the message, not to
		// announce the result itself. The announcement is handled by the
		// handler that consumes the pub/sub message.
		require.Len(t, ps.SendMessageCalls, 1, "A pubsub message should be sent to announce the result")
		assert.Equal(t, "notify-result", ps.SendMessageCalls[0].Topic)
		event, ok := ps.SendMessageCalls[0].Data.(pubsub.ResultEvent)
		require.True(t, ok, "Data sent to pubsub should be a ResultEvent")
		assert.Equal(t, "m1", event.MatchID)

		require.Len(t, store.UpdateProcessingStatusCalls, 2, "Status should be updated twice")
		assert.Equal(t, league.StatusResultNotified, store.UpdateProcessingStatusCalls[0].Status)
		assert.Equal(t, league.StatusCompleted, store.UpdateProcessingStatusCalls[1].Status)
		assert.Equal(t, 1, metr.MatchesProcessed())
	})

	t.Run("stale result skips the notify event but still completes", func(t *testing.T) {
		store := league.NewMock()
		notif := notifier.NewMock()
		metr := metrics.NewMock()
		ps := pubsub.NewMock("TEST")
		p := New(store, notif, metr, ps)

		match := &league.Match{
			ID:               "m1",
			ProcessingStatus: league.StatusNew,
			PlayedAt:         time.Now().Add(-48 * time.Hour).Unix(),
		}
		store.GetMatchesForProcessingFunc = func() ([]*league.Match, error) {
			return []*league.Match{match}, nil
		}

		p.ProcessMatches(false)

		require.Len(t, ps.SendMessageCalls, 0, "No notification event for historic imports")
		require.Len(t, store.UpdateProcessingStatusCalls, 2)
		assert.Equal(t, league.StatusCompleted, store.UpdateProcessingStatusCalls[1].Status)
	})

	t.Run("already notified match is only completed", func(t *testing.T) {
		store := league.NewMock()
		notif := notifier.NewMock()
		metr := metrics.NewMock()
		ps := pubsub.NewMock("TEST")
		p := New(store, notif, metr, ps)

		match := &league.Match{
			ID:               "m1",
			ProcessingStatus: league.StatusResultNotified,
			PlayedAt:         time.Now().Unix(),
		}
		store.GetMatchesForProcessingFunc = func() ([]*league.Match, error) {
			return []*league.Match{match}, nil
		}

		p.ProcessMatches(false)

		require.Len(t, ps.SendMessageCalls, 0)
		require.Len(t, store.UpdateProcessingStatusCalls, 1)
		assert.Equal(t, league.StatusCompleted, store.UpdateProcessingStatusCalls[0].Status)
	})

	t.Run("dry run advances in memory without touching the store", func(t *testing.T) {
		store := league.NewMock()
		notif := notifier.NewMock()
		metr := metrics.NewMock()
		ps := pubsub.NewMock("TEST")
		p := New(store, notif, metr, ps)

		match := &league.Match{
			ID:               "m1",
			ProcessingStatus: league.StatusNew,
			PlayedAt:         time.Now().Unix(),
		}
		store.GetMatchesForProcessingFunc = func() ([]*league.Match, error) {
			return []*league.Match{match}, nil
		}

		p.ProcessMatches(true)

		require.Len(t, ps.SendMessageCalls, 0, "No events should be published in dry-run mode")
		require.Len(t, store.UpdateProcessingStatusCalls, 0, "No store writes in dry-run mode")
		assert.Equal(t, league.StatusCompleted, match.ProcessingStatus, "In-memory state should still advance")
	})

	t.Run("store error aborts processing", func(t *testing.T) {
		store := league.NewMock()
		notif := notifier.NewMock()
		metr := metrics.NewMock()
		ps := pubsub.NewMock("TEST")
		p := New(store, notif, metr, ps)

		store.GetMatchesForProcessingFunc = func() ([]*league.Match, error) {
			return nil, assert.AnError
		}

		p.ProcessMatches(false)
		require.Len(t, store.UpdateProcessingStatusCalls, 0)
	})
}

func TestProcessor_NotifyResult(t *testing.T) {
	t.Run("sends the announcement and records the timestamp", func(t *testing.T) {
		store := league.NewMock()
		notif := notifier.NewMock()
		p := New(store, notif, metrics.NewMock(), pubsub.NewMock("TEST"))

		match := &league.Match{ID: "m1", PlayedAt: time.Now().Unix()}
		require.NoError(t, p.NotifyResult(match, false))

		require.Len(t, notif.SendResultNotificationCalls, 1)
		assert.Equal(t, "m1", notif.SendResultNotificationCalls[0].ID)
		require.Len(t, store.UpdateNotificationTimestampCalls, 1)
		assert.Equal(t, "m1", store.UpdateNotificationTimestampCalls[0])
	})

	t.Run("dry run does not record the timestamp", func(t *testing.T) {
		store := league.NewMock()
		notif := notifier.NewMock()
		p := New(store, notif, metrics.NewMock(), pubsub.NewMock("TEST"))

		match := &league.Match{ID: "m1"}
		require.NoError(t, p.NotifyResult(match, true))

		require.Len(t, notif.SendResultNotificationCalls, 1)
		require.Len(t, store.UpdateNotificationTimestampCalls, 0)
	})

	t.Run("notifier failure is surfaced", func(t *testing.T) {
		store := league.NewMock()
		notif := notifier.NewMock()
		notif.SendResultNotificationFunc = func(match *league.Match, dryRun bool) error {
			return assert.AnError
		}
		p := New(store, notif, metrics.NewMock(), pubsub.NewMock("TEST"))

		err := p.NotifyResult(&league.Match{ID: "m1"}, false)
		require.Error(t, err)
		require.Len(t, store.UpdateNotificationTimestampCalls, 0)
	})
}
