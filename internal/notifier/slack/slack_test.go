package slack

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rochesterdegens/dartboard/internal/league"
	"github.com/rochesterdegens/dartboard/internal/metrics"
	"github.com/rochesterdegens/dartboard/internal/stats"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func ptr(f float64) *float64 { return &f }

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, true)
	require.NoError(t, err)
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(slackapi.NewTextBlockObject("plain_text", "hello", false, false), nil, nil))
	_, _, err := notifier.sendMessage(message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	postMessageCalled := false
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

// Test one of the public methods to ensure it calls the private sender.
func TestSendResultNotification_CallsSender(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	match := &league.Match{
		GameType: stats.GameType501,
		PlayedAt: 1700000000,
		Players: []league.MatchPlayer{
			{PlayerID: "p1", PlayerName: "Dave", IsWinner: true},
		},
	}

	err := notifier.SendResultNotification(match, false)
	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called via SendResultNotification")
}

func TestFormatResultNotification(t *testing.T) {
	match := &league.Match{
		GameType: stats.GameType501,
		PlayedAt: 1700000000,
		Players: []league.MatchPlayer{
			{PlayerID: "p1", PlayerName: "Dave", Score: ptr(72.5), IsWinner: true},
			{PlayerID: "p2", PlayerName: "Ann", IsWinner: false},
		},
	}
	client := &Notifier{channelID: "C123"}
	msg := client.formatResultNotification(match)
	require.Len(t, msg.Blocks.BlockSet, 3, "Expected 3 blocks")

	// 1. Header Block
	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok, "First block should be a HeaderBlock")
	assert.Equal(t, "🎯 Match finished! 🎯", header.Text.Text)

	// 2. Details Section
	details, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok, "Second block should be a SectionBlock")
	assert.True(t, strings.HasPrefix(details.Text.Text, "501 at "))

	// 3. Result Section
	result, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
	require.True(t, ok, "Third block should be a SectionBlock")
	assert.Contains(t, result.Text.Text, "Dave won! 🏆")
	assert.Contains(t, result.Text.Text, "• Dave: 72.50")
	assert.Contains(t, result.Text.Text, "• Ann")
}

func TestFormatLeaderboard(t *testing.T) {
	t.Run("with records", func(t *testing.T) {
		records := []stats.PlayerRecord{
			{PlayerID: "p1", PlayerName: "Dave", Wins: 7, Losses: 3, Games: 10, WinPct: 70, Streak: "W2", Last10: "7-3"},
			{PlayerID: "p2", PlayerName: "Ann", Wins: 3, Losses: 7, Games: 10, WinPct: 30, Streak: "L2", Last10: "3-7"},
		}
		client := &Notifier{channelID: "C123"}
		msg := client.formatLeaderboard(records)
		require.Len(t, msg.Blocks.BlockSet, 3)

		first, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Contains(t, first.Text.Text, "1. 🥇 Dave")
		assert.Contains(t, first.Text.Text, "Win %: 70.00% (7-3)")
		assert.Contains(t, first.Text.Text, "Streak: W2")
	})

	t.Run("empty leaderboard", func(t *testing.T) {
		client := &Notifier{channelID: "C123"}
		msg := client.formatLeaderboard(nil)
		require.Len(t, msg.Blocks.BlockSet, 2)
		section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Contains(t, section.Text.Text, "No stats available yet")
	})
}

func TestFormatAverages(t *testing.T) {
	records := []stats.AverageRecord{
		{PlayerID: "p1", PlayerName: "Dave", Average: 62.4, Games: 12},
	}
	client := &Notifier{channelID: "C123"}

	t.Run("3-dart average", func(t *testing.T) {
		msg := client.formatAverages(records, "3da")
		header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
		require.True(t, ok)
		assert.Contains(t, header.Text.Text, "3-Dart Average")
		section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Contains(t, section.Text.Text, "62.40 over 12 games")
	})

	t.Run("marks per round", func(t *testing.T) {
		msg := client.formatAverages(records, "mpr")
		header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
		require.True(t, ok)
		assert.Contains(t, header.Text.Text, "Marks Per Round")
	})
}

func TestFormatPlayerStats(t *testing.T) {
	record := &stats.PlayerRecord{
		PlayerID: "p1", PlayerName: "Dave",
		Wins: 7, Losses: 3, Games: 10, WinPct: 70,
		Streak: "W2", Last5: "4-1", Last10: "7-3",
	}
	breakdown := []stats.CategoryRecord{
		{GameType: stats.GameTypeCricket, Wins: 4, Losses: 1, Games: 5, WinPct: 80},
		{GameType: stats.GameType501, Wins: 3, Losses: 2, Games: 5, WinPct: 60},
		{GameType: stats.GameType301},
		{GameType: stats.GameTypeOther},
	}

	client := &Notifier{channelID: "C123"}
	msg := client.formatPlayerStats(record, breakdown)
	require.Len(t, msg.Blocks.BlockSet, 3)

	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok)
	assert.Equal(t, "🏆 Stats for Dave 🏆", header.Text.Text)

	overall, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, overall.Text.Text, "70.00% (7-3)")
	assert.Contains(t, overall.Text.Text, "*Streak*: W2")

	// Zero-game categories are left out of the breakdown section.
	byType, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, byType.Text.Text, "Cricket: 4-1 (80%)")
	assert.Contains(t, byType.Text.Text, "501: 3-2 (60%)")
	assert.NotContains(t, byType.Text.Text, "301")
}

func TestFormatPlayerNotFound(t *testing.T) {
	client := &Notifier{channelID: "C123"}
	msg := client.formatPlayerNotFound("ghost")
	require.Len(t, msg.Blocks.BlockSet, 1)
	section, ok := msg.Blocks.BlockSet[0].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, section.Text.Text, "ghost")
}
