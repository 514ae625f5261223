package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rochesterdegens/dartboard/internal/league"
	"github.com/rochesterdegens/dartboard/internal/metrics"
	"github.com/rochesterdegens/dartboard/internal/notifier"
	"github.com/rochesterdegens/dartboard/internal/stats"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// Implement the Notifier interface
func (s *Notifier) SendResultNotification(match *league.Match, dryRun bool) error {
	msg := s.formatResultNotification(match)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(records []stats.PlayerRecord, dryRun bool) error {
	msg := s.formatLeaderboard(records)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendPlayerStats(record *stats.PlayerRecord, breakdown []stats.CategoryRecord, query string, dryRun bool) error {
	msg := s.formatPlayerStats(record, breakdown)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendPlayerNotFound(query string, dryRun bool) error {
	msg := s.formatPlayerNotFound(query)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// FormatLeaderboardResponse formats a leaderboard message for a slash command response.
func (s *Notifier) FormatLeaderboardResponse(records []stats.PlayerRecord) (any, error) {
	return s.formatLeaderboard(records), nil
}

// FormatAveragesResponse formats a category average leaderboard for a slash command response.
func (s *Notifier) FormatAveragesResponse(records []stats.AverageRecord, category string) (any, error) {
	return s.formatAverages(records, category), nil
}

// FormatPlayerStatsResponse formats a player stats message for a slash command response.
func (s *Notifier) FormatPlayerStatsResponse(record *stats.PlayerRecord, breakdown []stats.CategoryRecord, query string) (any, error) {
	return s.formatPlayerStats(record, breakdown), nil
}

// FormatPlayerNotFoundResponse formats a player not found message for a slash command response.
func (s *Notifier) FormatPlayerNotFoundResponse(query string) (any, error) {
	return s.formatPlayerNotFound(query), nil
}

func playerLabel(player league.MatchPlayer) string {
	if player.PlayerName != "" {
		return player.PlayerName
	}
	return player.PlayerID
}

// formatResultNotification creates the Slack message for a finished match using Block Kit.
func (s *Notifier) formatResultNotification(match *league.Match) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header
	headerText := slack.NewTextBlockObject("plain_text", "🎯 Match finished! 🎯", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	// Details
	timeStr := time.Unix(match.PlayedAt, 0).Format("Monday 02 Jan, 15:04")
	detailsText := fmt.Sprintf("%s at %s", match.GameType, timeStr)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, false, false), nil, nil))

	// Result
	var winnerNames, lines []string
	for _, player := range match.Players {
		name := playerLabel(player)
		if player.IsWinner {
			winnerNames = append(winnerNames, name)
		}
		line := fmt.Sprintf("• %s", name)
		if player.Score != nil {
			line = fmt.Sprintf("• %s: %.2f", name, *player.Score)
		}
		lines = append(lines, line)
	}

	resultHeaderText := "Result:"
	if len(winnerNames) > 0 {
		resultHeaderText = fmt.Sprintf("Result: %s won! 🏆", strings.Join(winnerNames, " & "))
	}

	if len(lines) > 0 {
		playersText := fmt.Sprintf("%s\n%s", resultHeaderText, strings.Join(lines, "\n"))
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playersText, true, false), nil, nil))
	} else {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "Result: No players reported.", true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

func medalFor(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	}
	return ""
}

// formatLeaderboard creates a Slack message to display the player leaderboard.
func (s *Notifier) formatLeaderboard(records []stats.PlayerRecord) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header
	headerText := slack.NewTextBlockObject("plain_text", "🏆 League Leaderboard 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(records) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No stats available yet. Go throw some darts!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	// Player Ranks
	for i, record := range records {
		rank := i + 1
		playerText := fmt.Sprintf("%d. %s %s\n> Win %%: %.2f%% (%d-%d) | Streak: %s | Last 10: %s",
			rank,
			medalFor(rank),
			record.PlayerName,
			record.WinPct,
			record.Wins,
			record.Losses,
			record.Streak,
			record.Last10,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playerText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatAverages creates a Slack message for a category average leaderboard
// (3-dart average or marks per round).
func (s *Notifier) formatAverages(records []stats.AverageRecord, category string) slack.Message {
	blocks := make([]slack.Block, 0)

	label := "3-Dart Average"
	if category == "mpr" {
		label = "Marks Per Round"
	}
	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🎯 %s Leaderboard 🎯", label), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(records) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No scored games recorded yet.", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for i, record := range records {
		rank := i + 1
		playerText := fmt.Sprintf("%d. %s %s\n> %s: %.2f over %d games",
			rank,
			medalFor(rank),
			record.PlayerName,
			label,
			record.Average,
			record.Games,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playerText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerStats creates a Slack message to display a single player's stats.
func (s *Notifier) formatPlayerStats(record *stats.PlayerRecord, breakdown []stats.CategoryRecord) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header
	headerText := fmt.Sprintf("🏆 Stats for %s 🏆", record.PlayerName)
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", headerText, true, false)))

	// Overall record
	playerText := fmt.Sprintf("> *Win %%*: %.2f%% (%d-%d)\n> *Streak*: %s\n> *Last 5*: %s\n> *Last 10*: %s",
		record.WinPct,
		record.Wins,
		record.Losses,
		record.Streak,
		record.Last5,
		record.Last10,
	)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", playerText, false, false), nil, nil))

	// Per game type
	var lines []string
	for _, category := range breakdown {
		if category.Games == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("• %s: %d-%d (%.0f%%)", category.GameType, category.Wins, category.Losses, category.WinPct))
	}
	if len(lines) > 0 {
		breakdownText := "By game type:\n" + strings.Join(lines, "\n")
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", breakdownText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerNotFound creates a Slack message for when a player's stats are not found.
func (s *Notifier) formatPlayerNotFound(query string) slack.Message {
	text := fmt.Sprintf("Sorry, I couldn't find a player matching *%s*. Try a different name.", query)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}
