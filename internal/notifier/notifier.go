package notifier

import (
	"github.com/rochesterdegens/dartboard/internal/league"
	"github.com/rochesterdegens/dartboard/internal/stats"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For completed matches
	SendResultNotification(match *league.Match, dryRun bool) error
	// For slash commands
	SendLeaderboard(records []stats.PlayerRecord, dryRun bool) error
	SendPlayerStats(record *stats.PlayerRecord, breakdown []stats.CategoryRecord, query string, dryRun bool) error
	SendPlayerNotFound(query string, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(records []stats.PlayerRecord) (any, error)
	FormatAveragesResponse(records []stats.AverageRecord, category string) (any, error)
	FormatPlayerStatsResponse(record *stats.PlayerRecord, breakdown []stats.CategoryRecord, query string) (any, error)
	FormatPlayerNotFoundResponse(query string) (any, error)
}
