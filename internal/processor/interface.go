package processor

import (
	"github.com/rochesterdegens/dartboard/internal/league"
	"github.com/rochesterdegens/dartboard/internal/notifier"
)

// Store defines the database operations required by the processor.
type Store interface {
	GetMatchesForProcessing() ([]*league.Match, error)
	UpdateProcessingStatus(matchID string, status league.ProcessingStatus) error
	UpdateNotificationTimestamp(matchID string) error
}

// Notifier defines the notification operations required by the processor.
// This is now an alias for the main notifier interface for decoupling.
type Notifier interface {
	notifier.Notifier
}
