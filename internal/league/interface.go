package league

import "github.com/rochesterdegens/dartboard/internal/stats"

// LeagueStore defines the interface for interacting with the league's data.
type LeagueStore interface {
	UpsertProfile(profile Profile) error
	GetProfile(playerID string) (*Profile, error)
	GetProfileByName(playerName string) (*Profile, error)
	ListProfiles() ([]Profile, error)
	DeleteAccount(playerID string) error
	RecordMatch(match *Match) error
	GetMatch(matchID string) (*Match, error)
	ListMatches() ([]*Match, error)
	DeleteMatch(matchID string)
	GetMatchesForProcessing() ([]*Match, error)
	UpdateProcessingStatus(matchID string, status ProcessingStatus) error
	UpdateNotificationTimestamp(matchID string) error
	Clear()
	ResultRows() ([]stats.ResultRow, error)
	ResultRowsForPlayer(playerID string) ([]stats.ResultRow, error)
}
