package league

import (
	"database/sql"
	"sync"

	"github.com/rochesterdegens/dartboard/internal/stats"
)

// store handles all database operations for the league.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// ProcessingStatus tracks how far a match has moved through the result
// pipeline.
type ProcessingStatus string

const (
	StatusNew            ProcessingStatus = "NEW"
	StatusResultNotified ProcessingStatus = "RESULT_NOTIFIED"
	StatusCompleted      ProcessingStatus = "COMPLETED"
)

// Profile is a registered league member.
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

// MatchPlayer is one participant in a match. Score is the performance
// statistic for the game type (points per turn for count-up games, marks
// per round for Cricket) and is nil when the player did not record one.
type MatchPlayer struct {
	PlayerID   string   `json:"player_id"`
	PlayerName string   `json:"player_name,omitempty"`
	Score      *float64 `json:"score,omitempty"`
	IsWinner   bool     `json:"is_winner"`
}

// Match is a single recorded game between two or more players.
type Match struct {
	ID               string           `json:"id"`
	GameType         stats.GameType   `json:"game_type"`
	PlayedAt         int64            `json:"played_at"`
	CreatedBy        string           `json:"created_by,omitempty"`
	ProcessingStatus ProcessingStatus `json:"processing_status"`
	ResultNotifiedTS *int64           `json:"result_notified_ts,omitempty"`
	Players          []MatchPlayer    `json:"players"`
	CreatedAt        int64            `json:"created_at"`
}
