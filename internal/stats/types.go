package stats

// GameType is the category tag carried by every match.
type GameType string

const (
	GameType501     GameType = "501"
	GameType301     GameType = "301"
	GameTypeCricket GameType = "Cricket"
	GameTypeOther   GameType = "Other"
)

// BreakdownOrder is the fixed category order used by GameTypeBreakdown.
var BreakdownOrder = []GameType{GameTypeCricket, GameType501, GameType301, GameTypeOther}

// ResultRow is one (match, player) pairing as produced by the league store.
// Score is nil when no performance statistic was recorded for the player.
type ResultRow struct {
	PlayerID   string   `json:"player_id"`
	MatchID    string   `json:"match_id"`
	GameType   GameType `json:"game_type"`
	PlayedAt   int64    `json:"played_at"`
	Score      *float64 `json:"score,omitempty"`
	IsWinner   bool     `json:"is_winner"`
	PlayerName string   `json:"player_name"`
}

// PlayerRecord is one leaderboard line for a player.
// Streak is "W<n>" or "L<n>" for the unbroken run ending at the most recent
// game, and empty when the player has no games. Last5 and Last10 are
// "<wins>-<losses>" tallies over the most recent games, empty when no games.
type PlayerRecord struct {
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	Games      int     `json:"games"`
	WinPct     float64 `json:"win_pct"`
	Streak     string  `json:"streak"`
	Last5      string  `json:"last5"`
	Last10     string  `json:"last10"`
}

// AverageRecord is one line of a category average leaderboard (3-dart
// average or MPR). Games counts only rows with a recorded score.
type AverageRecord struct {
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Average    float64 `json:"average"`
	Games      int     `json:"games"`
}

// CategoryRecord is one game type's record within a single player's breakdown.
type CategoryRecord struct {
	GameType GameType `json:"game_type"`
	Wins     int      `json:"wins"`
	Losses   int      `json:"losses"`
	Games    int      `json:"games"`
	WinPct   float64  `json:"win_pct"`
	Streak   string   `json:"streak"`
	Last5    string   `json:"last5"`
	Last10   string   `json:"last10"`
}
