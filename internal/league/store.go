package league

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/rochesterdegens/dartboard/internal/stats"
)

// New creates a new LeagueStore.
func New(db *sql.DB) LeagueStore {
	return &store{
		db: db,
	}
}

// UpsertProfile inserts a new profile or updates an existing one's display
// name and email.
func (s *store) UpsertProfile(profile Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if profile.CreatedAt == 0 {
		profile.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.Exec(`
		INSERT INTO profiles (id, display_name, email, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			display_name = excluded.display_name,
			email = excluded.email;
	`, profile.ID, profile.DisplayName, profile.Email, profile.CreatedAt)
	if err != nil {
		log.Error("Failed to upsert profile", "error", err, "playerID", profile.ID)
	}
	return err
}

func (s *store) GetProfile(playerID string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow("SELECT id, display_name, email, created_at FROM profiles WHERE id = ?", playerID)
	return scanProfile(row, playerID)
}

// GetProfileByName retrieves a single profile by display name. It performs a
// case-insensitive, fuzzy search (e.g., "dav" will match "Dave Miller").
func (s *store) GetProfileByName(playerName string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pattern := "%" + playerName + "%"
	row := s.db.QueryRow(`
		SELECT id, display_name, email, created_at
		FROM profiles
		WHERE display_name LIKE ? COLLATE NOCASE
		ORDER BY display_name
		LIMIT 1
	`, pattern)

	profile, err := scanProfile(row, pattern)
	if err == sql.ErrNoRows {
		log.Info("No profile found matching pattern", "pattern", pattern)
		return nil, fmt.Errorf("player matching '%s' not found", playerName)
	}
	return profile, err
}

func scanProfile(row *sql.Row, key string) (*Profile, error) {
	var profile Profile
	var name, email sql.NullString
	err := row.Scan(&profile.ID, &name, &email, &profile.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		log.Error("Failed to scan profile row", "error", err, "key", key)
		return nil, fmt.Errorf("database error: %w", err)
	}
	profile.DisplayName = name.String // handle NULL name from db
	profile.Email = email.String
	return &profile, nil
}

func (s *store) ListProfiles() ([]Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, display_name, email, created_at FROM profiles ORDER BY display_name")
	if err != nil {
		log.Error("Failed to query profiles", "error", err)
		return nil, err
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		var profile Profile
		var name, email sql.NullString
		if err := rows.Scan(&profile.ID, &name, &email, &profile.CreatedAt); err != nil {
			log.Error("Failed to scan profile row", "error", err)
			continue
		}
		profile.DisplayName = name.String
		profile.Email = email.String
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// DeleteAccount removes a player's profile and every result row they appear
// in. Matches they took part in survive, minus that player's participation,
// and matches they created are kept with the creator cleared.
func (s *store) DeleteAccount(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM match_players WHERE player_id = ?", playerID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to remove match participation: %w", err)
	}
	if _, err := tx.Exec("UPDATE matches SET created_by = NULL WHERE created_by = ?", playerID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear match creator: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM profiles WHERE id = ?", playerID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info("Deleted account", "playerID", playerID)
	return nil
}

// RecordMatch inserts a new match or updates an existing one. An empty ID is
// assigned a fresh UUID. The upsert is "dumb": on conflict it updates the
// match fields and participants but never touches processing_status, so a
// re-submitted result does not restart the notification pipeline.
func (s *store) RecordMatch(match *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if match.ID == "" {
		match.ID = uuid.NewString()
	}
	if match.GameType == "" {
		match.GameType = stats.GameTypeOther
	}
	if match.ProcessingStatus == "" {
		match.ProcessingStatus = StatusNew
	}
	if match.CreatedAt == 0 {
		match.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	var createdBy any
	if match.CreatedBy != "" {
		createdBy = match.CreatedBy
	}
	_, err = tx.Exec(`
		INSERT INTO matches (id, game_type, played_at, created_by, processing_status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			game_type = excluded.game_type,
			played_at = excluded.played_at,
			created_by = excluded.created_by;
	`, match.ID, match.GameType, match.PlayedAt, createdBy, match.ProcessingStatus, match.CreatedAt)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to upsert match: %w", err)
	}

	// Participants are replaced wholesale so a corrected result does not
	// leave stale rows behind.
	if _, err := tx.Exec("DELETE FROM match_players WHERE match_id = ?", match.ID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear participants: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO match_players (match_id, player_id, score, is_winner)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, player := range match.Players {
		var score any
		if player.Score != nil {
			score = *player.Score
		}
		if _, err := stmt.Exec(match.ID, player.PlayerID, score, player.IsWinner); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert participant %s: %w", player.PlayerID, err)
		}
	}

	return tx.Commit()
}

func (s *store) GetMatch(matchID string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, game_type, played_at, created_by, processing_status, result_notified_ts, created_at
		FROM matches WHERE id = ?
	`, matchID)

	match, err := scanMatch(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("match '%s' not found", matchID)
		}
		return nil, err
	}

	players, err := s.matchPlayers(matchID)
	if err != nil {
		return nil, err
	}
	match.Players = players
	return match, nil
}

// ListMatches retrieves all matches, most recent first.
func (s *store) ListMatches() ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryMatches(`
		SELECT id, game_type, played_at, created_by, processing_status, result_notified_ts, created_at
		FROM matches ORDER BY played_at DESC
	`)
}

func (s *store) DeleteMatch(matchID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM matches WHERE id = ?", matchID)
	if err != nil {
		log.Error("Failed to delete match", "error", err, "matchID", matchID)
	}
}

// GetMatchesForProcessing retrieves all matches that are not yet in a
// completed state.
func (s *store) GetMatchesForProcessing() ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryMatches(`
		SELECT id, game_type, played_at, created_by, processing_status, result_notified_ts, created_at
		FROM matches
		WHERE processing_status != ?
	`, StatusCompleted)
}

func (s *store) queryMatches(query string, args ...any) ([]*Match, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Error("Failed to query matches", "error", err)
		return nil, err
	}
	defer rows.Close()

	var matches []*Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, match)
	}

	for _, match := range matches {
		players, err := s.matchPlayers(match.ID)
		if err != nil {
			log.Error("Failed to load match participants", "error", err, "matchID", match.ID)
			continue
		}
		match.Players = players
	}
	return matches, nil
}

func scanMatch(scanner interface{ Scan(...any) error }) (*Match, error) {
	var match Match
	var createdBy sql.NullString
	var notifiedTS sql.NullInt64

	err := scanner.Scan(
		&match.ID, &match.GameType, &match.PlayedAt, &createdBy,
		&match.ProcessingStatus, &notifiedTS, &match.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	match.CreatedBy = createdBy.String
	if notifiedTS.Valid {
		match.ResultNotifiedTS = &notifiedTS.Int64
	}
	return &match, nil
}

func (s *store) matchPlayers(matchID string) ([]MatchPlayer, error) {
	rows, err := s.db.Query(`
		SELECT mp.player_id, COALESCE(p.display_name, ''), mp.score, mp.is_winner
		FROM match_players mp
		LEFT JOIN profiles p ON mp.player_id = p.id
		WHERE mp.match_id = ?
		ORDER BY mp.player_id
	`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []MatchPlayer
	for rows.Next() {
		var player MatchPlayer
		var score sql.NullFloat64
		if err := rows.Scan(&player.PlayerID, &player.PlayerName, &score, &player.IsWinner); err != nil {
			log.Error("Failed to scan participant row", "error", err, "matchID", matchID)
			continue
		}
		if score.Valid {
			player.Score = &score.Float64
		}
		players = append(players, player)
	}
	return players, nil
}

// UpdateProcessingStatus transitions a match to a new state.
func (s *store) UpdateProcessingStatus(matchID string, status ProcessingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE matches SET processing_status = ? WHERE id = ?", status, matchID)
	return err
}

// UpdateNotificationTimestamp records when the result notification for a
// match was sent.
func (s *store) UpdateNotificationTimestamp(matchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE matches SET result_notified_ts = ? WHERE id = ?", time.Now().Unix(), matchID)
	return err
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction for clearing store", "error", err)
		return
	}

	for _, table := range []string{"match_players", "matches", "profiles"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			log.Error("Failed to clear table", "error", err, "table", table)
			tx.Rollback()
			return
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction for clearing store", "error", err)
	}
}

// ResultRows returns the flat result feed consumed by the stats package,
// one row per (match, player) pairing, ordered chronologically.
func (s *store) ResultRows() ([]stats.ResultRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryResultRows(resultRowsQuery)
}

// ResultRowsForPlayer returns only the rows belonging to matches the given
// player took part in, including the other participants of those matches.
func (s *store) ResultRowsForPlayer(playerID string) ([]stats.ResultRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryResultRows(`
		SELECT mp.player_id, mp.match_id, m.game_type, m.played_at, mp.score, mp.is_winner, COALESCE(p.display_name, '')
		FROM match_players mp
		JOIN matches m ON mp.match_id = m.id
		LEFT JOIN profiles p ON mp.player_id = p.id
		WHERE mp.match_id IN (SELECT match_id FROM match_players WHERE player_id = ?)
		ORDER BY m.played_at, mp.match_id, mp.player_id
	`, playerID)
}

const resultRowsQuery = `
	SELECT mp.player_id, mp.match_id, m.game_type, m.played_at, mp.score, mp.is_winner, COALESCE(p.display_name, '')
	FROM match_players mp
	JOIN matches m ON mp.match_id = m.id
	LEFT JOIN profiles p ON mp.player_id = p.id
	ORDER BY m.played_at, mp.match_id, mp.player_id
`

func (s *store) queryResultRows(query string, args ...any) ([]stats.ResultRow, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Error("Failed to query result rows", "error", err)
		return nil, err
	}
	defer rows.Close()

	var results []stats.ResultRow
	for rows.Next() {
		var result stats.ResultRow
		var score sql.NullFloat64
		err := rows.Scan(
			&result.PlayerID, &result.MatchID, &result.GameType, &result.PlayedAt,
			&score, &result.IsWinner, &result.PlayerName,
		)
		if err != nil {
			log.Error("Failed to scan result row", "error", err)
			continue
		}
		if score.Valid {
			result.Score = &score.Float64
		}
		results = append(results, result)
	}
	return results, nil
}
