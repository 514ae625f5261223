// Package stats turns flat match result rows into leaderboard views. Every
// function is a pure transform over its input: no state is kept between
// calls, and the same rows always produce the same output.
package stats

import (
	"fmt"
	"sort"
)

// outcome is a single game from one player's point of view.
type outcome struct {
	playedAt int64
	matchID  string
	win      bool
}

// IsCountUp reports whether a game type counts toward the 3-dart average.
func IsCountUp(gt GameType) bool {
	return gt == GameType501 || gt == GameType301
}

// IsCricket reports whether a game type counts toward MPR.
func IsCricket(gt GameType) bool {
	return gt == GameTypeCricket
}

// OverallRecords aggregates all rows into one leaderboard line per player,
// sorted by win percentage, then wins, then games played. Rows without a
// player ID are skipped.
func OverallRecords(rows []ResultRow) []PlayerRecord {
	seqs := make(map[string][]outcome)
	names := make(map[string]string)
	for _, row := range rows {
		if row.PlayerID == "" {
			continue
		}
		seqs[row.PlayerID] = append(seqs[row.PlayerID], outcome{
			playedAt: row.PlayedAt,
			matchID:  row.MatchID,
			win:      row.IsWinner,
		})
		if row.PlayerName != "" {
			names[row.PlayerID] = row.PlayerName
		}
	}

	records := make([]PlayerRecord, 0, len(seqs))
	for playerID, seq := range seqs {
		records = append(records, buildRecord(playerID, names[playerID], seq))
	}
	sortRecords(records)
	return records
}

// CategoryAverages computes per-player score averages over the rows whose
// game type satisfies pred. Rows without a recorded score are skipped, and
// players with no qualifying games are omitted entirely.
func CategoryAverages(rows []ResultRow, pred func(GameType) bool) []AverageRecord {
	totals := make(map[string]float64)
	counts := make(map[string]int)
	names := make(map[string]string)
	for _, row := range rows {
		if row.PlayerID == "" || row.Score == nil || !pred(row.GameType) {
			continue
		}
		totals[row.PlayerID] += *row.Score
		counts[row.PlayerID]++
		if row.PlayerName != "" {
			names[row.PlayerID] = row.PlayerName
		}
	}

	records := make([]AverageRecord, 0, len(counts))
	for playerID, games := range counts {
		records = append(records, AverageRecord{
			PlayerID:   playerID,
			PlayerName: names[playerID],
			Average:    totals[playerID] / float64(games),
			Games:      games,
		})
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Average != records[j].Average {
			return records[i].Average > records[j].Average
		}
		if records[i].Games != records[j].Games {
			return records[i].Games > records[j].Games
		}
		return records[i].PlayerID < records[j].PlayerID
	})
	return records
}

// GameTypeBreakdown splits a single player's history by game type. Every
// category in BreakdownOrder appears in the output, with zero-valued fields
// when the player has no games of that type.
func GameTypeBreakdown(rows []ResultRow, playerID string) []CategoryRecord {
	seqs := make(map[GameType][]outcome)
	for _, row := range rows {
		if row.PlayerID == "" || row.PlayerID != playerID {
			continue
		}
		seqs[row.GameType] = append(seqs[row.GameType], outcome{
			playedAt: row.PlayedAt,
			matchID:  row.MatchID,
			win:      row.IsWinner,
		})
	}

	records := make([]CategoryRecord, 0, len(BreakdownOrder))
	for _, gt := range BreakdownOrder {
		rec := buildRecord(playerID, "", seqs[gt])
		records = append(records, CategoryRecord{
			GameType: gt,
			Wins:     rec.Wins,
			Losses:   rec.Losses,
			Games:    rec.Games,
			WinPct:   rec.WinPct,
			Streak:   rec.Streak,
			Last5:    rec.Last5,
			Last10:   rec.Last10,
		})
	}
	return records
}

// HeadToHead aggregates the selected player's record against every opponent
// they have shared a match with. A match with more than two participants
// yields one outcome entry per opponent in that match. Output records carry
// the opponent's identity and the selected player's record against them.
func HeadToHead(rows []ResultRow, playerID string) []PlayerRecord {
	type participant struct {
		playerID   string
		playerName string
		isWinner   bool
		playedAt   int64
	}
	matches := make(map[string][]participant)
	var matchIDs []string
	for _, row := range rows {
		if row.PlayerID == "" || row.MatchID == "" {
			continue
		}
		if _, seen := matches[row.MatchID]; !seen {
			matchIDs = append(matchIDs, row.MatchID)
		}
		matches[row.MatchID] = append(matches[row.MatchID], participant{
			playerID:   row.PlayerID,
			playerName: row.PlayerName,
			isWinner:   row.IsWinner,
			playedAt:   row.PlayedAt,
		})
	}

	seqs := make(map[string][]outcome)
	names := make(map[string]string)
	for _, matchID := range matchIDs {
		participants := matches[matchID]
		var selected *participant
		for i := range participants {
			if participants[i].playerID == playerID {
				selected = &participants[i]
				break
			}
		}
		if selected == nil {
			continue
		}
		for _, opponent := range participants {
			if opponent.playerID == playerID {
				continue
			}
			seqs[opponent.playerID] = append(seqs[opponent.playerID], outcome{
				playedAt: selected.playedAt,
				matchID:  matchID,
				win:      selected.isWinner,
			})
			if opponent.playerName != "" {
				names[opponent.playerID] = opponent.playerName
			}
		}
	}

	records := make([]PlayerRecord, 0, len(seqs))
	for opponentID, seq := range seqs {
		records = append(records, buildRecord(opponentID, names[opponentID], seq))
	}
	sortRecords(records)
	return records
}

// buildRecord aggregates one chronological outcome sequence into a record.
func buildRecord(playerID, playerName string, seq []outcome) PlayerRecord {
	sort.Slice(seq, func(i, j int) bool {
		if seq[i].playedAt != seq[j].playedAt {
			return seq[i].playedAt < seq[j].playedAt
		}
		return seq[i].matchID < seq[j].matchID
	})

	rec := PlayerRecord{PlayerID: playerID, PlayerName: playerName}
	for _, o := range seq {
		rec.Games++
		if o.win {
			rec.Wins++
		} else {
			rec.Losses++
		}
	}
	if rec.Games > 0 {
		rec.WinPct = float64(rec.Wins) / float64(rec.Games) * 100
	}
	rec.Streak = streak(seq)
	rec.Last5 = window(seq, 5)
	rec.Last10 = window(seq, 10)
	return rec
}

// streak scans backward from the most recent outcome and counts how many
// consecutive games share its result.
func streak(seq []outcome) string {
	if len(seq) == 0 {
		return ""
	}
	last := seq[len(seq)-1].win
	count := 0
	for i := len(seq) - 1; i >= 0; i-- {
		if seq[i].win != last {
			break
		}
		count++
	}
	token := "L"
	if last {
		token = "W"
	}
	return fmt.Sprintf("%s%d", token, count)
}

// window tallies wins and losses over the most recent k games, capped at
// the available history.
func window(seq []outcome, k int) string {
	if len(seq) == 0 {
		return ""
	}
	start := len(seq) - k
	if start < 0 {
		start = 0
	}
	wins, losses := 0, 0
	for _, o := range seq[start:] {
		if o.win {
			wins++
		} else {
			losses++
		}
	}
	return fmt.Sprintf("%d-%d", wins, losses)
}

func sortRecords(records []PlayerRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].WinPct != records[j].WinPct {
			return records[i].WinPct > records[j].WinPct
		}
		if records[i].Wins != records[j].Wins {
			return records[i].Wins > records[j].Wins
		}
		if records[i].Games != records[j].Games {
			return records[i].Games > records[j].Games
		}
		return records[i].PlayerID < records[j].PlayerID
	})
}
