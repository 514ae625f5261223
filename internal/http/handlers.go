package http

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rochesterdegens/dartboard/internal/league"
	"github.com/rochesterdegens/dartboard/internal/pubsub"
	"github.com/rochesterdegens/dartboard/internal/stats"
	"github.com/slack-go/slack"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("matchID")
		if matchID != "" {
			log.Info("Received request to clear a specific match", "matchID", matchID)
			s.Store.DeleteMatch(matchID)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "Cleared match %s from store!", matchID)
			log.Info("Successfully cleared match from store", "matchID", matchID)
		} else {
			log.Info("Received request to clear entire store")
			s.Store.Clear()
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "Store cleared!")
			log.Info("Store cleared successfully")
		}
	}
}

// writeJSON encodes v as the JSON response body.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// LeaderboardHandler serves the overall win/loss leaderboard. An optional
// gameType query parameter restricts the leaderboard to a single game type.
func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncLeaderboardRequests()

		rows, err := s.Store.ResultRows()
		if err != nil {
			http.Error(w, "Failed to get results", http.StatusInternalServerError)
			log.Error("Failed to get result rows from store", "error", err)
			return
		}

		if gameType := r.URL.Query().Get("gameType"); gameType != "" {
			filtered := make([]stats.ResultRow, 0, len(rows))
			for _, row := range rows {
				if row.GameType == stats.GameType(gameType) {
					filtered = append(filtered, row)
				}
			}
			rows = filtered
		}

		start := time.Now()
		records := stats.OverallRecords(rows)
		s.Metrics.ObserveAggregationDuration(time.Since(start).Seconds())

		writeJSON(w, records)
	}
}

// AveragesHandler serves a category average leaderboard. The category query
// parameter selects "3da" (3-dart average, the default) or "mpr" (marks per
// round).
func (s *Server) AveragesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncLeaderboardRequests()

		category := r.URL.Query().Get("category")
		if category == "" {
			category = "3da"
		}
		var pred func(stats.GameType) bool
		switch category {
		case "3da":
			pred = stats.IsCountUp
		case "mpr":
			pred = stats.IsCricket
		default:
			http.Error(w, "Unknown category, want '3da' or 'mpr'", http.StatusBadRequest)
			return
		}

		rows, err := s.Store.ResultRows()
		if err != nil {
			http.Error(w, "Failed to get results", http.StatusInternalServerError)
			log.Error("Failed to get result rows from store", "error", err)
			return
		}

		writeJSON(w, stats.CategoryAverages(rows, pred))
	}
}

// PlayerBreakdownHandler serves a single player's record split by game type.
func (s *Server) PlayerBreakdownHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := r.URL.Query().Get("playerID")
		if playerID == "" {
			http.Error(w, "playerID is required", http.StatusBadRequest)
			return
		}

		rows, err := s.Store.ResultRowsForPlayer(playerID)
		if err != nil {
			http.Error(w, "Failed to get results", http.StatusInternalServerError)
			log.Error("Failed to get result rows from store", "error", err, "playerID", playerID)
			return
		}

		writeJSON(w, stats.GameTypeBreakdown(rows, playerID))
	}
}

// HeadToHeadHandler serves a single player's record against each opponent.
func (s *Server) HeadToHeadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := r.URL.Query().Get("playerID")
		if playerID == "" {
			http.Error(w, "playerID is required", http.StatusBadRequest)
			return
		}

		rows, err := s.Store.ResultRowsForPlayer(playerID)
		if err != nil {
			http.Error(w, "Failed to get results", http.StatusInternalServerError)
			log.Error("Failed to get result rows from store", "error", err, "playerID", playerID)
			return
		}

		writeJSON(w, stats.HeadToHead(rows, playerID))
	}
}

// ProfilesHandler lists profiles on GET and upserts one on POST.
func (s *Server) ProfilesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			profiles, err := s.Store.ListProfiles()
			if err != nil {
				http.Error(w, "Failed to get profiles", http.StatusInternalServerError)
				log.Error("Failed to get profiles from store", "error", err)
				return
			}
			writeJSON(w, profiles)

		case http.MethodPost:
			var profile league.Profile
			if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			if profile.ID == "" || profile.DisplayName == "" {
				http.Error(w, "id and display_name are required", http.StatusBadRequest)
				return
			}
			if err := s.Store.UpsertProfile(profile); err != nil {
				http.Error(w, "Failed to save profile", http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusCreated)
			writeJSON(w, profile)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// DeleteAccountHandler removes a player's profile and their result rows.
func (s *Server) DeleteAccountHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req struct {
			PlayerID string `json:"player_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.PlayerID == "" {
			http.Error(w, "player_id is required", http.StatusBadRequest)
			return
		}

		if err := s.Store.DeleteAccount(req.PlayerID); err != nil {
			http.Error(w, "Failed to delete account", http.StatusInternalServerError)
			log.Error("Failed to delete account", "error", err, "playerID", req.PlayerID)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Account %s deleted.", req.PlayerID)
	}
}

// MatchesHandler lists matches on GET and records a new result on POST.
func (s *Server) MatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			matches, err := s.Store.ListMatches()
			if err != nil {
				http.Error(w, "Failed to get matches", http.StatusInternalServerError)
				log.Error("Failed to get matches from store", "error", err)
				return
			}
			writeJSON(w, matches)

		case http.MethodPost:
			var match league.Match
			if err := json.NewDecoder(r.Body).Decode(&match); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			if len(match.Players) == 0 {
				http.Error(w, "at least one player is required", http.StatusBadRequest)
				return
			}
			if match.PlayedAt == 0 {
				match.PlayedAt = time.Now().Unix()
			}
			if err := s.Store.RecordMatch(&match); err != nil {
				http.Error(w, "Failed to record match", http.StatusInternalServerError)
				log.Error("Failed to record match", "error", err)
				return
			}
			s.Metrics.IncMatchesRecorded()
			w.WriteHeader(http.StatusCreated)
			writeJSON(w, match)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) ProcessMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Starting match processing...")
		isDryRun := isDryRunFromContext(r)

		s.Processor.ProcessMatches(isDryRun)

		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Match processing completed.")
		log.Info("Match processing finished.")
	}
}

// NotifyResultHandler handles pubsub push deliveries for the notify-result
// topic and sends the Slack announcement for the referenced match.
func (s *Server) NotifyResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received notify result message", "body", string(bodyBytes))
		// Define a small struct to decode the incoming JSON's `data` field
		var pubsubMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data string `json:"data"` // base64-encoded message payload
			} `json:"message"`
		}

		// Parse the outer JSON to get `data`
		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		// Decode base64 to raw MessagePack bytes
		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}
		isDryRun := isDryRunFromContext(r)

		var event pubsub.ResultEvent
		if err := s.pubsub.ProcessMessage(rawData, &event); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}

		match, err := s.Store.GetMatch(event.MatchID)
		if err != nil {
			log.Error("Failed to load match for result notification", "error", err, "matchID", event.MatchID)
			http.Error(w, "Match not found", http.StatusNotFound)
			return
		}

		if err := s.Processor.NotifyResult(match, isDryRun); err != nil {
			log.Error("Failed to notify result", "error", err)
			http.Error(w, "Failed to notify result", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// LeaderboardCommandHandler returns a handler for the /leaderboard Slack command.
func (s *Server) LeaderboardCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := s.Store.ResultRows()
		if err != nil {
			http.Error(w, "Failed to get results", http.StatusInternalServerError)
			log.Error("Failed to get result rows from store", "error", err)
			return
		}

		msg, err := s.Notifier.FormatLeaderboardResponse(stats.OverallRecords(rows))
		if err != nil {
			http.Error(w, "Failed to format leaderboard", http.StatusInternalServerError)
			log.Error("Failed to format leaderboard", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}

		respondWithSlackMsg(w, slackMsg)
	}
}

// PlayerStatsCommandHandler returns a handler for the /player-stats Slack command.
func (s *Server) PlayerStatsCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		playerName := r.FormValue("text")
		if playerName == "" {
			http.Error(w, "Player name is required.", http.StatusBadRequest)
			return
		}

		log.Info("Received player stats command", "player", playerName)

		var msg any
		profile, err := s.Store.GetProfileByName(playerName)
		if err != nil {
			log.Warn("Could not find player", "player", playerName, "error", err)
			msg, err = s.Notifier.FormatPlayerNotFoundResponse(playerName)
		} else {
			var rows []stats.ResultRow
			rows, err = s.Store.ResultRowsForPlayer(profile.ID)
			if err != nil {
				http.Error(w, "Failed to get results", http.StatusInternalServerError)
				log.Error("Failed to get result rows from store", "error", err, "playerID", profile.ID)
				return
			}

			record := stats.PlayerRecord{PlayerID: profile.ID, PlayerName: profile.DisplayName}
			for _, candidate := range stats.OverallRecords(rows) {
				if candidate.PlayerID == profile.ID {
					record = candidate
					break
				}
			}
			breakdown := stats.GameTypeBreakdown(rows, profile.ID)
			msg, err = s.Notifier.FormatPlayerStatsResponse(&record, breakdown, playerName)
		}

		if err != nil {
			http.Error(w, "Failed to format player stats", http.StatusInternalServerError)
			log.Error("Failed to format player stats", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}
		respondWithSlackMsg(w, slackMsg)
	}
}
