package main

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

var gameTypes = []string{"501", "301", "Cricket"}

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

// scoreFor produces a plausible per-game score: a 3-dart average for the
// count-up games and marks per round for Cricket.
func scoreFor(gameType string) float64 {
	if gameType == "Cricket" {
		return 1.5 + rand.Float64()*2.5
	}
	return 40 + rand.Float64()*50
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	// Connect directly to the primary database
	dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		log.Fatalf("Failed to open primary database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to primary database: %s", err)
	}

	log.Info("Successfully connected to the primary database.")

	// Create 4 dummy players to use in matches
	dummyPlayers := []struct {
		ID   string
		Name string
	}{
		{ID: "player-1", Name: "Seeder Player A"},
		{ID: "player-2", Name: "Seeder Player B"},
		{ID: "player-3", Name: "Seeder Player C"},
		{ID: "player-4", Name: "Seeder Player D"},
	}

	for _, p := range dummyPlayers {
		_, err := db.Exec("INSERT OR IGNORE INTO profiles (id, display_name) VALUES (?, ?)", p.ID, p.Name)
		if err != nil {
			log.Fatalf("Failed to insert dummy player %s: %s", p.Name, err)
		}
	}
	log.Info("Ensured dummy players exist.")

	const batchSize = 100 // Insert 100 matches at a time
	const numMatches = 10000

	log.Info("Preparing to insert dummy matches...", "total", numMatches, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	matchStrings := make([]string, 0, batchSize)
	matchArgs := make([]interface{}, 0, batchSize*5)
	playerStrings := make([]string, 0, batchSize*2)
	playerArgs := make([]interface{}, 0, batchSize*2*4)

	for i := 0; i < numMatches; i++ {
		matchID := uuid.NewString()
		gameType := gameTypes[rand.Intn(len(gameTypes))]
		playedAt := time.Now().Add(-time.Duration(rand.Intn(365*24)) * time.Hour)

		// Pick two distinct players and a winner between them.
		a := rand.Intn(len(dummyPlayers))
		b := (a + 1 + rand.Intn(len(dummyPlayers)-1)) % len(dummyPlayers)
		winner := a
		if rand.Intn(2) == 0 {
			winner = b
		}

		matchStrings = append(matchStrings, "(?, ?, ?, ?, ?)")
		matchArgs = append(matchArgs,
			matchID,
			gameType,
			playedAt.Unix(),
			dummyPlayers[a].ID,
			"COMPLETED", // seeded history should not trigger notifications
		)

		for _, idx := range []int{a, b} {
			playerStrings = append(playerStrings, "(?, ?, ?, ?)")
			playerArgs = append(playerArgs,
				matchID,
				dummyPlayers[idx].ID,
				scoreFor(gameType),
				idx == winner,
			)
		}

		if (i+1)%batchSize == 0 || (i+1) == numMatches {
			matchStmt := fmt.Sprintf(`
				INSERT INTO matches (id, game_type, played_at, created_by, processing_status)
				VALUES %s;`, strings.Join(matchStrings, ","))
			if _, err := tx.Exec(matchStmt, matchArgs...); err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute match batch insert: %s", err)
			}

			playerStmt := fmt.Sprintf(`
				INSERT INTO match_players (match_id, player_id, score, is_winner)
				VALUES %s;`, strings.Join(playerStrings, ","))
			if _, err := tx.Exec(playerStmt, playerArgs...); err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute player batch insert: %s", err)
			}

			// Reset for the next batch
			matchStrings = make([]string, 0, batchSize)
			matchArgs = make([]interface{}, 0, batchSize*5)
			playerStrings = make([]string, 0, batchSize*2)
			playerArgs = make([]interface{}, 0, batchSize*2*4)
			log.Info("Inserted batch", "completed", i+1, "total", numMatches)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	duration := time.Since(startTime)
	log.Info("Successfully inserted all dummy matches.", "duration", duration)
}
