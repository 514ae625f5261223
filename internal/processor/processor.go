package processor

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/rochesterdegens/dartboard/internal/league"
	"github.com/rochesterdegens/dartboard/internal/metrics"
	"github.com/rochesterdegens/dartboard/internal/pubsub"
)

// New creates a new Processor.
func New(store Store, notifier Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient) *Processor {
	return &Processor{
		store:    store,
		pubsub:   pubsub,
		notifier: notifier,
		metrics:  metrics,
	}
}

// ProcessMatches fetches matches that need processing and advances them through the state machine.
func (p *Processor) ProcessMatches(dryRun bool) {
	log.Info("Starting match processing...")
	matches, err := p.store.GetMatchesForProcessing()
	if err != nil {
		log.Error("Failed to get matches for processing", "error", err)
		return
	}

	if len(matches) == 0 {
		log.Info("No matches to process.")
		return
	}

	log.Info("Found matches to process", "count", len(matches))
	for _, match := range matches {
		startTime := time.Now()
		p.processMatch(match, dryRun)
		duration := time.Since(startTime).Seconds()
		p.metrics.ObserveAggregationDuration(duration)
	}
	log.Info("Match processing finished.")
}

func (p *Processor) processMatch(match *league.Match, dryRun bool) {
	log.Info("Processing match", "matchID", match.ID, "initial_status", match.ProcessingStatus)
	for {
		currentState := match.ProcessingStatus
		log.Debug("Evaluating match state", "matchID", match.ID, "status", currentState)

		switch currentState {
		case league.StatusNew:
			timePlayed := time.Unix(match.PlayedAt, 0)
			timeSincePlayed := time.Since(timePlayed)
			// If the game was played more than a day ago we skip the
			// announcement and just advance. This way historic results can
			// be imported without spamming the channel.
			if timeSincePlayed < 24*time.Hour {
				log.Info("Match is new. Publishing result notification event.", "matchID", match.ID)
				if !dryRun {
					p.pubsub.SendMessage(string(pubsub.EventNotifyResult), pubsub.ResultEvent{MatchID: match.ID})
				}
			} else {
				log.Info("Match was played more than a day ago. Skipping result notification.", "matchID", match.ID)
			}
			p.updateStatus(match, league.StatusResultNotified, dryRun)

		case league.StatusResultNotified:
			log.Info("Match result has been notified. Marking match as complete.", "matchID", match.ID)
			p.metrics.IncMatchesProcessed()
			p.updateStatus(match, league.StatusCompleted, dryRun)

		case league.StatusCompleted:
			log.Debug("Match is complete. No further processing needed.", "matchID", match.ID)
			return // End of the line for this match

		default:
			log.Warn("Unknown processing status", "status", currentState, "matchID", match.ID)
			return // Exit if status is unknown
		}

		// If the status hasn't changed, we're done with this match for now.
		if match.ProcessingStatus == currentState {
			log.Debug("Match state did not change. Finished processing for now.", "matchID", match.ID, "status", currentState)
			break
		}
	}
	log.Info("Finished processing match", "matchID", match.ID, "final_status", match.ProcessingStatus)
}

// NotifyResult sends the result announcement for a single match and records
// the notification timestamp. It is invoked by the pubsub push handler.
func (p *Processor) NotifyResult(match *league.Match, dryRun bool) error {
	if err := p.notifier.SendResultNotification(match, dryRun); err != nil {
		return err
	}
	if dryRun {
		return nil
	}
	if err := p.store.UpdateNotificationTimestamp(match.ID); err != nil {
		log.Error("Failed to record notification timestamp", "error", err, "matchID", match.ID)
		return err
	}
	return nil
}

func (p *Processor) updateStatus(match *league.Match, newStatus league.ProcessingStatus, dryRun bool) {
	if dryRun {
		log.Info("[Dry Run] Would update match status", "matchID", match.ID, "from", match.ProcessingStatus, "to", newStatus)
		match.ProcessingStatus = newStatus // Update in-memory for the loop
		return
	}

	err := p.store.UpdateProcessingStatus(match.ID, newStatus)
	if err != nil {
		log.Error("Failed to update processing status", "error", err, "matchID", match.ID)
	} else {
		log.Debug("Successfully updated status", "matchID", match.ID, "from", match.ProcessingStatus, "to", newStatus)
		match.ProcessingStatus = newStatus // Keep the in-memory object in sync
	}
}
