package http

import (
	"net/http"

	"github.com/rochesterdegens/dartboard/internal/config"
	"github.com/rochesterdegens/dartboard/internal/league"
	"github.com/rochesterdegens/dartboard/internal/metrics"
	"github.com/rochesterdegens/dartboard/internal/notifier"
	"github.com/rochesterdegens/dartboard/internal/processor"
	"github.com/rochesterdegens/dartboard/internal/pubsub"
)

func NewServer(store league.LeagueStore, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, processor *processor.Processor, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Store:          store,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Processor:      processor,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/clear", Chain(s.ClearStoreHandler(), paramsMiddleware))
	s.Router.Handle("/leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("/averages", Chain(s.AveragesHandler(), paramsMiddleware))
	s.Router.Handle("/players/breakdown", Chain(s.PlayerBreakdownHandler(), paramsMiddleware))
	s.Router.Handle("/players/head-to-head", Chain(s.HeadToHeadHandler(), paramsMiddleware))
	s.Router.Handle("/profiles", Chain(s.ProfilesHandler(), paramsMiddleware))
	s.Router.Handle("/account/delete", Chain(s.DeleteAccountHandler(), paramsMiddleware))
	s.Router.Handle("/matches", Chain(s.MatchesHandler(), paramsMiddleware))
	s.Router.Handle("/process", Chain(s.ProcessMatchesHandler(), paramsMiddleware))
	s.Router.Handle("/notify-result", Chain(s.NotifyResultHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/leaderboard", Chain(s.LeaderboardCommandHandler(), paramsMiddleware, slackVerifyMiddleware(s.Cfg.Slack.SigningSecret)))
	s.Router.Handle("/slack/command/player-stats", Chain(s.PlayerStatsCommandHandler(), paramsMiddleware, slackVerifyMiddleware(s.Cfg.Slack.SigningSecret)))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
