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

type Server struct {
	Store          league.LeagueStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Processor      *processor.Processor
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
