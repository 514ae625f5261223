package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventNotifyResult EventType = "notify-result"
)

// ResultEvent is the payload published when a match result is ready to be
// announced.
type ResultEvent struct {
	MatchID string `msgpack:"match_id"`
}
