package notifier

import (
	"sync"

	"github.com/rochesterdegens/dartboard/internal/league"
	"github.com/rochesterdegens/dartboard/internal/stats"
)

// MockNotifier is a mock implementation of the Notifier interface for
// testing. It is safe for concurrent use.
type MockNotifier struct {
	mu sync.Mutex

	// Spies for method calls
	SendResultNotificationFunc    func(match *league.Match, dryRun bool) error
	SendLeaderboardFunc           func(records []stats.PlayerRecord, dryRun bool) error
	SendPlayerStatsFunc           func(record *stats.PlayerRecord, breakdown []stats.CategoryRecord, query string, dryRun bool) error
	SendPlayerNotFoundFunc        func(query string, dryRun bool) error
	FormatLeaderboardResponseFunc func(records []stats.PlayerRecord) (any, error)
	FormatAveragesResponseFunc    func(records []stats.AverageRecord, category string) (any, error)
	FormatPlayerStatsResponseFunc func(record *stats.PlayerRecord, breakdown []stats.CategoryRecord, query string) (any, error)
	FormatPlayerNotFoundFunc      func(query string) (any, error)

	// Call records
	SendResultNotificationCalls []*league.Match
	SendLeaderboardCalls        [][]stats.PlayerRecord
	SendPlayerNotFoundCalls     []string
	SendPlayerStatsCalls        []struct {
		Record *stats.PlayerRecord
		Query  string
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockNotifier {
	return &MockNotifier{}
}

// Reset clears all call records.
func (m *MockNotifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultNotificationCalls = nil
	m.SendLeaderboardCalls = nil
	m.SendPlayerNotFoundCalls = nil
	m.SendPlayerStatsCalls = nil
}

func (m *MockNotifier) SendResultNotification(match *league.Match, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultNotificationCalls = append(m.SendResultNotificationCalls, match)
	if m.SendResultNotificationFunc != nil {
		return m.SendResultNotificationFunc(match, dryRun)
	}
	return nil
}

func (m *MockNotifier) SendLeaderboard(records []stats.PlayerRecord, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, records)
	if m.SendLeaderboardFunc != nil {
		return m.SendLeaderboardFunc(records, dryRun)
	}
	return nil
}

func (m *MockNotifier) SendPlayerStats(record *stats.PlayerRecord, breakdown []stats.CategoryRecord, query string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendPlayerStatsCalls = append(m.SendPlayerStatsCalls, struct {
		Record *stats.PlayerRecord
		Query  string
	}{record, query})
	if m.SendPlayerStatsFunc != nil {
		return m.SendPlayerStatsFunc(record, breakdown, query, dryRun)
	}
	return nil
}

func (m *MockNotifier) SendPlayerNotFound(query string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendPlayerNotFoundCalls = append(m.SendPlayerNotFoundCalls, query)
	if m.SendPlayerNotFoundFunc != nil {
		return m.SendPlayerNotFoundFunc(query, dryRun)
	}
	return nil
}

func (m *MockNotifier) FormatLeaderboardResponse(records []stats.PlayerRecord) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatLeaderboardResponseFunc != nil {
		return m.FormatLeaderboardResponseFunc(records)
	}
	return nil, nil
}

func (m *MockNotifier) FormatAveragesResponse(records []stats.AverageRecord, category string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatAveragesResponseFunc != nil {
		return m.FormatAveragesResponseFunc(records, category)
	}
	return nil, nil
}

func (m *MockNotifier) FormatPlayerStatsResponse(record *stats.PlayerRecord, breakdown []stats.CategoryRecord, query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatPlayerStatsResponseFunc != nil {
		return m.FormatPlayerStatsResponseFunc(record, breakdown, query)
	}
	return nil, nil
}

func (m *MockNotifier) FormatPlayerNotFoundResponse(query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatPlayerNotFoundFunc != nil {
		return m.FormatPlayerNotFoundFunc(query)
	}
	return nil, nil
}
