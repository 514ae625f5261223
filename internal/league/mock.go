package league

import (
	"sync"

	"github.com/rochesterdegens/dartboard/internal/stats"
)

// MockStore is a mock implementation of the LeagueStore interface for
// testing. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	UpsertProfileFunc               func(profile Profile) error
	GetProfileFunc                  func(playerID string) (*Profile, error)
	GetProfileByNameFunc            func(playerName string) (*Profile, error)
	ListProfilesFunc                func() ([]Profile, error)
	DeleteAccountFunc               func(playerID string) error
	RecordMatchFunc                 func(match *Match) error
	GetMatchFunc                    func(matchID string) (*Match, error)
	ListMatchesFunc                 func() ([]*Match, error)
	DeleteMatchFunc                 func(matchID string)
	GetMatchesForProcessingFunc     func() ([]*Match, error)
	UpdateProcessingStatusFunc      func(matchID string, status ProcessingStatus) error
	UpdateNotificationTimestampFunc func(matchID string) error
	ClearFunc                       func()
	ResultRowsFunc                  func() ([]stats.ResultRow, error)
	ResultRowsForPlayerFunc         func(playerID string) ([]stats.ResultRow, error)

	// Call records
	UpsertProfileCalls          []Profile
	DeleteAccountCalls          []string
	RecordMatchCalls            []*Match
	DeleteMatchCalls            []string
	GetProfileByNameCalls       []string
	ResultRowsForPlayerCalls    []string
	UpdateProcessingStatusCalls []struct {
		MatchID string
		Status  ProcessingStatus
	}
	UpdateNotificationTimestampCalls []string
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertProfileCalls = nil
	m.DeleteAccountCalls = nil
	m.RecordMatchCalls = nil
	m.DeleteMatchCalls = nil
	m.GetProfileByNameCalls = nil
	m.ResultRowsForPlayerCalls = nil
	m.UpdateProcessingStatusCalls = nil
	m.UpdateNotificationTimestampCalls = nil
}

func (m *MockStore) UpsertProfile(profile Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertProfileCalls = append(m.UpsertProfileCalls, profile)
	if m.UpsertProfileFunc != nil {
		return m.UpsertProfileFunc(profile)
	}
	return nil
}

func (m *MockStore) GetProfile(playerID string) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(playerID)
	}
	return nil, nil
}

func (m *MockStore) GetProfileByName(playerName string) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetProfileByNameCalls = append(m.GetProfileByNameCalls, playerName)
	if m.GetProfileByNameFunc != nil {
		return m.GetProfileByNameFunc(playerName)
	}
	return nil, nil
}

func (m *MockStore) ListProfiles() ([]Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListProfilesFunc != nil {
		return m.ListProfilesFunc()
	}
	return nil, nil
}

func (m *MockStore) DeleteAccount(playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteAccountCalls = append(m.DeleteAccountCalls, playerID)
	if m.DeleteAccountFunc != nil {
		return m.DeleteAccountFunc(playerID)
	}
	return nil
}

func (m *MockStore) RecordMatch(match *Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordMatchCalls = append(m.RecordMatchCalls, match)
	if m.RecordMatchFunc != nil {
		return m.RecordMatchFunc(match)
	}
	return nil
}

func (m *MockStore) GetMatch(matchID string) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(matchID)
	}
	return nil, nil
}

func (m *MockStore) ListMatches() ([]*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListMatchesFunc != nil {
		return m.ListMatchesFunc()
	}
	return nil, nil
}

func (m *MockStore) DeleteMatch(matchID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteMatchCalls = append(m.DeleteMatchCalls, matchID)
	if m.DeleteMatchFunc != nil {
		m.DeleteMatchFunc(matchID)
	}
}

func (m *MockStore) GetMatchesForProcessing() ([]*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchesForProcessingFunc != nil {
		return m.GetMatchesForProcessingFunc()
	}
	return nil, nil
}

func (m *MockStore) UpdateProcessingStatus(matchID string, status ProcessingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateProcessingStatusCalls = append(m.UpdateProcessingStatusCalls, struct {
		MatchID string
		Status  ProcessingStatus
	}{matchID, status})
	if m.UpdateProcessingStatusFunc != nil {
		return m.UpdateProcessingStatusFunc(matchID, status)
	}
	return nil
}

func (m *MockStore) UpdateNotificationTimestamp(matchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateNotificationTimestampCalls = append(m.UpdateNotificationTimestampCalls, matchID)
	if m.UpdateNotificationTimestampFunc != nil {
		return m.UpdateNotificationTimestampFunc(matchID)
	}
	return nil
}

func (m *MockStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearFunc != nil {
		m.ClearFunc()
	}
}

func (m *MockStore) ResultRows() ([]stats.ResultRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ResultRowsFunc != nil {
		return m.ResultRowsFunc()
	}
	return nil, nil
}

func (m *MockStore) ResultRowsForPlayer(playerID string) ([]stats.ResultRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResultRowsForPlayerCalls = append(m.ResultRowsForPlayerCalls, playerID)
	if m.ResultRowsForPlayerFunc != nil {
		return m.ResultRowsForPlayerFunc(playerID)
	}
	return nil, nil
}
