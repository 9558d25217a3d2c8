package testutil

import (
	"context"
	"sync"
)

// InMemoryAccessStore implements access.Repository over a fixed map of
// day counts per user.
type InMemoryAccessStore struct {
	mu   sync.RWMutex
	days map[int64]int64
}

func NewInMemoryAccessStore() *InMemoryAccessStore {
	return &InMemoryAccessStore{days: make(map[int64]int64)}
}

// Clear resets all stored data
func (m *InMemoryAccessStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.days = make(map[int64]int64)
}

// SetLastAccessDays stores the day count since the user's most recent
// access-log entry
func (m *InMemoryAccessStore) SetLastAccessDays(userID, days int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.days[userID] = days
}

func (m *InMemoryAccessStore) LastAccessDays(_ context.Context, userIDs []int64) (map[int64]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[int64]int64)
	for _, id := range userIDs {
		if days, ok := m.days[id]; ok {
			result[id] = days
		}
	}
	return result, nil
}
