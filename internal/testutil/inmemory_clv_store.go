package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vidinfra/clv/internal/domain/clv"
	ierr "github.com/vidinfra/clv/internal/errors"
	"github.com/vidinfra/clv/internal/types"
)

// InMemoryCLVStore implements clv.Repository
type InMemoryCLVStore struct {
	mu   sync.RWMutex
	rows map[int64]*clv.CustomerLifetimeValue
}

func NewInMemoryCLVStore() *InMemoryCLVStore {
	return &InMemoryCLVStore{rows: make(map[int64]*clv.CustomerLifetimeValue)}
}

// Clear resets all stored data
func (m *InMemoryCLVStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = make(map[int64]*clv.CustomerLifetimeValue)
}

// Count returns the number of stored summary rows
func (m *InMemoryCLVStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}

func (m *InMemoryCLVStore) Upsert(_ context.Context, value *clv.CustomerLifetimeValue) error {
	if value == nil {
		return ierr.NewError("customer lifetime value cannot be nil").
			Mark(ierr.ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	stored := *value
	stored.UpdatedAt = now

	if existing, ok := m.rows[value.UserID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}

	m.rows[value.UserID] = &stored
	return nil
}

func (m *InMemoryCLVStore) GetByUserID(_ context.Context, userID int64) (*clv.CustomerLifetimeValue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row, ok := m.rows[userID]
	if !ok {
		return nil, ierr.NewErrorf("customer lifetime value not found for user %d", userID).
			Mark(ierr.ErrNotFound)
	}
	copied := *row
	return &copied, nil
}

func (m *InMemoryCLVStore) ListUserIDsByBuckets(_ context.Context, buckets []types.CLVBucket) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var userIDs []int64
	for userID, row := range m.rows {
		if row.InBucket(buckets) {
			userIDs = append(userIDs, userID)
		}
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })
	return userIDs, nil
}
