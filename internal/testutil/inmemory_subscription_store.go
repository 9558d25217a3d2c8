package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/vidinfra/clv/internal/domain/subscription"
	"github.com/vidinfra/clv/internal/types"
)

// InMemorySubscriptionStore implements subscription.Repository over a
// plain fact slice. Facts are returned in (user id, start time, insertion
// order) order, matching the deterministic fetch order of the SQL
// implementation.
type InMemorySubscriptionStore struct {
	mu    sync.RWMutex
	facts []*subscription.Fact

	// extraEligible simulates users returned by the selector whose facts
	// disappear before the fact query runs
	extraEligible []int64
}

func NewInMemorySubscriptionStore() *InMemorySubscriptionStore {
	return &InMemorySubscriptionStore{}
}

// Clear resets all stored data
func (m *InMemorySubscriptionStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.facts = nil
	m.extraEligible = nil
}

// AddEligibleUserID registers a user id the selector will return even
// though no facts exist for it
func (m *InMemorySubscriptionStore) AddEligibleUserID(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.extraEligible = append(m.extraEligible, userID)
}

// AddFact stores one qualifying subscription fact
func (m *InMemorySubscriptionStore) AddFact(fact *subscription.Fact) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.facts = append(m.facts, fact)
}

func (m *InMemorySubscriptionStore) EligibleUserIDs(_ context.Context, period types.AnalysisPeriod) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[int64]struct{})
	var userIDs []int64
	for _, fact := range m.facts {
		if !period.Overlaps(fact.StartTime, fact.EndTime) {
			continue
		}
		if _, ok := seen[fact.UserID]; ok {
			continue
		}
		seen[fact.UserID] = struct{}{}
		userIDs = append(userIDs, fact.UserID)
	}
	for _, id := range m.extraEligible {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			userIDs = append(userIDs, id)
		}
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })
	return userIDs, nil
}

func (m *InMemorySubscriptionStore) ListFacts(_ context.Context, userIDs []int64, period types.AnalysisPeriod) ([]*subscription.Fact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wanted := make(map[int64]struct{}, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = struct{}{}
	}

	var facts []*subscription.Fact
	for _, fact := range m.facts {
		if _, ok := wanted[fact.UserID]; !ok {
			continue
		}
		if !period.Overlaps(fact.StartTime, fact.EndTime) {
			continue
		}
		facts = append(facts, fact)
	}

	sort.SliceStable(facts, func(i, j int) bool {
		if facts[i].UserID != facts[j].UserID {
			return facts[i].UserID < facts[j].UserID
		}
		return facts[i].StartTime.Before(facts[j].StartTime)
	})
	return facts, nil
}
