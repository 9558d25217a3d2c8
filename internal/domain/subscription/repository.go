package subscription

import (
	"context"

	"github.com/vidinfra/clv/internal/types"
)

// Repository exposes the read-only subscription queries the compute
// pipeline needs. The backing store owns retry policy; the pipeline
// performs none.
type Repository interface {
	// EligibleUserIDs returns the distinct set of user ids with at least
	// one paid subscription whose interval overlaps the period.
	EligibleUserIDs(ctx context.Context, period types.AnalysisPeriod) ([]int64, error)

	// ListFacts returns all qualifying subscription facts for exactly the
	// given user ids, restricted to subscriptions overlapping the period.
	// Rows are ordered deterministically (user id, start time, row id) so
	// reruns fold facts in the same order.
	ListFacts(ctx context.Context, userIDs []int64, period types.AnalysisPeriod) ([]*Fact, error)
}
