package access

import "context"

// Repository exposes the access-log recency query. The compute pipeline
// merges the result into accumulators that already exist; users present
// here but without a qualifying subscription are ignored.
type Repository interface {
	// LastAccessDays returns, per user id, the day count since the most
	// recent access-log entry. Users with no access-log rows are absent
	// from the result.
	LastAccessDays(ctx context.Context, userIDs []int64) (map[int64]int64, error)
}
