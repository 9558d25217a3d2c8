package clv

import (
	"context"

	"github.com/vidinfra/clv/internal/types"
)

// Repository persists CLV summary rows keyed by user id.
type Repository interface {
	// Upsert inserts a new summary row if none exists for the user, else
	// updates all derived fields in place. updated_at is always set;
	// created_at only on insert.
	Upsert(ctx context.Context, value *CustomerLifetimeValue) error

	// GetByUserID returns the summary row for a user, or ErrNotFound.
	GetByUserID(ctx context.Context, userID int64) (*CustomerLifetimeValue, error)

	// ListUserIDsByBuckets returns the ids of users whose period spend
	// falls into any of the given buckets of their own percentile vector.
	ListUserIDsByBuckets(ctx context.Context, buckets []types.CLVBucket) ([]int64, error)
}
