package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/vidinfra/clv/internal/domain/clv"
	ierr "github.com/vidinfra/clv/internal/errors"
	"github.com/vidinfra/clv/internal/logger"
	"github.com/vidinfra/clv/internal/postgres"
	"github.com/vidinfra/clv/internal/types"
)

type clvRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewCLVRepository(db *postgres.DB, logger *logger.Logger) clv.Repository {
	return &clvRepository{db: db, logger: logger}
}

// upsertQuery writes one summary row per user. created_at is only set on
// the initial insert; the conflict branch leaves it untouched.
const upsertQuery = `
INSERT INTO customer_lifetime_values
    (user_id, period_start, period_end, period_amount,
     percentile_0_amount, percentile_25_amount, percentile_50_amount,
     percentile_75_amount, percentile_100_amount, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
ON CONFLICT (user_id) DO UPDATE SET
    period_start = EXCLUDED.period_start,
    period_end = EXCLUDED.period_end,
    period_amount = EXCLUDED.period_amount,
    percentile_0_amount = EXCLUDED.percentile_0_amount,
    percentile_25_amount = EXCLUDED.percentile_25_amount,
    percentile_50_amount = EXCLUDED.percentile_50_amount,
    percentile_75_amount = EXCLUDED.percentile_75_amount,
    percentile_100_amount = EXCLUDED.percentile_100_amount,
    updated_at = NOW()`

func (r *clvRepository) Upsert(ctx context.Context, value *clv.CustomerLifetimeValue) error {
	q := r.db.GetQuerier(ctx)
	_, err := q.ExecContext(ctx, upsertQuery,
		value.UserID,
		value.PeriodStart,
		value.PeriodEnd,
		value.PeriodAmount,
		value.Percentile0Amount,
		value.Percentile25Amount,
		value.Percentile50Amount,
		value.Percentile75Amount,
		value.Percentile100Amount,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to upsert customer lifetime value").
			WithReportableDetails(map[string]any{"user_id": value.UserID}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

const getByUserIDQuery = `
SELECT user_id, period_start, period_end, period_amount,
       percentile_0_amount, percentile_25_amount, percentile_50_amount,
       percentile_75_amount, percentile_100_amount, created_at, updated_at
FROM customer_lifetime_values
WHERE user_id = $1`

func (r *clvRepository) GetByUserID(ctx context.Context, userID int64) (*clv.CustomerLifetimeValue, error) {
	var value clv.CustomerLifetimeValue
	q := r.db.GetQuerier(ctx)
	if err := q.GetContext(ctx, &value, getByUserIDQuery, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewErrorf("customer lifetime value not found for user %d", userID).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to fetch customer lifetime value").
			Mark(ierr.ErrDatabase)
	}
	return &value, nil
}

// bucketConditions maps each bucket to its period-spend range over the
// row's own percentile vector. Buckets below the top are half-open; the
// top bucket includes the maximum.
var bucketConditions = map[types.CLVBucket]string{
	types.CLVBucket25:  "(period_amount >= percentile_0_amount AND period_amount < percentile_25_amount)",
	types.CLVBucket50:  "(period_amount >= percentile_25_amount AND period_amount < percentile_50_amount)",
	types.CLVBucket75:  "(period_amount >= percentile_50_amount AND period_amount < percentile_75_amount)",
	types.CLVBucket100: "(period_amount >= percentile_75_amount AND period_amount <= percentile_100_amount)",
}

func (r *clvRepository) ListUserIDsByBuckets(ctx context.Context, buckets []types.CLVBucket) ([]int64, error) {
	conditions := make([]string, 0, len(buckets))
	for _, bucket := range buckets {
		condition, ok := bucketConditions[bucket]
		if !ok {
			return nil, ierr.NewErrorf("unknown clv bucket %q", bucket).
				Mark(ierr.ErrValidation)
		}
		conditions = append(conditions, condition)
	}
	if len(conditions) == 0 {
		return nil, nil
	}

	query := "SELECT user_id FROM customer_lifetime_values WHERE " + strings.Join(conditions, " OR ")

	var userIDs []int64
	q := r.db.GetQuerier(ctx)
	if err := q.SelectContext(ctx, &userIDs, query); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list users by clv bucket").
			Mark(ierr.ErrDatabase)
	}
	return userIDs, nil
}
