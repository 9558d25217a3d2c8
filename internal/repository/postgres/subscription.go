package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/vidinfra/clv/internal/domain/subscription"
	ierr "github.com/vidinfra/clv/internal/errors"
	"github.com/vidinfra/clv/internal/logger"
	"github.com/vidinfra/clv/internal/postgres"
	"github.com/vidinfra/clv/internal/types"
)

type subscriptionRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewSubscriptionRepository(db *postgres.DB, logger *logger.Logger) subscription.Repository {
	return &subscriptionRepository{db: db, logger: logger}
}

const eligibleUserIDsQuery = `
SELECT s.user_id
FROM subscriptions s
WHERE s.is_paid = TRUE
  AND s.start_time <= $1
  AND s.end_time >= $2
GROUP BY s.user_id`

func (r *subscriptionRepository) EligibleUserIDs(ctx context.Context, period types.AnalysisPeriod) ([]int64, error) {
	var userIDs []int64
	q := r.db.GetQuerier(ctx)
	if err := q.SelectContext(ctx, &userIDs, eligibleUserIDsQuery, period.End, period.Start); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list users with paid subscriptions in period").
			Mark(ierr.ErrDatabase)
	}
	return userIDs, nil
}

// listFactsQuery joins each paid subscription with its payment and the
// owning user. Recency day counts are computed at fetch time, matching
// how the summary row will later be interpreted relative to "now".
// The ORDER BY keeps fact fold order deterministic across reruns, which
// pins down the decision resolver's insertion-order tie-break.
const listFactsQuery = `
SELECT s.user_id, s.start_time, s.end_time, s.length, s.subscription_type_id, s.type, s.is_recurrent,
       p.amount, p.payment_gateway_id,
       COALESCE(CURRENT_DATE - u.current_sign_in_at::date, 0) AS last_sign_in_days,
       COALESCE(CURRENT_DATE - u.created_at::date, 0) AS created_at_in_days
FROM subscriptions s
JOIN users u ON u.id = s.user_id
LEFT JOIN payments p ON p.subscription_id = s.id
WHERE s.is_paid = TRUE AND p.id IS NOT NULL
  AND s.start_time <= ? AND s.end_time >= ?
  AND s.user_id IN (?)
ORDER BY s.user_id, s.start_time, s.id`

func (r *subscriptionRepository) ListFacts(ctx context.Context, userIDs []int64, period types.AnalysisPeriod) ([]*subscription.Fact, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(listFactsQuery, period.End, period.Start, userIDs)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to expand user id list in fact query").
			Mark(ierr.ErrDatabase)
	}

	q := r.db.GetQuerier(ctx)
	query = q.Rebind(query)

	var facts []*subscription.Fact
	if err := q.SelectContext(ctx, &facts, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to fetch subscription facts for chunk").
			WithReportableDetails(map[string]any{"chunk_size": len(userIDs)}).
			Mark(ierr.ErrDatabase)
	}
	return facts, nil
}
