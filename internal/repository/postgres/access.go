package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/vidinfra/clv/internal/domain/access"
	ierr "github.com/vidinfra/clv/internal/errors"
	"github.com/vidinfra/clv/internal/logger"
	"github.com/vidinfra/clv/internal/postgres"
)

type accessRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewAccessRepository(db *postgres.DB, logger *logger.Logger) access.Repository {
	return &accessRepository{db: db, logger: logger}
}

const lastAccessDaysQuery = `
SELECT user_id, CURRENT_DATE - MAX(last_accessed_at)::date AS last_access_date_in_days
FROM user_source_accesses
WHERE user_id IN (?)
GROUP BY user_id`

func (r *accessRepository) LastAccessDays(ctx context.Context, userIDs []int64) (map[int64]int64, error) {
	if len(userIDs) == 0 {
		return map[int64]int64{}, nil
	}

	query, args, err := sqlx.In(lastAccessDaysQuery, userIDs)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to expand user id list in access query").
			Mark(ierr.ErrDatabase)
	}

	q := r.db.GetQuerier(ctx)
	query = q.Rebind(query)

	var rows []struct {
		UserID               int64 `db:"user_id"`
		LastAccessDateInDays int64 `db:"last_access_date_in_days"`
	}
	if err := q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to fetch last access recency for chunk").
			Mark(ierr.ErrDatabase)
	}

	result := make(map[int64]int64, len(rows))
	for _, row := range rows {
		result[row.UserID] = row.LastAccessDateInDays
	}
	return result, nil
}
