package clv

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vidinfra/clv/internal/types"
)

// CustomerLifetimeValue is the persisted per-user CLV summary: the raw
// period spend plus the five-point percentile vector describing where that
// spend sits relative to peers sharing similar subscription characteristics.
// One row per user; a rerun overwrites the previous row in place.
type CustomerLifetimeValue struct {
	UserID int64 `db:"user_id" json:"user_id"`

	// PeriodStart and PeriodEnd delimit the analysis period of the run
	// that produced this row
	PeriodStart time.Time `db:"period_start" json:"period_start"`
	PeriodEnd   time.Time `db:"period_end" json:"period_end"`

	// PeriodAmount is the user's raw spend over the period
	PeriodAmount decimal.Decimal `db:"period_amount" json:"period_amount"`

	Percentile0Amount   decimal.Decimal `db:"percentile_0_amount" json:"percentile_0_amount"`
	Percentile25Amount  decimal.Decimal `db:"percentile_25_amount" json:"percentile_25_amount"`
	Percentile50Amount  decimal.Decimal `db:"percentile_50_amount" json:"percentile_50_amount"`
	Percentile75Amount  decimal.Decimal `db:"percentile_75_amount" json:"percentile_75_amount"`
	Percentile100Amount decimal.Decimal `db:"percentile_100_amount" json:"percentile_100_amount"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Bucket classifies the row's period spend against its own percentile
// vector. Buckets below the top are half-open; the top bucket is closed.
// ok is false when the spend falls outside [p0, p100], which can only
// happen on a row written by a different period than the percentiles.
func (c *CustomerLifetimeValue) Bucket() (bucket types.CLVBucket, ok bool) {
	switch {
	case c.PeriodAmount.GreaterThanOrEqual(c.Percentile0Amount) && c.PeriodAmount.LessThan(c.Percentile25Amount):
		return types.CLVBucket25, true
	case c.PeriodAmount.GreaterThanOrEqual(c.Percentile25Amount) && c.PeriodAmount.LessThan(c.Percentile50Amount):
		return types.CLVBucket50, true
	case c.PeriodAmount.GreaterThanOrEqual(c.Percentile50Amount) && c.PeriodAmount.LessThan(c.Percentile75Amount):
		return types.CLVBucket75, true
	case c.PeriodAmount.GreaterThanOrEqual(c.Percentile75Amount) && c.PeriodAmount.LessThanOrEqual(c.Percentile100Amount):
		return types.CLVBucket100, true
	}
	return "", false
}

// InBucket reports whether the row matches any of the given buckets.
func (c *CustomerLifetimeValue) InBucket(buckets []types.CLVBucket) bool {
	bucket, ok := c.Bucket()
	if !ok {
		return false
	}
	for _, b := range buckets {
		if b == bucket {
			return true
		}
	}
	return false
}
