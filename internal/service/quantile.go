package service

import (
	ierr "github.com/vidinfra/clv/internal/errors"
	"github.com/vidinfra/clv/internal/stats"
	"github.com/vidinfra/clv/internal/types"
)

// groupQuantileTable maps every (attribute, value) pair appearing across
// all users to the 5-point quantile summary of the period spend of the
// users sharing that pair. Built once per run, read during synthesis.
type groupQuantileTable struct {
	summaries map[types.GroupKey]stats.QuantileSummary
}

// buildGroupQuantileTable scans every user's group keys and accumulates
// the user's period spend into the matching group, then computes the
// quantile summary per group. Unlike the octile ladders, spend lists are
// not deduplicated: every user's spend counts once.
func buildGroupQuantileTable(accumulators map[int64]*accumulator, order []int64) *groupQuantileTable {
	amounts := make(map[types.GroupKey][]float64)
	for _, userID := range order {
		acc := accumulators[userID]
		spend := acc.periodAmount.InexactFloat64()
		for _, key := range acc.groupKeys() {
			amounts[key] = append(amounts[key], spend)
		}
	}

	summaries := make(map[types.GroupKey]stats.QuantileSummary, len(amounts))
	for key, values := range amounts {
		summaries[key] = stats.Quartiles(values)
	}
	return &groupQuantileTable{summaries: summaries}
}

func (t *groupQuantileTable) size() int {
	return len(t.summaries)
}

// percentileVector is a user's synthesized CLV output: the five averaged
// quantile points of the spend distributions of the groups the user
// belongs to.
type percentileVector struct {
	P0, P25, P50, P75, P100 float64
}

// synthesize looks up the quantile summary for every one of the user's
// attribute values and averages the five quantile points across
// attributes. A lookup miss is a logic defect: every key used here was
// populated from the same accumulators in the same run.
func (t *groupQuantileTable) synthesize(acc *accumulator) (percentileVector, error) {
	keys := acc.groupKeys()

	mins := make([]float64, 0, len(keys))
	q1s := make([]float64, 0, len(keys))
	q2s := make([]float64, 0, len(keys))
	q3s := make([]float64, 0, len(keys))
	maxs := make([]float64, 0, len(keys))

	for _, key := range keys {
		summary, ok := t.summaries[key]
		if !ok {
			return percentileVector{}, ierr.NewErrorf("group quantile summary missing for attribute %q value %q", key.Attribute, key.Value).
				WithHint("The group quantile table does not cover a value it was built from").
				Mark(ierr.ErrInvariant)
		}
		mins = append(mins, summary.Min)
		q1s = append(q1s, summary.Q1)
		q2s = append(q2s, summary.Q2)
		q3s = append(q3s, summary.Q3)
		maxs = append(maxs, summary.Max)
	}

	return percentileVector{
		P0:   stats.Mean(mins),
		P25:  stats.Mean(q1s),
		P50:  stats.Mean(q2s),
		P75:  stats.Mean(q3s),
		P100: stats.Mean(maxs),
	}, nil
}
