package service

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vidinfra/clv/internal/domain/subscription"
	"github.com/vidinfra/clv/internal/types"
)

// decisionCandidate tracks the running weight of one candidate value of a
// decision attribute while facts are being folded.
type decisionCandidate struct {
	value         string
	partialAmount decimal.Decimal
	startTime     time.Time
}

// candidateSet keeps candidates in insertion order alongside a lookup map,
// so the final tie-break does not depend on map iteration order.
type candidateSet struct {
	byValue map[string]*decisionCandidate
	ordered []*decisionCandidate
}

func newCandidateSet() *candidateSet {
	return &candidateSet{byValue: make(map[string]*decisionCandidate)}
}

func (s *candidateSet) fold(value string, partialAmount decimal.Decimal, startTime time.Time) {
	candidate, ok := s.byValue[value]
	if !ok {
		candidate = &decisionCandidate{value: value, partialAmount: decimal.Zero}
		s.byValue[value] = candidate
		s.ordered = append(s.ordered, candidate)
	}

	candidate.partialAmount = candidate.partialAmount.Add(partialAmount)
	if startTime.After(candidate.startTime) {
		candidate.startTime = startTime
	}
}

// resolve picks the candidate with the greatest partial amount; ties are
// broken by the later tracked start time, and a full tie goes to the
// candidate inserted last.
func (s *candidateSet) resolve() string {
	var best *decisionCandidate
	for _, candidate := range s.ordered {
		if best == nil {
			best = candidate
			continue
		}
		cmp := candidate.partialAmount.Cmp(best.partialAmount)
		if cmp > 0 ||
			(cmp == 0 && !candidate.startTime.Before(best.startTime)) {
			best = candidate
		}
	}
	if best == nil {
		return ""
	}
	return best.value
}

// accumulator is the per-user working record of one compute run. It is
// created lazily on the user's first matching fact, owned exclusively by
// the chunked aggregator until finalized, and never survives the run.
type accumulator struct {
	userID int64

	periodPaidSubCount int64
	periodAmount       decimal.Decimal
	partialAmount      decimal.Decimal
	periodActiveDays   int64

	daysSinceFirstPaidSub    int64
	hasDaysSinceFirstPaidSub bool

	lastSignInDays       int64
	createdAtInDays      int64
	lastAccessDateInDays int64

	// decide is transient scratch space; it is discarded once the single
	// winning value per attribute is chosen at the chunk boundary.
	decide  map[types.DecisionAttribute]*candidateSet
	decided map[types.DecisionAttribute]string

	// bins holds the octile bin index per binned attribute, assigned after
	// all chunks are aggregated.
	bins map[types.BinnedAttribute]int
}

func newAccumulator(userID int64) *accumulator {
	decide := make(map[types.DecisionAttribute]*candidateSet, len(types.DecisionAttributes()))
	for _, attr := range types.DecisionAttributes() {
		decide[attr] = newCandidateSet()
	}
	return &accumulator{
		userID:        userID,
		periodAmount:  decimal.Zero,
		partialAmount: decimal.Zero,
		decide:        decide,
	}
}

// fold merges one subscription fact into the accumulator. Overlap day
// counts are intentionally not clamped at zero; a subscription with an
// inverted interval contributes negatively, matching the stabilized
// production behavior.
func (a *accumulator) fold(fact *subscription.Fact, period types.AnalysisPeriod) {
	a.periodPaidSubCount++
	a.periodAmount = a.periodAmount.Add(fact.Amount)

	// last writer wins; fetch order is deterministic per run
	a.lastSignInDays = fact.LastSignInDays
	a.createdAtInDays = fact.CreatedAtInDays

	if fact.Amount.IsPositive() {
		days := types.DaysBetween(fact.StartTime, period.End)
		if !a.hasDaysSinceFirstPaidSub || days < a.daysSinceFirstPaidSub {
			a.daysSinceFirstPaidSub = days
			a.hasDaysSinceFirstPaidSub = true
		}
	}

	overlapStart := period.ClampToStart(fact.StartTime)
	overlapEnd := period.ClampToEnd(fact.EndTime)
	overlapDays := types.DaysBetween(overlapStart, overlapEnd)
	partialAmount := decimal.NewFromInt(overlapDays).Mul(fact.DailyPrice())

	a.periodActiveDays += overlapDays
	a.partialAmount = a.partialAmount.Add(partialAmount)

	for _, attr := range types.DecisionAttributes() {
		a.decide[attr].fold(fact.DecisionValue(attr), partialAmount, fact.StartTime)
	}
}

// resolveDecisions picks the dominant value per decision attribute and
// discards the candidate scratch space.
func (a *accumulator) resolveDecisions() {
	if a.decide == nil {
		return
	}
	a.decided = make(map[types.DecisionAttribute]string, len(a.decide))
	for _, attr := range types.DecisionAttributes() {
		a.decided[attr] = a.decide[attr].resolve()
	}
	a.decide = nil
}

// binnedValue returns the raw value of a binned attribute prior to octile
// binning.
func (a *accumulator) binnedValue(attr types.BinnedAttribute) float64 {
	switch attr {
	case types.BinnedPeriodPaidSubCount:
		return float64(a.periodPaidSubCount)
	case types.BinnedPeriodAmount:
		return a.periodAmount.InexactFloat64()
	case types.BinnedPeriodActiveDays:
		return float64(a.periodActiveDays)
	case types.BinnedDaysSinceFirstPaidSub:
		return float64(a.daysSinceFirstPaidSub)
	case types.BinnedPartialAmount:
		return a.partialAmount.InexactFloat64()
	case types.BinnedLastSignInDays:
		return float64(a.lastSignInDays)
	case types.BinnedCreatedAtInDays:
		return float64(a.createdAtInDays)
	case types.BinnedLastAccessDateInDays:
		return float64(a.lastAccessDateInDays)
	}
	return 0
}

// groupKeys returns every (attribute, value) pair the user contributes to
// the group quantile table: the six resolved decision values plus the eight
// octile bin indexes. Must only be called after binning.
func (a *accumulator) groupKeys() []types.GroupKey {
	keys := make([]types.GroupKey, 0, len(a.decided)+len(a.bins))
	for _, attr := range types.DecisionAttributes() {
		keys = append(keys, types.GroupKey{
			Attribute: string(attr),
			Value:     a.decided[attr],
		})
	}
	for _, attr := range types.BinnedAttributes() {
		keys = append(keys, types.GroupKey{
			Attribute: attr.GroupKeyAttribute(),
			Value:     strconv.Itoa(a.bins[attr]),
		})
	}
	return keys
}
