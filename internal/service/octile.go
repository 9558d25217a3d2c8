package service

import (
	"sort"

	"github.com/vidinfra/clv/internal/stats"
	"github.com/vidinfra/clv/internal/types"
)

// octileLadder is the 9-point table of cut values at percentiles
// {0, 12.5, 25, 37.5, 50, 62.5, 75, 87.5, 100} for one binned attribute,
// computed once from the full population's distinct observed values.
type octileLadder [9]float64

// newOctileLadder computes the ladder from the set of distinct values an
// attribute took across all users. Deduplication changes the percentile
// computation's effective sample on purpose: the ladder describes the
// spread of observed values, not of users.
func newOctileLadder(valueSet map[float64]struct{}) octileLadder {
	values := make([]float64, 0, len(valueSet))
	for v := range valueSet {
		values = append(values, v)
	}
	sort.Float64s(values)

	var ladder octileLadder
	for i, p := range types.OctilePercentiles() {
		ladder[i] = stats.PercentileSorted(values, p)
	}
	return ladder
}

// bin maps a raw value to its octile bin index using strict less-than
// against the 8 inner boundaries:
//
//	bin 0 = [0, 12.5)    bin 4 = [50, 62.5)
//	bin 1 = [12.5, 25)   bin 5 = [62.5, 75)
//	bin 2 = [25, 37.5)   bin 6 = [75, 87.5)
//	bin 3 = [37.5, 50)   bin 7 = [87.5, 100]
func (l octileLadder) bin(value float64) int {
	for i := 1; i < len(l)-1; i++ {
		if value < l[i] {
			return i - 1
		}
	}
	return types.OctileBinCount - 1
}

// octileBinner collects the distinct observed values per binned attribute
// while chunks are aggregated, then rewrites each user's raw values as bin
// indexes 0-7 once the full population has been seen.
type octileBinner struct {
	valueSets map[types.BinnedAttribute]map[float64]struct{}
	ladders   map[types.BinnedAttribute]octileLadder
}

func newOctileBinner() *octileBinner {
	valueSets := make(map[types.BinnedAttribute]map[float64]struct{}, len(types.BinnedAttributes()))
	for _, attr := range types.BinnedAttributes() {
		valueSets[attr] = make(map[float64]struct{})
	}
	return &octileBinner{valueSets: valueSets}
}

// observe records the user's current raw values into the distinct value
// sets. Called once per user after the user's chunk is fully aggregated
// and enriched.
func (b *octileBinner) observe(acc *accumulator) {
	for _, attr := range types.BinnedAttributes() {
		b.valueSets[attr][acc.binnedValue(attr)] = struct{}{}
	}
}

// computeLadders finalizes the 9-point ladder per attribute and releases
// the value sets.
func (b *octileBinner) computeLadders() {
	b.ladders = make(map[types.BinnedAttribute]octileLadder, len(b.valueSets))
	for attr, valueSet := range b.valueSets {
		b.ladders[attr] = newOctileLadder(valueSet)
	}
	b.valueSets = nil
}

// assignBins replaces the accumulator's raw attribute values with bin
// indexes. period_amount keeps its raw value as well; it is the spend
// metric the group quantiles are computed over.
func (b *octileBinner) assignBins(acc *accumulator) {
	acc.bins = make(map[types.BinnedAttribute]int, len(b.ladders))
	for _, attr := range types.BinnedAttributes() {
		acc.bins[attr] = b.ladders[attr].bin(acc.binnedValue(attr))
	}
}
