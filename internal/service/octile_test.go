package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/vidinfra/clv/internal/types"
)

func valueSetOf(values ...float64) map[float64]struct{} {
	set := make(map[float64]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func TestOctileLadderIsMonotonic(t *testing.T) {
	ladder := newOctileLadder(valueSetOf(5, 1, 42, 7, 100, 3, 19, 64, 8))

	for i := 1; i < len(ladder); i++ {
		assert.LessOrEqual(t, ladder[i-1], ladder[i])
	}
	assert.Equal(t, 1.0, ladder[0])
	assert.Equal(t, 100.0, ladder[8])
}

func TestOctileLadderEightDistinctValues(t *testing.T) {
	// With exactly eight distinct values the interpolated cuts land between
	// consecutive values and every value gets its own bin.
	ladder := newOctileLadder(valueSetOf(0, 10, 20, 30, 40, 50, 60, 70))

	assert.InDelta(t, 8.75, ladder[1], 1e-9)
	assert.InDelta(t, 35, ladder[4], 1e-9)
	assert.InDelta(t, 61.25, ladder[7], 1e-9)

	for i, v := range []float64{0, 10, 20, 30, 40, 50, 60, 70} {
		assert.Equal(t, i, ladder.bin(v), "value %v", v)
	}
}

func TestOctileLadderTwoValues(t *testing.T) {
	ladder := newOctileLadder(valueSetOf(100, 300))

	assert.InDelta(t, 125, ladder[1], 1e-9)
	assert.Equal(t, 0, ladder.bin(100))
	assert.Equal(t, 7, ladder.bin(300))
}

func TestOctileBinBelowMinimumAndAboveMaximum(t *testing.T) {
	ladder := newOctileLadder(valueSetOf(10, 20, 30, 40))

	assert.Equal(t, 0, ladder.bin(-5))
	assert.Equal(t, 7, ladder.bin(1000))
}

func TestOctileDegenerateSingleValue(t *testing.T) {
	// All cuts collapse to the same value; nothing is strictly below any
	// inner boundary, so everything falls through to the top bin.
	ladder := newOctileLadder(valueSetOf(42))

	assert.Equal(t, 7, ladder.bin(42))
	assert.Equal(t, 0, ladder.bin(41))
}

func TestBinnerDeduplicatesObservations(t *testing.T) {
	binner := newOctileBinner()

	// Three users, but only two distinct period_amount values.
	for _, amount := range []int64{100, 100, 300} {
		acc := newAccumulator(1)
		acc.periodAmount = decimal.NewFromInt(amount)
		binner.observe(acc)
	}
	binner.computeLadders()

	ladder := binner.ladders[types.BinnedPeriodAmount]
	assert.Equal(t, 100.0, ladder[0])
	assert.InDelta(t, 125, ladder[1], 1e-9)
	assert.Equal(t, 300.0, ladder[8])
}

func TestBinnerAssignsAllAttributes(t *testing.T) {
	binner := newOctileBinner()

	low := newAccumulator(1)
	low.periodPaidSubCount = 1
	low.periodAmount = decimal.NewFromInt(100)
	low.periodActiveDays = 10

	high := newAccumulator(2)
	high.periodPaidSubCount = 5
	high.periodAmount = decimal.NewFromInt(900)
	high.periodActiveDays = 200

	binner.observe(low)
	binner.observe(high)
	binner.computeLadders()
	binner.assignBins(low)
	binner.assignBins(high)

	assert.Len(t, low.bins, len(types.BinnedAttributes()))
	assert.Equal(t, 0, low.bins[types.BinnedPeriodAmount])
	assert.Equal(t, 7, high.bins[types.BinnedPeriodAmount])
	// attributes where both users share one value collapse to the top bin
	assert.Equal(t, 7, low.bins[types.BinnedLastSignInDays])
	assert.Equal(t, 7, high.bins[types.BinnedLastSignInDays])
}
