package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysBetween(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int64
	}{
		{
			name: "whole days",
			from: base,
			to:   base.AddDate(0, 0, 10),
			want: 10,
		},
		{
			name: "partial day truncates",
			from: base,
			to:   base.Add(36 * time.Hour),
			want: 1,
		},
		{
			name: "negative interval truncates toward zero",
			from: base,
			to:   base.Add(-36 * time.Hour),
			want: -1,
		},
		{
			name: "same instant",
			from: base,
			to:   base,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.from, tt.to))
		})
	}
}

func TestAnalysisPeriodClamp(t *testing.T) {
	period := AnalysisPeriod{
		Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	before := period.Start.AddDate(0, -1, 0)
	inside := period.Start.AddDate(0, 6, 0)
	after := period.End.AddDate(0, 1, 0)

	assert.Equal(t, period.Start, period.ClampToStart(before))
	assert.Equal(t, inside, period.ClampToStart(inside))
	assert.Equal(t, period.End, period.ClampToEnd(after))
	assert.Equal(t, inside, period.ClampToEnd(inside))
}

func TestAnalysisPeriodOverlaps(t *testing.T) {
	period := AnalysisPeriod{
		Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, period.Overlaps(period.Start.AddDate(0, -1, 0), period.Start))
	assert.True(t, period.Overlaps(period.End, period.End.AddDate(0, 1, 0)))
	assert.True(t, period.Overlaps(period.Start.AddDate(0, -1, 0), period.End.AddDate(0, 1, 0)))
	assert.False(t, period.Overlaps(period.End.AddDate(0, 0, 1), period.End.AddDate(0, 1, 0)))
	assert.False(t, period.Overlaps(period.Start.AddDate(0, -2, 0), period.Start.AddDate(0, 0, -1)))
}

func TestDefaultAnalysisPeriod(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	period := DefaultAnalysisPeriod(now)

	assert.Equal(t, now, period.End)
	assert.Equal(t, int64(365), DaysBetween(period.Start, period.End))
}
