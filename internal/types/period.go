package types

import "time"

// SecondsInDay is the day length used for all day-count arithmetic.
const SecondsInDay = 86400

// AnalysisPeriod is the immutable time window a CLV run is computed over.
// All interval arithmetic (overlap, clamping) is relative to this period.
type AnalysisPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DefaultAnalysisPeriod returns the last 365 days ending at now.
func DefaultAnalysisPeriod(now time.Time) AnalysisPeriod {
	return AnalysisPeriod{
		Start: now.Add(-365 * 24 * time.Hour),
		End:   now,
	}
}

// NewAnalysisPeriod returns the period of the given number of days ending at now.
func NewAnalysisPeriod(now time.Time, days int) AnalysisPeriod {
	return AnalysisPeriod{
		Start: now.Add(-time.Duration(days) * 24 * time.Hour),
		End:   now,
	}
}

// DaysBetween returns the number of whole days from `from` to `to`,
// truncated toward zero. May be negative when `to` precedes `from`.
func DaysBetween(from, to time.Time) int64 {
	return int64(to.Sub(from) / (SecondsInDay * time.Second))
}

// ClampToStart returns the later of t and the period start.
func (p AnalysisPeriod) ClampToStart(t time.Time) time.Time {
	if t.Before(p.Start) {
		return p.Start
	}
	return t
}

// ClampToEnd returns the earlier of t and the period end.
func (p AnalysisPeriod) ClampToEnd(t time.Time) time.Time {
	if t.After(p.End) {
		return p.End
	}
	return t
}

// Overlaps reports whether [start, end] intersects the period.
func (p AnalysisPeriod) Overlaps(start, end time.Time) bool {
	return !start.After(p.End) && !end.Before(p.Start)
}
