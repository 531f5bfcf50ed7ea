package valueobject

import (
	"fmt"
	"time"
)

// PeriodShortcut names a predefined reporting window
type PeriodShortcut string

const (
	PeriodToday   PeriodShortcut = "today"
	PeriodLast7   PeriodShortcut = "last_7_days"
	PeriodLast30  PeriodShortcut = "last_30_days"
	PeriodAllTime PeriodShortcut = "all_time"
	PeriodCustom  PeriodShortcut = "custom"
)

// Period is a half-open time window [Start, End) used to bound ledger
// aggregation and reporting. The zero Period means all-time (no filter).
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod creates a custom period. End must not precede Start.
func NewPeriod(start, end time.Time) (Period, error) {
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return Period{}, fmt.Errorf("period end %s precedes start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return Period{Start: start, End: end}, nil
}

// AllTime returns the unbounded period
func AllTime() Period {
	return Period{}
}

// Today returns the period covering the current calendar day
func Today(now time.Time) Period {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return Period{Start: start, End: start.AddDate(0, 0, 1)}
}

// LastDays returns the period covering the last n calendar days including today
func LastDays(now time.Time, n int) Period {
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return Period{Start: end.AddDate(0, 0, -n), End: end}
}

// FromShortcut resolves a named shortcut to a concrete period
func FromShortcut(shortcut PeriodShortcut, now time.Time) (Period, error) {
	switch shortcut {
	case PeriodToday:
		return Today(now), nil
	case PeriodLast7:
		return LastDays(now, 7), nil
	case PeriodLast30:
		return LastDays(now, 30), nil
	case PeriodAllTime, "":
		return AllTime(), nil
	default:
		return Period{}, fmt.Errorf("unknown period shortcut %q", shortcut)
	}
}

// IsAllTime returns true when the period applies no date filter
func (p Period) IsAllTime() bool {
	return p.Start.IsZero() && p.End.IsZero()
}

// Contains reports whether t falls within the period
func (p Period) Contains(t time.Time) bool {
	if !p.Start.IsZero() && t.Before(p.Start) {
		return false
	}
	if !p.End.IsZero() && !t.Before(p.End) {
		return false
	}
	return true
}
