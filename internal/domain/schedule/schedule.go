// Package schedule models a resource's recurring open hours plus
// date-specific overrides, and turns them into bookable slot candidates.
package schedule

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

const DateLayout = "2006-01-02"

var (
	ErrInvalidInterval = errors.New("interval start must be before end")
	ErrInvalidClock    = errors.New("invalid clock time")
)

// ClockMinutes is a clock time expressed as minutes from midnight,
// in the owning resource's local time zone.
type ClockMinutes int

const minutesPerDay = 24 * 60

// ParseClock parses "HH:MM".
func ParseClock(s string) (ClockMinutes, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, ErrInvalidClock
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, ErrInvalidClock
	}
	return ClockMinutes(h*60 + m), nil
}

func (c ClockMinutes) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// At materializes the clock time on the given date in loc.
func (c ClockMinutes) At(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.In(loc).Date()
	return time.Date(y, m, d, int(c)/60, int(c)%60, 0, 0, loc)
}

// Interval is a half-open [Start, End) window within a single day.
type Interval struct {
	Start ClockMinutes
	End   ClockMinutes
}

func NewInterval(start, end ClockMinutes) (Interval, error) {
	if start < 0 || end > minutesPerDay || start >= end {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{Start: start, End: end}, nil
}

// Weekly maps each weekday to its recurring open intervals.
// A weekday with no entry (or an empty list) is closed.
type Weekly map[time.Weekday][]Interval

// Override replaces a single day's recurring hours entirely. Closed takes
// precedence over Intervals.
type Override struct {
	Date      string // DateLayout
	Closed    bool
	Intervals []Interval
}

// Schedule answers "what are the open windows on date D" for one resource.
// Construction validates every stored interval; a garbage schedule is
// rejected here rather than silently accepted at read time.
type Schedule struct {
	weekly    Weekly
	overrides map[string]Override
}

func New(weekly Weekly, overrides []Override) (*Schedule, error) {
	normalized := make(Weekly, len(weekly))
	for day, intervals := range weekly {
		merged, err := Normalize(intervals)
		if err != nil {
			return nil, fmt.Errorf("weekday %s: %w", day, err)
		}
		normalized[day] = merged
	}

	byDate := make(map[string]Override, len(overrides))
	for _, ov := range overrides {
		if _, err := time.Parse(DateLayout, ov.Date); err != nil {
			return nil, fmt.Errorf("override date %q: %w", ov.Date, err)
		}
		if !ov.Closed {
			merged, err := Normalize(ov.Intervals)
			if err != nil {
				return nil, fmt.Errorf("override %s: %w", ov.Date, err)
			}
			ov.Intervals = merged
		}
		byDate[ov.Date] = ov
	}

	return &Schedule{weekly: normalized, overrides: byDate}, nil
}

// OpenIntervalsFor returns the sorted, disjoint open windows on date.
// An override fully replaces the recurring day; nil means closed.
func (s *Schedule) OpenIntervalsFor(date time.Time) []Interval {
	if ov, ok := s.overrides[date.Format(DateLayout)]; ok {
		if ov.Closed {
			return nil
		}
		return ov.Intervals
	}
	return s.weekly[date.Weekday()]
}

// Normalize validates, sorts, and merges touching or overlapping intervals.
func Normalize(intervals []Interval) ([]Interval, error) {
	if len(intervals) == 0 {
		return nil, nil
	}

	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	for _, iv := range sorted {
		if iv.Start < 0 || iv.End > minutesPerDay || iv.Start >= iv.End {
			return nil, ErrInvalidInterval
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	merged := sorted[:1]
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if iv.Start <= last.End {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged, nil
}
