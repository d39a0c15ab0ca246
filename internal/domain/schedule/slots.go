package schedule

import "errors"

// DefaultStepMinutes is the slot grid used when the caller does not ask
// for a specific granularity.
const DefaultStepMinutes = 30

var (
	ErrInvalidStep     = errors.New("step must be positive")
	ErrInvalidDuration = errors.New("duration must be positive")
)

// Slots generates candidate start times ("HH:MM") for a service of
// durationMin within the given open intervals, stepping by stepMin.
// Candidates are emitted in chronological order; a candidate is kept only
// if the whole duration fits inside its interval. A duration that fits
// nowhere yields an empty result, not an error. Past-time filtering is
// deliberately left to callers: this is a pure calendar transform.
func Slots(intervals []Interval, durationMin, stepMin int) ([]string, error) {
	if stepMin <= 0 {
		return nil, ErrInvalidStep
	}
	if durationMin <= 0 {
		return nil, ErrInvalidDuration
	}

	var out []string
	for _, iv := range intervals {
		for start := iv.Start; start+ClockMinutes(durationMin) <= iv.End; start += ClockMinutes(stepMin) {
			out = append(out, start.String())
		}
	}
	return out, nil
}
