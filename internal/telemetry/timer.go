package telemetry

import "time"

// PollTimer fires once its interval has strictly elapsed since it last fired.
type PollTimer struct {
	last     time.Time
	interval time.Duration
}

// NewPollTimer returns a timer that last fired at last.
func NewPollTimer(last time.Time, interval time.Duration) PollTimer {
	return PollTimer{last: last, interval: interval}
}

// Due reports whether now is more than one interval past the last firing.
func (t PollTimer) Due(now time.Time) bool {
	return now.Sub(t.last) > t.interval
}

// Fire resets the timer to now when it is due. Missed intervals are not
// replayed: a long gap still yields a single firing.
func (t *PollTimer) Fire(now time.Time) bool {
	if !t.Due(now) {
		return false
	}
	t.last = now
	return true
}

func (t PollTimer) Interval() time.Duration { return t.interval }
