package clock

import "time"

// Clock is the source of "now" for lifecycle stamps
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Real returns the wall clock
func Real() Clock {
	return realClock{}
}

// Fixed is a settable clock used by tests and one-shot CLI commands
type Fixed struct {
	T time.Time
}

func (f *Fixed) Now() time.Time { return f.T }

// Today returns the current calendar day at midnight UTC
func Today(c Clock) time.Time {
	return Day(c.Now())
}

// Day truncates t to its calendar day at midnight UTC
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
