package clock

import (
	"time"
)

const layout = "2006-01-02T15:04:05Z"

// Clock is the time source for anything that stamps or expires records.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// System returns the wall clock in UTC.
func System() Clock {
	return systemClock{}
}

// Func adapts a function to the Clock interface.
type Func func() time.Time

func (f Func) Now() time.Time {
	return f()
}

func Now() string {
	return time.Now().UTC().Format(layout)
}

// Format renders t the way API responses carry timestamps
func Format(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
