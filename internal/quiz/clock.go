package quiz

import "time"

// Timer is a scheduled callback that can be cancelled
type Timer interface {
	Stop() bool
}

// Clock supplies the current time and schedules deferred transitions
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock is the wall clock backed by time.AfterFunc
var SystemClock Clock = systemClock{}
