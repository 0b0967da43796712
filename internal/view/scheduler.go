package view

import "time"

// Timer is a pending scheduled call.
type Timer interface {
	// Stop prevents the call from running and reports whether it did so.
	Stop() bool
}

// Scheduler runs f once after d has elapsed.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type wallClock struct{}

// WallClock schedules on real time.
func WallClock() Scheduler { return wallClock{} }

func (wallClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
