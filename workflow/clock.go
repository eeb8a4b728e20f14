package workflow

import "time"

// Clock is injected everywhere the engine reads time, so tests pin `now`
// and overdue logic never depends on wall time.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

func NewRealClock() Clock { return realClock{} }

// FixedClock always returns the same instant. Test helper.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time { return c.Instant }
