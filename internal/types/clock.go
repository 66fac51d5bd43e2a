package types

import (
	"context"
	"time"
)

// Clock supplies the current instant to services so billing decisions can be
// reproduced in tests.
type Clock interface {
	Now(ctx context.Context) time.Time
}

// SystemClock reads the wall clock in UTC
type SystemClock struct{}

func NewSystemClock() Clock {
	return SystemClock{}
}

func (SystemClock) Now(_ context.Context) time.Time {
	return time.Now().UTC()
}

// FixedClock always returns the same instant
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now(_ context.Context) time.Time {
	return c.At.UTC()
}
