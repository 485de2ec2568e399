package util

import "time"

// Clock supplies wall-clock time so the order store's timestamps can be
// pinned in tests.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }
