// Package clock abstracts "current application time" as an injected
// capability. The accrual engine never reads wall-clock time directly; every
// time-dependent computation receives a now value derived from a Clock, which
// makes the time machine and fixed-clock tests trivial.
package clock

import "time"

// Clock supplies the application's notion of "now", always in UTC.
type Clock interface {
	Now() time.Time
}

// System reads real wall-clock time.
type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// Fixed always returns the same instant. Test use only.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T.UTC() }

// OverrideSource reports an admin-configured time override, if one is set.
// Implemented by the settings repository.
type OverrideSource interface {
	OverrideTime() (*time.Time, error)
}

// AppClock returns the admin override when one is set and real time
// otherwise. A failing override lookup falls back to real time; accrual must
// keep working even if the settings row is unreadable.
type AppClock struct {
	Source OverrideSource
}

func NewAppClock(source OverrideSource) *AppClock {
	return &AppClock{Source: source}
}

func (c *AppClock) Now() time.Time {
	if c.Source != nil {
		if override, err := c.Source.OverrideTime(); err == nil && override != nil {
			return override.UTC()
		}
	}
	return time.Now().UTC()
}
