package clock

import (
	"time"

	jclock "github.com/jmhodges/clock"
)

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

// System returns the host wall clock in the local zone. Alarm times are
// matched against local time, so unlike stored timestamps this is not UTC.
func System() Clock {
	return jclock.New()
}
