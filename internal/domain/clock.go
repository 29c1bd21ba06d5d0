package domain

import (
	"sync/atomic"

	"github.com/jonboulle/clockwork"
)

var stampClock atomic.Pointer[clockwork.Clock]

func init() { SetClock(nil) }

// SetClock replaces the clock that stamps new favorites and returns a func
// restoring the previous one. A nil clock means wall time.
func SetClock(c clockwork.Clock) (restore func()) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	prev := stampClock.Swap(&c)
	return func() {
		if prev != nil {
			stampClock.Store(prev)
		}
	}
}

func now() int64 { return (*stampClock.Load()).Now().UnixMilli() }
