package log

import (
	"sync/atomic"
	"time"

	"golang.org/x/exp/slog"
	"golang.org/x/time/rate"
)

// LoggerFilter is used to print log when check func returns true.
type LoggerFilter interface {
	check() bool
}

// EveryN lets one record through out of every N calls.
type EveryN struct {
	N       uint32
	counter uint32
}

func (e *EveryN) check() bool {
	if e == nil || e.N == 0 {
		return true
	}
	c := atomic.AddUint32(&e.counter, 1)
	return c%e.N == 0
}

var _ LoggerFilter = &EveryN{}

// Interval lets at most one record through per period. The first record
// always passes.
type Interval struct {
	limiter *rate.Limiter
	now     func() time.Time
}

// NewInterval returns a filter admitting one record per period. A period of
// zero or less admits everything.
func NewInterval(period time.Duration) *Interval {
	return &Interval{
		limiter: rate.NewLimiter(rate.Every(period), 1),
		now:     time.Now,
	}
}

func (i *Interval) check() bool {
	if i == nil || i.limiter == nil {
		return true
	}
	return i.limiter.AllowN(i.now(), 1)
}

var _ LoggerFilter = &Interval{}

func InfoBy(filter LoggerFilter, msg string, ctx ...interface{}) {
	if filter == nil || filter.check() {
		Root().Write(slog.LevelInfo, msg, ctx...)
	}
}

func WarnBy(filter LoggerFilter, msg string, ctx ...interface{}) {
	if filter == nil || filter.check() {
		Root().Write(slog.LevelWarn, msg, ctx...)
	}
}
