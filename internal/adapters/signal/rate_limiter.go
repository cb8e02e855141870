package signal

import (
	"golang.org/x/time/rate"
)

// ConnRateLimiter throttles inbound events of one connection.
// Only the connection's read pump uses it.
type ConnRateLimiter struct {
	lim     *rate.Limiter
	dropped int
}

func NewConnRateLimiter(perSecond float64, burst int) *ConnRateLimiter {
	return &ConnRateLimiter{lim: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (rl *ConnRateLimiter) Allow() bool {
	if rl.lim.Allow() {
		return true
	}
	rl.dropped++
	return false
}

// Dropped is the number of events refused so far.
func (rl *ConnRateLimiter) Dropped() int { return rl.dropped }
