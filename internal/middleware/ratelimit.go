package middleware

import (
	"sync"
	"time"

	"ailingo/internal/metrics"

	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v3"
)

// visitor holds a user's token bucket and when it was last used
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per Telegram user. Buckets idle for
// longer than ttl are dropped during lookups.
type RateLimiter struct {
	rps      rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
	mu       sync.Mutex
	visitors map[int64]*visitor
	lookups  uint64
}

// cleanupEvery is how many lookups happen between idle sweeps
const cleanupEvery = 1000

// NewRateLimiter creates a limiter allowing rps updates per second with the
// given burst. A burst <= 0 is treated as 1.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		ttl:      10 * time.Minute,
		now:      time.Now,
		visitors: make(map[int64]*visitor),
	}
}

func (rl *RateLimiter) limiter(userID int64) *rate.Limiter {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Sweep before touching the requested bucket so a stale one can go too
	rl.lookups++
	if rl.lookups >= cleanupEvery {
		for id, v := range rl.visitors {
			if now.Sub(v.lastSeen) >= rl.ttl {
				delete(rl.visitors, id)
			}
		}
		rl.lookups = 0
	}

	if v, ok := rl.visitors[userID]; ok {
		v.lastSeen = now
		return v.limiter
	}

	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.visitors[userID] = &visitor{limiter: lim, lastSeen: now}
	return lim
}

// Allow reports whether the user may proceed now
func (rl *RateLimiter) Allow(userID int64) bool {
	return rl.limiter(userID).AllowN(rl.now(), 1)
}

// Middleware drops updates over the limit, handing them to limited instead.
// Updates without a sender and membership changes are not limited.
func (rl *RateLimiter) Middleware(limited tele.HandlerFunc) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil || c.ChatMember() != nil || rl.Allow(sender.ID) {
				return next(c)
			}
			metrics.RateLimited.Inc()
			return limited(c)
		}
	}
}
