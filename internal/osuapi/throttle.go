package osuapi

import (
	"sync"
	"time"
)

const (
	rateLimit             = 30 // requests per cooldown window
	cooldown              = time.Minute
	maxConcurrentRequests = 2
)

// limiter enforces the osu! website's tolerance: a sliding window of at most
// rateLimit requests per cooldown plus a hard cap on in-flight requests.
// Requests pass immediately while the window has room; only once it fills
// does wait block until the oldest attempt ages out.
type limiter struct {
	ticker *time.Ticker

	mu       sync.Mutex
	attempts []time.Time

	slots chan struct{}
}

func newLimiter() *limiter {
	l := &limiter{
		ticker: time.NewTicker(cooldown / rateLimit),
		slots:  make(chan struct{}, maxConcurrentRequests),
	}
	for i := 0; i < maxConcurrentRequests; i++ {
		l.slots <- struct{}{}
	}
	return l
}

// close stops the retry ticker. The limiter must not be used afterwards.
func (l *limiter) close() {
	l.ticker.Stop()
}

// acquire takes a concurrency slot; the returned func releases it.
func (l *limiter) acquire() func() {
	<-l.slots
	return func() {
		l.slots <- struct{}{}
	}
}

// wait blocks until the sliding window has room for one more request.
func (l *limiter) wait() {
	for {
		if l.tryRecord() {
			return
		}
		<-l.ticker.C
	}
}

func (l *limiter) tryRecord() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	att := l.attempts
	for len(att) > 0 && now.Sub(att[0]) > cooldown {
		att = att[1:]
	}
	if len(att) >= rateLimit {
		l.attempts = att
		return false
	}
	l.attempts = append(att, now)
	return true
}
