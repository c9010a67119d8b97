package middlewares

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalLimiter is the in-process per-key token bucket used when no Redis is
// configured. Limits are per instance.
type LocalLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
	keyFn    KeyFunc
	ttl      time.Duration
}

func NewLocalLimiter(ratePerSecond float64, burst int, keyFn KeyFunc) *LocalLimiter {
	return &LocalLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(ratePerSecond),
		burst:    burst,
		keyFn:    keyFn,
		ttl:      3 * time.Minute,
	}
}

// Run evicts idle visitors until ctx is done.
func (l *LocalLimiter) Run(ctx context.Context) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			l.evict(now)
		}
	}
}

func (l *LocalLimiter) evict(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.ttl {
			delete(l.visitors, k)
		}
	}
}

func (l *LocalLimiter) get(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

func (l *LocalLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		lim := l.get(l.keyFn(r), now)

		res := lim.ReserveN(now, 1)
		w.Header().Set("X-RateLimit-Policy", "token-bucket")
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.burst))

		if delay := res.DelayFrom(now); !res.OK() || delay > 0 {
			res.CancelAt(now)
			w.Header().Set("X-RateLimit-Remaining", "0")
			tooManyRequests(w, r, int64(math.Ceil(delay.Seconds())))
			return
		}
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, int(lim.TokensAt(now)))))

		next.ServeHTTP(w, r)
	})
}
