package worker

import (
	"math"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Limiter keeps one token bucket per client key. Buckets of idle clients expire;
// per-client overrides do not.
type Limiter struct {
	clients      *gocache.Cache
	defaultRate  rate.Limit
	defaultBurst int

	mu        sync.RWMutex
	overrides map[string]clientRate
}

type clientRate struct {
	limit rate.Limit
	burst int
}

// NewLimiter creates a limiter allowing requestsPerSecond per client with the given burst
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	return NewLimiterWithIdle(requestsPerSecond, burst, 10*time.Minute)
}

// NewLimiterWithIdle creates a limiter that forgets clients idle for longer than idle
func NewLimiterWithIdle(requestsPerSecond float64, burst int, idle time.Duration) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	return &Limiter{
		clients:      gocache.New(idle, idle),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
		overrides:    make(map[string]clientRate),
	}
}

// Allow reports whether the client may proceed now, consuming a token if so
func (l *Limiter) Allow(key string) bool {
	return l.getLimiter(key).Allow()
}

// RetryAfter is the time until a rejected client gains one token, rounded up to
// whole seconds as used by the Retry-After header
func (l *Limiter) RetryAfter(key string) time.Duration {
	limit := l.getLimiter(key).Limit()
	if limit <= 0 {
		return time.Second
	}
	secs := math.Ceil(1 / float64(limit))
	return time.Duration(secs) * time.Second
}

// SetClientRate overrides the rate of a single client. The override survives
// the client going idle.
func (l *Limiter) SetClientRate(key string, requestsPerSecond float64, burst int) {
	if burst <= 0 {
		burst = l.defaultBurst
	}
	r := clientRate{limit: rate.Limit(requestsPerSecond), burst: burst}

	l.mu.Lock()
	l.overrides[key] = r
	l.mu.Unlock()

	l.clients.SetDefault(key, rate.NewLimiter(r.limit, r.burst))
}

// Clients is the number of tracked clients
func (l *Limiter) Clients() int {
	return l.clients.ItemCount()
}

func (l *Limiter) getLimiter(key string) *rate.Limiter {
	if v, found := l.clients.Get(key); found {
		limiter := v.(*rate.Limiter)
		l.clients.SetDefault(key, limiter)
		return limiter
	}

	limiter := l.newBucket(key)
	if err := l.clients.Add(key, limiter, gocache.DefaultExpiration); err != nil {
		// lost the race to another request for the same client
		if v, found := l.clients.Get(key); found {
			return v.(*rate.Limiter)
		}
	}
	return limiter
}

func (l *Limiter) newBucket(key string) *rate.Limiter {
	l.mu.RLock()
	r, ok := l.overrides[key]
	l.mu.RUnlock()
	if ok {
		return rate.NewLimiter(r.limit, r.burst)
	}
	return rate.NewLimiter(l.defaultRate, l.defaultBurst)
}
