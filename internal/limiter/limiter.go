package limiter

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/Tanishq-Raina/AI-Code-Explainer/internal/metrics"
)

// RateLimiter bounds request throughput (globally and per client IP) and
// caps how many evaluations run at once. Evaluations hold a JVM each, so the
// concurrency cap is the one that actually protects the host.
type RateLimiter struct {
	globalLimiter *rate.Limiter
	perIPLimiters sync.Map // ip -> *ipLimiter
	ipRate        rate.Limit
	ipBurst       int
	maxConcurrent int64
	currentConc   int64
	mu            sync.Mutex
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(globalRPS float64, perIPRPS float64, perIPBurst int, maxConcurrent int) *RateLimiter {
	return &RateLimiter{
		globalLimiter: rate.NewLimiter(rate.Limit(globalRPS), int(globalRPS)*2),
		ipRate:        rate.Limit(perIPRPS),
		ipBurst:       perIPBurst,
		maxConcurrent: int64(maxConcurrent),
	}
}

func (rl *RateLimiter) getIPLimiter(ip string) *rate.Limiter {
	now := time.Now()
	if v, ok := rl.perIPLimiters.Load(ip); ok {
		il := v.(*ipLimiter)
		il.lastSeen = now
		return il.limiter
	}
	il := &ipLimiter{limiter: rate.NewLimiter(rl.ipRate, rl.ipBurst), lastSeen: now}
	actual, _ := rl.perIPLimiters.LoadOrStore(ip, il)
	return actual.(*ipLimiter).limiter
}

func (rl *RateLimiter) Allow(ip string) bool {
	if !rl.globalLimiter.Allow() {
		metrics.RateLimitHits.Inc()
		return false
	}

	if !rl.getIPLimiter(ip).Allow() {
		metrics.RateLimitHits.Inc()
		return false
	}

	rl.mu.Lock()
	if rl.currentConc >= rl.maxConcurrent {
		rl.mu.Unlock()
		metrics.RateLimitHits.Inc()
		return false
	}
	rl.currentConc++
	rl.mu.Unlock()

	return true
}

// Done releases the concurrency slot taken by a successful Allow.
func (rl *RateLimiter) Done() {
	rl.mu.Lock()
	if rl.currentConc > 0 {
		rl.currentConc--
	}
	rl.mu.Unlock()
}

func (rl *RateLimiter) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			ip = forwarded
		}

		if !rl.Allow(ip) {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		defer rl.Done()

		next(w, r)
	}
}

// StartCleanup periodically drops per-IP limiters that have been idle for at
// least one interval, keeping the map from growing without bound.
func (rl *RateLimiter) StartCleanup(interval time.Duration) {
	go func() {
		for {
			time.Sleep(interval)
			cutoff := time.Now().Add(-interval)
			rl.perIPLimiters.Range(func(key, value any) bool {
				if value.(*ipLimiter).lastSeen.Before(cutoff) {
					rl.perIPLimiters.Delete(key)
				}
				return true
			})
		}
	}()
}
