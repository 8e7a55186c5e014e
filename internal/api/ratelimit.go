package api

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig sets the per-IP token bucket for HTTP requests
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	CleanupInterval   time.Duration // Idle buckets older than twice this are dropped
}

// DefaultRateLimitConfig allows a browser polling /api/state and a frame
// stream from one address
var DefaultRateLimitConfig = RateLimitConfig{
	RequestsPerSecond: 10,
	Burst:             20,
	CleanupInterval:   5 * time.Minute,
}

// LimitStats counts admission decisions of a limiter
type LimitStats struct {
	Allowed  uint64 `json:"allowed"`
	Rejected uint64 `json:"rejected"`
	Tracked  int    `json:"tracked"` // Addresses currently holding state
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter gives each client address its own token bucket
type IPRateLimiter struct {
	cfg RateLimitConfig

	mu      sync.Mutex
	buckets map[string]*bucket

	allowed  atomic.Uint64
	rejected atomic.Uint64

	stop     chan struct{}
	stopOnce sync.Once
}

// NewIPRateLimiter creates a limiter and starts its idle-bucket sweeper.
// Call Stop to end the sweeper.
func NewIPRateLimiter(cfg RateLimitConfig) *IPRateLimiter {
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultRateLimitConfig.CleanupInterval
	}
	rl := &IPRateLimiter{
		cfg:     cfg,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

// Stop ends the sweeper. Safe to call more than once.
func (rl *IPRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Allow spends one token from ip's bucket
func (rl *IPRateLimiter) Allow(ip string) bool {
	now := time.Now()

	rl.mu.Lock()
	b, ok := rl.buckets[ip]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(rl.cfg.RequestsPerSecond), rl.cfg.Burst)}
		rl.buckets[ip] = b
	}
	b.lastSeen = now
	rl.mu.Unlock()

	if b.limiter.AllowN(now, 1) {
		rl.allowed.Add(1)
		return true
	}
	rl.rejected.Add(1)
	return false
}

// Stats reports request decisions since start and the live bucket count
func (rl *IPRateLimiter) Stats() LimitStats {
	rl.mu.Lock()
	tracked := len(rl.buckets)
	rl.mu.Unlock()
	return LimitStats{
		Allowed:  rl.allowed.Load(),
		Rejected: rl.rejected.Load(),
		Tracked:  tracked,
	}
}

func (rl *IPRateLimiter) sweepLoop() {
	ticker := time.NewTicker(rl.cfg.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.sweep(now.Add(-2 * rl.cfg.CleanupInterval))
		}
	}
}

// sweep drops buckets idle since before cutoff
func (rl *IPRateLimiter) sweep(cutoff time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, b := range rl.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(rl.buckets, ip)
		}
	}
}

// Middleware answers 429 once the caller's bucket is empty
func (rl *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(ClientIP(r)) {
			RecordConnectionRejected("rate_limit")
			w.Header().Set("Retry-After", "1")
			writeError(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP is the host part of r.RemoteAddr. Forwarded headers are not
// read here; routers built with TrustProxy rewrite RemoteAddr from them
// before any limiter sees the request.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ConnLimiter caps concurrent WebSocket connections per address
type ConnLimiter struct {
	maxPerIP int

	mu   sync.Mutex
	open map[string]int

	allowed  atomic.Uint64
	rejected atomic.Uint64
}

// NewConnLimiter creates a limiter admitting maxPerIP connections per address
func NewConnLimiter(maxPerIP int) *ConnLimiter {
	return &ConnLimiter{maxPerIP: maxPerIP, open: make(map[string]int)}
}

// Acquire takes a connection slot for ip. Pair every true result with Release.
func (cl *ConnLimiter) Acquire(ip string) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if cl.open[ip] >= cl.maxPerIP {
		cl.rejected.Add(1)
		return false
	}
	cl.open[ip]++
	cl.allowed.Add(1)
	return true
}

// Release frees a slot taken by Acquire
func (cl *ConnLimiter) Release(ip string) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	switch n := cl.open[ip]; {
	case n > 1:
		cl.open[ip] = n - 1
	case n == 1:
		delete(cl.open, ip)
	}
}

// Stats reports admissions since start and the addresses holding slots
func (cl *ConnLimiter) Stats() LimitStats {
	cl.mu.Lock()
	tracked := len(cl.open)
	cl.mu.Unlock()
	return LimitStats{
		Allowed:  cl.allowed.Load(),
		Rejected: cl.rejected.Load(),
		Tracked:  tracked,
	}
}

// DefaultOrigins are the origins accepted when none are configured
var DefaultOrigins = []string{
	"http://localhost:*",
	"http://127.0.0.1:*",
}

// OriginChecker decides which browser origins may open a WebSocket
type OriginChecker struct {
	exact    map[string]bool
	prefixes []string // from "scheme://host:*" patterns
}

// NewOriginChecker builds a checker from CORS-style patterns.
// A trailing "*" matches any suffix (ports, subpaths).
func NewOriginChecker(origins []string) *OriginChecker {
	if origins == nil {
		origins = DefaultOrigins
	}
	oc := &OriginChecker{exact: make(map[string]bool)}
	for _, o := range origins {
		if strings.HasSuffix(o, "*") {
			oc.prefixes = append(oc.prefixes, strings.TrimSuffix(o, "*"))
			continue
		}
		oc.exact[o] = true
	}
	return oc
}

// Allowed reports whether origin may connect. Requests without an Origin
// header come from non-browser clients and are allowed.
func (oc *OriginChecker) Allowed(origin string) bool {
	if origin == "" {
		return true
	}
	if oc.exact[origin] {
		return true
	}
	for _, p := range oc.prefixes {
		if strings.HasPrefix(origin, p) {
			return true
		}
	}
	return false
}
