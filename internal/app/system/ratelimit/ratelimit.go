// Package ratelimit provides keyed token-bucket limiting for inbound requests.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Keyed manages one token bucket per key. It is safe for concurrent use.
// Buckets idle for longer than idleTTL are dropped by a background sweep.
type Keyed struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	done     chan struct{}
	stopOnce sync.Once
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// PerMinute builds a limiter that allows n events per minute per key,
// with a burst of n.
func PerMinute(n int) *Keyed {
	if n <= 0 {
		n = 1
	}
	return New(rate.Every(time.Minute/time.Duration(n)), n, 10*time.Minute)
}

// New creates a keyed limiter and starts its sweep goroutine. Call Stop
// to release it.
func New(limit rate.Limit, burst int, idleTTL time.Duration) *Keyed {
	k := &Keyed{
		buckets: make(map[string]*bucket),
		limit:   limit,
		burst:   burst,
		idleTTL: idleTTL,
		done:    make(chan struct{}),
	}
	go k.sweepLoop()
	return k
}

// Allow reports whether an event for key may happen now.
func (k *Keyed) Allow(key string) bool {
	return k.get(key).Allow()
}

// Reset forgets the bucket for key.
func (k *Keyed) Reset(key string) {
	k.mu.Lock()
	delete(k.buckets, key)
	k.mu.Unlock()
}

// Stop shuts down the sweep goroutine.
func (k *Keyed) Stop() {
	k.stopOnce.Do(func() { close(k.done) })
}

func (k *Keyed) get(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()
	b, ok := k.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(k.limit, k.burst)}
		k.buckets[key] = b
	}
	b.lastSeen = time.Now()
	return b.lim
}

func (k *Keyed) sweepLoop() {
	ticker := time.NewTicker(k.idleTTL)
	defer ticker.Stop()
	for {
		select {
		case <-k.done:
			return
		case now := <-ticker.C:
			k.mu.Lock()
			for key, b := range k.buckets {
				if now.Sub(b.lastSeen) > k.idleTTL {
					delete(k.buckets, key)
				}
			}
			k.mu.Unlock()
		}
	}
}

// ClientIP extracts the client IP, preferring the first X-Forwarded-For
// hop, then X-Real-IP, then RemoteAddr without its port.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// AuthLimiter guards register and login. It limits by client IP and,
// separately, by account email so that neither a single client nor a
// spread of clients can hammer one account.
type AuthLimiter struct {
	ip    *Keyed
	email *Keyed
}

// NewAuthLimiter allows perMinute attempts per IP and a fifth of that
// (at least one) per email.
func NewAuthLimiter(perMinute int) *AuthLimiter {
	perEmail := perMinute / 5
	if perEmail < 1 {
		perEmail = 1
	}
	return &AuthLimiter{ip: PerMinute(perMinute), email: PerMinute(perEmail)}
}

// Check reports whether the attempt is allowed.
func (a *AuthLimiter) Check(r *http.Request, email string) bool {
	if !a.ip.Allow(ClientIP(r)) {
		return false
	}
	if key := strings.ToLower(strings.TrimSpace(email)); key != "" {
		return a.email.Allow(key)
	}
	return true
}

// ResetEmail clears the email bucket after a successful login.
func (a *AuthLimiter) ResetEmail(email string) {
	if key := strings.ToLower(strings.TrimSpace(email)); key != "" {
		a.email.Reset(key)
	}
}

// Stop releases both limiters.
func (a *AuthLimiter) Stop() {
	a.ip.Stop()
	a.email.Stop()
}
