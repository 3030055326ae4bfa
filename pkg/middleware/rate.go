// Package middleware provides the HTTP middleware stack: session
// authentication, CORS, request logging, panic recovery and rate limiting.
package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/neubistro/bistro/pkg/response"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter hands out one token bucket per client IP.
type Limiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	every    rate.Limit
	burst    int
	idle     time.Duration
	trusted  []netip.Prefix
}

// NewLimiter allows max requests per window for each client, with bursts up
// to max.
func NewLimiter(max int, window time.Duration) *Limiter {
	if max <= 0 {
		max = 1
	}
	return &Limiter{
		visitors: make(map[string]*visitor),
		every:    rate.Every(window / time.Duration(max)),
		burst:    max,
		idle:     3 * window,
	}
}

// Allow reports whether ip may make another request now.
func (l *Limiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.every, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

// Sweep drops visitors idle for longer than the limiter's idle window.
func (l *Limiter) Sweep() {
	cutoff := time.Now().Add(-l.idle)

	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, ip)
		}
	}
}

// Len is the number of tracked clients.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// RateLimit limits each client to max requests per window and answers 429
// beyond that. Forwarded headers are honoured only from trustedProxies.
// Idle visitors are swept once a minute until ctx is done.
func RateLimit(ctx context.Context, max int, window time.Duration, trustedProxies ...string) (func(http.Handler) http.Handler, error) {
	l := NewLimiter(max, window)
	if err := l.TrustProxies(trustedProxies...); err != nil {
		return nil, err
	}
	go l.Run(ctx, time.Minute)
	return l.Middleware, nil
}

// Run sweeps idle visitors every interval until ctx is done.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// TrustProxies sets the peers whose X-Forwarded-For and X-Real-Ip headers
// are believed. Entries are IPs or CIDR prefixes.
func (l *Limiter) TrustProxies(entries ...string) error {
	trusted := make([]netip.Prefix, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if p, err := netip.ParsePrefix(e); err == nil {
			trusted = append(trusted, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(e)
		if err != nil {
			return fmt.Errorf("middleware: trusted proxy %q: %w", e, err)
		}
		trusted = append(trusted, netip.PrefixFrom(addr, addr.BitLen()))
	}

	l.mu.Lock()
	l.trusted = trusted
	l.mu.Unlock()
	return nil
}

func (l *Limiter) isTrusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range l.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// Middleware applies l to every request.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(l.clientIP(r)) {
			w.Header().Set("Retry-After", "60")
			response.TooManyRequests(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP is the TCP peer unless that peer is a trusted proxy, in which case
// it is the right-most X-Forwarded-For hop not itself trusted.
func (l *Limiter) clientIP(r *http.Request) string {
	peer := peerIP(r)
	if !l.isTrusted(peer) {
		return peer
	}

	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		hops := strings.Split(fwd, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop != "" && !l.isTrusted(hop) {
				return hop
			}
		}
	}
	if real := strings.TrimSpace(r.Header.Get("X-Real-Ip")); real != "" {
		return real
	}
	return peer
}

func peerIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
