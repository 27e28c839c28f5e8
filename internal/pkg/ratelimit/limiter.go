// Package ratelimit provides a fixed-window request limiter for abuse-prone
// endpoints such as login and set-password.
package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Limiter counts hits per scope and identity within a fixed window. The first
// hit opens the window; once the count within it exceeds the limit, further
// hits are rejected until the window expires or the limit is reset.
type Limiter struct {
	cache *gocache.Cache
}

// NewLimiter creates a Limiter with its own counter cache.
func NewLimiter() *Limiter {
	return &Limiter{
		cache: gocache.New(gocache.NoExpiration, 5*time.Minute),
	}
}

// IsLimited records a hit for the given scope and identity and reports whether
// the caller went over the limit for the current window.
func (l *Limiter) IsLimited(scope, ident string, limit int, window time.Duration) bool {
	key := rateLimitKey(scope, ident)

	if err := l.cache.Add(key, 1, window); err == nil {
		return false
	}

	count, err := l.cache.IncrementInt(key, 1)
	if err != nil {
		// The window expired between Add and Increment; open a fresh one.
		_ = l.cache.Add(key, 1, window)
		return false
	}

	return count > limit
}

// Reset clears the counter for the given scope and identity, typically after
// a successful authentication.
func (l *Limiter) Reset(scope, ident string) {
	l.cache.Delete(rateLimitKey(scope, ident))
}

func rateLimitKey(scope, ident string) string {
	return fmt.Sprintf("rl:%s:%s", scope, ident)
}

// ClientIP extracts the caller address for rate limiting purposes. The first
// X-Forwarded-For entry wins because the service runs behind a proxy in
// production; the socket address is the fallback.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}

	if r.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			return host
		}
		return r.RemoteAddr
	}

	return "unknown"
}
