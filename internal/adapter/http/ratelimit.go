package http

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// clientLimiter keeps one token bucket per client host.
type clientLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	r        rate.Limit
	b        int
}

func newClientLimiter(r float64, b int) *clientLimiter {
	return &clientLimiter{
		limiters: make(map[string]*rate.Limiter),
		r:        rate.Limit(r),
		b:        b,
	}
}

func (c *clientLimiter) limiter(client string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.limiters[client]
	if !ok {
		l = rate.NewLimiter(c.r, c.b)
		c.limiters[client] = l
	}
	return l
}

// middleware rejects requests over the client's rate with 429 and calls
// onLimit for each rejected request.
func (c *clientLimiter) middleware(onLimit func(), next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !c.limiter(clientKey(r)).Allow() {
			if onLimit != nil {
				onLimit()
			}
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey is the remote host without its port.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
