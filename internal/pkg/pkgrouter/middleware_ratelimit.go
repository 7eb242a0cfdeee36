package pkgrouter

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

const maxTrackedClients = 10_000

type clientLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// RateLimit limits each client (by forwarded or remote IP) to perSecond
// requests with the given burst. A non-positive perSecond disables limiting.
func RateLimit(perSecond float64, burst int) Middleware {
	if perSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst < 1 {
		burst = int(math.Ceil(perSecond))
	}

	cl := &clientLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cl.get(clientKey(r)).Allow() {
				retryAfter := int(math.Ceil(1 / perSecond))
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cl.burst))
				w.Header().Set("X-RateLimit-Remaining", "0")
				writeJSON(w, errorResponse{Message: "rate limit exceeded, please try again later"}, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (cl *clientLimiter) get(key string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if l, ok := cl.limiters[key]; ok {
		return l
	}

	// full limiter set means lots of distinct clients; start over rather than grow unbounded
	if len(cl.limiters) >= maxTrackedClients {
		clear(cl.limiters)
	}

	l := rate.NewLimiter(cl.limit, cl.burst)
	cl.limiters[key] = l
	return l
}

func clientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
