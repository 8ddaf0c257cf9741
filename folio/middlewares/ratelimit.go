package middlewares

import (
	"net"
	"net/http"
	"strconv"

	"folio/folio/utils/jsonutils"
	"folio/folio/utils/logging"
	"folio/folio/utils/types"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxTrackedClients = 10000

// IPRateLimiter keeps one token bucket per client address. Old addresses
// fall out of the LRU.
type IPRateLimiter struct {
	limiters *lru.Cache[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
}

func NewIPRateLimiter(perSecond float64, burst int) (*IPRateLimiter, error) {
	cache, err := lru.New[string, *rate.Limiter](maxTrackedClients)
	if err != nil {
		return nil, err
	}
	if burst <= 0 {
		burst = 1
	}
	return &IPRateLimiter{limiters: cache, limit: rate.Limit(perSecond), burst: burst}, nil
}

func (l *IPRateLimiter) limiter(ip string) *rate.Limiter {
	if lim, ok := l.limiters.Get(ip); ok {
		return lim
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	// a concurrent first request may win the race; either limiter is fine
	if prev, ok, _ := l.limiters.PeekOrAdd(ip, lim); ok {
		return prev
	}
	return lim
}

// Allow reports whether ip may make a request now.
func (l *IPRateLimiter) Allow(ip string) bool {
	return l.limiter(ip).Allow()
}

// Middleware answers 429 when the caller's bucket is empty. It expects
// chi's RealIP middleware to have set RemoteAddr.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !l.Allow(ip) {
			logging.AppLogger.Warn("rate limited", zap.String("ip", ip), zap.String("path", r.URL.Path))
			w.Header().Set("Retry-After", strconv.Itoa(1))
			jsonutils.WriteJSON(w, http.StatusTooManyRequests, types.ErrorResponse{Error: "Too many requests"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
