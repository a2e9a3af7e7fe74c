package api

import (
	"bufio"
	"errors"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"hookgate/internal/metrics"
)

// Middleware wraps the mux with request logging, Prometheus metrics, and
// (when RATE_RPS is set) per-source rate limiting on the webhook endpoint.
func (s *Server) Middleware(next http.Handler) http.Handler {
	var limiter *sourceLimiter
	if s.Cfg.RateRPS > 0 {
		limiter = newSourceLimiter(s.Cfg.RateRPS, s.Cfg.RateBurst)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if limiter != nil && strings.HasPrefix(r.URL.Path, "/webhooks/") {
			if !limiter.allow(remoteHost(r)) {
				writeError(w, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		dur := time.Since(start)
		status := strconv.Itoa(rec.status)
		metrics.HTTPRequests.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		metrics.HTTPDuration.WithLabelValues(r.Method, r.URL.Path, status).Observe(dur.Seconds())
		log.Printf("%s %s %s %d %v", r.RemoteAddr, r.Method, r.URL.Path, rec.status, dur)
	})
}

// sourceLimiter keeps one token bucket per remote host.
type sourceLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

func newSourceLimiter(rps float64, burst int) *sourceLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &sourceLimiter{limiters: map[string]*rate.Limiter{}, rps: rate.Limit(rps), burst: burst}
}

func (l *sourceLimiter) allow(host string) bool {
	l.mu.Lock()
	lim, ok := l.limiters[host]
	if !ok {
		lim = rate.NewLimiter(l.rps, l.burst)
		l.limiters[host] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// statusRecorder captures the response status for logging and metrics. It
// passes Flush and Hijack through so SSE and WebSocket handlers keep
// working behind the middleware.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := r.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, errors.New("hijack not supported")
}
