// Package ratelimit limits requests per client address with token buckets.
//
// A bucket holds Max tokens and refills one token every Window/Max, which
// approximates a fixed budget of Max requests per Window.
package ratelimit

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/render"
	"github.com/vadimbarashkov/link-shortener/pkg/middleware"
	"github.com/vadimbarashkov/link-shortener/pkg/response"
	"golang.org/x/time/rate"
)

type Config struct {
	Window time.Duration
	Max    int
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type Limiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewLimiter(cfg Config) *Limiter {
	if cfg.Max <= 0 {
		cfg.Max = 1
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}

	return &Limiter{
		clients: make(map[string]*client),
		limit:   rate.Every(cfg.Window / time.Duration(cfg.Max)),
		burst:   cfg.Max,
		idleTTL: cfg.Window,
		now:     time.Now,
	}
}

// Allow reports whether key may make a request now.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now

	return c.limiter.AllowN(now, 1)
}

// sweep drops clients idle for longer than a full window. Their buckets
// would be full again anyway.
func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.idleTTL {
		return
	}
	l.lastSweep = now

	for key, c := range l.clients {
		if now.Sub(c.lastSeen) >= l.idleTTL {
			delete(l.clients, key)
		}
	}
}

func (l *Limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// New returns a middleware that answers 429 once a client exhausts its
// budget. Clients are keyed by remote address; put it after middleware.RealIP.
func New(cfg Config, logger *slog.Logger) middleware.Middleware {
	return NewLimiter(cfg).Middleware(logger)
}

func (l *Limiter) Middleware(logger *slog.Logger) middleware.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)

			if !l.Allow(key) {
				logger.Debug("rate limit exceeded",
					slog.String("client", key),
					slog.String("path", r.URL.Path),
				)

				render.Status(r, response.TooManyRequestsResponse.StatusCode)
				render.JSON(w, r, response.TooManyRequestsResponse)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
