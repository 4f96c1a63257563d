package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/volt-go/volt/pkg/httpx"
	"github.com/volt-go/volt/pkg/router"
)

// RateLimitConfig configures per-client rate limiting.
type RateLimitConfig struct {
	// Rate is the sustained request rate per client. Default: 10/s.
	Rate rate.Limit

	// Burst is the spike allowance per client. Default: 20.
	Burst int

	// KeyFunc derives the client key. Default: client IP.
	KeyFunc func(*httpx.Request) string

	// IdleTTL is how long an idle client's bucket is kept before the
	// sweep drops it. Default: 10 minutes.
	IdleTTL time.Duration
}

func (c *RateLimitConfig) defaults() {
	if c.Rate == 0 {
		c.Rate = 10
	}
	if c.Burst == 0 {
		c.Burst = 20
	}
	if c.KeyFunc == nil {
		c.KeyFunc = ClientIP
	}
	if c.IdleTTL == 0 {
		c.IdleTTL = 10 * time.Minute
	}
}

// ClientIP returns the client address without the port, the default
// rate-limit key.
func ClientIP(req *httpx.Request) string {
	addr := req.Raw().RemoteAddr
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

type rateLimiter struct {
	cfg RateLimitConfig

	mu        sync.Mutex
	clients   map[string]*rateClient
	lastSweep time.Time
}

type rateClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit builds a token-bucket rate limiter keyed per client.
// Exhausted clients receive 429 with a Retry-After hint.
func RateLimit(cfg RateLimitConfig) router.Middleware {
	cfg.defaults()
	return &rateLimiter{
		cfg:       cfg,
		clients:   make(map[string]*rateClient),
		lastSweep: time.Now(),
	}
}

// Handle implements router.Middleware.
func (rl *rateLimiter) Handle(req *httpx.Request) *httpx.Response {
	if rl.allow(rl.cfg.KeyFunc(req)) {
		return nil
	}
	resp := httpx.Text(http.StatusTooManyRequests, "Too Many Requests")
	resp.Header.Set("Retry-After", "1")
	return resp
}

func (rl *rateLimiter) allow(key string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) > rl.cfg.IdleTTL {
		for k, c := range rl.clients {
			if now.Sub(c.lastSeen) > rl.cfg.IdleTTL {
				delete(rl.clients, k)
			}
		}
		rl.lastSweep = now
	}

	client, ok := rl.clients[key]
	if !ok {
		client = &rateClient{limiter: rate.NewLimiter(rl.cfg.Rate, rl.cfg.Burst)}
		rl.clients[key] = client
	}
	client.lastSeen = now
	return client.limiter.Allow()
}
