package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	resp "studio-site-api/internal/transport/http/response"
)

const msgTooMany = "Too many requests from this IP, please try again later."

// RateLimit is one token bucket shared by every caller.
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if lim.Allow() {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(resp.CodeTooMany, resp.Error(resp.CodeTooMany, ""))
	}
}

type visitor struct {
	lim  *rate.Limiter
	seen time.Time
}

// IPLimiter keeps a token bucket per client IP. Buckets idle for longer
// than idle are dropped on the next sweep.
type IPLimiter struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	idle      time.Duration
	visitors  map[string]*visitor
	lastSweep time.Time
	now       func() time.Time
}

func NewIPLimiter(rps rate.Limit, burst int) *IPLimiter {
	return &IPLimiter{
		rps:      rps,
		burst:    burst,
		idle:     time.Hour,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

func (l *IPLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if now.Sub(l.lastSweep) > time.Minute {
		for k, v := range l.visitors {
			if now.Sub(v.seen) > l.idle {
				delete(l.visitors, k)
			}
		}
		l.lastSweep = now
	}
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{lim: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[ip] = v
	}
	v.seen = now
	return v.lim.AllowN(now, 1)
}

func (l *IPLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.Allow(c.ClientIP()) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(resp.CodeTooMany, resp.Error(resp.CodeTooMany, msgTooMany))
	}
}

// RateLimitPerIP is the one-line form of NewIPLimiter(...).Middleware().
func RateLimitPerIP(rps rate.Limit, burst int) gin.HandlerFunc {
	return NewIPLimiter(rps, burst).Middleware()
}
