package middleware

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"cdk-distributor/internal/handler/httperr"
	"cdk-distributor/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

var ErrRateLimited = errors.New("rate limit exceeded")

// ClaimLimiter keeps one token bucket per caller and evicts idle ones.
type ClaimLimiter struct {
	mu           sync.Mutex
	entries      map[string]*limiterEntry
	rps          rate.Limit
	burst        int
	idleTTL      time.Duration
	cleanupEvery time.Duration
	enabled      bool
	now          func() time.Time
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func NewClaimLimiter(cfg config.RateLimitConfig) *ClaimLimiter {
	idle := cfg.IdleTTL
	if idle <= 0 {
		idle = 15 * time.Minute
	}
	return &ClaimLimiter{
		entries:      make(map[string]*limiterEntry),
		rps:          rate.Limit(cfg.ClaimRPS),
		burst:        cfg.ClaimBurst,
		idleTTL:      idle,
		cleanupEvery: idle / 4,
		enabled:      cfg.Enabled,
		now:          time.Now,
	}
}

func (l *ClaimLimiter) limiter(key string) *rate.Limiter {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if ent, ok := l.entries[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}

	lim := rate.NewLimiter(l.rps, l.burst)
	l.entries[key] = &limiterEntry{lim: lim, lastSeen: now}
	return lim
}

// Allow consumes one token for key.
func (l *ClaimLimiter) Allow(key string) bool {
	return l.limiter(key).AllowN(l.now(), 1)
}

func (l *ClaimLimiter) Cleanup() {
	cutoff := l.now().Add(-l.idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()

	for k, ent := range l.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(l.entries, k)
		}
	}
}

func (l *ClaimLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// StartJanitor evicts idle buckets until ctx is cancelled.
func (l *ClaimLimiter) StartJanitor(ctx context.Context) {
	if !l.enabled || l.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(l.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				l.Cleanup()
			}
		}
	}()
}

// Middleware keys on the authenticated user, falling back to the client ip.
func (l *ClaimLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.enabled {
			c.Next()
			return
		}

		key := c.ClientIP()
		if identity, ok := GetIdentity(c); ok {
			key = "user:" + identity.ID.String()
		}

		c.Header("X-RateLimit-Limit", strconv.FormatFloat(float64(l.rps), 'f', -1, 64))
		c.Header("X-RateLimit-Burst", strconv.Itoa(l.burst))

		if !l.Allow(key) {
			c.Header("Retry-After", strconv.Itoa(l.retryAfterSeconds()))
			httperr.AbortWithError(c, http.StatusTooManyRequests, ErrRateLimited, "Too many claim requests", nil)
			return
		}
		c.Next()
	}
}

func (l *ClaimLimiter) retryAfterSeconds() int {
	if l.rps <= 0 {
		return 1
	}
	return max(1, int(math.Ceil(1/float64(l.rps))))
}
