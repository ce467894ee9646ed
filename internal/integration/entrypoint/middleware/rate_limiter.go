// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	domainerror "github.com/receipt-ledger/backend/internal/domain/error"
	"github.com/receipt-ledger/backend/internal/integration/entrypoint/dto"
)

const (
	// loginAttemptsPerWindow caps login attempts per client IP.
	loginAttemptsPerWindow = 5
	// loginWindow is how long a caller's attempt window stays open.
	loginWindow = time.Minute
)

// attemptWindow counts requests from one caller until it expires.
type attemptWindow struct {
	count     int
	expiresAt time.Time
}

// RateLimiter throttles brute-force login attempts per client IP. State is
// in-memory, so the limit applies per process.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*attemptWindow

	maxAttempts int
	span        time.Duration
}

// NewRateLimiter creates a rate limiter with the login defaults.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		windows:     make(map[string]*attemptWindow),
		maxAttempts: loginAttemptsPerWindow,
		span:        loginWindow,
	}
}

// Middleware rejects the request with 429 once the caller's window is
// exhausted. Disabled under test so scenarios can log in repeatedly.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if os.Getenv("ENV") == "test" || os.Getenv("E2E_MODE") == "true" {
			c.Next()
			return
		}

		key := c.ClientIP()
		if key == "" {
			key = c.Request.RemoteAddr
		}

		if !rl.allow(key, time.Now()) {
			c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error: "Too many requests. Please try again later.",
				Code:  string(domainerror.ErrCodeRateLimited),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// allow counts the request against the caller's window, opening a fresh one
// when none is active. Expired windows are pruned on the way through so the
// map does not grow with one-off callers.
func (rl *RateLimiter) allow(key string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for k, w := range rl.windows {
		if now.After(w.expiresAt) {
			delete(rl.windows, k)
		}
	}

	w, ok := rl.windows[key]
	if !ok {
		rl.windows[key] = &attemptWindow{count: 1, expiresAt: now.Add(rl.span)}
		return true
	}
	if w.count >= rl.maxAttempts {
		return false
	}
	w.count++
	return true
}
