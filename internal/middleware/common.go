// Package middleware provides HTTP middleware for Gin framework.
package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID is the context key for request ID
const ContextKeyRequestID = "request_id"

// RequestID adds a unique request ID to each request
// #IMPLEMENTATION_DECISION: UUID v4 for traceability across logs
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(ContextKeyRequestID, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// GetRequestID extracts the request ID from context
func GetRequestID(c *gin.Context) string {
	if requestIDVal, exists := c.Get(ContextKeyRequestID); exists {
		if requestID, ok := requestIDVal.(string); ok {
			return requestID
		}
	}
	return ""
}

// CORS configures Cross-Origin Resource Sharing
// #IMPLEMENTATION_DECISION: Configurable allowed origins for security
func CORS(allowedOrigins []string) gin.HandlerFunc {
	originsMap := make(map[string]bool)
	for _, origin := range allowedOrigins {
		originsMap[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		if originsMap[origin] || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
			c.Header("Access-Control-Allow-Origin", origin)
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Request-ID, X-Survey-Session")
		c.Header("Access-Control-Expose-Headers", "Content-Length, X-Request-ID, X-Survey-Session")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Logger logs one line per request with request ID, latency, and status
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		requestID := GetRequestID(c)
		if len(requestID) > 8 {
			requestID = requestID[:8]
		}

		//nolint:errcheck // Logging errors should not crash the request
		fmt.Fprintf(gin.DefaultWriter, "%s | %s | %3d | %13v | %15s | %-7s %s\n",
			time.Now().Format("2006/01/02 - 15:04:05"),
			requestID,
			c.Writer.Status(),
			time.Since(start),
			c.ClientIP(),
			c.Request.Method,
			path,
		)
	}
}

// Recovery recovers from panics and returns a 500 error
// #IMPLEMENTATION_DECISION: Custom recovery with request ID for debugging
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "internal_server_error",
			"message":    "An unexpected error occurred",
			"request_id": GetRequestID(c),
		})
	})
}

// SecureHeaders adds security-related headers
// #SECURITY_CONCERN: Helps prevent common web attacks
func SecureHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'self'")

		c.Next()
	}
}

// RateLimiter provides basic in-memory rate limiting per client IP
// #TECHNICAL_DEBT: In-memory only; a multi-instance deployment needs a shared store
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}
}

// RateLimit middleware function
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		now := time.Now()

		rl.mu.Lock()
		windowStart := now.Add(-rl.window)
		valid := rl.requests[clientIP][:0]
		for _, t := range rl.requests[clientIP] {
			if t.After(windowStart) {
				valid = append(valid, t)
			}
		}

		if len(valid) >= rl.limit {
			rl.requests[clientIP] = valid
			rl.mu.Unlock()
			c.Header("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "too_many_requests",
				"message": "Rate limit exceeded. Please try again later.",
			})
			c.Abort()
			return
		}

		rl.requests[clientIP] = append(valid, now)
		rl.mu.Unlock()

		c.Next()
	}
}
