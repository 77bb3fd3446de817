package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRateLimiter(maxAttempts int) *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		MaxAttempts:     maxAttempts,
		WindowDuration:  time.Minute,
		LockoutDuration: time.Minute,
		CleanupInterval: time.Hour, // keep the janitor out of the test window
	})
}

func TestRateLimiter_BlocksAfterMaxAttempts(t *testing.T) {
	rl := newTestRateLimiter(3)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		allowed, _ := rl.Allow("192.168.1.1", "alice")
		assert.True(t, allowed, "attempt %d", i+1)
		rl.RecordFailure("192.168.1.1", "alice")
	}

	allowed, retryAfter := rl.Allow("192.168.1.1", "alice")
	assert.False(t, allowed)
	assert.NotZero(t, retryAfter)
}

func TestRateLimiter_SuccessResetsCounter(t *testing.T) {
	rl := newTestRateLimiter(3)
	defer rl.Stop()

	rl.RecordFailure("192.168.1.1", "alice")
	rl.RecordFailure("192.168.1.1", "alice")
	rl.RecordSuccess("192.168.1.1", "alice")

	allowed, _ := rl.Allow("192.168.1.1", "alice")
	assert.True(t, allowed)
}

func TestRateLimiter_UsersTrackedIndependently(t *testing.T) {
	rl := newTestRateLimiter(2)
	defer rl.Stop()

	rl.RecordFailure("192.168.1.1", "alice")
	rl.RecordFailure("192.168.1.1", "alice")

	allowed, _ := rl.Allow("192.168.1.1", "alice")
	assert.False(t, allowed)

	allowed, _ = rl.Allow("192.168.1.1", "bob")
	assert.True(t, allowed)
}

func TestSecurityHeaders(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", rr.Header().Get("Referrer-Policy"))
	assert.NotEmpty(t, rr.Header().Get("Content-Security-Policy"))
	assert.NotEmpty(t, rr.Header().Get("Permissions-Policy"))
}

func TestHSTSHeader_HTTPSOnly(t *testing.T) {
	router := gin.New()
	router.Use(StrictTransportSecurityMiddleware())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Empty(t, rr.Header().Get("Strict-Transport-Security"))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.NotEmpty(t, rr.Header().Get("Strict-Transport-Security"))
}

func TestUsernamePattern(t *testing.T) {
	tests := []struct {
		username string
		valid    bool
	}{
		{"ab", false},
		{"abc", true},
		{"alice123", true},
		{"alice_smith", true},
		{"alice-smith", true},
		{"alice.smith", false},
		{"alice@smith", false},
		{"alice smith", false},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			assert.Equal(t, tt.valid, usernamePattern.MatchString(tt.username))
		})
	}
}

func TestEmailPattern(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"alice@example.com", true},
		{"alice.smith@example.com", true},
		{"alice+tag@example.com", true},
		{"alice@sub.example.com", true},
		{"not-an-email", false},
		{"@example.com", false},
		{"alice@", false},
		{"alice@example", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.valid, emailPattern.MatchString(tt.email))
		})
	}
}
