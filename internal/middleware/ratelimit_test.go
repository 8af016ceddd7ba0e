package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestLimiter(limit int, window time.Duration) (*RateLimiter, *time.Time) {
	clock := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	l := &RateLimiter{
		buckets: make(map[string]*rateBucket),
		limit:   limit,
		window:  window,
		now:     func() time.Time { return clock },
	}
	return l, &clock
}

func TestRateLimiterEnforcesLimitPerKey(t *testing.T) {
	l, _ := newTestLimiter(3, time.Minute)
	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("user:1"), "request %d within limit", i+1)
	}
	assert.False(t, l.Allow("user:1"))
	assert.True(t, l.Allow("user:2"), "another key has its own window")
}

func TestRateLimiterWindowResets(t *testing.T) {
	l, clock := newTestLimiter(1, time.Minute)
	assert.True(t, l.Allow("ip:10.0.0.1"))
	assert.False(t, l.Allow("ip:10.0.0.1"))

	*clock = clock.Add(61 * time.Second)
	assert.True(t, l.Allow("ip:10.0.0.1"), "a fresh window starts once the old one expires")
}

func TestRateLimitByUserKeysOnUserNotIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l, _ := newTestLimiter(1, time.Minute)
	mw := RateLimitByUser(l)

	do := func(userID uint, ip string) int {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/contributions", nil)
		c.Request.RemoteAddr = ip + ":1234"
		if userID != 0 {
			c.Set("user_id", userID)
		}
		mw(c)
		if c.IsAborted() {
			return rec.Code
		}
		return http.StatusOK
	}

	// Same member from two addresses still shares one budget.
	assert.Equal(t, http.StatusOK, do(7, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do(7, "10.0.0.2"))
	// A different member is unaffected.
	assert.Equal(t, http.StatusOK, do(8, "10.0.0.1"))
}

func TestRateLimitByUserFallsBackToIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l, _ := newTestLimiter(1, time.Minute)
	mw := RateLimitByUser(l)

	do := func(ip string) bool {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
		c.Request.RemoteAddr = fmt.Sprintf("%s:1234", ip)
		mw(c)
		return !c.IsAborted()
	}

	assert.True(t, do("10.0.0.1"))
	assert.False(t, do("10.0.0.1"))
	assert.True(t, do("10.0.0.2"))
}
