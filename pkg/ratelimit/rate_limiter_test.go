package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisIntReadsEvalReply(t *testing.T) {
	// redis EVAL encodes Lua integers as int64
	assert.Equal(t, 7, redisInt(int64(7)))
	assert.Equal(t, -3, redisInt(int64(-3)))
	assert.Equal(t, 0, redisInt(int64(0)))
	assert.Equal(t, 12, redisInt("12"))
	assert.Equal(t, 0, redisInt(nil))
	assert.Equal(t, 0, redisInt(3.5))
}

func TestIsAllowedWhenDisabled(t *testing.T) {
	limiter := NewRateLimiter(nil, &Config{
		Enabled:         false,
		WindowDuration:  time.Minute,
		BookingRequests: 20,
	})

	result, err := limiter.IsAllowed(context.Background(), "203.0.113.9", RateLimitTypeBooking)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 20, result.Limit)
	assert.Equal(t, 20, result.Remaining)
}

func TestGetLimitPerType(t *testing.T) {
	limiter := NewRateLimiter(nil, &Config{
		DefaultRequests: 100,
		PublicRequests:  200,
		BookingRequests: 20,
		PaymentRequests: 10,
		AdminRequests:   50,
		HealthRequests:  500,
	})

	assert.Equal(t, 200, limiter.getLimit(RateLimitTypePublic))
	assert.Equal(t, 20, limiter.getLimit(RateLimitTypeBooking))
	assert.Equal(t, 10, limiter.getLimit(RateLimitTypePayment))
	assert.Equal(t, 50, limiter.getLimit(RateLimitTypeAdmin))
	assert.Equal(t, 500, limiter.getLimit(RateLimitTypeHealth))
	assert.Equal(t, 100, limiter.getLimit(RateLimitType("unknown")))
}
