package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()}), mr
}

func TestCheckRateLimitBypassOutsideProduction(t *testing.T) {
	for _, env := range []string{"", "development", "test"} {
		t.Setenv("APP_ENV", env)
		allowed, err := CheckRateLimit(context.Background(), nil, "signup", "ip:1.2.3.4", 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "env %q", env)
	}
}

func TestCheckRateLimitCountsAndExpires(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	rdb, mr := newTestRedis(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := CheckRateLimit(ctx, rdb, "login", "ip:1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d within the limit", i+1)
	}

	allowed, err := CheckRateLimit(ctx, rdb, "login", "ip:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed, "fourth request exceeds the limit")

	// A different caller has its own counter.
	allowed, err = CheckRateLimit(ctx, rdb, "login", "ip:5.6.7.8", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	// The window expiring resets the counter.
	mr.FastForward(2 * time.Minute)
	allowed, err = CheckRateLimit(ctx, rdb, "login", "ip:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	rdb, _ := newTestRedis(t)

	app := fiber.New()
	app.Post("/limited", RateLimit(rdb, 2, time.Minute, "limited"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/limited", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/limited", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestRateLimitFailurePolicies(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	rdb, mr := newTestRedis(t)
	mr.Close() // make every Redis call fail

	appOpen := fiber.New()
	appOpen.Post("/open", RateLimit(rdb, 1, time.Minute, "open"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	resp, err := appOpen.Test(httptest.NewRequest(http.MethodPost, "/open", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "fail-open lets the request through")

	appClosed := fiber.New()
	appClosed.Post("/closed", RateLimitWithPolicy(rdb, 1, time.Minute, FailClosed, "closed"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	resp, err = appClosed.Test(httptest.NewRequest(http.MethodPost, "/closed", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, "fail-closed rejects")
}
