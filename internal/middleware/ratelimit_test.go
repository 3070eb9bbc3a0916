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

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestCheckRateLimit(t *testing.T) {
	ctx := context.Background()

	t.Run("Allows requests under the limit", func(t *testing.T) {
		_, rdb := setupRedis(t)

		for i := 0; i < 3; i++ {
			ok, err := CheckRateLimit(ctx, rdb, "login", "ip:10.0.0.1", 3, time.Minute)
			require.NoError(t, err)
			assert.True(t, ok)
		}
	})

	t.Run("Blocks requests over the limit", func(t *testing.T) {
		_, rdb := setupRedis(t)

		for i := 0; i < 3; i++ {
			_, err := CheckRateLimit(ctx, rdb, "login", "ip:10.0.0.1", 3, time.Minute)
			require.NoError(t, err)
		}
		ok, err := CheckRateLimit(ctx, rdb, "login", "ip:10.0.0.1", 3, time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Separate ids do not share a bucket", func(t *testing.T) {
		_, rdb := setupRedis(t)

		for i := 0; i < 3; i++ {
			_, err := CheckRateLimit(ctx, rdb, "login", "ip:10.0.0.1", 3, time.Minute)
			require.NoError(t, err)
		}
		ok, err := CheckRateLimit(ctx, rdb, "login", "ip:10.0.0.2", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Window expiry resets the count", func(t *testing.T) {
		mr, rdb := setupRedis(t)

		for i := 0; i < 3; i++ {
			_, err := CheckRateLimit(ctx, rdb, "login", "ip:10.0.0.1", 3, time.Minute)
			require.NoError(t, err)
		}
		mr.FastForward(2 * time.Minute)

		ok, err := CheckRateLimit(ctx, rdb, "login", "ip:10.0.0.1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Nil client fails open", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			ok, err := CheckRateLimit(ctx, nil, "login", "ip:10.0.0.1", 1, time.Minute)
			require.NoError(t, err)
			assert.True(t, ok)
		}
	})

	t.Run("Test environment bypasses the limit", func(t *testing.T) {
		t.Setenv("APP_ENV", "test")
		_, rdb := setupRedis(t)

		for i := 0; i < 10; i++ {
			ok, err := CheckRateLimit(ctx, rdb, "login", "ip:10.0.0.1", 1, time.Minute)
			require.NoError(t, err)
			assert.True(t, ok)
		}
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("Returns 429 past the limit", func(t *testing.T) {
		_, rdb := setupRedis(t)

		app := fiber.New()
		app.Post("/login", RateLimit(rdb, 2, time.Minute, "login"), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})

		for i := 0; i < 2; i++ {
			resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		}

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	})

	t.Run("Redis outage fails open", func(t *testing.T) {
		mr, rdb := setupRedis(t)
		mr.Close()

		app := fiber.New()
		app.Post("/login", RateLimit(rdb, 1, time.Minute), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})

		for i := 0; i < 5; i++ {
			// go-redis retries dialing the dead server before failing open,
			// which can exceed app.Test's default 1s timeout.
			resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), 30000)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		}
	})
}
