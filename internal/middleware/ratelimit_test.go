package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/PJH6029/waffle-assignment-2/internal/config"
)

func TestNewTokenBucketFailsOpenWithoutRedis(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/seminars/1/user", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestBuildRateKeyStrategies(t *testing.T) {
	e := echo.New()
	newCtx := func(userID interface{}) echo.Context {
		req := httptest.NewRequest(http.MethodPost, "/v1/seminars/1/user", nil)
		req.RemoteAddr = "10.0.0.1:4242"
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/seminars/:id/user")
		if userID != nil {
			c.Set("user_id", userID)
		}
		return c
	}

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user_route"}
	require.Equal(t, "rl:user:7:route:POST /v1/seminars/:id/user", buildRateKey(cfg, newCtx(float64(7))))

	// Anonymous requests bucket under "anon".
	require.Equal(t, "rl:user:anon:route:POST /v1/seminars/:id/user", buildRateKey(cfg, newCtx(nil)))

	cfg.KeyStrategy = "ip"
	require.Equal(t, "rl:ip:10.0.0.1", buildRateKey(cfg, newCtx(nil)))

	// Same user behind two IPs with a user-only strategy shares one bucket.
	cfg.KeyStrategy = "user"
	a := buildRateKey(cfg, newCtx(float64(7)))
	b := buildRateKey(cfg, newCtx(float64(7)))
	require.Equal(t, a, b)
}

func TestAsInt64(t *testing.T) {
	require.Equal(t, int64(5), asInt64(int64(5)))
	require.Equal(t, int64(5), asInt64(5))
	require.Equal(t, int64(5), asInt64(5.9))
	require.Equal(t, int64(5), asInt64("5"))
	require.Equal(t, int64(0), asInt64("nope"))
	require.Equal(t, int64(0), asInt64(nil))
}
