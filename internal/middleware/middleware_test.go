package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/hotel-front-desk/internal/config"
	"github.com/iliyamo/hotel-front-desk/internal/events"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func cacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:     true,
		Methods:     map[string]bool{http.MethodGet: true},
		TTL:         time.Minute,
		KeyStrategy: "route_query",
		Prefix:      "test:cache",
	}
}

func do(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRedisCacheHitMissAndInvalidate(t *testing.T) {
	_, rdb := newRedis(t)
	cache := NewRedisCache(cacheConfig(), rdb, zap.NewNop())

	var calls int32
	e := echo.New()
	e.Use(cache.Middleware())
	e.GET("/v1/rooms", func(c echo.Context) error {
		n := atomic.AddInt32(&calls, 1)
		return c.JSON(http.StatusOK, map[string]int32{"calls": n})
	})
	e.GET("/v1/guests", func(c echo.Context) error {
		return c.JSON(http.StatusOK, []string{})
	})

	first := do(e, http.MethodGet, "/v1/rooms")
	if first.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("first X-Cache = %q", first.Header().Get("X-Cache"))
	}
	second := do(e, http.MethodGet, "/v1/rooms")
	if second.Header().Get("X-Cache") != "HIT" {
		t.Fatalf("second X-Cache = %q", second.Header().Get("X-Cache"))
	}
	if second.Body.String() != first.Body.String() {
		t.Errorf("cached body %q != %q", second.Body.String(), first.Body.String())
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("handler ran %d times", got)
	}

	// a different query string is a different entry
	if rec := do(e, http.MethodGet, "/v1/rooms?status=occupied"); rec.Header().Get("X-Cache") != "MISS" {
		t.Errorf("query variant X-Cache = %q", rec.Header().Get("X-Cache"))
	}

	do(e, http.MethodGet, "/v1/guests")
	if err := cache.Invalidate(context.Background(), "rooms"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if rec := do(e, http.MethodGet, "/v1/rooms"); rec.Header().Get("X-Cache") != "MISS" {
		t.Errorf("after invalidation X-Cache = %q", rec.Header().Get("X-Cache"))
	}
	if rec := do(e, http.MethodGet, "/v1/guests"); rec.Header().Get("X-Cache") != "HIT" {
		t.Errorf("unrelated resource X-Cache = %q", rec.Header().Get("X-Cache"))
	}
}

func TestRedisCacheOnEventDropsTouchedResources(t *testing.T) {
	mr, rdb := newRedis(t)
	cache := NewRedisCache(cacheConfig(), rdb, zap.NewNop())

	e := echo.New()
	e.Use(cache.Middleware())
	e.GET("/v1/reports/summary", func(c echo.Context) error { return c.JSON(http.StatusOK, map[string]int{"rooms": 10}) })
	e.GET("/v1/rooms/:id", func(c echo.Context) error { return c.JSON(http.StatusOK, map[string]string{"id": c.Param("id")}) })

	do(e, http.MethodGet, "/v1/reports/summary")
	do(e, http.MethodGet, "/v1/rooms/room-001")
	if n := len(mr.Keys()); n != 2 {
		t.Fatalf("cached keys = %d, want 2", n)
	}

	cache.OnEvent(events.New(events.GuestCreated, "guest-9", nil, events.ResourceGuests, events.ResourceReports))

	if rec := do(e, http.MethodGet, "/v1/reports/summary"); rec.Header().Get("X-Cache") != "MISS" {
		t.Errorf("reports X-Cache = %q", rec.Header().Get("X-Cache"))
	}
	if rec := do(e, http.MethodGet, "/v1/rooms/room-001"); rec.Header().Get("X-Cache") != "HIT" {
		t.Errorf("rooms X-Cache = %q", rec.Header().Get("X-Cache"))
	}
}

func TestRedisCacheDropsResponseBuiltBeforeInvalidation(t *testing.T) {
	_, rdb := newRedis(t)
	cache := NewRedisCache(cacheConfig(), rdb, zap.NewNop())

	var calls int32
	e := echo.New()
	e.Use(cache.Middleware())
	e.GET("/v1/rooms", func(c echo.Context) error {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			// a write commits while this read is still building its body
			if err := cache.Invalidate(context.Background(), "rooms"); err != nil {
				t.Errorf("Invalidate: %v", err)
			}
		}
		return c.JSON(http.StatusOK, map[string]int32{"calls": n})
	})

	if rec := do(e, http.MethodGet, "/v1/rooms"); rec.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("first X-Cache = %q", rec.Header().Get("X-Cache"))
	}
	rec := do(e, http.MethodGet, "/v1/rooms")
	if rec.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("stale response served after invalidation, X-Cache = %q", rec.Header().Get("X-Cache"))
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("handler ran %d times, want 2", got)
	}
	if rec := do(e, http.MethodGet, "/v1/rooms"); rec.Header().Get("X-Cache") != "HIT" {
		t.Errorf("third X-Cache = %q", rec.Header().Get("X-Cache"))
	}
}

func TestRedisCacheBypassesWhenGenerationUnreadable(t *testing.T) {
	mr, rdb := newRedis(t)
	cache := NewRedisCache(cacheConfig(), rdb, zap.NewNop())
	// a non-integer counter makes the generation read fail
	mr.Set("test:cache:gen:rooms", "garbage")

	var calls int32
	e := echo.New()
	e.Use(cache.Middleware())
	e.GET("/v1/rooms", func(c echo.Context) error {
		atomic.AddInt32(&calls, 1)
		return c.JSON(http.StatusOK, []string{})
	})

	for i := 0; i < 2; i++ {
		rec := do(e, http.MethodGet, "/v1/rooms")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if h := rec.Header().Get("X-Cache"); h != "" {
			t.Errorf("X-Cache = %q, want none", h)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("handler ran %d times, want 2", got)
	}
}

func TestRedisCacheSkipsErrorsAndWrites(t *testing.T) {
	mr, rdb := newRedis(t)
	cache := NewRedisCache(cacheConfig(), rdb, zap.NewNop())

	e := echo.New()
	e.Use(cache.Middleware())
	e.GET("/v1/rooms/:id", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "missing"})
	})
	e.POST("/v1/rooms", func(c echo.Context) error { return c.NoContent(http.StatusCreated) })

	do(e, http.MethodGet, "/v1/rooms/nope")
	do(e, http.MethodPost, "/v1/rooms")
	if keys := mr.Keys(); len(keys) != 0 {
		t.Errorf("unexpected cache entries %v", keys)
	}
}

func TestRedisCacheDisabledWithoutClient(t *testing.T) {
	cache := NewRedisCache(cacheConfig(), nil, nil)
	e := echo.New()
	e.Use(cache.Middleware())
	e.GET("/v1/rooms", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := do(e, http.MethodGet, "/v1/rooms")
	if rec.Header().Get("X-Cache") != "" {
		t.Errorf("X-Cache = %q, want none", rec.Header().Get("X-Cache"))
	}
	if err := cache.Invalidate(context.Background(), "rooms"); err != nil {
		t.Errorf("Invalidate on disabled cache: %v", err)
	}
}

func TestResourceOf(t *testing.T) {
	cases := map[string]string{
		"/v1/rooms":             "rooms",
		"/v1/rooms/:id/status":  "rooms",
		"/v1/reports/dashboard": "reports",
		"/healthz":              "healthz",
		"/":                     "root",
	}
	for route, want := range cases {
		if got := resourceOf(route); got != want {
			t.Errorf("resourceOf(%q) = %q, want %q", route, got, want)
		}
	}
}

func TestTokenBucketBlocksAfterCapacity(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip_route",
		Prefix:         "test:rl",
	}
	e := echo.New()
	e.Use(NewTokenBucket(cfg, rdb, zap.NewNop()))
	e.GET("/v1/rooms", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/v1/guests", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for i := 0; i < 2; i++ {
		if rec := do(e, http.MethodGet, "/v1/rooms"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i+1, rec.Code)
		}
	}
	rec := do(e, http.MethodGet, "/v1/rooms")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: status %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("remaining = %q", rec.Header().Get("X-RateLimit-Remaining"))
	}

	// separate bucket per route
	if rec := do(e, http.MethodGet, "/v1/guests"); rec.Code != http.StatusOK {
		t.Errorf("other route: status %d", rec.Code)
	}
}

func TestTokenBucketFailsOpen(t *testing.T) {
	mr, rdb := newRedis(t)
	cfg := config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Minute, TTL: time.Hour, Prefix: "rl"}
	core, logs := observer.New(zap.WarnLevel)

	e := echo.New()
	e.Use(NewTokenBucket(cfg, rdb, zap.New(core)))
	e.GET("/v1/rooms", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	mr.Close()
	if rec := do(e, http.MethodGet, "/v1/rooms"); rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200 while redis is down", rec.Code)
	}
	if logs.FilterMessage("rate limiter unavailable").Len() == 0 {
		t.Error("expected a warning about the limiter")
	}
}

func TestRequestLoggerLevels(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := echo.New()
	e.Use(RequestLogger(zap.New(core)))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/missing", func(c echo.Context) error { return echo.NewHTTPError(http.StatusNotFound) })

	do(e, http.MethodGet, "/ok")
	do(e, http.MethodGet, "/missing")

	entries := logs.FilterMessage("request").All()
	if len(entries) != 2 {
		t.Fatalf("logged %d requests", len(entries))
	}
	if entries[0].Level != zap.InfoLevel || entries[1].Level != zap.WarnLevel {
		t.Errorf("levels = %s, %s", entries[0].Level, entries[1].Level)
	}
	if got := entries[1].ContextMap()["status"]; got != int64(http.StatusNotFound) {
		t.Errorf("status field = %v", got)
	}
}
