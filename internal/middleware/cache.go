package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-front-desk/internal/config"
	"github.com/iliyamo/hotel-front-desk/internal/events"
)

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) { cw.status = code; cw.ResponseWriter.WriteHeader(code) }

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 || cw.size+int64(len(b)) <= cw.limit {
		cw.buf.Write(b)
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

func (cw *captureWriter) truncated() bool { return cw.limit > 0 && cw.size > cw.limit }

// resourceOf maps a route template to the resource whose changes invalidate
// it: "/v1/rooms/:id" -> "rooms", "/v1/reports/summary" -> "reports".
func resourceOf(route string) string {
	for _, seg := range strings.Split(strings.Trim(route, "/"), "/") {
		if seg == "" || seg == "v1" || seg == "api" {
			continue
		}
		return seg
	}
	return "root"
}

// routeOf is the matched route template, or the raw path when none matched.
func routeOf(c echo.Context) string {
	if route := c.Path(); route != "" {
		return route
	}
	return c.Request().URL.Path
}

// Build a stable cache key honoring prefix/strategy.  The resource segment
// stays readable so invalidation can match on it; gen is the resource's
// generation when the request started.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context, gen int64) string {
	r := c.Request()
	method := r.Method
	query := r.URL.RawQuery
	target := routeOf(c)

	var parts []string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		parts = append(parts, "route", target)
	case "method_route":
		parts = append(parts, "method", method, "route", target)
	case "method_route_query":
		parts = append(parts, "method", method, "route", target, "q", query)
	default: // "route_query"
		parts = append(parts, "route", target, "q", query)
	}
	// Concrete path so /rooms/a and /rooms/b don't collide.
	parts = append(parts, "path", r.URL.Path)

	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%s:%s:%d:%x", cfg.Prefix, resourceOf(target), gen, sum[:])
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	total := 4 + 4 + len(hdrJSON) + len(body)
	out := make([]byte, total)
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:8+len(hdrJSON)], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	var hdr http.Header
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &hdr); err != nil {
			return 0, nil, nil, false
		}
	} else {
		hdr = make(http.Header)
	}
	body = bs[8+hlen:]
	return status, hdr, body, true
}

// per-request headers that must not be replayed from the cache
var skipReplay = map[string]bool{
	"Content-Length":              true,
	"X-Request-Id":                true,
	"X-Cache":                     true,
	"X-Ratelimit-Limit":           true,
	"X-Ratelimit-Remaining":       true,
	"Access-Control-Allow-Origin": true,
}

// RedisCache is a read-through response cache.  Entries are grouped by
// resource and dropped whenever an event touches that resource, so the TTL
// is only a backstop.
type RedisCache struct {
	cfg config.CacheConfig
	rdb *redis.Client
	log *zap.Logger
}

func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client, log *zap.Logger) *RedisCache {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	return &RedisCache{cfg: cfg, rdb: rdb, log: log}
}

func (rc *RedisCache) enabled() bool { return rc != nil && rc.cfg.Enabled && rc.rdb != nil }

// Middleware stores headers + body so clients see identical formatting as the original.
func (rc *RedisCache) Middleware() echo.MiddlewareFunc {
	if !rc.enabled() {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	cfg, rdb := rc.cfg, rc.rdb
	maxBody := int64(cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] || isUpgrade(c.Request()) {
				return next(c)
			}

			ctx := c.Request().Context()
			// Read the generation before the handler runs: a write that
			// lands mid-request bumps it and strands what we store.
			gen, err := rc.generation(ctx, resourceOf(routeOf(c)))
			if err != nil {
				rc.log.Debug("cache generation unavailable", zap.Error(err))
				return next(c)
			}
			key := cacheKeyFrom(cfg, c, gen)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range hdr {
						if skipReplay[http.CanonicalHeaderKey(k)] {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					if len(body) > 0 {
						_, _ = c.Response().Write(body)
					}
					return nil
				}
			}

			// Miss: capture
			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if cw.status == http.StatusOK && !cw.truncated() {
				hdr := make(http.Header, len(c.Response().Header()))
				for k, vals := range c.Response().Header() {
					vv := make([]string, len(vals))
					copy(vv, vals)
					hdr[k] = vv
				}
				if payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes()); err == nil {
					if err := rdb.SetEx(context.Background(), key, payload, cfg.TTL).Err(); err != nil {
						rc.log.Debug("cache store failed", zap.String("key", key), zap.Error(err))
					}
				}
			}
			return nil
		}
	}
}

func (rc *RedisCache) generationKey(resource string) string {
	return fmt.Sprintf("%s:gen:%s", rc.cfg.Prefix, resource)
}

func (rc *RedisCache) generation(ctx context.Context, resource string) (int64, error) {
	n, err := rc.rdb.Get(ctx, rc.generationKey(resource)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// Invalidate bumps the generation of each resource, then removes the cached
// responses stored under earlier generations.
func (rc *RedisCache) Invalidate(ctx context.Context, resources ...string) error {
	if !rc.enabled() {
		return nil
	}
	for _, res := range resources {
		if err := rc.rdb.Incr(ctx, rc.generationKey(res)).Err(); err != nil {
			return fmt.Errorf("bump generation of %s: %w", res, err)
		}
		pattern := fmt.Sprintf("%s:%s:*", rc.cfg.Prefix, res)
		iter := rc.rdb.Scan(ctx, 0, pattern, 100).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("scan %s: %w", pattern, err)
		}
		if len(keys) == 0 {
			continue
		}
		if err := rc.rdb.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("delete %s: %w", pattern, err)
		}
	}
	return nil
}

// OnEvent is an events.Handler that drops the cache for every resource the
// event touches.
func (rc *RedisCache) OnEvent(e events.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rc.Invalidate(ctx, e.Resources...); err != nil {
		rc.log.Warn("cache invalidation failed",
			zap.String("event", string(e.Type)),
			zap.Strings("resources", e.Resources),
			zap.Error(err))
	}
}

func isUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}
