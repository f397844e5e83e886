// Package cache stores public GET responses in Redis. Keys embed a
// per-namespace version so a namespace is invalidated with one INCR.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	infracontext "github.com/Hayal27/sininning-pro-sub000/infrastructure/context"
	"github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/internal/metrics"
)

// Namespaces of cached public content.
const (
	NamespaceHero       = "hero"
	NamespaceCategories = "categories"
	NamespaceProducts   = "products"
	NamespaceNews       = "news"
	NamespaceCareers    = "careers"
	NamespaceOffices    = "offices"
)

const (
	keyPrefix        = "cache:"
	defaultTTL       = 5 * time.Minute
	operationTimeout = 2 * time.Second

	// HeaderCache reports HIT or MISS on cached routes.
	HeaderCache = "X-Cache"
)

// Cache is a Redis JSON cache. A nil *Cache is valid and caches nothing.
type Cache struct {
	client  redis.Cmdable
	ttl     time.Duration
	logger  logger.Logger
	metrics *metrics.Metrics
}

// New returns a cache over client, or nil when client is nil.
func New(client *redis.Client, ttl time.Duration, log logger.Logger, m *metrics.Metrics) *Cache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, ttl: ttl, logger: log, metrics: m}
}

func versionKey(namespace string) string {
	return keyPrefix + namespace + ":version"
}

func (c *Cache) key(ctx context.Context, namespace, key string) (string, error) {
	version, err := c.client.Get(ctx, versionKey(namespace)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("read cache version: %w", err)
	}
	return keyPrefix + namespace + ":v" + strconv.FormatInt(version, 10) + ":" + key, nil
}

// Get decodes the cached value into dest and reports whether it was found.
func (c *Cache) Get(ctx context.Context, namespace, key string, dest any) (bool, error) {
	if c == nil {
		return false, nil
	}

	fullKey, err := c.key(ctx, namespace, key)
	if err != nil {
		return false, err
	}
	return c.load(ctx, fullKey, dest)
}

// Set stores value as JSON under the current namespace version.
func (c *Cache) Set(ctx context.Context, namespace, key string, value any) error {
	if c == nil {
		return nil
	}

	fullKey, err := c.key(ctx, namespace, key)
	if err != nil {
		return err
	}
	return c.store(ctx, fullKey, value)
}

func (c *Cache) load(ctx context.Context, fullKey string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, fullKey).Bytes()
	if errors.Is(err, redis.Nil) {
		c.metrics.RecordCache(false)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read cache: %w", err)
	}

	if err = json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode cache entry: %w", err)
	}
	c.metrics.RecordCache(true)
	return true, nil
}

func (c *Cache) store(ctx context.Context, fullKey string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	if err = c.client.Set(ctx, fullKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}

// Invalidate bumps the version of each namespace. Old entries expire by TTL.
func (c *Cache) Invalidate(ctx context.Context, namespaces ...string) {
	if c == nil {
		return
	}

	ctx, cancel := infracontext.Detached(ctx, operationTimeout)
	defer cancel()

	pipe := c.client.Pipeline()
	for _, ns := range namespaces {
		pipe.Incr(ctx, versionKey(ns))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn("Cache invalidation failed",
			logger.Strings("namespaces", namespaces),
			logger.Error(err),
		)
		return
	}

	c.logger.Debug("Cache invalidated", logger.Strings("namespaces", namespaces))
}

type cachedResponse struct {
	Status      int             `json:"status"`
	ContentType string          `json:"content_type"`
	Body        json.RawMessage `json:"body"`
}

type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Middleware serves GET responses from the namespace and stores successful
// JSON responses keyed by the request URI. The versioned key is resolved once
// per request, so a response computed before an invalidation is stored under
// the old version. Redis errors bypass the cache.
func (c *Cache) Middleware(namespace string) gin.HandlerFunc {
	return func(gc *gin.Context) {
		if c == nil || gc.Request.Method != http.MethodGet {
			gc.Next()
			return
		}

		ctx := gc.Request.Context()
		log := logger.FromContext(ctx)

		fullKey, err := c.key(ctx, namespace, gc.Request.URL.RequestURI())
		if err != nil {
			log.Warn("Cache read failed", logger.String("namespace", namespace), logger.Error(err))
			gc.Next()
			return
		}

		var cached cachedResponse
		found, err := c.load(ctx, fullKey, &cached)
		if err != nil {
			log.Warn("Cache read failed", logger.String("namespace", namespace), logger.Error(err))
		}
		if found {
			gc.Header(HeaderCache, "HIT")
			gc.Data(cached.Status, cached.ContentType, cached.Body)
			gc.Abort()
			return
		}

		gc.Header(HeaderCache, "MISS")
		recorder := &bodyRecorder{ResponseWriter: gc.Writer}
		gc.Writer = recorder

		gc.Next()

		if recorder.Status() != http.StatusOK || !json.Valid(recorder.buf.Bytes()) {
			return
		}

		entry := cachedResponse{
			Status:      recorder.Status(),
			ContentType: recorder.Header().Get("Content-Type"),
			Body:        recorder.buf.Bytes(),
		}
		if err = c.store(ctx, fullKey, entry); err != nil {
			log.Warn("Cache write failed", logger.String("namespace", namespace), logger.Error(err))
		}
	}
}
