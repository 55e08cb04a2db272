package middleware

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	apiCachePrefix          = "hub-api-cache:"
	defaultHTTPCacheTTL     = 15 * time.Second
	defaultHTTPCacheMaxBody = 1 << 20 // 1 MiB
)

// HTTPCacheOptions tunes the Redis-backed response cache.
type HTTPCacheOptions struct {
	TTL          time.Duration
	Disable      bool
	MaxBodyBytes int
}

type cachedHTTPResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	BodyBase64  string `json:"body_base64"`
}

type cacheBodyWriter struct {
	gin.ResponseWriter
	body         []byte
	maxBodyBytes int
	overflow     bool
}

func (w *cacheBodyWriter) Write(data []byte) (int, error) {
	w.capture(data)
	return w.ResponseWriter.Write(data)
}

func (w *cacheBodyWriter) WriteString(s string) (int, error) {
	w.capture([]byte(s))
	return w.ResponseWriter.WriteString(s)
}

func (w *cacheBodyWriter) capture(data []byte) {
	if w.maxBodyBytes <= 0 || w.overflow || len(data) == 0 {
		return
	}
	remaining := w.maxBodyBytes - len(w.body)
	if remaining <= 0 {
		w.overflow = true
		return
	}
	if len(data) > remaining {
		w.body = append(w.body, data[:remaining]...)
		w.overflow = true
		return
	}
	w.body = append(w.body, data...)
}

// HTTPCache returns a middleware that caches successful anonymous GET
// responses in Redis for a short TTL. Attach it only to routes whose output
// does not vary by cookie: the access gate must never be cached.
func HTTPCache(rdb *redis.Client, opts HTTPCacheOptions) gin.HandlerFunc {
	if opts.TTL <= 0 {
		opts.TTL = defaultHTTPCacheTTL
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultHTTPCacheMaxBody
	}

	return func(c *gin.Context) {
		if opts.Disable || rdb == nil || c.Request.Method != http.MethodGet || IsAdmin(c) {
			c.Next()
			return
		}

		key := apiCachePrefix + c.Request.URL.RequestURI()
		ctx := c.Request.Context()

		if raw, err := rdb.Get(ctx, key).Result(); err == nil {
			var cached cachedHTTPResponse
			if json.Unmarshal([]byte(raw), &cached) == nil {
				if body, err := base64.StdEncoding.DecodeString(cached.BodyBase64); err == nil {
					c.Header("x-hub-cache", "hit")
					c.Data(cached.Status, cached.ContentType, body)
					c.Abort()
					return
				}
			}
		}

		writer := &cacheBodyWriter{ResponseWriter: c.Writer, maxBodyBytes: opts.MaxBodyBytes}
		c.Writer = writer

		c.Next()

		status := writer.Status()
		if status < 200 || status >= 300 || writer.overflow || len(writer.body) == 0 {
			return
		}

		cached := cachedHTTPResponse{
			Status:      status,
			ContentType: writer.Header().Get("Content-Type"),
			BodyBase64:  base64.StdEncoding.EncodeToString(writer.body),
		}
		if raw, err := json.Marshal(cached); err == nil {
			// request context may already be canceled once the handler returns
			storeCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			rdb.Set(storeCtx, key, raw, opts.TTL)
		}
	}
}
