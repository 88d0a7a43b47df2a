package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"fmt"
	"log"
	"net/http"
	"time"

	"castlebooking/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// captureWriter tees the body into buf while forwarding it to the client.
type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func cacheKey(prefix string, c *gin.Context) string {
	sum := sha1.Sum([]byte(c.Request.Method + " " + c.Request.URL.RequestURI()))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}

// ResponseCache serves successful GET responses from Redis for cfg.TTL.
// With no client or caching disabled it does nothing.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) gin.HandlerFunc {
	if !cfg.Enabled || rdb == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := cacheKey(cfg.Prefix, c)

		if body, err := rdb.Get(ctx, key).Bytes(); err == nil {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		}

		cw := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = cw
		c.Header("X-Cache", "MISS")

		c.Next()

		if cw.Status() == http.StatusOK && cw.buf.Len() > 0 {
			storeCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := rdb.SetEx(storeCtx, key, cw.buf.Bytes(), cfg.TTL).Err(); err != nil {
				log.Printf("cache_store_failed key=%s error=%q", key, err.Error())
			}
		}
	}
}

// InvalidateCache drops every cached response after a successful write so
// that catalog reads do not outlive the change they describe.
func InvalidateCache(cfg config.CacheConfig, rdb *redis.Client) gin.HandlerFunc {
	if !cfg.Enabled || rdb == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == http.MethodGet || c.Writer.Status() >= http.StatusMultipleChoices {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		iter := rdb.Scan(ctx, 0, cfg.Prefix+":*", 100).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			log.Printf("cache_invalidate_failed prefix=%s error=%q", cfg.Prefix, err.Error())
			return
		}
		if len(keys) > 0 {
			if err := rdb.Del(ctx, keys...).Err(); err != nil {
				log.Printf("cache_invalidate_failed prefix=%s error=%q", cfg.Prefix, err.Error())
			}
		}
	}
}
