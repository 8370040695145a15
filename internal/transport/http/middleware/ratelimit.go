package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"conduit-api/internal/transport/http/response"
)

// RateLimit caps requests per client IP within a fixed window. Redis errors
// let the request through.
func RateLimit(client *redis.Client, prefix string, maxRequests int, window time.Duration) gin.HandlerFunc {
	if client == nil || maxRequests <= 0 || window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := "ratelimit:" + prefix + ":" + c.ClientIP()
		ctx := c.Request.Context()

		pipe := client.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		if _, err := pipe.Exec(ctx); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("rate limit check failed")
			c.Next()
			return
		}

		if incr.Val() > int64(maxRequests) {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			response.Error(c, http.StatusTooManyRequests, "request", "too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}
