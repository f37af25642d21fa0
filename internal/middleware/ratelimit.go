package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/openheartlab/openheart-backend/internal/database"
	"github.com/openheartlab/openheart-backend/pkg/clientip"
)

const (
	// RateLimitWindow is the fixed window for counting requests per IP.
	RateLimitWindow = 60 * time.Second
	// RateLimitMaxRequests is the number of requests allowed per window.
	RateLimitMaxRequests = 60
	// RateLimitKeyPrefix is the Redis key prefix for rate limiting.
	RateLimitKeyPrefix = "ratelimit:"
)

// RateLimit provides fixed-window per-IP rate limiting backed by Redis.
// It passes everything through when Redis is not connected.
func RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if database.RedisClient == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.Background()
		key := RateLimitKeyPrefix + clientip.RealClientIP(r)

		count, err := database.RedisClient.Incr(ctx, key).Result()
		if err != nil {
			// Redis trouble must not take the API down
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			database.RedisClient.Expire(ctx, key, RateLimitWindow)
		}

		if count > RateLimitMaxRequests {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"Too many requests. Please try again later."}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}
