package middlewares

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginRateLimit throttles credential guessing per source IP, separately
// from the global limiters. Counter lives in Redis so all instances share it.
func LoginRateLimit(rdb *redis.Client, next http.Handler) http.Handler {
	maxAttempts := envInt("LOGIN_MAX_ATTEMPTS", 10)
	window := envDur("LOGIN_WINDOW", "5m")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if ip == "" || rdb == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		key := "rl:login:" + ip

		n, err := rdb.Incr(ctx, key).Result()
		if err == nil && n == 1 {
			_ = rdb.Expire(ctx, key, window).Err()
		}
		if err == nil && n > int64(maxAttempts) {
			w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
			http.Error(w, "too many login attempts", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDur(k, def string) time.Duration {
	s := def
	if v := os.Getenv(k); v != "" {
		s = v
	}
	d, _ := time.ParseDuration(s)
	return d
}
