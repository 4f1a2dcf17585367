package middlewares

import (
	"net/http"
	"os"
	"strconv"
)

// BodySizeLimit caps request bodies on mutating methods. The API is pure
// JSON (cover uploads go straight to S3 via presigned URLs), so the default
// is a tight 1MB; MAX_BODY_SIZE overrides it in bytes.
func BodySizeLimit(next http.Handler) http.Handler {
	limit := int64(1 << 20)
	if v := os.Getenv("MAX_BODY_SIZE"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			r.Body = http.MaxBytesReader(w, r.Body, limit)
		}
		next.ServeHTTP(w, r)
	})
}
