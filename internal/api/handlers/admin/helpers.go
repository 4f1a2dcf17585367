package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func pathID(r *http.Request) string { return r.PathValue("id") }

func validatePagination(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 200 {
		size = 25
	}
	return page, size
}

func rateKey(prefix, adminID string) string { return "admin:rl:" + prefix + ":" + adminID }

// allowAction is a small per-admin counter in Redis guarding destructive
// endpoints against runaway scripts.
func (h *Handler) allowAction(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	pipe := h.RDB.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	_, err := pipe.Exec(ctx)
	if err != nil {
		return false, err
	}
	return int(incr.Val()) <= limit, nil
}
