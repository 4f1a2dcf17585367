package admin

import (
	"encoding/json"
	"net/http"
	"time"
)

// GET /admin/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// tiny cache (30s)
	cacheKey := "admin:stats"
	if v, err := h.RDB.Get(ctx, cacheKey).Result(); err == nil && v != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(200)
		_, _ = w.Write([]byte(v))
		return
	}

	users, publishers, err := h.Sto.CountAccounts(ctx)
	if err != nil {
		writeError(w, 500, "count_accounts_failed")
		return
	}
	booksTotal, booksAvail, err := h.Sto.CountBooks(ctx)
	if err != nil {
		writeError(w, 500, "count_books_failed")
		return
	}
	orders, err := h.Sto.CountOrders(ctx)
	if err != nil {
		writeError(w, 500, "count_orders_failed")
		return
	}
	signups, err := h.Sto.CountSignupsLast24h(ctx)
	if err != nil {
		writeError(w, 500, "count_signups_failed")
		return
	}

	out := StatsResponse{
		UsersTotal:      users,
		PublishersTotal: publishers,
		BooksTotal:      booksTotal,
		BooksAvailable:  booksAvail,
		OrdersTotal:     orders,
		SignupsLast24h:  signups,
	}
	b, _ := json.Marshal(out)
	_ = h.RDB.SetEx(ctx, cacheKey, b, 30*time.Second).Err()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)
	_, _ = w.Write(b)
}
