// Package orders exposes checkout and the post-purchase lifecycle.
package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/shelfswap/marketplace-api/internal/api/httpx"
	"github.com/shelfswap/marketplace-api/internal/api/middlewares"
	"github.com/shelfswap/marketplace-api/internal/models"
	"github.com/shelfswap/marketplace-api/internal/store/catalog"
	storeorders "github.com/shelfswap/marketplace-api/internal/store/orders"
)

type checkoutRequest struct {
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method"`
}

// Create converts the caller's cart into an order. Sold and rented books
// leave the catalog, so the catalog cache version is bumped on success.
func Create(db *sql.DB, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFrom(r.Context())
		if !ok {
			httpx.ErrorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		var req checkoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.ErrorJSON(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		o, err := storeorders.Checkout(r.Context(), db, userID, storeorders.CheckoutParams{
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   req.PaymentMethod,
		})
		if err != nil {
			httpx.Domain(w, err)
			return
		}
		bumpCatalog(r.Context(), rdb)
		httpx.Created(w, o)
	}
}

// List returns the caller's orders newest-first.
func List(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFrom(r.Context())
		if !ok {
			httpx.ErrorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		out, err := storeorders.List(r.Context(), db, userID)
		if err != nil {
			httpx.Domain(w, err)
			return
		}
		httpx.OK(w, out)
	}
}

// Get returns one of the caller's orders.
func Get(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFrom(r.Context())
		if !ok {
			httpx.ErrorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		orderID := r.PathValue("id")
		if orderID == "" {
			httpx.ErrorJSON(w, http.StatusBadRequest, "missing order id")
			return
		}
		o, err := storeorders.Get(r.Context(), db, userID, orderID)
		if err != nil {
			httpx.Domain(w, err)
			return
		}
		httpx.OK(w, o)
	}
}

// UpdateStatus moves an order along the fulfillment machine. Mounted behind
// the admin gate; cancellation puts the books back in the catalog.
func UpdateStatus(db *sql.DB, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := r.PathValue("id")
		if orderID == "" {
			httpx.ErrorJSON(w, http.StatusBadRequest, "missing order id")
			return
		}
		var body struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			httpx.ErrorJSON(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		o, err := storeorders.UpdateStatus(r.Context(), db, orderID, models.OrderStatus(body.Status))
		if err != nil {
			httpx.Domain(w, err)
			return
		}
		if o.Status == models.OrderCancelled {
			bumpCatalog(r.Context(), rdb)
		}
		httpx.OK(w, o)
	}
}

// CompleteRental returns a rented book to the catalog and closes the line.
func CompleteRental(db *sql.DB, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFrom(r.Context())
		if !ok {
			httpx.ErrorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		var body struct {
			OrderID string `json:"order_id"`
			BookID  string `json:"book_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			httpx.ErrorJSON(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if body.OrderID == "" || body.BookID == "" {
			httpx.ErrorJSON(w, http.StatusBadRequest, "order_id and book_id are required")
			return
		}

		o, err := storeorders.CompleteRental(r.Context(), db, userID, body.OrderID, body.BookID)
		if err != nil {
			httpx.Domain(w, err)
			return
		}
		bumpCatalog(r.Context(), rdb)
		httpx.OK(w, o)
	}
}

func bumpCatalog(ctx context.Context, rdb *redis.Client) {
	_ = catalog.BumpVersion(ctx, rdb)
}
