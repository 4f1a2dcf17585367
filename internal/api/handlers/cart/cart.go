// Package cart exposes the per-user shopping cart. Every mutation returns the
// full cart with its recomputed total so clients never do price math.
package cart

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shelfswap/marketplace-api/internal/api/httpx"
	"github.com/shelfswap/marketplace-api/internal/api/middlewares"
	"github.com/shelfswap/marketplace-api/internal/models"
	"github.com/shelfswap/marketplace-api/internal/store/carts"
)

type addItemRequest struct {
	BookID         string              `json:"book_id"`
	Quantity       int                 `json:"quantity"`
	Type           string              `json:"type"`
	RentalDuration *rentalDurationBody `json:"rental_duration"`
}

type updateItemRequest struct {
	Quantity       *int                `json:"quantity"`
	RentalDuration *rentalDurationBody `json:"rental_duration"`
}

type rentalDurationBody struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

func (b *rentalDurationBody) toModel() *models.RentalDuration {
	if b == nil {
		return nil
	}
	return &models.RentalDuration{StartDate: b.StartDate, EndDate: b.EndDate}
}

// Get returns the caller's cart.
func Get(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFrom(r.Context())
		if !ok {
			httpx.ErrorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		c, err := carts.Get(r.Context(), db, userID)
		if err != nil {
			httpx.Domain(w, err)
			return
		}
		httpx.OK(w, c)
	}
}

// AddItem puts a book in the cart, creating the cart on first use.
func AddItem(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFrom(r.Context())
		if !ok {
			httpx.ErrorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		var req addItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.ErrorJSON(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.BookID == "" {
			httpx.ErrorJSON(w, http.StatusBadRequest, "book_id is required")
			return
		}

		c, err := carts.AddItem(r.Context(), db, userID, carts.AddItemParams{
			BookID:         req.BookID,
			Quantity:       req.Quantity,
			Type:           models.ItemType(req.Type),
			RentalDuration: req.RentalDuration.toModel(),
		})
		if err != nil {
			httpx.Domain(w, err)
			return
		}
		httpx.Created(w, c)
	}
}

// UpdateItem patches a cart line's quantity or rental window.
func UpdateItem(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFrom(r.Context())
		if !ok {
			httpx.ErrorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		itemID := r.PathValue("itemId")
		if itemID == "" {
			httpx.ErrorJSON(w, http.StatusBadRequest, "missing item id")
			return
		}
		var req updateItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.ErrorJSON(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		c, err := carts.UpdateItem(r.Context(), db, userID, itemID, carts.UpdateItemParams{
			Quantity:       req.Quantity,
			RentalDuration: req.RentalDuration.toModel(),
		})
		if err != nil {
			httpx.Domain(w, err)
			return
		}
		httpx.OK(w, c)
	}
}

// RemoveItem drops a cart line.
func RemoveItem(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFrom(r.Context())
		if !ok {
			httpx.ErrorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		itemID := r.PathValue("itemId")
		if itemID == "" {
			httpx.ErrorJSON(w, http.StatusBadRequest, "missing item id")
			return
		}

		c, err := carts.RemoveItem(r.Context(), db, userID, itemID)
		if err != nil {
			httpx.Domain(w, err)
			return
		}
		httpx.OK(w, c)
	}
}
