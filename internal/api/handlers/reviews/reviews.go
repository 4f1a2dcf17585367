// Package reviews exposes post-delivery book reviews.
package reviews

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/shelfswap/marketplace-api/internal/api/httpx"
	"github.com/shelfswap/marketplace-api/internal/api/middlewares"
	"github.com/shelfswap/marketplace-api/internal/models"
	storereviews "github.com/shelfswap/marketplace-api/internal/store/reviews"
)

type createReviewRequest struct {
	Rating    int    `json:"rating"`
	Text      string `json:"review"`
	OrderType string `json:"order_type"`
}

type updateReviewRequest struct {
	Rating *int    `json:"rating"`
	Text   *string `json:"review"`
}

// Create posts a review on a book the caller received in a delivered order.
func Create(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFrom(r.Context())
		if !ok {
			httpx.ErrorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		bookID := r.PathValue("bookId")
		if bookID == "" {
			httpx.ErrorJSON(w, http.StatusBadRequest, "missing book id")
			return
		}
		var req createReviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.ErrorJSON(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		out, err := storereviews.Create(r.Context(), db, userID, storereviews.CreateParams{
			BookID:    bookID,
			Rating:    req.Rating,
			Text:      req.Text,
			OrderType: models.ItemType(req.OrderType),
		})
		if err != nil {
			httpx.Domain(w, err)
			return
		}
		httpx.Created(w, out)
	}
}

// ListByBook returns a book's reviews, public.
func ListByBook(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookID := r.PathValue("bookId")
		if bookID == "" {
			httpx.ErrorJSON(w, http.StatusBadRequest, "missing book id")
			return
		}
		out, err := storereviews.ListByBook(r.Context(), db, bookID)
		if err != nil {
			httpx.Domain(w, err)
			return
		}
		httpx.OK(w, out)
	}
}

// Update edits the caller's own review.
func Update(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFrom(r.Context())
		if !ok {
			httpx.ErrorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		reviewID := r.PathValue("id")
		if reviewID == "" {
			httpx.ErrorJSON(w, http.StatusBadRequest, "missing review id")
			return
		}
		var req updateReviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.ErrorJSON(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		out, err := storereviews.Update(r.Context(), db, userID, reviewID, storereviews.UpdateParams{
			Rating: req.Rating,
			Text:   req.Text,
		})
		if err != nil {
			httpx.Domain(w, err)
			return
		}
		httpx.OK(w, out)
	}
}

// Delete removes the caller's own review.
func Delete(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFrom(r.Context())
		if !ok {
			httpx.ErrorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		reviewID := r.PathValue("id")
		if reviewID == "" {
			httpx.ErrorJSON(w, http.StatusBadRequest, "missing review id")
			return
		}
		if err := storereviews.Delete(r.Context(), db, userID, reviewID); err != nil {
			httpx.Domain(w, err)
			return
		}
		httpx.OKMessage(w, "Review deleted")
	}
}
