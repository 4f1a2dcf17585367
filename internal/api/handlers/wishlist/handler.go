package wishlist

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/shelfswap/marketplace-api/internal/api/httpx"
	"github.com/shelfswap/marketplace-api/internal/api/middlewares"
	storewishlist "github.com/shelfswap/marketplace-api/internal/store/wishlist"
)

// Add saves a book to the caller's wishlist.
func Add(db *sql.DB) http.HandlerFunc {
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
		if err := storewishlist.Add(r.Context(), db, userID, bookID); err != nil {
			httpx.Domain(w, err)
			return
		}
		httpx.OKMessage(w, "Book saved")
	}
}

// Remove drops a book from the caller's wishlist.
func Remove(db *sql.DB) http.HandlerFunc {
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
		if err := storewishlist.Remove(r.Context(), db, userID, bookID); err != nil {
			httpx.Domain(w, err)
			return
		}
		httpx.OKMessage(w, "Book removed")
	}
}

// List returns the caller's saved books with live availability.
func List(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFrom(r.Context())
		if !ok {
			httpx.ErrorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		items, err := storewishlist.List(r.Context(), db, userID, limit)
		if err != nil {
			httpx.Domain(w, err)
			return
		}
		httpx.OK(w, items)
	}
}
