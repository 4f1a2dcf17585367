package books

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/shelfswap/marketplace-api/internal/api/httpx"
	"github.com/shelfswap/marketplace-api/internal/api/middlewares"
	"github.com/shelfswap/marketplace-api/internal/metrics/viewqueue"
	storebooks "github.com/shelfswap/marketplace-api/internal/store/books"
	"github.com/shelfswap/marketplace-api/internal/store/wishlist"
)

// detail is a catalog row plus the viewer's wishlist flag, present only for
// authenticated requests.
type detail struct {
	storebooks.CatalogBook
	InWishlist *bool `json:"in_wishlist,omitempty"`
}

// Get returns one listing with its uploader populated and records a view
// event for the popularity feed (non-blocking). Routed behind OptionalAuth:
// a logged-in viewer also gets in_wishlist.
func Get(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			httpx.ErrorJSON(w, http.StatusBadRequest, "missing book id")
			return
		}

		b, err := storebooks.Get(r.Context(), db, id)
		if errors.Is(err, storebooks.ErrNotFound) {
			httpx.ErrorJSON(w, http.StatusNotFound, "Book not found")
			return
		}
		if err != nil {
			httpx.Domain(w, err)
			return
		}

		out := detail{CatalogBook: b}
		if uid, ok := middlewares.UserIDFrom(r.Context()); ok {
			if saved, err := wishlist.Contains(r.Context(), db, uid, b.ID); err == nil {
				out.InWishlist = &saved
			}
		}

		viewqueue.Enqueue(b.ID)
		httpx.OK(w, out)
	}
}
