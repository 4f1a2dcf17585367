package books

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/shelfswap/marketplace-api/internal/api/httpx"
	"github.com/shelfswap/marketplace-api/internal/store/books"
	"github.com/shelfswap/marketplace-api/internal/store/catalog"
	"github.com/shelfswap/marketplace-api/internal/validate"
)

// List serves the public catalog: available books only, filter and sort
// driven by query parameters, pages cached in Redis.
func List(db *sql.DB, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limit, offset := validate.ClampLimitOffset(q.Get("limit"), q.Get("offset"), 20, 100)

		f := books.ListFilters{
			Search:      strings.TrimSpace(q.Get("search")),
			Genre:       strings.TrimSpace(q.Get("genre")),
			ListingType: strings.ToLower(strings.TrimSpace(q.Get("type"))),
			Sort:        strings.ToLower(strings.TrimSpace(q.Get("sort"))),
			Limit:       limit,
			Offset:      offset,
		}

		rows, total, err := catalog.List(r.Context(), db, rdb, f)
		if err != nil {
			httpx.Domain(w, err)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, struct {
			Status string              `json:"status"`
			Data   []books.CatalogBook `json:"data"`
			Total  int                 `json:"total"`
			Limit  int                 `json:"limit"`
			Offset int                 `json:"offset"`
		}{"success", rows, total, limit, offset})
	}
}
