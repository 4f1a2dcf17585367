package books

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/shelfswap/marketplace-api/internal/api/apperr"
	"github.com/shelfswap/marketplace-api/internal/api/httpx"
	"github.com/shelfswap/marketplace-api/internal/api/middlewares"
	"github.com/shelfswap/marketplace-api/internal/models"
	storebooks "github.com/shelfswap/marketplace-api/internal/store/books"
	"github.com/shelfswap/marketplace-api/internal/store/catalog"
)

// Create lists a single book for the authenticated account.
func Create(db *sql.DB, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, role, ok := caller(r)
		if !ok {
			httpx.ErrorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createBookRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.ErrorJSON(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		dto, err := req.toDTO(userID, role)
		if err != nil {
			httpx.Domain(w, err)
			return
		}
		if errs := priceErrors(dto); len(errs) > 0 {
			apperr.Write(w, r, fieldProblem(errs))
			return
		}

		b, err := storebooks.Create(r.Context(), db, dto)
		if err != nil {
			writeStoreErr(w, r, err)
			return
		}
		bumpCatalog(r.Context(), rdb)
		httpx.Created(w, b)
	}
}

// BulkCreate lists a publisher's batch in one shot; the whole batch succeeds
// or fails together.
func BulkCreate(db *sql.DB, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, role, ok := caller(r)
		if !ok {
			httpx.ErrorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if role != models.RolePublisher && role != models.RoleAdmin {
			httpx.ErrorJSON(w, http.StatusForbidden, "bulk upload is for publishers")
			return
		}

		var body struct {
			Books []createBookRequest `json:"books"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			httpx.ErrorJSON(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if len(body.Books) == 0 || len(body.Books) > 100 {
			httpx.ErrorJSON(w, http.StatusBadRequest, "books must contain between 1 and 100 entries")
			return
		}

		dtos := make([]storebooks.CreateBookDTO, 0, len(body.Books))
		for _, req := range body.Books {
			dto, err := req.toDTO(userID, role)
			if err != nil {
				httpx.Domain(w, err)
				return
			}
			if errs := priceErrors(dto); len(errs) > 0 {
				apperr.Write(w, r, fieldProblem(errs))
				return
			}
			dtos = append(dtos, dto)
		}

		out, err := storebooks.BulkCreate(r.Context(), db, dtos)
		if err != nil {
			writeStoreErr(w, r, err)
			return
		}
		bumpCatalog(r.Context(), rdb)
		httpx.Created(w, out)
	}
}

func caller(r *http.Request) (string, models.Role, bool) {
	userID, ok := middlewares.UserIDFrom(r.Context())
	if !ok {
		return "", "", false
	}
	role, _ := middlewares.RoleFrom(r.Context())
	return userID, models.Role(role), true
}

// writeStoreErr maps the books store sentinels onto the error envelope.
// Unrecognized database errors go through the SQLSTATE mapping first so
// constraint failures surface as field errors instead of a blank 500.
func writeStoreErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storebooks.ErrNotFound):
		httpx.ErrorJSON(w, http.StatusNotFound, "Book not found")
	case errors.Is(err, storebooks.ErrInvalid):
		httpx.ErrorJSON(w, http.StatusBadRequest, "price does not match the listing type")
	case errors.Is(err, storebooks.ErrConflict):
		httpx.ErrorJSON(w, http.StatusConflict, "a book with this ISBN already exists for this seller")
	default:
		if p, ok := apperr.FromPG(err); ok {
			apperr.Write(w, r, p)
			return
		}
		httpx.Domain(w, err)
	}
}

func bumpCatalog(ctx context.Context, rdb *redis.Client) {
	_ = catalog.BumpVersion(ctx, rdb)
}
