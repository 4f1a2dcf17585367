package books

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/shelfswap/marketplace-api/internal/api/httpx"
	"github.com/shelfswap/marketplace-api/internal/models"
	storebooks "github.com/shelfswap/marketplace-api/internal/store/books"
)

// Patch updates a listing. Only the uploader (or an admin) may touch it.
func Patch(db *sql.DB, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if !mayEdit(w, r, db, id) {
			return
		}

		var req updateBookRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.ErrorJSON(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		dto, err := patchDTO(req)
		if err != nil {
			httpx.Domain(w, err)
			return
		}

		b, err := storebooks.Update(r.Context(), db, id, dto)
		if err != nil {
			writeStoreErr(w, r, err)
			return
		}
		bumpCatalog(r.Context(), rdb)
		httpx.OK(w, b)
	}
}

// Delete removes a listing; books tied to a live order are refused.
func Delete(db *sql.DB, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if !mayEdit(w, r, db, id) {
			return
		}

		err := storebooks.Delete(r.Context(), db, id)
		if errors.Is(err, storebooks.ErrConflict) {
			httpx.ErrorJSON(w, http.StatusConflict, "book is part of an active order")
			return
		}
		if err != nil {
			writeStoreErr(w, r, err)
			return
		}
		bumpCatalog(r.Context(), rdb)
		httpx.OKMessage(w, "Book deleted")
	}
}

// mayEdit enforces the ownership rule and writes the refusal itself.
func mayEdit(w http.ResponseWriter, r *http.Request, db *sql.DB, id string) bool {
	if id == "" {
		httpx.ErrorJSON(w, http.StatusBadRequest, "missing book id")
		return false
	}
	userID, role, ok := caller(r)
	if !ok {
		httpx.ErrorJSON(w, http.StatusUnauthorized, "unauthorized")
		return false
	}
	if role == models.RoleAdmin {
		return true
	}
	owner, err := storebooks.OwnerOf(r.Context(), db, id)
	if errors.Is(err, storebooks.ErrNotFound) {
		httpx.ErrorJSON(w, http.StatusNotFound, "Book not found")
		return false
	}
	if err != nil {
		httpx.Domain(w, err)
		return false
	}
	if owner != userID {
		httpx.ErrorJSON(w, http.StatusForbidden, "you can only modify your own listings")
		return false
	}
	return true
}

func patchDTO(req updateBookRequest) (storebooks.UpdateBookDTO, error) {
	var dto storebooks.UpdateBookDTO
	if req.Title != nil {
		t := strings.TrimSpace(*req.Title)
		if t == "" {
			return dto, models.Validation("title cannot be empty")
		}
		dto.Title = &t
	}
	if req.Author != nil {
		a := strings.TrimSpace(*req.Author)
		if a == "" {
			return dto, models.Validation("author cannot be empty")
		}
		dto.Author = &a
	}
	if req.Genre != nil {
		if !models.ValidGenre(*req.Genre) {
			return dto, models.Validation("unknown genre")
		}
		dto.Genre = req.Genre
	}
	if req.Description != nil {
		dto.Description = req.Description
	}
	if req.ListingType != nil {
		lt := models.ListingType(strings.ToLower(strings.TrimSpace(*req.ListingType)))
		if !models.ValidListingType(lt) {
			return dto, models.Validation("listing_type must be sale, lease, or both")
		}
		dto.ListingType = &lt
	}
	if req.Price != nil {
		p := req.Price.toModel()
		dto.Price = &p
	}
	if req.LeaseTerms != nil {
		dto.LeaseTerms = req.LeaseTerms
	}
	return dto, nil
}
