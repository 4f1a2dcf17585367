package books

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shelfswap/marketplace-api/internal/api/httpx"
	storebooks "github.com/shelfswap/marketplace-api/internal/store/books"
	"github.com/shelfswap/marketplace-api/internal/storage/s3"
)

// CoverUpload hands the owner a presigned PUT URL and records the object key
// on the listing. The client uploads straight to the bucket; the API never
// proxies image bytes.
func CoverUpload(db *sql.DB, s3c *s3.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if !mayEdit(w, r, db, id) {
			return
		}
		if s3c == nil {
			httpx.ErrorJSON(w, http.StatusServiceUnavailable, "cover storage is not configured")
			return
		}

		var body struct {
			ContentType string `json:"content_type"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			httpx.ErrorJSON(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		key, err := s3.NewCoverKey(id, body.ContentType)
		if err != nil {
			httpx.ErrorJSON(w, http.StatusBadRequest, err.Error())
			return
		}
		url, err := s3c.PresignUpload(r.Context(), key, body.ContentType)
		if err != nil {
			httpx.Domain(w, err)
			return
		}
		if _, err := storebooks.Update(r.Context(), db, id, storebooks.UpdateBookDTO{CoverKey: &key}); err != nil {
			writeStoreErr(w, r, err)
			return
		}

		httpx.OK(w, map[string]string{
			"upload_url": url,
			"object_key": key,
		})
	}
}

// Cover redirects to a short-lived presigned GET URL for the book's cover.
func Cover(db *sql.DB, s3c *s3.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			httpx.ErrorJSON(w, http.StatusBadRequest, "missing book id")
			return
		}
		if s3c == nil {
			httpx.ErrorJSON(w, http.StatusServiceUnavailable, "cover storage is not configured")
			return
		}

		b, err := storebooks.GetBare(r.Context(), db, id)
		if errors.Is(err, storebooks.ErrNotFound) {
			httpx.ErrorJSON(w, http.StatusNotFound, "Book not found")
			return
		}
		if err != nil {
			httpx.Domain(w, err)
			return
		}
		if b.CoverKey == nil {
			httpx.ErrorJSON(w, http.StatusNotFound, "this book has no cover")
			return
		}

		url, err := s3c.PresignDownload(r.Context(), *b.CoverKey)
		if err != nil {
			httpx.Domain(w, err)
			return
		}
		http.Redirect(w, r, url, http.StatusFound)
	}
}
