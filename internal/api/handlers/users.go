package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/shelfswap/marketplace-api/internal/api/httpx"
	"github.com/shelfswap/marketplace-api/internal/api/middlewares"
	storeusers "github.com/shelfswap/marketplace-api/internal/store/users"
)

// Me returns the authenticated account's own profile.
func Me(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFrom(r.Context())
		if !ok {
			httpx.ErrorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		a, err := storeusers.Profile(r.Context(), db, userID)
		if err != nil {
			httpx.Domain(w, err)
			return
		}
		httpx.OK(w, a)
	}
}

// UpdateMe patches the mutable profile fields. Email, role, and the rating
// aggregate cannot be changed here.
func UpdateMe(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFrom(r.Context())
		if !ok {
			httpx.ErrorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		var req struct {
			Username *string `json:"username"`
			Phone    *string `json:"phone"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.ErrorJSON(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		a, err := storeusers.UpdateProfile(r.Context(), db, userID, storeusers.UpdateProfileParams{
			Username: req.Username,
			Phone:    req.Phone,
		})
		if err != nil {
			httpx.Domain(w, err)
			return
		}
		httpx.OK(w, a)
	}
}

// PublicProfile returns another account's public view (seller pages).
func PublicProfile(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			httpx.ErrorJSON(w, http.StatusBadRequest, "missing user id")
			return
		}
		a, err := storeusers.Profile(r.Context(), db, id)
		if err != nil {
			httpx.Domain(w, err)
			return
		}
		// Hide contact details on other people's profiles.
		a.Email = ""
		a.Phone = ""
		httpx.OK(w, a)
	}
}

// RateSeller records a 0-100 rating of a seller after a delivered order and
// returns the seller's new running average.
func RateSeller(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raterID, ok := middlewares.UserIDFrom(r.Context())
		if !ok {
			httpx.ErrorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		sellerID := r.PathValue("id")
		if sellerID == "" {
			httpx.ErrorJSON(w, http.StatusBadRequest, "missing user id")
			return
		}
		var req struct {
			OrderID string `json:"order_id"`
			Rating  *int   `json:"rating"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.ErrorJSON(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.OrderID == "" || req.Rating == nil {
			httpx.ErrorJSON(w, http.StatusBadRequest, "order_id and rating are required")
			return
		}

		newScore, err := storeusers.RateSeller(r.Context(), db, raterID, sellerID, req.OrderID, *req.Rating)
		if err != nil {
			httpx.Domain(w, err)
			return
		}
		httpx.OK(w, map[string]any{"readers_score": newScore})
	}
}
