package handlers

import (
	"net/http"

	"github.com/shelfswap/marketplace-api/internal/api/httpx"
)

// Root is a cheap liveness endpoint.
func Root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		httpx.ErrorJSON(w, http.StatusNotFound, "not found")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"service": "shelfswap marketplace api",
		"status":  "ok",
	})
}
