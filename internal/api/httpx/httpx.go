package httpx

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/shelfswap/marketplace-api/internal/models"
)

type errorEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func ErrorJSON(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, errorEnvelope{Status: "error", Message: message})
}

func OK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, map[string]any{"status": "success", "data": data})
}

func Created(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, map[string]any{"status": "success", "data": data})
}

func OKMessage(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusOK, map[string]any{"status": "success", "message": msg})
}

// Domain writes a store error with its mapped status. Unclassified errors are
// logged server-side and surface as a generic 500.
func Domain(w http.ResponseWriter, err error) {
	status := models.HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("[http] internal error: %v", err)
		msg = "internal server error"
	}
	ErrorJSON(w, status, msg)
}
