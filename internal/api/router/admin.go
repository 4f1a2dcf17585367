package router

import (
	"database/sql"
	"net/http"

	"github.com/redis/go-redis/v9"

	admin "github.com/shelfswap/marketplace-api/internal/api/handlers/admin"
	"github.com/shelfswap/marketplace-api/internal/api/handlers/orders"
	"github.com/shelfswap/marketplace-api/internal/api/middlewares"
	adminstore "github.com/shelfswap/marketplace-api/internal/store/admin"
)

// MountAdmin wires all admin-only endpoints behind RequireRole(..., "admin").
func MountAdmin(mux *http.ServeMux, db *sql.DB, rdb *redis.Client) {
	gate := func(next http.Handler) http.Handler {
		return middlewares.RequireRole(db, "admin", next)
	}

	adminH := admin.NewHandler(db, rdb, adminstore.New(db))

	// Account management
	mux.Handle("GET /admin/accounts", gate(http.HandlerFunc(adminH.ListAccounts)))
	mux.Handle("GET /admin/accounts/{id}", gate(http.HandlerFunc(adminH.GetAccount)))
	mux.Handle("POST /admin/accounts/{id}/ban", gate(http.HandlerFunc(adminH.Ban)))
	mux.Handle("POST /admin/accounts/{id}/unban", gate(http.HandlerFunc(adminH.Unban)))
	mux.Handle("POST /admin/accounts/{id}/role", gate(http.HandlerFunc(adminH.SetRole)))
	mux.Handle("POST /admin/accounts/{id}/logout-all", gate(http.HandlerFunc(adminH.LogoutAll)))

	// Fulfillment
	mux.Handle("PATCH /orders/{id}/status", gate(orders.UpdateStatus(db, rdb)))

	// Stats & audit
	mux.Handle("GET /admin/stats", gate(http.HandlerFunc(adminH.Stats)))
	mux.Handle("GET /admin/audit", gate(http.HandlerFunc(adminH.ListAudit)))
}
