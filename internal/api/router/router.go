package router

import (
	"database/sql"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/shelfswap/marketplace-api/internal/api/handlers"
	"github.com/shelfswap/marketplace-api/internal/api/handlers/books"
	"github.com/shelfswap/marketplace-api/internal/api/handlers/cart"
	"github.com/shelfswap/marketplace-api/internal/api/handlers/orders"
	"github.com/shelfswap/marketplace-api/internal/api/handlers/reviews"
	"github.com/shelfswap/marketplace-api/internal/api/handlers/wishlist"
	"github.com/shelfswap/marketplace-api/internal/api/middlewares"
	"github.com/shelfswap/marketplace-api/internal/auth"
	"github.com/shelfswap/marketplace-api/internal/storage/s3"
)

// Router wires every route with its auth requirement. Method-specific 1.22
// patterns; {id} path values read by the handlers.
func Router(db *sql.DB, rdb *redis.Client, s3c *s3.Client) http.Handler {
	mux := http.NewServeMux()

	authed := func(h http.HandlerFunc) http.Handler {
		return middlewares.RequireAuth(db, h)
	}

	mux.HandleFunc("GET /", handlers.Root)

	// Auth
	authH := auth.New(auth.NewSQLStore(db), rdb)
	mux.Handle("POST /auth/register", http.HandlerFunc(authH.Register))
	mux.Handle("POST /auth/login", middlewares.LoginRateLimit(rdb, http.HandlerFunc(authH.Login)))
	mux.Handle("POST /auth/refresh", http.HandlerFunc(authH.Refresh))
	mux.Handle("POST /auth/logout", http.HandlerFunc(authH.Logout))
	mux.Handle("POST /auth/logout-all", authed(authH.LogoutAll))
	mux.Handle("POST /auth/change-password", authed(authH.ChangePassword))

	// Catalog
	mux.Handle("GET /books/", books.List(db, rdb))
	mux.Handle("GET /books/{id}", middlewares.OptionalAuth(db, books.Get(db)))
	mux.Handle("GET /books/{id}/cover", books.Cover(db, s3c))
	mux.Handle("POST /books/", authed(books.Create(db, rdb)))
	mux.Handle("POST /books/bulk", authed(books.BulkCreate(db, rdb)))
	mux.Handle("PATCH /books/{id}", authed(books.Patch(db, rdb)))
	mux.Handle("DELETE /books/{id}", authed(books.Delete(db, rdb)))
	mux.Handle("POST /books/{id}/cover", authed(books.CoverUpload(db, s3c)))

	// Cart
	mux.Handle("GET /cart", authed(cart.Get(db)))
	mux.Handle("POST /cart/add", authed(cart.AddItem(db)))
	mux.Handle("PATCH /cart/items/{itemId}", authed(cart.UpdateItem(db)))
	mux.Handle("DELETE /cart/items/{itemId}", authed(cart.RemoveItem(db)))

	// Orders
	mux.Handle("POST /orders/", authed(orders.Create(db, rdb)))
	mux.Handle("GET /orders/", authed(orders.List(db)))
	mux.Handle("GET /orders/{id}", authed(orders.Get(db)))
	mux.Handle("POST /orders/complete-rental", authed(orders.CompleteRental(db, rdb)))

	// Profiles & seller rating
	mux.Handle("GET /users/profile", authed(handlers.Me(db)))
	mux.Handle("PATCH /users/profile", authed(handlers.UpdateMe(db)))
	mux.Handle("GET /users/{id}", http.HandlerFunc(handlers.PublicProfile(db)))
	mux.Handle("POST /users/{id}/rate", authed(handlers.RateSeller(db)))

	// Wishlist
	mux.Handle("GET /wishlist", authed(wishlist.List(db)))
	mux.Handle("POST /wishlist/{bookId}", authed(wishlist.Add(db)))
	mux.Handle("DELETE /wishlist/{bookId}", authed(wishlist.Remove(db)))

	// Reviews
	mux.Handle("GET /reviews/book/{bookId}", reviews.ListByBook(db))
	mux.Handle("POST /reviews/book/{bookId}", authed(reviews.Create(db)))
	mux.Handle("PATCH /reviews/{id}", authed(reviews.Update(db)))
	mux.Handle("DELETE /reviews/{id}", authed(reviews.Delete(db)))

	MountAdmin(mux, db, rdb)

	return mux
}
