package carts

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shelfswap/marketplace-api/internal/models"
	"github.com/shelfswap/marketplace-api/internal/store/dbx"
)

// Get returns the user's cart with its items, NotFound when none exists.
func Get(ctx context.Context, db *sql.DB, userID string) (models.Cart, error) {
	return getBy(ctx, db, userID)
}

func getBy(ctx context.Context, g getterQueryer, userID string) (models.Cart, error) {
	var c models.Cart
	err := g.QueryRowContext(ctx,
		`SELECT id, user_id, total_amount_cents, updated_at FROM carts WHERE user_id = $1`,
		userID).Scan(&c.ID, &c.UserID, &c.TotalAmountCents, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Cart{}, models.NotFound("No cart found for this user")
	}
	if err != nil {
		return models.Cart{}, err
	}

	rows, err := g.QueryContext(ctx, `
		SELECT id, book_id, quantity, type, price_cents, rental_start, rental_end
		FROM cart_items WHERE cart_id = $1 ORDER BY created_at`, c.ID)
	if err != nil {
		return models.Cart{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var it models.CartItem
		var start, end sql.NullTime
		if err := rows.Scan(&it.ID, &it.BookID, &it.Quantity, &it.Type, &it.PriceCents, &start, &end); err != nil {
			return models.Cart{}, err
		}
		if start.Valid && end.Valid {
			it.RentalDuration = &models.RentalDuration{StartDate: start.Time, EndDate: end.Time}
		}
		c.Items = append(c.Items, it)
	}
	return c, rows.Err()
}

type getterQueryer interface {
	dbx.Getter
	dbx.Queryer
}
