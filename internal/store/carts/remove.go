package carts

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shelfswap/marketplace-api/internal/models"
	"github.com/shelfswap/marketplace-api/internal/store/dbx"
)

// RemoveItem deletes a cart line and recomputes the total. Removing a line
// that is already gone is not an error; the current cart is returned either
// way.
func RemoveItem(ctx context.Context, db *sql.DB, userID, itemID string) (models.Cart, error) {
	var out models.Cart
	err := dbx.WithinTx(ctx, db, func(tx *sql.Tx) error {
		var cartID string
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM carts WHERE user_id = $1`, userID).Scan(&cartID)
		if errors.Is(err, sql.ErrNoRows) {
			return models.NotFound("No cart found for this user")
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM cart_items WHERE id = $1 AND cart_id = $2`,
			itemID, cartID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, totalSQL, cartID); err != nil {
			return err
		}
		out, err = getBy(ctx, tx, userID)
		return err
	})
	if err != nil {
		return models.Cart{}, err
	}
	return out, nil
}
