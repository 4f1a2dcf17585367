package carts

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shelfswap/marketplace-api/internal/models"
	"github.com/shelfswap/marketplace-api/internal/store/books"
	"github.com/shelfswap/marketplace-api/internal/store/dbx"
)

// UpdateItem patches a cart line's quantity or rental window. Rental fields on
// a purchase line are rejected. The cart total is recomputed in the same
// transaction.
func UpdateItem(ctx context.Context, db *sql.DB, userID, itemID string, p UpdateItemParams) (models.Cart, error) {
	if p.Quantity != nil && *p.Quantity < 1 {
		return models.Cart{}, models.Validation("quantity must be at least 1")
	}

	var out models.Cart
	err := dbx.WithinTx(ctx, db, func(tx *sql.Tx) error {
		var cartID, bookID string
		var itemType models.ItemType
		err := tx.QueryRowContext(ctx, `
			SELECT ci.cart_id, ci.book_id, ci.type
			FROM cart_items ci
			JOIN carts c ON c.id = ci.cart_id
			WHERE ci.id = $1 AND c.user_id = $2`,
			itemID, userID).Scan(&cartID, &bookID, &itemType)
		if errors.Is(err, sql.ErrNoRows) {
			return models.NotFound("Cart item not found")
		}
		if err != nil {
			return err
		}

		if p.RentalDuration != nil {
			if itemType != models.ItemRent {
				return models.Validation("rental duration only applies to rental items")
			}
			book, err := books.GetBare(ctx, tx, bookID)
			if err != nil {
				return err
			}
			if err := checkRentalWindow(p.RentalDuration, book.Price.Lease); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE cart_items SET rental_start = $1, rental_end = $2 WHERE id = $3`,
				p.RentalDuration.StartDate, p.RentalDuration.EndDate, itemID); err != nil {
				return err
			}
		}
		if p.Quantity != nil {
			if _, err := tx.ExecContext(ctx,
				`UPDATE cart_items SET quantity = $1 WHERE id = $2`,
				*p.Quantity, itemID); err != nil {
				return err
			}
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
