package orders

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shelfswap/marketplace-api/internal/models"
	"github.com/shelfswap/marketplace-api/internal/store/dbx"
)

// CompleteRental closes out a single rental line: the book returns to the
// available pool and the line is marked completed. The book reset and the
// line update commit together or not at all.
func CompleteRental(ctx context.Context, db *sql.DB, userID, orderID, bookID string) (models.Order, error) {
	var out models.Order
	err := dbx.WithinTx(ctx, db, func(tx *sql.Tx) error {
		var itemID string
		err := tx.QueryRowContext(ctx, `
			SELECT oi.id
			FROM order_items oi
			JOIN orders o ON o.id = oi.order_id
			WHERE oi.order_id = $1 AND o.user_id = $2
			  AND oi.book_id = $3 AND oi.type = 'rent' AND oi.status = 'active'`,
			orderID, userID, bookID).Scan(&itemID)
		if errors.Is(err, sql.ErrNoRows) {
			return models.NotFound("No active rental found for this book in the order")
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE books SET status = 'available', current_transaction = NULL,
				rented_to = NULL, rental_start = NULL, rental_end = NULL
			WHERE id = $1`, bookID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE order_items SET status = 'completed' WHERE id = $1`, itemID); err != nil {
			return err
		}

		out, err = getTx(ctx, tx, userID, orderID)
		return err
	})
	if err != nil {
		return models.Order{}, err
	}
	return out, nil
}
