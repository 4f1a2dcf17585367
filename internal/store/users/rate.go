package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shelfswap/marketplace-api/internal/models"
	"github.com/shelfswap/marketplace-api/internal/store/dbx"
)

// RateSeller records a buyer's rating of a seller after a delivered order.
// The order row is locked so a double-submit cannot count the rating twice:
// the SELECT filters on has_rated = false, and the score update and the
// has_rated flag commit in the same transaction.
func RateSeller(ctx context.Context, db *sql.DB, raterID, sellerID, orderID string, rating int) (newScore int, err error) {
	if rating < 0 || rating > 100 {
		return 0, models.Validation("rating must be between 0 and 100")
	}
	if raterID == sellerID {
		return 0, models.Validation("you cannot rate yourself")
	}

	err = dbx.WithinTx(ctx, db, func(tx *sql.Tx) error {
		var id string
		err := tx.QueryRowContext(ctx, `
			SELECT id FROM orders
			WHERE id = $1 AND user_id = $2 AND status = 'delivered' AND has_rated = false
			FOR UPDATE`,
			orderID, raterID).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return models.InvalidState("invalid order or already rated")
		}
		if err != nil {
			return err
		}

		var n int
		if err := tx.QueryRowContext(ctx,
			`SELECT count(*) FROM order_items WHERE order_id = $1 AND uploader_id = $2`,
			orderID, sellerID).Scan(&n); err != nil {
			return err
		}
		if n == 0 {
			return models.Validation("this seller has no items in the order")
		}

		var score, count int
		if err := tx.QueryRowContext(ctx,
			`SELECT readers_score, total_ratings FROM accounts WHERE id = $1 FOR UPDATE`,
			sellerID).Scan(&score, &count); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return models.NotFound("Seller not found")
			}
			return err
		}

		newScore = models.NextReadersScore(score, count, rating)
		if _, err := tx.ExecContext(ctx,
			`UPDATE accounts SET readers_score = $1, total_ratings = total_ratings + 1 WHERE id = $2`,
			newScore, sellerID); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE orders SET has_rated = true, rating = $1 WHERE id = $2`,
			rating, orderID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return newScore, nil
}
