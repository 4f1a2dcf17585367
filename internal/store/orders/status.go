package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shelfswap/marketplace-api/internal/models"
	"github.com/shelfswap/marketplace-api/internal/store/dbx"
)

// UpdateStatus moves an order along the status machine. Only forward
// transitions are allowed; an illegal hop reports the current status so the
// caller can see why it was refused.
func UpdateStatus(ctx context.Context, db *sql.DB, orderID string, to models.OrderStatus) (models.Order, error) {
	if !models.ValidOrderStatus(to) {
		return models.Order{}, models.Validation("unknown order status")
	}

	var out models.Order
	err := dbx.WithinTx(ctx, db, func(tx *sql.Tx) error {
		var userID string
		var current models.OrderStatus
		err := tx.QueryRowContext(ctx,
			`SELECT user_id, status FROM orders WHERE id = $1 FOR UPDATE`,
			orderID).Scan(&userID, &current)
		if errors.Is(err, sql.ErrNoRows) {
			return models.NotFound("Order not found")
		}
		if err != nil {
			return err
		}
		if !models.CanTransition(current, to) {
			return models.InvalidState(fmt.Sprintf("cannot move order from %s to %s", current, to))
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE orders SET status = $1 WHERE id = $2`, string(to), orderID); err != nil {
			return err
		}
		if to == models.OrderConfirmed {
			if _, err := tx.ExecContext(ctx,
				`UPDATE orders SET payment_status = 'completed', payment_date = now() WHERE id = $1`,
				orderID); err != nil {
				return err
			}
		}
		if to == models.OrderCancelled {
			if err := releaseBooks(ctx, tx, orderID); err != nil {
				return err
			}
		}

		out, err = getTx(ctx, tx, userID, orderID)
		return err
	})
	if err != nil {
		return models.Order{}, err
	}
	return out, nil
}

// releaseBooks puts a cancelled order's books back in the available pool.
func releaseBooks(ctx context.Context, tx *sql.Tx, orderID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE books SET status = 'available', current_transaction = NULL,
			rented_to = NULL, rental_start = NULL, rental_end = NULL
		WHERE current_transaction = $1`, orderID)
	return err
}
