package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shelfswap/marketplace-api/internal/models"
	"github.com/shelfswap/marketplace-api/internal/store/books"
	"github.com/shelfswap/marketplace-api/internal/store/dbx"
)

// Checkout converts the user's cart into an order. Every referenced book is
// locked FOR UPDATE before its status is checked, so two concurrent checkouts
// of the same copy cannot both succeed; the loser sees a Conflict and the
// whole transaction rolls back. On success the books move to rented/sold, the
// cart is deleted, and the populated order is returned.
func Checkout(ctx context.Context, db *sql.DB, userID string, p CheckoutParams) (models.Order, error) {
	if !models.ValidPaymentMethod(p.PaymentMethod) {
		return models.Order{}, models.Validation("unsupported payment method")
	}
	if err := checkAddress(p.ShippingAddress); err != nil {
		return models.Order{}, err
	}

	var out models.Order
	err := dbx.WithinTx(ctx, db, func(tx *sql.Tx) error {
		cartID, items, err := loadCartLines(ctx, tx, userID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return models.InvalidState("No items in cart")
		}

		now := time.Now()
		var total int64
		for i := range items {
			it := &items[i]
			book, err := books.LockForCheckout(ctx, tx, it.BookID)
			if errors.Is(err, books.ErrNotFound) {
				return models.NotFound("Book not found")
			}
			if err != nil {
				return err
			}
			if book.Status != models.StatusAvailable {
				return models.Conflict(fmt.Sprintf("%q is no longer available", book.Title))
			}
			it.UploaderID = book.UploaderID
			it.Status = models.OrderItemActive

			if it.Type == models.ItemRent {
				if it.RentalDuration == nil {
					return models.Validation("rental duration is required for rentals")
				}
				if it.RentalDuration.StartDate.IsZero() {
					it.RentalDuration.StartDate = now
				}
				if !it.RentalDuration.EndDate.After(it.RentalDuration.StartDate) {
					return models.Validation("rental end date must be after the start date")
				}
			}
			total += models.CartItem{
				Quantity:       it.Quantity,
				Type:           it.Type,
				PriceCents:     it.PriceCents,
				RentalDuration: it.RentalDuration,
			}.LineTotal()
		}

		orderID := uuid.NewString()
		txnID := uuid.NewString()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO orders (
				id, user_id, total_amount_cents, status, has_rated,
				ship_street, ship_city, ship_state, ship_zipcode, ship_country,
				payment_method, payment_status, payment_txn_id, payment_date
			) VALUES ($1, $2, $3, 'pending', false, $4, $5, $6, $7, $8, $9, 'pending', $10, $11)`,
			orderID, userID, total,
			p.ShippingAddress.Street, p.ShippingAddress.City, p.ShippingAddress.State,
			p.ShippingAddress.Zipcode, p.ShippingAddress.Country,
			p.PaymentMethod, txnID, now)
		if err != nil {
			return err
		}

		for _, it := range items {
			var start, end any
			if it.RentalDuration != nil {
				start, end = it.RentalDuration.StartDate, it.RentalDuration.EndDate
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO order_items (order_id, book_id, uploader_id, quantity, type, price_cents, rental_start, rental_end, status)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'active')`,
				orderID, it.BookID, it.UploaderID, it.Quantity, string(it.Type), it.PriceCents, start, end); err != nil {
				return err
			}
			if err := markBookTaken(ctx, tx, orderID, userID, it); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM carts WHERE id = $1`, cartID); err != nil {
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

// loadCartLines reads the user's cart lines inside the checkout transaction.
func loadCartLines(ctx context.Context, tx *sql.Tx, userID string) (string, []models.OrderItem, error) {
	var cartID string
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM carts WHERE user_id = $1`, userID).Scan(&cartID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, models.InvalidState("No items in cart")
	}
	if err != nil {
		return "", nil, err
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT book_id, quantity, type, price_cents, rental_start, rental_end
		FROM cart_items WHERE cart_id = $1 ORDER BY created_at`, cartID)
	if err != nil {
		return "", nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var it models.OrderItem
		var start, end sql.NullTime
		if err := rows.Scan(&it.BookID, &it.Quantity, &it.Type, &it.PriceCents, &start, &end); err != nil {
			return "", nil, err
		}
		if start.Valid && end.Valid {
			it.RentalDuration = &models.RentalDuration{StartDate: start.Time, EndDate: end.Time}
		}
		items = append(items, it)
	}
	return cartID, items, rows.Err()
}

// markBookTaken transitions a locked book out of the available pool and
// stamps the order as its current transaction.
func markBookTaken(ctx context.Context, tx *sql.Tx, orderID, userID string, it models.OrderItem) error {
	if it.Type == models.ItemRent {
		_, err := tx.ExecContext(ctx, `
			UPDATE books SET status = 'rented', current_transaction = $1,
				rented_to = $2, rental_start = $3, rental_end = $4
			WHERE id = $5`,
			orderID, userID, it.RentalDuration.StartDate, it.RentalDuration.EndDate, it.BookID)
		return err
	}
	_, err := tx.ExecContext(ctx, `
		UPDATE books SET status = 'sold', current_transaction = $1
		WHERE id = $2`, orderID, it.BookID)
	return err
}

func checkAddress(a models.ShippingAddress) error {
	if a.Street == "" || a.City == "" || a.State == "" || a.Zipcode == "" || a.Country == "" {
		return models.Validation("shipping address is incomplete")
	}
	return nil
}
