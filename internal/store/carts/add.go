package carts

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shelfswap/marketplace-api/internal/api/apperr"
	"github.com/shelfswap/marketplace-api/internal/models"
	"github.com/shelfswap/marketplace-api/internal/store/books"
	"github.com/shelfswap/marketplace-api/internal/store/dbx"
)

// AddItem validates the book against the requested transaction type, derives
// the line price from the book's price table, creates the cart lazily, and
// rejects duplicate (book, type) lines. Runs as one transaction so the total
// is recomputed against the state it observed.
func AddItem(ctx context.Context, db *sql.DB, userID string, p AddItemParams) (models.Cart, error) {
	if p.Quantity < 1 {
		p.Quantity = 1
	}
	if !models.ValidItemType(p.Type) {
		return models.Cart{}, models.Validation("type must be purchase or rent")
	}

	var out models.Cart
	err := dbx.WithinTx(ctx, db, func(tx *sql.Tx) error {
		book, err := books.GetBare(ctx, tx, p.BookID)
		if errors.Is(err, books.ErrNotFound) {
			return models.NotFound("Book not found")
		}
		if err != nil {
			return err
		}
		if book.Status != models.StatusAvailable {
			return models.InvalidState("Book is not available")
		}

		var price int64
		switch p.Type {
		case models.ItemRent:
			if !book.ListingType.Leasable() {
				return models.InvalidState("This book is not available for rent")
			}
			if err := checkRentalWindow(p.RentalDuration, book.Price.Lease); err != nil {
				return err
			}
			price = book.Price.Lease.PerDayCents
		case models.ItemPurchase:
			if !book.ListingType.Sellable() {
				return models.InvalidState("This book is not available for purchase")
			}
			price = *book.Price.SaleCents
		}

		cartID, err := ensureCart(ctx, tx, userID)
		if err != nil {
			return err
		}

		var start, end any
		if p.Type == models.ItemRent {
			start, end = p.RentalDuration.StartDate, p.RentalDuration.EndDate
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO cart_items (cart_id, book_id, quantity, type, price_cents, rental_start, rental_end)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			cartID, p.BookID, p.Quantity, string(p.Type), price, start, end)
		if err != nil {
			if apperr.IsUniqueViolation(err) {
				return models.InvalidState("This book is already in your cart")
			}
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

// checkRentalWindow validates presence, ordering, and lease min/max bounds.
// A missing start date defaults to now.
func checkRentalWindow(d *models.RentalDuration, lease *models.LeasePrice) error {
	if d == nil || d.EndDate.IsZero() {
		return models.Validation("rental duration is required for rentals")
	}
	if d.StartDate.IsZero() {
		d.StartDate = time.Now()
	}
	if !d.EndDate.After(d.StartDate) {
		return models.Validation("rental end date must be after the start date")
	}
	days := d.Days()
	if lease != nil {
		if days < lease.MinDays {
			return models.Validation("rental is shorter than the minimum duration")
		}
		if lease.MaxDays > 0 && days > lease.MaxDays {
			return models.Validation("rental exceeds the maximum duration")
		}
	}
	return nil
}

// ensureCart creates the user's cart on first use and returns its id.
func ensureCart(ctx context.Context, tx *sql.Tx, userID string) (string, error) {
	var id string
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM carts WHERE user_id = $1`, userID).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO carts (user_id) VALUES ($1) RETURNING id`, userID).Scan(&id)
	return id, err
}
