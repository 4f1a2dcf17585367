// Package wishlist stores saved listings: books a buyer wants to watch
// without putting them in the cart.
package wishlist

import (
	"context"
	"database/sql"
	"time"
)

type Item struct {
	BookID      string    `json:"book_id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Status      string    `json:"status"`
	ListingType string    `json:"listing_type"`
	AddedAt     time.Time `json:"added_at"`
}

// Add saves a book; saving one already on the list is a no-op.
func Add(ctx context.Context, db *sql.DB, userID, bookID string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO wishlist_items (user_id, book_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, book_id) DO NOTHING`, userID, bookID)
	return err
}

// Remove drops a saved book; removing an unsaved one is a no-op.
func Remove(ctx context.Context, db *sql.DB, userID, bookID string) error {
	_, err := db.ExecContext(ctx,
		`DELETE FROM wishlist_items WHERE user_id = $1 AND book_id = $2`,
		userID, bookID)
	return err
}

// List returns saved books newest-first with their current availability, so
// a buyer can see which watched books came back on the market.
func List(ctx context.Context, db *sql.DB, userID string, limit int) ([]Item, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := db.QueryContext(ctx, `
		SELECT w.book_id, b.title, b.author, b.status, b.listing_type, w.created_at
		FROM wishlist_items w
		JOIN books b ON b.id = w.book_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.BookID, &it.Title, &it.Author, &it.Status, &it.ListingType, &it.AddedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Contains reports whether the book is on the user's list.
func Contains(ctx context.Context, db *sql.DB, userID, bookID string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM wishlist_items WHERE user_id = $1 AND book_id = $2)`,
		userID, bookID).Scan(&exists)
	return exists, err
}
