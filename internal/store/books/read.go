package books

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shelfswap/marketplace-api/internal/store/dbx"
	"github.com/shelfswap/marketplace-api/internal/models"
)

// Get fetches a single book with its uploader populated.
func Get(ctx context.Context, db *sql.DB, id string) (CatalogBook, error) {
	q := `
SELECT` + bookColumns + `,
  u.id, u.username, u.readers_score, u.total_ratings, COALESCE(u.publisher_name, '')
FROM books b
JOIN accounts u ON u.id = b.uploader_id
WHERE b.id = $1`

	rows, err := db.QueryContext(ctx, q, id)
	if err != nil {
		return CatalogBook{}, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return CatalogBook{}, err
		}
		return CatalogBook{}, ErrNotFound
	}
	return scanCatalogRow(rows)
}

// GetBare fetches a book row without the uploader join. Works inside a
// transaction when g is a *sql.Tx.
func GetBare(ctx context.Context, g dbx.Getter, id string) (models.Book, error) {
	b, err := scanBook(g.QueryRowContext(ctx, "SELECT"+bookColumns+" FROM books b WHERE b.id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Book{}, ErrNotFound
	}
	return b, err
}

// LockForCheckout re-reads a book row under FOR UPDATE so the status check
// and transition happen atomically with respect to concurrent checkouts.
func LockForCheckout(ctx context.Context, tx *sql.Tx, id string) (models.Book, error) {
	b, err := scanBook(tx.QueryRowContext(ctx,
		"SELECT"+bookColumns+" FROM books b WHERE b.id = $1 FOR UPDATE", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Book{}, ErrNotFound
	}
	return b, err
}
