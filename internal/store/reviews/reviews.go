package reviews

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/shelfswap/marketplace-api/internal/api/apperr"
	"github.com/shelfswap/marketplace-api/internal/models"
	"github.com/shelfswap/marketplace-api/internal/store/dbx"
)

// CreateParams is the input for a new review.
type CreateParams struct {
	BookID    string
	Rating    int
	Text      string
	OrderType models.ItemType
}

// UpdateParams patches a review the caller owns.
type UpdateParams struct {
	Rating *int
	Text   *string
}

// Create stores a review after verifying the caller actually received the
// book: a delivered order must contain a matching (book, type) line. The
// book's rating aggregate is refreshed in the same transaction.
func Create(ctx context.Context, db *sql.DB, userID string, p CreateParams) (models.Review, error) {
	if p.Rating < 1 || p.Rating > 5 {
		return models.Review{}, models.Validation("rating must be between 1 and 5")
	}
	if !models.ValidItemType(p.OrderType) {
		return models.Review{}, models.Validation("order_type must be purchase or rent")
	}
	if strings.TrimSpace(p.Text) == "" {
		return models.Review{}, models.Validation("review text cannot be empty")
	}

	var out models.Review
	err := dbx.WithinTx(ctx, db, func(tx *sql.Tx) error {
		var n int
		err := tx.QueryRowContext(ctx, `
			SELECT count(*)
			FROM order_items oi
			JOIN orders o ON o.id = oi.order_id
			WHERE o.user_id = $1 AND o.status = 'delivered'
			  AND oi.book_id = $2 AND oi.type = $3`,
			userID, p.BookID, string(p.OrderType)).Scan(&n)
		if err != nil {
			return err
		}
		if n == 0 {
			return models.Forbidden("you can only review books from delivered orders")
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO reviews (user_id, book_id, rating, review_text, order_type)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at`,
			userID, p.BookID, p.Rating, p.Text, string(p.OrderType)).Scan(&out.ID, &out.CreatedAt)
		if err != nil {
			if apperr.IsUniqueViolation(err) {
				return models.Conflict("you have already reviewed this book")
			}
			return err
		}
		out.UserID, out.BookID, out.Rating, out.Text, out.OrderType = userID, p.BookID, p.Rating, p.Text, p.OrderType

		return refreshBookRating(ctx, tx, p.BookID)
	})
	if err != nil {
		return models.Review{}, err
	}
	return out, nil
}

// ListByBook returns a book's reviews newest-first with reviewer names.
func ListByBook(ctx context.Context, db *sql.DB, bookID string) ([]models.Review, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT r.id, r.user_id, r.book_id, r.rating, r.review_text, r.order_type, u.username, r.created_at
		FROM reviews r
		JOIN accounts u ON u.id = r.user_id
		WHERE r.book_id = $1
		ORDER BY r.created_at DESC`, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Review{}
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.UserID, &r.BookID, &r.Rating, &r.Text, &r.OrderType, &r.UserName, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Update patches a review owned by the caller and refreshes the book
// aggregate.
func Update(ctx context.Context, db *sql.DB, userID, reviewID string, p UpdateParams) (models.Review, error) {
	if p.Rating != nil && (*p.Rating < 1 || *p.Rating > 5) {
		return models.Review{}, models.Validation("rating must be between 1 and 5")
	}
	if p.Text != nil && strings.TrimSpace(*p.Text) == "" {
		return models.Review{}, models.Validation("review text cannot be empty")
	}
	if p.Rating == nil && p.Text == nil {
		return models.Review{}, models.Validation("no updatable fields in request")
	}

	var out models.Review
	err := dbx.WithinTx(ctx, db, func(tx *sql.Tx) error {
		bookID, err := ownedBook(ctx, tx, userID, reviewID)
		if err != nil {
			return err
		}
		if p.Rating != nil {
			if _, err := tx.ExecContext(ctx,
				`UPDATE reviews SET rating = $1, updated_at = now() WHERE id = $2`,
				*p.Rating, reviewID); err != nil {
				return err
			}
		}
		if p.Text != nil {
			if _, err := tx.ExecContext(ctx,
				`UPDATE reviews SET review_text = $1, updated_at = now() WHERE id = $2`,
				*p.Text, reviewID); err != nil {
				return err
			}
		}
		if err := refreshBookRating(ctx, tx, bookID); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx, `
			SELECT id, user_id, book_id, rating, review_text, order_type, created_at
			FROM reviews WHERE id = $1`, reviewID).Scan(
			&out.ID, &out.UserID, &out.BookID, &out.Rating, &out.Text, &out.OrderType, &out.CreatedAt)
	})
	if err != nil {
		return models.Review{}, err
	}
	return out, nil
}

// Delete removes a review owned by the caller and refreshes the book
// aggregate.
func Delete(ctx context.Context, db *sql.DB, userID, reviewID string) error {
	return dbx.WithinTx(ctx, db, func(tx *sql.Tx) error {
		bookID, err := ownedBook(ctx, tx, userID, reviewID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM reviews WHERE id = $1`, reviewID); err != nil {
			return err
		}
		return refreshBookRating(ctx, tx, bookID)
	})
}

// ownedBook resolves a review to its book, enforcing ownership. A review that
// exists but belongs to someone else reports Forbidden, not NotFound.
func ownedBook(ctx context.Context, tx *sql.Tx, userID, reviewID string) (string, error) {
	var bookID, ownerID string
	err := tx.QueryRowContext(ctx,
		`SELECT book_id, user_id FROM reviews WHERE id = $1 FOR UPDATE`,
		reviewID).Scan(&bookID, &ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", models.NotFound("Review not found")
	}
	if err != nil {
		return "", err
	}
	if ownerID != userID {
		return "", models.Forbidden("you can only modify your own review")
	}
	return bookID, nil
}

// refreshBookRating recomputes the book's average rating and review count
// from the reviews table.
func refreshBookRating(ctx context.Context, tx *sql.Tx, bookID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE books SET
			rating = COALESCE((SELECT ROUND(AVG(rating)::numeric, 1) FROM reviews WHERE book_id = $1), 0),
			total_ratings = (SELECT count(*) FROM reviews WHERE book_id = $1)
		WHERE id = $1`, bookID)
	return err
}
