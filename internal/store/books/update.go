package books

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/shelfswap/marketplace-api/internal/models"
)

// OwnerOf returns the uploader id of a book, for ownership checks.
func OwnerOf(ctx context.Context, db *sql.DB, id string) (string, error) {
	var uploader string
	err := db.QueryRowContext(ctx, `SELECT uploader_id FROM books WHERE id = $1`, id).Scan(&uploader)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return uploader, err
}

// Update patches listing fields. When the listing type or price changes, both
// are re-validated together against the conditional-required rules.
func Update(ctx context.Context, db *sql.DB, id string, dto UpdateBookDTO) (models.Book, error) {
	current, err := GetBare(ctx, db, id)
	if err != nil {
		return models.Book{}, err
	}

	if dto.Title != nil {
		current.Title = *dto.Title
	}
	if dto.Author != nil {
		current.Author = *dto.Author
	}
	if dto.Genre != nil {
		current.Genre = *dto.Genre
	}
	if dto.Description != nil {
		current.Description = *dto.Description
	}
	if dto.ListingType != nil {
		current.ListingType = *dto.ListingType
	}
	if dto.Price != nil {
		current.Price = *dto.Price
	}
	if dto.LeaseTerms != nil {
		current.LeaseTerms = *dto.LeaseTerms
	}
	if dto.CoverKey != nil {
		current.CoverKey = dto.CoverKey
	}
	if errs := current.ValidatePrice(); len(errs) > 0 {
		return models.Book{}, ErrInvalid
	}

	set := []string{}
	args := []any{}
	i := 1
	add := func(col string, v any) {
		set = append(set, col+" = $"+strconv.Itoa(i))
		args = append(args, v)
		i++
	}
	add("title", current.Title)
	add("author", current.Author)
	add("genre", current.Genre)
	add("description", current.Description)
	add("listing_type", string(current.ListingType))
	add("sale_price_cents", salePriceArg(current.Price))
	perDay, minDays, maxDays := leasePriceArgs(current.Price)
	add("lease_per_day_cents", perDay)
	add("lease_min_days", minDays)
	add("lease_max_days", maxDays)
	add("lease_terms", nullIfEmpty(current.LeaseTerms))
	if dto.CoverKey != nil {
		add("cover_key", *dto.CoverKey)
	}
	set = append(set, "updated_at = now()")

	q := "UPDATE books SET " + strings.Join(set, ", ") +
		" WHERE id = $" + strconv.Itoa(i)
	args = append(args, id)

	res, err := db.ExecContext(ctx, q, args...)
	if err != nil {
		return models.Book{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Book{}, ErrNotFound
	}
	return current, nil
}

// Delete removes a listing. Books tied to a live order keep their rows.
func Delete(ctx context.Context, db *sql.DB, id string) error {
	var status string
	var currentTx sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT status, current_transaction FROM books WHERE id = $1`, id).
		Scan(&status, &currentTx)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if currentTx.Valid {
		return ErrConflict
	}
	res, err := db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
