package books

import (
	"context"
	"database/sql"
	"time"

	"github.com/shelfswap/marketplace-api/internal/api/apperr"
	"github.com/shelfswap/marketplace-api/internal/models"
	"github.com/shelfswap/marketplace-api/internal/store/dbx"
)

const insertBookSQL = `
INSERT INTO books
	(isbn, title, author, genre, uploader_id, uploader_type, publisher_id,
	 description, listing_type,
	 sale_price_cents, lease_per_day_cents, lease_min_days, lease_max_days, lease_terms)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING id, created_at`

// Create inserts one listing. The uploader fields come from the
// authenticated account, never the request body.
func Create(ctx context.Context, db *sql.DB, dto CreateBookDTO) (models.Book, error) {
	b := bookFromDTO(dto)
	if errs := b.ValidatePrice(); len(errs) > 0 {
		return models.Book{}, ErrInvalid
	}

	perDay, minDays, maxDays := leasePriceArgs(dto.Price)
	var id string
	var createdAt time.Time
	err := db.QueryRowContext(ctx, insertBookSQL,
		dto.ISBN, dto.Title, dto.Author, dto.Genre,
		dto.UploaderID, string(dto.UploaderType), dto.PublisherID,
		dto.Description, string(dto.ListingType),
		salePriceArg(dto.Price), perDay, minDays, maxDays, nullIfEmpty(dto.LeaseTerms),
	).Scan(&id, &createdAt)
	if err != nil {
		if apperr.IsUniqueViolation(err) {
			return models.Book{}, ErrConflict
		}
		return models.Book{}, err
	}
	b.ID = id
	b.CreatedAt = createdAt
	b.Status = models.StatusAvailable
	return b, nil
}

// BulkCreate inserts a publisher's batch in one transaction; any failure
// rolls back the whole batch.
func BulkCreate(ctx context.Context, db *sql.DB, dtos []CreateBookDTO) ([]models.Book, error) {
	for _, dto := range dtos {
		b := bookFromDTO(dto)
		if errs := b.ValidatePrice(); len(errs) > 0 {
			return nil, ErrInvalid
		}
	}
	out := make([]models.Book, 0, len(dtos))
	err := dbx.WithinTx(ctx, db, func(tx *sql.Tx) error {
		for _, dto := range dtos {
			perDay, minDays, maxDays := leasePriceArgs(dto.Price)
			var id string
			var createdAt time.Time
			err := tx.QueryRowContext(ctx, insertBookSQL,
				dto.ISBN, dto.Title, dto.Author, dto.Genre,
				dto.UploaderID, string(dto.UploaderType), dto.PublisherID,
				dto.Description, string(dto.ListingType),
				salePriceArg(dto.Price), perDay, minDays, maxDays, nullIfEmpty(dto.LeaseTerms),
			).Scan(&id, &createdAt)
			if err != nil {
				if apperr.IsUniqueViolation(err) {
					return ErrConflict
				}
				return err
			}
			b := bookFromDTO(dto)
			b.ID = id
			b.CreatedAt = createdAt
			b.Status = models.StatusAvailable
			out = append(out, b)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func bookFromDTO(dto CreateBookDTO) models.Book {
	return models.Book{
		ISBN:         dto.ISBN,
		Title:        dto.Title,
		Author:       dto.Author,
		Genre:        dto.Genre,
		UploaderID:   dto.UploaderID,
		UploaderType: dto.UploaderType,
		PublisherID:  dto.PublisherID,
		Description:  dto.Description,
		ListingType:  dto.ListingType,
		Price:        dto.Price,
		LeaseTerms:   dto.LeaseTerms,
	}
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
