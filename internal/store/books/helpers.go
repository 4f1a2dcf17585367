package books

import (
	"database/sql"
	"strings"
	"unicode"

	"github.com/shelfswap/marketplace-api/internal/models"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// bookColumns is the shared select list for full book rows.
const bookColumns = `
	b.id, b.isbn, b.title, b.author, b.genre,
	b.uploader_id, b.uploader_type, b.publisher_id,
	b.description, b.cover_key, b.rating, b.total_ratings,
	b.status, b.listing_type,
	b.sale_price_cents, b.lease_per_day_cents, b.lease_min_days, b.lease_max_days,
	COALESCE(b.lease_terms, ''),
	b.current_transaction, b.rented_to, b.rental_start, b.rental_end,
	b.created_at`

type bookScanner interface {
	Scan(dest ...any) error
}

func scanBook(row bookScanner) (models.Book, error) {
	var b models.Book
	var publisherID, coverKey, currentTx, rentedTo sql.NullString
	var salePrice, leasePerDay sql.NullInt64
	var leaseMin, leaseMax sql.NullInt64
	var rentalStart, rentalEnd sql.NullTime

	err := row.Scan(
		&b.ID, &b.ISBN, &b.Title, &b.Author, &b.Genre,
		&b.UploaderID, &b.UploaderType, &publisherID,
		&b.Description, &coverKey, &b.Rating, &b.TotalRatings,
		&b.Status, &b.ListingType,
		&salePrice, &leasePerDay, &leaseMin, &leaseMax,
		&b.LeaseTerms,
		&currentTx, &rentedTo, &rentalStart, &rentalEnd,
		&b.CreatedAt,
	)
	if err != nil {
		return models.Book{}, err
	}
	fillNullable(&b, publisherID, coverKey, currentTx, rentedTo, salePrice, leasePerDay, leaseMin, leaseMax, rentalStart, rentalEnd)
	return b, nil
}

// fillNullable copies the nullable columns into their pointer fields.
func fillNullable(b *models.Book,
	publisherID, coverKey, currentTx, rentedTo sql.NullString,
	salePrice, leasePerDay, leaseMin, leaseMax sql.NullInt64,
	rentalStart, rentalEnd sql.NullTime,
) {
	if publisherID.Valid {
		b.PublisherID = &publisherID.String
	}
	if coverKey.Valid {
		b.CoverKey = &coverKey.String
	}
	if salePrice.Valid {
		v := salePrice.Int64
		b.Price.SaleCents = &v
	}
	if leasePerDay.Valid {
		b.Price.Lease = &models.LeasePrice{
			PerDayCents: leasePerDay.Int64,
			MinDays:     int(leaseMin.Int64),
			MaxDays:     int(leaseMax.Int64),
		}
		if b.Price.Lease.MinDays == 0 {
			b.Price.Lease.MinDays = 1
		}
	}
	if currentTx.Valid {
		b.CurrentTransaction = &currentTx.String
	}
	if currentTx.Valid && rentedTo.Valid && rentalStart.Valid && rentalEnd.Valid {
		b.RentalInfo = &models.RentalInfo{
			RentedTo:  rentedTo.String,
			StartDate: rentalStart.Time,
			EndDate:   rentalEnd.Time,
		}
	}
}

// foldSearch lowercases and strips diacritics so "Brontë" matches "bronte".
func foldSearch(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

func leasePriceArgs(p models.Price) (perDay, minDays, maxDays any) {
	if p.Lease == nil {
		return nil, nil, nil
	}
	min := p.Lease.MinDays
	if min < 1 {
		min = 1
	}
	var max any
	if p.Lease.MaxDays > 0 {
		max = p.Lease.MaxDays
	}
	return p.Lease.PerDayCents, min, max
}

func salePriceArg(p models.Price) any {
	if p.SaleCents == nil {
		return nil
	}
	return *p.SaleCents
}
