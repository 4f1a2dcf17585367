package books

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
)

// sortColumns is the curated allow-list for the "field_direction" sort token.
// Unknown fields fall back to recency rather than passing through to SQL.
var sortColumns = map[string]string{
	"date":       "b.created_at",
	"price":      "COALESCE(b.sale_price_cents, b.lease_per_day_cents)",
	"rating":     "b.rating",
	"popularity": "b.total_ratings",
}

func orderClause(token string) string {
	field, dir := "date", "desc"
	if parts := strings.SplitN(strings.TrimSpace(token), "_", 2); len(parts) == 2 {
		field, dir = parts[0], parts[1]
	}
	col, ok := sortColumns[field]
	if !ok {
		return "ORDER BY b.created_at DESC"
	}
	sqlDir := "ASC"
	if dir == "desc" {
		sqlDir = "DESC"
	}
	switch field {
	case "rating":
		return "ORDER BY b.rating " + sqlDir + ", b.total_ratings " + sqlDir
	case "popularity":
		return "ORDER BY b.total_ratings " + sqlDir + ", b.rating " + sqlDir
	default:
		return "ORDER BY " + col + " " + sqlDir
	}
}

// List returns a catalog page restricted to available books, plus total count.
func List(ctx context.Context, db *sql.DB, f ListFilters) ([]CatalogBook, int, error) {
	where := []string{"b.status = 'available'"}
	args := []any{}
	i := 1

	// Columns are folded with immutable_unaccent to mirror foldSearch on the
	// query side, so "bronte" finds a stored "Brontë" and vice versa.
	if q := foldSearch(f.Search); q != "" {
		idx := strconv.Itoa(i)
		where = append(where, `(
  public.immutable_unaccent(lower(b.title)) LIKE '%' || $`+idx+` || '%'
  OR public.immutable_unaccent(lower(b.author)) LIKE '%' || $`+idx+` || '%'
  OR lower(b.isbn) LIKE '%' || $`+idx+` || '%'
  OR public.immutable_unaccent(lower(b.description)) LIKE '%' || $`+idx+` || '%'
)`)
		args = append(args, q)
		i++
	}

	if g := strings.TrimSpace(f.Genre); g != "" && g != "all" {
		where = append(where, "b.genre = $"+strconv.Itoa(i))
		args = append(args, g)
		i++
	}

	switch strings.TrimSpace(f.ListingType) {
	case "sale":
		where = append(where, "b.listing_type IN ('sale','both')")
	case "lease":
		where = append(where, "b.listing_type IN ('lease','both')")
	}

	whereSQL := "WHERE " + strings.Join(where, " AND ") + "\n"

	var total int
	if err := db.QueryRowContext(ctx,
		"SELECT COUNT(*)\nFROM books b\n"+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `
SELECT` + bookColumns + `,
  u.id, u.username, u.readers_score, u.total_ratings, COALESCE(u.publisher_name, '')
FROM books b
JOIN accounts u ON u.id = b.uploader_id
` + whereSQL + orderClause(f.Sort) + `
LIMIT $` + strconv.Itoa(i) + ` OFFSET $` + strconv.Itoa(i+1)

	rows, err := db.QueryContext(ctx, q, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []CatalogBook{}
	for rows.Next() {
		cb, err := scanCatalogRow(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, cb)
	}
	return out, total, rows.Err()
}

func scanCatalogRow(rows *sql.Rows) (CatalogBook, error) {
	var cb CatalogBook
	var publisherID, coverKey, currentTx, rentedTo sql.NullString
	var salePrice, leasePerDay, leaseMin, leaseMax sql.NullInt64
	var rentalStart, rentalEnd sql.NullTime

	err := rows.Scan(
		&cb.ID, &cb.ISBN, &cb.Title, &cb.Author, &cb.Genre,
		&cb.UploaderID, &cb.UploaderType, &publisherID,
		&cb.Description, &coverKey, &cb.Rating, &cb.TotalRatings,
		&cb.Status, &cb.ListingType,
		&salePrice, &leasePerDay, &leaseMin, &leaseMax,
		&cb.LeaseTerms,
		&currentTx, &rentedTo, &rentalStart, &rentalEnd,
		&cb.CreatedAt,
		&cb.Uploader.ID, &cb.Uploader.Name, &cb.Uploader.ReadersScore,
		&cb.Uploader.TotalRatings, &cb.Uploader.PublisherName,
	)
	if err != nil {
		return CatalogBook{}, err
	}
	fillNullable(&cb.Book, publisherID, coverKey, currentTx, rentedTo, salePrice, leasePerDay, leaseMin, leaseMax, rentalStart, rentalEnd)
	return cb, nil
}
