package orders

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shelfswap/marketplace-api/internal/models"
	"github.com/shelfswap/marketplace-api/internal/store/dbx"
)

// List returns the user's orders newest-first, items populated.
func List(ctx context.Context, db *sql.DB, userID string) ([]models.Order, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT"+orderColumns+" FROM orders o WHERE o.user_id = $1 ORDER BY o.created_at DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].Items, err = loadItems(ctx, db, orders[i].ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// Get returns one of the user's orders, NotFound when the id does not exist
// or belongs to someone else.
func Get(ctx context.Context, db *sql.DB, userID, orderID string) (models.Order, error) {
	return getTx(ctx, db, userID, orderID)
}

func getTx(ctx context.Context, q queryer, userID, orderID string) (models.Order, error) {
	o, err := scanOrder(q.QueryRowContext(ctx,
		"SELECT"+orderColumns+" FROM orders o WHERE o.id = $1 AND o.user_id = $2",
		orderID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, models.NotFound("Order not found")
	}
	if err != nil {
		return models.Order{}, err
	}
	o.Items, err = loadItems(ctx, q, o.ID)
	return o, err
}

// loadItems fetches an order's item snapshots with book and uploader display
// fields joined in.
func loadItems(ctx context.Context, q dbx.Queryer, orderID string) ([]models.OrderItem, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT`+itemColumns+`,
			b.title, b.author, u.username
		FROM order_items oi
		JOIN books b ON b.id = oi.book_id
		JOIN accounts u ON u.id = oi.uploader_id
		WHERE oi.order_id = $1 ORDER BY oi.id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var it models.OrderItem
		var start, end sql.NullTime
		if err := rows.Scan(
			&it.ID, &it.BookID, &it.UploaderID, &it.Quantity, &it.Type, &it.PriceCents,
			&start, &end, &it.Status,
			&it.BookTitle, &it.BookAuthor, &it.UploaderName,
		); err != nil {
			return nil, err
		}
		if start.Valid && end.Valid {
			it.RentalDuration = &models.RentalDuration{StartDate: start.Time, EndDate: end.Time}
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (models.Order, error) {
	var o models.Order
	var rating sql.NullInt64
	var txnID sql.NullString
	var payDate sql.NullTime
	err := row.Scan(
		&o.ID, &o.UserID, &o.TotalAmountCents, &o.Status, &o.HasRated, &rating,
		&o.ShippingAddress.Street, &o.ShippingAddress.City, &o.ShippingAddress.State,
		&o.ShippingAddress.Zipcode, &o.ShippingAddress.Country,
		&o.PaymentMethod, &o.PaymentStatus, &txnID, &payDate,
		&o.CreatedAt,
	)
	if err != nil {
		return models.Order{}, err
	}
	if rating.Valid {
		v := int(rating.Int64)
		o.Rating = &v
	}
	if txnID.Valid || payDate.Valid {
		o.PaymentDetails = &models.PaymentDetails{TransactionID: txnID.String}
		if payDate.Valid {
			o.PaymentDetails.PaymentDate = &payDate.Time
		}
	}
	return o, nil
}

type queryer interface {
	dbx.Getter
	dbx.Queryer
}
