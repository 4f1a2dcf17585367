package orders_test

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shelfswap/marketplace-api/internal/models"
	"github.com/shelfswap/marketplace-api/internal/store/orders"
)

var bookCols = []string{
	"id", "isbn", "title", "author", "genre",
	"uploader_id", "uploader_type", "publisher_id",
	"description", "cover_key", "rating", "total_ratings",
	"status", "listing_type",
	"sale_price_cents", "lease_per_day_cents", "lease_min_days", "lease_max_days",
	"lease_terms",
	"current_transaction", "rented_to", "rental_start", "rental_end",
	"created_at",
}

func bookRow(title, status string) *sqlmock.Rows {
	return sqlmock.NewRows(bookCols).AddRow(
		"b-1", "9780134685991", title, "Author", "Fiction",
		"seller", "User", nil,
		"desc", nil, 0.0, 0,
		status, "sale",
		int64(1500), nil, nil, nil,
		"",
		"o-old", nil, nil, nil,
		time.Now(),
	)
}

func TestCheckout_EmptyCart(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id FROM carts WHERE user_id = $1`,
	)).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err = orders.Checkout(t.Context(), db, "u-1", validParams())
	if models.KindOf(err) != models.KindInvalidState {
		t.Fatalf("want KindInvalidState, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCheckout_BookNoLongerAvailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id FROM carts WHERE user_id = $1`,
	)).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("c-1"))
	mock.ExpectQuery(regexp.QuoteMeta(
		`FROM cart_items WHERE cart_id = $1 ORDER BY created_at`,
	)).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"book_id", "quantity", "type", "price_cents", "rental_start", "rental_end"}).
			AddRow("b-1", 1, "purchase", int64(1500), nil, nil))
	mock.ExpectQuery(regexp.QuoteMeta(
		`FROM books b WHERE b.id = $1 FOR UPDATE`,
	)).
		WithArgs("b-1").
		WillReturnRows(bookRow("The Hobbit", "sold"))
	mock.ExpectRollback()

	_, err = orders.Checkout(t.Context(), db, "u-1", validParams())
	if models.KindOf(err) != models.KindConflict {
		t.Fatalf("want KindConflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCheckout_BadPaymentMethod(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	p := validParams()
	p.PaymentMethod = "cash"
	_, err = orders.Checkout(t.Context(), db, "u-1", p)
	if models.KindOf(err) != models.KindValidation {
		t.Fatalf("want KindValidation, got %v", err)
	}
}

func TestUpdateStatus_IllegalTransition(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT user_id, status FROM orders WHERE id = $1 FOR UPDATE`,
	)).
		WithArgs("o-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "status"}).AddRow("u-1", "delivered"))
	mock.ExpectRollback()

	_, err = orders.UpdateStatus(t.Context(), db, "o-1", models.OrderCancelled)
	if models.KindOf(err) != models.KindInvalidState {
		t.Fatalf("want KindInvalidState, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	_, err = orders.UpdateStatus(t.Context(), db, "o-1", "paid")
	if models.KindOf(err) != models.KindValidation {
		t.Fatalf("want KindValidation, got %v", err)
	}
}

func validParams() orders.CheckoutParams {
	return orders.CheckoutParams{
		PaymentMethod: "credit_card",
		ShippingAddress: models.ShippingAddress{
			Street:  "1 Main St",
			City:    "Springfield",
			State:   "IL",
			Zipcode: "62701",
			Country: "USA",
		},
	}
}

// A failure after the order insert, while flipping the book's status, must
// roll the whole checkout back so no order row survives.
func TestCheckout_RollsBackOnBookUpdateFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id FROM carts WHERE user_id = $1`,
	)).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("c-1"))
	mock.ExpectQuery(regexp.QuoteMeta(
		`FROM cart_items WHERE cart_id = $1 ORDER BY created_at`,
	)).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"book_id", "quantity", "type", "price_cents", "rental_start", "rental_end"}).
			AddRow("b-1", 1, "purchase", int64(1500), nil, nil))
	mock.ExpectQuery(regexp.QuoteMeta(
		`FROM books b WHERE b.id = $1 FOR UPDATE`,
	)).
		WithArgs("b-1").
		WillReturnRows(bookRow("The Hobbit", "available"))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO orders`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE books SET status = 'sold'`)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err = orders.Checkout(t.Context(), db, "u-1", validParams())
	if err == nil {
		t.Fatal("expected checkout to fail")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCheckout_Purchase(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id FROM carts WHERE user_id = $1`,
	)).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("c-1"))
	mock.ExpectQuery(regexp.QuoteMeta(
		`FROM cart_items WHERE cart_id = $1 ORDER BY created_at`,
	)).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"book_id", "quantity", "type", "price_cents", "rental_start", "rental_end"}).
			AddRow("b-1", 1, "purchase", int64(1500), nil, nil))
	mock.ExpectQuery(regexp.QuoteMeta(
		`FROM books b WHERE b.id = $1 FOR UPDATE`,
	)).
		WithArgs("b-1").
		WillReturnRows(bookRow("The Hobbit", "available"))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO orders`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE books SET status = 'sold'`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cart_items WHERE cart_id = $1`)).
		WithArgs("c-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM carts WHERE id = $1`)).
		WithArgs("c-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(
		`FROM orders o WHERE o.id = $1 AND o.user_id = $2`,
	)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "total_amount_cents", "status", "has_rated", "rating",
			"ship_street", "ship_city", "ship_state", "ship_zipcode", "ship_country",
			"payment_method", "payment_status", "payment_txn_id", "payment_date",
			"created_at",
		}).AddRow(
			"o-1", "u-1", int64(1500), "pending", false, nil,
			"1 Main St", "Springfield", "IL", "62701", "USA",
			"credit_card", "pending", "txn-1", now,
			now,
		))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM order_items oi`)).
		WithArgs("o-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "book_id", "uploader_id", "quantity", "type", "price_cents",
			"rental_start", "rental_end", "status",
			"title", "author", "username",
		}).AddRow(
			"oi-1", "b-1", "seller", 1, "purchase", int64(1500),
			nil, nil, "active",
			"The Hobbit", "Author", "sellername",
		))
	mock.ExpectCommit()

	order, err := orders.Checkout(t.Context(), db, "u-1", validParams())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if order.Status != models.OrderPending || order.TotalAmountCents != 1500 {
		t.Fatalf("unexpected order: %+v", order)
	}
	if len(order.Items) != 1 || order.Items[0].BookID != "b-1" {
		t.Fatalf("unexpected items: %+v", order.Items)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
