package carts_test

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shelfswap/marketplace-api/internal/models"
	"github.com/shelfswap/marketplace-api/internal/store/carts"
)

func TestGet_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, user_id, total_amount_cents, updated_at FROM carts WHERE user_id = $1`,
	)).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "total_amount_cents", "updated_at"}))

	_, err = carts.Get(t.Context(), db, "u-1")
	if err == nil {
		t.Fatal("expected NotFound error")
	}
	if models.KindOf(err) != models.KindNotFound {
		t.Fatalf("want KindNotFound, got %v (%v)", models.KindOf(err), err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestRemoveItem(t *testing.T) {
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
	mock.ExpectExec(regexp.QuoteMeta(
		`DELETE FROM cart_items WHERE id = $1 AND cart_id = $2`,
	)).
		WithArgs("item-1", "c-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE carts SET total_amount_cents = (`,
	)).
		WithArgs("c-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, user_id, total_amount_cents, updated_at FROM carts WHERE user_id = $1`,
	)).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "total_amount_cents", "updated_at"}).
			AddRow("c-1", "u-1", int64(1500), now))
	mock.ExpectQuery(regexp.QuoteMeta(
		`FROM cart_items WHERE cart_id = $1 ORDER BY created_at`,
	)).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "book_id", "quantity", "type", "price_cents", "rental_start", "rental_end"}).
			AddRow("item-2", "b-2", 1, "purchase", int64(1500), nil, nil))
	mock.ExpectCommit()

	cart, err := carts.RemoveItem(t.Context(), db, "u-1", "item-1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cart.ID != "c-1" || cart.TotalAmountCents != 1500 {
		t.Fatalf("unexpected cart: %+v", cart)
	}
	if len(cart.Items) != 1 || cart.Items[0].ID != "item-2" {
		t.Fatalf("unexpected items: %+v", cart.Items)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestRemoveItem_NoCart(t *testing.T) {
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

	_, err = carts.RemoveItem(t.Context(), db, "u-1", "item-1")
	if models.KindOf(err) != models.KindNotFound {
		t.Fatalf("want KindNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

var cartBookCols = []string{
	"id", "isbn", "title", "author", "genre",
	"uploader_id", "uploader_type", "publisher_id",
	"description", "cover_key", "rating", "total_ratings",
	"status", "listing_type",
	"sale_price_cents", "lease_per_day_cents", "lease_min_days", "lease_max_days",
	"lease_terms",
	"current_transaction", "rented_to", "rental_start", "rental_end",
	"created_at",
}

// saleOnlyBookRow is an available listing priced for purchase only.
func saleOnlyBookRow() *sqlmock.Rows {
	return sqlmock.NewRows(cartBookCols).AddRow(
		"b-1", "9780134685991", "The Hobbit", "Tolkien", "Fiction",
		"seller", "User", nil,
		"desc", nil, 0.0, 0,
		"available", "sale",
		int64(1500), nil, nil, nil,
		"",
		nil, nil, nil, nil,
		time.Now(),
	)
}

func TestAddItem_RentOnSaleOnlyBook(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		`FROM books b WHERE b.id = $1`,
	)).
		WithArgs("b-1").
		WillReturnRows(saleOnlyBookRow())
	mock.ExpectRollback()

	_, err = carts.AddItem(t.Context(), db, "u-1", carts.AddItemParams{
		BookID:   "b-1",
		Quantity: 1,
		Type:     models.ItemRent,
		RentalDuration: &models.RentalDuration{
			StartDate: time.Now(),
			EndDate:   time.Now().Add(72 * time.Hour),
		},
	})
	if models.KindOf(err) != models.KindInvalidState {
		t.Fatalf("want KindInvalidState, got %v", err)
	}
	if !strings.Contains(err.Error(), "not available for rent") {
		t.Fatalf("unexpected message: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestAddItem_DuplicateLine(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		`FROM books b WHERE b.id = $1`,
	)).
		WithArgs("b-1").
		WillReturnRows(saleOnlyBookRow())
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id FROM carts WHERE user_id = $1`,
	)).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("c-1"))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO cart_items`)).
		WillReturnError(&pgconn.PgError{
			Code:           "23505",
			ConstraintName: "cart_items_cart_id_book_id_type_key",
		})
	mock.ExpectRollback()

	_, err = carts.AddItem(t.Context(), db, "u-1", carts.AddItemParams{
		BookID: "b-1", Quantity: 1, Type: models.ItemPurchase,
	})
	if models.KindOf(err) != models.KindInvalidState {
		t.Fatalf("want KindInvalidState, got %v", err)
	}
	if !strings.Contains(err.Error(), "already in your cart") {
		t.Fatalf("unexpected message: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

// The line price must come from the book row, never from client input.
func TestAddItem_DerivesPriceFromBook(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		`FROM books b WHERE b.id = $1`,
	)).
		WithArgs("b-1").
		WillReturnRows(saleOnlyBookRow())
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id FROM carts WHERE user_id = $1`,
	)).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("c-1"))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO cart_items`)).
		WithArgs("c-1", "b-1", 1, "purchase", int64(1500), nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE carts SET total_amount_cents = (`,
	)).
		WithArgs("c-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, user_id, total_amount_cents, updated_at FROM carts WHERE user_id = $1`,
	)).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "total_amount_cents", "updated_at"}).
			AddRow("c-1", "u-1", int64(1500), now))
	mock.ExpectQuery(regexp.QuoteMeta(
		`FROM cart_items WHERE cart_id = $1 ORDER BY created_at`,
	)).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "book_id", "quantity", "type", "price_cents", "rental_start", "rental_end"}).
			AddRow("item-1", "b-1", 1, "purchase", int64(1500), nil, nil))
	mock.ExpectCommit()

	cart, err := carts.AddItem(t.Context(), db, "u-1", carts.AddItemParams{
		BookID: "b-1", Quantity: 1, Type: models.ItemPurchase,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cart.TotalAmountCents != 1500 {
		t.Fatalf("want total 1500, got %d", cart.TotalAmountCents)
	}
	if len(cart.Items) != 1 || cart.Items[0].PriceCents != 1500 {
		t.Fatalf("unexpected items: %+v", cart.Items)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
