package users_test

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shelfswap/marketplace-api/internal/models"
	"github.com/shelfswap/marketplace-api/internal/store/users"
)

func TestRateSeller(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id FROM orders`,
	)).
		WithArgs("o-1", "buyer").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("o-1"))
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT count(*) FROM order_items WHERE order_id = $1 AND uploader_id = $2`,
	)).
		WithArgs("o-1", "seller").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT readers_score, total_ratings FROM accounts WHERE id = $1 FOR UPDATE`,
	)).
		WithArgs("seller").
		WillReturnRows(sqlmock.NewRows([]string{"readers_score", "total_ratings"}).AddRow(50, 2))
	// (50*2 + 80) / 3 rounds to 60
	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE accounts SET readers_score = $1, total_ratings = total_ratings + 1 WHERE id = $2`,
	)).
		WithArgs(60, "seller").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE orders SET has_rated = true, rating = $1 WHERE id = $2`,
	)).
		WithArgs(80, "o-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	score, err := users.RateSeller(t.Context(), db, "buyer", "seller", "o-1", 80)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if score != 60 {
		t.Fatalf("want new score 60, got %d", score)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestRateSeller_AlreadyRated(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id FROM orders`,
	)).
		WithArgs("o-1", "buyer").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err = users.RateSeller(t.Context(), db, "buyer", "seller", "o-1", 80)
	if models.KindOf(err) != models.KindInvalidState {
		t.Fatalf("want KindInvalidState, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestRateSeller_BadInput(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if _, err := users.RateSeller(t.Context(), db, "buyer", "seller", "o-1", 101); models.KindOf(err) != models.KindValidation {
		t.Fatalf("out-of-range rating: want KindValidation, got %v", err)
	}
	if _, err := users.RateSeller(t.Context(), db, "same", "same", "o-1", 50); models.KindOf(err) != models.KindValidation {
		t.Fatalf("self-rating: want KindValidation, got %v", err)
	}
}
