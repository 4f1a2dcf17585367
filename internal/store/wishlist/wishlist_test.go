package wishlist_test

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shelfswap/marketplace-api/internal/store/wishlist"
)

func TestContains(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT EXISTS(SELECT 1 FROM wishlist_items WHERE user_id = $1 AND book_id = $2)`,
	)).
		WithArgs("u-1", "b-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	saved, err := wishlist.Contains(t.Context(), db, "u-1", "b-1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !saved {
		t.Fatal("want saved=true")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestContains_NotSaved(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
		WithArgs("u-1", "b-2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	saved, err := wishlist.Contains(t.Context(), db, "u-1", "b-2")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if saved {
		t.Fatal("want saved=false")
	}
}
