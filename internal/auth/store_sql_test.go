package auth_test

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shelfswap/marketplace-api/internal/auth"
)

// A banned account must be invisible to the login lookup; banning and an
// unknown email look the same to the caller.
func TestFindByEmail_ExcludesBanned(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(
		`FROM accounts WHERE email = $1 AND status <> 'banned'`,
	)).
		WithArgs("banned@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = auth.NewSQLStore(db).FindByEmail(t.Context(), "banned@example.com")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("want sql.ErrNoRows, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

// TokenVersion backs refresh rotation; a ban must cut that off too.
func TestTokenVersion_ExcludesBanned(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT COALESCE(token_version,1), role FROM accounts WHERE id = $1 AND status <> 'banned'`,
	)).
		WithArgs("u-banned").
		WillReturnRows(sqlmock.NewRows([]string{"token_version", "role"}))

	_, _, err = auth.NewSQLStore(db).TokenVersion(t.Context(), "u-banned")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("want sql.ErrNoRows, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
