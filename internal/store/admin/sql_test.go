package adminstore_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	admin "github.com/shelfswap/marketplace-api/internal/api/handlers/admin"
	adminstore "github.com/shelfswap/marketplace-api/internal/store/admin"
)

func TestCountAccounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	store := adminstore.New(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		`count(*) FILTER (WHERE role = 'user')`,
	)).WillReturnRows(
		sqlmock.NewRows([]string{"count", "count"}).AddRow(42, 7),
	)

	users, publishers, err := store.CountAccounts(t.Context())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if users != 42 || publishers != 7 {
		t.Fatalf("want users=42 publishers=7; got users=%d publishers=%d", users, publishers)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSetAccountRole_OK(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	store := adminstore.New(db)

	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE accounts SET role = $1, updated_at = now() WHERE id = $2`,
	)).
		WithArgs("admin", "u-123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.SetAccountRole(t.Context(), "u-123", "admin"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSetAccountRole_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	store := adminstore.New(db)

	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE accounts SET role = $1, updated_at = now() WHERE id = $2`,
	)).
		WithArgs("user", "nope").
		WillReturnResult(sqlmock.NewResult(0, 0)) // 0 rows affected

	err = store.SetAccountRole(t.Context(), "nope", "user")
	if err == nil {
		t.Fatalf("expected error for 0 rows affected")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestListAccounts_Basic(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	store := adminstore.New(db)

	// count(*) without WHERE
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT count(*) FROM accounts`,
	)).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	t1, _ := time.Parse(time.RFC3339, "2024-01-01T00:00:00Z")
	t2, _ := time.Parse(time.RFC3339, "2024-01-02T00:00:00Z")

	selectRe := regexp.MustCompile(
		`SELECT id, email, username, role, status, created_at\s+` +
			`FROM accounts\s+ORDER BY created_at DESC\s+LIMIT \$1 OFFSET \$2`,
	)

	rows := sqlmock.NewRows([]string{
		"id", "email", "username", "role", "status", "created_at",
	}).AddRow(
		"u1", "a@example.com", "alice", "user", "active", t1,
	).AddRow(
		"u2", "b@example.com", "bob", "publisher", "active", t2,
	)

	mock.ExpectQuery(selectRe.String()).
		WithArgs(25, 0). // default Size=25 Page=1
		WillReturnRows(rows)

	list, total, err := store.ListAccounts(t.Context(), admin.ListFilter{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Fatalf("want total=2 items=2; got total=%d items=%d", total, len(list))
	}
	if list[0].ID != "u1" || list[1].ID != "u2" {
		t.Fatalf("unexpected order or data: %+v", list)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestListAccounts_WithFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	store := adminstore.New(db)
	f := admin.ListFilter{
		Query:  "ali",
		Role:   "publisher",
		Status: "active",
		Page:   2,
		Size:   10,
	}

	countRe := regexp.MustCompile(
		`SELECT count\(\*\) FROM accounts WHERE ` +
			`\(email ILIKE \$1 OR username ILIKE \$1\) AND role = \$2 AND status = \$3`,
	)
	mock.ExpectQuery(countRe.String()).
		WithArgs("%ali%", "publisher", "active").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(13))

	tCreated, _ := time.Parse(time.RFC3339, "2024-02-02T00:00:00Z")
	selectRe := regexp.MustCompile(
		`SELECT id, email, username, role, status, created_at\s+` +
			`FROM accounts\s+WHERE ` +
			`\(email ILIKE \$1 OR username ILIKE \$1\) AND role = \$2 AND status = \$3\s+` +
			`ORDER BY created_at DESC\s+LIMIT \$4 OFFSET \$5`,
	)

	rows := sqlmock.NewRows([]string{
		"id", "email", "username", "role", "status", "created_at",
	}).AddRow(
		"u9", "ali@example.com", "alice", "publisher", "active", tCreated,
	)

	// Page=2, Size=10 -> LIMIT 10 OFFSET 10
	mock.ExpectQuery(selectRe.String()).
		WithArgs("%ali%", "publisher", "active", 10, 10).
		WillReturnRows(rows)

	items, total, err := store.ListAccounts(t.Context(), f)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if total != 13 || len(items) != 1 || items[0].ID != "u9" {
		t.Fatalf("unexpected result: total=%d items=%d first=%+v", total, len(items), items[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
