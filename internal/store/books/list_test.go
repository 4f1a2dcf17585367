package books

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestOrderClause(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"date_desc", "ORDER BY b.created_at DESC"},
		{"date_asc", "ORDER BY b.created_at ASC"},
		{"price_asc", "ORDER BY COALESCE(b.sale_price_cents, b.lease_per_day_cents) ASC"},
		{"price_desc", "ORDER BY COALESCE(b.sale_price_cents, b.lease_per_day_cents) DESC"},
		{"rating_desc", "ORDER BY b.rating DESC, b.total_ratings DESC"},
		{"popularity_desc", "ORDER BY b.total_ratings DESC, b.rating DESC"},
		{"", "ORDER BY b.created_at DESC"},
		{"garbage", "ORDER BY b.created_at DESC"},
		// hostile tokens never reach SQL
		{"title; DROP TABLE books_desc", "ORDER BY b.created_at DESC"},
		{"date_asc; --", "ORDER BY b.created_at ASC"},
	}

	for _, tt := range tests {
		if got := orderClause(tt.token); got != tt.want {
			t.Errorf("orderClause(%q) = %q, want %q", tt.token, got, tt.want)
		}
	}
}

func TestFoldSearch(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Brontë", "bronte"},
		{"  GARCÍA Márquez ", "garcia marquez"},
		{"plain", "plain"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := foldSearch(tt.in); got != tt.want {
			t.Errorf("foldSearch(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestList_EmptyPage(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*)`)).
		WithArgs("bronte").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(
		`public.immutable_unaccent(lower(b.title)) LIKE '%' || $1 || '%'`,
	)).
		WithArgs("bronte", 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	out, total, err := List(t.Context(), db, ListFilters{Search: "Brontë", Limit: 20})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if total != 0 {
		t.Fatalf("want total 0, got %d", total)
	}
	if out == nil {
		t.Fatal("empty page must be a non-nil slice so it serializes as []")
	}
	if len(out) != 0 {
		t.Fatalf("want no rows, got %d", len(out))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
