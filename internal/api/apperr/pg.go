package apperr

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Map well-known constraint names to fields (extend as you add constraints)
var constraintField = map[string]string{
	"books_isbn_key":                "isbn",
	"accounts_email_key":            "email",
	"accounts_publisher_name_key":   "publisher_name",
	"carts_user_id_key":             "user_id",
	"cart_items_cart_book_type_key": "book_id",
	"reviews_user_book_key":         "book_id",
	"cart_items_cart_id_fkey":       "cart_id",
	"cart_items_book_id_fkey":       "book_id",
	"order_items_order_id_fkey":     "order_id",
	"order_items_book_id_fkey":      "book_id",
	"books_uploader_id_fkey":        "uploader_id",
}

// Guess a field from a column name present in PG error detail
func fieldFromDetail(detail string) string {
	// crude but useful
	for _, k := range []string{"isbn", "email", "publisher_name", "book_id", "user_id", "order_id", "id"} {
		if strings.Contains(detail, k) {
			return k
		}
	}
	return ""
}

func fieldFromConstraint(c string) string {
	if f, ok := constraintField[c]; ok {
		return f
	}
	return ""
}

// FromPG maps a pgconn.PgError to a Problem. Returns (Problem, true) if mapped.
func FromPG(err error) (Problem, bool) {
	var pg *pgconn.PgError
	if !errors.As(err, &pg) {
		return Problem{}, false
	}

	// Defaults
	p := Problem{
		Title:  "Database error",
		Status: 500,
		Detail: strings.TrimSpace(pg.Message),
	}

	// Helpful field detection
	field := fieldFromConstraint(pg.ConstraintName)
	if field == "" && pg.Detail != "" {
		field = fieldFromDetail(pg.Detail)
	}

	// SQLSTATE switch
	switch pg.Code {
	case "23505": // unique_violation
		p.Status = 409
		p.Title = "Conflict"
		msg := "value already exists"
		if field == "" {
			field = "resource"
		}
		p.FieldErrors = []FieldError{{Field: field, Code: "unique", Message: msg}}
		p.Detail = ""
	case "23503": // foreign_key_violation
		p.Status = 409
		p.Title = "Conflict"
		msg := "resource is referenced by other records"
		if field == "" {
			field = "resource"
		}
		p.FieldErrors = []FieldError{{Field: field, Code: "fk", Message: msg}}
		p.Detail = ""
	case "23502": // not_null_violation
		p.Status = 400
		p.Title = "Bad Request"
		msg := "required field is missing"
		if field == "" && pg.ColumnName != "" {
			field = pg.ColumnName
		}
		if field == "" {
			field = "field"
		}
		p.FieldErrors = []FieldError{{Field: field, Code: "not_null", Message: msg}}
		p.Detail = ""
	case "23514": // check_violation
		p.Status = 422
		p.Title = "Unprocessable Entity"
		msg := "constraint failed"
		if field == "" {
			field = "field"
		}
		p.FieldErrors = []FieldError{{Field: field, Code: "check", Message: msg}}
		p.Detail = ""
	case "22P02": // invalid_text_representation (e.g., bad UUID)
		p.Status = 400
		p.Title = "Bad Request"
		msg := "invalid format"
		if field == "" {
			// common case: path param id/uuid
			field = "id"
		}
		p.FieldErrors = []FieldError{{Field: field, Code: "invalid", Message: msg}}
		p.Detail = ""
	case "40001": // serialization_failure
		p.Status = 409
		p.Title = "Conflict"
		p.Detail = "transaction conflict, please retry"
		p.Retryable = true
	case "40P01": // deadlock_detected
		p.Status = 409
		p.Title = "Conflict"
		p.Detail = "deadlock detected, please retry"
		p.Retryable = true
	default:
		// Keep default 500 with minimal detail
		p.Title = "Database error"
		p.Detail = ""
	}

	return p, true
}

// IsUniqueViolation reports whether err is a Postgres unique_violation.
func IsUniqueViolation(err error) bool {
	var pg *pgconn.PgError
	return errors.As(err, &pg) && pg.Code == "23505"
}
