package users

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/shelfswap/marketplace-api/internal/api/apperr"
	"github.com/shelfswap/marketplace-api/internal/models"
)

// UpdateProfileParams patches the mutable profile fields. Email, role, and
// the rating fields are deliberately absent.
type UpdateProfileParams struct {
	Username *string
	Phone    *string
}

// Profile returns a public account view by id.
func Profile(ctx context.Context, db *sql.DB, id string) (models.Account, error) {
	var a models.Account
	var pubName, pubAddr, pubContact, pubZip sql.NullString
	err := db.QueryRowContext(ctx, `
		SELECT id, email, username, COALESCE(phone, ''), role, readers_score, total_ratings,
			publisher_name, publication_address, office_contact, zipcode,
			created_at
		FROM accounts WHERE id = $1`, id).Scan(
		&a.ID, &a.Email, &a.Username, &a.Phone, &a.Role, &a.ReadersScore, &a.TotalRatings,
		&pubName, &pubAddr, &pubContact, &pubZip,
		&a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, models.NotFound("User not found")
	}
	if err != nil {
		return models.Account{}, err
	}
	if a.Role == models.RolePublisher && pubName.Valid {
		a.Publisher = &models.PublisherProfile{
			PublisherName:      pubName.String,
			PublicationAddress: pubAddr.String,
			OfficeContact:      pubContact.String,
			Zipcode:            pubZip.String,
		}
	}
	return a, nil
}

// UpdateProfile applies the allowed patch fields and returns the fresh
// profile.
func UpdateProfile(ctx context.Context, db *sql.DB, id string, p UpdateProfileParams) (models.Account, error) {
	set := []string{}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, col+" = $"+strconv.Itoa(len(args)))
	}
	if p.Username != nil {
		name := strings.TrimSpace(*p.Username)
		if name == "" {
			return models.Account{}, models.Validation("username cannot be empty")
		}
		add("username", name)
	}
	if p.Phone != nil {
		add("phone", *p.Phone)
	}
	if len(set) == 0 {
		return models.Account{}, models.Validation("no updatable fields in request")
	}
	set = append(set, "updated_at = now()")

	args = append(args, id)
	res, err := db.ExecContext(ctx,
		"UPDATE accounts SET "+strings.Join(set, ", ")+" WHERE id = $"+strconv.Itoa(len(args)),
		args...)
	if err != nil {
		if apperr.IsUniqueViolation(err) {
			return models.Account{}, models.Conflict("username is already taken")
		}
		return models.Account{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Account{}, models.NotFound("User not found")
	}
	return Profile(ctx, db, id)
}
