package auth

import (
	"context"
	"database/sql"

	"github.com/shelfswap/marketplace-api/internal/models"
)

type SQLStore struct {
	DB *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{DB: db} }

func (s *SQLStore) CreateAccount(ctx context.Context, p CreateParams) (Record, error) {
	const q = `
		INSERT INTO accounts
			(email, username, phone, password_hash, role,
			 publisher_name, publication_address, office_contact, zipcode)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, COALESCE(token_version,1), created_at, updated_at;
	`
	var pubName, pubAddr, pubContact, pubZip any
	if p.Publisher != nil {
		pubName, pubAddr, pubContact, pubZip =
			p.Publisher.PublisherName, p.Publisher.PublicationAddress,
			p.Publisher.OfficeContact, p.Publisher.Zipcode
	}
	rec := Record{
		Account: models.Account{
			Email:     p.Email,
			Username:  p.Username,
			Phone:     p.Phone,
			Role:      p.Role,
			Publisher: p.Publisher,
		},
		PasswordHash: p.PasswordHash,
	}
	err := s.DB.QueryRowContext(ctx, q,
		p.Email, p.Username, p.Phone, p.PasswordHash, string(p.Role),
		pubName, pubAddr, pubContact, pubZip,
	).Scan(&rec.ID, &rec.TokenVersion, &rec.CreatedAt, &rec.UpdatedAt)
	return rec, err
}

func (s *SQLStore) FindByEmail(ctx context.Context, email string) (Record, error) {
	const q = `
		SELECT id, email, username, COALESCE(phone,''), password_hash, role,
		       readers_score, total_ratings, COALESCE(token_version,1),
		       publisher_name, publication_address, office_contact, zipcode,
		       created_at, updated_at
		FROM accounts WHERE email = $1 AND status <> 'banned' LIMIT 1;
	`
	var rec Record
	var role string
	var pubName, pubAddr, pubContact, pubZip sql.NullString
	err := s.DB.QueryRowContext(ctx, q, email).Scan(
		&rec.ID, &rec.Email, &rec.Username, &rec.Phone, &rec.PasswordHash, &role,
		&rec.ReadersScore, &rec.TotalRatings, &rec.TokenVersion,
		&pubName, &pubAddr, &pubContact, &pubZip,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return Record{}, err
	}
	rec.Role = models.Role(role)
	if rec.Role == models.RolePublisher && pubName.Valid {
		rec.Publisher = &models.PublisherProfile{
			PublisherName:      pubName.String,
			PublicationAddress: pubAddr.String,
			OfficeContact:      pubContact.String,
			Zipcode:            pubZip.String,
		}
	}
	return rec, nil
}

// TokenVersion also filters banned accounts so a ban cuts off refresh
// rotation, not just new logins.
func (s *SQLStore) TokenVersion(ctx context.Context, id string) (int, string, error) {
	var ver int
	var role string
	err := s.DB.QueryRowContext(ctx,
		`SELECT COALESCE(token_version,1), role FROM accounts WHERE id = $1 AND status <> 'banned'`, id).
		Scan(&ver, &role)
	return ver, role, err
}

func (s *SQLStore) PasswordHash(ctx context.Context, id string) (string, error) {
	var h string
	err := s.DB.QueryRowContext(ctx,
		`SELECT password_hash FROM accounts WHERE id = $1`, id).Scan(&h)
	return h, err
}

func (s *SQLStore) UpdatePasswordHash(ctx context.Context, id, newHash string) error {
	_, err := s.DB.ExecContext(ctx,
		`UPDATE accounts SET password_hash = $1, updated_at = now() WHERE id = $2`,
		newHash, id)
	return err
}

func (s *SQLStore) BumpTokenVersion(ctx context.Context, id string) error {
	_, err := s.DB.ExecContext(ctx,
		`UPDATE accounts
		    SET token_version = COALESCE(token_version,1) + 1, updated_at = now()
		  WHERE id = $1`, id)
	return err
}
