package auth

import (
	"context"
	"time"

	"github.com/shelfswap/marketplace-api/internal/models"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"` // "user" (default) or "publisher"

	// Publisher profile, required when role=publisher.
	PublisherName      string `json:"publisher_name,omitempty"`
	PublicationAddress string `json:"publication_address,omitempty"`
	OfficeContact      string `json:"office_contact,omitempty"`
	Zipcode            string `json:"zipcode,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Record is an account row together with its credential columns.
type Record struct {
	models.Account
	PasswordHash string
	TokenVersion int
	UpdatedAt    time.Time
}

type CreateParams struct {
	Email        string
	Username     string
	Phone        string
	PasswordHash string
	Role         models.Role
	Publisher    *models.PublisherProfile
}

// AccountStore keeps DB details out of the handlers.
type AccountStore interface {
	CreateAccount(ctx context.Context, p CreateParams) (Record, error)
	FindByEmail(ctx context.Context, email string) (Record, error)
	TokenVersion(ctx context.Context, id string) (int, string, error) // version, role
	PasswordHash(ctx context.Context, id string) (string, error)
	UpdatePasswordHash(ctx context.Context, id, newHash string) error
	BumpTokenVersion(ctx context.Context, id string) error
}
