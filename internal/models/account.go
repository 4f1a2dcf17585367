package models

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RolePublisher Role = "publisher"
	RoleAdmin     Role = "admin"
)

func ValidRole(r Role) bool { return r == RoleUser || r == RolePublisher || r == RoleAdmin }

// UploaderType is derived from the role at listing time, never reflected.
func (r Role) UploaderType() UploaderType {
	if r == RolePublisher {
		return UploaderPublisher
	}
	return UploaderUser
}

// PublisherProfile holds the extra fields a publisher account carries.
type PublisherProfile struct {
	PublisherName      string `json:"publisher_name"`
	PublicationAddress string `json:"publication_address"`
	OfficeContact      string `json:"office_contact"`
	Zipcode            string `json:"zipcode"`
}

// Account is a marketplace participant: a buyer, a private seller, or a
// publisher. The role field is the single discriminator.
type Account struct {
	ID           string            `json:"id"`
	Email        string            `json:"email"`
	Username     string            `json:"username"`
	Phone        string            `json:"phone,omitempty"`
	Role         Role              `json:"role"`
	ReadersScore int               `json:"readers_score"`
	TotalRatings int               `json:"total_ratings"`
	Publisher    *PublisherProfile `json:"publisher,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// NextReadersScore applies the incremental running-average formula:
// round((oldScore*oldCount + rating) / (oldCount+1)).
func NextReadersScore(oldScore, oldCount, rating int) int {
	total := oldScore*oldCount + rating
	n := oldCount + 1
	// integer round-half-up
	return (total + n/2) / n
}
