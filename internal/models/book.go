package models

import "time"

type BookStatus string

const (
	StatusAvailable BookStatus = "available"
	StatusRented    BookStatus = "rented"
	StatusSold      BookStatus = "sold"
)

type ListingType string

const (
	ListingSale  ListingType = "sale"
	ListingLease ListingType = "lease"
	ListingBoth  ListingType = "both"
)

type UploaderType string

const (
	UploaderUser      UploaderType = "User"
	UploaderPublisher UploaderType = "Publisher"
)

var Genres = []string{
	"Fiction", "Non-Fiction", "Science Fiction", "Fantasy", "Mystery",
	"Thriller", "Romance", "Horror", "Biography", "History", "Science",
	"Technology", "Self-Help", "Children", "Other",
}

// LeasePrice is the per-day rate plus the allowed rental window bounds.
type LeasePrice struct {
	PerDayCents int64 `json:"per_day"`
	MinDays     int   `json:"min_duration"`
	MaxDays     int   `json:"max_duration,omitempty"`
}

// Price carries whichever halves the listing type requires.
type Price struct {
	SaleCents *int64      `json:"sale,omitempty"`
	Lease     *LeasePrice `json:"lease,omitempty"`
}

// RentalInfo is set on a book while it is out on a rental order.
type RentalInfo struct {
	RentedTo  string    `json:"rented_to"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type Book struct {
	ID                 string       `json:"id"`
	ISBN               string       `json:"isbn"`
	Title              string       `json:"title"`
	Author             string       `json:"author"`
	Genre              string       `json:"genre"`
	UploaderID         string       `json:"uploader_id"`
	UploaderType       UploaderType `json:"uploader_type"`
	PublisherID        *string      `json:"publisher_id,omitempty"`
	Description        string       `json:"description"`
	CoverKey           *string      `json:"-"`
	Rating             float64      `json:"rating"`
	TotalRatings       int          `json:"total_ratings"`
	Status             BookStatus   `json:"status"`
	ListingType        ListingType  `json:"listing_type"`
	Price              Price        `json:"price"`
	LeaseTerms         string       `json:"lease_terms,omitempty"`
	CurrentTransaction *string      `json:"current_transaction,omitempty"`
	RentalInfo         *RentalInfo  `json:"rental_info,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
}

func ValidGenre(g string) bool {
	for _, v := range Genres {
		if v == g {
			return true
		}
	}
	return false
}

func ValidListingType(t ListingType) bool {
	return t == ListingSale || t == ListingLease || t == ListingBoth
}

// Sellable reports whether the listing type admits an outright purchase.
func (t ListingType) Sellable() bool { return t == ListingSale || t == ListingBoth }

// Leasable reports whether the listing type admits a rental.
func (t ListingType) Leasable() bool { return t == ListingLease || t == ListingBoth }

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidatePrice enforces the conditional-required price fields keyed off the
// listing type: sale price iff sellable, lease price iff leasable.
func (b *Book) ValidatePrice() []FieldError {
	var errs []FieldError
	if b.ListingType.Sellable() {
		if b.Price.SaleCents == nil || *b.Price.SaleCents <= 0 {
			errs = append(errs, FieldError{Field: "price.sale", Message: "sale price is required for this listing type"})
		}
	} else if b.Price.SaleCents != nil {
		errs = append(errs, FieldError{Field: "price.sale", Message: "sale price is not allowed for lease-only listings"})
	}
	if b.ListingType.Leasable() {
		switch {
		case b.Price.Lease == nil || b.Price.Lease.PerDayCents <= 0:
			errs = append(errs, FieldError{Field: "price.lease.per_day", Message: "per-day lease price is required for this listing type"})
		case b.Price.Lease.MinDays < 1:
			errs = append(errs, FieldError{Field: "price.lease.min_duration", Message: "minimum duration must be at least 1 day"})
		case b.Price.Lease.MaxDays != 0 && b.Price.Lease.MaxDays < b.Price.Lease.MinDays:
			errs = append(errs, FieldError{Field: "price.lease.max_duration", Message: "maximum duration must not be below the minimum"})
		}
		if b.Price.Lease != nil && b.LeaseTerms == "" {
			errs = append(errs, FieldError{Field: "lease_terms", Message: "lease terms are required for this listing type"})
		}
	} else if b.Price.Lease != nil {
		errs = append(errs, FieldError{Field: "price.lease", Message: "lease price is not allowed for sale-only listings"})
	}
	return errs
}
