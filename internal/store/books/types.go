package books

import (
	"errors"

	"github.com/shelfswap/marketplace-api/internal/models"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid")
	ErrConflict = errors.New("conflict")
)

// ListFilters builds the public catalog predicate incrementally.
type ListFilters struct {
	Search      string // substring across title/author/isbn/description
	Genre       string // exact match, "" or "all" = no filter
	ListingType string // "sale" -> {sale,both}, "lease" -> {lease,both}
	Sort        string // "field_direction" token, e.g. "price_desc"
	Limit       int
	Offset      int
}

// UploaderSummary is the populated seller shape attached to catalog rows.
type UploaderSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ReadersScore  int    `json:"readers_score"`
	TotalRatings  int    `json:"total_ratings"`
	PublisherName string `json:"publisher_name,omitempty"`
}

// CatalogBook is a catalog row with its uploader populated.
type CatalogBook struct {
	models.Book
	Uploader UploaderSummary `json:"uploader"`
}

type CreateBookDTO struct {
	ISBN         string
	Title        string
	Author       string
	Genre        string
	Description  string
	ListingType  models.ListingType
	Price        models.Price
	LeaseTerms   string
	UploaderID   string
	UploaderType models.UploaderType
	PublisherID  *string
}

// UpdateBookDTO patches listing fields; nil pointers leave columns untouched.
type UpdateBookDTO struct {
	Title       *string
	Author      *string
	Genre       *string
	Description *string
	ListingType *models.ListingType
	Price       *models.Price
	LeaseTerms  *string
	CoverKey    *string
}
