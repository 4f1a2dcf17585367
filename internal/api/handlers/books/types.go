package books

import (
	"net/http"
	"strings"

	"github.com/shelfswap/marketplace-api/internal/api/apperr"
	"github.com/shelfswap/marketplace-api/internal/models"
	storebooks "github.com/shelfswap/marketplace-api/internal/store/books"
	"github.com/shelfswap/marketplace-api/internal/validate"
)

type leasePriceBody struct {
	PerDay      int64 `json:"per_day"`
	MinDuration int   `json:"min_duration"`
	MaxDuration int   `json:"max_duration"`
}

type priceBody struct {
	Sale  *int64          `json:"sale"`
	Lease *leasePriceBody `json:"lease"`
}

type createBookRequest struct {
	ISBN        string    `json:"isbn"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Genre       string    `json:"genre"`
	Description string    `json:"description"`
	ListingType string    `json:"listing_type"`
	Price       priceBody `json:"price"`
	LeaseTerms  string    `json:"lease_terms"`
}

type updateBookRequest struct {
	Title       *string    `json:"title"`
	Author      *string    `json:"author"`
	Genre       *string    `json:"genre"`
	Description *string    `json:"description"`
	ListingType *string    `json:"listing_type"`
	Price       *priceBody `json:"price"`
	LeaseTerms  *string    `json:"lease_terms"`
}

// toDTO validates client fields and stamps the uploader from the
// authenticated account.
func (req createBookRequest) toDTO(userID string, role models.Role) (storebooks.CreateBookDTO, error) {
	isbn, err := validate.ISBN(req.ISBN)
	if err != nil {
		return storebooks.CreateBookDTO{}, models.Validation(err.Error())
	}
	title, err := validate.RequireBounded("title", req.Title, 1, 300)
	if err != nil {
		return storebooks.CreateBookDTO{}, models.Validation(err.Error())
	}
	author, err := validate.RequireBounded("author", req.Author, 1, 200)
	if err != nil {
		return storebooks.CreateBookDTO{}, models.Validation(err.Error())
	}
	if !models.ValidGenre(req.Genre) {
		return storebooks.CreateBookDTO{}, models.Validation("unknown genre")
	}
	lt := models.ListingType(strings.ToLower(strings.TrimSpace(req.ListingType)))
	if !models.ValidListingType(lt) {
		return storebooks.CreateBookDTO{}, models.Validation("listing_type must be sale, lease, or both")
	}

	dto := storebooks.CreateBookDTO{
		ISBN:         isbn,
		Title:        title,
		Author:       author,
		Genre:        req.Genre,
		Description:  strings.TrimSpace(req.Description),
		ListingType:  lt,
		Price:        req.Price.toModel(),
		LeaseTerms:   strings.TrimSpace(req.LeaseTerms),
		UploaderID:   userID,
		UploaderType: role.UploaderType(),
	}
	if role == models.RolePublisher {
		id := userID
		dto.PublisherID = &id
	}
	return dto, nil
}

// priceErrors runs the listing-type price rules against a create payload.
func priceErrors(dto storebooks.CreateBookDTO) []models.FieldError {
	b := models.Book{ListingType: dto.ListingType, Price: dto.Price, LeaseTerms: dto.LeaseTerms}
	return b.ValidatePrice()
}

// fieldProblem renders field-level validation failures as RFC 7807.
func fieldProblem(errs []models.FieldError) apperr.Problem {
	fe := make([]apperr.FieldError, 0, len(errs))
	for _, e := range errs {
		fe = append(fe, apperr.FieldError{Field: e.Field, Code: "invalid", Message: e.Message})
	}
	return apperr.Problem{
		Status:      http.StatusBadRequest,
		Title:       "Validation failed",
		FieldErrors: fe,
	}
}

func (p priceBody) toModel() models.Price {
	var out models.Price
	if p.Sale != nil {
		v := *p.Sale
		out.SaleCents = &v
	}
	if p.Lease != nil {
		out.Lease = &models.LeasePrice{
			PerDayCents: p.Lease.PerDay,
			MinDays:     p.Lease.MinDuration,
			MaxDays:     p.Lease.MaxDuration,
		}
	}
	return out
}
