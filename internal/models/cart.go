package models

import "time"

type ItemType string

const (
	ItemPurchase ItemType = "purchase"
	ItemRent     ItemType = "rent"
)

func ValidItemType(t ItemType) bool { return t == ItemPurchase || t == ItemRent }

// RentalDuration bounds a lease-type cart or order line.
type RentalDuration struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// Days is the ceiling day-count of the window, minimum 0.
func (d RentalDuration) Days() int {
	diff := d.EndDate.Sub(d.StartDate)
	if diff <= 0 {
		return 0
	}
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) != 0 {
		days++
	}
	return days
}

type CartItem struct {
	ID             string          `json:"id"`
	BookID         string          `json:"book_id"`
	Quantity       int             `json:"quantity"`
	Type           ItemType        `json:"type"`
	PriceCents     int64           `json:"price"`
	RentalDuration *RentalDuration `json:"rental_duration,omitempty"`
}

// LineTotal contributes price*qty for purchases and price*days*qty for rentals.
func (it CartItem) LineTotal() int64 {
	if it.Type == ItemRent && it.RentalDuration != nil {
		return it.PriceCents * int64(it.RentalDuration.Days()) * int64(it.Quantity)
	}
	return it.PriceCents * int64(it.Quantity)
}

type Cart struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	Items            []CartItem `json:"items"`
	TotalAmountCents int64      `json:"total_amount"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Total recomputes the cart total from its items. The stored column is never
// trusted on its own; every mutation writes this value back.
func (c *Cart) Total() int64 {
	var sum int64
	for _, it := range c.Items {
		sum += it.LineTotal()
	}
	return sum
}
