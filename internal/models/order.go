package models

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
	OrderReturned  OrderStatus = "returned"
)

func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled, OrderReturned:
		return true
	}
	return false
}

// statusTransitions is the forward-only state machine for admin status
// updates. Cancelled and returned are terminal; delivered can only move to
// returned.
var statusTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderShipped, OrderCancelled},
	OrderShipped:   {OrderDelivered},
	OrderDelivered: {OrderReturned},
}

// CanTransition reports whether an order may move from to to.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

var PaymentMethods = []string{"credit_card", "debit_card", "upi", "net_banking"}

func ValidPaymentMethod(m string) bool {
	for _, v := range PaymentMethods {
		if v == m {
			return true
		}
	}
	return false
}

type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zipcode string `json:"zipcode"`
	Country string `json:"country"`
}

type OrderItemStatus string

const (
	OrderItemActive    OrderItemStatus = "active"
	OrderItemCompleted OrderItemStatus = "completed"
)

// OrderItem is a snapshot of a cart line taken at checkout; it never
// references the cart after the order is created.
type OrderItem struct {
	ID             string          `json:"id"`
	BookID         string          `json:"book_id"`
	UploaderID     string          `json:"uploader_id"`
	Quantity       int             `json:"quantity"`
	Type           ItemType        `json:"type"`
	PriceCents     int64           `json:"price"`
	RentalDuration *RentalDuration `json:"rental_duration,omitempty"`
	Status         OrderItemStatus `json:"status"`

	// Populated for display only.
	BookTitle    string `json:"book_title,omitempty"`
	BookAuthor   string `json:"book_author,omitempty"`
	UploaderName string `json:"uploader_name,omitempty"`
}

type PaymentDetails struct {
	TransactionID string     `json:"transaction_id,omitempty"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
}

type Order struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	Items            []OrderItem     `json:"items"`
	TotalAmountCents int64           `json:"total_amount"`
	Status           OrderStatus     `json:"status"`
	HasRated         bool            `json:"has_rated"`
	Rating           *int            `json:"rating,omitempty"`
	ShippingAddress  ShippingAddress `json:"shipping_address"`
	PaymentMethod    string          `json:"payment_method"`
	PaymentStatus    PaymentStatus   `json:"payment_status"`
	PaymentDetails   *PaymentDetails `json:"payment_details,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}
