package orders

import "github.com/shelfswap/marketplace-api/internal/models"

// CheckoutParams is the client input for order creation. Everything else on
// the order is derived from the cart at checkout time.
type CheckoutParams struct {
	ShippingAddress models.ShippingAddress
	PaymentMethod   string
}

const orderColumns = `
	o.id, o.user_id, o.total_amount_cents, o.status, o.has_rated, o.rating,
	o.ship_street, o.ship_city, o.ship_state, o.ship_zipcode, o.ship_country,
	o.payment_method, o.payment_status, o.payment_txn_id, o.payment_date,
	o.created_at`

const itemColumns = `
	oi.id, oi.book_id, oi.uploader_id, oi.quantity, oi.type, oi.price_cents,
	oi.rental_start, oi.rental_end, oi.status`
