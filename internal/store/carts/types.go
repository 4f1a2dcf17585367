package carts

import "github.com/shelfswap/marketplace-api/internal/models"

// AddItemParams carries client input for a new cart line. The price is never
// part of it; it is derived from the book's own price table.
type AddItemParams struct {
	BookID         string
	Quantity       int
	Type           models.ItemType
	RentalDuration *models.RentalDuration
}

// UpdateItemParams patches an existing line.
type UpdateItemParams struct {
	Quantity       *int
	RentalDuration *models.RentalDuration
}

// totalSQL recomputes a cart's total from its items: purchase lines are
// price*qty, rent lines price*days*qty with day-count rounded up.
const totalSQL = `
UPDATE carts SET total_amount_cents = (
	SELECT COALESCE(SUM(
		CASE WHEN ci.type = 'rent'
		THEN ci.price_cents * CEIL(EXTRACT(EPOCH FROM (ci.rental_end - ci.rental_start)) / 86400.0)::bigint * ci.quantity
		ELSE ci.price_cents * ci.quantity
		END), 0)
	FROM cart_items ci WHERE ci.cart_id = carts.id
), updated_at = now()
WHERE id = $1`
