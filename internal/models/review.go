package models

import "time"

// Review is post-delivery feedback on a book, unique per (user, book).
type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	BookID    string    `json:"book_id"`
	Rating    int       `json:"rating"` // 1..5
	Text      string    `json:"review"`
	OrderType ItemType  `json:"order_type"`
	UserName  string    `json:"user_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
