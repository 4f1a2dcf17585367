package admin

import (
	"context"
	"time"
)

// ===== DTOs =====

type AccountRow struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`   // "user" | "publisher" | "admin"
	Status    string    `json:"status"` // "active" | "banned"
	CreatedAt time.Time `json:"created_at"`
}

type AuditRow struct {
	ID        int64     `json:"id"`
	AdminID   string    `json:"admin_id"`
	Action    string    `json:"action"`
	TargetID  *string   `json:"target_id,omitempty"`
	Meta      any       `json:"meta"`
	CreatedAt time.Time `json:"created_at"`
}

// ===== Filters =====

type ListFilter struct {
	Query  string
	Role   string
	Status string
	Page   int
	Size   int
}

type AuditFilter struct {
	ActorID  string
	TargetID string
	Action   string
	Since    *time.Time
	Until    *time.Time
	Page     int
	Size     int
}

type StatsResponse struct {
	UsersTotal      int `json:"users_total"`
	PublishersTotal int `json:"publishers_total"`
	BooksTotal      int `json:"books_total"`
	BooksAvailable  int `json:"books_available"`
	OrdersTotal     int `json:"orders_total"`
	SignupsLast24h  int `json:"signups_last_24h"`
}

// ===== Store Interface =====

type Store interface {
	// Accounts
	ListAccounts(ctx context.Context, filter ListFilter) ([]AccountRow, int, error)
	GetAccount(ctx context.Context, id string) (*AccountRow, error)
	SetAccountStatus(ctx context.Context, id, status string) error
	SetAccountRole(ctx context.Context, id, role string) error
	BumpTokenVersion(ctx context.Context, id string) error

	// Stats
	CountAccounts(ctx context.Context) (users, publishers int, err error)
	CountBooks(ctx context.Context) (total, available int, err error)
	CountOrders(ctx context.Context) (int, error)
	CountSignupsLast24h(ctx context.Context) (int, error)
	AdminCount(ctx context.Context) (int, error)

	// Audit
	InsertAudit(ctx context.Context, adminID, action, targetID string, meta any) error
	ListAudit(ctx context.Context, f AuditFilter) ([]AuditRow, int, error)
}
