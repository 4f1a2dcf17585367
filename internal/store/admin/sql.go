package adminstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	admin "github.com/shelfswap/marketplace-api/internal/api/handlers/admin"
)

type Store struct{ db *sql.DB }

func New(db *sql.DB) admin.Store { return &Store{db: db} }

// ---------- helpers ----------

func buildListAccountsQuery(f admin.ListFilter) (where string, args []any) {
	clauses := make([]string, 0, 3)
	if f.Query != "" {
		args = append(args, "%"+strings.TrimSpace(f.Query)+"%")
		clauses = append(clauses, fmt.Sprintf("(email ILIKE $%d OR username ILIKE $%d)", len(args), len(args)))
	}
	if f.Role != "" {
		args = append(args, f.Role)
		clauses = append(clauses, fmt.Sprintf("role = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func buildAuditWhere(f admin.AuditFilter) (string, []any) {
	clauses := make([]string, 0, 5)
	args := make([]any, 0, 5)
	if f.ActorID != "" {
		args = append(args, f.ActorID)
		clauses = append(clauses, fmt.Sprintf("admin_id = $%d", len(args)))
	}
	if f.TargetID != "" {
		args = append(args, f.TargetID)
		clauses = append(clauses, fmt.Sprintf("target_id = $%d", len(args)))
	}
	if f.Action != "" {
		args = append(args, f.Action)
		clauses = append(clauses, fmt.Sprintf("action = $%d", len(args)))
	}
	if f.Since != nil {
		args = append(args, *f.Since)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if f.Until != nil {
		args = append(args, *f.Until)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

// ---------- accounts ----------

func (s *Store) ListAccounts(ctx context.Context, f admin.ListFilter) ([]admin.AccountRow, int, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Size < 1 || f.Size > 200 {
		f.Size = 25
	}
	where, args := buildListAccountsQuery(f)

	var total int
	if err := s.db.QueryRowContext(ctx,
		"SELECT count(*) FROM accounts "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Size, (f.Page-1)*f.Size)
	q := fmt.Sprintf(`
		SELECT id, email, username, role, status, created_at
		FROM accounts %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []admin.AccountRow{}
	for rows.Next() {
		var a admin.AccountRow
		if err := rows.Scan(&a.ID, &a.Email, &a.Username, &a.Role, &a.Status, &a.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func (s *Store) GetAccount(ctx context.Context, id string) (*admin.AccountRow, error) {
	var a admin.AccountRow
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, username, role, status, created_at
		FROM accounts WHERE id = $1`, id).
		Scan(&a.ID, &a.Email, &a.Username, &a.Role, &a.Status, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) SetAccountStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *Store) SetAccountRole(ctx context.Context, id, role string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET role = $1, updated_at = now() WHERE id = $2`, role, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *Store) BumpTokenVersion(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET token_version = COALESCE(token_version,1) + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ---------- stats ----------

func (s *Store) CountAccounts(ctx context.Context) (users, publishers int, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT
			count(*) FILTER (WHERE role = 'user'),
			count(*) FILTER (WHERE role = 'publisher')
		FROM accounts`).Scan(&users, &publishers)
	return
}

func (s *Store) CountBooks(ctx context.Context) (total, available int, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT count(*), count(*) FILTER (WHERE status = 'available')
		FROM books`).Scan(&total, &available)
	return
}

func (s *Store) CountOrders(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM orders`).Scan(&n)
	return n, err
}

func (s *Store) CountSignupsLast24h(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM accounts WHERE created_at >= now() - interval '24 hours'`).Scan(&n)
	return n, err
}

func (s *Store) AdminCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM accounts WHERE role = 'admin'`).Scan(&n)
	return n, err
}

// ---------- audit ----------

func (s *Store) InsertAudit(ctx context.Context, adminID, action, targetID string, meta any) error {
	var metaJSON []byte
	if meta != nil {
		b, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		metaJSON = b
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_audit (admin_id, action, target_id, meta, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		adminID, action, nullIfEmpty(targetID), metaJSON, time.Now().UTC())
	return err
}

func (s *Store) ListAudit(ctx context.Context, f admin.AuditFilter) ([]admin.AuditRow, int, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Size < 1 || f.Size > 200 {
		f.Size = 25
	}
	where, args := buildAuditWhere(f)

	var total int
	if err := s.db.QueryRowContext(ctx,
		"SELECT count(*) FROM admin_audit "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Size, (f.Page-1)*f.Size)
	q := fmt.Sprintf(`
		SELECT id, admin_id, action, target_id, meta, created_at
		FROM admin_audit %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []admin.AuditRow{}
	for rows.Next() {
		var a admin.AuditRow
		var target sql.NullString
		var meta []byte
		if err := rows.Scan(&a.ID, &a.AdminID, &a.Action, &target, &meta, &a.CreatedAt); err != nil {
			return nil, 0, err
		}
		if target.Valid {
			a.TargetID = &target.String
		}
		if len(meta) > 0 {
			var v any
			if err := json.Unmarshal(meta, &v); err == nil {
				a.Meta = v
			}
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
