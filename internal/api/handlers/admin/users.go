package admin

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/shelfswap/marketplace-api/internal/api/middlewares"
)

// GET /admin/accounts
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))
	page, size = validatePagination(page, size)

	filter := ListFilter{
		Query:  q.Get("query"),
		Role:   q.Get("role"),
		Status: q.Get("status"),
		Page:   page,
		Size:   size,
	}

	accounts, total, err := h.Sto.ListAccounts(r.Context(), filter)
	if err != nil {
		writeError(w, 500, "list_failed")
		return
	}

	writeJSON(w, 200, map[string]any{
		"data": accounts, "total": total, "page": page, "size": size,
	})
}

// GET /admin/accounts/{id}
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	u, err := h.Sto.GetAccount(r.Context(), id)
	if err != nil || u == nil {
		writeError(w, 404, "not_found")
		return
	}
	writeJSON(w, 200, u)
}

// POST /admin/accounts/{id}/ban
func (h *Handler) Ban(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middlewares.UserIDFrom(r.Context())
	id := pathID(r)

	if adminID == id {
		writeError(w, 400, "cannot_self_ban")
		return
	}
	ok, err := h.allowAction(r.Context(), rateKey("ban", adminID), 20, time.Hour)
	if err != nil || !ok {
		writeError(w, 429, "rate_limited")
		return
	}
	if err := h.Sto.SetAccountStatus(r.Context(), id, "banned"); err != nil {
		writeError(w, 500, "ban_failed")
		return
	}
	// A banned seller's sessions die with the ban.
	_ = h.Sto.BumpTokenVersion(r.Context(), id)
	_ = h.Sto.InsertAudit(r.Context(), adminID, "account.ban", id, nil)
	writeJSON(w, 204, nil)
}

// POST /admin/accounts/{id}/unban
func (h *Handler) Unban(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middlewares.UserIDFrom(r.Context())
	id := pathID(r)

	ok, err := h.allowAction(r.Context(), rateKey("unban", adminID), 20, time.Hour)
	if err != nil || !ok {
		writeError(w, 429, "rate_limited")
		return
	}
	if err := h.Sto.SetAccountStatus(r.Context(), id, "active"); err != nil {
		writeError(w, 500, "unban_failed")
		return
	}
	_ = h.Sto.InsertAudit(r.Context(), adminID, "account.unban", id, nil)
	writeJSON(w, 204, nil)
}

// POST /admin/accounts/{id}/role
type setRoleReq struct {
	Role string `json:"role"`
}

func (h *Handler) SetRole(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middlewares.UserIDFrom(r.Context())
	id := pathID(r)

	var body setRoleReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil ||
		(body.Role != "admin" && body.Role != "user" && body.Role != "publisher") {
		writeError(w, 400, "invalid_role")
		return
	}

	// Prevent demoting yourself if you're the last admin.
	if adminID == id && body.Role != "admin" {
		count, err := h.Sto.AdminCount(r.Context())
		if err != nil {
			writeError(w, 500, "check_admins_failed")
			return
		}
		if count <= 1 {
			writeError(w, 400, "cannot_demote_last_admin")
			return
		}
	}

	ok, err := h.allowAction(r.Context(), rateKey("setrole", adminID), 50, time.Hour)
	if err != nil || !ok {
		writeError(w, 429, "rate_limited")
		return
	}
	if err := h.Sto.SetAccountRole(r.Context(), id, body.Role); err != nil {
		writeError(w, 500, "role_set_failed")
		return
	}
	_ = h.Sto.InsertAudit(r.Context(), adminID, "account.role.set", id, body)
	writeJSON(w, 204, nil)
}

// POST /admin/accounts/{id}/logout-all
func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middlewares.UserIDFrom(r.Context())
	id := pathID(r)

	ok, err := h.allowAction(r.Context(), rateKey("logoutall", adminID), 50, time.Hour)
	if err != nil || !ok {
		writeError(w, 429, "rate_limited")
		return
	}
	if err := h.Sto.BumpTokenVersion(r.Context(), id); err != nil {
		writeError(w, 500, "logout_all_failed")
		return
	}
	_ = h.Sto.InsertAudit(r.Context(), adminID, "account.logout_all", id, nil)
	writeJSON(w, 204, nil)
}
