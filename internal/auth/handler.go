package auth

import (
	"encoding/json"
	"net/http"

	"github.com/shelfswap/marketplace-api/internal/api/httpx"
	"github.com/shelfswap/marketplace-api/internal/api/middlewares"
	"github.com/shelfswap/marketplace-api/internal/models"
	jwtutil "github.com/shelfswap/marketplace-api/internal/security/jwt"
	"github.com/shelfswap/marketplace-api/internal/security/password"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	Store AccountStore
	RDB   *redis.Client
}

func New(store AccountStore, rdb *redis.Client) *Handler {
	return &Handler{Store: store, RDB: rdb}
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// Register creates a user or publisher account and returns a token pair.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ErrorJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	pwd, warn, err := password.Validate(r.Context(), req.Password, req.Email, req.Username)
	if err != nil || req.Email == "" {
		httpx.ErrorJSON(w, http.StatusBadRequest, "invalid email or password")
		return
	}
	req.Password = pwd

	role := models.Role(req.Role)
	if req.Role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RolePublisher {
		httpx.ErrorJSON(w, http.StatusBadRequest, "role must be user or publisher")
		return
	}

	var pub *models.PublisherProfile
	if role == models.RolePublisher {
		if req.PublisherName == "" || req.PublicationAddress == "" ||
			req.OfficeContact == "" || req.Zipcode == "" {
			httpx.ErrorJSON(w, http.StatusBadRequest, "publisher profile is incomplete")
			return
		}
		pub = &models.PublisherProfile{
			PublisherName:      req.PublisherName,
			PublicationAddress: req.PublicationAddress,
			OfficeContact:      req.OfficeContact,
			Zipcode:            req.Zipcode,
		}
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		httpx.ErrorJSON(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	rec, err := h.Store.CreateAccount(r.Context(), CreateParams{
		Email:        req.Email,
		Username:     req.Username,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         role,
		Publisher:    pub,
	})
	if err != nil {
		httpx.ErrorJSON(w, http.StatusConflict, "email or publisher name already registered")
		return
	}

	access, _, err := jwtutil.SignAccess(rec.ID, string(rec.Role), rec.TokenVersion, jwtutil.DefaultAccessTTL())
	if err != nil {
		httpx.ErrorJSON(w, http.StatusInternalServerError, "failed to sign access token")
		return
	}
	refresh, err := h.issueRefresh(r.Context(), rec.ID, rec.TokenVersion)
	if err != nil {
		httpx.ErrorJSON(w, http.StatusInternalServerError, "failed to issue refresh token")
		return
	}

	resp := map[string]any{
		"access_token":  access,
		"refresh_token": refresh,
		"account":       rec.Account,
	}
	if warn != nil && warn.Message != "" {
		resp["password_warning"] = warn
	}
	httpx.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ErrorJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	rec, err := h.Store.FindByEmail(r.Context(), req.Email)
	if err != nil || rec.ID == "" {
		httpx.ErrorJSON(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	ok, needsRehash, err := password.Verify(req.Password, rec.PasswordHash)
	if err != nil || !ok {
		httpx.ErrorJSON(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if needsRehash {
		if newPHC, err := password.Hash(req.Password); err == nil {
			_ = h.Store.UpdatePasswordHash(r.Context(), rec.ID, newPHC)
		}
	}

	access, _, err := jwtutil.SignAccess(rec.ID, string(rec.Role), rec.TokenVersion, jwtutil.DefaultAccessTTL())
	if err != nil {
		httpx.ErrorJSON(w, http.StatusInternalServerError, "failed to sign access token")
		return
	}
	refresh, err := h.issueRefresh(r.Context(), rec.ID, rec.TokenVersion)
	if err != nil {
		httpx.ErrorJSON(w, http.StatusInternalServerError, "failed to issue refresh token")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, TokenPair{AccessToken: access, RefreshToken: refresh})
}

// Refresh rotates a redis-allowlisted refresh token and mints a new pair.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		httpx.ErrorJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	key := "rt:" + req.RefreshToken

	ctx := r.Context()
	val, err := h.RDB.Get(ctx, key).Result()
	if err != nil {
		httpx.ErrorJSON(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	userID, tv, ok := splitRefreshVal(val)
	if !ok {
		httpx.ErrorJSON(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	dbVer, role, err := h.Store.TokenVersion(ctx, userID)
	if err != nil || dbVer != tv {
		httpx.ErrorJSON(w, http.StatusUnauthorized, "token has been revoked")
		return
	}

	// rotate refresh
	_ = h.RDB.Del(ctx, key).Err()
	newRefresh, err := h.issueRefresh(ctx, userID, dbVer)
	if err != nil {
		httpx.ErrorJSON(w, http.StatusInternalServerError, "failed to issue refresh token")
		return
	}
	access, _, err := jwtutil.SignAccess(userID, role, dbVer, jwtutil.DefaultAccessTTL())
	if err != nil {
		httpx.ErrorJSON(w, http.StatusInternalServerError, "failed to sign access token")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, TokenPair{AccessToken: access, RefreshToken: newRefresh})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.RefreshToken != "" {
		_ = h.RDB.Del(r.Context(), "rt:"+req.RefreshToken).Err()
	}
	httpx.OKMessage(w, "logged out")
}

// ChangePassword verifies the current password before swapping the hash,
// then bumps token_version so sessions minted under the old password die.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewares.UserIDFrom(r.Context())
	if !ok {
		httpx.ErrorJSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ErrorJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	cur, err := h.Store.PasswordHash(r.Context(), userID)
	if err != nil {
		httpx.ErrorJSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if ok, _, err := password.Verify(req.OldPassword, cur); err != nil || !ok {
		httpx.ErrorJSON(w, http.StatusUnauthorized, "incorrect password")
		return
	}

	pwd, _, err := password.Validate(r.Context(), req.NewPassword)
	if err != nil {
		httpx.ErrorJSON(w, http.StatusBadRequest, "new password is too weak")
		return
	}
	newHash, err := password.Hash(pwd)
	if err != nil {
		httpx.ErrorJSON(w, http.StatusInternalServerError, "failed to hash password")
		return
	}
	if err := h.Store.UpdatePasswordHash(r.Context(), userID, newHash); err != nil {
		httpx.ErrorJSON(w, http.StatusInternalServerError, "failed to update password")
		return
	}
	_ = h.Store.BumpTokenVersion(r.Context(), userID)
	httpx.OKMessage(w, "password changed; please log in again")
}

// LogoutAll bumps token_version, revoking every outstanding access token.
func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewares.UserIDFrom(r.Context())
	if !ok {
		httpx.ErrorJSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.Store.BumpTokenVersion(r.Context(), userID); err != nil {
		httpx.ErrorJSON(w, http.StatusInternalServerError, "failed to revoke sessions")
		return
	}
	httpx.OKMessage(w, "all sessions revoked")
}
