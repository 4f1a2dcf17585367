package jwtutil

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "shelfswap-api"

// AccessClaims carries the account role and token_version ("tv") so a
// password change or forced logout invalidates tokens without a blocklist.
type AccessClaims struct {
	TokenVersion int    `json:"tv"`
	Role         string `json:"role"`
	jwt.RegisteredClaims
}

func NewAccessClaims(userID, role, jti string, tokenVersion int, ttl time.Duration) AccessClaims {
	now := time.Now()
	return AccessClaims{
		TokenVersion: tokenVersion,
		Role:         role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}
