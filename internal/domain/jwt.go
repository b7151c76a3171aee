package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the token payload issued by the marketplace auth service
type AccessClaims struct {
	UserID string   `json:"user_id"`
	Email  string   `json:"email,omitempty"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}
