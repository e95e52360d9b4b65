package models

import "github.com/golang-jwt/jwt/v5"

// CustomClaims represents the custom claims in our JWT tokens.
// The user is re-loaded on every request, so the role here is informational.
type CustomClaims struct {
	jwt.RegisteredClaims
	UserID    string `json:"uid"`
	Role      string `json:"role,omitempty"`
	TokenType string `json:"typ"`
}
