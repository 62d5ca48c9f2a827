package types

import "github.com/golang-jwt/jwt/v5"

// JWTClaims are the claims carried by access tokens.
type JWTClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Tokens is the result of a successful login.
type Tokens struct {
	AccessToken string
}
