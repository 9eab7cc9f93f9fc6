package service

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenClaims are the claims carried by a passport access token.
type AccessTokenClaims struct {
	PassportID uuid.UUID `json:"pid"`
	jwt.RegisteredClaims
}

// AccessTokenIssuer issues the API access token attached to local passports.
type AccessTokenIssuer interface {
	// Issue creates a signed token for the given user and passport.
	Issue(userID, passportID uuid.UUID) (string, error)

	// Validate parses a token and returns its claims if the signature and expiry are valid.
	Validate(token string) (*AccessTokenClaims, error)
}
