package auth

import (
	"time"

	"passport/config"
	"passport/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const accessTokenType = "access"

// jwtIssuer is a concrete implementation of the AccessTokenIssuer interface using HS256 JWTs.
type jwtIssuer struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewJWTIssuer is the constructor for jwtIssuer.
func NewJWTIssuer(cfg *config.Config) (service.AccessTokenIssuer, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("access token secret must be provided")
	}

	ttl := time.Hour * 24
	if cfg.Auth != nil && cfg.Auth.AccessTokenTTL > 0 {
		ttl = cfg.Auth.AccessTokenTTL
	}

	return &jwtIssuer{
		secret: []byte(cfg.SecretKey.Access),
		ttl:    ttl,
		issuer: cfg.Env.ServiceName,
		now:    time.Now,
	}, nil
}

// Issue creates a signed access token for a user's local passport.
func (s *jwtIssuer) Issue(userID, passportID uuid.UUID) (string, error) {
	now := s.now()
	claims := service.AccessTokenClaims{
		PassportID: passportID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{accessTokenType},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign access token")
	}

	return signed, nil
}

// Validate checks the signature, audience and expiry of an access token.
func (s *jwtIssuer) Validate(tokenString string) (*service.AccessTokenClaims, error) {
	claims := &service.AccessTokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	},
		jwt.WithAudience(accessTokenType),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errors.Wrap(err, "invalid access token")
	}
	if !token.Valid {
		return nil, errors.New("invalid access token")
	}

	return claims, nil
}
