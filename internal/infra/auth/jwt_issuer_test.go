package auth

import (
	"testing"
	"time"

	"passport/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuerConfig(secret string, ttl time.Duration) *config.Config {
	cfg := &config.Config{Auth: &config.AuthConfig{AccessTokenTTL: ttl}}
	cfg.SecretKey.Access = secret
	cfg.Env.ServiceName = "passport"

	return cfg
}

func TestJWTIssuer_IssueAndValidate(t *testing.T) {
	issuer, err := NewJWTIssuer(newTestIssuerConfig("test-secret", time.Hour))
	require.NoError(t, err)

	userID := uuid.New()
	passportID := uuid.New()

	token, err := issuer.Issue(userID, passportID)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, passportID, claims.PassportID)
	assert.Equal(t, "passport", claims.Issuer)
}

func TestJWTIssuer_RejectsForeignSecret(t *testing.T) {
	issuer, err := NewJWTIssuer(newTestIssuerConfig("secret-a", time.Hour))
	require.NoError(t, err)
	other, err := NewJWTIssuer(newTestIssuerConfig("secret-b", time.Hour))
	require.NoError(t, err)

	token, err := other.Issue(uuid.New(), uuid.New())
	require.NoError(t, err)

	_, err = issuer.Validate(token)
	assert.Error(t, err)
}

func TestJWTIssuer_RejectsExpired(t *testing.T) {
	svc, err := NewJWTIssuer(newTestIssuerConfig("test-secret", time.Minute))
	require.NoError(t, err)

	issuer := svc.(*jwtIssuer)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := issuer.Issue(uuid.New(), uuid.New())
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Validate(token)
	assert.Error(t, err)
}

func TestNewJWTIssuer_RequiresSecret(t *testing.T) {
	_, err := NewJWTIssuer(newTestIssuerConfig("", time.Hour))
	assert.Error(t, err)
}
