package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iganosaigo/saigo.info-backend/config"
)

func testConfig() config.Config {
	return config.Config{
		ServerHost:       "http://localhost",
		JWTSecret:        "test-secret",
		JWTAlgorithm:     "HS256",
		JWTExpireMinutes: 180,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	issuer, err := NewTokenIssuer(testConfig())
	require.NoError(t, err)

	token, err := issuer.Issue("admin@x.com")
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@x.com", claims.Subject)
	assert.Equal(t, "http://localhost", claims.Issuer)
}

func TestTokenExpired(t *testing.T) {
	issuer, err := NewTokenIssuer(testConfig())
	require.NoError(t, err)

	// Issued four hours in the past, the three hour lifetime is over.
	token, err := issuer.issueAt("admin@x.com", time.Now().UTC().Add(-4*time.Hour))
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenWrongSecret(t *testing.T) {
	issuer, err := NewTokenIssuer(testConfig())
	require.NoError(t, err)

	other := testConfig()
	other.JWTSecret = "other-secret"
	otherIssuer, err := NewTokenIssuer(other)
	require.NoError(t, err)

	token, err := otherIssuer.Issue("admin@x.com")
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenMalformed(t *testing.T) {
	issuer, err := NewTokenIssuer(testConfig())
	require.NoError(t, err)

	_, err = issuer.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestUnknownAlgorithm(t *testing.T) {
	cfg := testConfig()
	cfg.JWTAlgorithm = "XX999"
	_, err := NewTokenIssuer(cfg)
	assert.Error(t, err)
}
