package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/iganosaigo/saigo.info-backend/config"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// TokenIssuer signs and verifies the bearer tokens handed out by the login
// endpoint. Claims carry iss, iat, exp and the account email as sub.
type TokenIssuer struct {
	secret []byte
	method jwt.SigningMethod
	issuer string
	ttl    time.Duration
}

func NewTokenIssuer(cfg config.Config) (*TokenIssuer, error) {
	method := jwt.GetSigningMethod(cfg.JWTAlgorithm)
	if method == nil {
		return nil, errors.Errorf("unknown jwt algorithm %q", cfg.JWTAlgorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.Errorf("jwt algorithm %q is not symmetric", cfg.JWTAlgorithm)
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret is empty")
	}

	return &TokenIssuer{
		secret: []byte(cfg.JWTSecret),
		method: method,
		issuer: cfg.ServerHost,
		ttl:    time.Duration(cfg.JWTExpireMinutes) * time.Minute,
	}, nil
}

// Issue signs a token for the given subject, valid for the configured
// number of minutes.
func (t *TokenIssuer) Issue(subject string) (string, error) {
	return t.issueAt(subject, time.Now().UTC())
}

func (t *TokenIssuer) issueAt(subject string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    t.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		Subject:   subject,
	}
	token := jwt.NewWithClaims(t.method, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return signed, nil
}

// Verify parses and validates a token. It fails with ErrTokenExpired when
// the expiry has passed and ErrTokenInvalid for any other problem
// (bad signature, wrong algorithm, malformed structure).
func (t *TokenIssuer) Verify(tokenStr string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(
		tokenStr,
		claims,
		func(*jwt.Token) (interface{}, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{t.method.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
