package auth

import (
	"errors"
	"fmt"
	"time"

	"noteful/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken covers malformed, mis-signed, and expired tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired still matches ErrInvalidToken via errors.Is.
	ErrTokenExpired = fmt.Errorf("%w: expired", ErrInvalidToken)
)

// Issuer mints signed, expiring HS256 tokens embedding the principal.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, ttl: ttl}
}

// Issue signs a token for the principal: subject is the username, the
// principal itself travels under the "user" claim, expiry is now+TTL.
// Tokens are stateless; nothing is stored server-side.
func (i *Issuer) Issue(principal models.Principal) (string, error) {
	now := time.Now()
	claims := &models.Claims{
		User: principal,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// TokenStrategy authenticates a bearer token and extracts the embedded
// principal.
type TokenStrategy struct {
	secret []byte
}

func NewTokenStrategy(secret []byte) *TokenStrategy {
	return &TokenStrategy{secret: secret}
}

// Authenticate verifies the token's signature and expiry. The signing
// method is pinned to HMAC so a token declaring "none" or an asymmetric
// algorithm is rejected outright. Any failure is ErrInvalidToken; no
// partial trust.
func (s *TokenStrategy) Authenticate(tokenString string) (*models.Principal, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if errors.Is(err, jwt.ErrTokenExpired) {
		// Distinct internal reason; externally still a plain 401.
		return nil, ErrTokenExpired
	}
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return &claims.User, nil
}
