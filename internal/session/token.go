package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/flymate/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

type tokenClaims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs bearer tokens that carry a session id. A valid token is not enough on its own:
// the session it names must still be live.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *TokenIssuer) Issue(s domain.Session) (string, time.Time, error) {
	now := t.now()
	expiresAt := now.Add(t.ttl)

	claims := tokenClaims{
		Role: s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Subject:   s.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies the token and returns the session id it carries.
func (t *TokenIssuer) Parse(token string) (string, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	if claims.ID == "" {
		return "", fmt.Errorf("%w: %v", domain.ErrUnauthenticated, errors.New("token carries no session"))
	}
	return claims.ID, nil
}
