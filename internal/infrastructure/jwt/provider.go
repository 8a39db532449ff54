package jwtinfra

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-shop-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Provider signs and verifies HS256 JWTs carrying the user id as subject.
type Provider struct {
	secret []byte
	expiry time.Duration
}

func NewProvider(secret string, expiry time.Duration) (*Provider, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret key is not configured")
	}
	return &Provider{secret: []byte(secret), expiry: expiry}, nil
}

// Sign issues a token for userID with the default expiry.
func (p *Provider) Sign(userID int64) (string, error) {
	return p.SignTTL(userID, p.expiry)
}

// SignTTL issues a token for userID expiring after ttl.
func (p *Provider) SignTTL(userID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// Verify parses and validates a token and returns its subject user id.
// Every failure mode (bad signature, wrong algorithm, missing subject,
// expiry) collapses into domain.ErrInvalidToken so callers cannot probe
// which check rejected a credential.
func (p *Provider) Verify(tokenStr string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return p.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return 0, domain.ErrInvalidToken
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return 0, domain.ErrInvalidToken
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, domain.ErrInvalidToken
	}
	return userID, nil
}
