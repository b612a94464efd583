package service

import (
	"errors"
	"fmt"
	"time"

	"library_catalog/internal/config"
	"library_catalog/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers every token rejection: bad signature, expiry,
// malformed input, wrong issuer or audience. Callers get no partial trust.
var ErrInvalidToken = errors.New("invalid token")

// TokenManager issues and validates HMAC-SHA256 signed bearer tokens.
// Issuer, audience, TTL and the signing secret come from configuration and
// are shared by both sides.
type TokenManager struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time // swappable for expiry tests
}

func NewTokenManager(cfg config.JWT) *TokenManager {
	return &TokenManager{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.TTL,
		now:      time.Now,
	}
}

// Issue signs a token for an already-authenticated username. Every call gets
// a fresh jti, so concurrent tokens for one user stay independently valid.
func (m *TokenManager) Issue(username string) (string, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		ID:        uuid.NewString(),
		Issuer:    m.issuer,
		Audience:  jwt.ClaimStrings{m.audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature, signing method, issuer, audience and expiry, and
// returns the identity the token proves.
func (m *TokenManager) Parse(accessToken string) (models.Identity, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(accessToken, &claims,
		func(t *jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return models.Identity{}, ErrInvalidToken
	}
	return models.Identity{Username: claims.Subject, TokenID: claims.ID}, nil
}
