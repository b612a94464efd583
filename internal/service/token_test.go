package service

import (
	"errors"
	"testing"
	"time"

	"library_catalog/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

func testJWTConfig() config.JWT {
	return config.JWT{
		Secret:   "unit-test-secret",
		Issuer:   "library-catalog",
		Audience: "library-catalog-spa",
		TTL:      30 * time.Minute,
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenManager_IssueAndParse(t *testing.T) {
	m := NewTokenManager(testJWTConfig())

	token, err := m.Issue("alice01")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	identity, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if identity.Username != "alice01" {
		t.Errorf("subject: got %q, want %q", identity.Username, "alice01")
	}
	if identity.TokenID == "" {
		t.Errorf("expected non-empty token id")
	}
}

func TestTokenManager_ExpiryBoundary(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	m := NewTokenManager(testJWTConfig())
	m.now = fixedClock(issuedAt)

	token, err := m.Issue("alice01")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	// 1799s after issue: still inside the 1800s TTL.
	m.now = fixedClock(issuedAt.Add(1799 * time.Second))
	if _, err := m.Parse(token); err != nil {
		t.Fatalf("token should be valid at T+1799s, got: %v", err)
	}

	// 1801s after issue: past expiry.
	m.now = fixedClock(issuedAt.Add(1801 * time.Second))
	if _, err := m.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("token should be rejected at T+1801s, got: %v", err)
	}
}

func TestTokenManager_UniqueTokenIDs(t *testing.T) {
	// Same username, same instant: the jti must still differ.
	m := NewTokenManager(testJWTConfig())
	m.now = fixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	first, err := m.Issue("alice01")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	second, err := m.Issue("alice01")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	id1, err := m.Parse(first)
	if err != nil {
		t.Fatalf("Parse first: %v", err)
	}
	id2, err := m.Parse(second)
	if err != nil {
		t.Fatalf("Parse second: %v", err)
	}
	if id1.TokenID == id2.TokenID {
		t.Fatalf("expected distinct token ids, both were %q", id1.TokenID)
	}
}

func TestTokenManager_RejectsForeignTokens(t *testing.T) {
	base := testJWTConfig()

	cases := []struct {
		name   string
		mutate func(config.JWT) config.JWT
	}{
		{"wrong secret", func(c config.JWT) config.JWT { c.Secret = "other-secret"; return c }},
		{"wrong issuer", func(c config.JWT) config.JWT { c.Issuer = "someone-else"; return c }},
		{"wrong audience", func(c config.JWT) config.JWT { c.Audience = "other-app"; return c }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			issuer := NewTokenManager(tc.mutate(base))
			token, err := issuer.Issue("alice01")
			if err != nil {
				t.Fatalf("Issue returned error: %v", err)
			}

			validator := NewTokenManager(base)
			if _, err := validator.Parse(token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got: %v", err)
			}
		})
	}
}

func TestTokenManager_RejectsMalformedAndUnsignedTokens(t *testing.T) {
	m := NewTokenManager(testJWTConfig())

	if _, err := m.Parse("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage input, got: %v", err)
	}

	// alg=none must never be accepted even with matching claims.
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "alice01",
		Issuer:    "library-catalog",
		Audience:  jwt.ClaimStrings{"library-catalog-spa"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("building unsigned token: %v", err)
	}
	if _, err := m.Parse(unsigned); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for alg=none, got: %v", err)
	}
}
