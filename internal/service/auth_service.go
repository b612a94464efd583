package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"library_catalog/internal/models"
	"library_catalog/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Domain errors for auth flows.
var (
	// ErrUsernameTaken is returned for both the pre-insert lookup hit and the
	// primary-key collision, so racing registrations see the same outcome.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrInvalidCredentials deliberately covers unknown-user and
	// wrong-password alike; the split exists only in wrapped detail for logs.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthService orchestrates registration and login on top of the credential
// store and the token manager.
type AuthService struct {
	users  repository.Users
	tokens *TokenManager
}

func NewAuthService(users repository.Users, tokens *TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register hashes the password and persists a new user. No token is issued;
// the caller logs in separately.
func (s *AuthService) Register(ctx context.Context, username, password string) error {
	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("register lookup: %w", err)
	}
	if existing != nil {
		return ErrUsernameTaken
	}

	hash, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("register %q: %w", username, err)
	}

	if err := s.users.Create(ctx, username, hash); err != nil {
		// The lookup above is not atomic with the insert; the users PK
		// closes the race and lands here.
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("register persist: %w", err)
	}
	return nil
}

// Login verifies credentials and returns a signed bearer token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("login lookup: %w", err)
	}
	if u == nil {
		return "", fmt.Errorf("unknown user: %w", ErrInvalidCredentials)
	}

	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return "", fmt.Errorf("password mismatch: %w", ErrInvalidCredentials)
	}

	return s.tokens.Issue(u.Username)
}

// Authenticate validates a bearer token and exposes its identity.
func (s *AuthService) Authenticate(accessToken string) (models.Identity, error) {
	return s.tokens.Parse(accessToken)
}

func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// verifyPassword fails closed: a malformed stored hash verifies as a plain
// mismatch rather than escaping as a distinct fault.
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
