// Package services – AuthService
//
// This file implements AuthService, which owns user registration, login,
// and token refresh. Passwords are stored as bcrypt hashes; sessions are
// stateless JWT pairs issued by the auth.Signer.
//
// Observability: all public methods are OpenTelemetry-instrumented. Spans
// never carry passwords or token material.

package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tbourn/go-search-backend/internal/auth"
	"github.com/tbourn/go-search-backend/internal/domain"
	"github.com/tbourn/go-search-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// minPasswordLen is the minimum accepted password length in bytes.
const minPasswordLen = 8

// AuthService manages user accounts and token issuance.
type AuthService struct {
	DB     *gorm.DB
	Signer *auth.Signer

	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenPair carries one freshly issued access/refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"` // access token lifetime in seconds
}

// Register creates a new user account. Usernames are trimmed and matched
// case-sensitively; the password is bcrypt-hashed before storage.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	tr := otel.Tracer("services/AuthService")
	ctx, span := tr.Start(ctx, "Register")
	defer span.End()

	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidCredentials
	}
	if len(password) < minPasswordLen {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := repo.CreateUser(ctx, s.DB, username, strings.TrimSpace(email), string(hash))
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	span.SetAttributes(attribute.String("user.id", user.ID))
	return user, nil
}

// Login verifies the credentials and issues a fresh token pair. Unknown
// usernames and wrong passwords both fail with ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	tr := otel.Tracer("services/AuthService")
	ctx, span := tr.Start(ctx, "Login")
	defer span.End()

	user, err := repo.GetUserByUsername(ctx, s.DB, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// Burn a comparison anyway to keep timing flat across the
			// user-exists boundary.
			_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5B1Wa2wZGjyrrl3nqsUzkPEME1hsa"), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	return s.issuePair(user.ID)
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	tr := otel.Tracer("services/AuthService")
	ctx, span := tr.Start(ctx, "Refresh")
	defer span.End()

	userID, err := s.Signer.Verify(refreshToken, auth.TypeRefresh)
	if err != nil {
		return nil, ErrInvalidToken
	}

	// Make sure the account still exists before minting new tokens.
	if _, err := repo.GetUser(ctx, s.DB, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	span.SetAttributes(attribute.String("user.id", userID))
	return s.issuePair(userID)
}

func (s *AuthService) issuePair(userID string) (*TokenPair, error) {
	access, err := s.Signer.Sign(userID, auth.TypeAccess, s.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.Signer.Sign(userID, auth.TypeRefresh, s.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(s.AccessTTL.Seconds()),
	}, nil
}
