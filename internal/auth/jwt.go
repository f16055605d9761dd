// Package auth implements JWT issuing and verification for the API.
// Tokens are HS256-signed and carry a typ claim separating short-lived
// access tokens from longer-lived refresh tokens, so a refresh token can
// never be replayed as an access token (or vice versa).
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token type values carried in the typ claim.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var (
	// ErrInvalidToken indicates a token that failed parsing, signature
	// verification, or claim validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken indicates a structurally valid token past its expiry.
	ErrExpiredToken = errors.New("token has expired")

	// ErrWrongTokenType indicates a valid token presented in the wrong
	// role (e.g., a refresh token sent as Authorization bearer).
	ErrWrongTokenType = errors.New("wrong token type")
)

// Claims is the JWT claim set used by the API. Subject holds the user
// ID; TokenType is TypeAccess or TypeRefresh.
type Claims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// Signer issues and verifies HS256 tokens with a shared secret.
// The zero value is not usable; construct with NewSigner.
type Signer struct {
	secret []byte
	issuer string
}

// NewSigner returns a Signer for the given shared secret and issuer.
func NewSigner(secret []byte, issuer string) *Signer {
	return &Signer{secret: secret, issuer: issuer}
}

// Sign issues a token of the given type for userID, valid for ttl.
func (s *Signer) Sign(userID, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses tokenString, checks the signature, expiry, issuer, and
// token type, and returns the user ID (the subject claim).
func (s *Signer) Verify(tokenString, wantType string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Method)
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	if s.issuer != "" && claims.Issuer != s.issuer {
		return "", fmt.Errorf("%w: invalid issuer", ErrInvalidToken)
	}
	if claims.TokenType != wantType {
		return "", ErrWrongTokenType
	}
	return claims.Subject, nil
}
