package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"hall-backend/models"
)

var ErrInvalidToken = errors.New("invalid token")

// SessionClaims is the primary HMAC session token issued at login.
type SessionClaims struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	ParentUserID string `json:"parentUserId,omitempty"`
	jwt.RegisteredClaims
}

// legacyClaims is the older identity-provider token shape still
// accepted as a fallback; only the subject id is trusted from it.
type legacyClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies bearer tokens. Verification tries the
// session scheme first and falls back to the legacy scheme, mirroring
// the two token formats clients present.
type TokenService struct {
	sessionSecret []byte
	legacySecret  []byte
	expiry        time.Duration
}

func NewTokenService(sessionSecret, legacySecret string, expiry time.Duration) *TokenService {
	return &TokenService{
		sessionSecret: []byte(sessionSecret),
		legacySecret:  []byte(legacySecret),
		expiry:        expiry,
	}
}

// Issue signs a session token for the user.
func (s *TokenService) Issue(user models.User) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UID:   user.UID,
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			Issuer:    "hall-backend",
		},
	}
	if user.ParentUserID != nil {
		claims.ParentUserID = *user.ParentUserID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.sessionSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify resolves a bearer token to a user id. Only the uid is returned;
// role and parent linkage are always re-read from the users table.
func (s *TokenService) Verify(raw string) (string, error) {
	var session SessionClaims
	token, err := jwt.ParseWithClaims(raw, &session, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.sessionSecret, nil
	})
	if err == nil && token.Valid && session.UID != "" {
		return session.UID, nil
	}

	var legacy legacyClaims
	token, err = jwt.ParseWithClaims(raw, &legacy, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.legacySecret, nil
	})
	if err == nil && token.Valid {
		if legacy.UserID != "" {
			return legacy.UserID, nil
		}
		if legacy.Subject != "" {
			return legacy.Subject, nil
		}
	}

	return "", ErrInvalidToken
}
