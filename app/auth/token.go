package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"postboard/app/apperr"
	"postboard/app/models"
	"postboard/app/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = time.Hour

// Claims is the JWT payload handed out at login.
type Claims struct {
	UserID int    `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs tokens and checks them against the stored session, so only
// the most recently issued token of a user is accepted.
type Issuer struct {
	secret   []byte
	ttl      time.Duration
	sessions repositories.SessionRepository
	now      func() time.Time
}

func NewIssuer(secret string, ttl time.Duration, sessions repositories.SessionRepository) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Issuer{
		secret:   []byte(secret),
		ttl:      ttl,
		sessions: sessions,
		now:      time.Now,
	}
}

// Issue signs a token for the user and stores it as the user's only session.
func (i *Issuer) Issue(ctx context.Context, userID int, role string) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(i.ttl)
	jti := uuid.NewString()

	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	session := &models.Session{
		ID:        jti,
		UserID:    userID,
		Token:     signed,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}
	if err := session.Validate(); err != nil {
		return "", time.Time{}, fmt.Errorf("invalid session: %w", err)
	}
	if err := i.sessions.Put(ctx, session); err != nil {
		return "", time.Time{}, fmt.Errorf("store session: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate checks the signature, then requires the token to be the one the
// user's session currently holds and that session to be unexpired.
func (i *Issuer) Validate(ctx context.Context, token string) (Principal, error) {
	if token == "" {
		return Principal{}, apperr.ErrNoToken
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, apperr.ErrSessionExpired
		}
		return Principal{}, apperr.ErrInvalidToken
	}
	if !parsed.Valid || claims.UserID <= 0 {
		return Principal{}, apperr.ErrInvalidToken
	}

	session, err := i.sessions.Get(ctx, claims.UserID)
	if errors.Is(err, repositories.ErrNotFound) {
		return Principal{}, apperr.ErrSessionExpired
	}
	if err != nil {
		return Principal{}, apperr.Wrap(err, "load session")
	}
	if session.Token != token || !i.now().Before(session.ExpiresAt) {
		return Principal{}, apperr.ErrSessionExpired
	}

	return Principal{ID: claims.UserID, Role: claims.Role}, nil
}

// Revoke drops the user's session; any outstanding token stops validating.
func (i *Issuer) Revoke(ctx context.Context, userID int) error {
	return i.sessions.Delete(ctx, userID)
}
