// Package auth mints and checks the bearer tokens of the dev API server.
package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// MinSecretLen is the shortest accepted HS256 secret.
	MinSecretLen = 32
	// DefaultTTL is how long a dev token stays valid.
	DefaultTTL = 30 * 24 * time.Hour
)

// Issuer signs HS256 tokens carrying a subject claim
type Issuer struct {
	secret []byte
	ttl    time.Duration
	log    *slog.Logger
	now    func() time.Time
}

// NewIssuer creates a token issuer. A non-positive ttl means DefaultTTL.
func NewIssuer(secret string, ttl time.Duration, log *slog.Logger) (*Issuer, error) {
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrSecretTooShort, MinSecretLen, len(secret))
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		log:    log,
		now:    time.Now,
	}, nil
}

// Secret is the signing key, for the verifying middleware.
func (i *Issuer) Secret() []byte {
	return i.secret
}

// Issue returns a signed token for subject.
func (i *Issuer) Issue(subject string) (string, error) {
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		i.log.Error(ErrGenAccessToken.Error(), "error", err)
		return "", ErrGenAccessToken
	}
	return token, nil
}

// Parse verifies raw and returns its subject.
func (i *Issuer) Parse(raw string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", ErrInvalidTokenMissingSubject
	}
	return claims.Subject, nil
}
