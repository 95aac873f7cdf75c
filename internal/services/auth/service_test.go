package auth

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var silentLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var testSecret = strings.Repeat("s", MinSecretLen)

func TestNewIssuer_ShortSecret(t *testing.T) {
	_, err := NewIssuer("short", time.Hour, silentLogger)
	assert.ErrorIs(t, err, ErrSecretTooShort)
}

func TestIssueAndParse(t *testing.T) {
	iss, err := NewIssuer(testSecret, time.Hour, silentLogger)
	require.NoError(t, err)

	token, err := iss.Issue("dev")
	require.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(token, ".")))

	sub, err := iss.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "dev", sub)
}

func TestParse_Rejects(t *testing.T) {
	iss, err := NewIssuer(testSecret, time.Hour, silentLogger)
	require.NoError(t, err)

	other, err := NewIssuer(strings.Repeat("o", MinSecretLen), time.Hour, silentLogger)
	require.NoError(t, err)
	foreign, err := other.Issue("dev")
	require.NoError(t, err)

	expired := &Issuer{secret: iss.secret, ttl: time.Minute, log: silentLogger, now: func() time.Time {
		return time.Now().Add(-time.Hour)
	}}
	old, err := expired.Issue("dev")
	require.NoError(t, err)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(iss.secret)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"garbage", "not-a-jwt", ErrInvalidToken},
		{"wrong secret", foreign, ErrInvalidToken},
		{"expired", old, ErrInvalidToken},
		{"missing subject", noSub, ErrInvalidTokenMissingSubject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := iss.Parse(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewIssuer_DefaultTTL(t *testing.T) {
	iss, err := NewIssuer(testSecret, 0, silentLogger)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, iss.ttl)
	assert.Equal(t, []byte(testSecret), iss.Secret())
}
