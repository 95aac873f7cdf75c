package auth

import "errors"

// ErrGenAccessToken is returned when we cannot create a JWT.
var ErrGenAccessToken = errors.New("failed to generate access token")

// ErrInvalidToken is returned for tokens that fail signature or expiry checks.
var ErrInvalidToken = errors.New("invalid token")

// ErrInvalidTokenMissingSubject is returned for a verified token without "sub".
var ErrInvalidTokenMissingSubject = errors.New("invalid token: missing subject")

// ErrSecretTooShort is returned when the HS256 secret is under MinSecretLen bytes.
var ErrSecretTooShort = errors.New("jwt secret too short")
