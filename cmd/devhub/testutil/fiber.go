package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"notehub/cmd/devhub/handlers/httperr"
	"notehub/internal/config"
	"notehub/internal/logger"
	"notehub/internal/services/auth"
	util "notehub/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// TestSecret is a valid HS256 secret for tests.
var TestSecret = strings.Repeat("t", auth.MinSecretLen)

// TestConfig returns a devhub configuration suitable for tests.
func TestConfig() config.Config {
	return config.Config{
		LogLevel:            "error",
		LogFormat:           "text",
		NotesPerPage:        12,
		DevHubPort:          8080,
		DevHubJWTSecret:     TestSecret,
		DevHubRatePerMin:    0,
		WSMaxSessionSec:     900,
		WSOutboxBuffer:      16,
		RouteMetricsEnabled: true,
		SwaggerEnabled:      true,
	}
}

// CreateTestApp creates a basic Fiber app for testing with common configuration
func CreateTestApp(t *testing.T) *fiber.App {
	_, err := logger.Init(TestConfig())
	require.NoError(t, err)

	return fiber.New(fiber.Config{
		ErrorHandler: httperr.Handler,
	})
}

// CreateTestValidator creates a validator with the note rules registered
func CreateTestValidator(t *testing.T) *validator.Validate {
	v, err := util.NewValidator()
	require.NoError(t, err)
	return v
}

// CreateTestJWT creates a JWT token for testing purposes
func CreateTestJWT(t *testing.T, subject string, expiry time.Duration) string {
	iss, err := auth.NewIssuer(TestSecret, expiry, logger.L())
	require.NoError(t, err)
	token, err := iss.Issue(subject)
	require.NoError(t, err)
	return token
}

// CreateJSONRequest creates an HTTP request with JSON body
func CreateJSONRequest(method, url string, body any) *http.Request {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// CreateAuthenticatedRequest creates an HTTP request with Authorization header
func CreateAuthenticatedRequest(method, url string, body any, token string) *http.Request {
	req := CreateJSONRequest(method, url, body)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
