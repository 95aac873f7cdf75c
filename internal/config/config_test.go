package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------
// helpers
// -----------------------------------------------------------------------------

// baseValidConfig returns a fully-valid configuration object that callers
// can tweak inside table tests.
func baseValidConfig() Config {
	return Config{
		NoteHubBaseURL:      "https://notehub.example.test/api",
		NoteHubToken:        "token",
		NotesPerPage:        12,
		SearchDebounce:      500,
		HTTPTimeoutSec:      10,
		CacheFreshSec:       30,
		CacheMaxItems:       64,
		LogLevel:            "info",
		LogFormat:           "json",
		DevHubPort:          8080,
		DevHubJWTSecret:     "this-is-a-super-secret-jwt-key-with-32-plus-chars",
		DevHubRatePerMin:    600,
		WSMaxSessionSec:     900,
		WSOutboxBuffer:      64,
		RouteMetricsEnabled: true,
	}
}

// clearConfigEnvVars removes every environment variable that the Config loader
// consumes so each test starts with a clean slate.
func clearConfigEnvVars(t *testing.T) {
	t.Helper()

	for _, k := range []string{
		"NOTEHUB_BASE_URL",
		"NOTEHUB_TOKEN",
		"NOTES_PER_PAGE",
		"SEARCH_DEBOUNCE_MS",
		"HTTP_TIMEOUT_SEC",
		"CACHE_FRESH_SEC",
		"CACHE_MAX_ENTRIES",
		"LOG_LEVEL",
		"LOG_FORMAT",
		"LOG_FILE",
		"NOTEHUB_LIVE_UPDATES",
		"DEVHUB_PORT",
		"DEVHUB_JWT_SECRET",
		"DEVHUB_SEED_NOTES",
		"DEVHUB_RATE_PER_MIN",
		"WS_MAX_SESSION_SEC",
		"WS_OUTBOX_BUFFER",
		"SWAGGER_ENABLED",
		"ROUTE_METRICS_ENABLED",
		"PYROSCOPE_SERVER_ADDRESS",
	} {
		if err := os.Unsetenv(k); err != nil {
			t.Logf("warning: failed to unset %s: %v", k, err)
		}
	}
}

func TestConfigLoadDefaults(t *testing.T) {
	clearConfigEnvVars(t)
	ResetCache()
	t.Cleanup(ResetCache)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://notehub-public.goit.study/api", cfg.NoteHubBaseURL)
	assert.Equal(t, "", cfg.NoteHubToken) // no default token
	assert.Equal(t, 12, cfg.NotesPerPage)
	assert.Equal(t, 500*time.Millisecond, cfg.SearchDebounceInterval())
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout())
	assert.Equal(t, 30*time.Second, cfg.CacheFreshFor())
	assert.Equal(t, 64, cfg.CacheMaxItems)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "", cfg.LogFile)
	assert.Equal(t, 8080, cfg.DevHubPort)
	assert.Equal(t, 0, cfg.DevHubSeedNotes)
	assert.Equal(t, 600, cfg.DevHubRatePerMin)
	assert.True(t, cfg.RouteMetricsEnabled)
	assert.False(t, cfg.LiveUpdates)
	assert.Equal(t, 15*time.Minute, cfg.WSMaxSession())
	assert.Equal(t, 64, cfg.WSOutboxBuffer)
	assert.True(t, cfg.SwaggerEnabled)
}

func TestConfigLoadWithOverride(t *testing.T) {
	clearConfigEnvVars(t)
	ResetCache()
	t.Cleanup(ResetCache)

	t.Setenv("NOTEHUB_TOKEN", "secret-token")
	t.Setenv("NOTES_PER_PAGE", "20")
	t.Setenv("SEARCH_DEBOUNCE_MS", "250")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secret-token", cfg.NoteHubToken)
	assert.Equal(t, 20, cfg.NotesPerPage)
	assert.Equal(t, 250*time.Millisecond, cfg.SearchDebounceInterval())
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestConfigLoadRejectsInvalidEnv(t *testing.T) {
	clearConfigEnvVars(t)
	ResetCache()
	t.Cleanup(ResetCache)

	t.Setenv("NOTES_PER_PAGE", "0")

	_, err := Load()
	require.ErrorIs(t, err, ErrPerPageRange)
}

func TestConfigCaching(t *testing.T) {
	clearConfigEnvVars(t)
	ResetCache()
	t.Cleanup(ResetCache)

	cfg1, err := Load()
	require.NoError(t, err)

	// second call should hit the cache even though the env changed
	t.Setenv("NOTES_PER_PAGE", "30")
	cfg2, err := Load()
	require.NoError(t, err)

	assert.Equal(t, cfg1, cfg2)
}

// -----------------------------------------------------------------------------
// Validate() unit tests (table-driven)
// -----------------------------------------------------------------------------

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{
			name:   "valid config",
			modify: func(*Config) {},
		},
		{
			name:   "missing token is not a config error",
			modify: func(c *Config) { c.NoteHubToken = "" },
		},
		{
			name:    "empty base url",
			modify:  func(c *Config) { c.NoteHubBaseURL = "" },
			wantErr: ErrBaseURLEmpty,
		},
		{
			name:    "per page zero",
			modify:  func(c *Config) { c.NotesPerPage = 0 },
			wantErr: ErrPerPageRange,
		},
		{
			name:    "per page too high",
			modify:  func(c *Config) { c.NotesPerPage = 101 },
			wantErr: ErrPerPageRange,
		},
		{
			name:    "debounce zero",
			modify:  func(c *Config) { c.SearchDebounce = 0 },
			wantErr: ErrDebounceRange,
		},
		{
			name:    "http timeout zero",
			modify:  func(c *Config) { c.HTTPTimeoutSec = 0 },
			wantErr: ErrHTTPTimeoutRange,
		},
		{
			name:    "negative fresh window",
			modify:  func(c *Config) { c.CacheFreshSec = -1 },
			wantErr: ErrCacheFreshRange,
		},
		{
			name:    "zero cache entries",
			modify:  func(c *Config) { c.CacheMaxItems = 0 },
			wantErr: ErrCacheMaxEntriesRange,
		},
		{
			name:    "empty log level",
			modify:  func(c *Config) { c.LogLevel = "" },
			wantErr: ErrLogLevelEmpty,
		},
		{
			name:    "empty log format",
			modify:  func(c *Config) { c.LogFormat = "" },
			wantErr: ErrLogFormatEmpty,
		},
		{
			name:    "devhub port too high",
			modify:  func(c *Config) { c.DevHubPort = 70000 },
			wantErr: ErrDevHubPortRange,
		},
		{
			name:    "devhub secret too short",
			modify:  func(c *Config) { c.DevHubJWTSecret = "short" },
			wantErr: ErrDevHubSecretTooShort,
		},
		{
			name:    "negative seed count",
			modify:  func(c *Config) { c.DevHubSeedNotes = -5 },
			wantErr: ErrDevHubSeedRange,
		},
		{
			name:    "zero ws session",
			modify:  func(c *Config) { c.WSMaxSessionSec = 0 },
			wantErr: ErrWSMaxSessionRange,
		},
		{
			name:    "zero ws outbox",
			modify:  func(c *Config) { c.WSOutboxBuffer = 0 },
			wantErr: ErrWSOutboxBufferRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseValidConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
