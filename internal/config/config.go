package config

import (
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	NoteHubBaseURL string `mapstructure:"NOTEHUB_BASE_URL"`
	NoteHubToken   string `mapstructure:"NOTEHUB_TOKEN"`
	NotesPerPage   int    `mapstructure:"NOTES_PER_PAGE"`
	SearchDebounce int    `mapstructure:"SEARCH_DEBOUNCE_MS"`
	HTTPTimeoutSec int    `mapstructure:"HTTP_TIMEOUT_SEC"`
	CacheFreshSec  int    `mapstructure:"CACHE_FRESH_SEC"`
	CacheMaxItems  int    `mapstructure:"CACHE_MAX_ENTRIES"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`
	LogFormat      string `mapstructure:"LOG_FORMAT"`
	LogFile        string `mapstructure:"LOG_FILE"`
	LiveUpdates    bool   `mapstructure:"NOTEHUB_LIVE_UPDATES"`

	// devhub (local stand-in for the NoteHub API)
	DevHubPort          int    `mapstructure:"DEVHUB_PORT"`
	DevHubJWTSecret     string `mapstructure:"DEVHUB_JWT_SECRET"`
	DevHubSeedNotes     int    `mapstructure:"DEVHUB_SEED_NOTES"`
	DevHubRatePerMin    int    `mapstructure:"DEVHUB_RATE_PER_MIN"`
	WSMaxSessionSec     int    `mapstructure:"WS_MAX_SESSION_SEC"`
	WSOutboxBuffer      int    `mapstructure:"WS_OUTBOX_BUFFER"`
	SwaggerEnabled      bool   `mapstructure:"SWAGGER_ENABLED"`
	RouteMetricsEnabled bool   `mapstructure:"ROUTE_METRICS_ENABLED"`
	PyroscopeAddress    string `mapstructure:"PYROSCOPE_SERVER_ADDRESS"`
}

var (
	cachedConfig *Config
	configMutex  sync.RWMutex
)

// Load loads configuration from environment variables and .env file
// It caches the result for subsequent calls
func Load() (Config, error) {
	configMutex.RLock()
	if cachedConfig != nil {
		defer configMutex.RUnlock()
		return *cachedConfig, nil
	}
	configMutex.RUnlock()

	configMutex.Lock()
	defer configMutex.Unlock()

	if cachedConfig != nil {
		return *cachedConfig, nil
	}

	v := viper.New()

	v.SetDefault("NOTEHUB_BASE_URL", "https://notehub-public.goit.study/api")
	v.SetDefault("NOTEHUB_TOKEN", "")
	v.SetDefault("NOTES_PER_PAGE", 12)
	v.SetDefault("SEARCH_DEBOUNCE_MS", 500)
	v.SetDefault("HTTP_TIMEOUT_SEC", 10)
	v.SetDefault("CACHE_FRESH_SEC", 30)
	v.SetDefault("CACHE_MAX_ENTRIES", 64)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("NOTEHUB_LIVE_UPDATES", false)
	v.SetDefault("DEVHUB_PORT", 8080)
	v.SetDefault("DEVHUB_JWT_SECRET", "this-is-a-default-devhub-secret-with-32-plus-characters")
	v.SetDefault("DEVHUB_SEED_NOTES", 0)
	v.SetDefault("DEVHUB_RATE_PER_MIN", 600)
	v.SetDefault("WS_MAX_SESSION_SEC", 900)
	v.SetDefault("WS_OUTBOX_BUFFER", 64)
	v.SetDefault("SWAGGER_ENABLED", true)
	v.SetDefault("ROUTE_METRICS_ENABLED", true)
	v.SetDefault("PYROSCOPE_SERVER_ADDRESS", "")

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	// A missing .env file is fine, the environment may carry everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	cachedConfig = &cfg

	return cfg, nil
}

// ResetCache clears the cached configuration (for testing purposes)
func ResetCache() {
	configMutex.Lock()
	defer configMutex.Unlock()
	cachedConfig = nil
}

// Validate checks if required configuration fields are properly set.
// NOTEHUB_TOKEN is not checked here: the REST client refuses to send
// anything without it, and devhub does not need it at all.
func (c Config) Validate() error {
	if c.NoteHubBaseURL == "" {
		return ErrBaseURLEmpty
	}
	if c.NotesPerPage <= 0 || c.NotesPerPage > 100 {
		return ErrPerPageRange
	}
	if c.SearchDebounce <= 0 {
		return ErrDebounceRange
	}
	if c.HTTPTimeoutSec <= 0 {
		return ErrHTTPTimeoutRange
	}
	if c.CacheFreshSec < 0 {
		return ErrCacheFreshRange
	}
	if c.CacheMaxItems <= 0 {
		return ErrCacheMaxEntriesRange
	}
	if c.LogLevel == "" {
		return ErrLogLevelEmpty
	}
	if c.LogFormat == "" {
		return ErrLogFormatEmpty
	}
	if c.DevHubPort <= 0 || c.DevHubPort > 65535 {
		return ErrDevHubPortRange
	}
	if len(c.DevHubJWTSecret) < 32 {
		return ErrDevHubSecretTooShort
	}
	if c.DevHubSeedNotes < 0 {
		return ErrDevHubSeedRange
	}
	if c.WSMaxSessionSec <= 0 {
		return ErrWSMaxSessionRange
	}
	if c.WSOutboxBuffer <= 0 {
		return ErrWSOutboxBufferRange
	}
	return nil
}

// SearchDebounceInterval returns the quiet interval of the search box.
func (c Config) SearchDebounceInterval() time.Duration {
	return time.Duration(c.SearchDebounce) * time.Millisecond
}

// HTTPTimeout returns the per-request timeout of the REST client.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSec) * time.Second
}

// WSMaxSession returns how long devhub keeps a change stream open.
func (c Config) WSMaxSession() time.Duration {
	return time.Duration(c.WSMaxSessionSec) * time.Second
}

// CacheFreshFor returns how long a fetched page is served without refetching.
func (c Config) CacheFreshFor() time.Duration {
	return time.Duration(c.CacheFreshSec) * time.Second
}
